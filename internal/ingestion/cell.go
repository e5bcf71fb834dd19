package ingestion

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

var (
	errEmptyCell      = errors.New("is required")
	errUnknownVariant = errors.New("unsupported cell value")
)

// civilDate 不带时区的日历日期
type civilDate struct {
	year  int
	month time.Month
	day   int
}

// clock 一天中的时刻
type clock struct {
	hour, minute, second int
}

var textDateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"2-Jan-2006",
	"02-Jan-2006",
	"2 Jan 2006",
	"January 2, 2006",
	"Jan 2, 2006",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

var textClockLayouts = []string{
	"15:04",
	"15:04:05",
	"3:04 PM",
	"3:04PM",
	"3:04:05 PM",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// cellText 文本字段, 数值按最短十进制形式渲染
func cellText(cell Cell) string {
	switch cell.Kind {
	case CellText:
		return strings.TrimSpace(cell.Text)
	case CellNumber:
		return strconv.FormatFloat(cell.Number, 'f', -1, 64)
	case CellDate:
		return cell.Date.Format(time.DateOnly)
	default:
		return ""
	}
}

// cellDate 数值按表格日期序列号处理, 只取整数部分.
// 文本必须是可识别的日期格式, 数字文本不当作序列号.
func cellDate(cell Cell, date1904 bool) (civilDate, error) {
	switch cell.Kind {
	case CellEmpty:
		return civilDate{}, errEmptyCell
	case CellDate:
		return civilDate{cell.Date.Year(), cell.Date.Month(), cell.Date.Day()}, nil
	case CellNumber:
		return serialDate(cell.Number, date1904)
	case CellText:
		text := strings.TrimSpace(cell.Text)
		if text == "" {
			return civilDate{}, errEmptyCell
		}
		for _, layout := range textDateLayouts {
			if value, err := time.Parse(layout, text); err == nil {
				return civilDate{value.Year(), value.Month(), value.Day()}, nil
			}
		}
		return civilDate{}, fmt.Errorf("%q is not a valid date", text)
	default:
		return civilDate{}, errUnknownVariant
	}
}

func serialDate(serial float64, date1904 bool) (civilDate, error) {
	if serial < 1 || math.IsNaN(serial) || math.IsInf(serial, 0) {
		return civilDate{}, fmt.Errorf("%v is not a valid date serial", serial)
	}
	value, err := excelize.ExcelDateToTime(math.Floor(serial), date1904)
	if err != nil {
		return civilDate{}, fmt.Errorf("%v is not a valid date serial", serial)
	}
	return civilDate{value.Year(), value.Month(), value.Day()}, nil
}

// cellClock 数值只取小数部分, 即一天中经过的比例.
// 文本必须是可识别的时刻格式.
func cellClock(cell Cell) (clock, error) {
	switch cell.Kind {
	case CellEmpty:
		return clock{}, errEmptyCell
	case CellDate:
		return clock{cell.Date.Hour(), cell.Date.Minute(), cell.Date.Second()}, nil
	case CellNumber:
		// 大于等于1的整数只可能是日期或普通数字, 不是时刻
		if cell.Number >= 1 && cell.Number == math.Trunc(cell.Number) {
			return clock{}, fmt.Errorf("%v is not a valid time", cell.Number)
		}
		return fractionClock(cell.Number)
	case CellText:
		text := strings.TrimSpace(cell.Text)
		if text == "" {
			return clock{}, errEmptyCell
		}
		upper := strings.ToUpper(text)
		for _, layout := range textClockLayouts {
			if value, err := time.Parse(layout, upper); err == nil {
				return clock{value.Hour(), value.Minute(), value.Second()}, nil
			}
		}
		return clock{}, fmt.Errorf("%q is not a valid time", text)
	default:
		return clock{}, errUnknownVariant
	}
}

func fractionClock(number float64) (clock, error) {
	if number < 0 || math.IsNaN(number) || math.IsInf(number, 0) {
		return clock{}, fmt.Errorf("%v is not a valid time", number)
	}
	_, fraction := math.Modf(number)
	seconds := int(math.Round(fraction * 86400))
	// 四舍五入到86400秒时停在当天最后一秒, 日期部分由日期列决定, 不进位
	if seconds >= 86400 {
		seconds = 86399
	}
	return clock{seconds / 3600, seconds % 3600 / 60, seconds % 60}, nil
}

func combine(date civilDate, at clock, location *time.Location) time.Time {
	return time.Date(date.year, date.month, date.day, at.hour, at.minute, at.second, 0, location)
}

// standbyText 车辆待命时间只做展示, 数值形式的时刻渲染为HH:MM
func standbyText(cell Cell) string {
	switch cell.Kind {
	case CellText:
		return strings.TrimSpace(cell.Text)
	case CellDate:
		return cell.Date.Format("15:04")
	case CellNumber:
		fractional := cell.Number != math.Trunc(cell.Number)
		if cell.Number >= 0 && (fractional || cell.Number == 0) {
			if at, err := fractionClock(cell.Number); err == nil {
				return fmt.Sprintf("%02d:%02d", at.hour, at.minute)
			}
		}
		return strconv.FormatFloat(cell.Number, 'f', -1, 64)
	default:
		return ""
	}
}
