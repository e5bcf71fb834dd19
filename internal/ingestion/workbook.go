package ingestion

import (
	"bytes"
	"errors"
	"fmt"
	"mime"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/extrame/xls"
	"github.com/gabriel-vasile/mimetype"
	"github.com/xuri/excelize/v2"
)

const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypeXLS  = "application/vnd.ms-excel"
)

type CellKind int

const (
	CellEmpty CellKind = iota
	CellText
	CellNumber // 数值, 包括日期序列号
	CellDate   // 以ISO 8601保存的日期单元格
)

type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
	Date   time.Time
}

func TextCell(value string) Cell {
	if value == "" {
		return Cell{Kind: CellEmpty}
	}
	return Cell{Kind: CellText, Text: value}
}

func NumberCell(value float64) Cell { return Cell{Kind: CellNumber, Number: value} }

func DateCell(value time.Time) Cell { return Cell{Kind: CellDate, Date: value} }

// IsBlank 空单元格或只包含空白字符的文本
func (c Cell) IsBlank() bool {
	return c.Kind == CellEmpty || (c.Kind == CellText && strings.TrimSpace(c.Text) == "")
}

// Workbook 第一个工作表的全部行, 行内单元格按列顺序排列
type Workbook struct {
	Format   string
	Sheet    string
	Date1904 bool
	Rows     [][]Cell
}

// IsAcceptedContentType 只接受xlsx与xls两种声明类型, 忽略参数与大小写
func IsAcceptedContentType(declared string) bool {
	mediaType, _, err := mime.ParseMediaType(declared)
	if err != nil {
		return false
	}
	return mediaType == ContentTypeXLSX || mediaType == ContentTypeXLS
}

// DecodeWorkbook 声明类型只决定是否接受, 实际使用的解码器由文件内容决定
func DecodeWorkbook(content []byte, declaredType string) (*Workbook, error) {
	if !IsAcceptedContentType(declaredType) {
		return nil, ErrUnsupportedMediaType
	}
	if len(content) == 0 {
		return nil, &DecodeError{Err: errors.New("empty file")}
	}

	switch sniffContainer(content) {
	case "xlsx":
		return decodeXLSX(content)
	case "xls":
		return decodeXLS(content)
	default:
		return nil, &DecodeError{Err: fmt.Errorf("content is %s, not a spreadsheet", mimetype.Detect(content).String())}
	}
}

func sniffContainer(content []byte) string {
	for detected := mimetype.Detect(content); detected != nil; detected = detected.Parent() {
		switch {
		case detected.Is(ContentTypeXLSX), detected.Is("application/zip"):
			return "xlsx"
		case detected.Is(ContentTypeXLS), detected.Is("application/x-ole-storage"):
			return "xls"
		}
	}
	return ""
}

func decodeXLSX(content []byte) (*Workbook, error) {
	file, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, &DecodeError{Format: "xlsx", Err: err}
	}
	defer func() { _ = file.Close() }()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, &DecodeError{Format: "xlsx", Err: errors.New("workbook has no sheets")}
	}
	sheet := sheets[0]

	workbook := &Workbook{Format: "xlsx", Sheet: sheet}
	if props, err := file.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		workbook.Date1904 = *props.Date1904
	}

	rawRows, err := file.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &DecodeError{Format: "xlsx", Err: err}
	}

	workbook.Rows = make([][]Cell, 0, len(rawRows))
	for rowIndex, rawRow := range rawRows {
		row := make([]Cell, 0, len(rawRow))
		for colIndex, raw := range rawRow {
			if raw == "" {
				row = append(row, Cell{Kind: CellEmpty})
				continue
			}
			name, err := excelize.CoordinatesToCellName(colIndex+1, rowIndex+1)
			if err != nil {
				return nil, &DecodeError{Format: "xlsx", Err: err}
			}
			cellType, err := file.GetCellType(sheet, name)
			if err != nil {
				return nil, &DecodeError{Format: "xlsx", Err: err}
			}
			row = append(row, xlsxCell(cellType, raw))
		}
		workbook.Rows = append(workbook.Rows, row)
	}
	return workbook, nil
}

var isoDateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02"}

func xlsxCell(cellType excelize.CellType, raw string) Cell {
	switch cellType {
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		if value, err := strconv.ParseFloat(raw, 64); err == nil {
			return NumberCell(value)
		}
	case excelize.CellTypeDate:
		for _, layout := range isoDateLayouts {
			if value, err := time.Parse(layout, raw); err == nil {
				return DateCell(value)
			}
		}
	}
	return TextCell(raw)
}

func decodeXLS(content []byte) (workbook *Workbook, err error) {
	// 损坏的BIFF结构会让解析库panic
	defer func() {
		if r := recover(); r != nil {
			workbook = nil
			err = &DecodeError{Format: "xls", Err: fmt.Errorf("corrupt workbook: %v", r)}
		}
	}()

	book, err := xls.OpenReader(bytes.NewReader(content), "utf-8")
	if err != nil {
		return nil, &DecodeError{Format: "xls", Err: err}
	}
	if book == nil {
		return nil, &DecodeError{Format: "xls", Err: errors.New("no Workbook stream in container")}
	}
	if book.NumSheets() == 0 {
		return nil, &DecodeError{Format: "xls", Err: errors.New("workbook has no sheets")}
	}
	sheet := book.GetSheet(0)
	if sheet == nil {
		return nil, &DecodeError{Format: "xls", Err: errors.New("first sheet is unreadable")}
	}

	workbook = &Workbook{Format: "xls", Sheet: sheet.Name}
	workbook.Rows = make([][]Cell, 0, int(sheet.MaxRow)+1)
	for rowIndex := 0; rowIndex <= int(sheet.MaxRow); rowIndex++ {
		row := xlsRow(sheet, rowIndex)
		if row == nil {
			workbook.Rows = append(workbook.Rows, nil)
			continue
		}
		cells := make([]Cell, 0, row.LastCol())
		for colIndex := 0; colIndex < row.LastCol(); colIndex++ {
			cells = append(cells, xlsCell(row.Col(colIndex)))
		}
		workbook.Rows = append(workbook.Rows, cells)
	}
	return workbook, nil
}

// xlsRow 解析库在行不存在时会panic
func xlsRow(sheet *xls.WorkSheet, index int) (row *xls.Row) {
	defer func() {
		if r := recover(); r != nil {
			row = nil
		}
	}()
	return sheet.Row(index)
}

// xlsMonthDate 解析库对内置日期格式只渲染出年月, 例如 "2025.03"
var xlsMonthDate = regexp.MustCompile(`^\d{4}\.\d{2}$`)

// xlsCell 解析库把自定义日期格式的数值渲染成RFC3339, 内置日期格式渲染成年月, 其余数值渲染成十进制文本
func xlsCell(raw string) Cell {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Cell{Kind: CellEmpty}
	}
	if xlsMonthDate.MatchString(trimmed) {
		return TextCell(trimmed)
	}
	if value, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return NumberCell(value)
	}
	if value, err := time.Parse(time.RFC3339, trimmed); err == nil {
		return DateCell(value)
	}
	return TextCell(raw)
}
