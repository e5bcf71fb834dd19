package ingestion

import (
	"strings"
)

// Field 表格中的逻辑字段
type Field int

const (
	FieldFirstName Field = iota
	FieldLastName
	FieldFlightNumber
	FieldArrivalDate
	FieldArrivalTime
	FieldPropertyName
	FieldArrivalStandby
	FieldDepartureDate
	FieldDepartureTime
	FieldDepartureStandby
	fieldCount
)

const standbyLabel = "Vehicle Standby"

// canonicalHeader 模板表头, 下标与Field一一对应
var canonicalHeader = [fieldCount]string{
	"First Name",
	"Last Name",
	"Flight Number",
	"Arrival Date",
	"Arrival Time",
	"Property Name",
	standbyLabel,
	"Departure Date",
	"Departure Time",
	standbyLabel,
}

func CanonicalHeader() []string {
	header := make([]string, 0, fieldCount)
	return append(header, canonicalHeader[:]...)
}

// String 两个待命列同名, 用括号区分
func (f Field) String() string {
	switch f {
	case FieldArrivalStandby:
		return standbyLabel + " (arrival)"
	case FieldDepartureStandby:
		return standbyLabel + " (departure)"
	}
	if f < 0 || f >= fieldCount {
		return "Unknown"
	}
	return canonicalHeader[f]
}

func normalizeLabel(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

var labelToField = func() map[string]Field {
	fields := make(map[string]Field, fieldCount)
	for field := Field(0); field < fieldCount; field++ {
		if field == FieldArrivalStandby || field == FieldDepartureStandby {
			continue
		}
		fields[normalizeLabel(canonicalHeader[field])] = field
	}
	return fields
}()

// ColumnMapping 每个字段所在的列下标
type ColumnMapping [fieldCount]int

// Cell 行长度不足时视为空单元格
func (m ColumnMapping) Cell(row []Cell, field Field) Cell {
	index := m[field]
	if index < 0 || index >= len(row) {
		return Cell{Kind: CellEmpty}
	}
	return row[index]
}

// MapColumns 表头大小写不敏感, 忽略未知列, 重复的非待命列以第一次出现为准.
// 第一个 Vehicle Standby 是到达待命, 第二个是离开待命.
func MapColumns(header []Cell) (ColumnMapping, error) {
	var mapping ColumnMapping
	for i := range mapping {
		mapping[i] = -1
	}

	standby := normalizeLabel(standbyLabel)
	for position, cell := range header {
		label := normalizeLabel(cellText(cell))
		if label == "" {
			continue
		}
		if label == standby {
			switch {
			case mapping[FieldArrivalStandby] < 0:
				mapping[FieldArrivalStandby] = position
			case mapping[FieldDepartureStandby] < 0:
				mapping[FieldDepartureStandby] = position
			}
			continue
		}
		if field, ok := labelToField[label]; ok && mapping[field] < 0 {
			mapping[field] = position
		}
	}

	var missing []string
	for field := Field(0); field < fieldCount; field++ {
		if mapping[field] < 0 {
			missing = append(missing, field.String())
		}
	}
	if len(missing) > 0 {
		return mapping, &SchemaError{Missing: missing}
	}
	return mapping, nil
}
