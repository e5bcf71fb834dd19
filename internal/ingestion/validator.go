package ingestion

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/half-nothing/event-logistics/internal/interfaces/operation"
)

// RowError Row是表格中的行号, 表头为第1行
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// RowValidator 把一行数据转换为待写入的航班记录
type RowValidator struct {
	mapping  ColumnMapping
	location *time.Location
	date1904 bool
}

func NewRowValidator(mapping ColumnMapping, location *time.Location, date1904 bool) *RowValidator {
	if location == nil {
		location = time.UTC
	}
	return &RowValidator{mapping: mapping, location: location, date1904: date1904}
}

// IsBlankRow 全部单元格为空的行不算数据行
func IsBlankRow(row []Cell) bool {
	for _, cell := range row {
		if !cell.IsBlank() {
			return false
		}
	}
	return true
}

// Validate 收集一行中的全部问题, 任意一个问题都会使该行被跳过
func (v *RowValidator) Validate(rowNumber int, row []Cell) (*operation.FlightSchedule, *RowError) {
	var reasons []string

	required := func(field Field, name string) string {
		value := cellText(v.mapping.Cell(row, field))
		if value == "" {
			reasons = append(reasons, name+" is required")
		}
		return value
	}

	firstName := required(FieldFirstName, "first name")
	lastName := required(FieldLastName, "last name")
	flightNumber := required(FieldFlightNumber, "flight number")
	propertyName := required(FieldPropertyName, "property name")

	timestamp := func(dateField, clockField Field, name string) time.Time {
		date, dateErr := cellDate(v.mapping.Cell(row, dateField), v.date1904)
		if dateErr != nil {
			reasons = append(reasons, describe(name+" date", dateErr))
		}
		at, clockErr := cellClock(v.mapping.Cell(row, clockField))
		if clockErr != nil {
			reasons = append(reasons, describe(name+" time", clockErr))
		}
		if dateErr != nil || clockErr != nil {
			return time.Time{}
		}
		return combine(date, at, v.location)
	}

	arrival := timestamp(FieldArrivalDate, FieldArrivalTime, "arrival")
	departure := timestamp(FieldDepartureDate, FieldDepartureTime, "departure")

	if len(reasons) > 0 {
		return nil, &RowError{Row: rowNumber, Reason: strings.Join(reasons, "; ")}
	}

	return &operation.FlightSchedule{
		FirstName:                   firstName,
		LastName:                    lastName,
		FlightNumber:                flightNumber,
		PropertyName:                propertyName,
		ArrivalTime:                 arrival,
		DepartureTime:               departure,
		VehicleStandbyArrivalTime:   standbyText(v.mapping.Cell(row, FieldArrivalStandby)),
		VehicleStandbyDepartureTime: standbyText(v.mapping.Cell(row, FieldDepartureStandby)),
		Status:                      operation.FlightPending,
	}, nil
}

func describe(name string, err error) string {
	if errors.Is(err, errEmptyCell) {
		return name + " is required"
	}
	return fmt.Sprintf("%s %v", name, err)
}
