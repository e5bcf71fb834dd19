// Package ingestion 解析航班行程表格并批量写入航班记录
package ingestion

import (
	"fmt"
	"time"

	"github.com/half-nothing/event-logistics/internal/interfaces/config"
	"github.com/half-nothing/event-logistics/internal/interfaces/log"
	"github.com/half-nothing/event-logistics/internal/interfaces/operation"
)

type EventGateway interface {
	EventExists(id uint) (exists bool, err error)
}

type FlightGateway interface {
	SaveFlightSchedules(flights []*operation.FlightSchedule) (err error)
}

// Result 每个数据行只会出现在写入的记录或Errors之一中
type Result struct {
	ProcessedRecords int                         `json:"processedRecords"`
	FailedRecords    int                         `json:"failedRecords"`
	Errors           []RowError                  `json:"errors"`
	Flights          []*operation.FlightSchedule `json:"-"`
	Format           string                      `json:"-"`
}

type Coordinator struct {
	logger   log.LoggerInterface
	events   EventGateway
	flights  FlightGateway
	location *time.Location
	maxRows  int
}

func NewCoordinator(
	logger log.LoggerInterface,
	config *config.IngestionConfig,
	events EventGateway,
	flights FlightGateway,
) *Coordinator {
	location := config.Location
	if location == nil {
		location = time.UTC
	}
	return &Coordinator{
		logger:   logger,
		events:   events,
		flights:  flights,
		location: location,
		maxRows:  config.MaxRows,
	}
}

// Ingest 依次完成活动检查, 解码, 表头映射, 逐行校验与一次批量写入.
// 返回错误时数据库中不会有任何新记录.
func (c *Coordinator) Ingest(eventId uint, content []byte, contentType string) (*Result, error) {
	exists, err := c.events.EventExists(eventId)
	if err != nil {
		return nil, fmt.Errorf("checking event %d: %w", eventId, err)
	}
	if !exists {
		return nil, ErrEventNotFound
	}

	workbook, err := DecodeWorkbook(content, contentType)
	if err != nil {
		return nil, err
	}

	var header []Cell
	if len(workbook.Rows) > 0 {
		header = workbook.Rows[0]
	}
	mapping, err := MapColumns(header)
	if err != nil {
		return nil, err
	}

	type dataRow struct {
		number int
		cells  []Cell
	}
	rows := make([]dataRow, 0, len(workbook.Rows))
	for index := 1; index < len(workbook.Rows); index++ {
		if IsBlankRow(workbook.Rows[index]) {
			continue
		}
		rows = append(rows, dataRow{number: index + 1, cells: workbook.Rows[index]})
	}
	if len(rows) == 0 {
		return nil, ErrNoDataRows
	}
	if c.maxRows > 0 && len(rows) > c.maxRows {
		return nil, fmt.Errorf("%w: %d rows, limit is %d", ErrTooManyRows, len(rows), c.maxRows)
	}

	validator := NewRowValidator(mapping, c.location, workbook.Date1904)
	result := &Result{
		Errors:  make([]RowError, 0),
		Flights: make([]*operation.FlightSchedule, 0, len(rows)),
		Format:  workbook.Format,
	}
	for _, row := range rows {
		flight, rowErr := validator.Validate(row.number, row.cells)
		if rowErr != nil {
			result.Errors = append(result.Errors, *rowErr)
			continue
		}
		flight.EventId = eventId
		result.Flights = append(result.Flights, flight)
	}

	if len(result.Flights) > 0 {
		if err := c.flights.SaveFlightSchedules(result.Flights); err != nil {
			return nil, &StorageError{Rows: len(result.Flights), Err: err}
		}
	}

	result.ProcessedRecords = len(result.Flights)
	result.FailedRecords = len(result.Errors)
	c.logger.DebugF("Ingested %s workbook for event %d: %d processed, %d failed",
		workbook.Format, eventId, result.ProcessedRecords, result.FailedRecords)
	return result, nil
}
