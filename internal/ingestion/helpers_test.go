package ingestion

import (
	"io"
	"testing"
	"time"

	"github.com/half-nothing/event-logistics/internal/base"
	"github.com/half-nothing/event-logistics/internal/interfaces/config"
	"github.com/half-nothing/event-logistics/internal/interfaces/operation"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type stubGateway struct {
	exists    bool
	existsErr error
	saveErr   error
	saveCalls int
	saved     []*operation.FlightSchedule
}

func (s *stubGateway) EventExists(_ uint) (bool, error) {
	return s.exists, s.existsErr
}

func (s *stubGateway) SaveFlightSchedules(flights []*operation.FlightSchedule) error {
	s.saveCalls++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append(s.saved, flights...)
	return nil
}

func newTestCoordinator(gateway *stubGateway, location *time.Location, maxRows int) *Coordinator {
	return NewCoordinator(
		base.NewLoggerWithWriter(io.Discard, false),
		&config.IngestionConfig{Location: location, MaxRows: maxRows},
		gateway,
		gateway,
	)
}

func canonicalRow() []interface{} {
	row := make([]interface{}, 0, fieldCount)
	for _, label := range CanonicalHeader() {
		row = append(row, label)
	}
	return row
}

// validRow 按标准表头顺序排列
func validRow(firstName, flightNumber string) []interface{} {
	return []interface{}{firstName, "Doe", flightNumber, "2025-03-01", "09:30", "Grand Hotel", "10:00", "2025-03-04", "18:45", "16:00"}
}

func buildWorkbook(t *testing.T, rows ...[]interface{}) []byte {
	t.Helper()
	file := excelize.NewFile()
	defer func() { _ = file.Close() }()
	for index, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, index+1)
		require.NoError(t, err)
		require.NoError(t, file.SetSheetRow("Sheet1", cell, &row))
	}
	buffer, err := file.WriteToBuffer()
	require.NoError(t, err)
	return buffer.Bytes()
}
