package service

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/half-nothing/event-logistics/internal/base"
	"github.com/half-nothing/event-logistics/internal/database"
	"github.com/half-nothing/event-logistics/internal/ingestion"
	"github.com/half-nothing/event-logistics/internal/interfaces/config"
	"github.com/half-nothing/event-logistics/internal/interfaces/log"
	"github.com/half-nothing/event-logistics/internal/interfaces/operation"
	. "github.com/half-nothing/event-logistics/internal/interfaces/service"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gopkg.in/gomail.v2"
	"gorm.io/driver/sqlite"
)

type fakeBroadcaster struct {
	mu       sync.Mutex
	messages []*BroadcastMessage
}

func (f *fakeBroadcaster) Broadcast(message *BroadcastMessage) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, message)
}

func (f *fakeBroadcaster) Messages() []*BroadcastMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*BroadcastMessage(nil), f.messages...)
}

type fakeMailSender struct {
	mu       sync.Mutex
	messages []*gomail.Message
	err      error
}

func (f *fakeMailSender) DialAndSend(messages ...*gomail.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, messages...)
	return f.err
}

func (f *fakeMailSender) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.messages)
}

func testLogger() log.LoggerInterface {
	return base.NewLoggerWithWriter(io.Discard, false)
}

func newTestOperations(t *testing.T) *operation.DatabaseOperations {
	t.Helper()
	dbConfig := &config.DatabaseConfig{
		DBType:               config.SQLite,
		Database:             filepath.Join(t.TempDir(), "test.db"),
		QueryDuration:        5 * time.Second,
		ConnectIdleDuration:  time.Hour,
		ServerMaxConnections: 4,
	}
	callback, operations, err := database.Connect(
		testLogger(),
		dbConfig,
		sqlite.Open(dbConfig.Database),
		&config.GeneralConfig{BcryptCost: 4},
		false,
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = callback.Invoke(context.Background()) })
	return operations
}

func newTestValidator() *Validator {
	return NewValidator(&config.HttpServerLimit{
		UsernameLengthMin: 4,
		UsernameLengthMax: 16,
		PasswordLengthMin: 6,
		PasswordLengthMax: 64,
		PageSizeMax:       100,
	})
}

func createUser(t *testing.T, operations *operation.DatabaseOperations, username string, permission operation.Permission) *operation.User {
	t.Helper()
	user, err := operations.UserOperation().NewUser(username, username+"@example.com", "password", permission)
	require.NoError(t, err)
	require.NoError(t, operations.UserOperation().AddUser(user))
	return user
}

func createEvent(t *testing.T, operations *operation.DatabaseOperations, owner *operation.User) *operation.Event {
	t.Helper()
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	event := operations.EventOperation().NewEvent("Summit", "Dubai", start, start.AddDate(0, 0, 3), owner.ID)
	require.NoError(t, operations.EventOperation().AddEvent(event))
	return event
}

func createFlight(t *testing.T, operations *operation.DatabaseOperations, eventId uint, flightNumber string) *operation.FlightSchedule {
	t.Helper()
	flight := operations.FlightScheduleOperation().NewFlightSchedule(eventId)
	flight.FirstName = "Jane"
	flight.LastName = "Doe"
	flight.FlightNumber = flightNumber
	flight.PropertyName = "Grand Hotel"
	flight.ArrivalTime = time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	flight.DepartureTime = time.Date(2025, 3, 4, 18, 45, 0, 0, time.UTC)
	require.NoError(t, operations.FlightScheduleOperation().SaveFlightSchedules([]*operation.FlightSchedule{flight}))
	return flight
}

func headerOf(user *operation.User) JwtHeader {
	return JwtHeader{Uid: user.ID, Permission: int64(user.Permission)}
}

func auditLogsOf(t *testing.T, operations *operation.DatabaseOperations, eventType operation.EventType) []*operation.AuditLog {
	t.Helper()
	logs, _, err := operations.AuditLogOperation().GetAuditLogs(1, 100)
	require.NoError(t, err)
	result := make([]*operation.AuditLog, 0)
	for _, auditLog := range logs {
		if auditLog.EventType == string(eventType) {
			result = append(result, auditLog)
		}
	}
	return result
}

func headerRow() []interface{} {
	row := make([]interface{}, 0)
	for _, label := range ingestion.CanonicalHeader() {
		row = append(row, label)
	}
	return row
}

func flightRow(firstName, flightNumber, arrivalDate string) []interface{} {
	return []interface{}{firstName, "Doe", flightNumber, arrivalDate, "09:30", "Grand Hotel", "10:00", "2025-03-04", "18:45", "16:00"}
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

// newFileHeader 通过真实的multipart请求得到FileHeader
func newFileHeader(t *testing.T, fileName string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	request := httptest.NewRequest(http.MethodPost, "/", body)
	request.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, request.ParseMultipartForm(1<<20))
	return request.MultipartForm.File["file"][0]
}
