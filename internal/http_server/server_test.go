package http_server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/half-nothing/event-logistics/internal/base"
	"github.com/half-nothing/event-logistics/internal/database"
	"github.com/half-nothing/event-logistics/internal/http_server/realtime"
	"github.com/half-nothing/event-logistics/internal/ingestion"
	"github.com/half-nothing/event-logistics/internal/interfaces"
	"github.com/half-nothing/event-logistics/internal/interfaces/config"
	"github.com/half-nothing/event-logistics/internal/interfaces/operation"
	"github.com/half-nothing/event-logistics/internal/interfaces/service"
	"github.com/half-nothing/event-logistics/internal/metrics"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/driver/sqlite"
)

type staticConfigManager struct {
	config *config.Config
}

func (m *staticConfigManager) Config() *config.Config { return m.config }

func (m *staticConfigManager) SaveConfig() error { return nil }

type envelope struct {
	Success bool            `json:"success"`
	Code    string          `json:"code"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	echo       *echo.Echo
	hub        *realtime.Hub
	operations *operation.DatabaseOperations
	event      *operation.Event
	token      string
}

func newTestConfig(root string) *config.Config {
	return &config.Config{
		Database: &config.DatabaseConfig{
			DBType:               config.SQLite,
			Database:             filepath.Join(root, "test.db"),
			QueryDuration:        5 * time.Second,
			ConnectIdleDuration:  time.Hour,
			ServerMaxConnections: 4,
		},
		Server: &config.ServerConfig{
			General: &config.GeneralConfig{BcryptCost: 4},
			HttpServer: &config.HttpServerConfig{
				Enabled:         true,
				BodyLimit:       "10MB",
				RequestDuration: 5 * time.Second,
				EnableMetrics:   true,
				Store: &config.HttpServerStore{
					StoreType:      config.LocalStore,
					LocalStorePath: root,
					FileLimit: &config.HttpServerStoreFileLimits{
						WorkbookLimit: &config.HttpServerStoreFileLimit{
							MaxFileSize:    1 << 20,
							AllowedFileExt: []string{".xlsx", ".xls"},
							StorePrefix:    "workbooks",
							StoreInServer:  true,
							RootPath:       root,
						},
					},
				},
				Limits: &config.HttpServerLimit{
					RateLimit:         1000,
					RateLimitDuration: time.Minute,
					UsernameLengthMin: 4,
					UsernameLengthMax: 16,
					PasswordLengthMin: 6,
					PasswordLengthMax: 64,
					PageSizeMax:       100,
				},
				Email: &config.EmailConfig{},
				JWT: &config.JWTConfig{
					Secret:          "test-secret",
					ExpiresDuration: 15 * time.Minute,
					RefreshDuration: time.Hour,
				},
				SSL: &config.SSLConfig{},
			},
		},
		Ingestion: &config.IngestionConfig{Location: time.UTC, MaxRows: 100, ArchiveWorkbooks: true},
	}
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	root := t.TempDir()
	cfg := newTestConfig(root)
	logger := base.NewLoggerWithWriter(io.Discard, false)

	callback, operations, err := database.Connect(logger, cfg.Database, sqlite.Open(cfg.Database.Database), cfg.Server.General, false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = callback.Invoke(context.Background()) })

	cleaner := base.NewCleaner(logger)
	app := interfaces.NewApplicationContent(&staticConfigManager{config: cfg}, cleaner, logger, operations)

	hub := realtime.NewHub(logger)
	go hub.Run()
	t.Cleanup(hub.Stop)

	registry := prometheus.NewRegistry()
	server := &testServer{
		echo:       NewHttpServer(app, hub, metrics.NewMetrics(registry), registry),
		hub:        hub,
		operations: operations,
	}

	admin, err := operations.UserOperation().NewUser("admin", "", "password", operation.AllPermissions)
	require.NoError(t, err)
	require.NoError(t, operations.UserOperation().AddUser(admin))
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	server.event = operations.EventOperation().NewEvent("Summit", "Dubai", start, start.AddDate(0, 0, 3), admin.ID)
	require.NoError(t, operations.EventOperation().AddEvent(server.event))

	res, body := server.request(t, http.MethodPost, "/api/sessions", "", strings.NewReader(`{"username":"admin","password":"password"}`), echo.MIMEApplicationJSON)
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())
	var login service.ResponseUserLogin
	require.NoError(t, json.Unmarshal(body.Data, &login))
	server.token = login.Token
	return server
}

func (s *testServer) request(t *testing.T, method, path, token string, body io.Reader, contentType string) (*httptest.ResponseRecorder, *envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	result := &envelope{}
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), result))
	}
	return rec, result
}

func (s *testServer) upload(t *testing.T, eventId uint, content []byte) (*httptest.ResponseRecorder, *envelope) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	partHeader := textproto.MIMEHeader{}
	partHeader.Set("Content-Disposition", `form-data; name="file"; filename="flights.xlsx"`)
	partHeader.Set("Content-Type", ingestion.ContentTypeXLSX)
	part, err := writer.CreatePart(partHeader)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return s.request(t, http.MethodPost, fmt.Sprintf("/api/events/%d/flights/upload", eventId), s.token, body, writer.FormDataContentType())
}

func testWorkbook(t *testing.T) []byte {
	t.Helper()
	rows := [][]interface{}{
		{"First Name", "Last Name", "Flight Number", "Arrival Date", "Arrival Time", "Property Name",
			"Vehicle Standby", "Departure Date", "Departure Time", "Vehicle Standby"},
		{"Jane", "Doe", "EK001", "2025-03-01", "09:30", "Grand Hotel", "10:00", "2025-03-04", "18:45", "16:00"},
		{"John", "Doe", "", "2025-03-01", "09:30", "Grand Hotel", "10:00", "2025-03-04", "18:45", "16:00"},
	}
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

func TestProtectedRoutesRequireJwt(t *testing.T) {
	server := newTestServer(t)

	rec, body := server.request(t, http.MethodGet, "/api/events?page_number=1&page_size=10", "", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, service.ErrMissingOrMalformedJwt.StatusName, body.Code)

	rec, body = server.request(t, http.MethodGet, "/api/events?page_number=1&page_size=10", "not-a-token", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, service.ErrInvalidOrExpiredJwt.StatusName, body.Code)
}

func TestUploadAndUpdateFlightStatusOverHttp(t *testing.T) {
	server := newTestServer(t)

	rec, body := server.upload(t, server.event.ID, testWorkbook(t))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var uploaded service.ResponseUploadFlightSchedules
	require.NoError(t, json.Unmarshal(body.Data, &uploaded))
	assert.Equal(t, 1, uploaded.ProcessedRecords)
	assert.Equal(t, 1, uploaded.FailedRecords)
	require.Len(t, uploaded.Errors, 1)
	assert.Equal(t, 3, uploaded.Errors[0].Row)

	rec, body = server.request(t, http.MethodGet, fmt.Sprintf("/api/events/%d/flights?page_number=1&page_size=10", server.event.ID), server.token, nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var page service.ResponseGetFlightSchedules
	require.NoError(t, json.Unmarshal(body.Data, &page))
	require.Len(t, page.Items, 1)
	flight := page.Items[0]
	assert.Equal(t, "EK001", flight.FlightNumber)
	assert.Equal(t, operation.FlightPending, flight.Status)

	statusPath := fmt.Sprintf("/api/flights/%d/status", flight.ID)
	rec, _ = server.request(t, http.MethodPut, statusPath, server.token, strings.NewReader(`{"status":"Delay"}`), echo.MIMEApplicationJSON)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, body = server.request(t, http.MethodPut, statusPath, server.token, strings.NewReader(`{"status":"delayed"}`), echo.MIMEApplicationJSON)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, service.ErrInvalidFlightStatus.StatusName, body.Code)

	rec, body = server.request(t, http.MethodGet, fmt.Sprintf("/api/flights/%d", flight.ID), server.token, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var stored operation.FlightSchedule
	require.NoError(t, json.Unmarshal(body.Data, &stored))
	assert.Equal(t, operation.FlightDelay, stored.Status)

	rec, body = server.request(t, http.MethodGet, "/api/flights/9999", server.token, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, service.ErrFlightNotFound.StatusName, body.Code)

	rec, _ = server.request(t, http.MethodGet, "/api/audits?page_number=1&page_size=10", server.token, nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUploadRejectsUnknownEvent(t *testing.T) {
	server := newTestServer(t)

	rec, body := server.upload(t, server.event.ID+100, testWorkbook(t))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, service.ErrEventNotFound.StatusName, body.Code)
}

func TestDownloadTemplate(t *testing.T) {
	server := newTestServer(t)

	rec, _ := server.request(t, http.MethodGet, fmt.Sprintf("/api/events/%d/flights/template", server.event.ID), server.token, nil, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ingestion.ContentTypeXLSX, rec.Header().Get(echo.HeaderContentType))
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), ingestion.TemplateFileName)

	workbook, err := ingestion.DecodeWorkbook(rec.Body.Bytes(), ingestion.ContentTypeXLSX)
	require.NoError(t, err)
	require.NotEmpty(t, workbook.Rows)
	_, err = ingestion.MapColumns(workbook.Rows[0])
	assert.NoError(t, err)
}

func TestMetricsEndpoint(t *testing.T) {
	server := newTestServer(t)
	rec, _ := server.upload(t, server.event.ID, testWorkbook(t))
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = server.request(t, http.MethodGet, "/metrics", "", nil, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `logistics_uploads_total{result="accepted"} 1`)
	assert.Contains(t, rec.Body.String(), "logistics_rows_processed_total 1")
}

func TestStatusChangeIsPushedToWebsocketClients(t *testing.T) {
	server := newTestServer(t)
	rec, _ := server.upload(t, server.event.ID, testWorkbook(t))
	require.Equal(t, http.StatusOK, rec.Code)
	flights, _, err := server.operations.FlightScheduleOperation().GetFlightSchedules(server.event.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, flights, 1)

	httpServer := httptest.NewServer(server.echo)
	defer httpServer.Close()

	wsURL := "ws" + strings.TrimPrefix(httpServer.URL, "http") + "/api/ws"

	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?token="+server.token, nil)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	// 未加入该活动的普通用户不应收到推送
	outsider, err := server.operations.UserOperation().NewUser("outsider", "", "password", operation.FlightShowList)
	require.NoError(t, err)
	require.NoError(t, server.operations.UserOperation().AddUser(outsider))
	rec, body := server.request(t, http.MethodPost, "/api/sessions", "", strings.NewReader(`{"username":"outsider","password":"password"}`), echo.MIMEApplicationJSON)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var login service.ResponseUserLogin
	require.NoError(t, json.Unmarshal(body.Data, &login))
	outsiderConn, _, err := websocket.DefaultDialer.Dial(wsURL, http.Header{echo.HeaderAuthorization: {"Bearer " + login.Token}})
	require.NoError(t, err)
	defer func() { _ = outsiderConn.Close() }()

	require.Eventually(t, func() bool { return server.hub.ClientCount() == 2 }, 2*time.Second, 10*time.Millisecond)

	rec, _ = server.request(t, http.MethodPut, fmt.Sprintf("/api/flights/%d/status", flights[0].ID), server.token,
		strings.NewReader(`{"status":"Arrived"}`), echo.MIMEApplicationJSON)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var message struct {
		Type    string `json:"type"`
		EventId uint   `json:"event_id"`
		Payload struct {
			FlightId  uint   `json:"flight_id"`
			OldStatus string `json:"old_status"`
			NewStatus string `json:"new_status"`
		} `json:"payload"`
	}
	require.NoError(t, conn.ReadJSON(&message))
	assert.Equal(t, service.MessageFlightStatusChanged, message.Type)
	assert.Equal(t, server.event.ID, message.EventId)
	assert.Equal(t, flights[0].ID, message.Payload.FlightId)
	assert.Equal(t, "pending", message.Payload.OldStatus)
	assert.Equal(t, "Arrived", message.Payload.NewStatus)

	require.NoError(t, outsiderConn.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err = outsiderConn.ReadMessage()
	assert.Error(t, err)
}
