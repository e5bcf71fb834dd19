// Package service
package service

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/half-nothing/event-logistics/internal/ingestion"
	"github.com/half-nothing/event-logistics/internal/interfaces/config"
	"github.com/half-nothing/event-logistics/internal/interfaces/log"
	"github.com/half-nothing/event-logistics/internal/interfaces/operation"
	. "github.com/half-nothing/event-logistics/internal/interfaces/service"
	"github.com/half-nothing/event-logistics/internal/metrics"
)

type FlightScheduleService struct {
	logger            log.LoggerInterface
	config            *config.IngestionConfig
	validator         *Validator
	coordinator       *ingestion.Coordinator
	userOperation     operation.UserOperationInterface
	eventOperation    operation.EventOperationInterface
	flightOperation   operation.FlightScheduleOperationInterface
	auditLogOperation operation.AuditLogOperationInterface
	storeService      StoreServiceInterface
	emailService      EmailServiceInterface
	broadcaster       BroadcasterInterface
	metrics           *metrics.Metrics
}

func NewFlightScheduleService(
	logger log.LoggerInterface,
	config *config.IngestionConfig,
	validator *Validator,
	operations *operation.DatabaseOperations,
	storeService StoreServiceInterface,
	emailService EmailServiceInterface,
	broadcaster BroadcasterInterface,
	collector *metrics.Metrics,
) *FlightScheduleService {
	return &FlightScheduleService{
		logger:            logger,
		config:            config,
		validator:         validator,
		coordinator:       ingestion.NewCoordinator(logger, config, operations.EventOperation(), operations.FlightScheduleOperation()),
		userOperation:     operations.UserOperation(),
		eventOperation:    operations.EventOperation(),
		flightOperation:   operations.FlightScheduleOperation(),
		auditLogOperation: operations.AuditLogOperation(),
		storeService:      storeService,
		emailService:      emailService,
		broadcaster:       broadcaster,
		metrics:           collector,
	}
}

var (
	ErrWorkbookMediaType   = ApiStatus{StatusName: "UNSUPPORTED_MEDIA_TYPE", Description: "only xlsx and xls workbooks are accepted", HttpCode: UnsupportedMediaType}
	ErrWorkbookDecode      = ApiStatus{StatusName: "WORKBOOK_DECODE_ERROR", Description: "workbook could not be decoded", HttpCode: BadRequest}
	ErrWorkbookSchema      = ApiStatus{StatusName: "WORKBOOK_SCHEMA_ERROR", Description: "workbook is missing required columns", HttpCode: BadRequest}
	ErrWorkbookEmpty       = ApiStatus{StatusName: "WORKBOOK_EMPTY", Description: "workbook contains no data rows", HttpCode: BadRequest}
	ErrWorkbookTooManyRows = ApiStatus{StatusName: "WORKBOOK_TOO_MANY_ROWS", Description: "workbook contains too many data rows", HttpCode: BadRequest}
	ErrWorkbookRead        = ApiStatus{StatusName: "WORKBOOK_READ_ERROR", Description: "uploaded file could not be read", HttpCode: BadRequest}
	ErrFlightStoreFailed   = ApiStatus{StatusName: "FLIGHT_STORE_FAILED", Description: "failed to store flight schedules", HttpCode: ServerInternalError}
	SuccessUploadFlights   = ApiStatus{StatusName: "UPLOAD_FLIGHTS", Description: "workbook processed", HttpCode: Ok}
)

// resolveContentType 未声明或声明为octet-stream时按扩展名推断
func resolveContentType(declared, fileName string) string {
	if mediaType, _, err := mime.ParseMediaType(declared); err == nil && mediaType != "application/octet-stream" {
		return declared
	}
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".xlsx":
		return ingestion.ContentTypeXLSX
	case ".xls":
		return ingestion.ContentTypeXLS
	}
	return declared
}

// ingestionStatus 把中止类错误映射为响应状态
func ingestionStatus(err error) (*ApiStatus, bool) {
	var decodeErr *ingestion.DecodeError
	var schemaErr *ingestion.SchemaError
	var storageErr *ingestion.StorageError
	switch {
	case errors.Is(err, ingestion.ErrUnsupportedMediaType):
		return &ErrWorkbookMediaType, true
	case errors.Is(err, ingestion.ErrEventNotFound):
		return &ErrEventNotFound, false
	case errors.As(err, &decodeErr):
		return &ErrWorkbookDecode, true
	case errors.As(err, &schemaErr):
		return &ErrWorkbookSchema, true
	case errors.Is(err, ingestion.ErrNoDataRows):
		return &ErrWorkbookEmpty, true
	case errors.Is(err, ingestion.ErrTooManyRows):
		return &ErrWorkbookTooManyRows, true
	case errors.As(err, &storageErr):
		return &ErrFlightStoreFailed, false
	default:
		return &ErrDatabaseFail, false
	}
}

func (flightService *FlightScheduleService) UploadFlightSchedules(req *RequestUploadFlightSchedules) *ApiResponse[ResponseUploadFlightSchedules] {
	if res := CheckPermission[ResponseUploadFlightSchedules](req.Permission, operation.FlightUpload); res != nil {
		return res
	}
	if res, err := flightService.validator.CheckStruct(req); res != nil {
		return NewApiResponseWithError[ResponseUploadFlightSchedules](res, err, nil)
	}
	if res := CheckEventAccess[ResponseUploadFlightSchedules](flightService.eventOperation, req.EventId, req.JwtHeader); res != nil {
		return res
	}

	start := time.Now()
	reject := func(status *ApiStatus, err error) *ApiResponse[ResponseUploadFlightSchedules] {
		flightService.metrics.ObserveUpload(metrics.UploadRejected, 0, 0, time.Since(start))
		return NewApiResponseWithError[ResponseUploadFlightSchedules](status, err, nil)
	}

	contentType := resolveContentType(req.ContentType, req.File.Filename)
	if !ingestion.IsAcceptedContentType(contentType) {
		return reject(&ErrWorkbookMediaType, nil)
	}
	storeInfo, res := flightService.storeService.CheckWorkbook(req.File)
	if res != nil {
		return reject(res, nil)
	}
	content, err := readUpload(req)
	if err != nil {
		flightService.logger.WarnF("FlightScheduleService.UploadFlightSchedules read upload error: %v", err)
		return reject(&ErrWorkbookRead, nil)
	}

	result, err := flightService.coordinator.Ingest(req.EventId, content, contentType)
	if err != nil {
		status, showDetail := ingestionStatus(err)
		if showDetail {
			flightService.logger.DebugF("Workbook %s for event %d rejected: %v", req.File.Filename, req.EventId, err)
			return reject(status, err)
		}
		flightService.logger.ErrorF("FlightScheduleService.UploadFlightSchedules ingest error: %v", err)
		flightService.metrics.ObserveUpload(metrics.UploadFailed, 0, 0, time.Since(start))
		return NewApiResponse[ResponseUploadFlightSchedules](status, Unsatisfied, nil)
	}
	flightService.metrics.ObserveUpload(metrics.UploadAccepted, result.ProcessedRecords, result.FailedRecords, time.Since(start))

	batchId := uuid.NewString()
	flightService.logger.InfoF("Workbook %s (batch %s) for event %d: %d processed, %d failed",
		req.File.Filename, batchId, req.EventId, result.ProcessedRecords, result.FailedRecords)

	if flightService.config.ArchiveWorkbooks {
		if _, err := flightService.storeService.SaveWorkbook(storeInfo.Locate(req.EventId, batchId), content); err != nil {
			flightService.logger.ErrorF("Fail to archive workbook batch %s: %v", batchId, err)
		}
	}

	flightService.saveAuditLog(flightService.auditLogOperation.NewAuditLog(
		operation.FlightsUploaded,
		req.Uid,
		fmt.Sprintf("%d/%s", req.EventId, batchId),
		req.Ip,
		req.UserAgent,
		&operation.ChangeDetail{NewValue: fmt.Sprintf("processed=%d failed=%d", result.ProcessedRecords, result.FailedRecords)},
	))

	flightService.broadcaster.Broadcast(&BroadcastMessage{
		Type:    MessageFlightsUploaded,
		EventId: req.EventId,
		Payload: &FlightsUploadedPayload{
			BatchId:          batchId,
			ProcessedRecords: result.ProcessedRecords,
			FailedRecords:    result.FailedRecords,
		},
	})

	data := &ResponseUploadFlightSchedules{
		ProcessedRecords: result.ProcessedRecords,
		FailedRecords:    result.FailedRecords,
		Errors:           make([]RowErrorReport, 0, len(result.Errors)),
	}
	for _, rowErr := range result.Errors {
		data.Errors = append(data.Errors, RowErrorReport{Row: rowErr.Row, Reason: rowErr.Reason})
	}

	go flightService.sendReport(req.Uid, req.EventId, req.File.Filename, data)

	return NewApiResponse(&SuccessUploadFlights, Unsatisfied, data)
}

func readUpload(req *RequestUploadFlightSchedules) ([]byte, error) {
	file, err := req.File.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()
	return io.ReadAll(file)
}

func (flightService *FlightScheduleService) sendReport(uid, eventId uint, fileName string, data *ResponseUploadFlightSchedules) {
	user, err := flightService.userOperation.GetUserByUid(uid)
	if err != nil {
		flightService.logger.WarnF("Skip ingestion report, user %d: %v", uid, err)
		return
	}
	event, err := flightService.eventOperation.GetEventById(eventId)
	if err != nil {
		flightService.logger.WarnF("Skip ingestion report, event %d: %v", eventId, err)
		return
	}
	report := &IngestionReport{
		FileName:         fileName,
		ProcessedRecords: data.ProcessedRecords,
		FailedRecords:    data.FailedRecords,
		Errors:           data.Errors,
	}
	if err := flightService.emailService.SendIngestionReportEmail(user, event, report); err != nil {
		flightService.logger.ErrorF("Fail to send ingestion report to user %d: %v", uid, err)
	}
}

var (
	ErrTemplateGenerate = ApiStatus{StatusName: "TEMPLATE_GENERATE_ERROR", Description: "failed to generate template", HttpCode: ServerInternalError}
	SuccessGetTemplate  = ApiStatus{StatusName: "GET_FLIGHT_TEMPLATE", Description: "template generated", HttpCode: Ok}
)

func (flightService *FlightScheduleService) GetFlightTemplate(req *RequestFlightTemplate) *ApiResponse[ResponseFlightTemplate] {
	if res, err := flightService.validator.CheckStruct(req); res != nil {
		return NewApiResponseWithError[ResponseFlightTemplate](res, err, nil)
	}
	if res := CheckEventAccess[ResponseFlightTemplate](flightService.eventOperation, req.EventId, req.JwtHeader); res != nil {
		return res
	}
	buffer, err := ingestion.TemplateWorkbook()
	if err != nil {
		flightService.logger.ErrorF("FlightScheduleService.GetFlightTemplate generate error: %v", err)
		return NewApiResponse[ResponseFlightTemplate](&ErrTemplateGenerate, Unsatisfied, nil)
	}
	return NewApiResponse(&SuccessGetTemplate, Unsatisfied, &ResponseFlightTemplate{
		FileName:    ingestion.TemplateFileName,
		ContentType: ingestion.ContentTypeXLSX,
		Content:     buffer.Bytes(),
	})
}

var SuccessGetFlights = ApiStatus{StatusName: "GET_FLIGHT_PAGE", Description: "flight schedule page fetched", HttpCode: Ok}

func (flightService *FlightScheduleService) GetFlightSchedules(req *RequestGetFlightSchedules) *ApiResponse[ResponseGetFlightSchedules] {
	if res := CheckPermission[ResponseGetFlightSchedules](req.Permission, operation.FlightShowList); res != nil {
		return res
	}
	if res, err := flightService.validator.CheckStruct(req); res != nil {
		return NewApiResponseWithError[ResponseGetFlightSchedules](res, err, nil)
	}
	if res := flightService.validator.CheckPage(req.PageArguments); res != nil {
		return NewApiResponse[ResponseGetFlightSchedules](res, Unsatisfied, nil)
	}
	if res := CheckEventAccess[ResponseGetFlightSchedules](flightService.eventOperation, req.EventId, req.JwtHeader); res != nil {
		return res
	}
	flights, total, err := flightService.flightOperation.GetFlightSchedules(req.EventId, req.Page, req.PageSize)
	if err != nil {
		flightService.logger.ErrorF("FlightScheduleService.GetFlightSchedules query error: %v", err)
		return NewApiResponse[ResponseGetFlightSchedules](&ErrDatabaseFail, Unsatisfied, nil)
	}
	return NewApiResponse(&SuccessGetFlights, Unsatisfied, &ResponseGetFlightSchedules{
		Items:    flights,
		Page:     req.Page,
		PageSize: req.PageSize,
		Total:    total,
	})
}

var SuccessGetFlight = ApiStatus{StatusName: "GET_FLIGHT", Description: "flight schedule fetched", HttpCode: Ok}

func (flightService *FlightScheduleService) GetFlightSchedule(req *RequestGetFlightSchedule) *ApiResponse[ResponseGetFlightSchedule] {
	if res := CheckPermission[ResponseGetFlightSchedule](req.Permission, operation.FlightShowList); res != nil {
		return res
	}
	if res, err := flightService.validator.CheckStruct(req); res != nil {
		return NewApiResponseWithError[ResponseGetFlightSchedule](res, err, nil)
	}
	flight, res := CallDBFuncAndCheckError[operation.FlightSchedule, ResponseGetFlightSchedule](func() (*operation.FlightSchedule, error) {
		return flightService.flightOperation.GetFlightScheduleById(req.FlightId)
	})
	if res != nil {
		return res
	}
	if res := CheckEventAccess[ResponseGetFlightSchedule](flightService.eventOperation, flight.EventId, req.JwtHeader); res != nil {
		return res
	}
	return NewApiResponse(&SuccessGetFlight, Unsatisfied, (*ResponseGetFlightSchedule)(flight))
}

var SuccessUpdateFlightStatus = ApiStatus{StatusName: "UPDATE_FLIGHT_STATUS", Description: "flight status updated", HttpCode: Ok}

// UpdateFlightStatus 状态先于记录存在性检查, 非法状态不会触发任何读写
func (flightService *FlightScheduleService) UpdateFlightStatus(req *RequestUpdateFlightStatus) *ApiResponse[ResponseUpdateFlightStatus] {
	if res := CheckPermission[ResponseUpdateFlightStatus](req.Permission, operation.FlightEditStatus); res != nil {
		return res
	}
	if res, err := flightService.validator.CheckStruct(req); res != nil {
		return NewApiResponseWithError[ResponseUpdateFlightStatus](res, err, nil)
	}
	status := operation.FlightStatus(req.Status)

	flight, res := CallDBFuncAndCheckError[operation.FlightSchedule, ResponseUpdateFlightStatus](func() (*operation.FlightSchedule, error) {
		return flightService.flightOperation.GetFlightScheduleById(req.FlightId)
	})
	if res != nil {
		return res
	}
	if res := CheckEventAccess[ResponseUpdateFlightStatus](flightService.eventOperation, flight.EventId, req.JwtHeader); res != nil {
		return res
	}

	oldStatus := flight.Status
	if _, res := CallDBFuncAndCheckError[interface{}, ResponseUpdateFlightStatus](func() (*interface{}, error) {
		return nil, flightService.flightOperation.UpdateFlightStatus(flight, status)
	}); res != nil {
		return res
	}
	flightService.metrics.ObserveStatusUpdate(status.String())

	flightService.saveAuditLog(flightService.auditLogOperation.NewAuditLog(
		operation.FlightStatusChanged,
		req.Uid,
		fmt.Sprintf("%d", flight.ID),
		req.Ip,
		req.UserAgent,
		&operation.ChangeDetail{OldValue: oldStatus.String(), NewValue: status.String()},
	))

	flightService.broadcaster.Broadcast(&BroadcastMessage{
		Type:    MessageFlightStatusChanged,
		EventId: flight.EventId,
		Payload: &FlightStatusChangedPayload{
			FlightId:  flight.ID,
			OldStatus: oldStatus,
			NewStatus: status,
			ChangedBy: req.Uid,
		},
	})

	return NewApiResponse(&SuccessUpdateFlightStatus, Unsatisfied, (*ResponseUpdateFlightStatus)(flight))
}

func (flightService *FlightScheduleService) saveAuditLog(auditLog *operation.AuditLog) {
	if err := flightService.auditLogOperation.SaveAuditLog(auditLog); err != nil {
		flightService.logger.ErrorF("Fail to create audit log for %s, detail: %v", auditLog.EventType, err)
	}
}
