// Package service
package service

import (
	"fmt"

	"github.com/half-nothing/event-logistics/internal/interfaces/log"
	"github.com/half-nothing/event-logistics/internal/interfaces/operation"
	. "github.com/half-nothing/event-logistics/internal/interfaces/service"
)

type EventService struct {
	logger            log.LoggerInterface
	validator         *Validator
	userOperation     operation.UserOperationInterface
	eventOperation    operation.EventOperationInterface
	auditLogOperation operation.AuditLogOperationInterface
}

func NewEventService(
	logger log.LoggerInterface,
	validator *Validator,
	userOperation operation.UserOperationInterface,
	eventOperation operation.EventOperationInterface,
	auditLogOperation operation.AuditLogOperationInterface,
) *EventService {
	return &EventService{
		logger:            logger,
		validator:         validator,
		userOperation:     userOperation,
		eventOperation:    eventOperation,
		auditLogOperation: auditLogOperation,
	}
}

var SuccessAddEvent = ApiStatus{StatusName: "ADD_EVENT", Description: "event created", HttpCode: Ok}

func (eventService *EventService) AddEvent(req *RequestAddEvent) *ApiResponse[ResponseAddEvent] {
	if res := CheckPermission[ResponseAddEvent](req.Permission, operation.EventCreate); res != nil {
		return res
	}
	if res, err := eventService.validator.CheckStruct(req); res != nil {
		return NewApiResponseWithError[ResponseAddEvent](res, err, nil)
	}

	event := eventService.eventOperation.NewEvent(req.Name, req.Location, req.StartDate, req.EndDate, req.Uid)
	if _, res := CallDBFuncAndCheckError[interface{}, ResponseAddEvent](func() (*interface{}, error) {
		return nil, eventService.eventOperation.AddEvent(event)
	}); res != nil {
		return res
	}

	eventService.saveAuditLog(eventService.auditLogOperation.NewAuditLog(
		operation.EventCreated,
		req.Uid,
		fmt.Sprintf("%d", event.ID),
		req.Ip,
		req.UserAgent,
		nil,
	))

	return NewApiResponse(&SuccessAddEvent, Unsatisfied, (*ResponseAddEvent)(event))
}

var SuccessGetEvents = ApiStatus{StatusName: "GET_EVENT_PAGE", Description: "event page fetched", HttpCode: Ok}

// GetEvents 只返回调用者所属的活动
func (eventService *EventService) GetEvents(req *RequestGetEvents) *ApiResponse[ResponseGetEvents] {
	if res := eventService.validator.CheckPage(req.PageArguments); res != nil {
		return NewApiResponse[ResponseGetEvents](res, Unsatisfied, nil)
	}
	events, total, err := eventService.eventOperation.GetEventsByMember(req.Uid, req.Page, req.PageSize)
	if err != nil {
		eventService.logger.ErrorF("EventService.GetEvents query error: %v", err)
		return NewApiResponse[ResponseGetEvents](&ErrDatabaseFail, Unsatisfied, nil)
	}
	return NewApiResponse(&SuccessGetEvents, Unsatisfied, &ResponseGetEvents{
		Items:    events,
		Page:     req.Page,
		PageSize: req.PageSize,
		Total:    total,
	})
}

var SuccessAddEventMember = ApiStatus{StatusName: "ADD_EVENT_MEMBER", Description: "user associated with event", HttpCode: Ok}

func (eventService *EventService) AddEventMember(req *RequestAddEventMember) *ApiResponse[ResponseAddEventMember] {
	if res := CheckPermission[ResponseAddEventMember](req.Permission, operation.EventEditMember); res != nil {
		return res
	}
	if res, err := eventService.validator.CheckStruct(req); res != nil {
		return NewApiResponseWithError[ResponseAddEventMember](res, err, nil)
	}
	if res := CheckEventAccess[ResponseAddEventMember](eventService.eventOperation, req.EventId, req.JwtHeader); res != nil {
		return res
	}

	if _, res := CallDBFuncAndCheckError[interface{}, ResponseAddEventMember](func() (*interface{}, error) {
		return nil, eventService.eventOperation.AddMember(req.EventId, req.UserId)
	}); res != nil {
		return res
	}

	eventService.saveAuditLog(eventService.auditLogOperation.NewAuditLog(
		operation.EventMemberAdded,
		req.Uid,
		fmt.Sprintf("%d", req.EventId),
		req.Ip,
		req.UserAgent,
		&operation.ChangeDetail{NewValue: fmt.Sprintf("%d", req.UserId)},
	))

	data := ResponseAddEventMember(true)
	return NewApiResponse(&SuccessAddEventMember, Unsatisfied, &data)
}

func (eventService *EventService) saveAuditLog(auditLog *operation.AuditLog) {
	if err := eventService.auditLogOperation.SaveAuditLog(auditLog); err != nil {
		eventService.logger.ErrorF("Fail to create audit log for %s, detail: %v", auditLog.EventType, err)
	}
}
