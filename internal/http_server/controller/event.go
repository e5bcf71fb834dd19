// Package controller
package controller

import (
	"github.com/half-nothing/event-logistics/internal/interfaces/log"
	. "github.com/half-nothing/event-logistics/internal/interfaces/service"
	"github.com/labstack/echo/v4"
)

type EventControllerInterface interface {
	AddEvent(ctx echo.Context) error
	GetEvents(ctx echo.Context) error
	AddEventMember(ctx echo.Context) error
}

type EventController struct {
	logger  log.LoggerInterface
	service EventServiceInterface
}

func NewEventController(logger log.LoggerInterface, service EventServiceInterface) *EventController {
	return &EventController{
		logger:  logger,
		service: service,
	}
}

func (controller *EventController) AddEvent(ctx echo.Context) error {
	data := &RequestAddEvent{}
	if err := ctx.Bind(data); err != nil {
		controller.logger.ErrorF("EventController.AddEvent bind error: %v", err)
		return NewErrorResponse(ctx, &ErrLackParam)
	}
	data.JwtHeader = jwtHeader(ctx)
	data.Ip = ctx.RealIP()
	data.UserAgent = ctx.Request().UserAgent()
	return controller.service.AddEvent(data).Response(ctx)
}

func (controller *EventController) GetEvents(ctx echo.Context) error {
	data := &RequestGetEvents{}
	if err := ctx.Bind(data); err != nil {
		controller.logger.ErrorF("EventController.GetEvents bind error: %v", err)
		return NewErrorResponse(ctx, &ErrLackParam)
	}
	data.JwtHeader = jwtHeader(ctx)
	return controller.service.GetEvents(data).Response(ctx)
}

func (controller *EventController) AddEventMember(ctx echo.Context) error {
	data := &RequestAddEventMember{}
	if err := ctx.Bind(data); err != nil {
		controller.logger.ErrorF("EventController.AddEventMember bind error: %v", err)
		return NewErrorResponse(ctx, &ErrLackParam)
	}
	data.JwtHeader = jwtHeader(ctx)
	data.Ip = ctx.RealIP()
	data.UserAgent = ctx.Request().UserAgent()
	return controller.service.AddEventMember(data).Response(ctx)
}
