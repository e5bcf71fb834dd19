// Package controller
package controller

import (
	"fmt"
	"net/http"

	"github.com/half-nothing/event-logistics/internal/interfaces/log"
	. "github.com/half-nothing/event-logistics/internal/interfaces/service"
	"github.com/half-nothing/event-logistics/internal/utils"
	"github.com/labstack/echo/v4"
)

type FlightScheduleControllerInterface interface {
	UploadFlightSchedules(ctx echo.Context) error
	GetFlightTemplate(ctx echo.Context) error
	GetFlightSchedules(ctx echo.Context) error
	GetFlightSchedule(ctx echo.Context) error
	UpdateFlightStatus(ctx echo.Context) error
}

type FlightScheduleController struct {
	logger  log.LoggerInterface
	service FlightScheduleServiceInterface
}

func NewFlightScheduleController(logger log.LoggerInterface, service FlightScheduleServiceInterface) *FlightScheduleController {
	return &FlightScheduleController{
		logger:  logger,
		service: service,
	}
}

// UploadFlightSchedules 表单字段file, 不走Bind以免把文件内容绑定到结构体
func (controller *FlightScheduleController) UploadFlightSchedules(ctx echo.Context) error {
	file, err := ctx.FormFile("file")
	if err != nil {
		controller.logger.DebugF("FlightScheduleController.UploadFlightSchedules form file error: %v", err)
		return NewErrorResponse(ctx, &ErrLackParam)
	}
	data := &RequestUploadFlightSchedules{
		JwtHeader:   jwtHeader(ctx),
		Ip:          ctx.RealIP(),
		UserAgent:   ctx.Request().UserAgent(),
		EventId:     utils.StrToUint(ctx.Param("eid"), 0),
		File:        file,
		ContentType: file.Header.Get(echo.HeaderContentType),
	}
	return controller.service.UploadFlightSchedules(data).Response(ctx)
}

func (controller *FlightScheduleController) GetFlightTemplate(ctx echo.Context) error {
	data := &RequestFlightTemplate{
		JwtHeader: jwtHeader(ctx),
		EventId:   utils.StrToUint(ctx.Param("eid"), 0),
	}
	res := controller.service.GetFlightTemplate(data)
	if !res.Success || res.Data == nil {
		return res.Response(ctx)
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", res.Data.FileName))
	return ctx.Blob(http.StatusOK, res.Data.ContentType, res.Data.Content)
}

func (controller *FlightScheduleController) GetFlightSchedules(ctx echo.Context) error {
	data := &RequestGetFlightSchedules{}
	if err := ctx.Bind(data); err != nil {
		controller.logger.ErrorF("FlightScheduleController.GetFlightSchedules bind error: %v", err)
		return NewErrorResponse(ctx, &ErrLackParam)
	}
	data.JwtHeader = jwtHeader(ctx)
	return controller.service.GetFlightSchedules(data).Response(ctx)
}

func (controller *FlightScheduleController) GetFlightSchedule(ctx echo.Context) error {
	data := &RequestGetFlightSchedule{}
	if err := ctx.Bind(data); err != nil {
		controller.logger.ErrorF("FlightScheduleController.GetFlightSchedule bind error: %v", err)
		return NewErrorResponse(ctx, &ErrLackParam)
	}
	data.JwtHeader = jwtHeader(ctx)
	return controller.service.GetFlightSchedule(data).Response(ctx)
}

func (controller *FlightScheduleController) UpdateFlightStatus(ctx echo.Context) error {
	data := &RequestUpdateFlightStatus{}
	if err := ctx.Bind(data); err != nil {
		controller.logger.ErrorF("FlightScheduleController.UpdateFlightStatus bind error: %v", err)
		return NewErrorResponse(ctx, &ErrLackParam)
	}
	data.JwtHeader = jwtHeader(ctx)
	data.Ip = ctx.RealIP()
	data.UserAgent = ctx.Request().UserAgent()
	return controller.service.UpdateFlightStatus(data).Response(ctx)
}
