// Package controller
package controller

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/half-nothing/event-logistics/internal/interfaces/log"
	. "github.com/half-nothing/event-logistics/internal/interfaces/service"
	"github.com/labstack/echo/v4"
)

type UserControllerInterface interface {
	UserLogin(ctx echo.Context) error
	AddUser(ctx echo.Context) error
	GetUsers(ctx echo.Context) error
}

type UserController struct {
	logger  log.LoggerInterface
	service UserServiceInterface
}

func NewUserController(logger log.LoggerInterface, service UserServiceInterface) *UserController {
	return &UserController{
		logger:  logger,
		service: service,
	}
}

// jwtHeader 从echo-jwt放入上下文的token中取出调用者信息
func jwtHeader(ctx echo.Context) JwtHeader {
	token := ctx.Get("user").(*jwt.Token)
	claim := token.Claims.(*Claims)
	return JwtHeader{Uid: claim.Uid, Permission: claim.Permission}
}

func (controller *UserController) UserLogin(ctx echo.Context) error {
	data := &RequestUserLogin{}
	if err := ctx.Bind(data); err != nil {
		controller.logger.ErrorF("UserController.UserLogin bind error: %v", err)
		return NewErrorResponse(ctx, &ErrLackParam)
	}
	return controller.service.UserLogin(data).Response(ctx)
}

func (controller *UserController) AddUser(ctx echo.Context) error {
	data := &RequestAddUser{}
	if err := ctx.Bind(data); err != nil {
		controller.logger.ErrorF("UserController.AddUser bind error: %v", err)
		return NewErrorResponse(ctx, &ErrLackParam)
	}
	data.JwtHeader = jwtHeader(ctx)
	data.Ip = ctx.RealIP()
	data.UserAgent = ctx.Request().UserAgent()
	return controller.service.AddUser(data).Response(ctx)
}

func (controller *UserController) GetUsers(ctx echo.Context) error {
	data := &RequestUserList{}
	if err := ctx.Bind(data); err != nil {
		controller.logger.ErrorF("UserController.GetUsers bind error: %v", err)
		return NewErrorResponse(ctx, &ErrLackParam)
	}
	data.JwtHeader = jwtHeader(ctx)
	return controller.service.GetUserList(data).Response(ctx)
}
