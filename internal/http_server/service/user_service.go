// Package service
package service

import (
	"errors"
	"fmt"

	"github.com/half-nothing/event-logistics/internal/interfaces/config"
	"github.com/half-nothing/event-logistics/internal/interfaces/global"
	"github.com/half-nothing/event-logistics/internal/interfaces/log"
	"github.com/half-nothing/event-logistics/internal/interfaces/operation"
	. "github.com/half-nothing/event-logistics/internal/interfaces/service"
	"github.com/thanhpk/randstr"
)

type UserService struct {
	logger            log.LoggerInterface
	config            *config.HttpServerConfig
	validator         *Validator
	userOperation     operation.UserOperationInterface
	auditLogOperation operation.AuditLogOperationInterface
}

func NewUserService(
	logger log.LoggerInterface,
	config *config.HttpServerConfig,
	validator *Validator,
	userOperation operation.UserOperationInterface,
	auditLogOperation operation.AuditLogOperationInterface,
) *UserService {
	return &UserService{
		logger:            logger,
		config:            config,
		validator:         validator,
		userOperation:     userOperation,
		auditLogOperation: auditLogOperation,
	}
}

var (
	ErrUsernameOrPassword = ApiStatus{StatusName: "WRONG_USERNAME_OR_PASSWORD", Description: "wrong username or password", HttpCode: BadRequest}
	SuccessLogin          = ApiStatus{StatusName: "LOGIN_SUCCESS", Description: "login succeeded", HttpCode: Ok}
)

func (userService *UserService) UserLogin(req *RequestUserLogin) *ApiResponse[ResponseUserLogin] {
	if res, _ := userService.validator.CheckStruct(req); res != nil {
		return NewApiResponse[ResponseUserLogin](res, Unsatisfied, nil)
	}

	user, err := userService.userOperation.GetUserByUsername(req.Username)
	if errors.Is(err, operation.ErrUserNotFound) {
		return NewApiResponse[ResponseUserLogin](&ErrUsernameOrPassword, Unsatisfied, nil)
	}
	if err != nil {
		userService.logger.ErrorF("UserService.UserLogin query user error: %v", err)
		return NewApiResponse[ResponseUserLogin](&ErrDatabaseFail, Unsatisfied, nil)
	}

	if !userService.userOperation.VerifyUserPassword(user, req.Password) {
		return NewApiResponse[ResponseUserLogin](&ErrUsernameOrPassword, Unsatisfied, nil)
	}

	token := NewClaims(userService.config.JWT, user, false)
	flushToken := NewClaims(userService.config.JWT, user, true)
	return NewApiResponse(&SuccessLogin, Unsatisfied, &ResponseUserLogin{
		User:       user,
		Token:      token.GenerateKey(),
		FlushToken: flushToken.GenerateKey(),
	})
}

var (
	ErrPermissionOverflow = ApiStatus{StatusName: "PERMISSION_OVERFLOW", Description: "cannot grant permissions you do not hold", HttpCode: PermissionDenied}
	SuccessAddUser        = ApiStatus{StatusName: "ADD_USER", Description: "user created", HttpCode: Ok}
)

func (userService *UserService) AddUser(req *RequestAddUser) *ApiResponse[ResponseAddUser] {
	if res := CheckPermission[ResponseAddUser](req.Permission, operation.UserAdd); res != nil {
		return res
	}
	if res, err := userService.validator.CheckStruct(req); res != nil {
		return NewApiResponseWithError[ResponseAddUser](res, err, nil)
	}
	if res := userService.validator.usernameValidator.CheckString(req.Username); res != nil {
		return NewApiResponse[ResponseAddUser](res, Unsatisfied, nil)
	}
	if res := userService.validator.passwordValidator.CheckString(req.Password); res != nil {
		return NewApiResponse[ResponseAddUser](res, Unsatisfied, nil)
	}

	granted := operation.Permission(req.UserPermission)
	if !granted.IsValid() {
		return NewApiResponse[ResponseAddUser](&ErrIllegalParam, Unsatisfied, nil)
	}
	operator := operation.Permission(req.JwtHeader.Permission)
	if !operator.HasPermission(operation.AdminEntry) && granted&^operator != 0 {
		return NewApiResponse[ResponseAddUser](&ErrPermissionOverflow, Unsatisfied, nil)
	}

	user, err := userService.userOperation.NewUser(req.Username, req.Email, req.Password, granted)
	if err != nil {
		userService.logger.ErrorF("UserService.AddUser encode password error: %v", err)
		return NewApiResponse[ResponseAddUser](&ErrDatabaseFail, Unsatisfied, nil)
	}
	if _, res := CallDBFuncAndCheckError[interface{}, ResponseAddUser](func() (*interface{}, error) {
		return nil, userService.userOperation.AddUser(user)
	}); res != nil {
		return res
	}

	userService.saveAuditLog(userService.auditLogOperation.NewAuditLog(
		operation.UserCreated,
		req.Uid,
		fmt.Sprintf("%d", user.ID),
		req.Ip,
		req.UserAgent,
		nil,
	))

	return NewApiResponse(&SuccessAddUser, Unsatisfied, (*ResponseAddUser)(user))
}

var SuccessGetUsers = ApiStatus{StatusName: "GET_USER_PAGE", Description: "user page fetched", HttpCode: Ok}

func (userService *UserService) GetUserList(req *RequestUserList) *ApiResponse[ResponseUserList] {
	if res := CheckPermission[ResponseUserList](req.Permission, operation.UserShowList); res != nil {
		return res
	}
	if res := userService.validator.CheckPage(req.PageArguments); res != nil {
		return NewApiResponse[ResponseUserList](res, Unsatisfied, nil)
	}
	users, total, err := userService.userOperation.GetUsers(req.Page, req.PageSize)
	if err != nil {
		userService.logger.ErrorF("UserService.GetUserList query error: %v", err)
		return NewApiResponse[ResponseUserList](&ErrDatabaseFail, Unsatisfied, nil)
	}
	return NewApiResponse(&SuccessGetUsers, Unsatisfied, &ResponseUserList{
		Items:    users,
		Page:     req.Page,
		PageSize: req.PageSize,
		Total:    total,
	})
}

func (userService *UserService) EnsureBootstrapAdmin() (string, error) {
	total, err := userService.userOperation.GetTotalUsers()
	if err != nil {
		return "", err
	}
	if total > 0 {
		return "", nil
	}
	password := randstr.String(16)
	user, err := userService.userOperation.NewUser(global.BootstrapAdminUsername, "", password, operation.AllPermissions)
	if err != nil {
		return "", err
	}
	if err := userService.userOperation.AddUser(user); err != nil {
		return "", err
	}
	userService.saveAuditLog(userService.auditLogOperation.NewAuditLog(
		operation.UserCreated,
		user.ID,
		fmt.Sprintf("%d", user.ID),
		"127.0.0.1",
		"bootstrap",
		nil,
	))
	return password, nil
}

func (userService *UserService) saveAuditLog(auditLog *operation.AuditLog) {
	if err := userService.auditLogOperation.SaveAuditLog(auditLog); err != nil {
		userService.logger.ErrorF("Fail to create audit log for %s, detail: %v", auditLog.EventType, err)
	}
}
