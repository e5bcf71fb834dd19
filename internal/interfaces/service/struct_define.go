// Package service
package service

import (
	"errors"
	"github.com/golang-jwt/jwt/v5"
	c "github.com/half-nothing/event-logistics/internal/interfaces/config"
	"github.com/half-nothing/event-logistics/internal/interfaces/operation"
	"github.com/labstack/echo/v4"
	"log/slog"
	"time"
)

type HttpCode int

const (
	Unsatisfied          HttpCode = 0
	Ok                   HttpCode = 200
	BadRequest           HttpCode = 400
	Unauthorized         HttpCode = 401
	PermissionDenied     HttpCode = 403
	NotFound             HttpCode = 404
	Conflict             HttpCode = 409
	UnsupportedMediaType HttpCode = 415
	TooManyRequests      HttpCode = 429
	ServerInternalError  HttpCode = 500
)

func (hc HttpCode) Code() int {
	return int(hc)
}

func (hc HttpCode) IsSuccess() bool {
	return hc < BadRequest
}

type ApiStatus struct {
	StatusName  string
	Description string
	HttpCode    HttpCode
}

// ApiResponse 成功时填充message, 失败时填充error
type ApiResponse[T any] struct {
	HttpCode int    `json:"-"`
	Success  bool   `json:"success"`
	Code     string `json:"code"`
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`
	Data     *T     `json:"data,omitempty"`
}

type Claims struct {
	Uid        uint   `json:"uid"`
	Username   string `json:"username"`
	Permission int64  `json:"permission"`
	FlushToken bool   `json:"flushToken"`
	config     *c.JWTConfig
	jwt.RegisteredClaims
}

type JwtHeader struct {
	Uid        uint  `json:"-"`
	Permission int64 `json:"-"`
}

// PageArguments 分页参数, page从1开始
type PageArguments struct {
	Page     int `query:"page_number"`
	PageSize int `query:"page_size"`
}

func NewClaims(config *c.JWTConfig, user *operation.User, flushToken bool) *Claims {
	expiredDuration := config.ExpiresDuration
	if flushToken {
		expiredDuration += config.RefreshDuration
	}
	return &Claims{
		Uid:        user.ID,
		Username:   user.Username,
		Permission: user.Permission,
		FlushToken: flushToken,
		config:     config,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "EventLogistics",
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiredDuration)),
		},
	}
}

func (claim *Claims) GenerateKey() string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claim)
	tokenString, _ := token.SignedString([]byte(claim.config.Secret))
	return tokenString
}

func (res *ApiResponse[T]) Response(ctx echo.Context) error {
	return ctx.JSON(res.HttpCode, res)
}

var (
	ErrIllegalParam          = ApiStatus{"PARAM_ERROR", "invalid parameter", BadRequest}
	ErrLackParam             = ApiStatus{"PARAM_LACK_ERROR", "missing parameter", BadRequest}
	ErrNoPermission          = ApiStatus{"NO_PERMISSION", "permission denied", PermissionDenied}
	ErrDatabaseFail          = ApiStatus{"DATABASE_ERROR", "internal server error", ServerInternalError}
	ErrUserNotFound          = ApiStatus{"USER_NOT_FOUND", "user does not exist", NotFound}
	ErrUsernameTaken         = ApiStatus{"USER_EXISTS", "username already taken", Conflict}
	ErrEventNotFound         = ApiStatus{"EVENT_NOT_FOUND", "event does not exist", NotFound}
	ErrNotEventMember        = ApiStatus{"NOT_EVENT_MEMBER", "you are not associated with this event", PermissionDenied}
	ErrAlreadyMember         = ApiStatus{"ALREADY_EVENT_MEMBER", "user is already associated with this event", Conflict}
	ErrFlightNotFound        = ApiStatus{"FLIGHT_NOT_FOUND", "flight schedule does not exist", NotFound}
	ErrInvalidFlightStatus   = ApiStatus{"INVALID_FLIGHT_STATUS", "status must be one of pending, Arrived, Delay, No show, Re scheduled", BadRequest}
	ErrMissingOrMalformedJwt = ApiStatus{"MISSING_OR_MALFORMED_JWT", "missing or malformed jwt", BadRequest}
	ErrInvalidOrExpiredJwt   = ApiStatus{"INVALID_OR_EXPIRED_JWT", "invalid or expired jwt", Unauthorized}
	ErrUnknown               = ApiStatus{"UNKNOWN_JWT_ERROR", "unknown jwt error", ServerInternalError}
	ErrRateLimited           = ApiStatus{"RATE_LIMITED", "too many requests", TooManyRequests}
)

func NewErrorResponse(ctx echo.Context, codeStatus *ApiStatus) error {
	return NewApiResponse[any](codeStatus, Unsatisfied, nil).Response(ctx)
}

func NewApiResponse[T any](codeStatus *ApiStatus, httpCode HttpCode, data *T) *ApiResponse[T] {
	if httpCode == Unsatisfied {
		httpCode = codeStatus.HttpCode
	}
	if httpCode == Unsatisfied {
		httpCode = Ok
	}
	response := &ApiResponse[T]{
		HttpCode: httpCode.Code(),
		Success:  httpCode.IsSuccess(),
		Code:     codeStatus.StatusName,
		Data:     data,
	}
	if response.Success {
		response.Message = codeStatus.Description
	} else {
		response.Error = codeStatus.Description
	}
	return response
}

// NewApiResponseWithError 与 NewApiResponse 相同, 但使用具体的错误信息替换描述
func NewApiResponseWithError[T any](codeStatus *ApiStatus, err error, data *T) *ApiResponse[T] {
	response := NewApiResponse[T](codeStatus, Unsatisfied, data)
	if err != nil && !response.Success {
		response.Error = err.Error()
	}
	return response
}

// CallDBFuncAndCheckError 调用数据库操作函数并处理错误
func CallDBFuncAndCheckError[R any, T any](fc func() (*R, error)) (*R, *ApiResponse[T]) {
	result, err := fc()
	switch {
	case errors.Is(err, operation.ErrUserNotFound):
		return nil, NewApiResponse[T](&ErrUserNotFound, Unsatisfied, nil)
	case errors.Is(err, operation.ErrUsernameTaken):
		return nil, NewApiResponse[T](&ErrUsernameTaken, Unsatisfied, nil)
	case errors.Is(err, operation.ErrEventNotFound):
		return nil, NewApiResponse[T](&ErrEventNotFound, Unsatisfied, nil)
	case errors.Is(err, operation.ErrAlreadyMember):
		return nil, NewApiResponse[T](&ErrAlreadyMember, Unsatisfied, nil)
	case errors.Is(err, operation.ErrFlightScheduleNotFound):
		return nil, NewApiResponse[T](&ErrFlightNotFound, Unsatisfied, nil)
	case errors.Is(err, operation.ErrInvalidFlightStatus):
		return nil, NewApiResponse[T](&ErrInvalidFlightStatus, Unsatisfied, nil)
	case err != nil:
		slog.Error("Error in DB function", "error", err)
		return nil, NewApiResponse[T](&ErrDatabaseFail, Unsatisfied, nil)
	default:
		return result, nil
	}
}

// CheckPermission 检查JWT中携带的权限位
func CheckPermission[T any](permission int64, perm operation.Permission) *ApiResponse[T] {
	if permission <= 0 {
		return NewApiResponse[T](&ErrNoPermission, Unsatisfied, nil)
	}
	p := operation.Permission(permission)
	if !p.HasPermission(perm) {
		return NewApiResponse[T](&ErrNoPermission, Unsatisfied, nil)
	}
	return nil
}

// CheckEventAccess 活动不存在返回404, 调用者不是成员返回403, 管理员可以访问任意活动
func CheckEventAccess[T any](eventOperation operation.EventOperationInterface, eventId uint, header JwtHeader) *ApiResponse[T] {
	exists, err := eventOperation.EventExists(eventId)
	if err != nil {
		slog.Error("Error in DB function", "error", err)
		return NewApiResponse[T](&ErrDatabaseFail, Unsatisfied, nil)
	}
	if !exists {
		return NewApiResponse[T](&ErrEventNotFound, Unsatisfied, nil)
	}
	permission := operation.Permission(header.Permission)
	if permission.HasPermission(operation.AdminEntry) {
		return nil
	}
	member, err := eventOperation.IsMember(eventId, header.Uid)
	if err != nil {
		slog.Error("Error in DB function", "error", err)
		return NewApiResponse[T](&ErrDatabaseFail, Unsatisfied, nil)
	}
	if !member {
		return NewApiResponse[T](&ErrNotEventMember, Unsatisfied, nil)
	}
	return nil
}
