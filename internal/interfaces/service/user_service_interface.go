// Package service
package service

import (
	"github.com/half-nothing/event-logistics/internal/interfaces/operation"
)

type UserServiceInterface interface {
	UserLogin(req *RequestUserLogin) *ApiResponse[ResponseUserLogin]
	AddUser(req *RequestAddUser) *ApiResponse[ResponseAddUser]
	GetUserList(req *RequestUserList) *ApiResponse[ResponseUserList]
	// EnsureBootstrapAdmin 用户表为空时创建管理员, 返回生成的明文密码, 未创建时返回空字符串
	EnsureBootstrapAdmin() (password string, err error)
}

type RequestUserLogin struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ResponseUserLogin struct {
	User       *operation.User `json:"user"`
	Token      string          `json:"token"`
	FlushToken string          `json:"flush_token"`
}

type RequestAddUser struct {
	JwtHeader
	Ip             string `json:"-"`
	UserAgent      string `json:"-"`
	Username       string `json:"username" validate:"required"`
	Email          string `json:"email" validate:"omitempty,email"`
	Password       string `json:"password" validate:"required"`
	UserPermission int64  `json:"permission" validate:"gte=0"`
}

type ResponseAddUser operation.User

type RequestUserList struct {
	JwtHeader
	PageArguments
}

type ResponseUserList struct {
	Items    []*operation.User `json:"items"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
	Total    int64             `json:"total"`
}
