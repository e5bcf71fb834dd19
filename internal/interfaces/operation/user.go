// Package operation
package operation

import (
	"errors"
)

var (
	// ErrUserNotFound 用户不存在
	ErrUserNotFound = errors.New("user does not exist")
	// ErrUsernameTaken 用户名已被使用
	ErrUsernameTaken = errors.New("username has been used")
	// ErrPasswordEncode 密码编码错误
	ErrPasswordEncode = errors.New("password encode error")
)

// UserOperationInterface 用户操作接口定义
type UserOperationInterface interface {
	// GetUserByUid 通过主键ID获取用户, 当err为nil时返回值user有效
	GetUserByUid(uid uint) (user *User, err error)
	// GetUserByUsername 通过用户名获取用户, 当err为nil时返回值user有效
	GetUserByUsername(username string) (user *User, err error)
	// GetUsers 获取分页用户数据, 当err为nil时返回值users有效, total表示数据总数目
	GetUsers(page, pageSize int) (users []*User, total int64, err error)
	// NewUser 创建一个新用户(只是创建, 没有写入数据库), 当err为nil时返回值user有效
	NewUser(username string, email string, password string, permission Permission) (user *User, err error)
	// AddUser 写入新用户, 用户名冲突时返回 ErrUsernameTaken
	AddUser(user *User) (err error)
	// VerifyUserPassword 验证用户密码是否正确, pass为true表示验证通过
	VerifyUserPassword(user *User, password string) (pass bool)
	GetTotalUsers() (total int64, err error)
}
