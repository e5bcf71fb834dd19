// Package operation
package operation

import (
	"errors"
	"time"
)

var (
	// ErrEventNotFound 活动不存在
	ErrEventNotFound = errors.New("event does not exist")
	// ErrAlreadyMember 用户已经是活动成员
	ErrAlreadyMember = errors.New("user is already a member of the event")
)

type EventOperationInterface interface {
	// NewEvent 创建一个新活动(不写入数据库)
	NewEvent(name, location string, startDate, endDate time.Time, createdBy uint) (event *Event)
	// AddEvent 写入活动并把创建者加入成员, 两步在同一个事务中完成
	AddEvent(event *Event) (err error)
	// GetEventById 当活动不存在时返回 ErrEventNotFound
	GetEventById(id uint) (event *Event, err error)
	// EventExists 只检查存在性, 不加载数据
	EventExists(id uint) (exists bool, err error)
	// GetEventsByMember 获取用户所属的活动
	GetEventsByMember(uid uint, page, pageSize int) (events []*Event, total int64, err error)
	// AddMember 用户已经是成员时返回 ErrAlreadyMember
	AddMember(eventId, uid uint) (err error)
	IsMember(eventId, uid uint) (member bool, err error)
}
