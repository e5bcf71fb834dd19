// Package operation
package operation

import (
	"errors"
)

var (
	// ErrFlightScheduleNotFound 航班记录不存在
	ErrFlightScheduleNotFound = errors.New("flight schedule does not exist")
	// ErrInvalidFlightStatus 状态不在允许的集合中
	ErrInvalidFlightStatus = errors.New("invalid flight status")
)

// FlightStatus 区分大小写, 只允许下面五个值
type FlightStatus string

const (
	FlightPending     FlightStatus = "pending"
	FlightArrived     FlightStatus = "Arrived"
	FlightDelay       FlightStatus = "Delay"
	FlightNoShow      FlightStatus = "No show"
	FlightRescheduled FlightStatus = "Re scheduled"
)

var AllowedFlightStatuses = []FlightStatus{FlightPending, FlightArrived, FlightDelay, FlightNoShow, FlightRescheduled}

func (s FlightStatus) IsValid() bool {
	for _, status := range AllowedFlightStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func (s FlightStatus) String() string { return string(s) }

type FlightScheduleOperationInterface interface {
	// NewFlightSchedule 创建状态为pending的航班记录(不写入数据库)
	NewFlightSchedule(eventId uint) (flight *FlightSchedule)
	// SaveFlightSchedules 在一个事务中批量插入, 任意一条失败则全部回滚
	SaveFlightSchedules(flights []*FlightSchedule) (err error)
	// GetFlightScheduleById 当记录不存在时返回 ErrFlightScheduleNotFound
	GetFlightScheduleById(id uint) (flight *FlightSchedule, err error)
	GetFlightSchedules(eventId uint, page, pageSize int) (flights []*FlightSchedule, total int64, err error)
	// UpdateFlightStatus 无条件写入状态, 只修改status列
	UpdateFlightStatus(flight *FlightSchedule, status FlightStatus) (err error)
}
