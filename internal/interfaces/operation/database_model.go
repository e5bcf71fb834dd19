package operation

import (
	"time"
)

type User struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	Username   string         `gorm:"size:64;uniqueIndex;not null" json:"username"`
	Email      string         `gorm:"size:128;not null;default:''" json:"email"`
	Password   string         `gorm:"size:128;not null" json:"-"`
	Permission int64          `gorm:"default:0" json:"permission"`
	Events     []*EventMember `gorm:"foreignKey:UserId;references:ID" json:"-"`
	CreatedAt  time.Time      `json:"-"`
	UpdatedAt  time.Time      `json:"-"`
}

type Event struct {
	ID              uint              `gorm:"primarykey" json:"id"`
	Name            string            `gorm:"size:128;not null" json:"name"`
	Location        string            `gorm:"size:128;not null;default:''" json:"location"`
	StartDate       time.Time         `gorm:"not null" json:"start_date"`
	EndDate         time.Time         `gorm:"not null" json:"end_date"`
	CreatedBy       uint              `gorm:"index;not null" json:"created_by"`
	Members         []*EventMember    `gorm:"foreignKey:EventId;references:ID" json:"-"`
	FlightSchedules []*FlightSchedule `gorm:"foreignKey:EventId;references:ID" json:"-"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"-"`
}

type EventMember struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	EventId   uint      `gorm:"uniqueIndex:eventMember;not null" json:"event_id"`
	UserId    uint      `gorm:"uniqueIndex:eventMember;not null" json:"user_id"`
	CreatedAt time.Time `json:"-"`
}

// FlightSchedule 没有UpdatedAt字段, 状态更新只会修改status列
type FlightSchedule struct {
	ID                          uint         `gorm:"primarykey" json:"flight_id"`
	EventId                     uint         `gorm:"index;not null" json:"event_id"`
	FirstName                   string       `gorm:"size:128;not null" json:"first_name"`
	LastName                    string       `gorm:"size:128;not null" json:"last_name"`
	FlightNumber                string       `gorm:"size:32;not null" json:"flight_number"`
	ArrivalTime                 time.Time    `gorm:"not null" json:"arrival_time"`
	DepartureTime               time.Time    `gorm:"not null" json:"departure_time"`
	PropertyName                string       `gorm:"size:128;not null" json:"property_name"`
	VehicleStandbyArrivalTime   string       `gorm:"size:64;not null;default:''" json:"vehicle_standby_arrival_time"`
	VehicleStandbyDepartureTime string       `gorm:"size:64;not null;default:''" json:"vehicle_standby_departure_time"`
	Status                      FlightStatus `gorm:"size:16;not null;default:pending" json:"status"`
	CreatedAt                   time.Time    `json:"created_at"`
}

type ChangeDetail struct {
	OldValue string `json:"old_value"`
	NewValue string `json:"new_value"`
}

type AuditLog struct {
	ID            uint          `gorm:"primarykey" json:"id"`
	EventType     string        `gorm:"size:64;index;not null" json:"event_type"`
	Subject       uint          `gorm:"index;not null" json:"subject"`
	Object        string        `gorm:"size:128;not null" json:"object"`
	Ip            string        `gorm:"size:64;not null" json:"ip"`
	UserAgent     string        `gorm:"size:256;not null" json:"user_agent"`
	ChangeDetails *ChangeDetail `gorm:"type:text;serializer:json" json:"change_details"`
	CreatedAt     time.Time     `json:"created_at"`
}
