// Package service
package service

import (
	"github.com/half-nothing/event-logistics/internal/interfaces/operation"
	"time"
)

type EventServiceInterface interface {
	AddEvent(req *RequestAddEvent) *ApiResponse[ResponseAddEvent]
	GetEvents(req *RequestGetEvents) *ApiResponse[ResponseGetEvents]
	AddEventMember(req *RequestAddEventMember) *ApiResponse[ResponseAddEventMember]
}

type RequestAddEvent struct {
	JwtHeader
	Ip        string    `json:"-"`
	UserAgent string    `json:"-"`
	Name      string    `json:"name" validate:"required,max=128"`
	Location  string    `json:"location" validate:"max=128"`
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required,gtefield=StartDate"`
}

type ResponseAddEvent operation.Event

type RequestGetEvents struct {
	JwtHeader
	PageArguments
}

type ResponseGetEvents struct {
	Items    []*operation.Event `json:"items"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
	Total    int64              `json:"total"`
}

type RequestAddEventMember struct {
	JwtHeader
	Ip        string `json:"-"`
	UserAgent string `json:"-"`
	EventId   uint   `param:"eid" json:"-" validate:"required"`
	UserId    uint   `json:"user_id" validate:"required"`
}

type ResponseAddEventMember bool
