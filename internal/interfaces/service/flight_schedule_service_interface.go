// Package service
package service

import (
	"github.com/half-nothing/event-logistics/internal/interfaces/operation"
	"mime/multipart"
)

type FlightScheduleServiceInterface interface {
	// UploadFlightSchedules 解析上传的表格并批量写入, 行级错误随结果返回
	UploadFlightSchedules(req *RequestUploadFlightSchedules) *ApiResponse[ResponseUploadFlightSchedules]
	GetFlightTemplate(req *RequestFlightTemplate) *ApiResponse[ResponseFlightTemplate]
	GetFlightSchedules(req *RequestGetFlightSchedules) *ApiResponse[ResponseGetFlightSchedules]
	GetFlightSchedule(req *RequestGetFlightSchedule) *ApiResponse[ResponseGetFlightSchedule]
	// UpdateFlightStatus 不检查原状态, 相同状态重复写入同样成功
	UpdateFlightStatus(req *RequestUpdateFlightStatus) *ApiResponse[ResponseUpdateFlightStatus]
}

type RequestUploadFlightSchedules struct {
	JwtHeader
	Ip          string                `json:"-"`
	UserAgent   string                `json:"-"`
	EventId     uint                  `param:"eid" validate:"required"`
	File        *multipart.FileHeader `json:"-" validate:"required"`
	ContentType string                `json:"-"`
}

type ResponseUploadFlightSchedules struct {
	ProcessedRecords int              `json:"processedRecords"`
	FailedRecords    int              `json:"failedRecords"`
	Errors           []RowErrorReport `json:"errors"`
}

type RequestFlightTemplate struct {
	JwtHeader
	EventId uint `param:"eid" validate:"required"`
}

type ResponseFlightTemplate struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Content     []byte `json:"-"`
}

type RequestGetFlightSchedules struct {
	JwtHeader
	PageArguments
	EventId uint `param:"eid" validate:"required"`
}

type ResponseGetFlightSchedules struct {
	Items    []*operation.FlightSchedule `json:"items"`
	Page     int                         `json:"page"`
	PageSize int                         `json:"page_size"`
	Total    int64                       `json:"total"`
}

type RequestGetFlightSchedule struct {
	JwtHeader
	FlightId uint `param:"fid" validate:"required"`
}

type ResponseGetFlightSchedule operation.FlightSchedule

type RequestUpdateFlightStatus struct {
	JwtHeader
	Ip        string `json:"-"`
	UserAgent string `json:"-"`
	FlightId  uint   `param:"fid" json:"-" validate:"required"`
	Status    string `json:"status" validate:"flight_status"`
}

type ResponseUpdateFlightStatus operation.FlightSchedule
