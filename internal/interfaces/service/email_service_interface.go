// Package service
package service

import (
	"github.com/half-nothing/event-logistics/internal/interfaces/operation"
	"html/template"
)

type EmailServiceInterface interface {
	RenderTemplate(template *template.Template, data interface{}) (string, error)
	SendIngestionReportEmail(user *operation.User, event *operation.Event, report *IngestionReport) error
}

// IngestionReport 一次上传的结果摘要, 用于报告邮件
type IngestionReport struct {
	FileName         string
	ProcessedRecords int
	FailedRecords    int
	Errors           []RowErrorReport
}

type RowErrorReport struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}
