// Package service
package service

import "github.com/half-nothing/event-logistics/internal/interfaces/operation"

type AuditServiceInterface interface {
	GetAuditLogPage(req *RequestGetAuditLog) *ApiResponse[ResponseGetAuditLog]
}

type RequestGetAuditLog struct {
	JwtHeader
	PageArguments
}

type ResponseGetAuditLog struct {
	Items    []*operation.AuditLog `json:"items"`
	Page     int                   `json:"page"`
	PageSize int                   `json:"page_size"`
	Total    int64                 `json:"total"`
}
