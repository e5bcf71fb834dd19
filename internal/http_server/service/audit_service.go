// Package service
package service

import (
	"github.com/half-nothing/event-logistics/internal/interfaces/log"
	"github.com/half-nothing/event-logistics/internal/interfaces/operation"
	. "github.com/half-nothing/event-logistics/internal/interfaces/service"
)

type AuditLogService struct {
	logger         log.LoggerInterface
	validator      *Validator
	auditOperation operation.AuditLogOperationInterface
}

func NewAuditService(
	logger log.LoggerInterface,
	validator *Validator,
	auditOperation operation.AuditLogOperationInterface,
) *AuditLogService {
	return &AuditLogService{
		logger:         logger,
		validator:      validator,
		auditOperation: auditOperation,
	}
}

var SuccessGetAuditLog = ApiStatus{StatusName: "GET_AUDIT_LOG", Description: "audit log page fetched", HttpCode: Ok}

func (auditLogService *AuditLogService) GetAuditLogPage(req *RequestGetAuditLog) *ApiResponse[ResponseGetAuditLog] {
	if res := CheckPermission[ResponseGetAuditLog](req.Permission, operation.AuditLogShow); res != nil {
		return res
	}
	if res := auditLogService.validator.CheckPage(req.PageArguments); res != nil {
		return NewApiResponse[ResponseGetAuditLog](res, Unsatisfied, nil)
	}
	auditLogs, total, err := auditLogService.auditOperation.GetAuditLogs(req.Page, req.PageSize)
	if err != nil {
		auditLogService.logger.ErrorF("AuditLogService.GetAuditLogPage query error: %v", err)
		return NewApiResponse[ResponseGetAuditLog](&ErrDatabaseFail, Unsatisfied, nil)
	}
	return NewApiResponse(&SuccessGetAuditLog, Unsatisfied, &ResponseGetAuditLog{
		Items:    auditLogs,
		Page:     req.Page,
		PageSize: req.PageSize,
		Total:    total,
	})
}
