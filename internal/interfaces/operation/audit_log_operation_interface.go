// Package operation
package operation

type EventType string

const (
	UserCreated         EventType = "UserCreated"
	EventCreated        EventType = "EventCreated"
	EventMemberAdded    EventType = "EventMemberAdded"
	FlightsUploaded     EventType = "FlightsUploaded"
	FlightStatusChanged EventType = "FlightStatusChanged"
)

type AuditLogOperationInterface interface {
	NewAuditLog(eventType EventType, subject uint, object, ip, userAgent string, changeDetails *ChangeDetail) (auditLog *AuditLog)
	SaveAuditLog(auditLog *AuditLog) (err error)
	SaveAuditLogs(auditLogs []*AuditLog) (err error)
	GetAuditLogs(page, pageSize int) (auditLogs []*AuditLog, total int64, err error)
}
