// Package operation
package operation

type DatabaseOperations struct {
	userOperation           UserOperationInterface
	eventOperation          EventOperationInterface
	flightScheduleOperation FlightScheduleOperationInterface
	auditLogOperation       AuditLogOperationInterface
}

func NewDatabaseOperations(
	userOperation UserOperationInterface,
	eventOperation EventOperationInterface,
	flightScheduleOperation FlightScheduleOperationInterface,
	auditLogOperation AuditLogOperationInterface,
) *DatabaseOperations {
	return &DatabaseOperations{
		userOperation:           userOperation,
		eventOperation:          eventOperation,
		flightScheduleOperation: flightScheduleOperation,
		auditLogOperation:       auditLogOperation,
	}
}

func (db *DatabaseOperations) UserOperation() UserOperationInterface {
	return db.userOperation
}

func (db *DatabaseOperations) EventOperation() EventOperationInterface {
	return db.eventOperation
}

func (db *DatabaseOperations) FlightScheduleOperation() FlightScheduleOperationInterface {
	return db.flightScheduleOperation
}

func (db *DatabaseOperations) AuditLogOperation() AuditLogOperationInterface {
	return db.auditLogOperation
}
