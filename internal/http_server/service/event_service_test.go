package service

import (
	"testing"
	"time"

	"github.com/half-nothing/event-logistics/internal/interfaces/operation"
	. "github.com/half-nothing/event-logistics/internal/interfaces/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEventService(t *testing.T) (*EventService, *operation.DatabaseOperations) {
	t.Helper()
	operations := newTestOperations(t)
	service := NewEventService(testLogger(), newTestValidator(), operations.UserOperation(), operations.EventOperation(), operations.AuditLogOperation())
	return service, operations
}

func TestAddEvent(t *testing.T) {
	service, operations := newTestEventService(t)
	organizer := createUser(t, operations, "organizer", operation.EventCreate)
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	res := service.AddEvent(&RequestAddEvent{
		JwtHeader: headerOf(organizer),
		Name:      "Summit",
		Location:  "Dubai",
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 2),
	})
	require.True(t, res.Success, res.Error)

	member, err := operations.EventOperation().IsMember(res.Data.ID, organizer.ID)
	require.NoError(t, err)
	assert.True(t, member, "creator joins the event")
	assert.Len(t, auditLogsOf(t, operations, operation.EventCreated), 1)

	res = service.AddEvent(&RequestAddEvent{
		JwtHeader: headerOf(organizer),
		Name:      "Backwards",
		StartDate: start,
		EndDate:   start.AddDate(0, 0, -1),
	})
	assert.Equal(t, ErrIllegalParam.StatusName, res.Code)

	res = service.AddEvent(&RequestAddEvent{JwtHeader: headerOf(organizer), StartDate: start, EndDate: start})
	assert.Equal(t, ErrLackParam.StatusName, res.Code)

	viewer := createUser(t, operations, "viewer", operation.FlightShowList)
	res = service.AddEvent(&RequestAddEvent{JwtHeader: headerOf(viewer), Name: "Nope", StartDate: start, EndDate: start})
	assert.Equal(t, ErrNoPermission.StatusName, res.Code)
}

func TestGetEventsReturnsOnlyMemberships(t *testing.T) {
	service, operations := newTestEventService(t)
	alice := createUser(t, operations, "alice", operation.EventCreate)
	bobby := createUser(t, operations, "bobby", operation.EventCreate)
	createEvent(t, operations, alice)
	createEvent(t, operations, alice)
	createEvent(t, operations, bobby)

	res := service.GetEvents(&RequestGetEvents{JwtHeader: headerOf(alice), PageArguments: PageArguments{Page: 1, PageSize: 10}})

	require.True(t, res.Success, res.Error)
	assert.Equal(t, int64(2), res.Data.Total)
	for _, event := range res.Data.Items {
		assert.Equal(t, alice.ID, event.CreatedBy)
	}
}

func TestAddEventMember(t *testing.T) {
	service, operations := newTestEventService(t)
	organizer := createUser(t, operations, "organizer", operation.EventCreate|operation.EventEditMember)
	driver := createUser(t, operations, "driver", operation.FlightShowList)
	event := createEvent(t, operations, organizer)

	add := func(operator *operation.User, eventId, uid uint) *ApiResponse[ResponseAddEventMember] {
		return service.AddEventMember(&RequestAddEventMember{JwtHeader: headerOf(operator), EventId: eventId, UserId: uid})
	}

	res := add(organizer, event.ID, driver.ID)
	require.True(t, res.Success, res.Error)
	member, err := operations.EventOperation().IsMember(event.ID, driver.ID)
	require.NoError(t, err)
	assert.True(t, member)

	auditLogs := auditLogsOf(t, operations, operation.EventMemberAdded)
	require.Len(t, auditLogs, 1)

	assert.Equal(t, ErrAlreadyMember.StatusName, add(organizer, event.ID, driver.ID).Code)
	assert.Equal(t, ErrUserNotFound.StatusName, add(organizer, event.ID, driver.ID+100).Code)
	assert.Equal(t, ErrEventNotFound.StatusName, add(organizer, event.ID+100, driver.ID).Code)

	outsider := createUser(t, operations, "outsider", operation.EventEditMember)
	assert.Equal(t, ErrNotEventMember.StatusName, add(outsider, event.ID, outsider.ID).Code)
	assert.Equal(t, ErrNoPermission.StatusName, add(driver, event.ID, outsider.ID).Code)
}
