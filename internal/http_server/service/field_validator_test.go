package service

import (
	"testing"

	. "github.com/half-nothing/event-logistics/internal/interfaces/service"
	"github.com/stretchr/testify/assert"
)

func TestCheckStructFlightStatus(t *testing.T) {
	validator := newTestValidator()

	for _, status := range []string{"pending", "Arrived", "Delay", "No show", "Re scheduled"} {
		res, err := validator.CheckStruct(&RequestUpdateFlightStatus{FlightId: 1, Status: status})
		assert.Nil(t, res, status)
		assert.NoError(t, err, status)
	}

	for _, status := range []string{"", "arrived", "PENDING", "No Show", "Rescheduled", " Delay"} {
		res, _ := validator.CheckStruct(&RequestUpdateFlightStatus{FlightId: 1, Status: status})
		assert.Equal(t, &ErrInvalidFlightStatus, res, status)
	}
}

func TestCheckStructMapsTags(t *testing.T) {
	validator := newTestValidator()

	res, err := validator.CheckStruct(&RequestGetFlightSchedule{})
	assert.Equal(t, &ErrLackParam, res)
	assert.Error(t, err)

	res, _ = validator.CheckStruct(&RequestAddUser{Username: "alice", Password: "password", Email: "not-an-email"})
	assert.Equal(t, &ErrIllegalParam, res)
}

func TestCheckPage(t *testing.T) {
	validator := newTestValidator()

	assert.Nil(t, validator.CheckPage(PageArguments{Page: 1, PageSize: 100}))
	assert.Equal(t, &ErrIllegalParam, validator.CheckPage(PageArguments{Page: 0, PageSize: 10}))
	assert.Equal(t, &ErrIllegalParam, validator.CheckPage(PageArguments{Page: 1, PageSize: 0}))
	assert.Equal(t, "PAGE_SIZE_TOO_LARGE", validator.CheckPage(PageArguments{Page: 1, PageSize: 101}).StatusName)
}
