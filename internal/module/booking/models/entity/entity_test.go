package entity_test

import (
	"testing"

	"rental-service/internal/module/booking/models/entity"

	"github.com/stretchr/testify/assert"
)

func TestBookingStatusTransitions(t *testing.T) {
	testCases := []struct {
		from     entity.BookingStatus
		to       entity.BookingStatus
		expected bool
	}{
		{entity.StatusPending, entity.StatusActive, true},
		{entity.StatusPending, entity.StatusCancelled, true},
		{entity.StatusPending, entity.StatusPending, false},
		{entity.StatusActive, entity.StatusCancelled, false},
		{entity.StatusActive, entity.StatusPending, false},
		{entity.StatusCancelled, entity.StatusActive, false},
		{entity.StatusCancelled, entity.StatusPending, false},
		{entity.BookingStatus("booked"), entity.StatusActive, false},
	}

	for _, tc := range testCases {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.from.CanTransitionTo(tc.to))
		})
	}
}
