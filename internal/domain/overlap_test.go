package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConflictingSlots(t *testing.T) {
	existing := []*Reservation{
		{ID: 1, CourtID: 1, Date: testDate, StartTime: "10:00", EndTime: "11:00", Status: StatusPending},
		{ID: 2, CourtID: 1, Date: testDate, StartTime: "14:00", EndTime: "15:00", Status: StatusCancelled},
		{ID: 3, CourtID: 2, Date: testDate, StartTime: "12:00", EndTime: "13:00", Status: StatusConfirmed},
	}

	slots := []TimeSlot{
		{CourtID: 1, Date: testDate, StartTime: "10:30", EndTime: "11:30"},
		{CourtID: 1, Date: testDate, StartTime: "11:00", EndTime: "12:00"},
		{CourtID: 1, Date: testDate, StartTime: "14:00", EndTime: "15:00"},
		{CourtID: 1, Date: testDate, StartTime: "12:00", EndTime: "13:00"},
		{CourtID: 2, Date: testDate, StartTime: "12:00", EndTime: "13:00"},
	}

	conflicts, err := ConflictingSlots(slots, existing)
	require.NoError(t, err)
	require.Len(t, conflicts, 2)
	assert.Equal(t, "10:30-11:30", conflicts[0].Range())
	assert.Equal(t, int64(2), conflicts[1].CourtID)
}

func TestConflictingSlots_OtherDate(t *testing.T) {
	existing := []*Reservation{
		{CourtID: 1, Date: testDate.AddDate(0, 0, 1), StartTime: "10:00", EndTime: "11:00", Status: StatusConfirmed},
	}
	conflicts, err := ConflictingSlots([]TimeSlot{{CourtID: 1, Date: testDate, StartTime: "10:00", EndTime: "11:00"}}, existing)
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}

func TestSelfOverlapping(t *testing.T) {
	a := TimeSlot{CourtID: 1, Date: testDate, StartTime: "10:00", EndTime: "11:00"}
	b := TimeSlot{CourtID: 1, Date: testDate, StartTime: "10:30", EndTime: "11:30"}
	c := TimeSlot{CourtID: 2, Date: testDate, StartTime: "10:00", EndTime: "11:00"}
	d := TimeSlot{CourtID: 1, Date: testDate, StartTime: "11:00", EndTime: "12:00"}

	_, _, found := SelfOverlapping([]TimeSlot{a, c, d})
	assert.False(t, found)

	first, second, found := SelfOverlapping([]TimeSlot{a, c, b})
	require.True(t, found)
	assert.Equal(t, a, first)
	assert.Equal(t, b, second)
}
