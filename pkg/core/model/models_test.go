package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func clock(h, min int) time.Time {
	return time.Date(0, 1, 1, h, min, 0, 0, time.UTC)
}

func TestShiftWindow_SameDay(t *testing.T) {
	s := Shift{
		Date:  date(2024, 1, 15),
		Start: clock(9, 0),
		End:   clock(17, 0),
	}

	start, end := s.Window()

	assert.Equal(t, time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 1, 15, 17, 0, 0, 0, time.UTC), end)
	assert.Equal(t, 8.0, s.DurationHours())
}

func TestShiftWindow_Overnight(t *testing.T) {
	s := Shift{
		Date:      date(2024, 1, 15),
		Start:     clock(21, 0),
		End:       clock(7, 0),
		Overnight: true,
	}

	start, end := s.Window()

	assert.Equal(t, time.Date(2024, 1, 15, 21, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 1, 16, 7, 0, 0, 0, time.UTC), end)
	assert.Equal(t, 10.0, s.DurationHours())
}

func TestShiftWindow_EndBeforeStartTreatedAsNextDay(t *testing.T) {
	// End at or before start implies wraparound even without the flag
	s := Shift{
		Date:  date(2024, 1, 15),
		Start: clock(23, 0),
		End:   clock(6, 0),
	}

	_, end := s.Window()
	assert.Equal(t, time.Date(2024, 1, 16, 6, 0, 0, 0, time.UTC), end)
	assert.Equal(t, 7.0, s.DurationHours())
}

func TestOverlaps(t *testing.T) {
	a1 := time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)
	a2 := time.Date(2024, 1, 15, 16, 0, 0, 0, time.UTC)

	assert.True(t, Overlaps(a1, a2, time.Date(2024, 1, 15, 15, 0, 0, 0, time.UTC), time.Date(2024, 1, 15, 23, 0, 0, 0, time.UTC)))
	// Touching intervals do not overlap
	assert.False(t, Overlaps(a1, a2, a2, a2.Add(8*time.Hour)))
}

func TestKindPriority_Ordering(t *testing.T) {
	assert.Less(t, KindPriority(KindDay), KindPriority(KindEvening))
	assert.Less(t, KindPriority(KindEvening), KindPriority(KindNight))
	assert.Less(t, KindPriority(KindNight), KindPriority(KindWeekend))
	assert.Equal(t, KindPriority(KindWeekend), KindPriority(KindHoliday))
}

func TestWeekStart_SundayAnchored(t *testing.T) {
	// 2024-01-15 is a Monday
	assert.Equal(t, date(2024, 1, 14), WeekStart(date(2024, 1, 15)))
	// Sunday maps to itself
	assert.Equal(t, date(2024, 1, 14), WeekStart(date(2024, 1, 14)))
	// Saturday belongs to the preceding Sunday's week
	assert.Equal(t, date(2024, 1, 14), WeekStart(date(2024, 1, 20)))
}

func TestWeeklyHourCap(t *testing.T) {
	assert.Equal(t, 40.0, Employee{}.WeeklyHourCap())
	assert.Equal(t, 30.0, Employee{MaxWeeklyHours: 30}.WeeklyHourCap())
}

func TestAssignmentStatusIsActive(t *testing.T) {
	assert.True(t, StatusAssigned.IsActive())
	assert.True(t, StatusConfirmed.IsActive())
	assert.True(t, StatusCompleted.IsActive())
	assert.False(t, StatusDeclined.IsActive())
	assert.False(t, StatusNoShow.IsActive())
}
