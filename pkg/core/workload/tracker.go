// Package workload tracks per-employee scheduling state during a single
// assignment run. State values are replaced, never mutated in place, so
// every update point is auditable.
package workload

import (
	"time"

	"github.com/mhollins/dutyroster/pkg/core/model"
)

// State is the running workload picture for one employee within a run.
// It is scoped to the run and discarded afterwards; it is not the durable
// weekly-hours figure used for payroll.
type State struct {
	ShiftsAssigned  int
	ConsecutiveDays int
	LastShiftDate   time.Time
	LastShiftKind   model.ShiftKind
	HoursAssigned   float64

	// hoursByWeek keys accumulated hours by the Sunday-anchored week start,
	// so multi-week runs do not bleed one week's hours into the next.
	hoursByWeek map[time.Time]float64
}

// NewState returns the initial state for an employee at run start:
// all counters zero, no last shift.
func NewState() State {
	return State{}
}

// HoursInWeek returns the hours committed so far in the week containing t
func (s State) HoursInWeek(t time.Time) float64 {
	if s.hoursByWeek == nil {
		return 0
	}
	return s.hoursByWeek[model.WeekStart(t)]
}

// Advance returns the state after committing the given shift. It increments
// the shift count, extends or resets the consecutive-day streak, records the
// shift's date and kind, and adds the overnight-adjusted duration to both
// the run total and the shift's week bucket.
func Advance(s State, shift model.Shift) State {
	next := s

	next.ShiftsAssigned++

	switch {
	case s.LastShiftDate.IsZero():
		next.ConsecutiveDays = 1
	case sameDay(shift.Date, s.LastShiftDate):
		// Second shift on the same day does not extend the streak
	case sameDay(shift.Date, s.LastShiftDate.AddDate(0, 0, 1)):
		next.ConsecutiveDays = s.ConsecutiveDays + 1
	default:
		next.ConsecutiveDays = 1
	}

	next.LastShiftDate = shift.Date
	next.LastShiftKind = shift.Kind

	hours := shift.DurationHours()
	next.HoursAssigned = s.HoursAssigned + hours

	next.hoursByWeek = make(map[time.Time]float64, len(s.hoursByWeek)+1)
	for week, h := range s.hoursByWeek {
		next.hoursByWeek[week] = h
	}
	next.hoursByWeek[model.WeekStart(shift.Date)] += hours

	return next
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
