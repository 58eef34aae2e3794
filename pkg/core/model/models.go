package model

import (
	"fmt"
	"time"
)

// ShiftKind classifies a shift for priority ordering and policy checks
type ShiftKind string

const (
	KindDay     ShiftKind = "day"
	KindEvening ShiftKind = "evening"
	KindNight   ShiftKind = "night"
	KindWeekend ShiftKind = "weekend"
	KindHoliday ShiftKind = "holiday"
)

// KindPriority returns the intra-day ordering rank for a shift kind.
// Day shifts are assigned first, then evening, then night; anything else last.
func KindPriority(k ShiftKind) int {
	switch k {
	case KindDay:
		return 0
	case KindEvening:
		return 1
	case KindNight:
		return 2
	default:
		return 3
	}
}

// AssignmentStatus tracks the lifecycle of an employee-shift link
type AssignmentStatus string

const (
	StatusAssigned  AssignmentStatus = "assigned"
	StatusConfirmed AssignmentStatus = "confirmed"
	StatusDeclined  AssignmentStatus = "declined"
	StatusCompleted AssignmentStatus = "completed"
	StatusNoShow    AssignmentStatus = "no_show"
)

// IsActive reports whether the assignment still occupies the employee's time
func (s AssignmentStatus) IsActive() bool {
	return s == StatusAssigned || s == StatusConfirmed || s == StatusCompleted
}

// AvailabilityType classifies an employee's availability marker for a date
type AvailabilityType string

const (
	AvailabilityAvailable   AvailabilityType = "available"
	AvailabilityUnavailable AvailabilityType = "unavailable"
	AvailabilityPreferred   AvailabilityType = "preferred"
	AvailabilityLimited     AvailabilityType = "limited"
)

// Shift represents a single staffing need at a fixed date and time window
type Shift struct {
	ID string

	// Date is the calendar day the shift starts on, truncated to midnight
	Date time.Time

	// Start and End are clock times on Date. End may be earlier than Start
	// for overnight shifts; Overnight must be set in that case.
	Start     time.Time
	End       time.Time
	Overnight bool

	Kind     ShiftKind
	Required int
	Assigned int
}

// Window returns the absolute [start, end) interval of the shift,
// pushing End to the next day when the shift wraps past midnight.
func (s Shift) Window() (time.Time, time.Time) {
	start := at(s.Date, s.Start)
	end := at(s.Date, s.End)
	if s.Overnight || !end.After(start) {
		end = end.AddDate(0, 0, 1)
	}
	return start, end
}

// DurationHours returns the shift length in hours, overnight-adjusted
func (s Shift) DurationHours() float64 {
	start, end := s.Window()
	return end.Sub(start).Hours()
}

// Understaffed reports whether the shift still needs more staff
func (s Shift) Understaffed() bool {
	return s.Assigned < s.Required
}

func (s Shift) String() string {
	return fmt.Sprintf("%s %s %s-%s", s.Date.Format("2006-01-02"), s.Kind,
		s.Start.Format("15:04"), s.End.Format("15:04"))
}

// at combines a calendar date with a clock time
func at(date, clock time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(),
		clock.Hour(), clock.Minute(), 0, 0, date.Location())
}

// Overlaps reports whether two half-open intervals intersect
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// Employee is a candidate for shift assignment. Read-only to the core.
type Employee struct {
	ID           string
	Name         string
	Role         string
	DepartmentID string
	Active       bool
	HireDate     time.Time

	// MaxWeeklyHours caps the weekly-hours conflict rule. Zero means the
	// 40-hour default applies.
	MaxWeeklyHours float64
}

// DefaultMaxWeeklyHours is applied when an employee has no override
const DefaultMaxWeeklyHours = 40.0

// WeeklyHourCap returns the employee's effective weekly-hours limit
func (e Employee) WeeklyHourCap() float64 {
	if e.MaxWeeklyHours > 0 {
		return e.MaxWeeklyHours
	}
	return DefaultMaxWeeklyHours
}

// Assignment links one employee to one shift
type Assignment struct {
	ID         string
	EmployeeID string
	Shift      Shift
	Status     AssignmentStatus
	AssignedAt time.Time
	Note       string
}

// AvailabilityMarker records an employee's declared availability for a date.
// The time window is optional; zero values mean the whole day.
type AvailabilityMarker struct {
	EmployeeID string
	Date       time.Time
	Type       AvailabilityType
	Start      time.Time
	End        time.Time
}

// ConflictKind identifies which constraint rule produced a conflict
type ConflictKind string

const (
	ConflictTimeOverlap      ConflictKind = "time-overlap"
	ConflictAvailability     ConflictKind = "availability"
	ConflictConsecutiveDays  ConflictKind = "consecutive-days-limit"
	ConflictWeeklyHours      ConflictKind = "weekly-hours-limit"
	ConflictInsufficientRest ConflictKind = "insufficient-rest"
	ConflictAlreadyAssigned  ConflictKind = "already-assigned"
	ConflictMaxShifts        ConflictKind = "max-shifts-limit"
	ConflictConsecutiveNight ConflictKind = "consecutive-nights"
	ConflictDetectionError   ConflictKind = "detection-error"
)

// ConflictSeverity separates violations that block assignment from
// violations that are recorded but do not prevent it
type ConflictSeverity string

const (
	SeverityBlocking ConflictSeverity = "blocking"
	SeverityWarning  ConflictSeverity = "warning"
)

// Conflict is a computed constraint violation. Never persisted.
type Conflict struct {
	Kind        ConflictKind
	Severity    ConflictSeverity
	Description string

	// ShiftID and AssignmentID reference the colliding records when the
	// rule involves an existing assignment
	ShiftID      string
	AssignmentID string
}

// Blocking reports whether the conflict prevents assignment outright
func (c Conflict) Blocking() bool {
	return c.Severity == SeverityBlocking
}

// HasBlocking reports whether any conflict in the list is blocking
func HasBlocking(conflicts []Conflict) bool {
	for _, c := range conflicts {
		if c.Blocking() {
			return true
		}
	}
	return false
}

// WeekStart returns the Sunday-anchored start of the week containing t
func WeekStart(t time.Time) time.Time {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return d.AddDate(0, 0, -int(d.Weekday()))
}
