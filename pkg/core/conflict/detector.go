// Package conflict evaluates scheduling constraint rules for a candidate
// employee/shift pairing. Every applicable rule is checked and the results
// are concatenated, so callers always see the full conflict set rather than
// the first violation found.
package conflict

import (
	"fmt"
	"time"

	"github.com/mhollins/dutyroster/pkg/core/model"
	"github.com/mhollins/dutyroster/pkg/core/workload"
)

// Defaults for the configurable rule thresholds
const (
	DefaultMinRestHours       = 8.0
	DefaultMaxConsecutiveDays = 5
)

// Policy holds the caller-tunable rule thresholds for one detection pass
type Policy struct {
	// MinRestHours is the minimum gap between an employee's previous shift
	// end and the candidate shift start
	MinRestHours float64

	// MaxConsecutiveDays flags streaks at or beyond this length
	MaxConsecutiveDays int

	// MaxShiftsPerPerson limits assignments per employee within a run.
	// Nil disables the rule.
	MaxShiftsPerPerson *int

	// AvoidConsecutiveNights blocks back-to-back night shifts when set
	AvoidConsecutiveNights bool
}

// DefaultPolicy returns a Policy with the standard thresholds
func DefaultPolicy() Policy {
	return Policy{
		MinRestHours:       DefaultMinRestHours,
		MaxConsecutiveDays: DefaultMaxConsecutiveDays,
	}
}

// Context bundles everything the detector needs about one employee:
// their profile, existing assignments for the relevant date window,
// availability markers, and the in-run workload state.
type Context struct {
	Employee     model.Employee
	Assignments  []model.Assignment
	Availability []model.AvailabilityMarker
	State        workload.State
	Policy       Policy
}

// rule is one constraint check; it returns its own findings and the caller
// concatenates them
type rule func(model.Shift, Context) []model.Conflict

// rules is the ordered constraint set Detect walks. Package-level so tests
// can exercise the recovery path with a failing rule.
var rules = []rule{
	checkTimeOverlap,
	checkAvailability,
	checkConsecutiveDays,
	checkWeeklyHours,
	checkRest,
	checkAlreadyAssigned,
	checkMaxShifts,
	checkConsecutiveNights,
}

// Detect evaluates every constraint rule for the candidate shift and returns
// all conflicts found. It never mutates the context and never panics past its
// boundary: an unexpected failure inside a rule surfaces as a single
// warning-severity detection-error conflict so the assignment loop can
// continue with a partial result.
func Detect(shift model.Shift, ctx Context) (conflicts []model.Conflict) {
	defer func() {
		if r := recover(); r != nil {
			conflicts = append(conflicts, model.Conflict{
				Kind:        model.ConflictDetectionError,
				Severity:    model.SeverityWarning,
				Description: fmt.Sprintf("conflict detection failed: %v", r),
			})
		}
	}()

	for _, check := range rules {
		conflicts = append(conflicts, check(shift, ctx)...)
	}

	return conflicts
}

// checkTimeOverlap flags active assignments on the same calendar date whose
// interval intersects the candidate's, overnight-adjusted on both sides.
func checkTimeOverlap(shift model.Shift, ctx Context) []model.Conflict {
	var out []model.Conflict
	candStart, candEnd := shift.Window()

	for _, a := range ctx.Assignments {
		if !a.Status.IsActive() || a.Shift.ID == shift.ID {
			continue
		}
		if !sameDay(a.Shift.Date, shift.Date) {
			continue
		}
		exStart, exEnd := a.Shift.Window()
		if model.Overlaps(candStart, candEnd, exStart, exEnd) {
			out = append(out, model.Conflict{
				Kind:     model.ConflictTimeOverlap,
				Severity: model.SeverityBlocking,
				Description: fmt.Sprintf("overlaps existing shift %s-%s on %s",
					a.Shift.Start.Format("15:04"), a.Shift.End.Format("15:04"),
					shift.Date.Format("2006-01-02")),
				ShiftID:      a.Shift.ID,
				AssignmentID: a.ID,
			})
		}
	}
	return out
}

// checkAvailability flags an unavailable marker on the candidate date
func checkAvailability(shift model.Shift, ctx Context) []model.Conflict {
	for _, m := range ctx.Availability {
		if m.Type == model.AvailabilityUnavailable && sameDay(m.Date, shift.Date) {
			return []model.Conflict{{
				Kind:     model.ConflictAvailability,
				Severity: model.SeverityWarning,
				Description: fmt.Sprintf("employee marked unavailable on %s",
					shift.Date.Format("2006-01-02")),
			}}
		}
	}
	return nil
}

// checkConsecutiveDays walks backward day-by-day from the candidate date
// while at least one assignment exists on each day, and flags streaks that
// reach the configured threshold.
func checkConsecutiveDays(shift model.Shift, ctx Context) []model.Conflict {
	limit := ctx.Policy.MaxConsecutiveDays
	if limit <= 0 {
		limit = DefaultMaxConsecutiveDays
	}

	daysWorked := make(map[time.Time]bool, len(ctx.Assignments))
	for _, a := range ctx.Assignments {
		if a.Status.IsActive() {
			daysWorked[dateKey(a.Shift.Date)] = true
		}
	}

	streak := 0
	for day := dateKey(shift.Date).AddDate(0, 0, -1); daysWorked[day]; day = day.AddDate(0, 0, -1) {
		streak++
	}

	if streak >= limit {
		return []model.Conflict{{
			Kind:     model.ConflictConsecutiveDays,
			Severity: model.SeverityWarning,
			Description: fmt.Sprintf("would be day %d of a consecutive streak (limit %d)",
				streak+1, limit),
		}}
	}
	return nil
}

// checkWeeklyHours sums the employee's assigned hours within the
// Sunday-anchored week containing the candidate date, adds the candidate's
// own duration, and flags if the total would exceed the weekly cap.
func checkWeeklyHours(shift model.Shift, ctx Context) []model.Conflict {
	week := model.WeekStart(shift.Date)
	weekEnd := week.AddDate(0, 0, 7)

	total := shift.DurationHours()
	for _, a := range ctx.Assignments {
		if !a.Status.IsActive() || a.Shift.ID == shift.ID {
			continue
		}
		d := dateKey(a.Shift.Date)
		if !d.Before(week) && d.Before(weekEnd) {
			total += a.Shift.DurationHours()
		}
	}

	cap := ctx.Employee.WeeklyHourCap()
	if total > cap {
		return []model.Conflict{{
			Kind:     model.ConflictWeeklyHours,
			Severity: model.SeverityWarning,
			Description: fmt.Sprintf("would reach %.1f weekly hours (limit %.1f)",
				total, cap),
		}}
	}
	return nil
}

// checkRest finds the most recent prior assignment ending at or before the
// candidate start, across dates, and flags gaps below the minimum rest.
func checkRest(shift model.Shift, ctx Context) []model.Conflict {
	minRest := ctx.Policy.MinRestHours
	if minRest <= 0 {
		minRest = DefaultMinRestHours
	}

	candStart, _ := shift.Window()

	var prev *model.Assignment
	var prevEnd time.Time
	for i := range ctx.Assignments {
		a := &ctx.Assignments[i]
		if !a.Status.IsActive() || a.Shift.ID == shift.ID {
			continue
		}
		_, end := a.Shift.Window()
		if end.After(candStart) {
			continue
		}
		if prev == nil || end.After(prevEnd) {
			prev = a
			prevEnd = end
		}
	}

	if prev == nil {
		return nil
	}

	gap := candStart.Sub(prevEnd).Hours()
	if gap < minRest {
		return []model.Conflict{{
			Kind:     model.ConflictInsufficientRest,
			Severity: model.SeverityBlocking,
			Description: fmt.Sprintf("only %.1f hours rest since previous shift (minimum %.1f)",
				gap, minRest),
			ShiftID:      prev.Shift.ID,
			AssignmentID: prev.ID,
		}}
	}
	return nil
}

// checkAlreadyAssigned flags an active assignment for this exact pair
func checkAlreadyAssigned(shift model.Shift, ctx Context) []model.Conflict {
	for _, a := range ctx.Assignments {
		if a.Status.IsActive() && a.Shift.ID == shift.ID {
			return []model.Conflict{{
				Kind:         model.ConflictAlreadyAssigned,
				Severity:     model.SeverityBlocking,
				Description:  "employee is already assigned to this shift",
				ShiftID:      shift.ID,
				AssignmentID: a.ID,
			}}
		}
	}
	return nil
}

// checkMaxShifts enforces the per-run assignment cap when one is supplied
func checkMaxShifts(_ model.Shift, ctx Context) []model.Conflict {
	limit := ctx.Policy.MaxShiftsPerPerson
	if limit == nil {
		return nil
	}
	if ctx.State.ShiftsAssigned >= *limit {
		return []model.Conflict{{
			Kind:     model.ConflictMaxShifts,
			Severity: model.SeverityBlocking,
			Description: fmt.Sprintf("employee already holds %d shifts this run (limit %d)",
				ctx.State.ShiftsAssigned, *limit),
		}}
	}
	return nil
}

// checkConsecutiveNights blocks a night shift immediately following another
// night shift when the policy asks for it
func checkConsecutiveNights(shift model.Shift, ctx Context) []model.Conflict {
	if !ctx.Policy.AvoidConsecutiveNights {
		return nil
	}
	if shift.Kind != model.KindNight || ctx.State.LastShiftKind != model.KindNight {
		return nil
	}
	gap := dateKey(shift.Date).Sub(dateKey(ctx.State.LastShiftDate)).Hours() / 24
	if gap <= 1 {
		return []model.Conflict{{
			Kind:        model.ConflictConsecutiveNight,
			Severity:    model.SeverityBlocking,
			Description: "consecutive night shifts are disallowed by roster policy",
		}}
	}
	return nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func dateKey(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
