// Package engine runs the automatic shift-staff assignment pass: greedy,
// single pass, first-fit per shift, with workload balancing between shifts.
// The engine works entirely on in-memory snapshots and returns values; the
// caller owns persistence and should wrap a run in one transaction.
package engine

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/mhollins/dutyroster/pkg/core/conflict"
	"github.com/mhollins/dutyroster/pkg/core/model"
	"github.com/mhollins/dutyroster/pkg/core/sorter"
	"github.com/mhollins/dutyroster/pkg/core/workload"
)

var validate = validator.New()

// Options controls one assignment run
type Options struct {
	// Strategy selects the initial pool ordering
	Strategy sorter.Strategy

	// PreferFullTime breaks workload ties in favour of employees without a
	// reduced weekly-hours override
	PreferFullTime bool

	// AvoidConsecutiveNights enables the back-to-back night shift rule
	AvoidConsecutiveNights bool

	// MaxShiftsPerPerson caps assignments per employee within the run.
	// Nil disables the cap.
	MaxShiftsPerPerson *int `validate:"omitempty,min=1"`

	// MinRestHours is the minimum gap between shifts; zero applies the
	// detector default
	MinRestHours float64 `validate:"min=0"`

	// MaxConsecutiveDays flags streaks at or beyond this length; zero
	// applies the detector default
	MaxConsecutiveDays int `validate:"min=0"`

	// Seed fixes the random tie-breaking for tests. Zero leaves the run
	// unseeded, which is the production behaviour.
	Seed int64
}

// DefaultOptions returns the standard run configuration
func DefaultOptions() Options {
	return Options{
		Strategy:           sorter.StrategyBalanced,
		MinRestHours:       conflict.DefaultMinRestHours,
		MaxConsecutiveDays: conflict.DefaultMaxConsecutiveDays,
	}
}

// Committer persists one assignment at commit time. Returning an error
// rejects that single assignment without aborting the run; the engine
// records the failure and moves on to the next candidate.
type Committer func(*model.Assignment) error

// Input is the full snapshot an assignment run works on
type Input struct {
	// Shifts to fill, typically from shiftgen.Generate
	Shifts []model.Shift

	// Pool of eligible employees; inactive entries are skipped
	Pool []model.Employee

	// Existing active assignments for the relevant date window, so the run
	// detects collisions with shifts outside the run
	Existing []model.Assignment

	// Availability markers for the window
	Availability []model.AvailabilityMarker

	// RolePriority overrides the sorter's role ordering; nil uses the
	// default table
	RolePriority []string

	// Commit persists each assignment as it is made. Nil commits in
	// memory only.
	Commit Committer
}

// Utilization summarises one employee's share of the run
type Utilization struct {
	EmployeeID     string
	ShiftsAssigned int
	Hours          float64

	// Percent is load against the 40-hour weekly baseline
	Percent float64
}

// EventLevel tags entries in the run's event log
type EventLevel string

const (
	EventInfo  EventLevel = "info"
	EventWarn  EventLevel = "warn"
	EventError EventLevel = "error"
)

// Event is one entry in the structured run log. The engine never logs
// ambiently; callers decide how to surface these.
type Event struct {
	Level      EventLevel
	Message    string
	ShiftID    string
	EmployeeID string
}

// Result is the outcome of one assignment run
type Result struct {
	// Assignments committed during the run
	Assignments []model.Assignment

	// Shifts with their final assigned headcounts
	Shifts []model.Shift

	AssignmentsCreated int

	// CoveragePercent is filled headcount over required headcount across
	// all shifts, in [0,100]
	CoveragePercent float64

	// Conflicts collects every conflict seen while walking candidates,
	// including warnings on employees that were still assigned
	Conflicts []model.Conflict

	// Understaffed lists shifts that ended below required headcount
	Understaffed []model.Shift

	// Unfilled lists shifts left with zero assigned staff;
	// UnassignedShifts is its length
	Unfilled         []model.Shift
	UnassignedShifts int

	// Errors holds per-assignment commit failures that were skipped over
	Errors []string

	Utilization map[string]Utilization
	Events      []Event
}

// Assign runs the greedy assignment pass over the input snapshot.
// It fails fast only on invalid input; everything that goes wrong per
// candidate or per commit is captured in the result instead.
func Assign(in Input, opts Options) (*Result, error) {
	if err := validate.Struct(opts); err != nil {
		return nil, fmt.Errorf("invalid assignment options: %w", err)
	}
	if opts.Strategy != "" && !opts.Strategy.IsValid() {
		return nil, fmt.Errorf("unknown sort strategy %q", opts.Strategy)
	}
	if len(in.Shifts) == 0 {
		return nil, fmt.Errorf("no shifts to assign")
	}

	pool := activeEmployees(in.Pool)
	if len(pool) == 0 {
		return nil, fmt.Errorf("employee pool is empty")
	}

	var rng *rand.Rand
	if opts.Seed != 0 {
		rng = rand.New(rand.NewSource(opts.Seed))
	}
	srt := sorter.New(in.RolePriority, rng)

	strategy := opts.Strategy
	if strategy == "" {
		strategy = sorter.StrategyBalanced
	}

	policy := conflict.Policy{
		MinRestHours:           opts.MinRestHours,
		MaxConsecutiveDays:     opts.MaxConsecutiveDays,
		MaxShiftsPerPerson:     opts.MaxShiftsPerPerson,
		AvoidConsecutiveNights: opts.AvoidConsecutiveNights,
	}

	// Per-employee running context. Committed assignments are appended to
	// byEmployee so later shifts in the run see them as overlap sources.
	states := make(map[string]workload.State, len(pool))
	byEmployee := make(map[string][]model.Assignment, len(pool))
	availability := make(map[string][]model.AvailabilityMarker)
	for _, e := range pool {
		states[e.ID] = workload.NewState()
	}
	for _, a := range in.Existing {
		byEmployee[a.EmployeeID] = append(byEmployee[a.EmployeeID], a)
	}
	for _, m := range in.Availability {
		availability[m.EmployeeID] = append(availability[m.EmployeeID], m)
	}

	// Initial strategy ordering; the per-shift workload sort below is
	// stable, so this ordering survives as the secondary criterion.
	pool = srt.Rank(pool, strategy)

	shifts := orderShifts(in.Shifts)
	result := &Result{Utilization: make(map[string]Utilization, len(pool))}

	for si := range shifts {
		shift := &shifts[si]

		candidates := srt.ByWorkload(pool, states, opts.PreferFullTime)

		for _, emp := range candidates {
			if !shift.Understaffed() {
				break
			}

			ctx := conflict.Context{
				Employee:     emp,
				Assignments:  byEmployee[emp.ID],
				Availability: availability[emp.ID],
				State:        states[emp.ID],
				Policy:       policy,
			}
			conflicts := conflict.Detect(*shift, ctx)
			result.Conflicts = append(result.Conflicts, conflicts...)

			if model.HasBlocking(conflicts) {
				continue
			}

			assignment := model.Assignment{
				ID:         uuid.New().String(),
				EmployeeID: emp.ID,
				Shift:      *shift,
				Status:     model.StatusAssigned,
				AssignedAt: time.Now(),
				Note:       fmt.Sprintf("auto-assigned using %s strategy", strategy),
			}

			if in.Commit != nil {
				if err := in.Commit(&assignment); err != nil {
					msg := fmt.Sprintf("failed to commit assignment for employee %s on shift %s: %v",
						emp.ID, shift.ID, err)
					result.Errors = append(result.Errors, msg)
					result.Events = append(result.Events, Event{
						Level: EventError, Message: msg,
						ShiftID: shift.ID, EmployeeID: emp.ID,
					})
					continue
				}
			}

			shift.Assigned++
			assignment.Shift = *shift
			byEmployee[emp.ID] = append(byEmployee[emp.ID], assignment)
			states[emp.ID] = workload.Advance(states[emp.ID], *shift)
			result.Assignments = append(result.Assignments, assignment)
			result.AssignmentsCreated++
			result.Events = append(result.Events, Event{
				Level:      EventInfo,
				Message:    fmt.Sprintf("assigned %s to %s", emp.Name, shift),
				ShiftID:    shift.ID,
				EmployeeID: emp.ID,
			})
		}

		if shift.Understaffed() {
			result.Events = append(result.Events, Event{
				Level:   EventWarn,
				Message: fmt.Sprintf("shift %s understaffed: %d of %d filled", shift, shift.Assigned, shift.Required),
				ShiftID: shift.ID,
			})
		}
	}

	result.Shifts = shifts
	summarize(result, pool, states)
	return result, nil
}

// orderShifts sorts chronologically by date, then by kind priority within a
// date (day, evening, night, others last), then by start time.
func orderShifts(shifts []model.Shift) []model.Shift {
	out := make([]model.Shift, len(shifts))
	copy(out, shifts)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		pa, pb := model.KindPriority(a.Kind), model.KindPriority(b.Kind)
		if pa != pb {
			return pa < pb
		}
		return a.Start.Before(b.Start)
	})
	return out
}

func activeEmployees(pool []model.Employee) []model.Employee {
	out := make([]model.Employee, 0, len(pool))
	for _, e := range pool {
		if e.Active {
			out = append(out, e)
		}
	}
	return out
}

// summarize fills coverage, understaffed/unfilled lists, and utilization
func summarize(result *Result, pool []model.Employee, states map[string]workload.State) {
	var required, filled int
	for _, s := range result.Shifts {
		required += s.Required
		filled += min(s.Assigned, s.Required)
		if s.Assigned == 0 {
			result.Unfilled = append(result.Unfilled, s)
		}
		if s.Understaffed() {
			result.Understaffed = append(result.Understaffed, s)
		}
	}
	result.UnassignedShifts = len(result.Unfilled)

	if required > 0 {
		result.CoveragePercent = float64(filled) / float64(required) * 100
	}

	for _, e := range pool {
		st := states[e.ID]
		result.Utilization[e.ID] = Utilization{
			EmployeeID:     e.ID,
			ShiftsAssigned: st.ShiftsAssigned,
			Hours:          st.HoursAssigned,
			Percent:        st.HoursAssigned / model.DefaultMaxWeeklyHours * 100,
		}
	}
}
