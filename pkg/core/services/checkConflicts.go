package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mhollins/dutyroster/internal/config"
	"github.com/mhollins/dutyroster/pkg/core/conflict"
	"github.com/mhollins/dutyroster/pkg/core/model"
	"github.com/mhollins/dutyroster/pkg/core/workload"
	"github.com/mhollins/dutyroster/pkg/db"
)

// CheckConflictsStore defines the database operations needed for a one-off
// conflict evaluation
type CheckConflictsStore interface {
	GetEmployees(ctx context.Context, departmentID string) ([]db.Employee, error)
	GetAssignments(ctx context.Context, departmentID string, from, to time.Time) ([]db.Assignment, []db.Shift, error)
	GetAvailability(ctx context.Context, departmentID string, from, to time.Time) ([]db.Availability, error)
}

// CheckConflictsResult reports the conflicts for one candidate pairing
type CheckConflictsResult struct {
	EmployeeID string
	Shift      model.Shift
	Conflicts  []model.Conflict
	Assignable bool
}

// CheckConflicts evaluates every constraint rule for assigning one employee
// to one candidate shift, against their persisted assignments and
// availability. Mirrors what the engine does per candidate, without
// committing anything.
func CheckConflicts(
	ctx context.Context,
	store CheckConflictsStore,
	cfg *config.Config,
	logger *zap.Logger,
	employeeID string,
	shift model.Shift,
) (*CheckConflictsResult, error) {
	logger.Debug("Starting checkConflicts",
		zap.String("employee_id", employeeID),
		zap.String("shift", shift.String()))

	employees, err := store.GetEmployees(ctx, cfg.DepartmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch employees: %w", err)
	}

	var employee model.Employee
	found := false
	for _, e := range employees {
		if e.ID == employeeID {
			employee = toModelEmployee(e)
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("employee %s not found in department %s", employeeID, cfg.DepartmentID)
	}

	windowFrom, windowTo := shift.Date.AddDate(0, 0, -7), shift.Date.AddDate(0, 0, 7)

	assignmentRecords, shiftRecords, err := store.GetAssignments(ctx, cfg.DepartmentID, windowFrom, windowTo)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch assignments: %w", err)
	}
	all, err := toModelAssignments(assignmentRecords, shiftRecords)
	if err != nil {
		return nil, fmt.Errorf("failed to load assignments: %w", err)
	}
	var mine []model.Assignment
	for _, a := range all {
		if a.EmployeeID == employeeID {
			mine = append(mine, a)
		}
	}

	availabilityRecords, err := store.GetAvailability(ctx, cfg.DepartmentID, windowFrom, windowTo)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch availability: %w", err)
	}
	var markers []model.AvailabilityMarker
	for _, m := range toModelAvailability(availabilityRecords) {
		if m.EmployeeID == employeeID {
			markers = append(markers, m)
		}
	}

	opts := optionsFromDefaults(cfg)
	conflicts := conflict.Detect(shift, conflict.Context{
		Employee:     employee,
		Assignments:  mine,
		Availability: markers,
		State:        workload.NewState(),
		Policy: conflict.Policy{
			MinRestHours:           opts.MinRestHours,
			MaxConsecutiveDays:     opts.MaxConsecutiveDays,
			MaxShiftsPerPerson:     opts.MaxShiftsPerPerson,
			AvoidConsecutiveNights: opts.AvoidConsecutiveNights,
		},
	})

	logger.Info("Conflict check completed",
		zap.String("employee_id", employeeID),
		zap.Int("conflicts", len(conflicts)),
		zap.Bool("assignable", !model.HasBlocking(conflicts)))

	return &CheckConflictsResult{
		EmployeeID: employeeID,
		Shift:      shift,
		Conflicts:  conflicts,
		Assignable: !model.HasBlocking(conflicts),
	}, nil
}
