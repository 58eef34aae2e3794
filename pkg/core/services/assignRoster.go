package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mhollins/dutyroster/internal/config"
	"github.com/mhollins/dutyroster/pkg/core/engine"
	"github.com/mhollins/dutyroster/pkg/core/model"
	"github.com/mhollins/dutyroster/pkg/core/shiftgen"
	"github.com/mhollins/dutyroster/pkg/db"
)

// AssignRosterStore defines the database operations needed to assign a roster
type AssignRosterStore interface {
	GetEmployees(ctx context.Context, departmentID string) ([]db.Employee, error)
	GetAssignments(ctx context.Context, departmentID string, from, to time.Time) ([]db.Assignment, []db.Shift, error)
	GetAvailability(ctx context.Context, departmentID string, from, to time.Time) ([]db.Availability, error)
	SaveRun(ctx context.Context, shifts []db.Shift, assignments []db.Assignment) error
}

// AssignRosterResult contains the outcome of one roster assignment run
type AssignRosterResult struct {
	DepartmentID string
	Template     string
	Start, End   time.Time
	Saved        bool
	Run          *engine.Result
}

// AssignRoster generates shifts for the date range from the named template,
// runs the assignment engine against the department's employee pool, and
// persists the run unless dryRun is set. Shifts and assignments are saved
// in one transaction so a failure never leaves a partial roster behind.
func AssignRoster(
	ctx context.Context,
	store AssignRosterStore,
	cfg *config.Config,
	logger *zap.Logger,
	templateName string,
	start, end time.Time,
	override func(*engine.Options),
	dryRun bool,
) (*AssignRosterResult, error) {
	logger.Debug("Starting assignRoster",
		zap.String("template", templateName),
		zap.String("start", start.Format("2006-01-02")),
		zap.String("end", end.Format("2006-01-02")),
		zap.Bool("dry_run", dryRun))

	tmpl, err := cfg.Template(templateName)
	if err != nil {
		return nil, err
	}

	shifts, err := shiftgen.Generate(start, end, tmpl)
	if err != nil {
		return nil, fmt.Errorf("failed to generate shifts: %w", err)
	}
	logger.Debug("Generated shifts", zap.Int("count", len(shifts)))

	logger.Debug("Fetching employees", zap.String("department", cfg.DepartmentID))
	employeeRecords, err := store.GetEmployees(ctx, cfg.DepartmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch employees: %w", err)
	}
	logger.Debug("Found employees", zap.Int("count", len(employeeRecords)))

	pool := make([]model.Employee, len(employeeRecords))
	for i, e := range employeeRecords {
		pool[i] = toModelEmployee(e)
	}

	// Pull existing assignments for a window one week either side of the
	// range so rest and weekly-hours checks see neighbouring shifts.
	windowFrom, windowTo := start.AddDate(0, 0, -7), end.AddDate(0, 0, 7)

	assignmentRecords, shiftRecords, err := store.GetAssignments(ctx, cfg.DepartmentID, windowFrom, windowTo)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch existing assignments: %w", err)
	}
	existing, err := toModelAssignments(assignmentRecords, shiftRecords)
	if err != nil {
		return nil, fmt.Errorf("failed to load existing assignments: %w", err)
	}
	logger.Debug("Found existing assignments", zap.Int("count", len(existing)))

	availabilityRecords, err := store.GetAvailability(ctx, cfg.DepartmentID, windowFrom, windowTo)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch availability: %w", err)
	}
	logger.Debug("Found availability markers", zap.Int("count", len(availabilityRecords)))

	opts := optionsFromDefaults(cfg)
	if override != nil {
		override(&opts)
	}

	logger.Info("Running assignment engine",
		zap.String("strategy", string(opts.Strategy)),
		zap.Int("shifts", len(shifts)),
		zap.Int("pool", len(pool)))

	run, err := engine.Assign(engine.Input{
		Shifts:       shifts,
		Pool:         pool,
		Existing:     existing,
		Availability: toModelAvailability(availabilityRecords),
		RolePriority: cfg.RolePriority,
	}, opts)
	if err != nil {
		return nil, fmt.Errorf("assignment failed: %w", err)
	}

	logger.Info("Assignment completed",
		zap.Int("assignments", run.AssignmentsCreated),
		zap.Float64("coverage_pct", run.CoveragePercent),
		zap.Int("understaffed", len(run.Understaffed)),
		zap.Int("unfilled", run.UnassignedShifts))

	for _, ev := range run.Events {
		switch ev.Level {
		case engine.EventError:
			logger.Error(ev.Message, zap.String("shift_id", ev.ShiftID), zap.String("employee_id", ev.EmployeeID))
		case engine.EventWarn:
			logger.Warn(ev.Message, zap.String("shift_id", ev.ShiftID))
		default:
			logger.Debug(ev.Message, zap.String("shift_id", ev.ShiftID), zap.String("employee_id", ev.EmployeeID))
		}
	}

	result := &AssignRosterResult{
		DepartmentID: cfg.DepartmentID,
		Template:     templateName,
		Start:        start,
		End:          end,
		Run:          run,
	}

	if dryRun {
		logger.Info("Dry run mode - roster not saved")
		return result, nil
	}

	dbShifts := make([]db.Shift, len(run.Shifts))
	for i, s := range run.Shifts {
		dbShifts[i] = toDBShift(s, cfg.DepartmentID)
	}
	dbAssignments := make([]db.Assignment, len(run.Assignments))
	for i, a := range run.Assignments {
		dbAssignments[i] = toDBAssignment(a)
	}

	if err := store.SaveRun(ctx, dbShifts, dbAssignments); err != nil {
		return nil, fmt.Errorf("failed to save roster: %w", err)
	}
	logger.Info("Roster saved",
		zap.Int("shifts", len(dbShifts)),
		zap.Int("assignments", len(dbAssignments)))

	result.Saved = true
	return result, nil
}
