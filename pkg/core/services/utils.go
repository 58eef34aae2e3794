package services

import (
	"fmt"
	"time"

	"github.com/mhollins/dutyroster/internal/config"
	"github.com/mhollins/dutyroster/pkg/core/engine"
	"github.com/mhollins/dutyroster/pkg/core/model"
	"github.com/mhollins/dutyroster/pkg/core/sorter"
	"github.com/mhollins/dutyroster/pkg/db"
)

// optionsFromDefaults builds engine options from the standing config
func optionsFromDefaults(cfg *config.Config) engine.Options {
	opts := engine.DefaultOptions()
	d := cfg.Defaults
	if d.Strategy != "" {
		opts.Strategy = sorter.Strategy(d.Strategy)
	}
	if d.MinRestHours > 0 {
		opts.MinRestHours = d.MinRestHours
	}
	if d.MaxConsecutiveDays > 0 {
		opts.MaxConsecutiveDays = d.MaxConsecutiveDays
	}
	opts.MaxShiftsPerPerson = d.MaxShiftsPerPerson
	opts.PreferFullTime = d.PreferFullTime
	opts.AvoidConsecutiveNights = d.AvoidNights
	return opts
}

// toModelEmployee converts a stored employee record to the core type
func toModelEmployee(e db.Employee) model.Employee {
	emp := model.Employee{
		ID:           e.ID,
		Name:         e.Name,
		Role:         e.Role,
		DepartmentID: e.DepartmentID,
		Active:       e.Active,
		HireDate:     e.HireDate,
	}
	if e.MaxWeeklyHours != nil {
		emp.MaxWeeklyHours = *e.MaxWeeklyHours
	}
	return emp
}

// toModelShift converts a stored shift record to the core type
func toModelShift(s db.Shift) (model.Shift, error) {
	start, err := time.Parse("15:04", s.StartTime)
	if err != nil {
		return model.Shift{}, fmt.Errorf("shift %s: bad start time %q: %w", s.ID, s.StartTime, err)
	}
	end, err := time.Parse("15:04", s.EndTime)
	if err != nil {
		return model.Shift{}, fmt.Errorf("shift %s: bad end time %q: %w", s.ID, s.EndTime, err)
	}
	return model.Shift{
		ID:        s.ID,
		Date:      s.Date,
		Start:     start,
		End:       end,
		Overnight: s.Overnight,
		Kind:      model.ShiftKind(s.Kind),
		Required:  s.Required,
		Assigned:  s.Assigned,
	}, nil
}

// toModelAssignments joins stored assignments with their shifts
func toModelAssignments(assignments []db.Assignment, shifts []db.Shift) ([]model.Assignment, error) {
	shiftsByID := make(map[string]model.Shift, len(shifts))
	for _, s := range shifts {
		ms, err := toModelShift(s)
		if err != nil {
			return nil, err
		}
		shiftsByID[s.ID] = ms
	}

	out := make([]model.Assignment, 0, len(assignments))
	for _, a := range assignments {
		shift, ok := shiftsByID[a.ShiftID]
		if !ok {
			return nil, fmt.Errorf("assignment %s references unknown shift %s", a.ID, a.ShiftID)
		}
		out = append(out, model.Assignment{
			ID:         a.ID,
			EmployeeID: a.EmployeeID,
			Shift:      shift,
			Status:     model.AssignmentStatus(a.Status),
			AssignedAt: a.AssignedAt,
			Note:       a.Note,
		})
	}
	return out, nil
}

// toModelAvailability converts stored availability markers to the core type
func toModelAvailability(markers []db.Availability) []model.AvailabilityMarker {
	out := make([]model.AvailabilityMarker, len(markers))
	for i, m := range markers {
		out[i] = model.AvailabilityMarker{
			EmployeeID: m.EmployeeID,
			Date:       m.Date,
			Type:       model.AvailabilityType(m.Type),
		}
	}
	return out
}

// toDBShift converts a core shift to its stored record
func toDBShift(s model.Shift, departmentID string) db.Shift {
	return db.Shift{
		ID:           s.ID,
		DepartmentID: departmentID,
		Date:         s.Date,
		StartTime:    s.Start.Format("15:04"),
		EndTime:      s.End.Format("15:04"),
		Overnight:    s.Overnight,
		Kind:         string(s.Kind),
		Required:     s.Required,
		Assigned:     s.Assigned,
	}
}

// toDBAssignment converts a core assignment to its stored record
func toDBAssignment(a model.Assignment) db.Assignment {
	return db.Assignment{
		ID:         a.ID,
		ShiftID:    a.Shift.ID,
		EmployeeID: a.EmployeeID,
		Status:     string(a.Status),
		AssignedAt: a.AssignedAt,
		Note:       a.Note,
	}
}
