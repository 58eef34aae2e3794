package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/mhollins/dutyroster/pkg/db"
)

// GetEmployees retrieves the active employees for a department
func (d *DB) GetEmployees(ctx context.Context, departmentID string) ([]db.Employee, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, name, role, department_id, active, hire_date, max_weekly_hours
		FROM employee
		WHERE department_id = $1 AND active
	`, departmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	var employees []db.Employee
	for rows.Next() {
		var e db.Employee
		if err := rows.Scan(&e.ID, &e.Name, &e.Role, &e.DepartmentID, &e.Active,
			&e.HireDate, &e.MaxWeeklyHours); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating employees: %w", err)
	}

	return employees, nil
}

// GetAssignments retrieves assignments, with their shifts, for all shifts of
// a department dated within [from, to]
func (d *DB) GetAssignments(ctx context.Context, departmentID string, from, to time.Time) ([]db.Assignment, []db.Shift, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT a.id, a.shift_id, a.employee_id, a.status, a.assigned_at, a.note,
		       s.id, s.department_id, s.shift_date, s.start_time, s.end_time,
		       s.overnight, s.kind, s.required, s.assigned
		FROM assignment a
		JOIN shift s ON s.id = a.shift_id
		WHERE s.department_id = $1 AND s.shift_date BETWEEN $2 AND $3
	`, departmentID, from, to)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query assignments: %w", err)
	}
	defer rows.Close()

	var assignments []db.Assignment
	var shifts []db.Shift
	seen := make(map[string]bool)
	for rows.Next() {
		var a db.Assignment
		var s db.Shift
		if err := rows.Scan(&a.ID, &a.ShiftID, &a.EmployeeID, &a.Status, &a.AssignedAt, &a.Note,
			&s.ID, &s.DepartmentID, &s.Date, &s.StartTime, &s.EndTime,
			&s.Overnight, &s.Kind, &s.Required, &s.Assigned); err != nil {
			return nil, nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, a)
		if !seen[s.ID] {
			seen[s.ID] = true
			shifts = append(shifts, s)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating assignments: %w", err)
	}

	return assignments, shifts, nil
}

// GetAvailability retrieves availability markers for a department's
// employees dated within [from, to]
func (d *DB) GetAvailability(ctx context.Context, departmentID string, from, to time.Time) ([]db.Availability, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT av.id, av.employee_id, av.marker_date, av.marker_type
		FROM availability av
		JOIN employee e ON e.id = av.employee_id
		WHERE e.department_id = $1 AND av.marker_date BETWEEN $2 AND $3
	`, departmentID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query availability: %w", err)
	}
	defer rows.Close()

	var markers []db.Availability
	for rows.Next() {
		var m db.Availability
		if err := rows.Scan(&m.ID, &m.EmployeeID, &m.Date, &m.Type); err != nil {
			return nil, fmt.Errorf("failed to scan availability marker: %w", err)
		}
		markers = append(markers, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating availability markers: %w", err)
	}

	return markers, nil
}

// InsertShifts inserts shift records in a single transaction
func (d *DB) InsertShifts(ctx context.Context, shifts []db.Shift) error {
	if len(shifts) == 0 {
		return nil
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, s := range shifts {
		_, err := tx.Exec(ctx, `
			INSERT INTO shift (id, department_id, shift_date, start_time, end_time, overnight, kind, required, assigned)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, s.ID, s.DepartmentID, s.Date, s.StartTime, s.EndTime, s.Overnight, s.Kind, s.Required, s.Assigned)
		if err != nil {
			return fmt.Errorf("failed to insert shift %s: %w", s.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit shifts: %w", err)
	}

	return nil
}

// SaveRun persists an assignment run atomically: the generated shift rows,
// already carrying their final assigned headcounts, plus every assignment
// row, in one transaction. A failure mid-run never leaves shifts committed
// without their assignments.
func (d *DB) SaveRun(ctx context.Context, shifts []db.Shift, assignments []db.Assignment) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, s := range shifts {
		_, err := tx.Exec(ctx, `
			INSERT INTO shift (id, department_id, shift_date, start_time, end_time, overnight, kind, required, assigned)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, s.ID, s.DepartmentID, s.Date, s.StartTime, s.EndTime, s.Overnight, s.Kind, s.Required, s.Assigned)
		if err != nil {
			return fmt.Errorf("failed to insert shift %s: %w", s.ID, err)
		}
	}

	for _, a := range assignments {
		_, err := tx.Exec(ctx, `
			INSERT INTO assignment (id, shift_id, employee_id, status, assigned_at, note)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, a.ID, a.ShiftID, a.EmployeeID, a.Status, a.AssignedAt, a.Note)
		if err != nil {
			return fmt.Errorf("failed to insert assignment %s: %w", a.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit assignment run: %w", err)
	}

	return nil
}
