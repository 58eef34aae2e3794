// Package db defines the persisted record shapes shared between the
// services layer and the storage backends.
package db

import "time"

// Employee is a stored staff member
type Employee struct {
	ID             string
	Name           string
	Role           string
	DepartmentID   string
	Active         bool
	HireDate       time.Time
	MaxWeeklyHours *float64 // nil applies the 40-hour default
}

// Shift is a stored staffing need
type Shift struct {
	ID           string
	DepartmentID string
	Date         time.Time
	StartTime    string // clock time, "15:04"
	EndTime      string
	Overnight    bool
	Kind         string
	Required     int
	Assigned     int
}

// Assignment links an employee to a shift
type Assignment struct {
	ID         string
	ShiftID    string
	EmployeeID string
	Status     string
	AssignedAt time.Time
	Note       string
}

// Availability is a stored availability marker
type Availability struct {
	ID         string
	EmployeeID string
	Date       time.Time
	Type       string
}
