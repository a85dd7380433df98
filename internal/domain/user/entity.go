package user

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"    // Portal administration, all employees visible
	RoleManager  Role = "manager"  // Can view and edit team attendance
	RoleEmployee Role = "employee" // Own attendance only
)

type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Role         Role
	EmployeeID   *int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Capability is what a verified token entitles the caller to. Middleware
// builds it from claims once per request; services receive it explicitly
// instead of consulting any ambient role state.
type Capability struct {
	UserID     int64
	EmployeeID *int64
	Role       Role
}

// CanViewAllEmployees reports whether the caller may load attendance
// across the whole company rather than a single employee.
func (c Capability) CanViewAllEmployees() bool {
	return c.Role == RoleAdmin || c.Role == RoleManager
}

// CanEditAttendance reports whether the caller may create or correct
// attendance records for the given employee.
func (c Capability) CanEditAttendance(employeeID int64) bool {
	if c.Role == RoleAdmin || c.Role == RoleManager {
		return true
	}
	return c.EmployeeID != nil && *c.EmployeeID == employeeID
}
