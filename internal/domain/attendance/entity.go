package attendance

import (
	"time"

	"github.com/evidenta/portal-backend/internal/pkg/dateutil"
)

type Status string

const (
	StatusPresent   Status = "present"
	StatusAbsent    Status = "absent"
	StatusLate      Status = "late"
	StatusLeave     Status = "leave"
	StatusSickLeave Status = "sick_leave"
	StatusHoliday   Status = "holiday"

	// StatusVacation is the label the UI sends for leave days. It is
	// accepted on input and normalized to StatusLeave before storage.
	StatusVacation Status = "vacation"
)

// IsPresence reports whether the status counts as the employee having
// shown up that day.
func (s Status) IsPresence() bool {
	return s == StatusPresent || s == StatusLate
}

type Record struct {
	ID           int64         `json:"id"`
	EmployeeID   int64         `json:"employee_id"`
	Date         dateutil.Date `json:"date"`
	Status       Status        `json:"status"`
	CheckIn      *time.Time    `json:"check_in"`
	CheckOut     *time.Time    `json:"check_out"`
	TotalHours   *float64      `json:"total_hours"`
	BreakMinutes *int          `json:"break_minutes"`
	Note         *string       `json:"note"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`

	// DTO / Join
	EmployeeName *string `json:"employee_name,omitempty"`
}

// DayEntry is one calendar day of a reconciled overview. Days with no
// stored record are synthesized: Synthetic is true and Record is nil.
// Stored days carry the record they came from.
type DayEntry struct {
	Date      dateutil.Date `json:"date"`
	Status    Status        `json:"status"`
	Note      *string       `json:"note,omitempty"`
	Synthetic bool          `json:"synthetic"`
	Record    *Record       `json:"-"`
}

// Stats holds the computed attendance figures of one overview. The
// per-record fields are summed without deduplication; the day counters
// are deduplicated by date in single-employee mode.
type Stats struct {
	TotalDays         int     `json:"total_days"`
	PresentDays       int     `json:"present_days"`
	AbsentDays        int     `json:"absent_days"`
	LateDays          int     `json:"late_days"`
	TotalHours        float64 `json:"total_hours"`
	TotalBreakMinutes int     `json:"total_break_minutes"`
	AverageHours      float64 `json:"average_hours"`
	AttendanceRate    float64 `json:"attendance_rate"`
	UniqueEmployees   int     `json:"unique_employees,omitempty"`
}

// DuplicateGroup identifies one (employee, date) pair that holds more
// than one stored record.
type DuplicateGroup struct {
	EmployeeID int64         `json:"employee_id"`
	Date       dateutil.Date `json:"date"`
	Count      int           `json:"count"`
}
