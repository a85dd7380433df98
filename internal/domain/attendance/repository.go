package attendance

import (
	"context"

	"github.com/evidenta/portal-backend/internal/pkg/dateutil"
)

// AttendanceRepository defines data access for raw attendance records.
// Reconciliation and statistics live above this interface and treat the
// store as a dumb bag of rows, duplicates included.
type AttendanceRepository interface {
	// GetRange returns every record of one employee inside the range,
	// inclusive, ordered by date then id ascending. Multiple records on
	// the same date are all returned; deduplication is the caller's job.
	GetRange(ctx context.Context, employeeID int64, start, end dateutil.Date) ([]Record, error)

	// FindDuplicateDates returns the dates inside the range on which
	// the employee has more than one stored record.
	FindDuplicateDates(ctx context.Context, employeeID int64, start, end dateutil.Date) ([]dateutil.Date, error)

	// ListDuplicateGroups returns every (employee, date) pair in the
	// range holding more than one record, across all employees.
	ListDuplicateGroups(ctx context.Context, start, end dateutil.Date) ([]DuplicateGroup, error)

	// UpsertDay inserts or replaces the record of one (employee, date)
	// pair and returns the stored row.
	UpsertDay(ctx context.Context, record Record) (Record, error)
}
