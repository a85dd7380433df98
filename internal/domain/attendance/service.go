package attendance

import (
	"context"

	"github.com/evidenta/portal-backend/internal/domain/user"
	"github.com/evidenta/portal-backend/internal/pkg/dateutil"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// GetOverview reconciles the requested range into a day-by-day
	// sequence with statistics, for one employee or all of them.
	GetOverview(ctx context.Context, cap user.Capability, req OverviewRequest) (OverviewResponse, error)

	// UpsertDay creates or corrects the record of one (employee, date) pair.
	UpsertDay(ctx context.Context, cap user.Capability, req UpsertDayRequest) (Record, error)

	// DuplicateDates reports dates with more than one stored record for
	// the employee in the range.
	DuplicateDates(ctx context.Context, cap user.Capability, employeeID int64, start, end dateutil.Date) ([]dateutil.Date, error)
}
