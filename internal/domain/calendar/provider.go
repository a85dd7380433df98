package calendar

import (
	"context"

	"github.com/evidenta/portal-backend/internal/pkg/dateutil"
)

// Provider supplies work calendars. Implementations may fetch a remote
// feed but must always be able to answer, degrading to the built-in
// table when the feed is unreachable.
type Provider interface {
	// WorkCalendar returns the holidays of the given year.
	WorkCalendar(ctx context.Context, year int) (WorkCalendar, error)

	// HolidaysBetween returns every holiday falling inside the range,
	// inclusive. An inverted range yields an empty slice.
	HolidaysBetween(ctx context.Context, start, end dateutil.Date) ([]Holiday, error)

	// WorkingDays counts the working days between start and end
	// inclusive, skipping weekends and public holidays.
	WorkingDays(ctx context.Context, start, end dateutil.Date) (int, error)
}
