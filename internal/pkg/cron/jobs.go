package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/evidenta/portal-backend/internal/domain/attendance"
	"github.com/evidenta/portal-backend/internal/domain/calendar"
	"github.com/evidenta/portal-backend/internal/domain/user"
	"github.com/evidenta/portal-backend/internal/pkg/dateutil"
)

// WarmHolidayCache keeps the current and next year's work calendars
// cached so overview requests never wait on the holiday feed.
func WarmHolidayCache(calendars calendar.Provider) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		year := dateutil.Today().Year()
		for _, y := range []int{year, year + 1} {
			cal, err := calendars.WorkCalendar(ctx, y)
			if err != nil {
				return fmt.Errorf("warm holiday cache for %d: %w", y, err)
			}
			slog.Debug("work calendar warmed", "year", y, "source", cal.Source, "holidays", len(cal.Holidays))
		}
		return nil
	}
}

// AuditDuplicates scans the last 90 days for (employee, date) pairs
// with more than one stored record and logs them. The overview already
// surfaces duplicates per request; this keeps the signal visible even
// when nobody is looking at the affected employee.
func AuditDuplicates(repo attendance.AttendanceRepository) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		end := dateutil.Today()
		start := end.AddDays(-90)

		groups, err := repo.ListDuplicateGroups(ctx, start, end)
		if err != nil {
			return fmt.Errorf("audit duplicate attendance: %w", err)
		}

		for _, g := range groups {
			slog.Warn("duplicate attendance records",
				"employee_id", g.EmployeeID, "date", g.Date.String(), "count", g.Count)
		}
		if len(groups) == 0 {
			slog.Debug("duplicate audit clean", "start", start.String(), "end", end.String())
		}
		return nil
	}
}

// OverviewRefresher is satisfied by the attendance OverviewLoader.
type OverviewRefresher interface {
	Load(ctx context.Context, cap user.Capability, req attendance.OverviewRequest) (attendance.OverviewResponse, bool, error)
}

// RefreshAggregateOverview recomputes the company-wide overview for the
// current month through the staleness-guarded loader, so dashboard
// reads of the latest result stay warm between requests.
func RefreshAggregateOverview(loader OverviewRefresher) func(ctx context.Context) error {
	systemCap := user.Capability{Role: user.RoleAdmin}
	return func(ctx context.Context) error {
		resp, published, err := loader.Load(ctx, systemCap, attendance.OverviewRequest{Period: "month"})
		if err != nil {
			return fmt.Errorf("refresh aggregate overview: %w", err)
		}
		if !published {
			slog.Debug("aggregate overview refresh superseded by a newer load")
			return nil
		}
		slog.Debug("aggregate overview refreshed",
			"start", resp.StartDate.String(), "end", resp.EndDate.String())
		return nil
	}
}

// DefaultIntervals for the maintenance jobs.
const (
	HolidayWarmInterval     = 12 * time.Hour
	DuplicateAuditInterval  = 24 * time.Hour
	OverviewRefreshInterval = 30 * time.Second
)
