package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/evidenta/portal-backend/internal/domain/attendance"
	"github.com/evidenta/portal-backend/internal/domain/calendar"
	"github.com/evidenta/portal-backend/internal/domain/employee"
	"github.com/evidenta/portal-backend/internal/domain/user"
	"github.com/evidenta/portal-backend/internal/pkg/dateutil"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	employee.EmployeeRepository
	calendars calendar.Provider
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	calendars calendar.Provider,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		EmployeeRepository:   employeeRepo,
		calendars:            calendars,
	}
}

func (s *AttendanceServiceImpl) GetOverview(ctx context.Context, cap user.Capability, req attendance.OverviewRequest) (attendance.OverviewResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.OverviewResponse{}, err
	}

	if req.EmployeeID == nil {
		if !cap.CanViewAllEmployees() {
			return attendance.OverviewResponse{}, attendance.ErrUnauthorized
		}
	} else if !cap.CanViewAllEmployees() {
		if cap.EmployeeID == nil || *cap.EmployeeID != *req.EmployeeID {
			return attendance.OverviewResponse{}, attendance.ErrUnauthorized
		}
	}

	start, end := req.Resolve(dateutil.Today())
	resp := attendance.OverviewResponse{
		StartDate: start,
		EndDate:   end,
		Days:      []attendance.DayEntry{},
	}

	// An empty or inverted range is an empty overview, not an error.
	if len(dateutil.Range(start, end)) == 0 {
		return resp, nil
	}

	holidays, err := s.calendars.HolidaysBetween(ctx, start, end)
	if err != nil {
		// Weekend detection still works without the calendar.
		slog.Warn("holiday lookup failed, degrading to weekend-only calendar",
			"error", err, "start", start.String(), "end", end.String())
		holidays = nil
	}
	workingDays, err := s.calendars.WorkingDays(ctx, start, end)
	if err != nil {
		slog.Warn("working-day count failed, counting weekdays only",
			"error", err, "start", start.String(), "end", end.String())
		workingDays = weekdayCount(start, end)
	}

	if req.EmployeeID != nil {
		return s.singleOverview(ctx, resp, *req.EmployeeID, start, end, holidays, workingDays)
	}
	return s.allOverview(ctx, resp, start, end, workingDays)
}

func (s *AttendanceServiceImpl) singleOverview(ctx context.Context, resp attendance.OverviewResponse, employeeID int64, start, end dateutil.Date, holidays []calendar.Holiday, workingDays int) (attendance.OverviewResponse, error) {
	if _, err := s.EmployeeRepository.GetByID(ctx, employeeID); err != nil {
		return attendance.OverviewResponse{}, fmt.Errorf("failed to load employee: %w", err)
	}

	// Duplicate surfacing is diagnostic only and never aborts the overview.
	duplicates, err := s.FindDuplicateDates(ctx, employeeID, start, end)
	if err != nil {
		slog.Warn("duplicate check failed", "error", err, "employee_id", employeeID)
		duplicates = nil
	}

	records, err := s.GetRange(ctx, employeeID, start, end)
	if err != nil {
		return attendance.OverviewResponse{}, fmt.Errorf("failed to load attendance records: %w", err)
	}

	resp.Days = Reconcile(start, end, records, holidays)
	resp.Stats = SingleStats(records, workingDays)
	resp.DuplicateDates = duplicates
	return resp, nil
}

// allOverview fans out one fetch per active employee. A failing fetch
// contributes an empty record set so the aggregation always completes
// over the remaining employees.
func (s *AttendanceServiceImpl) allOverview(ctx context.Context, resp attendance.OverviewResponse, start, end dateutil.Date, workingDays int) (attendance.OverviewResponse, error) {
	employees, err := s.ListActive(ctx)
	if err != nil {
		return attendance.OverviewResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}

	results := make([][]attendance.Record, len(employees))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(8)

	for i, emp := range employees {
		i, emp := i, emp
		g.Go(func() error {
			records, err := s.GetRange(gCtx, emp.ID, start, end)
			if err != nil {
				slog.Warn("per-employee attendance fetch failed, using empty set",
					"error", err, "employee_id", emp.ID)
				return nil
			}
			results[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return attendance.OverviewResponse{}, fmt.Errorf("attendance fan-out failed: %w", err)
	}

	var all []attendance.Record
	for _, records := range results {
		all = append(all, records...)
	}

	resp.Stats = AggregateStats(all, workingDays)
	return resp, nil
}

func (s *AttendanceServiceImpl) UpsertDay(ctx context.Context, cap user.Capability, req attendance.UpsertDayRequest) (attendance.Record, error) {
	if err := req.Validate(); err != nil {
		return attendance.Record{}, err
	}
	if !cap.CanEditAttendance(req.EmployeeID) {
		return attendance.Record{}, attendance.ErrUnauthorized
	}
	if _, err := s.EmployeeRepository.GetByID(ctx, req.EmployeeID); err != nil {
		return attendance.Record{}, fmt.Errorf("failed to load employee: %w", err)
	}

	date, _ := dateutil.Parse(req.Date)

	status := attendance.Status(req.Status)
	if status == attendance.StatusVacation {
		status = attendance.StatusLeave
	}

	record := attendance.Record{
		EmployeeID: req.EmployeeID,
		Date:       date,
		Status:     status,
		Note:       req.Note,
	}

	if status == attendance.StatusPresent {
		breakMinutes := 0
		if req.BreakMinutes != nil {
			breakMinutes = *req.BreakMinutes
		}
		record.BreakMinutes = &breakMinutes

		if req.CheckIn != nil {
			t := timeOfDayOn(date, *req.CheckIn)
			record.CheckIn = &t
		}
		if req.CheckOut != nil {
			t := timeOfDayOn(date, *req.CheckOut)
			record.CheckOut = &t
		}
		if record.CheckIn != nil && record.CheckOut != nil {
			hours := record.CheckOut.Sub(*record.CheckIn).Hours() - float64(breakMinutes)/60
			if hours < 0 {
				hours = 0
			}
			record.TotalHours = &hours
		}
	} else {
		// Times are never trusted on non-working statuses.
		zero := 0
		record.BreakMinutes = &zero
	}

	stored, err := s.AttendanceRepository.UpsertDay(ctx, record)
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to upsert attendance day: %w", err)
	}
	return stored, nil
}

func (s *AttendanceServiceImpl) DuplicateDates(ctx context.Context, cap user.Capability, employeeID int64, start, end dateutil.Date) ([]dateutil.Date, error) {
	if !cap.CanViewAllEmployees() {
		if cap.EmployeeID == nil || *cap.EmployeeID != employeeID {
			return nil, attendance.ErrUnauthorized
		}
	}

	dates, err := s.FindDuplicateDates(ctx, employeeID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to find duplicate dates: %w", err)
	}
	return dates, nil
}

// timeOfDayOn pins a validated "HH:MM" string to the given date.
func timeOfDayOn(date dateutil.Date, hhmm string) time.Time {
	parts := strings.SplitN(hhmm, ":", 2)
	hour, _ := strconv.Atoi(parts[0])
	minute, _ := strconv.Atoi(parts[1])
	return date.At(hour, minute)
}

func weekdayCount(start, end dateutil.Date) int {
	count := 0
	for _, d := range dateutil.Range(start, end) {
		if !d.IsWeekend() {
			count++
		}
	}
	return count
}
