package attendance

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evidenta/portal-backend/internal/domain/attendance"
	"github.com/evidenta/portal-backend/internal/domain/calendar"
	"github.com/evidenta/portal-backend/internal/domain/employee"
	"github.com/evidenta/portal-backend/internal/domain/user"
	"github.com/evidenta/portal-backend/internal/pkg/dateutil"
	"github.com/evidenta/portal-backend/internal/pkg/validator"
)

// ===== FAKES =====

type fakeAttendanceRepo struct {
	mu         sync.Mutex
	records    map[int64][]attendance.Record
	failFor    map[int64]error
	duplicates []dateutil.Date
	dupErr     error
	upserted   []attendance.Record
	nextID     int64
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{
		records: make(map[int64][]attendance.Record),
		failFor: make(map[int64]error),
	}
}

func (f *fakeAttendanceRepo) GetRange(_ context.Context, employeeID int64, start, end dateutil.Date) ([]attendance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failFor[employeeID]; err != nil {
		return nil, err
	}
	var out []attendance.Record
	for _, r := range f.records[employeeID] {
		if !r.Date.Before(start) && !r.Date.After(end) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeAttendanceRepo) FindDuplicateDates(_ context.Context, _ int64, _, _ dateutil.Date) ([]dateutil.Date, error) {
	if f.dupErr != nil {
		return nil, f.dupErr
	}
	return f.duplicates, nil
}

func (f *fakeAttendanceRepo) ListDuplicateGroups(_ context.Context, _, _ dateutil.Date) ([]attendance.DuplicateGroup, error) {
	var groups []attendance.DuplicateGroup
	for _, d := range f.duplicates {
		groups = append(groups, attendance.DuplicateGroup{EmployeeID: 1, Date: d, Count: 2})
	}
	return groups, nil
}

func (f *fakeAttendanceRepo) UpsertDay(_ context.Context, record attendance.Record) (attendance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	record.ID = f.nextID
	f.upserted = append(f.upserted, record)
	return record, nil
}

type fakeEmployeeRepo struct {
	employees []employee.Employee
}

func (f *fakeEmployeeRepo) GetByID(_ context.Context, id int64) (employee.Employee, error) {
	for _, e := range f.employees {
		if e.ID == id {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) ListActive(_ context.Context) ([]employee.Employee, error) {
	return f.employees, nil
}

type fakeCalendar struct {
	holidays []calendar.Holiday
	err      error
}

func (f *fakeCalendar) WorkCalendar(_ context.Context, year int) (calendar.WorkCalendar, error) {
	if f.err != nil {
		return calendar.WorkCalendar{}, f.err
	}
	return calendar.WorkCalendar{Year: year, Holidays: f.holidays, Source: calendar.SourceRemote}, nil
}

func (f *fakeCalendar) HolidaysBetween(_ context.Context, start, end dateutil.Date) ([]calendar.Holiday, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []calendar.Holiday
	for _, h := range f.holidays {
		if !h.Date.Before(start) && !h.Date.After(end) {
			out = append(out, h)
		}
	}
	return out, nil
}

func (f *fakeCalendar) WorkingDays(_ context.Context, start, end dateutil.Date) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	cal := calendar.WorkCalendar{Holidays: f.holidays}
	count := 0
	for _, d := range dateutil.Range(start, end) {
		if cal.IsWorkingDay(d) {
			count++
		}
	}
	return count, nil
}

func managerCap() user.Capability {
	return user.Capability{UserID: 1, Role: user.RoleManager}
}

func employeeCap(employeeID int64) user.Capability {
	return user.Capability{UserID: 2, EmployeeID: &employeeID, Role: user.RoleEmployee}
}

func testService(repo *fakeAttendanceRepo, employees *fakeEmployeeRepo, cal *fakeCalendar) attendance.AttendanceService {
	return NewAttendanceService(repo, employees, cal)
}

func overviewRequest(employeeID *int64, startDay, endDay int) attendance.OverviewRequest {
	return attendance.OverviewRequest{
		EmployeeID: employeeID,
		Period:     "custom",
		StartDate:  date(startDay).String(),
		EndDate:    date(endDay).String(),
	}
}

func int64Ptr(v int64) *int64 { return &v }

// ===== OVERVIEW TESTS =====

func TestGetOverview_SingleEmployee(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := newFakeAttendanceRepo()
	repo.records[1] = []attendance.Record{
		hoursRecord(1, attendance.StatusPresent, 8),
		hoursRecord(2, attendance.StatusLate, 7),
	}
	employees := &fakeEmployeeRepo{employees: []employee.Employee{{ID: 1, Active: true}}}
	svc := testService(repo, employees, &fakeCalendar{})

	// Mon-Fri.
	resp, err := svc.GetOverview(ctx, managerCap(), overviewRequest(int64Ptr(1), 1, 5))

	require.NoError(t, err)
	require.Len(t, resp.Days, 5)
	assert.Equal(t, attendance.StatusPresent, resp.Days[0].Status)
	assert.Equal(t, attendance.StatusLate, resp.Days[1].Status)
	assert.Equal(t, attendance.StatusAbsent, resp.Days[2].Status)
	assert.True(t, resp.Days[2].Synthetic)

	require.NotNil(t, resp.Stats)
	assert.Equal(t, 5, resp.Stats.TotalDays)
	assert.Equal(t, 2, resp.Stats.PresentDays)
	assert.Equal(t, 15.0, resp.Stats.TotalHours)
}

func TestGetOverview_DuplicatesSurfacedNotFatal(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := newFakeAttendanceRepo()
	repo.duplicates = []dateutil.Date{date(2)}
	employees := &fakeEmployeeRepo{employees: []employee.Employee{{ID: 1}}}
	svc := testService(repo, employees, &fakeCalendar{})

	resp, err := svc.GetOverview(ctx, managerCap(), overviewRequest(int64Ptr(1), 1, 5))

	require.NoError(t, err)
	require.Len(t, resp.DuplicateDates, 1)
	assert.Equal(t, date(2), resp.DuplicateDates[0])
}

func TestGetOverview_DuplicateCheckFailure_Proceeds(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := newFakeAttendanceRepo()
	repo.dupErr = errors.New("store unavailable")
	repo.records[1] = []attendance.Record{record(1, attendance.StatusPresent)}
	employees := &fakeEmployeeRepo{employees: []employee.Employee{{ID: 1}}}
	svc := testService(repo, employees, &fakeCalendar{})

	resp, err := svc.GetOverview(ctx, managerCap(), overviewRequest(int64Ptr(1), 1, 5))

	require.NoError(t, err)
	assert.Empty(t, resp.DuplicateDates)
	require.Len(t, resp.Days, 5)
}

func TestGetOverview_CalendarFailure_Degrades(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := newFakeAttendanceRepo()
	repo.records[1] = []attendance.Record{record(1, attendance.StatusPresent)}
	employees := &fakeEmployeeRepo{employees: []employee.Employee{{ID: 1}}}
	svc := testService(repo, employees, &fakeCalendar{err: errors.New("feed down")})

	// Mon-Sun: weekends still detected from the date itself.
	resp, err := svc.GetOverview(ctx, managerCap(), overviewRequest(int64Ptr(1), 1, 7))

	require.NoError(t, err)
	require.Len(t, resp.Days, 7)
	assert.Equal(t, attendance.StatusHoliday, resp.Days[5].Status) // Sat
	assert.Equal(t, attendance.StatusHoliday, resp.Days[6].Status) // Sun
	require.NotNil(t, resp.Stats)
	assert.Equal(t, 5, resp.Stats.TotalDays)
}

func TestGetOverview_InvertedRange_EmptyNoError(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := newFakeAttendanceRepo()
	employees := &fakeEmployeeRepo{employees: []employee.Employee{{ID: 1}}}
	svc := testService(repo, employees, &fakeCalendar{})

	resp, err := svc.GetOverview(ctx, managerCap(), overviewRequest(int64Ptr(1), 10, 1))

	require.NoError(t, err)
	assert.Empty(t, resp.Days)
	assert.Nil(t, resp.Stats)
}

func TestGetOverview_MissingDates_EmptyNoError(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := newFakeAttendanceRepo()
	employees := &fakeEmployeeRepo{employees: []employee.Employee{{ID: 1}}}
	svc := testService(repo, employees, &fakeCalendar{})

	resp, err := svc.GetOverview(ctx, managerCap(), attendance.OverviewRequest{
		EmployeeID: int64Ptr(1),
		Period:     "custom",
	})

	require.NoError(t, err)
	assert.Empty(t, resp.Days)
	assert.Nil(t, resp.Stats)
}

func TestGetOverview_AllEmployees_PartialFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := newFakeAttendanceRepo()
	repo.records[1] = []attendance.Record{record(1, attendance.StatusAbsent)}
	repo.records[2] = []attendance.Record{record(1, attendance.StatusLate)}
	repo.failFor[3] = errors.New("store timeout")
	employees := &fakeEmployeeRepo{employees: []employee.Employee{{ID: 1}, {ID: 2}, {ID: 3}}}
	svc := testService(repo, employees, &fakeCalendar{})

	r2 := repo.records[2][0]
	r2.EmployeeID = 2
	repo.records[2][0] = r2

	resp, err := svc.GetOverview(ctx, managerCap(), overviewRequest(nil, 1, 5))

	require.NoError(t, err)
	require.NotNil(t, resp.Stats)
	assert.Equal(t, 2, resp.Stats.UniqueEmployees)
	assert.Equal(t, 1, resp.Stats.PresentDays) // absent-status rows
	assert.Equal(t, 1, resp.Stats.LateDays)
}

func TestGetOverview_AllEmployees_RequiresManager(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := newFakeAttendanceRepo()
	employees := &fakeEmployeeRepo{employees: []employee.Employee{{ID: 1}}}
	svc := testService(repo, employees, &fakeCalendar{})

	_, err := svc.GetOverview(ctx, employeeCap(1), overviewRequest(nil, 1, 5))

	assert.ErrorIs(t, err, attendance.ErrUnauthorized)
}

func TestGetOverview_OtherEmployee_Unauthorized(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := newFakeAttendanceRepo()
	employees := &fakeEmployeeRepo{employees: []employee.Employee{{ID: 1}, {ID: 2}}}
	svc := testService(repo, employees, &fakeCalendar{})

	_, err := svc.GetOverview(ctx, employeeCap(2), overviewRequest(int64Ptr(1), 1, 5))

	assert.ErrorIs(t, err, attendance.ErrUnauthorized)
}

// ===== DAY EDITOR TESTS =====

func TestUpsertDay_VacationStoredAsLeave(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := newFakeAttendanceRepo()
	employees := &fakeEmployeeRepo{employees: []employee.Employee{{ID: 1}}}
	svc := testService(repo, employees, &fakeCalendar{})

	checkIn := "08:00"
	breakMinutes := 45
	stored, err := svc.UpsertDay(ctx, managerCap(), attendance.UpsertDayRequest{
		EmployeeID:   1,
		Date:         date(3).String(),
		Status:       "vacation",
		CheckIn:      &checkIn,
		BreakMinutes: &breakMinutes,
	})

	require.NoError(t, err)
	assert.Equal(t, attendance.StatusLeave, stored.Status)
	assert.Nil(t, stored.CheckIn)
	assert.Nil(t, stored.CheckOut)
	require.NotNil(t, stored.BreakMinutes)
	assert.Equal(t, 0, *stored.BreakMinutes)
}

func TestUpsertDay_PresentComputesHours(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := newFakeAttendanceRepo()
	employees := &fakeEmployeeRepo{employees: []employee.Employee{{ID: 1}}}
	svc := testService(repo, employees, &fakeCalendar{})

	checkIn, checkOut := "08:00", "16:30"
	breakMinutes := 30
	stored, err := svc.UpsertDay(ctx, managerCap(), attendance.UpsertDayRequest{
		EmployeeID:   1,
		Date:         date(3).String(),
		Status:       "present",
		CheckIn:      &checkIn,
		CheckOut:     &checkOut,
		BreakMinutes: &breakMinutes,
	})

	require.NoError(t, err)
	require.NotNil(t, stored.TotalHours)
	assert.Equal(t, 8.0, *stored.TotalHours)
	require.NotNil(t, stored.CheckIn)
	assert.Equal(t, date(3).At(8, 0), *stored.CheckIn)
}

func TestUpsertDay_PresentDefaultsBreakToZero(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := newFakeAttendanceRepo()
	employees := &fakeEmployeeRepo{employees: []employee.Employee{{ID: 1}}}
	svc := testService(repo, employees, &fakeCalendar{})

	stored, err := svc.UpsertDay(ctx, managerCap(), attendance.UpsertDayRequest{
		EmployeeID: 1,
		Date:       date(3).String(),
		Status:     "present",
	})

	require.NoError(t, err)
	require.NotNil(t, stored.BreakMinutes)
	assert.Equal(t, 0, *stored.BreakMinutes)
	assert.Nil(t, stored.TotalHours)
}

func TestUpsertDay_InvalidTime_ValidationError(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := newFakeAttendanceRepo()
	employees := &fakeEmployeeRepo{employees: []employee.Employee{{ID: 1}}}
	svc := testService(repo, employees, &fakeCalendar{})

	checkIn := "25:99"
	_, err := svc.UpsertDay(ctx, managerCap(), attendance.UpsertDayRequest{
		EmployeeID: 1,
		Date:       date(3).String(),
		Status:     "present",
		CheckIn:    &checkIn,
	})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "check_in")
	assert.Empty(t, repo.upserted)
}

func TestUpsertDay_OwnDayAllowed_OthersNot(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := newFakeAttendanceRepo()
	employees := &fakeEmployeeRepo{employees: []employee.Employee{{ID: 1}, {ID: 2}}}
	svc := testService(repo, employees, &fakeCalendar{})

	_, err := svc.UpsertDay(ctx, employeeCap(1), attendance.UpsertDayRequest{
		EmployeeID: 1,
		Date:       date(3).String(),
		Status:     "absent",
	})
	require.NoError(t, err)

	_, err = svc.UpsertDay(ctx, employeeCap(1), attendance.UpsertDayRequest{
		EmployeeID: 2,
		Date:       date(3).String(),
		Status:     "absent",
	})
	assert.ErrorIs(t, err, attendance.ErrUnauthorized)
}
