package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/evidenta/portal-backend/internal/domain/attendance"
	"github.com/evidenta/portal-backend/internal/pkg/database"
	"github.com/evidenta/portal-backend/internal/pkg/dateutil"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

func (r *attendanceRepositoryImpl) GetRange(ctx context.Context, employeeID int64, start, end dateutil.Date) ([]attendance.Record, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT a.id, a.employee_id, a.date, a.status, a.check_in, a.check_out,
		       a.total_hours, a.break_minutes, a.note, a.created_at, a.updated_at
		FROM attendance a
		WHERE a.employee_id = $1 AND a.date BETWEEN $2 AND $3
		ORDER BY a.date ASC, a.id ASC
	`

	rows, err := q.Query(ctx, query, employeeID, start.Time(), end.Time())
	if err != nil {
		return nil, fmt.Errorf("query attendance range: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		var rec attendance.Record
		var date time.Time
		if err := rows.Scan(
			&rec.ID, &rec.EmployeeID, &date, &rec.Status, &rec.CheckIn, &rec.CheckOut,
			&rec.TotalHours, &rec.BreakMinutes, &rec.Note, &rec.CreatedAt, &rec.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan attendance record: %w", err)
		}
		rec.Date = dateutil.FromTime(date)
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *attendanceRepositoryImpl) FindDuplicateDates(ctx context.Context, employeeID int64, start, end dateutil.Date) ([]dateutil.Date, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT a.date
		FROM attendance a
		WHERE a.employee_id = $1 AND a.date BETWEEN $2 AND $3
		GROUP BY a.date
		HAVING COUNT(*) > 1
		ORDER BY a.date ASC
	`

	rows, err := q.Query(ctx, query, employeeID, start.Time(), end.Time())
	if err != nil {
		return nil, fmt.Errorf("query duplicate dates: %w", err)
	}
	defer rows.Close()

	var dates []dateutil.Date
	for rows.Next() {
		var date time.Time
		if err := rows.Scan(&date); err != nil {
			return nil, fmt.Errorf("scan duplicate date: %w", err)
		}
		dates = append(dates, dateutil.FromTime(date))
	}
	return dates, rows.Err()
}

func (r *attendanceRepositoryImpl) ListDuplicateGroups(ctx context.Context, start, end dateutil.Date) ([]attendance.DuplicateGroup, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT a.employee_id, a.date, COUNT(*)
		FROM attendance a
		WHERE a.date BETWEEN $1 AND $2
		GROUP BY a.employee_id, a.date
		HAVING COUNT(*) > 1
		ORDER BY a.employee_id ASC, a.date ASC
	`

	rows, err := q.Query(ctx, query, start.Time(), end.Time())
	if err != nil {
		return nil, fmt.Errorf("query duplicate groups: %w", err)
	}
	defer rows.Close()

	var groups []attendance.DuplicateGroup
	for rows.Next() {
		var group attendance.DuplicateGroup
		var date time.Time
		if err := rows.Scan(&group.EmployeeID, &date, &group.Count); err != nil {
			return nil, fmt.Errorf("scan duplicate group: %w", err)
		}
		group.Date = dateutil.FromTime(date)
		groups = append(groups, group)
	}
	return groups, rows.Err()
}

func (r *attendanceRepositoryImpl) UpsertDay(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO attendance (employee_id, date, status, check_in, check_out,
		                        total_hours, break_minutes, note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		ON CONFLICT (employee_id, date) DO UPDATE SET
			status = EXCLUDED.status,
			check_in = EXCLUDED.check_in,
			check_out = EXCLUDED.check_out,
			total_hours = EXCLUDED.total_hours,
			break_minutes = EXCLUDED.break_minutes,
			note = EXCLUDED.note,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		record.EmployeeID, record.Date.Time(), record.Status, record.CheckIn, record.CheckOut,
		record.TotalHours, record.BreakMinutes, record.Note,
	).Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		return attendance.Record{}, fmt.Errorf("upsert attendance day: %w", err)
	}
	return record, nil
}
