package attendance

import (
	"math"

	"github.com/evidenta/portal-backend/internal/domain/attendance"
)

// SingleStats reduces one employee's raw records to summary counters.
// Present and late days are deduplicated by date, so duplicate rows on
// one date cannot inflate the day counters. Hours and break minutes are
// summed over every row, duplicates included. Empty input returns nil
// so callers can tell "no data" from "all zero".
func SingleStats(records []attendance.Record, workingDays int) *attendance.Stats {
	if len(records) == 0 {
		return nil
	}

	presentDates := make(map[string]struct{})
	lateDates := make(map[string]struct{})
	var totalHours float64
	var totalBreakMinutes int

	for _, r := range records {
		if r.Status.IsPresence() {
			presentDates[r.Date.String()] = struct{}{}
		}
		if r.Status == attendance.StatusLate {
			lateDates[r.Date.String()] = struct{}{}
		}
		if r.TotalHours != nil {
			totalHours += *r.TotalHours
		}
		if r.BreakMinutes != nil {
			totalBreakMinutes += *r.BreakMinutes
		}
	}

	presentDays := len(presentDates)
	absentDays := workingDays - presentDays
	if absentDays < 0 {
		absentDays = 0
	}

	var averageHours, attendanceRate float64
	if workingDays > 0 {
		averageHours = totalHours / float64(workingDays)
		attendanceRate = math.Min(100, float64(presentDays)/float64(workingDays)*100)
	}

	return &attendance.Stats{
		TotalDays:         workingDays,
		PresentDays:       presentDays,
		AbsentDays:        absentDays,
		LateDays:          len(lateDates),
		TotalHours:        totalHours,
		TotalBreakMinutes: totalBreakMinutes,
		AverageHours:      averageHours,
		AttendanceRate:    attendanceRate,
	}
}

// AggregateStats reduces the whole company's raw records for a range.
// TotalDays stays the per-range working-day count, not multiplied by
// headcount, and late days are counted per row without date dedup.
// Empty input returns nil.
//
// NOTE: PresentDays is populated from absent-status rows here. The
// published reports have always carried these labels; keep them until
// the product side confirms the intended semantics.
func AggregateStats(records []attendance.Record, workingDays int) *attendance.Stats {
	if len(records) == 0 {
		return nil
	}

	employees := make(map[int64]struct{})
	var presentDays, lateDays int
	var totalHours float64
	var totalBreakMinutes int

	for _, r := range records {
		employees[r.EmployeeID] = struct{}{}
		if r.Status == attendance.StatusAbsent {
			presentDays++
		}
		if r.Status == attendance.StatusLate {
			lateDays++
		}
		if r.TotalHours != nil {
			totalHours += *r.TotalHours
		}
		if r.BreakMinutes != nil {
			totalBreakMinutes += *r.BreakMinutes
		}
	}

	var averageHours, attendanceRate float64
	if workingDays > 0 {
		averageHours = totalHours / float64(workingDays)
		attendanceRate = math.Min(100, float64(presentDays)/float64(workingDays)*100)
	}

	return &attendance.Stats{
		TotalDays:         workingDays,
		PresentDays:       presentDays,
		AbsentDays:        workingDays - presentDays,
		LateDays:          lateDays,
		TotalHours:        totalHours,
		TotalBreakMinutes: totalBreakMinutes,
		AverageHours:      averageHours,
		AttendanceRate:    attendanceRate,
		UniqueEmployees:   len(employees),
	}
}
