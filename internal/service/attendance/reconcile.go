package attendance

import (
	"github.com/evidenta/portal-backend/internal/domain/attendance"
	"github.com/evidenta/portal-backend/internal/domain/calendar"
	"github.com/evidenta/portal-backend/internal/pkg/dateutil"
)

// NonWorkingDayNote is the label attached to synthesized holiday and
// weekend entries.
const NonWorkingDayNote = "Deň pracovného pokoja"

// Reconcile merges raw attendance records with the holiday calendar
// into exactly one entry per calendar date, ascending. Days without a
// stored record are synthesized: holidays and weekends become status
// holiday with a fixed note, the rest become absent. When the store
// returned several records for one date the last one wins; duplicates
// are surfaced separately, never merged here.
//
// Reconcile is pure. An inverted or zero range yields an empty slice.
func Reconcile(start, end dateutil.Date, records []attendance.Record, holidays []calendar.Holiday) []attendance.DayEntry {
	dates := dateutil.Range(start, end)
	if len(dates) == 0 {
		return []attendance.DayEntry{}
	}

	// Last record per date wins for display.
	byDate := make(map[string]*attendance.Record, len(records))
	for i := range records {
		byDate[records[i].Date.String()] = &records[i]
	}

	holidaySet := make(map[string]struct{}, len(holidays))
	for _, h := range holidays {
		holidaySet[h.Date.String()] = struct{}{}
	}

	entries := make([]attendance.DayEntry, 0, len(dates))
	for _, d := range dates {
		if rec, ok := byDate[d.String()]; ok {
			entries = append(entries, attendance.DayEntry{
				Date:   d,
				Status: rec.Status,
				Note:   rec.Note,
				Record: rec,
			})
			continue
		}

		_, isHoliday := holidaySet[d.String()]
		if isHoliday || d.IsWeekend() {
			note := NonWorkingDayNote
			entries = append(entries, attendance.DayEntry{
				Date:      d,
				Status:    attendance.StatusHoliday,
				Note:      &note,
				Synthetic: true,
			})
			continue
		}

		entries = append(entries, attendance.DayEntry{
			Date:      d,
			Status:    attendance.StatusAbsent,
			Synthetic: true,
		})
	}

	return entries
}
