package calendar

import "github.com/evidenta/portal-backend/internal/pkg/dateutil"

// Holiday is a single public holiday on the Slovak work calendar.
type Holiday struct {
	Date  dateutil.Date `json:"date"`
	Title string        `json:"title"`
}

// Source tells callers whether the calendar came from the remote feed
// or from the built-in table.
type Source string

const (
	SourceRemote   Source = "remote"
	SourceFallback Source = "fallback"
)

// WorkCalendar holds the public holidays of one year.
type WorkCalendar struct {
	Year     int       `json:"year"`
	Holidays []Holiday `json:"holidays"`
	Source   Source    `json:"source"`
}

// IsHoliday reports whether the given date is a public holiday.
func (c WorkCalendar) IsHoliday(d dateutil.Date) bool {
	for _, h := range c.Holidays {
		if h.Date.Equal(d) {
			return true
		}
	}
	return false
}

// IsWorkingDay reports whether the date is neither a weekend nor a
// public holiday.
func (c WorkCalendar) IsWorkingDay(d dateutil.Date) bool {
	return !d.IsWeekend() && !c.IsHoliday(d)
}
