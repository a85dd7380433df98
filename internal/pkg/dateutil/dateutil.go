package dateutil

import (
	"strings"
	"time"
)

// Date is a timezone-naive calendar date. The attendance engine reasons
// about days, not instants, so every Date is pinned to midnight UTC and
// compared by calendar position only.
type Date struct {
	t time.Time
}

const layout = "2006-01-02"

// New builds a Date from year, month and day.
func New(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// FromTime truncates a timestamp to its calendar date.
func FromTime(t time.Time) Date {
	return New(t.Year(), t.Month(), t.Day())
}

// Parse parses a YYYY-MM-DD string.
func Parse(s string) (Date, error) {
	t, err := time.Parse(layout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{t: t}, nil
}

// Today returns the current local calendar date.
func Today() Date {
	return FromTime(time.Now())
}

func (d Date) String() string { return d.t.Format(layout) }

// Time returns the date as midnight UTC, for handing to drivers that
// expect time.Time.
func (d Date) Time() time.Time { return d.t }

func (d Date) Year() int             { return d.t.Year() }
func (d Date) Weekday() time.Weekday { return d.t.Weekday() }

// IsWeekend reports whether the date falls on Saturday or Sunday.
func (d Date) IsWeekend() bool {
	wd := d.t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }

func (d Date) Before(o Date) bool { return d.t.Before(o.t) }
func (d Date) After(o Date) bool  { return d.t.After(o.t) }
func (d Date) Equal(o Date) bool  { return d.t.Equal(o.t) }

// IsZero reports whether the date is the zero value.
func (d Date) IsZero() bool { return d.t.IsZero() }

// MarshalJSON encodes the date as a "YYYY-MM-DD" string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes a "YYYY-MM-DD" string.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// At combines the date with a time of day, yielding a UTC timestamp.
func (d Date) At(hour, minute int) time.Time {
	return time.Date(d.t.Year(), d.t.Month(), d.t.Day(), hour, minute, 0, 0, time.UTC)
}

// Range returns every date from start to end inclusive, ascending.
// An inverted or zero range yields nil.
func Range(start, end Date) []Date {
	if start.IsZero() || end.IsZero() || end.Before(start) {
		return nil
	}
	var dates []Date
	for d := start; !d.After(end); d = d.AddDays(1) {
		dates = append(dates, d)
	}
	return dates
}

// PeriodKind selects one of the preset reporting periods.
type PeriodKind string

const (
	PeriodWeek  PeriodKind = "week"
	PeriodMonth PeriodKind = "month"
	PeriodYear  PeriodKind = "year"
)

// PeriodRange resolves a preset period relative to now: the current
// ISO week (Monday through today), the current month, or the current
// year. Custom periods are expressed as explicit dates by the caller.
func PeriodRange(kind PeriodKind, now Date) (Date, Date, bool) {
	switch kind {
	case PeriodWeek:
		offset := int(now.Weekday()) - int(time.Monday)
		if offset < 0 {
			offset += 7 // Sunday
		}
		return now.AddDays(-offset), now, true
	case PeriodMonth:
		first := New(now.Year(), now.t.Month(), 1)
		last := Date{t: first.t.AddDate(0, 1, -1)}
		return first, last, true
	case PeriodYear:
		return New(now.Year(), time.January, 1), New(now.Year(), time.December, 31), true
	default:
		return Date{}, Date{}, false
	}
}
