package calendar

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evidenta/portal-backend/internal/domain/calendar"
	"github.com/evidenta/portal-backend/internal/pkg/dateutil"
)

func feedServer(t *testing.T, hits *atomic.Int32, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.NotEmpty(t, r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestWorkCalendar_RemoteFeed(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var hits atomic.Int32
	server := feedServer(t, &hits, `{
		"items": [
			{"summary": "Veľkonočný pondelok", "start": {"date": "2024-04-01"}},
			{"summary": "Sviatok práce", "start": {"date": "2024-05-01"}}
		]
	}`)
	svc := NewCalendarService(server.URL, "", "test-key")

	cal, err := svc.WorkCalendar(ctx, 2024)

	require.NoError(t, err)
	assert.Equal(t, calendar.SourceRemote, cal.Source)
	require.Len(t, cal.Holidays, 2)
	assert.Equal(t, "Veľkonočný pondelok", cal.Holidays[0].Title)
	assert.True(t, cal.IsHoliday(dateutil.New(2024, time.May, 1)))
}

func TestWorkCalendar_CachedPerYear(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var hits atomic.Int32
	server := feedServer(t, &hits, `{"items": []}`)
	svc := NewCalendarService(server.URL, "", "test-key")

	_, err := svc.WorkCalendar(ctx, 2024)
	require.NoError(t, err)
	_, err = svc.WorkCalendar(ctx, 2024)
	require.NoError(t, err)

	assert.Equal(t, int32(1), hits.Load())
}

func TestWorkCalendar_FeedDown_Fallback(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)
	svc := NewCalendarService(server.URL, "", "test-key")

	cal, err := svc.WorkCalendar(ctx, 2025)

	require.NoError(t, err)
	assert.Equal(t, calendar.SourceFallback, cal.Source)
	require.Len(t, cal.Holidays, 12)
	assert.True(t, cal.IsHoliday(dateutil.New(2025, time.January, 1)))
	assert.True(t, cal.IsHoliday(dateutil.New(2025, time.December, 26)))
}

func TestWorkCalendar_NoAPIKey_Fallback(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := NewCalendarService("http://calendar.invalid", "", "")

	cal, err := svc.WorkCalendar(ctx, 2024)

	require.NoError(t, err)
	assert.Equal(t, calendar.SourceFallback, cal.Source)
}

func TestWorkingDays_SkipsWeekendsAndHolidays(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	// Holiday on Wednesday 2024-01-03.
	var hits atomic.Int32
	server := feedServer(t, &hits, `{
		"items": [{"summary": "Sviatok", "start": {"date": "2024-01-03"}}]
	}`)
	svc := NewCalendarService(server.URL, "", "test-key")

	// Mon 2024-01-01 .. Sun 2024-01-07: five weekdays minus one holiday.
	count, err := svc.WorkingDays(ctx, dateutil.New(2024, time.January, 1), dateutil.New(2024, time.January, 7))

	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestWorkingDays_InvertedRange_Zero(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := NewCalendarService("http://calendar.invalid", "", "")

	count, err := svc.WorkingDays(ctx, dateutil.New(2024, time.January, 7), dateutil.New(2024, time.January, 1))

	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestHolidaysBetween_FiltersToRange(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := NewCalendarService("http://calendar.invalid", "", "")

	// Fallback calendar, May only.
	holidays, err := svc.HolidaysBetween(ctx, dateutil.New(2024, time.May, 1), dateutil.New(2024, time.May, 31))

	require.NoError(t, err)
	require.Len(t, holidays, 2)
	assert.Equal(t, "Sviatok práce", holidays[0].Title)
	assert.Equal(t, "Deň víťazstva nad fašizmom", holidays[1].Title)
}
