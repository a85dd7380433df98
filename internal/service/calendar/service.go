package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/evidenta/portal-backend/internal/domain/calendar"
	"github.com/evidenta/portal-backend/internal/pkg/dateutil"
)

// DefaultCalendarID is the public Slovak holiday calendar.
const DefaultCalendarID = "sk.slovak#holiday@group.v.calendar.google.com"

const cacheTTL = 24 * time.Hour

type cacheEntry struct {
	cal       calendar.WorkCalendar
	fetchedAt time.Time
}

// ServiceImpl fetches the Slovak work calendar from the public holiday
// feed, falling back to the built-in fixed-holiday table when the feed
// is unreachable. Calendars are cached per year; holidays do not change
// within a year, so a stale cache is harmless.
type ServiceImpl struct {
	baseURL    string
	calendarID string
	apiKey     string
	client     *http.Client

	mu    sync.RWMutex
	cache map[int]cacheEntry
	now   func() time.Time
}

func NewCalendarService(baseURL, calendarID, apiKey string) *ServiceImpl {
	if calendarID == "" {
		calendarID = DefaultCalendarID
	}
	return &ServiceImpl{
		baseURL:    baseURL,
		calendarID: calendarID,
		apiKey:     apiKey,
		client:     &http.Client{Timeout: 10 * time.Second},
		cache:      make(map[int]cacheEntry),
		now:        time.Now,
	}
}

func (s *ServiceImpl) WorkCalendar(ctx context.Context, year int) (calendar.WorkCalendar, error) {
	s.mu.RLock()
	entry, ok := s.cache[year]
	s.mu.RUnlock()
	if ok && s.now().Sub(entry.fetchedAt) < cacheTTL {
		return entry.cal, nil
	}

	cal, err := s.fetchYear(ctx, year)
	if err != nil {
		slog.Warn("holiday feed unavailable, using built-in calendar",
			"error", err, "year", year)
		cal = fallbackCalendar(year)
	}

	s.mu.Lock()
	s.cache[year] = cacheEntry{cal: cal, fetchedAt: s.now()}
	s.mu.Unlock()

	return cal, nil
}

func (s *ServiceImpl) HolidaysBetween(ctx context.Context, start, end dateutil.Date) ([]calendar.Holiday, error) {
	if start.IsZero() || end.IsZero() || end.Before(start) {
		return nil, nil
	}

	var holidays []calendar.Holiday
	for year := start.Year(); year <= end.Year(); year++ {
		cal, err := s.WorkCalendar(ctx, year)
		if err != nil {
			return nil, err
		}
		for _, h := range cal.Holidays {
			if !h.Date.Before(start) && !h.Date.After(end) {
				holidays = append(holidays, h)
			}
		}
	}
	return holidays, nil
}

func (s *ServiceImpl) WorkingDays(ctx context.Context, start, end dateutil.Date) (int, error) {
	dates := dateutil.Range(start, end)
	if len(dates) == 0 {
		return 0, nil
	}

	calendars := make(map[int]calendar.WorkCalendar)
	for year := start.Year(); year <= end.Year(); year++ {
		cal, err := s.WorkCalendar(ctx, year)
		if err != nil {
			return 0, err
		}
		calendars[year] = cal
	}

	count := 0
	for _, d := range dates {
		if calendars[d.Year()].IsWorkingDay(d) {
			count++
		}
	}
	return count, nil
}

type feedEvent struct {
	Summary string `json:"summary"`
	Start   struct {
		Date string `json:"date"`
	} `json:"start"`
}

type feedResponse struct {
	Items []feedEvent `json:"items"`
}

func (s *ServiceImpl) fetchYear(ctx context.Context, year int) (calendar.WorkCalendar, error) {
	if s.apiKey == "" {
		return calendar.WorkCalendar{}, fmt.Errorf("calendar api key is not configured")
	}

	endpoint := fmt.Sprintf("%s/calendars/%s/events", s.baseURL, url.PathEscape(s.calendarID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return calendar.WorkCalendar{}, fmt.Errorf("failed to build calendar request: %w", err)
	}

	q := req.URL.Query()
	q.Set("key", s.apiKey)
	q.Set("timeMin", fmt.Sprintf("%d-01-01T00:00:00Z", year))
	q.Set("timeMax", fmt.Sprintf("%d-12-31T23:59:59Z", year))
	q.Set("singleEvents", "true")
	q.Set("orderBy", "startTime")
	req.URL.RawQuery = q.Encode()

	resp, err := s.client.Do(req)
	if err != nil {
		return calendar.WorkCalendar{}, fmt.Errorf("failed to fetch holiday feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return calendar.WorkCalendar{}, fmt.Errorf("holiday feed returned status %d", resp.StatusCode)
	}

	var feed feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return calendar.WorkCalendar{}, fmt.Errorf("failed to decode holiday feed: %w", err)
	}

	holidays := make([]calendar.Holiday, 0, len(feed.Items))
	for _, event := range feed.Items {
		date, err := dateutil.Parse(event.Start.Date)
		if err != nil {
			continue
		}
		holidays = append(holidays, calendar.Holiday{Date: date, Title: event.Summary})
	}

	return calendar.WorkCalendar{
		Year:     year,
		Holidays: holidays,
		Source:   calendar.SourceRemote,
	}, nil
}
