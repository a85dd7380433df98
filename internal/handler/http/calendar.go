package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/evidenta/portal-backend/internal/domain/calendar"
	"github.com/evidenta/portal-backend/internal/handler/http/response"
)

type CalendarHandler interface {
	GetWorkCalendar(w http.ResponseWriter, r *http.Request)
}

type calendarHandlerImpl struct {
	calendars calendar.Provider
}

func NewCalendarHandler(calendars calendar.Provider) CalendarHandler {
	return &calendarHandlerImpl{calendars: calendars}
}

// GetWorkCalendar implements CalendarHandler.
func (h *calendarHandlerImpl) GetWorkCalendar(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < 1900 || year > 2200 {
		response.BadRequest(w, "year must be a valid calendar year", nil)
		return
	}

	cal, err := h.calendars.WorkCalendar(r.Context(), year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, cal)
}
