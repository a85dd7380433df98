package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/evidenta/portal-backend/internal/domain/attendance"
	"github.com/evidenta/portal-backend/internal/domain/auth"
	"github.com/evidenta/portal-backend/internal/handler/http/middleware"
	"github.com/evidenta/portal-backend/internal/handler/http/response"
	"github.com/evidenta/portal-backend/internal/pkg/dateutil"
)

type AttendanceHandler interface {
	GetOverview(w http.ResponseWriter, r *http.Request)
	GetLatestOverview(w http.ResponseWriter, r *http.Request)
	UpsertDay(w http.ResponseWriter, r *http.Request)
	GetDuplicates(w http.ResponseWriter, r *http.Request)
}

// OverviewCache exposes the most recently published company-wide
// overview, kept warm by the refresh job.
type OverviewCache interface {
	Latest() (attendance.OverviewResponse, bool)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	overviewCache     OverviewCache
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService, overviewCache OverviewCache) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		overviewCache:     overviewCache,
	}
}

// GetOverview implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetOverview(w http.ResponseWriter, r *http.Request) {
	cap, ok := middleware.CapabilityFromContext(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	req := attendance.OverviewRequest{
		Period:    r.URL.Query().Get("period"),
		StartDate: r.URL.Query().Get("start_date"),
		EndDate:   r.URL.Query().Get("end_date"),
	}
	if raw := r.URL.Query().Get("employee_id"); raw != "" {
		employeeID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.BadRequest(w, "employee_id must be an integer", nil)
			return
		}
		req.EmployeeID = &employeeID
	}

	result, err := h.attendanceService.GetOverview(r.Context(), cap, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetLatestOverview implements AttendanceHandler. It serves the cached
// company-wide overview without recomputing it.
func (h *attendanceHandlerImpl) GetLatestOverview(w http.ResponseWriter, r *http.Request) {
	cap, ok := middleware.CapabilityFromContext(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}
	if !cap.CanViewAllEmployees() {
		response.HandleError(w, attendance.ErrUnauthorized)
		return
	}

	latest, ok := h.overviewCache.Latest()
	if !ok {
		response.NotFound(w, "No overview has been computed yet")
		return
	}

	response.Success(w, latest)
}

// UpsertDay implements AttendanceHandler.
func (h *attendanceHandlerImpl) UpsertDay(w http.ResponseWriter, r *http.Request) {
	cap, ok := middleware.CapabilityFromContext(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	var req attendance.UpsertDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.attendanceService.UpsertDay(r.Context(), cap, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Attendance day saved", result)
}

// GetDuplicates implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetDuplicates(w http.ResponseWriter, r *http.Request) {
	cap, ok := middleware.CapabilityFromContext(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	employeeID, err := strconv.ParseInt(r.URL.Query().Get("employee_id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "employee_id must be an integer", nil)
		return
	}
	start, err := dateutil.Parse(r.URL.Query().Get("start_date"))
	if err != nil {
		response.BadRequest(w, "start_date must be a valid date (YYYY-MM-DD)", nil)
		return
	}
	end, err := dateutil.Parse(r.URL.Query().Get("end_date"))
	if err != nil {
		response.BadRequest(w, "end_date must be a valid date (YYYY-MM-DD)", nil)
		return
	}

	dates, err := h.attendanceService.DuplicateDates(r.Context(), cap, employeeID, start, end)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, map[string]interface{}{
		"employee_id": employeeID,
		"duplicates":  dates,
	})
}
