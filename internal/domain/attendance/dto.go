package attendance

import (
	"github.com/evidenta/portal-backend/internal/pkg/dateutil"
	"github.com/evidenta/portal-backend/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

var allowedPeriods = []string{"week", "month", "year", "custom"}

var allowedStatuses = []string{
	string(StatusPresent),
	string(StatusAbsent),
	string(StatusLate),
	string(StatusLeave),
	string(StatusSickLeave),
	string(StatusHoliday),
	string(StatusVacation),
}

type OverviewRequest struct {
	// EmployeeID selects a single employee; nil means all employees,
	// which requires manager capability.
	EmployeeID *int64 `json:"employee_id"`
	Period     string `json:"period"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
}

func (r OverviewRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Period) {
		errs = append(errs, validator.ValidationError{
			Field:   "period",
			Message: "period is required",
		})
	} else if !validator.IsInSlice(r.Period, allowedPeriods) {
		errs = append(errs, validator.ValidationError{
			Field:   "period",
			Message: "period must be one of: week, month, year, custom",
		})
	}

	// Custom dates are deliberately not validated here: a missing or
	// unparsable range resolves to zero dates and comes back as an
	// empty overview, never as an error.

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Resolve turns the request into a concrete date range. Custom periods
// take the dates as given, even inverted ones: an inverted range flows
// through reconciliation and comes back as an empty overview rather
// than an error.
func (r OverviewRequest) Resolve(now dateutil.Date) (start, end dateutil.Date) {
	if r.Period == "custom" {
		start, _ = dateutil.Parse(r.StartDate)
		end, _ = dateutil.Parse(r.EndDate)
		return start, end
	}
	start, end, _ = dateutil.PeriodRange(dateutil.PeriodKind(r.Period), now)
	return start, end
}

type UpsertDayRequest struct {
	EmployeeID   int64   `json:"employee_id"`
	Date         string  `json:"date"`
	Status       string  `json:"status"`
	CheckIn      *string `json:"check_in"`  // "HH:MM", present only
	CheckOut     *string `json:"check_out"` // "HH:MM", present only
	BreakMinutes *int    `json:"break_minutes"`
	Note         *string `json:"note"`
}

func (r UpsertDayRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.EmployeeID <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be a valid date (YYYY-MM-DD)",
		})
	}

	if !validator.IsInSlice(r.Status, allowedStatuses) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status is not a recognized attendance status",
		})
	}

	if Status(r.Status) == StatusPresent {
		if r.CheckIn != nil && !validator.IsValidTimeOfDay(*r.CheckIn) {
			errs = append(errs, validator.ValidationError{
				Field:   "check_in",
				Message: "check_in must be a valid time (HH:MM)",
			})
		}
		if r.CheckOut != nil && !validator.IsValidTimeOfDay(*r.CheckOut) {
			errs = append(errs, validator.ValidationError{
				Field:   "check_out",
				Message: "check_out must be a valid time (HH:MM)",
			})
		}
		if r.BreakMinutes != nil && *r.BreakMinutes < 0 {
			errs = append(errs, validator.ValidationError{
				Field:   "break_minutes",
				Message: "break_minutes must not be negative",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type OverviewResponse struct {
	StartDate      dateutil.Date   `json:"start_date"`
	EndDate        dateutil.Date   `json:"end_date"`
	Days           []DayEntry      `json:"days"`
	Stats          *Stats          `json:"stats"`
	DuplicateDates []dateutil.Date `json:"duplicate_dates,omitempty"`
}
