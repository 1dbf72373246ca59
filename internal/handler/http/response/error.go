package response

import (
	"errors"
	"net/http"

	"github.com/attendly-hq/attendly-backend-go/internal/domain/anomaly"
	"github.com/attendly-hq/attendly-backend-go/internal/domain/attendance"
	"github.com/attendly-hq/attendly-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Attendance domain errors
	switch {
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		Conflict(w, "Already checked in today")
	case errors.Is(err, attendance.ErrNotCheckedIn):
		Conflict(w, "No open check-in found")
	case errors.Is(err, attendance.ErrBreakAlreadyOpen):
		Conflict(w, "A break is already open")
	case errors.Is(err, attendance.ErrBreakNotOpen):
		Conflict(w, "No open break found")
	case errors.Is(err, attendance.ErrBreakNotFound):
		NotFound(w, "Break not found")
	case errors.Is(err, attendance.ErrDayNotFound):
		NotFound(w, "Attendance day not found")
	case errors.Is(err, attendance.ErrEventNotFound):
		NotFound(w, "Attendance event not found")
	case errors.Is(err, attendance.ErrUnauthorized):
		Forbidden(w, "Not allowed to perform this action")

	// Anomaly domain errors
	case errors.Is(err, anomaly.ErrEventNotFound):
		NotFound(w, "Anomaly event not found")
	case errors.Is(err, anomaly.ErrAlreadyProcessed):
		Conflict(w, "Anomaly event already processed")
	case errors.Is(err, anomaly.ErrRuleNotFound):
		NotFound(w, "Anomaly rule not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
