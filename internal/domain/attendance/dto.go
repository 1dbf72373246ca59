package attendance

import (
	"time"

	"github.com/attendly-hq/attendly-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type CheckInRequest struct {
	WorkMode          WorkMode `json:"work_mode"`
	Latitude          *float64 `json:"latitude,omitempty"`
	Longitude         *float64 `json:"longitude,omitempty"`
	DeviceFingerprint *string  `json:"device_fingerprint,omitempty"`
	Notes             *string  `json:"notes,omitempty"`
}

func (r *CheckInRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidWorkMode(string(r.WorkMode)) {
		errs = append(errs, validator.ValidationError{
			Field:   "work_mode",
			Message: "work_mode must be one of: office, remote, field",
		})
	}

	errs = append(errs, validateCoordinates(r.Latitude, r.Longitude)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CheckOutRequest struct {
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Notes     *string  `json:"notes,omitempty"`
}

func (r *CheckOutRequest) Validate() error {
	errs := validateCoordinates(r.Latitude, r.Longitude)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type BreakStartRequest struct {
	Type BreakType `json:"type"`
}

func (r *BreakStartRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Type != BreakTypeBreak && r.Type != BreakTypeLunch {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type must be one of: break, lunch",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type OverrideEventRequest struct {
	EventID   string    `json:"-"`
	Timestamp *string   `json:"timestamp,omitempty"` // "2006-01-02 15:04:05", UTC
	WorkMode  *WorkMode `json:"work_mode,omitempty"`
	Reason    string    `json:"reason"`
}

func (r *OverrideEventRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EventID) {
		errs = append(errs, validator.ValidationError{
			Field:   "event_id",
			Message: "event_id is required",
		})
	} else if !validator.IsValidUUID(r.EventID) {
		errs = append(errs, validator.ValidationError{
			Field:   "event_id",
			Message: "event_id must be a valid UUID",
		})
	}

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required for an override",
		})
	}

	if r.Timestamp != nil {
		if _, err := time.Parse("2006-01-02 15:04:05", *r.Timestamp); err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "timestamp",
				Message: "timestamp must be in format YYYY-MM-DD HH:MM:SS",
			})
		}
	}

	if r.WorkMode != nil && !validator.IsValidWorkMode(string(*r.WorkMode)) {
		errs = append(errs, validator.ValidationError{
			Field:   "work_mode",
			Message: "work_mode must be one of: office, remote, field",
		})
	}

	if r.Timestamp == nil && r.WorkMode == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "timestamp",
			Message: "at least one of timestamp or work_mode must be provided",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateCoordinates(lat, lon *float64) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if lat != nil && !validator.IsValidLatitude(*lat) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}
	if lon != nil && !validator.IsValidLongitude(*lon) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}
	if (lat == nil) != (lon == nil) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude and longitude must be provided together",
		})
	}

	return errs
}

type HistoryFilter struct {
	From  *time.Time
	To    *time.Time
	Page  int
	Limit int
}

// ========================================
// RESPONSES
// ========================================

type EventResponse struct {
	ID                 string             `json:"id"`
	Type               EventType          `json:"type"`
	Timestamp          string             `json:"timestamp"`
	WorkMode           WorkMode           `json:"work_mode"`
	Latitude           *float64           `json:"latitude,omitempty"`
	Longitude          *float64           `json:"longitude,omitempty"`
	VerificationStatus VerificationStatus `json:"verification_status"`
	IsOverride         bool               `json:"is_override"`
	Notes              *string            `json:"notes,omitempty"`
}

type BreakResponse struct {
	ID              string    `json:"id"`
	Type            BreakType `json:"type"`
	StartTime       string    `json:"start_time"`
	EndTime         *string   `json:"end_time,omitempty"`
	DurationMinutes *int      `json:"duration_minutes,omitempty"`
}

// DayResponse is the attendance day projection returned by every operation.
// While a session is open, work and break minutes are live values computed
// from the event log rather than the persisted totals.
type DayResponse struct {
	ID                string          `json:"id,omitempty"`
	Date              string          `json:"date"`
	Status            DayStatus       `json:"status"`
	IsComplete        bool            `json:"is_complete"`
	TotalWorkMinutes  int             `json:"total_work_minutes"`
	TotalBreakMinutes int             `json:"total_break_minutes"`
	TotalLunchMinutes int             `json:"total_lunch_minutes"`
	OvertimeMinutes   int             `json:"overtime_minutes"`
	OpenBreakID       *string         `json:"open_break_id,omitempty"`
	Events            []EventResponse `json:"events,omitempty"`
	Breaks            []BreakResponse `json:"breaks,omitempty"`
	Policy            *PolicyResponse `json:"policy,omitempty"`
}

// PolicyResponse is the effective work policy the day was evaluated under,
// after company-wide defaults have been applied.
type PolicyResponse struct {
	StandardWorkHours        int `json:"standard_work_hours"`
	BreakDurationMinutes     int `json:"break_duration_minutes"`
	LunchDurationMinutes     int `json:"lunch_duration_minutes"`
	OvertimeThresholdMinutes int `json:"overtime_threshold_minutes"`
	MaxOvertimeMinutes       int `json:"max_overtime_minutes"`
	GraceMinutesLate         int `json:"grace_minutes_late"`
}

type HistoryResponse struct {
	TotalCount int64         `json:"total_count"`
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
	TotalPages int           `json:"total_pages"`
	Days       []DayResponse `json:"days"`
}

type SummaryResponse struct {
	From              string `json:"from"`
	To                string `json:"to"`
	DaysWorked        int    `json:"days_worked"`
	TotalWorkMinutes  int    `json:"total_work_minutes"`
	TotalBreakMinutes int    `json:"total_break_minutes"`
	TotalLunchMinutes int    `json:"total_lunch_minutes"`
	OvertimeMinutes   int    `json:"overtime_minutes"`
}
