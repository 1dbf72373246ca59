package anomaly

import (
	"time"
)

// Type identifies the kind of attendance irregularity a rule detects.
type Type string

const (
	TypeRepeatedLateCheckIn Type = "repeated_late_check_in"
	TypeMissingCheckOut     Type = "missing_check_out"
	TypeExcessiveBreak      Type = "excessive_break"
	TypeTimesheetMismatch   Type = "timesheet_mismatch"
	TypeGeofenceFailure     Type = "geofence_failure"
)

// AllTypes returns all rule types.
func AllTypes() []Type {
	return []Type{
		TypeRepeatedLateCheckIn,
		TypeMissingCheckOut,
		TypeExcessiveBreak,
		TypeTimesheetMismatch,
		TypeGeofenceFailure,
	}
}

// DayScoped reports whether open-event dedup for this type is additionally
// limited to the calendar day. Geofence failures and repeated-late detections
// dedup on open status alone.
func (t Type) DayScoped() bool {
	switch t {
	case TypeMissingCheckOut, TypeExcessiveBreak, TypeTimesheetMismatch:
		return true
	default:
		return false
	}
}

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

type Status string

const (
	StatusOpen         Status = "open"
	StatusAcknowledged Status = "acknowledged"
	StatusResolved     Status = "resolved"
	StatusDismissed    Status = "dismissed"
)

// Rule is a per-company detection configuration.
type Rule struct {
	ID         string
	CompanyID  string
	Type       Type
	IsEnabled  bool
	Severity   Severity
	Threshold  int
	WindowDays int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Event is a detected irregularity awaiting human review. Events are created
// only by the rule engine; clients may only move them through the
// acknowledge/resolve/dismiss lifecycle. At most one Open event per
// (UserID, Type) exists at a time.
type Event struct {
	ID          string
	CompanyID   string
	UserID      string
	RuleID      string
	Type        Type
	Severity    Severity
	Status      Status
	Title       string
	Description string
	Data        Payload
	DetectedAt  time.Time
	ResolvedAt  *time.Time
	ResolvedBy  *string
}
