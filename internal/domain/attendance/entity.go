package attendance

import (
	"time"
)

// WorkMode describes where the employee is working from for a session.
type WorkMode string

const (
	WorkModeOffice WorkMode = "office"
	WorkModeRemote WorkMode = "remote"
	WorkModeField  WorkMode = "field"
)

// AllWorkModes returns all valid work modes.
func AllWorkModes() []WorkMode {
	return []WorkMode{WorkModeOffice, WorkModeRemote, WorkModeField}
}

// VerificationStatus is the outcome of geofence validation for a check-in.
type VerificationStatus string

const (
	VerificationNone   VerificationStatus = "none"
	VerificationPassed VerificationStatus = "geofence_passed"
	VerificationFailed VerificationStatus = "geofence_failed"
)

// EventType distinguishes check-in from check-out events.
type EventType string

const (
	EventCheckIn  EventType = "check_in"
	EventCheckOut EventType = "check_out"
)

// BreakType distinguishes short breaks from lunch breaks.
type BreakType string

const (
	BreakTypeBreak BreakType = "break"
	BreakTypeLunch BreakType = "lunch"
)

// DayStatus is the derived state of an employee's day.
type DayStatus string

const (
	StatusNotCheckedIn DayStatus = "not_checked_in"
	StatusWorking      DayStatus = "working"
	StatusOnBreak      DayStatus = "on_break"
	StatusCheckedOut   DayStatus = "checked_out"
)

// Day aggregates one user's attendance for one calendar date.
// There is at most one Day per (UserID, Date); Date is midnight-normalized UTC.
type Day struct {
	ID                string
	UserID            string
	CompanyID         string
	Date              time.Time
	IsComplete        bool
	TotalWorkMinutes  int
	TotalBreakMinutes int
	TotalLunchMinutes int
	OvertimeMinutes   int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Event is an immutable, append-only attendance event. A day may hold several
// check-in/check-out pairs; ordering is by Timestamp.
type Event struct {
	ID                 string
	DayID              string
	Type               EventType
	Timestamp          time.Time
	WorkMode           WorkMode
	Latitude           *float64
	Longitude          *float64
	VerificationStatus VerificationStatus
	DeviceFingerprint  *string
	IsOverride         bool
	OverrideReason     *string
	OverrideBy         *string
	Notes              *string
	CreatedAt          time.Time
}

// BreakSegment is one break instance within a day. EndTime is nil while the
// break is still open; DurationMinutes is set when it closes.
type BreakSegment struct {
	ID              string
	DayID           string
	Type            BreakType
	StartTime       time.Time
	EndTime         *time.Time
	DurationMinutes *int
	CreatedAt       time.Time
}

// IsOpen reports whether the break has not been ended yet.
func (b BreakSegment) IsOpen() bool {
	return b.EndTime == nil
}

// DayTotals carries the four derived totals written back to a Day. They are
// always computed and persisted together.
type DayTotals struct {
	WorkMinutes  int
	BreakMinutes int
	LunchMinutes int
	OvertimeMins int
}
