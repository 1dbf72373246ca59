package policy

import (
	"fmt"
	"time"
)

// WorkPolicy is per-company working-time configuration. Values left at zero
// fall back to company-wide defaults; see Provider implementations.
type WorkPolicy struct {
	CompanyID                string
	BreakDurationMinutes     int
	LunchDurationMinutes     int
	OvertimeThresholdMinutes int
	MaxOvertimeMinutes       int
	StandardWorkHours        int
	GraceMinutesLate         int
	// WorkDayStartHour is the expected start of the working day used by the
	// late-check-in rule. Defaults to 9 (09:00).
	WorkDayStartHour int
	UpdatedAt        time.Time
}

// Validate checks value ranges. Break and lunch durations may be zero;
// everything else must be positive when set.
func (p WorkPolicy) Validate() error {
	if p.BreakDurationMinutes < 0 {
		return fmt.Errorf("break duration must not be negative")
	}
	if p.LunchDurationMinutes < 0 {
		return fmt.Errorf("lunch duration must not be negative")
	}
	if p.OvertimeThresholdMinutes <= 0 {
		return fmt.Errorf("overtime threshold must be positive")
	}
	if p.MaxOvertimeMinutes <= 0 {
		return fmt.Errorf("max overtime must be positive")
	}
	if p.StandardWorkHours <= 0 {
		return fmt.Errorf("standard work hours must be positive")
	}
	if p.WorkDayStartHour < 0 || p.WorkDayStartHour > 23 {
		return fmt.Errorf("work day start hour must be between 0 and 23")
	}
	return nil
}

// LateCutoff returns the time of day ("15:04:05") after which a check-in
// counts as late.
func (p WorkPolicy) LateCutoff() string {
	cutoff := time.Date(0, 1, 1, p.WorkDayStartHour, 0, 0, 0, time.UTC).
		Add(time.Duration(p.GraceMinutesLate) * time.Minute)
	return cutoff.Format("15:04:05")
}

// BreakAllowanceMinutes is the total daily break budget.
func (p WorkPolicy) BreakAllowanceMinutes() int {
	return p.BreakDurationMinutes + p.LunchDurationMinutes
}

// OfficeLocation is one circular geofence around an office.
type OfficeLocation struct {
	ID           string
	CompanyID    string
	Name         string
	Latitude     float64
	Longitude    float64
	RadiusMeters int
	IsActive     bool
}

// GeofencePolicy is per-company geofence configuration together with the
// company's office locations.
type GeofencePolicy struct {
	CompanyID                string
	IsEnabled                bool
	RequireGeofenceForOffice bool
	Offices                  []OfficeLocation
}
