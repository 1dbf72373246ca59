package policy

import (
	"context"
)

// Provider supplies per-company policy configuration to the attendance core.
// Company and user identity are managed elsewhere; the core only enumerates
// them for the batch sweep.
type Provider interface {
	// WorkPolicy returns the effective work policy for a company, with
	// defaults applied for unset fields.
	WorkPolicy(ctx context.Context, companyID string) (WorkPolicy, error)

	// GeofencePolicy returns nil without error when a company has no
	// geofence configuration.
	GeofencePolicy(ctx context.Context, companyID string) (*GeofencePolicy, error)

	// CompanyIDs lists every company known to the system.
	CompanyIDs(ctx context.Context) ([]string, error)
}

// Defaults is the fallback WorkPolicy applied when a company has no explicit
// configuration, loaded from the policy defaults file at startup.
type Defaults struct {
	BreakDurationMinutes     int `yaml:"break_duration_minutes"`
	LunchDurationMinutes     int `yaml:"lunch_duration_minutes"`
	OvertimeThresholdMinutes int `yaml:"overtime_threshold_minutes"`
	MaxOvertimeMinutes       int `yaml:"max_overtime_minutes"`
	StandardWorkHours        int `yaml:"standard_work_hours"`
	GraceMinutesLate         int `yaml:"grace_minutes_late"`
	WorkDayStartHour         int `yaml:"work_day_start_hour"`
}

// BuiltinDefaults mirrors the shipped policy_defaults.yaml so the core works
// without the file present.
func BuiltinDefaults() Defaults {
	return Defaults{
		BreakDurationMinutes:     15,
		LunchDurationMinutes:     60,
		OvertimeThresholdMinutes: 480,
		MaxOvertimeMinutes:       240,
		StandardWorkHours:        8,
		GraceMinutesLate:         15,
		WorkDayStartHour:         9,
	}
}

// Apply fills zero fields of a policy from the defaults.
func (d Defaults) Apply(p WorkPolicy) WorkPolicy {
	if p.BreakDurationMinutes == 0 {
		p.BreakDurationMinutes = d.BreakDurationMinutes
	}
	if p.LunchDurationMinutes == 0 {
		p.LunchDurationMinutes = d.LunchDurationMinutes
	}
	if p.OvertimeThresholdMinutes == 0 {
		p.OvertimeThresholdMinutes = d.OvertimeThresholdMinutes
	}
	if p.MaxOvertimeMinutes == 0 {
		p.MaxOvertimeMinutes = d.MaxOvertimeMinutes
	}
	if p.StandardWorkHours == 0 {
		p.StandardWorkHours = d.StandardWorkHours
	}
	if p.GraceMinutesLate == 0 {
		p.GraceMinutesLate = d.GraceMinutesLate
	}
	if p.WorkDayStartHour == 0 {
		p.WorkDayStartHour = d.WorkDayStartHour
	}
	return p
}
