package geofence

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/attendly-hq/attendly-backend-go/internal/domain/anomaly"
	"github.com/attendly-hq/attendly-backend-go/internal/domain/attendance"
	"github.com/attendly-hq/attendly-backend-go/internal/domain/policy"
	"github.com/attendly-hq/attendly-backend-go/internal/pkg/utils"
)

// Flagger records a geofence failure anomaly, subject to the engine's dedup.
type Flagger interface {
	FlagGeofenceFailure(ctx context.Context, companyID, userID string, data anomaly.GeofenceFailureData) error
}

// Validator classifies a reported check-in coordinate against the company's
// office geofences.
type Validator struct {
	policies policy.Provider
}

func NewValidator(policies policy.Provider) *Validator {
	return &Validator{policies: policies}
}

// Validate resolves the verification status for a coordinate:
//   - no geofence policy, or policy disabled: VerificationNone
//   - coordinates missing: VerificationFailed when the policy requires
//     geofencing for office work, VerificationNone otherwise
//   - otherwise: VerificationPassed when within any active office radius,
//     VerificationFailed when outside all of them
func (v *Validator) Validate(ctx context.Context, companyID string, lat, lon *float64) (attendance.VerificationStatus, error) {
	pol, err := v.policies.GeofencePolicy(ctx, companyID)
	if err != nil {
		return attendance.VerificationNone, fmt.Errorf("failed to get geofence policy: %w", err)
	}
	if pol == nil || !pol.IsEnabled {
		return attendance.VerificationNone, nil
	}

	if lat == nil || lon == nil {
		if pol.RequireGeofenceForOffice {
			return attendance.VerificationFailed, nil
		}
		return attendance.VerificationNone, nil
	}

	for _, office := range pol.Offices {
		if !office.IsActive {
			continue
		}
		distance := utils.HaversineDistance(*lat, *lon, office.Latitude, office.Longitude)
		if distance <= float64(office.RadiusMeters) {
			return attendance.VerificationPassed, nil
		}
	}

	return attendance.VerificationFailed, nil
}

// ValidateAndFlag validates and, when the result is VerificationFailed,
// records a GeofenceFailure anomaly through the flagger. Flagging failures
// are logged, not returned: the classification itself already succeeded.
func (v *Validator) ValidateAndFlag(ctx context.Context, flagger Flagger, companyID, userID string, workMode attendance.WorkMode, lat, lon *float64) (attendance.VerificationStatus, error) {
	status, err := v.Validate(ctx, companyID, lat, lon)
	if err != nil {
		return status, err
	}

	if status == attendance.VerificationFailed {
		data := anomaly.GeofenceFailureData{
			WorkMode:  string(workMode),
			Latitude:  lat,
			Longitude: lon,
		}
		if err := flagger.FlagGeofenceFailure(ctx, companyID, userID, data); err != nil {
			slog.Error("Failed to flag geofence failure",
				"company_id", companyID, "user_id", userID, "error", err)
		}
	}

	return status, nil
}
