package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/attendly-hq/attendly-backend-go/internal/domain/policy"
	"github.com/attendly-hq/attendly-backend-go/internal/pkg/database"
)

type policyProvider struct {
	db       *database.DB
	defaults policy.Defaults
}

func NewPolicyProvider(db *database.DB, defaults policy.Defaults) policy.Provider {
	return &policyProvider{db: db, defaults: defaults}
}

// WorkPolicy implements policy.Provider. Companies without an explicit policy
// row get the configured defaults.
func (r *policyProvider) WorkPolicy(ctx context.Context, companyID string) (policy.WorkPolicy, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT company_id, break_duration_minutes, lunch_duration_minutes,
		       overtime_threshold_minutes, max_overtime_minutes,
		       standard_work_hours, grace_minutes_late, work_day_start_hour,
		       updated_at
		FROM work_policies
		WHERE company_id = $1
	`

	var p policy.WorkPolicy
	err := q.QueryRow(ctx, query, companyID).Scan(
		&p.CompanyID, &p.BreakDurationMinutes, &p.LunchDurationMinutes,
		&p.OvertimeThresholdMinutes, &p.MaxOvertimeMinutes,
		&p.StandardWorkHours, &p.GraceMinutesLate, &p.WorkDayStartHour,
		&p.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			p = r.defaults.Apply(policy.WorkPolicy{CompanyID: companyID})
			return p, nil
		}
		return policy.WorkPolicy{}, fmt.Errorf("failed to get work policy: %w", err)
	}
	return r.defaults.Apply(p), nil
}

// GeofencePolicy implements policy.Provider.
func (r *policyProvider) GeofencePolicy(ctx context.Context, companyID string) (*policy.GeofencePolicy, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT company_id, is_enabled, require_geofence_for_office
		FROM geofence_policies
		WHERE company_id = $1
	`

	var gp policy.GeofencePolicy
	err := q.QueryRow(ctx, query, companyID).Scan(
		&gp.CompanyID, &gp.IsEnabled, &gp.RequireGeofenceForOffice,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get geofence policy: %w", err)
	}

	officeQuery := `
		SELECT id, company_id, name, latitude, longitude, radius_meters, is_active
		FROM office_locations
		WHERE company_id = $1
		ORDER BY name
	`
	rows, err := q.Query(ctx, officeQuery, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list office locations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var office policy.OfficeLocation
		err := rows.Scan(
			&office.ID, &office.CompanyID, &office.Name,
			&office.Latitude, &office.Longitude, &office.RadiusMeters, &office.IsActive,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan office location: %w", err)
		}
		gp.Offices = append(gp.Offices, office)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &gp, nil
}

// CompanyIDs implements policy.Provider.
func (r *policyProvider) CompanyIDs(ctx context.Context) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT id FROM companies ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan company id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
