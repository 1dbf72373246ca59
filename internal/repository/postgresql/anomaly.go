package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/attendly-hq/attendly-backend-go/internal/domain/anomaly"
	"github.com/attendly-hq/attendly-backend-go/internal/pkg/database"
)

type anomalyRepository struct {
	db *database.DB
}

func NewAnomalyRepository(db *database.DB) anomaly.Repository {
	return &anomalyRepository{db: db}
}

const anomalyColumns = `id, company_id, user_id, rule_id, type, severity, status,
	   title, description, data, detected_at, resolved_at, resolved_by`

func scanAnomaly(row pgx.Row) (anomaly.Event, error) {
	var ev anomaly.Event
	var raw []byte
	err := row.Scan(
		&ev.ID, &ev.CompanyID, &ev.UserID, &ev.RuleID, &ev.Type, &ev.Severity, &ev.Status,
		&ev.Title, &ev.Description, &raw, &ev.DetectedAt, &ev.ResolvedAt, &ev.ResolvedBy,
	)
	if err != nil {
		return anomaly.Event{}, err
	}

	payload, err := anomaly.DecodePayload(ev.Type, raw)
	if err != nil {
		return anomaly.Event{}, err
	}
	ev.Data = payload
	return ev, nil
}

// Create implements anomaly.Repository.
func (r *anomalyRepository) Create(ctx context.Context, event *anomaly.Event) error {
	q := GetQuerier(ctx, r.db)

	data, err := json.Marshal(event.Data)
	if err != nil {
		return fmt.Errorf("failed to marshal anomaly payload: %w", err)
	}

	query := `
		INSERT INTO anomaly_events (
			company_id, user_id, rule_id, type, severity, status,
			title, description, data, detected_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		) RETURNING id
	`

	err = q.QueryRow(ctx, query,
		event.CompanyID, event.UserID, event.RuleID, event.Type, event.Severity, event.Status,
		event.Title, event.Description, data, event.DetectedAt,
	).Scan(&event.ID)
	if err != nil {
		return fmt.Errorf("failed to create anomaly event: %w", err)
	}
	return nil
}

// FindOpen implements anomaly.Repository.
func (r *anomalyRepository) FindOpen(ctx context.Context, userID string, t anomaly.Type, dayStart *time.Time) (*anomaly.Event, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + anomalyColumns + `
		FROM anomaly_events
		WHERE user_id = $1
		  AND type = $2
		  AND status = 'open'
		  AND ($3::timestamptz IS NULL OR (detected_at >= $3 AND detected_at < $3 + INTERVAL '1 day'))
		ORDER BY detected_at DESC
		LIMIT 1
	`

	event, err := scanAnomaly(q.QueryRow(ctx, query, userID, t, dayStart))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find open anomaly: %w", err)
	}
	return &event, nil
}

// GetByID implements anomaly.Repository.
func (r *anomalyRepository) GetByID(ctx context.Context, id string, companyID string) (anomaly.Event, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + anomalyColumns + ` FROM anomaly_events WHERE id = $1 AND company_id = $2`

	event, err := scanAnomaly(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return anomaly.Event{}, anomaly.ErrEventNotFound
		}
		return anomaly.Event{}, fmt.Errorf("failed to get anomaly event: %w", err)
	}
	return event, nil
}

// List implements anomaly.Repository.
func (r *anomalyRepository) List(ctx context.Context, companyID string, filter anomaly.ListFilter) ([]anomaly.Event, int64, error) {
	q := GetQuerier(ctx, r.db)

	countQuery := `
		SELECT COUNT(*) FROM anomaly_events
		WHERE company_id = $1
		  AND ($2::text IS NULL OR user_id = $2)
		  AND ($3::text IS NULL OR type = $3)
		  AND ($4::text IS NULL OR status = $4)
	`
	var total int64
	if err := q.QueryRow(ctx, countQuery, companyID, filter.UserID, filter.Type, filter.Status).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count anomaly events: %w", err)
	}

	query := `
		SELECT ` + anomalyColumns + `
		FROM anomaly_events
		WHERE company_id = $1
		  AND ($2::text IS NULL OR user_id = $2)
		  AND ($3::text IS NULL OR type = $3)
		  AND ($4::text IS NULL OR status = $4)
		ORDER BY detected_at DESC
		LIMIT $5 OFFSET $6
	`
	offset := (filter.Page - 1) * filter.Limit
	rows, err := q.Query(ctx, query, companyID, filter.UserID, filter.Type, filter.Status, filter.Limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list anomaly events: %w", err)
	}
	defer rows.Close()

	var events []anomaly.Event
	for rows.Next() {
		event, err := scanAnomaly(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan anomaly event: %w", err)
		}
		events = append(events, event)
	}
	return events, total, rows.Err()
}

// UpdateStatus implements anomaly.Repository. Resolution metadata is written
// only for terminal statuses.
func (r *anomalyRepository) UpdateStatus(ctx context.Context, id string, status anomaly.Status, actorID string, resolvedAt time.Time) error {
	q := GetQuerier(ctx, r.db)

	var query string
	var args []interface{}
	if status == anomaly.StatusResolved || status == anomaly.StatusDismissed {
		query = `UPDATE anomaly_events SET status = $2, resolved_at = $3, resolved_by = $4 WHERE id = $1`
		args = []interface{}{id, status, resolvedAt, actorID}
	} else {
		query = `UPDATE anomaly_events SET status = $2 WHERE id = $1`
		args = []interface{}{id, status}
	}

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update anomaly status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return anomaly.ErrEventNotFound
	}
	return nil
}

// ========================================
// RULES
// ========================================

type anomalyRuleRepository struct {
	db *database.DB
}

func NewAnomalyRuleRepository(db *database.DB) anomaly.RuleRepository {
	return &anomalyRuleRepository{db: db}
}

const ruleColumns = `id, company_id, type, is_enabled, severity, threshold, window_days, created_at, updated_at`

func scanRule(row pgx.Row) (anomaly.Rule, error) {
	var rule anomaly.Rule
	err := row.Scan(
		&rule.ID, &rule.CompanyID, &rule.Type, &rule.IsEnabled,
		&rule.Severity, &rule.Threshold, &rule.WindowDays,
		&rule.CreatedAt, &rule.UpdatedAt,
	)
	return rule, err
}

// ListEnabledByCompany implements anomaly.RuleRepository.
func (r *anomalyRuleRepository) ListEnabledByCompany(ctx context.Context, companyID string) ([]anomaly.Rule, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + ruleColumns + ` FROM anomaly_rules WHERE company_id = $1 AND is_enabled = TRUE ORDER BY type`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list anomaly rules: %w", err)
	}
	defer rows.Close()

	var rules []anomaly.Rule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan anomaly rule: %w", err)
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

// GetEnabled implements anomaly.RuleRepository.
func (r *anomalyRuleRepository) GetEnabled(ctx context.Context, companyID string, t anomaly.Type) (*anomaly.Rule, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + ruleColumns + ` FROM anomaly_rules WHERE company_id = $1 AND type = $2 AND is_enabled = TRUE LIMIT 1`

	rule, err := scanRule(q.QueryRow(ctx, query, companyID, t))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get anomaly rule: %w", err)
	}
	return &rule, nil
}
