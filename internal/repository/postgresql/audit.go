package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/attendly-hq/attendly-backend-go/internal/domain/audit"
	"github.com/attendly-hq/attendly-backend-go/internal/pkg/database"
)

type auditSink struct {
	db *database.DB
}

func NewAuditSink(db *database.DB) audit.Sink {
	return &auditSink{db: db}
}

// Write implements audit.Sink.
func (r *auditSink) Write(ctx context.Context, rec audit.Record) error {
	q := GetQuerier(ctx, r.db)

	before, err := marshalNullable(rec.Before)
	if err != nil {
		return fmt.Errorf("failed to marshal audit before state: %w", err)
	}
	after, err := marshalNullable(rec.After)
	if err != nil {
		return fmt.Errorf("failed to marshal audit after state: %w", err)
	}

	query := `
		INSERT INTO audit_logs (
			actor_id, action, entity_type, entity_id, before, after, reason, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
	`

	_, err = q.Exec(ctx, query,
		rec.ActorID, rec.Action, rec.EntityType, rec.EntityID,
		before, after, rec.Reason, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

func marshalNullable(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}
