// Package audit defines the side-effect sink attendance transitions report to.
package audit

import (
	"context"
	"time"
)

// Record captures one administrative or state-changing action.
type Record struct {
	ID         string    `json:"id"`
	ActorID    string    `json:"actor_id"`
	Action     string    `json:"action"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	Before     any       `json:"before,omitempty"`
	After      any       `json:"after,omitempty"`
	Reason     *string   `json:"reason,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Sink accepts audit records. Writes are best-effort from the caller's
// perspective: a failing sink is logged, never surfaced to the client.
type Sink interface {
	Write(ctx context.Context, rec Record) error
}

// MultiSink fans a record out to several sinks, returning the first error.
type MultiSink []Sink

func (m MultiSink) Write(ctx context.Context, rec Record) error {
	for _, s := range m {
		if err := s.Write(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}
