// Package events publishes audit records to Kafka for downstream consumers.
// The publisher is an optional secondary audit sink; the database sink stays
// the source of truth.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/attendly-hq/attendly-backend-go/internal/domain/audit"
)

type AuditPublisher struct {
	writer *kafka.Writer
}

func NewAuditPublisher(brokers []string, topic string) *AuditPublisher {
	return &AuditPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			RequiredAcks: kafka.RequireAll,
			Compression:  kafka.Snappy,
			Async:        false,
		},
	}
}

// Write implements audit.Sink. Records are keyed by actor so one user's
// actions stay ordered within a partition.
func (p *AuditPublisher) Write(ctx context.Context, rec audit.Record) error {
	value, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal audit record: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(rec.ActorID),
		Value: value,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish audit record: %w", err)
	}
	return nil
}

func (p *AuditPublisher) Close() error {
	return p.writer.Close()
}
