package anomaly

import (
	"context"
)

// Service defines the review-side surface of the anomaly subsystem. Detection
// itself is driven by the rule engine, not by clients.
type Service interface {
	List(ctx context.Context, filter ListFilter) (ListEventsResponse, error)
	Acknowledge(ctx context.Context, id string) (EventResponse, error)
	Resolve(ctx context.Context, id string) (EventResponse, error)
	Dismiss(ctx context.Context, id string) (EventResponse, error)

	// RunDailyDetection executes the batch sweep across all companies. It is
	// invoked by the scheduler; per-user and per-rule failures are logged and
	// never abort the sweep.
	RunDailyDetection(ctx context.Context) error
}
