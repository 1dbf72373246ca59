package anomaly

import (
	"context"
	"time"
)

// Repository defines data access for anomaly events.
type Repository interface {
	Create(ctx context.Context, event *Event) error

	// FindOpen returns the open event for (userID, t), or nil when none
	// exists. When dayStart is non-nil the lookup is limited to events
	// detected on that calendar day.
	FindOpen(ctx context.Context, userID string, t Type, dayStart *time.Time) (*Event, error)

	GetByID(ctx context.Context, id string, companyID string) (Event, error)

	List(ctx context.Context, companyID string, filter ListFilter) ([]Event, int64, error)

	// UpdateStatus moves an event through its review lifecycle.
	UpdateStatus(ctx context.Context, id string, status Status, actorID string, resolvedAt time.Time) error
}

// RuleRepository defines data access for per-company rule configuration.
type RuleRepository interface {
	ListEnabledByCompany(ctx context.Context, companyID string) ([]Rule, error)

	// GetEnabled returns the enabled rule of the given type for a company, or
	// nil when the company has none.
	GetEnabled(ctx context.Context, companyID string, t Type) (*Rule, error)
}

type ListFilter struct {
	UserID *string
	Type   *Type
	Status *Status
	Page   int
	Limit  int
}
