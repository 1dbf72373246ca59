package attendance

import (
	"context"
	"time"
)

// Store exposes the transactional primitive of the underlying database.
// Fn runs with the transaction handle carried in ctx; repositories pick it up
// and fall back to the pool outside a transaction.
type Store interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// DayRepository defines data access for per-user-per-day attendance records.
type DayRepository interface {
	// UpsertForCheckIn creates the Day row for (userID, date) or, when it
	// already exists, resets IsComplete for a re-check-in. Inside a
	// transaction the returned row is locked, serializing concurrent
	// check-ins for the same user and date.
	UpsertForCheckIn(ctx context.Context, userID, companyID string, date time.Time) (Day, error)

	// GetByUserAndDate returns nil without error when no Day exists yet.
	GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*Day, error)

	GetByID(ctx context.Context, id string) (Day, error)

	// UpdateTotals writes all four derived totals and the completion flag in
	// a single update.
	UpdateTotals(ctx context.Context, dayID string, totals DayTotals, isComplete bool) error

	// ListByUser returns days for a user ordered by date descending.
	ListByUser(ctx context.Context, userID string, filter HistoryFilter) ([]Day, int64, error)

	// ListByCompanyAndDate returns every Day a company has for one date.
	ListByCompanyAndDate(ctx context.Context, companyID string, date time.Time) ([]Day, error)

	// ListIncompleteWithCheckIn returns days on the given date that have at
	// least one check-in event but are not complete.
	ListIncompleteWithCheckIn(ctx context.Context, companyID string, date time.Time) ([]Day, error)

	// ListIncompleteBefore returns incomplete days dated strictly before the
	// given date, across all companies. Used by the stale-session sweep.
	ListIncompleteBefore(ctx context.Context, date time.Time) ([]Day, error)

	// ActiveUserIDs returns users of a company with attendance activity since
	// the given instant.
	ActiveUserIDs(ctx context.Context, companyID string, since time.Time) ([]string, error)
}

// EventRepository defines data access for the append-only event log.
type EventRepository interface {
	Append(ctx context.Context, event Event) (Event, error)

	// ListByDay returns events ordered by timestamp ascending.
	ListByDay(ctx context.Context, dayID string) ([]Event, error)

	GetByID(ctx context.Context, id string) (Event, error)

	// GetOpenCheckIn returns the day's most recent check-in that has no later
	// check-out, or nil when the day has no open session.
	GetOpenCheckIn(ctx context.Context, dayID string) (*Event, error)

	// UpdateOverride rewrites timestamp/work mode of an event corrected by an
	// administrator.
	UpdateOverride(ctx context.Context, event Event) error

	// CountLateCheckIns counts a user's check-ins since the given instant
	// whose time of day is after lateAfter ("15:04:05").
	CountLateCheckIns(ctx context.Context, userID string, since time.Time, lateAfter string) (int, error)
}

// BreakRepository defines data access for break segments.
type BreakRepository interface {
	Create(ctx context.Context, segment BreakSegment) (BreakSegment, error)

	GetByID(ctx context.Context, id string) (BreakSegment, error)

	// GetOpenByDay returns the day's open break, or nil when none is open.
	GetOpenByDay(ctx context.Context, dayID string) (*BreakSegment, error)

	Close(ctx context.Context, id string, endTime time.Time, durationMinutes int) error

	ListByDay(ctx context.Context, dayID string) ([]BreakSegment, error)

	// ListOpenOlderThan returns open breaks started before the cutoff, across
	// all days. Used by the stale-session sweep.
	ListOpenOlderThan(ctx context.Context, cutoff time.Time) ([]BreakSegment, error)
}
