package attendance

import (
	"context"
	"time"
)

// AttendanceService defines business logic for attendance state transitions
type AttendanceService interface {
	// CheckIn opens a new session for today. Exactly one of two concurrent
	// check-ins for the same user may succeed; the other receives
	// ErrAlreadyCheckedIn.
	CheckIn(ctx context.Context, req CheckInRequest) (DayResponse, error)

	// CheckOut closes the open session, cascading an open break closed first,
	// and finalizes the day totals.
	CheckOut(ctx context.Context, req CheckOutRequest) (DayResponse, error)

	// StartBreak opens a break within the open session.
	StartBreak(ctx context.Context, req BreakStartRequest) (DayResponse, error)

	// EndBreak closes the given break and re-runs break totals and the
	// excessive-break check.
	EndBreak(ctx context.Context, breakID string) (DayResponse, error)

	// OverrideEvent corrects a past event's timestamp or work mode
	// (admin/manager) and recomputes the day totals.
	OverrideEvent(ctx context.Context, req OverrideEventRequest) (DayResponse, error)

	// GetToday returns today's projection with derived status and live totals.
	GetToday(ctx context.Context) (DayResponse, error)

	// GetHistory returns past days for the authenticated user.
	GetHistory(ctx context.Context, filter HistoryFilter) (HistoryResponse, error)

	// GetSummary aggregates totals over a date range.
	GetSummary(ctx context.Context, from, to time.Time) (SummaryResponse, error)

	// CloseStaleSessions force-closes sessions and breaks left open past
	// their day. Invoked by the periodic sweep, not by clients.
	CloseStaleSessions(ctx context.Context) (int, error)
}
