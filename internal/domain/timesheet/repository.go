// Package timesheet is the read-only boundary to the timesheet module.
// The rule engine compares its reported minutes against attendance totals;
// timesheet entry and approval live elsewhere.
package timesheet

import (
	"context"
	"time"
)

// Repository reads submitted timesheet minutes.
type Repository interface {
	// MinutesForDate returns the total minutes a user logged for a date.
	// Returns 0 without error when nothing was logged.
	MinutesForDate(ctx context.Context, userID string, date time.Time) (int, error)
}
