package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/attendly-hq/attendly-backend-go/internal/domain/timesheet"
	"github.com/attendly-hq/attendly-backend-go/internal/pkg/database"
)

type timesheetRepository struct {
	db *database.DB
}

func NewTimesheetRepository(db *database.DB) timesheet.Repository {
	return &timesheetRepository{db: db}
}

// MinutesForDate implements timesheet.Repository.
func (r *timesheetRepository) MinutesForDate(ctx context.Context, userID string, date time.Time) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(duration_minutes), 0)
		FROM timesheet_entries
		WHERE user_id = $1 AND date = $2::date
	`

	var minutes int
	if err := q.QueryRow(ctx, query, userID, date).Scan(&minutes); err != nil {
		return 0, fmt.Errorf("failed to sum timesheet minutes: %w", err)
	}
	return minutes, nil
}
