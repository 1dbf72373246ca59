package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/attendly-hq/attendly-backend-go/internal/domain/attendance"
	"github.com/attendly-hq/attendly-backend-go/internal/pkg/database"
)

type breakSegmentRepository struct {
	db *database.DB
}

func NewBreakSegmentRepository(db *database.DB) attendance.BreakRepository {
	return &breakSegmentRepository{db: db}
}

const breakColumns = `id, day_id, type, start_time, end_time, duration_minutes, created_at`

func scanBreak(row pgx.Row) (attendance.BreakSegment, error) {
	var b attendance.BreakSegment
	err := row.Scan(&b.ID, &b.DayID, &b.Type, &b.StartTime, &b.EndTime, &b.DurationMinutes, &b.CreatedAt)
	return b, err
}

// Create implements attendance.BreakRepository.
func (r *breakSegmentRepository) Create(ctx context.Context, segment attendance.BreakSegment) (attendance.BreakSegment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO break_segments (day_id, type, start_time)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query, segment.DayID, segment.Type, segment.StartTime).
		Scan(&segment.ID, &segment.CreatedAt)
	if err != nil {
		return attendance.BreakSegment{}, fmt.Errorf("failed to create break segment: %w", err)
	}
	return segment, nil
}

// GetByID implements attendance.BreakRepository.
func (r *breakSegmentRepository) GetByID(ctx context.Context, id string) (attendance.BreakSegment, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + breakColumns + ` FROM break_segments WHERE id = $1`

	segment, err := scanBreak(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.BreakSegment{}, attendance.ErrBreakNotFound
		}
		return attendance.BreakSegment{}, fmt.Errorf("failed to get break segment: %w", err)
	}
	return segment, nil
}

// GetOpenByDay implements attendance.BreakRepository.
func (r *breakSegmentRepository) GetOpenByDay(ctx context.Context, dayID string) (*attendance.BreakSegment, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + breakColumns + ` FROM break_segments WHERE day_id = $1 AND end_time IS NULL LIMIT 1`

	segment, err := scanBreak(q.QueryRow(ctx, query, dayID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get open break: %w", err)
	}
	return &segment, nil
}

// Close implements attendance.BreakRepository. The end_time IS NULL guard
// makes a concurrent double-close fail cleanly instead of double-applying.
func (r *breakSegmentRepository) Close(ctx context.Context, id string, endTime time.Time, durationMinutes int) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE break_segments
		SET end_time = $2, duration_minutes = $3
		WHERE id = $1 AND end_time IS NULL
	`

	tag, err := q.Exec(ctx, query, id, endTime, durationMinutes)
	if err != nil {
		return fmt.Errorf("failed to close break segment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrBreakNotOpen
	}
	return nil
}

// ListByDay implements attendance.BreakRepository.
func (r *breakSegmentRepository) ListByDay(ctx context.Context, dayID string) ([]attendance.BreakSegment, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + breakColumns + ` FROM break_segments WHERE day_id = $1 ORDER BY start_time ASC`

	rows, err := q.Query(ctx, query, dayID)
	if err != nil {
		return nil, fmt.Errorf("failed to list break segments: %w", err)
	}
	defer rows.Close()

	return collectBreaks(rows)
}

// ListOpenOlderThan implements attendance.BreakRepository.
func (r *breakSegmentRepository) ListOpenOlderThan(ctx context.Context, cutoff time.Time) ([]attendance.BreakSegment, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + breakColumns + ` FROM break_segments WHERE end_time IS NULL AND start_time < $1 ORDER BY start_time`

	rows, err := q.Query(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list stale breaks: %w", err)
	}
	defer rows.Close()

	return collectBreaks(rows)
}

func collectBreaks(rows pgx.Rows) ([]attendance.BreakSegment, error) {
	var segments []attendance.BreakSegment
	for rows.Next() {
		segment, err := scanBreak(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan break segment: %w", err)
		}
		segments = append(segments, segment)
	}
	return segments, rows.Err()
}
