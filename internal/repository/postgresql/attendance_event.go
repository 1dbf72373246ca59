package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/attendly-hq/attendly-backend-go/internal/domain/attendance"
	"github.com/attendly-hq/attendly-backend-go/internal/pkg/database"
)

type attendanceEventRepository struct {
	db *database.DB
}

func NewAttendanceEventRepository(db *database.DB) attendance.EventRepository {
	return &attendanceEventRepository{db: db}
}

const eventColumns = `id, day_id, type, timestamp, work_mode, latitude, longitude,
	   verification_status, device_fingerprint, is_override, override_reason, override_by, notes, created_at`

func scanEvent(row pgx.Row) (attendance.Event, error) {
	var e attendance.Event
	err := row.Scan(
		&e.ID, &e.DayID, &e.Type, &e.Timestamp, &e.WorkMode, &e.Latitude, &e.Longitude,
		&e.VerificationStatus, &e.DeviceFingerprint, &e.IsOverride, &e.OverrideReason, &e.OverrideBy, &e.Notes, &e.CreatedAt,
	)
	return e, err
}

// Append implements attendance.EventRepository. Events are append-only; the
// only later mutation allowed is an administrative override.
func (r *attendanceEventRepository) Append(ctx context.Context, event attendance.Event) (attendance.Event, error) {
	q := GetQuerier(ctx, r.db)

	if event.VerificationStatus == "" {
		event.VerificationStatus = attendance.VerificationNone
	}

	query := `
		INSERT INTO attendance_events (
			day_id, type, timestamp, work_mode, latitude, longitude,
			verification_status, device_fingerprint, is_override, override_reason, override_by, notes
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		) RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		event.DayID, event.Type, event.Timestamp, event.WorkMode, event.Latitude, event.Longitude,
		event.VerificationStatus, event.DeviceFingerprint, event.IsOverride, event.OverrideReason, event.OverrideBy, event.Notes,
	).Scan(&event.ID, &event.CreatedAt)
	if err != nil {
		return attendance.Event{}, fmt.Errorf("failed to append attendance event: %w", err)
	}

	return event, nil
}

// ListByDay implements attendance.EventRepository.
func (r *attendanceEventRepository) ListByDay(ctx context.Context, dayID string) ([]attendance.Event, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + eventColumns + ` FROM attendance_events WHERE day_id = $1 ORDER BY timestamp ASC`

	rows, err := q.Query(ctx, query, dayID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance events: %w", err)
	}
	defer rows.Close()

	var events []attendance.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance event: %w", err)
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// GetByID implements attendance.EventRepository.
func (r *attendanceEventRepository) GetByID(ctx context.Context, id string) (attendance.Event, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + eventColumns + ` FROM attendance_events WHERE id = $1`

	event, err := scanEvent(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.Event{}, attendance.ErrEventNotFound
		}
		return attendance.Event{}, fmt.Errorf("failed to get attendance event: %w", err)
	}
	return event, nil
}

// GetOpenCheckIn implements attendance.EventRepository: the day's latest
// check-in with no later check-out, nil when the day has no open session.
func (r *attendanceEventRepository) GetOpenCheckIn(ctx context.Context, dayID string) (*attendance.Event, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + eventColumns + `
		FROM attendance_events e
		WHERE e.day_id = $1
		  AND e.type = 'check_in'
		  AND NOT EXISTS (
			SELECT 1 FROM attendance_events o
			WHERE o.day_id = e.day_id
			  AND o.type = 'check_out'
			  AND o.timestamp > e.timestamp
		  )
		ORDER BY e.timestamp DESC
		LIMIT 1
	`

	event, err := scanEvent(q.QueryRow(ctx, query, dayID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get open check-in: %w", err)
	}
	return &event, nil
}

// UpdateOverride implements attendance.EventRepository.
func (r *attendanceEventRepository) UpdateOverride(ctx context.Context, event attendance.Event) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_events
		SET timestamp = $2,
			work_mode = $3,
			is_override = TRUE,
			override_reason = $4,
			override_by = $5
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, event.ID, event.Timestamp, event.WorkMode, event.OverrideReason, event.OverrideBy)
	if err != nil {
		return fmt.Errorf("failed to update attendance event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrEventNotFound
	}
	return nil
}

// CountLateCheckIns implements attendance.EventRepository.
func (r *attendanceEventRepository) CountLateCheckIns(ctx context.Context, userID string, since time.Time, lateAfter string) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COUNT(*)
		FROM attendance_events e
		JOIN attendance_days d ON d.id = e.day_id
		WHERE d.user_id = $1
		  AND e.type = 'check_in'
		  AND e.timestamp >= $2
		  AND e.timestamp::time > $3::time
	`

	var count int
	if err := q.QueryRow(ctx, query, userID, since, lateAfter).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count late check-ins: %w", err)
	}
	return count, nil
}
