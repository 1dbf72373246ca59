package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/attendly-hq/attendly-backend-go/internal/domain/attendance"
	"github.com/attendly-hq/attendly-backend-go/internal/pkg/database"
)

type attendanceDayRepository struct {
	db *database.DB
}

func NewAttendanceDayRepository(db *database.DB) attendance.DayRepository {
	return &attendanceDayRepository{db: db}
}

const dayColumns = `id, user_id, company_id, date, is_complete,
	   total_work_minutes, total_break_minutes, total_lunch_minutes, overtime_minutes,
	   created_at, updated_at`

func scanDay(row pgx.Row) (attendance.Day, error) {
	var d attendance.Day
	err := row.Scan(
		&d.ID, &d.UserID, &d.CompanyID, &d.Date, &d.IsComplete,
		&d.TotalWorkMinutes, &d.TotalBreakMinutes, &d.TotalLunchMinutes, &d.OvertimeMinutes,
		&d.CreatedAt, &d.UpdatedAt,
	)
	return d, err
}

// UpsertForCheckIn implements attendance.DayRepository. The upsert takes a
// row lock on (user_id, date) inside a transaction, which is what serializes
// two concurrent check-ins for the same user.
func (r *attendanceDayRepository) UpsertForCheckIn(ctx context.Context, userID, companyID string, date time.Time) (attendance.Day, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_days (user_id, company_id, date)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, date)
		DO UPDATE SET is_complete = FALSE, updated_at = NOW()
		RETURNING ` + dayColumns

	day, err := scanDay(q.QueryRow(ctx, query, userID, companyID, date))
	if err != nil {
		return attendance.Day{}, fmt.Errorf("failed to upsert attendance day: %w", err)
	}
	return day, nil
}

// GetByUserAndDate implements attendance.DayRepository.
func (r *attendanceDayRepository) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*attendance.Day, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + dayColumns + ` FROM attendance_days WHERE user_id = $1 AND date = $2 LIMIT 1`

	day, err := scanDay(q.QueryRow(ctx, query, userID, date))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance day: %w", err)
	}
	return &day, nil
}

// GetByID implements attendance.DayRepository.
func (r *attendanceDayRepository) GetByID(ctx context.Context, id string) (attendance.Day, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + dayColumns + ` FROM attendance_days WHERE id = $1`

	day, err := scanDay(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.Day{}, attendance.ErrDayNotFound
		}
		return attendance.Day{}, fmt.Errorf("failed to get attendance day: %w", err)
	}
	return day, nil
}

// UpdateTotals implements attendance.DayRepository. All four totals and the
// completion flag are written as one statement.
func (r *attendanceDayRepository) UpdateTotals(ctx context.Context, dayID string, totals attendance.DayTotals, isComplete bool) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_days
		SET total_work_minutes = $2,
			total_break_minutes = $3,
			total_lunch_minutes = $4,
			overtime_minutes = $5,
			is_complete = $6,
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, dayID,
		totals.WorkMinutes, totals.BreakMinutes, totals.LunchMinutes, totals.OvertimeMins, isComplete)
	if err != nil {
		return fmt.Errorf("failed to update day totals: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrDayNotFound
	}
	return nil
}

// ListByUser implements attendance.DayRepository.
func (r *attendanceDayRepository) ListByUser(ctx context.Context, userID string, filter attendance.HistoryFilter) ([]attendance.Day, int64, error) {
	q := GetQuerier(ctx, r.db)

	countQuery := `
		SELECT COUNT(*) FROM attendance_days
		WHERE user_id = $1
		  AND ($2::date IS NULL OR date >= $2)
		  AND ($3::date IS NULL OR date <= $3)
	`
	var total int64
	if err := q.QueryRow(ctx, countQuery, userID, filter.From, filter.To).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance days: %w", err)
	}

	query := `
		SELECT ` + dayColumns + `
		FROM attendance_days
		WHERE user_id = $1
		  AND ($2::date IS NULL OR date >= $2)
		  AND ($3::date IS NULL OR date <= $3)
		ORDER BY date DESC
		LIMIT $4 OFFSET $5
	`
	offset := (filter.Page - 1) * filter.Limit
	rows, err := q.Query(ctx, query, userID, filter.From, filter.To, filter.Limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendance days: %w", err)
	}
	defer rows.Close()

	days, err := collectDays(rows)
	if err != nil {
		return nil, 0, err
	}
	return days, total, nil
}

// ListByCompanyAndDate implements attendance.DayRepository.
func (r *attendanceDayRepository) ListByCompanyAndDate(ctx context.Context, companyID string, date time.Time) ([]attendance.Day, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + dayColumns + ` FROM attendance_days WHERE company_id = $1 AND date = $2 ORDER BY user_id`

	rows, err := q.Query(ctx, query, companyID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance days: %w", err)
	}
	defer rows.Close()

	return collectDays(rows)
}

// ListIncompleteWithCheckIn implements attendance.DayRepository.
func (r *attendanceDayRepository) ListIncompleteWithCheckIn(ctx context.Context, companyID string, date time.Time) ([]attendance.Day, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + dayColumns + `
		FROM attendance_days d
		WHERE d.company_id = $1
		  AND d.date = $2
		  AND d.is_complete = FALSE
		  AND EXISTS (
			SELECT 1 FROM attendance_events e
			WHERE e.day_id = d.id AND e.type = 'check_in'
		  )
		ORDER BY d.user_id
	`

	rows, err := q.Query(ctx, query, companyID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list incomplete attendance days: %w", err)
	}
	defer rows.Close()

	return collectDays(rows)
}

// ListIncompleteBefore implements attendance.DayRepository.
func (r *attendanceDayRepository) ListIncompleteBefore(ctx context.Context, date time.Time) ([]attendance.Day, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + dayColumns + ` FROM attendance_days WHERE date < $1 AND is_complete = FALSE ORDER BY date`

	rows, err := q.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list stale attendance days: %w", err)
	}
	defer rows.Close()

	return collectDays(rows)
}

// ActiveUserIDs implements attendance.DayRepository.
func (r *attendanceDayRepository) ActiveUserIDs(ctx context.Context, companyID string, since time.Time) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT DISTINCT user_id FROM attendance_days WHERE company_id = $1 AND date >= $2`

	rows, err := q.Query(ctx, query, companyID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list active users: %w", err)
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		users = append(users, id)
	}
	return users, rows.Err()
}

func collectDays(rows pgx.Rows) ([]attendance.Day, error) {
	var days []attendance.Day
	for rows.Next() {
		day, err := scanDay(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance day: %w", err)
		}
		days = append(days, day)
	}
	return days, rows.Err()
}
