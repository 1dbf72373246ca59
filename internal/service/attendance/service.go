package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/attendly-hq/attendly-backend-go/internal/domain/anomaly"
	"github.com/attendly-hq/attendly-backend-go/internal/domain/attendance"
	"github.com/attendly-hq/attendly-backend-go/internal/domain/audit"
	"github.com/attendly-hq/attendly-backend-go/internal/domain/policy"
	"github.com/attendly-hq/attendly-backend-go/internal/pkg/jwt"
	"github.com/attendly-hq/attendly-backend-go/internal/pkg/observability"
)

// GeofenceValidator resolves the verification status for a check-in location.
type GeofenceValidator interface {
	Validate(ctx context.Context, companyID string, lat, lon *float64) (attendance.VerificationStatus, error)
}

// AnomalyDetector is the reactive surface of the rule engine consumed by
// state transitions.
type AnomalyDetector interface {
	FlagGeofenceFailure(ctx context.Context, companyID, userID string, data anomaly.GeofenceFailureData) error
	CheckExcessiveBreak(ctx context.Context, companyID, userID string, day attendance.Day, closed attendance.BreakSegment) error
}

type AttendanceServiceImpl struct {
	store    attendance.Store
	days     attendance.DayRepository
	events   attendance.EventRepository
	breaks   attendance.BreakRepository
	policies policy.Provider
	geofence GeofenceValidator
	detector AnomalyDetector
	audits   audit.Sink

	now func() time.Time
}

func NewAttendanceService(
	store attendance.Store,
	dayRepo attendance.DayRepository,
	eventRepo attendance.EventRepository,
	breakRepo attendance.BreakRepository,
	policies policy.Provider,
	geofence GeofenceValidator,
	detector AnomalyDetector,
	audits audit.Sink,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		store:    store,
		days:     dayRepo,
		events:   eventRepo,
		breaks:   breakRepo,
		policies: policies,
		geofence: geofence,
		detector: detector,
		audits:   audits,
		now:      time.Now,
	}
}

// dateOf normalizes a timestamp to midnight UTC.
func dateOf(t time.Time) time.Time {
	return t.UTC().Truncate(24 * time.Hour)
}

// CheckIn implements attendance.AttendanceService.
//
// The open-session precondition is re-checked inside the transaction after
// the day row has been locked, so of two concurrent check-ins exactly one
// commits; the other observes the winner's event and fails with
// ErrAlreadyCheckedIn.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.DayResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.DayResponse{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return attendance.DayResponse{}, err
	}

	nowUTC := a.now().UTC()
	date := dateOf(nowUTC)

	verification := attendance.VerificationNone
	if req.WorkMode == attendance.WorkModeOffice {
		verification, err = a.geofence.Validate(ctx, claims.CompanyID, req.Latitude, req.Longitude)
		if err != nil {
			return attendance.DayResponse{}, fmt.Errorf("failed to validate geofence: %w", err)
		}
	}

	var day attendance.Day
	err = a.store.RunInTransaction(ctx, func(txCtx context.Context) error {
		day, err = a.days.UpsertForCheckIn(txCtx, claims.UserID, claims.CompanyID, date)
		if err != nil {
			return fmt.Errorf("failed to upsert attendance day: %w", err)
		}

		open, err := a.events.GetOpenCheckIn(txCtx, day.ID)
		if err != nil {
			return fmt.Errorf("failed to check open session: %w", err)
		}
		if open != nil {
			return attendance.ErrAlreadyCheckedIn
		}

		_, err = a.events.Append(txCtx, attendance.Event{
			DayID:              day.ID,
			Type:               attendance.EventCheckIn,
			Timestamp:          nowUTC,
			WorkMode:           req.WorkMode,
			Latitude:           req.Latitude,
			Longitude:          req.Longitude,
			VerificationStatus: verification,
			DeviceFingerprint:  req.DeviceFingerprint,
			Notes:              req.Notes,
		})
		if err != nil {
			return fmt.Errorf("failed to append check-in event: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyCheckedIn) {
			observability.RecordCheckInConflict()
		}
		return attendance.DayResponse{}, err
	}

	observability.RecordCheckIn(string(req.WorkMode))
	a.writeAudit(ctx, claims.UserID, "attendance.check_in", "attendance_day", day.ID, nil, map[string]any{
		"timestamp":    nowUTC,
		"work_mode":    req.WorkMode,
		"verification": verification,
	}, nil)

	if verification == attendance.VerificationFailed {
		data := anomaly.GeofenceFailureData{
			WorkMode:  string(req.WorkMode),
			Latitude:  req.Latitude,
			Longitude: req.Longitude,
		}
		if err := a.detector.FlagGeofenceFailure(ctx, claims.CompanyID, claims.UserID, data); err != nil {
			slog.Error("Failed to flag geofence failure", "user_id", claims.UserID, "error", err)
		}
	}

	return a.dayResponse(ctx, claims.CompanyID, day)
}

// CheckOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.DayResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.DayResponse{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return attendance.DayResponse{}, err
	}

	nowUTC := a.now().UTC()

	day, err := a.days.GetByUserAndDate(ctx, claims.UserID, dateOf(nowUTC))
	if err != nil {
		return attendance.DayResponse{}, fmt.Errorf("failed to get attendance day: %w", err)
	}
	if day == nil {
		return attendance.DayResponse{}, attendance.ErrNotCheckedIn
	}

	open, err := a.events.GetOpenCheckIn(ctx, day.ID)
	if err != nil {
		return attendance.DayResponse{}, fmt.Errorf("failed to check open session: %w", err)
	}
	if open == nil {
		return attendance.DayResponse{}, attendance.ErrNotCheckedIn
	}

	// Cascade: an open break ends with the session.
	if err := a.closeOpenBreak(ctx, day.ID, nowUTC); err != nil {
		return attendance.DayResponse{}, err
	}

	_, err = a.events.Append(ctx, attendance.Event{
		DayID:     day.ID,
		Type:      attendance.EventCheckOut,
		Timestamp: nowUTC,
		WorkMode:  open.WorkMode,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Notes:     req.Notes,
	})
	if err != nil {
		return attendance.DayResponse{}, fmt.Errorf("failed to append check-out event: %w", err)
	}

	if err := a.recomputeTotals(ctx, claims.CompanyID, day.ID, true); err != nil {
		return attendance.DayResponse{}, err
	}

	observability.RecordCheckOut()
	a.writeAudit(ctx, claims.UserID, "attendance.check_out", "attendance_day", day.ID, nil, map[string]any{
		"timestamp": nowUTC,
	}, nil)

	refreshed, err := a.days.GetByID(ctx, day.ID)
	if err != nil {
		return attendance.DayResponse{}, fmt.Errorf("failed to reload attendance day: %w", err)
	}
	return a.dayResponse(ctx, claims.CompanyID, refreshed)
}

// StartBreak implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) StartBreak(ctx context.Context, req attendance.BreakStartRequest) (attendance.DayResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.DayResponse{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return attendance.DayResponse{}, err
	}

	nowUTC := a.now().UTC()

	day, err := a.days.GetByUserAndDate(ctx, claims.UserID, dateOf(nowUTC))
	if err != nil {
		return attendance.DayResponse{}, fmt.Errorf("failed to get attendance day: %w", err)
	}
	if day == nil {
		return attendance.DayResponse{}, attendance.ErrNotCheckedIn
	}

	open, err := a.events.GetOpenCheckIn(ctx, day.ID)
	if err != nil {
		return attendance.DayResponse{}, fmt.Errorf("failed to check open session: %w", err)
	}
	if open == nil {
		return attendance.DayResponse{}, attendance.ErrNotCheckedIn
	}

	openBreak, err := a.breaks.GetOpenByDay(ctx, day.ID)
	if err != nil {
		return attendance.DayResponse{}, fmt.Errorf("failed to check open break: %w", err)
	}
	if openBreak != nil {
		return attendance.DayResponse{}, attendance.ErrBreakAlreadyOpen
	}

	created, err := a.breaks.Create(ctx, attendance.BreakSegment{
		DayID:     day.ID,
		Type:      req.Type,
		StartTime: nowUTC,
	})
	if err != nil {
		return attendance.DayResponse{}, fmt.Errorf("failed to create break segment: %w", err)
	}

	a.writeAudit(ctx, claims.UserID, "attendance.break_start", "break_segment", created.ID, nil, map[string]any{
		"type":       req.Type,
		"start_time": nowUTC,
	}, nil)

	return a.dayResponse(ctx, claims.CompanyID, *day)
}

// EndBreak implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) EndBreak(ctx context.Context, breakID string) (attendance.DayResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return attendance.DayResponse{}, err
	}

	segment, err := a.breaks.GetByID(ctx, breakID)
	if err != nil {
		if errors.Is(err, attendance.ErrBreakNotFound) {
			return attendance.DayResponse{}, attendance.ErrBreakNotFound
		}
		return attendance.DayResponse{}, fmt.Errorf("failed to get break segment: %w", err)
	}

	day, err := a.days.GetByID(ctx, segment.DayID)
	if err != nil {
		return attendance.DayResponse{}, fmt.Errorf("failed to get attendance day: %w", err)
	}
	if day.UserID != claims.UserID {
		return attendance.DayResponse{}, attendance.ErrUnauthorized
	}
	if !segment.IsOpen() {
		return attendance.DayResponse{}, attendance.ErrBreakNotOpen
	}

	nowUTC := a.now().UTC()
	duration := int(math.Round(nowUTC.Sub(segment.StartTime).Minutes()))
	if duration < 0 {
		duration = 0
	}

	if err := a.breaks.Close(ctx, segment.ID, nowUTC, duration); err != nil {
		return attendance.DayResponse{}, fmt.Errorf("failed to close break segment: %w", err)
	}

	if err := a.recomputeTotals(ctx, claims.CompanyID, day.ID, day.IsComplete); err != nil {
		return attendance.DayResponse{}, err
	}

	a.writeAudit(ctx, claims.UserID, "attendance.break_end", "break_segment", segment.ID, nil, map[string]any{
		"end_time":         nowUTC,
		"duration_minutes": duration,
	}, nil)

	closed := segment
	closed.EndTime = &nowUTC
	closed.DurationMinutes = &duration
	if err := a.detector.CheckExcessiveBreak(ctx, claims.CompanyID, claims.UserID, day, closed); err != nil {
		slog.Error("Failed to run excessive break check",
			"user_id", claims.UserID, "day_id", day.ID, "error", err)
	}

	refreshed, err := a.days.GetByID(ctx, day.ID)
	if err != nil {
		return attendance.DayResponse{}, fmt.Errorf("failed to reload attendance day: %w", err)
	}
	return a.dayResponse(ctx, claims.CompanyID, refreshed)
}

// OverrideEvent implements attendance.AttendanceService.
// Administrative correction of a past event; day totals are always recomputed
// afterward and the audit record carries before/after snapshots.
func (a *AttendanceServiceImpl) OverrideEvent(ctx context.Context, req attendance.OverrideEventRequest) (attendance.DayResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.DayResponse{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return attendance.DayResponse{}, err
	}
	if !claims.IsAdmin() {
		return attendance.DayResponse{}, attendance.ErrUnauthorized
	}

	event, err := a.events.GetByID(ctx, req.EventID)
	if err != nil {
		if errors.Is(err, attendance.ErrEventNotFound) {
			return attendance.DayResponse{}, attendance.ErrEventNotFound
		}
		return attendance.DayResponse{}, fmt.Errorf("failed to get event: %w", err)
	}

	before := map[string]any{
		"timestamp": event.Timestamp,
		"work_mode": event.WorkMode,
	}

	if req.Timestamp != nil {
		parsed, err := time.Parse("2006-01-02 15:04:05", *req.Timestamp)
		if err != nil {
			return attendance.DayResponse{}, fmt.Errorf("failed to parse override timestamp: %w", err)
		}
		event.Timestamp = parsed.UTC()
	}
	if req.WorkMode != nil {
		event.WorkMode = *req.WorkMode
	}
	event.IsOverride = true
	event.OverrideReason = &req.Reason
	event.OverrideBy = &claims.UserID

	if err := a.events.UpdateOverride(ctx, event); err != nil {
		return attendance.DayResponse{}, fmt.Errorf("failed to update event: %w", err)
	}

	day, err := a.days.GetByID(ctx, event.DayID)
	if err != nil {
		return attendance.DayResponse{}, fmt.Errorf("failed to get attendance day: %w", err)
	}

	if err := a.recomputeTotals(ctx, day.CompanyID, day.ID, day.IsComplete); err != nil {
		return attendance.DayResponse{}, err
	}

	after := map[string]any{
		"timestamp": event.Timestamp,
		"work_mode": event.WorkMode,
	}
	a.writeAudit(ctx, claims.UserID, "attendance.override_event", "attendance_event", event.ID, before, after, &req.Reason)

	refreshed, err := a.days.GetByID(ctx, day.ID)
	if err != nil {
		return attendance.DayResponse{}, fmt.Errorf("failed to reload attendance day: %w", err)
	}
	return a.dayResponse(ctx, day.CompanyID, refreshed)
}

// GetToday implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetToday(ctx context.Context) (attendance.DayResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return attendance.DayResponse{}, err
	}

	nowUTC := a.now().UTC()

	day, err := a.days.GetByUserAndDate(ctx, claims.UserID, dateOf(nowUTC))
	if err != nil {
		return attendance.DayResponse{}, fmt.Errorf("failed to get attendance day: %w", err)
	}
	if day == nil {
		return attendance.DayResponse{
			Date:   dateOf(nowUTC).Format("2006-01-02"),
			Status: attendance.StatusNotCheckedIn,
		}, nil
	}

	return a.dayResponse(ctx, claims.CompanyID, *day)
}

// GetHistory implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetHistory(ctx context.Context, filter attendance.HistoryFilter) (attendance.HistoryResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return attendance.HistoryResponse{}, err
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 31
	}

	days, total, err := a.days.ListByUser(ctx, claims.UserID, filter)
	if err != nil {
		return attendance.HistoryResponse{}, fmt.Errorf("failed to list attendance days: %w", err)
	}

	responses := make([]attendance.DayResponse, 0, len(days))
	for _, d := range days {
		status := attendance.StatusCheckedOut
		if !d.IsComplete {
			// Incomplete days carry no persisted state, so read it off the
			// events. A past day whose session was paired is checked out,
			// not stuck on "working".
			events, err := a.events.ListByDay(ctx, d.ID)
			if err != nil {
				return attendance.HistoryResponse{}, fmt.Errorf("failed to list events: %w", err)
			}
			breaks, err := a.breaks.ListByDay(ctx, d.ID)
			if err != nil {
				return attendance.HistoryResponse{}, fmt.Errorf("failed to list breaks: %w", err)
			}
			status = deriveStatus(events, breaks)
		}
		responses = append(responses, attendance.DayResponse{
			ID:                d.ID,
			Date:              d.Date.Format("2006-01-02"),
			Status:            status,
			IsComplete:        d.IsComplete,
			TotalWorkMinutes:  d.TotalWorkMinutes,
			TotalBreakMinutes: d.TotalBreakMinutes,
			TotalLunchMinutes: d.TotalLunchMinutes,
			OvertimeMinutes:   d.OvertimeMinutes,
		})
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))

	return attendance.HistoryResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Days:       responses,
	}, nil
}

// GetSummary implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetSummary(ctx context.Context, from, to time.Time) (attendance.SummaryResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return attendance.SummaryResponse{}, err
	}

	from = dateOf(from)
	to = dateOf(to)
	filter := attendance.HistoryFilter{From: &from, To: &to, Page: 1, Limit: 1000}

	days, _, err := a.days.ListByUser(ctx, claims.UserID, filter)
	if err != nil {
		return attendance.SummaryResponse{}, fmt.Errorf("failed to list attendance days: %w", err)
	}

	summary := attendance.SummaryResponse{
		From: from.Format("2006-01-02"),
		To:   to.Format("2006-01-02"),
	}
	for _, d := range days {
		summary.DaysWorked++
		summary.TotalWorkMinutes += d.TotalWorkMinutes
		summary.TotalBreakMinutes += d.TotalBreakMinutes
		summary.TotalLunchMinutes += d.TotalLunchMinutes
		summary.OvertimeMinutes += d.OvertimeMinutes
	}

	return summary, nil
}

// CloseStaleSessions implements attendance.AttendanceService. Breaks and
// sessions left open past their day are force-closed so totals can finalize;
// the day's check-out is synthesized at the policy's standard day length.
func (a *AttendanceServiceImpl) CloseStaleSessions(ctx context.Context) (int, error) {
	nowUTC := a.now().UTC()
	today := dateOf(nowUTC)

	staleBreaks, err := a.breaks.ListOpenOlderThan(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("failed to list stale breaks: %w", err)
	}
	for _, b := range staleBreaks {
		endOfDay := dateOf(b.StartTime).Add(24*time.Hour - time.Minute)
		duration := int(endOfDay.Sub(b.StartTime).Minutes())
		if duration < 0 {
			duration = 0
		}
		if err := a.breaks.Close(ctx, b.ID, endOfDay, duration); err != nil {
			slog.Error("Failed to close stale break", "break_id", b.ID, "error", err)
		}
	}

	staleDays, err := a.days.ListIncompleteBefore(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("failed to list stale attendance days: %w", err)
	}

	closed := 0
	for _, day := range staleDays {
		open, err := a.events.GetOpenCheckIn(ctx, day.ID)
		if err != nil {
			slog.Error("Failed to check open session for stale day", "day_id", day.ID, "error", err)
			continue
		}

		if open != nil {
			pol, err := a.policies.WorkPolicy(ctx, day.CompanyID)
			if err != nil {
				slog.Error("Failed to get work policy for stale day",
					"company_id", day.CompanyID, "day_id", day.ID, "error", err)
				continue
			}

			autoOut := open.Timestamp.Add(time.Duration(pol.StandardWorkHours) * time.Hour)
			if endOfDay := dateOf(open.Timestamp).Add(24*time.Hour - time.Minute); autoOut.After(endOfDay) {
				autoOut = endOfDay
			}

			notes := "auto-closed by stale session sweep"
			_, err = a.events.Append(ctx, attendance.Event{
				DayID:     day.ID,
				Type:      attendance.EventCheckOut,
				Timestamp: autoOut,
				WorkMode:  open.WorkMode,
				Notes:     &notes,
			})
			if err != nil {
				slog.Error("Failed to append auto check-out", "day_id", day.ID, "error", err)
				continue
			}
		}

		if err := a.recomputeTotals(ctx, day.CompanyID, day.ID, true); err != nil {
			slog.Error("Failed to finalize stale day", "day_id", day.ID, "error", err)
			continue
		}
		closed++
	}

	if closed > 0 {
		observability.RecordStaleSessionsClosed(closed)
	}
	return closed, nil
}

// closeOpenBreak ends the day's open break, if any, at the given instant.
func (a *AttendanceServiceImpl) closeOpenBreak(ctx context.Context, dayID string, at time.Time) error {
	openBreak, err := a.breaks.GetOpenByDay(ctx, dayID)
	if err != nil {
		return fmt.Errorf("failed to check open break: %w", err)
	}
	if openBreak == nil {
		return nil
	}

	duration := int(math.Round(at.Sub(openBreak.StartTime).Minutes()))
	if duration < 0 {
		duration = 0
	}
	if err := a.breaks.Close(ctx, openBreak.ID, at, duration); err != nil {
		return fmt.Errorf("failed to close open break: %w", err)
	}
	return nil
}

// recomputeTotals rebuilds all four totals from the event log and writes them
// together with the completion flag as one update.
func (a *AttendanceServiceImpl) recomputeTotals(ctx context.Context, companyID, dayID string, isComplete bool) error {
	events, err := a.events.ListByDay(ctx, dayID)
	if err != nil {
		return fmt.Errorf("failed to list events: %w", err)
	}
	breaks, err := a.breaks.ListByDay(ctx, dayID)
	if err != nil {
		return fmt.Errorf("failed to list breaks: %w", err)
	}
	pol, err := a.policies.WorkPolicy(ctx, companyID)
	if err != nil {
		return fmt.Errorf("failed to get work policy: %w", err)
	}

	totals := ComputeDayTotals(events, breaks, pol)
	if err := a.days.UpdateTotals(ctx, dayID, totals, isComplete); err != nil {
		return fmt.Errorf("failed to update day totals: %w", err)
	}
	return nil
}

// deriveStatus reads the day's state off its event and break segments. A day
// with a paired final session is checked out even when totals were never
// persisted for it.
func deriveStatus(events []attendance.Event, breaks []attendance.BreakSegment) attendance.DayStatus {
	_, open := pairSessions(events)
	switch {
	case len(events) == 0:
		return attendance.StatusNotCheckedIn
	case open == nil:
		return attendance.StatusCheckedOut
	default:
		for i := range breaks {
			if breaks[i].IsOpen() {
				return attendance.StatusOnBreak
			}
		}
		return attendance.StatusWorking
	}
}

// dayResponse builds the day projection: derived status plus live totals
// while a session is open, persisted totals once the day is complete.
func (a *AttendanceServiceImpl) dayResponse(ctx context.Context, companyID string, day attendance.Day) (attendance.DayResponse, error) {
	events, err := a.events.ListByDay(ctx, day.ID)
	if err != nil {
		return attendance.DayResponse{}, fmt.Errorf("failed to list events: %w", err)
	}
	breaks, err := a.breaks.ListByDay(ctx, day.ID)
	if err != nil {
		return attendance.DayResponse{}, fmt.Errorf("failed to list breaks: %w", err)
	}

	_, open := pairSessions(events)
	var openBreak *attendance.BreakSegment
	for i := range breaks {
		if breaks[i].IsOpen() {
			openBreak = &breaks[i]
			break
		}
	}

	status := deriveStatus(events, breaks)

	pol, err := a.policies.WorkPolicy(ctx, companyID)
	if err != nil {
		return attendance.DayResponse{}, fmt.Errorf("failed to get work policy: %w", err)
	}

	totals := attendance.DayTotals{
		WorkMinutes:  day.TotalWorkMinutes,
		BreakMinutes: day.TotalBreakMinutes,
		LunchMinutes: day.TotalLunchMinutes,
		OvertimeMins: day.OvertimeMinutes,
	}
	if open != nil {
		totals = liveTotals(events, breaks, pol, a.now().UTC())
	}

	resp := attendance.DayResponse{
		ID:                day.ID,
		Date:              day.Date.Format("2006-01-02"),
		Status:            status,
		IsComplete:        day.IsComplete,
		TotalWorkMinutes:  totals.WorkMinutes,
		TotalBreakMinutes: totals.BreakMinutes,
		TotalLunchMinutes: totals.LunchMinutes,
		OvertimeMinutes:   totals.OvertimeMins,
	}
	if openBreak != nil {
		resp.OpenBreakID = &openBreak.ID
	}
	resp.Policy = &attendance.PolicyResponse{
		StandardWorkHours:        pol.StandardWorkHours,
		BreakDurationMinutes:     pol.BreakDurationMinutes,
		LunchDurationMinutes:     pol.LunchDurationMinutes,
		OvertimeThresholdMinutes: pol.OvertimeThresholdMinutes,
		MaxOvertimeMinutes:       pol.MaxOvertimeMinutes,
		GraceMinutesLate:         pol.GraceMinutesLate,
	}

	for _, ev := range events {
		resp.Events = append(resp.Events, attendance.EventResponse{
			ID:                 ev.ID,
			Type:               ev.Type,
			Timestamp:          ev.Timestamp.Format("2006-01-02 15:04:05"),
			WorkMode:           ev.WorkMode,
			Latitude:           ev.Latitude,
			Longitude:          ev.Longitude,
			VerificationStatus: ev.VerificationStatus,
			IsOverride:         ev.IsOverride,
			Notes:              ev.Notes,
		})
	}
	for _, b := range breaks {
		br := attendance.BreakResponse{
			ID:              b.ID,
			Type:            b.Type,
			StartTime:       b.StartTime.Format("2006-01-02 15:04:05"),
			DurationMinutes: b.DurationMinutes,
		}
		if b.EndTime != nil {
			s := b.EndTime.Format("2006-01-02 15:04:05")
			br.EndTime = &s
		}
		resp.Breaks = append(resp.Breaks, br)
	}

	return resp, nil
}

// writeAudit reports a transition to the audit sink. Sink failures are logged
// and never surfaced to the caller.
func (a *AttendanceServiceImpl) writeAudit(ctx context.Context, actorID, action, entityType, entityID string, before, after any, reason *string) {
	rec := audit.Record{
		ID:         uuid.New().String(),
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Before:     before,
		After:      after,
		Reason:     reason,
		CreatedAt:  a.now().UTC(),
	}
	if err := a.audits.Write(ctx, rec); err != nil {
		slog.Error("Failed to write audit record", "action", action, "entity_id", entityID, "error", err)
	}
}
