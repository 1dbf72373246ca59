package anomaly

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/attendly-hq/attendly-backend-go/internal/domain/anomaly"
	"github.com/attendly-hq/attendly-backend-go/internal/domain/attendance"
	"github.com/attendly-hq/attendly-backend-go/internal/domain/policy"
	"github.com/attendly-hq/attendly-backend-go/internal/domain/timesheet"
	"github.com/attendly-hq/attendly-backend-go/internal/pkg/jwt"
	"github.com/attendly-hq/attendly-backend-go/internal/pkg/observability"
)

// Engine evaluates per-company anomaly rules against attendance data, both
// reactively on state transitions and in the daily batch sweep. It is the
// only writer of anomaly events.
type Engine struct {
	anomalies  anomaly.Repository
	rules      anomaly.RuleRepository
	days       attendance.DayRepository
	events     attendance.EventRepository
	breaks     attendance.BreakRepository
	policies   policy.Provider
	timesheets timesheet.Repository

	now          func() time.Time
	observeSweep func(time.Duration)
}

func NewEngine(
	anomalyRepo anomaly.Repository,
	ruleRepo anomaly.RuleRepository,
	dayRepo attendance.DayRepository,
	eventRepo attendance.EventRepository,
	breakRepo attendance.BreakRepository,
	policies policy.Provider,
	timesheets timesheet.Repository,
) *Engine {
	return &Engine{
		anomalies:    anomalyRepo,
		rules:        ruleRepo,
		days:         dayRepo,
		events:       eventRepo,
		breaks:       breakRepo,
		policies:     policies,
		timesheets:   timesheets,
		now:          time.Now,
		observeSweep: observability.ObserveSweep,
	}
}

func dateOf(t time.Time) time.Time {
	return t.UTC().Truncate(24 * time.Hour)
}

// ========================================
// DETECTION
// ========================================

// createEvent records one detection, suppressed when an open event of the
// same (user, type) already exists. Day-scoped types additionally limit the
// lookup to the current calendar day. Reports whether an event was created.
func (e *Engine) createEvent(ctx context.Context, rule anomaly.Rule, userID, title, description string, data anomaly.Payload) (bool, error) {
	var dayStart *time.Time
	if rule.Type.DayScoped() {
		d := dateOf(e.now())
		dayStart = &d
	}

	existing, err := e.anomalies.FindOpen(ctx, userID, rule.Type, dayStart)
	if err != nil {
		return false, fmt.Errorf("failed to look up open anomaly: %w", err)
	}
	if existing != nil {
		return false, nil
	}

	event := &anomaly.Event{
		CompanyID:   rule.CompanyID,
		UserID:      userID,
		RuleID:      rule.ID,
		Type:        rule.Type,
		Severity:    rule.Severity,
		Status:      anomaly.StatusOpen,
		Title:       title,
		Description: description,
		Data:        data,
		DetectedAt:  e.now().UTC(),
	}
	if err := e.anomalies.Create(ctx, event); err != nil {
		return false, fmt.Errorf("failed to create anomaly event: %w", err)
	}

	observability.RecordAnomaly(string(rule.Type))
	return true, nil
}

// FlagGeofenceFailure records a geofence failure detection. A no-op when the
// company has no enabled GeofenceFailure rule.
func (e *Engine) FlagGeofenceFailure(ctx context.Context, companyID, userID string, data anomaly.GeofenceFailureData) error {
	rule, err := e.rules.GetEnabled(ctx, companyID, anomaly.TypeGeofenceFailure)
	if err != nil {
		return fmt.Errorf("failed to get geofence failure rule: %w", err)
	}
	if rule == nil {
		return nil
	}

	_, err = e.createEvent(ctx, *rule, userID,
		"Check-in outside office geofence",
		"A check-in was recorded outside every configured office radius.",
		data)
	return err
}

// excessiveBreakFinding is the evaluated rule condition for one day's breaks.
// BreakID is set when a single segment tripped the rule.
type excessiveBreakFinding struct {
	Total        int
	Allowance    int
	BreakID      string
	BreakMinutes int
	BreakLimit   int
}

// evaluateExcessiveBreak applies the excessive-break condition to a day's
// closed segments: the day total beyond the policy allowance, or any single
// segment beyond its standard duration scaled by the rule threshold percent.
func evaluateExcessiveBreak(rule anomaly.Rule, pol policy.WorkPolicy, breaks []attendance.BreakSegment) (excessiveBreakFinding, bool) {
	finding := excessiveBreakFinding{Allowance: pol.BreakAllowanceMinutes()}
	for _, b := range breaks {
		if b.DurationMinutes != nil {
			finding.Total += *b.DurationMinutes
		}
	}
	if finding.Total > finding.Allowance {
		return finding, true
	}

	if rule.Threshold <= 0 {
		return excessiveBreakFinding{}, false
	}
	for _, b := range breaks {
		if b.DurationMinutes == nil {
			continue
		}
		standard := pol.BreakDurationMinutes
		if b.Type == attendance.BreakTypeLunch {
			standard = pol.LunchDurationMinutes
		}
		limit := standard * rule.Threshold / 100
		if limit > 0 && *b.DurationMinutes > limit {
			finding.BreakID = b.ID
			finding.BreakMinutes = *b.DurationMinutes
			finding.BreakLimit = limit
			return finding, true
		}
	}

	return excessiveBreakFinding{}, false
}

func (f excessiveBreakFinding) message() string {
	if f.BreakID != "" {
		return fmt.Sprintf("A single break of %d minutes exceeds the %d minute limit.", f.BreakMinutes, f.BreakLimit)
	}
	return fmt.Sprintf("Break time of %d minutes exceeds the daily allowance of %d minutes.", f.Total, f.Allowance)
}

// CheckExcessiveBreak runs the excessive-break rule reactively after a break
// closes. The batch sweep applies the same condition to every day.
func (e *Engine) CheckExcessiveBreak(ctx context.Context, companyID, userID string, day attendance.Day, closed attendance.BreakSegment) error {
	rule, err := e.rules.GetEnabled(ctx, companyID, anomaly.TypeExcessiveBreak)
	if err != nil {
		return fmt.Errorf("failed to get excessive break rule: %w", err)
	}
	if rule == nil {
		return nil
	}

	pol, err := e.policies.WorkPolicy(ctx, companyID)
	if err != nil {
		return fmt.Errorf("failed to get work policy: %w", err)
	}

	breaks, err := e.breaks.ListByDay(ctx, day.ID)
	if err != nil {
		return fmt.Errorf("failed to list breaks: %w", err)
	}

	finding, tripped := evaluateExcessiveBreak(*rule, pol, breaks)
	if !tripped {
		return nil
	}

	if finding.BreakID == "" {
		finding.BreakID = closed.ID
	}
	_, err = e.createEvent(ctx, *rule, userID,
		"Excessive break time",
		finding.message(),
		anomaly.ExcessiveBreakData{
			Date:              day.Date.Format("2006-01-02"),
			TotalBreakMinutes: finding.Total,
			AllowedMinutes:    finding.Allowance,
			BreakID:           finding.BreakID,
		})
	return err
}

// ========================================
// DAILY BATCH SWEEP
// ========================================

// RunDailyDetection implements anomaly.Service. Companies, rules, and users
// are evaluated independently: one failing evaluation is logged with its
// context and never aborts the remainder of the sweep.
func (e *Engine) RunDailyDetection(ctx context.Context) error {
	start := e.now()
	defer func() { e.observeSweep(e.now().Sub(start)) }()

	companies, err := e.policies.CompanyIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list companies: %w", err)
	}

	slog.Info("Daily anomaly detection starting", "company_count", len(companies))
	for _, companyID := range companies {
		e.sweepCompany(ctx, companyID)
	}
	slog.Info("Daily anomaly detection completed", "duration", e.now().Sub(start))
	return nil
}

// sweepCompany evaluates every enabled rule for one company. A company-level
// lookup failure skips this company's remaining rules only.
func (e *Engine) sweepCompany(ctx context.Context, companyID string) {
	rules, err := e.rules.ListEnabledByCompany(ctx, companyID)
	if err != nil {
		slog.Error("Failed to list anomaly rules, skipping company", "company_id", companyID, "error", err)
		return
	}
	if len(rules) == 0 {
		return
	}

	pol, err := e.policies.WorkPolicy(ctx, companyID)
	if err != nil {
		slog.Error("Failed to get work policy, skipping company", "company_id", companyID, "error", err)
		return
	}

	today := dateOf(e.now())

	for _, rule := range rules {
		switch rule.Type {
		case anomaly.TypeMissingCheckOut:
			e.sweepMissingCheckOut(ctx, rule, today)
		case anomaly.TypeRepeatedLateCheckIn:
			e.sweepLateCheckIns(ctx, rule, pol, today)
		case anomaly.TypeExcessiveBreak:
			e.sweepExcessiveBreaks(ctx, rule, pol, today)
		case anomaly.TypeTimesheetMismatch:
			e.sweepTimesheetMismatch(ctx, rule, today.AddDate(0, 0, -1))
		case anomaly.TypeGeofenceFailure:
			// Reactive only; nothing to sweep.
		}
	}
}

func (e *Engine) sweepMissingCheckOut(ctx context.Context, rule anomaly.Rule, date time.Time) {
	days, err := e.days.ListIncompleteWithCheckIn(ctx, rule.CompanyID, date)
	if err != nil {
		slog.Error("Failed to list incomplete days",
			"company_id", rule.CompanyID, "rule_id", rule.ID, "error", err)
		return
	}

	for _, day := range days {
		lastCheckIn := day.Date
		open, err := e.events.GetOpenCheckIn(ctx, day.ID)
		if err != nil {
			slog.Error("Failed to get open session",
				"company_id", rule.CompanyID, "rule_id", rule.ID, "user_id", day.UserID, "error", err)
			continue
		}
		if open != nil {
			lastCheckIn = open.Timestamp
		}

		_, err = e.createEvent(ctx, rule, day.UserID,
			"Missing check-out",
			fmt.Sprintf("No check-out was recorded for %s.", day.Date.Format("2006-01-02")),
			anomaly.MissingCheckOutData{
				Date:        day.Date.Format("2006-01-02"),
				LastCheckIn: lastCheckIn.Format("2006-01-02 15:04:05"),
			})
		if err != nil {
			slog.Error("Failed to record missing check-out",
				"company_id", rule.CompanyID, "rule_id", rule.ID, "user_id", day.UserID, "error", err)
		}
	}
}

func (e *Engine) sweepLateCheckIns(ctx context.Context, rule anomaly.Rule, pol policy.WorkPolicy, today time.Time) {
	windowDays := rule.WindowDays
	if windowDays <= 0 {
		windowDays = 7
	}
	since := today.AddDate(0, 0, -windowDays)
	lateAfter := pol.LateCutoff()

	users, err := e.days.ActiveUserIDs(ctx, rule.CompanyID, since)
	if err != nil {
		slog.Error("Failed to list active users",
			"company_id", rule.CompanyID, "rule_id", rule.ID, "error", err)
		return
	}

	for _, userID := range users {
		count, err := e.events.CountLateCheckIns(ctx, userID, since, lateAfter)
		if err != nil {
			slog.Error("Failed to count late check-ins",
				"company_id", rule.CompanyID, "rule_id", rule.ID, "user_id", userID, "error", err)
			continue
		}
		if count < rule.Threshold {
			continue
		}

		_, err = e.createEvent(ctx, rule, userID,
			"Repeated late check-ins",
			fmt.Sprintf("%d late check-ins in the last %d days.", count, windowDays),
			anomaly.LateCheckInData{
				Count:      count,
				Threshold:  rule.Threshold,
				WindowDays: windowDays,
				LateAfter:  lateAfter,
			})
		if err != nil {
			slog.Error("Failed to record repeated late check-ins",
				"company_id", rule.CompanyID, "rule_id", rule.ID, "user_id", userID, "error", err)
		}
	}
}

func (e *Engine) sweepExcessiveBreaks(ctx context.Context, rule anomaly.Rule, pol policy.WorkPolicy, date time.Time) {
	days, err := e.days.ListByCompanyAndDate(ctx, rule.CompanyID, date)
	if err != nil {
		slog.Error("Failed to list attendance days",
			"company_id", rule.CompanyID, "rule_id", rule.ID, "error", err)
		return
	}

	for _, day := range days {
		breaks, err := e.breaks.ListByDay(ctx, day.ID)
		if err != nil {
			slog.Error("Failed to list breaks",
				"company_id", rule.CompanyID, "rule_id", rule.ID, "user_id", day.UserID, "error", err)
			continue
		}

		finding, tripped := evaluateExcessiveBreak(rule, pol, breaks)
		if !tripped {
			continue
		}

		_, err = e.createEvent(ctx, rule, day.UserID,
			"Excessive break time",
			finding.message(),
			anomaly.ExcessiveBreakData{
				Date:              day.Date.Format("2006-01-02"),
				TotalBreakMinutes: finding.Total,
				AllowedMinutes:    finding.Allowance,
				BreakID:           finding.BreakID,
			})
		if err != nil {
			slog.Error("Failed to record excessive break",
				"company_id", rule.CompanyID, "rule_id", rule.ID, "user_id", day.UserID, "error", err)
		}
	}
}

// sweepTimesheetMismatch compares finalized attendance minutes for the
// previous day against submitted timesheet minutes.
func (e *Engine) sweepTimesheetMismatch(ctx context.Context, rule anomaly.Rule, date time.Time) {
	days, err := e.days.ListByCompanyAndDate(ctx, rule.CompanyID, date)
	if err != nil {
		slog.Error("Failed to list attendance days",
			"company_id", rule.CompanyID, "rule_id", rule.ID, "error", err)
		return
	}

	for _, day := range days {
		if day.TotalWorkMinutes <= 0 {
			continue
		}

		tsMinutes, err := e.timesheets.MinutesForDate(ctx, day.UserID, date)
		if err != nil {
			slog.Error("Failed to get timesheet minutes",
				"company_id", rule.CompanyID, "rule_id", rule.ID, "user_id", day.UserID, "error", err)
			continue
		}

		deviation := math.Abs(float64(day.TotalWorkMinutes-tsMinutes)) / float64(day.TotalWorkMinutes) * 100
		if deviation <= float64(rule.Threshold) {
			continue
		}

		_, err = e.createEvent(ctx, rule, day.UserID,
			"Timesheet mismatch",
			fmt.Sprintf("Timesheet differs from attendance by %.0f%% on %s.", deviation, date.Format("2006-01-02")),
			anomaly.TimesheetMismatchData{
				Date:              date.Format("2006-01-02"),
				AttendanceMinutes: day.TotalWorkMinutes,
				TimesheetMinutes:  tsMinutes,
				DeviationPercent:  deviation,
			})
		if err != nil {
			slog.Error("Failed to record timesheet mismatch",
				"company_id", rule.CompanyID, "rule_id", rule.ID, "user_id", day.UserID, "error", err)
		}
	}
}

// ========================================
// REVIEW LIFECYCLE
// ========================================

// List implements anomaly.Service.
func (e *Engine) List(ctx context.Context, filter anomaly.ListFilter) (anomaly.ListEventsResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return anomaly.ListEventsResponse{}, err
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	events, total, err := e.anomalies.List(ctx, claims.CompanyID, filter)
	if err != nil {
		return anomaly.ListEventsResponse{}, fmt.Errorf("failed to list anomaly events: %w", err)
	}

	responses := make([]anomaly.EventResponse, 0, len(events))
	for _, ev := range events {
		responses = append(responses, mapEventToResponse(ev))
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))

	return anomaly.ListEventsResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Events:     responses,
	}, nil
}

// Acknowledge implements anomaly.Service.
func (e *Engine) Acknowledge(ctx context.Context, id string) (anomaly.EventResponse, error) {
	return e.updateStatus(ctx, id, anomaly.StatusAcknowledged)
}

// Resolve implements anomaly.Service.
func (e *Engine) Resolve(ctx context.Context, id string) (anomaly.EventResponse, error) {
	return e.updateStatus(ctx, id, anomaly.StatusResolved)
}

// Dismiss implements anomaly.Service.
func (e *Engine) Dismiss(ctx context.Context, id string) (anomaly.EventResponse, error) {
	return e.updateStatus(ctx, id, anomaly.StatusDismissed)
}

func (e *Engine) updateStatus(ctx context.Context, id string, status anomaly.Status) (anomaly.EventResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return anomaly.EventResponse{}, err
	}

	event, err := e.anomalies.GetByID(ctx, id, claims.CompanyID)
	if err != nil {
		if errors.Is(err, anomaly.ErrEventNotFound) {
			return anomaly.EventResponse{}, anomaly.ErrEventNotFound
		}
		return anomaly.EventResponse{}, fmt.Errorf("failed to get anomaly event: %w", err)
	}

	if event.Status == anomaly.StatusResolved || event.Status == anomaly.StatusDismissed {
		return anomaly.EventResponse{}, anomaly.ErrAlreadyProcessed
	}

	now := e.now().UTC()
	if err := e.anomalies.UpdateStatus(ctx, id, status, claims.UserID, now); err != nil {
		return anomaly.EventResponse{}, fmt.Errorf("failed to update anomaly status: %w", err)
	}

	event.Status = status
	if status == anomaly.StatusResolved || status == anomaly.StatusDismissed {
		event.ResolvedAt = &now
		event.ResolvedBy = &claims.UserID
	}

	return mapEventToResponse(event), nil
}

func mapEventToResponse(ev anomaly.Event) anomaly.EventResponse {
	resp := anomaly.EventResponse{
		ID:          ev.ID,
		UserID:      ev.UserID,
		RuleID:      ev.RuleID,
		Type:        ev.Type,
		Severity:    ev.Severity,
		Status:      ev.Status,
		Title:       ev.Title,
		Description: ev.Description,
		Data:        ev.Data,
		DetectedAt:  ev.DetectedAt.Format("2006-01-02 15:04:05"),
		ResolvedBy:  ev.ResolvedBy,
	}
	if ev.ResolvedAt != nil {
		s := ev.ResolvedAt.Format("2006-01-02 15:04:05")
		resp.ResolvedAt = &s
	}
	return resp
}
