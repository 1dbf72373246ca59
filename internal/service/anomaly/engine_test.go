package anomaly

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attendly-hq/attendly-backend-go/internal/domain/anomaly"
	"github.com/attendly-hq/attendly-backend-go/internal/domain/attendance"
	"github.com/attendly-hq/attendly-backend-go/internal/domain/policy"
)

const testSecret = "test-secret-key-for-jwt"

func adminContext(t *testing.T, userID, companyID string) context.Context {
	t.Helper()
	auth := jwtauth.New("HS256", []byte(testSecret), nil)
	tok, _, err := auth.Encode(map[string]interface{}{
		"user_id":    userID,
		"company_id": companyID,
		"role":       "admin",
	})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), tok, nil)
}

// ----- fakes -----

type memAnomalies struct {
	mu     sync.Mutex
	seq    int
	events []*anomaly.Event
}

func (m *memAnomalies) Create(ctx context.Context, event *anomaly.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	event.ID = time.Now().Format("20060102") + "-" + string(rune('a'+m.seq))
	cp := *event
	m.events = append(m.events, &cp)
	return nil
}

func (m *memAnomalies) FindOpen(ctx context.Context, userID string, t anomaly.Type, dayStart *time.Time) (*anomaly.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ev := range m.events {
		if ev.UserID != userID || ev.Type != t || ev.Status != anomaly.StatusOpen {
			continue
		}
		if dayStart != nil {
			dayEnd := dayStart.Add(24 * time.Hour)
			if ev.DetectedAt.Before(*dayStart) || !ev.DetectedAt.Before(dayEnd) {
				continue
			}
		}
		cp := *ev
		return &cp, nil
	}
	return nil, nil
}

func (m *memAnomalies) GetByID(ctx context.Context, id string, companyID string) (anomaly.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ev := range m.events {
		if ev.ID == id && ev.CompanyID == companyID {
			return *ev, nil
		}
	}
	return anomaly.Event{}, anomaly.ErrEventNotFound
}

func (m *memAnomalies) List(ctx context.Context, companyID string, filter anomaly.ListFilter) ([]anomaly.Event, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []anomaly.Event
	for _, ev := range m.events {
		if ev.CompanyID != companyID {
			continue
		}
		if filter.UserID != nil && ev.UserID != *filter.UserID {
			continue
		}
		if filter.Type != nil && ev.Type != *filter.Type {
			continue
		}
		if filter.Status != nil && ev.Status != *filter.Status {
			continue
		}
		out = append(out, *ev)
	}
	return out, int64(len(out)), nil
}

func (m *memAnomalies) UpdateStatus(ctx context.Context, id string, status anomaly.Status, actorID string, resolvedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ev := range m.events {
		if ev.ID == id {
			ev.Status = status
			if status == anomaly.StatusResolved || status == anomaly.StatusDismissed {
				ev.ResolvedAt = &resolvedAt
				ev.ResolvedBy = &actorID
			}
			return nil
		}
	}
	return anomaly.ErrEventNotFound
}

func (m *memAnomalies) byType(t anomaly.Type) []anomaly.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []anomaly.Event
	for _, ev := range m.events {
		if ev.Type == t {
			out = append(out, *ev)
		}
	}
	return out
}

type fakeRules struct {
	rules []anomaly.Rule
}

func (f *fakeRules) ListEnabledByCompany(ctx context.Context, companyID string) ([]anomaly.Rule, error) {
	var out []anomaly.Rule
	for _, r := range f.rules {
		if r.CompanyID == companyID && r.IsEnabled {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRules) GetEnabled(ctx context.Context, companyID string, t anomaly.Type) (*anomaly.Rule, error) {
	for _, r := range f.rules {
		if r.CompanyID == companyID && r.Type == t && r.IsEnabled {
			cp := r
			return &cp, nil
		}
	}
	return nil, nil
}

type fakeDays struct {
	incompleteWithCheckIn []attendance.Day
	byCompanyAndDate      []attendance.Day
	activeUsers           []string
}

func (f *fakeDays) UpsertForCheckIn(ctx context.Context, userID, companyID string, date time.Time) (attendance.Day, error) {
	return attendance.Day{}, nil
}
func (f *fakeDays) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*attendance.Day, error) {
	return nil, nil
}
func (f *fakeDays) GetByID(ctx context.Context, id string) (attendance.Day, error) {
	return attendance.Day{}, attendance.ErrDayNotFound
}
func (f *fakeDays) UpdateTotals(ctx context.Context, dayID string, totals attendance.DayTotals, isComplete bool) error {
	return nil
}
func (f *fakeDays) ListByUser(ctx context.Context, userID string, filter attendance.HistoryFilter) ([]attendance.Day, int64, error) {
	return nil, 0, nil
}
func (f *fakeDays) ListByCompanyAndDate(ctx context.Context, companyID string, date time.Time) ([]attendance.Day, error) {
	return f.byCompanyAndDate, nil
}
func (f *fakeDays) ListIncompleteWithCheckIn(ctx context.Context, companyID string, date time.Time) ([]attendance.Day, error) {
	return f.incompleteWithCheckIn, nil
}
func (f *fakeDays) ListIncompleteBefore(ctx context.Context, date time.Time) ([]attendance.Day, error) {
	return nil, nil
}
func (f *fakeDays) ActiveUserIDs(ctx context.Context, companyID string, since time.Time) ([]string, error) {
	return f.activeUsers, nil
}

type fakeEvents struct {
	openByDay     map[string]*attendance.Event
	lateCounts    map[string]int
	lateCountErrs map[string]error
}

func (f *fakeEvents) Append(ctx context.Context, event attendance.Event) (attendance.Event, error) {
	return event, nil
}
func (f *fakeEvents) ListByDay(ctx context.Context, dayID string) ([]attendance.Event, error) {
	return nil, nil
}
func (f *fakeEvents) GetByID(ctx context.Context, id string) (attendance.Event, error) {
	return attendance.Event{}, attendance.ErrEventNotFound
}
func (f *fakeEvents) GetOpenCheckIn(ctx context.Context, dayID string) (*attendance.Event, error) {
	return f.openByDay[dayID], nil
}
func (f *fakeEvents) UpdateOverride(ctx context.Context, event attendance.Event) error {
	return nil
}
func (f *fakeEvents) CountLateCheckIns(ctx context.Context, userID string, since time.Time, lateAfter string) (int, error) {
	if err := f.lateCountErrs[userID]; err != nil {
		return 0, err
	}
	return f.lateCounts[userID], nil
}

type fakeBreaks struct {
	byDay map[string][]attendance.BreakSegment
}

func (f *fakeBreaks) Create(ctx context.Context, segment attendance.BreakSegment) (attendance.BreakSegment, error) {
	return segment, nil
}
func (f *fakeBreaks) GetByID(ctx context.Context, id string) (attendance.BreakSegment, error) {
	return attendance.BreakSegment{}, attendance.ErrBreakNotFound
}
func (f *fakeBreaks) GetOpenByDay(ctx context.Context, dayID string) (*attendance.BreakSegment, error) {
	return nil, nil
}
func (f *fakeBreaks) Close(ctx context.Context, id string, endTime time.Time, durationMinutes int) error {
	return nil
}
func (f *fakeBreaks) ListByDay(ctx context.Context, dayID string) ([]attendance.BreakSegment, error) {
	return f.byDay[dayID], nil
}
func (f *fakeBreaks) ListOpenOlderThan(ctx context.Context, cutoff time.Time) ([]attendance.BreakSegment, error) {
	return nil, nil
}

type fakePolicies struct {
	companies []string
}

func (f *fakePolicies) WorkPolicy(ctx context.Context, companyID string) (policy.WorkPolicy, error) {
	return policy.BuiltinDefaults().Apply(policy.WorkPolicy{CompanyID: companyID}), nil
}
func (f *fakePolicies) GeofencePolicy(ctx context.Context, companyID string) (*policy.GeofencePolicy, error) {
	return nil, nil
}
func (f *fakePolicies) CompanyIDs(ctx context.Context) ([]string, error) {
	return f.companies, nil
}

type fakeTimesheets struct {
	minutes map[string]int
	errs    map[string]error
}

func (f *fakeTimesheets) MinutesForDate(ctx context.Context, userID string, date time.Time) (int, error) {
	if err := f.errs[userID]; err != nil {
		return 0, err
	}
	return f.minutes[userID], nil
}

type engineEnv struct {
	anomalies  *memAnomalies
	rules      *fakeRules
	days       *fakeDays
	events     *fakeEvents
	breaks     *fakeBreaks
	timesheets *fakeTimesheets
	engine     *Engine
}

func newEngineEnv(t *testing.T) *engineEnv {
	t.Helper()
	env := &engineEnv{
		anomalies: &memAnomalies{},
		rules:     &fakeRules{},
		days:      &fakeDays{},
		events: &fakeEvents{
			openByDay:     make(map[string]*attendance.Event),
			lateCounts:    make(map[string]int),
			lateCountErrs: make(map[string]error),
		},
		breaks:     &fakeBreaks{byDay: make(map[string][]attendance.BreakSegment)},
		timesheets: &fakeTimesheets{minutes: make(map[string]int), errs: make(map[string]error)},
	}
	env.engine = NewEngine(
		env.anomalies,
		env.rules,
		env.days,
		env.events,
		env.breaks,
		&fakePolicies{companies: []string{"company-1"}},
		env.timesheets,
	)
	env.engine.now = func() time.Time {
		return time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC)
	}
	return env
}

func rule(t anomaly.Type, threshold, windowDays int) anomaly.Rule {
	return anomaly.Rule{
		ID:         "rule-" + string(t),
		CompanyID:  "company-1",
		Type:       t,
		IsEnabled:  true,
		Severity:   anomaly.SeverityMedium,
		Threshold:  threshold,
		WindowDays: windowDays,
	}
}

func closedSegment(t attendance.BreakType, minutes int) attendance.BreakSegment {
	start := time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Duration(minutes) * time.Minute)
	return attendance.BreakSegment{DayID: "day-1", Type: t, StartTime: start, EndTime: &end, DurationMinutes: &minutes}
}

func TestFlagGeofenceFailure_NoRuleIsNoOp(t *testing.T) {
	env := newEngineEnv(t)

	err := env.engine.FlagGeofenceFailure(context.Background(), "company-1", "user-1", anomaly.GeofenceFailureData{WorkMode: "office"})

	require.NoError(t, err)
	assert.Empty(t, env.anomalies.byType(anomaly.TypeGeofenceFailure))
}

func TestFlagGeofenceFailure_CreatesOpenEvent(t *testing.T) {
	env := newEngineEnv(t)
	env.rules.rules = []anomaly.Rule{rule(anomaly.TypeGeofenceFailure, 0, 0)}

	err := env.engine.FlagGeofenceFailure(context.Background(), "company-1", "user-1", anomaly.GeofenceFailureData{WorkMode: "office"})

	require.NoError(t, err)
	events := env.anomalies.byType(anomaly.TypeGeofenceFailure)
	require.Len(t, events, 1)
	assert.Equal(t, anomaly.StatusOpen, events[0].Status)
	assert.Equal(t, "user-1", events[0].UserID)
}

func TestFlagGeofenceFailure_DedupWhileOpen(t *testing.T) {
	env := newEngineEnv(t)
	env.rules.rules = []anomaly.Rule{rule(anomaly.TypeGeofenceFailure, 0, 0)}
	ctx := context.Background()

	require.NoError(t, env.engine.FlagGeofenceFailure(ctx, "company-1", "user-1", anomaly.GeofenceFailureData{}))
	require.NoError(t, env.engine.FlagGeofenceFailure(ctx, "company-1", "user-1", anomaly.GeofenceFailureData{}))

	assert.Len(t, env.anomalies.byType(anomaly.TypeGeofenceFailure), 1)
}

func TestFlagGeofenceFailure_NewEventAfterResolve(t *testing.T) {
	env := newEngineEnv(t)
	env.rules.rules = []anomaly.Rule{rule(anomaly.TypeGeofenceFailure, 0, 0)}
	ctx := context.Background()

	require.NoError(t, env.engine.FlagGeofenceFailure(ctx, "company-1", "user-1", anomaly.GeofenceFailureData{}))
	first := env.anomalies.byType(anomaly.TypeGeofenceFailure)[0]
	require.NoError(t, env.anomalies.UpdateStatus(ctx, first.ID, anomaly.StatusResolved, "admin-1", time.Now()))

	require.NoError(t, env.engine.FlagGeofenceFailure(ctx, "company-1", "user-1", anomaly.GeofenceFailureData{}))

	assert.Len(t, env.anomalies.byType(anomaly.TypeGeofenceFailure), 2)
}

func TestCheckExcessiveBreak_UnderAllowance(t *testing.T) {
	env := newEngineEnv(t)
	env.rules.rules = []anomaly.Rule{rule(anomaly.TypeExcessiveBreak, 0, 0)}
	day := attendance.Day{ID: "day-1", UserID: "user-1", CompanyID: "company-1", Date: time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)}
	closed := closedSegment(attendance.BreakTypeBreak, 10)
	env.breaks.byDay["day-1"] = []attendance.BreakSegment{closed}

	err := env.engine.CheckExcessiveBreak(context.Background(), "company-1", "user-1", day, closed)

	require.NoError(t, err)
	assert.Empty(t, env.anomalies.byType(anomaly.TypeExcessiveBreak))
}

func TestCheckExcessiveBreak_OverAllowance(t *testing.T) {
	env := newEngineEnv(t)
	env.rules.rules = []anomaly.Rule{rule(anomaly.TypeExcessiveBreak, 0, 0)}
	day := attendance.Day{ID: "day-1", UserID: "user-1", CompanyID: "company-1", Date: time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)}
	// 100 minutes of short breaks against a 75 minute allowance.
	closed := closedSegment(attendance.BreakTypeBreak, 100)
	env.breaks.byDay["day-1"] = []attendance.BreakSegment{closed}

	err := env.engine.CheckExcessiveBreak(context.Background(), "company-1", "user-1", day, closed)

	require.NoError(t, err)
	events := env.anomalies.byType(anomaly.TypeExcessiveBreak)
	require.Len(t, events, 1)
	data, ok := events[0].Data.(anomaly.ExcessiveBreakData)
	require.True(t, ok)
	assert.Equal(t, 100, data.TotalBreakMinutes)
	assert.Equal(t, 75, data.AllowedMinutes)
}

func TestCheckExcessiveBreak_SingleBreakOverThreshold(t *testing.T) {
	env := newEngineEnv(t)
	// 200% of the 15 minute standard: a single 40 minute break trips it
	// even though the daily allowance is not exceeded.
	env.rules.rules = []anomaly.Rule{rule(anomaly.TypeExcessiveBreak, 200, 0)}
	day := attendance.Day{ID: "day-1", UserID: "user-1", CompanyID: "company-1", Date: time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)}
	closed := closedSegment(attendance.BreakTypeBreak, 40)
	env.breaks.byDay["day-1"] = []attendance.BreakSegment{closed}

	err := env.engine.CheckExcessiveBreak(context.Background(), "company-1", "user-1", day, closed)

	require.NoError(t, err)
	assert.Len(t, env.anomalies.byType(anomaly.TypeExcessiveBreak), 1)
}

func TestCheckExcessiveBreak_DedupSameDay(t *testing.T) {
	env := newEngineEnv(t)
	env.rules.rules = []anomaly.Rule{rule(anomaly.TypeExcessiveBreak, 0, 0)}
	day := attendance.Day{ID: "day-1", UserID: "user-1", CompanyID: "company-1", Date: time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)}
	closed := closedSegment(attendance.BreakTypeBreak, 100)
	env.breaks.byDay["day-1"] = []attendance.BreakSegment{closed}
	ctx := context.Background()

	require.NoError(t, env.engine.CheckExcessiveBreak(ctx, "company-1", "user-1", day, closed))
	require.NoError(t, env.engine.CheckExcessiveBreak(ctx, "company-1", "user-1", day, closed))

	assert.Len(t, env.anomalies.byType(anomaly.TypeExcessiveBreak), 1)
}

func TestRunDailyDetection_MissingCheckOut(t *testing.T) {
	env := newEngineEnv(t)
	env.rules.rules = []anomaly.Rule{rule(anomaly.TypeMissingCheckOut, 0, 0)}
	env.days.incompleteWithCheckIn = []attendance.Day{
		{ID: "day-1", UserID: "user-1", CompanyID: "company-1", Date: time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)},
		{ID: "day-2", UserID: "user-2", CompanyID: "company-1", Date: time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)},
	}
	env.events.openByDay["day-1"] = &attendance.Event{
		Type: attendance.EventCheckIn, Timestamp: time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC),
	}

	err := env.engine.RunDailyDetection(context.Background())

	require.NoError(t, err)
	events := env.anomalies.byType(anomaly.TypeMissingCheckOut)
	assert.Len(t, events, 2)
}

func TestRunDailyDetection_RepeatedLateCheckIns(t *testing.T) {
	env := newEngineEnv(t)
	env.rules.rules = []anomaly.Rule{rule(anomaly.TypeRepeatedLateCheckIn, 3, 7)}
	env.days.activeUsers = []string{"user-late", "user-punctual"}
	env.events.lateCounts["user-late"] = 4
	env.events.lateCounts["user-punctual"] = 1

	err := env.engine.RunDailyDetection(context.Background())

	require.NoError(t, err)
	events := env.anomalies.byType(anomaly.TypeRepeatedLateCheckIn)
	require.Len(t, events, 1)
	assert.Equal(t, "user-late", events[0].UserID)
	data, ok := events[0].Data.(anomaly.LateCheckInData)
	require.True(t, ok)
	assert.Equal(t, 4, data.Count)
	assert.Equal(t, 3, data.Threshold)
}

func TestRunDailyDetection_UserErrorDoesNotAbortSweep(t *testing.T) {
	env := newEngineEnv(t)
	env.rules.rules = []anomaly.Rule{rule(anomaly.TypeRepeatedLateCheckIn, 3, 7)}
	env.days.activeUsers = []string{"user-broken", "user-late"}
	env.events.lateCountErrs["user-broken"] = errors.New("boom")
	env.events.lateCounts["user-late"] = 5

	err := env.engine.RunDailyDetection(context.Background())

	require.NoError(t, err)
	events := env.anomalies.byType(anomaly.TypeRepeatedLateCheckIn)
	require.Len(t, events, 1)
	assert.Equal(t, "user-late", events[0].UserID)
}

func TestRunDailyDetection_TimesheetMismatch(t *testing.T) {
	env := newEngineEnv(t)
	env.rules.rules = []anomaly.Rule{rule(anomaly.TypeTimesheetMismatch, 10, 0)}
	env.days.byCompanyAndDate = []attendance.Day{
		{ID: "day-1", UserID: "user-1", CompanyID: "company-1", TotalWorkMinutes: 480},
		{ID: "day-2", UserID: "user-2", CompanyID: "company-1", TotalWorkMinutes: 480},
		{ID: "day-3", UserID: "user-3", CompanyID: "company-1", TotalWorkMinutes: 0},
	}
	env.timesheets.minutes["user-1"] = 300 // 37.5% off
	env.timesheets.minutes["user-2"] = 470 // ~2% off

	err := env.engine.RunDailyDetection(context.Background())

	require.NoError(t, err)
	events := env.anomalies.byType(anomaly.TypeTimesheetMismatch)
	require.Len(t, events, 1)
	assert.Equal(t, "user-1", events[0].UserID)
}

func TestRunDailyDetection_SingleLongBreakUnderAllowance(t *testing.T) {
	env := newEngineEnv(t)
	// 300% of the 15 minute standard: the sweep flags a single 50 minute
	// break even though the 75 minute daily allowance is not exceeded.
	env.rules.rules = []anomaly.Rule{rule(anomaly.TypeExcessiveBreak, 300, 0)}
	env.days.byCompanyAndDate = []attendance.Day{
		{ID: "day-1", UserID: "user-1", CompanyID: "company-1", Date: time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)},
	}
	long := closedSegment(attendance.BreakTypeBreak, 50)
	long.ID = "break-1"
	env.breaks.byDay["day-1"] = []attendance.BreakSegment{long}

	err := env.engine.RunDailyDetection(context.Background())

	require.NoError(t, err)
	events := env.anomalies.byType(anomaly.TypeExcessiveBreak)
	require.Len(t, events, 1)
	data, ok := events[0].Data.(anomaly.ExcessiveBreakData)
	require.True(t, ok)
	assert.Equal(t, 50, data.TotalBreakMinutes)
	assert.Equal(t, "break-1", data.BreakID)
}

func TestRunDailyDetection_DurationFromInjectedClock(t *testing.T) {
	env := newEngineEnv(t)
	base := time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC)
	calls := 0
	env.engine.now = func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Second)
	}
	var observed time.Duration
	env.engine.observeSweep = func(d time.Duration) { observed = d }

	err := env.engine.RunDailyDetection(context.Background())

	require.NoError(t, err)
	assert.Greater(t, observed, time.Duration(0))
	assert.Less(t, observed, time.Minute)
}

func TestLifecycle_AcknowledgeThenResolve(t *testing.T) {
	env := newEngineEnv(t)
	env.rules.rules = []anomaly.Rule{rule(anomaly.TypeGeofenceFailure, 0, 0)}
	require.NoError(t, env.engine.FlagGeofenceFailure(context.Background(), "company-1", "user-1", anomaly.GeofenceFailureData{}))
	id := env.anomalies.byType(anomaly.TypeGeofenceFailure)[0].ID
	ctx := adminContext(t, "admin-1", "company-1")

	acked, err := env.engine.Acknowledge(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, anomaly.StatusAcknowledged, acked.Status)

	resolved, err := env.engine.Resolve(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, anomaly.StatusResolved, resolved.Status)
	require.NotNil(t, resolved.ResolvedBy)
	assert.Equal(t, "admin-1", *resolved.ResolvedBy)
}

func TestLifecycle_ResolvedIsTerminal(t *testing.T) {
	env := newEngineEnv(t)
	env.rules.rules = []anomaly.Rule{rule(anomaly.TypeGeofenceFailure, 0, 0)}
	require.NoError(t, env.engine.FlagGeofenceFailure(context.Background(), "company-1", "user-1", anomaly.GeofenceFailureData{}))
	id := env.anomalies.byType(anomaly.TypeGeofenceFailure)[0].ID
	ctx := adminContext(t, "admin-1", "company-1")

	_, err := env.engine.Resolve(ctx, id)
	require.NoError(t, err)

	_, err = env.engine.Acknowledge(ctx, id)
	assert.ErrorIs(t, err, anomaly.ErrAlreadyProcessed)

	_, err = env.engine.Dismiss(ctx, id)
	assert.ErrorIs(t, err, anomaly.ErrAlreadyProcessed)
}

func TestLifecycle_CompanyScoped(t *testing.T) {
	env := newEngineEnv(t)
	env.rules.rules = []anomaly.Rule{rule(anomaly.TypeGeofenceFailure, 0, 0)}
	require.NoError(t, env.engine.FlagGeofenceFailure(context.Background(), "company-1", "user-1", anomaly.GeofenceFailureData{}))
	id := env.anomalies.byType(anomaly.TypeGeofenceFailure)[0].ID

	otherCompany := adminContext(t, "admin-2", "company-2")
	_, err := env.engine.Acknowledge(otherCompany, id)
	assert.ErrorIs(t, err, anomaly.ErrEventNotFound)
}

func TestList_FiltersByStatus(t *testing.T) {
	env := newEngineEnv(t)
	env.rules.rules = []anomaly.Rule{
		rule(anomaly.TypeGeofenceFailure, 0, 0),
		rule(anomaly.TypeExcessiveBreak, 0, 0),
	}
	ctx := adminContext(t, "admin-1", "company-1")
	require.NoError(t, env.engine.FlagGeofenceFailure(context.Background(), "company-1", "user-1", anomaly.GeofenceFailureData{}))
	require.NoError(t, env.engine.FlagGeofenceFailure(context.Background(), "company-1", "user-2", anomaly.GeofenceFailureData{}))
	id := env.anomalies.byType(anomaly.TypeGeofenceFailure)[0].ID
	_, err := env.engine.Resolve(ctx, id)
	require.NoError(t, err)

	open := anomaly.StatusOpen
	resp, err := env.engine.List(ctx, anomaly.ListFilter{Status: &open})

	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.TotalCount)
	require.Len(t, resp.Events, 1)
	assert.Equal(t, anomaly.StatusOpen, resp.Events[0].Status)
}
