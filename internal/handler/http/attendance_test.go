package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attendly-hq/attendly-backend-go/internal/domain/anomaly"
	"github.com/attendly-hq/attendly-backend-go/internal/domain/attendance"
	"github.com/attendly-hq/attendly-backend-go/internal/handler/http/response"
	"github.com/attendly-hq/attendly-backend-go/internal/pkg/jwt"
	"github.com/attendly-hq/attendly-backend-go/internal/pkg/validator"
)

const handlerTestSecret = "test-secret-key-for-jwt"

// stubAttendanceService returns canned responses per operation.
type stubAttendanceService struct {
	checkInResp attendance.DayResponse
	checkInErr  error
	checkOutErr error
	todayResp   attendance.DayResponse
}

func (s *stubAttendanceService) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.DayResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.DayResponse{}, err
	}
	return s.checkInResp, s.checkInErr
}

func (s *stubAttendanceService) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.DayResponse, error) {
	return attendance.DayResponse{}, s.checkOutErr
}

func (s *stubAttendanceService) StartBreak(ctx context.Context, req attendance.BreakStartRequest) (attendance.DayResponse, error) {
	return attendance.DayResponse{}, nil
}

func (s *stubAttendanceService) EndBreak(ctx context.Context, breakID string) (attendance.DayResponse, error) {
	return attendance.DayResponse{}, nil
}

func (s *stubAttendanceService) OverrideEvent(ctx context.Context, req attendance.OverrideEventRequest) (attendance.DayResponse, error) {
	return attendance.DayResponse{}, nil
}

func (s *stubAttendanceService) GetToday(ctx context.Context) (attendance.DayResponse, error) {
	return s.todayResp, nil
}

func (s *stubAttendanceService) GetHistory(ctx context.Context, filter attendance.HistoryFilter) (attendance.HistoryResponse, error) {
	return attendance.HistoryResponse{Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *stubAttendanceService) GetSummary(ctx context.Context, from, to time.Time) (attendance.SummaryResponse, error) {
	return attendance.SummaryResponse{}, nil
}

func (s *stubAttendanceService) CloseStaleSessions(ctx context.Context) (int, error) {
	return 0, nil
}

type stubAnomalyService struct {
	resolveErr error
}

func (s *stubAnomalyService) List(ctx context.Context, filter anomaly.ListFilter) (anomaly.ListEventsResponse, error) {
	return anomaly.ListEventsResponse{Page: 1, Limit: 20}, nil
}

func (s *stubAnomalyService) Acknowledge(ctx context.Context, id string) (anomaly.EventResponse, error) {
	return anomaly.EventResponse{ID: id, Status: anomaly.StatusAcknowledged}, nil
}

func (s *stubAnomalyService) Resolve(ctx context.Context, id string) (anomaly.EventResponse, error) {
	if s.resolveErr != nil {
		return anomaly.EventResponse{}, s.resolveErr
	}
	return anomaly.EventResponse{ID: id, Status: anomaly.StatusResolved}, nil
}

func (s *stubAnomalyService) Dismiss(ctx context.Context, id string) (anomaly.EventResponse, error) {
	return anomaly.EventResponse{ID: id, Status: anomaly.StatusDismissed}, nil
}

func (s *stubAnomalyService) RunDailyDetection(ctx context.Context) error {
	return nil
}

func newTestRouter(t *testing.T, attendanceSvc attendance.AttendanceService, anomalySvc anomaly.Service) (http.Handler, jwt.Service) {
	t.Helper()
	jwtService := jwt.NewService(handlerTestSecret)
	router := NewRouter(jwtService, NewAttendanceHandler(attendanceSvc), NewAnomalyHandler(anomalySvc))
	return router, jwtService
}

func bearerToken(t *testing.T, jwtService jwt.Service, userID, companyID, role string) string {
	t.Helper()
	_, tokenString, err := jwtService.JWTAuth().Encode(map[string]interface{}{
		"user_id":    userID,
		"company_id": companyID,
		"role":       role,
	})
	require.NoError(t, err)
	return "BEARER " + tokenString
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRouter_CheckIn_RequiresToken(t *testing.T) {
	router, _ := newTestRouter(t, &stubAttendanceService{}, &stubAnomalyService{})

	rec := doJSON(t, router, http.MethodPost, "/api/v1/attendance/check-in", "", attendance.CheckInRequest{WorkMode: attendance.WorkModeRemote})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_CheckIn_Success(t *testing.T) {
	svc := &stubAttendanceService{
		checkInResp: attendance.DayResponse{Date: "2026-03-02", Status: attendance.StatusWorking},
	}
	router, jwtService := newTestRouter(t, svc, &stubAnomalyService{})
	token := bearerToken(t, jwtService, "user-1", "company-1", "employee")

	rec := doJSON(t, router, http.MethodPost, "/api/v1/attendance/check-in", token, attendance.CheckInRequest{WorkMode: attendance.WorkModeRemote})

	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Status string `json:"status"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "working", resp.Data.Status)
}

func TestRouter_CheckIn_ValidationError(t *testing.T) {
	router, jwtService := newTestRouter(t, &stubAttendanceService{}, &stubAnomalyService{})
	token := bearerToken(t, jwtService, "user-1", "company-1", "employee")

	rec := doJSON(t, router, http.MethodPost, "/api/v1/attendance/check-in", token, map[string]string{"work_mode": "hybrid"})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRouter_CheckIn_ConflictMapsTo409(t *testing.T) {
	svc := &stubAttendanceService{checkInErr: attendance.ErrAlreadyCheckedIn}
	router, jwtService := newTestRouter(t, svc, &stubAnomalyService{})
	token := bearerToken(t, jwtService, "user-1", "company-1", "employee")

	rec := doJSON(t, router, http.MethodPost, "/api/v1/attendance/check-in", token, attendance.CheckInRequest{WorkMode: attendance.WorkModeRemote})

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRouter_CheckOut_NotCheckedInMapsTo409(t *testing.T) {
	svc := &stubAttendanceService{checkOutErr: attendance.ErrNotCheckedIn}
	router, jwtService := newTestRouter(t, svc, &stubAnomalyService{})
	token := bearerToken(t, jwtService, "user-1", "company-1", "employee")

	rec := doJSON(t, router, http.MethodPost, "/api/v1/attendance/check-out", token, attendance.CheckOutRequest{})

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRouter_EndBreak_RejectsMalformedBreakID(t *testing.T) {
	router, jwtService := newTestRouter(t, &stubAttendanceService{}, &stubAnomalyService{})
	token := bearerToken(t, jwtService, "user-1", "company-1", "employee")

	rec := doJSON(t, router, http.MethodPut, "/api/v1/attendance/breaks/not-a-uuid/end", token, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_GetHistory_RejectsMalformedDate(t *testing.T) {
	router, jwtService := newTestRouter(t, &stubAttendanceService{}, &stubAnomalyService{})
	token := bearerToken(t, jwtService, "user-1", "company-1", "employee")

	rec := doJSON(t, router, http.MethodGet, "/api/v1/attendance/history?from=03-02-2026", token, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_OverrideEvent_EmployeeForbidden(t *testing.T) {
	router, jwtService := newTestRouter(t, &stubAttendanceService{}, &stubAnomalyService{})
	token := bearerToken(t, jwtService, "user-1", "company-1", "employee")

	reason := map[string]string{"reason": "fix", "timestamp": "2026-03-02 09:00:00"}
	rec := doJSON(t, router, http.MethodPut, "/api/v1/attendance/events/event-1/override", token, reason)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_Anomalies_EmployeeForbidden(t *testing.T) {
	router, jwtService := newTestRouter(t, &stubAttendanceService{}, &stubAnomalyService{})
	token := bearerToken(t, jwtService, "user-1", "company-1", "employee")

	rec := doJSON(t, router, http.MethodGet, "/api/v1/anomalies/", token, nil)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_Anomalies_AdminAllowed(t *testing.T) {
	router, jwtService := newTestRouter(t, &stubAttendanceService{}, &stubAnomalyService{})
	token := bearerToken(t, jwtService, "admin-1", "company-1", "admin")

	rec := doJSON(t, router, http.MethodGet, "/api/v1/anomalies/", token, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_AnomalyResolve_AlreadyProcessedMapsTo409(t *testing.T) {
	router, jwtService := newTestRouter(t, &stubAttendanceService{}, &stubAnomalyService{resolveErr: anomaly.ErrAlreadyProcessed})
	token := bearerToken(t, jwtService, "admin-1", "company-1", "admin")

	rec := doJSON(t, router, http.MethodPut, "/api/v1/anomalies/anomaly-1/resolve", token, nil)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandleErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{attendance.ErrAlreadyCheckedIn, http.StatusConflict},
		{attendance.ErrBreakAlreadyOpen, http.StatusConflict},
		{attendance.ErrBreakNotOpen, http.StatusConflict},
		{attendance.ErrDayNotFound, http.StatusNotFound},
		{attendance.ErrEventNotFound, http.StatusNotFound},
		{attendance.ErrUnauthorized, http.StatusForbidden},
		{anomaly.ErrEventNotFound, http.StatusNotFound},
		{anomaly.ErrAlreadyProcessed, http.StatusConflict},
		{validator.ValidationErrors{{Field: "x", Message: "y"}}, http.StatusUnprocessableEntity},
	}

	for _, c := range cases {
		rec := httptest.NewRecorder()
		response.HandleError(rec, c.err)
		assert.Equal(t, c.code, rec.Code, "error %v", c.err)
	}
}
