package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/attendly-hq/attendly-backend-go/internal/domain/anomaly"
	"github.com/attendly-hq/attendly-backend-go/internal/domain/attendance"
)

// AttendanceJobs contains attendance-related cron jobs
type AttendanceJobs struct {
	attendanceSvc attendance.AttendanceService
	anomalySvc    anomaly.Service
}

// NewAttendanceJobs creates attendance cron jobs
func NewAttendanceJobs(attendanceSvc attendance.AttendanceService, anomalySvc anomaly.Service) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceSvc: attendanceSvc,
		anomalySvc:    anomalySvc,
	}
}

// RegisterJobs registers all attendance-related cron jobs
func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	// Close sessions left open past the end of their day, every hour
	scheduler.AddJob("close_stale_sessions", 1*time.Hour, j.CloseStaleSessions)

	// Full anomaly sweep at the end of the closing day
	scheduler.AddDailyJob("daily_anomaly_detection", 23, j.RunDailyAnomalyDetection)
}

// CloseStaleSessions auto-closes breaks and check-ins left open past the end
// of their day.
func (j *AttendanceJobs) CloseStaleSessions(ctx context.Context) error {
	closed, err := j.attendanceSvc.CloseStaleSessions(ctx)
	if err != nil {
		return err
	}
	if closed > 0 {
		slog.Info("Cron: Closed stale attendance sessions", "count", closed)
	}
	return nil
}

// RunDailyAnomalyDetection runs the batch rule sweep over the closing day.
func (j *AttendanceJobs) RunDailyAnomalyDetection(ctx context.Context) error {
	slog.Info("Cron: Starting daily anomaly detection sweep")
	return j.anomalySvc.RunDailyDetection(ctx)
}
