package main

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/attendly-hq/attendly-backend-go/internal/config"
	"github.com/attendly-hq/attendly-backend-go/internal/domain/audit"
	appHTTP "github.com/attendly-hq/attendly-backend-go/internal/handler/http"
	"github.com/attendly-hq/attendly-backend-go/internal/pkg/cron"
	"github.com/attendly-hq/attendly-backend-go/internal/pkg/database"
	"github.com/attendly-hq/attendly-backend-go/internal/pkg/events"
	"github.com/attendly-hq/attendly-backend-go/internal/pkg/jwt"
	"github.com/attendly-hq/attendly-backend-go/internal/repository/postgresql"
	anomalyService "github.com/attendly-hq/attendly-backend-go/internal/service/anomaly"
	attendanceService "github.com/attendly-hq/attendly-backend-go/internal/service/attendance"
	"github.com/attendly-hq/attendly-backend-go/internal/service/geofence"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	store := postgresql.NewStore(db)
	dayRepo := postgresql.NewAttendanceDayRepository(db)
	eventRepo := postgresql.NewAttendanceEventRepository(db)
	breakRepo := postgresql.NewBreakSegmentRepository(db)
	anomalyRepo := postgresql.NewAnomalyRepository(db)
	ruleRepo := postgresql.NewAnomalyRuleRepository(db)
	policyProvider := postgresql.NewPolicyProvider(db, cfg.Policy)
	timesheetRepo := postgresql.NewTimesheetRepository(db)

	auditSink := audit.MultiSink{postgresql.NewAuditSink(db)}
	if len(cfg.Kafka.Brokers) > 0 {
		publisher := events.NewAuditPublisher(cfg.Kafka.Brokers, cfg.Kafka.AuditTopic)
		defer publisher.Close()
		auditSink = append(auditSink, publisher)
	}

	jwtService := jwt.NewService(cfg.JWT.Secret)
	geofenceValidator := geofence.NewValidator(policyProvider)
	anomalyEngine := anomalyService.NewEngine(
		anomalyRepo,
		ruleRepo,
		dayRepo,
		eventRepo,
		breakRepo,
		policyProvider,
		timesheetRepo,
	)
	attendanceSvc := attendanceService.NewAttendanceService(
		store,
		dayRepo,
		eventRepo,
		breakRepo,
		policyProvider,
		geofenceValidator,
		anomalyEngine,
		auditSink,
	)

	scheduler := cron.NewScheduler()
	cron.NewAttendanceJobs(attendanceSvc, anomalyEngine).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	anomalyHandler := appHTTP.NewAnomalyHandler(anomalyEngine)

	router := appHTTP.NewRouter(jwtService, attendanceHandler, anomalyHandler)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("Server starting", "addr", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
