package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	checkInCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "attendly",
		Subsystem: "attendance",
		Name:      "check_ins_total",
		Help:      "Number of successful check-ins by work mode.",
	}, []string{"work_mode"})

	checkOutCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "attendly",
		Subsystem: "attendance",
		Name:      "check_outs_total",
		Help:      "Number of successful check-outs.",
	})

	checkInConflictCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "attendly",
		Subsystem: "attendance",
		Name:      "check_in_conflicts_total",
		Help:      "Number of check-in attempts rejected because a session was already open.",
	})

	anomalyCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "attendly",
		Subsystem: "anomaly",
		Name:      "events_created_total",
		Help:      "Number of anomaly events created by type.",
	}, []string{"type"})

	sweepDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "attendly",
		Subsystem: "anomaly",
		Name:      "daily_sweep_duration_seconds",
		Help:      "Duration of the daily anomaly detection sweep.",
		Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
	})

	staleSessionsClosed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "attendly",
		Subsystem: "attendance",
		Name:      "stale_sessions_closed_total",
		Help:      "Number of sessions force-closed by the stale-session sweep.",
	})
)

func init() {
	prometheus.MustRegister(
		checkInCounter,
		checkOutCounter,
		checkInConflictCounter,
		anomalyCounter,
		sweepDuration,
		staleSessionsClosed,
	)
}

// RecordCheckIn increments the check-in counter for a work mode.
func RecordCheckIn(workMode string) {
	checkInCounter.WithLabelValues(workMode).Inc()
}

// RecordCheckOut increments the check-out counter.
func RecordCheckOut() {
	checkOutCounter.Inc()
}

// RecordCheckInConflict counts a lost check-in race.
func RecordCheckInConflict() {
	checkInConflictCounter.Inc()
}

// RecordAnomaly counts a created anomaly event.
func RecordAnomaly(anomalyType string) {
	anomalyCounter.WithLabelValues(anomalyType).Inc()
}

// ObserveSweep records one daily sweep duration.
func ObserveSweep(d time.Duration) {
	sweepDuration.Observe(d.Seconds())
}

// RecordStaleSessionsClosed counts sessions closed by the sweep.
func RecordStaleSessionsClosed(n int) {
	staleSessionsClosed.Add(float64(n))
}
