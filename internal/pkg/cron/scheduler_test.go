package cron

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNextRunAt(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		hour int
		want time.Time
	}{
		{
			name: "later today",
			now:  time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC),
			hour: 23,
			want: time.Date(2026, 3, 3, 23, 0, 0, 0, time.UTC),
		},
		{
			name: "exactly at the hour rolls to tomorrow",
			now:  time.Date(2026, 3, 3, 23, 0, 0, 0, time.UTC),
			hour: 23,
			want: time.Date(2026, 3, 4, 23, 0, 0, 0, time.UTC),
		},
		{
			name: "past the hour rolls to tomorrow",
			now:  time.Date(2026, 3, 3, 23, 30, 0, 0, time.UTC),
			hour: 23,
			want: time.Date(2026, 3, 4, 23, 0, 0, 0, time.UTC),
		},
		{
			name: "midnight hour",
			now:  time.Date(2026, 3, 3, 23, 30, 0, 0, time.UTC),
			hour: 0,
			want: time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "month boundary",
			now:  time.Date(2026, 3, 31, 23, 30, 0, 0, time.UTC),
			hour: 23,
			want: time.Date(2026, 4, 1, 23, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := nextRunAt(tt.now, tt.hour)
			if !got.Equal(tt.want) {
				t.Errorf("nextRunAt(%v, %d) = %v, want %v", tt.now, tt.hour, got, tt.want)
			}
		})
	}
}

func TestRunOnce_ExecutesBothJobKinds(t *testing.T) {
	s := NewScheduler()
	var intervalRuns, dailyRuns int
	s.AddJob("interval_job", time.Hour, func(ctx context.Context) error {
		intervalRuns++
		return nil
	})
	s.AddDailyJob("daily_job", 23, func(ctx context.Context) error {
		dailyRuns++
		return nil
	})

	s.RunOnce(context.Background())

	if intervalRuns != 1 {
		t.Errorf("interval job ran %d times, want 1", intervalRuns)
	}
	if dailyRuns != 1 {
		t.Errorf("daily job ran %d times, want 1", dailyRuns)
	}
}

func TestRunOnce_JobErrorDoesNotStopOthers(t *testing.T) {
	s := NewScheduler()
	var ran bool
	s.AddJob("failing_job", time.Hour, func(ctx context.Context) error {
		return errors.New("boom")
	})
	s.AddJob("healthy_job", time.Hour, func(ctx context.Context) error {
		ran = true
		return nil
	})

	s.RunOnce(context.Background())

	if !ran {
		t.Error("job after a failing one did not run")
	}
}

func TestAddDailyJob_RegistersDailyKind(t *testing.T) {
	s := NewScheduler()
	s.AddDailyJob("daily_anomaly_detection", 23, func(ctx context.Context) error { return nil })

	if len(s.jobs) != 1 {
		t.Fatalf("registered %d jobs, want 1", len(s.jobs))
	}
	job := s.jobs[0]
	if !job.daily || job.Hour != 23 {
		t.Errorf("job = %+v, want daily at hour 23", job)
	}
}
