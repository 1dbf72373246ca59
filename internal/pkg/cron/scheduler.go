package cron

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type jobFunc func(ctx context.Context) error

// Job is one scheduled unit of work. Interval jobs run immediately on start
// and then on every tick; daily jobs run once per day at Hour UTC.
type Job struct {
	Name     string
	Interval time.Duration
	Hour     int
	daily    bool
	fn       jobFunc
}

// Scheduler runs registered jobs on their schedules until stopped.
type Scheduler struct {
	jobs   []Job
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
}

func NewScheduler() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		ctx:    ctx,
		cancel: cancel,
	}
}

// AddJob registers a job that runs immediately and then on every interval.
func (s *Scheduler) AddJob(name string, interval time.Duration, fn jobFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs = append(s.jobs, Job{Name: name, Interval: interval, fn: fn})
	slog.Info("Cron job registered", "name", name, "interval", interval)
}

// AddDailyJob registers a job that runs once per day at the given UTC hour.
func (s *Scheduler) AddDailyJob(name string, hour int, fn jobFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs = append(s.jobs, Job{Name: name, Hour: hour, daily: true, fn: fn})
	slog.Info("Cron job registered", "name", name, "daily_at_utc_hour", hour)
}

// Start launches one goroutine per registered job.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, job := range s.jobs {
		s.wg.Add(1)
		go s.run(job)
	}

	slog.Info("Cron scheduler started", "job_count", len(s.jobs))
}

// Stop cancels all jobs and waits for running executions to finish.
func (s *Scheduler) Stop() {
	slog.Info("Stopping cron scheduler...")
	s.cancel()
	s.wg.Wait()
	slog.Info("Cron scheduler stopped")
}

func (s *Scheduler) run(job Job) {
	defer s.wg.Done()

	if job.daily {
		s.runDaily(job)
		return
	}
	s.runInterval(job)
}

func (s *Scheduler) runInterval(job Job) {
	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	s.execute(job)

	for {
		select {
		case <-s.ctx.Done():
			slog.Info("Cron job stopping", "name", job.Name)
			return
		case <-ticker.C:
			s.execute(job)
		}
	}
}

func (s *Scheduler) runDaily(job Job) {
	for {
		timer := time.NewTimer(time.Until(nextRunAt(time.Now().UTC(), job.Hour)))
		select {
		case <-s.ctx.Done():
			timer.Stop()
			slog.Info("Cron job stopping", "name", job.Name)
			return
		case <-timer.C:
			s.execute(job)
		}
	}
}

// nextRunAt returns the next occurrence of hour:00 UTC strictly after now.
func nextRunAt(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, time.UTC)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func (s *Scheduler) execute(job Job) {
	start := time.Now()
	slog.Debug("Cron job starting", "name", job.Name)

	if err := job.fn(s.ctx); err != nil {
		slog.Error("Cron job failed", "name", job.Name, "error", err, "duration", time.Since(start))
	} else {
		slog.Debug("Cron job completed", "name", job.Name, "duration", time.Since(start))
	}
}

// RunOnce executes every registered job immediately, ignoring schedules.
// Used by tests.
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, job := range s.jobs {
		if err := job.fn(ctx); err != nil {
			slog.Error("Cron job failed", "name", job.Name, "error", err)
		}
	}
}
