package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"hirelane/internal/app"
)

// Scheduler drives the time-based job lifecycle sweeps: the hourly
// expiration sweep and the daily advance-warning pass. Both run outside any
// request and are safe to fire concurrently with request traffic.
type Scheduler struct {
	jobs *app.JobService
	cron *cron.Cron
	log  *zap.SugaredLogger
}

func New(jobs *app.JobService, log *zap.SugaredLogger) *Scheduler {
	return &Scheduler{
		jobs: jobs,
		cron: cron.New(),
		log:  log,
	}
}

func (s *Scheduler) Start(sweepSpec, warnSpec string) error {
	if _, err := s.cron.AddFunc(sweepSpec, s.runSweep); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(warnSpec, s.runWarnings); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Infow("scheduler started", "sweep", sweepSpec, "warn", warnSpec)
	return nil
}

// Stop waits for any in-flight sweep to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	if _, err := s.jobs.RunExpirationSweep(ctx, time.Now()); err != nil {
		s.log.Errorw("expiration sweep failed", "error", err)
	}
}

func (s *Scheduler) runWarnings() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	if err := s.jobs.WarnExpiringSoon(ctx, time.Now()); err != nil {
		s.log.Errorw("expiry warning pass failed", "error", err)
	}
}
