package app

import (
	"context"

	"go.uber.org/zap"

	"hirelane/internal/common"
	"hirelane/internal/domain/job"
)

// CounterService maintains the engagement counters on job postings. Every
// adjustment is a single atomic update at the persistence layer; decrements
// clamp at zero, and a decrement that actually hits the clamp is logged as a
// data-integrity signal. A legitimate landing on zero stays quiet.
type CounterService struct {
	jobs job.Repository
	log  *zap.SugaredLogger
}

func NewCounterService(jobs job.Repository, log *zap.SugaredLogger) *CounterService {
	return &CounterService{jobs: jobs, log: log}
}

func (s *CounterService) Increment(ctx context.Context, jobID common.UUID, field job.CounterField, by int) (int, error) {
	if by <= 0 {
		by = 1
	}
	value, _, err := s.jobs.AdjustCounter(ctx, jobID, field, by)
	return value, err
}

func (s *CounterService) Decrement(ctx context.Context, jobID common.UUID, field job.CounterField, by int) (int, error) {
	if by <= 0 {
		by = 1
	}
	value, clamped, err := s.jobs.AdjustCounter(ctx, jobID, field, -by)
	if err != nil {
		return 0, err
	}
	if clamped {
		s.log.Warnw("counter decrement clamped at zero floor", "job_id", jobID, "field", field, "by", by)
	}
	return value, nil
}
