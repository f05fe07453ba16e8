package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"hirelane/internal/cache"
	"hirelane/internal/common"
	"hirelane/internal/domain/job"
)

const (
	expiringSoonWindow = 7 * 24 * time.Hour
	warnAheadWindow    = 3 * 24 * time.Hour
)

// SweepResult summarizes one expiration sweep run. Per-item failures are
// counted, not propagated; the sweep never aborts on a single posting.
type SweepResult struct {
	Processed int `json:"processed"`
	Errors    int `json:"errors"`
}

// WarningSink receives the aggregated expiry warning for one company. The
// default sink only logs; NotificationWarningSink persists a notification
// per company instead.
type WarningSink interface {
	WarnExpiring(ctx context.Context, companyID common.UUID, titles []string) error
}

type logWarningSink struct {
	log *zap.SugaredLogger
}

func NewLogWarningSink(log *zap.SugaredLogger) WarningSink {
	return logWarningSink{log: log}
}

func (s logWarningSink) WarnExpiring(_ context.Context, companyID common.UUID, titles []string) error {
	s.log.Infow("jobs expiring soon", "company_id", companyID, "count", len(titles), "titles", titles)
	return nil
}

// NotificationWarningSink delivers the aggregated warning as a persisted
// notification to the company owner.
type NotificationWarningSink struct {
	notifications *NotificationService
}

func NewNotificationWarningSink(notifications *NotificationService) *NotificationWarningSink {
	return &NotificationWarningSink{notifications: notifications}
}

func (s *NotificationWarningSink) WarnExpiring(ctx context.Context, companyID common.UUID, titles []string) error {
	return s.notifications.NotifyExpiringSoon(ctx, companyID, titles)
}

// JobService owns the publication lifecycle of a posting: moderation,
// owner-driven activation changes, the timer-driven expiration sweep, and
// engagement counters on the read path.
type JobService struct {
	repo          job.Repository
	counters      *CounterService
	notifications *NotificationService
	cache         *cache.Cache
	warnings      WarningSink
	log           *zap.SugaredLogger
}

func NewJobService(repo job.Repository, counters *CounterService, notifications *NotificationService, store *cache.Cache, warnings WarningSink, log *zap.SugaredLogger) *JobService {
	if warnings == nil {
		warnings = NewLogWarningSink(log)
	}
	return &JobService{
		repo:          repo,
		counters:      counters,
		notifications: notifications,
		cache:         store,
		warnings:      warnings,
		log:           log,
	}
}

// Submit creates the posting in pending state and fans a review request out
// to every admin.
func (s *JobService) Submit(ctx context.Context, posting job.Job, companyName string) (*job.Job, error) {
	if posting.Title == "" {
		return nil, common.NewError(common.CodeValidation, "title is required", nil)
	}
	if posting.Description == "" {
		return nil, common.NewError(common.CodeValidation, "description is required", nil)
	}
	if posting.ExpiresAt.IsZero() {
		return nil, common.NewError(common.CodeValidation, "expires_at is required", nil)
	}
	if !posting.ExpiresAt.After(time.Now()) {
		return nil, common.NewValidationError("invalid expires_at", map[string]string{"expires_at": "must be in the future"})
	}
	posting.Status = job.StatusPending
	created, err := s.repo.Create(ctx, posting)
	if err != nil {
		return nil, err
	}
	runPostCommit(ctx, s.log,
		postCommitHook{name: "notify_job_submitted", run: func(ctx context.Context) error {
			return s.notifications.NotifyJobSubmitted(ctx, created.Title, companyName)
		}},
	)
	return created, nil
}

func (s *JobService) ListPending(ctx context.Context, limit, offset int) ([]job.Job, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListPending(ctx, limit, offset)
}

func (s *JobService) Approve(ctx context.Context, jobID, adminID common.UUID) (*job.Job, error) {
	return s.moderate(ctx, jobID, adminID, job.StatusActive, "")
}

func (s *JobService) Reject(ctx context.Context, jobID, adminID common.UUID, reason string) (*job.Job, error) {
	return s.moderate(ctx, jobID, adminID, job.StatusRejected, reason)
}

func (s *JobService) moderate(ctx context.Context, jobID, adminID common.UUID, target job.Status, reason string) (*job.Job, error) {
	posting, err := s.repo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if posting.Status != job.StatusPending {
		return nil, common.NewError(common.CodeInvalidState, "job is not pending review", nil)
	}
	updated, err := s.repo.TransitionStatus(ctx, jobID, job.StatusPending, target, reason)
	if err != nil {
		return nil, err
	}
	runPostCommit(ctx, s.log,
		postCommitHook{name: "invalidate_job_cache", run: func(ctx context.Context) error {
			s.cache.InvalidateJob(ctx, jobID.String(), posting.CompanyID.String())
			return nil
		}},
		postCommitHook{name: "notify_moderation_result", run: func(ctx context.Context) error {
			if target == job.StatusActive {
				return s.notifications.NotifyJobApproved(ctx, posting.CompanyID, posting.Title)
			}
			return s.notifications.NotifyJobRejected(ctx, posting.CompanyID, posting.Title, reason)
		}},
	)
	s.log.Infow("job moderated", "job_id", jobID, "admin_id", adminID, "status", target)
	return updated, nil
}

// Resubmit moves a rejected posting back into the review queue. The prior
// rejection reason stays on the row until the next moderation decision
// overwrites it.
func (s *JobService) Resubmit(ctx context.Context, jobID, companyID common.UUID) (*job.Job, error) {
	posting, err := s.ownedPosting(ctx, jobID, companyID)
	if err != nil {
		return nil, err
	}
	if posting.Status != job.StatusRejected {
		return nil, common.NewError(common.CodeInvalidState, "only rejected jobs can be resubmitted", nil)
	}
	updated, err := s.repo.TransitionStatus(ctx, jobID, job.StatusRejected, job.StatusPending, posting.ModerationNote)
	if err != nil {
		return nil, err
	}
	runPostCommit(ctx, s.log,
		postCommitHook{name: "invalidate_job_cache", run: func(ctx context.Context) error {
			s.cache.InvalidateJob(ctx, jobID.String(), companyID.String())
			return nil
		}},
	)
	return updated, nil
}

// Deactivate, Reactivate and Close are owner-driven edges of the publication
// state machine.
func (s *JobService) Deactivate(ctx context.Context, jobID, companyID common.UUID) (*job.Job, error) {
	return s.ownerTransition(ctx, jobID, companyID, job.StatusActive, job.StatusInactive)
}

func (s *JobService) Reactivate(ctx context.Context, jobID, companyID common.UUID) (*job.Job, error) {
	return s.ownerTransition(ctx, jobID, companyID, job.StatusInactive, job.StatusActive)
}

func (s *JobService) Close(ctx context.Context, jobID, companyID common.UUID) (*job.Job, error) {
	posting, err := s.ownedPosting(ctx, jobID, companyID)
	if err != nil {
		return nil, err
	}
	if !job.CanTransition(posting.Status, job.StatusClosed) {
		return nil, common.NewError(common.CodeInvalidState, "job cannot be closed from its current status", nil)
	}
	return s.transitionAndInvalidate(ctx, posting, posting.Status, job.StatusClosed)
}

func (s *JobService) ownerTransition(ctx context.Context, jobID, companyID common.UUID, from, to job.Status) (*job.Job, error) {
	posting, err := s.ownedPosting(ctx, jobID, companyID)
	if err != nil {
		return nil, err
	}
	if posting.Status != from || !job.CanTransition(from, to) {
		return nil, common.NewError(common.CodeInvalidState, "invalid status transition", nil)
	}
	return s.transitionAndInvalidate(ctx, posting, from, to)
}

func (s *JobService) ownedPosting(ctx context.Context, jobID, companyID common.UUID) (*job.Job, error) {
	posting, err := s.repo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if posting.CompanyID != companyID {
		return nil, common.NewError(common.CodeUnauthorized, "job belongs to another company", nil)
	}
	return posting, nil
}

func (s *JobService) transitionAndInvalidate(ctx context.Context, posting *job.Job, from, to job.Status) (*job.Job, error) {
	updated, err := s.repo.TransitionStatus(ctx, posting.ID, from, to, posting.ModerationNote)
	if err != nil {
		return nil, err
	}
	runPostCommit(ctx, s.log,
		postCommitHook{name: "invalidate_job_cache", run: func(ctx context.Context) error {
			s.cache.InvalidateJob(ctx, posting.ID.String(), posting.CompanyID.String())
			return nil
		}},
	)
	return updated, nil
}

func (s *JobService) Statistics(ctx context.Context) (*job.Statistics, error) {
	byStatus, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	expiring, err := s.repo.CountActiveExpiringWithin(ctx, time.Now(), expiringSoonWindow)
	if err != nil {
		return nil, err
	}
	return &job.Statistics{
		ByStatus:     byStatus,
		Pending:      byStatus[job.StatusPending],
		Active:       byStatus[job.StatusActive],
		ExpiringSoon: expiring,
	}, nil
}

// RunExpirationSweep deactivates every active posting whose expiry passed.
// Each posting is handled independently: a failure is logged and counted and
// the sweep moves on. The per-item update is conditional on the posting
// still being active and expired, so re-running with the same now processes
// nothing.
func (s *JobService) RunExpirationSweep(ctx context.Context, now time.Time) (*SweepResult, error) {
	expired, err := s.repo.ListExpired(ctx, now)
	if err != nil {
		return nil, err
	}
	result := &SweepResult{}
	for _, posting := range expired {
		changed, err := s.repo.MarkExpired(ctx, posting.ID, now)
		if err != nil {
			result.Errors++
			s.log.Errorw("failed to expire job", "job_id", posting.ID, "error", err)
			continue
		}
		if !changed {
			// Another sweep or a concurrent mutation already moved it.
			continue
		}
		result.Processed++
		s.cache.InvalidateJob(ctx, posting.ID.String(), posting.CompanyID.String())
	}
	if result.Processed > 0 || result.Errors > 0 {
		s.log.Infow("expiration sweep finished", "processed", result.Processed, "errors", result.Errors)
	}
	return result, nil
}

// WarnExpiringSoon emits one aggregated warning per company for postings
// expiring within the advance-warning window.
func (s *JobService) WarnExpiringSoon(ctx context.Context, now time.Time) error {
	expiring, err := s.repo.ListExpiringBetween(ctx, now, now.Add(warnAheadWindow))
	if err != nil {
		return err
	}
	byCompany := make(map[common.UUID][]string)
	order := make([]common.UUID, 0)
	for _, posting := range expiring {
		if _, seen := byCompany[posting.CompanyID]; !seen {
			order = append(order, posting.CompanyID)
		}
		byCompany[posting.CompanyID] = append(byCompany[posting.CompanyID], posting.Title)
	}
	for _, companyID := range order {
		if err := s.warnings.WarnExpiring(ctx, companyID, byCompany[companyID]); err != nil {
			s.log.Warnw("expiry warning failed", "company_id", companyID, "error", err)
		}
	}
	return nil
}

// Get serves the public read path: it reads through the cache and records a
// view. Only active postings are visible here; a pending, rejected or closed
// posting reads as not_found, existence included. Owners reach their own
// postings through ListByCompany, admins through the review queue.
func (s *JobService) Get(ctx context.Context, id common.UUID) (*job.Job, error) {
	key := cache.JobKey(id.String())
	var cached job.Job
	if s.cache.GetJSON(ctx, key, &cached) && cached.Status == job.StatusActive {
		s.recordEngagement(ctx, id, job.CounterViews)
		return &cached, nil
	}
	posting, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if posting.Status != job.StatusActive {
		return nil, common.NewError(common.CodeNotFound, "job not found", nil)
	}
	s.cache.SetJSON(ctx, key, posting)
	s.recordEngagement(ctx, id, job.CounterViews)
	return posting, nil
}

func (s *JobService) ListActive(ctx context.Context, filter job.ListFilter) ([]job.Job, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	key := cache.JobListKey(map[string]string{
		"location": filter.Location,
		"keyword":  filter.Keyword,
	})
	if filter.Offset == 0 {
		var cached []job.Job
		if s.cache.GetJSON(ctx, key, &cached) {
			return cached, nil
		}
	}
	items, err := s.repo.ListActive(ctx, filter)
	if err != nil {
		return nil, err
	}
	if filter.Offset == 0 {
		s.cache.SetJSON(ctx, key, items)
	}
	return items, nil
}

func (s *JobService) ListByCompany(ctx context.Context, companyID common.UUID) ([]job.Job, error) {
	return s.repo.ListByCompany(ctx, companyID)
}

// RecordView bumps the view counter for reads served outside this service,
// e.g. a search index hit.
func (s *JobService) RecordView(ctx context.Context, id common.UUID) error {
	_, err := s.counters.Increment(ctx, id, job.CounterViews, 1)
	return err
}

// RecordSave bumps the save counter for a bookmarked posting.
func (s *JobService) RecordSave(ctx context.Context, id common.UUID) error {
	_, err := s.counters.Increment(ctx, id, job.CounterSaves, 1)
	return err
}

// UnrecordSave drops the save counter when a bookmark is removed.
func (s *JobService) UnrecordSave(ctx context.Context, id common.UUID) error {
	_, err := s.counters.Decrement(ctx, id, job.CounterSaves, 1)
	return err
}

// recordEngagement is best-effort: a failed counter bump never fails the
// read that triggered it.
func (s *JobService) recordEngagement(ctx context.Context, id common.UUID, field job.CounterField) {
	if _, err := s.counters.Increment(ctx, id, field, 1); err != nil {
		s.log.Debugw("engagement counter update failed", "job_id", id, "field", field, "error", err)
	}
}
