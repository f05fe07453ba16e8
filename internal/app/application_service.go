package app

import (
	"context"

	"go.uber.org/zap"

	"hirelane/internal/cache"
	"hirelane/internal/common"
	"hirelane/internal/domain/application"
	"hirelane/internal/domain/job"
	"hirelane/internal/domain/resume"
	"hirelane/internal/domain/user"
)

// ApplicationService owns the review lifecycle of a candidate's application:
// submission, the status transition graph, withdrawal, and removal. The
// primary persistence write always commits before notification, counter and
// cache side effects are attempted.
type ApplicationService struct {
	repo          application.Repository
	jobs          job.Repository
	resumes       resume.Repository
	counters      *CounterService
	notifications *NotificationService
	cache         *cache.Cache
	log           *zap.SugaredLogger
}

func NewApplicationService(repo application.Repository, jobs job.Repository, resumes resume.Repository, counters *CounterService, notifications *NotificationService, store *cache.Cache, log *zap.SugaredLogger) *ApplicationService {
	return &ApplicationService{
		repo:          repo,
		jobs:          jobs,
		resumes:       resumes,
		counters:      counters,
		notifications: notifications,
		cache:         store,
		log:           log,
	}
}

func (s *ApplicationService) Submit(ctx context.Context, jobID, applicantID, resumeID common.UUID) (*application.Application, error) {
	posting, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if posting.Status != job.StatusActive {
		return nil, common.NewError(common.CodeInvalidState, "job is not accepting applications", nil)
	}
	cv, err := s.resumes.GetByID(ctx, resumeID)
	if err != nil {
		return nil, err
	}
	if cv.OwnerID != applicantID {
		return nil, common.NewError(common.CodeUnauthorized, "resume belongs to another user", nil)
	}

	// Duplicate detection lives in the insert itself: the repository relies
	// on a uniqueness constraint and reports conflict, so two concurrent
	// submissions cannot both pass a pre-check.
	created, err := s.repo.Create(ctx, application.Application{
		JobID:       jobID,
		ApplicantID: applicantID,
		ResumeID:    resumeID,
		Status:      application.StatusPending,
	})
	if err != nil {
		return nil, err
	}

	runPostCommit(ctx, s.log,
		postCommitHook{name: "application_count_increment", run: func(ctx context.Context) error {
			_, err := s.counters.Increment(ctx, jobID, job.CounterApplications, 1)
			return err
		}},
		postCommitHook{name: "notify_application_submitted", run: func(ctx context.Context) error {
			return s.notifications.NotifyApplicationSubmitted(ctx, posting.CompanyID, posting.Title)
		}},
		postCommitHook{name: "invalidate_applicant_cache", run: func(ctx context.Context) error {
			s.cache.InvalidateUserApplications(ctx, applicantID.String())
			s.cache.InvalidateJob(ctx, jobID.String(), posting.CompanyID.String())
			return nil
		}},
	)
	return created, nil
}

func (s *ApplicationService) ChangeStatus(ctx context.Context, applicationID common.UUID, newStatus application.Status, actorID common.UUID, actorRole user.Role) (*application.Application, error) {
	if !application.IsKnown(newStatus) {
		return nil, common.NewValidationError("invalid status", map[string]string{"status": "status must be pending, reviewing, interviewed, accepted, rejected, or withdrawn"})
	}
	app, err := s.repo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if err := authorizeStatusChange(app, newStatus, actorID, actorRole); err != nil {
		return nil, err
	}
	if actorRole == user.RoleRecruiter {
		posting, err := s.jobs.GetByID(ctx, app.JobID)
		if err != nil {
			return nil, err
		}
		if posting.CompanyID != actorID {
			return nil, common.NewError(common.CodeUnauthorized, "application belongs to another company", nil)
		}
	}
	if application.IsTerminal(app.Status) {
		return nil, common.NewError(common.CodeInvalidState, "application status is final", nil)
	}
	if !application.CanTransition(app.Status, newStatus) {
		return nil, common.NewError(common.CodeInvalidState, "invalid status transition", nil)
	}

	updated, err := s.repo.TransitionStatus(ctx, applicationID, app.Status, newStatus)
	if err != nil {
		return nil, err
	}

	runPostCommit(ctx, s.log,
		postCommitHook{name: "notify_application_status", run: func(ctx context.Context) error {
			posting, err := s.jobs.GetByID(ctx, app.JobID)
			if err != nil {
				return err
			}
			return s.notifications.NotifyApplicationStatus(ctx, app.ApplicantID, posting.Title, string(newStatus))
		}},
		postCommitHook{name: "invalidate_applicant_cache", run: func(ctx context.Context) error {
			s.cache.InvalidateUserApplications(ctx, app.ApplicantID.String())
			return nil
		}},
	)
	return updated, nil
}

// authorizeStatusChange enforces the role and ownership rules of the review
// lifecycle: only the applicant may withdraw, and only on their own
// application; recruiters and admins drive every other edge.
func authorizeStatusChange(app *application.Application, newStatus application.Status, actorID common.UUID, actorRole user.Role) error {
	switch actorRole {
	case user.RoleApplicant:
		if app.ApplicantID != actorID {
			return common.NewError(common.CodeUnauthorized, "application belongs to another user", nil)
		}
		if newStatus != application.StatusWithdrawn {
			return common.NewError(common.CodeUnauthorized, "applicants may only withdraw their application", nil)
		}
	case user.RoleRecruiter, user.RoleAdmin:
		if newStatus == application.StatusWithdrawn {
			return common.NewError(common.CodeUnauthorized, "only the applicant may withdraw", nil)
		}
	default:
		return common.NewError(common.CodeUnauthorized, "insufficient role", nil)
	}
	return nil
}

func (s *ApplicationService) Withdraw(ctx context.Context, applicationID, applicantID common.UUID) (*application.Application, error) {
	return s.ChangeStatus(ctx, applicationID, application.StatusWithdrawn, applicantID, user.RoleApplicant)
}

// Remove decrements the owning job's application counter, then deletes the
// row. The record is hard-deleted; the uniqueness index ignores withdrawn
// rows, so a removed applicant can apply again.
func (s *ApplicationService) Remove(ctx context.Context, applicationID common.UUID) error {
	app, err := s.repo.GetByID(ctx, applicationID)
	if err != nil {
		return err
	}
	if _, err := s.counters.Decrement(ctx, app.JobID, job.CounterApplications, 1); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, applicationID); err != nil {
		return err
	}
	runPostCommit(ctx, s.log,
		postCommitHook{name: "invalidate_applicant_cache", run: func(ctx context.Context) error {
			s.cache.InvalidateUserApplications(ctx, app.ApplicantID.String())
			return nil
		}},
	)
	return nil
}

func (s *ApplicationService) Get(ctx context.Context, id common.UUID) (*application.Application, error) {
	return s.repo.GetByID(ctx, id)
}

// ListByApplicant reads through the cache; a miss or a broken cache falls
// back to the persistence store and repopulates.
func (s *ApplicationService) ListByApplicant(ctx context.Context, applicantID common.UUID, limit, offset int) ([]application.Application, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	key := cache.UserApplicationsKey(applicantID.String())
	if offset == 0 {
		var cached []application.Application
		if s.cache.GetJSON(ctx, key, &cached) {
			return cached, nil
		}
	}
	items, err := s.repo.ListByApplicant(ctx, applicantID, limit, offset)
	if err != nil {
		return nil, err
	}
	if offset == 0 {
		s.cache.SetJSON(ctx, key, items)
	}
	return items, nil
}

// ListByJob serves the applicant list to the owning recruiter or an admin.
// The role gate at the boundary is not enough: ownership is re-validated
// against the posting, like every other recruiter-driven operation.
func (s *ApplicationService) ListByJob(ctx context.Context, jobID, actorID common.UUID, actorRole user.Role, limit, offset int) ([]application.Application, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	posting, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	switch actorRole {
	case user.RoleAdmin:
	case user.RoleRecruiter:
		if posting.CompanyID != actorID {
			return nil, common.NewError(common.CodeUnauthorized, "job belongs to another company", nil)
		}
	default:
		return nil, common.NewError(common.CodeUnauthorized, "insufficient role", nil)
	}
	return s.repo.ListByJob(ctx, jobID, limit, offset)
}
