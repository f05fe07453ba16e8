package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"hirelane/internal/common"
	"hirelane/internal/domain/notification"
	"hirelane/internal/domain/user"
)

// NotificationService persists notification records and renders the typed
// workflow messages. Callers on lifecycle paths invoke it through post-commit
// hooks, so a dispatch failure never reaches the workflow caller.
type NotificationService struct {
	repo  notification.Repository
	users user.Repository
	log   *zap.SugaredLogger
}

func NewNotificationService(repo notification.Repository, users user.Repository, log *zap.SugaredLogger) *NotificationService {
	return &NotificationService{repo: repo, users: users, log: log}
}

func (s *NotificationService) Create(ctx context.Context, recipientID common.UUID, content string) (*notification.Notification, error) {
	if content == "" {
		return nil, common.NewError(common.CodeValidation, "content is required", nil)
	}
	return s.repo.Create(ctx, notification.Notification{RecipientID: recipientID, Content: content})
}

// NotifyApplicationSubmitted tells the job owner a new application arrived.
func (s *NotificationService) NotifyApplicationSubmitted(ctx context.Context, ownerID common.UUID, jobTitle string) error {
	content := fmt.Sprintf("You received a new application for %q.", jobTitle)
	_, err := s.Create(ctx, ownerID, content)
	return err
}

// NotifyApplicationStatus tells the applicant their application moved.
func (s *NotificationService) NotifyApplicationStatus(ctx context.Context, applicantID common.UUID, jobTitle, status string) error {
	content := fmt.Sprintf("Your application for %q is now %s.", jobTitle, status)
	_, err := s.Create(ctx, applicantID, content)
	return err
}

func (s *NotificationService) NotifyJobApproved(ctx context.Context, ownerID common.UUID, jobTitle string) error {
	content := fmt.Sprintf("Your job posting %q has been approved and is now live.", jobTitle)
	_, err := s.Create(ctx, ownerID, content)
	return err
}

// NotifyJobRejected includes the moderation reason verbatim when present.
func (s *NotificationService) NotifyJobRejected(ctx context.Context, ownerID common.UUID, jobTitle, reason string) error {
	content := fmt.Sprintf("Your job posting %q has been rejected.", jobTitle)
	if reason != "" {
		content = fmt.Sprintf("Your job posting %q has been rejected: %s", jobTitle, reason)
	}
	_, err := s.Create(ctx, ownerID, content)
	return err
}

// NotifyJobSubmitted fans out one row per admin and keeps going past
// individual failures; it reports the first error only after every admin was
// attempted.
func (s *NotificationService) NotifyJobSubmitted(ctx context.Context, jobTitle, companyName string) error {
	admins, err := s.users.ListAdmins(ctx)
	if err != nil {
		return err
	}
	content := fmt.Sprintf("New job posting %q from %s is waiting for review.", jobTitle, companyName)
	var firstErr error
	for _, admin := range admins {
		if _, err := s.Create(ctx, admin.ID, content); err != nil {
			s.log.Warnw("admin notification failed", "admin_id", admin.ID, "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// NotifyExpiringSoon sends a company one aggregated warning covering all of
// its postings that expire within the advance-warning window.
func (s *NotificationService) NotifyExpiringSoon(ctx context.Context, companyID common.UUID, titles []string) error {
	if len(titles) == 0 {
		return nil
	}
	content := fmt.Sprintf("%d of your job postings expire within 3 days: %s", len(titles), joinTitles(titles))
	_, err := s.Create(ctx, companyID, content)
	return err
}

func joinTitles(titles []string) string {
	out := ""
	for i, title := range titles {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%q", title)
	}
	return out
}

func (s *NotificationService) ListForUser(ctx context.Context, recipientID common.UUID, limit, offset int) ([]notification.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListByRecipient(ctx, recipientID, limit, offset)
}

func (s *NotificationService) UnreadCount(ctx context.Context, recipientID common.UUID) (int, error) {
	return s.repo.CountUnread(ctx, recipientID)
}

func (s *NotificationService) MarkRead(ctx context.Context, id, recipientID common.UUID) error {
	return s.repo.MarkRead(ctx, id, recipientID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, recipientID common.UUID) error {
	return s.repo.MarkAllRead(ctx, recipientID)
}

func (s *NotificationService) Delete(ctx context.Context, id, recipientID common.UUID) error {
	return s.repo.Delete(ctx, id, recipientID)
}
