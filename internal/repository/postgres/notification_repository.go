package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"hirelane/internal/common"
	"hirelane/internal/domain/notification"
)

type NotificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n notification.Notification) (*notification.Notification, error) {
	n.ID = common.NewUUID()
	n.IsRead = false
	n.CreatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `INSERT INTO notifications (id, recipient_id, content, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		n.ID, n.RecipientID, n.Content, n.IsRead, n.CreatedAt)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to create notification", err)
	}
	return &n, nil
}

func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientID common.UUID, limit, offset int) ([]notification.Notification, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, recipient_id, content, is_read, created_at FROM notifications
		WHERE recipient_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, recipientID, limit, offset)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list notifications", err)
	}
	defer rows.Close()
	var items []notification.Notification
	for rows.Next() {
		var n notification.Notification
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.Content, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan notification", err)
		}
		items = append(items, n)
	}
	return items, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, recipientID common.UUID) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND is_read = FALSE`, recipientID).Scan(&count)
	if err != nil {
		return 0, common.NewError(common.CodeInternal, "failed to count unread notifications", err)
	}
	return count, nil
}

// MarkRead scopes by recipient so a foreign notification reads as absent.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, recipientID common.UUID) error {
	result, err := r.db.ExecContext(ctx, `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND recipient_id = $2`, id, recipientID)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to mark notification read", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return common.NewError(common.CodeNotFound, "notification not found", sql.ErrNoRows)
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, recipientID common.UUID) error {
	_, err := r.db.ExecContext(ctx, `UPDATE notifications SET is_read = TRUE WHERE recipient_id = $1 AND is_read = FALSE`, recipientID)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to mark notifications read", err)
	}
	return nil
}

func (r *NotificationRepository) Delete(ctx context.Context, id, recipientID common.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE id = $1 AND recipient_id = $2`, id, recipientID)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to delete notification", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return common.NewError(common.CodeNotFound, "notification not found", errors.New("no rows deleted"))
	}
	return nil
}
