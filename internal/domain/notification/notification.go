package notification

import (
	"context"
	"time"

	"hirelane/internal/common"
)

type Notification struct {
	ID          common.UUID `json:"id"`
	RecipientID common.UUID `json:"recipient_id"`
	Content     string      `json:"content"`
	IsRead      bool        `json:"is_read"`
	CreatedAt   time.Time   `json:"created_at"`
}

// Repository mutations are recipient-scoped: acting on another recipient's
// notification fails not_found so existence is never leaked.
type Repository interface {
	Create(ctx context.Context, n Notification) (*Notification, error)
	ListByRecipient(ctx context.Context, recipientID common.UUID, limit, offset int) ([]Notification, error)
	CountUnread(ctx context.Context, recipientID common.UUID) (int, error)
	MarkRead(ctx context.Context, id, recipientID common.UUID) error
	MarkAllRead(ctx context.Context, recipientID common.UUID) error
	Delete(ctx context.Context, id, recipientID common.UUID) error
}
