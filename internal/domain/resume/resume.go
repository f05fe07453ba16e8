package resume

import (
	"context"
	"time"

	"hirelane/internal/common"
)

type Resume struct {
	ID        common.UUID `json:"id"`
	OwnerID   common.UUID `json:"owner_id"`
	Title     string      `json:"title"`
	FileURL   string      `json:"file_url"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Repository is the read surface the workflow engine needs; resume CRUD
// itself lives outside this service.
type Repository interface {
	GetByID(ctx context.Context, id common.UUID) (*Resume, error)
}
