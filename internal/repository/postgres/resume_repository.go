package postgres

import (
	"context"
	"database/sql"
	"errors"

	"hirelane/internal/common"
	"hirelane/internal/domain/resume"
)

type ResumeRepository struct {
	db *sql.DB
}

func NewResumeRepository(db *sql.DB) *ResumeRepository {
	return &ResumeRepository{db: db}
}

func (r *ResumeRepository) GetByID(ctx context.Context, id common.UUID) (*resume.Resume, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, owner_id, title, file_url, created_at, updated_at FROM resumes WHERE id = $1`, id)
	var item resume.Resume
	if err := row.Scan(&item.ID, &item.OwnerID, &item.Title, &item.FileURL, &item.CreatedAt, &item.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "resume not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load resume", err)
	}
	return &item, nil
}
