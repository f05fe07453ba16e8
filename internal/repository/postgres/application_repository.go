package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"hirelane/internal/common"
	"hirelane/internal/domain/application"
)

const applicationColumns = `id, job_id, applicant_id, resume_id, status, applied_at, updated_at`

// The applications table carries a partial unique index over
// (job_id, applicant_id) WHERE status <> 'withdrawn', so duplicate
// submission is resolved at insert time instead of a racy
// check-then-insert.
type ApplicationRepository struct {
	db *sql.DB
}

func NewApplicationRepository(db *sql.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func (r *ApplicationRepository) Create(ctx context.Context, app application.Application) (*application.Application, error) {
	app.ID = common.NewUUID()
	now := time.Now().UTC()
	app.AppliedAt = now
	app.UpdatedAt = now
	if app.Status == "" {
		app.Status = application.StatusPending
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO applications (id, job_id, applicant_id, resume_id, status, applied_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		app.ID, app.JobID, app.ApplicantID, app.ResumeID, app.Status, app.AppliedAt, app.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.NewError(common.CodeConflict, "application already exists", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to create application", err)
	}
	return &app, nil
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id common.UUID) (*application.Application, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)
	var app application.Application
	if err := row.Scan(&app.ID, &app.JobID, &app.ApplicantID, &app.ResumeID, &app.Status, &app.AppliedAt, &app.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "application not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load application", err)
	}
	app.Status = normalizeApplicationStatus(app.Status)
	return &app, nil
}

func (r *ApplicationRepository) ListByApplicant(ctx context.Context, applicantID common.UUID, limit, offset int) ([]application.Application, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+applicationColumns+` FROM applications WHERE applicant_id = $1 ORDER BY applied_at DESC LIMIT $2 OFFSET $3`,
		applicantID, limit, offset)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list applications", err)
	}
	return collectApplications(rows)
}

func (r *ApplicationRepository) ListByJob(ctx context.Context, jobID common.UUID, limit, offset int) ([]application.Application, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+applicationColumns+` FROM applications WHERE job_id = $1 ORDER BY applied_at DESC LIMIT $2 OFFSET $3`,
		jobID, limit, offset)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list job applications", err)
	}
	return collectApplications(rows)
}

func (r *ApplicationRepository) TransitionStatus(ctx context.Context, id common.UUID, from, to application.Status) (*application.Application, error) {
	updatedAt := time.Now().UTC()
	result, err := r.db.ExecContext(ctx, `UPDATE applications SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`,
		to, updatedAt, id, from)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update application status", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return nil, common.NewError(common.CodeInvalidState, "application status changed concurrently", nil)
	}
	return r.GetByID(ctx, id)
}

func (r *ApplicationRepository) Delete(ctx context.Context, id common.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM applications WHERE id = $1`, id)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to delete application", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return common.NewError(common.CodeNotFound, "application not found", sql.ErrNoRows)
	}
	return nil
}

func collectApplications(rows *sql.Rows) ([]application.Application, error) {
	defer rows.Close()
	var items []application.Application
	for rows.Next() {
		var app application.Application
		if err := rows.Scan(&app.ID, &app.JobID, &app.ApplicantID, &app.ResumeID, &app.Status, &app.AppliedAt, &app.UpdatedAt); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan application", err)
		}
		app.Status = normalizeApplicationStatus(app.Status)
		items = append(items, app)
	}
	return items, nil
}

func normalizeApplicationStatus(status application.Status) application.Status {
	return application.Status(strings.ToLower(strings.TrimSpace(string(status))))
}

// isUniqueViolation matches Postgres error class 23505.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
