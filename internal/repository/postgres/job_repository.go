package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"hirelane/internal/common"
	"hirelane/internal/domain/job"
)

const jobColumns = `id, company_id, title, description, requirements, conditions, salary, location, status, moderation_note, expires_at, view_count, save_count, application_count, created_at, updated_at`

type JobRepository struct {
	db *sql.DB
}

func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{db: db}
}

func (r *JobRepository) Create(ctx context.Context, posting job.Job) (*job.Job, error) {
	posting.ID = common.NewUUID()
	now := time.Now().UTC()
	posting.CreatedAt = now
	posting.UpdatedAt = now
	if posting.Status == "" {
		posting.Status = job.StatusPending
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO jobs (id, company_id, title, description, requirements, conditions, salary, location, status, moderation_note, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		posting.ID, posting.CompanyID, posting.Title, posting.Description, pq.Array(posting.Requirements), pq.Array(posting.Conditions), posting.Salary, posting.Location, posting.Status, posting.ModerationNote, posting.ExpiresAt, posting.CreatedAt, posting.UpdatedAt)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to create job", err)
	}
	return &posting, nil
}

func (r *JobRepository) GetByID(ctx context.Context, id common.UUID) (*job.Job, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)
	posting, err := scanJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "job not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load job", err)
	}
	return posting, nil
}

func (r *JobRepository) ListPending(ctx context.Context, limit, offset int) ([]job.Job, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE status = $1 ORDER BY created_at ASC LIMIT $2 OFFSET $3`,
		job.StatusPending, limit, offset)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list pending jobs", err)
	}
	return collectJobs(rows)
}

func (r *JobRepository) ListActive(ctx context.Context, filter job.ListFilter) ([]job.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE status = $1`
	args := []any{job.StatusActive}
	if filter.Location != "" {
		args = append(args, filter.Location)
		query += fmt.Sprintf(" AND location = $%d", len(args))
	}
	if filter.Keyword != "" {
		args = append(args, "%"+filter.Keyword+"%")
		query += fmt.Sprintf(" AND (title ILIKE $%d OR description ILIKE $%d)", len(args), len(args))
	}
	args = append(args, filter.Limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))
	args = append(args, filter.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list active jobs", err)
	}
	return collectJobs(rows)
}

func (r *JobRepository) ListByCompany(ctx context.Context, companyID common.UUID) ([]job.Job, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE company_id = $1 ORDER BY created_at DESC`, companyID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list company jobs", err)
	}
	return collectJobs(rows)
}

func (r *JobRepository) TransitionStatus(ctx context.Context, id common.UUID, from, to job.Status, moderationNote string) (*job.Job, error) {
	updatedAt := time.Now().UTC()
	result, err := r.db.ExecContext(ctx, `UPDATE jobs SET status = $1, moderation_note = $2, updated_at = $3 WHERE id = $4 AND status = $5`,
		to, moderationNote, updatedAt, id, from)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update job status", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return nil, common.NewError(common.CodeInvalidState, "job status changed concurrently", nil)
	}
	return r.GetByID(ctx, id)
}

// AdjustCounter is a single atomic update, never read-modify-write, so
// concurrent views/saves/applications on the same posting cannot lose
// increments. The value is clamped at zero; the prior value is captured in
// the same statement so callers can tell a clamp from a legitimate landing
// on zero.
func (r *JobRepository) AdjustCounter(ctx context.Context, id common.UUID, field job.CounterField, delta int) (int, bool, error) {
	if !job.ValidCounterField(field) {
		return 0, false, common.NewError(common.CodeValidation, "unknown counter field", nil)
	}
	column := string(field)
	query := fmt.Sprintf(`WITH prev AS (SELECT %s AS value FROM jobs WHERE id = $3)
		UPDATE jobs SET %s = GREATEST(%s + $1, 0), updated_at = $2 WHERE id = $3
		RETURNING %s, (SELECT value FROM prev)`, column, column, column, column)
	var value, prior int
	err := r.db.QueryRowContext(ctx, query, delta, time.Now().UTC(), id).Scan(&value, &prior)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, common.NewError(common.CodeNotFound, "job not found", err)
		}
		return 0, false, common.NewError(common.CodeInternal, "failed to adjust counter", err)
	}
	return value, prior+delta < 0, nil
}

func (r *JobRepository) ListExpired(ctx context.Context, now time.Time) ([]job.Job, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE status = $1 AND expires_at < $2`, job.StatusActive, now.UTC())
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list expired jobs", err)
	}
	return collectJobs(rows)
}

func (r *JobRepository) MarkExpired(ctx context.Context, id common.UUID, now time.Time) (bool, error) {
	result, err := r.db.ExecContext(ctx, `UPDATE jobs SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4 AND expires_at < $5`,
		job.StatusInactive, time.Now().UTC(), id, job.StatusActive, now.UTC())
	if err != nil {
		return false, common.NewError(common.CodeInternal, "failed to expire job", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, common.NewError(common.CodeInternal, "failed to expire job", err)
	}
	return rows > 0, nil
}

func (r *JobRepository) ListExpiringBetween(ctx context.Context, from, to time.Time) ([]job.Job, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE status = $1 AND expires_at > $2 AND expires_at <= $3 ORDER BY company_id, expires_at`,
		job.StatusActive, from.UTC(), to.UTC())
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list expiring jobs", err)
	}
	return collectJobs(rows)
}

func (r *JobRepository) CountByStatus(ctx context.Context) (map[job.Status]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM jobs GROUP BY status`)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to count jobs", err)
	}
	defer rows.Close()
	counts := make(map[job.Status]int)
	for rows.Next() {
		var status job.Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan job count", err)
		}
		counts[normalizeJobStatus(status)] = count
	}
	return counts, nil
}

func (r *JobRepository) CountActiveExpiringWithin(ctx context.Context, now time.Time, window time.Duration) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM jobs WHERE status = $1 AND expires_at > $2 AND expires_at <= $3`,
		job.StatusActive, now.UTC(), now.UTC().Add(window)).Scan(&count)
	if err != nil {
		return 0, common.NewError(common.CodeInternal, "failed to count expiring jobs", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*job.Job, error) {
	var posting job.Job
	if err := row.Scan(&posting.ID, &posting.CompanyID, &posting.Title, &posting.Description, pq.Array(&posting.Requirements), pq.Array(&posting.Conditions), &posting.Salary, &posting.Location, &posting.Status, &posting.ModerationNote, &posting.ExpiresAt, &posting.ViewCount, &posting.SaveCount, &posting.ApplicationCount, &posting.CreatedAt, &posting.UpdatedAt); err != nil {
		return nil, err
	}
	posting.Status = normalizeJobStatus(posting.Status)
	return &posting, nil
}

func collectJobs(rows *sql.Rows) ([]job.Job, error) {
	defer rows.Close()
	var items []job.Job
	for rows.Next() {
		posting, err := scanJob(rows)
		if err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan job", err)
		}
		items = append(items, *posting)
	}
	return items, nil
}

func normalizeJobStatus(status job.Status) job.Status {
	return job.Status(strings.ToLower(strings.TrimSpace(string(status))))
}
