package application

import (
	"context"

	"hirelane/internal/common"
)

type Repository interface {
	// Create inserts the application relying on the partial unique index over
	// (job_id, applicant_id) for non-withdrawn rows; a duplicate surfaces as
	// a conflict error, never as a second row.
	Create(ctx context.Context, app Application) (*Application, error)
	GetByID(ctx context.Context, id common.UUID) (*Application, error)
	ListByApplicant(ctx context.Context, applicantID common.UUID, limit, offset int) ([]Application, error)
	ListByJob(ctx context.Context, jobID common.UUID, limit, offset int) ([]Application, error)

	// TransitionStatus writes the new status guarded by the current one.
	TransitionStatus(ctx context.Context, id common.UUID, from, to Status) (*Application, error)
	Delete(ctx context.Context, id common.UUID) error
}
