package job

import (
	"context"
	"time"

	"hirelane/internal/common"
)

type Repository interface {
	Create(ctx context.Context, posting Job) (*Job, error)
	GetByID(ctx context.Context, id common.UUID) (*Job, error)
	ListPending(ctx context.Context, limit, offset int) ([]Job, error)
	ListActive(ctx context.Context, filter ListFilter) ([]Job, error)
	ListByCompany(ctx context.Context, companyID common.UUID) ([]Job, error)

	// TransitionStatus performs a conditional status write guarded by the
	// current persisted status; it fails with invalid_state when the row
	// moved concurrently.
	TransitionStatus(ctx context.Context, id common.UUID, from, to Status, moderationNote string) (*Job, error)

	// AdjustCounter atomically adds delta to the given counter, clamped at
	// zero. It returns the resulting value and whether the clamp fired,
	// i.e. the unclamped result would have been negative.
	AdjustCounter(ctx context.Context, id common.UUID, field CounterField, delta int) (value int, clamped bool, err error)

	ListExpired(ctx context.Context, now time.Time) ([]Job, error)
	// MarkExpired deactivates a single expired posting; it reports false when
	// another sweep or mutation got there first.
	MarkExpired(ctx context.Context, id common.UUID, now time.Time) (bool, error)
	ListExpiringBetween(ctx context.Context, from, to time.Time) ([]Job, error)

	CountByStatus(ctx context.Context) (map[Status]int, error)
	CountActiveExpiringWithin(ctx context.Context, now time.Time, window time.Duration) (int, error)
}
