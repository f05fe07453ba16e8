package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"
)

// ErrMiss is returned by Store.Get when the key is absent or expired.
var ErrMiss = errors.New("cache: miss")

// Store is the pluggable key-value backend. Redis serves production,
// Memory serves tests; workflow code only ever sees this contract.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	// DeletePattern removes every key matching a glob-style pattern. This is
	// a scan over the backing store, O(matching keys) — not O(1). Callers on
	// high-frequency mutation paths should batch or rate-limit it.
	DeletePattern(ctx context.Context, pattern string) (int, error)
}

// Cache wraps a Store with the degradation contract: any backend failure is
// caught and logged here and never surfaces to the calling workflow
// operation. A miss or a broken backend both read as "not cached".
type Cache struct {
	store Store
	ttl   time.Duration
	log   *zap.SugaredLogger
}

func New(store Store, ttl time.Duration, log *zap.SugaredLogger) *Cache {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Cache{store: store, ttl: ttl, log: log}
}

// GetJSON loads and decodes a cached projection. It reports false on miss,
// decode failure, or backend failure; callers fall through to persistence.
func (c *Cache) GetJSON(ctx context.Context, key string, dest any) bool {
	if c == nil || c.store == nil {
		return false
	}
	raw, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			c.log.Warnw("cache get failed", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		c.log.Warnw("cache entry corrupt, dropping", "key", key, "error", err)
		_ = c.store.Delete(ctx, key)
		return false
	}
	return true
}

func (c *Cache) SetJSON(ctx context.Context, key string, value any) {
	if c == nil || c.store == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		c.log.Warnw("cache encode failed", "key", key, "error", err)
		return
	}
	if err := c.store.Set(ctx, key, string(raw), c.ttl); err != nil {
		c.log.Warnw("cache set failed", "key", key, "error", err)
	}
}

func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || c.store == nil || len(keys) == 0 {
		return
	}
	if err := c.store.Delete(ctx, keys...); err != nil {
		c.log.Warnw("cache invalidation failed", "keys", keys, "error", err)
	}
}

func (c *Cache) InvalidatePattern(ctx context.Context, pattern string) {
	if c == nil || c.store == nil {
		return
	}
	if _, err := c.store.DeletePattern(ctx, pattern); err != nil {
		c.log.Warnw("cache pattern invalidation failed", "pattern", pattern, "error", err)
	}
}

// InvalidateJob drops every key that can hold a stale projection of the
// given posting: its detail key, the owning company's detail key, and all
// parameterized list views.
func (c *Cache) InvalidateJob(ctx context.Context, jobID, companyID string) {
	c.Invalidate(ctx, JobKey(jobID), CompanyKey(companyID))
	c.InvalidatePattern(ctx, JobListPattern())
}

// InvalidateUserApplications drops the applicant's cached application list.
func (c *Cache) InvalidateUserApplications(ctx context.Context, userID string) {
	c.Invalidate(ctx, UserApplicationsKey(userID))
}
