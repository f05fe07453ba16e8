package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// brokenStore fails every operation; the wrapper must absorb all of it.
type brokenStore struct{}

func (brokenStore) Get(context.Context, string) (string, error) {
	return "", errors.New("backend down")
}

func (brokenStore) Set(context.Context, string, string, time.Duration) error {
	return errors.New("backend down")
}

func (brokenStore) Delete(context.Context, ...string) error {
	return errors.New("backend down")
}

func (brokenStore) DeletePattern(context.Context, string) (int, error) {
	return 0, errors.New("backend down")
}

func TestCacheRoundTrip(t *testing.T) {
	c := New(NewMemory(), time.Minute, zap.NewNop().Sugar())
	ctx := context.Background()

	type payload struct {
		Name string `json:"name"`
	}
	c.SetJSON(ctx, "k", payload{Name: "x"})

	var got payload
	require.True(t, c.GetJSON(ctx, "k", &got))
	assert.Equal(t, "x", got.Name)

	c.Invalidate(ctx, "k")
	assert.False(t, c.GetJSON(ctx, "k", &got))
}

func TestCacheAbsorbsBackendFailures(t *testing.T) {
	c := New(brokenStore{}, time.Minute, zap.NewNop().Sugar())
	ctx := context.Background()

	c.SetJSON(ctx, "k", map[string]string{"a": "b"})
	var got map[string]string
	assert.False(t, c.GetJSON(ctx, "k", &got))
	c.Invalidate(ctx, "k")
	c.InvalidatePattern(ctx, "k*")
	c.InvalidateJob(ctx, "1", "2")
	c.InvalidateUserApplications(ctx, "1")
}

func TestCacheDropsCorruptEntries(t *testing.T) {
	store := NewMemory()
	c := New(store, time.Minute, zap.NewNop().Sugar())
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", "{not json", 0))

	var got map[string]string
	assert.False(t, c.GetJSON(ctx, "k", &got))
	// The corrupt entry is evicted so the next write starts clean.
	_, err := store.Get(ctx, "k")
	assert.True(t, errors.Is(err, ErrMiss))
}

func TestNilCacheIsSafe(t *testing.T) {
	var c *Cache
	ctx := context.Background()

	var got map[string]string
	assert.False(t, c.GetJSON(ctx, "k", &got))
	c.SetJSON(ctx, "k", got)
	c.Invalidate(ctx, "k")
	c.InvalidateJob(ctx, "1", "2")
}

func TestInvalidateJobDropsDetailAndListKeys(t *testing.T) {
	store := NewMemory()
	c := New(store, time.Minute, zap.NewNop().Sugar())
	ctx := context.Background()

	c.SetJSON(ctx, JobKey("1"), "a")
	c.SetJSON(ctx, CompanyKey("9"), "b")
	c.SetJSON(ctx, JobListKey(nil), "c")
	c.SetJSON(ctx, JobListKey(map[string]string{"location": "Berlin"}), "d")
	c.SetJSON(ctx, UserApplicationsKey("7"), "e")

	c.InvalidateJob(ctx, "1", "9")

	assert.Equal(t, 1, store.Len())
	var untouched string
	assert.True(t, c.GetJSON(ctx, UserApplicationsKey("7"), &untouched))
}
