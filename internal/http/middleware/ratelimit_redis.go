package middleware

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// limiterTimeout bounds the Redis round trip on the request path. Past it
// the limiter fails open: throttling is protection, not correctness.
const limiterTimeout = 250 * time.Millisecond

// counterScript counts hits in a fixed window keyed by the caller. The
// window TTL is armed on the first hit; ARGV[1] is the limit, ARGV[2] the
// window in milliseconds.
const counterScript = `
local hits = redis.call("INCR", KEYS[1])
if hits == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
if hits > tonumber(ARGV[1]) then
  return 0
end
return 1
`

// SubmitKey derives the throttle key for the application submit path: one
// window per applicant per posting.
func SubmitKey(jobID, applicantID string) string {
	return "hirelane:ratelimit:submit:" + jobID + ":" + applicantID
}

// RedisLimiter shares one counter window per key across all instances.
type RedisLimiter struct {
	client *redis.Client
	script *redis.Script
}

func NewRedisLimiter(client *redis.Client) *RedisLimiter {
	if client == nil {
		return nil
	}
	return &RedisLimiter{
		client: client,
		script: redis.NewScript(counterScript),
	}
}

func (l *RedisLimiter) Allow(key string, limit int, window time.Duration) bool {
	if l == nil || l.client == nil {
		return true
	}
	if key == "" || limit <= 0 || window <= 0 {
		return true
	}
	windowMs := window.Milliseconds()
	if windowMs <= 0 {
		windowMs = 1
	}
	ctx, cancel := context.WithTimeout(context.Background(), limiterTimeout)
	defer cancel()
	allowed, err := l.script.Run(ctx, l.client, []string{key}, limit, windowMs).Int64()
	if err != nil {
		return true
	}
	return allowed == 1
}
