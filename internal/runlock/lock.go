// Package runlock provides a Redis-backed single-flight lock. Batch
// re-moderation must never overlap with itself: two runs would both observe
// the same not-yet-redacted comments and double-apply store writes, so
// every runner takes this lock first, whichever process it lives in.
package runlock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseLua deletes the lock key only if this lock instance still owns it,
// so a run that outlived its TTL cannot release a successor's lock.
const releaseLua = `
if redis.call('GET', KEYS[1]) == ARGV[1] then
    return redis.call('DEL', KEYS[1])
end
return 0
`

// Lock is a named single-flight lock. Each instance carries its own owner
// token; Acquire and Release pair on that token.
type Lock struct {
	client        *redis.Client
	key           string
	ttl           time.Duration
	token         string
	releaseScript *redis.Script
}

// New creates a lock on the given key. The TTL bounds how long a crashed
// holder can block the next run.
func New(client *redis.Client, key string, ttl time.Duration) *Lock {
	return &Lock{
		client:        client,
		key:           key,
		ttl:           ttl,
		token:         uuid.NewString(),
		releaseScript: redis.NewScript(releaseLua),
	}
}

// Acquire attempts to take the lock. Returns false when another holder has
// it; Redis errors are returned as-is.
func (l *Lock) Acquire(ctx context.Context) (bool, error) {
	ok, err := l.client.SetNX(ctx, l.key, l.token, l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("runlock: acquire %s: %w", l.key, err)
	}
	return ok, nil
}

// Release drops the lock if this instance still owns it. Releasing a lock
// that expired or was taken over is a no-op, not an error.
func (l *Lock) Release(ctx context.Context) error {
	if err := l.releaseScript.Run(ctx, l.client, []string{l.key}, l.token).Err(); err != nil {
		return fmt.Errorf("runlock: release %s: %w", l.key, err)
	}
	return nil
}
