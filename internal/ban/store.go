// Package ban provides Redis-backed account bans applied when moderation
// returns a ban verdict. Ban records are simple key-value pairs with
// TTL-based expiry:
//
//	Key:   modban:<user_id>
//	Value: <reason>
//	TTL:   ban duration
//
// Durations escalate with repeat offenses, tracked by a TTL'd counter.
package ban

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// BanPrefix is the Redis key prefix for ban records.
	BanPrefix = "modban:"

	// OffensesPrefix is the Redis key prefix for offense counters.
	OffensesPrefix = "modoffenses:"

	// Escalating ban durations by offense count.
	Ban15Min  = 15 * time.Minute // 1st offense
	Ban1Hour  = 1 * time.Hour    // 2nd offense
	Ban24Hour = 24 * time.Hour   // 3rd+ offense

	// OffensesTTL is how long the offense counter lives. After 24h without
	// a new ban verdict the counter resets to zero.
	OffensesTTL = 24 * time.Hour
)

// Store manages ban records in Redis. The comment API consults IsBanned
// before accepting submissions; the moderator worker calls Escalate when a
// verdict's action is ban.
type Store struct {
	client *redis.Client
}

// NewStore creates a ban store using the provided Redis client.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// IsBanned checks whether a user is currently banned.
// Returns (isBanned, remainingSeconds, reason, error). Redis errors are
// returned so callers can decide how to handle them.
func (s *Store) IsBanned(ctx context.Context, userID string) (bool, int, string, error) {
	key := BanPrefix + userID

	reason, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, 0, "", nil
	}
	if err != nil {
		return false, 0, "", err
	}

	ttl, err := s.client.TTL(ctx, key).Result()
	if err != nil {
		// The ban exists but the TTL read failed. Report banned with 0
		// remaining rather than swallowing the ban.
		return true, 0, reason, nil
	}

	remaining := 0
	if ttl > 0 {
		remaining = int(ttl.Seconds())
	}

	return true, remaining, reason, nil
}

// Ban sets a ban on a user with the given duration and reason. The ban
// expires automatically.
func (s *Store) Ban(ctx context.Context, userID string, duration time.Duration, reason string) error {
	key := BanPrefix + userID
	return s.client.Set(ctx, key, reason, duration).Err()
}

// Unban lifts a user's ban immediately.
func (s *Store) Unban(ctx context.Context, userID string) error {
	key := BanPrefix + userID
	return s.client.Del(ctx, key).Err()
}

// escalationDuration returns the ban duration for a given offense count.
func escalationDuration(offenseCount int) time.Duration {
	switch {
	case offenseCount <= 1:
		return Ban15Min
	case offenseCount == 2:
		return Ban1Hour
	default:
		return Ban24Hour
	}
}

// OffenseCount returns the user's current offense counter. Returns 0 if
// the key does not exist (no offenses recorded or counter expired).
func (s *Store) OffenseCount(ctx context.Context, userID string) (int, error) {
	key := OffensesPrefix + userID
	val, err := s.client.Get(ctx, key).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return val, nil
}

// Escalate increments the user's offense counter and applies a ban whose
// duration escalates with the number of offenses:
//
//	1st offense  -> 15 minutes
//	2nd offense  -> 1 hour
//	3rd+ offense -> 24 hours
//
// The counter TTL is set on first increment only, so the 24h window does
// not slide. Returns the applied ban duration.
func (s *Store) Escalate(ctx context.Context, userID string, reason string) (time.Duration, error) {
	key := OffensesPrefix + userID

	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("ban: escalate incr: %w", err)
	}

	if count == 1 {
		if err := s.client.Expire(ctx, key, OffensesTTL).Err(); err != nil {
			return 0, fmt.Errorf("ban: escalate expire: %w", err)
		}
	}

	duration := escalationDuration(int(count))
	if err := s.Ban(ctx, userID, duration, reason); err != nil {
		return 0, fmt.Errorf("ban: escalate ban: %w", err)
	}

	return duration, nil
}
