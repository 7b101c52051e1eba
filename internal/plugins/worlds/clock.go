package worlds

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// ClockStore holds the live worldTime counter per world. Advancement is
// atomic so concurrent ticks from multiple clients cannot lose seconds.
type ClockStore interface {
	// Current returns the counter and whether a live value exists.
	Current(ctx context.Context, worldID string) (int64, bool, error)

	// Set overwrites the counter.
	Set(ctx context.Context, worldID string, worldTime int64) error

	// Advance adds delta seconds (may be negative) and returns the new
	// counter value.
	Advance(ctx context.Context, worldID string, delta int64) (int64, error)

	// Forget drops the live counter, e.g. when a world is deleted.
	Forget(ctx context.Context, worldID string) error
}

// redisClock is the Redis implementation of ClockStore.
type redisClock struct {
	rdb *redis.Client
}

// NewClockStore creates a Redis-backed clock store.
func NewClockStore(rdb *redis.Client) ClockStore {
	return &redisClock{rdb: rdb}
}

func clockKey(worldID string) string {
	return "worldclock:" + worldID
}

func (s *redisClock) Current(ctx context.Context, worldID string) (int64, bool, error) {
	val, err := s.rdb.Get(ctx, clockKey(worldID)).Int64()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("reading world clock: %w", err)
	}
	return val, true, nil
}

func (s *redisClock) Set(ctx context.Context, worldID string, worldTime int64) error {
	if err := s.rdb.Set(ctx, clockKey(worldID), worldTime, 0).Err(); err != nil {
		return fmt.Errorf("setting world clock: %w", err)
	}
	return nil
}

func (s *redisClock) Advance(ctx context.Context, worldID string, delta int64) (int64, error) {
	val, err := s.rdb.IncrBy(ctx, clockKey(worldID), delta).Result()
	if err != nil {
		return 0, fmt.Errorf("advancing world clock: %w", err)
	}
	return val, nil
}

func (s *redisClock) Forget(ctx context.Context, worldID string) error {
	if err := s.rdb.Del(ctx, clockKey(worldID)).Err(); err != nil {
		return fmt.Errorf("dropping world clock: %w", err)
	}
	return nil
}
