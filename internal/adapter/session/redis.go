package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "session:"

// RedisStore keeps session state in Redis so counters survive restarts and
// replicas agree on them.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed store whose keys expire after ttl.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Load returns the stored state for sid. A corrupt payload is treated as
// absent; sessions are disposable.
func (r *RedisStore) Load(ctx context.Context, sid string) (State, bool, error) {
	raw, err := r.client.Get(ctx, redisKeyPrefix+sid).Bytes()
	if errors.Is(err, redis.Nil) {
		return State{}, false, nil
	}
	if err != nil {
		return State{}, false, fmt.Errorf("op=session.RedisStore.Load: %w", err)
	}
	var st State
	if err := json.Unmarshal(raw, &st); err != nil {
		return State{}, false, nil
	}
	return st, true, nil
}

// Save stores the state for sid with a refreshed TTL.
func (r *RedisStore) Save(ctx context.Context, sid string, st State) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("op=session.RedisStore.Save: %w", err)
	}
	if err := r.client.Set(ctx, redisKeyPrefix+sid, raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("op=session.RedisStore.Save: %w", err)
	}
	return nil
}

// Ping reports backend health for readiness checks.
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// WaitReady pings Redis with exponential backoff so startup tolerates the
// backend coming up slower than the service.
func (r *RedisStore) WaitReady(ctx context.Context, maxElapsed time.Duration) error {
	expo := backoff.NewExponentialBackOff()
	expo.MaxElapsedTime = maxElapsed

	op := func() error {
		return r.client.Ping(ctx).Err()
	}
	if err := backoff.Retry(op, backoff.WithContext(expo, ctx)); err != nil {
		return fmt.Errorf("op=session.RedisStore.WaitReady: %w", err)
	}
	return nil
}
