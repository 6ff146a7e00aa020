// Package occurrence persists fired-occurrence idempotency keys. A key is
// (schedule id, occurrence minute); marking is first-writer-wins, so a
// restarted or re-polled evaluator can replay a minute without double-firing.
package occurrence

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultGraceWindow is how long a fired key is retained. Anything older can
// never resolve as "due now" again, so keys expire instead of accumulating.
const DefaultGraceWindow = 15 * time.Minute

func key(scheduleID int, occ time.Time) string {
	return fmt.Sprintf("belfry:fired:%d:%d", scheduleID, occ.Unix())
}

// RedisStore records keys via SETNX with a grace-window TTL, which survives
// process restarts.
type RedisStore struct {
	client *redis.Client
	window time.Duration
}

func NewRedisStore(client *redis.Client, window time.Duration) *RedisStore {
	if window <= 0 {
		window = DefaultGraceWindow
	}
	return &RedisStore{client: client, window: window}
}

func (r *RedisStore) MarkFired(ctx context.Context, scheduleID int, occ time.Time) (bool, error) {
	ok, err := r.client.SetNX(ctx, key(scheduleID, occ), 1, r.window).Result()
	if err != nil {
		return false, fmt.Errorf("mark fired: %w", err)
	}
	return ok, nil
}

// MemoryStore is the Redis-free fallback. Keys older than the grace window are
// pruned on each call.
type MemoryStore struct {
	mu     sync.Mutex
	window time.Duration
	seen   map[string]time.Time
}

func NewMemoryStore(window time.Duration) *MemoryStore {
	if window <= 0 {
		window = DefaultGraceWindow
	}
	return &MemoryStore{window: window, seen: make(map[string]time.Time)}
}

func (m *MemoryStore) MarkFired(_ context.Context, scheduleID int, occ time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for k, at := range m.seen {
		if now.Sub(at) > m.window {
			delete(m.seen, k)
		}
	}

	k := key(scheduleID, occ)
	if _, dup := m.seen[k]; dup {
		return false, nil
	}
	m.seen[k] = now
	return true, nil
}
