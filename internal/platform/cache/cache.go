// Package cache stores computed report results for a short time. Memory is
// used by default; Redis is used when a URL is configured so that several
// server replicas share results.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hms/hms/internal/platform/clock"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache miss")

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type entry struct {
	value     []byte
	expiresAt time.Time
}

// Memory is an in-process Cache.
type Memory struct {
	mu    sync.Mutex
	items map[string]entry
	clock clock.Clock
}

func NewMemory(c clock.Clock) *Memory {
	return &Memory{items: make(map[string]entry), clock: c}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.items[key]
	if !ok {
		return nil, ErrMiss
	}
	if !e.expiresAt.IsZero() && !m.clock.Now().Before(e.expiresAt) {
		delete(m.items, key)
		return nil, ErrMiss
	}
	return e.value, nil
}

// Set stores value; a non-positive ttl never expires.
func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	e := entry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expiresAt = m.clock.Now().Add(ttl)
	}
	m.mu.Lock()
	m.items[key] = e
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.items, key)
	m.mu.Unlock()
	return nil
}

// Remember returns the cached JSON value under key, or computes, stores and
// returns it. Cache failures other than a miss are ignored and the value is
// computed.
func Remember[T any](ctx context.Context, c Cache, key string, ttl time.Duration, compute func(context.Context) (T, error)) (T, bool, error) {
	if raw, err := c.Get(ctx, key); err == nil {
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			return v, true, nil
		}
	}

	v, err := compute(ctx)
	if err != nil {
		var zero T
		return zero, false, err
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return v, false, fmt.Errorf("encoding %s: %w", key, err)
	}
	_ = c.Set(ctx, key, raw, ttl)
	return v, false, nil
}
