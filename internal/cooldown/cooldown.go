// Package cooldown throttles repeat order submissions. The unlock time lives
// in a durable key/value store so it survives restarts. It is a UX throttle
// only and is trivially bypassed by clearing the store.
package cooldown

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Key is the store key holding the unlock time in epoch milliseconds.
const Key = "whatsapp_cooldown"

// DefaultDuration is the lock applied after each successful submission.
const DefaultDuration = 3 * time.Second

// Store persists small integer values.
type Store interface {
	Get(ctx context.Context, key string) (int64, bool, error)
	Set(ctx context.Context, key string, value int64) error
	Delete(ctx context.Context, key string) error
}

// Gate reads and writes the cooldown unlock time.
type Gate struct {
	store  Store
	logger *slog.Logger
	key    string
}

// Option configures a Gate.
type Option func(*Gate)

// WithLogger sets the logger used for store failures.
func WithLogger(l *slog.Logger) Option {
	return func(g *Gate) { g.logger = l }
}

// WithKey overrides the store key.
func WithKey(key string) Option {
	return func(g *Gate) { g.key = key }
}

// NewGate returns a gate over store.
func NewGate(store Store, opts ...Option) *Gate {
	g := &Gate{store: store, key: Key, logger: slog.Default()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Load returns the persisted unlock time, if any. Read failures are logged
// and treated as no cooldown.
func (g *Gate) Load(ctx context.Context) (time.Time, bool) {
	ms, ok, err := g.store.Get(ctx, g.key)
	if err != nil {
		g.logger.Warn("failed to read cooldown state", "key", g.key, "error", err)
		return time.Time{}, false
	}
	if !ok {
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}

// Arm persists now+d as the unlock time.
func (g *Gate) Arm(ctx context.Context, now time.Time, d time.Duration) error {
	if err := g.store.Set(ctx, g.key, now.Add(d).UnixMilli()); err != nil {
		return fmt.Errorf("arm cooldown: %w", err)
	}
	return nil
}

// Remaining returns the whole seconds left, rounded up. When the cooldown has
// elapsed the persisted state is cleared and 0 is returned.
func (g *Gate) Remaining(ctx context.Context, now time.Time) (int, error) {
	unlock, ok := g.Load(ctx)
	if !ok {
		return 0, nil
	}
	secs := Seconds(unlock, now)
	if secs > 0 {
		return secs, nil
	}
	if err := g.store.Delete(ctx, g.key); err != nil {
		return 0, fmt.Errorf("clear cooldown: %w", err)
	}
	return 0, nil
}

// Locked reports whether a cooldown is active at now.
func (g *Gate) Locked(ctx context.Context, now time.Time) bool {
	secs, err := g.Remaining(ctx, now)
	if err != nil {
		g.logger.Warn("failed to evaluate cooldown", "error", err)
	}
	return secs > 0
}

// Clear removes any persisted cooldown.
func (g *Gate) Clear(ctx context.Context) error {
	if err := g.store.Delete(ctx, g.key); err != nil {
		return fmt.Errorf("clear cooldown: %w", err)
	}
	return nil
}

// Seconds is ceil((unlock-now)/1s) clamped to zero.
func Seconds(unlock, now time.Time) int {
	ms := unlock.UnixMilli() - now.UnixMilli()
	if ms <= 0 {
		return 0
	}
	return int((ms + 999) / 1000)
}

// ErrStoreClosed is returned by MemoryStore after Close.
var ErrStoreClosed = errors.New("store closed")

// MemoryStore is an in-process Store.
type MemoryStore struct {
	values map[string]int64
	mu     sync.Mutex
	closed bool
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]int64)}
}

// Get implements Store.
func (m *MemoryStore) Get(_ context.Context, key string) (int64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return 0, false, ErrStoreClosed
	}
	v, ok := m.values[key]
	return v, ok, nil
}

// Set implements Store.
func (m *MemoryStore) Set(_ context.Context, key string, value int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrStoreClosed
	}
	m.values[key] = value
	return nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrStoreClosed
	}
	delete(m.values, key)
	return nil
}

// Close makes every later call fail.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
