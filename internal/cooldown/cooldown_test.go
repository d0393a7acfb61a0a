package cooldown

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSeconds(t *testing.T) {
	tests := []struct {
		name   string
		offset time.Duration
		want   int
	}{
		{name: "three seconds", offset: 3 * time.Second, want: 3},
		{name: "rounds up", offset: 2001 * time.Millisecond, want: 3},
		{name: "one millisecond", offset: time.Millisecond, want: 1},
		{name: "exact", offset: 0, want: 0},
		{name: "past", offset: -5 * time.Second, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Seconds(base.Add(tt.offset), base))
		})
	}
}

func TestGate_ArmAndRemaining(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	g := NewGate(store, WithLogger(quietLogger()))

	secs, err := g.Remaining(ctx, base)
	require.NoError(t, err)
	assert.Equal(t, 0, secs)

	require.NoError(t, g.Arm(ctx, base, DefaultDuration))
	v, ok, err := store.Get(ctx, Key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, base.Add(3*time.Second).UnixMilli(), v)

	secs, err = g.Remaining(ctx, base.Add(500*time.Millisecond))
	require.NoError(t, err)
	assert.Equal(t, 3, secs)
	assert.True(t, g.Locked(ctx, base.Add(2*time.Second)))

	secs, err = g.Remaining(ctx, base.Add(3*time.Second))
	require.NoError(t, err)
	assert.Equal(t, 0, secs)

	_, ok, err = store.Get(ctx, Key)
	require.NoError(t, err)
	assert.False(t, ok, "elapsed cooldown is cleared")
}

func TestGate_Load(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	g := NewGate(store)

	_, ok := g.Load(ctx)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, Key, base.UnixMilli()))
	unlock, ok := g.Load(ctx)
	require.True(t, ok)
	assert.True(t, unlock.Equal(base))
}

func TestGate_ReadFailureIsUnlocked(t *testing.T) {
	ctx := context.Background()
	g := NewGate(failingStore{}, WithLogger(quietLogger()))

	assert.False(t, g.Locked(ctx, base))
	secs, err := g.Remaining(ctx, base)
	require.NoError(t, err)
	assert.Equal(t, 0, secs)
	assert.Error(t, g.Arm(ctx, base, time.Second))
	assert.Error(t, g.Clear(ctx))
}

func TestGate_CustomKey(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	g := NewGate(store, WithKey("other"))
	require.NoError(t, g.Arm(ctx, base, time.Second))

	_, ok, _ := store.Get(ctx, Key)
	assert.False(t, ok)
	_, ok, _ = store.Get(ctx, "other")
	assert.True(t, ok)

	require.NoError(t, g.Clear(ctx))
	_, ok, _ = store.Get(ctx, "other")
	assert.False(t, ok)
}

func TestMemoryStore_Closed(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Close())

	_, _, err := store.Get(ctx, Key)
	assert.ErrorIs(t, err, ErrStoreClosed)
	assert.ErrorIs(t, store.Set(ctx, Key, 1), ErrStoreClosed)
	assert.ErrorIs(t, store.Delete(ctx, Key), ErrStoreClosed)
}

type failingStore struct{}

var errBroken = errors.New("broken")

func (failingStore) Get(context.Context, string) (int64, bool, error) { return 0, false, errBroken }
func (failingStore) Set(context.Context, string, int64) error { return errBroken }
func (failingStore) Delete(context.Context, string) error { return errBroken }
