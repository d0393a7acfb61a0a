package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/la-lenera/internal/cooldown"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

var _ cooldown.Store = (*SQLiteStorage)(nil)

func TestNewSQLiteStorage_Validation(t *testing.T) {
	_, err := NewSQLiteStorage("  ")
	assert.ErrorIs(t, err, ErrEmptyString)
}

func TestNewSQLiteStorage_CreatesDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "lenera.db")
	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	_, err = os.Stat(filepath.Dir(dbPath))
	assert.NoError(t, err)
	assert.Equal(t, dbPath, store.Path())
}

func TestMigrate(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	version, err := store.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, ExpectedSchemaVersion, version)

	// Second run is a no-op.
	require.NoError(t, store.Migrate(ctx))

	var columns int
	err = store.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM pragma_table_info('local_state') WHERE name IN ('key', 'value', 'updated_at')`).Scan(&columns)
	require.NoError(t, err)
	assert.Equal(t, 3, columns)
}

func TestLocalState_CRUD(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	_, ok, err := store.Get(ctx, cooldown.Key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, cooldown.Key, 1700000000000))
	v, ok, err := store.Get(ctx, cooldown.Key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(1700000000000), v)

	require.NoError(t, store.Set(ctx, cooldown.Key, 42))
	v, _, err = store.Get(ctx, cooldown.Key)
	require.NoError(t, err)
	assert.Equal(t, int64(42), v)

	require.NoError(t, store.Delete(ctx, cooldown.Key))
	require.NoError(t, store.Delete(ctx, cooldown.Key), "deleting twice is fine")
	_, ok, err = store.Get(ctx, cooldown.Key)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLocalState_Validation(t *testing.T) {
	store := createTestStorage(t)

	//nolint:staticcheck // nil context is the case under test
	_, _, err := store.Get(nil, "k")
	assert.ErrorIs(t, err, ErrNilContext)
	assert.ErrorIs(t, store.Set(context.Background(), "", 1), ErrEmptyString)
	assert.ErrorIs(t, store.Delete(context.Background(), " "), ErrEmptyString)
}

func TestLocalState_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "lenera.db")

	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Migrate(ctx))

	gate := cooldown.NewGate(store)
	now := time.Now()
	require.NoError(t, gate.Arm(ctx, now, 3*time.Second))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()
	require.NoError(t, reopened.Migrate(ctx))

	secs, err := cooldown.NewGate(reopened).Remaining(ctx, now.Add(time.Second))
	require.NoError(t, err)
	assert.Equal(t, 2, secs)

	secs, err = cooldown.NewGate(reopened).Remaining(ctx, now.Add(3*time.Second))
	require.NoError(t, err)
	assert.Equal(t, 0, secs)
	_, ok, err := reopened.Get(ctx, cooldown.Key)
	require.NoError(t, err)
	assert.False(t, ok)
}
