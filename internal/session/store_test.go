package session

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_EmptyLoad(t *testing.T) {
	store := newTestStore(t)

	creds, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, creds.IsZero())
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, Credentials{Token: "tok-1", Username: "alice"}))
	creds, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, Credentials{Token: "tok-1", Username: "alice"}, creds)

	// Saving again overwrites the single row.
	require.NoError(t, store.Save(ctx, Credentials{Token: "tok-2", Username: "bob"}))
	creds, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-2", creds.Token)
	assert.Equal(t, "bob", creds.Username)
}

func TestSQLiteStore_Clear(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, Credentials{Token: "tok", Username: "alice"}))
	require.NoError(t, store.Clear(ctx))

	creds, err := store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, creds.IsZero())

	// Clearing an already-empty store is fine.
	require.NoError(t, store.Clear(ctx))
}
