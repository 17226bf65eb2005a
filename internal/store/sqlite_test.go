package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "loom.db"), testLog())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpen_RunsMigrations(t *testing.T) {
	db := testDB(t)

	for _, m := range migrations {
		applied, err := db.isMigrationApplied(m.Version)
		require.NoError(t, err)
		assert.True(t, applied, "migration %d should be applied", m.Version)
	}
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loom.db")

	db, err := Open(path, testLog())
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// Reopening must not re-apply migrations.
	db, err = Open(path, testLog())
	require.NoError(t, err)
	defer db.Close()

	applied, err := db.isMigrationApplied(1)
	require.NoError(t, err)
	assert.True(t, applied)
}

func TestSQLiteBlobStore_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	blobs := NewSQLiteBlobStore(testDB(t))

	got, err := blobs.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, got, "absent key reads as nil, not an error")

	require.NoError(t, blobs.Set(ctx, "k", []byte("v1")))
	got, err = blobs.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), got)

	// Upsert overwrites in place.
	require.NoError(t, blobs.Set(ctx, "k", []byte("v2")))
	got, err = blobs.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), got)

	require.NoError(t, blobs.Delete(ctx, "k"))
	got, err = blobs.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLiteBlobStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "loom.db")

	db, err := Open(path, testLog())
	require.NoError(t, err)
	require.NoError(t, NewSQLiteBlobStore(db).Set(ctx, "k", []byte("persisted")))
	require.NoError(t, db.Close())

	db, err = Open(path, testLog())
	require.NoError(t, err)
	defer db.Close()

	got, err := NewSQLiteBlobStore(db).Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("persisted"), got)
}

func TestPersister_WithSQLiteBlobStore(t *testing.T) {
	ctx := context.Background()
	blobs := NewSQLiteBlobStore(testDB(t))
	log := testLog()

	ws, as, cs := testStores(t)
	w := ws.Create(CreateWorkspaceParams{Name: "main"})
	ws.SetActive(w.ID)
	require.NoError(t, NewPersister(blobs, ws, as, cs, log).Flush(ctx))

	ws2, as2, cs2 := testStores(t)
	require.NoError(t, NewPersister(blobs, ws2, as2, cs2, log).Load(ctx))
	assert.Equal(t, w.ID, ws2.ActiveID())
	require.NotNil(t, ws2.Get(w.ID))
}
