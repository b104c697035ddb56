package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zKarlz/photomock/internal/security"
)

func newTestStore(t *testing.T) *LocalStore {
	t.Helper()
	store, err := NewLocalStore(t.TempDir(), "http://localhost:8090", security.NewURLSigner("test-secret"))
	require.NoError(t, err)
	return store
}

func TestNewLocalStoreWritesDenyMarkers(t *testing.T) {
	root := t.TempDir()
	_, err := NewLocalStore(root, "http://localhost:8090", security.NewURLSigner("s"))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, ".htaccess"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Deny from all")

	_, err = os.Stat(filepath.Join(root, "index.html"))
	assert.NoError(t, err)
}

func TestStoreOriginalAndReadBack(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.StoreOriginal("asset-1", ".jpg", []byte("jpeg bytes")))

	name, err := store.OriginalName("asset-1")
	require.NoError(t, err)
	assert.Equal(t, "original.jpg", name)

	data, err := store.ReadFile("asset-1", name)
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg bytes"), data)
}

func TestOriginalNameMissing(t *testing.T) {
	store := newTestStore(t)
	_, err := store.OriginalName("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReadFileRejectsPathTraversal(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.StoreOriginal("asset-1", ".png", []byte("x")))

	// A traversal name normalizes to the bare file name, which does not
	// exist inside the asset directory.
	_, err := store.ReadFile("asset-1", "../.htaccess")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWriteDerivedOverwritesAtomically(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.WriteDerived("asset-1", []byte("composite v1"), []byte("thumb v1")))
	require.NoError(t, store.WriteDerived("asset-1", []byte("composite v2"), []byte("thumb v2")))

	composite, err := store.ReadFile("asset-1", FileComposite)
	require.NoError(t, err)
	assert.Equal(t, []byte("composite v2"), composite)

	thumb, err := store.ReadFile("asset-1", FileThumb)
	require.NoError(t, err)
	assert.Equal(t, []byte("thumb v2"), thumb)

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Join(store.root, "asset-1"))
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestSignedURLsOnlyForExistingFiles(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.StoreOriginal("asset-1", ".png", []byte("x")))

	urls, err := store.SignedURLs("asset-1", time.Minute)
	require.NoError(t, err)
	assert.Contains(t, urls, "original")
	assert.NotContains(t, urls, "composite")
	assert.NotContains(t, urls, "thumb")

	require.NoError(t, store.WriteDerived("asset-1", []byte("c"), []byte("t")))

	urls, err = store.SignedURLs("asset-1", time.Minute)
	require.NoError(t, err)
	assert.Contains(t, urls, "original")
	assert.Contains(t, urls, "composite")
	assert.Contains(t, urls, "thumb")
	assert.Contains(t, urls["composite"], "/files/asset-1/composite.png?expires=")
}

func TestPurgeIdempotent(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.StoreOriginal("asset-1", ".png", []byte("x")))
	require.NoError(t, store.Purge("asset-1"))

	_, err := store.OriginalName("asset-1")
	assert.ErrorIs(t, err, ErrNotFound)

	// Purging again is not an error.
	assert.NoError(t, store.Purge("asset-1"))
}

func TestSweepSkipsReferencedAndRecent(t *testing.T) {
	store := newTestStore(t)

	for _, id := range []string{"old-unref", "old-ref", "fresh"} {
		require.NoError(t, store.StoreOriginal(id, ".png", []byte("x")))
	}

	old := time.Now().Add(-48 * time.Hour)
	for _, id := range []string{"old-unref", "old-ref"} {
		require.NoError(t, os.Chtimes(filepath.Join(store.root, id), old, old))
	}

	purged, err := store.Sweep(time.Now().Add(-24*time.Hour), map[string]bool{"old-ref": true})
	require.NoError(t, err)
	assert.Equal(t, []string{"old-unref"}, purged)

	_, err = store.OriginalName("old-unref")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.OriginalName("old-ref")
	assert.NoError(t, err)
	_, err = store.OriginalName("fresh")
	assert.NoError(t, err)

	// Deny markers survive the sweep.
	_, err = os.Stat(filepath.Join(store.root, ".htaccess"))
	assert.NoError(t, err)
}
