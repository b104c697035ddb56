package app

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zKarlz/photomock/internal/config"
)

func testConfig(dir string) *config.Config {
	return &config.Config{
		AppEnv:           "development",
		AppURL:           "http://localhost:8090",
		DBConnection:     filepath.Join(dir, "app.db"),
		StorageDriver:    "local",
		StorageRoot:      filepath.Join(dir, "assets"),
		URLSigningSecret: "test-secret",
		URLTTL:           time.Hour,
		ThumbSize:        200,
	}
}

func TestNewWiresServices(t *testing.T) {
	a, err := New(testConfig(t.TempDir()))
	require.NoError(t, err)
	defer a.Close()

	assert.NotNil(t, a.AssetService)
	assert.NotNil(t, a.RenderService)
	assert.NotNil(t, a.RetentionService)
	assert.NotNil(t, a.Store)
}

func TestNewUnknownStorageDriver(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.StorageDriver = "ftp"

	_, err := New(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown storage driver "ftp"`)
}

func TestNewStorageErrorUnwraps(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)

	// Point the storage root below a regular file so its creation fails;
	// the underlying path error must survive the init wrapping.
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	cfg.StorageRoot = filepath.Join(blocker, "assets")

	_, err := New(cfg)
	require.Error(t, err)
	var pathErr *fs.PathError
	assert.ErrorAs(t, err, &pathErr)
}
