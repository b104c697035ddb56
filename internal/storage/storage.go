package storage

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("asset file not found")

// Fixed derived-file names inside an asset's directory. The original
// keeps its own extension (original.jpg, original.png, ...).
const (
	FileComposite = "composite.png"
	FileThumb     = "thumb.jpg"

	OriginalPrefix = "original"
)

// AssetStore owns the stored bytes and directory lifecycle for assets.
// Nothing else in the engine writes asset files directly.
type AssetStore interface {
	// StoreOriginal persists the re-encoded upload under the asset id.
	// Directory creation is lazy and idempotent.
	StoreOriginal(assetID, ext string, data []byte) error

	// OriginalName returns the stored original's file name, extension
	// included. ErrNotFound when the asset has no original.
	OriginalName(assetID string) (string, error)

	// ReadFile returns the raw bytes of one file belonging to an asset.
	ReadFile(assetID, fileName string) ([]byte, error)

	// WriteDerived persists composite and thumbnail together. Re-renders
	// overwrite in place; each file lands atomically.
	WriteDerived(assetID string, composite, thumb []byte) error

	// SignedURLs returns time-limited retrieval URLs keyed by
	// "original", "composite" and "thumb". A key is present only when
	// that file currently exists.
	SignedURLs(assetID string, ttl time.Duration) (map[string]string, error)

	// Purge removes everything stored for the asset. Absent assets are
	// not an error.
	Purge(assetID string) error
}

// Sweeper is the optional retention capability: delete unreferenced
// assets older than the cutoff and report which ids went away.
type Sweeper interface {
	Sweep(olderThan time.Time, referenced map[string]bool) ([]string, error)
}
