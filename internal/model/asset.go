package model

import (
	"time"
)

// Asset is the metadata record for one uploaded photo. The pixel data
// itself lives in the asset store; this row exists for auditing, the
// upload response hash, and the retention sweep's referenced-set.
type Asset struct {
	ID           string    `db:"id"`
	OriginalName string    `db:"original_name"` // client-declared file name, informational only
	MimeType     string    `db:"mime_type"`     // sniffed, not declared
	Size         int64     `db:"size"`          // re-encoded original, bytes
	SHA256       string    `db:"sha256"`        // hash of the re-encoded original
	Width        int       `db:"width"`
	Height       int       `db:"height"`
	Referenced   bool      `db:"referenced"` // set on finalize; protects against the retention sweep
	CreatedAt    time.Time `db:"created_at"`
}

// CompositeResult is returned to the caller after a successful render.
// Both URLs are signed and expire.
type CompositeResult struct {
	AssetID      string `json:"asset_id"`
	CompositeURL string `json:"composite_url"`
	ThumbnailURL string `json:"thumbnail_url"`
}
