package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/zKarlz/photomock/internal/codec"
	"github.com/zKarlz/photomock/internal/model"
	"github.com/zKarlz/photomock/internal/repository"
	"github.com/zKarlz/photomock/internal/storage"
	"github.com/zKarlz/photomock/internal/validation"
)

// Uploaded originals are re-encoded at full quality; the point of the
// round trip is the metadata strip and malformed-file rejection, not
// compression.
const reencodeQuality = 100

type AssetService struct {
	store  storage.AssetStore
	assets repository.AssetRepository
	urlTTL time.Duration
}

func NewAssetService(store storage.AssetStore, assets repository.AssetRepository, urlTTL time.Duration) *AssetService {
	return &AssetService{
		store:  store,
		assets: assets,
		urlTTL: urlTTL,
	}
}

// UploadResult is returned to the upload boundary.
type UploadResult struct {
	AssetID     string `json:"asset_id"`
	OriginalURL string `json:"original_url"`
	SHA256      string `json:"original_sha256"`
}

// Upload validates, decodes, normalizes and re-encodes a raw upload,
// stores it under a fresh asset id and records its metadata. The
// client's bytes are never stored as-is.
func (s *AssetService) Upload(ctx context.Context, data []byte, declaredName string) (*UploadResult, error) {
	err := validation.ValidateUpload(declaredName, data, validation.ImageConstraints)
	if err != nil {
		return nil, err
	}

	img, format, err := codec.DecodeDeclared(data, declaredName)
	if err != nil {
		return nil, err
	}

	encoded, err := codec.Encode(img, format, reencodeQuality)
	if err != nil {
		return nil, err
	}

	assetID := uuid.New().String()
	err = s.store.StoreOriginal(assetID, codec.Ext(format), encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to store original: %w", err)
	}

	hash := sha256.Sum256(encoded)
	bounds := img.Bounds()
	asset := &model.Asset{
		ID:           assetID,
		OriginalName: declaredName,
		MimeType:     codec.MIME(format),
		Size:         int64(len(encoded)),
		SHA256:       hex.EncodeToString(hash[:]),
		Width:        bounds.Dx(),
		Height:       bounds.Dy(),
		CreatedAt:    time.Now(),
	}

	err = s.assets.Create(asset)
	if err != nil {
		// Keep store and index consistent when the insert fails.
		purgeErr := s.store.Purge(assetID)
		if purgeErr != nil {
			slog.Error("failed to purge asset during cleanup", "error", purgeErr, "asset_id", assetID)
		}
		return nil, fmt.Errorf("failed to create asset record: %w", err)
	}

	urls, err := s.store.SignedURLs(assetID, s.urlTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign original url: %w", err)
	}

	slog.Info("asset uploaded", "asset_id", assetID, "format", format,
		"size", asset.Size, "dimensions", fmt.Sprintf("%dx%d", asset.Width, asset.Height))

	return &UploadResult{
		AssetID:     assetID,
		OriginalURL: urls["original"],
		SHA256:      asset.SHA256,
	}, nil
}

// Asset returns the metadata record for one asset.
func (s *AssetService) Asset(id string) (*model.Asset, error) {
	return s.assets.ByID(id)
}

// Purge removes an asset's files and its index record.
func (s *AssetService) Purge(ctx context.Context, id string) error {
	err := s.store.Purge(id)
	if err != nil {
		return fmt.Errorf("failed to purge asset files: %w", err)
	}
	return s.assets.Delete(id)
}
