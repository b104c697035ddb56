package service

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"time"

	"github.com/zKarlz/photomock/internal/codec"
	"github.com/zKarlz/photomock/internal/model"
	"github.com/zKarlz/photomock/internal/render"
	"github.com/zKarlz/photomock/internal/repository"
	"github.com/zKarlz/photomock/internal/storage"
)

var (
	ErrMissingOriginal = errors.New("original upload not found")
	ErrMissingBase     = errors.New("base image missing")
	ErrMissingMask     = errors.New("mask image missing")
)

// FinalizeRequest is handed in by the order system once the buyer
// confirms their composition. Base and mask paths come from the product
// variation's merchant settings; the engine does not own them.
type FinalizeRequest struct {
	AssetID   string                `json:"asset_id"`
	BasePath  string                `json:"base_path"`
	MaskPath  string                `json:"mask_path,omitempty"`
	Bounds    model.PlacementBounds `json:"bounds"`
	Transform model.UserTransform   `json:"transform"`
}

type RenderService struct {
	store      storage.AssetStore
	assets     repository.AssetRepository
	compositor *render.Compositor
	urlTTL     time.Duration
}

func NewRenderService(store storage.AssetStore, assets repository.AssetRepository, compositor *render.Compositor, urlTTL time.Duration) *RenderService {
	return &RenderService{
		store:      store,
		assets:     assets,
		compositor: compositor,
		urlTTL:     urlTTL,
	}
}

// Finalize renders the composite and thumbnail for one asset and
// returns signed URLs. Re-running with the same inputs overwrites the
// same two outputs; concurrent calls for the same asset race and the
// last writer wins, so callers needing stronger guarantees serialize
// per asset id themselves.
func (s *RenderService) Finalize(ctx context.Context, req FinalizeRequest) (*model.CompositeResult, error) {
	original, err := s.loadOriginal(req.AssetID)
	if err != nil {
		return nil, err
	}

	base, err := loadImageFile(req.BasePath, ErrMissingBase)
	if err != nil {
		return nil, err
	}

	// A configured mask that cannot be loaded is a hard error. Skipping
	// it would silently change the visible output from what the
	// merchant configured.
	var mask image.Image
	if req.MaskPath != "" {
		mask, err = loadImageFile(req.MaskPath, ErrMissingMask)
		if err != nil {
			return nil, err
		}
	}

	out, err := s.compositor.Composite(original, base, mask, req.Bounds, req.Transform)
	if err != nil {
		return nil, err
	}

	err = s.store.WriteDerived(req.AssetID, out.Composite, out.Thumbnail)
	if err != nil {
		return nil, fmt.Errorf("failed to store render outputs: %w", err)
	}

	// Finalize means an order now references the asset; the retention
	// sweep must leave it alone.
	err = s.assets.MarkReferenced(req.AssetID)
	if err != nil && !errors.Is(err, repository.ErrAssetNotFound) {
		return nil, fmt.Errorf("failed to mark asset referenced: %w", err)
	}

	urls, err := s.store.SignedURLs(req.AssetID, s.urlTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign result urls: %w", err)
	}

	slog.Info("composite rendered", "asset_id", req.AssetID,
		"rotation", req.Bounds.Rotation+req.Transform.Rotation, "scale", req.Transform.Scale)

	return &model.CompositeResult{
		AssetID:      req.AssetID,
		CompositeURL: urls["composite"],
		ThumbnailURL: urls["thumb"],
	}, nil
}

func (s *RenderService) loadOriginal(assetID string) (image.Image, error) {
	name, err := s.store.OriginalName(assetID)
	if err != nil {
		return nil, fmt.Errorf("%w: asset %s", ErrMissingOriginal, assetID)
	}
	data, err := s.store.ReadFile(assetID, name)
	if err != nil {
		return nil, fmt.Errorf("%w: asset %s", ErrMissingOriginal, assetID)
	}
	img, _, err := codec.Decode(data)
	if err != nil {
		return nil, err
	}
	return img, nil
}

func loadImageFile(path string, missing error) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", missing, path)
	}
	img, _, err := codec.Decode(data)
	if err != nil {
		return nil, err
	}
	return img, nil
}
