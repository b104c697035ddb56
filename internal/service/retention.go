package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/zKarlz/photomock/internal/repository"
	"github.com/zKarlz/photomock/internal/storage"
)

// RetentionService purges assets that no order references once they
// pass the retention window. Scheduling is the deployment's concern;
// this is just the callable.
type RetentionService struct {
	store     storage.AssetStore
	assets    repository.AssetRepository
	retention time.Duration
}

func NewRetentionService(store storage.AssetStore, assets repository.AssetRepository, retention time.Duration) *RetentionService {
	return &RetentionService{
		store:     store,
		assets:    assets,
		retention: retention,
	}
}

// Sweep deletes unreferenced assets older than the retention window
// from both the store and the index. Stores without sweep support
// (object storage) skip the file pass.
func (s *RetentionService) Sweep(ctx context.Context) (int, error) {
	sweeper, ok := s.store.(storage.Sweeper)
	if !ok {
		slog.Info("asset store does not support sweeping, skipping retention pass")
		return 0, nil
	}

	ids, err := s.assets.ReferencedIDs()
	if err != nil {
		return 0, fmt.Errorf("failed to load referenced asset ids: %w", err)
	}
	referenced := make(map[string]bool, len(ids))
	for _, id := range ids {
		referenced[id] = true
	}

	purged, err := sweeper.Sweep(time.Now().Add(-s.retention), referenced)
	if err != nil {
		return 0, fmt.Errorf("retention sweep failed: %w", err)
	}

	for _, id := range purged {
		err := s.assets.Delete(id)
		if err != nil {
			slog.Warn("failed to delete swept asset record", "asset_id", id, "error", err)
		}
	}

	if len(purged) > 0 {
		slog.Info("retention sweep completed", "purged", len(purged))
	}
	return len(purged), nil
}
