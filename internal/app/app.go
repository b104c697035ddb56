package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/zKarlz/photomock/internal/config"
	"github.com/zKarlz/photomock/internal/db"
	"github.com/zKarlz/photomock/internal/render"
	"github.com/zKarlz/photomock/internal/repository"
	"github.com/zKarlz/photomock/internal/security"
	"github.com/zKarlz/photomock/internal/service"
	"github.com/zKarlz/photomock/internal/storage"
)

// App wires the engine's services together once at process start.
// Everything downstream receives its dependencies explicitly; there is
// no global registry.
type App struct {
	Cfg              *config.Config
	DB               *sqlx.DB
	Store            storage.AssetStore
	Signer           *security.URLSigner
	AssetService     *service.AssetService
	RenderService    *service.RenderService
	RetentionService *service.RetentionService
}

func New(cfg *config.Config) (*App, error) {
	database, err := db.Init(cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	err = db.RunMigrations(database.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	assetRepository := repository.NewAssetRepository(database)
	signer := security.NewURLSigner(cfg.URLSigningSecret)

	store, err := newStore(cfg, signer)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	compositor := render.NewCompositor(cfg.ThumbSize)

	assetService := service.NewAssetService(store, assetRepository, cfg.URLTTL)
	renderService := service.NewRenderService(store, assetRepository, compositor, cfg.URLTTL)
	retentionService := service.NewRetentionService(store, assetRepository, cfg.Retention())

	return &App{
		Cfg:              cfg,
		DB:               database,
		Store:            store,
		Signer:           signer,
		AssetService:     assetService,
		RenderService:    renderService,
		RetentionService: retentionService,
	}, nil
}

func newStore(cfg *config.Config, signer *security.URLSigner) (storage.AssetStore, error) {
	switch cfg.StorageDriver {
	case "s3":
		return storage.NewS3Store(storage.S3Config{
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Endpoint:  cfg.S3Endpoint,
		})
	case "local":
		return storage.NewLocalStore(cfg.StorageRoot, cfg.AppURL, signer)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
