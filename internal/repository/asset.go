package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/zKarlz/photomock/internal/model"
)

var (
	ErrAssetNotFound = errors.New("asset not found")
)

type AssetRepository interface {
	Create(asset *model.Asset) error
	ByID(id string) (*model.Asset, error)
	MarkReferenced(id string) error
	ReferencedIDs() ([]string, error)
	Delete(id string) error
}

type assetRepository struct {
	db *sqlx.DB
}

func NewAssetRepository(db *sqlx.DB) *assetRepository {
	return &assetRepository{db: db}
}

func (r *assetRepository) Create(asset *model.Asset) error {
	query := `INSERT INTO assets (id, original_name, mime_type, size, sha256, width, height, referenced, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.Exec(query,
		asset.ID,
		asset.OriginalName,
		asset.MimeType,
		asset.Size,
		asset.SHA256,
		asset.Width,
		asset.Height,
		asset.Referenced,
		asset.CreatedAt,
	)

	return err
}

func (r *assetRepository) ByID(id string) (*model.Asset, error) {
	asset := &model.Asset{}
	query := `SELECT * FROM assets WHERE id = $1`

	err := r.db.Get(asset, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrAssetNotFound
	}

	return asset, err
}

func (r *assetRepository) MarkReferenced(id string) error {
	query := `UPDATE assets SET referenced = 1 WHERE id = $1`

	res, err := r.db.Exec(query, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrAssetNotFound
	}
	return nil
}

func (r *assetRepository) ReferencedIDs() ([]string, error) {
	var ids []string
	query := `SELECT id FROM assets WHERE referenced = 1`

	err := r.db.Select(&ids, query)
	if err != nil {
		return nil, err
	}

	return ids, nil
}

func (r *assetRepository) Delete(id string) error {
	query := `DELETE FROM assets WHERE id = $1`
	_, err := r.db.Exec(query, id)
	return err
}
