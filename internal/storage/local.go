package storage

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/zKarlz/photomock/internal/security"
)

// LocalStore keeps assets on disk, one directory per asset id under a
// private root. The root must never be directly web-servable; deny-all
// marker files are written at construction time as a second line of
// defense behind the web server's own access control.
type LocalStore struct {
	root    string
	baseURL string
	signer  *security.URLSigner
}

func NewLocalStore(root, baseURL string, signer *security.URLSigner) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}
	s := &LocalStore{root: root, baseURL: baseURL, signer: signer}
	if err := s.writeDenyMarkers(); err != nil {
		return nil, err
	}
	return s, nil
}

// writeDenyMarkers drops an .htaccess deny-all and an empty index.html
// at the storage root so a misconfigured document root still refuses
// directory listings and direct file access.
func (s *LocalStore) writeDenyMarkers() error {
	markers := map[string]string{
		".htaccess":  "Deny from all\n",
		"index.html": "",
	}
	for name, content := range markers {
		path := filepath.Join(s.root, name)
		if _, err := os.Stat(path); err == nil {
			continue
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("failed to write deny marker %s: %w", name, err)
		}
	}
	return nil
}

func (s *LocalStore) assetDir(assetID string) string {
	return filepath.Join(s.root, assetID)
}

func (s *LocalStore) StoreOriginal(assetID, ext string, data []byte) error {
	dir := s.assetDir(assetID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create asset directory: %w", err)
	}
	return writeAtomic(filepath.Join(dir, OriginalPrefix+ext), data)
}

func (s *LocalStore) OriginalName(assetID string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(s.assetDir(assetID), OriginalPrefix+".*"))
	if err != nil || len(matches) == 0 {
		return "", fmt.Errorf("%w: original for asset %s", ErrNotFound, assetID)
	}
	return filepath.Base(matches[0]), nil
}

func (s *LocalStore) ReadFile(assetID, fileName string) ([]byte, error) {
	fileName = security.NormalizeFileName(fileName)
	data, err := os.ReadFile(filepath.Join(s.assetDir(assetID), fileName))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, assetID, fileName)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read asset file: %w", err)
	}
	return data, nil
}

func (s *LocalStore) WriteDerived(assetID string, composite, thumb []byte) error {
	dir := s.assetDir(assetID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create asset directory: %w", err)
	}
	if err := writeAtomic(filepath.Join(dir, FileComposite), composite); err != nil {
		return err
	}
	return writeAtomic(filepath.Join(dir, FileThumb), thumb)
}

func (s *LocalStore) SignedURLs(assetID string, ttl time.Duration) (map[string]string, error) {
	urls := make(map[string]string)
	if name, err := s.OriginalName(assetID); err == nil {
		urls["original"] = s.signer.SignedURL(s.baseURL, assetID, name, ttl)
	}
	for key, name := range map[string]string{"composite": FileComposite, "thumb": FileThumb} {
		if _, err := os.Stat(filepath.Join(s.assetDir(assetID), name)); err == nil {
			urls[key] = s.signer.SignedURL(s.baseURL, assetID, name, ttl)
		}
	}
	return urls, nil
}

func (s *LocalStore) Purge(assetID string) error {
	return os.RemoveAll(s.assetDir(assetID))
}

// Sweep removes asset directories that are unreferenced and older than
// the cutoff. Deny markers and stray files at the root are left alone.
func (s *LocalStore) Sweep(olderThan time.Time, referenced map[string]bool) ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("failed to read storage root: %w", err)
	}
	var purged []string
	for _, e := range entries {
		if !e.IsDir() || referenced[e.Name()] {
			continue
		}
		info, err := e.Info()
		if err != nil || !info.ModTime().Before(olderThan) {
			continue
		}
		if err := s.Purge(e.Name()); err != nil {
			slog.Warn("retention sweep failed to purge asset", "asset_id", e.Name(), "error", err)
			continue
		}
		purged = append(purged, e.Name())
	}
	return purged, nil
}

// writeAtomic writes via a temp file and rename so a re-render never
// leaves a half-written output visible.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", filepath.Base(path), err)
	}
	return nil
}

var _ AssetStore = (*LocalStore)(nil)
var _ Sweeper = (*LocalStore)(nil)
