package handler

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zKarlz/photomock/internal/security"
	"github.com/zKarlz/photomock/internal/storage"
)

func newFilesMux(t *testing.T) (*http.ServeMux, *storage.LocalStore, *security.URLSigner) {
	t.Helper()
	signer := security.NewURLSigner("test-secret")
	store, err := storage.NewLocalStore(t.TempDir(), "http://localhost:8090", signer)
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /files/{asset_id}/{file_name}", NewFileHandler(store, signer).Serve)
	return mux, store, signer
}

func storeTestPNG(t *testing.T, store *storage.LocalStore, assetID string) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 8, 8))))
	require.NoError(t, store.StoreOriginal(assetID, ".png", buf.Bytes()))
	return buf.Bytes()
}

func filesURL(assetID, fileName string, expiresAt int64, sig string) string {
	return fmt.Sprintf("/files/%s/%s?expires=%d&sig=%s", assetID, fileName, expiresAt, sig)
}

func TestServeValidToken(t *testing.T) {
	mux, store, signer := newFilesMux(t)
	want := storeTestPNG(t, store, "asset-1")

	expiresAt, sig := signer.Sign("asset-1", "original.png", time.Minute)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", filesURL("asset-1", "original.png", expiresAt, sig), nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, want, rec.Body.Bytes())
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Cache-Control"), "private")
}

func TestServeExpiredToken(t *testing.T) {
	mux, store, signer := newFilesMux(t)
	storeTestPNG(t, store, "asset-1")

	expiresAt, sig := signer.Sign("asset-1", "original.png", -time.Minute)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", filesURL("asset-1", "original.png", expiresAt, sig), nil))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "access denied\n", rec.Body.String())
}

func TestServeTamperedSignature(t *testing.T) {
	mux, store, signer := newFilesMux(t)
	storeTestPNG(t, store, "asset-1")

	expiresAt, sig := signer.Sign("asset-1", "original.png", time.Minute)
	flipped := []byte(sig)
	if flipped[0] == 'a' {
		flipped[0] = 'b'
	} else {
		flipped[0] = 'a'
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", filesURL("asset-1", "original.png", expiresAt, string(flipped)), nil))

	// The denial body never says which check failed.
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "access denied\n", rec.Body.String())
}

func TestServeMalformedExpiry(t *testing.T) {
	mux, store, signer := newFilesMux(t)
	storeTestPNG(t, store, "asset-1")

	_, sig := signer.Sign("asset-1", "original.png", time.Minute)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/files/asset-1/original.png?expires=soon&sig="+sig, nil))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "access denied\n", rec.Body.String())
}

func TestServeValidTokenMissingFile(t *testing.T) {
	mux, _, signer := newFilesMux(t)

	// A correctly signed URL for a file that was never written (or has
	// been purged) is a 404, not a 403.
	expiresAt, sig := signer.Sign("asset-1", "composite.png", time.Minute)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", filesURL("asset-1", "composite.png", expiresAt, sig), nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
