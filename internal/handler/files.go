package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/zKarlz/photomock/internal/security"
	"github.com/zKarlz/photomock/internal/storage"
)

type FileHandler struct {
	store  storage.AssetStore
	signer *security.URLSigner
}

func NewFileHandler(store storage.AssetStore, signer *security.URLSigner) *FileHandler {
	return &FileHandler{
		store:  store,
		signer: signer,
	}
}

// Serve streams one private asset file after verifying the signed URL
// token. All token failures answer with the same 403; the specific
// reason goes to the audit log only.
func (h *FileHandler) Serve(w http.ResponseWriter, r *http.Request) {
	assetID := r.PathValue("asset_id")
	fileName := security.NormalizeFileName(r.PathValue("file_name"))

	expiresAt, err := strconv.ParseInt(r.URL.Query().Get("expires"), 10, 64)
	if err != nil {
		h.deny(w, r, assetID, fileName, "malformed expiry")
		return
	}

	err = h.signer.Verify(assetID, fileName, expiresAt, r.URL.Query().Get("sig"))
	if err != nil {
		h.deny(w, r, assetID, fileName, err.Error())
		return
	}

	data, err := h.store.ReadFile(assetID, fileName)
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	w.Header().Set("Content-Type", http.DetectContentType(head))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "private, max-age=0")
	_, err = w.Write(data)
	if err != nil {
		slog.Debug("client aborted file download", "asset_id", assetID, "file", fileName)
	}
}

func (h *FileHandler) deny(w http.ResponseWriter, r *http.Request, assetID, fileName, reason string) {
	slog.Warn("signed url rejected",
		"asset_id", assetID,
		"file", fileName,
		"reason", reason,
		"remote_addr", r.RemoteAddr,
	)
	http.Error(w, "access denied", http.StatusForbidden)
}
