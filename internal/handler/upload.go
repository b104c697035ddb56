package handler

import (
	"io"
	"net/http"

	"github.com/zKarlz/photomock/internal/service"
)

type UploadHandler struct {
	assetService *service.AssetService
	maxUpload    int64
}

func NewUploadHandler(assetService *service.AssetService, maxUpload int64) *UploadHandler {
	return &UploadHandler{
		assetService: assetService,
		maxUpload:    maxUpload,
	}
}

// Upload accepts a multipart photo upload and returns the asset id, a
// signed URL for the re-encoded original and its content hash.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)

	err := r.ParseMultipartForm(h.maxUpload)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid multipart request"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "no file uploaded"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "could not read upload"})
		return
	}

	result, err := h.assetService.Upload(r.Context(), data, header.Filename)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, result)
}
