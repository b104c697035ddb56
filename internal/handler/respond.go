package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/zKarlz/photomock/internal/codec"
	"github.com/zKarlz/photomock/internal/render"
	"github.com/zKarlz/photomock/internal/repository"
	"github.com/zKarlz/photomock/internal/service"
	"github.com/zKarlz/photomock/internal/storage"
	"github.com/zKarlz/photomock/internal/validation"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(payload)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// respondError maps the engine's error taxonomy onto HTTP statuses.
// Nothing here is retryable, so the body carries the detail and the
// caller decides what to change.
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, service.ErrMissingOriginal),
		errors.Is(err, service.ErrMissingBase),
		errors.Is(err, service.ErrMissingMask),
		errors.Is(err, storage.ErrNotFound),
		errors.Is(err, repository.ErrAssetNotFound):
		status = http.StatusNotFound
	case errors.Is(err, codec.ErrUnsupportedFormat):
		status = http.StatusUnsupportedMediaType
	case errors.Is(err, validation.ErrInvalidFile),
		errors.Is(err, codec.ErrFormatMismatch),
		errors.Is(err, codec.ErrDecode),
		errors.Is(err, render.ErrInvalidBounds),
		errors.Is(err, render.ErrInvalidTransform),
		errors.Is(err, render.ErrCropOutOfBounds):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
		respondJSON(w, status, errorResponse{Error: "internal error"})
		return
	}

	respondJSON(w, status, errorResponse{Error: err.Error()})
}
