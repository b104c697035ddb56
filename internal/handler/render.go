package handler

import (
	"encoding/json"
	"net/http"

	"github.com/zKarlz/photomock/internal/service"
)

type RenderHandler struct {
	renderService *service.RenderService
}

func NewRenderHandler(renderService *service.RenderService) *RenderHandler {
	return &RenderHandler{renderService: renderService}
}

// Finalize renders the composite for a confirmed composition and
// returns signed URLs for the outputs.
func (h *RenderHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	var req service.FinalizeRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if req.AssetID == "" || req.BasePath == "" {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "asset_id and base_path are required"})
		return
	}

	result, err := h.renderService.Finalize(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}
