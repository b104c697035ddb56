package routes

import (
	"net/http"

	"github.com/zKarlz/photomock/internal/app"
	"github.com/zKarlz/photomock/internal/handler"
	"github.com/zKarlz/photomock/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	upload := handler.NewUploadHandler(app.AssetService, app.Cfg.MaxUploadBytes())
	render := handler.NewRenderHandler(app.RenderService)
	files := handler.NewFileHandler(app.Store, app.Signer)

	mux := http.NewServeMux()

	// Render calls are the expensive ones; rate limit per client IP.
	rateLimiter := middleware.RateLimitUpload()

	// Upload boundary
	mux.HandleFunc("POST /api/upload", rateLimiter(upload.Upload))

	// Finalize boundary
	mux.HandleFunc("POST /api/finalize", rateLimiter(render.Finalize))

	// File-serving boundary (signed URLs)
	mux.HandleFunc("GET /files/{asset_id}/{file_name}", files.Serve)

	handler := middleware.Chain(
		mux,
		middleware.RequestLogging,
	)

	return handler
}
