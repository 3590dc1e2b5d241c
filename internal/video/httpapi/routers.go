package httpapi

import "net/http"

func NewRouter(h *Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", h.Health)

	// The AJAX-style action endpoints.
	mux.HandleFunc("/api/video-upload", h.Upload)
	mux.HandleFunc("/api/video-like", h.Like)
	mux.HandleFunc("/api/video-search", h.Search)

	// GET /api/videos (gallery)
	mux.HandleFunc("/api/videos", h.Gallery)

	// POST /api/videos/{id}/view
	// Trailing slash so the handler can TrimPrefix("/api/videos/").
	mux.HandleFunc("/api/videos/", h.View)

	mux.HandleFunc("/api/stats", h.Stats)

	return mux
}
