package httpapi

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/honkitamc/videohub/internal/video/captcha"
	"github.com/honkitamc/videohub/internal/video/models"
	"github.com/honkitamc/videohub/internal/video/service"
)

// multipartMemory is the in-memory threshold for multipart parsing; larger
// files spill to temp storage.
const multipartMemory = 32 << 20

type Handler struct {
	svc    *service.Service
	logger zerolog.Logger
}

func New(svc *service.Service, logger zerolog.Logger) *Handler {
	return &Handler{
		svc:    svc,
		logger: logger.With().Str("component", "httpapi").Logger(),
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErrorJSON(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Upload handles the multipart submission form: video_title,
// video_description, video_file, plus whichever provider token field the
// client widget set.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErrorJSON(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	sub := service.Submission{
		Title:        r.FormValue("video_title"),
		Description:  r.FormValue("video_description"),
		CaptchaToken: captchaToken(r),
	}

	file, header, err := r.FormFile("video_file")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		writeErrorJSON(w, http.StatusBadRequest, "unreadable video file")
		return
	}
	if err == nil {
		defer file.Close()
		sub.File = &service.Upload{
			Filename: header.Filename,
			Size:     header.Size,
			Content:  file,
		}
	}

	v, err := h.svc.Submit(r.Context(), identityFrom(r), sub)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toVideoResponse(v))
}

func (h *Handler) Like(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErrorJSON(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	defer r.Body.Close()

	var req LikeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid json body")
		return
	}

	likes, liked, err := h.svc.ToggleLike(r.Context(), req.VideoID, identityFrom(r))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, LikeResponse{Likes: likes, Liked: liked})
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErrorJSON(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	defer r.Body.Close()

	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid json body")
		return
	}

	result, err := h.svc.Search(r.Context(), req.Query)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	resp := SearchResponse{Outcome: string(result.Outcome)}
	switch result.Outcome {
	case service.OutcomeEmptyQuery:
		resp.Message = "Enter a search keyword."
	case service.OutcomeNoMatches:
		resp.Message = "No videos matched your search."
	default:
		resp.Items = toVideoResponses(result.Videos)
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) Gallery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErrorJSON(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	videos, err := h.svc.Gallery(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toVideoResponses(videos))
}

// View handles POST /api/videos/{id}/view.
func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErrorJSON(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	idStr := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/api/videos/"), "/view")
	id, err := uuid.Parse(idStr)
	if err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid video id")
		return
	}

	views, err := h.svc.RegisterView(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ViewResponse{Views: views})
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErrorJSON(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	st, err := h.svc.UploadStats(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toStatsResponse(st))
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrUnauthorized):
		writeErrorJSON(w, http.StatusUnauthorized, "authentication required")
	case errors.Is(err, models.ErrCaptchaFailed):
		writeErrorJSON(w, http.StatusForbidden, "captcha verification failed")
	case errors.Is(err, models.ErrMissingFile):
		writeErrorJSON(w, http.StatusBadRequest, "no file provided")
	case errors.Is(err, models.ErrUnsupportedFormat):
		writeErrorJSON(w, http.StatusBadRequest, "unsupported video format")
	case errors.Is(err, models.ErrFileTooLarge):
		writeErrorJSON(w, http.StatusRequestEntityTooLarge, "file exceeds maximum size")
	case errors.Is(err, models.ErrInvalidArgument):
		writeErrorJSON(w, http.StatusBadRequest, "invalid argument")
	case errors.Is(err, models.ErrNotFound):
		writeErrorJSON(w, http.StatusNotFound, "not found")
	case errors.Is(err, models.ErrStorageFailed):
		writeErrorJSON(w, http.StatusInternalServerError, "storage failed")
	default:
		h.logger.Error().Err(err).Msg("unhandled service error")
		writeErrorJSON(w, http.StatusInternalServerError, "internal error")
	}
}

// identityFrom builds the request identity. Authentication itself is the
// host's concern; this adapter trusts the X-User-ID header and falls back
// to the client IP.
func identityFrom(r *http.Request) models.Identity {
	id := models.Identity{IP: clientIP(r)}
	if raw := r.Header.Get("X-User-ID"); raw != "" {
		if userID, err := uuid.Parse(raw); err == nil {
			id.UserID = userID
		}
	}
	return id
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// captchaToken picks whichever provider response field the client posted.
// Verification decides whether it matches the configured provider.
func captchaToken(r *http.Request) string {
	for _, field := range captcha.ResponseFields() {
		if token := r.FormValue(field); token != "" {
			return token
		}
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrorJSON(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
