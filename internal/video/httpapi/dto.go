package httpapi

import (
	"time"

	"github.com/google/uuid"

	"github.com/honkitamc/videohub/internal/video/models"
	"github.com/honkitamc/videohub/internal/video/service"
)

type WatermarkResponse struct {
	Text      string    `json:"text"`
	Position  string    `json:"position"`
	AppliedAt time.Time `json:"applied_at"`
}

type VideoResponse struct {
	ID          uuid.UUID          `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Extension   string             `json:"extension"`
	MimeType    string             `json:"mime_type"`
	SizeBytes   int64              `json:"size_bytes"`
	UploadedBy  uuid.UUID          `json:"uploaded_by"`
	UploadedAt  time.Time          `json:"uploaded_at"`
	Views       int64              `json:"views"`
	Likes       int64              `json:"likes"`
	Watermark   *WatermarkResponse `json:"watermark,omitempty"`
	Source      string             `json:"source"`
}

type LikeRequest struct {
	VideoID uuid.UUID `json:"video_id"`
}

type LikeResponse struct {
	Likes int64 `json:"likes"`
	Liked bool  `json:"liked"`
}

type SearchRequest struct {
	Query string `json:"query"`
}

type SearchResponse struct {
	Outcome string          `json:"outcome"`
	Message string          `json:"message,omitempty"`
	Items   []VideoResponse `json:"items,omitempty"`
}

type ViewResponse struct {
	Views int64 `json:"views"`
}

type StatsResponse struct {
	VideoCount     int              `json:"video_count"`
	TotalSizeBytes int64            `json:"total_size_bytes"`
	TotalLikes     int64            `json:"total_likes"`
	TotalViews     int64            `json:"total_views"`
	UploadCounts   map[string]int64 `json:"upload_counts"`
}

func toVideoResponse(v *models.Video) VideoResponse {
	resp := VideoResponse{
		ID:          v.ID,
		Title:       v.Title,
		Description: v.Description,
		Extension:   string(v.Extension),
		MimeType:    v.MimeType,
		SizeBytes:   v.SizeBytes,
		UploadedBy:  v.UploadedBy,
		UploadedAt:  v.UploadedAt,
		Views:       v.Views,
		Likes:       v.Likes,
		Source:      v.Source,
	}
	if v.Watermark.Valid {
		resp.Watermark = &WatermarkResponse{
			Text:      v.Watermark.Watermark.Text,
			Position:  string(v.Watermark.Watermark.Position),
			AppliedAt: v.Watermark.Watermark.AppliedAt,
		}
	}
	return resp
}

func toVideoResponses(videos []models.Video) []VideoResponse {
	out := make([]VideoResponse, 0, len(videos))
	for i := range videos {
		out = append(out, toVideoResponse(&videos[i]))
	}
	return out
}

func toStatsResponse(st *service.Stats) StatsResponse {
	counts := make(map[string]int64, len(st.UploadCounts))
	for ext, n := range st.UploadCounts {
		counts[string(ext)] = n
	}
	return StatsResponse{
		VideoCount:     st.VideoCount,
		TotalSizeBytes: st.TotalSizeBytes,
		TotalLikes:     st.TotalLikes,
		TotalViews:     st.TotalViews,
		UploadCounts:   counts,
	}
}
