package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/honkitamc/videohub/internal/video/models"
)

type VideoRepository interface {
	// Create persists a new video. When evt is non-nil it is staged for
	// publication in the same transaction (outbox).
	Create(ctx context.Context, v *models.Video, evt models.DomainEvent) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Video, error)
	// List returns videos newest first. limit <= 0 means no cap.
	List(ctx context.Context, limit int) ([]models.Video, error)
	// Search matches query against title and description, newest first.
	Search(ctx context.Context, query string, limit int) ([]models.Video, error)
	// IncrementViews bumps the view counter atomically and returns the new value.
	IncrementViews(ctx context.Context, id uuid.UUID) (int64, error)
}

type LikeRepository interface {
	// Toggle removes the like for (videoID, identity key) if present,
	// inserts it otherwise, and returns the ledger count after the change.
	// The whole operation is atomic; a concurrent duplicate insert is
	// absorbed as a no-op, never surfaced as an error.
	Toggle(ctx context.Context, videoID uuid.UUID, identity models.Identity, now time.Time) (count int64, liked bool, err error)
	CountFor(ctx context.Context, videoID uuid.UUID) (int64, error)
}

// SettingsRepository is the key/value settings store. Get returns
// models.ErrNotFound for absent keys so callers can apply defaults.
type SettingsRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	// Increment atomically adds delta to a numeric value, creating the key
	// at delta if absent, and returns the new value.
	Increment(ctx context.Context, key string, delta int64) (int64, error)
}
