package repository

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/honkitamc/videohub/internal/video/models"
)

// MemoryVideoRepository keeps videos in a map. Used by tests and local runs
// without Postgres.
type MemoryVideoRepository struct {
	mu     sync.RWMutex
	data   map[uuid.UUID]*models.Video
	events []models.DomainEvent
}

func NewMemoryVideoRepository() *MemoryVideoRepository {
	return &MemoryVideoRepository{
		data: make(map[uuid.UUID]*models.Video),
	}
}

func (r *MemoryVideoRepository) Create(ctx context.Context, v *models.Video, evt models.DomainEvent) error {
	if v == nil || v.ID == uuid.Nil {
		return models.ErrInvalidArgument
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.data[v.ID]; exists {
		return models.ErrConflict
	}

	// Defensive copy so the caller cannot mutate the stored object.
	cp := *v
	r.data[v.ID] = &cp
	if evt != nil {
		r.events = append(r.events, evt)
	}

	return nil
}

func (r *MemoryVideoRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Video, error) {
	if id == uuid.Nil {
		return nil, models.ErrInvalidArgument
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.data[id]
	if !ok {
		return nil, models.ErrNotFound
	}

	cp := *v
	return &cp, nil
}

func (r *MemoryVideoRepository) List(ctx context.Context, limit int) ([]models.Video, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(limit, func(*models.Video) bool { return true }), nil
}

func (r *MemoryVideoRepository) Search(ctx context.Context, query string, limit int) ([]models.Video, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	q := strings.ToLower(query)

	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(limit, func(v *models.Video) bool {
		return strings.Contains(strings.ToLower(v.Title), q) ||
			strings.Contains(strings.ToLower(v.Description), q)
	}), nil
}

func (r *MemoryVideoRepository) IncrementViews(ctx context.Context, id uuid.UUID) (int64, error) {
	if id == uuid.Nil {
		return 0, models.ErrInvalidArgument
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.data[id]
	if !ok {
		return 0, models.ErrNotFound
	}
	v.Views++
	return v.Views, nil
}

// Events returns the staged domain events, oldest first.
func (r *MemoryVideoRepository) Events() []models.DomainEvent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.DomainEvent(nil), r.events...)
}

// adjustLikes applies an atomic delta to the cached counter, floored at 0.
func (r *MemoryVideoRepository) adjustLikes(id uuid.UUID, delta int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.data[id]; ok {
		v.Likes += delta
		if v.Likes < 0 {
			v.Likes = 0
		}
	}
}

func (r *MemoryVideoRepository) has(id uuid.UUID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.data[id]
	return ok
}

func (r *MemoryVideoRepository) collect(limit int, match func(*models.Video) bool) []models.Video {
	out := make([]models.Video, 0, len(r.data))
	for _, v := range r.data {
		if match(v) {
			out = append(out, *v)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UploadedAt.After(out[j].UploadedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// MemoryLikeRepository enforces the one-like-per-identity invariant with a
// single mutex, mirroring what the unique constraint does in Postgres.
type MemoryLikeRepository struct {
	mu     sync.Mutex
	likes  map[uuid.UUID]map[string]models.Like
	nextID int64
	videos *MemoryVideoRepository
}

// NewMemoryLikeRepository binds the ledger to a video repository so toggles
// can reject unknown videos and keep the cached counter in step.
func NewMemoryLikeRepository(videos *MemoryVideoRepository) *MemoryLikeRepository {
	return &MemoryLikeRepository{
		likes:  make(map[uuid.UUID]map[string]models.Like),
		videos: videos,
	}
}

func (r *MemoryLikeRepository) Toggle(ctx context.Context, videoID uuid.UUID, identity models.Identity, now time.Time) (int64, bool, error) {
	if videoID == uuid.Nil {
		return 0, false, models.ErrInvalidArgument
	}
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}
	if r.videos != nil && !r.videos.has(videoID) {
		return 0, false, models.ErrNotFound
	}

	key := identity.Key()

	r.mu.Lock()
	byKey, ok := r.likes[videoID]
	if !ok {
		byKey = make(map[string]models.Like)
		r.likes[videoID] = byKey
	}

	var liked bool
	var delta int64
	if _, exists := byKey[key]; exists {
		delete(byKey, key)
		liked, delta = false, -1
	} else {
		r.nextID++
		byKey[key] = models.Like{
			ID:          r.nextID,
			VideoID:     videoID,
			UserID:      uuid.NullUUID{UUID: identity.UserID, Valid: identity.Authenticated()},
			IPAddress:   identity.IP,
			IdentityKey: key,
			CreatedAt:   now,
		}
		liked, delta = true, 1
	}
	count := int64(len(byKey))
	r.mu.Unlock()

	if r.videos != nil {
		r.videos.adjustLikes(videoID, delta)
	}

	return count, liked, nil
}

func (r *MemoryLikeRepository) CountFor(ctx context.Context, videoID uuid.UUID) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.likes[videoID])), nil
}

// MemorySettingsRepository is a mutex-guarded key/value map.
type MemorySettingsRepository struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemorySettingsRepository() *MemorySettingsRepository {
	return &MemorySettingsRepository{data: make(map[string]string)}
}

func (r *MemorySettingsRepository) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.data[key]
	if !ok {
		return "", models.ErrNotFound
	}
	return v, nil
}

func (r *MemorySettingsRepository) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[key] = value
	return nil
}

func (r *MemorySettingsRepository) Increment(ctx context.Context, key string, delta int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cur, _ := strconv.ParseInt(r.data[key], 10, 64)
	cur += delta
	r.data[key] = strconv.FormatInt(cur, 10)
	return cur, nil
}
