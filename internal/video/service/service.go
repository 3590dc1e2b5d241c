package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/honkitamc/videohub/internal/video/captcha"
	"github.com/honkitamc/videohub/internal/video/models"
	"github.com/honkitamc/videohub/internal/video/repository"
	"github.com/honkitamc/videohub/internal/video/settings"
)

// searchLimit caps free-text search results.
const searchLimit = 20

// defaultWatermarkText is used when watermarking is enabled but no text is
// configured.
const defaultWatermarkText = "videohub"

// BlobStore is where the uploaded binary goes. Save returns the location of
// the stored object.
type BlobStore interface {
	Save(ctx context.Context, videoID uuid.UUID, filename string, r io.Reader) (string, error)
}

type CaptchaVerifier interface {
	Verify(ctx context.Context, cfg captcha.Config, token string) bool
}

type Service struct {
	videos   repository.VideoRepository
	likes    repository.LikeRepository
	settings *settings.Loader
	blobs    BlobStore
	captcha  CaptchaVerifier
	logger   zerolog.Logger
	clock    func() time.Time
	idGen    func() uuid.UUID
}

type Config struct {
	Videos   repository.VideoRepository
	Likes    repository.LikeRepository
	Settings *settings.Loader
	Blobs    BlobStore
	Captcha  CaptchaVerifier
	Logger   zerolog.Logger
}

func New(cfg Config) (*Service, error) {
	if cfg.Videos == nil {
		return nil, fmt.Errorf("video repository is required")
	}
	if cfg.Likes == nil {
		return nil, fmt.Errorf("like repository is required")
	}
	if cfg.Settings == nil {
		return nil, fmt.Errorf("settings loader is required")
	}
	if cfg.Blobs == nil {
		return nil, fmt.Errorf("blob store is required")
	}
	if cfg.Captcha == nil {
		return nil, fmt.Errorf("captcha verifier is required")
	}

	return &Service{
		videos:   cfg.Videos,
		likes:    cfg.Likes,
		settings: cfg.Settings,
		blobs:    cfg.Blobs,
		captcha:  cfg.Captcha,
		logger:   cfg.Logger.With().Str("component", "video_service").Logger(),
		clock:    time.Now,
		idGen:    uuid.New,
	}, nil
}

// Upload describes the inbound file.
type Upload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

type Submission struct {
	Title        string
	Description  string
	File         *Upload
	CaptchaToken string
}

// Submit runs the upload intake chain, short-circuiting on the first
// failure: auth, CAPTCHA, file presence, extension allow-list, size limit,
// then blob storage. A successful submission persists the metadata row and
// the VideoUploaded event in one transaction and bumps the per-extension
// upload counter.
func (s *Service) Submit(ctx context.Context, identity models.Identity, sub Submission) (*models.Video, error) {
	if !identity.Authenticated() {
		return nil, models.ErrUnauthorized
	}

	cfg, err := s.settings.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	if !s.captcha.Verify(ctx, cfg.Captcha, sub.CaptchaToken) {
		return nil, models.ErrCaptchaFailed
	}

	if sub.File == nil || sub.File.Filename == "" || sub.File.Content == nil {
		return nil, models.ErrMissingFile
	}

	ext, err := models.ParseExtension(sub.File.Filename)
	if err != nil {
		return nil, err
	}

	if sub.File.Size > cfg.MaxFileSize {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", models.ErrFileTooLarge, sub.File.Size, cfg.MaxFileSize)
	}

	now := s.clock()
	id := s.idGen()

	source, err := s.blobs.Save(ctx, id, sub.File.Filename, sub.File.Content)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", models.ErrStorageFailed, err)
	}

	v := &models.Video{
		ID:          id,
		Title:       strings.TrimSpace(sub.Title),
		Description: strings.TrimSpace(sub.Description),
		Extension:   ext,
		MimeType:    ext.MimeType(),
		SizeBytes:   sub.File.Size,
		UploadedBy:  identity.UserID,
		UploadedAt:  now,
		Views:       0,
		Likes:       0,
		Source:      source,
	}

	if cfg.Watermark.Enabled {
		text := cfg.Watermark.Text
		if text == "" {
			text = defaultWatermarkText
		}
		v.Watermark = models.NullWatermark{
			Valid: true,
			Watermark: models.Watermark{
				Text:      text,
				Position:  cfg.Watermark.Position,
				AppliedAt: now,
			},
		}
	}

	if err := s.videos.Create(ctx, v, models.NewVideoUploaded(v)); err != nil {
		return nil, fmt.Errorf("%w: %s", models.ErrStorageFailed, err)
	}

	// The counter is best-effort bookkeeping; the upload already succeeded.
	if _, err := s.settings.CountUpload(ctx, ext); err != nil {
		s.logger.Warn().Err(err).Str("extension", string(ext)).Msg("upload counter increment failed")
	}

	return v, nil
}

// ToggleLike adds the identity's like if absent and removes it if present.
// The returned count is recomputed from the ledger, not the cached column.
func (s *Service) ToggleLike(ctx context.Context, videoID uuid.UUID, identity models.Identity) (int64, bool, error) {
	if videoID == uuid.Nil {
		return 0, false, fmt.Errorf("%w: missing video id", models.ErrInvalidArgument)
	}

	count, liked, err := s.likes.Toggle(ctx, videoID, identity, s.clock())
	if err != nil {
		// An unknown video id is a caller mistake, not a lookup miss.
		if errors.Is(err, models.ErrNotFound) {
			return 0, false, fmt.Errorf("%w: unknown video %s", models.ErrInvalidArgument, videoID)
		}
		return 0, false, err
	}
	return count, liked, nil
}

// Gallery returns every video, newest first, with the counters read at
// listing time.
func (s *Service) Gallery(ctx context.Context) ([]models.Video, error) {
	return s.videos.List(ctx, 0)
}

type SearchOutcome string

const (
	// OutcomeEmptyQuery asks the caller for a keyword; it is distinct from
	// a search that simply matched nothing.
	OutcomeEmptyQuery SearchOutcome = "empty_query"
	OutcomeNoMatches  SearchOutcome = "no_matches"
	OutcomeMatches    SearchOutcome = "matches"
)

type SearchResult struct {
	Outcome SearchOutcome
	Videos  []models.Video
}

// Search matches the query against titles and descriptions, newest first,
// capped at 20 results.
func (s *Service) Search(ctx context.Context, query string) (*SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return &SearchResult{Outcome: OutcomeEmptyQuery}, nil
	}

	videos, err := s.videos.Search(ctx, query, searchLimit)
	if err != nil {
		return nil, err
	}
	if len(videos) == 0 {
		return &SearchResult{Outcome: OutcomeNoMatches}, nil
	}
	return &SearchResult{Outcome: OutcomeMatches, Videos: videos}, nil
}

// RegisterView bumps a video's view counter atomically.
func (s *Service) RegisterView(ctx context.Context, videoID uuid.UUID) (int64, error) {
	if videoID == uuid.Nil {
		return 0, fmt.Errorf("%w: missing video id", models.ErrInvalidArgument)
	}
	return s.videos.IncrementViews(ctx, videoID)
}

type Stats struct {
	VideoCount     int
	TotalSizeBytes int64
	TotalLikes     int64
	TotalViews     int64
	UploadCounts   map[models.Extension]int64
}

// UploadStats aggregates the library-wide counters.
func (s *Service) UploadStats(ctx context.Context) (*Stats, error) {
	videos, err := s.videos.List(ctx, 0)
	if err != nil {
		return nil, err
	}

	st := &Stats{VideoCount: len(videos)}
	for _, v := range videos {
		st.TotalSizeBytes += v.SizeBytes
		st.TotalLikes += v.Likes
		st.TotalViews += v.Views
	}

	if st.UploadCounts, err = s.settings.UploadCounts(ctx); err != nil {
		return nil, err
	}
	return st, nil
}
