package service

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/honkitamc/videohub/internal/video/captcha"
	"github.com/honkitamc/videohub/internal/video/models"
)

type VideoRepoMock struct {
	mock.Mock
}

func (m *VideoRepoMock) Create(ctx context.Context, v *models.Video, evt models.DomainEvent) error {
	args := m.Called(ctx, v, evt)
	return args.Error(0)
}

func (m *VideoRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*models.Video, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*models.Video), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *VideoRepoMock) List(ctx context.Context, limit int) ([]models.Video, error) {
	args := m.Called(ctx, limit)
	if v := args.Get(0); v != nil {
		return v.([]models.Video), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *VideoRepoMock) Search(ctx context.Context, query string, limit int) ([]models.Video, error) {
	args := m.Called(ctx, query, limit)
	if v := args.Get(0); v != nil {
		return v.([]models.Video), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *VideoRepoMock) IncrementViews(ctx context.Context, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

type LikeRepoMock struct {
	mock.Mock
}

func (m *LikeRepoMock) Toggle(ctx context.Context, videoID uuid.UUID, identity models.Identity, now time.Time) (int64, bool, error) {
	args := m.Called(ctx, videoID, identity, now)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

func (m *LikeRepoMock) CountFor(ctx context.Context, videoID uuid.UUID) (int64, error) {
	args := m.Called(ctx, videoID)
	return args.Get(0).(int64), args.Error(1)
}

type BlobStoreMock struct {
	mock.Mock
}

func (m *BlobStoreMock) Save(ctx context.Context, videoID uuid.UUID, filename string, r io.Reader) (string, error) {
	args := m.Called(ctx, videoID, filename, r)
	return args.String(0), args.Error(1)
}

type CaptchaMock struct {
	mock.Mock
}

func (m *CaptchaMock) Verify(ctx context.Context, cfg captcha.Config, token string) bool {
	args := m.Called(ctx, cfg, token)
	return args.Bool(0)
}
