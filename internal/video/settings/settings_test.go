package settings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/honkitamc/videohub/internal/video/captcha"
	"github.com/honkitamc/videohub/internal/video/models"
	"github.com/honkitamc/videohub/internal/video/repository"
)

func TestLoad_Defaults(t *testing.T) {
	ctx := context.Background()
	loader := NewLoader(repository.NewMemorySettingsRepository())

	cfg, err := loader.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, DefaultMaxFileSize, cfg.MaxFileSize)
	require.Equal(t, captcha.None, cfg.Captcha.Provider)
	require.Empty(t, cfg.Captcha.Keys)
	require.False(t, cfg.Watermark.Enabled)
	require.Equal(t, models.BottomRight, cfg.Watermark.Position)
}

func TestLoad_ConfiguredValues(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemorySettingsRepository()
	loader := NewLoader(store)

	require.NoError(t, store.Set(ctx, KeyMaxFileSize, "1048576"))
	require.NoError(t, store.Set(ctx, KeyCaptchaProvider, "hcaptcha"))
	require.NoError(t, store.Set(ctx, "hcaptcha_site_key", "hc-site"))
	require.NoError(t, store.Set(ctx, "hcaptcha_secret_key", "hc-secret"))
	require.NoError(t, store.Set(ctx, KeyWatermarkEnabled, "1"))
	require.NoError(t, store.Set(ctx, KeyWatermarkText, "my site"))
	require.NoError(t, store.Set(ctx, KeyWatermarkPosition, "top-right"))

	cfg, err := loader.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1048576), cfg.MaxFileSize)
	require.Equal(t, captcha.HCaptcha, cfg.Captcha.Provider)
	require.Equal(t, "hc-secret", cfg.Captcha.Secret())
	require.True(t, cfg.Watermark.Enabled)
	require.Equal(t, "my site", cfg.Watermark.Text)
	require.Equal(t, models.TopRight, cfg.Watermark.Position)
}

func TestLoad_InactiveProviderKeysSurvive(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemorySettingsRepository()
	loader := NewLoader(store)

	require.NoError(t, store.Set(ctx, "recaptcha_secret_key", "rc-secret"))
	require.NoError(t, store.Set(ctx, "turnstile_secret_key", "ts-secret"))
	require.NoError(t, store.Set(ctx, KeyCaptchaProvider, "turnstile"))

	cfg, err := loader.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "ts-secret", cfg.Captcha.Secret())

	// Switching providers keeps the other keys available.
	require.NoError(t, store.Set(ctx, KeyCaptchaProvider, "recaptcha"))
	cfg, err = loader.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "rc-secret", cfg.Captcha.Secret())
	require.Equal(t, "ts-secret", cfg.Captcha.Keys[captcha.Turnstile].SecretKey)
}

func TestLoad_InvalidValues(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name  string
		key   string
		value string
	}{
		{name: "bad max size", key: KeyMaxFileSize, value: "not-a-number"},
		{name: "negative max size", key: KeyMaxFileSize, value: "-1"},
		{name: "bad provider", key: KeyCaptchaProvider, value: "keycaptcha"},
		{name: "bad position", key: KeyWatermarkPosition, value: "center"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := repository.NewMemorySettingsRepository()
			require.NoError(t, store.Set(ctx, tc.key, tc.value))

			_, err := NewLoader(store).Load(ctx)
			require.ErrorIs(t, err, models.ErrInvalidArgument)
		})
	}
}

func TestUploadCounts(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemorySettingsRepository()
	loader := NewLoader(store)

	for i := 0; i < 3; i++ {
		_, err := loader.CountUpload(ctx, models.MP4)
		require.NoError(t, err)
	}
	_, err := loader.CountUpload(ctx, models.WebM)
	require.NoError(t, err)

	counts, err := loader.UploadCounts(ctx)
	require.NoError(t, err)
	require.Len(t, counts, 7)
	require.Equal(t, int64(3), counts[models.MP4])
	require.Equal(t, int64(1), counts[models.WebM])
	require.Equal(t, int64(0), counts[models.MKV])
}
