// Package settings loads typed runtime configuration from the key/value
// settings store, applying documented defaults for absent keys.
package settings

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/honkitamc/videohub/internal/video/captcha"
	"github.com/honkitamc/videohub/internal/video/models"
	"github.com/honkitamc/videohub/internal/video/repository"
)

// Setting keys.
const (
	KeyMaxFileSize       = "max_file_size"
	KeyCaptchaProvider   = "captcha_provider"
	KeyWatermarkEnabled  = "watermark_enabled"
	KeyWatermarkText     = "watermark_text"
	KeyWatermarkPosition = "watermark_position"
)

// DefaultMaxFileSize is 50 MiB.
const DefaultMaxFileSize int64 = 52428800

// UploadCountKey names the per-extension upload counter.
func UploadCountKey(ext models.Extension) string {
	return "upload_count_" + string(ext)
}

func siteKeyKey(p captcha.Provider) string   { return string(p) + "_site_key" }
func secretKeyKey(p captcha.Provider) string { return string(p) + "_secret_key" }

type Watermark struct {
	Enabled  bool
	Text     string
	Position models.WatermarkPosition
}

type Config struct {
	MaxFileSize int64
	Captcha     captcha.Config
	Watermark   Watermark
}

// Loader reads Config from a SettingsRepository. Each operation loads a
// fresh snapshot; the store is the only cross-request state.
type Loader struct {
	store repository.SettingsRepository
}

func NewLoader(store repository.SettingsRepository) *Loader {
	return &Loader{store: store}
}

func (l *Loader) get(ctx context.Context, key, fallback string) (string, error) {
	v, err := l.store.Get(ctx, key)
	if errors.Is(err, models.ErrNotFound) {
		return fallback, nil
	}
	if err != nil {
		return "", fmt.Errorf("settings get %s: %w", key, err)
	}
	return v, nil
}

func (l *Loader) Load(ctx context.Context) (Config, error) {
	cfg := Config{
		MaxFileSize: DefaultMaxFileSize,
		Captcha: captcha.Config{
			Provider: captcha.None,
			Keys:     make(map[captcha.Provider]captcha.Credentials),
		},
		Watermark: Watermark{
			Position: models.BottomRight,
		},
	}

	if raw, err := l.get(ctx, KeyMaxFileSize, ""); err != nil {
		return Config{}, err
	} else if raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("%w: %s=%q", models.ErrInvalidArgument, KeyMaxFileSize, raw)
		}
		cfg.MaxFileSize = n
	}

	providerRaw, err := l.get(ctx, KeyCaptchaProvider, string(captcha.None))
	if err != nil {
		return Config{}, err
	}
	provider := captcha.Provider(providerRaw)
	if !provider.Valid() {
		return Config{}, fmt.Errorf("%w: %s=%q", models.ErrInvalidArgument, KeyCaptchaProvider, providerRaw)
	}
	cfg.Captcha.Provider = provider

	// Keys for inactive providers are loaded too; switching providers must
	// not lose them.
	for _, p := range []captcha.Provider{captcha.ReCaptcha, captcha.HCaptcha, captcha.Turnstile} {
		site, err := l.get(ctx, siteKeyKey(p), "")
		if err != nil {
			return Config{}, err
		}
		secret, err := l.get(ctx, secretKeyKey(p), "")
		if err != nil {
			return Config{}, err
		}
		if site != "" || secret != "" {
			cfg.Captcha.Keys[p] = captcha.Credentials{SiteKey: site, SecretKey: secret}
		}
	}

	enabled, err := l.get(ctx, KeyWatermarkEnabled, "0")
	if err != nil {
		return Config{}, err
	}
	cfg.Watermark.Enabled = enabled == "1" || enabled == "true"

	if cfg.Watermark.Text, err = l.get(ctx, KeyWatermarkText, ""); err != nil {
		return Config{}, err
	}

	pos, err := l.get(ctx, KeyWatermarkPosition, string(models.BottomRight))
	if err != nil {
		return Config{}, err
	}
	switch p := models.WatermarkPosition(pos); p {
	case models.TopLeft, models.TopRight, models.BottomLeft, models.BottomRight:
		cfg.Watermark.Position = p
	default:
		return Config{}, fmt.Errorf("%w: %s=%q", models.ErrInvalidArgument, KeyWatermarkPosition, pos)
	}

	return cfg, nil
}

// CountUpload bumps the per-extension upload counter.
func (l *Loader) CountUpload(ctx context.Context, ext models.Extension) (int64, error) {
	return l.store.Increment(ctx, UploadCountKey(ext), 1)
}

// UploadCounts reads all per-extension counters.
func (l *Loader) UploadCounts(ctx context.Context) (map[models.Extension]int64, error) {
	out := make(map[models.Extension]int64, len(models.AllowedExtensions()))
	for _, ext := range models.AllowedExtensions() {
		raw, err := l.get(ctx, UploadCountKey(ext), "0")
		if err != nil {
			return nil, err
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("settings parse %s: %w", UploadCountKey(ext), err)
		}
		out[ext] = n
	}
	return out, nil
}
