package captcha

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const defaultTimeout = 5 * time.Second

// Verifier performs the single outbound siteverify call. It never returns
// an error: every failure mode collapses to "not verified" so callers
// cannot accidentally fail open.
type Verifier struct {
	client  *http.Client
	logger  zerolog.Logger
	baseURL func(Provider) string
}

type VerifierOption func(*Verifier)

// WithHTTPClient replaces the default client (5s timeout).
func WithHTTPClient(c *http.Client) VerifierOption {
	return func(v *Verifier) { v.client = c }
}

// WithEndpointResolver overrides the provider endpoint lookup. Tests point
// it at a local server.
func WithEndpointResolver(f func(Provider) string) VerifierOption {
	return func(v *Verifier) { v.baseURL = f }
}

func NewVerifier(logger zerolog.Logger, opts ...VerifierOption) *Verifier {
	v := &Verifier{
		client:  &http.Client{Timeout: defaultTimeout},
		logger:  logger.With().Str("component", "captcha_verifier").Logger(),
		baseURL: Provider.VerifyURL,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify checks token against the configured provider. Provider None always
// passes without a network call. A missing token or secret fails immediately,
// also without a network call.
func (v *Verifier) Verify(ctx context.Context, cfg Config, token string) bool {
	if cfg.Provider == None {
		return true
	}
	if !cfg.Provider.Valid() {
		v.logger.Warn().Str("provider", string(cfg.Provider)).Msg("unknown captcha provider")
		return false
	}

	secret := cfg.Secret()
	if token == "" || secret == "" {
		return false
	}

	endpoint := v.baseURL(cfg.Provider)
	if endpoint == "" {
		return false
	}

	form := url.Values{
		"secret":   {secret},
		"response": {token},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		v.logger.Error().Err(err).Msg("build verify request")
		return false
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		v.logger.Warn().Err(err).Str("provider", string(cfg.Provider)).Msg("captcha verify transport error")
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		v.logger.Warn().Int("status", resp.StatusCode).Str("provider", string(cfg.Provider)).Msg("captcha verify bad status")
		return false
	}

	var body struct {
		Success bool `json:"success"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		v.logger.Warn().Err(err).Msg("captcha verify unparseable body")
		return false
	}

	return body.Success
}
