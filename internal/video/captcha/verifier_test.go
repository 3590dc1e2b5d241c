package captcha

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func configFor(p Provider, secret string) Config {
	return Config{
		Provider: p,
		Keys: map[Provider]Credentials{
			p: {SiteKey: "site", SecretKey: secret},
		},
	}
}

// verifierFor points every provider endpoint at the test server.
func verifierFor(srv *httptest.Server) *Verifier {
	return NewVerifier(zerolog.Nop(),
		WithHTTPClient(srv.Client()),
		WithEndpointResolver(func(Provider) string { return srv.URL }),
	)
}

func TestVerify_ProviderNoneSkipsNetwork(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	v := verifierFor(srv)

	ok := v.Verify(context.Background(), Config{Provider: None}, "")
	require.True(t, ok)
	require.Equal(t, int64(0), calls.Load())
}

func TestVerify_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "sekret", r.PostFormValue("secret"))
		assert.Equal(t, "tok-123", r.PostFormValue("response"))
		w.Write([]byte(`{"success": true}`))
	}))
	defer srv.Close()

	v := verifierFor(srv)

	ok := v.Verify(context.Background(), configFor(ReCaptcha, "sekret"), "tok-123")
	require.True(t, ok)
}

func TestVerify_ProviderRejects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": false, "error-codes": ["invalid-input-response"]}`))
	}))
	defer srv.Close()

	v := verifierFor(srv)

	ok := v.Verify(context.Background(), configFor(HCaptcha, "sekret"), "bad")
	require.False(t, ok)
}

func TestVerify_FailsClosed(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
		},
		{
			name: "unparseable body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("<html>not json</html>"))
			},
		},
		{
			name: "unexpected shape",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"ok": true}`))
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()

			v := verifierFor(srv)

			ok := v.Verify(context.Background(), configFor(Turnstile, "sekret"), "tok")
			require.False(t, ok)
		})
	}
}

func TestVerify_MissingTokenOrSecretSkipsNetwork(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"success": true}`))
	}))
	defer srv.Close()

	v := verifierFor(srv)

	require.False(t, v.Verify(context.Background(), configFor(ReCaptcha, "sekret"), ""))
	require.False(t, v.Verify(context.Background(), configFor(ReCaptcha, ""), "tok"))
	require.Equal(t, int64(0), calls.Load())
}

func TestVerify_TimeoutFailsClosed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"success": true}`))
	}))
	defer srv.Close()

	v := NewVerifier(zerolog.Nop(),
		WithHTTPClient(&http.Client{Timeout: 20 * time.Millisecond}),
		WithEndpointResolver(func(Provider) string { return srv.URL }),
	)

	ok := v.Verify(context.Background(), configFor(ReCaptcha, "sekret"), "tok")
	require.False(t, ok)
}

func TestVerify_UnknownProvider(t *testing.T) {
	v := NewVerifier(zerolog.Nop())

	ok := v.Verify(context.Background(), Config{Provider: "keycaptcha"}, "tok")
	require.False(t, ok)
}

func TestProviderConstants(t *testing.T) {
	assert.Equal(t, "https://www.google.com/recaptcha/api/siteverify", ReCaptcha.VerifyURL())
	assert.Equal(t, "https://hcaptcha.com/siteverify", HCaptcha.VerifyURL())
	assert.Equal(t, "https://challenges.cloudflare.com/turnstile/v0/siteverify", Turnstile.VerifyURL())

	assert.Equal(t, "g-recaptcha-response", ReCaptcha.ResponseField())
	assert.Equal(t, "h-captcha-response", HCaptcha.ResponseField())
	assert.Equal(t, "cf-turnstile-response", Turnstile.ResponseField())

	assert.Empty(t, None.VerifyURL())
	assert.Empty(t, None.ResponseField())
}
