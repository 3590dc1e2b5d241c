package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExtension(t *testing.T) {
	cases := []struct {
		filename string
		want     Extension
		wantErr  bool
	}{
		{filename: "clip.mp4", want: MP4},
		{filename: "CLIP.MP4", want: MP4},
		{filename: "holiday.MoV", want: MOV},
		{filename: "old.avi", want: AVI},
		{filename: "talk.webm", want: WebM},
		{filename: "movie.mkv", want: MKV},
		{filename: "stream.flv", want: FLV},
		{filename: "pres.wmv", want: WMV},
		{filename: "archive.mp4.zip", wantErr: true},
		{filename: "malware.exe", wantErr: true},
		{filename: "noextension", wantErr: true},
		{filename: "", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.filename, func(t *testing.T) {
			got, err := ParseExtension(tc.filename)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.NotEmpty(t, got.MimeType())
		})
	}
}

func TestIdentityKey(t *testing.T) {
	userID := uuid.MustParse("33333333-3333-3333-3333-333333333333")

	// User id takes precedence over IP.
	both := Identity{UserID: userID, IP: "203.0.113.1"}
	assert.Equal(t, userID.String(), both.Key())
	assert.True(t, both.Authenticated())

	anon := Identity{IP: "203.0.113.1"}
	assert.Equal(t, "203.0.113.1", anon.Key())
	assert.False(t, anon.Authenticated())
}

func TestNullWatermarkRoundTrip(t *testing.T) {
	w := NullWatermark{
		Valid: true,
		Watermark: Watermark{
			Text:      "my site",
			Position:  BottomRight,
			AppliedAt: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	raw, err := w.Value()
	require.NoError(t, err)

	var got NullWatermark
	require.NoError(t, got.Scan(raw))
	require.True(t, got.Valid)
	assert.Equal(t, w.Watermark, got.Watermark)

	var null NullWatermark
	require.NoError(t, null.Scan(nil))
	assert.False(t, null.Valid)

	v, err := null.Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}
