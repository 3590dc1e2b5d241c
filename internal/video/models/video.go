package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Extension string

const (
	MP4  Extension = "mp4"
	MOV  Extension = "mov"
	AVI  Extension = "avi"
	WMV  Extension = "wmv"
	WebM Extension = "webm"
	MKV  Extension = "mkv"
	FLV  Extension = "flv"
)

// videoMimeTypes is the fixed allow-list of uploadable formats.
var videoMimeTypes = map[Extension]string{
	MP4:  "video/mp4",
	MOV:  "video/quicktime",
	AVI:  "video/x-msvideo",
	WMV:  "video/x-ms-wmv",
	WebM: "video/webm",
	MKV:  "video/x-matroska",
	FLV:  "video/x-flv",
}

// AllowedExtensions returns the allow-list in a stable order.
func AllowedExtensions() []Extension {
	return []Extension{MP4, MOV, AVI, WMV, WebM, MKV, FLV}
}

// ParseExtension extracts the lower-cased extension from a filename and
// checks it against the allow-list.
func ParseExtension(filename string) (Extension, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "" {
		return "", fmt.Errorf("%w: no extension in %q", ErrUnsupportedFormat, filename)
	}
	e := Extension(ext)
	if _, ok := videoMimeTypes[e]; !ok {
		return "", fmt.Errorf("%w: .%s", ErrUnsupportedFormat, ext)
	}
	return e, nil
}

func (e Extension) MimeType() string {
	return videoMimeTypes[e]
}

type WatermarkPosition string

const (
	TopLeft     WatermarkPosition = "top-left"
	TopRight    WatermarkPosition = "top-right"
	BottomLeft  WatermarkPosition = "bottom-left"
	BottomRight WatermarkPosition = "bottom-right"
)

// Watermark is a metadata annotation on a video. No transcoding happens;
// the record only describes what a renderer should overlay.
type Watermark struct {
	Text      string            `json:"text"`
	Position  WatermarkPosition `json:"position"`
	AppliedAt time.Time         `json:"applied_at"`
}

// NullWatermark is a Watermark that may be absent, stored as a nullable
// jsonb column. Follows the sql.NullString shape.
type NullWatermark struct {
	Watermark Watermark
	Valid     bool
}

func (n NullWatermark) Value() (driver.Value, error) {
	if !n.Valid {
		return nil, nil
	}
	return json.Marshal(n.Watermark)
}

func (n *NullWatermark) Scan(src any) error {
	if src == nil {
		*n = NullWatermark{}
		return nil
	}
	n.Valid = true
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, &n.Watermark)
	case string:
		return json.Unmarshal([]byte(v), &n.Watermark)
	default:
		return fmt.Errorf("watermark scan: unsupported type %T", src)
	}
}

type Video struct {
	ID          uuid.UUID     `db:"id"`
	Title       string        `db:"title"`
	Description string        `db:"description"`
	Extension   Extension     `db:"extension"`
	MimeType    string        `db:"mime_type"`
	SizeBytes   int64         `db:"size_bytes"`
	UploadedBy  uuid.UUID     `db:"uploaded_by"`
	UploadedAt  time.Time     `db:"uploaded_at"`
	Views       int64         `db:"views"`
	Likes       int64         `db:"likes"`
	Watermark   NullWatermark `db:"watermark"`
	// Source is where the blob store put the binary.
	Source string `db:"source"`
}

// Like is one row of the like ledger. IdentityKey is the dedup key:
// the user id when authenticated, otherwise the client IP.
type Like struct {
	ID          int64         `db:"id"`
	VideoID     uuid.UUID     `db:"video_id"`
	UserID      uuid.NullUUID `db:"user_id"`
	IPAddress   string        `db:"ip_address"`
	IdentityKey string        `db:"identity_key"`
	CreatedAt   time.Time     `db:"created_at"`
}
