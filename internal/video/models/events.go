package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	AggregateID() uuid.UUID
	OccurredAt() time.Time
}

// VideoUploaded is emitted when upload intake persists a new video.
type VideoUploaded struct {
	eventID    uuid.UUID
	videoID    uuid.UUID
	uploadedBy uuid.UUID
	extension  Extension
	sizeBytes  int64
	occurredAt time.Time
}

func NewVideoUploaded(v *Video) *VideoUploaded {
	return &VideoUploaded{
		eventID:    uuid.New(),
		videoID:    v.ID,
		uploadedBy: v.UploadedBy,
		extension:  v.Extension,
		sizeBytes:  v.SizeBytes,
		occurredAt: time.Now(),
	}
}

func (e *VideoUploaded) EventID() uuid.UUID     { return e.eventID }
func (e *VideoUploaded) EventType() string      { return "VideoUploaded" }
func (e *VideoUploaded) AggregateID() uuid.UUID { return e.videoID }
func (e *VideoUploaded) OccurredAt() time.Time  { return e.occurredAt }

func (e *VideoUploaded) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		EventID    uuid.UUID `json:"event_id"`
		VideoID    uuid.UUID `json:"video_id"`
		UploadedBy uuid.UUID `json:"uploaded_by"`
		Extension  Extension `json:"extension"`
		SizeBytes  int64     `json:"size_bytes"`
		OccurredAt time.Time `json:"occurred_at"`
	}{
		EventID:    e.eventID,
		VideoID:    e.videoID,
		UploadedBy: e.uploadedBy,
		Extension:  e.extension,
		SizeBytes:  e.sizeBytes,
		OccurredAt: e.occurredAt,
	})
}
