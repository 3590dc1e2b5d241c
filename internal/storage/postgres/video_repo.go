package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/honkitamc/videohub/internal/video/models"
)

const videoColumns = `id, title, description, extension, mime_type, size_bytes,
		uploaded_by, uploaded_at, views, likes, watermark, source`

type VideoRepo struct {
	db     *sqlx.DB
	outbox *OutboxRepo
}

// NewVideoRepo builds the repo. outbox may be nil when event publication is
// not wired (tests, one-off tools).
func NewVideoRepo(db *sqlx.DB, outbox *OutboxRepo) *VideoRepo {
	return &VideoRepo{db: db, outbox: outbox}
}

// Create inserts the video row and, when an event is given, stages it in
// the outbox within the same transaction.
func (r *VideoRepo) Create(ctx context.Context, v *models.Video, evt models.DomainEvent) error {
	const q = `
		INSERT INTO videos (` + videoColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("video create begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, q,
		v.ID, v.Title, v.Description, v.Extension, v.MimeType, v.SizeBytes,
		v.UploadedBy, v.UploadedAt, v.Views, v.Likes, v.Watermark, v.Source,
	)
	if err != nil {
		return fmt.Errorf("video create: %w", err)
	}

	if evt != nil && r.outbox != nil {
		if err := r.outbox.Add(ctx, tx, evt); err != nil {
			return fmt.Errorf("video create outbox: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("video create commit: %w", err)
	}
	return nil
}

func (r *VideoRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Video, error) {
	const q = `
		SELECT ` + videoColumns + `
		FROM videos
		WHERE id = $1
	`

	var v models.Video
	if err := r.db.GetContext(ctx, &v, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("video get by id: %w", err)
	}

	return &v, nil
}

func (r *VideoRepo) List(ctx context.Context, limit int) ([]models.Video, error) {
	q := `
		SELECT ` + videoColumns + `
		FROM videos
		ORDER BY uploaded_at DESC, id DESC
	`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT $1`
		args = append(args, limit)
	}

	var out []models.Video
	if err := r.db.SelectContext(ctx, &out, q, args...); err != nil {
		return nil, fmt.Errorf("video list: %w", err)
	}
	return out, nil
}

func (r *VideoRepo) Search(ctx context.Context, query string, limit int) ([]models.Video, error) {
	const q = `
		SELECT ` + videoColumns + `
		FROM videos
		WHERE title ILIKE '%' || $1 || '%' OR description ILIKE '%' || $1 || '%'
		ORDER BY uploaded_at DESC, id DESC
		LIMIT $2
	`

	var out []models.Video
	if err := r.db.SelectContext(ctx, &out, q, query, limit); err != nil {
		return nil, fmt.Errorf("video search: %w", err)
	}
	return out, nil
}

func (r *VideoRepo) IncrementViews(ctx context.Context, id uuid.UUID) (int64, error) {
	const q = `
		UPDATE videos
		SET views = views + 1
		WHERE id = $1
		RETURNING views
	`

	var views int64
	if err := r.db.GetContext(ctx, &views, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, models.ErrNotFound
		}
		return 0, fmt.Errorf("video increment views: %w", err)
	}
	return views, nil
}
