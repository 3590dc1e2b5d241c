package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/honkitamc/videohub/internal/video/models"
)

type LikeRepo struct {
	db *sqlx.DB
}

func NewLikeRepo(db *sqlx.DB) *LikeRepo {
	return &LikeRepo{db: db}
}

// Toggle flips the like for (videoID, identity key) in one transaction.
// The unique constraint on (video_id, identity_key) is the real guard:
// a concurrent insert that loses the race hits ON CONFLICT DO NOTHING and
// is absorbed as an already-liked no-op. The cached videos.likes column is
// adjusted with atomic deltas, floored at 0; the returned count is
// recomputed from the ledger, which is the source of truth.
func (r *LikeRepo) Toggle(ctx context.Context, videoID uuid.UUID, identity models.Identity, now time.Time) (int64, bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, false, fmt.Errorf("like toggle begin tx: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM videos WHERE id = $1)`, videoID); err != nil {
		return 0, false, fmt.Errorf("like toggle video lookup: %w", err)
	}
	if !exists {
		return 0, false, models.ErrNotFound
	}

	key := identity.Key()

	res, err := tx.ExecContext(ctx,
		`DELETE FROM video_likes WHERE video_id = $1 AND identity_key = $2`,
		videoID, key,
	)
	if err != nil {
		return 0, false, fmt.Errorf("like toggle delete: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, false, fmt.Errorf("like toggle delete rows: %w", err)
	}

	var liked bool
	if deleted > 0 {
		liked = false
		if _, err := tx.ExecContext(ctx,
			`UPDATE videos SET likes = GREATEST(likes - 1, 0) WHERE id = $1`,
			videoID,
		); err != nil {
			return 0, false, fmt.Errorf("like toggle decrement: %w", err)
		}
	} else {
		liked = true
		res, err := tx.ExecContext(ctx,
			`INSERT INTO video_likes (video_id, user_id, ip_address, identity_key, created_at)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (video_id, identity_key) DO NOTHING`,
			videoID,
			uuid.NullUUID{UUID: identity.UserID, Valid: identity.Authenticated()},
			identity.IP, key, now,
		)
		if err != nil {
			return 0, false, fmt.Errorf("like toggle insert: %w", err)
		}
		inserted, err := res.RowsAffected()
		if err != nil {
			return 0, false, fmt.Errorf("like toggle insert rows: %w", err)
		}
		// inserted == 0 means a concurrent toggle won; the like already
		// stands, so skip the increment and just report the count.
		if inserted > 0 {
			if _, err := tx.ExecContext(ctx,
				`UPDATE videos SET likes = likes + 1 WHERE id = $1`,
				videoID,
			); err != nil {
				return 0, false, fmt.Errorf("like toggle increment: %w", err)
			}
		}
	}

	var count int64
	if err := tx.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM video_likes WHERE video_id = $1`, videoID,
	); err != nil {
		return 0, false, fmt.Errorf("like toggle count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, false, fmt.Errorf("like toggle commit: %w", err)
	}

	return count, liked, nil
}

func (r *LikeRepo) CountFor(ctx context.Context, videoID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM video_likes WHERE video_id = $1`, videoID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("like count: %w", err)
	}
	return count, nil
}
