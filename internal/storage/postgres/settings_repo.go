package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/honkitamc/videohub/internal/video/models"
)

// SettingsRepo is the key/value settings store. Numeric values live as text,
// like every other value; Increment casts in SQL so concurrent bumps cannot
// lose updates.
type SettingsRepo struct {
	db *sqlx.DB
}

func NewSettingsRepo(db *sqlx.DB) *SettingsRepo {
	return &SettingsRepo{db: db}
}

func (r *SettingsRepo) Get(ctx context.Context, key string) (string, error) {
	const q = `SELECT value FROM settings WHERE key = $1`

	var value string
	if err := r.db.GetContext(ctx, &value, q, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", models.ErrNotFound
		}
		return "", fmt.Errorf("settings get: %w", err)
	}
	return value, nil
}

func (r *SettingsRepo) Set(ctx context.Context, key, value string) error {
	const q = `
		INSERT INTO settings (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`
	if _, err := r.db.ExecContext(ctx, q, key, value); err != nil {
		return fmt.Errorf("settings set: %w", err)
	}
	return nil
}

func (r *SettingsRepo) Increment(ctx context.Context, key string, delta int64) (int64, error) {
	const q = `
		INSERT INTO settings (key, value)
		VALUES ($1, $2::text)
		ON CONFLICT (key) DO UPDATE SET value = (settings.value::bigint + $2)::text
		RETURNING value::bigint
	`

	var value int64
	if err := r.db.GetContext(ctx, &value, q, key, delta); err != nil {
		return 0, fmt.Errorf("settings increment: %w", err)
	}
	return value, nil
}
