package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khalidalhothifi/expense-manager/internal/apperrors"
	portsrepo "github.com/khalidalhothifi/expense-manager/internal/core/ports/repositories"
)

type SettingsRepository struct {
	db *pgxpool.Pool
}

func NewSettingsRepository(db *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{db: db}
}

var _ portsrepo.SettingsRepository = (*SettingsRepository)(nil)

func (r *SettingsRepository) GetSetting(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT value FROM system_settings WHERE key = $1;`
	var value []byte
	if err := r.db.QueryRow(ctx, query, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: setting %s", apperrors.ErrNotFound, key)
		}
		return nil, fmt.Errorf("failed to get setting: %w", err)
	}
	return value, nil
}

func (r *SettingsRepository) SaveSetting(ctx context.Context, key string, value []byte) error {
	query := `
        INSERT INTO system_settings (key, value, updated_at)
        VALUES ($1, $2, $3)
        ON CONFLICT (key) DO UPDATE SET
            value = EXCLUDED.value,
            updated_at = EXCLUDED.updated_at;
    `
	if _, err := r.db.Exec(ctx, query, key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to save setting: %w", err)
	}
	return nil
}
