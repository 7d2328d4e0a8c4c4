package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/anshuman/hospital-api/internal/repository"
)

// The settings table holds a single JSON document keyed by name. Reads on a
// missing row return nil so the service can fall back to defaults.
type settingsRepository struct {
	BaseRepository
}

func NewSettingsRepository(base BaseRepository) repository.SettingsRepository {
	return &settingsRepository{base}
}

const settingsKey = "platform"

func (r *settingsRepository) Get(ctx context.Context) (map[string]interface{}, error) {
	var raw []byte
	query := `SELECT document FROM admin_settings WHERE key = $1`
	err := r.db.GetContext(ctx, &raw, query, settingsKey)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	return doc, nil
}

func (r *settingsRepository) Save(ctx context.Context, settings map[string]interface{}) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	query := `
		INSERT INTO admin_settings (key, document, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET document = $2, updated_at = $3
	`
	if _, err := r.db.ExecContext(ctx, query, settingsKey, raw, time.Now()); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
