package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Chandresh-Kathiriya/m-desk-backend/internal/domain"
)

// SettingsRepository defines the interface for the single-row system settings.
// The schema pins the row id to TRUE so a second row cannot exist.
type SettingsRepository interface {
	Get(ctx context.Context) (*domain.SystemSettings, error)
	Save(ctx context.Context, settings *domain.SystemSettings) error
}

type settingsRepository struct {
	db Querier
}

// NewSettingsRepository creates a new instance of SettingsRepository
func NewSettingsRepository(db Querier) SettingsRepository {
	return &settingsRepository{db: db}
}

// Get retrieves the settings row, inserting the default if it is missing.
func (r *settingsRepository) Get(ctx context.Context) (*domain.SystemSettings, error) {
	settings := &domain.SystemSettings{}
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO system_settings (singleton, automatic_invoicing, updated_at)
		VALUES (TRUE, TRUE, NOW())
		ON CONFLICT (singleton) DO UPDATE SET singleton = TRUE
		RETURNING automatic_invoicing, updated_at
	`).Scan(&settings.AutomaticInvoicing, &settings.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get system settings: %w", err)
	}

	return settings, nil
}

// Save upserts the singleton row.
func (r *settingsRepository) Save(ctx context.Context, settings *domain.SystemSettings) error {
	settings.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO system_settings (singleton, automatic_invoicing, updated_at)
		VALUES (TRUE, $1, $2)
		ON CONFLICT (singleton) DO UPDATE
		SET automatic_invoicing = EXCLUDED.automatic_invoicing, updated_at = EXCLUDED.updated_at
	`, settings.AutomaticInvoicing, settings.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save system settings: %w", err)
	}

	return nil
}
