package store

import (
	"context"
	"database/sql"

	"github.com/lpfarias/essay-api/internal/domain"
)

// SettingsStore defines the interface for the settings singleton persistence.
type SettingsStore interface {
	// Get retrieves the settings row.
	// Returns ErrSettingsNotFound if it was never created.
	Get(ctx context.Context) (*domain.Settings, error)

	// Create saves the settings row.
	// Returns ErrDuplicate if a settings row already exists.
	Create(ctx context.Context, settings *domain.Settings) error

	// Update saves changes to the settings row.
	// Returns ErrSettingsNotFound if it does not exist.
	Update(ctx context.Context, settings *domain.Settings) error

	// WithTx returns a new SettingsStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) SettingsStore
}
