package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lpfarias/essay-api/internal/domain"
	"github.com/lpfarias/essay-api/internal/platform/logger"
	"github.com/lpfarias/essay-api/internal/store"
)

// SettingsStore implements the store.SettingsStore interface using a
// PostgreSQL database as the storage backend. A partial unique index keeps
// the table limited to a single row.
type SettingsStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewSettingsStore creates a new PostgreSQL implementation of the
// SettingsStore interface. If logger is nil, a default logger is used.
func NewSettingsStore(db store.DBTX, logger *slog.Logger) *SettingsStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &SettingsStore{
		db:     db,
		logger: logger.With(slog.String("component", "settings_store")),
	}
}

var _ store.SettingsStore = (*SettingsStore)(nil)

// Get implements store.SettingsStore.Get.
func (s *SettingsStore) Get(ctx context.Context) (*domain.Settings, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, updated_at, review_expiration, review_recuse_expiration, sell_corrections
		FROM settings
		LIMIT 1
	`

	var settings domain.Settings
	err := s.db.QueryRowContext(ctx, query).Scan(
		&settings.ID,
		&settings.UpdatedAt,
		&settings.ReviewExpiration,
		&settings.ReviewRecuseExpiration,
		&settings.SellCorrections,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrSettingsNotFound
		}
		log.Error("failed to get settings", slog.String("error", err.Error()))
		return nil, err
	}

	return &settings, nil
}

// Create implements store.SettingsStore.Create.
func (s *SettingsStore) Create(ctx context.Context, settings *domain.Settings) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := settings.Validate(); err != nil {
		log.Warn("settings validation failed during create",
			slog.String("error", err.Error()))
		return err
	}

	query := `
		INSERT INTO settings (id, updated_at, review_expiration, review_recuse_expiration, sell_corrections)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		settings.ID,
		settings.UpdatedAt,
		settings.ReviewExpiration,
		settings.ReviewRecuseExpiration,
		settings.SellCorrections,
	)

	if err != nil {
		if isUniqueViolation(err, "settings_singleton_key") {
			return fmt.Errorf("%w: settings", store.ErrDuplicate)
		}
		log.Error("failed to create settings", slog.String("error", err.Error()))
		return err
	}

	log.Info("settings created successfully", slog.String("settings_id", settings.ID.String()))
	return nil
}

// Update implements store.SettingsStore.Update.
func (s *SettingsStore) Update(ctx context.Context, settings *domain.Settings) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := settings.Validate(); err != nil {
		log.Warn("settings validation failed during update",
			slog.String("error", err.Error()))
		return err
	}

	settings.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE settings
		SET updated_at = $1, review_expiration = $2, review_recuse_expiration = $3, sell_corrections = $4
		WHERE id = $5
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		settings.UpdatedAt,
		settings.ReviewExpiration,
		settings.ReviewRecuseExpiration,
		settings.SellCorrections,
		settings.ID,
	)

	if err != nil {
		log.Error("failed to update settings", slog.String("error", err.Error()))
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrSettingsNotFound
	}

	log.Info("settings updated successfully", slog.String("settings_id", settings.ID.String()))
	return nil
}

// WithTx implements store.SettingsStore.WithTx.
func (s *SettingsStore) WithTx(tx *sql.Tx) store.SettingsStore {
	return &SettingsStore{db: tx, logger: s.logger}
}
