package service

import (
	"context"
	"log/slog"

	"github.com/lpfarias/essay-api/internal/domain"
	"github.com/lpfarias/essay-api/internal/store"
)

// SettingsData carries the mutable platform settings. Nil fields are left
// unchanged on update and fall back to defaults on first creation.
type SettingsData struct {
	ReviewExpiration       *int
	ReviewRecuseExpiration *int
	SellCorrections        *bool
}

// Defaults used when the settings row is first created without explicit
// values.
const (
	defaultReviewExpirationDays       = 7
	defaultReviewRecuseExpirationDays = 3
)

// SettingsService manages the platform-wide settings singleton.
type SettingsService interface {
	// Get retrieves the settings row.
	Get(ctx context.Context) (*domain.Settings, error)

	// UpdateOrCreate applies the given fields to the settings row, creating
	// it with defaults for unset fields if it does not exist yet.
	UpdateOrCreate(ctx context.Context, data SettingsData) (*domain.Settings, error)
}

// settingsServiceImpl implements the SettingsService interface.
type settingsServiceImpl struct {
	settings store.SettingsStore
	logger   *slog.Logger
	now      nowFunc
}

// NewSettingsService creates a new SettingsService.
func NewSettingsService(settings store.SettingsStore, logger *slog.Logger) SettingsService {
	if settings == nil {
		panic("settings cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &settingsServiceImpl{
		settings: settings,
		logger:   logger.With(slog.String("component", "settings_service")),
		now:      utcNow,
	}
}

// Get implements SettingsService.Get.
func (s *settingsServiceImpl) Get(ctx context.Context) (*domain.Settings, error) {
	return s.settings.Get(ctx)
}

// UpdateOrCreate implements SettingsService.UpdateOrCreate.
func (s *settingsServiceImpl) UpdateOrCreate(
	ctx context.Context,
	data SettingsData,
) (*domain.Settings, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		if !store.IsNotFoundError(err) {
			return nil, err
		}
		return s.create(ctx, data)
	}

	if data.ReviewExpiration != nil {
		settings.ReviewExpiration = *data.ReviewExpiration
	}
	if data.ReviewRecuseExpiration != nil {
		settings.ReviewRecuseExpiration = *data.ReviewRecuseExpiration
	}
	if data.SellCorrections != nil {
		settings.SellCorrections = *data.SellCorrections
	}
	settings.UpdatedAt = s.now()

	if err := settings.Validate(); err != nil {
		return nil, err
	}

	if err := s.settings.Update(ctx, settings); err != nil {
		return nil, err
	}

	s.logger.Info("settings updated", slog.String("settings_id", settings.ID.String()))
	return settings, nil
}

func (s *settingsServiceImpl) create(
	ctx context.Context,
	data SettingsData,
) (*domain.Settings, error) {
	reviewExpiration := defaultReviewExpirationDays
	if data.ReviewExpiration != nil {
		reviewExpiration = *data.ReviewExpiration
	}
	recuseExpiration := defaultReviewRecuseExpirationDays
	if data.ReviewRecuseExpiration != nil {
		recuseExpiration = *data.ReviewRecuseExpiration
	}
	sellCorrections := false
	if data.SellCorrections != nil {
		sellCorrections = *data.SellCorrections
	}

	settings, err := domain.NewSettings(reviewExpiration, recuseExpiration, sellCorrections)
	if err != nil {
		return nil, err
	}

	if err := s.settings.Create(ctx, settings); err != nil {
		return nil, err
	}

	s.logger.Info("settings created", slog.String("settings_id", settings.ID.String()))
	return settings, nil
}
