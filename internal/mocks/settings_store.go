package mocks

import (
	"context"
	"database/sql"

	"github.com/lpfarias/essay-api/internal/domain"
	"github.com/lpfarias/essay-api/internal/store"
)

// MockSettingsStore implements store.SettingsStore for testing
type MockSettingsStore struct {
	GetFn    func(ctx context.Context) (*domain.Settings, error)
	CreateFn func(ctx context.Context, settings *domain.Settings) error
	UpdateFn func(ctx context.Context, settings *domain.Settings) error

	// Settings backs the default implementation.
	Settings *domain.Settings
}

var _ store.SettingsStore = (*MockSettingsStore)(nil)

// NewMockSettingsStore creates a new mock store with initialized defaults
func NewMockSettingsStore() *MockSettingsStore {
	return &MockSettingsStore{}
}

// Get implements the SettingsStore interface
func (m *MockSettingsStore) Get(ctx context.Context) (*domain.Settings, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx)
	}

	if m.Settings == nil {
		return nil, store.ErrSettingsNotFound
	}
	return m.Settings, nil
}

// Create implements the SettingsStore interface
func (m *MockSettingsStore) Create(ctx context.Context, settings *domain.Settings) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, settings)
	}

	if m.Settings != nil {
		return store.ErrDuplicate
	}
	m.Settings = settings
	return nil
}

// Update implements the SettingsStore interface
func (m *MockSettingsStore) Update(ctx context.Context, settings *domain.Settings) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, settings)
	}

	if m.Settings == nil {
		return store.ErrSettingsNotFound
	}
	m.Settings = settings
	return nil
}

// WithTx implements the SettingsStore interface; the mock ignores transactions.
func (m *MockSettingsStore) WithTx(tx *sql.Tx) store.SettingsStore {
	return m
}
