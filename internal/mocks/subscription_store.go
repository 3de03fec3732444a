package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/lpfarias/essay-api/internal/domain"
	"github.com/lpfarias/essay-api/internal/store"
)

// MockSubscriptionStore implements store.SubscriptionStore for testing
type MockSubscriptionStore struct {
	CreateFn    func(ctx context.Context, subscription *domain.Subscription) error
	GetByIDFn   func(ctx context.Context, id uuid.UUID) (*domain.Subscription, error)
	GetByCodeFn func(ctx context.Context, code string) (*domain.Subscription, error)
	ListFn      func(ctx context.Context, filter store.SubscriptionFilter, page store.Pagination) ([]*domain.Subscription, error)
	CountFn     func(ctx context.Context, filter store.SubscriptionFilter) (int, error)
	UpdateFn    func(ctx context.Context, subscription *domain.Subscription) error

	// Subscriptions backs the default implementation, keyed by ID.
	Subscriptions map[uuid.UUID]*domain.Subscription
}

var _ store.SubscriptionStore = (*MockSubscriptionStore)(nil)

// NewMockSubscriptionStore creates a new mock store with initialized defaults
func NewMockSubscriptionStore() *MockSubscriptionStore {
	return &MockSubscriptionStore{
		Subscriptions: make(map[uuid.UUID]*domain.Subscription),
	}
}

// Add registers a subscription with the default map-backed implementation.
func (m *MockSubscriptionStore) Add(subscription *domain.Subscription) {
	m.Subscriptions[subscription.ID] = subscription
}

// Create implements the SubscriptionStore interface
func (m *MockSubscriptionStore) Create(
	ctx context.Context,
	subscription *domain.Subscription,
) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, subscription)
	}

	if subscription.Code != "" {
		for _, existing := range m.Subscriptions {
			if existing.Code == subscription.Code {
				return store.ErrCodeExists
			}
		}
	}
	m.Subscriptions[subscription.ID] = subscription
	return nil
}

// GetByID implements the SubscriptionStore interface
func (m *MockSubscriptionStore) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*domain.Subscription, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	subscription, exists := m.Subscriptions[id]
	if !exists {
		return nil, store.ErrSubscriptionNotFound
	}
	return subscription, nil
}

// GetByCode implements the SubscriptionStore interface
func (m *MockSubscriptionStore) GetByCode(
	ctx context.Context,
	code string,
) (*domain.Subscription, error) {
	if m.GetByCodeFn != nil {
		return m.GetByCodeFn(ctx, code)
	}

	if code != "" {
		for _, subscription := range m.Subscriptions {
			if subscription.Code == code {
				return subscription, nil
			}
		}
	}
	return nil, store.ErrSubscriptionNotFound
}

// List implements the SubscriptionStore interface
func (m *MockSubscriptionStore) List(
	ctx context.Context,
	filter store.SubscriptionFilter,
	page store.Pagination,
) ([]*domain.Subscription, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, filter, page)
	}

	subscriptions := []*domain.Subscription{}
	for _, subscription := range m.Subscriptions {
		if matchSubscription(subscription, filter) {
			subscriptions = append(subscriptions, subscription)
		}
	}
	return subscriptions, nil
}

// Count implements the SubscriptionStore interface
func (m *MockSubscriptionStore) Count(
	ctx context.Context,
	filter store.SubscriptionFilter,
) (int, error) {
	if m.CountFn != nil {
		return m.CountFn(ctx, filter)
	}

	subscriptions, err := m.List(ctx, filter, store.Pagination{})
	if err != nil {
		return 0, err
	}
	return len(subscriptions), nil
}

// Update implements the SubscriptionStore interface
func (m *MockSubscriptionStore) Update(
	ctx context.Context,
	subscription *domain.Subscription,
) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, subscription)
	}

	if _, exists := m.Subscriptions[subscription.ID]; !exists {
		return store.ErrSubscriptionNotFound
	}
	m.Subscriptions[subscription.ID] = subscription
	return nil
}

// WithTx implements the SubscriptionStore interface; the mock ignores transactions.
func (m *MockSubscriptionStore) WithTx(tx *sql.Tx) store.SubscriptionStore {
	return m
}

func matchSubscription(subscription *domain.Subscription, filter store.SubscriptionFilter) bool {
	if filter.UserID != nil && subscription.UserID != *filter.UserID {
		return false
	}
	if filter.ProductID != nil && subscription.ProductID != *filter.ProductID {
		return false
	}
	if filter.Active != nil && subscription.Active != *filter.Active {
		return false
	}
	if filter.Course != nil && subscription.Course != *filter.Course {
		return false
	}
	if filter.Period != nil && !filter.Period.Contains(subscription.RegistrationDate) {
		return false
	}
	return true
}

// MockProductStore implements store.ProductStore for testing
type MockProductStore struct {
	CreateFn    func(ctx context.Context, product *domain.Product) error
	GetByIDFn   func(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	GetByCodeFn func(ctx context.Context, code string) (*domain.Product, error)
	ListFn      func(ctx context.Context, filter store.ProductFilter, page store.Pagination) ([]*domain.Product, error)
	UpdateFn    func(ctx context.Context, product *domain.Product) error

	// Products backs the default implementation, keyed by ID.
	Products map[uuid.UUID]*domain.Product
}

var _ store.ProductStore = (*MockProductStore)(nil)

// NewMockProductStore creates a new mock store with initialized defaults
func NewMockProductStore() *MockProductStore {
	return &MockProductStore{
		Products: make(map[uuid.UUID]*domain.Product),
	}
}

// Add registers a product with the default map-backed implementation.
func (m *MockProductStore) Add(product *domain.Product) {
	m.Products[product.ID] = product
}

// Create implements the ProductStore interface
func (m *MockProductStore) Create(ctx context.Context, product *domain.Product) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, product)
	}

	for _, existing := range m.Products {
		if existing.Code == product.Code {
			return store.ErrCodeExists
		}
	}
	m.Products[product.ID] = product
	return nil
}

// GetByID implements the ProductStore interface
func (m *MockProductStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	product, exists := m.Products[id]
	if !exists {
		return nil, store.ErrProductNotFound
	}
	return product, nil
}

// GetByCode implements the ProductStore interface
func (m *MockProductStore) GetByCode(ctx context.Context, code string) (*domain.Product, error) {
	if m.GetByCodeFn != nil {
		return m.GetByCodeFn(ctx, code)
	}

	for _, product := range m.Products {
		if product.Code == code {
			return product, nil
		}
	}
	return nil, store.ErrProductNotFound
}

// List implements the ProductStore interface
func (m *MockProductStore) List(
	ctx context.Context,
	filter store.ProductFilter,
	page store.Pagination,
) ([]*domain.Product, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, filter, page)
	}

	products := []*domain.Product{}
	for _, product := range m.Products {
		if filter.Course != nil && product.Course != *filter.Course {
			continue
		}
		if filter.Status != nil && product.Status != *filter.Status {
			continue
		}
		products = append(products, product)
	}
	return products, nil
}

// Update implements the ProductStore interface
func (m *MockProductStore) Update(ctx context.Context, product *domain.Product) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, product)
	}

	if _, exists := m.Products[product.ID]; !exists {
		return store.ErrProductNotFound
	}
	m.Products[product.ID] = product
	return nil
}

// WithTx implements the ProductStore interface; the mock ignores transactions.
func (m *MockProductStore) WithTx(tx *sql.Tx) store.ProductStore {
	return m
}
