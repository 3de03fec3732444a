package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/lpfarias/essay-api/internal/domain"
)

// SubscriptionStore defines the interface for subscription data persistence.
type SubscriptionStore interface {
	// Create saves a new subscription to the store.
	// Returns ErrCodeExists if a subscription with the same external code
	// already exists.
	Create(ctx context.Context, subscription *domain.Subscription) error

	// GetByID retrieves a subscription by its unique ID.
	// Returns ErrSubscriptionNotFound if the subscription does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Subscription, error)

	// GetByCode retrieves a subscription by its external payment reference.
	// Returns ErrSubscriptionNotFound if no subscription carries the code.
	GetByCode(ctx context.Context, code string) (*domain.Subscription, error)

	// List retrieves subscriptions matching the filter, newest first.
	List(ctx context.Context, filter SubscriptionFilter, page Pagination) ([]*domain.Subscription, error)

	// Count returns the number of subscriptions matching the filter.
	Count(ctx context.Context, filter SubscriptionFilter) (int, error)

	// Update saves changes to an existing subscription.
	// Returns ErrSubscriptionNotFound if the subscription does not exist.
	Update(ctx context.Context, subscription *domain.Subscription) error

	// WithTx returns a new SubscriptionStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) SubscriptionStore
}

// ProductStore defines the interface for product data persistence.
type ProductStore interface {
	// Create saves a new product to the store.
	// Returns ErrCodeExists if a product with the same code already exists.
	Create(ctx context.Context, product *domain.Product) error

	// GetByID retrieves a product by its unique ID.
	// Returns ErrProductNotFound if the product does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)

	// GetByCode retrieves a product by its external payment reference.
	// Returns ErrProductNotFound if no product carries the code.
	GetByCode(ctx context.Context, code string) (*domain.Product, error)

	// List retrieves products matching the filter.
	List(ctx context.Context, filter ProductFilter, page Pagination) ([]*domain.Product, error)

	// Update saves changes to an existing product.
	// Returns ErrProductNotFound if the product does not exist.
	Update(ctx context.Context, product *domain.Product) error

	// WithTx returns a new ProductStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ProductStore
}
