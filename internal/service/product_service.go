package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lpfarias/essay-api/internal/domain"
	"github.com/lpfarias/essay-api/internal/store"
)

// ProductData carries the input for creating a product.
type ProductData struct {
	Name           string
	Code           string
	Course         domain.Course
	ExpirationTime time.Duration
}

// ProductUpdateData carries the mutable product fields. Nil fields are left
// unchanged. Code is immutable: it is the reference payment notifications
// arrive with.
type ProductUpdateData struct {
	Name           *string
	Course         *domain.Course
	ExpirationTime *time.Duration
	Status         *domain.ProductStatus
}

// ProductService manages purchasable plans.
type ProductService interface {
	// Create registers a new product.
	Create(ctx context.Context, data ProductData) (*domain.Product, error)

	// Get retrieves a product by its ID.
	Get(ctx context.Context, id uuid.UUID) (*domain.Product, error)

	// List retrieves products matching the filter.
	List(ctx context.Context, filter store.ProductFilter, page store.Pagination) ([]*domain.Product, error)

	// Update applies a partial update to a product.
	Update(ctx context.Context, id uuid.UUID, data ProductUpdateData) (*domain.Product, error)

	// Deactivate takes a product off sale. Existing subscriptions are not
	// affected.
	Deactivate(ctx context.Context, id uuid.UUID) (*domain.Product, error)
}

// productServiceImpl implements the ProductService interface.
type productServiceImpl struct {
	products store.ProductStore
	logger   *slog.Logger
}

// NewProductService creates a new ProductService.
func NewProductService(products store.ProductStore, logger *slog.Logger) ProductService {
	if products == nil {
		panic("products cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &productServiceImpl{
		products: products,
		logger:   logger.With(slog.String("component", "product_service")),
	}
}

// Create implements ProductService.Create.
func (s *productServiceImpl) Create(ctx context.Context, data ProductData) (*domain.Product, error) {
	product, err := domain.NewProduct(data.Name, data.Code, data.Course, data.ExpirationTime)
	if err != nil {
		return nil, err
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("product created",
		slog.String("product_id", product.ID.String()),
		slog.String("code", product.Code))
	return product, nil
}

// Get implements ProductService.Get.
func (s *productServiceImpl) Get(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return s.products.GetByID(ctx, id)
}

// List implements ProductService.List.
func (s *productServiceImpl) List(
	ctx context.Context,
	filter store.ProductFilter,
	page store.Pagination,
) ([]*domain.Product, error) {
	return s.products.List(ctx, filter, page)
}

// Update implements ProductService.Update.
func (s *productServiceImpl) Update(
	ctx context.Context,
	id uuid.UUID,
	data ProductUpdateData,
) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if data.Name != nil {
		product.Name = *data.Name
	}
	if data.Course != nil {
		product.Course = *data.Course
	}
	if data.ExpirationTime != nil {
		product.ExpirationTime = *data.ExpirationTime
	}
	if data.Status != nil {
		product.Status = *data.Status
	}

	if err := product.Validate(); err != nil {
		return nil, err
	}

	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("product updated", slog.String("product_id", product.ID.String()))
	return product, nil
}

// Deactivate implements ProductService.Deactivate.
func (s *productServiceImpl) Deactivate(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	inactive := domain.ProductStatusInactive
	return s.Update(ctx, id, ProductUpdateData{Status: &inactive})
}
