package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lpfarias/essay-api/internal/domain"
	"github.com/lpfarias/essay-api/internal/platform/logger"
	"github.com/lpfarias/essay-api/internal/store"
)

// ProductStore implements the store.ProductStore interface using a PostgreSQL
// database as the storage backend. Expiration times are stored as
// milliseconds, matching the payment provider's product catalogue.
type ProductStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewProductStore creates a new PostgreSQL implementation of the ProductStore
// interface. If logger is nil, a default logger is used.
func NewProductStore(db store.DBTX, logger *slog.Logger) *ProductStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ProductStore{
		db:     db,
		logger: logger.With(slog.String("component", "product_store")),
	}
}

var _ store.ProductStore = (*ProductStore)(nil)

const productColumns = `id, name, code, course, expiration_time_ms, status`

// Create implements store.ProductStore.Create.
func (s *ProductStore) Create(ctx context.Context, product *domain.Product) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := product.Validate(); err != nil {
		log.Warn("product validation failed during create",
			slog.String("error", err.Error()),
			slog.String("product_id", product.ID.String()))
		return err
	}

	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Code,
		product.Course,
		product.ExpirationTime.Milliseconds(),
		product.Status,
	)

	if err != nil {
		if isUniqueViolation(err, "products_code_key") {
			return store.ErrCodeExists
		}

		log.Error("failed to create product",
			slog.String("error", err.Error()),
			slog.String("product_id", product.ID.String()))
		return err
	}

	log.Info("product created successfully",
		slog.String("product_id", product.ID.String()),
		slog.String("code", product.Code))
	return nil
}

// GetByID implements store.ProductStore.GetByID.
func (s *ProductStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return s.getBy(ctx, "id = $1", id)
}

// GetByCode implements store.ProductStore.GetByCode.
func (s *ProductStore) GetByCode(ctx context.Context, code string) (*domain.Product, error) {
	return s.getBy(ctx, "code = $1", code)
}

func (s *ProductStore) getBy(ctx context.Context, cond string, arg any) (*domain.Product, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + productColumns + ` FROM products WHERE ` + cond

	product, err := scanProduct(s.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrProductNotFound
		}
		log.Error("failed to get product", slog.String("error", err.Error()))
		return nil, err
	}

	return product, nil
}

// List implements store.ProductStore.List.
func (s *ProductStore) List(
	ctx context.Context,
	filter store.ProductFilter,
	page store.Pagination,
) ([]*domain.Product, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var conds []string
	var args []any

	if filter.Course != nil {
		args = append(args, *filter.Course)
		conds = append(conds, fmt.Sprintf("course = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}

	query := `SELECT ` + productColumns + ` FROM products`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY name"
	query += paginationClause(page, &args)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list products", slog.String("error", err.Error()))
		return nil, err
	}
	defer closeRows(rows, log)

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			log.Error("failed to scan product row", slog.String("error", err.Error()))
			return nil, err
		}
		products = append(products, product)
	}

	return products, rows.Err()
}

// Update implements store.ProductStore.Update.
func (s *ProductStore) Update(ctx context.Context, product *domain.Product) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := product.Validate(); err != nil {
		log.Warn("product validation failed during update",
			slog.String("error", err.Error()),
			slog.String("product_id", product.ID.String()))
		return err
	}

	query := `
		UPDATE products
		SET name = $1, code = $2, course = $3, expiration_time_ms = $4, status = $5
		WHERE id = $6
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		product.Name,
		product.Code,
		product.Course,
		product.ExpirationTime.Milliseconds(),
		product.Status,
		product.ID,
	)

	if err != nil {
		if isUniqueViolation(err, "products_code_key") {
			return store.ErrCodeExists
		}
		log.Error("failed to update product",
			slog.String("error", err.Error()),
			slog.String("product_id", product.ID.String()))
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrProductNotFound
	}

	log.Info("product updated successfully", slog.String("product_id", product.ID.String()))
	return nil
}

// WithTx implements store.ProductStore.WithTx.
func (s *ProductStore) WithTx(tx *sql.Tx) store.ProductStore {
	return &ProductStore{db: tx, logger: s.logger}
}

func scanProduct(row scanner) (*domain.Product, error) {
	var product domain.Product
	var course, status string
	var expirationMs int64

	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Code,
		&course,
		&expirationMs,
		&status,
	)
	if err != nil {
		return nil, err
	}

	product.Course = domain.Course(course)
	product.ExpirationTime = time.Duration(expirationMs) * time.Millisecond
	product.Status = domain.ProductStatus(status)
	return &product, nil
}
