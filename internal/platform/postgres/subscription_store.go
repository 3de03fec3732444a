package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/lpfarias/essay-api/internal/domain"
	"github.com/lpfarias/essay-api/internal/platform/logger"
	"github.com/lpfarias/essay-api/internal/store"
)

// SubscriptionStore implements the store.SubscriptionStore interface using a
// PostgreSQL database as the storage backend.
type SubscriptionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewSubscriptionStore creates a new PostgreSQL implementation of the
// SubscriptionStore interface. If logger is nil, a default logger is used.
func NewSubscriptionStore(db store.DBTX, logger *slog.Logger) *SubscriptionStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &SubscriptionStore{
		db:     db,
		logger: logger.With(slog.String("component", "subscription_store")),
	}
}

var _ store.SubscriptionStore = (*SubscriptionStore)(nil)

const subscriptionColumns = `id, user_id, product_id, code, expiration, registration_date, active, course`

// Create implements store.SubscriptionStore.Create.
// The unique index on code makes webhook replays fail loudly instead of
// inserting a second row.
func (s *SubscriptionStore) Create(ctx context.Context, subscription *domain.Subscription) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := subscription.Validate(); err != nil {
		log.Warn("subscription validation failed during create",
			slog.String("error", err.Error()),
			slog.String("subscription_id", subscription.ID.String()))
		return err
	}

	query := `
		INSERT INTO subscriptions (` + subscriptionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		subscription.ID,
		subscription.UserID,
		subscription.ProductID,
		nullString(subscription.Code),
		subscription.Expiration,
		subscription.RegistrationDate,
		subscription.Active,
		subscription.Course,
	)

	if err != nil {
		if isUniqueViolation(err, "subscriptions_code_key") {
			return store.ErrCodeExists
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: user or product not found", store.ErrInvalidEntity)
		}

		log.Error("failed to create subscription",
			slog.String("error", err.Error()),
			slog.String("subscription_id", subscription.ID.String()))
		return err
	}

	log.Info("subscription created successfully",
		slog.String("subscription_id", subscription.ID.String()),
		slog.String("user_id", subscription.UserID.String()),
		slog.String("course", string(subscription.Course)))
	return nil
}

// GetByID implements store.SubscriptionStore.GetByID.
func (s *SubscriptionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Subscription, error) {
	return s.getBy(ctx, "id = $1", id)
}

// GetByCode implements store.SubscriptionStore.GetByCode.
func (s *SubscriptionStore) GetByCode(ctx context.Context, code string) (*domain.Subscription, error) {
	return s.getBy(ctx, "code = $1", code)
}

func (s *SubscriptionStore) getBy(ctx context.Context, cond string, arg any) (*domain.Subscription, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE ` + cond

	subscription, err := scanSubscription(s.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrSubscriptionNotFound
		}
		log.Error("failed to get subscription",
			slog.String("error", err.Error()))
		return nil, err
	}

	return subscription, nil
}

// List implements store.SubscriptionStore.List.
func (s *SubscriptionStore) List(
	ctx context.Context,
	filter store.SubscriptionFilter,
	page store.Pagination,
) ([]*domain.Subscription, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	where, args := subscriptionConditions(filter)
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions` + where +
		` ORDER BY registration_date DESC`
	query += paginationClause(page, &args)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list subscriptions", slog.String("error", err.Error()))
		return nil, err
	}
	defer closeRows(rows, log)

	subscriptions := []*domain.Subscription{}
	for rows.Next() {
		subscription, err := scanSubscription(rows)
		if err != nil {
			log.Error("failed to scan subscription row", slog.String("error", err.Error()))
			return nil, err
		}
		subscriptions = append(subscriptions, subscription)
	}

	return subscriptions, rows.Err()
}

// Count implements store.SubscriptionStore.Count.
func (s *SubscriptionStore) Count(ctx context.Context, filter store.SubscriptionFilter) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	where, args := subscriptionConditions(filter)
	query := `SELECT count(*) FROM subscriptions` + where

	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		log.Error("failed to count subscriptions", slog.String("error", err.Error()))
		return 0, err
	}

	return count, nil
}

// Update implements store.SubscriptionStore.Update.
func (s *SubscriptionStore) Update(ctx context.Context, subscription *domain.Subscription) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := subscription.Validate(); err != nil {
		log.Warn("subscription validation failed during update",
			slog.String("error", err.Error()),
			slog.String("subscription_id", subscription.ID.String()))
		return err
	}

	query := `
		UPDATE subscriptions
		SET expiration = $1, active = $2, course = $3
		WHERE id = $4
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		subscription.Expiration,
		subscription.Active,
		subscription.Course,
		subscription.ID,
	)

	if err != nil {
		log.Error("failed to update subscription",
			slog.String("error", err.Error()),
			slog.String("subscription_id", subscription.ID.String()))
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrSubscriptionNotFound
	}

	log.Info("subscription updated successfully",
		slog.String("subscription_id", subscription.ID.String()),
		slog.Bool("active", subscription.Active))
	return nil
}

// WithTx implements store.SubscriptionStore.WithTx.
func (s *SubscriptionStore) WithTx(tx *sql.Tx) store.SubscriptionStore {
	return &SubscriptionStore{db: tx, logger: s.logger}
}

func subscriptionConditions(filter store.SubscriptionFilter) (string, []any) {
	var conds []string
	var args []any

	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		conds = append(conds, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if filter.ProductID != nil {
		args = append(args, *filter.ProductID)
		conds = append(conds, fmt.Sprintf("product_id = $%d", len(args)))
	}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		conds = append(conds, fmt.Sprintf("active = $%d", len(args)))
	}
	if filter.Course != nil {
		args = append(args, *filter.Course)
		conds = append(conds, fmt.Sprintf("course = $%d", len(args)))
	}
	if filter.Period != nil {
		args = append(args, filter.Period.Start)
		conds = append(conds, fmt.Sprintf("registration_date >= $%d", len(args)))
		args = append(args, filter.Period.End)
		conds = append(conds, fmt.Sprintf("registration_date < $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanSubscription(row scanner) (*domain.Subscription, error) {
	var subscription domain.Subscription
	var code sql.NullString
	var course string

	err := row.Scan(
		&subscription.ID,
		&subscription.UserID,
		&subscription.ProductID,
		&code,
		&subscription.Expiration,
		&subscription.RegistrationDate,
		&subscription.Active,
		&course,
	)
	if err != nil {
		return nil, err
	}

	subscription.Code = code.String
	subscription.Course = domain.Course(course)
	return &subscription, nil
}

// nullString maps an empty string to SQL NULL so partial unique indexes on
// optional codes behave.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
