package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lpfarias/essay-api/internal/domain"
	"github.com/lpfarias/essay-api/internal/platform/mailer"
	"github.com/lpfarias/essay-api/internal/store"
)

// autoCreatedPasswordLength is the length of passwords generated for accounts
// created from the payment webhook.
const autoCreatedPasswordLength = 12

// PaymentNotification is the payload of an approved-purchase event from the
// payment provider, reduced to the fields the platform acts on.
type PaymentNotification struct {
	Code        string // transaction code, unique per purchase
	ProductCode string
	Email       string
	Name        string
}

// SubscriptionData carries the input for a manual subscription grant.
type SubscriptionData struct {
	UserID    uuid.UUID
	ProductID uuid.UUID
}

// SubscriptionUpdateData carries the mutable fields of a subscription.
// Nil fields are left untouched.
type SubscriptionUpdateData struct {
	Expiration *time.Time
	Active     *bool
}

// SubscriptionService manages access grants: webhook-driven purchases,
// manual grants and cancellations.
type SubscriptionService interface {
	// AutoCreate handles an approved purchase from the payment provider.
	// It is idempotent on the transaction code: replaying a notification
	// returns the subscription created the first time. When no account
	// exists for the buyer's email, one is created with a random password
	// that is emailed to the buyer.
	AutoCreate(ctx context.Context, notification PaymentNotification) (*domain.Subscription, error)

	// Cancel deactivates the subscription carrying the given transaction
	// code. Used for refund and chargeback events.
	Cancel(ctx context.Context, code string) (*domain.Subscription, error)

	// Create grants a subscription manually, deriving course and expiration
	// from the product.
	Create(ctx context.Context, data SubscriptionData) (*domain.Subscription, error)

	// Get retrieves a subscription by its ID.
	Get(ctx context.Context, id uuid.UUID) (*domain.Subscription, error)

	// List retrieves subscriptions matching the filter.
	List(ctx context.Context, filter store.SubscriptionFilter, page store.Pagination) ([]*domain.Subscription, error)

	// Count returns the number of subscriptions matching the filter.
	Count(ctx context.Context, filter store.SubscriptionFilter) (int, error)

	// Update applies a partial update to a subscription.
	Update(ctx context.Context, id uuid.UUID, data SubscriptionUpdateData) (*domain.Subscription, error)

	// Deactivate turns off a subscription by ID.
	Deactivate(ctx context.Context, id uuid.UUID) (*domain.Subscription, error)

	// ActiveChart produces a monthly histogram of subscription registrations,
	// defaulting to the trailing twelve months.
	ActiveChart(ctx context.Context, period *store.Period) ([]ChartPoint, error)
}

// subscriptionServiceImpl implements the SubscriptionService interface.
type subscriptionServiceImpl struct {
	subscriptions store.SubscriptionStore
	products      store.ProductStore
	users         store.UserStore
	random        SecureRandom
	mailer        mailer.Mailer
	supportEmail  string
	logger        *slog.Logger
	now           nowFunc
}

// NewSubscriptionService creates a new SubscriptionService. supportEmail
// receives a notice when a payment notification cannot be processed; it may
// be empty.
func NewSubscriptionService(
	subscriptions store.SubscriptionStore,
	products store.ProductStore,
	users store.UserStore,
	random SecureRandom,
	m mailer.Mailer,
	supportEmail string,
	logger *slog.Logger,
) SubscriptionService {
	if subscriptions == nil || products == nil || users == nil || random == nil || m == nil {
		panic("subscription service dependencies cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &subscriptionServiceImpl{
		subscriptions: subscriptions,
		products:      products,
		users:         users,
		random:        random,
		mailer:        m,
		supportEmail:  supportEmail,
		logger:        logger.With(slog.String("component", "subscription_service")),
		now:           utcNow,
	}
}

// AutoCreate implements SubscriptionService.AutoCreate.
func (s *subscriptionServiceImpl) AutoCreate(
	ctx context.Context,
	notification PaymentNotification,
) (*domain.Subscription, error) {
	if notification.Code == "" {
		return nil, fmt.Errorf("%w: payment notification without transaction code", domain.ErrValidation)
	}

	subscription, err := s.autoCreate(ctx, notification)
	if err != nil {
		// A purchase the platform failed to honor needs a human; the
		// notice is best effort, the webhook response carries the error.
		go s.notifySupport(notification, err)
		return nil, err
	}
	return subscription, nil
}

func (s *subscriptionServiceImpl) autoCreate(
	ctx context.Context,
	notification PaymentNotification,
) (*domain.Subscription, error) {
	// Payment providers redeliver events; the transaction code is the
	// idempotency key.
	existing, err := s.subscriptions.GetByCode(ctx, notification.Code)
	if err == nil {
		s.logger.Info("payment notification replayed",
			slog.String("code", notification.Code),
			slog.String("subscription_id", existing.ID.String()))
		return existing, nil
	}
	if !store.IsNotFoundError(err) {
		return nil, err
	}

	product, err := s.products.GetByCode(ctx, notification.ProductCode)
	if err != nil {
		return nil, err
	}

	user, created, err := s.findOrCreateBuyer(ctx, notification)
	if err != nil {
		return nil, err
	}

	subscription, err := domain.NewSubscription(
		user.ID,
		product.ID,
		notification.Code,
		s.now().Add(product.ExpirationTime),
		product.Course,
	)
	if err != nil {
		return nil, err
	}

	if err := s.subscriptions.Create(ctx, subscription); err != nil {
		// Two deliveries of the same event racing past the lookup above;
		// the unique code constraint breaks the tie.
		if errors.Is(err, store.ErrCodeExists) {
			return s.subscriptions.GetByCode(ctx, notification.Code)
		}
		return nil, err
	}

	s.logger.Info("subscription created from payment",
		slog.String("subscription_id", subscription.ID.String()),
		slog.String("user_id", user.ID.String()),
		slog.String("product_code", product.Code),
		slog.Bool("buyer_account_created", created))
	return subscription, nil
}

// notifySupport emails the support address that a paid purchase could not be
// turned into a subscription.
func (s *subscriptionServiceImpl) notifySupport(notification PaymentNotification, cause error) {
	if s.supportEmail == "" {
		return
	}

	msg := mailer.Message{
		To:      s.supportEmail,
		Subject: "Falha ao processar notificação de pagamento",
		Text: fmt.Sprintf(
			"A notificação de pagamento %s (produto %s, comprador %s) não pôde ser processada: %v",
			notification.Code, notification.ProductCode, notification.Email, cause),
	}
	if err := s.mailer.Send(msg); err != nil {
		s.logger.Warn("failed to send support notification",
			slog.String("code", notification.Code),
			slog.String("error", err.Error()))
	}
}

// findOrCreateBuyer resolves the purchasing account by email, creating a
// student account with a random emailed password when none exists.
func (s *subscriptionServiceImpl) findOrCreateBuyer(
	ctx context.Context,
	notification PaymentNotification,
) (*domain.User, bool, error) {
	user, err := s.users.GetByEmail(ctx, notification.Email)
	if err == nil {
		return user, false, nil
	}
	if !store.IsNotFoundError(err) {
		return nil, false, err
	}

	password, err := s.random.Password(autoCreatedPasswordLength)
	if err != nil {
		return nil, false, &ServiceError{
			Service:   "subscription_service",
			Operation: "create_buyer",
			Message:   "failed to generate password",
			Err:       err,
		}
	}

	firstName, lastName := splitName(notification.Name)
	if lastName == "" {
		// Single-word buyer names still need both name fields.
		lastName = firstName
	}
	user, err = domain.NewUser(
		firstName,
		lastName,
		notification.Email,
		password,
		domain.PermissionStudent,
	)
	if err != nil {
		return nil, false, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		// Lost a race against another delivery creating the same account.
		if errors.Is(err, store.ErrEmailExists) {
			user, err = s.users.GetByEmail(ctx, notification.Email)
			return user, false, err
		}
		return nil, false, err
	}

	go s.sendCredentials(user, password)

	return user, true, nil
}

// sendCredentials emails the auto-generated password to a buyer whose account
// was just created. Best effort; the purchase already succeeded.
func (s *subscriptionServiceImpl) sendCredentials(user *domain.User, password string) {
	msg := mailer.Message{
		To:      user.Email,
		ToName:  user.FullName(),
		Subject: "Bem-vindo! Sua conta foi criada",
		Text: fmt.Sprintf(
			"Sua conta foi criada a partir da sua compra.\nLogin: %s\nSenha: %s",
			user.Email, password,
		),
	}
	if err := s.mailer.Send(msg); err != nil {
		s.logger.Warn("failed to send account credentials",
			slog.String("user_id", user.ID.String()),
			slog.String("error", err.Error()))
	}
}

// Cancel implements SubscriptionService.Cancel.
func (s *subscriptionServiceImpl) Cancel(
	ctx context.Context,
	code string,
) (*domain.Subscription, error) {
	subscription, err := s.subscriptions.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if !subscription.Active {
		return subscription, nil
	}

	subscription.Active = false
	if err := s.subscriptions.Update(ctx, subscription); err != nil {
		return nil, err
	}

	s.logger.Info("subscription cancelled",
		slog.String("subscription_id", subscription.ID.String()),
		slog.String("code", code))
	return subscription, nil
}

// Create implements SubscriptionService.Create.
func (s *subscriptionServiceImpl) Create(
	ctx context.Context,
	data SubscriptionData,
) (*domain.Subscription, error) {
	user, err := s.users.GetByID(ctx, data.UserID)
	if err != nil {
		return nil, err
	}

	product, err := s.products.GetByID(ctx, data.ProductID)
	if err != nil {
		return nil, err
	}

	subscription, err := domain.NewSubscription(
		user.ID,
		product.ID,
		"", // manual grants carry no payment reference
		s.now().Add(product.ExpirationTime),
		product.Course,
	)
	if err != nil {
		return nil, err
	}

	if err := s.subscriptions.Create(ctx, subscription); err != nil {
		return nil, err
	}

	s.logger.Info("subscription granted",
		slog.String("subscription_id", subscription.ID.String()),
		slog.String("user_id", user.ID.String()))
	return subscription, nil
}

// Get implements SubscriptionService.Get.
func (s *subscriptionServiceImpl) Get(
	ctx context.Context,
	id uuid.UUID,
) (*domain.Subscription, error) {
	return s.subscriptions.GetByID(ctx, id)
}

// List implements SubscriptionService.List.
func (s *subscriptionServiceImpl) List(
	ctx context.Context,
	filter store.SubscriptionFilter,
	page store.Pagination,
) ([]*domain.Subscription, error) {
	return s.subscriptions.List(ctx, filter, page)
}

// Count implements SubscriptionService.Count.
func (s *subscriptionServiceImpl) Count(
	ctx context.Context,
	filter store.SubscriptionFilter,
) (int, error) {
	return s.subscriptions.Count(ctx, filter)
}

// Update implements SubscriptionService.Update.
func (s *subscriptionServiceImpl) Update(
	ctx context.Context,
	id uuid.UUID,
	data SubscriptionUpdateData,
) (*domain.Subscription, error) {
	subscription, err := s.subscriptions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if data.Expiration != nil {
		subscription.Expiration = data.Expiration.UTC()
	}
	if data.Active != nil {
		subscription.Active = *data.Active
	}

	if err := subscription.Validate(); err != nil {
		return nil, err
	}

	if err := s.subscriptions.Update(ctx, subscription); err != nil {
		return nil, err
	}

	s.logger.Info("subscription updated",
		slog.String("subscription_id", subscription.ID.String()))
	return subscription, nil
}

// Deactivate implements SubscriptionService.Deactivate.
func (s *subscriptionServiceImpl) Deactivate(
	ctx context.Context,
	id uuid.UUID,
) (*domain.Subscription, error) {
	subscription, err := s.subscriptions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if subscription.Active {
		subscription.Active = false
		if err := s.subscriptions.Update(ctx, subscription); err != nil {
			return nil, err
		}
	}

	return subscription, nil
}

// ActiveChart implements SubscriptionService.ActiveChart.
func (s *subscriptionServiceImpl) ActiveChart(
	ctx context.Context,
	period *store.Period,
) ([]ChartPoint, error) {
	p := chartPeriod(period, s.now())

	subscriptions, err := s.subscriptions.List(
		ctx,
		store.SubscriptionFilter{Period: &p},
		store.Pagination{},
	)
	if err != nil {
		return nil, err
	}

	instants := make([]time.Time, len(subscriptions))
	for i, subscription := range subscriptions {
		instants[i] = subscription.RegistrationDate
	}

	return monthlyHistogram(p, instants), nil
}

// splitName breaks a buyer's full name into first and last parts.
func splitName(name string) (first, last string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
