package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lpfarias/essay-api/internal/domain"
	"github.com/lpfarias/essay-api/internal/mocks"
	"github.com/lpfarias/essay-api/internal/platform/mailer"
	"github.com/lpfarias/essay-api/internal/service"
	"github.com/lpfarias/essay-api/internal/store"
)

type subscriptionServiceFixture struct {
	subscriptions *mocks.MockSubscriptionStore
	products      *mocks.MockProductStore
	users         *mocks.MockUserStore
	mailer        *mailer.ConsoleMailer

	service service.SubscriptionService
}

func newSubscriptionServiceFixture(t *testing.T) *subscriptionServiceFixture {
	t.Helper()

	f := &subscriptionServiceFixture{
		subscriptions: mocks.NewMockSubscriptionStore(),
		products:      mocks.NewMockProductStore(),
		users:         mocks.NewMockUserStore(),
		mailer:        mailer.NewConsoleMailer(nil),
	}
	f.service = service.NewSubscriptionService(
		f.subscriptions,
		f.products,
		f.users,
		&mocks.MockSecureRandom{},
		f.mailer,
		"suporte@example.com",
		nil,
	)
	return f
}

func (f *subscriptionServiceFixture) seedProduct(t *testing.T) *domain.Product {
	t.Helper()
	product, err := domain.NewProduct("Plano ESA", "plan-esa", domain.CourseEsa, 30*24*time.Hour)
	require.NoError(t, err)
	f.products.Add(product)
	return product
}

func TestSubscriptionServiceAutoCreate(t *testing.T) {
	t.Run("creates a buyer account and the subscription", func(t *testing.T) {
		f := newSubscriptionServiceFixture(t)
		product := f.seedProduct(t)

		subscription, err := f.service.AutoCreate(context.Background(), service.PaymentNotification{
			Code:        "tx-001",
			ProductCode: product.Code,
			Email:       "ana.silva@example.com",
			Name:        "Ana Silva",
		})
		require.NoError(t, err)

		assert.Equal(t, "tx-001", subscription.Code)
		assert.Equal(t, domain.CourseEsa, subscription.Course)
		assert.Equal(t, product.ID, subscription.ProductID)

		buyer, ok := f.users.Users["ana.silva@example.com"]
		require.True(t, ok, "buyer account is created on first purchase")
		assert.Equal(t, domain.PermissionStudent, buyer.Permission)
		assert.Equal(t, "Ana", buyer.FirstName)
		assert.Equal(t, "Silva", buyer.LastName)
		assert.Equal(t, buyer.ID, subscription.UserID)

		assert.Eventually(t, func() bool {
			sent := f.mailer.Sent()
			return len(sent) == 1 &&
				sent[0].To == buyer.Email &&
				strings.Contains(sent[0].Text, "mock-password")
		}, time.Second, 10*time.Millisecond, "generated password is emailed to the buyer")
	})

	t.Run("single-word buyer name", func(t *testing.T) {
		f := newSubscriptionServiceFixture(t)
		product := f.seedProduct(t)

		_, err := f.service.AutoCreate(context.Background(), service.PaymentNotification{
			Code:        "tx-002",
			ProductCode: product.Code,
			Email:       "madonna@example.com",
			Name:        "Madonna",
		})
		require.NoError(t, err)

		buyer := f.users.Users["madonna@example.com"]
		require.NotNil(t, buyer)
		assert.Equal(t, "Madonna", buyer.FirstName)
		assert.Equal(t, "Madonna", buyer.LastName)
	})

	t.Run("reuses an existing account", func(t *testing.T) {
		f := newSubscriptionServiceFixture(t)
		product := f.seedProduct(t)
		student := newTestStudent(t)
		f.users.Add(student)

		subscription, err := f.service.AutoCreate(context.Background(), service.PaymentNotification{
			Code:        "tx-003",
			ProductCode: product.Code,
			Email:       student.Email,
			Name:        "Someone Else",
		})
		require.NoError(t, err)

		assert.Equal(t, student.ID, subscription.UserID)
		assert.Len(t, f.users.Users, 1, "no second account for a known email")
		assert.Empty(t, f.mailer.Sent(), "existing buyers get no credentials email")
	})

	t.Run("replayed notification returns the original grant", func(t *testing.T) {
		f := newSubscriptionServiceFixture(t)
		product := f.seedProduct(t)

		first, err := f.service.AutoCreate(context.Background(), service.PaymentNotification{
			Code:        "tx-004",
			ProductCode: product.Code,
			Email:       "ana.silva@example.com",
			Name:        "Ana Silva",
		})
		require.NoError(t, err)

		replayed, err := f.service.AutoCreate(context.Background(), service.PaymentNotification{
			Code:        "tx-004",
			ProductCode: product.Code,
			Email:       "ana.silva@example.com",
			Name:        "Ana Silva",
		})
		require.NoError(t, err)

		assert.Equal(t, first.ID, replayed.ID)
		assert.Len(t, f.subscriptions.Subscriptions, 1)
	})

	t.Run("missing transaction code", func(t *testing.T) {
		f := newSubscriptionServiceFixture(t)

		_, err := f.service.AutoCreate(context.Background(), service.PaymentNotification{
			ProductCode: "plan-esa",
			Email:       "ana.silva@example.com",
		})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("unknown product code", func(t *testing.T) {
		f := newSubscriptionServiceFixture(t)

		_, err := f.service.AutoCreate(context.Background(), service.PaymentNotification{
			Code:        "tx-005",
			ProductCode: "no-such-plan",
			Email:       "ana.silva@example.com",
		})
		assert.ErrorIs(t, err, store.ErrProductNotFound)
	})

	t.Run("a failed purchase notifies support", func(t *testing.T) {
		f := newSubscriptionServiceFixture(t)

		_, err := f.service.AutoCreate(context.Background(), service.PaymentNotification{
			Code:        "tx-006",
			ProductCode: "no-such-plan",
			Email:       "ana.silva@example.com",
		})
		require.Error(t, err)

		assert.Eventually(t, func() bool {
			sent := f.mailer.Sent()
			return len(sent) == 1 &&
				sent[0].To == "suporte@example.com" &&
				strings.Contains(sent[0].Text, "tx-006")
		}, time.Second, 10*time.Millisecond, "support hears about the unhonored purchase")
	})
}

func TestSubscriptionServiceCancel(t *testing.T) {
	f := newSubscriptionServiceFixture(t)

	subscription, err := domain.NewSubscription(uuid.New(), uuid.New(), "tx-100",
		time.Now().UTC().AddDate(0, 1, 0), domain.CourseEsa)
	require.NoError(t, err)
	f.subscriptions.Add(subscription)

	cancelled, err := f.service.Cancel(context.Background(), "tx-100")
	require.NoError(t, err)
	assert.False(t, cancelled.Active)

	// Refund events are redelivered too; cancelling twice is a no-op.
	again, err := f.service.Cancel(context.Background(), "tx-100")
	require.NoError(t, err)
	assert.False(t, again.Active)

	_, err = f.service.Cancel(context.Background(), "tx-missing")
	assert.ErrorIs(t, err, store.ErrSubscriptionNotFound)
}

func TestSubscriptionServiceCreate(t *testing.T) {
	f := newSubscriptionServiceFixture(t)
	product := f.seedProduct(t)
	student := newTestStudent(t)
	f.users.Add(student)

	subscription, err := f.service.Create(context.Background(), service.SubscriptionData{
		UserID:    student.ID,
		ProductID: product.ID,
	})
	require.NoError(t, err)

	assert.Empty(t, subscription.Code, "manual grants carry no payment reference")
	assert.Equal(t, domain.CourseEsa, subscription.Course)
	assert.WithinDuration(t,
		time.Now().UTC().Add(product.ExpirationTime), subscription.Expiration, time.Minute)

	t.Run("unknown user", func(t *testing.T) {
		_, err := f.service.Create(context.Background(), service.SubscriptionData{
			UserID:    uuid.New(),
			ProductID: product.ID,
		})
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}

func TestSubscriptionServiceUpdate(t *testing.T) {
	f := newSubscriptionServiceFixture(t)

	subscription, err := domain.NewSubscription(uuid.New(), uuid.New(), "",
		time.Now().UTC().AddDate(0, 1, 0), domain.CourseEsa)
	require.NoError(t, err)
	f.subscriptions.Add(subscription)

	t.Run("extends the expiration", func(t *testing.T) {
		extended := time.Now().UTC().AddDate(0, 6, 0)
		updated, err := f.service.Update(context.Background(), subscription.ID,
			service.SubscriptionUpdateData{Expiration: &extended})
		require.NoError(t, err)

		assert.Equal(t, extended, updated.Expiration)
		assert.True(t, updated.Active, "untouched fields survive")
	})

	t.Run("reactivates a cancelled grant", func(t *testing.T) {
		active := true
		subscription.Active = false
		updated, err := f.service.Update(context.Background(), subscription.ID,
			service.SubscriptionUpdateData{Active: &active})
		require.NoError(t, err)
		assert.True(t, updated.Active)
	})

	t.Run("unknown subscription", func(t *testing.T) {
		_, err := f.service.Update(context.Background(), uuid.New(),
			service.SubscriptionUpdateData{})
		assert.ErrorIs(t, err, store.ErrSubscriptionNotFound)
	})
}

func TestSubscriptionServiceDeactivate(t *testing.T) {
	f := newSubscriptionServiceFixture(t)

	subscription, err := domain.NewSubscription(uuid.New(), uuid.New(), "",
		time.Now().UTC().AddDate(0, 1, 0), domain.CourseEsa)
	require.NoError(t, err)
	f.subscriptions.Add(subscription)

	deactivated, err := f.service.Deactivate(context.Background(), subscription.ID)
	require.NoError(t, err)
	assert.False(t, deactivated.Active)
}

func TestSubscriptionServiceActiveChart(t *testing.T) {
	f := newSubscriptionServiceFixture(t)

	seed := func(registered time.Time) {
		subscription, err := domain.NewSubscription(uuid.New(), uuid.New(), "",
			registered.AddDate(1, 0, 0), domain.CourseEsa)
		require.NoError(t, err)
		subscription.RegistrationDate = registered
		f.subscriptions.Add(subscription)
	}
	seed(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	seed(time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC))
	seed(time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC))

	points, err := f.service.ActiveChart(context.Background(), &store.Period{
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	require.Len(t, points, 2)
	assert.Equal(t, service.ChartPoint{Key: "1-2024", Value: 2}, points[0])
	assert.Equal(t, service.ChartPoint{Key: "2-2024", Value: 1}, points[1])
}
