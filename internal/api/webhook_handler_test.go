package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lpfarias/essay-api/internal/api"
	"github.com/lpfarias/essay-api/internal/domain"
	"github.com/lpfarias/essay-api/internal/mocks"
	"github.com/lpfarias/essay-api/internal/platform/mailer"
	"github.com/lpfarias/essay-api/internal/service"
)

const testWebhookSecret = "hook-secret"

type webhookFixture struct {
	subscriptions *mocks.MockSubscriptionStore
	products      *mocks.MockProductStore
	users         *mocks.MockUserStore

	handler *api.WebhookHandler
}

func newWebhookFixture(t *testing.T) *webhookFixture {
	t.Helper()

	f := &webhookFixture{
		subscriptions: mocks.NewMockSubscriptionStore(),
		products:      mocks.NewMockProductStore(),
		users:         mocks.NewMockUserStore(),
	}
	subscriptionService := service.NewSubscriptionService(
		f.subscriptions,
		f.products,
		f.users,
		&mocks.MockSecureRandom{},
		mailer.NewConsoleMailer(nil),
		"suporte@example.com",
		nil,
	)
	f.handler = api.NewWebhookHandler(subscriptionService, testWebhookSecret)
	return f
}

func (f *webhookFixture) post(t *testing.T, secret string, payload map[string]any) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/payment", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if secret != "" {
		req.Header.Set("X-Webhook-Secret", secret)
	}

	rec := httptest.NewRecorder()
	f.handler.Payment(rec, req)
	return rec
}

func TestWebhookPayment(t *testing.T) {
	approvedPayload := map[string]any{
		"event":        "purchase_approved",
		"code":         "tx-001",
		"product_code": "plan-esa",
		"email":        "ana.silva@example.com",
		"name":         "Ana Silva",
	}

	t.Run("rejects a missing or wrong secret", func(t *testing.T) {
		f := newWebhookFixture(t)

		assert.Equal(t, http.StatusUnauthorized, f.post(t, "", approvedPayload).Code)
		assert.Equal(t, http.StatusUnauthorized, f.post(t, "wrong", approvedPayload).Code)
		assert.Empty(t, f.subscriptions.Subscriptions)
	})

	t.Run("approved purchase creates the subscription", func(t *testing.T) {
		f := newWebhookFixture(t)
		product, err := domain.NewProduct("Plano ESA", "plan-esa", domain.CourseEsa, 30*24*time.Hour)
		require.NoError(t, err)
		f.products.Add(product)

		rec := f.post(t, testWebhookSecret, approvedPayload)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, f.subscriptions.Subscriptions, 1)
		assert.Contains(t, f.users.Users, "ana.silva@example.com")
	})

	t.Run("replayed approval answers 200 without a duplicate", func(t *testing.T) {
		f := newWebhookFixture(t)
		product, err := domain.NewProduct("Plano ESA", "plan-esa", domain.CourseEsa, 30*24*time.Hour)
		require.NoError(t, err)
		f.products.Add(product)

		require.Equal(t, http.StatusOK, f.post(t, testWebhookSecret, approvedPayload).Code)
		require.Equal(t, http.StatusOK, f.post(t, testWebhookSecret, approvedPayload).Code)

		assert.Len(t, f.subscriptions.Subscriptions, 1)
	})

	t.Run("approval without buyer details is rejected", func(t *testing.T) {
		f := newWebhookFixture(t)

		rec := f.post(t, testWebhookSecret, map[string]any{
			"event": "purchase_approved",
			"code":  "tx-002",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("refund cancels the subscription", func(t *testing.T) {
		f := newWebhookFixture(t)
		product, err := domain.NewProduct("Plano ESA", "plan-esa", domain.CourseEsa, 30*24*time.Hour)
		require.NoError(t, err)
		f.products.Add(product)

		require.Equal(t, http.StatusOK, f.post(t, testWebhookSecret, approvedPayload).Code)

		rec := f.post(t, testWebhookSecret, map[string]any{
			"event": "purchase_refunded",
			"code":  "tx-001",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		for _, subscription := range f.subscriptions.Subscriptions {
			assert.False(t, subscription.Active)
		}
	})

	t.Run("unknown event", func(t *testing.T) {
		f := newWebhookFixture(t)

		rec := f.post(t, testWebhookSecret, map[string]any{
			"event": "purchase_disputed",
			"code":  "tx-003",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
