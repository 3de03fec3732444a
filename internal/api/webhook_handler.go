package api

import (
	"crypto/subtle"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/lpfarias/essay-api/internal/api/shared"
	"github.com/lpfarias/essay-api/internal/platform/logger"
	"github.com/lpfarias/essay-api/internal/service"
)

// webhookSecretHeader carries the shared secret the payment provider sends
// with every notification.
const webhookSecretHeader = "X-Webhook-Secret"

// WebhookHandler handles payment provider notifications.
type WebhookHandler struct {
	subscriptionService service.SubscriptionService
	secret              string
	validator           *validator.Validate
}

// NewWebhookHandler creates a new WebhookHandler with the given dependencies.
func NewWebhookHandler(
	subscriptionService service.SubscriptionService,
	secret string,
) *WebhookHandler {
	return &WebhookHandler{
		subscriptionService: subscriptionService,
		secret:              secret,
		validator:           validator.New(),
	}
}

// Payment handles the POST /webhooks/payment endpoint. The provider retries
// on non-2xx responses, so replayed events must answer 200.
func (h *WebhookHandler) Payment(w http.ResponseWriter, r *http.Request) {
	secret := r.Header.Get(webhookSecretHeader)
	if subtle.ConstantTimeCompare([]byte(secret), []byte(h.secret)) != 1 {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid webhook secret")
		return
	}

	var req PaymentWebhookRequest
	if err := DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	log := logger.FromContext(r.Context())
	log.Info("payment notification received",
		"event", req.Event,
		"code", req.Code)

	switch req.Event {
	case "purchase_approved":
		if req.ProductCode == "" || req.Email == "" {
			shared.RespondWithError(
				w,
				r,
				http.StatusBadRequest,
				"product_code and email are required for approvals",
			)
			return
		}
		subscription, err := h.subscriptionService.AutoCreate(r.Context(), service.PaymentNotification{
			Code:        req.Code,
			ProductCode: req.ProductCode,
			Email:       req.Email,
			Name:        req.Name,
		})
		if err != nil {
			HandleAPIError(w, r, err, "payment approval processing failed")
			return
		}
		shared.RespondWithJSON(w, r, http.StatusOK, subscription)

	case "purchase_canceled", "purchase_refunded":
		subscription, err := h.subscriptionService.Cancel(r.Context(), req.Code)
		if err != nil {
			HandleAPIError(w, r, err, "payment cancellation processing failed")
			return
		}
		shared.RespondWithJSON(w, r, http.StatusOK, subscription)

	default:
		shared.RespondWithError(w, r, http.StatusBadRequest, "Unknown event")
	}
}
