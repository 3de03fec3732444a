package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/lpfarias/essay-api/internal/api/middleware"
	"github.com/lpfarias/essay-api/internal/api/shared"
	"github.com/lpfarias/essay-api/internal/domain"
	"github.com/lpfarias/essay-api/internal/service"
	"github.com/lpfarias/essay-api/internal/store"
)

// SubscriptionHandler handles subscription-related API requests.
type SubscriptionHandler struct {
	subscriptionService service.SubscriptionService
	validator           *validator.Validate
}

// NewSubscriptionHandler creates a new SubscriptionHandler with the given
// dependencies.
func NewSubscriptionHandler(subscriptionService service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionService: subscriptionService,
		validator:           validator.New(),
	}
}

// Create handles the POST /subscriptions endpoint: a manual grant by an
// administrator.
func (h *SubscriptionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateSubscriptionRequest
	if err := DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid user_id")
		return
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid product_id")
		return
	}

	subscription, err := h.subscriptionService.Create(r.Context(), service.SubscriptionData{
		UserID:    userID,
		ProductID: productID,
	})
	if err != nil {
		HandleAPIError(w, r, err, "subscription grant failed")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, subscription)
}

// List handles the GET /subscriptions endpoint. Students see only their own
// subscriptions.
func (h *SubscriptionHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var filter store.SubscriptionFilter

	course, err := parseCourseParam(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	filter.Course = course

	if v := r.URL.Query().Get("user_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid user_id")
			return
		}
		filter.UserID = &id
	}

	permission, _ := middleware.GetPermission(r)
	if permission == domain.PermissionStudent {
		filter.UserID = &userID
	}

	page := parsePagination(r)

	subscriptions, err := h.subscriptionService.List(r.Context(), filter, page)
	if err != nil {
		HandleAPIError(w, r, err, "subscription listing failed")
		return
	}

	total, err := h.subscriptionService.Count(r.Context(), filter)
	if err != nil {
		HandleAPIError(w, r, err, "subscription count failed")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ListResponse{
		Items:    subscriptions,
		Total:    total,
		Page:     page.Page,
		PageSize: page.PageSize,
	})
}

// Update handles the PATCH /subscriptions/{id} endpoint: administrative
// adjustment of a grant's expiration or active flag.
func (h *SubscriptionHandler) Update(w http.ResponseWriter, r *http.Request) {
	subscriptionID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req UpdateSubscriptionRequest
	if err := DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	subscription, err := h.subscriptionService.Update(r.Context(), subscriptionID, service.SubscriptionUpdateData{
		Expiration: req.Expiration,
		Active:     req.Active,
	})
	if err != nil {
		HandleAPIError(w, r, err, "subscription update failed")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, subscription)
}

// Deactivate handles the DELETE /subscriptions/{id} endpoint. The
// subscription is turned off, never deleted.
func (h *SubscriptionHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	subscriptionID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	subscription, err := h.subscriptionService.Deactivate(r.Context(), subscriptionID)
	if err != nil {
		HandleAPIError(w, r, err, "subscription deactivation failed")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, subscription)
}

// ActiveChart handles the GET /subscriptions/charts/registrations endpoint.
func (h *SubscriptionHandler) ActiveChart(w http.ResponseWriter, r *http.Request) {
	period, err := parsePeriod(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	points, err := h.subscriptionService.ActiveChart(r.Context(), period)
	if err != nil {
		HandleAPIError(w, r, err, "subscription chart failed")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, points)
}
