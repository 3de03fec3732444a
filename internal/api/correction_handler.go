package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/lpfarias/essay-api/internal/api/shared"
	"github.com/lpfarias/essay-api/internal/domain"
	"github.com/lpfarias/essay-api/internal/service"
)

// CorrectionHandler handles correction-related API requests.
type CorrectionHandler struct {
	correctionService service.CorrectionService
	validator         *validator.Validate
}

// NewCorrectionHandler creates a new CorrectionHandler with the given
// dependencies.
func NewCorrectionHandler(correctionService service.CorrectionService) *CorrectionHandler {
	return &CorrectionHandler{
		correctionService: correctionService,
		validator:         validator.New(),
	}
}

// Create handles the POST /essays/{id}/correction endpoint. The
// authenticated corrector must hold the essay.
func (h *CorrectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	essayID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req CreateCorrectionRequest
	if err := DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	correction, err := h.correctionService.Create(r.Context(), service.CorrectionData{
		EssayID:     essayID,
		CorrectorID: userID,
		Criteria:    req.Criteria(),
		Comment:     req.Comment,
		Points:      req.Points,
	})
	if err != nil {
		HandleAPIError(w, r, err, "correction delivery failed")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, correction)
}

// GetByEssay handles the GET /essays/{id}/correction endpoint.
func (h *CorrectionHandler) GetByEssay(w http.ResponseWriter, r *http.Request) {
	essayID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	correction, err := h.correctionService.GetByEssay(r.Context(), essayID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, correction)
}

// InvalidationHandler handles invalidation-related API requests.
type InvalidationHandler struct {
	invalidationService service.InvalidationService
	validator           *validator.Validate
}

// NewInvalidationHandler creates a new InvalidationHandler with the given
// dependencies.
func NewInvalidationHandler(invalidationService service.InvalidationService) *InvalidationHandler {
	return &InvalidationHandler{
		invalidationService: invalidationService,
		validator:           validator.New(),
	}
}

// Create handles the POST /essays/{id}/invalidation endpoint. The
// authenticated corrector must hold the essay.
func (h *InvalidationHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	essayID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req CreateInvalidationRequest
	if err := DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	invalidation, err := h.invalidationService.Create(r.Context(), service.EssayInvalidationData{
		EssayID:     essayID,
		CorrectorID: userID,
		Reason:      domain.InvalidationReason(req.Reason),
		Comment:     req.Comment,
	})
	if err != nil {
		HandleAPIError(w, r, err, "essay invalidation failed")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, invalidation)
}

// GetByEssay handles the GET /essays/{id}/invalidation endpoint.
func (h *InvalidationHandler) GetByEssay(w http.ResponseWriter, r *http.Request) {
	essayID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	invalidation, err := h.invalidationService.GetByEssay(r.Context(), essayID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, invalidation)
}
