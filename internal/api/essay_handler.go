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

// EssayHandler handles essay-related API requests.
type EssayHandler struct {
	essayService service.EssayService
	validator    *validator.Validate
}

// NewEssayHandler creates a new EssayHandler with the given dependencies.
func NewEssayHandler(essayService service.EssayService) *EssayHandler {
	return &EssayHandler{
		essayService: essayService,
		validator:    validator.New(),
	}
}

// Create handles the POST /essays endpoint. The authenticated user is the
// submitting student.
func (h *EssayHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CreateEssayRequest
	if err := DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	data := service.EssayCreationData{
		StudentID: userID,
		File:      req.File,
		Course:    domain.Course(req.Course),
		Token:     req.Token,
	}
	if req.InvalidEssayID != "" {
		id, err := uuid.Parse(req.InvalidEssayID)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid invalid_essay_id")
			return
		}
		data.InvalidEssayID = id
	}

	essay, err := h.essayService.Create(r.Context(), data)
	if err != nil {
		HandleAPIError(w, r, err, "essay submission failed")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, essay)
}

// Get handles the GET /essays/{id} endpoint. Students may only fetch their
// own essays.
func (h *EssayHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	essay, err := h.essayService.Get(r.Context(), essayID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	permission, _ := middleware.GetPermission(r)
	if permission == domain.PermissionStudent && essay.StudentID != userID {
		shared.RespondWithError(w, r, http.StatusForbidden, "Operation not allowed")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, essay)
}

// List handles the GET /essays endpoint. Students see only their own essays;
// correctors and admins may filter freely.
func (h *EssayHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	filter, err := h.essayFilter(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	permission, _ := middleware.GetPermission(r)
	if permission == domain.PermissionStudent {
		filter.StudentID = &userID
	}

	page := parsePagination(r)

	essays, err := h.essayService.List(r.Context(), filter, page)
	if err != nil {
		HandleAPIError(w, r, err, "essay listing failed")
		return
	}

	total, err := h.essayService.Count(r.Context(), filter)
	if err != nil {
		HandleAPIError(w, r, err, "essay count failed")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ListResponse{
		Items:    essays,
		Total:    total,
		Page:     page.Page,
		PageSize: page.PageSize,
	})
}

func (h *EssayHandler) essayFilter(r *http.Request) (store.EssayFilter, error) {
	var filter store.EssayFilter

	course, err := parseCourseParam(r)
	if err != nil {
		return filter, err
	}
	filter.Course = course

	if v := r.URL.Query().Get("status"); v != "" {
		filter.Status = []domain.EssayStatus{domain.EssayStatus(v)}
	}
	if v := r.URL.Query().Get("student_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return filter, domain.ErrInvalidID
		}
		filter.StudentID = &id
	}
	if v := r.URL.Query().Get("corrector_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return filter, domain.ErrInvalidID
		}
		filter.CorrectorID = &id
	}
	if v := r.URL.Query().Get("theme_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return filter, domain.ErrInvalidID
		}
		filter.ThemeID = &id
	}

	period, err := parsePeriod(r)
	if err != nil {
		return filter, err
	}
	filter.Period = period

	return filter, nil
}

// PartialUpdate handles the PATCH /essays/{id} endpoint. Correctors act
// scoped to essays they hold; admins act unscoped.
func (h *EssayHandler) PartialUpdate(w http.ResponseWriter, r *http.Request) {
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

	var req UpdateEssayRequest
	if err := DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	data := service.EssayUpdateData{ClearCorrector: req.ClearCorrector}
	if req.CorrectorID != nil {
		id, err := uuid.Parse(*req.CorrectorID)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid corrector_id")
			return
		}
		data.CorrectorID = &id
	}
	if req.Status != nil {
		status := domain.EssayStatus(*req.Status)
		data.Status = &status
	}

	// Correctors only touch essays they hold; admins are unscoped.
	var actingCorrector *uuid.UUID
	if permission, _ := middleware.GetPermission(r); permission == domain.PermissionCorrector {
		actingCorrector = &userID
	}

	essay, err := h.essayService.PartialUpdate(r.Context(), essayID, data, actingCorrector)
	if err != nil {
		HandleAPIError(w, r, err, "essay update failed")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, essay)
}

// CancelCorrection handles the POST /essays/{id}/cancel endpoint: the
// assigned corrector gives the essay back to the pending pool.
func (h *EssayHandler) CancelCorrection(w http.ResponseWriter, r *http.Request) {
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

	essay, err := h.essayService.CancelCorrecting(r.Context(), essayID, userID)
	if err != nil {
		HandleAPIError(w, r, err, "correction cancel failed")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, essay)
}

// SentChart handles the GET /essays/charts/sent endpoint.
func (h *EssayHandler) SentChart(w http.ResponseWriter, r *http.Request) {
	var filter service.EssayChartFilter

	course, err := parseCourseParam(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	filter.Course = course

	if v := r.URL.Query().Get("corrector_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid corrector_id")
			return
		}
		filter.CorrectorID = &id
	}

	period, err := parsePeriod(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	filter.Period = period

	points, err := h.essayService.SentChart(r.Context(), filter)
	if err != nil {
		HandleAPIError(w, r, err, "sent chart failed")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, points)
}

// CanResend handles the GET /essays/{id}/resendable endpoint.
func (h *EssayHandler) CanResend(w http.ResponseWriter, r *http.Request) {
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

	shared.RespondWithJSON(w, r, http.StatusOK, CanResendResponse{
		CanResend: h.essayService.CanResend(r.Context(), essayID, userID),
	})
}
