package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/lpfarias/essay-api/internal/api/shared"
	"github.com/lpfarias/essay-api/internal/service"
)

// TokenHandler handles single-essay token API requests.
type TokenHandler struct {
	tokenService service.TokenService
	validator    *validator.Validate
}

// NewTokenHandler creates a new TokenHandler with the given dependencies.
func NewTokenHandler(tokenService service.TokenService) *TokenHandler {
	return &TokenHandler{
		tokenService: tokenService,
		validator:    validator.New(),
	}
}

// Create handles the POST /tokens endpoint: an administrator issues a token
// granting one submission against a theme.
func (h *TokenHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateTokenRequest
	if err := DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	studentID, err := uuid.Parse(req.StudentID)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid student_id")
		return
	}
	themeID, err := uuid.Parse(req.ThemeID)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid theme_id")
		return
	}

	token, err := h.tokenService.Create(r.Context(), service.TokenData{
		StudentID:  studentID,
		ThemeID:    themeID,
		Expiration: req.Expiration,
	})
	if err != nil {
		HandleAPIError(w, r, err, "token issuance failed")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, token)
}

// Get handles the GET /tokens/{token} endpoint, resolving a token by its
// opaque value.
func (h *TokenHandler) Get(w http.ResponseWriter, r *http.Request) {
	value := chi.URLParam(r, "token")
	if value == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Token is required")
		return
	}

	token, err := h.tokenService.Get(r.Context(), value)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, token)
}
