package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/lpfarias/essay-api/internal/api/shared"
	"github.com/lpfarias/essay-api/internal/service"
)

// SettingsHandler handles platform settings API requests.
type SettingsHandler struct {
	settingsService service.SettingsService
	validator       *validator.Validate
}

// NewSettingsHandler creates a new SettingsHandler with the given
// dependencies.
func NewSettingsHandler(settingsService service.SettingsService) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
		validator:       validator.New(),
	}
}

// Get handles the GET /settings endpoint.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settingsService.Get(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, settings)
}

// Update handles the PUT /settings endpoint. The settings row is created on
// first write.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateSettingsRequest
	if err := DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	settings, err := h.settingsService.UpdateOrCreate(r.Context(), service.SettingsData{
		ReviewExpiration:       req.ReviewExpiration,
		ReviewRecuseExpiration: req.ReviewRecuseExpiration,
		SellCorrections:        req.SellCorrections,
	})
	if err != nil {
		HandleAPIError(w, r, err, "settings update failed")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, settings)
}
