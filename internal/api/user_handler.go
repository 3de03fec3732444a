package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/lpfarias/essay-api/internal/api/shared"
	"github.com/lpfarias/essay-api/internal/domain"
	"github.com/lpfarias/essay-api/internal/service"
	"github.com/lpfarias/essay-api/internal/store"
)

// UserHandler handles user management API requests.
type UserHandler struct {
	userService service.UserService
	validator   *validator.Validate
}

// NewUserHandler creates a new UserHandler with the given dependencies.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
		validator:   validator.New(),
	}
}

// Create handles the POST /users endpoint. Omitting the password makes the
// server generate one and email it to the new user.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	user, err := h.userService.Create(r.Context(), service.UserData{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Password:   req.Password,
		Permission: domain.Permission(req.Permission),
		Phone:      req.Phone,
	})
	if err != nil {
		HandleAPIError(w, r, err, "user creation failed")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, user)
}

// Me handles the GET /users/me endpoint.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	user, err := h.userService.Get(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, user)
}

// Get handles the GET /users/{id} endpoint.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	user, err := h.userService.Get(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, user)
}

// List handles the GET /users endpoint.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	var filter store.UserFilter

	if v := r.URL.Query().Get("status"); v != "" {
		status := domain.UserStatus(v)
		filter.Status = &status
	}
	if v := r.URL.Query().Get("permission"); v != "" {
		permission := domain.Permission(v)
		filter.Permission = &permission
	}
	filter.Search = r.URL.Query().Get("search")

	users, err := h.userService.List(r.Context(), filter, parsePagination(r))
	if err != nil {
		HandleAPIError(w, r, err, "user listing failed")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, users)
}

// Update handles the PATCH /users/{id} endpoint.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req UpdateUserRequest
	if err := DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	data := service.UserUpdateData{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Phone:     req.Phone,
	}
	if req.Status != nil {
		status := domain.UserStatus(*req.Status)
		data.Status = &status
	}
	if req.Permission != nil {
		permission := domain.Permission(*req.Permission)
		data.Permission = &permission
	}

	user, err := h.userService.Update(r.Context(), userID, data)
	if err != nil {
		HandleAPIError(w, r, err, "user update failed")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, user)
}
