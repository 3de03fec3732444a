package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/lpfarias/essay-api/internal/api/shared"
	"github.com/lpfarias/essay-api/internal/domain"
	"github.com/lpfarias/essay-api/internal/service"
	"github.com/lpfarias/essay-api/internal/store"
)

// ThemeHandler handles theme-related API requests.
type ThemeHandler struct {
	themeService service.ThemeService
	validator    *validator.Validate
}

// NewThemeHandler creates a new ThemeHandler with the given dependencies.
func NewThemeHandler(themeService service.ThemeService) *ThemeHandler {
	return &ThemeHandler{
		themeService: themeService,
		validator:    validator.New(),
	}
}

// Create handles the POST /themes endpoint.
func (h *ThemeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateThemeRequest
	if err := DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	theme, err := h.themeService.Create(r.Context(), service.ThemeData{
		Title:     req.Title,
		HelpText:  req.HelpText,
		File:      req.File,
		Courses:   toCourses(req.Courses),
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	if err != nil {
		HandleAPIError(w, r, err, "theme creation failed")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, theme)
}

// Get handles the GET /themes/{id} endpoint.
func (h *ThemeHandler) Get(w http.ResponseWriter, r *http.Request) {
	themeID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	theme, err := h.themeService.Get(r.Context(), themeID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, theme)
}

// Active handles the GET /themes/active endpoint: the theme currently
// accepting submissions for the given course.
func (h *ThemeHandler) Active(w http.ResponseWriter, r *http.Request) {
	course, err := parseCourseParam(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if course == nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "course is required")
		return
	}

	theme, err := h.themeService.ActiveByCourse(r.Context(), *course)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, theme)
}

// List handles the GET /themes endpoint.
func (h *ThemeHandler) List(w http.ResponseWriter, r *http.Request) {
	var filter store.ThemeFilter

	course, err := parseCourseParam(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	filter.Course = course

	period, err := parsePeriod(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	filter.Period = period

	page := parsePagination(r)

	themes, err := h.themeService.List(r.Context(), filter, page)
	if err != nil {
		HandleAPIError(w, r, err, "theme listing failed")
		return
	}

	total, err := h.themeService.Count(r.Context(), filter)
	if err != nil {
		HandleAPIError(w, r, err, "theme count failed")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ListResponse{
		Items:    themes,
		Total:    total,
		Page:     page.Page,
		PageSize: page.PageSize,
	})
}

// Update handles the PATCH /themes/{id} endpoint.
func (h *ThemeHandler) Update(w http.ResponseWriter, r *http.Request) {
	themeID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req UpdateThemeRequest
	if err := DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	data := service.ThemeUpdateData{
		Title:       req.Title,
		HelpText:    req.HelpText,
		File:        req.File,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Deactivated: req.Deactivated,
	}
	if req.Courses != nil {
		data.Courses = toCourses(req.Courses)
	}

	theme, err := h.themeService.Update(r.Context(), themeID, data)
	if err != nil {
		HandleAPIError(w, r, err, "theme update failed")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, theme)
}

func toCourses(values []string) []domain.Course {
	courses := make([]domain.Course, len(values))
	for i, v := range values {
		courses[i] = domain.Course(v)
	}
	return courses
}
