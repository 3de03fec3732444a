package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lpfarias/essay-api/internal/api/middleware"
	"github.com/lpfarias/essay-api/internal/domain"
	"github.com/lpfarias/essay-api/internal/store"
)

// maxRequestBody bounds request bodies; essay files travel as URLs, not
// uploads, so nothing legitimate comes close.
const maxRequestBody = 1 << 20 // 1 MiB

// DecodeJSON parses the request body into dst, rejecting unknown fields and
// oversized bodies.
func DecodeJSON(r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxRequestBody)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

// getUserIDFromContext extracts the authenticated user's UUID from the
// request context. The user ID is placed there by the authentication
// middleware.
func getUserIDFromContext(r *http.Request) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(r)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, false
	}
	return userID, true
}

// getPathUUID extracts and parses a UUID path parameter.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, fmt.Errorf("%w: missing %s", domain.ErrInvalidID, paramName)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s", domain.ErrInvalidID, paramName)
	}

	return id, nil
}

// parsePagination reads the page and page_size query parameters, with
// sensible bounds.
func parsePagination(r *http.Request) store.Pagination {
	page := store.Pagination{Page: 1, PageSize: 20}

	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page.Page = n
		}
	}
	if v := r.URL.Query().Get("page_size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			page.PageSize = n
		}
	}

	return page
}

// parsePeriod reads the optional start and end query parameters (RFC 3339).
// Returns nil when neither is present.
func parsePeriod(r *http.Request) (*store.Period, error) {
	startParam := r.URL.Query().Get("start")
	endParam := r.URL.Query().Get("end")
	if startParam == "" && endParam == "" {
		return nil, nil
	}
	if startParam == "" || endParam == "" {
		return nil, fmt.Errorf("%w: start and end must be given together", domain.ErrValidation)
	}

	start, err := time.Parse(time.RFC3339, startParam)
	if err != nil {
		return nil, fmt.Errorf("%w: start", domain.ErrValidation)
	}
	end, err := time.Parse(time.RFC3339, endParam)
	if err != nil {
		return nil, fmt.Errorf("%w: end", domain.ErrValidation)
	}

	return &store.Period{Start: start.UTC(), End: end.UTC()}, nil
}

// parseCourseParam reads the optional course query parameter.
func parseCourseParam(r *http.Request) (*domain.Course, error) {
	v := r.URL.Query().Get("course")
	if v == "" {
		return nil, nil
	}
	course := domain.Course(v)
	if !domain.IsValidCourse(course) {
		return nil, domain.ErrInvalidCourse
	}
	return &course, nil
}
