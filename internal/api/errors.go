package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/lpfarias/essay-api/internal/api/shared"
	"github.com/lpfarias/essay-api/internal/domain"
	"github.com/lpfarias/essay-api/internal/platform/logger"
	"github.com/lpfarias/essay-api/internal/service"
	"github.com/lpfarias/essay-api/internal/service/auth"
	"github.com/lpfarias/essay-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return http.StatusUnauthorized

	// Authorization and eligibility errors
	case errors.Is(err, service.ErrUnauthorized),
		errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, service.ErrExpired):
		return http.StatusForbidden

	// Not found errors
	case store.IsNotFoundError(err),
		errors.Is(err, service.ErrInvalidTheme):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, service.ErrInvalidState),
		errors.Is(err, service.ErrAlreadySubmitted),
		errors.Is(err, store.ErrConflict),
		store.IsDuplicateError(err):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidCourse),
		errors.Is(err, store.ErrInvalidEntity),
		isDomainValidationError(err):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message based
// on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid token"

	case errors.Is(err, service.ErrUnauthorized),
		errors.Is(err, domain.ErrUnauthorized):
		return "Operation not allowed"

	case errors.Is(err, service.ErrExpired):
		return "No valid subscription or the allowed period has passed"

	case errors.Is(err, service.ErrInvalidTheme):
		return "No active theme for this course"

	case errors.Is(err, service.ErrAlreadySubmitted):
		return "An essay was already submitted for this theme"

	case errors.Is(err, service.ErrInvalidState),
		errors.Is(err, store.ErrConflict):
		return "The essay is not in a valid state for this operation"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, store.ErrEssayNotFound):
		return "Essay not found"
	case errors.Is(err, store.ErrThemeNotFound):
		return "Theme not found"
	case errors.Is(err, store.ErrCorrectionNotFound):
		return "Correction not found"
	case errors.Is(err, store.ErrInvalidationNotFound):
		return "Invalidation not found"
	case errors.Is(err, store.ErrSubscriptionNotFound):
		return "Subscription not found"
	case errors.Is(err, store.ErrProductNotFound):
		return "Product not found"
	case errors.Is(err, store.ErrSettingsNotFound):
		return "Settings not found"
	case errors.Is(err, store.ErrTokenNotFound):
		return "Token not found"

	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"
	case errors.Is(err, store.ErrCodeExists):
		return "Code already exists"
	case store.IsDuplicateError(err):
		return "Resource already exists"

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidCourse),
		errors.Is(err, store.ErrInvalidEntity),
		isDomainValidationError(err):
		return "Invalid request data: " + err.Error()

	default:
		return "An unexpected error occurred"
	}
}

// isDomainValidationError reports whether the error is one of the entity
// field validation sentinels from the domain package.
func isDomainValidationError(err error) bool {
	validationErrs := []error{
		domain.ErrInvalidEmail,
		domain.ErrEmptyUserName,
		domain.ErrEmptyEmail,
		domain.ErrEmptyPassword,
		domain.ErrInvalidPermission,
		domain.ErrEmptyEssayFile,
		domain.ErrInvalidEssayState,
		domain.ErrEmptyThemeTitle,
		domain.ErrEmptyThemeCourse,
		domain.ErrInvalidThemeSpan,
		domain.ErrInvalidReason,
		domain.ErrMissingComment,
		domain.ErrPointsOutOfRange,
		domain.ErrEmptyProductName,
		domain.ErrEmptyProductCode,
		domain.ErrInvalidExpirationTime,
		domain.ErrInvalidReviewExpiration,
		domain.ErrInvalidRecuseExpiration,
	}
	for _, target := range validationErrs {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// HandleAPIError maps the error to a status code and safe message and writes
// the response. Unexpected errors are logged with the full detail.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, logMessage string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)

	log := logger.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		if logMessage == "" {
			logMessage = "request failed"
		}
		log.Error(logMessage,
			slog.String("error", err.Error()),
			slog.String("path", r.URL.Path),
			slog.String("method", r.Method))
	} else if logMessage != "" {
		log.Debug(logMessage, slog.String("error", err.Error()))
	}

	shared.RespondWithError(w, r, status, message)
}
