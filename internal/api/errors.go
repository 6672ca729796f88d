package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/estate-api/internal/api/shared"
	"github.com/phrazzld/estate-api/internal/domain"
	"github.com/phrazzld/estate-api/internal/generation"
	"github.com/phrazzld/estate-api/internal/service"
	"github.com/phrazzld/estate-api/internal/service/auth"
	"github.com/phrazzld/estate-api/internal/store"
	"github.com/phrazzld/estate-api/internal/task"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// leaking internal error types to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized

	case errors.Is(err, service.ErrPropertyNotFound),
		errors.Is(err, store.ErrPropertyNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// A missing category in a create request is a client error.
	case errors.Is(err, service.ErrCategoryNotFound),
		errors.Is(err, store.ErrCategoryNotFound):
		return http.StatusUnprocessableEntity

	case errors.Is(err, store.ErrCategoryExists),
		errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	case errors.Is(err, generation.ErrInvalidFacts):
		return http.StatusUnprocessableEntity

	case errors.Is(err, generation.ErrTransport),
		errors.Is(err, generation.ErrMalformedResponse):
		return http.StatusBadGateway

	case errors.Is(err, generation.ErrConfiguration),
		errors.Is(err, task.ErrQueueFull),
		errors.Is(err, task.ErrQueueClosed):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a user-facing message for err.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid username or password"
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"

	case errors.Is(err, service.ErrPropertyNotFound),
		errors.Is(err, store.ErrPropertyNotFound):
		return "Property not found"
	case errors.Is(err, service.ErrCategoryNotFound),
		errors.Is(err, store.ErrCategoryNotFound):
		return "Category not found"
	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	case errors.Is(err, store.ErrCategoryExists):
		return "Category already exists"
	case errors.Is(err, store.ErrDuplicate):
		return "Resource already exists"

	case errors.Is(err, domain.ErrValidation):
		return validationMessage(err)
	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	case errors.Is(err, generation.ErrInvalidFacts):
		return "Property lacks the details needed for content generation"
	case errors.Is(err, generation.ErrTransport):
		return "Content provider is unavailable"
	case errors.Is(err, generation.ErrMalformedResponse):
		return "Content provider returned an unusable response"
	case errors.Is(err, generation.ErrConfiguration):
		return "Content generation is not configured"
	case errors.Is(err, task.ErrQueueFull):
		return "Generation queue is full, try again later"
	case errors.Is(err, task.ErrQueueClosed):
		return "Generation queue is not accepting work"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the mapped status and message for err. A non-empty
// message overrides the default safe message.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, message string) {
	if message == "" {
		message = GetSafeErrorMessage(err)
	}
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), message, err)
}

// validationMessage keeps the domain rule that failed but drops wrapped
// values such as coordinates.
func validationMessage(err error) string {
	for _, rule := range []error{
		domain.ErrEmptyPropertyID,
		domain.ErrEmptyPropertyName,
		domain.ErrNegativePrice,
		domain.ErrNegativeArea,
		domain.ErrInvalidLocation,
		domain.ErrEmptyCategoryName,
		domain.ErrEmptyCategoryID,
	} {
		if errors.Is(err, rule) {
			return "Validation error: " + rule.Error()
		}
	}
	return "Validation error"
}

// SanitizeValidationError turns validator errors into a short message that
// names the first failing field.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Sprintf("Invalid %s: %s", strings.ToLower(fe.Field()), getValidationTagMessage(fe.Tag()))
	}
	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min", "gte":
		return "too small"
	case "max", "lte":
		return "too large"
	case "latitude", "longitude":
		return "out of range"
	default:
		return "validation failed"
	}
}
