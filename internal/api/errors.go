package api

import (
	"errors"
	"net/http"

	"github.com/calebsw/lettermill-api/internal/domain"
	"github.com/calebsw/lettermill-api/internal/service"
	"github.com/calebsw/lettermill-api/internal/store"
	"github.com/calebsw/lettermill-api/internal/subscription"
	"github.com/calebsw/lettermill-api/internal/tracking"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, subscription.ErrContactNotFound),
		errors.Is(err, service.ErrCampaignNotFound),
		errors.Is(err, service.ErrContactNotFound),
		errors.Is(err, tracking.ErrLinkNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrContactExists):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, subscription.ErrMissingEmail),
		errors.Is(err, subscription.ErrMissingProjectID),
		errors.Is(err, service.ErrInvalidSchedule),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidEmail):
		return http.StatusBadRequest

	// Authorization errors
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, subscription.ErrContactNotFound),
		errors.Is(err, service.ErrContactNotFound):
		return "Contact not found"

	case errors.Is(err, service.ErrCampaignNotFound):
		return "Campaign not found"

	case errors.Is(err, tracking.ErrLinkNotFound):
		return "Tracked link not found"

	case errors.Is(err, store.ErrContactExists):
		return "Contact already exists"

	case errors.Is(err, subscription.ErrMissingEmail):
		return "Email is required"

	case errors.Is(err, subscription.ErrMissingProjectID):
		return "Project ID is required"

	case errors.Is(err, service.ErrInvalidSchedule):
		return "Invalid campaign schedule"

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		// Validation messages are written for users; pass them through.
		return err.Error()

	case errors.Is(err, domain.ErrUnauthorized):
		return "Unauthorized"

	default:
		return "An unexpected error occurred"
	}
}
