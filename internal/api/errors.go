package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/glossa-api/internal/api/shared"
	"github.com/phrazzld/glossa-api/internal/service"
)

// StatusForKind maps a service error kind to an HTTP status code.
func StatusForKind(kind string) int {
	switch kind {
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindNotOwner:
		return http.StatusForbidden
	case service.KindConflict:
		return http.StatusConflict
	case service.KindExternalProvider:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-facing message for err. It never includes
// the error text, which may carry store or provider details.
func GetSafeErrorMessage(err error) string {
	switch {
	case err == nil:
		return "An unexpected error occurred"
	case errors.Is(err, service.ErrAlreadyShared):
		return "Content item is already shared"
	case errors.Is(err, service.ErrAlreadyImported):
		return "Post is already imported"
	case errors.Is(err, service.ErrSelfImport):
		return "Cannot import your own post"
	case errors.Is(err, service.ErrNoPublicAlias):
		return "A public alias is required to publish"
	}

	switch service.KindOf(err) {
	case service.KindValidation:
		return "Invalid request"
	case service.KindNotFound:
		return "Resource not found"
	case service.KindNotOwner:
		return "You do not own this resource"
	case service.KindConflict:
		return "Request conflicts with existing data"
	case service.KindExternalProvider:
		return "Artifact generation is unavailable, try again later"
	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the error response for a service error. userMessage,
// when set, replaces the safe default message.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, userMessage string, opts ...shared.ResponseOption) {
	kind := service.KindOf(err)
	if userMessage == "" {
		userMessage = GetSafeErrorMessage(err)
	}
	shared.RespondWithErrorAndLog(w, r, StatusForKind(kind), kind, userMessage, err, opts...)
}

// invalidRequest wraps a decoding or validation failure so it maps to 400.
func invalidRequest(err error) error {
	return fmt.Errorf("%w: %w", service.ErrValidation, err)
}

// SanitizeValidationError turns a validator error into a message naming the first
// failing field. Other errors get a generic message.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request body"
	}
	fe := verrs[0]
	return fmt.Sprintf("Invalid %s: %s", fe.Field(), validationTagMessage(fe.Tag()))
}

func validationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "uuid", "uuid4":
		return "must be a UUID"
	case "oneof":
		return "invalid value"
	case "max":
		return "too long"
	case "timezone":
		return "unknown timezone"
	case "bcp47_language_tag":
		return "invalid language tag"
	default:
		return "validation failed"
	}
}
