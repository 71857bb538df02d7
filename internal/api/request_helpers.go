package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/glossa-api/internal/api/shared"
)

const kindUnauthorized = "unauthorized"

// getPathUUID parses the named chi path parameter as a UUID.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	raw := chi.URLParam(r, paramName)
	if raw == "" {
		return uuid.Nil, invalidRequest(errMissingParam(paramName))
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, invalidRequest(err)
	}
	return id, nil
}

type errMissingParam string

func (e errMissingParam) Error() string { return string(e) + " is required" }

// requireUser returns the authenticated user id, writing a 401 when it is missing.
func requireUser(w http.ResponseWriter, r *http.Request, log *slog.Logger) (uuid.UUID, bool) {
	userID, ok := shared.UserIDFromContext(r.Context())
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, kindUnauthorized, "User ID not found or invalid")
		return uuid.Nil, false
	}
	return userID, true
}

// handleUserIDAndPathUUID extracts the user id and a path UUID, writing the error
// response when either is missing.
func handleUserIDAndPathUUID(
	w http.ResponseWriter,
	r *http.Request,
	paramName string,
	log *slog.Logger,
) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := requireUser(w, r, log)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	pathID, err := getPathUUID(r, paramName)
	if err != nil {
		log.Debug("invalid path parameter",
			slog.String("param_name", paramName),
			slog.String("value", chi.URLParam(r, paramName)))
		HandleAPIError(w, r, err, "Invalid "+paramName)
		return uuid.Nil, uuid.Nil, false
	}
	return userID, pathID, true
}

// decodeBody decodes and validates the JSON body into v, writing a 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any, optional bool) bool {
	if err := shared.DecodeJSON(w, r, v, optional); err != nil {
		HandleAPIError(w, r, invalidRequest(err), "Invalid request body")
		return false
	}
	if err := shared.ValidateRequest(v); err != nil {
		HandleAPIError(w, r, invalidRequest(err), SanitizeValidationError(err))
		return false
	}
	return true
}

// optionalUUID parses s, treating an empty string as absent.
func optionalUUID(s string) (*uuid.UUID, error) {
	if s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, invalidRequest(err)
	}
	return &id, nil
}
