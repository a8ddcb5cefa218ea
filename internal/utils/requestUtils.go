package utils

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"edudham/internal/xerrors"
)

type contextKey string

// ClaimsContextKey is where the auth middleware stores the verified claims.
const ClaimsContextKey contextKey = "claims"

func RespondWithJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func SendJSONError(w http.ResponseWriter, message string, status int) {
	RespondWithJSON(w, status, map[string]string{"error": message})
}

func RespondWithError(w http.ResponseWriter, status int, message string) {
	SendJSONError(w, message, status)
}

// HTTPStatus maps the shared error taxonomy to status codes.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, xerrors.ErrUnauthenticated),
		errors.Is(err, xerrors.ErrExpiredToken),
		errors.Is(err, xerrors.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, xerrors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, xerrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, xerrors.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, xerrors.ErrValidation):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// RespondWithAppError translates a service error into the JSON error shape.
// Internal errors are not leaked verbatim to the caller.
func RespondWithAppError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal server error"
	}
	SendJSONError(w, message, status)
}

// GetClaimsFromContext extracts the verified claims set by the auth
// middleware; absence means the route was wired without it.
func GetClaimsFromContext(w http.ResponseWriter, r *http.Request) (*Claims, error) {
	claims, ok := r.Context().Value(ClaimsContextKey).(*Claims)
	if !ok || claims == nil {
		SendJSONError(w, xerrors.ErrUnauthenticated.Error(), http.StatusUnauthorized)
		return nil, xerrors.ErrUnauthenticated
	}
	return claims, nil
}

// OptionalClaims returns claims when present and nil otherwise, without
// writing a response. Used by endpoints that behave differently for
// authenticated callers (e.g. register granting elevated roles).
func OptionalClaims(r *http.Request) *Claims {
	claims, ok := r.Context().Value(ClaimsContextKey).(*Claims)
	if !ok {
		return nil
	}
	return claims
}

// GetIDFromVars extracts a path id parameter.
func GetIDFromVars(w http.ResponseWriter, r *http.Request, paramName string) (string, error) {
	vars := mux.Vars(r)
	id := vars[paramName]
	if id == "" {
		SendJSONError(w, "Missing ID parameter", http.StatusBadRequest)
		return "", errors.New("missing ID parameter")
	}
	return id, nil
}

// DecodeJSONBody decodes a request body, surfacing malformed JSON as a
// validation failure.
func DecodeJSONBody(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return xerrors.Validationf("invalid JSON body: %s", err.Error())
	}
	return nil
}
