// Package respond provides shared JSON response utilities and the single
// place where domain errors map to HTTP statuses.
package respond

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ligaflagmx/liga-api/internal/domain"
)

// ErrorResponse is the standard error shape for all API errors.
type ErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Detail  string `json:"detail,omitempty"`
	} `json:"error"`
}

// WriteJSON marshals a Go value to JSON and writes it.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// WriteError sends a structured JSON error response.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	WriteErrorDetail(w, status, code, message, "")
}

// WriteErrorDetail sends a structured error with additional detail.
func WriteErrorDetail(w http.ResponseWriter, status int, code, message, detail string) {
	resp := ErrorResponse{}
	resp.Error.Code = code
	resp.Error.Message = message
	resp.Error.Detail = detail
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

// Error maps a domain error to its HTTP response:
// validation → 400, invalid transition → 400 (with the allowed set as
// detail), not found → 404, forbidden → 403, unresolved version conflict
// → 409, anything else → 500.
func Error(w http.ResponseWriter, err error) {
	var vErr *domain.ValidationError
	var tErr *domain.InvalidTransitionError
	switch {
	case errors.As(err, &tErr):
		WriteErrorDetail(w, http.StatusBadRequest, "INVALID_TRANSITION", tErr.Error(),
			"allowed: "+tErr.AllowedList())
	case errors.As(err, &vErr):
		WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR", vErr.Error())
	case errors.Is(err, domain.ErrMatchNotLive):
		WriteError(w, http.StatusBadRequest, "MATCH_NOT_LIVE", err.Error())
	case errors.Is(err, domain.ErrNoValidDates):
		WriteError(w, http.StatusBadRequest, "NO_VALID_DATES", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		WriteError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, domain.ErrForbidden):
		WriteError(w, http.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, domain.ErrVersionConflict):
		WriteError(w, http.StatusConflict, "CONFLICT", err.Error())
	default:
		WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal error")
	}
}
