package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/iho/gomovements/internal/adapter/http/dto"
	"github.com/iho/gomovements/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// writeValidationErrors writes field-keyed validation messages with a
// 422 status.
func writeValidationErrors(w http.ResponseWriter, errs domain.FieldErrors) {
	writeJSON(w, http.StatusUnprocessableEntity, dto.ValidationErrorResponse{
		Errors: errs,
	})
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrMovementNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrLedgerEntryNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrContactNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrTaxNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}
