package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/casalar/ledger/internal/adapter/http/dto"
	"github.com/casalar/ledger/internal/domain"
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

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrTenantNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrTenantInactive):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidPeriod):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrMissingEffectiveDate):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// parseDateQuery parses a YYYY-MM-DD query parameter, falling back to the
// given default when absent.
func parseDateQuery(r *http.Request, key string, fallback time.Time) (time.Time, error) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return fallback, nil
	}
	return time.Parse("2006-01-02", val)
}
