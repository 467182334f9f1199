package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/iho/bankrecon/internal/adapter/http/dto"
	"github.com/iho/bankrecon/internal/domain"
	"github.com/iho/bankrecon/internal/usecase"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// writeDomainError writes err with the status mapDomainError picks for it,
// attaching the offending labels or account numbers when err carries them.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	resp := dto.ErrorResponse{
		Error:   message,
		Message: err.Error(),
	}

	var unresolved *domain.UnresolvedError
	if errors.As(err, &unresolved) {
		resp.Labels = unresolved.Labels
	}

	var unknown *domain.UnknownAccountsError
	if errors.As(err, &unknown) {
		resp.Accounts = unknown.Numbers
	}

	writeJSON(w, mapDomainError(err), resp)
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	var maxBytes *http.MaxBytesError

	switch {
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrAssociationNotFound),
		errors.Is(err, domain.ErrEntryNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAccountExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnresolvedAccounts),
		errors.Is(err, domain.ErrUnknownAccounts):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrSubmissionHalted):
		return http.StatusBadGateway
	case errors.Is(err, usecase.ErrInconsistentLedger):
		return http.StatusConflict
	case errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, domain.ErrInvalidAccountNumber),
		errors.Is(err, domain.ErrInvalidAccountName),
		errors.Is(err, domain.ErrInvalidLabel),
		errors.Is(err, domain.ErrInvalidFiscalContext),
		errors.Is(err, domain.ErrInvalidMode),
		errors.Is(err, domain.ErrMissingCounterpart),
		errors.Is(err, domain.ErrRecordIndexOutOfRange),
		errors.Is(err, domain.ErrEmptyStatement):
		return http.StatusBadRequest
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
