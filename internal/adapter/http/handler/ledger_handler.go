package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/bankrecon/internal/adapter/http/dto"
	"github.com/iho/bankrecon/internal/usecase"
)

// LedgerService defines the behavior needed by LedgerHandler.
type LedgerService interface {
	CheckConsistency(ctx context.Context, fiscalYearID string) (*usecase.ConsistencyReport, error)
}

// LedgerHandler handles ledger-wide operations.
type LedgerHandler struct {
	ledgerUC LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC}
}

// CheckConsistency checks that a fiscal year's debits equal its credits.
func (h *LedgerHandler) CheckConsistency(w http.ResponseWriter, r *http.Request) {
	report, err := h.ledgerUC.CheckConsistency(r.Context(), chi.URLParam(r, "fiscalYearID"))
	if err != nil {
		if errors.Is(err, usecase.ErrInconsistentLedger) && report != nil {
			writeJSON(w, http.StatusConflict, dto.ConsistencyFromUseCase(report))
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to check consistency", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ConsistencyFromUseCase(report))
}
