package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/bankrecon/internal/adapter/http/dto"
	"github.com/iho/bankrecon/internal/domain"
	"github.com/iho/bankrecon/internal/usecase"
)

// EntryService defines the behavior needed by EntryHandler.
type EntryService interface {
	ListEntries(ctx context.Context, input usecase.ListEntriesInput) ([]*domain.JournalEntry, error)
	GetEntry(ctx context.Context, id string) (*domain.JournalEntry, error)
}

// EntryHandler handles journal entry requests.
type EntryHandler struct {
	entryUC EntryService
}

// NewEntryHandler creates a new EntryHandler.
func NewEntryHandler(entryUC EntryService) *EntryHandler {
	return &EntryHandler{entryUC: entryUC}
}

// ListByFiscalYear lists the entries of a fiscal year.
func (h *EntryHandler) ListByFiscalYear(w http.ResponseWriter, r *http.Request) {
	fiscalYearID := chi.URLParam(r, "fiscalYearID")
	if fiscalYearID == "" {
		writeError(w, http.StatusBadRequest, "missing fiscal year ID", "")
		return
	}

	entries, err := h.entryUC.ListEntries(r.Context(), usecase.ListEntriesInput{
		FiscalYearID: fiscalYearID,
		Limit:        parseIntQuery(r, "limit", 50),
		Offset:       parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, "failed to list entries", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EntriesFromDomain(entries))
}

// Get retrieves an entry by ID.
func (h *EntryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing entry ID", "")
		return
	}

	entry, err := h.entryUC.GetEntry(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to get entry", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EntryFromDomain(entry))
}
