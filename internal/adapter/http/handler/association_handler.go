package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/bankrecon/internal/adapter/http/dto"
	"github.com/iho/bankrecon/internal/domain"
)

// AssociationService defines the behavior needed by AssociationHandler.
type AssociationService interface {
	List(ctx context.Context, companyID string) ([]*domain.AccountAssociation, error)
	Upsert(ctx context.Context, write domain.AssociationWrite) (*domain.AccountAssociation, error)
	Delete(ctx context.Context, companyID, id string) error
	SaveAll(ctx context.Context, companyID string, records []domain.TransactionRecord) (int, error)
}

// AssociationHandler handles label → account association requests.
type AssociationHandler struct {
	assocUC AssociationService
}

// NewAssociationHandler creates a new AssociationHandler.
func NewAssociationHandler(assocUC AssociationService) *AssociationHandler {
	return &AssociationHandler{assocUC: assocUC}
}

// List lists a company's associations.
func (h *AssociationHandler) List(w http.ResponseWriter, r *http.Request) {
	assocs, err := h.assocUC.List(r.Context(), chi.URLParam(r, "companyID"))
	if err != nil {
		writeDomainError(w, "failed to list associations", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AssociationsFromDomain(assocs))
}

// Upsert maps a label to an account, replacing any previous mapping.
func (h *AssociationHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req dto.UpsertAssociationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	assoc, err := h.assocUC.Upsert(r.Context(), req.ToWrite(chi.URLParam(r, "companyID")))
	if err != nil {
		writeDomainError(w, "failed to save association", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AssociationFromDomain(assoc))
}

// Delete removes an association.
func (h *AssociationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing association ID", "")
		return
	}

	if err := h.assocUC.Delete(r.Context(), chi.URLParam(r, "companyID"), id); err != nil {
		writeDomainError(w, "failed to delete association", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SaveAll remembers the label → account pairs of resolved statement lines.
func (h *AssociationHandler) SaveAll(w http.ResponseWriter, r *http.Request) {
	var req dto.SaveAssociationsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	saved, err := h.assocUC.SaveAll(r.Context(), req.CompanyID, req.ToRecords())
	if err != nil {
		writeDomainError(w, "failed to save associations", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SaveAssociationsResponse{Saved: saved})
}
