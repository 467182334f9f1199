package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/bankrecon/internal/adapter/http/dto"
	"github.com/iho/bankrecon/internal/domain"
	"github.com/iho/bankrecon/internal/usecase"
)

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	CreateAccount(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error)
	GetAccount(ctx context.Context, companyID, number string) (*domain.Account, error)
	ListAccounts(ctx context.Context, companyID string) ([]*domain.Account, error)
}

// AccountHandler handles chart of accounts requests.
type AccountHandler struct {
	accountUC AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountUC AccountService) *AccountHandler {
	return &AccountHandler{accountUC: accountUC}
}

// Create adds an account to a company's chart.
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	account, err := h.accountUC.CreateAccount(r.Context(), req.ToUseCaseInput(chi.URLParam(r, "companyID")))
	if err != nil {
		writeDomainError(w, "failed to create account", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.AccountFromDomain(account))
}

// Get retrieves an account by number.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")
	if number == "" {
		writeError(w, http.StatusBadRequest, "missing account number", "")
		return
	}

	account, err := h.accountUC.GetAccount(r.Context(), chi.URLParam(r, "companyID"), number)
	if err != nil {
		writeDomainError(w, "failed to get account", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// List lists a company's chart of accounts.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accountUC.ListAccounts(r.Context(), chi.URLParam(r, "companyID"))
	if err != nil {
		writeDomainError(w, "failed to list accounts", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountsFromDomain(accounts))
}
