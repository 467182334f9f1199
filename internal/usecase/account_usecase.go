package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/iho/bankrecon/internal/domain"
)

// AccountUseCase handles chart-of-accounts operations.
type AccountUseCase struct {
	accountRepo AccountRepository
	idGen       IDGenerator
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(accountRepo AccountRepository, idGen IDGenerator) *AccountUseCase {
	return &AccountUseCase{
		accountRepo: accountRepo,
		idGen:       idGen,
	}
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	CompanyID string
	Number    string
	Name      string
}

// CreateAccount adds an account to a company's chart of accounts.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	if input.CompanyID == "" {
		return nil, domain.ErrInvalidFiscalContext
	}
	if err := domain.ValidateAccountNumber(input.Number); err != nil {
		return nil, err
	}
	if err := domain.ValidateAccountName(input.Name); err != nil {
		return nil, err
	}

	account := &domain.Account{
		ID:        uc.idGen.Generate(),
		CompanyID: input.CompanyID,
		Number:    input.Number,
		Name:      strings.TrimSpace(input.Name),
		CreatedAt: time.Now().UTC(),
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// GetAccount retrieves an account by company and number.
func (uc *AccountUseCase) GetAccount(ctx context.Context, companyID, number string) (*domain.Account, error) {
	return uc.accountRepo.GetByNumber(ctx, companyID, number)
}

// ListAccounts lists a company's chart of accounts ordered by number.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, companyID string) ([]*domain.Account, error) {
	if companyID == "" {
		return nil, domain.ErrInvalidFiscalContext
	}
	return uc.accountRepo.ListByCompany(ctx, companyID)
}
