package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/iho/bankrecon/internal/domain"
	"github.com/iho/bankrecon/internal/infrastructure/postgres/generated"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	queries *generated.Queries
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(db generated.DBTX) *AccountRepository {
	return &AccountRepository{
		queries: generated.New(db),
	}
}

// Create adds an account to a company's chart of accounts.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	_, err := r.queries.CreateAccount(ctx, generated.CreateAccountParams{
		ID:        account.ID,
		CompanyID: account.CompanyID,
		Number:    account.Number,
		Name:      account.Name,
		CreatedAt: timeToPgTimestamptz(account.CreatedAt),
	})
	if isUniqueViolation(err) {
		return domain.ErrAccountExists
	}

	return err
}

// GetByNumber retrieves an account by company and number.
func (r *AccountRepository) GetByNumber(ctx context.Context, companyID, number string) (*domain.Account, error) {
	row, err := r.queries.GetAccountByNumber(ctx, generated.GetAccountByNumberParams{
		CompanyID: companyID,
		Number:    number,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return rowToAccount(row), nil
}

// ListByCompany returns the chart of accounts of a company.
func (r *AccountRepository) ListByCompany(ctx context.Context, companyID string) ([]*domain.Account, error) {
	rows, err := r.queries.ListAccountsByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	accounts := make([]*domain.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, rowToAccount(row))
	}

	return accounts, nil
}

func rowToAccount(row generated.Account) *domain.Account {
	return &domain.Account{
		ID:        row.ID,
		CompanyID: row.CompanyID,
		Number:    row.Number,
		Name:      row.Name,
		CreatedAt: row.CreatedAt.Time,
	}
}
