package postgres

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/iho/bankrecon/internal/infrastructure/postgres/generated"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	queries *generated.Queries
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(db generated.DBTX) *LedgerRepository {
	return &LedgerRepository{queries: generated.New(db)}
}

// CheckConsistency sums debits and credits of all lines in a fiscal year.
func (r *LedgerRepository) CheckConsistency(ctx context.Context, fiscalYearID string) (totalDebit, totalCredit decimal.Decimal, err error) {
	result, err := r.queries.CheckFiscalYearBalance(ctx, fiscalYearID)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	return numericToDecimal(result.TotalDebit), numericToDecimal(result.TotalCredit), nil
}
