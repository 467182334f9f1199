package usecase

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrInconsistentLedger is returned when the ledger is not balanced.
	ErrInconsistentLedger = errors.New("ledger is inconsistent: debits do not equal credits")
)

// ConsistencyReport holds the totals of a fiscal year.
type ConsistencyReport struct {
	FiscalYearID string
	TotalDebit   decimal.Decimal
	TotalCredit  decimal.Decimal
	Consistent   bool
}

// LedgerUseCase handles ledger-wide operations.
type LedgerUseCase struct {
	ledgerRepo LedgerRepository
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(ledgerRepo LedgerRepository) *LedgerUseCase {
	return &LedgerUseCase{
		ledgerRepo: ledgerRepo,
	}
}

// CheckConsistency verifies that the stored lines of a fiscal year balance.
// An unbalanced ledger returns the report together with ErrInconsistentLedger.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context, fiscalYearID string) (*ConsistencyReport, error) {
	debit, credit, err := uc.ledgerRepo.CheckConsistency(ctx, fiscalYearID)
	if err != nil {
		return nil, err
	}

	report := &ConsistencyReport{
		FiscalYearID: fiscalYearID,
		TotalDebit:   debit,
		TotalCredit:  credit,
		Consistent:   debit.Equal(credit),
	}
	if !report.Consistent {
		return report, ErrInconsistentLedger
	}

	return report, nil
}
