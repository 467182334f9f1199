package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// BalanceTolerance is the largest accepted difference between total debit
// and total credit of an entry.
var BalanceTolerance = decimal.New(1, -2)

// JournalLine is one posting of a journal entry.
type JournalLine struct {
	AccountNumber string
	Label         string
	Debit         decimal.Decimal
	Credit        decimal.Decimal
}

// NewStatementLine posts a signed statement amount: negative amounts are
// debited, zero and positive amounts are credited.
func NewStatementLine(account, label string, amount decimal.Decimal) JournalLine {
	line := JournalLine{
		AccountNumber: account,
		Label:         label,
		Debit:         decimal.Zero,
		Credit:        decimal.Zero,
	}
	if amount.IsNegative() {
		line.Debit = amount.Neg()
	} else {
		line.Credit = amount
	}
	return line
}

// Opposite returns a line on account carrying the reverse side of l.
func (l JournalLine) Opposite(account, label string) JournalLine {
	return JournalLine{
		AccountNumber: account,
		Label:         label,
		Debit:         l.Credit,
		Credit:        l.Debit,
	}
}

// Validate checks that exactly one side is positive and the other is zero.
func (l JournalLine) Validate() error {
	if l.AccountNumber == "" {
		return fmt.Errorf("%w: missing account", ErrInvalidLine)
	}
	if l.Debit.IsNegative() || l.Credit.IsNegative() {
		return fmt.Errorf("%w: negative amount on account %s", ErrInvalidLine, l.AccountNumber)
	}
	if l.Debit.IsPositive() == l.Credit.IsPositive() {
		return fmt.Errorf("%w: account %s must carry exactly one of debit or credit", ErrInvalidLine, l.AccountNumber)
	}
	return nil
}

// JournalEntryDraft is a balanced entry ready for submission.
type JournalEntryDraft struct {
	Date           time.Time
	PieceReference string
	Label          string
	Lines          []JournalLine
}

// Totals returns the sums of debits and credits.
func (d *JournalEntryDraft) Totals() (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, l := range d.Lines {
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}
	return debit, credit
}

// Validate checks line invariants and the balance of the entry.
func (d *JournalEntryDraft) Validate() error {
	if len(d.Lines) < 2 {
		return fmt.Errorf("%w: entry %q has %d line(s)", ErrTooFewLines, d.PieceReference, len(d.Lines))
	}

	for _, l := range d.Lines {
		if err := l.Validate(); err != nil {
			return err
		}
	}

	debit, credit := d.Totals()
	if debit.Sub(credit).Abs().GreaterThan(BalanceTolerance) {
		return fmt.Errorf("%w: entry %q debit=%s credit=%s", ErrUnbalancedEntry, d.PieceReference, debit, credit)
	}

	return nil
}

// JournalEntry is a draft accepted by the ledger store.
type JournalEntry struct {
	ID             string
	CompanyID      string
	FiscalYearID   string
	Date           time.Time
	PieceReference string
	Label          string
	Lines          []JournalLine
	CreatedAt      time.Time
}

// NewJournalEntry scopes a draft to a fiscal context.
func NewJournalEntry(id string, fiscal FiscalContext, draft JournalEntryDraft, createdAt time.Time) *JournalEntry {
	lines := make([]JournalLine, len(draft.Lines))
	copy(lines, draft.Lines)

	return &JournalEntry{
		ID:             id,
		CompanyID:      fiscal.CompanyID,
		FiscalYearID:   fiscal.FiscalYearID,
		Date:           draft.Date,
		PieceReference: draft.PieceReference,
		Label:          draft.Label,
		Lines:          lines,
		CreatedAt:      createdAt,
	}
}
