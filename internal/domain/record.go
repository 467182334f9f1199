package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PeriodKey identifies a calendar month.
type PeriodKey struct {
	Year  int
	Month time.Month
}

// PeriodOf returns the period containing t.
func PeriodOf(t time.Time) PeriodKey {
	return PeriodKey{Year: t.Year(), Month: t.Month()}
}

// String formats the period as YYYY-MM.
func (p PeriodKey) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// Statement formats the period as MM/YYYY, the form used on bank statements.
func (p PeriodKey) Statement() string {
	return fmt.Sprintf("%02d/%04d", int(p.Month), p.Year)
}

// Before reports whether p is earlier than other.
func (p PeriodKey) Before(other PeriodKey) bool {
	if p.Year != other.Year {
		return p.Year < other.Year
	}
	return p.Month < other.Month
}

// TransactionRecord is one normalized bank statement line.
// Date, Label and Amount are fixed once parsed; Account and PieceReference
// are filled in during the import session.
type TransactionRecord struct {
	Line           int
	RawDate        string
	Label          string
	Amount         decimal.Decimal
	Date           time.Time
	Period         PeriodKey
	Account        AccountRef
	PieceReference string
	Synthetic      bool
}

// NewTransactionRecord builds a record, deriving the period from the date.
func NewTransactionRecord(line int, rawDate, label string, amount decimal.Decimal, date time.Time) TransactionRecord {
	return TransactionRecord{
		Line:    line,
		RawDate: rawDate,
		Label:   label,
		Amount:  amount.Round(2),
		Date:    date,
		Period:  PeriodOf(date),
	}
}

// PeriodAggregate holds the real records of one period and their net sum.
type PeriodAggregate struct {
	Period     PeriodKey
	Records    []TransactionRecord
	Net        decimal.Decimal
	LatestDate time.Time
}

// FiscalContext scopes created entries to a company and fiscal year.
// Both identifiers are opaque.
type FiscalContext struct {
	CompanyID    string
	FiscalYearID string
}

// Validate checks that both identifiers are present.
func (f FiscalContext) Validate() error {
	if f.CompanyID == "" {
		return fmt.Errorf("%w: company id is required", ErrInvalidFiscalContext)
	}
	if f.FiscalYearID == "" {
		return fmt.Errorf("%w: fiscal year id is required", ErrInvalidFiscalContext)
	}
	return nil
}
