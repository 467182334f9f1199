package dto

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/iho/bankrecon/internal/domain"
	"github.com/iho/bankrecon/internal/usecase"
)

// CreateAccountRequest represents a request to add an account to a chart.
type CreateAccountRequest struct {
	Number string `json:"number"`
	Name   string `json:"name"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput(companyID string) usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		CompanyID: companyID,
		Number:    r.Number,
		Name:      r.Name,
	}
}

// UpsertAssociationRequest represents a request to map a label to an account.
type UpsertAssociationRequest struct {
	Label         string `json:"label"`
	AccountNumber string `json:"account_number"`
}

// ToWrite converts to an association write.
func (r *UpsertAssociationRequest) ToWrite(companyID string) domain.AssociationWrite {
	return domain.AssociationWrite{
		CompanyID:     companyID,
		Label:         r.Label,
		AccountNumber: r.AccountNumber,
	}
}

// AssignmentRequest assigns an account to every line with Label, or to the
// single record at index Record when set.
type AssignmentRequest struct {
	Label   string `json:"label,omitempty"`
	Record  *int   `json:"record,omitempty"`
	Account string `json:"account"`
}

// ImportRequest carries a statement and the settings to import it with.
type ImportRequest struct {
	CompanyID          string              `json:"company_id"`
	FiscalYearID       string              `json:"fiscal_year_id"`
	Mode               string              `json:"mode,omitempty"`
	CounterpartAccount string              `json:"counterpart_account,omitempty"`
	Delimiter          string              `json:"delimiter,omitempty"`
	Statement          string              `json:"statement"`
	Assignments        []AssignmentRequest `json:"assignments,omitempty"`
}

// ToUseCaseInput converts to use case input. Empty mode and delimiter are
// left for the use case defaults.
func (r *ImportRequest) ToUseCaseInput() (usecase.ImportInput, error) {
	input := usecase.ImportInput{
		Fiscal: domain.FiscalContext{
			CompanyID:    r.CompanyID,
			FiscalYearID: r.FiscalYearID,
		},
		CounterpartAccount: r.CounterpartAccount,
		Statement:          strings.NewReader(r.Statement),
	}

	if r.Mode != "" {
		mode, err := domain.ParseMode(r.Mode)
		if err != nil {
			return usecase.ImportInput{}, err
		}
		input.Mode = mode
	}

	if r.Delimiter != "" {
		if utf8.RuneCountInString(r.Delimiter) != 1 {
			return usecase.ImportInput{}, fmt.Errorf("delimiter must be a single character, got %q", r.Delimiter)
		}
		input.Delimiter, _ = utf8.DecodeRuneInString(r.Delimiter)
	}

	for _, a := range r.Assignments {
		input.Assignments = append(input.Assignments, usecase.Assignment{
			Label:   a.Label,
			Record:  a.Record,
			Account: a.Account,
		})
	}

	return input, nil
}

// SaveAssociationsRequest lists resolved statement lines whose label →
// account pairs should be remembered.
type SaveAssociationsRequest struct {
	CompanyID string          `json:"company_id"`
	Records   []RecordRequest `json:"records"`
}

// RecordRequest is a resolved statement line.
type RecordRequest struct {
	Label   string          `json:"label"`
	Account string          `json:"account"`
	Amount  decimal.Decimal `json:"amount"`
}

// ToRecords converts to transaction records.
func (r *SaveAssociationsRequest) ToRecords() []domain.TransactionRecord {
	records := make([]domain.TransactionRecord, len(r.Records))
	for i, rec := range r.Records {
		records[i] = domain.TransactionRecord{
			Line:    i + 1,
			Label:   rec.Label,
			Amount:  rec.Amount,
			Account: domain.AccountOf(rec.Account),
		}
	}
	return records
}
