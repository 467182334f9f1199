package domain

import "time"

// AccountAssociation is a learned mapping from an exact transaction label to
// a ledger account, scoped to a company.
type AccountAssociation struct {
	ID            string
	CompanyID     string
	Label         string
	AccountNumber string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// AssociationWrite is a pending request to persist a label→account mapping.
type AssociationWrite struct {
	CompanyID     string
	Label         string
	AccountNumber string
}

// Validate checks the write before it reaches the store.
func (w AssociationWrite) Validate() error {
	if w.CompanyID == "" {
		return ErrInvalidFiscalContext
	}
	if err := ValidateLabel(w.Label); err != nil {
		return err
	}
	return ValidateAccountNumber(w.AccountNumber)
}
