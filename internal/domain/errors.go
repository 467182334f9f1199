package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// Account errors
	ErrAccountNotFound       = errors.New("account not found")
	ErrAccountExists         = errors.New("account number already exists")
	ErrInvalidAccountNumber  = errors.New("invalid account number")
	ErrInvalidAccountName    = errors.New("invalid account name")
	ErrUnknownAccounts       = errors.New("accounts not in chart of accounts")
	ErrMissingCounterpart    = errors.New("counterpart account is required")
	ErrAssociationNotFound   = errors.New("association not found")
	ErrInvalidLabel          = errors.New("invalid label")
	ErrInvalidFiscalContext  = errors.New("invalid fiscal context")
	ErrInvalidMode           = errors.New("invalid balancing mode")
	ErrUnresolvedAccounts    = errors.New("statement lines without account")
	ErrRecordIndexOutOfRange = errors.New("record index out of range")

	// Entry errors
	ErrInvalidLine      = errors.New("invalid journal line")
	ErrTooFewLines      = errors.New("journal entry needs at least two lines")
	ErrUnbalancedEntry  = errors.New("journal entry is not balanced")
	ErrEntryNotFound    = errors.New("journal entry not found")
	ErrSubmissionHalted = errors.New("entry submission halted")
	ErrEmptyStatement   = errors.New("statement contains no transactions")
)

// UnresolvedError lists the distinct labels that still lack an account.
type UnresolvedError struct {
	Labels []string
}

func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUnresolvedAccounts, strings.Join(e.Labels, ", "))
}

func (e *UnresolvedError) Unwrap() error {
	return ErrUnresolvedAccounts
}

// UnknownAccountsError lists assigned account numbers missing from the chart.
type UnknownAccountsError struct {
	Numbers []string
}

func (e *UnknownAccountsError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUnknownAccounts, strings.Join(e.Numbers, ", "))
}

func (e *UnknownAccountsError) Unwrap() error {
	return ErrUnknownAccounts
}
