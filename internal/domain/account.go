package domain

import (
	"time"
)

// Account represents a ledger account in a company's chart of accounts.
type Account struct {
	ID        string
	CompanyID string
	Number    string
	Name      string
	CreatedAt time.Time
}

// AccountRef is an optional ledger account number.
// The zero value means "unresolved".
type AccountRef struct {
	number string
	set    bool
}

// NoAccount is the unresolved account reference.
var NoAccount = AccountRef{}

// AccountOf returns a resolved reference to the given account number.
// An empty number yields NoAccount.
func AccountOf(number string) AccountRef {
	if number == "" {
		return NoAccount
	}
	return AccountRef{number: number, set: true}
}

// Number returns the account number and whether the reference is resolved.
func (a AccountRef) Number() (string, bool) {
	return a.number, a.set
}

// IsSet reports whether the reference points to an account.
func (a AccountRef) IsSet() bool {
	return a.set
}

// String returns the account number, or an empty string when unresolved.
func (a AccountRef) String() string {
	return a.number
}

// ChartOfAccounts indexes accounts by number.
type ChartOfAccounts map[string]*Account

// NewChartOfAccounts builds a ChartOfAccounts from a list of accounts.
func NewChartOfAccounts(accounts []*Account) ChartOfAccounts {
	chart := make(ChartOfAccounts, len(accounts))
	for _, a := range accounts {
		chart[a.Number] = a
	}
	return chart
}

// Has reports whether the account number exists in the chart.
func (c ChartOfAccounts) Has(number string) bool {
	_, ok := c[number]
	return ok
}
