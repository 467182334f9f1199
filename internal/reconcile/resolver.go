// Package reconcile turns parsed statement records into balanced journal
// entry drafts. Everything in this package is pure: it performs no I/O and
// reports the effects to carry out (entries to submit, associations to
// persist) in a Plan.
package reconcile

import (
	"strings"

	"github.com/iho/bankrecon/internal/domain"
)

// AssociationTable maps exact transaction labels to account numbers.
type AssociationTable map[string]string

// NewAssociationTable indexes stored associations by label.
func NewAssociationTable(assocs []*domain.AccountAssociation) AssociationTable {
	t := make(AssociationTable, len(assocs))
	for _, a := range assocs {
		if a == nil || a.Label == "" {
			continue
		}
		t[a.Label] = a.AccountNumber
	}
	return t
}

// Resolve returns the account for label: an exact match first, otherwise
// the account of the longest key that label starts with.
func (t AssociationTable) Resolve(label string) domain.AccountRef {
	if account, ok := t[label]; ok && account != "" {
		return domain.AccountOf(account)
	}

	best := ""
	for key := range t {
		if key == "" || len(key) <= len(best) {
			continue
		}
		if strings.HasPrefix(label, key) {
			best = key
		}
	}
	if best == "" {
		return domain.NoAccount
	}

	return domain.AccountOf(t[best])
}

// Clone returns an independent copy of the table.
func (t AssociationTable) Clone() AssociationTable {
	c := make(AssociationTable, len(t))
	for k, v := range t {
		c[k] = v
	}
	return c
}
