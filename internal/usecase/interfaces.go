package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankrecon/internal/domain"
)

// AccountRepository defines data access for the chart of accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByNumber(ctx context.Context, companyID, number string) (*domain.Account, error)
	ListByCompany(ctx context.Context, companyID string) ([]*domain.Account, error)
}

// EntryRepository defines data access for journal entries.
type EntryRepository interface {
	// Create stores the entry header and all of its lines within tx.
	Create(ctx context.Context, tx Transaction, entry *domain.JournalEntry) error
	GetByID(ctx context.Context, id string) (*domain.JournalEntry, error)
	ListByFiscalYear(ctx context.Context, fiscalYearID string, limit, offset int) ([]*domain.JournalEntry, error)
}

// AssociationRepository defines data access for label associations.
type AssociationRepository interface {
	FindByCompany(ctx context.Context, companyID string) ([]*domain.AccountAssociation, error)
	// Upsert inserts or replaces the association for (CompanyID, Label).
	Upsert(ctx context.Context, assoc *domain.AccountAssociation) error
	Delete(ctx context.Context, companyID, id string) error
}

// LedgerRepository defines data access for ledger-wide checks.
type LedgerRepository interface {
	CheckConsistency(ctx context.Context, fiscalYearID string) (totalDebit, totalCredit decimal.Decimal, err error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier retries an operation on transient storage errors.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// AssociationQueue accepts association writes for asynchronous persistence.
// Enqueue must not block; it reports whether the write was accepted.
type AssociationQueue interface {
	Enqueue(write domain.AssociationWrite) bool
}

// ErrCacheMiss is returned by Cache.Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a key whose request did not complete successfully.
	Release(ctx context.Context, key string) error
}

// MetricsRecorder receives import and association counters.
type MetricsRecorder interface {
	RecordParse(records, skipped int)
	RecordImport(mode domain.Mode, outcome string, duration time.Duration)
	RecordEntries(submitted, failed, rejected int)
	RecordAssociationWrite(outcome string)
}

// NopRecorder is a MetricsRecorder that records nothing.
type NopRecorder struct{}

func (NopRecorder) RecordParse(int, int)                           {}
func (NopRecorder) RecordImport(domain.Mode, string, time.Duration) {}
func (NopRecorder) RecordEntries(int, int, int)                    {}
func (NopRecorder) RecordAssociationWrite(string)                  {}
