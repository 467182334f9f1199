package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/iho/bankrecon/internal/domain"
	"github.com/iho/bankrecon/internal/infrastructure/postgres/generated"
	"github.com/iho/bankrecon/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	queries *generated.Queries
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(db generated.DBTX) *EntryRepository {
	return &EntryRepository{
		queries: generated.New(db),
	}
}

// Create stores the entry header and its lines in tx.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.JournalEntry) error {
	pgxTx := tx.(*Tx).PgxTx()
	queries := r.queries.WithTx(pgxTx)

	err := queries.CreateJournalEntry(ctx, generated.CreateJournalEntryParams{
		ID:             entry.ID,
		CompanyID:      entry.CompanyID,
		FiscalYearID:   entry.FiscalYearID,
		EntryDate:      timeToPgDate(entry.Date),
		PieceReference: entry.PieceReference,
		Label:          entry.Label,
		CreatedAt:      timeToPgTimestamptz(entry.CreatedAt),
	})
	if err != nil {
		return fmt.Errorf("insert entry %s: %w", entry.ID, err)
	}

	for i, line := range entry.Lines {
		err := queries.CreateJournalLine(ctx, generated.CreateJournalLineParams{
			EntryID:       entry.ID,
			Position:      int32(i),
			AccountNumber: line.AccountNumber,
			Label:         line.Label,
			Debit:         decimalToNumeric(line.Debit),
			Credit:        decimalToNumeric(line.Credit),
		})
		if err != nil {
			return fmt.Errorf("insert line %d of entry %s: %w", i, entry.ID, err)
		}
	}

	return nil
}

// GetByID retrieves an entry with its lines.
func (r *EntryRepository) GetByID(ctx context.Context, id string) (*domain.JournalEntry, error) {
	row, err := r.queries.GetJournalEntry(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}

		return nil, err
	}

	entries, err := r.withLines(ctx, []generated.JournalEntry{row})
	if err != nil {
		return nil, err
	}

	return entries[0], nil
}

// ListByFiscalYear lists entries of a fiscal year ordered by date.
func (r *EntryRepository) ListByFiscalYear(ctx context.Context, fiscalYearID string, limit, offset int) ([]*domain.JournalEntry, error) {
	rows, err := r.queries.ListJournalEntriesByFiscalYear(ctx, generated.ListJournalEntriesByFiscalYearParams{
		FiscalYearID: fiscalYearID,
		Limit:        int32(limit),
		Offset:       int32(offset),
	})
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return []*domain.JournalEntry{}, nil
	}

	return r.withLines(ctx, rows)
}

// withLines loads the lines of all rows in one query.
func (r *EntryRepository) withLines(ctx context.Context, rows []generated.JournalEntry) ([]*domain.JournalEntry, error) {
	ids := make([]string, len(rows))
	entries := make([]*domain.JournalEntry, len(rows))
	byID := make(map[string]*domain.JournalEntry, len(rows))

	for i, row := range rows {
		ids[i] = row.ID
		entries[i] = rowToEntry(row)
		byID[row.ID] = entries[i]
	}

	lines, err := r.queries.ListJournalLinesByEntries(ctx, ids)
	if err != nil {
		return nil, err
	}

	for _, line := range lines {
		entry, ok := byID[line.EntryID]
		if !ok {
			continue
		}
		entry.Lines = append(entry.Lines, domain.JournalLine{
			AccountNumber: line.AccountNumber,
			Label:         line.Label,
			Debit:         numericToDecimal(line.Debit),
			Credit:        numericToDecimal(line.Credit),
		})
	}

	return entries, nil
}

func rowToEntry(row generated.JournalEntry) *domain.JournalEntry {
	return &domain.JournalEntry{
		ID:             row.ID,
		CompanyID:      row.CompanyID,
		FiscalYearID:   row.FiscalYearID,
		Date:           row.EntryDate.Time,
		PieceReference: row.PieceReference,
		Label:          row.Label,
		CreatedAt:      row.CreatedAt.Time,
	}
}
