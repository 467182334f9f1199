package usecase

import (
	"context"

	"github.com/iho/bankrecon/internal/domain"
)

// EntryUseCase reads journal entries back from the Ledger Store.
type EntryUseCase struct {
	entryRepo EntryRepository
}

// NewEntryUseCase creates a new EntryUseCase.
func NewEntryUseCase(entryRepo EntryRepository) *EntryUseCase {
	return &EntryUseCase{
		entryRepo: entryRepo,
	}
}

// ListEntriesInput represents input for listing entries.
type ListEntriesInput struct {
	FiscalYearID string
	Limit        int
	Offset       int
}

// ListEntries lists the entries of a fiscal year, oldest first.
func (uc *EntryUseCase) ListEntries(ctx context.Context, input ListEntriesInput) ([]*domain.JournalEntry, error) {
	if input.FiscalYearID == "" {
		return nil, domain.ErrInvalidFiscalContext
	}

	limit, offset, err := domain.ValidatePagination(input.Limit, input.Offset)
	if err != nil {
		return nil, err
	}

	return uc.entryRepo.ListByFiscalYear(ctx, input.FiscalYearID, limit, offset)
}

// GetEntry retrieves an entry with its lines.
func (uc *EntryUseCase) GetEntry(ctx context.Context, id string) (*domain.JournalEntry, error) {
	return uc.entryRepo.GetByID(ctx, id)
}
