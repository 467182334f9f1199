package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/bankrecon/internal/domain"
)

// AssociationUseCase persists label→account associations.
type AssociationUseCase struct {
	assocRepo AssociationRepository
	idGen     IDGenerator
	retrier   Retrier
	metrics   MetricsRecorder
	logger    zerolog.Logger
}

// NewAssociationUseCase creates a new AssociationUseCase.
func NewAssociationUseCase(
	assocRepo AssociationRepository,
	idGen IDGenerator,
	retrier Retrier,
	metrics MetricsRecorder,
	logger zerolog.Logger,
) *AssociationUseCase {
	if metrics == nil {
		metrics = NopRecorder{}
	}
	return &AssociationUseCase{
		assocRepo: assocRepo,
		idGen:     idGen,
		retrier:   retrier,
		metrics:   metrics,
		logger:    logger,
	}
}

// List returns all associations of a company.
func (uc *AssociationUseCase) List(ctx context.Context, companyID string) ([]*domain.AccountAssociation, error) {
	if companyID == "" {
		return nil, domain.ErrInvalidFiscalContext
	}
	return uc.assocRepo.FindByCompany(ctx, companyID)
}

// Upsert stores the association, replacing any existing one for the same
// company and label.
func (uc *AssociationUseCase) Upsert(ctx context.Context, write domain.AssociationWrite) (*domain.AccountAssociation, error) {
	if err := write.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	assoc := &domain.AccountAssociation{
		ID:            uc.idGen.Generate(),
		CompanyID:     write.CompanyID,
		Label:         write.Label,
		AccountNumber: write.AccountNumber,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	op := func() error {
		return uc.assocRepo.Upsert(ctx, assoc)
	}

	var err error
	if uc.retrier != nil {
		err = uc.retrier.Retry(ctx, op)
	} else {
		err = op()
	}
	if err != nil {
		uc.metrics.RecordAssociationWrite(WriteFailed)
		return nil, err
	}

	uc.metrics.RecordAssociationWrite(WriteSaved)
	return assoc, nil
}

// Delete removes an association.
func (uc *AssociationUseCase) Delete(ctx context.Context, companyID, id string) error {
	if companyID == "" {
		return domain.ErrInvalidFiscalContext
	}
	return uc.assocRepo.Delete(ctx, companyID, id)
}

// SaveAll upserts the distinct (label, account) pairs assigned to real
// records and returns how many were saved. A failed write is logged and
// skipped.
func (uc *AssociationUseCase) SaveAll(ctx context.Context, companyID string, records []domain.TransactionRecord) (int, error) {
	if companyID == "" {
		return 0, domain.ErrInvalidFiscalContext
	}

	type pair struct{ label, account string }
	seen := make(map[pair]struct{})
	saved := 0

	for _, r := range records {
		if r.Synthetic {
			continue
		}
		account, ok := r.Account.Number()
		if !ok {
			continue
		}

		p := pair{label: r.Label, account: account}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}

		if err := ctx.Err(); err != nil {
			return saved, err
		}

		_, err := uc.Upsert(ctx, domain.AssociationWrite{
			CompanyID:     companyID,
			Label:         r.Label,
			AccountNumber: account,
		})
		if err != nil {
			uc.logger.Warn().Err(err).
				Str("company_id", companyID).
				Str("label", r.Label).
				Str("account", account).
				Msg("failed to save association")
			continue
		}
		saved++
	}

	return saved, nil
}
