package postgres

import (
	"context"

	"github.com/iho/bankrecon/internal/domain"
	"github.com/iho/bankrecon/internal/infrastructure/postgres/generated"
)

// AssociationRepository implements usecase.AssociationRepository.
type AssociationRepository struct {
	queries *generated.Queries
}

// NewAssociationRepository creates a new AssociationRepository.
func NewAssociationRepository(db generated.DBTX) *AssociationRepository {
	return &AssociationRepository{
		queries: generated.New(db),
	}
}

// FindByCompany returns all associations of a company ordered by label.
func (r *AssociationRepository) FindByCompany(ctx context.Context, companyID string) ([]*domain.AccountAssociation, error) {
	rows, err := r.queries.ListAssociationsByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	assocs := make([]*domain.AccountAssociation, 0, len(rows))
	for _, row := range rows {
		assocs = append(assocs, rowToAssociation(row))
	}

	return assocs, nil
}

// Upsert inserts the association or replaces the account of the existing
// one with the same label. assoc is updated with the stored ID and
// creation time.
func (r *AssociationRepository) Upsert(ctx context.Context, assoc *domain.AccountAssociation) error {
	row, err := r.queries.UpsertAssociation(ctx, generated.UpsertAssociationParams{
		ID:            assoc.ID,
		CompanyID:     assoc.CompanyID,
		Label:         assoc.Label,
		AccountNumber: assoc.AccountNumber,
		CreatedAt:     timeToPgTimestamptz(assoc.CreatedAt),
		UpdatedAt:     timeToPgTimestamptz(assoc.UpdatedAt),
	})
	if err != nil {
		return err
	}

	assoc.ID = row.ID
	assoc.CreatedAt = row.CreatedAt.Time

	return nil
}

// Delete removes an association of a company.
func (r *AssociationRepository) Delete(ctx context.Context, companyID, id string) error {
	n, err := r.queries.DeleteAssociation(ctx, generated.DeleteAssociationParams{
		CompanyID: companyID,
		ID:        id,
	})
	if err != nil {
		return err
	}

	if n == 0 {
		return domain.ErrAssociationNotFound
	}

	return nil
}

func rowToAssociation(row generated.AccountAssociation) *domain.AccountAssociation {
	return &domain.AccountAssociation{
		ID:            row.ID,
		CompanyID:     row.CompanyID,
		Label:         row.Label,
		AccountNumber: row.AccountNumber,
		CreatedAt:     row.CreatedAt.Time,
		UpdatedAt:     row.UpdatedAt.Time,
	}
}
