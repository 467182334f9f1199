package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/bankrecon/internal/domain"
	"github.com/iho/bankrecon/internal/usecase"
)

// CacheRecorder observes cache lookups.
type CacheRecorder interface {
	RecordCacheLookup(hit bool)
}

// CachedAssociationRepository caches a company's associations in front of
// another AssociationRepository. Writes go to the underlying repository and
// invalidate the company's entry.
type CachedAssociationRepository struct {
	next     usecase.AssociationRepository
	cache    usecase.Cache
	ttl      time.Duration
	recorder CacheRecorder
	logger   zerolog.Logger
}

// NewCachedAssociationRepository creates a new CachedAssociationRepository.
// recorder may be nil.
func NewCachedAssociationRepository(
	next usecase.AssociationRepository,
	cache usecase.Cache,
	ttl time.Duration,
	recorder CacheRecorder,
	logger zerolog.Logger,
) *CachedAssociationRepository {
	return &CachedAssociationRepository{
		next:     next,
		cache:    cache,
		ttl:      ttl,
		recorder: recorder,
		logger:   logger,
	}
}

type cachedAssociation struct {
	ID            string    `json:"id"`
	Label         string    `json:"label"`
	AccountNumber string    `json:"account_number"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func associationsKey(companyID string) string {
	return "associations:" + companyID
}

// FindByCompany serves from the cache when possible. Cache failures fall
// through to the underlying repository.
func (r *CachedAssociationRepository) FindByCompany(ctx context.Context, companyID string) ([]*domain.AccountAssociation, error) {
	key := associationsKey(companyID)

	data, err := r.cache.Get(ctx, key)
	switch {
	case err == nil:
		assocs, decodeErr := decodeAssociations(companyID, data)
		if decodeErr == nil {
			r.observe(true)
			return assocs, nil
		}
		r.logger.Warn().Err(decodeErr).Str("company_id", companyID).Msg("discarding corrupt association cache entry")
	case !errors.Is(err, usecase.ErrCacheMiss):
		r.logger.Warn().Err(err).Str("company_id", companyID).Msg("association cache read failed")
	}
	r.observe(false)

	assocs, err := r.next.FindByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	if data, err := encodeAssociations(assocs); err == nil {
		if err := r.cache.Set(ctx, key, data, r.ttl); err != nil {
			r.logger.Warn().Err(err).Str("company_id", companyID).Msg("association cache write failed")
		}
	}

	return assocs, nil
}

// Upsert writes through and invalidates the company's cache entry.
func (r *CachedAssociationRepository) Upsert(ctx context.Context, assoc *domain.AccountAssociation) error {
	if err := r.next.Upsert(ctx, assoc); err != nil {
		return err
	}
	r.invalidate(ctx, assoc.CompanyID)
	return nil
}

// Delete removes the association and invalidates the company's cache entry.
func (r *CachedAssociationRepository) Delete(ctx context.Context, companyID, id string) error {
	if err := r.next.Delete(ctx, companyID, id); err != nil {
		return err
	}
	r.invalidate(ctx, companyID)
	return nil
}

func (r *CachedAssociationRepository) invalidate(ctx context.Context, companyID string) {
	if err := r.cache.Delete(ctx, associationsKey(companyID)); err != nil {
		r.logger.Warn().Err(err).Str("company_id", companyID).Msg("association cache invalidation failed")
	}
}

func (r *CachedAssociationRepository) observe(hit bool) {
	if r.recorder != nil {
		r.recorder.RecordCacheLookup(hit)
	}
}

func encodeAssociations(assocs []*domain.AccountAssociation) ([]byte, error) {
	items := make([]cachedAssociation, len(assocs))
	for i, a := range assocs {
		items[i] = cachedAssociation{
			ID:            a.ID,
			Label:         a.Label,
			AccountNumber: a.AccountNumber,
			CreatedAt:     a.CreatedAt,
			UpdatedAt:     a.UpdatedAt,
		}
	}
	return json.Marshal(items)
}

func decodeAssociations(companyID string, data []byte) ([]*domain.AccountAssociation, error) {
	var items []cachedAssociation
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}

	assocs := make([]*domain.AccountAssociation, len(items))
	for i, it := range items {
		assocs[i] = &domain.AccountAssociation{
			ID:            it.ID,
			CompanyID:     companyID,
			Label:         it.Label,
			AccountNumber: it.AccountNumber,
			CreatedAt:     it.CreatedAt,
			UpdatedAt:     it.UpdatedAt,
		}
	}
	return assocs, nil
}
