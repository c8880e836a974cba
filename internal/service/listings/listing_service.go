package listings

import (
	"context"

	"github.com/google/uuid"

	"github.com/kseleznev/stayfit/internal/domain"
	"github.com/kseleznev/stayfit/internal/repository"
)

type ListingUseCase interface {
	List(ctx context.Context) ([]domain.Listing, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Listing, error)
}

// Cache is the read cache consumed by the listing service; a nil cache
// disables caching.
type Cache interface {
	GetListings(ctx context.Context) ([]domain.Listing, error)
	SetListings(ctx context.Context, listings []domain.Listing) error
}

type ListingService struct {
	repo  repository.ListingRepository
	cache Cache
}

func NewListingService(repo repository.ListingRepository, cache Cache) *ListingService {
	return &ListingService{repo: repo, cache: cache}
}

func (s *ListingService) List(ctx context.Context) ([]domain.Listing, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetListings(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	listings, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetListings(ctx, listings)
	}
	return listings, nil
}

func (s *ListingService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Listing, error) {
	return s.repo.GetByID(ctx, id)
}

var _ ListingUseCase = (*ListingService)(nil)
