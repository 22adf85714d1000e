package accommodations

import (
	"context"

	"github.com/Domenick1991/stayhub/internal/domain"
	"github.com/Domenick1991/stayhub/internal/repository"
)

type AccommodationUseCase interface {
	List(ctx context.Context) ([]domain.Accommodation, error)
	GetByID(ctx context.Context, id int64) (*domain.Accommodation, error)
}

type Cache interface {
	GetAccommodations(ctx context.Context) ([]domain.Accommodation, error)
	SetAccommodations(ctx context.Context, accommodations []domain.Accommodation) error
}

type AccommodationService struct {
	repo  repository.AccommodationRepository
	cache Cache
}

func NewAccommodationService(repo repository.AccommodationRepository, cache Cache) *AccommodationService {
	return &AccommodationService{repo: repo, cache: cache}
}

func (s *AccommodationService) List(ctx context.Context) ([]domain.Accommodation, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetAccommodations(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	accommodations, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetAccommodations(ctx, accommodations)
	}
	return accommodations, nil
}

func (s *AccommodationService) GetByID(ctx context.Context, id int64) (*domain.Accommodation, error) {
	return s.repo.GetByID(ctx, id)
}

var _ AccommodationUseCase = (*AccommodationService)(nil)
