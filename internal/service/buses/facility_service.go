package buses

import (
	"context"

	"github.com/zvrva/busstation/internal/domain"
	"github.com/zvrva/busstation/internal/repository"
)

type FacilityUseCase interface {
	List(ctx context.Context) ([]domain.Facility, error)
	Get(ctx context.Context, id int64) (*domain.Facility, error)
	Create(ctx context.Context, facility *domain.Facility) error
	Update(ctx context.Context, facility *domain.Facility) error
	Delete(ctx context.Context, id int64) error
}

type FacilityService struct {
	facilities repository.FacilityRepository
}

func NewFacilityService(facilities repository.FacilityRepository) *FacilityService {
	return &FacilityService{facilities: facilities}
}

func (s *FacilityService) List(ctx context.Context) ([]domain.Facility, error) {
	return s.facilities.List(ctx)
}

func (s *FacilityService) Get(ctx context.Context, id int64) (*domain.Facility, error) {
	return s.facilities.GetByID(ctx, id)
}

func (s *FacilityService) Create(ctx context.Context, facility *domain.Facility) error {
	return s.facilities.Create(ctx, facility)
}

func (s *FacilityService) Update(ctx context.Context, facility *domain.Facility) error {
	return s.facilities.Update(ctx, facility)
}

func (s *FacilityService) Delete(ctx context.Context, id int64) error {
	return s.facilities.Delete(ctx, id)
}

var _ FacilityUseCase = (*FacilityService)(nil)
