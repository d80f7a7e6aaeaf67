package buses

import (
	"context"

	"github.com/zvrva/busstation/internal/domain"
	"github.com/zvrva/busstation/internal/repository"
)

type BusUseCase interface {
	List(ctx context.Context, filter repository.BusFilter) ([]domain.Bus, error)
	Get(ctx context.Context, id int64) (*domain.Bus, error)
	Create(ctx context.Context, bus *domain.Bus, facilityIDs []int64) error
	Update(ctx context.Context, bus *domain.Bus, facilityIDs []int64) error
	Delete(ctx context.Context, id int64) error
	AttachImage(ctx context.Context, id int64, path string) error
}

type Cache interface {
	InvalidateTrips(ctx context.Context) error
}

type BusService struct {
	buses repository.BusRepository
	cache Cache
}

func NewBusService(buses repository.BusRepository, cache Cache) *BusService {
	return &BusService{buses: buses, cache: cache}
}

func (s *BusService) List(ctx context.Context, filter repository.BusFilter) ([]domain.Bus, error) {
	return s.buses.List(ctx, filter)
}

func (s *BusService) Get(ctx context.Context, id int64) (*domain.Bus, error) {
	return s.buses.GetByID(ctx, id)
}

func (s *BusService) Create(ctx context.Context, bus *domain.Bus, facilityIDs []int64) error {
	if bus.NumSeats < 1 {
		return domain.ErrInvalidSeatCount
	}
	return s.buses.Create(ctx, bus, facilityIDs)
}

// Update changes bus fields, including capacity, so the cached trip listing
// with its availability numbers is dropped.
func (s *BusService) Update(ctx context.Context, bus *domain.Bus, facilityIDs []int64) error {
	if bus.NumSeats < 1 {
		return domain.ErrInvalidSeatCount
	}
	if err := s.buses.Update(ctx, bus, facilityIDs); err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.InvalidateTrips(ctx)
	}
	return nil
}

func (s *BusService) Delete(ctx context.Context, id int64) error {
	if err := s.buses.Delete(ctx, id); err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.InvalidateTrips(ctx)
	}
	return nil
}

func (s *BusService) AttachImage(ctx context.Context, id int64, path string) error {
	return s.buses.SetImagePath(ctx, id, path)
}

var _ BusUseCase = (*BusService)(nil)
