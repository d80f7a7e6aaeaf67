package trips

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/zvrva/busstation/internal/domain"
	"github.com/zvrva/busstation/internal/repository"
)

type TripUseCase interface {
	List(ctx context.Context) ([]domain.TripSummary, error)
	Get(ctx context.Context, id int64) (*domain.TripDetail, error)
	Create(ctx context.Context, trip *domain.Trip) error
	Update(ctx context.Context, trip *domain.Trip) error
	Delete(ctx context.Context, id int64) error
	Availability(ctx context.Context, tripID int64) (int, error)
	AvailabilityForTrips(ctx context.Context, tripIDs []int64) (map[int64]int, error)
	TakenSeats(ctx context.Context, tripID int64) ([]int, error)
}

type Cache interface {
	GetTrips(ctx context.Context) ([]domain.TripSummary, error)
	SetTrips(ctx context.Context, trips []domain.TripSummary) error
	InvalidateTrips(ctx context.Context) error
	InvalidateTripCapacity(ctx context.Context, tripID int64) error
}

type TripService struct {
	trips  repository.TripRepository
	ledger repository.SeatLedger
	cache  Cache
	log    *logrus.Logger
}

func NewTripService(trips repository.TripRepository, ledger repository.SeatLedger, cache Cache, log *logrus.Logger) *TripService {
	return &TripService{trips: trips, ledger: ledger, cache: cache, log: log}
}

func (s *TripService) List(ctx context.Context) ([]domain.TripSummary, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetTrips(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	trips, err := s.trips.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetTrips(ctx, trips)
	}
	return trips, nil
}

func (s *TripService) Get(ctx context.Context, id int64) (*domain.TripDetail, error) {
	detail, err := s.trips.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}

	detail.TakenSeats, err = s.ledger.TakenSeats(ctx, id)
	if err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *TripService) Create(ctx context.Context, trip *domain.Trip) error {
	if err := s.trips.Create(ctx, trip); err != nil {
		return err
	}
	s.invalidate(ctx, trip.ID)
	return nil
}

func (s *TripService) Update(ctx context.Context, trip *domain.Trip) error {
	if err := s.trips.Update(ctx, trip); err != nil {
		return err
	}
	s.invalidate(ctx, trip.ID)
	return nil
}

func (s *TripService) Delete(ctx context.Context, id int64) error {
	if err := s.trips.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

// Availability reports remaining seats for one trip. A negative result would
// mean the ledger holds more tickets than the bus has seats; that is a
// constraint bug, so it is logged and surfaced instead of clamped.
func (s *TripService) Availability(ctx context.Context, tripID int64) (int, error) {
	capacity, err := s.trips.BusCapacity(ctx, tripID)
	if err != nil {
		return 0, err
	}
	taken, err := s.ledger.CountTaken(ctx, tripID)
	if err != nil {
		return 0, err
	}

	available, err := domain.Availability(capacity, taken)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"trip_id":  tripID,
			"capacity": capacity,
			"taken":    taken,
		}).Error("availability invariant violated")
		return 0, fmt.Errorf("trip %d: %w", tripID, err)
	}
	return available, nil
}

// AvailabilityForTrips computes remaining seats for many trips with two
// aggregate queries, not one round trip per trip. Unknown trip ids are
// absent from the result.
func (s *TripService) AvailabilityForTrips(ctx context.Context, tripIDs []int64) (map[int64]int, error) {
	capacities, err := s.trips.CapacityForTrips(ctx, tripIDs)
	if err != nil {
		return nil, err
	}
	counts, err := s.ledger.CountTakenForTrips(ctx, tripIDs)
	if err != nil {
		return nil, err
	}

	availability := make(map[int64]int, len(capacities))
	for tripID, capacity := range capacities {
		available, err := domain.Availability(capacity, counts[tripID])
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"trip_id":  tripID,
				"capacity": capacity,
				"taken":    counts[tripID],
			}).Error("availability invariant violated")
			return nil, fmt.Errorf("trip %d: %w", tripID, err)
		}
		availability[tripID] = available
	}
	return availability, nil
}

func (s *TripService) TakenSeats(ctx context.Context, tripID int64) ([]int, error) {
	if _, err := s.trips.GetByID(ctx, tripID); err != nil {
		return nil, err
	}
	return s.ledger.TakenSeats(ctx, tripID)
}

func (s *TripService) invalidate(ctx context.Context, tripID int64) {
	if s.cache == nil {
		return
	}
	_ = s.cache.InvalidateTrips(ctx)
	_ = s.cache.InvalidateTripCapacity(ctx, tripID)
}

var _ TripUseCase = (*TripService)(nil)
