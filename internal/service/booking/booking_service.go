package booking

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/zvrva/busstation/internal/domain"
	"github.com/zvrva/busstation/internal/kafka"
	"github.com/zvrva/busstation/internal/repository"
)

type BookingUseCase interface {
	PlaceOrder(ctx context.Context, userID int64, seats []domain.SeatRequest) (*domain.Order, error)
	ListOrders(ctx context.Context, userID int64, limit, offset int) ([]domain.Order, error)
}

type Cache interface {
	GetTripCapacity(ctx context.Context, tripID int64) (int, bool, error)
	SetTripCapacity(ctx context.Context, tripID int64, capacity int) error
	InvalidateTrips(ctx context.Context) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type BookingService struct {
	orders             repository.OrderRepository
	trips              repository.TripRepository
	cache              Cache
	producer           Producer
	orderTopic         string
	notificationsTopic string
	log                *logrus.Logger
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func NewBookingService(
	orders repository.OrderRepository,
	trips repository.TripRepository,
	cache Cache,
	producer Producer,
	orderTopic string,
	log *logrus.Logger,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		orders:     orders,
		trips:      trips,
		cache:      cache,
		producer:   producer,
		orderTopic: orderTopic,
		log:        log,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// PlaceOrder turns a rider's seat requests into one durable order, or
// nothing. Pre-checks (empty input, duplicates, seat range) fail fast before
// any write; the arbiter for concurrent riders is the ledger's unique
// constraint, which surfaces here as a SeatTakenError after a full rollback.
func (s *BookingService) PlaceOrder(ctx context.Context, userID int64, seats []domain.SeatRequest) (*domain.Order, error) {
	if len(seats) == 0 {
		return nil, domain.ErrEmptyOrder
	}

	seen := make(map[domain.SeatRequest]struct{}, len(seats))
	for _, req := range seats {
		if _, dup := seen[req]; dup {
			return nil, &domain.DuplicateSeatError{TripID: req.TripID, Seat: req.Seat}
		}
		seen[req] = struct{}{}
	}

	capacities := make(map[int64]int)
	for _, req := range seats {
		if _, ok := capacities[req.TripID]; ok {
			continue
		}
		capacity, err := s.busCapacity(ctx, req.TripID)
		if err != nil {
			return nil, err
		}
		capacities[req.TripID] = capacity
	}

	for _, req := range seats {
		if err := domain.ValidateSeat(req.Seat, capacities[req.TripID]); err != nil {
			return nil, err
		}
	}

	order := &domain.Order{
		Reference: uuid.NewString(),
		UserID:    userID,
		Tickets:   make([]domain.Ticket, 0, len(seats)),
	}
	for _, req := range seats {
		order.Tickets = append(order.Tickets, domain.Ticket{Seat: req.Seat, TripID: req.TripID})
	}
	sort.Slice(order.Tickets, func(i, j int) bool {
		a, b := order.Tickets[i], order.Tickets[j]
		if a.TripID != b.TripID {
			return a.TripID < b.TripID
		}
		return a.Seat < b.Seat
	})

	if err := s.orders.CreateWithTickets(ctx, order); err != nil {
		return nil, err
	}

	if err := s.publish(ctx, "order_created", order); err != nil {
		s.log.WithError(err).WithField("reference", order.Reference).Warn("failed to publish order event")
	}
	if s.cache != nil {
		_ = s.cache.InvalidateTrips(ctx)
	}
	return order, nil
}

func (s *BookingService) ListOrders(ctx context.Context, userID int64, limit, offset int) ([]domain.Order, error) {
	return s.orders.ListByUser(ctx, userID, limit, offset)
}

// busCapacity is the capacity-source read with a cache fast path. The
// pre-check it feeds is a fail-fast convenience, so a briefly stale value
// cannot corrupt the ledger.
func (s *BookingService) busCapacity(ctx context.Context, tripID int64) (int, error) {
	if s.cache != nil {
		if capacity, ok, err := s.cache.GetTripCapacity(ctx, tripID); err == nil && ok {
			return capacity, nil
		}
	}

	capacity, err := s.trips.BusCapacity(ctx, tripID)
	if err != nil {
		return 0, err
	}
	if s.cache != nil {
		_ = s.cache.SetTripCapacity(ctx, tripID, capacity)
	}
	return capacity, nil
}

func (s *BookingService) publish(ctx context.Context, eventType string, order *domain.Order) error {
	if s.producer == nil || s.orderTopic == "" {
		return nil
	}

	event := kafka.OrderEvent{
		Type:      eventType,
		Reference: order.Reference,
		OrderID:   order.ID,
		UserID:    order.UserID,
		CreatedAt: order.CreatedAt,
	}
	for _, t := range order.Tickets {
		event.Tickets = append(event.Tickets, kafka.TicketRef{TripID: t.TripID, Seat: t.Seat})
	}

	if err := s.producer.Publish(ctx, s.orderTopic, order.Reference, event); err != nil {
		return err
	}
	if s.notificationsTopic != "" {
		return s.producer.Publish(ctx, s.notificationsTopic, order.Reference, event)
	}
	return nil
}

var _ BookingUseCase = (*BookingService)(nil)
