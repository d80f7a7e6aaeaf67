package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/zvrva/busstation/internal/domain"
)

// Mock structures

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) CreateWithTickets(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Order, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

type MockTripRepository struct {
	mock.Mock
}

func (m *MockTripRepository) List(ctx context.Context) ([]domain.TripSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TripSummary), args.Error(1)
}

func (m *MockTripRepository) GetByID(ctx context.Context, id int64) (*domain.Trip, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Trip), args.Error(1)
}

func (m *MockTripRepository) GetDetail(ctx context.Context, id int64) (*domain.TripDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TripDetail), args.Error(1)
}

func (m *MockTripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	args := m.Called(ctx, trip)
	return args.Error(0)
}

func (m *MockTripRepository) Update(ctx context.Context, trip *domain.Trip) error {
	args := m.Called(ctx, trip)
	return args.Error(0)
}

func (m *MockTripRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTripRepository) BusCapacity(ctx context.Context, tripID int64) (int, error) {
	args := m.Called(ctx, tripID)
	return args.Int(0), args.Error(1)
}

func (m *MockTripRepository) CapacityForTrips(ctx context.Context, tripIDs []int64) (map[int64]int, error) {
	args := m.Called(ctx, tripIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]int), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetTripCapacity(ctx context.Context, tripID int64) (int, bool, error) {
	args := m.Called(ctx, tripID)
	return args.Int(0), args.Bool(1), args.Error(2)
}

func (m *MockCache) SetTripCapacity(ctx context.Context, tripID int64, capacity int) error {
	args := m.Called(ctx, tripID, capacity)
	return args.Error(0)
}

func (m *MockCache) InvalidateTrips(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

func newTestService(orders *MockOrderRepository, trips *MockTripRepository, cache *MockCache, producer *MockProducer) *BookingService {
	return &BookingService{
		orders:     orders,
		trips:      trips,
		cache:      cache,
		producer:   producer,
		orderTopic: "orders",
		log:        logrus.New(),
	}
}

func TestBookingService_PlaceOrder_Success(t *testing.T) {
	mockOrders := &MockOrderRepository{}
	mockTrips := &MockTripRepository{}
	mockCache := &MockCache{}
	mockProducer := &MockProducer{}
	service := newTestService(mockOrders, mockTrips, mockCache, mockProducer)

	ctx := context.Background()
	seats := []domain.SeatRequest{
		{TripID: 7, Seat: 12},
		{TripID: 7, Seat: 3},
	}

	mockCache.On("GetTripCapacity", ctx, int64(7)).Return(0, false, nil).Once()
	mockTrips.On("BusCapacity", ctx, int64(7)).Return(40, nil).Once()
	mockCache.On("SetTripCapacity", ctx, int64(7), 40).Return(nil).Once()
	mockOrders.On("CreateWithTickets", ctx, mock.AnythingOfType("*domain.Order")).
		Run(func(args mock.Arguments) {
			order := args.Get(1).(*domain.Order)
			order.ID = 100
			order.CreatedAt = time.Now()
		}).
		Return(nil).Once()
	mockProducer.On("Publish", ctx, "orders", mock.AnythingOfType("string"), mock.Anything).Return(nil).Once()
	mockCache.On("InvalidateTrips", ctx).Return(nil).Once()

	order, err := service.PlaceOrder(ctx, 42, seats)

	assert.NoError(t, err)
	assert.NotNil(t, order)
	assert.Equal(t, int64(100), order.ID)
	assert.Equal(t, int64(42), order.UserID)
	assert.NotEmpty(t, order.Reference)
	// tickets come back sorted by seat within the trip
	assert.Len(t, order.Tickets, 2)
	assert.Equal(t, 3, order.Tickets[0].Seat)
	assert.Equal(t, 12, order.Tickets[1].Seat)

	mockOrders.AssertExpectations(t)
	mockTrips.AssertExpectations(t)
	mockCache.AssertExpectations(t)
	mockProducer.AssertExpectations(t)
}

func TestBookingService_PlaceOrder_Empty(t *testing.T) {
	mockOrders := &MockOrderRepository{}
	service := newTestService(mockOrders, &MockTripRepository{}, &MockCache{}, &MockProducer{})

	order, err := service.PlaceOrder(context.Background(), 42, nil)

	assert.Nil(t, order)
	assert.ErrorIs(t, err, domain.ErrEmptyOrder)
	mockOrders.AssertNotCalled(t, "CreateWithTickets")
}

func TestBookingService_PlaceOrder_DuplicateSeat(t *testing.T) {
	mockOrders := &MockOrderRepository{}
	service := newTestService(mockOrders, &MockTripRepository{}, &MockCache{}, &MockProducer{})

	seats := []domain.SeatRequest{
		{TripID: 7, Seat: 3},
		{TripID: 7, Seat: 3},
	}

	order, err := service.PlaceOrder(context.Background(), 42, seats)

	assert.Nil(t, order)
	var dupErr *domain.DuplicateSeatError
	assert.ErrorAs(t, err, &dupErr)
	assert.Equal(t, int64(7), dupErr.TripID)
	assert.Equal(t, 3, dupErr.Seat)
	mockOrders.AssertNotCalled(t, "CreateWithTickets")
}

func TestBookingService_PlaceOrder_SeatOutOfRange(t *testing.T) {
	testCases := []struct {
		name string
		seat int
	}{
		{name: "seat zero", seat: 0},
		{name: "seat past capacity", seat: 41},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockOrders := &MockOrderRepository{}
			mockCache := &MockCache{}
			service := newTestService(mockOrders, &MockTripRepository{}, mockCache, &MockProducer{})

			ctx := context.Background()
			mockCache.On("GetTripCapacity", ctx, int64(7)).Return(40, true, nil).Once()

			order, err := service.PlaceOrder(ctx, 42, []domain.SeatRequest{{TripID: 7, Seat: tc.seat}})

			assert.Nil(t, order)
			var rangeErr *domain.SeatOutOfRangeError
			assert.ErrorAs(t, err, &rangeErr)
			assert.Equal(t, 40, rangeErr.Capacity)
			mockOrders.AssertNotCalled(t, "CreateWithTickets")
		})
	}
}

func TestBookingService_PlaceOrder_TripNotFound(t *testing.T) {
	mockOrders := &MockOrderRepository{}
	mockTrips := &MockTripRepository{}
	mockCache := &MockCache{}
	service := newTestService(mockOrders, mockTrips, mockCache, &MockProducer{})

	ctx := context.Background()
	mockCache.On("GetTripCapacity", ctx, int64(99)).Return(0, false, nil).Once()
	mockTrips.On("BusCapacity", ctx, int64(99)).Return(0, domain.ErrTripNotFound).Once()

	order, err := service.PlaceOrder(ctx, 42, []domain.SeatRequest{{TripID: 99, Seat: 1}})

	assert.Nil(t, order)
	assert.ErrorIs(t, err, domain.ErrTripNotFound)
	mockOrders.AssertNotCalled(t, "CreateWithTickets")
}

func TestBookingService_PlaceOrder_SeatTaken(t *testing.T) {
	mockOrders := &MockOrderRepository{}
	mockTrips := &MockTripRepository{}
	mockCache := &MockCache{}
	mockProducer := &MockProducer{}
	service := newTestService(mockOrders, mockTrips, mockCache, mockProducer)

	ctx := context.Background()
	mockCache.On("GetTripCapacity", ctx, int64(7)).Return(40, true, nil).Once()
	mockOrders.On("CreateWithTickets", ctx, mock.Anything).
		Return(&domain.SeatTakenError{TripID: 7, Seat: 3}).Once()

	order, err := service.PlaceOrder(ctx, 42, []domain.SeatRequest{{TripID: 7, Seat: 3}})

	assert.Nil(t, order)
	var takenErr *domain.SeatTakenError
	assert.ErrorAs(t, err, &takenErr)
	assert.Equal(t, 3, takenErr.Seat)

	mockProducer.AssertNotCalled(t, "Publish")
	mockCache.AssertNotCalled(t, "InvalidateTrips")
}

func TestBookingService_PlaceOrder_PublishFailureTolerated(t *testing.T) {
	mockOrders := &MockOrderRepository{}
	mockTrips := &MockTripRepository{}
	mockCache := &MockCache{}
	mockProducer := &MockProducer{}
	service := newTestService(mockOrders, mockTrips, mockCache, mockProducer)

	ctx := context.Background()
	mockCache.On("GetTripCapacity", ctx, int64(7)).Return(40, true, nil).Once()
	mockOrders.On("CreateWithTickets", ctx, mock.Anything).Return(nil).Once()
	mockProducer.On("Publish", ctx, "orders", mock.Anything, mock.Anything).
		Return(errors.New("broker unavailable")).Once()
	mockCache.On("InvalidateTrips", ctx).Return(nil).Once()

	order, err := service.PlaceOrder(ctx, 42, []domain.SeatRequest{{TripID: 7, Seat: 3}})

	assert.NoError(t, err)
	assert.NotNil(t, order)
	mockProducer.AssertExpectations(t)
}

func TestBookingService_PlaceOrder_NoCache(t *testing.T) {
	mockOrders := &MockOrderRepository{}
	mockTrips := &MockTripRepository{}
	service := &BookingService{
		orders:     mockOrders,
		trips:      mockTrips,
		cache:      nil,
		orderTopic: "orders",
		log:        logrus.New(),
	}

	ctx := context.Background()
	mockTrips.On("BusCapacity", ctx, int64(7)).Return(40, nil).Once()
	mockOrders.On("CreateWithTickets", ctx, mock.Anything).Return(nil).Once()

	order, err := service.PlaceOrder(ctx, 42, []domain.SeatRequest{{TripID: 7, Seat: 3}})

	assert.NoError(t, err)
	assert.NotNil(t, order)
	mockTrips.AssertExpectations(t)
}

func TestBookingService_Publish_WithNotifications(t *testing.T) {
	mockProducer := &MockProducer{}
	service := &BookingService{
		producer:           mockProducer,
		orderTopic:         "orders",
		notificationsTopic: "order-notifications",
		log:                logrus.New(),
	}

	ctx := context.Background()
	order := &domain.Order{Reference: "ref-1", UserID: 42}

	mockProducer.On("Publish", ctx, "orders", "ref-1", mock.Anything).Return(nil).Once()
	mockProducer.On("Publish", ctx, "order-notifications", "ref-1", mock.Anything).Return(nil).Once()

	err := service.publish(ctx, "order_created", order)
	assert.NoError(t, err)
	mockProducer.AssertExpectations(t)
}

func TestBookingService_Publish_NoProducer(t *testing.T) {
	service := &BookingService{log: logrus.New()}

	err := service.publish(context.Background(), "order_created", &domain.Order{Reference: "ref-1"})
	assert.NoError(t, err)
}

func TestBookingService_ListOrders(t *testing.T) {
	mockOrders := &MockOrderRepository{}
	service := newTestService(mockOrders, &MockTripRepository{}, &MockCache{}, &MockProducer{})

	ctx := context.Background()
	expected := []domain.Order{
		{ID: 2, Reference: "ref-2", UserID: 42},
		{ID: 1, Reference: "ref-1", UserID: 42},
	}
	mockOrders.On("ListByUser", ctx, int64(42), 3, 0).Return(expected, nil).Once()

	orders, err := service.ListOrders(ctx, 42, 3, 0)

	assert.NoError(t, err)
	assert.Equal(t, expected, orders)
	mockOrders.AssertExpectations(t)
}
