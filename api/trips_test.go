package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/zvrva/busstation/internal/domain"
)

// MockTripUseCase is a mock implementation of trips.TripUseCase
type MockTripUseCase struct {
	mock.Mock
}

func (m *MockTripUseCase) List(ctx context.Context) ([]domain.TripSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TripSummary), args.Error(1)
}

func (m *MockTripUseCase) Get(ctx context.Context, id int64) (*domain.TripDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TripDetail), args.Error(1)
}

func (m *MockTripUseCase) Create(ctx context.Context, trip *domain.Trip) error {
	args := m.Called(ctx, trip)
	return args.Error(0)
}

func (m *MockTripUseCase) Update(ctx context.Context, trip *domain.Trip) error {
	args := m.Called(ctx, trip)
	return args.Error(0)
}

func (m *MockTripUseCase) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTripUseCase) Availability(ctx context.Context, tripID int64) (int, error) {
	args := m.Called(ctx, tripID)
	return args.Int(0), args.Error(1)
}

func (m *MockTripUseCase) AvailabilityForTrips(ctx context.Context, tripIDs []int64) (map[int64]int, error) {
	args := m.Called(ctx, tripIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]int), args.Error(1)
}

func (m *MockTripUseCase) TakenSeats(ctx context.Context, tripID int64) ([]int, error) {
	args := m.Called(ctx, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}

func TestTripHandler_list(t *testing.T) {
	mockService := &MockTripUseCase{}
	handler := NewTripHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/trips", nil)

	summaries := []domain.TripSummary{
		{ID: 1, Source: "Moscow", Destination: "Kazan", BusNumSeats: 40, TicketsAvailable: 38},
	}
	mockService.On("List", c.Request.Context()).Return(summaries, nil)

	handler.list(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response []domain.TripSummary
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Len(t, response, 1)
	assert.Equal(t, 38, response[0].TicketsAvailable)

	mockService.AssertExpectations(t)
}

func TestTripHandler_get(t *testing.T) {
	mockService := &MockTripUseCase{}
	handler := NewTripHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "7"}}
	c.Request = httptest.NewRequest("GET", "/trips/7", nil)

	detail := &domain.TripDetail{
		Trip:       domain.Trip{ID: 7, Source: "Moscow", Destination: "Kazan"},
		Bus:        domain.Bus{ID: 2, NumSeats: 40},
		TakenSeats: []int{2, 5},
	}
	mockService.On("Get", c.Request.Context(), int64(7)).Return(detail, nil)

	handler.get(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response domain.TripDetail
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, []int{2, 5}, response.TakenSeats)
}

func TestTripHandler_get_notFound(t *testing.T) {
	mockService := &MockTripUseCase{}
	handler := NewTripHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "99"}}
	c.Request = httptest.NewRequest("GET", "/trips/99", nil)

	mockService.On("Get", c.Request.Context(), int64(99)).Return(nil, domain.ErrTripNotFound)

	handler.get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTripHandler_availability(t *testing.T) {
	mockService := &MockTripUseCase{}
	handler := NewTripHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "7"}}
	c.Request = httptest.NewRequest("GET", "/trips/7/availability", nil)

	mockService.On("Availability", c.Request.Context(), int64(7)).Return(38, nil)

	handler.availability(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"trip_id": 7, "tickets_available": 38}`, w.Body.String())
}

func TestTripHandler_bulkAvailability(t *testing.T) {
	mockService := &MockTripUseCase{}
	handler := NewTripHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/trips/availability?ids=1,2", nil)

	mockService.On("AvailabilityForTrips", c.Request.Context(), []int64{1, 2}).
		Return(map[int64]int{1: 35, 2: 30}, nil)

	handler.bulkAvailability(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"1": 35, "2": 30}`, w.Body.String())
}

func TestTripHandler_bulkAvailability_invalidIDs(t *testing.T) {
	mockService := &MockTripUseCase{}
	handler := NewTripHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/trips/availability?ids=1,abc", nil)

	handler.bulkAvailability(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "AvailabilityForTrips")
}

func TestTripHandler_takenSeats(t *testing.T) {
	mockService := &MockTripUseCase{}
	handler := NewTripHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "7"}}
	c.Request = httptest.NewRequest("GET", "/trips/7/seats", nil)

	mockService.On("TakenSeats", c.Request.Context(), int64(7)).Return([]int{2, 5, 9}, nil)

	handler.takenSeats(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"trip_id": 7, "taken_seats": [2, 5, 9]}`, w.Body.String())
}

func TestTripHandler_create(t *testing.T) {
	mockService := &MockTripUseCase{}
	handler := NewTripHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	departure := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	c.Request = newOrderRequest("POST", "/trips", tripRequest{
		Source:      "Moscow",
		Destination: "Kazan",
		Departure:   departure,
		BusID:       2,
	})

	mockService.On("Create", c.Request.Context(), mock.AnythingOfType("*domain.Trip")).
		Run(func(args mock.Arguments) {
			trip := args.Get(1).(*domain.Trip)
			trip.ID = 7
		}).
		Return(nil)

	handler.create(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response domain.Trip
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, int64(7), response.ID)
	assert.Equal(t, "Kazan", response.Destination)
}

func TestTripHandler_delete(t *testing.T) {
	mockService := &MockTripUseCase{}
	handler := NewTripHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "7"}}
	c.Request = httptest.NewRequest("DELETE", "/trips/7", nil)

	mockService.On("Delete", c.Request.Context(), int64(7)).Return(nil)

	handler.delete(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, w.Code)
}
