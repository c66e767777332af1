package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Domenick1991/transitops/internal/domain"
	"github.com/Domenick1991/transitops/internal/service/trips"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockTripUseCase struct {
	mock.Mock
}

func (m *MockTripUseCase) List(ctx context.Context) ([]domain.Trip, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Trip), args.Error(1)
}

func (m *MockTripUseCase) GetByID(ctx context.Context, id int64) (*domain.Trip, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Trip), args.Error(1)
}

func (m *MockTripUseCase) Seats(ctx context.Context, tripID int64) ([]domain.Seat, error) {
	args := m.Called(ctx, tripID)
	return args.Get(0).([]domain.Seat), args.Error(1)
}

func (m *MockTripUseCase) Create(ctx context.Context, input trips.CreateTripInput) (*domain.Trip, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Trip), args.Error(1)
}

func TestTripHandler_list(t *testing.T) {
	mockService := &MockTripUseCase{}
	handler := NewTripHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("GET", "/trips", nil)

	catalog := []domain.Trip{
		{
			ID:            1,
			RouteStart:    "Mirpur 10",
			RouteEnd:      "Motijheel",
			DepartureTime: time.Date(2024, 6, 1, 7, 30, 0, 0, time.UTC),
			PriceCents:    6000,
			SeatCount:     40,
		},
	}

	mockService.On("List", c.Request.Context()).Return(catalog, nil)

	handler.list(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response []tripResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Len(t, response, 1)
	assert.Equal(t, "Mirpur 10", response[0].Route.Start)
	assert.Equal(t, 40, response[0].SeatCount)
}

func TestTripHandler_seats(t *testing.T) {
	mockService := &MockTripUseCase{}
	handler := NewTripHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "id", Value: "1"}}
	c.Request = httptest.NewRequest("GET", "/trips/1/seats", nil)

	seats := []domain.Seat{
		{TripID: 1, SeatNumber: 1, Status: domain.SeatStatusAvailable},
		{TripID: 1, SeatNumber: 2, Status: domain.SeatStatusSold},
	}

	mockService.On("Seats", c.Request.Context(), int64(1)).Return(seats, nil)

	handler.seats(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response []seatResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Len(t, response, 2)
	assert.Equal(t, "available", response[0].Status)
	assert.Equal(t, "sold", response[1].Status)
}

func TestTripHandler_create(t *testing.T) {
	mockService := &MockTripUseCase{}
	handler := NewTripHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(map[string]any{
		"routeStart":    "Mirpur 10",
		"routeEnd":      "Motijheel",
		"vehicleId":     2,
		"driverId":      3,
		"departureTime": "2024-06-01T07:30:00Z",
		"priceCents":    6000,
	})
	c.Request = httptest.NewRequest("POST", "/trips", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	created := &domain.Trip{
		ID:            7,
		RouteStart:    "Mirpur 10",
		RouteEnd:      "Motijheel",
		VehicleID:     2,
		DriverID:      3,
		DepartureTime: time.Date(2024, 6, 1, 7, 30, 0, 0, time.UTC),
		PriceCents:    6000,
		SeatCount:     40,
	}

	mockService.On("Create", c.Request.Context(), trips.CreateTripInput{
		RouteStart:    "Mirpur 10",
		RouteEnd:      "Motijheel",
		VehicleID:     2,
		DriverID:      3,
		DepartureTime: time.Date(2024, 6, 1, 7, 30, 0, 0, time.UTC),
		PriceCents:    6000,
	}).Return(created, nil)

	handler.create(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response tripResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, int64(7), response.ID)
	assert.Equal(t, 40, response.SeatCount)

	mockService.AssertExpectations(t)
}

func TestTripHandler_create_BadDeparture(t *testing.T) {
	mockService := &MockTripUseCase{}
	handler := NewTripHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(map[string]any{
		"routeStart":    "Mirpur 10",
		"routeEnd":      "Motijheel",
		"vehicleId":     2,
		"driverId":      3,
		"departureTime": "tomorrow morning",
	})
	c.Request = httptest.NewRequest("POST", "/trips", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Create")
}

func TestTripHandler_get_InvalidID(t *testing.T) {
	mockService := &MockTripUseCase{}
	handler := NewTripHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "id", Value: "abc"}}
	c.Request = httptest.NewRequest("GET", "/trips/abc", nil)

	handler.get(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "GetByID")
}
