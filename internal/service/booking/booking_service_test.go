package booking

import (
	"context"
	"errors"
	"testing"

	"github.com/Domenick1991/transitops/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) BookSeats(ctx context.Context, tripID int64, seatNumbers []int, passenger *domain.Passenger) (*domain.BookingResult, error) {
	args := m.Called(ctx, tripID, seatNumbers, passenger)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingResult), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) InvalidateSeats(ctx context.Context, tripID int64) error {
	args := m.Called(ctx, tripID)
	return args.Error(0)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

func TestBookingService_BookSeats_Success(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	mockCache := &MockCache{}
	mockProducer := &MockProducer{}

	service := NewBookingService(mockRepo, mockCache, mockProducer, "tickets")

	ctx := context.Background()
	result := &domain.BookingResult{
		PassengerID: 42,
		Tickets: []domain.Ticket{
			{ID: 100, TripID: 7, PassengerID: 42, SeatNumber: 3},
			{ID: 101, TripID: 7, PassengerID: 42, SeatNumber: 4},
		},
	}

	mockRepo.On("BookSeats", ctx, int64(7), []int{3, 4}, mock.AnythingOfType("*domain.Passenger")).Return(result, nil).Once()
	mockCache.On("InvalidateSeats", ctx, int64(7)).Return(nil).Once()
	mockProducer.On("Publish", ctx, "tickets", mock.Anything, mock.Anything).Return(nil).Once()

	got, err := service.BookSeats(ctx, BookSeatsInput{
		TripID:      7,
		SeatNumbers: []int{3, 4},
		Passenger:   "Abdul Karim",
	})

	assert.NoError(t, err)
	assert.Equal(t, result, got)

	mockRepo.AssertExpectations(t)
	mockCache.AssertExpectations(t)
	mockProducer.AssertExpectations(t)
}

func TestBookingService_BookSeats_DedupesSeatNumbers(t *testing.T) {
	mockRepo := &MockBookingRepository{}

	service := NewBookingService(mockRepo, nil, nil, "")

	ctx := context.Background()
	result := &domain.BookingResult{PassengerID: 1, Tickets: []domain.Ticket{{ID: 1, SeatNumber: 3}, {ID: 2, SeatNumber: 4}}}

	// duplicates collapse before the repository sees the request
	mockRepo.On("BookSeats", ctx, int64(7), []int{3, 4}, mock.AnythingOfType("*domain.Passenger")).Return(result, nil).Once()

	got, err := service.BookSeats(ctx, BookSeatsInput{
		TripID:      7,
		SeatNumbers: []int{3, 4, 3, 4, 4},
		Passenger:   "Abdul Karim",
	})

	assert.NoError(t, err)
	assert.Equal(t, result, got)

	mockRepo.AssertExpectations(t)
}

func TestBookingService_BookSeats_EmptySeatList(t *testing.T) {
	mockRepo := &MockBookingRepository{}

	service := NewBookingService(mockRepo, nil, nil, "")

	_, err := service.BookSeats(context.Background(), BookSeatsInput{
		TripID:    7,
		Passenger: "Abdul Karim",
	})

	assert.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	mockRepo.AssertNotCalled(t, "BookSeats")
}

func TestBookingService_BookSeats_MissingPassengerName(t *testing.T) {
	mockRepo := &MockBookingRepository{}

	service := NewBookingService(mockRepo, nil, nil, "")

	_, err := service.BookSeats(context.Background(), BookSeatsInput{
		TripID:      7,
		SeatNumbers: []int{1},
		Passenger:   "   ",
	})

	assert.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	mockRepo.AssertNotCalled(t, "BookSeats")
}

func TestBookingService_BookSeats_NonPositiveSeatNumber(t *testing.T) {
	mockRepo := &MockBookingRepository{}

	service := NewBookingService(mockRepo, nil, nil, "")

	_, err := service.BookSeats(context.Background(), BookSeatsInput{
		TripID:      7,
		SeatNumbers: []int{1, 0},
		Passenger:   "Abdul Karim",
	})

	assert.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	mockRepo.AssertNotCalled(t, "BookSeats")
}

func TestBookingService_BookSeats_Conflict(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	mockCache := &MockCache{}
	mockProducer := &MockProducer{}

	service := NewBookingService(mockRepo, mockCache, mockProducer, "tickets")

	ctx := context.Background()
	mockRepo.On("BookSeats", ctx, int64(7), []int{4, 5}, mock.AnythingOfType("*domain.Passenger")).Return(nil, domain.ErrSeatConflict).Once()

	got, err := service.BookSeats(ctx, BookSeatsInput{
		TripID:      7,
		SeatNumbers: []int{4, 5},
		Passenger:   "Abdul Karim",
	})

	assert.Nil(t, got)
	assert.ErrorIs(t, err, domain.ErrSeatConflict)

	mockRepo.AssertExpectations(t)
	mockCache.AssertNotCalled(t, "InvalidateSeats")
	mockProducer.AssertNotCalled(t, "Publish")
}

func TestBookingService_BookSeats_PublishFailureDoesNotFailBooking(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	mockCache := &MockCache{}
	mockProducer := &MockProducer{}

	service := NewBookingService(mockRepo, mockCache, mockProducer, "tickets",
		WithNotificationsTopic("notifications"))

	ctx := context.Background()
	result := &domain.BookingResult{PassengerID: 42, Tickets: []domain.Ticket{{ID: 100, SeatNumber: 3}}}

	mockRepo.On("BookSeats", ctx, int64(7), []int{3}, mock.AnythingOfType("*domain.Passenger")).Return(result, nil).Once()
	mockCache.On("InvalidateSeats", ctx, int64(7)).Return(nil).Once()
	mockProducer.On("Publish", ctx, "tickets", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()
	mockProducer.On("Publish", ctx, "notifications", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()

	got, err := service.BookSeats(ctx, BookSeatsInput{
		TripID:      7,
		SeatNumbers: []int{3},
		Passenger:   "Abdul Karim",
	})

	assert.NoError(t, err)
	assert.Equal(t, result, got)

	mockProducer.AssertExpectations(t)
}

func TestBookingService_BookSeats_NoCacheNoProducer(t *testing.T) {
	mockRepo := &MockBookingRepository{}

	service := NewBookingService(mockRepo, nil, nil, "")

	ctx := context.Background()
	result := &domain.BookingResult{PassengerID: 1, Tickets: []domain.Ticket{{ID: 1, SeatNumber: 9}}}

	mockRepo.On("BookSeats", ctx, int64(2), []int{9}, mock.AnythingOfType("*domain.Passenger")).Return(result, nil).Once()

	got, err := service.BookSeats(ctx, BookSeatsInput{
		TripID:      2,
		SeatNumbers: []int{9},
		Passenger:   "Monir Hossain",
	})

	assert.NoError(t, err)
	assert.Equal(t, result, got)

	mockRepo.AssertExpectations(t)
}
