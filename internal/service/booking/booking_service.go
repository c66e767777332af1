package booking

import (
	"context"
	"log"
	"strings"

	"github.com/Domenick1991/transitops/internal/domain"
	"github.com/Domenick1991/transitops/internal/kafka"
	"github.com/Domenick1991/transitops/internal/repository"
	"github.com/google/uuid"
)

type BookingUseCase interface {
	BookSeats(ctx context.Context, input BookSeatsInput) (*domain.BookingResult, error)
}

type Cache interface {
	InvalidateSeats(ctx context.Context, tripID int64) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type BookingService struct {
	bookings           repository.BookingRepository
	cache              Cache
	producer           Producer
	ticketsTopic       string
	notificationsTopic string
}

type BookSeatsInput struct {
	TripID      int64  `json:"trip_id"`
	SeatNumbers []int  `json:"seat_numbers"`
	Passenger   string `json:"passenger"`
	ContactInfo string `json:"contact_info"`
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	cache Cache,
	producer Producer,
	ticketsTopic string,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:     bookings,
		cache:        cache,
		producer:     producer,
		ticketsTopic: ticketsTopic,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// BookSeats validates the request, then runs the seat allocation
// transaction. A conflict surfaces as domain.ErrSeatConflict with no
// partial state; the caller re-fetches availability and retries.
func (s *BookingService) BookSeats(ctx context.Context, input BookSeatsInput) (*domain.BookingResult, error) {
	if input.TripID <= 0 {
		return nil, domain.ValidationError{Field: "trip_id", Msg: "must be positive"}
	}
	name := strings.TrimSpace(input.Passenger)
	if name == "" {
		return nil, domain.ValidationError{Field: "passenger", Msg: "name is required"}
	}
	seats := dedupeSeats(input.SeatNumbers)
	if len(seats) == 0 {
		return nil, domain.ValidationError{Field: "seat_numbers", Msg: "at least one seat is required"}
	}
	for _, n := range seats {
		if n <= 0 {
			return nil, domain.ValidationError{Field: "seat_numbers", Msg: "seat numbers must be positive"}
		}
	}

	passenger := &domain.Passenger{Name: name, ContactInfo: strings.TrimSpace(input.ContactInfo)}
	result, err := s.bookings.BookSeats(ctx, input.TripID, seats, passenger)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.InvalidateSeats(ctx, input.TripID); err != nil {
			log.Printf("invalidate seat cache for trip %d: %v", input.TripID, err)
		}
	}

	s.publish(ctx, kafka.TicketEvent{
		EventID:     uuid.NewString(),
		Type:        "ticket_issued",
		TripID:      input.TripID,
		PassengerID: result.PassengerID,
		SeatNumbers: seats,
		ContactInfo: passenger.ContactInfo,
	})

	return result, nil
}

func (s *BookingService) publish(ctx context.Context, event kafka.TicketEvent) {
	if s.producer == nil {
		return
	}
	for _, topic := range []string{s.ticketsTopic, s.notificationsTopic} {
		if topic == "" {
			continue
		}
		if err := s.producer.Publish(ctx, topic, event.EventID, event); err != nil {
			log.Printf("publish %s to %s: %v", event.Type, topic, err)
		}
	}
}

// dedupeSeats drops repeated seat numbers keeping first occurrence
// order, so the guarded update count lines up with the request.
func dedupeSeats(nums []int) []int {
	seen := make(map[int]struct{}, len(nums))
	out := make([]int, 0, len(nums))
	for _, n := range nums {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

var _ BookingUseCase = (*BookingService)(nil)
