package trips

import (
	"context"
	"strings"
	"time"

	"github.com/Domenick1991/transitops/internal/domain"
	"github.com/Domenick1991/transitops/internal/repository"
)

type TripUseCase interface {
	List(ctx context.Context) ([]domain.Trip, error)
	GetByID(ctx context.Context, id int64) (*domain.Trip, error)
	Seats(ctx context.Context, tripID int64) ([]domain.Seat, error)
	Create(ctx context.Context, input CreateTripInput) (*domain.Trip, error)
}

type CreateTripInput struct {
	RouteStart    string
	RouteEnd      string
	VehicleID     int64
	DriverID      int64
	DepartureTime time.Time
	ArrivalTime   *time.Time
	PriceCents    int64
}

type Cache interface {
	GetTrips(ctx context.Context) ([]domain.Trip, error)
	SetTrips(ctx context.Context, trips []domain.Trip) error
	GetSeats(ctx context.Context, tripID int64) ([]domain.Seat, error)
	SetSeats(ctx context.Context, tripID int64, seats []domain.Seat) error
}

type TripService struct {
	repo  repository.TripRepository
	cache Cache
}

func NewTripService(repo repository.TripRepository, cache Cache) *TripService {
	return &TripService{repo: repo, cache: cache}
}

func (s *TripService) List(ctx context.Context) ([]domain.Trip, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetTrips(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	trips, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetTrips(ctx, trips)
	}
	return trips, nil
}

func (s *TripService) GetByID(ctx context.Context, id int64) (*domain.Trip, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *TripService) Seats(ctx context.Context, tripID int64) ([]domain.Seat, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetSeats(ctx, tripID); err == nil && cached != nil {
			return cached, nil
		}
	}

	seats, err := s.repo.SeatsForTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetSeats(ctx, tripID, seats)
	}
	return seats, nil
}

// Create inserts a trip with its seat set generated from the assigned
// vehicle's capacity. The trips cache is left to expire on its TTL.
func (s *TripService) Create(ctx context.Context, input CreateTripInput) (*domain.Trip, error) {
	if strings.TrimSpace(input.RouteStart) == "" || strings.TrimSpace(input.RouteEnd) == "" {
		return nil, domain.ValidationError{Field: "route", Msg: "start and end are required"}
	}
	if input.VehicleID <= 0 {
		return nil, domain.ValidationError{Field: "vehicle_id", Msg: "must be positive"}
	}
	if input.DriverID <= 0 {
		return nil, domain.ValidationError{Field: "driver_id", Msg: "must be positive"}
	}
	if input.DepartureTime.IsZero() {
		return nil, domain.ValidationError{Field: "departure_time", Msg: "is required"}
	}

	trip := &domain.Trip{
		RouteStart:    strings.TrimSpace(input.RouteStart),
		RouteEnd:      strings.TrimSpace(input.RouteEnd),
		VehicleID:     input.VehicleID,
		DriverID:      input.DriverID,
		DepartureTime: input.DepartureTime,
		ArrivalTime:   input.ArrivalTime,
		PriceCents:    input.PriceCents,
	}
	if err := s.repo.CreateWithSeats(ctx, trip); err != nil {
		return nil, err
	}
	return trip, nil
}

var _ TripUseCase = (*TripService)(nil)
