package domain

import "time"

type Passenger struct {
	ID          int64
	Name        string
	ContactInfo string
	CreatedAt   time.Time
}

type Ticket struct {
	ID          int64
	TripID      int64
	PassengerID int64
	SeatNumber  int
	PriceCents  int64
	CreatedAt   time.Time
}

// BookingResult is what a successful seat allocation returns: the
// passenger created for this booking and one ticket per sold seat.
type BookingResult struct {
	PassengerID int64
	Tickets     []Ticket
}
