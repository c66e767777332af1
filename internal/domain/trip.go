package domain

import "time"

type SeatStatus string

const (
	SeatStatusAvailable SeatStatus = "available"
	// SeatStatusHeld is reserved for a future soft-lock flow; nothing
	// writes it yet.
	SeatStatusHeld SeatStatus = "held"
	SeatStatusSold SeatStatus = "sold"
)

type Trip struct {
	ID            int64
	RouteStart    string
	RouteEnd      string
	VehicleID     int64
	DriverID      int64
	DepartureTime time.Time
	ArrivalTime   *time.Time
	PriceCents    int64
	SeatCount     int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Seat is identified by (TripID, SeatNumber); the seat set is created
// together with the trip and never grows afterwards.
type Seat struct {
	TripID     int64
	SeatNumber int
	Status     SeatStatus
	UpdatedAt  time.Time
}
