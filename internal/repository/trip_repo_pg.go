package repository

import (
	"context"
	"errors"

	"github.com/Domenick1991/transitops/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TripRepository interface {
	List(ctx context.Context) ([]domain.Trip, error)
	GetByID(ctx context.Context, id int64) (*domain.Trip, error)
	CreateWithSeats(ctx context.Context, trip *domain.Trip) error
	SeatsForTrip(ctx context.Context, tripID int64) ([]domain.Seat, error)
}

type PGTripRepository struct {
	db *pgxpool.Pool
}

func NewTripRepository(db *pgxpool.Pool) TripRepository {
	return &PGTripRepository{db: db}
}

const tripColumns = `id, route_start, route_end, vehicle_id, driver_id, departure_time, arrival_time, price_cents, seat_count, created_at, updated_at`

func scanTrip(row pgx.Row, t *domain.Trip) error {
	return row.Scan(&t.ID, &t.RouteStart, &t.RouteEnd, &t.VehicleID, &t.DriverID, &t.DepartureTime, &t.ArrivalTime, &t.PriceCents, &t.SeatCount, &t.CreatedAt, &t.UpdatedAt)
}

func (r *PGTripRepository) List(ctx context.Context) ([]domain.Trip, error) {
	rows, err := r.db.Query(ctx, `SELECT `+tripColumns+` FROM trips ORDER BY departure_time`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trips := make([]domain.Trip, 0)
	for rows.Next() {
		var t domain.Trip
		if err := scanTrip(rows, &t); err != nil {
			return nil, err
		}
		trips = append(trips, t)
	}
	return trips, rows.Err()
}

func (r *PGTripRepository) GetByID(ctx context.Context, id int64) (*domain.Trip, error) {
	row := r.db.QueryRow(ctx, `SELECT `+tripColumns+` FROM trips WHERE id=$1`, id)
	var t domain.Trip
	if err := scanTrip(row, &t); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// CreateWithSeats inserts the trip and its full seat set in one
// transaction. Seat count comes from the assigned vehicle's capacity
// and is fixed for the lifetime of the trip.
func (r *PGTripRepository) CreateWithSeats(ctx context.Context, trip *domain.Trip) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var capacity int
	if err := tx.QueryRow(ctx, `SELECT capacity FROM vehicles WHERE id=$1`, trip.VehicleID).Scan(&capacity); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}

	if err := tx.QueryRow(ctx, `INSERT INTO trips (route_start, route_end, vehicle_id, driver_id, departure_time, arrival_time, price_cents, seat_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`, trip.RouteStart, trip.RouteEnd, trip.VehicleID, trip.DriverID, trip.DepartureTime, trip.ArrivalTime, trip.PriceCents, capacity).
		Scan(&trip.ID, &trip.CreatedAt, &trip.UpdatedAt); err != nil {
		return err
	}
	trip.SeatCount = capacity

	batch := &pgx.Batch{}
	for n := 1; n <= capacity; n++ {
		batch.Queue(`INSERT INTO seats (trip_id, seat_number, status) VALUES ($1, $2, $3)`, trip.ID, n, domain.SeatStatusAvailable)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PGTripRepository) SeatsForTrip(ctx context.Context, tripID int64) ([]domain.Seat, error) {
	rows, err := r.db.Query(ctx, `SELECT trip_id, seat_number, status, updated_at FROM seats WHERE trip_id=$1 ORDER BY seat_number`, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := make([]domain.Seat, 0)
	for rows.Next() {
		var s domain.Seat
		if err := rows.Scan(&s.TripID, &s.SeatNumber, &s.Status, &s.UpdatedAt); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(seats) == 0 {
		// distinguish an unknown trip from a trip with no seats
		if _, err := r.GetByID(ctx, tripID); err != nil {
			return nil, err
		}
	}
	return seats, nil
}

var _ TripRepository = (*PGTripRepository)(nil)
