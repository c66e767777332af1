package repository

import (
	"context"
	"errors"

	"github.com/Domenick1991/transitops/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository interface {
	BookSeats(ctx context.Context, tripID int64, seatNumbers []int, passenger *domain.Passenger) (*domain.BookingResult, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

// BookSeats sells the requested seats to one passenger atomically.
//
// The availability SELECT is only a cheap pre-check: two transactions
// can both pass it before either commits. The UPDATE re-checks
// status='available' against current row state, so its affected-row
// count is the authoritative guard — any shortfall means another
// transaction won the race and the whole booking rolls back.
func (r *PGBookingRepository) BookSeats(ctx context.Context, tripID int64, seatNumbers []int, passenger *domain.Passenger) (*domain.BookingResult, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var priceCents int64
	if err := tx.QueryRow(ctx, `SELECT price_cents FROM trips WHERE id=$1`, tripID).Scan(&priceCents); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	nums := make([]int32, 0, len(seatNumbers))
	for _, n := range seatNumbers {
		nums = append(nums, int32(n))
	}

	rows, err := tx.Query(ctx, `SELECT seat_number FROM seats WHERE trip_id=$1 AND seat_number = ANY($2) AND status=$3`,
		tripID, nums, domain.SeatStatusAvailable)
	if err != nil {
		return nil, err
	}
	available := 0
	for rows.Next() {
		var n int
		if err := rows.Scan(&n); err != nil {
			rows.Close()
			return nil, err
		}
		available++
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if available != len(seatNumbers) {
		// some requested seat is already sold or does not exist
		return nil, domain.ErrSeatConflict
	}

	cmd, err := tx.Exec(ctx, `UPDATE seats SET status=$1, updated_at=now() WHERE trip_id=$2 AND seat_number = ANY($3) AND status=$4`,
		domain.SeatStatusSold, tripID, nums, domain.SeatStatusAvailable)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() != int64(len(seatNumbers)) {
		return nil, domain.ErrSeatConflict
	}

	if err := tx.QueryRow(ctx, `INSERT INTO passengers (name, contact_info) VALUES ($1, $2) RETURNING id, created_at`,
		passenger.Name, passenger.ContactInfo).Scan(&passenger.ID, &passenger.CreatedAt); err != nil {
		return nil, err
	}

	tickets := make([]domain.Ticket, 0, len(seatNumbers))
	for _, n := range seatNumbers {
		t := domain.Ticket{
			TripID:      tripID,
			PassengerID: passenger.ID,
			SeatNumber:  n,
			PriceCents:  priceCents,
		}
		if err := tx.QueryRow(ctx, `INSERT INTO tickets (trip_id, passenger_id, seat_number, price_cents)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at`, t.TripID, t.PassengerID, t.SeatNumber, t.PriceCents).
			Scan(&t.ID, &t.CreatedAt); err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &domain.BookingResult{PassengerID: passenger.ID, Tickets: tickets}, nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)
