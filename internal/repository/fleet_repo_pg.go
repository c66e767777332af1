package repository

import (
	"context"
	"errors"

	"github.com/Domenick1991/transitops/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FleetRepository interface {
	Drivers(ctx context.Context) ([]domain.Driver, error)
	Vehicles(ctx context.Context) ([]domain.Vehicle, error)
	VehicleByID(ctx context.Context, id int64) (*domain.Vehicle, error)
}

type PGFleetRepository struct {
	db *pgxpool.Pool
}

func NewFleetRepository(db *pgxpool.Pool) FleetRepository {
	return &PGFleetRepository{db: db}
}

func (r *PGFleetRepository) Drivers(ctx context.Context) ([]domain.Driver, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, license_number, contact_info, created_at, updated_at FROM drivers ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	drivers := make([]domain.Driver, 0)
	for rows.Next() {
		var d domain.Driver
		if err := rows.Scan(&d.ID, &d.Name, &d.LicenseNumber, &d.ContactInfo, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		drivers = append(drivers, d)
	}
	return drivers, rows.Err()
}

func (r *PGFleetRepository) Vehicles(ctx context.Context) ([]domain.Vehicle, error) {
	rows, err := r.db.Query(ctx, `SELECT id, license_plate, capacity, status, created_at, updated_at FROM vehicles ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vehicles := make([]domain.Vehicle, 0)
	for rows.Next() {
		var v domain.Vehicle
		if err := rows.Scan(&v.ID, &v.LicensePlate, &v.Capacity, &v.Status, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

func (r *PGFleetRepository) VehicleByID(ctx context.Context, id int64) (*domain.Vehicle, error) {
	row := r.db.QueryRow(ctx, `SELECT id, license_plate, capacity, status, created_at, updated_at FROM vehicles WHERE id=$1`, id)
	var v domain.Vehicle
	if err := row.Scan(&v.ID, &v.LicensePlate, &v.Capacity, &v.Status, &v.CreatedAt, &v.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

var _ FleetRepository = (*PGFleetRepository)(nil)
