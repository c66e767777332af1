package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/transitops/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AssignmentRepository interface {
	Assign(ctx context.Context, driverID, vehicleID int64, date time.Time, shift domain.Shift) (int64, domain.HistoryAction, error)
	Unassign(ctx context.Context, driverID int64, date time.Time, shift domain.Shift) (bool, error)
	ActiveForSlot(ctx context.Context, date time.Time, shift domain.Shift) ([]domain.Assignment, error)
	History(ctx context.Context, date *time.Time, shift *domain.Shift, limit int) ([]domain.AssignmentHistory, error)
}

type PGAssignmentRepository struct {
	db *pgxpool.Pool
}

func NewAssignmentRepository(db *pgxpool.Pool) AssignmentRepository {
	return &PGAssignmentRepository{db: db}
}

// errRaceLost signals that a concurrent transaction changed the slot
// between our read and our write; the whole protocol is re-run against
// the committed state.
var errRaceLost = errors.New("assignment race lost")

const assignAttempts = 3

const uniqueViolation = "23505"

const assignmentColumns = `id, driver_id, vehicle_id, assign_date, shift, assigned_at, unassigned_at`

func scanAssignment(row pgx.Row, a *domain.Assignment) error {
	return row.Scan(&a.ID, &a.DriverID, &a.VehicleID, &a.AssignDate, &a.Shift, &a.AssignedAt, &a.UnassignedAt)
}

// Assign binds (driverID, vehicleID) to the slot, displacing any prior
// active holder of either resource and recording every change in the
// history ledger within the same transaction. The returned action tells
// the caller whether anything was displaced.
func (r *PGAssignmentRepository) Assign(ctx context.Context, driverID, vehicleID int64, date time.Time, shift domain.Shift) (int64, domain.HistoryAction, error) {
	date = domain.NormalizeDate(date)

	var lastErr error
	for attempt := 0; attempt < assignAttempts; attempt++ {
		id, action, err := r.assignOnce(ctx, driverID, vehicleID, date, shift)
		if err == nil {
			return id, action, nil
		}
		if !errors.Is(err, errRaceLost) {
			return 0, "", err
		}
		lastErr = err
	}
	return 0, "", fmt.Errorf("assign driver %d: %w", driverID, lastErr)
}

func (r *PGAssignmentRepository) assignOnce(ctx context.Context, driverID, vehicleID int64, date time.Time, shift domain.Shift) (int64, domain.HistoryAction, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, "", err
	}
	defer tx.Rollback(ctx)

	forDriver, err := r.activeFor(ctx, tx, "driver_id", driverID, date, shift)
	if err != nil {
		return 0, "", err
	}
	forVehicle, err := r.activeFor(ctx, tx, "vehicle_id", vehicleID, date, shift)
	if err != nil {
		return 0, "", err
	}

	displaced := false
	if forDriver != nil {
		if err := r.close(ctx, tx, forDriver, "auto-unassign: driver reassigned"); err != nil {
			return 0, "", err
		}
		displaced = true
	}
	// if driver and vehicle were already paired, both lookups return
	// the same row and it is closed once
	if forVehicle != nil && (forDriver == nil || forVehicle.ID != forDriver.ID) {
		if err := r.close(ctx, tx, forVehicle, "auto-unassign: vehicle reassigned"); err != nil {
			return 0, "", err
		}
		displaced = true
	}

	var assignmentID int64
	err = tx.QueryRow(ctx, `INSERT INTO driver_shift_assignments (driver_id, vehicle_id, assign_date, shift)
		VALUES ($1, $2, $3, $4)
		RETURNING id`, driverID, vehicleID, date, shift).Scan(&assignmentID)
	if err != nil {
		// the partial unique indexes on active rows reject an insert
		// that raced an assignment our lookups could not yet see
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return 0, "", errRaceLost
		}
		return 0, "", err
	}

	action := domain.HistoryActionAssign
	if displaced {
		action = domain.HistoryActionReassign
	}
	var prevDriverID, prevVehicleID *int64
	if forVehicle != nil {
		prevDriverID = &forVehicle.DriverID
	}
	if forDriver != nil {
		prevVehicleID = &forDriver.VehicleID
	}
	if _, err := tx.Exec(ctx, `INSERT INTO driver_shift_assignment_history (assign_date, shift, action, driver_id, vehicle_id, prev_driver_id, prev_vehicle_id, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		date, shift, action, driverID, vehicleID, prevDriverID, prevVehicleID, "assigned via shift board"); err != nil {
		return 0, "", err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, "", err
	}
	return assignmentID, action, nil
}

func (r *PGAssignmentRepository) activeFor(ctx context.Context, tx pgx.Tx, column string, id int64, date time.Time, shift domain.Shift) (*domain.Assignment, error) {
	row := tx.QueryRow(ctx, `SELECT `+assignmentColumns+` FROM driver_shift_assignments
		WHERE `+column+`=$1 AND assign_date=$2 AND shift=$3 AND unassigned_at IS NULL`, id, date, shift)
	var a domain.Assignment
	if err := scanAssignment(row, &a); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// close marks an assignment row unassigned and appends the UNASSIGN
// ledger row. The UPDATE re-checks unassigned_at IS NULL at write time;
// zero affected rows means a concurrent transaction already closed it
// and the caller must restart from a fresh read.
func (r *PGAssignmentRepository) close(ctx context.Context, tx pgx.Tx, a *domain.Assignment, note string) error {
	cmd, err := tx.Exec(ctx, `UPDATE driver_shift_assignments SET unassigned_at=now() WHERE id=$1 AND unassigned_at IS NULL`, a.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return errRaceLost
	}

	_, err = tx.Exec(ctx, `INSERT INTO driver_shift_assignment_history (assign_date, shift, action, driver_id, vehicle_id, note)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		a.AssignDate, a.Shift, domain.HistoryActionUnassign, a.DriverID, a.VehicleID, note)
	return err
}

// Unassign closes the driver's active assignment for the slot. A driver
// with nothing to unassign is a successful no-op, so repeated calls are
// idempotent.
func (r *PGAssignmentRepository) Unassign(ctx context.Context, driverID int64, date time.Time, shift domain.Shift) (bool, error) {
	date = domain.NormalizeDate(date)

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	existing, err := r.activeFor(ctx, tx, "driver_id", driverID, date, shift)
	if err != nil {
		return false, err
	}
	if existing == nil {
		return false, nil
	}

	if err := r.close(ctx, tx, existing, "unassigned via shift board"); err != nil {
		if errors.Is(err, errRaceLost) {
			// already closed concurrently; still a successful no-op
			return false, nil
		}
		return false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func (r *PGAssignmentRepository) ActiveForSlot(ctx context.Context, date time.Time, shift domain.Shift) ([]domain.Assignment, error) {
	date = domain.NormalizeDate(date)

	rows, err := r.db.Query(ctx, `SELECT `+assignmentColumns+` FROM driver_shift_assignments
		WHERE assign_date=$1 AND shift=$2 AND unassigned_at IS NULL ORDER BY id`, date, shift)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assignments := make([]domain.Assignment, 0)
	for rows.Next() {
		var a domain.Assignment
		if err := scanAssignment(rows, &a); err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

func (r *PGAssignmentRepository) History(ctx context.Context, date *time.Time, shift *domain.Shift, limit int) ([]domain.AssignmentHistory, error) {
	query := `SELECT id, assign_date, shift, action, driver_id, vehicle_id, prev_driver_id, prev_vehicle_id, note, changed_at
		FROM driver_shift_assignment_history`
	args := make([]any, 0, 3)
	where := ""
	if date != nil {
		args = append(args, domain.NormalizeDate(*date))
		where = fmt.Sprintf(" WHERE assign_date=$%d", len(args))
	}
	if shift != nil {
		args = append(args, *shift)
		if where == "" {
			where = fmt.Sprintf(" WHERE shift=$%d", len(args))
		} else {
			where += fmt.Sprintf(" AND shift=$%d", len(args))
		}
	}
	args = append(args, limit)
	query += where + fmt.Sprintf(" ORDER BY changed_at DESC, id DESC LIMIT $%d", len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := make([]domain.AssignmentHistory, 0)
	for rows.Next() {
		var h domain.AssignmentHistory
		if err := rows.Scan(&h.ID, &h.AssignDate, &h.Shift, &h.Action, &h.DriverID, &h.VehicleID, &h.PrevDriverID, &h.PrevVehicleID, &h.Note, &h.ChangedAt); err != nil {
			return nil, err
		}
		history = append(history, h)
	}
	return history, rows.Err()
}

var _ AssignmentRepository = (*PGAssignmentRepository)(nil)
