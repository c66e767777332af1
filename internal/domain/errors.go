package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marks a missing trip, vehicle or driver reference.
	ErrNotFound = errors.New("not found")

	// ErrSeatConflict is returned when any requested seat is no longer
	// available at write time. It is an expected outcome for the
	// caller to retry, not a defect.
	ErrSeatConflict = errors.New("seat already sold")

	// ErrVehicleUnavailable rejects assignments to vehicles under
	// maintenance.
	ErrVehicleUnavailable = errors.New("vehicle is under maintenance")
)

// ValidationError reports malformed input before any transaction is
// opened.
type ValidationError struct {
	Field string
	Msg   string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

func IsValidation(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}
