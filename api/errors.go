package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/transitops/internal/domain"
)

// errorStatus maps the domain error taxonomy onto HTTP statuses.
// Conflicts (seat already sold, vehicle in maintenance) are 409 so
// callers can tell a retriable outcome from a defect.
func errorStatus(err error) int {
	switch {
	case domain.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrSeatConflict), errors.Is(err, domain.ErrVehicleUnavailable):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
