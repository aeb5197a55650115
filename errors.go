package attdet

import (
	"errors"
	"fmt"
)

var (
	// ErrNoObservations is returned when the estimator is given nothing to work with.
	ErrNoObservations = errors.New("attdet: no observations")

	// ErrInvalidObservation is returned for non-finite vectors or negative weights.
	ErrInvalidObservation = errors.New("attdet: invalid observation")

	// ErrSingularProfile means the attitude profile matrix carries no information (zero total weight).
	ErrSingularProfile = errors.New("attdet: singular attitude profile")

	// ErrDegenerateNewton means the Newton-Raphson step on the characteristic equation was not finite,
	// or converged to an eigenvalue that cannot be the largest one.
	ErrDegenerateNewton = errors.New("attdet: degenerate newton step")

	// ErrSingularY means (lambda+sigma)I - S could not be inverted for the Rodrigues parameters.
	ErrSingularY = errors.New("attdet: singular rodrigues system")

	// ErrIndeterminate is returned when no sequential rotation produced a usable attitude,
	// typically because the observed directions are parallel or antiparallel.
	ErrIndeterminate = errors.New("attdet: attitude indeterminate from given observations")

	// ErrZeroQuaternion is returned when normalising a quaternion with (near) zero norm.
	ErrZeroQuaternion = errors.New("attdet: zero quaternion")

	// ErrCollinear is returned when two directions are (anti)parallel.
	ErrCollinear = errors.New("attdet: collinear directions")

	// ErrBadMeasurement is returned for measurements with (near) zero norm.
	ErrBadMeasurement = errors.New("attdet: bad measurement")
)

// CandidateError records why the attempt under one sequential rotation failed.
type CandidateError struct {
	Perm Permutation
	Err  error
}

func (e *CandidateError) Error() string {
	return fmt.Sprintf("rotation %s: %v", e.Perm, e.Err)
}

func (e *CandidateError) Unwrap() error { return e.Err }
