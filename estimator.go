package attdet

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Estimator determines the attitude of a sensor package carrying an
// accelerometer and a magnetometer, one sample at a time.
//
// Every call to Update solves the attitude from scratch with QUEST using the
// two measured directions and their configured reference directions. There is
// no filtering between samples; the Estimator only remembers the last
// solution and its alternative representations.
type Estimator struct {
	solver *Solver

	// Reference directions and weights
	accRef, magRef       r3.Vec  // unit directions in the reference frame
	accWeight, magWeight float64 // relative weights in the QUEST loss function

	// Internal variables
	qhat                   Quat        // Current attitude, always a unit quaternion
	lambda, detY           float64     // Optimal eigenvalue and conditioning of the last solution
	perm                   Permutation // Sequential rotation that produced the last solution
	ehat                   [3]float64  // Euler angles: (yaw,pitch,roll) following the ZYX convention
	fhat                   [3]float64  // Fused angles: (yaw,pitch,roll)
	fhatHemi               bool        // Fused angles hemisphere, true for the positive z hemisphere
	eulerValid, fusedValid bool        // Whether ehat and fhat are up to date with qhat
}

// NewEstimator returns an estimator using solver, or the default solver
// configuration if solver is nil.
func NewEstimator(solver *Solver) *Estimator {
	if solver == nil {
		solver = NewSolver()
	}
	e := &Estimator{solver: solver}
	e.ResetAll()
	return e
}

// Solver returns the QUEST solver used by the estimator.
func (e *Estimator) Solver() *Solver {
	return e.solver
}

// Update solves the attitude from new accelerometer and magnetometer
// readings. Readings can be in any self-consistent units, they are
// normalised before use.
//
// On error the previous attitude is kept.
func (e *Estimator) Update(accX, accY, accZ, magX, magY, magZ float64) error {
	acc, err := unitMeasurement("acc", accX, accY, accZ)
	if err != nil {
		return err
	}
	mag, err := unitMeasurement("mag", magX, magY, magZ)
	if err != nil {
		return err
	}

	if r3.Norm2(r3.Cross(acc, mag)) < CollinearToleranceSquared {
		return fmt.Errorf("%w: acc and mag measurements", ErrCollinear)
	}
	if r3.Norm2(r3.Cross(e.accRef, e.magRef)) < CollinearToleranceSquared {
		return fmt.Errorf("%w: acc and mag references", ErrCollinear)
	}

	res, err := e.solver.Estimate([]Observation{
		NewObservation(acc, e.accRef, e.accWeight),
		NewObservation(mag, e.magRef, e.magWeight),
	})
	if err != nil {
		return err
	}

	e.qhat = res.Quat
	e.lambda = res.Lambda
	e.detY = res.DetY
	e.perm = res.Perm

	// Reset the alternative representation validity flags
	e.eulerValid = false
	e.fusedValid = false
	return nil
}

// unitMeasurement returns (x,y,z) normalised, rejecting readings that are
// (near) zero or not finite.
func unitMeasurement(name string, x, y, z float64) (r3.Vec, error) {
	v := r3.Vec{X: x, Y: y, Z: z}
	n2 := r3.Norm2(v)
	if !(n2 >= MeasurementToleranceSquared) || n2 > math.MaxFloat64 {
		return r3.Vec{}, fmt.Errorf("%w: %s = (%g, %g, %g)", ErrBadMeasurement, name, x, y, z)
	}
	return r3.Unit(v), nil
}
