package attdet

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// TriadDCM returns the attitude matrix A (b = A r) determined by the TRIAD
// algorithm. The primary observation is matched exactly, the secondary one
// only fixes the rotation about it. Weights are ignored.
func TriadDCM(primary, secondary Observation) (*mat.Dense, error) {
	for i, o := range [...]Observation{primary, secondary} {
		if err := o.validate(); err != nil {
			return nil, fmt.Errorf("observation %d: %w", i, err)
		}
	}

	body, err := triad(primary.Body, secondary.Body)
	if err != nil {
		return nil, fmt.Errorf("body frame: %w", err)
	}
	ref, err := triad(primary.Reference, secondary.Reference)
	if err != nil {
		return nil, fmt.Errorf("reference frame: %w", err)
	}

	A := mat.NewDense(3, 3, nil)
	for i := range body {
		A.RankOne(A, 1, vec(body[i]), vec(ref[i]))
	}
	return A, nil
}

// Triad returns the attitude quaternion determined by the TRIAD algorithm.
func Triad(primary, secondary Observation) (Quat, error) {
	A, err := TriadDCM(primary, secondary)
	if err != nil {
		return Quat{}, err
	}
	return QuatFromDCM(A)
}

// triad builds the orthonormal triad (v1, v1 x v2, v1 x (v1 x v2)).
func triad(v1, v2 r3.Vec) ([3]r3.Vec, error) {
	if r3.Norm2(v1) < MeasurementToleranceSquared {
		return [3]r3.Vec{}, fmt.Errorf("%w: zero primary vector", ErrBadMeasurement)
	}
	t1 := r3.Unit(v1)
	t2 := r3.Cross(t1, v2)
	if r3.Norm2(t2) < CollinearToleranceSquared {
		return [3]r3.Vec{}, ErrCollinear
	}
	t2 = r3.Unit(t2)
	return [3]r3.Vec{t1, t2, r3.Cross(t1, t2)}, nil
}
