// Package attdet determines the attitude of a rigid body from pairs of vectors
// observed both in a reference frame and in the body frame (Wahba's problem).
//
// The main entry point is the QUEST estimator, which is made robust against
// attitudes near 180 degrees by re-posing the problem under a fixed set of
// sequential rotations and keeping the best conditioned answer. TRIAD is
// provided for the two-vector case as a cross-check.
package attdet

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// If a supposedly near-unit quaternion has norm-squared less than this during normalisation, then it is considered to be zero and the normalisation fails.
	QuatNormToleranceSquared = 1e-12 * 1e-12

	// If the magnitude of det(Y) is not greater than this (scaled by the cube of the weight sum), then the Rodrigues parameter solve for that sequential rotation is considered singular and the candidate is discarded.
	DetYTolerance = 1e-12

	// Newton-Raphson iteration on the characteristic equation stops once the step is smaller than this (relative to the current eigenvalue, or absolute below 1).
	NewtonTolerance = 1e-14

	// Default upper bound on the number of Newton-Raphson steps. A value of 1 reproduces the single step of the classical formulation.
	MaxNewtonIterations = 20

	// If a measurement has norm-squared less than this, then it is considered to be faulty and is discarded.
	MeasurementToleranceSquared = 1e-12 * 1e-12

	// If the norm-squared of the cross product of two unit directions is less than this, then they are considered collinear and carry no attitude information.
	CollinearToleranceSquared = 1e-12 * 1e-12
)

// Observation is one pair of corresponding unit vectors, together with the
// relative weight it carries in the loss function.
type Observation struct {
	Reference r3.Vec  // direction in the reference (inertial) frame
	Body      r3.Vec  // the same direction as measured in the body frame
	Weight    float64 // relative weight, non-negative
}

// NewObservation returns an observation of body measured against reference.
func NewObservation(body, reference r3.Vec, weight float64) Observation {
	return Observation{Reference: reference, Body: body, Weight: weight}
}

func (o Observation) validate() error {
	for _, v := range [...]float64{
		o.Reference.X, o.Reference.Y, o.Reference.Z,
		o.Body.X, o.Body.Y, o.Body.Z,
		o.Weight,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite component", ErrInvalidObservation)
		}
	}
	if o.Weight < 0 {
		return fmt.Errorf("%w: negative weight %g", ErrInvalidObservation, o.Weight)
	}
	return nil
}

// Permutation identifies the sequential rotation applied to the reference
// frame before solving: none, or 180 degrees about one of the axes.
type Permutation int

const (
	PermX Permutation = iota
	PermY
	PermZ
	PermNone

	// Number of sequential rotations tried by the estimator.
	PermCount
)

// Permutations lists every tag in the order the estimator tries them.
var Permutations = [PermCount]Permutation{PermX, PermY, PermZ, PermNone}

func (p Permutation) String() string {
	switch p {
	case PermX:
		return "x"
	case PermY:
		return "y"
	case PermZ:
		return "z"
	case PermNone:
		return "none"
	}
	return fmt.Sprintf("Permutation(%d)", int(p))
}

// ParsePermutation is the inverse of Permutation.String.
func ParsePermutation(s string) (Permutation, error) {
	for _, p := range Permutations {
		if p.String() == s {
			return p, nil
		}
	}
	return PermNone, fmt.Errorf("unknown permutation %q", s)
}

// permutationRule describes one sequential rotation: the profile columns that
// change sign, and how to bring the resulting quaternion back to the
// original frame.
type permutationRule struct {
	negate [2]int // profile columns to negate; both -1 for none
	undo   func(q Quat) Quat
}

var permutationRules = [PermCount]permutationRule{
	PermX: {
		negate: [2]int{1, 2},
		undo:   func(q Quat) Quat { return Quat{q[3], -q[2], q[1], -q[0]} },
	},
	PermY: {
		negate: [2]int{0, 2},
		undo:   func(q Quat) Quat { return Quat{q[2], q[3], -q[0], -q[1]} },
	},
	PermZ: {
		negate: [2]int{0, 1},
		undo:   func(q Quat) Quat { return Quat{-q[1], q[0], q[3], -q[2]} },
	},
	PermNone: {
		negate: [2]int{-1, -1},
		undo:   func(q Quat) Quat { return q },
	},
}
