package attdet

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// profileMatrix returns the attitude profile matrix B = sum(w * b * r^T) of
// the observations, as seen after the sequential rotation perm of the
// reference frame. Rotating every reference vector by 180 degrees about an
// axis is the same as negating the other two columns of B.
func profileMatrix(obs []Observation, perm Permutation) *mat.Dense {
	B := mat.NewDense(3, 3, nil)
	for _, o := range obs {
		B.RankOne(B, o.Weight, vec(o.Body), vec(o.Reference))
	}

	for _, col := range permutationRules[perm].negate {
		if col < 0 {
			continue
		}
		for i := 0; i < 3; i++ {
			B.Set(i, col, -B.At(i, col))
		}
	}
	return B
}

// weightSum returns the sum of the observation weights, the starting point
// of the eigenvalue search.
func weightSum(obs []Observation) float64 {
	var sum float64
	for _, o := range obs {
		sum += o.Weight
	}
	return sum
}

// undetermined returns an ErrCollinear error if the weighted reference or
// body directions of obs do not include two that are not collinear.
func undetermined(obs []Observation) error {
	if !spansPlane(obs, func(o Observation) r3.Vec { return o.Reference }) {
		return fmt.Errorf("%w: reference directions", ErrCollinear)
	}
	if !spansPlane(obs, func(o Observation) r3.Vec { return o.Body }) {
		return fmt.Errorf("%w: body directions", ErrCollinear)
	}
	return nil
}

// spansPlane reports whether the directions dir(o) of the observations with
// positive weight include two non-collinear ones. Zero vectors are skipped.
func spansPlane(obs []Observation, dir func(Observation) r3.Vec) bool {
	var first r3.Vec
	found := false
	for _, o := range obs {
		if !(o.Weight > 0) {
			continue
		}
		v := dir(o)
		if r3.Norm2(v) == 0 {
			continue
		}
		if !found {
			first, found = v, true
			continue
		}
		if r3.Norm2(r3.Cross(first, v)) > CollinearToleranceSquared*r3.Norm2(first)*r3.Norm2(v) {
			return true
		}
	}
	return false
}

// informative reports whether B is finite and not identically zero.
func informative(B mat.Matrix) bool {
	n := mat.Norm(B, math.Inf(1))
	return n > 0 && !math.IsInf(n, 0) && !math.IsNaN(n)
}

func vec(v r3.Vec) *mat.VecDense {
	return mat.NewVecDense(3, []float64{v.X, v.Y, v.Z})
}
