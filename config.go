package attdet

import "go.uber.org/zap"

// Reset resets the attitude estimate to the identity and forgets the last
// solution, leaving the references, weights and solver untouched.
func (e *Estimator) Reset() {
	// Initialise the attitude estimate
	e.SetAttitude(Identity()) // Resets qhat, eulerValid and fusedValid internally

	// Update the alternative attitude estimate representations
	e.updateEuler()
	e.updateFused()

	e.lambda = 0
	e.detY = 0
	e.perm = PermNone
}

// ResetAll resets the entire estimator, including the reference directions
// and the weights.
func (e *Estimator) ResetAll() {
	// Gravity along the positive z-axis and magnetic north along the
	// positive x-axis at the identity orientation
	_ = e.SetAccReference(0, 0, 1)
	_ = e.SetMagReference(1, 0, 0)

	e.SetWeights(0.6, 0.4)

	e.Reset()
}

// Weights returns the relative weights of the acc and mag measurements.
func (e *Estimator) Weights() (acc, mag float64) {
	return e.accWeight, e.magWeight
}

// SetWeights sets the relative weights of the acc and mag measurements.
//
// Both weights must be positive or the pair is not updated.
func (e *Estimator) SetWeights(acc, mag float64) {
	if acc > 0 && mag > 0 {
		e.accWeight = acc
		e.magWeight = mag
	}
}

// ResetAll restores the default solver configuration.
func (s *Solver) ResetAll() {
	s.SetNewtonIterations(MaxNewtonIterations)
	s.SetNewtonTolerance(NewtonTolerance)
	s.SetDetYTolerance(DetYTolerance)
	s.SetSelection(SelectDefault)
	s.SetParallel(false)
	s.SetLogger(nil)
}

// NewtonIterations returns the maximum number of Newton-Raphson steps.
func (s *Solver) NewtonIterations() int {
	return s.newtonIterations
}

// SetNewtonIterations sets the maximum number of Newton-Raphson steps taken
// on the characteristic equation. Values below 1 are coerced to 1, which is
// the single step of the classical formulation.
func (s *Solver) SetNewtonIterations(n int) {
	if n < 1 {
		n = 1
	}
	s.newtonIterations = n
}

// NewtonTolerance returns the Newton-Raphson stopping tolerance.
func (s *Solver) NewtonTolerance() float64 {
	return s.newtonTolerance
}

// SetNewtonTolerance sets the Newton-Raphson stopping tolerance.
//
// Negative values are ignored by this function.
func (s *Solver) SetNewtonTolerance(tol float64) {
	if tol >= 0 {
		s.newtonTolerance = tol
	}
}

// DetYTolerance returns the relative det(Y) below which a candidate is singular.
func (s *Solver) DetYTolerance() float64 {
	return s.detYTolerance
}

// SetDetYTolerance sets the relative det(Y) below which a candidate is
// considered singular. It is scaled by the cube of the weight sum.
//
// Negative values are ignored by this function.
func (s *Solver) SetDetYTolerance(tol float64) {
	if tol >= 0 {
		s.detYTolerance = tol
	}
}

// Selection returns the candidate selection rule.
func (s *Solver) Selection() Selection {
	return s.selection
}

// SetSelection sets the candidate selection rule. Unknown rules select the default.
func (s *Solver) SetSelection(sel Selection) {
	if sel < SelectDefault || sel >= SelectionCount {
		s.selection = SelectDefault
	} else {
		s.selection = sel
	}
}

// Parallel reports whether candidates are solved concurrently.
func (s *Solver) Parallel() bool {
	return s.parallel
}

// SetParallel sets whether the four candidates are solved concurrently.
func (s *Solver) SetParallel(parallel bool) {
	s.parallel = parallel
}

// SetLogger sets the logger receiving per-candidate debug entries. A nil
// logger discards them.
func (s *Solver) SetLogger(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s.logger = logger
}
