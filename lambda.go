package attdet

// Lambda returns the optimal eigenvalue of the last solution.
// It is 0 until the first successful Update.
func (e *Estimator) Lambda() float64 {
	return e.lambda
}

// Loss returns the value of Wahba's loss function for the last solution.
// A perfect fit of both measurements gives 0.
func (e *Estimator) Loss() float64 {
	if e.lambda == 0 {
		return 0
	}
	return e.accWeight + e.magWeight - e.lambda
}

// Conditioning returns det(Y) of the last solution, and the sequential
// rotation it was obtained under.
func (e *Estimator) Conditioning() (float64, Permutation) {
	return e.detY, e.perm
}
