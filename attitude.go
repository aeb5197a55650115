package attdet

// Attitude returns the current attitude estimate.
func (e *Estimator) Attitude() Quat {
	return e.qhat
}

// SetAttitude sets the current attitude estimate. A quaternion too close to
// zero to be normalised resets the estimate to the identity attitude.
func (e *Estimator) SetAttitude(q Quat) {
	if n, err := q.Normalize(); err != nil {
		e.qhat = Identity()
	} else {
		e.qhat = n
	}

	// Reset the alternative representation validity flags
	e.eulerValid = false
	e.fusedValid = false
}

// SetAttitudeEuler sets the current attitude estimate to a particular set of ZYX Euler angles.
func (e *Estimator) SetAttitudeEuler(yaw, pitch, roll float64) {
	e.SetAttitude(QuatFromEulerZYX(yaw, pitch, roll))
}

// SetAttitudeFused sets the current attitude estimate to a particular set of fused angles.
func (e *Estimator) SetAttitudeFused(yaw, pitch, roll float64, hemi bool) {
	e.SetAttitude(QuatFromFused(yaw, pitch, roll, hemi))
}

func (e *Estimator) updateEuler() {
	e.ehat[0], e.ehat[1], e.ehat[2] = e.qhat.EulerZYX()
	e.eulerValid = true
}

func (e *Estimator) updateFused() {
	e.fhat[0], e.fhat[1], e.fhat[2], e.fhatHemi = e.qhat.Fused()
	e.fusedValid = true
}
