package attdet

// Euler returns the ZYX Euler angles (yaw, pitch, roll) of the current
// attitude estimate. They are computed on first use after each change of
// attitude.
func (e *Estimator) Euler() (yaw, pitch, roll float64) {
	if !e.eulerValid {
		e.updateEuler()
	}
	return e.ehat[0], e.ehat[1], e.ehat[2]
}

// EulerYaw returns the 1st of the three ZYX Euler angles.
func (e *Estimator) EulerYaw() float64 {
	yaw, _, _ := e.Euler()
	return yaw
}

// EulerPitch returns the 2nd of the three ZYX Euler angles.
func (e *Estimator) EulerPitch() float64 {
	_, pitch, _ := e.Euler()
	return pitch
}

// EulerRoll returns the 3rd of the three ZYX Euler angles.
func (e *Estimator) EulerRoll() float64 {
	_, _, roll := e.Euler()
	return roll
}

// Fused returns the fused angles (yaw, pitch, roll) and hemisphere of the
// current attitude estimate, computed on first use like Euler.
func (e *Estimator) Fused() (yaw, pitch, roll float64, hemi bool) {
	if !e.fusedValid {
		e.updateFused()
	}
	return e.fhat[0], e.fhat[1], e.fhat[2], e.fhatHemi
}

// FusedYaw returns the 1st of the fused angles.
func (e *Estimator) FusedYaw() float64 {
	yaw, _, _, _ := e.Fused()
	return yaw
}

// FusedPitch returns the 2nd of the fused angles.
func (e *Estimator) FusedPitch() float64 {
	_, pitch, _, _ := e.Fused()
	return pitch
}

// FusedRoll returns the 3rd of the fused angles.
func (e *Estimator) FusedRoll() float64 {
	_, _, roll, _ := e.Fused()
	return roll
}

// FusedHemi returns the hemisphere of the fused angles, true for the positive z hemisphere.
func (e *Estimator) FusedHemi() bool {
	_, _, _, hemi := e.Fused()
	return hemi
}
