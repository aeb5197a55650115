package attdet

import "gonum.org/v1/gonum/spatial/r3"

// SetMagReference sets the magnetic field direction in the reference frame.
//
// This should be the value of `(magX,magY,magZ)` that corresponds to a true
// orientation of identity. Only the direction matters.
func (e *Estimator) SetMagReference(mx, my, mz float64) error {
	v, err := unitMeasurement("mag reference", mx, my, mz)
	if err != nil {
		return err
	}
	e.magRef = v
	return nil
}

// MagReference returns the current (unit) magnetometer reference direction.
func (e *Estimator) MagReference() r3.Vec {
	return e.magRef
}
