package attdet

import "gonum.org/v1/gonum/spatial/r3"

// SetAccReference sets the direction the accelerometer reads at the identity
// orientation (the negated gravity direction for a sensor at rest).
func (e *Estimator) SetAccReference(ax, ay, az float64) error {
	v, err := unitMeasurement("acc reference", ax, ay, az)
	if err != nil {
		return err
	}
	e.accRef = v
	return nil
}

// AccReference returns the current (unit) accelerometer reference direction.
func (e *Estimator) AccReference() r3.Vec {
	return e.accRef
}
