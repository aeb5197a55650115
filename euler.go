package attdet

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
)

// EulerZYX returns the ZYX Euler angles (yaw, pitch, roll) of the unit
// quaternion q, in radians.
//
// The output ranges are:
//
//	Yaw:    psi   in (-pi,pi]
//	Pitch:  theta in [-pi/2,pi/2]
//	Roll:   phi   in (-pi,pi]
func (q Quat) EulerZYX() (yaw, pitch, roll float64) {
	x, y, z, w := q[0], q[1], q[2], q[3]

	// Calculate pitch
	pitch = math.Asin(coerce(2.0 * (w*y - z*x)))

	// Calculate yaw and roll
	ysq := y * y
	yaw = math.Atan2(w*z+x*y, 0.5-(ysq+z*z))
	roll = math.Atan2(w*x+y*z, 0.5-(ysq+x*x))
	return yaw, pitch, roll
}

// QuatFromEulerZYX returns the unit quaternion of the given ZYX Euler angles.
func QuatFromEulerZYX(yaw, pitch, roll float64) Quat {
	// halve the yaw, pitch and roll values (for calculation purposes only)
	yaw *= 0.5
	pitch *= 0.5
	roll *= 0.5

	var (
		cpsi = math.Cos(yaw)
		spsi = math.Sin(yaw)
		cth  = math.Cos(pitch)
		sth  = math.Sin(pitch)
		cphi = math.Cos(roll)
		sphi = math.Sin(roll)
	)

	return Quat{
		cpsi*cth*sphi - spsi*sth*cphi,
		cpsi*sth*cphi + spsi*cth*sphi,
		spsi*cth*cphi - cpsi*sth*sphi,
		cpsi*cth*cphi + spsi*sth*sphi,
	}
}

// EulerXYZ returns the XYZ Euler angles (roll, pitch, yaw) of the unit
// quaternion q, in radians: the body orientation is Rx(roll) Ry(pitch) Rz(yaw).
func (q Quat) EulerXYZ() (roll, pitch, yaw float64) {
	x, y, z, w := q[0], q[1], q[2], q[3]
	roll = math.Atan2(2*(w*x-y*z), 1-2*(x*x+y*y))
	pitch = math.Asin(coerce(2 * (w*y + z*x)))
	yaw = math.Atan2(2*(w*z-x*y), 1-2*(y*y+z*z))
	return roll, pitch, yaw
}

// QuatFromEulerXYZ is the inverse of Quat.EulerXYZ.
func QuatFromEulerXYZ(roll, pitch, yaw float64) Quat {
	qx := quat.Number{Real: math.Cos(roll / 2), Imag: math.Sin(roll / 2)}
	qy := quat.Number{Real: math.Cos(pitch / 2), Jmag: math.Sin(pitch / 2)}
	qz := quat.Number{Real: math.Cos(yaw / 2), Kmag: math.Sin(yaw / 2)}
	return QuatFromNumber(quat.Mul(quat.Mul(qx, qy), qz))
}

// Fused returns the fused angles of the unit quaternion q: fused yaw, fused
// pitch, fused roll and the hemisphere (true for the positive z hemisphere).
//
// The output ranges are:
//
//	Fused yaw:    psi   in (-pi,pi]
//	Fused pitch:  theta in [-pi/2,pi/2]
//	Fused roll:   phi   in [-pi/2,pi/2]
func (q Quat) Fused() (yaw, pitch, roll float64, hemi bool) {
	x, y, z, w := q[0], q[1], q[2], q[3]

	// Output of atan2 is [-pi,pi], so this expression is in [-2*pi,2*pi]
	yaw = 2 * math.Atan2(z, w)
	if yaw > math.Pi {
		yaw -= math.Pi * 2
	}
	if yaw <= -math.Pi {
		yaw += math.Pi * 2
	}

	pitch = math.Asin(coerce(2.0 * (y*w - x*z)))
	roll = math.Asin(coerce(2.0 * (y*z + x*w)))
	hemi = 0.5-(x*x+y*y) >= 0
	return yaw, pitch, roll, hemi
}

// QuatFromFused is the inverse of Quat.Fused.
func QuatFromFused(yaw, pitch, roll float64, hemi bool) Quat {
	var (
		sth  = math.Sin(pitch)
		sphi = math.Sin(roll)
	)

	// Calculate the sine sum criterion
	crit := sth*sth + sphi*sphi

	// Calculate the tilt angle alpha
	var alpha float64
	if crit >= 1.0 {
		alpha = math.Pi / 2
	} else if hemi {
		alpha = math.Acos(math.Sqrt(1 - crit))
	} else {
		alpha = math.Acos(-math.Sqrt(1 - crit))
	}

	// Calculate the tilt axis gamma
	gamma := math.Atan2(sth, sphi)

	var (
		halpha  = 0.5 * alpha
		hpsi    = 0.5 * yaw
		hgampsi = gamma + hpsi
	)

	return Quat{
		math.Sin(halpha) * math.Cos(hgampsi),
		math.Sin(halpha) * math.Sin(hgampsi),
		math.Cos(halpha) * math.Sin(hpsi),
		math.Cos(halpha) * math.Cos(hpsi),
	}
}

// coerce clamps v to [-1,1] ahead of an arcsine.
func coerce(v float64) float64 {
	if v >= 1 {
		return 1
	} else if v <= -1 {
		return -1
	}
	return v
}
