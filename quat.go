package attdet

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Quat is an attitude quaternion stored scalar last, as (x, y, z, w).
//
// Its attitude matrix A(q) maps reference frame coordinates into body frame
// coordinates, b = A(q) r. Seen as a Hamilton quaternion, q rotates body
// frame vectors into the reference frame, i.e. it is the orientation of the
// body relative to the reference frame.
type Quat [4]float64

// Identity returns the quaternion of the identity attitude.
func Identity() Quat {
	return Quat{0, 0, 0, 1}
}

// Number returns q as a gonum Hamilton quaternion.
func (q Quat) Number() quat.Number {
	return quat.Number{Real: q[3], Imag: q[0], Jmag: q[1], Kmag: q[2]}
}

// QuatFromNumber is the inverse of Quat.Number.
func QuatFromNumber(n quat.Number) Quat {
	return Quat{n.Imag, n.Jmag, n.Kmag, n.Real}
}

// Norm returns the Euclidean norm of q.
func (q Quat) Norm() float64 {
	return quat.Abs(q.Number())
}

// Normalize returns q scaled to unit norm. Quaternions whose squared norm is
// below QuatNormToleranceSquared cannot be normalised.
func (q Quat) Normalize() (Quat, error) {
	qscale := q[0]*q[0] + q[1]*q[1] + q[2]*q[2] + q[3]*q[3]
	if !(qscale >= QuatNormToleranceSquared) || math.IsInf(qscale, 0) {
		return Quat{}, fmt.Errorf("%w: squared norm %g", ErrZeroQuaternion, qscale)
	}
	qscale = 1 / math.Sqrt(qscale)
	return Quat{qscale * q[0], qscale * q[1], qscale * q[2], qscale * q[3]}, nil
}

// Conj returns the conjugate of q, which for a unit quaternion is the
// inverse attitude.
func (q Quat) Conj() Quat {
	return Quat{-q[0], -q[1], -q[2], q[3]}
}

// Mul composes attitudes so that A(q.Mul(p)) = A(q) A(p): p is applied first.
func (q Quat) Mul(p Quat) Quat {
	return QuatFromNumber(quat.Mul(p.Number(), q.Number()))
}

// Rotate returns A(q) v, the body frame coordinates of the reference frame
// vector v. q must be a unit quaternion.
func (q Quat) Rotate(v r3.Vec) r3.Vec {
	n := q.Number()
	p := quat.Mul(quat.Mul(quat.Conj(n), quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}), n)
	return r3.Vec{X: p.Imag, Y: p.Jmag, Z: p.Kmag}
}

// DCM returns the attitude matrix A(q). q must be a unit quaternion.
func (q Quat) DCM() *mat.Dense {
	x, y, z, w := q[0], q[1], q[2], q[3]
	return mat.NewDense(3, 3, []float64{
		w*w + x*x - y*y - z*z, 2 * (x*y + w*z), 2 * (x*z - w*y),
		2 * (x*y - w*z), w*w - x*x + y*y - z*z, 2 * (y*z + w*x),
		2 * (x*z + w*y), 2 * (y*z - w*x), w*w - x*x - y*y + z*z,
	})
}

// QuatFromDCM returns the unit quaternion of the attitude matrix A, using
// Shepperd's method to pick the best conditioned of the four branches.
func QuatFromDCM(A mat.Matrix) (Quat, error) {
	if r, c := A.Dims(); r != 3 || c != 3 {
		return Quat{}, fmt.Errorf("attdet: attitude matrix is %dx%d, want 3x3", r, c)
	}
	a := func(i, j int) float64 { return A.At(i, j) }
	tr := a(0, 0) + a(1, 1) + a(2, 2)

	var q Quat
	switch {
	case tr >= a(0, 0) && tr >= a(1, 1) && tr >= a(2, 2):
		w := 0.5 * math.Sqrt(1+tr)
		f := 0.25 / w
		q = Quat{f * (a(1, 2) - a(2, 1)), f * (a(2, 0) - a(0, 2)), f * (a(0, 1) - a(1, 0)), w}
	case a(0, 0) >= a(1, 1) && a(0, 0) >= a(2, 2):
		x := 0.5 * math.Sqrt(1+a(0, 0)-a(1, 1)-a(2, 2))
		f := 0.25 / x
		q = Quat{x, f * (a(0, 1) + a(1, 0)), f * (a(2, 0) + a(0, 2)), f * (a(1, 2) - a(2, 1))}
	case a(1, 1) >= a(2, 2):
		y := 0.5 * math.Sqrt(1-a(0, 0)+a(1, 1)-a(2, 2))
		f := 0.25 / y
		q = Quat{f * (a(0, 1) + a(1, 0)), y, f * (a(1, 2) + a(2, 1)), f * (a(2, 0) - a(0, 2))}
	default:
		z := 0.5 * math.Sqrt(1-a(0, 0)-a(1, 1)+a(2, 2))
		f := 0.25 / z
		q = Quat{f * (a(2, 0) + a(0, 2)), f * (a(1, 2) + a(2, 1)), z, f * (a(0, 1) - a(1, 0))}
	}
	return q.Normalize()
}

// EqualApprox reports whether q and p describe the same attitude, i.e. are
// equal component-wise within tol up to a global sign.
func (q Quat) EqualApprox(p Quat, tol float64) bool {
	same, flipped := true, true
	for i := range q {
		same = same && scalar.EqualWithinAbs(q[i], p[i], tol)
		flipped = flipped && scalar.EqualWithinAbs(q[i], -p[i], tol)
	}
	return same || flipped
}
