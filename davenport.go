package attdet

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// davenport holds the pieces of the Davenport K matrix
//
//	K = | S - sigma*I   Z     |
//	    | Z^T           sigma |
//
// together with the coefficients of its characteristic equation
//
//	f(x) = x^4 - (a+b) x^2 - c x + (a b + c sigma - d).
type davenport struct {
	S     *mat.Dense    // B + B^T
	Z     *mat.VecDense // (B23-B32, B31-B13, B12-B21)
	sigma float64       // trace(B)

	a, b, c, d float64
}

func newDavenport(B *mat.Dense) *davenport {
	k := &davenport{
		S:     mat.NewDense(3, 3, nil),
		sigma: mat.Trace(B),
		Z: mat.NewVecDense(3, []float64{
			B.At(1, 2) - B.At(2, 1),
			B.At(2, 0) - B.At(0, 2),
			B.At(0, 1) - B.At(1, 0),
		}),
	}
	k.S.Add(B, B.T())

	var SZ mat.VecDense
	SZ.MulVec(k.S, k.Z)

	kappa := adjugateTrace(k.S)
	delta := mat.Det(k.S)
	sigma2 := k.sigma * k.sigma

	k.a = sigma2 - kappa
	k.b = sigma2 + mat.Dot(k.Z, k.Z)
	k.c = delta + mat.Inner(k.Z, k.S, k.Z)
	k.d = mat.Dot(&SZ, &SZ) // Z^T S^2 Z, S is symmetric
	return k
}

// adjugateTrace returns trace(adj(M)), the sum of the principal 2x2 minors.
// Unlike det(M)*trace(inv(M)) this is well defined for singular M.
func adjugateTrace(M mat.Matrix) float64 {
	m := func(i, j int) float64 { return M.At(i, j) }
	return m(1, 1)*m(2, 2) - m(1, 2)*m(2, 1) +
		m(0, 0)*m(2, 2) - m(0, 2)*m(2, 0) +
		m(0, 0)*m(1, 1) - m(0, 1)*m(1, 0)
}

// f evaluates the characteristic equation.
func (k *davenport) f(x float64) float64 {
	return ((x*x-(k.a+k.b))*x-k.c)*x + (k.a*k.b + k.c*k.sigma - k.d)
}

// df evaluates the derivative of the characteristic equation.
func (k *davenport) df(x float64) float64 {
	return (4*x*x-2*(k.a+k.b))*x - k.c
}

// refine finds the largest eigenvalue of K by Newton-Raphson starting from
// x0, the sum of the weights. At most iterations steps are taken, stopping
// early once a step is below tol (relative above 1). If a later step is not
// finite, or the final iterate is worse than the first step, the single
// step value is returned instead.
func (k *davenport) refine(x0 float64, iterations int, tol float64) (lambda float64, steps int, err error) {
	lambda = x0
	first := x0

	for steps < iterations {
		fx := k.f(lambda)
		if fx == 0 {
			// already on a root
			return lambda, steps, nil
		}

		next := lambda - fx/k.df(lambda)
		if math.IsNaN(next) || math.IsInf(next, 0) {
			if steps == 0 {
				return next, 1, fmt.Errorf("%w: f(%g) = %g, f'(%g) = %g", ErrDegenerateNewton, lambda, fx, lambda, k.df(lambda))
			}
			return first, 1, nil
		}

		if steps == 0 {
			first = next
		}
		steps++

		delta := math.Abs(next - lambda)
		lambda = next
		if delta <= tol*math.Max(1, math.Abs(lambda)) {
			return lambda, steps, nil
		}
	}

	if steps > 1 && math.Abs(k.f(lambda)) > math.Abs(k.f(first)) {
		return first, 1, nil
	}
	return lambda, steps, nil
}

// eigenvalueSlack is the relative amount by which a refined eigenvalue may
// exceed the weight sum through rounding.
const eigenvalueSlack = 1e-9

// checkEigenvalue rejects a refined eigenvalue that cannot be the largest
// eigenvalue of K. That one lies in [0, lambda0]: K is traceless, and the
// loss lambda0 - lambda is non-negative.
func checkEigenvalue(lambda, lambda0 float64) error {
	if lambda >= 0 && lambda <= lambda0*(1+eigenvalueSlack) {
		return nil
	}
	return fmt.Errorf("%w: eigenvalue %g outside [0, %g]", ErrDegenerateNewton, lambda, lambda0)
}

// rodrigues solves ((lambda+sigma) I - S) p = Z for the classical Rodrigues
// parameters p and returns the quaternion (p, 1)/sqrt(1+|p|^2) together with
// det(Y). A candidate whose |det(Y)| is not above minDet is singular.
func (k *davenport) rodrigues(lambda, minDet float64) (Quat, float64, error) {
	Y := mat.NewDense(3, 3, nil)
	Y.Scale(-1, k.S)
	for i := 0; i < 3; i++ {
		Y.Set(i, i, Y.At(i, i)+lambda+k.sigma)
	}

	detY := mat.Det(Y)
	if math.IsNaN(detY) || math.IsInf(detY, 0) || math.Abs(detY) <= minDet {
		return Quat{}, detY, fmt.Errorf("%w: det(Y) = %g", ErrSingularY, detY)
	}

	var p mat.VecDense
	if err := p.SolveVec(Y, k.Z); err != nil {
		return Quat{}, detY, fmt.Errorf("%w: %v", ErrSingularY, err)
	}

	scale := 1 / math.Sqrt(1+mat.Dot(&p, &p))
	q := Quat{scale * p.AtVec(0), scale * p.AtVec(1), scale * p.AtVec(2), scale}
	for _, v := range q {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Quat{}, detY, fmt.Errorf("%w: non-finite rodrigues parameters", ErrSingularY)
		}
	}
	return q, detY, nil
}
