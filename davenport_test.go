package attdet

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestProfileMatrix(t *testing.T) {
	obs := []Observation{
		NewObservation(r3.Vec{X: 0.6, Y: 0.8}, ex, 2),
		NewObservation(ez, r3.Vec{Y: 0.6, Z: 0.8}, 1),
	}

	B := profileMatrix(obs, PermNone)
	want := mat.NewDense(3, 3, []float64{
		1.2, 0, 0,
		1.6, 0, 0,
		0, 0.6, 0.8,
	})
	assert.True(t, mat.EqualApprox(want, B, 1e-15), "got\n%v", mat.Formatted(B))
}

func TestProfileMatrix_PermutationIsHalfTurn(t *testing.T) {
	obs := []Observation{
		NewObservation(r3.Unit(r3.Vec{X: 0.3, Y: -0.2, Z: 0.9}), r3.Unit(r3.Vec{X: 1, Y: 2, Z: 0.5}), 0.7),
		NewObservation(r3.Unit(r3.Vec{X: -0.5, Y: 0.1, Z: 0.4}), r3.Unit(r3.Vec{X: 0.2, Y: -1, Z: 0.1}), 0.3),
	}
	axes := map[Permutation]r3.Vec{PermX: ex, PermY: ey, PermZ: ez}

	for perm, axis := range axes {
		rotated := make([]Observation, len(obs))
		for i, o := range obs {
			rotated[i] = o
			rotated[i].Reference = r3.Rotate(o.Reference, math.Pi, axis)
		}
		want := profileMatrix(rotated, PermNone)
		got := profileMatrix(obs, perm)
		assert.True(t, mat.EqualApprox(want, got, 1e-12), "rotation %s", perm)
	}
}

func TestAdjugateTrace(t *testing.T) {
	M := mat.NewDense(3, 3, []float64{
		4, 1, -2,
		1, 3, 0.5,
		-2, 0.5, 5,
	})
	var inv mat.Dense
	require.NoError(t, inv.Inverse(M))
	assert.InDelta(t, mat.Det(M)*mat.Trace(&inv), adjugateTrace(M), 1e-9)

	// defined for singular matrices too
	assert.Equal(t, -1.0, adjugateTrace(mat.NewDiagDense(3, []float64{1, 0, -1})))
}

func TestDavenport_RootAtWeightSum(t *testing.T) {
	q := axisAngle(r3.Vec{X: 0.3, Y: 1, Z: -0.7}, 1.9)
	obs := observe(q, []r3.Vec{{X: 1, Y: 0.5}, {Y: -0.3, Z: 1}}, []float64{0.25, 0.75})

	k := newDavenport(profileMatrix(obs, PermNone))
	assert.InDelta(t, 0, k.f(1), 1e-12)
	assert.NotZero(t, k.df(1))

	lambda, steps, err := k.refine(1, MaxNewtonIterations, NewtonTolerance)
	require.NoError(t, err)
	assert.InDelta(t, 1, lambda, 1e-12)
	assert.LessOrEqual(t, steps, 2)
}

func TestDavenport_RefineConverges(t *testing.T) {
	// f(x) = x^4 - 5x^2 + 4 = (x^2-1)(x^2-4), largest root 2
	k := &davenport{a: 4, b: 1, c: 0, d: 0}
	require.Equal(t, 4.0, k.a*k.b+k.c*k.sigma-k.d)

	lambda, steps, err := k.refine(2.2, MaxNewtonIterations, NewtonTolerance)
	require.NoError(t, err)
	assert.InDelta(t, 2, lambda, 1e-12)
	assert.Greater(t, steps, 1)

	single, steps, err := k.refine(2.2, 1, NewtonTolerance)
	require.NoError(t, err)
	assert.Equal(t, 1, steps)
	assert.InDelta(t, 2.2-k.f(2.2)/k.df(2.2), single, 1e-15)
}

func TestDavenport_DegenerateNewtonStep(t *testing.T) {
	// f(x) = x^4 - 2x^2 + 0.5, f'(1) = 0 while f(1) != 0
	k := &davenport{a: 1, b: 1, c: 0, d: 0.5}
	_, _, err := k.refine(1, MaxNewtonIterations, NewtonTolerance)
	assert.ErrorIs(t, err, ErrDegenerateNewton)

	// a start point that is already a root is accepted as is
	k.d = 0
	lambda, steps, err := k.refine(1, MaxNewtonIterations, NewtonTolerance)
	require.NoError(t, err)
	assert.Equal(t, 1.0, lambda)
	assert.Zero(t, steps)
}

func TestDavenport_Rodrigues(t *testing.T) {
	// 90 degrees about z: e1 -> e2, e3 -> e3
	obs := []Observation{NewObservation(ey, ex, 0.5), NewObservation(ez, ez, 0.5)}
	k := newDavenport(profileMatrix(obs, PermNone))

	q, detY, err := k.rodrigues(1, DetYTolerance)
	require.NoError(t, err)
	assert.InDelta(t, 1, detY, 1e-12)
	assert.True(t, q.EqualApprox(Quat{0, 0, -math.Sqrt2 / 2, math.Sqrt2 / 2}, 1e-12), "got %v", q)

	// the x half turn maps this onto a half turn as well
	k = newDavenport(profileMatrix(obs, PermX))
	_, detY, err = k.rodrigues(1, DetYTolerance)
	assert.ErrorIs(t, err, ErrSingularY)
	assert.InDelta(t, 0, detY, 1e-12)
}

func TestCheckEigenvalue(t *testing.T) {
	assert.NoError(t, checkEigenvalue(1, 1))
	assert.NoError(t, checkEigenvalue(0, 1))
	assert.NoError(t, checkEigenvalue(1+1e-12, 1))

	for _, lambda := range []float64{-1.00275, 1.1, math.NaN(), math.Inf(1)} {
		assert.ErrorIs(t, checkEigenvalue(lambda, 1), ErrDegenerateNewton, "lambda %g", lambda)
	}

	// Newton-Raphson started below the largest root ends on a wrong one
	k := &davenport{a: 4, b: 1}
	lambda, _, err := k.refine(-2.2, MaxNewtonIterations, NewtonTolerance)
	require.NoError(t, err)
	assert.InDelta(t, -2, lambda, 1e-12)
	assert.ErrorIs(t, checkEigenvalue(lambda, 2.2), ErrDegenerateNewton)
}

func TestUndetermined(t *testing.T) {
	assert.NoError(t, undetermined([]Observation{NewObservation(ex, ex, 1), NewObservation(ey, ey, 1)}))

	// nearly parallel directions are still independent
	assert.NoError(t, undetermined([]Observation{
		NewObservation(ex, ex, 1),
		NewObservation(r3.Unit(r3.Vec{X: 1, Y: 1e-6}), r3.Unit(r3.Vec{X: 1, Z: 1e-6}), 1),
	}))

	// a zero vector carries no direction
	err := undetermined([]Observation{NewObservation(ex, ex, 1), NewObservation(r3.Vec{}, ey, 1)})
	assert.ErrorIs(t, err, ErrCollinear)
	assert.ErrorContains(t, err, "body")

	err = undetermined([]Observation{NewObservation(ex, ey, 1), NewObservation(ey, r3.Scale(-2, ey), 1)})
	assert.ErrorIs(t, err, ErrCollinear)
	assert.ErrorContains(t, err, "reference")
}
