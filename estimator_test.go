package attdet

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

const gravity = 9.81

// measure returns the acc and mag readings of e's references at attitude q.
func measure(e *Estimator, q Quat) (acc, mag r3.Vec) {
	return r3.Scale(gravity, q.Rotate(e.AccReference())), r3.Scale(0.3, q.Rotate(e.MagReference()))
}

func TestEstimator_Defaults(t *testing.T) {
	e := NewEstimator(nil)
	assert.Equal(t, ez, e.AccReference())
	assert.Equal(t, ex, e.MagReference())
	acc, mag := e.Weights()
	assert.Equal(t, 0.6, acc)
	assert.Equal(t, 0.4, mag)
	assert.Equal(t, Identity(), e.Attitude())
	assert.Zero(t, e.Lambda())
	assert.Zero(t, e.Loss())
	assert.Equal(t, MaxNewtonIterations, e.Solver().NewtonIterations())
}

func TestEstimator_UpdateIdentity(t *testing.T) {
	e := NewEstimator(nil)
	require.NoError(t, e.Update(0, 0, gravity, 0.3, 0, 0))
	assert.True(t, e.Attitude().EqualApprox(Identity(), tol), "got %v", e.Attitude())
	assert.InDelta(t, 1, e.Lambda(), 1e-9)
	assert.InDelta(t, 0, e.Loss(), 1e-9)

	detY, perm := e.Conditioning()
	assert.Equal(t, PermNone, perm)
	assert.Greater(t, detY, 0.0)
}

func TestEstimator_UpdateRotated(t *testing.T) {
	e := NewEstimator(nil)
	require.NoError(t, e.SetMagReference(0.4, 0, 0.9))

	tests := []struct {
		name string
		q    Quat
		// angles are compared only away from the wrap-around at 180 degrees
		angles bool
	}{
		{"tilted", QuatFromEulerZYX(0.5, -0.3, 0.2), true},
		{"steep", QuatFromEulerZYX(-2.9, 1.1, -0.7), true},
		{"half turn about z", axisAngle(ez, math.Pi), false},
		{"half turn about x", axisAngle(ex, math.Pi), false},
	}
	for _, tt := range tests {
		q := tt.q
		acc, mag := measure(e, q)
		require.NoError(t, e.Update(acc.X, acc.Y, acc.Z, mag.X, mag.Y, mag.Z), tt.name)
		assert.True(t, e.Attitude().EqualApprox(q, tol), "%s: want %v, got %v", tt.name, q, e.Attitude())
		assert.InDelta(t, 0, e.Loss(), 1e-9, tt.name)
		if !tt.angles {
			continue
		}

		yaw, pitch, roll := q.EulerZYX()
		assert.InDelta(t, yaw, e.EulerYaw(), tol, tt.name)
		assert.InDelta(t, pitch, e.EulerPitch(), tol, tt.name)
		assert.InDelta(t, roll, e.EulerRoll(), tol, tt.name)

		fyaw, fpitch, froll, hemi := q.Fused()
		assert.InDelta(t, fyaw, e.FusedYaw(), tol, tt.name)
		assert.InDelta(t, fpitch, e.FusedPitch(), tol, tt.name)
		assert.InDelta(t, froll, e.FusedRoll(), tol, tt.name)
		assert.Equal(t, hemi, e.FusedHemi(), tt.name)
	}
}

func TestEstimator_BadMeasurements(t *testing.T) {
	e := NewEstimator(nil)
	e.SetAttitudeEuler(0.3, 0.2, 0.1)
	want := e.Attitude()

	err := e.Update(0, 0, 0, 1, 0, 0)
	assert.ErrorIs(t, err, ErrBadMeasurement)

	err = e.Update(0, 0, 1, math.Inf(1), 0, 0)
	assert.ErrorIs(t, err, ErrBadMeasurement)

	err = e.Update(0, 0, 1, 0, 0, -2)
	assert.ErrorIs(t, err, ErrCollinear)

	assert.Equal(t, want, e.Attitude())

	require.NoError(t, e.SetMagReference(0, 0, 5))
	err = e.Update(0, 0, 1, 1, 0, 0)
	assert.ErrorIs(t, err, ErrCollinear)
}

func TestEstimator_References(t *testing.T) {
	e := NewEstimator(nil)
	assert.ErrorIs(t, e.SetAccReference(0, 0, 0), ErrBadMeasurement)
	assert.ErrorIs(t, e.SetMagReference(math.NaN(), 0, 0), ErrBadMeasurement)
	assert.Equal(t, ez, e.AccReference())
	assert.Equal(t, ex, e.MagReference())

	require.NoError(t, e.SetAccReference(0, 0, -9.81))
	requireVecNear(t, r3.Vec{Z: -1}, e.AccReference())
}

func TestEstimator_Settings(t *testing.T) {
	e := NewEstimator(nil)

	e.SetWeights(-1, 1)
	acc, mag := e.Weights()
	assert.Equal(t, []float64{0.6, 0.4}, []float64{acc, mag})
	e.SetWeights(2, 1)
	acc, mag = e.Weights()
	assert.Equal(t, []float64{2, 1}, []float64{acc, mag})

	e.SetAttitude(Quat{})
	assert.Equal(t, Identity(), e.Attitude())
	e.SetAttitude(Quat{0, 0, 2, 0})
	assert.Equal(t, Quat{0, 0, 1, 0}, e.Attitude())

	e.SetAttitudeEuler(0.4, -0.1, 0.2)
	assert.InDelta(t, 0.4, e.EulerYaw(), 1e-12)
	assert.InDelta(t, -0.1, e.EulerPitch(), 1e-12)
	assert.InDelta(t, 0.2, e.EulerRoll(), 1e-12)

	e.SetAttitudeFused(0.4, -0.1, 0.2, false)
	assert.InDelta(t, 0.4, e.FusedYaw(), 1e-12)
	assert.False(t, e.FusedHemi())

	require.NoError(t, e.SetAccReference(1, 0, 0))
	require.NoError(t, e.SetMagReference(0, 0, 1))
	require.NoError(t, e.Update(0, 0, 1, 0, 1, 0))
	require.NotZero(t, e.Lambda())
	e.Reset()
	assert.Equal(t, Identity(), e.Attitude())
	assert.Zero(t, e.Lambda())
	assert.Equal(t, ex, e.AccReference())
	acc, mag = e.Weights()
	assert.Equal(t, 2.0, acc)
	assert.Equal(t, 1.0, mag)

	e.ResetAll()
	assert.Equal(t, ez, e.AccReference())
	acc, _ = e.Weights()
	assert.Equal(t, 0.6, acc)
}

func TestEstimator_SharedSolver(t *testing.T) {
	s := NewSolver()
	s.SetNewtonIterations(1)
	e := NewEstimator(s)
	assert.Same(t, s, e.Solver())

	q := QuatFromEulerZYX(1, 0.2, -0.4)
	acc, mag := measure(e, q)
	require.NoError(t, e.Update(acc.X, acc.Y, acc.Z, mag.X, mag.Y, mag.Z))
	assert.True(t, e.Attitude().EqualApprox(q, tol))
}
