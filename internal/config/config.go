// Package config loads the attdet command configuration from a YAML file and
// ATTDET_* environment variables.
package config

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/knei-knurow/attdet"
	"github.com/knei-knurow/attdet/internal/logging"
	"github.com/knei-knurow/attdet/internal/serialport"
)

// Config is the root configuration.
type Config struct {
	Log          logging.Config         `mapstructure:"log"`
	Solver       SolverConfig           `mapstructure:"solver"`
	Observations []ObservationConfig    `mapstructure:"observations"`
	Estimator    EstimatorConfig        `mapstructure:"estimator"`
	Serial       serialport.PortOptions `mapstructure:"serial"`
}

// SolverConfig mirrors the attdet.Solver settings.
type SolverConfig struct {
	NewtonIterations int     `mapstructure:"newton_iterations"`
	NewtonTolerance  float64 `mapstructure:"newton_tolerance"`
	DetYTolerance    float64 `mapstructure:"det_y_tolerance"`
	Selection        string  `mapstructure:"selection"`
	Parallel         bool    `mapstructure:"parallel"`
}

// ObservationConfig is one vector pair given in the configuration file.
type ObservationConfig struct {
	Body      []float64 `mapstructure:"body"`
	Reference []float64 `mapstructure:"reference"`
	Weight    float64   `mapstructure:"weight"`
}

// EstimatorConfig configures the acc + mag streaming estimator.
type EstimatorConfig struct {
	AccReference []float64 `mapstructure:"acc_reference"`
	MagReference []float64 `mapstructure:"mag_reference"`
	AccWeight    float64   `mapstructure:"acc_weight"`
	MagWeight    float64   `mapstructure:"mag_weight"`
}

// Validate checks the configuration for values the estimator cannot use.
func (c *Config) Validate() error {
	var errs []error

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if !logging.ValidFormat(c.Log.Format) {
		errs = append(errs, fmt.Errorf("log.format: unknown format %q", c.Log.Format))
	}

	if c.Solver.NewtonIterations < 1 {
		errs = append(errs, fmt.Errorf("solver.newton_iterations must be at least 1, got %d", c.Solver.NewtonIterations))
	}
	if !(c.Solver.NewtonTolerance >= 0) {
		errs = append(errs, fmt.Errorf("solver.newton_tolerance must be non-negative, got %g", c.Solver.NewtonTolerance))
	}
	if !(c.Solver.DetYTolerance >= 0) {
		errs = append(errs, fmt.Errorf("solver.det_y_tolerance must be non-negative, got %g", c.Solver.DetYTolerance))
	}
	if _, err := attdet.ParseSelection(c.Solver.Selection); err != nil {
		errs = append(errs, fmt.Errorf("solver.selection: %w", err))
	}

	for i, o := range c.Observations {
		if _, err := o.Observation(); err != nil {
			errs = append(errs, fmt.Errorf("observations[%d]: %w", i, err))
		}
	}

	if _, err := vector(c.Estimator.AccReference); err != nil {
		errs = append(errs, fmt.Errorf("estimator.acc_reference: %w", err))
	}
	if _, err := vector(c.Estimator.MagReference); err != nil {
		errs = append(errs, fmt.Errorf("estimator.mag_reference: %w", err))
	}
	if !(c.Estimator.AccWeight > 0) || !(c.Estimator.MagWeight > 0) {
		errs = append(errs, fmt.Errorf("estimator weights must be positive, got %g and %g",
			c.Estimator.AccWeight, c.Estimator.MagWeight))
	}

	if _, err := c.Serial.Normalize(); err != nil {
		errs = append(errs, fmt.Errorf("serial: %w", err))
	}

	return errors.Join(errs...)
}

// NewSolver returns a solver configured from c, logging to logger.
func (c SolverConfig) NewSolver(logger *zap.Logger) (*attdet.Solver, error) {
	sel, err := attdet.ParseSelection(c.Selection)
	if err != nil {
		return nil, err
	}
	s := attdet.NewSolver()
	s.SetNewtonIterations(c.NewtonIterations)
	s.SetNewtonTolerance(c.NewtonTolerance)
	s.SetDetYTolerance(c.DetYTolerance)
	s.SetSelection(sel)
	s.SetParallel(c.Parallel)
	s.SetLogger(logger)
	return s, nil
}

// Observation converts o to an attdet.Observation.
func (o ObservationConfig) Observation() (attdet.Observation, error) {
	body, err := vector(o.Body)
	if err != nil {
		return attdet.Observation{}, fmt.Errorf("body: %w", err)
	}
	ref, err := vector(o.Reference)
	if err != nil {
		return attdet.Observation{}, fmt.Errorf("reference: %w", err)
	}
	if !(o.Weight >= 0) {
		return attdet.Observation{}, fmt.Errorf("weight must be non-negative, got %g", o.Weight)
	}
	return attdet.NewObservation(body, ref, o.Weight), nil
}

// ObservationList converts every configured observation.
func (c *Config) ObservationList() ([]attdet.Observation, error) {
	obs := make([]attdet.Observation, len(c.Observations))
	for i, o := range c.Observations {
		var err error
		if obs[i], err = o.Observation(); err != nil {
			return nil, fmt.Errorf("observations[%d]: %w", i, err)
		}
	}
	return obs, nil
}

// NewEstimator returns a streaming estimator configured from c using solver.
func (c EstimatorConfig) NewEstimator(solver *attdet.Solver) (*attdet.Estimator, error) {
	e := attdet.NewEstimator(solver)

	acc, err := vector(c.AccReference)
	if err != nil {
		return nil, fmt.Errorf("acc reference: %w", err)
	}
	mag, err := vector(c.MagReference)
	if err != nil {
		return nil, fmt.Errorf("mag reference: %w", err)
	}
	if err := e.SetAccReference(acc.X, acc.Y, acc.Z); err != nil {
		return nil, err
	}
	if err := e.SetMagReference(mag.X, mag.Y, mag.Z); err != nil {
		return nil, err
	}
	e.SetWeights(c.AccWeight, c.MagWeight)
	return e, nil
}

// vector converts a three element list to a finite r3.Vec.
func vector(v []float64) (r3.Vec, error) {
	if len(v) != 3 {
		return r3.Vec{}, fmt.Errorf("want 3 components, got %d", len(v))
	}
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return r3.Vec{}, fmt.Errorf("non-finite component in %v", v)
		}
	}
	return r3.Vec{X: v[0], Y: v[1], Z: v[2]}, nil
}
