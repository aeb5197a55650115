package attdet

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Selection is the rule used to pick among the sequential rotation candidates.
type Selection int

const (
	// Pick the candidate with the largest |det(Y)| (default).
	SelectMagnitude Selection = iota

	// Pick the candidate with the largest signed det(Y), as the classical
	// formulation does.
	SelectSigned

	// Total number of selection rules.
	SelectionCount

	// Default selection rule (SelectMagnitude).
	SelectDefault = SelectMagnitude
)

func (s Selection) String() string {
	switch s {
	case SelectMagnitude:
		return "magnitude"
	case SelectSigned:
		return "signed"
	}
	return fmt.Sprintf("Selection(%d)", int(s))
}

// ParseSelection is the inverse of Selection.String.
func ParseSelection(s string) (Selection, error) {
	switch s {
	case "magnitude", "":
		return SelectMagnitude, nil
	case "signed":
		return SelectSigned, nil
	}
	return SelectDefault, fmt.Errorf("unknown selection rule %q", s)
}

// Candidate is the outcome of solving under one sequential rotation.
type Candidate struct {
	Perm   Permutation
	Quat   Quat    // attitude expressed in the original frame; zero if Err is set
	DetY   float64 // conditioning of the Rodrigues parameter solve
	Lambda float64 // refined eigenvalue
	Err    error   // non-nil if this candidate is unusable
}

// Result is the attitude chosen by the estimator.
type Result struct {
	Quat       Quat
	DetY       float64
	Lambda     float64
	Lambda0    float64 // sum of the observation weights
	Perm       Permutation
	Candidates [PermCount]Candidate // indexed by Permutation
}

// Loss returns the value of Wahba's loss function at the optimum,
// Lambda0 - Lambda.
func (r Result) Loss() float64 {
	return r.Lambda0 - r.Lambda
}

// Solver is a QUEST attitude estimator. The zero value is not usable, use
// NewSolver. A Solver is safe for concurrent use once configured.
type Solver struct {
	newtonIterations int
	newtonTolerance  float64
	detYTolerance    float64
	selection        Selection
	parallel         bool
	logger           *zap.Logger
}

// NewSolver returns a solver with the default configuration.
func NewSolver() *Solver {
	s := &Solver{}
	s.ResetAll()
	return s
}

var defaultSolver = NewSolver()

// Estimate runs the QUEST estimator with the default configuration.
func Estimate(obs ...Observation) (Result, error) {
	return defaultSolver.Estimate(obs)
}

// Estimate returns the attitude that best aligns the reference vectors of
// obs with their body vectors.
//
// The problem is solved four times: as given, and with the reference frame
// rotated by 180 degrees about each axis. The classical Rodrigues parameters
// used internally are singular for attitudes of 180 degrees, and each of these
// sequential rotations moves that singularity somewhere else. The candidate
// with the best conditioned linear solve wins. The error wraps
// ErrIndeterminate (and every candidate's error) if all four fail, or
// ErrIndeterminate and ErrCollinear, without trying any candidate, if the
// weighted directions in either frame are all (anti)parallel.
func (s *Solver) Estimate(obs []Observation) (Result, error) {
	var res Result
	if len(obs) == 0 {
		return res, ErrNoObservations
	}
	for i, o := range obs {
		if err := o.validate(); err != nil {
			return res, fmt.Errorf("observation %d: %w", i, err)
		}
	}

	lambda0 := weightSum(obs)
	res.Lambda0 = lambda0

	// Without two independent directions in each frame the rotation about
	// the common direction is free; no candidate can be trusted.
	if cause := undetermined(obs); lambda0 > 0 && cause != nil {
		for _, perm := range Permutations {
			res.Candidates[perm] = Candidate{Perm: perm, Lambda: lambda0, Err: &CandidateError{Perm: perm, Err: cause}}
		}
		s.logger.Debug("quest indeterminate", zap.Error(cause))
		return res, fmt.Errorf("%w: %w", ErrIndeterminate, cause)
	}

	if s.parallel {
		var g errgroup.Group
		for _, perm := range Permutations {
			perm := perm
			g.Go(func() error {
				res.Candidates[perm] = s.attempt(obs, lambda0, perm)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for _, perm := range Permutations {
			res.Candidates[perm] = s.attempt(obs, lambda0, perm)
		}
	}

	best := -1
	for i, c := range res.Candidates {
		s.logger.Debug("quest candidate",
			zap.Stringer("rotation", c.Perm),
			zap.Float64("det_y", c.DetY),
			zap.Float64("lambda", c.Lambda),
			zap.Error(c.Err))
		if c.Err != nil {
			continue
		}
		if best < 0 || s.better(c.DetY, res.Candidates[best].DetY) {
			best = i
		}
	}

	if best < 0 {
		errs := make([]error, 0, len(res.Candidates))
		for _, c := range res.Candidates {
			errs = append(errs, c.Err)
		}
		return res, fmt.Errorf("%w: %w", ErrIndeterminate, errors.Join(errs...))
	}

	c := res.Candidates[best]
	q, err := c.Quat.Normalize()
	if err != nil {
		return res, fmt.Errorf("%w: %w", ErrIndeterminate, err)
	}
	res.Quat, res.DetY, res.Lambda, res.Perm = q, c.DetY, c.Lambda, c.Perm

	s.logger.Debug("quest selected",
		zap.Stringer("rotation", res.Perm),
		zap.Float64("det_y", res.DetY),
		zap.Float64s("quat", res.Quat[:]))
	return res, nil
}

// attempt builds and solves the problem under one sequential rotation.
func (s *Solver) attempt(obs []Observation, lambda0 float64, perm Permutation) Candidate {
	c := Candidate{Perm: perm, Lambda: lambda0}

	B := profileMatrix(obs, perm)
	if lambda0 == 0 || !informative(B) {
		c.Err = &CandidateError{Perm: perm, Err: ErrSingularProfile}
		return c
	}

	k := newDavenport(B)
	lambda, _, err := k.refine(lambda0, s.newtonIterations, s.newtonTolerance)
	c.Lambda = lambda
	if err == nil {
		err = checkEigenvalue(lambda, lambda0)
	}
	if err != nil {
		c.Err = &CandidateError{Perm: perm, Err: err}
		return c
	}

	q, detY, err := k.rodrigues(lambda, s.detYTolerance*lambda0*lambda0*lambda0)
	c.DetY = detY
	if err != nil {
		c.Err = &CandidateError{Perm: perm, Err: err}
		return c
	}

	c.Quat = permutationRules[perm].undo(q)
	return c
}

// better reports whether a candidate with det(Y) = d beats one with best.
// Ties keep the earlier candidate.
func (s *Solver) better(d, best float64) bool {
	if s.selection == SelectSigned {
		return d > best
	}
	return math.Abs(d) > math.Abs(best)
}
