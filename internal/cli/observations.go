package cli

import (
	"fmt"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/knei-knurow/attdet"
)

// parseObservation parses "bx,by,bz/rx,ry,rz[/w]". The weight defaults to 1.
func parseObservation(s string) (attdet.Observation, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 && len(parts) != 3 {
		return attdet.Observation{}, fmt.Errorf("observation %q: want body/reference[/weight]", s)
	}
	body, err := parseVec(parts[0])
	if err != nil {
		return attdet.Observation{}, fmt.Errorf("observation %q: body: %w", s, err)
	}
	ref, err := parseVec(parts[1])
	if err != nil {
		return attdet.Observation{}, fmt.Errorf("observation %q: reference: %w", s, err)
	}
	weight := 1.0
	if len(parts) == 3 {
		if weight, err = strconv.ParseFloat(strings.TrimSpace(parts[2]), 64); err != nil {
			return attdet.Observation{}, fmt.Errorf("observation %q: weight: %w", s, err)
		}
	}
	return attdet.NewObservation(body, ref, weight), nil
}

func parseVec(s string) (r3.Vec, error) {
	fields := strings.Split(s, ",")
	if len(fields) != 3 {
		return r3.Vec{}, fmt.Errorf("want 3 components, got %d", len(fields))
	}
	var v [3]float64
	for i, f := range fields {
		x, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return r3.Vec{}, err
		}
		v[i] = x
	}
	return r3.Vec{X: v[0], Y: v[1], Z: v[2]}, nil
}

// observations returns the observations given on the command line, or the
// configured ones when there are none.
func (a *app) observations(flags []string) ([]attdet.Observation, error) {
	if len(flags) == 0 {
		return a.cfg.ObservationList()
	}
	obs := make([]attdet.Observation, len(flags))
	for i, s := range flags {
		var err error
		if obs[i], err = parseObservation(s); err != nil {
			return nil, err
		}
	}
	return obs, nil
}
