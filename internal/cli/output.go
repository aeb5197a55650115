package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/knei-knurow/attdet"
)

// attitude is the printed form of one attitude solution.
type attitude struct {
	Quaternion attdet.Quat `json:"quaternion"`
	EulerXYZ   [3]float64  `json:"euler_xyz_deg"`
	Lambda     *float64    `json:"lambda,omitempty"`
	Loss       *float64    `json:"loss,omitempty"`
	Rotation   string      `json:"rotation,omitempty"`
	DetY       *float64    `json:"det_y,omitempty"`
	Candidates []candidate `json:"candidates,omitempty"`
}

// candidate fields that are not finite are left out, JSON cannot carry them.
type candidate struct {
	Rotation   string       `json:"rotation"`
	Quaternion *attdet.Quat `json:"quaternion,omitempty"`
	DetY       *float64     `json:"det_y,omitempty"`
	Lambda     *float64     `json:"lambda,omitempty"`
	Error      string       `json:"error,omitempty"`
}

func newAttitude(q attdet.Quat) attitude {
	roll, pitch, yaw := q.EulerXYZ()
	return attitude{
		Quaternion: q,
		EulerXYZ:   [3]float64{deg(roll), deg(pitch), deg(yaw)},
	}
}

// withResult adds the QUEST diagnostics of res.
func (at attitude) withResult(res attdet.Result, candidates bool) attitude {
	loss := res.Loss()
	at.Lambda = &res.Lambda
	at.Loss = &loss
	at.Rotation = res.Perm.String()
	at.DetY = &res.DetY
	if candidates {
		for _, c := range res.Candidates {
			cd := candidate{Rotation: c.Perm.String(), DetY: finite(c.DetY), Lambda: finite(c.Lambda)}
			if c.Err != nil {
				cd.Error = c.Err.Error()
			} else {
				q := c.Quat
				cd.Quaternion = &q
			}
			at.Candidates = append(at.Candidates, cd)
		}
	}
	return at
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func deg(rad float64) float64 {
	return rad * 180 / math.Pi
}

// write prints at in the given format.
func (at attitude) write(w io.Writer, format string) error {
	if format == "json" {
		return json.NewEncoder(w).Encode(at)
	}

	q := at.Quaternion
	if _, err := fmt.Fprintf(w, "quaternion: x=%.8f y=%.8f z=%.8f w=%.8f\n", q[0], q[1], q[2], q[3]); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "euler xyz:  roll=%.6f pitch=%.6f yaw=%.6f deg\n", at.EulerXYZ[0], at.EulerXYZ[1], at.EulerXYZ[2]); err != nil {
		return err
	}
	if at.Lambda != nil {
		if _, err := fmt.Fprintf(w, "lambda=%.10f loss=%.3e rotation=%s det_y=%.6e\n", *at.Lambda, *at.Loss, at.Rotation, *at.DetY); err != nil {
			return err
		}
	}
	for _, c := range at.Candidates {
		status := "ok"
		if c.Error != "" {
			status = c.Error
		}
		if _, err := fmt.Fprintf(w, "  %-4s det_y=%s lambda=%s %s\n", c.Rotation, optional(c.DetY, "%+.6e"), optional(c.Lambda, "%.10f"), status); err != nil {
			return err
		}
	}
	return nil
}

func optional(v *float64, verb string) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf(verb, *v)
}
