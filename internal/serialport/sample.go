package serialport

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// ErrMalformedLine is returned for lines that are not a sensor sample.
var ErrMalformedLine = errors.New("serialport: malformed sample line")

// Sample is one line of sensor output: "ax,ay,az,gx,gy,gz,mx,my,mz".
type Sample struct {
	Acc, Gyro, Mag r3.Vec
}

// ParseSample parses a sample line. Surrounding whitespace and a trailing
// terminator such as ';' or '.' are ignored.
func ParseSample(line string) (Sample, error) {
	line = strings.TrimSpace(line)
	line = strings.TrimRight(line, ";.")

	segments := strings.Split(line, ",")
	if len(segments) != 9 {
		return Sample{}, fmt.Errorf("%w: want 9 fields, got %d", ErrMalformedLine, len(segments))
	}

	var v [9]float64
	for i, seg := range segments {
		f, err := strconv.ParseFloat(strings.TrimSpace(seg), 64)
		if err != nil {
			return Sample{}, fmt.Errorf("%w: field %d: %v", ErrMalformedLine, i, err)
		}
		v[i] = f
	}

	return Sample{
		Acc:  r3.Vec{X: v[0], Y: v[1], Z: v[2]},
		Gyro: r3.Vec{X: v[3], Y: v[4], Z: v[5]},
		Mag:  r3.Vec{X: v[6], Y: v[7], Z: v[8]},
	}, nil
}
