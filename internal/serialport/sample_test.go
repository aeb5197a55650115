package serialport

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestParseSample(t *testing.T) {
	got, err := ParseSample("0.16,-0.40,-9.40,0.01,0.02,-0.03,-4.00,-18.00,-20.00;\r\n")
	require.NoError(t, err)
	assert.Equal(t, Sample{
		Acc:  r3.Vec{X: 0.16, Y: -0.4, Z: -9.4},
		Gyro: r3.Vec{X: 0.01, Y: 0.02, Z: -0.03},
		Mag:  r3.Vec{X: -4, Y: -18, Z: -20},
	}, got)

	got, err = ParseSample(" 1, 2, 3, 4, 5, 6, 7, 8, 9 ")
	require.NoError(t, err)
	assert.Equal(t, r3.Vec{X: 7, Y: 8, Z: 9}, got.Mag)
}

func TestParseSample_Malformed(t *testing.T) {
	for _, line := range []string{
		"",
		"booting...",
		"1,2,3,4,5,6,7,8",
		"1,2,3,4,5,6,7,8,9,10",
		"1,2,3,4,x,6,7,8,9",
	} {
		_, err := ParseSample(line)
		assert.ErrorIs(t, err, ErrMalformedLine, "%q", line)
	}
}

func TestRead(t *testing.T) {
	input := strings.Join([]string{
		"garbage",
		"0,0,9.81,0,0,0,0.3,0,0",
		"1,2,3",
		"0,9.81,0,0,0,0,0,0,0.3.",
	}, "\n")

	core, logs := observer.New(zapcore.DebugLevel)
	var samples []Sample
	err := Read(context.Background(), strings.NewReader(input), zap.New(core), func(s Sample) error {
		samples = append(samples, s)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, r3.Vec{Z: 9.81}, samples[0].Acc)
	assert.Equal(t, r3.Vec{Z: 0.3}, samples[1].Mag)
	assert.Equal(t, 2, logs.FilterMessage("skipping line").Len())
}

func TestRead_CallbackError(t *testing.T) {
	stop := errors.New("stop")
	calls := 0
	err := Read(context.Background(), strings.NewReader("1,2,3,4,5,6,7,8,9\n1,2,3,4,5,6,7,8,9\n"), nil, func(Sample) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

// blockingReader never returns, like an idle serial port.
type blockingReader struct{ done chan struct{} }

func (r blockingReader) Read([]byte) (int, error) {
	<-r.done
	return 0, errors.New("closed")
}

func TestRead_Cancel(t *testing.T) {
	r := blockingReader{done: make(chan struct{})}
	defer close(r.done)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Read(ctx, r, nil, func(Sample) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}
