package serialport

import (
	"bufio"
	"context"
	"errors"
	"io"

	"go.uber.org/zap"
)

// Read scans r line by line and calls fn with every sample until r is
// exhausted, ctx is done, or fn returns an error. Lines that do not parse
// are skipped.
//
// Read returns nil at the end of input and ctx.Err() on cancellation.
func Read(ctx context.Context, r io.Reader, logger *zap.Logger, fn func(Sample) error) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	scan := bufio.NewScanner(r)

	lineChan := make(chan string)
	scanErrChan := make(chan error, 1)

	// The blocking scan.Scan runs in its own goroutine so that the outer loop
	// can still observe cancellation.
	go func() {
		defer close(lineChan)
		for scan.Scan() {
			select {
			case lineChan <- scan.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scan.Err(); err != nil {
			scanErrChan <- err
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case line, ok := <-lineChan:
			if !ok {
				select {
				case err := <-scanErrChan:
					if errors.Is(err, io.EOF) {
						return nil
					}
					return err
				default:
					return nil
				}
			}
			sample, err := ParseSample(line)
			if err != nil {
				logger.Debug("skipping line", zap.String("line", line), zap.Error(err))
				continue
			}
			if err := fn(sample); err != nil {
				return err
			}
		}
	}
}
