package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/knei-knurow/attdet"
	"github.com/knei-knurow/attdet/internal/serialport"
)

func newStreamCommand(a *app) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "stream",
		Short: "Estimate the attitude of every sample read from a serial port",
		Long: "stream reads \"ax,ay,az,gx,gy,gz,mx,my,mz\" lines from the serial port (or from\n" +
			"stdin with --port -) and prints the attitude solved from each accelerometer and\n" +
			"magnetometer pair. The gyroscope readings are not used.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := a.logger.Named("stream")

			solver, err := a.cfg.Solver.NewSolver(logger.Named("quest"))
			if err != nil {
				return err
			}
			e, err := a.cfg.Estimator.NewEstimator(solver)
			if err != nil {
				return err
			}

			opts := a.cfg.Serial
			if cmd.Flags().Changed("port") {
				opts.Port = port
			}

			var r io.Reader
			if opts.Port == "-" {
				r = cmd.InOrStdin()
			} else {
				p, err := serialport.Open(opts)
				if err != nil {
					return err
				}
				defer p.Close()
				r = p
				logger.Info("serial port opened", zap.String("port", opts.Port))
			}

			out := cmd.OutOrStdout()
			samples := 0
			err = serialport.Read(cmd.Context(), r, logger, func(s serialport.Sample) error {
				samples++
				if err := e.Update(s.Acc.X, s.Acc.Y, s.Acc.Z, s.Mag.X, s.Mag.Y, s.Mag.Z); err != nil {
					if isSampleError(err) {
						logger.Warn("sample rejected", zap.Int("sample", samples), zap.Error(err))
						return nil
					}
					return err
				}
				return estimatorAttitude(e).write(out, a.opts.OutputFormat)
			})
			logger.Info("stream finished", zap.Int("samples", samples))
			if err != nil && !errors.Is(err, cmd.Context().Err()) {
				return fmt.Errorf("stream: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "serial port device, or - for stdin (overrides serial.port)")
	return cmd
}

// isSampleError reports whether err only invalidates the current sample.
func isSampleError(err error) bool {
	return errors.Is(err, attdet.ErrBadMeasurement) ||
		errors.Is(err, attdet.ErrCollinear) ||
		errors.Is(err, attdet.ErrIndeterminate)
}

func estimatorAttitude(e *attdet.Estimator) attitude {
	at := newAttitude(e.Attitude())
	lambda, loss := e.Lambda(), e.Loss()
	detY, perm := e.Conditioning()
	at.Lambda, at.Loss, at.DetY = &lambda, &loss, &detY
	at.Rotation = perm.String()
	return at
}
