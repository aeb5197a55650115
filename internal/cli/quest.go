package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/knei-knurow/attdet"
)

func newQuestCommand(a *app) *cobra.Command {
	var (
		obsFlags   []string
		candidates bool
		selection  string
		iterations int
		parallel   bool
	)

	cmd := &cobra.Command{
		Use:   "quest",
		Short: "Estimate the attitude from two or more vector observations with QUEST",
		Long: "quest estimates the attitude from the observations given with --obs, or from\n" +
			"the observations section of the config file when there are none.\n\n" +
			"An observation is written body/reference[/weight], e.g. 0,1,0/1,0,0/0.5.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			obs, err := a.observations(obsFlags)
			if err != nil {
				return err
			}

			sc := a.cfg.Solver
			if cmd.Flags().Changed("selection") {
				sc.Selection = selection
			}
			if cmd.Flags().Changed("newton-iterations") {
				sc.NewtonIterations = iterations
			}
			if cmd.Flags().Changed("parallel") {
				sc.Parallel = parallel
			}
			solver, err := sc.NewSolver(a.logger.Named("quest"))
			if err != nil {
				return err
			}

			res, err := solver.Estimate(obs)
			if err != nil {
				return fmt.Errorf("quest: %w", err)
			}

			a.logger.Info("attitude estimated",
				zap.Int("observations", len(obs)),
				zap.Stringer("rotation", res.Perm),
				zap.Float64("loss", res.Loss()))

			return newAttitude(res.Quat).
				withResult(res, candidates).
				write(cmd.OutOrStdout(), a.opts.OutputFormat)
		},
	}

	f := cmd.Flags()
	f.StringArrayVar(&obsFlags, "obs", nil, "observation body/reference[/weight] (repeatable)")
	f.BoolVar(&candidates, "candidates", false, "print all four sequential rotation candidates")
	f.StringVar(&selection, "selection", attdet.SelectDefault.String(), "candidate selection rule (magnitude, signed)")
	f.IntVar(&iterations, "newton-iterations", attdet.MaxNewtonIterations, "maximum Newton-Raphson steps (1 for the classical single step)")
	f.BoolVar(&parallel, "parallel", false, "solve the candidates concurrently")
	return cmd
}
