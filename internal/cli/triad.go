package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/knei-knurow/attdet"
)

func newTriadCommand(a *app) *cobra.Command {
	var obsFlags []string

	cmd := &cobra.Command{
		Use:   "triad",
		Short: "Determine the attitude from exactly two vector observations with TRIAD",
		Long: "triad determines the attitude from two observations. The first one is matched\n" +
			"exactly, the second one only fixes the rotation about it. Weights are ignored.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			obs, err := a.observations(obsFlags)
			if err != nil {
				return err
			}
			if len(obs) != 2 {
				return fmt.Errorf("triad: want 2 observations, got %d", len(obs))
			}

			q, err := attdet.Triad(obs[0], obs[1])
			if err != nil {
				return fmt.Errorf("triad: %w", err)
			}
			return newAttitude(q).write(cmd.OutOrStdout(), a.opts.OutputFormat)
		},
	}

	cmd.Flags().StringArrayVar(&obsFlags, "obs", nil, "observation body/reference (exactly two, primary first)")
	return cmd
}
