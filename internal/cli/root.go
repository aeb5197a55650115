// Package cli implements the attdet command line.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/knei-knurow/attdet/internal/config"
	"github.com/knei-knurow/attdet/internal/logging"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
)

// RootOptions holds global CLI flags.
type RootOptions struct {
	ConfigPath   string
	LogLevel     string
	OutputFormat string
}

// app carries the dependencies initialised before any subcommand runs.
type app struct {
	opts   RootOptions
	cfg    *config.Config
	logger *zap.Logger
}

// NewRootCommand creates the root command with its global flags and subcommands.
func NewRootCommand() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "attdet",
		Short: "Attitude determination from vector observations",
		Long: "attdet solves Wahba's problem with the QUEST estimator, made robust against\n" +
			"attitudes near 180 degrees by sequential rotations, and with TRIAD.",
		Version: fmt.Sprintf("%s (commit: %s)", Version, GitCommit),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&a.opts.ConfigPath, "config", "c", "", "config file path (YAML)")
	pf.StringVar(&a.opts.LogLevel, "log-level", "", "log level (debug, info, warn, error); overrides the config file")
	pf.StringVarP(&a.opts.OutputFormat, "output", "o", "text", "output format (text, json)")

	cmd.AddCommand(
		newQuestCommand(a),
		newTriadCommand(a),
		newStreamCommand(a),
	)
	return cmd
}

// init loads the configuration and builds the logger.
func (a *app) init(cmd *cobra.Command) error {
	if a.opts.OutputFormat != "text" && a.opts.OutputFormat != "json" {
		return fmt.Errorf("unknown output format %q: expected text or json", a.opts.OutputFormat)
	}

	cfg, err := config.Load(a.opts.ConfigPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = a.opts.LogLevel
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}
