package main

import (
	"github.com/spf13/cobra"

	"github.com/zerodeaths/zerodeaths/internal/config"
)

// rootFlags are available to every subcommand.
type rootFlags struct {
	configFile string
	logLevel   string
}

// NewRootCmd creates the root command for the zerodeaths CLI.
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "zerodeaths",
		Short: "Zero Deaths - collect every pickup without dying",
		Long: `Zero Deaths is a small arcade game: steer through each level,
collect its pickups and avoid enemies and obstacles.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&flags.configFile, "config", "", "config file path (defaults built in)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "override the configured log level")

	cmd.AddCommand(newRunCmd(flags))
	cmd.AddCommand(newValidateCmd(flags))
	cmd.AddCommand(newLevelsCmd(flags))

	return cmd
}

// load reads the config file, or the defaults without one, and applies
// the global flag overrides.
func (f *rootFlags) load() (*config.Config, error) {
	cfg := config.Default()
	if f.configFile != "" {
		var err error
		if cfg, err = config.Load(f.configFile); err != nil {
			return nil, err
		}
	}
	if f.logLevel != "" {
		cfg.Game.LogLevel = f.logLevel
	}
	return cfg, nil
}
