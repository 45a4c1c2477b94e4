package main

import (
	"github.com/spf13/cobra"
)

func newValidateCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check a config file without starting the game",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			source := flags.configFile
			if source == "" {
				source = "built-in defaults"
			}
			cmd.Printf("%s: ok (%d levels, %d sounds)\n", source, len(cfg.Levels), len(cfg.Sounds))
			return nil
		},
	}
}
