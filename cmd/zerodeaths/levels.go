package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/zerodeaths/zerodeaths/internal/config"
)

// LevelSummary counts what a level places.
type LevelSummary struct {
	Number     int    `json:"number"`
	Name       string `json:"name"`
	Enemies    int    `json:"enemies"`
	Obstacles  int    `json:"obstacles"`
	Pickups    int    `json:"pickups"`
	Zones      int    `json:"zones"`
	Decorators int    `json:"decorators"`
	Layers     int    `json:"layers"`
}

func newLevelsCmd(flags *rootFlags) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "levels",
		Short: "List the configured levels",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			summaries := summarize(cfg)
			if jsonOutput {
				b, err := json.MarshalIndent(summaries, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to format JSON: %w", err)
				}
				cmd.Println(string(b))
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "#\tNAME\tENEMIES\tOBSTACLES\tPICKUPS\tZONES\tDECORATORS\tLAYERS")
			for _, s := range summaries {
				fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%d\t%d\t%d\n",
					s.Number, s.Name, s.Enemies, s.Obstacles, s.Pickups, s.Zones, s.Decorators, s.Layers)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output levels as JSON")

	return cmd
}

func summarize(cfg *config.Config) []LevelSummary {
	out := make([]LevelSummary, 0, len(cfg.Levels))
	for i, l := range cfg.Levels {
		out = append(out, LevelSummary{
			Number:     i + 1,
			Name:       l.Name,
			Enemies:    len(l.Enemies),
			Obstacles:  len(l.Obstacles),
			Pickups:    len(l.Pickups),
			Zones:      len(l.Zones),
			Decorators: len(l.Decorators),
			Layers:     len(l.Layers),
		})
	}
	return out
}
