package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nik9play/appvol/pkg/appvol"
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply the configured presets once",
	Long: `Set every program listed under presets in the config file to its volume.

Programs that aren't running are reported and skipped.`,
	Args: cobra.NoArgs,
	RunE: runApply,
}

func init() {
	rootCmd.AddCommand(applyCmd)
}

func runApply(cmd *cobra.Command, args []string) error {
	if configErr != nil {
		return fmt.Errorf("load config: %w", configErr)
	}

	results := setter.ApplyPresets(cfg.CurrentPresets())

	failed := 0
	for _, result := range results {
		fmt.Fprintln(cmd.OutOrStdout(), appvol.StatusMessage(localizer, result.Status, result.Program, result.Volume))

		if result.Status != appvol.StatusSuccess {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d presets not applied", failed, len(results))
	}

	return nil
}
