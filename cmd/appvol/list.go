package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nik9play/appvol/pkg/appvol"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List audio sessions on the default output device",
	Long: `List every audio session on the default output device, with the program
name appvol matches against, the owning process and the current volume.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	infos, err := setter.ListSessions()
	if errors.Is(err, appvol.ErrSubsystemInit) {
		fmt.Fprintln(cmd.OutOrStdout(), appvol.StatusMessage(localizer, appvol.StatusSubsystemInitFailed, "", 0))
		return err
	}

	// partial listings are still useful
	if err != nil {
		logger.Named("main").Warnw("Some sessions could not be listed", "error", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-4s %-32s %-8s %-24s %s\n", "IDX", "PROGRAM", "PID", "PROCESS", "VOLUME")

	for _, info := range infos {
		fmt.Fprintf(out, "%-4d %-32s %-8d %-24s %.2f\n",
			info.Index, info.ProgramName, info.ProcessID, info.ProcessName, info.Volume)
	}

	return nil
}
