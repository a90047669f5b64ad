package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nik9play/appvol/pkg/appvol"
)

var setCmd = &cobra.Command{
	Use:   "set <program> <volume>",
	Short: "Set a program's volume",
	Long: `Set the volume of the first audio session belonging to <program>.

The program name is matched exactly (including case) against the executable
file name of each session on the default output device.

Examples:
  # Set Chrome to half volume
  appvol set chrome.exe 0.5

  # Mute Spotify
  appvol set Spotify.exe 0

Flags go before <program>: everything after it is taken as an argument, so a
negative volume is reported as out of range rather than as an unknown flag.`,
	Args: cobra.ExactArgs(2),
	RunE: runSet,
}

func init() {
	rootCmd.AddCommand(setCmd)

	setCmd.Flags().SetInterspersed(false)
}

func runSet(cmd *cobra.Command, args []string) error {
	program := args[0]

	level, err := parseVolume(args[1])
	if err != nil {
		return err
	}

	err = setter.Set(program, level)
	status := appvol.StatusFromError(err)

	fmt.Fprintln(cmd.OutOrStdout(), appvol.StatusMessage(localizer, status, program, level))

	if status != appvol.StatusSuccess {
		return fmt.Errorf("set %s volume (%s): %w", program, status, err)
	}

	return nil
}

// parseVolume reads a volume argument. Numbers too large for a float32 come back as ±Inf
// so the setter rejects them as out of range like any other bad level
func parseVolume(arg string) (float32, error) {
	level, err := strconv.ParseFloat(arg, 32)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, fmt.Errorf("parse volume %q: %w", arg, err)
	}

	return float32(level), nil
}
