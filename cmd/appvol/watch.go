package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nik9play/appvol/pkg/appvol"
	"github.com/nik9play/appvol/pkg/appvol/util"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep the configured presets applied",
	Long: `Apply the configured presets, then apply them again whenever the config
file changes and, when reapply_interval is set, on that interval.

Runs until interrupted.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if configErr != nil {
		return fmt.Errorf("load config: %w", configErr)
	}

	watcher, err := appvol.NewWatcher(logger, setter, cfg, notifier, localizer)
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	interruptChannel := util.SetupCloseHandler()

	go func() {
		select {
		case signal := <-interruptChannel:
			logger.Named("main").Debugw("Interrupted", "signal", signal)
			cancel()
		case <-ctx.Done():
		}
	}()

	return watcher.Run(ctx)
}
