// Package main provides the appvol command line tool.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nik9play/appvol/pkg/appvol"
	"github.com/nik9play/appvol/pkg/notify"
)

// Build-time variables (set via ldflags)
var (
	gitCommit  string
	versionTag string
	buildType  string
)

var (
	globalOpts struct {
		verbose    bool
		configPath string
	}

	logger    *zap.SugaredLogger
	cfg       *appvol.CanonicalConfig
	configErr error
	notifier  *configNotifier
	localizer *i18n.Localizer
	setter    *appvol.VolumeSetter
)

var rootCmd = &cobra.Command{
	Use:   "appvol",
	Short: "Per-program volume control for the default output device",
	Long: `appvol sets the volume of a running program's audio session on the
default output device, matching programs by executable file name (e.g. chrome.exe).

Volume levels are scalars between 0.0 (silent) and 1.0 (full volume).`,
	Version:           versionString(),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// configNotifier drops notifications while they're turned off in the config
type configNotifier struct {
	next   notify.Notifier
	config *appvol.CanonicalConfig
}

func (cn *configNotifier) Notify(title string, message string) {
	if cn.config != nil && !cn.config.NotificationsEnabled() {
		return
	}

	cn.next.Notify(title, message)
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Show verbose logs (useful for debugging session matching)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.configPath, "config", "",
		"Path to config file (default: ./config.yaml)")
}

func versionString() string {
	if versionTag == "" && gitCommit == "" {
		return "dev"
	}

	versionIdentifier := versionTag
	if versionIdentifier == "" {
		versionIdentifier = gitCommit
	}

	return fmt.Sprintf("%s-%s", buildType, versionIdentifier)
}

func setup(cmd *cobra.Command, args []string) error {
	var err error

	if logger, err = appvol.NewLogger(buildType, globalOpts.verbose); err != nil {
		return fmt.Errorf("create logger: %w", err)
	}

	named := logger.Named("main")
	named.Debug("Created logger")

	if versionTag != "" || gitCommit != "" {
		named.Infow("Version info", "gitCommit", gitCommit, "versionTag", versionTag, "buildType", buildType)
	}

	if globalOpts.verbose {
		named.Debug("Verbose mode enabled, all log messages will be shown")
	}

	toast, err := notify.NewToastNotifier(logger)
	if err != nil {
		return fmt.Errorf("create notifier: %w", err)
	}
	notifier = &configNotifier{next: toast}

	if cfg, err = appvol.NewConfig(logger, notifier, globalOpts.configPath); err != nil {
		return fmt.Errorf("create config: %w", err)
	}
	notifier.config = cfg

	// set and list work fine on defaults, apply and watch check configErr themselves
	if configErr = cfg.Load(); configErr != nil {
		if errors.Is(configErr, appvol.ErrConfigNotFound) {
			named.Debugw("Running without a config file", "error", configErr)
		} else {
			named.Warnw("Failed to load configuration, using defaults", "error", configErr)
		}
	}

	if localizer, err = appvol.NewLocalizer(logger, cfg.Language); err != nil {
		return fmt.Errorf("create localizer: %w", err)
	}
	cfg.SetLocalizer(localizer)

	subsystem, err := appvol.NewSubsystem(logger)
	if err != nil {
		return fmt.Errorf("create audio subsystem: %w", err)
	}

	if setter, err = appvol.NewVolumeSetter(logger, subsystem); err != nil {
		return fmt.Errorf("create volume setter: %w", err)
	}

	return nil
}
