package appvol

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"go.uber.org/zap"

	"github.com/nik9play/appvol/pkg/notify"
)

// Watcher keeps configured presets applied: once on start, after every config reload,
// and periodically when a reapply interval is configured
type Watcher struct {
	logger    *zap.SugaredLogger
	setter    *VolumeSetter
	config    *CanonicalConfig
	notifier  notify.Notifier
	localizer *i18n.Localizer

	lock            sync.Mutex
	subsystemFailed bool
}

const (
	applyReasonStartup  = "startup"
	applyReasonReload   = "config reload"
	applyReasonInterval = "interval"
)

// NewWatcher creates a Watcher
func NewWatcher(
	logger *zap.SugaredLogger,
	setter *VolumeSetter,
	config *CanonicalConfig,
	notifier notify.Notifier,
	localizer *i18n.Localizer,
) (*Watcher, error) {
	if setter == nil || config == nil {
		return nil, errors.New("create watcher: setter and config are required")
	}

	// without a configured language, fall back to the default (english) messages
	if localizer == nil {
		localizer = newFallbackLocalizer()
	}

	w := &Watcher{
		logger:    logger.Named("watcher"),
		setter:    setter,
		config:    config,
		notifier:  notifier,
		localizer: localizer,
	}

	w.logger.Debug("Created watcher instance")

	return w, nil
}

// Run blocks until ctx is done
func (w *Watcher) Run(ctx context.Context) error {
	w.logger.Info("Run loop starting")

	changes := w.config.SubscribeToChanges()

	go w.config.WatchConfigFileChanges()
	defer w.config.StopWatchingConfigFile()

	w.applyPresets(applyReasonStartup)

	interval := w.config.CurrentReapplyInterval()
	ticker, tick := newReapplyTicker(interval)

	defer func() {
		if ticker != nil {
			ticker.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("Context done, stopping")
			return nil

		case <-changes:
			if newInterval := w.config.CurrentReapplyInterval(); newInterval != interval {
				w.logger.Debugw("Reapply interval changed", "from", interval, "to", newInterval)

				if ticker != nil {
					ticker.Stop()
				}

				interval = newInterval
				ticker, tick = newReapplyTicker(interval)
			}

			w.applyPresets(applyReasonReload)

		case <-tick:
			w.applyPresets(applyReasonInterval)
		}
	}
}

// a nil channel never fires, which is what we want when reapplying is off
func newReapplyTicker(interval time.Duration) (*time.Ticker, <-chan time.Time) {
	if interval <= 0 {
		return nil, nil
	}

	ticker := time.NewTicker(interval)
	return ticker, ticker.C
}

func (w *Watcher) applyPresets(reason string) []PresetResult {
	w.lock.Lock()
	defer w.lock.Unlock()

	presets := w.config.CurrentPresets()
	w.logger.Debugw("Applying presets", "reason", reason, "count", len(presets))

	results := w.setter.ApplyPresets(presets)

	applied, missing, subsystemFailures := 0, 0, 0

	for _, result := range results {
		switch result.Status {
		case StatusSuccess:
			applied++
		case StatusProgramNotFound:
			missing++
			w.logger.Debugw("Preset program not running", "program", result.Program, "error", result.Err)
		case StatusSubsystemInitFailed:
			subsystemFailures++
		default:
			w.logger.Warnw("Failed to apply preset", "program", result.Program, "status", result.Status, "error", result.Err)
		}
	}

	w.logger.Infow("Applied presets", "reason", reason, "applied", applied, "missing", missing)

	// only tell the user once per outage
	if subsystemFailures > 0 && !w.subsystemFailed {
		w.notify("SubsystemUnavailableTitle", "Audio subsystem unavailable",
			"SubsystemUnavailableDescription", "appvol can't connect to the audio subsystem, presets were not applied", nil)
	}
	w.subsystemFailed = subsystemFailures > 0

	if reason == applyReasonReload && subsystemFailures == 0 {
		w.notify("PresetsAppliedTitle", "Presets applied",
			"PresetsAppliedDescription", "Applied: {{.Applied}}, not running: {{.Missing}}",
			map[string]interface{}{"Applied": applied, "Missing": missing})
	}

	return results
}

func (w *Watcher) notify(titleID, title, descriptionID, description string, data map[string]interface{}) {
	if w.notifier == nil {
		return
	}

	w.notifier.Notify(localize(w.localizer, titleID, title, nil), localize(w.localizer, descriptionID, description, data))
}
