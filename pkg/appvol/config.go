package appvol

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/spf13/viper"
	"github.com/thoas/go-funk"
	"go.uber.org/zap"

	"github.com/nik9play/appvol/pkg/appvol/util"
	"github.com/nik9play/appvol/pkg/notify"
)

// CanonicalConfig provides application-wide access to configuration fields,
// as well as loading/file watching logic for appvol's configuration file
type CanonicalConfig struct {
	Language        string
	Notifications   bool
	ReapplyInterval time.Duration
	Presets         []Preset

	logger    *zap.SugaredLogger
	notifier  notify.Notifier
	localizer *i18n.Localizer
	lock      sync.Mutex

	configFilepath string
	userConfig     *viper.Viper

	reloadConsumers    []chan bool
	stopWatcherChannel chan bool
	stopOnce           sync.Once
}

// Preset pins a program to a volume level
type Preset struct {
	Program string  `mapstructure:"program"`
	Volume  float32 `mapstructure:"volume"`
}

const (
	userConfigFilepath = "config.yaml"

	userConfigName = "config"
	userConfigType = "yaml"
	userConfigPath = "."

	configKeyLanguage        = "language"
	configKeyNotifications   = "notifications"
	configKeyReapplyInterval = "reapply_interval"
	configKeyPresets         = "presets"

	languageAuto = "auto"

	// editors tend to write a file more than once per save
	minTimeBetweenReloadAttempts = time.Millisecond * 500

	// give the editor a moment to flush the new contents before reading them
	delayBetweenEventAndReload = time.Millisecond * 50
)

// ErrConfigNotFound is returned by Load when the config file doesn't exist
var ErrConfigNotFound = errors.New("config file not found")

// NewConfig creates a config instance for the given file path.
// An empty path means config.yaml in the working directory
func NewConfig(logger *zap.SugaredLogger, notifier notify.Notifier, configPath string) (*CanonicalConfig, error) {
	logger = logger.Named("config")

	cc := &CanonicalConfig{
		logger:             logger,
		notifier:           notifier,
		localizer:          newFallbackLocalizer(),
		reloadConsumers:    []chan bool{},
		stopWatcherChannel: make(chan bool),
	}

	userConfig := viper.New()

	if configPath != "" {
		userConfig.SetConfigFile(configPath)
		cc.configFilepath = configPath
	} else {
		userConfig.SetConfigName(userConfigName)
		userConfig.SetConfigType(userConfigType)
		userConfig.AddConfigPath(userConfigPath)
		cc.configFilepath = userConfigFilepath
	}

	userConfig.SetDefault(configKeyLanguage, languageAuto)
	userConfig.SetDefault(configKeyNotifications, true)
	userConfig.SetDefault(configKeyReapplyInterval, time.Duration(0))
	userConfig.SetDefault(configKeyPresets, []interface{}{})

	cc.userConfig = userConfig

	// until Load succeeds, expose the defaults
	if err := cc.populateFromVipers(); err != nil {
		return nil, fmt.Errorf("populate config defaults: %w", err)
	}

	logger.Debugw("Created config instance", "path", cc.configFilepath)

	return cc, nil
}

// Load reads appvol's config file from disk and tries to parse it
func (cc *CanonicalConfig) Load() error {
	cc.logger.Debugw("Attempting to load config file", "path", cc.configFilepath)

	if !util.FileExists(cc.configFilepath) {
		cc.logger.Warnw("Config file not found", "path", cc.configFilepath)
		return fmt.Errorf("load %s: %w", cc.configFilepath, ErrConfigNotFound)
	}

	if err := cc.userConfig.ReadInConfig(); err != nil {
		cc.logger.Warnw("Viper failed to read user config", "error", err)

		if strings.Contains(err.Error(), "yaml:") {
			cc.notify("ConfigInvalidTitle", "Invalid configuration!",
				"ConfigInvalidDescription", "Please make sure {{.Path}} is in a valid YAML format.")
		} else {
			cc.notify("ConfigLoadErrorTitle", "Error loading configuration!",
				"ConfigLoadErrorDescription", "Please check appvol's logs for more details.")
		}

		return fmt.Errorf("read user config: %w", err)
	}

	if err := cc.populateFromVipers(); err != nil {
		cc.logger.Warnw("Failed to populate config fields", "error", err)
		return fmt.Errorf("populate config fields: %w", err)
	}

	cc.logger.Info("Loaded config successfully")
	cc.logger.Infow("Config values",
		"language", cc.Language,
		"notifications", cc.Notifications,
		"reapplyInterval", cc.ReapplyInterval,
		"presets", cc.Presets)

	return nil
}

// CurrentPresets returns a copy of the presets from the most recent successful load
func (cc *CanonicalConfig) CurrentPresets() []Preset {
	cc.lock.Lock()
	defer cc.lock.Unlock()

	presets := make([]Preset, len(cc.Presets))
	copy(presets, cc.Presets)

	return presets
}

// CurrentReapplyInterval returns the reapply interval from the most recent successful load
func (cc *CanonicalConfig) CurrentReapplyInterval() time.Duration {
	cc.lock.Lock()
	defer cc.lock.Unlock()

	return cc.ReapplyInterval
}

// SetLocalizer switches notification text to the given localizer, usually once the configured language is known
func (cc *CanonicalConfig) SetLocalizer(localizer *i18n.Localizer) {
	if localizer == nil {
		return
	}

	cc.lock.Lock()
	defer cc.lock.Unlock()

	cc.localizer = localizer
}

// NotificationsEnabled reports whether desktop notifications are turned on in the most recent successful load
func (cc *CanonicalConfig) NotificationsEnabled() bool {
	cc.lock.Lock()
	defer cc.lock.Unlock()

	return cc.Notifications
}

// SubscribeToChanges allows external components to receive updates when the config is reloaded
func (cc *CanonicalConfig) SubscribeToChanges() chan bool {
	c := make(chan bool, 1)
	cc.reloadConsumers = append(cc.reloadConsumers, c)

	return c
}

// WatchConfigFileChanges starts watching for configuration file changes
// and attempts reloading the config when they happen. It blocks until StopWatchingConfigFile is called
func (cc *CanonicalConfig) WatchConfigFileChanges() {
	cc.logger.Debugw("Starting to watch user config file for changes", "path", cc.configFilepath)

	var lastAttemptedReload time.Time

	// viper owns the fsnotify watcher, the cooldown is still ours
	cc.userConfig.OnConfigChange(func(event fsnotify.Event) {
		if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
			return
		}

		// viper can't unregister its watcher, so ignore whatever arrives after we stop
		select {
		case <-cc.stopWatcherChannel:
			return
		default:
		}

		now := time.Now()
		if lastAttemptedReload.Add(minTimeBetweenReloadAttempts).After(now) {
			return
		}
		lastAttemptedReload = now

		cc.logger.Debugw("Config file modified, attempting reload", "event", event)

		<-time.After(delayBetweenEventAndReload)

		if err := cc.Load(); err != nil {
			cc.logger.Warnw("Failed to reload config file", "error", err)
			return
		}

		// subscribers report the outcome of a reload themselves
		cc.logger.Info("Reloaded config successfully")
		cc.onConfigReloaded()
	})
	cc.userConfig.WatchConfig()

	<-cc.stopWatcherChannel
	cc.logger.Debug("Stopping user config file watcher")
}

// StopWatchingConfigFile signals our filesystem watcher to stop
func (cc *CanonicalConfig) StopWatchingConfigFile() {
	cc.stopOnce.Do(func() {
		close(cc.stopWatcherChannel)
	})
}

func (cc *CanonicalConfig) populateFromVipers() error {
	var rawPresets []Preset

	if err := cc.userConfig.UnmarshalKey(configKeyPresets, &rawPresets); err != nil {
		return fmt.Errorf("parse presets: %w", err)
	}

	reapplyInterval := cc.userConfig.GetDuration(configKeyReapplyInterval)
	if reapplyInterval < 0 {
		cc.logger.Warnw("Invalid reapply interval specified, disabling", "invalidValue", reapplyInterval)
		reapplyInterval = 0
	}

	presets := cc.validPresets(rawPresets)

	cc.lock.Lock()
	defer cc.lock.Unlock()

	cc.Language = cc.userConfig.GetString(configKeyLanguage)
	cc.Notifications = cc.userConfig.GetBool(configKeyNotifications)
	cc.ReapplyInterval = reapplyInterval
	cc.Presets = presets

	return nil
}

func (cc *CanonicalConfig) validPresets(rawPresets []Preset) []Preset {
	if len(rawPresets) == 0 {
		return []Preset{}
	}

	return funk.Filter(rawPresets, func(p Preset) bool {
		if p.Program == "" {
			cc.logger.Warnw("Ignoring preset without a program name", "preset", p)
			return false
		}

		if !ValidVolume(p.Volume) {
			cc.logger.Warnw("Ignoring preset with out of range volume", "program", p.Program, "volume", p.Volume)
			return false
		}

		return true
	}).([]Preset)
}

func (cc *CanonicalConfig) notify(titleID, title, descriptionID, description string) {
	if cc.notifier == nil {
		return
	}

	cc.lock.Lock()
	localizer := cc.localizer
	cc.lock.Unlock()

	data := map[string]interface{}{"Path": cc.configFilepath}
	cc.notifier.Notify(localize(localizer, titleID, title, data), localize(localizer, descriptionID, description, data))
}

func (cc *CanonicalConfig) onConfigReloaded() {
	cc.logger.Debug("Notifying consumers about configuration reload")

	for _, consumer := range cc.reloadConsumers {
		select {
		case consumer <- true:
		default:
		}
	}
}
