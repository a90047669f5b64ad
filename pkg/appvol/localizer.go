package appvol

import (
	"embed"
	"fmt"

	"github.com/jeandeaual/go-locale"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

//go:embed lang/active.*.toml
var langFS embed.FS

const fallbackLanguage = "en"

var statusMessages = map[Status]*i18n.Message{
	StatusSuccess: {
		ID:    "StatusSuccess",
		Other: "Set {{.Program}} volume to {{.Volume}}",
	},
	StatusProgramNotFound: {
		ID:    "StatusProgramNotFound",
		Other: "No audio session found for {{.Program}}",
	},
	StatusInvalidArgument: {
		ID:    "StatusInvalidArgument",
		Other: "Invalid volume {{.Volume}}, expected a value between 0.0 and 1.0",
	},
	StatusSubsystemInitFailed: {
		ID:    "StatusSubsystemInitFailed",
		Other: "Failed to connect to the audio subsystem",
	},
}

// NewLocalizer builds a localizer for the given language tag. "auto" (or empty) picks the system language
func NewLocalizer(logger *zap.SugaredLogger, lang string) (*i18n.Localizer, error) {
	logger = logger.Named("i18n")

	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	if _, err := bundle.LoadMessageFileFS(langFS, "lang/active.ru.toml"); err != nil {
		logger.Errorw("Failed to open ru message file", "error", err)
		return nil, fmt.Errorf("load message file: %w", err)
	}

	if lang == "" || lang == languageAuto {
		systemLang, err := locale.GetLanguage()
		if err != nil {
			logger.Warnw("Failed to get system locale, falling back", "error", err, "fallback", fallbackLanguage)
			systemLang = fallbackLanguage
		}

		lang = systemLang
	}

	logger.Debugf("Selected language: %s", lang)

	return i18n.NewLocalizer(bundle, lang, fallbackLanguage), nil
}

// newFallbackLocalizer renders only the english defaults, for components created before the configured language is known
func newFallbackLocalizer() *i18n.Localizer {
	return i18n.NewLocalizer(i18n.NewBundle(language.English), fallbackLanguage)
}

func localize(localizer *i18n.Localizer, id string, other string, data map[string]interface{}) string {
	return localizer.MustLocalize(&i18n.LocalizeConfig{
		DefaultMessage: &i18n.Message{ID: id, Other: other},
		TemplateData:   data,
	})
}

// StatusMessage describes the outcome of a volume change in the localizer's language
func StatusMessage(localizer *i18n.Localizer, status Status, programName string, volumeLevel float32) string {
	message, ok := statusMessages[status]
	if !ok {
		return status.String()
	}

	return localizer.MustLocalize(&i18n.LocalizeConfig{
		DefaultMessage: message,
		TemplateData: map[string]interface{}{
			"Program": programName,
			"Volume":  fmt.Sprintf("%.2f", volumeLevel),
		},
	})
}
