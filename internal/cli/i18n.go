package cli

import (
	"embed"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-addressbook/internal/config"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

const (
	localeDir    = "locales"
	localePrefix = "active."
	localeSuffix = ".json"
)

// loadBundle reads every embedded locale once per process.
var loadBundle = sync.OnceValues(func() (*i18n.Bundle, []string) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir(localeDir)
	if err != nil {
		slog.Error(config.ErrLocalesAccess,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyError, err,
		)
		return bundle, nil
	}

	var langs []string
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, localePrefix) || !strings.HasSuffix(name, localeSuffix) {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		code := strings.TrimSuffix(strings.TrimPrefix(name, localePrefix), localeSuffix)
		if code == "" {
			slog.Warn(config.MsgLocaleBadName,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		if _, err := bundle.LoadMessageFileFS(localeFS, localeDir+"/"+name); err != nil {
			slog.Error(config.ErrLocaleLoad,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
				config.LogKeyError, err,
			)
			continue
		}
		langs = append(langs, code)
		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, code,
		)
	}
	return bundle, langs
})

// Translator renders user-facing messages in one language.
type Translator struct {
	localizer *i18n.Localizer
	lang      string
}

// NewTranslator selects lang, falling back to English for unknown tags.
func NewTranslator(lang string) *Translator {
	if lang == "" {
		lang = config.DefaultLanguage
	}
	bundle, _ := loadBundle()
	return &Translator{
		localizer: i18n.NewLocalizer(bundle, lang, config.DefaultLanguage),
		lang:      lang,
	}
}

// Languages lists the locale codes found in the embedded files.
func Languages() []string {
	_, langs := loadBundle()
	return langs
}

// Lang returns the requested language code.
func (t *Translator) Lang() string { return t.lang }

// Msg translates key with optional template data. A missing key renders as itself.
func (t *Translator) Msg(key string, data map[string]any) string {
	msg, err := t.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, key,
			config.LogKeyError, err,
		)
		return key
	}
	return msg
}

// EventSummary titles a calendar event; age 0 marks the birth year itself.
func (t *Translator) EventSummary(name string, age int) string {
	if age <= 0 {
		return t.Msg(config.TKeyEvtSummary, map[string]any{"Name": name})
	}
	return t.Msg(config.TKeyEvtSummaryAge, map[string]any{"Name": name, "Age": age})
}
