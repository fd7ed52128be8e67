package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Settings holds the user-editable options persisted in settings.yaml.
// CLI flags take precedence over these values.
type Settings struct {
	// DataFile is the path of the vCard snapshot holding the contact book.
	DataFile string `yaml:"data_file" validate:"required"`

	// Language selects the locale used for user-facing messages.
	Language string `yaml:"language" validate:"oneof=en uk"`

	// ReminderDays is the default lookahead window of the "birthdays" command.
	ReminderDays int `yaml:"reminder_days" validate:"min=0,max=366"`

	// ServerPort is the port of the optional calendar feed server.
	ServerPort int `yaml:"server_port" validate:"min=1,max=65535"`

	// ReminderTrigger is an ISO-8601 duration used for VALARM triggers.
	// Empty disables alarms in exported calendars.
	ReminderTrigger string `yaml:"reminder_trigger" validate:"omitempty,isoduration"`
}

var (
	settingsValidate *validator.Validate
	isoDurationRe    = regexp.MustCompile(ISODurationPattern)
)

func init() {
	settingsValidate = validator.New()
	_ = settingsValidate.RegisterValidation("isoduration", func(fl validator.FieldLevel) bool {
		return isoDurationRe.MatchString(fl.Field().String())
	})
}

// DefaultSettings returns the settings written on first run.
// The snapshot is placed inside dir.
func DefaultSettings(dir string) Settings {
	return Settings{
		DataFile:     filepath.Join(dir, DataFileName),
		Language:     DefaultLanguage,
		ReminderDays: DefaultReminderDays,
		ServerPort:   DefaultPort,
	}
}

// AppConfigDir returns the per-user directory holding settings and the snapshot.
func AppConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", ErrConfigDir, err)
	}
	return filepath.Join(base, AppID), nil
}

// Validate checks every field against its declared rules.
func (s Settings) Validate() error {
	if err := settingsValidate.Struct(s); err != nil {
		return fmt.Errorf("%s: %w", ErrSettingsInvalid, err)
	}
	return nil
}

// LoadSettings reads the settings file at path.
// A missing file is created with DefaultSettings rooted next to it.
// Keys absent from the file keep their default values.
func LoadSettings(path string) (Settings, error) {
	defaults := DefaultSettings(filepath.Dir(path))

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := writeSettings(path, defaults); err != nil {
			return Settings{}, err
		}
		slog.Info(MsgSettingsNew,
			LogKeyComponent, CompSettings,
			LogKeyFile, path,
		)
		return defaults, nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("%s: %w", ErrSettingsRead, err)
	}

	s := defaults
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("%s: %w", ErrSettingsParse, err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func writeSettings(path string, s Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), DirPermUserRWX); err != nil {
		return fmt.Errorf("%s: %w", ErrCreateDir, err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrSettingsWrite, err)
	}
	if err := os.WriteFile(path, data, FilePermUserRW); err != nil {
		return fmt.Errorf("%s: %w", ErrSettingsWrite, err)
	}
	return nil
}
