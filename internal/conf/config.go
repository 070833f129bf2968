// Package conf loads and validates the application settings.
package conf

import (
	"fmt"
	"sync"

	"github.com/spf13/viper"

	"github.com/aordonez-dev/unimarc-ingest/internal/errors"
)

// InputSettings describes where the raw hydration documents come from.
type InputSettings struct {
	Path string // combined corpus file or directory of raw per-product JSON files
}

// SQLiteSettings holds the SQLite output configuration.
type SQLiteSettings struct {
	Enabled bool
	Path    string
}

// MySQLSettings holds the MySQL output configuration.
type MySQLSettings struct {
	Enabled  bool
	Username string
	Password string
	Host     string
	Port     string
	Database string
}

// OutputSettings selects the persistence target, if any.
type OutputSettings struct {
	SQLite SQLiteSettings
	MySQL  MySQLSettings
}

// LogSettings controls optional file logging.
type LogSettings struct {
	Enabled bool
	Path    string
	Level   string // debug, info, warn, error
}

// Settings is the root configuration for the ingestion pipeline.
type Settings struct {
	Debug  bool
	Input  InputSettings
	Output OutputSettings
	Log    LogSettings
}

var (
	settingsInstance *Settings
	settingsMutex    sync.Mutex
)

// Load reads the configuration file (if present), applies defaults and
// returns validated settings.
func Load() (*Settings, error) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	settings := &Settings{}

	if err := initViper(); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("error validating settings: %w", err)
	}

	settingsInstance = settings
	return settingsInstance, nil
}

// Setting returns the loaded settings instance, or nil before Load.
func Setting() *Settings {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()
	return settingsInstance
}

func initViper() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.config/unimarc-ingest")

	setDefaultConfig()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			// No config file is fine, defaults plus flags apply.
			return nil
		}
		return fmt.Errorf("fatal error reading config file: %w", err)
	}
	return nil
}

// ValidateSettings checks cross-field constraints that viper cannot express.
func ValidateSettings(settings *Settings) error {
	if settings.Output.SQLite.Enabled && settings.Output.MySQL.Enabled {
		return errors.Newf("only one database output may be enabled at a time").
			Component("conf").
			Category(errors.CategoryConfiguration).
			Build()
	}
	if settings.Output.SQLite.Enabled && settings.Output.SQLite.Path == "" {
		return errors.Newf("sqlite output enabled but no path configured").
			Component("conf").
			Category(errors.CategoryConfiguration).
			Build()
	}
	if settings.Output.MySQL.Enabled {
		if settings.Output.MySQL.Host == "" || settings.Output.MySQL.Database == "" {
			return errors.Newf("mysql output enabled but host or database missing").
				Component("conf").
				Category(errors.CategoryConfiguration).
				Build()
		}
	}
	switch settings.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return errors.Newf("unknown log level %q", settings.Log.Level).
			Component("conf").
			Category(errors.CategoryConfiguration).
			Build()
	}
	return nil
}
