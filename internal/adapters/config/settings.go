package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/zerr"
)

// Settings keys, as written in config.yaml. Each can be overridden by RIG_<KEY>.
const (
	KeyOverwriteDirty   = "overwrite_dirty"
	KeyFetchConcurrency = "fetch_concurrency"
	KeyHTTPTimeout      = "http_timeout"
	KeyCacheTTL         = "cache_ttl"
	KeyVersionScheme    = "version_scheme"
	KeyLogFormat        = "log_format"
	KeyLogLevel         = "log_level"
)

const (
	settingsFileName = "config"
	settingsFileType = "yaml"
	envPrefix        = "RIG"
)

// Settings loads the user settings from a config directory and the environment.
type Settings struct {
	Dir string
}

// NewSettings creates a settings loader reading config.yaml from dir.
func NewSettings(dir string) *Settings {
	return &Settings{Dir: dir}
}

// DefaultSettingsDir returns $RIG_CONFIG_DIR, or rig under the user config directory.
func DefaultSettingsDir() string {
	if dir := os.Getenv("RIG_CONFIG_DIR"); dir != "" {
		return dir
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "rig")
}

// Load reads the settings. A missing config file is not an error.
func (s *Settings) Load() (domain.Settings, error) {
	defaults := domain.DefaultSettings()

	v := viper.New()
	v.SetDefault(KeyOverwriteDirty, defaults.OverwriteDirty)
	v.SetDefault(KeyFetchConcurrency, defaults.FetchConcurrency)
	v.SetDefault(KeyHTTPTimeout, defaults.HTTPTimeout)
	v.SetDefault(KeyCacheTTL, defaults.CacheTTL)
	v.SetDefault(KeyVersionScheme, defaults.VersionScheme)
	v.SetDefault(KeyLogFormat, defaults.LogFormat)
	v.SetDefault(KeyLogLevel, strings.ToLower(defaults.LogLevel.String()))

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if s != nil && s.Dir != "" {
		v.SetConfigName(settingsFileName)
		v.SetConfigType(settingsFileType)
		v.AddConfigPath(s.Dir)

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return domain.Settings{}, zerr.With(errors.Join(domain.ErrSettingsLoadFailed, err), "dir", s.Dir)
			}
		}
	}

	settings := domain.Settings{
		OverwriteDirty:   v.GetBool(KeyOverwriteDirty),
		FetchConcurrency: v.GetInt(KeyFetchConcurrency),
		HTTPTimeout:      v.GetDuration(KeyHTTPTimeout),
		CacheTTL:         v.GetDuration(KeyCacheTTL),
		VersionScheme:    v.GetString(KeyVersionScheme),
		LogFormat:        v.GetString(KeyLogFormat),
		LogLevel:         domain.ParseLogLevel(v.GetString(KeyLogLevel)),
	}

	if err := validate(settings); err != nil {
		return domain.Settings{}, err
	}
	return settings, nil
}

func validate(s domain.Settings) error {
	invalid := func(key string, value any) error {
		return zerr.With(zerr.With(zerr.Wrap(domain.ErrSettingsLoadFailed, "invalid value"), "key", key), "value", value)
	}

	if s.FetchConcurrency < 1 {
		return invalid(KeyFetchConcurrency, s.FetchConcurrency)
	}
	if s.HTTPTimeout <= 0 {
		return invalid(KeyHTTPTimeout, s.HTTPTimeout)
	}
	if s.CacheTTL < 0 {
		return invalid(KeyCacheTTL, s.CacheTTL)
	}
	if _, err := domain.ComparatorFor(s.VersionScheme); err != nil {
		return invalid(KeyVersionScheme, s.VersionScheme)
	}
	if s.LogFormat != domain.LogFormatPretty && s.LogFormat != domain.LogFormatJSON {
		return invalid(KeyLogFormat, s.LogFormat)
	}
	return nil
}
