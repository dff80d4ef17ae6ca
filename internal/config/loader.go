package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rileyhilliard/gpuwatch/internal/errors"
	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the project-local config file name.
	ConfigFileName = ".gpuwatch.yaml"
	// GlobalConfigDir is the directory for the per-user config.
	GlobalConfigDir = ".config/gpuwatch"
	// GlobalConfigFile is the per-user config file name.
	GlobalConfigFile = "config.yaml"
	// EnvPrefix prefixes environment overrides, e.g. GPUWATCH_ENDPOINT.
	EnvPrefix = "GPUWATCH"
)

// Load reads config from path. An empty path means "search" (see Find); when
// no file is found the defaults are used. Environment variables override
// file values in both cases.
func Load(path string) (*Config, error) {
	found, err := Find(path)
	if err != nil {
		return nil, err
	}

	v := newViper()
	if found != "" {
		v.SetConfigFile(found)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to read config file",
				"Check that "+found+" exists and is valid YAML")
		}
	}

	return parseConfig(v, found)
}

// Find locates the config file using the search order:
// 1. Explicit path (from --config flag)
// 2. .gpuwatch.yaml in current directory
// 3. ~/.config/gpuwatch/config.yaml
//
// Returns the path to the config file, or empty string if not found.
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct, or run 'gpuwatch init' to create one")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	if cwd, err := os.Getwd(); err == nil {
		local := filepath.Join(cwd, ConfigFileName)
		if _, err := os.Stat(local); err == nil {
			return local, nil
		}
	}

	if global := GlobalConfigPath(); global != "" {
		if _, err := os.Stat(global); err == nil {
			return global, nil
		}
	}

	return "", nil
}

// GlobalConfigPath returns ~/.config/gpuwatch/config.yaml, or "" when the
// home directory cannot be determined.
func GlobalConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
}

// newViper returns a viper instance with defaults registered for every key,
// which also makes every key eligible for environment overrides.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	def := DefaultConfig()
	v.SetDefault("version", def.Version)
	v.SetDefault("endpoint", def.Endpoint)
	v.SetDefault("poll_interval", def.PollInterval.String())
	v.SetDefault("fetch_timeout", def.FetchTimeout.String())
	v.SetDefault("history_cap", def.HistoryCap)
	v.SetDefault("parse_errors", def.ParseErrors)
	v.SetDefault("stale_after", def.StaleAfter.String())
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.file", def.Log.File)
	return v
}

// parseConfig converts viper config to our Config struct and validates it.
func parseConfig(v *viper.Viper, path string) (*Config, error) {
	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		where := "your environment overrides"
		if path != "" {
			where = path
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the values in "+where)
	}

	cfg.Endpoint = strings.TrimSpace(cfg.Endpoint)
	cfg.ParseErrors = strings.ToLower(strings.TrimSpace(cfg.ParseErrors))
	cfg.Log.File = expandHome(cfg.Log.File)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
