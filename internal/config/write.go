package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rileyhilliard/gpuwatch/internal/errors"
	"gopkg.in/yaml.v3"
)

// fileConfig mirrors Config with durations as strings, so the written file
// reads "1s" instead of a nanosecond count.
type fileConfig struct {
	Version      int       `yaml:"version"`
	Endpoint     string    `yaml:"endpoint"`
	PollInterval string    `yaml:"poll_interval"`
	FetchTimeout string    `yaml:"fetch_timeout"`
	HistoryCap   int       `yaml:"history_cap"`
	ParseErrors  string    `yaml:"parse_errors"`
	StaleAfter   string    `yaml:"stale_after,omitempty"`
	Log          LogConfig `yaml:"log"`
}

// Marshal renders cfg as YAML in the same shape Load reads.
func Marshal(cfg *Config) ([]byte, error) {
	fc := fileConfig{
		Version:      cfg.Version,
		Endpoint:     cfg.Endpoint,
		PollInterval: cfg.PollInterval.String(),
		FetchTimeout: cfg.FetchTimeout.String(),
		HistoryCap:   cfg.HistoryCap,
		ParseErrors:  cfg.ParseErrors,
		Log:          cfg.Log,
	}
	if cfg.StaleAfter > 0 {
		fc.StaleAfter = cfg.StaleAfter.String()
	}

	data, err := yaml.Marshal(&fc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// Write validates cfg and writes it to path. An existing file is only
// replaced when overwrite is true.
func Write(path string, cfg *Config, overwrite bool) error {
	if err := Validate(cfg); err != nil {
		return err
	}

	if _, err := os.Stat(path); err == nil && !overwrite {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Config file already exists: %s", path),
			"Use --force to overwrite")
	}

	data, err := Marshal(cfg)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Failed to render config", "")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to create config directory",
			"Check permissions on "+filepath.Dir(path))
	}

	header := []byte("# gpuwatch configuration\n")
	if err := os.WriteFile(path, append(header, data...), 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to write config file",
			"Check permissions on "+path)
	}
	return nil
}
