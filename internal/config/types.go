package config

import "time"

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Parse error policies for a batch of metrics.
const (
	// ParseErrorsAbort stops applying a batch at the first malformed value.
	// Lines already applied stay applied.
	ParseErrorsAbort = "abort"
	// ParseErrorsSkip drops the malformed line and keeps going.
	ParseErrorsSkip = "skip"
)

// Config represents the complete gpuwatch configuration file.
type Config struct {
	Version int `yaml:"version" mapstructure:"version"`

	// Endpoint is the URL serving GPU metrics in the text exposition format.
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`

	// PollInterval is the pause between the end of one cycle and the start
	// of the next.
	PollInterval time.Duration `yaml:"poll_interval" mapstructure:"poll_interval"`

	// FetchTimeout bounds a single GET against Endpoint.
	FetchTimeout time.Duration `yaml:"fetch_timeout" mapstructure:"fetch_timeout"`

	// HistoryCap is the maximum number of utilization samples kept per device.
	HistoryCap int `yaml:"history_cap" mapstructure:"history_cap"`

	// ParseErrors selects what happens to the rest of a batch when a line
	// carries a value that is not a number: "abort" or "skip".
	ParseErrors string `yaml:"parse_errors" mapstructure:"parse_errors"`

	// StaleAfter dims devices that have not reported for this long.
	// Zero disables the marker. Devices are never removed.
	StaleAfter time.Duration `yaml:"stale_after" mapstructure:"stale_after"`

	Log LogConfig `yaml:"log" mapstructure:"log"`
}

// LogConfig controls diagnostic logging. The terminal is owned by the
// dashboard, so logs only go to a file.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level" mapstructure:"level"`

	// File is where JSON log lines are appended. Empty disables logging.
	File string `yaml:"file" mapstructure:"file"`
}

// Defaults
const (
	DefaultEndpoint     = "http://localhost:9555/gpu/metric"
	DefaultPollInterval = time.Second
	DefaultFetchTimeout = 5 * time.Second
	DefaultHistoryCap   = 2000
)

// DefaultConfig returns a Config populated with default values.
func DefaultConfig() *Config {
	return &Config{
		Version:      CurrentConfigVersion,
		Endpoint:     DefaultEndpoint,
		PollInterval: DefaultPollInterval,
		FetchTimeout: DefaultFetchTimeout,
		HistoryCap:   DefaultHistoryCap,
		ParseErrors:  ParseErrorsAbort,
		StaleAfter:   0,
		Log: LogConfig{
			Level: "info",
		},
	}
}
