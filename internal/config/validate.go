package config

import (
	"fmt"
	"net/url"

	"github.com/rileyhilliard/gpuwatch/internal/errors"
)

// MaxHistoryCap keeps one device's history within a sane memory bound.
const MaxHistoryCap = 1_000_000

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New(errors.ErrConfig,
			"Config is nil",
			"This is unexpected - try running the command again.")
	}

	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but gpuwatch only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Upgrade gpuwatch or lower the version field.")
	}

	if err := ValidateEndpoint(cfg.Endpoint); err != nil {
		return err
	}

	if cfg.PollInterval <= 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("poll_interval must be positive, got %s", cfg.PollInterval),
			"Use a duration like '1s' or '500ms'.")
	}

	if cfg.FetchTimeout <= 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("fetch_timeout must be positive, got %s", cfg.FetchTimeout),
			"Use a duration like '5s'.")
	}

	if cfg.HistoryCap < 1 || cfg.HistoryCap > MaxHistoryCap {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("history_cap must be between 1 and %d, got %d", MaxHistoryCap, cfg.HistoryCap),
			"The default of 2000 samples covers about half an hour at 1s polling.")
	}

	switch cfg.ParseErrors {
	case ParseErrorsAbort, ParseErrorsSkip:
	default:
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("parse_errors must be %q or %q, got %q", ParseErrorsAbort, ParseErrorsSkip, cfg.ParseErrors),
			"Leave it unset to keep the default ('abort').")
	}

	if cfg.StaleAfter < 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("stale_after can't be negative, got %s", cfg.StaleAfter),
			"Use 0 to disable the stale marker.")
	}
	if cfg.StaleAfter > 0 && cfg.StaleAfter < cfg.PollInterval {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("stale_after (%s) is shorter than poll_interval (%s)", cfg.StaleAfter, cfg.PollInterval),
			"Every device would look stale between polls. Use at least "+(2*cfg.PollInterval).String()+".")
	}

	switch cfg.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown log level %q", cfg.Log.Level),
			"Use one of: debug, info, warn, error.")
	}

	return nil
}

// ValidateEndpoint checks that endpoint is an absolute http(s) URL.
func ValidateEndpoint(endpoint string) error {
	if endpoint == "" {
		return errors.New(errors.ErrConfig,
			"No metrics endpoint configured",
			"Set 'endpoint' in your config or pass --endpoint http://host:port/path")
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Endpoint %q is not a valid URL", endpoint),
			"Use a full URL like http://localhost:9555/gpu/metric")
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Endpoint %q must use http or https", endpoint),
			"Use a full URL like http://localhost:9555/gpu/metric")
	}

	if u.Host == "" {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Endpoint %q has no host", endpoint),
			"Use a full URL like http://localhost:9555/gpu/metric")
	}

	return nil
}
