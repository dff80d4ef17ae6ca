package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/gpuwatch/internal/config"
	"github.com/rileyhilliard/gpuwatch/internal/errors"
	"github.com/rileyhilliard/gpuwatch/internal/logger"
)

// isolate points HOME and the working directory at temp dirs and resets
// the global flag values.
func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfgFile, endpointFlag, intervalFlag, historyCapFlag, logFileFlag = "", "", 0, 0, ""
	t.Cleanup(func() {
		cfgFile, endpointFlag, intervalFlag, historyCapFlag, logFileFlag = "", "", 0, 0, ""
	})
	return dir
}

func changedSet(names ...string) func(string) bool {
	return func(name string) bool {
		for _, n := range names {
			if n == name {
				return true
			}
		}
		return false
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := loadConfig(changedSet())
	require.NoError(t, err)
	assert.Equal(t, config.DefaultEndpoint, cfg.Endpoint)
	assert.Equal(t, config.DefaultPollInterval, cfg.PollInterval)
	assert.Equal(t, config.DefaultHistoryCap, cfg.HistoryCap)
}

func TestLoadConfig_FlagOverrides(t *testing.T) {
	isolate(t)
	endpointFlag = "http://gpu-box:9555/gpu/metric"
	intervalFlag = 250 * time.Millisecond
	historyCapFlag = 100
	logFileFlag = "/tmp/gpuwatch.log"

	cfg, err := loadConfig(changedSet("endpoint", "interval", "history-cap", "log-file"))
	require.NoError(t, err)
	assert.Equal(t, "http://gpu-box:9555/gpu/metric", cfg.Endpoint)
	assert.Equal(t, 250*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, 100, cfg.HistoryCap)
	assert.Equal(t, "/tmp/gpuwatch.log", cfg.Log.File)
}

func TestLoadConfig_UnchangedFlagsIgnored(t *testing.T) {
	isolate(t)
	endpointFlag = "http://ignored:1/metric"

	cfg, err := loadConfig(changedSet())
	require.NoError(t, err)
	assert.Equal(t, config.DefaultEndpoint, cfg.Endpoint)
}

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	dir := isolate(t)
	content := "endpoint: http://from-file:9555/gpu/metric\nhistory_cap: 50\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.ConfigFileName), []byte(content), 0o644))
	intervalFlag = 3 * time.Second

	cfg, err := loadConfig(changedSet("interval"))
	require.NoError(t, err)
	assert.Equal(t, "http://from-file:9555/gpu/metric", cfg.Endpoint)
	assert.Equal(t, 50, cfg.HistoryCap)
	assert.Equal(t, 3*time.Second, cfg.PollInterval)
}

func TestLoadConfig_InvalidOverride(t *testing.T) {
	tests := []struct {
		name    string
		setup   func()
		changed string
	}{
		{"bad endpoint", func() { endpointFlag = "gpu-box:9555" }, "endpoint"},
		{"zero interval", func() { intervalFlag = 0 }, "interval"},
		{"negative history", func() { historyCapFlag = -1 }, "history-cap"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			tt.setup()

			_, err := loadConfig(changedSet(tt.changed))
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrConfig))
		})
	}
}

func TestSetupLogger_NoFile(t *testing.T) {
	log, closer, err := setupLogger(config.DefaultConfig())
	require.NoError(t, err)
	assert.NotNil(t, log)
	assert.NoError(t, closer.Close())
}

func TestSetupLogger_File(t *testing.T) {
	t.Cleanup(func() { logger.SetDefault(nil) })

	cfg := config.DefaultConfig()
	cfg.Log.File = filepath.Join(t.TempDir(), "logs", "gpuwatch.log")

	log, closer, err := setupLogger(cfg)
	require.NoError(t, err)
	log.Info("hello %s", "file")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(cfg.Log.File)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello file")
	assert.Equal(t, log, logger.Default())
}

func TestDashboardRequiresTerminal(t *testing.T) {
	if isTerminal(os.Stdout) {
		t.Skip("stdout is a terminal")
	}

	err := dashboardCommand(config.DefaultConfig())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrTerminal))
}

func TestRootCommandSubcommands(t *testing.T) {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"init", "probe", "version"} {
		assert.Contains(t, names, want)
	}

	for _, flag := range []string{"config", "endpoint", "interval", "history-cap", "log-file"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(flag), flag)
	}
	assert.True(t, strings.HasPrefix(rootCmd.Use, "gpuwatch"))
}
