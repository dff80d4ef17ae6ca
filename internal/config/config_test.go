package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rileyhilliard/gpuwatch/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir switches into dir for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(orig) })
}

// isolate points HOME and the working directory at empty temp dirs so no
// real config file leaks into the test.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	chdir(t, t.TempDir())
	return home
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, CurrentConfigVersion, cfg.Version)
	assert.Equal(t, DefaultEndpoint, cfg.Endpoint)
	assert.Equal(t, time.Second, cfg.PollInterval)
	assert.Equal(t, 5*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 2000, cfg.HistoryCap)
	assert.Equal(t, ParseErrorsAbort, cfg.ParseErrors)
	assert.Zero(t, cfg.StaleAfter)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Log.File)

	require.NoError(t, Validate(cfg))
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_ExplicitFile(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "gpuwatch.yaml")
	content := `
version: 1
endpoint: http://10.0.0.5:9555/gpu/metric?method=sim
poll_interval: 2s
fetch_timeout: 3s
history_cap: 500
parse_errors: skip
stale_after: 30s
log:
  level: debug
  file: /tmp/gpuwatch.log
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://10.0.0.5:9555/gpu/metric?method=sim", cfg.Endpoint)
	assert.Equal(t, 2*time.Second, cfg.PollInterval)
	assert.Equal(t, 3*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 500, cfg.HistoryCap)
	assert.Equal(t, ParseErrorsSkip, cfg.ParseErrors)
	assert.Equal(t, 30*time.Second, cfg.StaleAfter)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/tmp/gpuwatch.log", cfg.Log.File)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "gpuwatch.yaml")
	require.NoError(t, os.WriteFile(path, []byte("endpoint: http://gpu-box:9555/metrics\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://gpu-box:9555/metrics", cfg.Endpoint)
	assert.Equal(t, DefaultPollInterval, cfg.PollInterval)
	assert.Equal(t, DefaultHistoryCap, cfg.HistoryCap)
}

func TestLoad_LocalFileFound(t *testing.T) {
	isolate(t)

	require.NoError(t, os.WriteFile(ConfigFileName, []byte("history_cap: 42\n"), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 42, cfg.HistoryCap)
}

func TestLoad_GlobalFileFound(t *testing.T) {
	home := isolate(t)

	global := filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
	require.NoError(t, os.MkdirAll(filepath.Dir(global), 0o755))
	require.NoError(t, os.WriteFile(global, []byte("poll_interval: 3s\n"), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, cfg.PollInterval)
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("GPUWATCH_ENDPOINT", "http://env-host:9000/m")
	t.Setenv("GPUWATCH_HISTORY_CAP", "123")
	t.Setenv("GPUWATCH_LOG_LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://env-host:9000/m", cfg.Endpoint)
	assert.Equal(t, 123, cfg.HistoryCap)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	isolate(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
	assert.Contains(t, err.Error(), "not found")
}

func TestLoad_InvalidValues(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "gpuwatch.yaml")
	require.NoError(t, os.WriteFile(path, []byte("endpoint: ftp://nowhere\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	assert.Equal(t, filepath.Join(home, "logs/g.log"), expandHome("~/logs/g.log"))
	assert.Equal(t, "/var/log/g.log", expandHome("/var/log/g.log"))
	assert.Equal(t, "", expandHome(""))
}

func TestWriteAndLoadRoundTrip(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Endpoint = "http://rig-01:9555/gpu/metric"
	cfg.StaleAfter = 10 * time.Second

	require.NoError(t, Write(path, cfg, false))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "poll_interval: 1s")
	assert.Contains(t, string(data), "stale_after: 10s")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestWrite_RefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("endpoint: http://a/b\n"), 0o644))

	err := Write(path, DefaultConfig(), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")

	require.NoError(t, Write(path, DefaultConfig(), true))
}

func TestWrite_RejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HistoryCap = 0

	err := Write(filepath.Join(t.TempDir(), "config.yaml"), cfg, false)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}
