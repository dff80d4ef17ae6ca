package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rileyhilliard/gpuwatch/internal/config"
	"github.com/rileyhilliard/gpuwatch/internal/logger"
	"github.com/rileyhilliard/gpuwatch/internal/ui"
)

// Global flags shared by the dashboard and probe.
var (
	cfgFile        string
	endpointFlag   string
	intervalFlag   time.Duration
	historyCapFlag int
	logFileFlag    string
)

var rootCmd = &cobra.Command{
	Use:   "gpuwatch",
	Short: "Live terminal dashboard for GPU exporter metrics",
	Long: `gpuwatch polls an HTTP endpoint serving GPU metrics in the text
exposition format and draws a braille utilization chart per GPU, with
temperature, clocks, and power above each chart.

Press q or Ctrl+C to quit.

Examples:
  gpuwatch
  gpuwatch --endpoint http://gpu-box:9555/gpu/metric --interval 2s
  gpuwatch probe`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd.Flags().Changed)
		if err != nil {
			return err
		}
		return dashboardCommand(cfg)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: ./.gpuwatch.yaml or ~/.config/gpuwatch/config.yaml)")
	flags.StringVar(&endpointFlag, "endpoint", "", "metrics endpoint URL")
	flags.DurationVar(&intervalFlag, "interval", 0, "poll interval (e.g., 1s, 500ms)")
	flags.IntVar(&historyCapFlag, "history-cap", 0, "utilization samples kept per GPU")
	flags.StringVar(&logFileFlag, "log-file", "", "append JSON logs to this file")
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.ErrorStyle().Render(err.Error()))
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies flags the user actually set.
func loadConfig(changed func(name string) bool) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	if changed("endpoint") {
		cfg.Endpoint = endpointFlag
	}
	if changed("interval") {
		cfg.PollInterval = intervalFlag
	}
	if changed("history-cap") {
		cfg.HistoryCap = historyCapFlag
	}
	if changed("log-file") {
		cfg.Log.File = logFileFlag
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setupLogger opens the configured log file and installs it as the default
// logger. Without a log file everything is discarded.
func setupLogger(cfg *config.Config) (logger.Logger, io.Closer, error) {
	if cfg.Log.File == "" {
		return logger.Noop(), nopCloser{}, nil
	}

	log, closer, err := logger.NewFileLogger(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}
	logger.SetDefault(log)
	return log, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
