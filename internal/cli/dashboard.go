package cli

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rileyhilliard/gpuwatch/internal/config"
	"github.com/rileyhilliard/gpuwatch/internal/errors"
	"github.com/rileyhilliard/gpuwatch/internal/monitor"
)

// dashboardCommand runs the full-screen dashboard until the user quits.
func dashboardCommand(cfg *config.Config) error {
	if !isTerminal(os.Stdout) {
		return errors.New(errors.ErrTerminal,
			"gpuwatch needs an interactive terminal",
			"Run it directly in a terminal, or use 'gpuwatch probe' for a one-shot summary")
	}

	log, logCloser, err := setupLogger(cfg)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't open log file "+cfg.Log.File,
			"Check the path in log.file or pass --log-file")
	}
	defer logCloser.Close()

	fetcher, err := monitor.NewHTTPFetcher(cfg.Endpoint, cfg.FetchTimeout)
	if err != nil {
		return err
	}
	defer fetcher.Close()

	log.Info("starting dashboard: endpoint=%s interval=%s history_cap=%d", cfg.Endpoint, cfg.PollInterval, cfg.HistoryCap)

	model := monitor.NewModel(fetcher, monitor.Options{
		Interval:      cfg.PollInterval,
		HistoryCap:    cfg.HistoryCap,
		SkipMalformed: cfg.ParseErrors == config.ParseErrorsSkip,
		StaleAfter:    cfg.StaleAfter,
		Logger:        log,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Error("dashboard exited: %v", err)
		return errors.WrapWithCode(err, errors.ErrTerminal,
			"The dashboard stopped unexpectedly",
			"Try resizing the terminal or running in a different terminal emulator")
	}

	log.Info("dashboard stopped")
	return nil
}
