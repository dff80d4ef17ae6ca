package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/gpuwatch/internal/config"
	"github.com/rileyhilliard/gpuwatch/internal/errors"
	"github.com/rileyhilliard/gpuwatch/internal/monitor"
	"github.com/rileyhilliard/gpuwatch/internal/ui"
	"github.com/rileyhilliard/gpuwatch/internal/util"
)

var probeSamples int

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Fetch the endpoint and print what it reports",
	Long: `Fetch the metrics endpoint without starting the dashboard and print a
per-GPU summary. Useful for checking an exporter from scripts or over SSH.

With --samples N the endpoint is polled N times, one poll interval apart,
and the history column shows the collected utilization.

Examples:
  gpuwatch probe
  gpuwatch probe --samples 10 --interval 500ms`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd.Flags().Changed)
		if err != nil {
			return err
		}

		fetcher, err := monitor.NewHTTPFetcher(cfg.Endpoint, cfg.FetchTimeout)
		if err != nil {
			return err
		}
		defer fetcher.Close()

		tty := isTerminal(os.Stdout)
		if !tty {
			ui.DisableColors()
		}

		return runProbe(cmd.Context(), cmd.OutOrStdout(), cfg.Endpoint, fetcher, probeOptions{
			Samples:       probeSamples,
			Interval:      cfg.PollInterval,
			HistoryCap:    cfg.HistoryCap,
			SkipMalformed: cfg.ParseErrors == config.ParseErrorsSkip,
			Spinner:       tty,
		})
	},
}

func init() {
	probeCmd.Flags().IntVarP(&probeSamples, "samples", "n", 1, "number of polls to take")
	rootCmd.AddCommand(probeCmd)
}

// probeOptions controls a probe run.
type probeOptions struct {
	Samples       int
	Interval      time.Duration
	HistoryCap    int
	SkipMalformed bool
	Spinner       bool
}

// runProbe polls fetcher, ingests every response into a fresh store, and
// writes a summary to w. Fetch and parse failures are returned after the
// partial summary is printed.
func runProbe(ctx context.Context, w io.Writer, endpoint string, fetcher monitor.Fetcher, opts probeOptions) error {
	if opts.Samples < 1 {
		opts.Samples = 1
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var spinner *ui.Spinner
	if opts.Spinner {
		spinner = ui.NewSpinner(w, "Sampling "+endpoint)
		spinner.Start()
	}
	finish := func(ok bool) {
		if spinner == nil {
			return
		}
		if ok {
			spinner.Success()
		} else {
			spinner.Fail()
		}
	}

	store := monitor.NewStore(opts.HistoryCap)
	var total monitor.IngestResult
	var runErr error

	for i := 0; i < opts.Samples && runErr == nil; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				runErr = errors.WrapWithCode(ctx.Err(), errors.ErrFetch, "Probe interrupted", "")
				continue
			case <-time.After(opts.Interval):
			}
		}

		body, err := fetcher.Fetch(ctx)
		if body == "" {
			if err == nil {
				err = errors.New(errors.ErrFetch,
					"Empty response from "+endpoint,
					"Check that the exporter is serving metrics at this path")
			}
			runErr = err
			continue
		}

		res, err := monitor.IngestWithOptions(store, body, monitor.IngestOptions{SkipMalformed: opts.SkipMalformed})
		total.Lines += res.Lines
		total.Applied += res.Applied
		total.Skipped += res.Skipped
		total.Malformed += res.Malformed
		runErr = err
	}

	if runErr == nil && total.Applied == 0 {
		runErr = errors.New(errors.ErrParse,
			"No GPU metrics found at "+endpoint,
			`Expected lines like gpu_utilization_percent{uuid="GPU-..."} 42`)
	}
	finish(runErr == nil)

	fmt.Fprintf(w, "%s %s\n", ui.MutedStyle().Render("Endpoint:"), endpoint)
	fmt.Fprintf(w, "%s %d %s, %d applied, %d skipped, %d malformed\n",
		ui.MutedStyle().Render("Parsed:"), total.Lines, util.Pluralize(total.Lines, "line", "lines"),
		total.Applied, total.Skipped, total.Malformed)

	if total.Malformed > 0 {
		fmt.Fprintln(w, ui.WarningStyle().Render(fmt.Sprintf("%s %d malformed %s skipped",
			ui.SymbolWarning, total.Malformed, util.Pluralize(total.Malformed, "line", "lines"))))
	}

	if store.Len() > 0 {
		views := store.Snapshot()
		fmt.Fprintln(w)
		fmt.Fprintln(w, ui.RenderDeviceTable(deviceRows(views)))

		if opts.Samples > 1 {
			fmt.Fprintln(w)
			for _, v := range views {
				fmt.Fprintf(w, "  %-20s %s\n", v.Label(), ui.RenderSparkline(v.Utilization, opts.Samples))
			}
		}
	}

	return runErr
}

func deviceRows(views []monitor.DeviceView) []ui.DeviceRow {
	rows := make([]ui.DeviceRow, len(views))
	for i, v := range views {
		rows[i] = ui.DeviceRow{
			ID:           v.ID,
			Name:         v.Name,
			Utilization:  v.Utilization,
			TemperatureC: v.TemperatureC,
			ClockMHz:     v.ClockMHz,
			MemClockMHz:  v.MemClockMHz,
			PowerWatts:   v.PowerWatts,
		}
	}
	return rows
}
