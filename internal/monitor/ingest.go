package monitor

import (
	"fmt"
	"strings"

	"github.com/rileyhilliard/gpuwatch/internal/errors"
	"github.com/rileyhilliard/gpuwatch/internal/monitor/parsers"
)

// Metric names understood by Ingest.
const (
	MetricUtilization = "gpu_utilization_percent"
	MetricTemperature = "gpu_temperature_celsius"
	MetricClock       = "gpu_clock_mhz"
	MetricMemClock    = "gpu_memory_clock_mhz"
	MetricPower       = "gpu_power_watts"
)

// Label keys read from each sample.
const (
	LabelUUID = "uuid"
	LabelName = "name"
)

var metricHandlers = map[string]func(d *Device, v float64){
	MetricUtilization: (*Device).PushUtilization,
	MetricTemperature: func(d *Device, v float64) { d.TemperatureC = v },
	MetricClock:       func(d *Device, v float64) { d.ClockMHz = v },
	MetricMemClock:    func(d *Device, v float64) { d.MemClockMHz = v },
	MetricPower:       func(d *Device, v float64) { d.PowerWatts = v },
}

// IngestOptions controls how Ingest treats malformed values.
type IngestOptions struct {
	// SkipMalformed drops a line with an unparseable value and keeps going.
	// When false the rest of the batch is abandoned at the first one.
	SkipMalformed bool
}

// IngestResult summarizes one batch.
type IngestResult struct {
	// Lines is the number of lines examined, including the one that aborted the batch.
	Lines int
	// Applied counts recognized metric updates.
	Applied int
	// Skipped counts lines that didn't match, lacked a uuid, or named an unknown metric.
	Skipped int
	// Malformed counts lines dropped for a bad value under SkipMalformed.
	Malformed int
	// NewDevices lists IDs created by this batch, in the order they appeared.
	NewDevices []string
}

// Ingest applies a response body to the store, aborting at the first
// malformed value. Lines applied before the failure stay applied.
func Ingest(store *Store, text string) (IngestResult, error) {
	return IngestWithOptions(store, text, IngestOptions{})
}

// IngestWithOptions is Ingest with an explicit malformed-value policy.
func IngestWithOptions(store *Store, text string, opts IngestOptions) (IngestResult, error) {
	var res IngestResult

	for i, line := range strings.Split(text, "\n") {
		res.Lines++

		sample, ok, err := parsers.ParseLine(line)
		if err != nil {
			if opts.SkipMalformed {
				res.Malformed++
				continue
			}
			return res, errors.WrapWithCode(err, errors.ErrParse,
				fmt.Sprintf("Malformed metric on line %d", i+1),
				"Check the exporter output with 'gpuwatch probe'")
		}
		if !ok {
			res.Skipped++
			continue
		}

		id, ok := sample.Labels.Get(LabelUUID)
		if !ok {
			res.Skipped++
			continue
		}
		name, _ := sample.Labels.Get(LabelName)

		handler, known := metricHandlers[sample.Metric]
		created := store.Upsert(id, name, func(d *Device) {
			if known {
				handler(d, sample.Value)
			}
		})
		if created {
			res.NewDevices = append(res.NewDevices, id)
		}

		if known {
			res.Applied++
		} else {
			res.Skipped++
		}
	}

	return res, nil
}
