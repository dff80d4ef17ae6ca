package monitor

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/gpuwatch/internal/errors"
	"github.com/rileyhilliard/gpuwatch/internal/monitor/parsers"
)

func TestIngest_FirstSighting(t *testing.T) {
	s := NewStore(10)

	res, err := Ingest(s, `gpu_utilization_percent{uuid="abc",name="X"} 42
gpu_temperature_celsius{uuid="abc"} 65
`)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Applied)
	assert.Equal(t, []string{"abc"}, res.NewDevices)
	assert.Equal(t, 1, s.Len())

	v, ok := s.Get("abc")
	require.True(t, ok)
	assert.Equal(t, "X", v.Name)
	assert.Equal(t, []float64{42}, v.Utilization)
	assert.Equal(t, 65.0, v.TemperatureC)
}

func TestIngest_LaterNameIgnored(t *testing.T) {
	s := NewStore(10)

	_, err := Ingest(s, `gpu_utilization_percent{uuid="abc",name="X"} 42`)
	require.NoError(t, err)
	res, err := Ingest(s, `gpu_utilization_percent{uuid="abc",name="Y"} 50`)
	require.NoError(t, err)

	assert.Empty(t, res.NewDevices)
	v, _ := s.Get("abc")
	assert.Equal(t, "X", v.Name)
	assert.Equal(t, []float64{42, 50}, v.Utilization)
}

func TestIngest_NameOnlyFromCreatingLine(t *testing.T) {
	s := NewStore(10)

	res, err := Ingest(s, `gpu_temperature_celsius{uuid="abc"} 65
gpu_utilization_percent{uuid="abc",name="X"} 42`)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Applied)

	v, _ := s.Get("abc")
	assert.Equal(t, "", v.Name)
	assert.Equal(t, []float64{42}, v.Utilization)

	c := NewCanvas(24, 80)
	l := NewRenderer(0).Render(c, s.Snapshot(), Status{}, renderNow)
	require.Len(t, l.Panels, 1)
	assert.Equal(t, "abc ", runesAt(c, l.Panels[0].Top, 8, 4))
}

func TestIngest_MalformedValueAbortsBatch(t *testing.T) {
	s := NewStore(10)

	res, err := Ingest(s, `gpu_temperature_celsius{uuid="abc"} 65
gpu_clock_mhz{uuid="abc"} fast
gpu_power_watts{uuid="abc"} 200
`)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrParse))
	assert.Contains(t, errors.Summary(err), "line 2")

	var valueErr *parsers.ValueError
	require.True(t, stderrors.As(err, &valueErr))
	assert.Equal(t, "gpu_clock_mhz", valueErr.Metric)
	assert.Equal(t, "fast", valueErr.Raw)

	assert.Equal(t, 2, res.Lines)
	assert.Equal(t, 1, res.Applied)

	v, _ := s.Get("abc")
	assert.Equal(t, 65.0, v.TemperatureC, "lines before the failure stay applied")
	assert.Equal(t, 0.0, v.ClockMHz)
	assert.Equal(t, 0.0, v.PowerWatts, "lines after the failure are not applied")
}

func TestIngest_SkipMalformed(t *testing.T) {
	s := NewStore(10)

	res, err := IngestWithOptions(s, `gpu_temperature_celsius{uuid="abc"} 65
gpu_clock_mhz{uuid="abc"} fast
gpu_power_watts{uuid="abc"} 200`, IngestOptions{SkipMalformed: true})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Malformed)
	assert.Equal(t, 2, res.Applied)

	v, _ := s.Get("abc")
	assert.Equal(t, 65.0, v.TemperatureC)
	assert.Equal(t, 200.0, v.PowerWatts)
}

func TestIngest_AllScalarMetrics(t *testing.T) {
	s := NewStore(10)

	_, err := Ingest(s, `gpu_temperature_celsius{uuid="a"} 61.5
gpu_clock_mhz{uuid="a"} 1980
gpu_memory_clock_mhz{uuid="a"} 10501
gpu_power_watts{uuid="a"} 312.25
gpu_temperature_celsius{uuid="a"} 62`)
	require.NoError(t, err)

	v, _ := s.Get("a")
	assert.Equal(t, 62.0, v.TemperatureC, "scalars keep the latest value")
	assert.Equal(t, 1980.0, v.ClockMHz)
	assert.Equal(t, 10501.0, v.MemClockMHz)
	assert.Equal(t, 312.25, v.PowerWatts)
	assert.Empty(t, v.Utilization)
}

func TestIngest_SkippedLines(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantDevices int
		wantApplied int
	}{
		{"comments and blanks", "# HELP gpu_power_watts Power\n\n# TYPE gpu_power_watts gauge", 0, 0},
		{"no uuid label", `gpu_power_watts{name="X"} 100`, 0, 0},
		{"no label block", `gpu_power_watts 100`, 0, 0},
		{"html error page", "<html><body>502 Bad Gateway</body></html>", 0, 0},
		{"unknown metric still creates device", `gpu_fan_percent{uuid="z"} 30`, 1, 0},
		{"extra labels ignored", `gpu_power_watts{gpu="0",uuid="z",pci="00:01"} 90`, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(10)
			res, err := Ingest(s, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantDevices, s.Len())
			assert.Equal(t, tt.wantApplied, res.Applied)
			assert.Equal(t, res.Lines, res.Applied+res.Skipped)
		})
	}
}

func TestIngest_MultipleDevices(t *testing.T) {
	s := NewStore(10)

	res, err := Ingest(s, `gpu_utilization_percent{uuid="GPU-b",name="B"} 10
gpu_utilization_percent{uuid="GPU-a",name="A"} 20
gpu_utilization_percent{uuid="GPU-b",name="B"} 30`)
	require.NoError(t, err)

	assert.Equal(t, []string{"GPU-b", "GPU-a"}, res.NewDevices)

	snap := s.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "GPU-a", snap[0].ID)
	assert.Equal(t, []float64{20}, snap[0].Utilization)
	assert.Equal(t, []float64{10, 30}, snap[1].Utilization)
}
