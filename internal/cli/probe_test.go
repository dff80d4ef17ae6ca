package cli

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/gpuwatch/internal/errors"
	"github.com/rileyhilliard/gpuwatch/internal/monitor"
	"github.com/rileyhilliard/gpuwatch/internal/ui"
)

const twoGPUs = `# HELP gpu_utilization_percent GPU utilization
gpu_utilization_percent{uuid="GPU-b",name="RTX 4090"} 87
gpu_utilization_percent{uuid="GPU-a",name="A100"} 12
gpu_temperature_celsius{uuid="GPU-a"} 41
gpu_power_watts{uuid="GPU-b"} 398.5`

// stubFetcher returns the same body and error on every call.
type stubFetcher struct {
	body  string
	err   error
	calls int
}

func (f *stubFetcher) Fetch(ctx context.Context) (string, error) {
	f.calls++
	return f.body, f.err
}

func (f *stubFetcher) Close() error { return nil }

func TestRunProbe_Summary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, twoGPUs)
	}))
	defer srv.Close()

	fetcher, err := monitor.NewHTTPFetcher(srv.URL, time.Second)
	require.NoError(t, err)
	defer fetcher.Close()

	var buf bytes.Buffer
	err = runProbe(context.Background(), &buf, srv.URL, fetcher, probeOptions{Samples: 1})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, srv.URL)
	assert.Contains(t, out, "5 lines, 4 applied, 1 skipped, 0 malformed")
	for _, want := range []string{"GPU-a", "A100", "41.0C", "GPU-b", "RTX 4090", "87.0%", "398.5W"} {
		assert.Contains(t, out, want)
	}
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("GPU-a")), bytes.Index(buf.Bytes(), []byte("GPU-b")),
		"devices are listed in ID order")
}

func TestRunProbe_MultipleSamples(t *testing.T) {
	var n int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		i := atomic.AddInt32(&n, 1)
		fmt.Fprintf(w, "gpu_utilization_percent{uuid=\"GPU-a\"} %d\n", i*30)
	}))
	defer srv.Close()

	fetcher, err := monitor.NewHTTPFetcher(srv.URL, time.Second)
	require.NoError(t, err)
	defer fetcher.Close()

	var buf bytes.Buffer
	err = runProbe(context.Background(), &buf, srv.URL, fetcher, probeOptions{Samples: 3, Interval: time.Millisecond})
	require.NoError(t, err)

	assert.Equal(t, int32(3), atomic.LoadInt32(&n))
	assert.Contains(t, buf.String(), "3 applied")
	assert.Contains(t, buf.String(), "90.0%")
	assert.Contains(t, buf.String(), ui.Sparkline([]float64{30, 60, 90}, ui.HistoryWidth))
}

func TestRunProbe_FetchFailure(t *testing.T) {
	f := &stubFetcher{err: errors.New(errors.ErrFetch, "Couldn't reach http://x", "")}

	var buf bytes.Buffer
	err := runProbe(context.Background(), &buf, "http://x", f, probeOptions{Samples: 3, Interval: time.Millisecond})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrFetch))
	assert.Equal(t, 1, f.calls, "stops at the first failure")
	assert.Contains(t, buf.String(), "http://x")
}

func TestRunProbe_EmptyBody(t *testing.T) {
	var buf bytes.Buffer
	err := runProbe(context.Background(), &buf, "http://x", &stubFetcher{}, probeOptions{})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrFetch))
	assert.Contains(t, errors.Summary(err), "Empty response")
}

func TestRunProbe_ParseErrorShowsPartialResult(t *testing.T) {
	f := &stubFetcher{body: "gpu_temperature_celsius{uuid=\"GPU-a\"} 50\ngpu_power_watts{uuid=\"GPU-a\"} n/a\n"}

	var buf bytes.Buffer
	err := runProbe(context.Background(), &buf, "http://x", f, probeOptions{})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrParse))
	assert.Contains(t, buf.String(), "GPU-a")
	assert.Contains(t, buf.String(), "50.0C")
}

func TestRunProbe_SkipMalformed(t *testing.T) {
	f := &stubFetcher{body: "gpu_temperature_celsius{uuid=\"GPU-a\"} 50\ngpu_power_watts{uuid=\"GPU-a\"} n/a\n"}

	var buf bytes.Buffer
	err := runProbe(context.Background(), &buf, "http://x", f, probeOptions{SkipMalformed: true})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "1 applied, 1 skipped, 1 malformed")
	assert.Contains(t, buf.String(), ui.SymbolWarning+" 1 malformed line skipped")
}

func TestRunProbe_NoMetrics(t *testing.T) {
	f := &stubFetcher{body: "<html>not an exporter</html>"}

	var buf bytes.Buffer
	err := runProbe(context.Background(), &buf, "http://x", f, probeOptions{})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrParse))
	assert.Contains(t, errors.Summary(err), "No GPU metrics found")
	assert.NotContains(t, buf.String(), "GPU-")
}

func TestRunProbe_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f := &stubFetcher{body: `gpu_utilization_percent{uuid="GPU-a"} 5`}

	var buf bytes.Buffer
	err := runProbe(ctx, &buf, "http://x", f, probeOptions{Samples: 5, Interval: time.Hour})
	require.Error(t, err)
	assert.Equal(t, 1, f.calls)
}

func TestRunProbe_Spinner(t *testing.T) {
	f := &stubFetcher{body: `gpu_utilization_percent{uuid="GPU-a"} 5`}

	var buf bytes.Buffer
	err := runProbe(context.Background(), &buf, "http://x", f, probeOptions{Spinner: true})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), ui.SymbolSuccess)
	assert.Contains(t, buf.String(), "Sampling http://x")
}
