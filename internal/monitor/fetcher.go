package monitor

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/rileyhilliard/gpuwatch/internal/config"
	"github.com/rileyhilliard/gpuwatch/internal/errors"
)

// maxBodyBytes caps how much of a response is read in one cycle. A larger
// body is a fetch failure rather than a truncated batch.
const maxBodyBytes = 8 << 20

// Fetcher retrieves the metrics document for one cycle.
type Fetcher interface {
	// Fetch returns the response body. On any transport failure the body is "".
	Fetch(ctx context.Context) (string, error)
	// Close releases pooled connections.
	Close() error
}

// HTTPFetcher GETs a fixed endpoint over one reused connection.
type HTTPFetcher struct {
	endpoint  string
	timeout   time.Duration
	transport *http.Transport
	client    *http.Client
	maxBody   int64
}

// NewHTTPFetcher validates the endpoint and builds a client with a single
// idle connection kept alive between cycles.
func NewHTTPFetcher(endpoint string, timeout time.Duration) (*HTTPFetcher, error) {
	if err := config.ValidateEndpoint(endpoint); err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = config.DefaultFetchTimeout
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        1,
		MaxIdleConnsPerHost: 1,
		IdleConnTimeout:     90 * time.Second,
	}

	return &HTTPFetcher{
		endpoint:  endpoint,
		timeout:   timeout,
		transport: transport,
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		maxBody: maxBodyBytes,
	}, nil
}

// Endpoint returns the URL being polled.
func (f *HTTPFetcher) Endpoint() string {
	return f.endpoint
}

// Fetch performs one GET. The status code is not inspected.
func (f *HTTPFetcher) Fetch(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.endpoint, nil)
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrFetch,
			"Couldn't build request for "+f.endpoint, "")
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrFetch,
			"Couldn't reach "+f.endpoint,
			"Check that the metrics exporter is running and the endpoint is correct")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody+1))
	if err != nil {
		return "", errors.Wrap(err, fmt.Sprintf("Couldn't read response from %s", f.endpoint))
	}
	if int64(len(body)) > f.maxBody {
		return "", errors.New(errors.ErrFetch,
			fmt.Sprintf("Response from %s is larger than %d bytes", f.endpoint, f.maxBody),
			"Point gpuwatch at an endpoint that serves only GPU metrics")
	}

	return string(body), nil
}

// Close drops idle connections. The fetcher stays usable afterwards.
func (f *HTTPFetcher) Close() error {
	f.transport.CloseIdleConnections()
	return nil
}
