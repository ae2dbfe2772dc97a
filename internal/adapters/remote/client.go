// Package remote talks to a model served over HTTP.
//
// Request body:  {"columns": [...], "rows": [[...], ...]}
// Response body: {"predictions": [[...], ...]}
package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/okian/crewcast/internal/domain/feature"
	"github.com/okian/crewcast/internal/domain/runtime"
	"github.com/okian/crewcast/pkg/logger"
	"github.com/okian/crewcast/pkg/metrics"
)

// Default client configuration constants.
const (
	defaultTimeout   = 30 * time.Second
	maxErrorBodySize = 4 << 10
	maxResponseSize  = 64 << 20

	defaultBreakerFailures = 5
	defaultBreakerCooldown = 30 * time.Second
	breakerName            = "remote-model"
)

type predictRequest struct {
	Columns []string    `json:"columns"`
	Rows    [][]float64 `json:"rows"`
}

type predictResponse struct {
	Predictions [][]float64 `json:"predictions"`
}

// Client is a runtime.Runtime backed by a remote prediction endpoint.
//
// Calls go through a circuit breaker. After a run of consecutive
// unavailable responses (transport errors or 5xx) the breaker opens and
// predictions fail fast with ErrUnavailable until the cooldown passes.
// Rejections (4xx, undecodable bodies) and cancelled callers do not count
// against the endpoint. Error bodies from the endpoint are logged, never
// returned.
type Client struct {
	endpoint string
	http     *http.Client
	log      logger.Logger

	failures uint32
	cooldown time.Duration
	cb       *gobreaker.CircuitBreaker[[][]float64]
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the logger used for endpoint error bodies.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithBreaker sets how many consecutive unavailable responses open the
// breaker and how long it stays open. Zero values keep the defaults.
func WithBreaker(failures uint32, cooldown time.Duration) Option {
	return func(c *Client) {
		if failures > 0 {
			c.failures = failures
		}
		if cooldown > 0 {
			c.cooldown = cooldown
		}
	}
}

// New creates a client for endpoint. The URL must be absolute http or https.
func New(endpoint string, opts ...Option) (*Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEndpoint, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrEndpoint, endpoint)
	}
	c := &Client{
		endpoint: u.String(),
		http:     &http.Client{Timeout: defaultTimeout},
		log:      logger.Discard(),
		failures: defaultBreakerFailures,
		cooldown: defaultBreakerCooldown,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.cb = gobreaker.NewCircuitBreaker[[][]float64](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Timeout:     c.cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= c.failures
		},
		IsSuccessful: func(err error) bool {
			return !errors.Is(err, ErrUnavailable)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.RecordBreakerTransition(name, from.String(), to.String())
		},
	})
	return c, nil
}

// BreakerState reports "closed", "half-open" or "open".
func (c *Client) BreakerState() string {
	return c.cb.State().String()
}

// Kind implements runtime.Runtime.
func (c *Client) Kind() string { return "remote" }

// Predict implements runtime.Runtime.
func (c *Client) Predict(ctx context.Context, t *feature.Table) ([][]float64, error) {
	x, err := t.Matrix()
	if err != nil {
		return nil, err
	}
	out, err := c.cb.Execute(func() ([][]float64, error) {
		return c.post(ctx, predictRequest{Columns: t.Columns(), Rows: x})
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return out, err
}

func (c *Client) post(ctx context.Context, in predictRequest) ([][]float64, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		kind := ErrRejected
		if resp.StatusCode >= http.StatusInternalServerError {
			kind = ErrUnavailable
		}
		c.log.Warn(ctx, "model endpoint returned an error",
			logger.Int("status", resp.StatusCode),
			logger.String("body", string(bytes.TrimSpace(msg))),
		)
		return nil, fmt.Errorf("%w: status %d", kind, resp.StatusCode)
	}

	var out predictResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", ErrRejected, err)
	}
	return out.Predictions, nil
}

// Loader creates remote clients from http(s) sources.
type Loader struct {
	Timeout         time.Duration
	BreakerFailures uint32
	BreakerCooldown time.Duration
	Logger          logger.Logger
}

// Load implements runtime.Loader. No request is made until the first
// prediction.
func (l Loader) Load(_ context.Context, source string) (runtime.Runtime, error) {
	c, err := New(source,
		WithTimeout(l.Timeout),
		WithBreaker(l.BreakerFailures, l.BreakerCooldown),
		WithLogger(l.Logger),
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}
