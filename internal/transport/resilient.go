package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/farm-insight/internal/apperr"
	"github.com/i474232898/farm-insight/internal/metrics"
)

// DefaultTimeout bounds every outbound call.
const DefaultTimeout = 10 * time.Second

// maxBodyBytes caps how much of a provider response is read.
const maxBodyBytes = 8 << 20

// BackoffConfig controls exponential backoff between attempts. MaxRetries of
// zero means a single attempt.
type BackoffConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// Config bundles the HTTP client and resilience settings.
type Config struct {
	Client  *http.Client
	Timeout time.Duration
	Backoff BackoffConfig
}

var (
	errRateLimited  = errors.New("rate limited")
	errServerError  = errors.New("server error")
	errUnexpected   = errors.New("unexpected status code")
	errCircuitOpen  = errors.New("circuit breaker open")
	errNoHTTPClient = errors.New("http client not configured")
)

// Client executes provider requests behind a circuit breaker with a bounded timeout.
type Client struct {
	name    string
	cfg     Config
	circuit *gobreaker.CircuitBreaker
}

// New creates a Client named after the provider it talks to.
func New(name string, cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Backoff.InitialInterval <= 0 {
		cfg.Backoff.InitialInterval = 500 * time.Millisecond
	}
	if cfg.Backoff.MaxRetries < 0 {
		cfg.Backoff.MaxRetries = 0
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &Client{name: name, cfg: cfg, circuit: cb}
}

// Name returns the provider name used for breaker state and metrics.
func (c *Client) Name() string {
	return c.name
}

// GetJSON performs the request built by buildRequest and decodes the JSON body
// into out. Transport failures wrap apperr.ErrNetwork; undecodable bodies wrap
// apperr.ErrMalformedPayload.
func (c *Client) GetJSON(ctx context.Context, buildRequest func(ctx context.Context) (*http.Request, error), out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	started := time.Now()
	body, err := c.do(ctx, buildRequest)
	metrics.ProviderLatency.WithLabelValues(c.name).Observe(time.Since(started).Seconds())
	if err != nil {
		metrics.ProviderRequests.WithLabelValues(c.name, "network_error").Inc()
		return fmt.Errorf("%w: %s: %v", apperr.ErrNetwork, c.name, err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		metrics.ProviderRequests.WithLabelValues(c.name, "malformed").Inc()
		return fmt.Errorf("%w: %s: %v", apperr.ErrMalformedPayload, c.name, err)
	}

	metrics.ProviderRequests.WithLabelValues(c.name, "ok").Inc()
	return nil
}

func (c *Client) do(ctx context.Context, buildRequest func(ctx context.Context) (*http.Request, error)) ([]byte, error) {
	if c.cfg.Client == nil {
		return nil, errNoHTTPClient
	}

	var attempt int
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := buildRequest(ctx)
		if err != nil {
			return nil, err
		}

		result, err := c.circuit.Execute(func() (interface{}, error) {
			resp, execErr := c.cfg.Client.Do(req)
			if execErr != nil {
				return nil, execErr
			}
			defer resp.Body.Close()

			if resp.StatusCode == http.StatusTooManyRequests {
				return nil, errRateLimited
			}
			if resp.StatusCode >= 500 {
				return nil, fmt.Errorf("%w: %d", errServerError, resp.StatusCode)
			}
			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				return nil, fmt.Errorf("%w: %d", errUnexpected, resp.StatusCode)
			}

			return io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		})

		if err == nil {
			body, ok := result.([]byte)
			if !ok {
				return nil, fmt.Errorf("unexpected result type from circuit breaker")
			}
			return body, nil
		}

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", errCircuitOpen, err)
		}

		if attempt >= c.cfg.Backoff.MaxRetries {
			return nil, err
		}

		delay := c.cfg.Backoff.InitialInterval * time.Duration(math.Pow(2, float64(attempt)))
		if c.cfg.Backoff.MaxInterval > 0 && delay > c.cfg.Backoff.MaxInterval {
			delay = c.cfg.Backoff.MaxInterval
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		attempt++
	}
}
