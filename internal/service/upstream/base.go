package upstream

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"SignalDesk/internal/domain/models"
	"SignalDesk/internal/domain/repository"
	xhttp "SignalDesk/pkg/http"

	"golang.org/x/time/rate"
)

// Options configures a provider base.
type Options struct {
	Name              string // metrics label, e.g. "alphavantage"
	BaseURL           string
	Timeout           time.Duration
	RequestsPerMinute int // 0 disables outbound throttling
	Metrics           repository.Metrics
}

// Base centralizes JSON-over-HTTP calls for provider adapters: client
// construction, optional throttling, metrics and error classification.
// Every error it returns wraps models.ErrUpstream.
type Base struct {
	name    string
	baseURL string
	client  *xhttp.Client
	limiter *rate.Limiter
	metrics repository.Metrics
}

func NewBase(opts Options) *Base {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	var lim *rate.Limiter
	if opts.RequestsPerMinute > 0 {
		lim = rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RequestsPerMinute)), 1)
	}
	m := opts.Metrics
	if m == nil {
		m = repository.NopMetrics{}
	}
	return &Base{
		name:    opts.Name,
		baseURL: opts.BaseURL,
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout), xhttp.WithUserAgent("signaldesk/1.0")),
		limiter: lim,
		metrics: m,
	}
}

// GetJSON issues a GET to path under baseURL and decodes JSON into dest.
// A *[]byte dest receives the raw body.
func (b *Base) GetJSON(ctx context.Context, path string, query map[string][]string, dest interface{}) error {
	return b.do(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         b.baseURL + path,
		QueryParams: query,
	}, dest)
}

// PostJSON posts payload as JSON to path under baseURL and decodes JSON into dest.
func (b *Base) PostJSON(ctx context.Context, path string, query map[string][]string, payload interface{}, dest interface{}) error {
	return b.do(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodPost,
		URL:         b.baseURL + path,
		QueryParams: query,
		Headers:     map[string]string{"Content-Type": "application/json"},
		Body:        payload,
	}, dest)
}

// PostJSONWithRetry posts JSON with up to attempts tries. Client errors other
// than 429 are not retried.
func (b *Base) PostJSONWithRetry(ctx context.Context, path string, query map[string][]string, payload interface{}, dest interface{}, attempts int) error {
	if attempts <= 1 {
		return b.PostJSON(ctx, path, query, payload, dest)
	}
	var err error
	for i := 1; i <= attempts; i++ {
		err = b.PostJSON(ctx, path, query, payload, dest)
		if err == nil || !retryable(err) || i == attempts {
			return err
		}
		select {
		case <-time.After(time.Duration(i) * 100 * time.Millisecond):
		case <-ctx.Done():
			return fmt.Errorf("%w: %s: %w", models.ErrUpstream, b.name, ctx.Err())
		}
	}
	return err
}

func (b *Base) do(ctx context.Context, opts *xhttp.RequestOptions, dest interface{}) error {
	if b.baseURL == "" {
		return fmt.Errorf("%w: %s: base url not configured", models.ErrUpstream, b.name)
	}
	if b.limiter != nil {
		if err := b.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: %s: throttle: %w", models.ErrUpstream, b.name, err)
		}
	}

	start := time.Now()
	err := b.client.SendAndParse(ctx, opts, dest)
	b.metrics.RecordUpstreamCall(b.name, err, time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", models.ErrUpstream, b.name, opts.Method, err)
	}
	return nil
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *xhttp.StatusError
	if errors.As(err, &se) {
		return se.StatusCode == http.StatusTooManyRequests || se.StatusCode >= 500
	}
	return true
}
