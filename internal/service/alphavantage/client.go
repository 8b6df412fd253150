package alphavantage

import (
	"context"
	"fmt"
	"time"

	"SignalDesk/internal/domain/models"
	"SignalDesk/internal/domain/repository"
	"SignalDesk/internal/service/upstream"
	applogger "SignalDesk/pkg/logger"
)

// Config holds market-data provider settings.
type Config struct {
	APIKey            string
	BaseURL           string
	Timeout           time.Duration
	RequestsPerMinute int
}

// Client fetches time series from an Alpha Vantage style keyed API.
type Client struct {
	base   *upstream.Base
	apiKey string
	log    *applogger.Logger
}

func New(cfg Config, metrics repository.Metrics, l *applogger.Logger) *Client {
	if l == nil {
		l = applogger.Nop()
	}
	return &Client{
		base: upstream.NewBase(upstream.Options{
			Name:              "alphavantage",
			BaseURL:           cfg.BaseURL,
			Timeout:           cfg.Timeout,
			RequestsPerMinute: cfg.RequestsPerMinute,
			Metrics:           metrics,
		}),
		apiKey: cfg.APIKey,
		log:    l,
	}
}

func (c *Client) CheckCredentials() error {
	if c.apiKey == "" {
		return fmt.Errorf("%w: market data api key is not set", models.ErrConfiguration)
	}
	return nil
}

// FetchBars returns up to 100 bars, most recent first. A response without the
// expected series (quota notice, unknown symbol) yields an empty slice.
func (c *Client) FetchBars(ctx context.Context, symbol string, interval repository.Interval) ([]models.Bar, error) {
	query := map[string][]string{
		"symbol":     {symbol},
		"outputsize": {"compact"},
		"apikey":     {c.apiKey},
	}
	if interval.IsDaily() {
		query["function"] = []string{"TIME_SERIES_DAILY"}
	} else {
		query["function"] = []string{"TIME_SERIES_INTRADAY"}
		query["interval"] = []string{string(interval)}
	}

	var body []byte
	if err := c.base.GetJSON(ctx, "/query", query, &body); err != nil {
		return nil, fmt.Errorf("fetch %s %s: %w", symbol, interval, err)
	}

	res, err := parseSeries(body, interval.SeriesKey(), models.MaxBarsPerTimeframe)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s %s: %w", models.ErrUpstream, symbol, interval, err)
	}
	if !res.Found {
		c.log.Warn("market data series missing",
			applogger.String("symbol", symbol),
			applogger.String("interval", string(interval)),
			applogger.String("notice", res.Notice),
		)
	}
	return res.Bars, nil
}

var _ repository.MarketDataProvider = (*Client)(nil)
