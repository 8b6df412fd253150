package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"SignalDesk/internal/domain/models"
	domrepo "SignalDesk/internal/domain/repository"
	applogger "SignalDesk/pkg/logger"

	"golang.org/x/sync/errgroup"
)

// TimeframeNormalizer fetches one series per requested timeframe in parallel
// and returns them in request order. Any failed fetch fails the whole request.
type TimeframeNormalizer struct {
	provider domrepo.MarketDataProvider
	metrics  domrepo.Metrics
	log      *applogger.Logger
	now      func() time.Time
}

func NewTimeframeNormalizer(provider domrepo.MarketDataProvider, metrics domrepo.Metrics, l *applogger.Logger) *TimeframeNormalizer {
	if metrics == nil {
		metrics = domrepo.NopMetrics{}
	}
	if l == nil {
		l = applogger.Nop()
	}
	return &TimeframeNormalizer{provider: provider, metrics: metrics, log: l, now: time.Now}
}

type NormalizeParams struct {
	Symbol string
	// Timeframes nil means the default list; an empty non-nil slice yields no results.
	Timeframes []string
}

func (uc *TimeframeNormalizer) Normalize(ctx context.Context, p NormalizeParams) (*models.TimeframeSeries, error) {
	symbol := strings.TrimSpace(p.Symbol)
	if symbol == "" {
		return nil, fmt.Errorf("%w: symbol is required", models.ErrInvalidInput)
	}
	if err := uc.provider.CheckCredentials(); err != nil {
		return nil, err
	}

	labels := p.Timeframes
	if labels == nil {
		labels = make([]string, len(domrepo.DefaultTimeframes))
		for i, tf := range domrepo.DefaultTimeframes {
			labels[i] = string(tf)
		}
	}

	start := time.Now()
	results := make([]models.TimeframeResult, len(labels))
	g, gctx := errgroup.WithContext(ctx)
	for i, label := range labels {
		i, label := i, label
		g.Go(func() error {
			interval := domrepo.IntervalFor(domrepo.Timeframe(label))
			bars, err := uc.provider.FetchBars(gctx, symbol, interval)
			if err != nil {
				return fmt.Errorf("timeframe %s: %w", label, err)
			}
			if bars == nil {
				bars = []models.Bar{}
			}
			if len(bars) > models.MaxBarsPerTimeframe {
				bars = bars[:models.MaxBarsPerTimeframe]
			}
			results[i] = models.TimeframeResult{Timeframe: label, Data: bars}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		uc.metrics.RecordError("timeframes_upstream")
		uc.log.Warn("timeframe fetch failed",
			applogger.String("symbol", symbol),
			applogger.Strings("timeframes", labels),
			applogger.Error(err),
		)
		return nil, asUpstream(err)
	}
	uc.metrics.RecordLatency("timeframes", time.Since(start).Seconds())

	return &models.TimeframeSeries{
		Symbol:     symbol,
		Timeframes: results,
		Timestamp:  uc.now().UTC().Format(time.RFC3339),
	}, nil
}
