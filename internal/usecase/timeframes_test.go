package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"SignalDesk/internal/domain/models"
	domrepo "SignalDesk/internal/domain/repository"
)

func TestNormalizeDefaultsPreserveOrder(t *testing.T) {
	market := &fakeMarket{bars: map[domrepo.Interval][]models.Bar{
		domrepo.Interval1min:  makeBars(150),
		domrepo.Interval5min:  makeBars(3),
		domrepo.IntervalDaily: makeBars(2),
	}}
	uc := NewTimeframeNormalizer(market, nil, nil)
	uc.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("x", 3600)) }

	res, err := uc.Normalize(context.Background(), NormalizeParams{Symbol: " AAPL "})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if res.Symbol != "AAPL" {
		t.Fatalf("expected trimmed symbol, got %q", res.Symbol)
	}
	if res.Timestamp != "2024-05-01T11:00:00Z" {
		t.Fatalf("unexpected timestamp %s", res.Timestamp)
	}
	want := []string{"1m", "5m", "15m", "1h", "4h", "1d"}
	if len(res.Timeframes) != len(want) {
		t.Fatalf("expected %d timeframes, got %d", len(want), len(res.Timeframes))
	}
	for i, tf := range want {
		if res.Timeframes[i].Timeframe != tf {
			t.Fatalf("position %d: expected %s, got %s", i, tf, res.Timeframes[i].Timeframe)
		}
		if res.Timeframes[i].Data == nil {
			t.Fatalf("timeframe %s data must not be nil", tf)
		}
	}
	if n := len(res.Timeframes[0].Data); n != models.MaxBarsPerTimeframe {
		t.Fatalf("expected 1m capped at %d bars, got %d", models.MaxBarsPerTimeframe, n)
	}
	if len(res.Timeframes[2].Data) != 0 {
		t.Fatalf("expected empty 15m data when series is missing")
	}
	if len(market.calls) != 6 {
		t.Fatalf("expected 6 provider calls, got %d", len(market.calls))
	}
}

func TestNormalizeUnknownLabelFallsBackTo5min(t *testing.T) {
	market := &fakeMarket{bars: map[domrepo.Interval][]models.Bar{domrepo.Interval5min: makeBars(4)}}
	uc := NewTimeframeNormalizer(market, nil, nil)

	res, err := uc.Normalize(context.Background(), NormalizeParams{Symbol: "MSFT", Timeframes: []string{"2h"}})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if res.Timeframes[0].Timeframe != "2h" || len(res.Timeframes[0].Data) != 4 {
		t.Fatalf("unexpected result: %+v", res.Timeframes[0])
	}
	if market.calls[0] != domrepo.Interval5min {
		t.Fatalf("expected 5min interval, got %s", market.calls[0])
	}
}

func TestNormalizeEmptyListYieldsNoResults(t *testing.T) {
	market := &fakeMarket{}
	uc := NewTimeframeNormalizer(market, nil, nil)

	res, err := uc.Normalize(context.Background(), NormalizeParams{Symbol: "MSFT", Timeframes: []string{}})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(res.Timeframes) != 0 || len(market.calls) != 0 {
		t.Fatalf("expected no fetches and no results, got %d/%d", len(res.Timeframes), len(market.calls))
	}
}

func TestNormalizeErrors(t *testing.T) {
	uc := NewTimeframeNormalizer(&fakeMarket{}, nil, nil)
	if _, err := uc.Normalize(context.Background(), NormalizeParams{Symbol: "  "}); !errors.Is(err, models.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}

	noKey := &fakeMarket{credErr: models.ErrConfiguration}
	uc = NewTimeframeNormalizer(noKey, nil, nil)
	if _, err := uc.Normalize(context.Background(), NormalizeParams{Symbol: "AAPL"}); !errors.Is(err, models.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if len(noKey.calls) != 0 {
		t.Fatalf("provider must not be called without credentials")
	}

	metrics := &countingMetrics{}
	failing := &fakeMarket{failOn: domrepo.Interval15min}
	uc = NewTimeframeNormalizer(failing, metrics, nil)
	_, err := uc.Normalize(context.Background(), NormalizeParams{Symbol: "AAPL"})
	if !errors.Is(err, models.ErrUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if metrics.errors["timeframes_upstream"] != 1 {
		t.Fatalf("expected upstream error metric, got %v", metrics.errors)
	}
}
