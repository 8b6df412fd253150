package usecase

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"SignalDesk/internal/domain/models"
	domrepo "SignalDesk/internal/domain/repository"
	applogger "SignalDesk/pkg/logger"

	"github.com/shopspring/decimal"
)

const (
	DefaultMinPremium    = 50000.0
	DefaultLookbackHours = 24

	// MaxLookbackHours is ten years; larger windows would overflow time.Duration.
	MaxLookbackHours = 87600
)

// FlowDetector summarizes recent unusual options flow.
type FlowDetector struct {
	store   domrepo.FlowStore
	metrics domrepo.Metrics
	log     *applogger.Logger
	maxRows int
	now     func() time.Time
}

func NewFlowDetector(store domrepo.FlowStore, metrics domrepo.Metrics, l *applogger.Logger, maxRows int) *FlowDetector {
	if metrics == nil {
		metrics = domrepo.NopMetrics{}
	}
	if l == nil {
		l = applogger.Nop()
	}
	if maxRows <= 0 {
		maxRows = 100
	}
	return &FlowDetector{store: store, metrics: metrics, log: l, maxRows: maxRows, now: time.Now}
}

type DetectParams struct {
	// Symbol is reserved; rows are not filtered by it.
	Symbol        string
	MinPremium    float64
	LookbackHours int
}

// Detect reads rows already flagged unusual inside the lookback window and
// keeps those with premium >= MinPremium or a sweep/block trade type.
func (uc *FlowDetector) Detect(ctx context.Context, p DetectParams) (*models.FlowReport, error) {
	if p.MinPremium < 0 || p.LookbackHours < 0 {
		return nil, fmt.Errorf("%w: minPremium and lookbackHours must be >= 0", models.ErrInvalidInput)
	}
	if p.LookbackHours > MaxLookbackHours {
		return nil, fmt.Errorf("%w: lookbackHours must be <= %d", models.ErrInvalidInput, MaxLookbackHours)
	}
	if p.Symbol != "" {
		uc.log.Debug("flow symbol filter not applied", applogger.String("symbol", p.Symbol))
	}

	start := time.Now()
	cutoff := uc.now().Add(-time.Duration(p.LookbackHours) * time.Hour)
	rows, err := uc.store.ListUnusualSince(ctx, cutoff, uc.maxRows)
	if err != nil {
		uc.metrics.RecordError("flow_storage")
		return nil, fmt.Errorf("%w: %w", models.ErrStorage, err)
	}

	report := summarize(rows, p.MinPremium)
	report.Summary.Timeframe = strconv.Itoa(p.LookbackHours) + "h"
	uc.log.Debug("unusual flow summarized",
		applogger.Int("rows", len(rows)),
		applogger.Int("kept", report.Summary.TotalFlows),
		applogger.Float64("min_premium", p.MinPremium),
		applogger.Float64("total_premium", report.Summary.TotalPremium),
	)
	uc.metrics.RecordLatency("flow_unusual", time.Since(start).Seconds())
	return report, nil
}

func summarize(rows []models.OptionsFlow, minPremium float64) *models.FlowReport {
	kept := make([]models.OptionsFlow, 0, len(rows))
	total := decimal.Zero
	var tally models.SentimentTally

	for _, f := range rows {
		if f.Premium < minPremium && f.TradeType != models.TradeTypeSweep && f.TradeType != models.TradeTypeBlock {
			continue
		}
		kept = append(kept, f)
		total = total.Add(decimal.NewFromFloat(f.Premium))
		switch f.Sentiment {
		case models.SentimentBullish:
			tally.Bullish++
		case models.SentimentBearish:
			tally.Bearish++
		case models.SentimentNeutral:
			tally.Neutral++
		}
	}

	return &models.FlowReport{
		Flows: kept,
		Summary: models.FlowSummary{
			TotalFlows:   len(kept),
			TotalPremium: total.InexactFloat64(),
			Sentiment:    tally,
		},
	}
}
