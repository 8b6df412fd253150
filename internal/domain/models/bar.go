package models

// Bar is one OHLCV observation. Timestamp is kept exactly as the provider sent it.
type Bar struct {
	Timestamp string  `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    int64   `json:"volume"`
}

// MaxBarsPerTimeframe bounds every series to the most recent bars.
const MaxBarsPerTimeframe = 100

// TimeframeResult pairs a requested label with its bars, most recent first.
// Data is never nil so it serializes as [].
type TimeframeResult struct {
	Timeframe string `json:"timeframe"`
	Data      []Bar  `json:"data"`
}

// TimeframeSeries is the response of one normalization request.
type TimeframeSeries struct {
	Symbol     string            `json:"symbol"`
	Timeframes []TimeframeResult `json:"timeframes"`
	Timestamp  string            `json:"timestamp"`
}
