package models

import "time"

// Trade types that count as unusual regardless of premium.
const (
	TradeTypeSweep = "sweep"
	TradeTypeBlock = "block"
)

const (
	SentimentBullish = "bullish"
	SentimentBearish = "bearish"
	SentimentNeutral = "neutral"
)

// OptionsFlow is a persisted options trade row. Written elsewhere, only read here.
type OptionsFlow struct {
	ID           string    `json:"id"`
	Symbol       string    `json:"symbol"`
	ContractType string    `json:"contract_type"`
	Strike       float64   `json:"strike"`
	Expiration   string    `json:"expiration"`
	Size         int64     `json:"size"`
	Premium      float64   `json:"premium"`
	TradeType    string    `json:"trade_type"`
	Sentiment    string    `json:"sentiment"`
	DetectedAt   time.Time `json:"detected_at"`
	IsUnusual    bool      `json:"is_unusual"`
}

// SentimentTally counts retained flows per sentiment. Other values are not counted.
type SentimentTally struct {
	Bullish int `json:"bullish"`
	Bearish int `json:"bearish"`
	Neutral int `json:"neutral"`
}

// FlowSummary is derived per request and never persisted.
type FlowSummary struct {
	TotalFlows   int            `json:"total_flows"`
	TotalPremium float64        `json:"total_premium"`
	Sentiment    SentimentTally `json:"sentiment"`
	Timeframe    string         `json:"timeframe"`
}

// FlowReport is the response of the unusual flow detector.
type FlowReport struct {
	Flows   []OptionsFlow `json:"flows"`
	Summary FlowSummary   `json:"summary"`
}
