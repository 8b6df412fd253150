package models

// Requests for the pipeline HTTP endpoints. Fields with a `default` tag are
// filled only when absent from the body; explicit zero values are kept.

type TimeframesRequest struct {
	Symbol     string   `json:"symbol" validate:"required"`
	Timeframes []string `json:"timeframes" default:"[\"1m\",\"5m\",\"15m\",\"1h\",\"4h\",\"1d\"]"`
}

type NewsIngestRequest struct {
	Symbols []string `json:"symbols" validate:"required,min=1,dive,required"`
}

type UnusualFlowRequest struct {
	// Symbol is accepted but not used for filtering yet.
	Symbol        string   `json:"symbol"`
	MinPremium    *float64 `json:"minPremium" default:"50000" validate:"omitempty,gte=0"`
	LookbackHours *int     `json:"lookbackHours" default:"24" validate:"omitempty,gte=0,lte=87600"`
}
