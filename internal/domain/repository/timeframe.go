package repository

// Timeframe is a domain bar resolution label.
type Timeframe string

const (
	TF1m  Timeframe = "1m"
	TF5m  Timeframe = "5m"
	TF15m Timeframe = "15m"
	TF30m Timeframe = "30m"
	TF1h  Timeframe = "1h"
	TF4h  Timeframe = "4h"
	TF1d  Timeframe = "1d"
)

// Interval is the market-data provider's native resolution.
type Interval string

const (
	Interval1min  Interval = "1min"
	Interval5min  Interval = "5min"
	Interval15min Interval = "15min"
	Interval30min Interval = "30min"
	Interval60min Interval = "60min"
	IntervalDaily Interval = "daily"
)

// DefaultTimeframes is used when a request names none.
var DefaultTimeframes = []Timeframe{TF1m, TF5m, TF15m, TF1h, TF4h, TF1d}

var intervals = map[Timeframe]Interval{
	TF1m:  Interval1min,
	TF5m:  Interval5min,
	TF15m: Interval15min,
	TF30m: Interval30min,
	TF1h:  Interval60min,
	// TODO: 4h has no native bucket; aggregate 60min bars into 4h instead of returning hourly ones.
	TF4h: Interval60min,
	TF1d: IntervalDaily,
}

// IntervalFor maps a label to the provider interval. Unknown labels fall back
// to 5min; that is policy, not an error.
func IntervalFor(tf Timeframe) Interval {
	if iv, ok := intervals[tf]; ok {
		return iv
	}
	return Interval5min
}

// IsDaily reports whether the interval uses the daily series.
func (iv Interval) IsDaily() bool { return iv == IntervalDaily }

// SeriesKey is the response object key holding the series for iv.
func (iv Interval) SeriesKey() string {
	if iv.IsDaily() {
		return "Time Series (Daily)"
	}
	return "Time Series (" + string(iv) + ")"
}
