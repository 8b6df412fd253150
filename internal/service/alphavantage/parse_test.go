package alphavantage

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"SignalDesk/internal/domain/models"
)

const intradayBody = `{
  "Meta Data": {"1. Information": "Intraday (5min)", "2. Symbol": "IBM"},
  "Time Series (5min)": {
    "2024-01-05 16:00:00": {"1. open": "161.2000", "2. high": "161.3500", "3. low": "161.1000", "4. close": "161.2500", "5. volume": "52311"},
    "2024-01-05 15:55:00": {"1. open": "160.9000", "2. high": "161.2500", "3. low": "160.8800", "4. close": "161.2000", "5. volume": "41280"},
    "2024-01-05 15:50:00": {"1. open": "bad", "2. high": "161.0000", "3. low": "160.7000", "4. close": "160.9000", "5. volume": "38000"},
    "2024-01-05 15:45:00": {"1. open": "160.5000", "2. high": "160.9500", "3. low": "160.4000", "4. close": "160.9000", "5. volume": "30100"}
  }
}`

func TestParseSeriesKeepsProviderOrderAndDropsBadBars(t *testing.T) {
	res, err := parseSeries([]byte(intradayBody), "Time Series (5min)", 100)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !res.Found {
		t.Fatalf("expected series to be found")
	}
	want := []string{"2024-01-05 16:00:00", "2024-01-05 15:55:00", "2024-01-05 15:45:00"}
	if len(res.Bars) != len(want) {
		t.Fatalf("expected %d bars, got %d", len(want), len(res.Bars))
	}
	for i, ts := range want {
		if res.Bars[i].Timestamp != ts {
			t.Fatalf("bar %d timestamp = %s, want %s", i, res.Bars[i].Timestamp, ts)
		}
	}
	first := res.Bars[0]
	if first.Open != 161.2 || first.High != 161.35 || first.Low != 161.1 || first.Close != 161.25 || first.Volume != 52311 {
		t.Fatalf("unexpected first bar %+v", first)
	}
}

func TestParseSeriesCapsBars(t *testing.T) {
	var sb strings.Builder
	sb.WriteString(`{"Time Series (Daily)": {`)
	for i := 0; i < 150; i++ {
		if i > 0 {
			sb.WriteString(",")
		}
		fmt.Fprintf(&sb, `"day-%03d": {"1. open": "1", "2. high": "2", "3. low": "0.5", "4. close": "1.5", "5. volume": "%d"}`, i, i)
	}
	sb.WriteString(`}}`)

	res, err := parseSeries([]byte(sb.String()), "Time Series (Daily)", 100)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(res.Bars) != 100 {
		t.Fatalf("expected 100 bars, got %d", len(res.Bars))
	}
	if res.Bars[0].Timestamp != "day-000" || res.Bars[99].Timestamp != "day-099" {
		t.Fatalf("expected the first 100 in provider order, got %s..%s", res.Bars[0].Timestamp, res.Bars[99].Timestamp)
	}
}

func TestParseSeriesMissingKeyReturnsNotice(t *testing.T) {
	body := `{"Note": "Thank you for using Alpha Vantage! Our standard API call frequency is 5 calls per minute."}`
	res, err := parseSeries([]byte(body), "Time Series (1min)", 100)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if res.Found || len(res.Bars) != 0 || res.Bars == nil {
		t.Fatalf("expected empty non-nil bars, got %+v", res)
	}
	if !strings.HasPrefix(res.Notice, "Thank you") {
		t.Fatalf("expected notice, got %q", res.Notice)
	}
}

func TestParseSeriesNullBarDropped(t *testing.T) {
	body := `{"Time Series (1min)": {"a": null, "b": {"1. open": "1", "2. high": "1", "3. low": "1", "4. close": "1", "5. volume": "10"}}}`
	res, err := parseSeries([]byte(body), "Time Series (1min)", 100)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(res.Bars) != 1 || res.Bars[0].Timestamp != "b" {
		t.Fatalf("expected only bar b, got %+v", res.Bars)
	}
}

func TestParseSeriesMalformed(t *testing.T) {
	if _, err := parseSeries([]byte(`[1,2]`), "Time Series (1min)", 100); err == nil {
		t.Fatalf("expected error for non-object body")
	}
}

func TestParseSeriesDropsNonFiniteBarsAndRoundTrips(t *testing.T) {
	body := `{"Time Series (Daily)": {
    "2024-01-05": {"1. open": "NaN", "2. high": "2", "3. low": "0.5", "4. close": "1.5", "5. volume": "10"},
    "2024-01-04": {"1. open": "1", "2. high": "Infinity", "3. low": "0.5", "4. close": "1.5", "5. volume": "10"},
    "2024-01-03": {"1. open": "1.25", "2. high": "2.5", "3. low": "0.75", "4. close": "1.5", "5. volume": "1200"}
  }}`
	res, err := parseSeries([]byte(body), "Time Series (Daily)", 100)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(res.Bars) != 1 || res.Bars[0].Timestamp != "2024-01-03" {
		t.Fatalf("expected only the finite bar, got %+v", res.Bars)
	}

	b, err := json.Marshal(res.Bars)
	if err != nil {
		t.Fatalf("marshal bars: %v", err)
	}
	var back []models.Bar
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal bars: %v", err)
	}
	if len(back) != 1 || back[0] != res.Bars[0] {
		t.Fatalf("round trip changed bars: %+v vs %+v", back, res.Bars)
	}
}
