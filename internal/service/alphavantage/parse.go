package alphavantage

import (
	"bytes"
	"encoding/json"
	"fmt"

	"SignalDesk/internal/domain/models"
	"SignalDesk/pkg/util"
)

// Keys the provider uses instead of a series when it refuses a request.
var noticeKeys = map[string]bool{
	"Note":          true,
	"Information":   true,
	"Error Message": true,
}

// seriesResult is what was found in one time-series response.
type seriesResult struct {
	Bars   []models.Bar
	Found  bool   // series key was present
	Notice string // provider notice when the series key is absent
}

// parseSeries reads the object under seriesKey token by token so bars come
// out in the provider's order (most recent first). Decoding into a map would
// lose that order. At most max bars are returned; bars whose fields do not
// parse are dropped.
func parseSeries(body []byte, seriesKey string, max int) (seriesResult, error) {
	res := seriesResult{Bars: []models.Bar{}}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	if err := expectDelim(dec, '{'); err != nil {
		return res, err
	}
	for dec.More() {
		key, err := readKey(dec)
		if err != nil {
			return res, err
		}
		switch {
		case key == seriesKey:
			res.Found = true
			bars, err := readBars(dec, max)
			if err != nil {
				return res, fmt.Errorf("series %q: %w", seriesKey, err)
			}
			res.Bars = bars
			return res, nil
		case noticeKeys[key]:
			var msg interface{}
			if err := dec.Decode(&msg); err != nil {
				return res, fmt.Errorf("decode %q: %w", key, err)
			}
			if res.Notice == "" {
				res.Notice = fmt.Sprint(msg)
			}
		default:
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return res, fmt.Errorf("skip %q: %w", key, err)
			}
		}
	}
	return res, nil
}

func readBars(dec *json.Decoder, max int) ([]models.Bar, error) {
	bars := make([]models.Bar, 0, max)
	if err := expectDelim(dec, '{'); err != nil {
		return bars, err
	}
	for dec.More() && len(bars) < max {
		ts, err := readKey(dec)
		if err != nil {
			return bars, err
		}
		var fields map[string]interface{}
		if err := dec.Decode(&fields); err != nil {
			return bars, fmt.Errorf("bar %s: %w", ts, err)
		}
		if bar, ok := toBar(ts, fields); ok {
			bars = append(bars, bar)
		}
	}
	return bars, nil
}

func toBar(ts string, f map[string]interface{}) (models.Bar, bool) {
	open, ok1 := util.ParseFloat(str(f["1. open"]))
	high, ok2 := util.ParseFloat(str(f["2. high"]))
	low, ok3 := util.ParseFloat(str(f["3. low"]))
	closeP, ok4 := util.ParseFloat(str(f["4. close"]))
	vol, ok5 := util.ParseInt64(str(f["5. volume"]))
	if !(ok1 && ok2 && ok3 && ok4 && ok5) {
		return models.Bar{}, false
	}
	return models.Bar{Timestamp: ts, Open: open, High: high, Low: low, Close: closeP, Volume: vol}, true
}

func str(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	default:
		return ""
	}
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected object key, got %v", tok)
	}
	return key, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}
