package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNewWithWriterEmitsFields(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewWithWriter(&buf, &Config{Level: "info", Format: "json"})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}

	l.Warn("symbol failed", String("symbol", "AAPL"), Int("attempt", 2), Error(errors.New("boom")))

	var line map[string]interface{}
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line); err != nil {
		t.Fatalf("log line is not json: %v (%s)", err, buf.String())
	}
	if line["level"] != "warn" || line["symbol"] != "AAPL" || line["error"] != "boom" {
		t.Fatalf("unexpected log line: %v", line)
	}
	if line["attempt"].(float64) != 2 {
		t.Fatalf("expected attempt=2, got %v", line["attempt"])
	}
}

func TestLevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewWithWriter(&buf, &Config{Level: "info"})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	l.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug line should be filtered, got %s", buf.String())
	}
}

func TestWithCarriesFields(t *testing.T) {
	var buf bytes.Buffer
	l, _ := NewWithWriter(&buf, &Config{Level: "debug"})
	l.With(String("component", "news")).Info("started")
	if !strings.Contains(buf.String(), `"component":"news"`) {
		t.Fatalf("expected component field, got %s", buf.String())
	}
}

func TestInvalidLevel(t *testing.T) {
	if _, err := NewWithWriter(&bytes.Buffer{}, &Config{Level: "loud"}); err == nil {
		t.Fatalf("expected error for invalid level")
	}
}

func TestFloatAndDurationFields(t *testing.T) {
	var buf bytes.Buffer
	l, _ := NewWithWriter(&buf, &Config{Level: "debug", Format: "json"})
	l.Debug("unusual flow summarized", Float64("total_premium", 61000.5), Duration("duration_ms", 1500*time.Millisecond))

	var line map[string]interface{}
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line); err != nil {
		t.Fatalf("log line is not json: %v (%s)", err, buf.String())
	}
	if line["total_premium"].(float64) != 61000.5 || line["duration_ms"].(float64) != 1500 {
		t.Fatalf("unexpected log line: %v", line)
	}
}
