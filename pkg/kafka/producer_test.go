package kafka

import (
	"testing"

	"github.com/segmentio/kafka-go"
)

func TestNewProducerRequiresBrokers(t *testing.T) {
	if _, err := NewProducer(ProducerConfig{}); err == nil {
		t.Fatalf("expected error without brokers")
	}
}

func TestEncodeValue(t *testing.T) {
	b, err := encodeValue(map[string]string{"symbol": "AAPL"})
	if err != nil || string(b) != `{"symbol":"AAPL"}` {
		t.Fatalf("unexpected encoding %s %v", b, err)
	}
	b, _ = encodeValue("raw")
	if string(b) != "raw" {
		t.Fatalf("strings pass through, got %s", b)
	}
}

func TestParseCompressionFallsBackToGzip(t *testing.T) {
	if parseCompression("unknown") != kafka.Gzip {
		t.Fatalf("expected gzip fallback")
	}
	if parseCompression("zstd") != kafka.Zstd {
		t.Fatalf("expected zstd")
	}
}
