package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"strings"
	"time"
)

// BytesCache stores serialized responses with a TTL.
type BytesCache interface {
	GetBytes(ctx context.Context, key string) (b []byte, ok bool, err error)
	SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Key builds a namespaced cache key from request parts. Parts are hashed so
// arbitrary client input cannot produce oversized keys.
func Key(namespace string, parts ...string) string {
	h := sha1.Sum([]byte(strings.Join(parts, "\x1f")))
	return "signaldesk:" + namespace + ":" + hex.EncodeToString(h[:])
}
