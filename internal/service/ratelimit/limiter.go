package ratelimit

import (
	"sync"
	"time"
)

// sweepEvery bounds how often Allow scans for idle buckets.
const sweepEvery = time.Minute

type bucket struct {
	tokens     float64
	capacity   float64
	refillRate float64 // tokens per second
	last       time.Time
}

// full reports whether the bucket would be back at capacity by now. Such a
// bucket behaves exactly like a new one and can be dropped.
func (b *bucket) full(now time.Time) bool {
	if b.refillRate <= 0 {
		return false
	}
	return b.tokens+now.Sub(b.last).Seconds()*b.refillRate >= b.capacity
}

// Limiter keeps one token bucket per key (typically client address + route).
// Buckets that have fully refilled are evicted so the map does not grow with
// every address ever seen.
type Limiter struct {
	mu        sync.Mutex
	m         map[string]*bucket
	now       func() time.Time
	lastSweep time.Time
}

func New() *Limiter { return &Limiter{m: make(map[string]*bucket), now: time.Now} }

// Allow returns true if one token can be consumed for key.
func (l *Limiter) Allow(key string, capacity, refillPerSec float64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= sweepEvery {
		l.sweep(now)
	}

	b, ok := l.m[key]
	if !ok {
		b = &bucket{tokens: capacity, capacity: capacity, refillRate: refillPerSec, last: now}
		l.m[key] = b
	}
	if elapsed := now.Sub(b.last).Seconds(); elapsed > 0 {
		b.tokens += elapsed * b.refillRate
		if b.tokens > b.capacity {
			b.tokens = b.capacity
		}
		b.last = now
	}
	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

func (l *Limiter) sweep(now time.Time) {
	for key, b := range l.m {
		if b.full(now) {
			delete(l.m, key)
		}
	}
	l.lastSweep = now
}

// Len returns the number of tracked buckets.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.m)
}
