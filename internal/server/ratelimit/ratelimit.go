// Package ratelimit throttles auth form submissions per client with token
// buckets.
package ratelimit

import (
	"sync"
	"time"
)

type bucket struct {
	capacity   float64
	refillRate float64 // tokens per second
	tokens     float64
	lastRefill time.Time
	lastUsed   time.Time
}

func newBucket(capacity int, refillRate float64, now time.Time) *bucket {
	return &bucket{
		capacity:   float64(capacity),
		refillRate: refillRate,
		tokens:     float64(capacity),
		lastRefill: now,
		lastUsed:   now,
	}
}

func (b *bucket) refill(now time.Time) {
	elapsed := now.Sub(b.lastRefill).Seconds()
	if elapsed > 0 {
		b.tokens = min(b.capacity, b.tokens+elapsed*b.refillRate)
		b.lastRefill = now
	}
}

// take consumes a token if one is available and reports the remaining
// tokens and how long until the bucket is full again.
func (b *bucket) take(now time.Time) (bool, int, time.Duration) {
	b.refill(now)
	b.lastUsed = now
	allowed := b.tokens >= 1
	if allowed {
		b.tokens--
	}
	var untilFull time.Duration
	if b.tokens < b.capacity {
		untilFull = time.Duration((b.capacity - b.tokens) / b.refillRate * float64(time.Second))
	}
	return allowed, int(b.tokens), untilFull
}

// Info describes the limit state after a request.
type Info struct {
	Allowed    bool
	Limited    bool // false when no rule applied
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// Limiter keys buckets by client, rule path and method.
type Limiter struct {
	config  *Config
	now     func() time.Time
	mu      sync.Mutex
	buckets map[string]*bucket
	stop    chan struct{}
	once    sync.Once
}

// NewLimiter creates a limiter. A nil config disables limiting.
func NewLimiter(cfg *Config) *Limiter {
	if cfg == nil {
		cfg = &Config{}
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	l := &Limiter{
		config:  cfg,
		now:     now,
		buckets: make(map[string]*bucket),
	}
	if cfg.Enabled && cfg.CleanupInterval > 0 {
		l.stop = make(chan struct{})
		go l.cleanupLoop(cfg.CleanupInterval)
	}
	return l
}

// Allow records a request from clientID and reports whether it may proceed.
func (l *Limiter) Allow(clientID, path, method string) (bool, Info) {
	if !l.config.Enabled || l.config.Allowlist[clientID] {
		return true, Info{Allowed: true}
	}
	rule := Match(path, method, l.config.Rules)
	if rule == nil || rule.Limit <= 0 {
		return true, Info{Allowed: true}
	}

	now := l.now()
	key := clientID + ":" + rule.Path + ":" + rule.Method

	l.mu.Lock()
	b, ok := l.buckets[key]
	if !ok {
		capacity := rule.Burst
		if capacity <= 0 {
			capacity = rule.Limit
		}
		b = newBucket(capacity, float64(rule.Limit)/rule.Window.Seconds(), now)
		l.buckets[key] = b
	}
	allowed, remaining, untilFull := b.take(now)
	var retryAfter time.Duration
	if !allowed {
		retryAfter = time.Duration((1 - b.tokens) / b.refillRate * float64(time.Second))
	}
	l.mu.Unlock()

	return allowed, Info{
		Allowed:    allowed,
		Limited:    true,
		Limit:      rule.Limit,
		Remaining:  remaining,
		ResetTime:  now.Add(untilFull),
		RetryAfter: retryAfter,
	}
}

func (l *Limiter) cleanupLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.Sweep()
		case <-l.stop:
			return
		}
	}
}

// Sweep drops buckets idle for longer than IdleAfter.
func (l *Limiter) Sweep() int {
	idle := l.config.IdleAfter
	if idle <= 0 {
		idle = time.Hour
	}
	cutoff := l.now().Add(-idle)

	l.mu.Lock()
	defer l.mu.Unlock()
	removed := 0
	for key, b := range l.buckets {
		if b.lastUsed.Before(cutoff) {
			delete(l.buckets, key)
			removed++
		}
	}
	return removed
}

// Stop ends the cleanup goroutine. It is safe to call more than once.
func (l *Limiter) Stop() {
	l.once.Do(func() {
		if l.stop != nil {
			close(l.stop)
		}
	})
}
