package ratelimit

import (
	"fmt"
	"sync"
	"time"

	"github.com/deusflow/cryptonews/internal/logger"
)

// Limiter caps model requests per provider and in total within a window.
// A zero limit means unlimited.
type Limiter struct {
	mu        sync.Mutex
	limits    map[string]int
	counts    map[string]int
	maxTotal  int
	total     int
	window    time.Duration
	resetTime time.Time
	cacheHits int
	now       func() time.Time
}

// New creates a limiter. limits maps provider name to its cap.
func New(maxTotal int, window time.Duration, limits map[string]int) *Limiter {
	l := &Limiter{
		limits:   make(map[string]int, len(limits)),
		counts:   make(map[string]int),
		maxTotal: maxTotal,
		window:   window,
		now:      time.Now,
	}
	for k, v := range limits {
		l.limits[k] = v
	}
	l.resetTime = l.now().Add(window)
	return l
}

// Allow reports whether provider may make another request.
func (l *Limiter) Allow(provider string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.checkReset()
	return l.check(provider) == nil
}

// Use reserves one request for provider.
func (l *Limiter) Use(provider string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.checkReset()
	if err := l.check(provider); err != nil {
		return err
	}

	l.counts[provider]++
	l.total++

	logger.Debug("AI usage", "provider", provider, "used", l.counts[provider], "total", l.total, "max_total", l.maxTotal)
	return nil
}

// RecordCacheHit counts a request avoided by the annotation cache.
func (l *Limiter) RecordCacheHit() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cacheHits++
}

// Reset clears all counters and restarts the window.
func (l *Limiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reset()
}

type Stats struct {
	Used      map[string]int `json:"used"`
	Total     int            `json:"total"`
	MaxTotal  int            `json:"max_total"`
	CacheHits int            `json:"cache_hits"`
	ResetTime time.Time      `json:"reset_time"`
}

func (l *Limiter) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()

	used := make(map[string]int, len(l.counts))
	for k, v := range l.counts {
		used[k] = v
	}
	return Stats{Used: used, Total: l.total, MaxTotal: l.maxTotal, CacheHits: l.cacheHits, ResetTime: l.resetTime}
}

func (l *Limiter) check(provider string) error {
	if limit := l.limits[provider]; limit > 0 && l.counts[provider] >= limit {
		return fmt.Errorf("%s rate limit exceeded (%d/%d)", provider, l.counts[provider], limit)
	}
	if l.maxTotal > 0 && l.total >= l.maxTotal {
		return fmt.Errorf("total AI rate limit exceeded (%d/%d)", l.total, l.maxTotal)
	}
	return nil
}

func (l *Limiter) checkReset() {
	if l.window > 0 && l.now().After(l.resetTime) {
		logger.Info("Resetting AI rate limiter counters", "total", l.total, "cache_hits", l.cacheHits)
		l.reset()
	}
}

func (l *Limiter) reset() {
	l.counts = make(map[string]int)
	l.total = 0
	l.cacheHits = 0
	l.resetTime = l.now().Add(l.window)
}
