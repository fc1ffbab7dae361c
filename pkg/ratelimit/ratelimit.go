package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter hands out one token bucket per key. Each bucket holds maxHits
// tokens and refills at maxHits per window.
type Limiter struct {
	mu      sync.Mutex
	limits  map[string]*rate.Limiter
	window  time.Duration
	maxHits int
}

func NewLimiter(window time.Duration, maxHits int) *Limiter {
	return &Limiter{
		limits:  make(map[string]*rate.Limiter),
		window:  window,
		maxHits: maxHits,
	}
}

func (l *Limiter) Allow(key string) bool {
	if l.maxHits <= 0 || l.window <= 0 {
		return false
	}

	l.mu.Lock()
	limiter, exists := l.limits[key]
	if !exists {
		limiter = rate.NewLimiter(rate.Every(l.window/time.Duration(l.maxHits)), l.maxHits)
		l.limits[key] = limiter
	}
	l.mu.Unlock()

	return limiter.Allow()
}
