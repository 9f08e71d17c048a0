package ratelimit

import (
	"context"
	"os"
	"sync"

	"golang.org/x/time/rate"
)

// API represents the different external APIs we interact with
type API string

const (
	// APIFRED represents the US statistical API
	APIFRED API = "fred"
	// APIWorldBank represents the multi-country statistical API
	APIWorldBank API = "worldbank"
	// APIDocStore represents the remote document store
	APIDocStore API = "docstore"
)

// Limiter manages rate limits for different APIs
type Limiter struct {
	limiters map[API]*rate.Limiter
	mu       sync.RWMutex
}

var (
	instance *Limiter
	once     sync.Once
)

// GetLimiter returns the singleton rate limiter instance
func GetLimiter() *Limiter {
	once.Do(func() {
		instance = &Limiter{
			limiters: make(map[API]*rate.Limiter),
		}
		instance.initLimiters()
	})
	return instance
}

// initLimiters initializes rate limiters for each API with conservative defaults
func (l *Limiter) initLimiters() {
	// In test mode, use unlimited rate limits to avoid slowing down tests
	if os.Getenv("GO_TESTING") == "1" || isTestMode() {
		l.limiters[APIFRED] = rate.NewLimiter(rate.Inf, 1)
		l.limiters[APIWorldBank] = rate.NewLimiter(rate.Inf, 1)
		l.limiters[APIDocStore] = rate.NewLimiter(rate.Inf, 1)
		return
	}

	// Production rate limits
	// FRED: 120 requests per minute documented; stay well under it
	l.limiters[APIFRED] = rate.NewLimiter(rate.Limit(1), 2)

	// World Bank: no published limit, be a polite client
	l.limiters[APIWorldBank] = rate.NewLimiter(rate.Limit(4), 2)

	// Document store: one read and one write per run, no burst needed
	l.limiters[APIDocStore] = rate.NewLimiter(rate.Limit(1), 1)
}

// isTestMode checks if we're running in test mode
func isTestMode() bool {
	for _, arg := range os.Args {
		if len(arg) > 6 && arg[:6] == "-test." {
			return true
		}
	}
	return false
}

// Wait blocks until the rate limiter permits an event for the given API.
// It returns an error if the context is canceled before the event can proceed
func (l *Limiter) Wait(ctx context.Context, api API) error {
	l.mu.RLock()
	limiter, exists := l.limiters[api]
	l.mu.RUnlock()

	if !exists {
		// If no limiter exists for this API, allow the request without limiting
		return nil
	}

	return limiter.Wait(ctx)
}

// Allow reports whether an event for the given API may happen now
func (l *Limiter) Allow(api API) bool {
	l.mu.RLock()
	limiter, exists := l.limiters[api]
	l.mu.RUnlock()

	if !exists {
		return true
	}

	return limiter.Allow()
}
