package api

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rpupo63/virtual-closet-backend/errs"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// DefaultLimiterIdleTTL is how long a key may go unseen before its bucket is dropped.
const DefaultLimiterIdleTTL = 10 * time.Minute

type keyedLimiter struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64 // unix nanos
}

// KeyedRateLimiter hands out one token bucket per key. Buckets unseen for
// longer than the idle TTL are swept, so the map tracks recent keys only.
type KeyedRateLimiter struct {
	mu        sync.RWMutex
	limiters  map[string]*keyedLimiter
	limit     rate.Limit
	burst     int
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func NewKeyedRateLimiter(rps float64, burst int) *KeyedRateLimiter {
	if burst < 1 {
		burst = 1
	}
	krl := &KeyedRateLimiter{
		limiters: make(map[string]*keyedLimiter),
		limit:    rate.Limit(rps),
		burst:    burst,
		idleTTL:  DefaultLimiterIdleTTL,
		now:      time.Now,
	}
	// A bucket idle past its refill time is full again, so dropping it is invisible.
	if rps > 0 {
		if refill := time.Duration(float64(burst) / rps * float64(time.Second)); refill > krl.idleTTL {
			krl.idleTTL = refill
		}
	}
	krl.lastSweep = krl.now()
	return krl
}

func (krl *KeyedRateLimiter) Allow(key string) bool {
	return krl.getLimiter(key).Allow()
}

// Len reports how many keys currently hold a bucket.
func (krl *KeyedRateLimiter) Len() int {
	krl.mu.RLock()
	defer krl.mu.RUnlock()
	return len(krl.limiters)
}

func (krl *KeyedRateLimiter) getLimiter(key string) *rate.Limiter {
	now := krl.now()

	krl.mu.RLock()
	entry, exists := krl.limiters[key]
	due := now.Sub(krl.lastSweep) >= krl.idleTTL
	krl.mu.RUnlock()
	if exists && !due {
		entry.lastSeen.Store(now.UnixNano())
		return entry.limiter
	}

	krl.mu.Lock()
	defer krl.mu.Unlock()

	if now.Sub(krl.lastSweep) >= krl.idleTTL {
		krl.sweepLocked(now)
	}
	// Double-check after acquiring write lock
	if entry, exists = krl.limiters[key]; !exists {
		entry = &keyedLimiter{limiter: rate.NewLimiter(krl.limit, krl.burst)}
		krl.limiters[key] = entry
	}
	entry.lastSeen.Store(now.UnixNano())
	return entry.limiter
}

func (krl *KeyedRateLimiter) sweepLocked(now time.Time) {
	cutoff := now.Add(-krl.idleTTL).UnixNano()
	evicted := 0
	for key, entry := range krl.limiters {
		if entry.lastSeen.Load() < cutoff {
			delete(krl.limiters, key)
			evicted++
		}
	}
	krl.lastSweep = now
	if evicted > 0 {
		log.Debug().Int("evicted", evicted).Int("remaining", len(krl.limiters)).Msg("Swept idle rate limiters")
	}
}

// rateLimitMiddleware limits per owner once authenticated and per client IP before that.
func rateLimitMiddleware(limiter *KeyedRateLimiter) func(http.Handler) http.Handler {
	responder := NewResponder(log.With().Str("handlerName", "rateLimitMiddleware").Logger())
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := ownerID(r.Context())
			if key == "" {
				key = "ip:" + clientIP(r)
			}
			if !limiter.Allow(key) {
				log.Warn().Str("key", key).Str("path", r.URL.Path).Msg("Rate limit exceeded")
				responder.WriteError(w, errs.NewRateLimitError())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP prefers the first X-Forwarded-For hop, then X-Real-IP, then RemoteAddr.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
