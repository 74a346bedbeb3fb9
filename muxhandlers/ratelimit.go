package muxhandlers

import (
	"errors"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/vitalvas/workopia/mux"
)

// ErrInvalidRateLimit is returned when RateLimitConfig.Rate or Burst is not
// greater than zero.
var ErrInvalidRateLimit = errors.New("rate limit: rate and burst must be greater than zero")

// RateLimitConfig configures the Rate Limit middleware behaviour.
type RateLimitConfig struct {
	// Rate is the sustained number of requests per second allowed per key.
	Rate rate.Limit

	// Burst is the number of requests a key may make at once.
	Burst int

	// KeyFunc derives the limiter key from the request.
	// Defaults to the client IP taken from r.RemoteAddr.
	KeyFunc func(r *http.Request) string

	// IdleTTL is how long an unused limiter is kept before it is evicted.
	// Defaults to 10 minutes.
	IdleTTL time.Duration

	// Handler renders the rejection. When nil, a plain 429 Too Many
	// Requests is written.
	Handler http.Handler
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiterSet holds one token bucket per key.
type limiterSet struct {
	mu      sync.Mutex
	entries map[string]*limiterEntry
	rate    rate.Limit
	burst   int
	idleTTL time.Duration
	sweep   time.Time
	now     func() time.Time
}

// allow reports whether the key may proceed. Idle entries are swept lazily,
// at most once per idleTTL.
func (s *limiterSet) allow(key string) (bool, time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	if now.Sub(s.sweep) >= s.idleTTL {
		for k, e := range s.entries {
			if now.Sub(e.lastSeen) >= s.idleTTL {
				delete(s.entries, k)
			}
		}
		s.sweep = now
	}

	e, ok := s.entries[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(s.rate, s.burst)}
		s.entries[key] = e
	}
	e.lastSeen = now

	r := e.limiter.ReserveN(now, 1)
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay
	}

	return true, 0
}

// RateLimitMiddleware returns a middleware that throttles requests per key
// with a token bucket. Rejected requests receive 429 Too Many Requests with
// a Retry-After header (RFC 6585 Section 4).
//
// It returns ErrInvalidRateLimit if Rate or Burst is not greater than zero.
func RateLimitMiddleware(cfg RateLimitConfig) (mux.MiddlewareFunc, error) {
	if cfg.Rate <= 0 || cfg.Burst <= 0 {
		return nil, ErrInvalidRateLimit
	}

	keyFunc := cfg.KeyFunc
	if keyFunc == nil {
		keyFunc = clientIP
	}

	idleTTL := cfg.IdleTTL
	if idleTTL <= 0 {
		idleTTL = 10 * time.Minute
	}

	set := &limiterSet{
		entries: make(map[string]*limiterEntry),
		rate:    cfg.Rate,
		burst:   cfg.Burst,
		idleTTL: idleTTL,
		now:     time.Now,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, delay := set.allow(keyFunc(r))
			if !ok {
				seconds := int(delay / time.Second)
				if delay%time.Second != 0 {
					seconds++
				}
				w.Header().Set("Retry-After", strconv.Itoa(seconds))

				if cfg.Handler != nil {
					cfg.Handler.ServeHTTP(w, r)
					return
				}

				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}, nil
}

// clientIP returns the host part of r.RemoteAddr.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
