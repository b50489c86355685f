package httpserver

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"restaurant_rater/internal/adapters/observability"
)

// visitor tracks a token bucket per client IP.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// visitors hands out per-IP limiters and drops the ones idle for longer than ttl.
// Stale entries are swept on access, so no background goroutine is needed.
type visitors struct {
	mu        sync.Mutex
	byIP      map[string]*visitor
	rps       rate.Limit
	burst     int
	ttl       time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func newVisitors(rps float64, burst int, ttl time.Duration) *visitors {
	return &visitors{
		byIP:  make(map[string]*visitor),
		rps:   rate.Limit(rps),
		burst: burst,
		ttl:   ttl,
		now:   time.Now,
	}
}

func (s *visitors) get(ip string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Sub(s.lastSweep) > s.ttl {
		for k, v := range s.byIP {
			if now.Sub(v.lastSeen) > s.ttl {
				delete(s.byIP, k)
			}
		}
		s.lastSweep = now
	}

	v, ok := s.byIP[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(s.rps, s.burst)}
		s.byIP[ip] = v
	}
	v.lastSeen = now
	return v.limiter
}

func (s *visitors) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byIP)
}

// RateLimit enforces a per-IP token bucket and answers 429 once it is empty.
func RateLimit(rps float64, burst int) func(http.Handler) http.Handler {
	return rateLimit(newVisitors(rps, burst, 3*time.Minute))
}

func rateLimit(store *visitors) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := remoteIP(r)
			lim := store.get(ip)
			if !lim.Allow() {
				route := routePattern(r)
				observability.ObserveRateLimited(route)
				log.Warn().Str("ip", ip).Str("route", route).Msg("rate limit exceeded")

				retry := int(1/float64(store.rps)) + 1
				w.Header().Set("Retry-After", strconv.Itoa(retry))
				writeProblem(w, http.StatusTooManyRequests, "Too Many Requests", "write rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
