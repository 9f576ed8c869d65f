package api

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// limiterIdleTTL - лимитер IP, к которому не обращались дольше, удаляется
const limiterIdleTTL = 10 * time.Minute

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiterPool - token bucket на каждый IP клиента
type limiterPool struct {
	mu        sync.Mutex
	m         map[string]*limiterEntry
	rps       float64
	burst     int
	now       func() time.Time
	lastSweep time.Time
}

func newLimiterPool(rps float64, burst int) *limiterPool {
	if burst <= 0 {
		burst = 10
	}
	return &limiterPool{
		m:         make(map[string]*limiterEntry),
		rps:       rps,
		burst:     burst,
		now:       time.Now,
		lastSweep: time.Now(),
	}
}

func (p *limiterPool) get(key string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	if now.Sub(p.lastSweep) >= limiterIdleTTL {
		p.sweep(now)
	}

	if e, ok := p.m[key]; ok {
		e.lastSeen = now
		return e.limiter
	}
	l := rate.NewLimiter(rate.Limit(p.rps), p.burst)
	p.m[key] = &limiterEntry{limiter: l, lastSeen: now}
	return l
}

// sweep вызывается под p.mu
func (p *limiterPool) sweep(now time.Time) {
	for key, e := range p.m {
		if now.Sub(e.lastSeen) >= limiterIdleTTL {
			delete(p.m, key)
		}
	}
	p.lastSweep = now
}

func (p *limiterPool) size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.m)
}

func (p *limiterPool) Allow(key string) bool {
	return p.get(key).Allow()
}

// limitMutations ограничивает только POST, PATCH и DELETE; чтение не лимитируется
func (p *limiterPool) limitMutations(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPatch, http.MethodDelete:
			if !p.Allow(clientIP(r)) {
				writeError(w, http.StatusTooManyRequests, "Too many requests")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP - RemoteAddr после middleware.RealIP может прийти как без порта, так и с ним
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
