package ratelimit

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Pool hands out one token bucket per key (client IP, user id).
type Pool struct {
	mu    sync.Mutex
	m     map[string]*rate.Limiter
	every time.Duration
	burst int
}

// NewPool refills one token per `every`, holding at most `burst`.
func NewPool(every time.Duration, burst int) *Pool {
	if every <= 0 {
		every = time.Minute
	}
	if burst <= 0 {
		burst = 5
	}
	return &Pool{
		m:     make(map[string]*rate.Limiter),
		every: every,
		burst: burst,
	}
}

func (p *Pool) get(key string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()
	if l, ok := p.m[key]; ok {
		return l
	}
	l := rate.NewLimiter(rate.Every(p.every), p.burst)
	p.m[key] = l
	return l
}

func (p *Pool) Allow(key string) bool {
	return p.get(key).Allow()
}

// Middleware rejects requests over the per-IP budget with 429.
func (p *Pool) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !p.Allow(c.ClientIP()) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests, try again later"})
			c.Abort()
			return
		}
		c.Next()
	}
}
