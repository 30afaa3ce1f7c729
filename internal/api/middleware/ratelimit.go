package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/jstittsworth/draftsheet/pkg/utils"
)

// ClientRateLimiter implements per-IP rate limiting with token buckets.
// Draft night traffic is bursty; the bucket absorbs a screenful of sheet
// reads while capping sustained hammering.
type ClientRateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientBucket
	rps     rate.Limit
	burst   int
}

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewClientRateLimiter creates a limiter allowing rps sustained requests
// per client IP with the given burst.
func NewClientRateLimiter(rps float64, burst int) *ClientRateLimiter {
	if rps <= 0 {
		rps = 10
	}
	if burst <= 0 {
		burst = 20
	}
	cl := &ClientRateLimiter{
		clients: make(map[string]*clientBucket),
		rps:     rate.Limit(rps),
		burst:   burst,
	}
	go cl.cleanupLoop()
	return cl
}

// Middleware rejects requests over the per-IP budget with 429.
func (cl *ClientRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cl.allow(c.ClientIP()) {
			utils.SendRateLimited(c, "Too many requests, slow down")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (cl *ClientRateLimiter) allow(ip string) bool {
	cl.mu.Lock()
	bucket, exists := cl.clients[ip]
	if !exists {
		bucket = &clientBucket{limiter: rate.NewLimiter(cl.rps, cl.burst)}
		cl.clients[ip] = bucket
	}
	bucket.lastSeen = time.Now()
	cl.mu.Unlock()

	return bucket.limiter.Allow()
}

// cleanupLoop drops buckets idle long enough that a fresh bucket is
// indistinguishable from the stale one.
func (cl *ClientRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-15 * time.Minute)
		cl.mu.Lock()
		for ip, bucket := range cl.clients {
			if bucket.lastSeen.Before(cutoff) {
				delete(cl.clients, ip)
			}
		}
		cl.mu.Unlock()
	}
}

// TrackedClients reports how many IPs currently hold a bucket.
func (cl *ClientRateLimiter) TrackedClients() int {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return len(cl.clients)
}
