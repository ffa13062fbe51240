package http

import (
	"sync"
	"time"
)

// RateLimiterConfig sizes the per-client token buckets. IdleEviction is how
// long a client may go unseen before its bucket is dropped.
type RateLimiterConfig struct {
	Capacity        int
	RefillInterval  time.Duration
	CleanupInterval time.Duration
	IdleEviction    time.Duration
}

type clientBucket struct {
	tokens     int
	lastRefill time.Time
}

// RateLimiter is a fixed-window token bucket per client IP. Idle buckets are
// evicted by a background loop; Stop shuts the loop down.
type RateLimiter struct {
	mu          sync.Mutex
	cfg         RateLimiterConfig
	clients     map[string]*clientBucket
	stopCleanup chan struct{}
}

func NewRateLimiter(cfg RateLimiterConfig) *RateLimiter {
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = 30 * time.Minute
	}
	if cfg.IdleEviction <= 0 {
		cfg.IdleEviction = time.Hour
	}
	rl := &RateLimiter{
		cfg:         cfg,
		clients:     make(map[string]*clientBucket),
		stopCleanup: make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

func (r *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(r.cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.cleanup()
		case <-r.stopCleanup:
			return
		}
	}
}

func (r *RateLimiter) cleanup() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for ip, bucket := range r.clients {
		if now.Sub(bucket.lastRefill) > r.cfg.IdleEviction {
			delete(r.clients, ip)
		}
	}
}

func (r *RateLimiter) Stop() {
	close(r.stopCleanup)
}

func (r *RateLimiter) Allow(ip string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	bucket, exists := r.clients[ip]

	if !exists {
		r.clients[ip] = &clientBucket{
			tokens:     r.cfg.Capacity - 1,
			lastRefill: now,
		}
		return true
	}

	if now.Sub(bucket.lastRefill) >= r.cfg.RefillInterval {
		bucket.tokens = r.cfg.Capacity
		bucket.lastRefill = now
	}

	if bucket.tokens <= 0 {
		return false
	}

	bucket.tokens--
	return true
}
