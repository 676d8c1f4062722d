package ratelimiter

import (
	"sync"
	"time"
)

// limiter is a token bucket for one client.
type limiter struct {
	tokens     float64
	capacity   float64
	rate       float64
	lastRefill time.Time
	mu         sync.Mutex
	timer      *time.Timer
	clientId   string
	parent     *ClientRateLimiter
}

// ClientRateLimiter keeps a token bucket per client id, dropping idle
// buckets after expirationTime. This is the cheap in-memory limiter in front
// of the persistent flood guard.
type ClientRateLimiter struct {
	limiters       map[string]*limiter
	mu             sync.RWMutex
	rate           float64
	capacity       float64
	expirationTime time.Duration
}

func New(rate float64, capacity float64, expirationTime time.Duration) *ClientRateLimiter {
	return &ClientRateLimiter{
		limiters:       make(map[string]*limiter),
		rate:           rate,
		capacity:       capacity,
		expirationTime: expirationTime,
	}
}

func (c *ClientRateLimiter) cleanup(clientId string) {
	c.mu.Lock()
	delete(c.limiters, clientId)
	c.mu.Unlock()
}

func (l *limiter) resetTimer() {
	if l.timer != nil {
		l.timer.Stop()
	}
	l.timer = time.AfterFunc(l.parent.expirationTime, func() {
		l.parent.cleanup(l.clientId)
	})
}

func (c *ClientRateLimiter) getLimiter(clientId string) *limiter {
	c.mu.RLock()
	lim, exists := c.limiters[clientId]
	c.mu.RUnlock()

	if exists {
		lim.resetTimer()
		return lim
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring write lock
	lim, exists = c.limiters[clientId]
	if exists {
		lim.resetTimer()
		return lim
	}

	lim = &limiter{
		tokens:     c.capacity,
		capacity:   c.capacity,
		rate:       c.rate,
		lastRefill: time.Now(),
		clientId:   clientId,
		parent:     c,
	}
	c.limiters[clientId] = lim
	lim.resetTimer()

	return lim
}

func (l *limiter) allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(l.lastRefill).Seconds()

	l.tokens += elapsed * l.rate
	if l.tokens > l.capacity {
		l.tokens = l.capacity
	}
	l.lastRefill = now

	if l.tokens >= 1 {
		l.tokens--
		return true
	}
	return false
}

// Allow reports whether a request from clientId may proceed.
func (c *ClientRateLimiter) Allow(clientId string) bool {
	return c.getLimiter(clientId).allow()
}

// Stop cancels all expiry timers.
func (c *ClientRateLimiter) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, lim := range c.limiters {
		if lim.timer != nil {
			lim.timer.Stop()
		}
	}
}

func Rps10() *ClientRateLimiter {
	return New(10, 10, 1*time.Hour)
}

func OnceInSecond() *ClientRateLimiter {
	return New(1, 1, 1*time.Hour)
}
