package api

import (
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
)

// failureThrottle blocks a client key once it has accumulated too many
// failures inside the sliding window. Failures arrive in call order, so
// expiry only ever trims from the front of a key's slice.
type failureThrottle struct {
	limit  int
	window time.Duration

	mu       sync.Mutex
	failures map[string][]time.Time
}

func newFailureThrottle(limit int, window time.Duration) *failureThrottle {
	return &failureThrottle{
		limit:    limit,
		window:   window,
		failures: make(map[string][]time.Time),
	}
}

func (throttle *failureThrottle) blocked(key string, now time.Time) bool {
	throttle.mu.Lock()
	defer throttle.mu.Unlock()
	return len(throttle.trimLocked(key, now)) >= throttle.limit
}

func (throttle *failureThrottle) recordFailure(key string, now time.Time) {
	throttle.mu.Lock()
	defer throttle.mu.Unlock()
	throttle.failures[key] = append(throttle.trimLocked(key, now), now)
}

func (throttle *failureThrottle) clear(key string) {
	throttle.mu.Lock()
	defer throttle.mu.Unlock()
	delete(throttle.failures, key)
}

func (throttle *failureThrottle) trimLocked(key string, now time.Time) []time.Time {
	entries := throttle.failures[key]
	cutoff := now.Add(-throttle.window)

	start := 0
	for start < len(entries) && !entries[start].After(cutoff) {
		start++
	}
	switch {
	case start == len(entries):
		delete(throttle.failures, key)
		return nil
	case start > 0:
		entries = entries[start:]
		throttle.failures[key] = entries
	}
	return entries
}

func clientKey(c *fiber.Ctx) string {
	if ip := strings.TrimSpace(c.IP()); ip != "" {
		return ip
	}
	return "unknown"
}
