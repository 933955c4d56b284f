package server

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// LimitReason describes why a connection was rejected.
type LimitReason string

const (
	LimitReasonRate  LimitReason = "rate_limit"
	LimitReasonPerIP LimitReason = "per_ip_limit"
)

const limiterIdleAfter = 10 * time.Minute

type ipEntry struct {
	active   int
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ConnectionLimits guards the WebSocket endpoint against a single source
// opening too many display connections, either at once (per-IP cap) or in a
// burst (token bucket per IP). The overall client cap is enforced by the hub.
type ConnectionLimits struct {
	mu        sync.Mutex
	ips       map[string]*ipEntry
	maxPerIP  int
	rate      rate.Limit
	burst     int
	cleanupAt time.Time
}

func NewConnectionLimits(maxPerIP int, connectionsPerSecond float64, burst int) *ConnectionLimits {
	return &ConnectionLimits{
		ips:       make(map[string]*ipEntry),
		maxPerIP:  maxPerIP,
		rate:      rate.Limit(connectionsPerSecond),
		burst:     burst,
		cleanupAt: time.Now().Add(limiterIdleAfter),
	}
}

// Acquire attempts to admit a new connection from the given IP.
// Returns false and the reason if a limit is exceeded.
func (l *ConnectionLimits) Acquire(ip string) (bool, LimitReason) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if time.Now().After(l.cleanupAt) {
		l.cleanup()
		l.cleanupAt = time.Now().Add(limiterIdleAfter)
	}

	entry, exists := l.ips[ip]
	if !exists {
		entry = &ipEntry{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.ips[ip] = entry
	}
	entry.lastSeen = time.Now()

	if !entry.limiter.Allow() {
		return false, LimitReasonRate
	}
	if entry.active >= l.maxPerIP {
		return false, LimitReasonPerIP
	}

	entry.active++
	return true, ""
}

// Release releases a connection slot for the given IP.
func (l *ConnectionLimits) Release(ip string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if entry, exists := l.ips[ip]; exists && entry.active > 0 {
		entry.active--
	}
}

// Active returns the current connection count for the given IP.
func (l *ConnectionLimits) Active(ip string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if entry, exists := l.ips[ip]; exists {
		return entry.active
	}
	return 0
}

// cleanup drops entries with no active connections that have not been seen
// recently. Must be called with mu held.
func (l *ConnectionLimits) cleanup() {
	cutoff := time.Now().Add(-limiterIdleAfter)
	for ip, entry := range l.ips {
		if entry.active == 0 && entry.lastSeen.Before(cutoff) {
			delete(l.ips, ip)
		}
	}
}
