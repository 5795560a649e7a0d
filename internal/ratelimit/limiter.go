package ratelimit

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/sealion-telegram-bot/internal/models"
)

// Limiter manages rate limits for users with a sliding window.
// State lives in process memory only and is lost on restart.
type Limiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	history map[models.UserIdentity][]time.Time
	logger  zerolog.Logger
}

// NewLimiter creates a new rate limiter admitting limit requests per window
func NewLimiter(limit int, window time.Duration, logger zerolog.Logger) *Limiter {
	return &Limiter{
		limit:   limit,
		window:  window,
		history: make(map[models.UserIdentity][]time.Time),
		logger:  logger.With().Str("component", "ratelimit").Logger(),
	}
}

// Admit checks if user can make a request at now and records it if so.
// A rejected call leaves the user's state untouched.
func (l *Limiter) Admit(user models.UserIdentity, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	recent := l.prune(l.history[user], now)

	if len(recent) >= l.limit {
		l.history[user] = recent
		l.logger.Debug().
			Str("user", string(user)).
			Int("used", len(recent)).
			Int("limit", l.limit).
			Time("resets_at", oldest(recent).Add(l.window)).
			Msg("Rate limit exceeded")
		return false
	}

	l.history[user] = append(recent, now)
	return true
}

// Sweep drops users whose whole history has left the window.
// Returns the number of users removed.
func (l *Limiter) Sweep(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for user, stamps := range l.history {
		recent := l.prune(stamps, now)
		if len(recent) == 0 {
			delete(l.history, user)
			removed++
			continue
		}
		l.history[user] = recent
	}

	return removed
}

// Len returns the number of users currently tracked
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.history)
}

// prune drops timestamps that have left the window, reusing the backing array
func (l *Limiter) prune(stamps []time.Time, now time.Time) []time.Time {
	kept := stamps[:0]
	for _, ts := range stamps {
		if now.Sub(ts) < l.window {
			kept = append(kept, ts)
		}
	}
	return kept
}

// oldest returns the earliest timestamp in stamps
func oldest(stamps []time.Time) time.Time {
	first := stamps[0]
	for _, ts := range stamps[1:] {
		if ts.Before(first) {
			first = ts
		}
	}
	return first
}
