package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sealion-telegram-bot/internal/ratelimit"
)

type countingSweeper struct {
	runs atomic.Int32
}

func (c *countingSweeper) Sweep(time.Time) int {
	c.runs.Add(1)
	return 0
}

func TestNewScheduler_InvalidSpec(t *testing.T) {
	_, err := NewScheduler("every minute please", &countingSweeper{}, zerolog.Nop())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid sweep schedule")
}

func TestScheduler_RunsSweep(t *testing.T) {
	sweeper := &countingSweeper{}
	s, err := NewScheduler("@every 1s", sweeper, zerolog.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	require.Eventually(t, func() bool { return sweeper.runs.Load() > 0 }, 3*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestScheduler_EvictsExpiredUsers(t *testing.T) {
	limiter := ratelimit.NewLimiter(10, time.Millisecond, zerolog.Nop())
	limiter.Admit("alice", time.Now().Add(-time.Second))
	require.Equal(t, 1, limiter.Len())

	s, err := NewScheduler("@every 1s", limiter, zerolog.Nop())
	require.NoError(t, err)

	s.runSweep()

	assert.Zero(t, limiter.Len())
}
