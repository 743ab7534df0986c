package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
)

func TestAllowRespectsBurst(t *testing.T) {
	limiter := New("dmsguild", 2)

	assert.True(t, limiter.Allow())
	assert.True(t, limiter.Allow())
	// Burst of 2 exhausted; the next request must wait.
	assert.False(t, limiter.Allow())
}

func TestWaitHonoursContextCancellation(t *testing.T) {
	limiter := New("dmsguild", 1)
	assert.True(t, limiter.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := limiter.Wait(ctx)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "dmsguild")
}

func TestName(t *testing.T) {
	assert.Equal(t, "drivethrurpg", New("drivethrurpg", 2).Name())
}
