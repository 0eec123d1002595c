package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterAllowsBurst(t *testing.T) {
	rl := newRateLimiter(3, time.Second)

	assert.True(t, rl.allow())
	assert.True(t, rl.allow())
	assert.True(t, rl.allow())
	assert.False(t, rl.allow())
}

func TestRateLimiterRefills(t *testing.T) {
	rl := newRateLimiter(2, 100*time.Millisecond)

	assert.True(t, rl.allow())
	assert.True(t, rl.allow())
	assert.False(t, rl.allow())

	time.Sleep(150 * time.Millisecond)
	assert.True(t, rl.allow())
}

func TestRateLimiterDefendsAgainstBadParameters(t *testing.T) {
	rl := newRateLimiter(0, 0)

	assert.True(t, rl.allow())
	assert.False(t, rl.allow())
}
