package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowExhaustsBucket(t *testing.T) {
	limiter := NewRateLimiter(3, 1, time.Hour)

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow("1.2.3.4"), "request %d should pass", i)
	}
	assert.False(t, limiter.Allow("1.2.3.4"))
}

func TestBucketsAreIndependentPerKey(t *testing.T) {
	limiter := NewRateLimiter(1, 1, time.Hour)

	assert.True(t, limiter.Allow("1.2.3.4"))
	assert.False(t, limiter.Allow("1.2.3.4"))
	assert.True(t, limiter.Allow("5.6.7.8"))
}

func TestRefillRestoresTokens(t *testing.T) {
	limiter := NewRateLimiter(1, 1, 10*time.Millisecond)

	assert.True(t, limiter.Allow("1.2.3.4"))
	assert.False(t, limiter.Allow("1.2.3.4"))

	time.Sleep(25 * time.Millisecond)
	assert.True(t, limiter.Allow("1.2.3.4"))
}
