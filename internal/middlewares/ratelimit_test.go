package middlewares

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterExhaustsBucket(t *testing.T) {
	limiter := NewRateLimiter(3)

	assert.True(t, limiter.allow("u1"))
	assert.True(t, limiter.allow("u1"))
	assert.True(t, limiter.allow("u1"))
	assert.False(t, limiter.allow("u1"))
}

func TestRateLimiterIsolatesKeys(t *testing.T) {
	limiter := NewRateLimiter(1)

	assert.True(t, limiter.allow("u1"))
	assert.False(t, limiter.allow("u1"))
	assert.True(t, limiter.allow("u2"))
}
