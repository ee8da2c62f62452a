package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowUnderThreshold(t *testing.T) {
	rl := NewRateLimiter(16)

	for i := 0; i < 10; i++ {
		assert.True(t, rl.Allow("1.2.3.4", ClassAuth), "request %d", i+1)
	}
	assert.False(t, rl.Allow("1.2.3.4", ClassAuth))
}

func TestAllowKeysAreIndependent(t *testing.T) {
	rl := NewRateLimiter(16)

	for i := 0; i < 10; i++ {
		rl.Allow("1.2.3.4", ClassAuth)
	}
	assert.False(t, rl.Allow("1.2.3.4", ClassAuth))

	// A different caller and a different class each count separately.
	assert.True(t, rl.Allow("5.6.7.8", ClassAuth))
	assert.True(t, rl.Allow("1.2.3.4", ClassWrite))
}

func TestAllowWindowResets(t *testing.T) {
	current := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(16)
	rl.now = func() time.Time { return current }

	for i := 0; i < 10; i++ {
		rl.Allow("1.2.3.4", ClassAuth)
	}
	assert.False(t, rl.Allow("1.2.3.4", ClassAuth))

	current = current.Add(time.Minute)
	assert.True(t, rl.Allow("1.2.3.4", ClassAuth))
}

func TestAllowUnknownClassFallsBackToRead(t *testing.T) {
	rl := NewRateLimiter(16)

	for i := 0; i < limitRules[ClassRead].max; i++ {
		assert.True(t, rl.Allow("1.2.3.4", "bogus"))
	}
	assert.False(t, rl.Allow("1.2.3.4", "bogus"))
}
