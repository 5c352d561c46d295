package signal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEventRateLimiter_BlocksOverLimit(t *testing.T) {
	req := require.New(t)
	rl := NewEventRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		req.True(rl.Allow("a"))
	}
	req.False(rl.Allow("a"))

	// Other connections are unaffected
	req.True(rl.Allow("b"))
}

func TestEventRateLimiter_WindowSlides(t *testing.T) {
	req := require.New(t)
	rl := NewEventRateLimiter(1, 20*time.Millisecond)

	req.True(rl.Allow("a"))
	req.False(rl.Allow("a"))

	time.Sleep(30 * time.Millisecond)
	req.True(rl.Allow("a"))
}

func TestEventRateLimiter_ForgetResets(t *testing.T) {
	req := require.New(t)
	rl := NewEventRateLimiter(1, time.Minute)

	req.True(rl.Allow("a"))
	req.False(rl.Allow("a"))

	rl.Forget("a")
	req.True(rl.Allow("a"))
}
