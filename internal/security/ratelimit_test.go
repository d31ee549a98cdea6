package security

import (
	"testing"
	"time"
)

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter(3, 100*time.Millisecond)

	for i := 0; i < 3; i++ {
		if !rl.Allow("user-1") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.Allow("user-1") {
		t.Error("fourth request within window should be denied")
	}

	// A different key has its own bucket.
	if !rl.Allow("user-2") {
		t.Error("separate key should be allowed")
	}

	// Tokens refill after the window passes.
	time.Sleep(120 * time.Millisecond)
	if !rl.Allow("user-1") {
		t.Error("request after window should be allowed")
	}
}
