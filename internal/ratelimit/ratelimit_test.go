package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestKeyedRateLimiter_Allow(t *testing.T) {
	tests := []struct {
		name     string
		rps      float64
		burst    int
		key      string
		calls    int
		wantPass int
	}{
		{
			name:     "burst allows initial requests",
			rps:      1,
			burst:    3,
			key:      "viewer-a",
			calls:    3,
			wantPass: 3,
		},
		{
			name:     "exceeding burst blocks",
			rps:      1,
			burst:    2,
			key:      "viewer-a",
			calls:    5,
			wantPass: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := New(tt.rps, tt.burst)
			defer rl.Stop()

			passed := 0
			for i := 0; i < tt.calls; i++ {
				if rl.Allow(tt.key) {
					passed++
				}
			}

			if passed != tt.wantPass {
				t.Errorf("Allow() passed %d, want %d", passed, tt.wantPass)
			}
		})
	}
}

func TestKeyedRateLimiter_IndependentKeys(t *testing.T) {
	rl := New(1, 1)
	defer rl.Stop()

	if !rl.Allow("viewer-a") {
		t.Error("first request for viewer-a should pass")
	}
	if rl.Allow("viewer-a") {
		t.Error("second request for viewer-a should be blocked")
	}
	// A different viewer has their own bucket
	if !rl.Allow("viewer-b") {
		t.Error("first request for viewer-b should pass")
	}
}

func TestKeyedRateLimiter_Wait(t *testing.T) {
	rl := New(10, 1)
	defer rl.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	// Burst token makes the first call immediate
	if err := rl.Wait(ctx, "viewer-a"); err != nil {
		t.Fatalf("first Wait() error = %v", err)
	}

	// Second call waits for a refill, well within the timeout at 10 rps
	if err := rl.Wait(ctx, "viewer-a"); err != nil {
		t.Fatalf("second Wait() error = %v", err)
	}
}

func TestKeyedRateLimiter_WaitCanceled(t *testing.T) {
	rl := New(0.001, 1) // Refill far slower than the test timeout
	defer rl.Stop()

	rl.Allow("viewer-a") // Drain the burst token

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := rl.Wait(ctx, "viewer-a"); err == nil {
		t.Error("Wait() should fail when context expires before refill")
	}
}
