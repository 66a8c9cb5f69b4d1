package middleware

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestRateLimiterBurstThenDeny(t *testing.T) {
	t.Setenv("RATE_LIMIT_PER_MIN", "5")
	rl := NewRateLimiter()

	for i := 0; i < 5; i++ {
		if !rl.allow("u:1") {
			t.Fatalf("request %d within burst was denied", i+1)
		}
	}
	if rl.allow("u:1") {
		t.Fatal("request past the burst was allowed")
	}
}

func TestRateLimiterKeysAreIndependent(t *testing.T) {
	t.Setenv("RATE_LIMIT_PER_MIN", "2")
	rl := NewRateLimiter()

	rl.allow("u:1")
	rl.allow("u:1")
	if rl.allow("u:1") {
		t.Fatal("first key should be exhausted")
	}
	if !rl.allow("u:2") {
		t.Fatal("a fresh key must start with a full bucket")
	}
}

func TestRateLimiterConcurrentFirstTouchSharesOneBucket(t *testing.T) {
	t.Setenv("RATE_LIMIT_PER_MIN", "3")
	rl := NewRateLimiter()

	// All goroutines hit a key nobody has seen yet; creation races used to
	// hand several of them a private full bucket
	var allowed int64
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if rl.allow("u:fresh") {
				atomic.AddInt64(&allowed, 1)
			}
		}()
	}
	wg.Wait()

	if allowed != 3 {
		t.Fatalf("expected exactly 3 admitted requests, got %d", allowed)
	}
}

func TestRateLimiterDefaultRate(t *testing.T) {
	t.Setenv("RATE_LIMIT_PER_MIN", "")
	rl := NewRateLimiter()
	if rl.burst != 30 {
		t.Fatalf("expected default burst 30, got %v", rl.burst)
	}
}
