package worker

import (
	"context"
	"testing"
)

func TestLimiter_New(t *testing.T) {
	limiter := NewLimiter(10, 5)
	if limiter.defaultBurst != 5 {
		t.Errorf("expected burst 5, got %d", limiter.defaultBurst)
	}

	l2 := NewLimiter(10, -1)
	if l2.defaultBurst != 5 {
		t.Errorf("expected default burst 5 for negative input, got %d", l2.defaultBurst)
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "https://api.notion.com/v1/search"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
	if err := limiter.Wait(ctx, "https://api.github.com/repos/a/b/issues"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
}

func TestLimiter_HostsAreIndependent(t *testing.T) {
	limiter := NewLimiter(1, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "https://api.notion.com/v1/search"); err != nil {
		t.Fatalf("first wait failed: %v", err)
	}

	// Same host, burst of 1 already spent.
	if limiter.Allow("https://api.notion.com/v1/blocks/x/children") {
		t.Errorf("expected allow to fail (exhausted tokens)")
	}

	if !limiter.Allow("https://api.github.com/repos/a/b") {
		t.Errorf("expected allow for other host")
	}
}

func TestLimiter_ZeroRateIsUnlimited(t *testing.T) {
	limiter := NewLimiter(0, 1)
	for i := 0; i < 50; i++ {
		if !limiter.Allow("https://api.github.com/") {
			t.Fatalf("request %d throttled with unlimited rate", i)
		}
	}
}

func TestLimiter_SetHostRate(t *testing.T) {
	limiter := NewLimiter(10, 10)
	limiter.SetHostRate("slow.example", 0.1, 1)

	if !limiter.Allow("http://slow.example/a") {
		t.Errorf("first request should pass")
	}
	if limiter.Allow("http://slow.example/b") {
		t.Errorf("second request should fail")
	}
	if !limiter.Allow("http://fast.example") {
		t.Errorf("other host should pass")
	}
}

func TestHostOf(t *testing.T) {
	host, err := hostOf("https://api.notion.com/v1/search")
	if err != nil {
		t.Fatalf("hostOf failed: %v", err)
	}
	if host != "api.notion.com" {
		t.Errorf("expected api.notion.com, got %s", host)
	}

	if _, err := hostOf("::invalid"); err == nil {
		t.Errorf("expected error for invalid URL")
	}
}
