package middleware

import (
	"testing"
	"time"
)

func TestRateCounterWindow(t *testing.T) {
	counter := &rateCounter{windows: make(map[string]*rateWindow)}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 1; i <= 3; i++ {
		count, _, allowed := counter.hit("a", 3, now)
		if !allowed {
			t.Fatalf("hit %d rejected inside the limit", i)
		}
		if count != i {
			t.Errorf("hit %d counted as %d", i, count)
		}
	}

	if _, _, allowed := counter.hit("a", 3, now); allowed {
		t.Error("hit above the limit allowed")
	}

	// other keys have their own window
	if _, _, allowed := counter.hit("b", 3, now); !allowed {
		t.Error("fresh key rejected")
	}

	// the window resets after a minute
	if _, _, allowed := counter.hit("a", 3, now.Add(61*time.Second)); !allowed {
		t.Error("hit after window reset rejected")
	}
}

func TestRateLimitConfigShouldSkip(t *testing.T) {
	config := DefaultRateLimitConfig()

	tests := []struct {
		path string
		skip bool
	}{
		{"/assets/app.js", true},
		{"/favicon.ico", true},
		{"/portal/login", false},
		{"/", false},
	}

	for _, tc := range tests {
		if got := config.shouldSkip(tc.path); got != tc.skip {
			t.Errorf("shouldSkip(%q) = %v, want %v", tc.path, got, tc.skip)
		}
	}
}
