package subscription

import (
	"testing"
	"time"
)

func TestRetryFixedDelay(t *testing.T) {
	r := newRetry(10 * time.Second)
	start := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	for i := 1; i <= 5; i++ {
		now := start.Add(time.Duration(i-1) * 10 * time.Second)
		if got := r.fail(now); got != 10*time.Second {
			t.Errorf("attempt %d: delay = %v, want 10s", i, got)
		}
		if r.attempts != i {
			t.Errorf("attempts = %d, want %d", r.attempts, i)
		}
	}

	if got := r.outage(start.Add(45 * time.Second)); got != 45*time.Second {
		t.Errorf("outage = %v, want 45s", got)
	}

	r.succeed()
	if r.attempts != 0 {
		t.Errorf("attempts = %d after success, want 0", r.attempts)
	}
	if got := r.outage(start.Add(time.Minute)); got != 0 {
		t.Errorf("outage = %v after success, want 0", got)
	}
}

func TestRetryNewOutageRestartsClock(t *testing.T) {
	r := newRetry(time.Second)
	t0 := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	r.fail(t0)
	r.succeed()
	r.fail(t0.Add(time.Hour))

	if got := r.outage(t0.Add(time.Hour + 3*time.Second)); got != 3*time.Second {
		t.Errorf("outage = %v, want 3s", got)
	}
}

func TestRetryDefault(t *testing.T) {
	r := newRetry(0)
	if got := r.fail(time.Now()); got != DefaultBackoff {
		t.Errorf("default delay = %v, want %v", got, DefaultBackoff)
	}
}
