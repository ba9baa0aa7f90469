package subscription

import "time"

// DefaultBackoff is the delay between failed subscribe attempts.
const DefaultBackoff = 10 * time.Second

// retry paces subscribe attempts at a fixed delay and tracks the outage
// they belong to. It is only touched by the goroutine calling Ensure.
type retry struct {
	delay    time.Duration
	attempts int
	since    time.Time
}

func newRetry(delay time.Duration) *retry {
	if delay <= 0 {
		delay = DefaultBackoff
	}
	return &retry{delay: delay}
}

// fail records a failed attempt at now and returns the wait before the next.
func (r *retry) fail(now time.Time) time.Duration {
	if r.attempts == 0 {
		r.since = now
	}
	r.attempts++
	return r.delay
}

// outage returns how long subscribes have been failing as of now.
func (r *retry) outage(now time.Time) time.Duration {
	if r.attempts == 0 {
		return 0
	}
	return now.Sub(r.since)
}

// succeed ends the outage.
func (r *retry) succeed() {
	r.attempts = 0
	r.since = time.Time{}
}
