package gena

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ssmb/ssmb-go/pkg/notify"
)

// minRenewInterval keeps very short grants from spinning the renew loop.
const minRenewInterval = 100 * time.Millisecond

// Subscription is one GENA subscription.
type Subscription struct {
	owner     *Notifier
	sid       string
	events    chan notify.Notification
	requested time.Duration

	mu       sync.Mutex
	granted  time.Duration
	deadline time.Time
	alive    bool
	closed   bool
	renewals int

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// ID implements notify.Subscription.
func (s *Subscription) ID() string { return s.sid }

// Events implements notify.Subscription.
func (s *Subscription) Events() <-chan notify.Notification { return s.events }

// Alive implements notify.Subscription. It turns false only on Unsubscribe;
// failed renewals do not affect it.
func (s *Subscription) Alive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.alive && !s.closed
}

// TimeRemaining implements notify.Subscription.
func (s *Subscription) TimeRemaining() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if remaining := time.Until(s.deadline); remaining > 0 {
		return remaining
	}
	return 0
}

// Renewals returns the number of successful renewals.
func (s *Subscription) Renewals() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renewals
}

// Renew extends the subscription by the originally requested timeout.
func (s *Subscription) Renew(ctx context.Context) error {
	req, err := s.owner.newRequest(ctx, MethodSubscribe)
	if err != nil {
		return err
	}
	req.Header.Set("SID", s.sid)
	req.Header.Set("TIMEOUT", FormatTimeout(s.requested))

	resp, err := s.owner.do(req)
	if err != nil {
		return fmt.Errorf("renew %s: %w", s.sid, err)
	}
	granted := ParseTimeout(resp.Header.Get("TIMEOUT"), s.requested)

	s.mu.Lock()
	s.granted = granted
	s.deadline = time.Now().Add(granted)
	s.renewals++
	s.mu.Unlock()
	return nil
}

// Unsubscribe implements notify.Subscription.
func (s *Subscription) Unsubscribe(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return notify.ErrSubscriptionClosed
	}
	s.closed = true
	s.alive = false
	close(s.events)
	s.mu.Unlock()

	s.stopRenewing()
	s.owner.forget(s.sid)

	req, err := s.owner.newRequest(ctx, MethodUnsubscribe)
	if err != nil {
		return err
	}
	req.Header.Set("SID", s.sid)
	if _, err := s.owner.do(req); err != nil {
		return fmt.Errorf("unsubscribe %s: %w", s.sid, err)
	}
	s.owner.logger.Info("gena unsubscribed", "sid", s.sid)
	return nil
}

// deliver queues n without blocking. It reports false if the subscription
// is closed or its buffer is full.
func (s *Subscription) deliver(n notify.Notification) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.events <- n:
		return true
	default:
		return false
	}
}

func (s *Subscription) stopRenewing() {
	s.stopOnce.Do(func() { close(s.stop) })
	<-s.done
}

// autoRenew renews at half the granted timeout until stopped.
func (s *Subscription) autoRenew() {
	defer close(s.done)

	for {
		s.mu.Lock()
		interval := s.granted / 2
		s.mu.Unlock()
		if interval < minRenewInterval {
			interval = minRenewInterval
		}

		t := time.NewTimer(interval)
		select {
		case <-s.stop:
			t.Stop()
			return
		case <-t.C:
		}

		ctx, cancel := context.WithTimeout(context.Background(), DefaultRequestTimeout)
		go func() {
			select {
			case <-s.stop:
				cancel()
			case <-ctx.Done():
			}
		}()
		err := s.Renew(ctx)
		cancel()

		if err != nil {
			s.owner.logger.Warn("gena renewal failed", "sid", s.sid, "error", err, "remaining", s.TimeRemaining())
			continue
		}
		s.owner.logger.Debug("gena renewed", "sid", s.sid, "remaining", s.TimeRemaining())
	}
}

// Compile-time interface satisfaction check.
var _ notify.Subscription = (*Subscription)(nil)
