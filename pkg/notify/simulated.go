package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Simulated is an in-process Notifier. Subscriptions never renew themselves,
// so their time remaining counts down from the requested ttl. It is safe for
// concurrent use.
type Simulated struct {
	mu sync.Mutex

	now func() time.Time

	current *simSubscription
	seq     uint32

	failSubscribes  int
	subscribeErr    error
	unsubscribeErr  error
	listenerRunning bool

	subscribes     int
	subscribeFails int
	unsubscribes   int
	listenerStops  int
}

// NewSimulated creates a simulated notifier using the wall clock.
func NewSimulated() *Simulated {
	return &Simulated{now: time.Now}
}

// SetClock replaces the clock used for time remaining calculations.
func (s *Simulated) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Subscribe implements Notifier.
func (s *Simulated) Subscribe(ctx context.Context, ttl time.Duration) (Subscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.subscribes++
	if s.failSubscribes > 0 {
		s.failSubscribes--
		s.subscribeFails++
		return nil, fmt.Errorf("%w: %v", ErrSubscribeFailed, s.subscribeErr)
	}

	s.listenerRunning = true
	sub := &simSubscription{
		owner:    s,
		id:       "uuid:" + uuid.NewString(),
		events:   make(chan Notification, DefaultEventBuffer),
		deadline: s.now().Add(ttl),
		alive:    true,
	}
	s.current = sub
	return sub, nil
}

// StopListener implements Notifier.
func (s *Simulated) StopListener(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listenerStops++
	s.listenerRunning = false
	return nil
}

// Publish delivers variables on the current subscription. It returns false
// when there is no live subscription or its buffer is full.
func (s *Simulated) Publish(vars map[string]string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub := s.current
	if sub == nil || !s.listenerRunning {
		return false
	}

	sub.mu.Lock()
	defer sub.mu.Unlock()
	if sub.closed {
		return false
	}

	s.seq++
	n := Notification{
		SubscriptionID: sub.id,
		Seq:            s.seq,
		Variables:      vars,
		ReceivedAt:     s.now(),
	}
	select {
	case sub.events <- n:
		return true
	default:
		return false
	}
}

// FailSubscribes makes the next n Subscribe calls fail with err.
func (s *Simulated) FailSubscribes(n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failSubscribes = n
	s.subscribeErr = err
}

// FailUnsubscribe makes subsequent Unsubscribe calls return err; nil clears it.
func (s *Simulated) FailUnsubscribe(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unsubscribeErr = err
}

// Kill marks the current subscription dead, as after a remote reboot the
// transport noticed.
func (s *Simulated) Kill() {
	s.mu.Lock()
	sub := s.current
	s.mu.Unlock()

	if sub == nil {
		return
	}
	sub.mu.Lock()
	sub.alive = false
	sub.mu.Unlock()
}

// Current returns the most recently created subscription, or nil.
func (s *Simulated) Current() Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	return s.current
}

// SimulatedStats counts calls made against a Simulated notifier.
type SimulatedStats struct {
	Subscribes     int
	SubscribeFails int
	Unsubscribes   int
	ListenerStops  int
}

// Stats returns call counters.
func (s *Simulated) Stats() SimulatedStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SimulatedStats{
		Subscribes:     s.subscribes,
		SubscribeFails: s.subscribeFails,
		Unsubscribes:   s.unsubscribes,
		ListenerStops:  s.listenerStops,
	}
}

type simSubscription struct {
	owner *Simulated

	mu       sync.Mutex
	id       string
	events   chan Notification
	deadline time.Time
	alive    bool
	closed   bool
}

func (s *simSubscription) ID() string { return s.id }

func (s *simSubscription) Events() <-chan Notification { return s.events }

func (s *simSubscription) Alive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.alive && !s.closed
}

func (s *simSubscription) TimeRemaining() time.Duration {
	s.owner.mu.Lock()
	now := s.owner.now()
	s.owner.mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if remaining := s.deadline.Sub(now); remaining > 0 {
		return remaining
	}
	return 0
}

func (s *simSubscription) Unsubscribe(ctx context.Context) error {
	s.owner.mu.Lock()
	s.owner.unsubscribes++
	err := s.owner.unsubscribeErr
	s.owner.mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSubscriptionClosed
	}
	s.closed = true
	s.alive = false
	close(s.events)
	return err
}

// Compile-time interface satisfaction checks.
var (
	_ Notifier     = (*Simulated)(nil)
	_ Subscription = (*simSubscription)(nil)
)
