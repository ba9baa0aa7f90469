package subscription

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/ssmb/ssmb-go/pkg/journal"
	"github.com/ssmb/ssmb-go/pkg/notify"
)

// Default subscription parameters.
const (
	DefaultTTL            = 120 * time.Second
	DefaultRenewalMargin  = 5 * time.Second
	DefaultRequestTimeout = 10 * time.Second
)

// Config configures a Manager.
type Config struct {
	// TTL is the time-to-live requested on every subscribe.
	TTL time.Duration

	// RenewalMargin is how much time may remain before the subscription is
	// replaced.
	RenewalMargin time.Duration

	// Backoff is the delay between failed subscribe attempts.
	Backoff time.Duration

	// RequestTimeout bounds each subscribe and unsubscribe call.
	RequestTimeout time.Duration

	// Logger is the optional operational logger. If nil, logging is disabled.
	Logger *slog.Logger

	// Journal receives lifecycle state changes. If nil, nothing is recorded.
	Journal journal.Journal
}

// DefaultConfig returns a Config with the default timings.
func DefaultConfig() Config {
	return Config{
		TTL:            DefaultTTL,
		RenewalMargin:  DefaultRenewalMargin,
		Backoff:        DefaultBackoff,
		RequestTimeout: DefaultRequestTimeout,
	}
}

// Stats counts lifecycle activity.
type Stats struct {
	// Subscribes is the number of subscribe attempts.
	Subscribes int

	// Failures is the number of failed subscribe attempts.
	Failures int

	// Renewals is the number of subscriptions replaced after expiry or death.
	Renewals int

	// LastSubscribed is when the current subscription was installed.
	LastSubscribed time.Time
}

// Manager maintains one active subscription.
//
// Ensure and Release must be called from a single goroutine; State, Current
// and Stats may be called from anywhere.
type Manager struct {
	notifier notify.Notifier
	config   Config
	logger   *slog.Logger
	journal  journal.Journal
	retry    *retry

	mu            sync.RWMutex
	state         State
	sub           notify.Subscription
	dead          notify.Subscription
	stats         Stats
	onStateChange func(oldState, newState State)
}

// NewManager creates a Manager for notifier. Zero fields of cfg take defaults.
func NewManager(notifier notify.Notifier, cfg Config) *Manager {
	def := DefaultConfig()
	if cfg.TTL <= 0 {
		cfg.TTL = def.TTL
	}
	if cfg.RenewalMargin <= 0 {
		cfg.RenewalMargin = def.RenewalMargin
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = def.Backoff
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = def.RequestTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Manager{
		notifier: notifier,
		config:   cfg,
		logger:   logger,
		journal:  journal.OrNoop(cfg.Journal),
		retry:    newRetry(cfg.Backoff),
		state:    StateUnsubscribed,
	}
}

// Ensure returns a healthy subscription, replacing the current one if it is
// about to lapse or has died, and retrying failed subscribes at the backoff
// interval until one succeeds. It returns a non-nil error only when ctx is
// done.
func (m *Manager) Ensure(ctx context.Context) (notify.Subscription, error) {
	retrying := false

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if sub := m.Current(); sub != nil {
			reason := m.staleReason(sub)
			if reason == "" {
				return sub, nil
			}
			m.expire(ctx, sub, reason)
			retrying = true
		}

		if retrying {
			m.setState(StateRenewing, "", "resubscribing", 0)
		}

		sub, err := m.subscribe(ctx)
		if err == nil {
			m.install(sub, retrying)
			return sub, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		now := time.Now()
		delay := m.retry.fail(now)
		m.logger.Warn("subscribe failed",
			"error", err,
			"attempt", m.retry.attempts,
			"failing_for", m.retry.outage(now).Round(time.Millisecond),
			"retry_in", delay)
		m.setState(StateUnsubscribed, "", "subscribe failed: "+err.Error(), 0)

		if err := sleep(ctx, delay); err != nil {
			return nil, err
		}
		retrying = true
	}
}

// Release unsubscribes and stops the listener. Failures are logged, not
// retried. It is safe to call when nothing is installed.
func (m *Manager) Release(ctx context.Context) {
	sub := m.Current()
	if sub != nil {
		m.logger.Info("unsubscribing", "sid", sub.ID())
	}
	m.teardown(ctx, sub)
	m.setState(StateUnsubscribed, idOf(sub), "released", 0)
}

// Current returns the installed subscription, or nil.
func (m *Manager) Current() notify.Subscription {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sub
}

// State returns the lifecycle state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Stats returns lifecycle counters.
func (m *Manager) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stats
}

// OnStateChange registers a callback invoked after every state change.
// The callback runs on the goroutine calling Ensure or Release.
func (m *Manager) OnStateChange(fn func(oldState, newState State)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onStateChange = fn
}

// Invalidate marks sub as dead so the next Ensure replaces it even if the
// transport still reports it alive. It is a no-op if sub is not installed.
func (m *Manager) Invalidate(sub notify.Subscription) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sub != nil && m.sub == sub {
		m.dead = sub
	}
}

// staleReason returns why sub must be replaced, or "" if it is healthy.
func (m *Manager) staleReason(sub notify.Subscription) string {
	m.mu.RLock()
	dead := m.dead == sub
	m.mu.RUnlock()
	if dead {
		return "delivery channel closed"
	}
	if !sub.Alive() {
		return "subscription not alive"
	}
	if sub.TimeRemaining() <= m.config.RenewalMargin {
		return "time remaining below renewal margin"
	}
	return ""
}

// expire moves an installed subscription through EXPIRING and tears it down.
func (m *Manager) expire(ctx context.Context, sub notify.Subscription, reason string) {
	remaining := sub.TimeRemaining()
	m.logger.Info("subscription expiring",
		"sid", sub.ID(),
		"reason", reason,
		"remaining", remaining)
	m.setState(StateExpiring, sub.ID(), reason, remaining)
	m.teardown(ctx, sub)
}

// teardown unsubscribes sub (if any) and stops the listener, swallowing errors.
func (m *Manager) teardown(ctx context.Context, sub notify.Subscription) {
	m.mu.Lock()
	if m.sub == sub {
		m.sub = nil
	}
	if m.dead == sub {
		m.dead = nil
	}
	m.mu.Unlock()

	if sub != nil {
		uctx, cancel := context.WithTimeout(ctx, m.config.RequestTimeout)
		if err := sub.Unsubscribe(uctx); err != nil {
			m.logger.Warn("unsubscribe failed", "sid", sub.ID(), "error", err)
			m.journalError("unsubscribe " + sub.ID() + ": " + err.Error())
		}
		cancel()
	}

	lctx, cancel := context.WithTimeout(ctx, m.config.RequestTimeout)
	defer cancel()
	if err := m.notifier.StopListener(lctx); err != nil {
		m.logger.Warn("stop listener failed", "error", err)
		m.journalError("stop listener: " + err.Error())
	}
}

func (m *Manager) subscribe(ctx context.Context) (notify.Subscription, error) {
	m.mu.Lock()
	m.stats.Subscribes++
	m.mu.Unlock()

	m.logger.Info("subscribing", "ttl", m.config.TTL)

	sctx, cancel := context.WithTimeout(ctx, m.config.RequestTimeout)
	defer cancel()

	sub, err := m.notifier.Subscribe(sctx, m.config.TTL)
	if err != nil {
		m.mu.Lock()
		m.stats.Failures++
		m.mu.Unlock()
		return nil, err
	}
	return sub, nil
}

func (m *Manager) install(sub notify.Subscription, renewal bool) {
	if d := m.retry.outage(time.Now()); d > 0 {
		m.logger.Info("source reachable again", "outage", d.Round(time.Millisecond))
	}
	m.retry.succeed()

	m.mu.Lock()
	m.sub = sub
	m.stats.LastSubscribed = time.Now()
	if renewal {
		m.stats.Renewals++
	}
	m.mu.Unlock()

	m.logger.Info("subscribed", "sid", sub.ID(), "remaining", sub.TimeRemaining())
	m.setState(StateActive, sub.ID(), "", 0)
}

func (m *Manager) setState(newState State, sid, reason string, remaining time.Duration) {
	m.mu.Lock()
	oldState := m.state
	m.state = newState
	cb := m.onStateChange
	m.mu.Unlock()

	if oldState == newState && reason == "" {
		return
	}

	m.journal.Log(journal.Event{
		Category: journal.CategorySubscription,
		Subscription: &journal.SubscriptionEvent{
			SID:           sid,
			OldState:      oldState.String(),
			NewState:      newState.String(),
			Reason:        reason,
			TimeRemaining: remaining,
		},
	})

	if cb != nil && oldState != newState {
		cb(oldState, newState)
	}
}

func (m *Manager) journalError(msg string) {
	m.journal.Log(journal.Event{
		Category: journal.CategoryError,
		Error:    &journal.ErrorEvent{Component: "subscription", Message: msg},
	})
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func idOf(sub notify.Subscription) string {
	if sub == nil {
		return ""
	}
	return sub.ID()
}
