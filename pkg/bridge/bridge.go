package bridge

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ssmb/ssmb-go/pkg/journal"
	"github.com/ssmb/ssmb-go/pkg/notify"
	"github.com/ssmb/ssmb-go/pkg/reconcile"
	"github.com/ssmb/ssmb-go/pkg/receiver"
	"github.com/ssmb/ssmb-go/pkg/subscription"
)

// Default loop timings.
const (
	DefaultPollInterval    = time.Second
	DefaultShutdownTimeout = 5 * time.Second
	statusTimeout          = 5 * time.Second
)

// Lifecycle maintains the subscription the loop reads from.
// *subscription.Manager implements it.
type Lifecycle interface {
	Ensure(ctx context.Context) (notify.Subscription, error)
	Invalidate(sub notify.Subscription)
	Release(ctx context.Context)
}

// Handler reacts to one notification. *reconcile.Reconciler implements it.
type Handler interface {
	Handle(ctx context.Context, n notify.Notification) reconcile.Result
}

// Config configures a Bridge.
type Config struct {
	// PollInterval bounds each wait for a notification, and therefore the
	// shutdown latency.
	PollInterval time.Duration

	// ShutdownTimeout bounds the release of the subscription on shutdown.
	ShutdownTimeout time.Duration

	// Dump, if set, receives one line per notification instead of the
	// handler being called.
	Dump io.Writer

	// Logger is the optional operational logger. If nil, logging is disabled.
	Logger *slog.Logger

	// Journal receives notification and error events. If nil, nothing is recorded.
	Journal journal.Journal
}

// Stats counts loop activity.
type Stats struct {
	Iterations    int
	Notifications int
	Stale         int
	Closed        int
	Panics        int
}

// Bridge is the daemon loop.
type Bridge struct {
	lifecycle Lifecycle
	handler   Handler
	receiver  receiver.Receiver
	config    Config
	logger    *slog.Logger
	journal   journal.Journal

	mu    sync.Mutex
	stats Stats
}

// New creates a Bridge. The receiver is only used for the startup status
// report and may be nil; handler may be nil in dump mode.
func New(lc Lifecycle, h Handler, r receiver.Receiver, cfg Config) *Bridge {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Bridge{
		lifecycle: lc,
		handler:   h,
		receiver:  r,
		config:    cfg,
		logger:    logger,
		journal:   journal.OrNoop(cfg.Journal),
	}
}

// Run executes the loop until ctx is cancelled. It returns nil on a clean
// shutdown.
func (b *Bridge) Run(ctx context.Context) error {
	b.logInitialStatus(ctx)
	defer b.release()

	for ctx.Err() == nil {
		b.iterate(ctx)
	}
	b.logger.Info("shutting down")
	return nil
}

// Stats returns loop counters. It is safe to call while Run is active.
func (b *Bridge) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stats
}

func (b *Bridge) iterate(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			b.count(func(s *Stats) { s.Panics++ })
			b.logger.Error("recovered from panic", "panic", r, "stack", string(debug.Stack()))
			b.journalError(fmt.Sprintf("panic: %v", r))
			b.wait(ctx)
		}
	}()

	b.count(func(s *Stats) { s.Iterations++ })

	sub, err := b.lifecycle.Ensure(ctx)
	if err != nil {
		// Only returned on shutdown.
		return
	}

	timer := time.NewTimer(b.config.PollInterval)
	defer timer.Stop()

	select {
	case n, ok := <-sub.Events():
		if !ok {
			b.count(func(s *Stats) { s.Closed++ })
			b.logger.Warn("delivery channel closed", "sid", sub.ID())
			b.lifecycle.Invalidate(sub)
			return
		}
		b.deliver(ctx, sub, n)
	case <-timer.C:
	case <-ctx.Done():
	}
}

func (b *Bridge) deliver(ctx context.Context, sub notify.Subscription, n notify.Notification) {
	stale := n.SubscriptionID != sub.ID()

	b.journal.Log(journal.Event{
		Category: journal.CategoryNotification,
		Notification: &journal.NotificationEvent{
			SID:       n.SubscriptionID,
			Seq:       n.Seq,
			Variables: n.Variables,
			Stale:     stale,
		},
	})

	if stale {
		b.count(func(s *Stats) { s.Stale++ })
		b.logger.Debug("dropping stale notification", "sid", n.SubscriptionID, "current", sub.ID())
		return
	}
	b.count(func(s *Stats) { s.Notifications++ })

	if b.config.Dump != nil {
		fmt.Fprintln(b.config.Dump, FormatNotification(n))
		return
	}
	if b.handler != nil {
		b.handler.Handle(ctx, n)
	}
}

// release unsubscribes using a context detached from the cancelled one.
func (b *Bridge) release() {
	ctx, cancel := context.WithTimeout(context.Background(), b.config.ShutdownTimeout)
	defer cancel()
	b.lifecycle.Release(ctx)
}

func (b *Bridge) logInitialStatus(ctx context.Context) {
	if b.receiver == nil {
		return
	}

	qctx, cancel := context.WithTimeout(ctx, statusTimeout)
	defer cancel()

	snap, err := receiver.Query(qctx, b.receiver)
	if err != nil {
		b.logger.Warn("receiver status unavailable", "error", err)
		return
	}
	b.logger.Info("receiver status",
		"power", snap.Power,
		"input", snap.Input,
		"volume", receiver.FormatVolume(snap.Volume))
}

// wait pauses one poll interval or until ctx is done.
func (b *Bridge) wait(ctx context.Context) {
	t := time.NewTimer(b.config.PollInterval)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

func (b *Bridge) count(fn func(*Stats)) {
	b.mu.Lock()
	fn(&b.stats)
	b.mu.Unlock()
}

func (b *Bridge) journalError(msg string) {
	b.journal.Log(journal.Event{
		Category: journal.CategoryError,
		Error:    &journal.ErrorEvent{Component: "bridge", Message: msg},
	})
}

// FormatNotification renders a notification as one line with its variables
// sorted by name.
func FormatNotification(n notify.Notification) string {
	keys := make([]string, 0, len(n.Variables))
	for k := range n.Variables {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s sid=%s seq=%d", n.ReceivedAt.Format(time.RFC3339), n.SubscriptionID, n.Seq)
	for _, k := range keys {
		fmt.Fprintf(&sb, " %s=%q", k, n.Variables[k])
	}
	return sb.String()
}

// Compile-time interface satisfaction checks.
var (
	_ Lifecycle = (*subscription.Manager)(nil)
	_ Handler   = (*reconcile.Reconciler)(nil)
)
