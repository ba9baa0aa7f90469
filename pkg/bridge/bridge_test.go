package bridge

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssmb/ssmb-go/pkg/journal"
	"github.com/ssmb/ssmb-go/pkg/notify"
	"github.com/ssmb/ssmb-go/pkg/playback"
	"github.com/ssmb/ssmb-go/pkg/reconcile"
	"github.com/ssmb/ssmb-go/pkg/receiver"
	"github.com/ssmb/ssmb-go/pkg/subscription"
)

type fakeSub struct {
	id     string
	events chan notify.Notification
}

func newFakeSub(id string) *fakeSub {
	return &fakeSub{id: id, events: make(chan notify.Notification, notify.DefaultEventBuffer)}
}

func (s *fakeSub) ID() string                            { return s.id }
func (s *fakeSub) Events() <-chan notify.Notification    { return s.events }
func (s *fakeSub) Alive() bool                           { return true }
func (s *fakeSub) TimeRemaining() time.Duration          { return time.Minute }
func (s *fakeSub) Unsubscribe(ctx context.Context) error { return nil }

type fakeLifecycle struct {
	mu          sync.Mutex
	sub         *fakeSub
	invalidated []string
	released    int
	releaseErr  error
}

func (l *fakeLifecycle) Ensure(ctx context.Context) (notify.Subscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sub, nil
}

func (l *fakeLifecycle) Invalidate(sub notify.Subscription) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.invalidated = append(l.invalidated, sub.ID())
	l.sub = newFakeSub(sub.ID() + "-next")
}

func (l *fakeLifecycle) Release(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.released++
	l.releaseErr = ctx.Err()
}

type recordingHandler struct {
	mu      sync.Mutex
	seen    []notify.Notification
	panicOn int
}

func (h *recordingHandler) Handle(_ context.Context, n notify.Notification) reconcile.Result {
	h.mu.Lock()
	h.seen = append(h.seen, n)
	count := len(h.seen)
	h.mu.Unlock()
	if count == h.panicOn {
		panic("handler exploded")
	}
	return reconcile.Result{}
}

func (h *recordingHandler) Seen() []notify.Notification {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]notify.Notification(nil), h.seen...)
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func runBridge(t *testing.T, b *Bridge) (context.CancelFunc, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()
	t.Cleanup(cancel)
	return cancel, done
}

func playing(sid string) notify.Notification {
	return notify.Notification{
		SubscriptionID: sid,
		Variables:      map[string]string{playback.TransportStateKey: "PLAYING"},
	}
}

func TestBridgeShutdownLatency(t *testing.T) {
	lc := &fakeLifecycle{sub: newFakeSub("uuid:a")}
	b := New(lc, &recordingHandler{}, nil, Config{PollInterval: 50 * time.Millisecond})

	cancel, done := runBridge(t, b)
	time.Sleep(20 * time.Millisecond)

	start := time.Now()
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancellation")
	}
	assert.Less(t, time.Since(start), 200*time.Millisecond)

	lc.mu.Lock()
	defer lc.mu.Unlock()
	assert.Equal(t, 1, lc.released)
	assert.NoError(t, lc.releaseErr, "release context must outlive the cancelled one")
}

func TestBridgeDropsStaleNotifications(t *testing.T) {
	sub := newFakeSub("uuid:current")
	sub.events <- playing("uuid:old")
	sub.events <- playing("uuid:current")

	rec := journal.NewRecorder()
	h := &recordingHandler{}
	lc := &fakeLifecycle{sub: sub}
	b := New(lc, h, nil, Config{PollInterval: 10 * time.Millisecond, Journal: rec})

	runBridge(t, b)

	require.Eventually(t, func() bool { return len(h.Seen()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "uuid:current", h.Seen()[0].SubscriptionID)

	stats := b.Stats()
	assert.Equal(t, 1, stats.Stale)
	assert.Equal(t, 1, stats.Notifications)

	events := rec.ByCategory(journal.CategoryNotification)
	require.Len(t, events, 2)
	assert.True(t, events[0].Notification.Stale)
	assert.False(t, events[1].Notification.Stale)
}

func TestBridgeClosedChannelInvalidatesSubscription(t *testing.T) {
	sub := newFakeSub("uuid:a")
	close(sub.events)

	lc := &fakeLifecycle{sub: sub}
	b := New(lc, &recordingHandler{}, nil, Config{PollInterval: 10 * time.Millisecond})

	runBridge(t, b)

	require.Eventually(t, func() bool { return b.Stats().Closed == 1 }, time.Second, 5*time.Millisecond)
	lc.mu.Lock()
	defer lc.mu.Unlock()
	assert.Equal(t, []string{"uuid:a"}, lc.invalidated)
}

func TestBridgeRecoversFromPanic(t *testing.T) {
	sub := newFakeSub("uuid:a")
	sub.events <- playing("uuid:a")
	sub.events <- playing("uuid:a")

	rec := journal.NewRecorder()
	h := &recordingHandler{panicOn: 1}
	b := New(&fakeLifecycle{sub: sub}, h, nil, Config{PollInterval: 10 * time.Millisecond, Journal: rec})

	runBridge(t, b)

	require.Eventually(t, func() bool { return len(h.Seen()) == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, b.Stats().Panics)

	errs := rec.ByCategory(journal.CategoryError)
	require.Len(t, errs, 1)
	assert.Equal(t, "bridge", errs[0].Error.Component)
	assert.Contains(t, errs[0].Error.Message, "handler exploded")
}

func TestBridgeDumpMode(t *testing.T) {
	sub := newFakeSub("uuid:a")
	sub.events <- notify.Notification{
		SubscriptionID: "uuid:a",
		Seq:            7,
		Variables:      map[string]string{"transport_state": "PLAYING", "current_play_mode": "NORMAL"},
	}

	out := &syncBuffer{}
	h := &recordingHandler{}
	b := New(&fakeLifecycle{sub: sub}, h, nil, Config{PollInterval: 10 * time.Millisecond, Dump: out})

	runBridge(t, b)

	require.Eventually(t, func() bool { return out.String() != "" }, time.Second, 5*time.Millisecond)
	assert.Contains(t, out.String(), `seq=7 current_play_mode="NORMAL" transport_state="PLAYING"`)
	assert.Empty(t, h.Seen())
}

func TestFormatNotification(t *testing.T) {
	n := notify.Notification{
		SubscriptionID: "uuid:x",
		Seq:            3,
		Variables:      map[string]string{"b": "2", "a": "1"},
		ReceivedAt:     time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, `2026-03-01T12:00:00Z sid=uuid:x seq=3 a="1" b="2"`, FormatNotification(n))
}

func TestBridgeEndToEnd(t *testing.T) {
	n := notify.NewSimulated()
	rx := receiver.NewSimulated(receiver.Snapshot{Power: receiver.PowerOff, Input: "TUNER", Volume: 40})
	vol := 60.0

	m := subscription.NewManager(n, subscription.Config{Backoff: 10 * time.Millisecond})
	r := reconcile.New(rx, reconcile.Config{
		Target:      reconcile.Target{Input: "CD", Volume: &vol},
		SettleDelay: 5 * time.Millisecond,
	})
	b := New(m, r, rx, Config{PollInterval: 10 * time.Millisecond})

	cancel, done := runBridge(t, b)

	require.Eventually(t, func() bool { return n.Current() != nil }, time.Second, 5*time.Millisecond)

	// Startup status report.
	assert.Equal(t, []receiver.Command{
		{Op: receiver.OpGetPower}, {Op: receiver.OpGetInput}, {Op: receiver.OpGetVolume},
	}, rx.Queries()[:3])

	publish := func(state string) {
		t.Helper()
		require.True(t, n.Publish(map[string]string{playback.TransportStateKey: state}))
	}
	commands := func() []string {
		var out []string
		for _, c := range rx.Commands() {
			out = append(out, c.String())
		}
		return out
	}

	publish("PLAYING")
	publish("PLAYING")
	require.Eventually(t, func() bool { return len(commands()) == 3 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"power-on", "set-input(CD)", "set-volume(60)"}, commands())

	publish("PAUSED_PLAYBACK")
	require.Eventually(t, func() bool { return len(commands()) == 4 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "power-off", commands()[3])

	// Silent death: the bridge resubscribes and keeps reconciling.
	first := n.Current().ID()
	n.Kill()
	require.Eventually(t, func() bool {
		cur := n.Current()
		return cur != nil && cur.ID() != first && cur.Alive()
	}, time.Second, 5*time.Millisecond)

	rx.SetState(receiver.Snapshot{Power: receiver.PowerOn, Input: "CD", Volume: 60})
	rx.Reset()
	publish("PLAYING")
	require.Eventually(t, func() bool { return len(commands()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"set-input(CD)"}, commands())

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancellation")
	}
	assert.False(t, n.Current().Alive(), "subscription released on shutdown")
	assert.Equal(t, subscription.StateUnsubscribed, m.State())
}
