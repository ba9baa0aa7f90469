package gena

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssmb/ssmb-go/pkg/notify"
)

// fakeDevice is the event endpoint of a UPnP service.
type fakeDevice struct {
	srv *httptest.Server

	mu           sync.Mutex
	requests     []*http.Request
	nextSID      int
	grant        string
	renewStatus  int
	subStatus    int
	omitSID      bool
	unsubscribed []string
	renewed      []string
}

func newFakeDevice(t *testing.T) *fakeDevice {
	t.Helper()
	d := &fakeDevice{grant: "Second-120", renewStatus: http.StatusOK, subStatus: http.StatusOK}
	d.srv = httptest.NewServer(http.HandlerFunc(d.handle))
	t.Cleanup(d.srv.Close)
	return d
}

func (d *fakeDevice) eventURL() string { return d.srv.URL + "/MediaRenderer/AVTransport/Event" }

func (d *fakeDevice) handle(w http.ResponseWriter, r *http.Request) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.requests = append(d.requests, r.Clone(context.Background()))

	switch r.Method {
	case MethodSubscribe:
		if sid := r.Header.Get("SID"); sid != "" {
			d.renewed = append(d.renewed, sid)
			if d.renewStatus != http.StatusOK {
				w.WriteHeader(d.renewStatus)
				return
			}
			w.Header().Set("SID", sid)
			w.Header().Set("TIMEOUT", d.grant)
			return
		}
		if d.subStatus != http.StatusOK {
			w.WriteHeader(d.subStatus)
			return
		}
		d.nextSID++
		if !d.omitSID {
			w.Header().Set("SID", fmt.Sprintf("uuid:RINCON_%d", d.nextSID))
		}
		w.Header().Set("TIMEOUT", d.grant)
	case MethodUnsubscribe:
		d.unsubscribed = append(d.unsubscribed, r.Header.Get("SID"))
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (d *fakeDevice) set(fn func(d *fakeDevice)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fn(d)
}

func (d *fakeDevice) lastRequest() *http.Request {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.requests[len(d.requests)-1]
}

func (d *fakeDevice) renewCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.renewed)
}

func newTestNotifier(t *testing.T, d *fakeDevice, autoRenew bool) *Notifier {
	t.Helper()
	n, err := New(Config{
		EventURL:        d.eventURL(),
		CallbackAddress: "127.0.0.1:0",
		AdvertiseHost:   "127.0.0.1",
		AutoRenew:       autoRenew,
		BufferSize:      2,
	})
	require.NoError(t, err)
	t.Cleanup(func() { n.StopListener(context.Background()) })
	return n
}

func sendNotify(t *testing.T, callback, sid, seq, body string) int {
	t.Helper()
	req, err := http.NewRequest(MethodNotify, callback, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("NT", "upnp:event")
	req.Header.Set("NTS", "upnp:propchange")
	req.Header.Set("SID", sid)
	req.Header.Set("SEQ", seq)
	req.Header.Set("Content-Type", `text/xml; charset="utf-8"`)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

func TestSubscribeSendsGENAHeaders(t *testing.T) {
	d := newFakeDevice(t)
	n := newTestNotifier(t, d, false)

	sub, err := n.Subscribe(context.Background(), 120*time.Second)
	require.NoError(t, err)

	assert.Equal(t, "uuid:RINCON_1", sub.ID())
	assert.True(t, sub.Alive())
	assert.InDelta(t, float64(120*time.Second), float64(sub.TimeRemaining()), float64(time.Second))

	req := d.lastRequest()
	assert.Equal(t, MethodSubscribe, req.Method)
	assert.Equal(t, "/MediaRenderer/AVTransport/Event", req.URL.Path)
	assert.Equal(t, "upnp:event", req.Header.Get("NT"))
	assert.Equal(t, "Second-120", req.Header.Get("TIMEOUT"))
	assert.Equal(t, "<"+n.CallbackURL()+">", req.Header.Get("CALLBACK"))
	assert.True(t, strings.HasPrefix(n.CallbackURL(), "http://127.0.0.1:"))
	assert.True(t, strings.HasSuffix(n.CallbackURL(), CallbackPath))
}

func TestSubscribeHonoursGrantedTimeout(t *testing.T) {
	d := newFakeDevice(t)
	d.set(func(d *fakeDevice) { d.grant = "Second-30" })
	n := newTestNotifier(t, d, false)

	sub, err := n.Subscribe(context.Background(), 120*time.Second)
	require.NoError(t, err)
	assert.LessOrEqual(t, sub.TimeRemaining(), 30*time.Second)
}

func TestSubscribeFailures(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		d := newFakeDevice(t)
		d.set(func(d *fakeDevice) { d.subStatus = http.StatusInternalServerError })
		n := newTestNotifier(t, d, false)

		_, err := n.Subscribe(context.Background(), time.Minute)
		assert.ErrorIs(t, err, notify.ErrSubscribeFailed)
		assert.ErrorIs(t, err, ErrUnexpectedStatus)
	})

	t.Run("missing sid", func(t *testing.T) {
		d := newFakeDevice(t)
		d.set(func(d *fakeDevice) { d.omitSID = true })
		n := newTestNotifier(t, d, false)

		_, err := n.Subscribe(context.Background(), time.Minute)
		assert.ErrorIs(t, err, notify.ErrSubscribeFailed)
		assert.ErrorIs(t, err, ErrMissingSID)
	})

	t.Run("unreachable", func(t *testing.T) {
		d := newFakeDevice(t)
		url := d.eventURL()
		d.srv.Close()

		n, err := New(Config{EventURL: url, CallbackAddress: "127.0.0.1:0", AdvertiseHost: "127.0.0.1"})
		require.NoError(t, err)
		defer n.StopListener(context.Background())

		_, err = n.Subscribe(context.Background(), time.Minute)
		assert.ErrorIs(t, err, notify.ErrSubscribeFailed)
	})
}

func TestNotifyDelivery(t *testing.T) {
	d := newFakeDevice(t)
	n := newTestNotifier(t, d, false)

	sub, err := n.Subscribe(context.Background(), time.Minute)
	require.NoError(t, err)

	status := sendNotify(t, n.CallbackURL(), sub.ID(), "3", avTransportEvent)
	require.Equal(t, http.StatusOK, status)

	select {
	case ev := <-sub.Events():
		assert.Equal(t, sub.ID(), ev.SubscriptionID)
		assert.Equal(t, uint32(3), ev.Seq)
		assert.Equal(t, "PLAYING", ev.Variables["transport_state"])
		assert.False(t, ev.ReceivedAt.IsZero())
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
	}
}

func TestNotifyRejections(t *testing.T) {
	d := newFakeDevice(t)
	n := newTestNotifier(t, d, false)

	sub, err := n.Subscribe(context.Background(), time.Minute)
	require.NoError(t, err)
	cb := n.CallbackURL()

	assert.Equal(t, http.StatusPreconditionFailed, sendNotify(t, cb, "uuid:nobody", "0", avTransportEvent))
	assert.Equal(t, http.StatusBadRequest, sendNotify(t, cb, sub.ID(), "0", "garbage"))

	resp, err := http.Get(cb)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	req := httptest.NewRequest(MethodNotify, CallbackPath, strings.NewReader(avTransportEvent))
	req.Header.Set("SID", sub.ID())
	rec := httptest.NewRecorder()
	n.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "missing NT/NTS")
}

func TestNotifyDropsWhenBufferFull(t *testing.T) {
	d := newFakeDevice(t)
	n := newTestNotifier(t, d, false)

	sub, err := n.Subscribe(context.Background(), time.Minute)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, sendNotify(t, n.CallbackURL(), sub.ID(), fmt.Sprint(i), avTransportEvent))
	}
	assert.Equal(t, 1, n.Dropped())
	assert.Len(t, sub.Events(), 2)
}

func TestUnsubscribe(t *testing.T) {
	d := newFakeDevice(t)
	n := newTestNotifier(t, d, false)

	sub, err := n.Subscribe(context.Background(), time.Minute)
	require.NoError(t, err)

	require.NoError(t, sub.Unsubscribe(context.Background()))
	assert.False(t, sub.Alive())

	_, open := <-sub.Events()
	assert.False(t, open, "events channel closed")

	d.mu.Lock()
	assert.Equal(t, []string{sub.ID()}, d.unsubscribed)
	d.mu.Unlock()

	assert.ErrorIs(t, sub.Unsubscribe(context.Background()), notify.ErrSubscriptionClosed)

	// Late events for a released SID are refused.
	assert.Equal(t, http.StatusPreconditionFailed, sendNotify(t, n.CallbackURL(), sub.ID(), "9", avTransportEvent))
}

func TestUnsubscribeFailureStillCloses(t *testing.T) {
	d := newFakeDevice(t)
	n := newTestNotifier(t, d, false)

	sub, err := n.Subscribe(context.Background(), time.Minute)
	require.NoError(t, err)
	d.srv.Close()

	err = sub.Unsubscribe(context.Background())
	assert.Error(t, err)
	_, open := <-sub.Events()
	assert.False(t, open)
}

func TestAutoRenew(t *testing.T) {
	d := newFakeDevice(t)
	d.set(func(d *fakeDevice) { d.grant = "Second-1" })
	n := newTestNotifier(t, d, true)

	sub, err := n.Subscribe(context.Background(), time.Second)
	require.NoError(t, err)
	defer sub.Unsubscribe(context.Background())

	require.Eventually(t, func() bool { return d.renewCount() >= 2 }, 3*time.Second, 20*time.Millisecond)
	assert.True(t, sub.Alive())
	assert.Greater(t, sub.TimeRemaining(), 300*time.Millisecond)

	d.mu.Lock()
	assert.Equal(t, sub.ID(), d.renewed[0])
	d.mu.Unlock()
}

func TestAutoRenewFailureKeepsAlive(t *testing.T) {
	d := newFakeDevice(t)
	d.set(func(d *fakeDevice) {
		d.grant = "Second-1"
		d.renewStatus = http.StatusPreconditionFailed
	})
	n := newTestNotifier(t, d, true)

	sub, err := n.Subscribe(context.Background(), time.Second)
	require.NoError(t, err)
	defer sub.Unsubscribe(context.Background())

	require.Eventually(t, func() bool { return sub.TimeRemaining() == 0 }, 3*time.Second, 20*time.Millisecond)
	assert.True(t, sub.Alive(), "renewal failure must not flip liveness")
	assert.GreaterOrEqual(t, d.renewCount(), 1)
	assert.Equal(t, 0, sub.(*Subscription).Renewals())
}

func TestRenewPreconditionFailed(t *testing.T) {
	d := newFakeDevice(t)
	d.set(func(d *fakeDevice) { d.renewStatus = http.StatusPreconditionFailed })
	n := newTestNotifier(t, d, false)

	sub, err := n.Subscribe(context.Background(), time.Minute)
	require.NoError(t, err)

	err = sub.(*Subscription).Renew(context.Background())
	assert.ErrorIs(t, err, ErrPreconditionFailed)
}

func TestStopListenerAndRestart(t *testing.T) {
	d := newFakeDevice(t)
	n := newTestNotifier(t, d, false)

	require.NoError(t, n.StopListener(context.Background()), "stopping a stopped listener")

	first, err := n.Subscribe(context.Background(), time.Minute)
	require.NoError(t, err)
	cb := n.CallbackURL()
	require.NotEmpty(t, cb)

	require.NoError(t, first.Unsubscribe(context.Background()))
	require.NoError(t, n.StopListener(context.Background()))
	assert.Empty(t, n.CallbackURL())

	_, err = http.Post(cb, "text/xml", strings.NewReader(avTransportEvent))
	assert.Error(t, err, "listener should be gone")

	second, err := n.Subscribe(context.Background(), time.Minute)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID(), second.ID())
	assert.Equal(t, http.StatusOK, sendNotify(t, n.CallbackURL(), second.ID(), "0", avTransportEvent))
}

func TestTimeoutHeader(t *testing.T) {
	assert.Equal(t, "Second-120", FormatTimeout(120*time.Second))
	assert.Equal(t, "infinite", FormatTimeout(0))

	fallback := 42 * time.Second
	tests := map[string]time.Duration{
		"Second-120":  120 * time.Second,
		"second-1800": 1800 * time.Second,
		" Second-5 ":  5 * time.Second,
		"infinite":    fallback,
		"":            fallback,
		"Second-":     fallback,
		"Second-0":    fallback,
		"Second-abc":  fallback,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseTimeout(in, fallback), in)
	}
}

func TestNewRejectsBadURL(t *testing.T) {
	for _, u := range []string{"", "ftp://x/y", "/relative", "http://"} {
		_, err := New(Config{EventURL: u})
		assert.Error(t, err, u)
	}
}

func TestSubscribeCancelled(t *testing.T) {
	d := newFakeDevice(t)
	n := newTestNotifier(t, d, false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := n.Subscribe(ctx, time.Minute)
	assert.True(t, errors.Is(err, context.Canceled))
}
