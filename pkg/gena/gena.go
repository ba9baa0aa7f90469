package gena

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ssmb/ssmb-go/pkg/notify"
)

// GENA errors.
var (
	// ErrUnexpectedStatus indicates a non-200 reply to a GENA request.
	ErrUnexpectedStatus = errors.New("unexpected status")

	// ErrMissingSID indicates a SUBSCRIBE reply without a SID header.
	ErrMissingSID = errors.New("missing SID")

	// ErrPreconditionFailed indicates the device no longer knows the SID.
	ErrPreconditionFailed = errors.New("precondition failed")
)

// GENA methods and header values.
const (
	MethodSubscribe   = "SUBSCRIBE"
	MethodUnsubscribe = "UNSUBSCRIBE"
	MethodNotify      = "NOTIFY"

	ntEvent       = "upnp:event"
	ntsPropChange = "upnp:propchange"

	// CallbackPath is the listener path put into CALLBACK.
	CallbackPath = "/notify"
)

// DefaultRequestTimeout bounds GENA requests when no HTTP client is given.
const DefaultRequestTimeout = 10 * time.Second

// Config configures a Notifier.
type Config struct {
	// EventURL is the service's event subscription URL.
	EventURL string

	// CallbackAddress is the listener bind address (e.g. ":1401").
	CallbackAddress string

	// AdvertiseHost is the host put into CALLBACK. Empty means the local
	// address used to reach the device.
	AdvertiseHost string

	// AutoRenew makes every subscription renew itself in the background.
	AutoRenew bool

	// BufferSize is the capacity of each delivery channel
	// (default: notify.DefaultEventBuffer).
	BufferSize int

	// HTTPClient sends GENA requests (default: 10s timeout client).
	HTTPClient *http.Client

	// Logger is the optional operational logger. If nil, logging is disabled.
	Logger *slog.Logger
}

// Notifier subscribes to one GENA event URL.
type Notifier struct {
	config   Config
	eventURL *url.URL
	client   *http.Client
	logger   *slog.Logger

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
	callback string
	subs     map[string]*Subscription
	dropped  int
	unknown  int
}

// New creates a Notifier. The listener is not started until Subscribe.
func New(config Config) (*Notifier, error) {
	u, err := url.Parse(config.EventURL)
	if err != nil {
		return nil, fmt.Errorf("event url: %w", err)
	}
	if u.Scheme != "http" || u.Host == "" {
		return nil, fmt.Errorf("event url %q: must be an absolute http URL", config.EventURL)
	}
	if config.CallbackAddress == "" {
		config.CallbackAddress = ":0"
	}
	if config.BufferSize <= 0 {
		config.BufferSize = notify.DefaultEventBuffer
	}

	client := config.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: DefaultRequestTimeout}
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Notifier{
		config:   config,
		eventURL: u,
		client:   client,
		logger:   logger,
		subs:     make(map[string]*Subscription),
	}, nil
}

// Subscribe implements notify.Notifier.
func (n *Notifier) Subscribe(ctx context.Context, ttl time.Duration) (notify.Subscription, error) {
	callback, err := n.startListener()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", notify.ErrSubscribeFailed, err)
	}

	req, err := n.newRequest(ctx, MethodSubscribe)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", notify.ErrSubscribeFailed, err)
	}
	req.Header.Set("CALLBACK", "<"+callback+">")
	req.Header.Set("NT", ntEvent)
	req.Header.Set("TIMEOUT", FormatTimeout(ttl))

	resp, err := n.do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", notify.ErrSubscribeFailed, err)
	}

	sid := resp.Header.Get("SID")
	if sid == "" {
		return nil, fmt.Errorf("%w: %w", notify.ErrSubscribeFailed, ErrMissingSID)
	}
	granted := ParseTimeout(resp.Header.Get("TIMEOUT"), ttl)

	sub := &Subscription{
		owner:     n,
		sid:       sid,
		events:    make(chan notify.Notification, n.config.BufferSize),
		requested: ttl,
		granted:   granted,
		deadline:  time.Now().Add(granted),
		alive:     true,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}

	n.mu.Lock()
	n.subs[sid] = sub
	n.mu.Unlock()

	n.logger.Info("gena subscribed", "sid", sid, "timeout", granted, "callback", callback)

	if n.config.AutoRenew {
		go sub.autoRenew()
	} else {
		close(sub.done)
	}
	return sub, nil
}

// StopListener implements notify.Notifier.
func (n *Notifier) StopListener(ctx context.Context) error {
	n.mu.Lock()
	srv := n.server
	n.server = nil
	n.listener = nil
	n.callback = ""
	n.mu.Unlock()

	if srv == nil {
		return nil
	}
	n.logger.Debug("stopping event listener")
	return srv.Shutdown(ctx)
}

// CallbackURL returns the URL put into CALLBACK, or "" while the listener
// is stopped.
func (n *Notifier) CallbackURL() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.callback
}

// Dropped returns the number of notifications discarded because a delivery
// channel was full.
func (n *Notifier) Dropped() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.dropped
}

func (n *Notifier) startListener() (string, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.server != nil {
		return n.callback, nil
	}

	ln, err := net.Listen("tcp", n.config.CallbackAddress)
	if err != nil {
		return "", fmt.Errorf("listen %s: %w", n.config.CallbackAddress, err)
	}

	host := n.config.AdvertiseHost
	if host == "" {
		host, err = localHostFor(n.eventURL.Host)
		if err != nil {
			ln.Close()
			return "", err
		}
	}
	_, port, _ := net.SplitHostPort(ln.Addr().String())

	srv := &http.Server{
		Handler:           n,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			n.logger.Error("event listener failed", "error", err)
		}
	}()

	n.server = srv
	n.listener = ln
	n.callback = "http://" + net.JoinHostPort(host, port) + CallbackPath
	n.logger.Debug("event listener started", "address", ln.Addr().String(), "callback", n.callback)
	return n.callback, nil
}

func (n *Notifier) newRequest(ctx context.Context, method string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, n.eventURL.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "ssmb UPnP/1.0")
	return req, nil
}

// do sends req and requires a 200 reply.
func (n *Notifier) do(req *http.Request) (*http.Response, error) {
	resp, err := n.client.Do(req)
	if err != nil {
		return nil, err
	}
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return resp, nil
	case http.StatusPreconditionFailed:
		return nil, fmt.Errorf("%s: %w", req.Method, ErrPreconditionFailed)
	default:
		return nil, fmt.Errorf("%s: %w: %s", req.Method, ErrUnexpectedStatus, resp.Status)
	}
}

func (n *Notifier) lookup(sid string) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.subs[sid]
}

func (n *Notifier) forget(sid string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.subs, sid)
}

// FormatTimeout renders a TIMEOUT header value.
func FormatTimeout(d time.Duration) string {
	secs := int64(d / time.Second)
	if secs <= 0 {
		return "infinite"
	}
	return "Second-" + strconv.FormatInt(secs, 10)
}

// ParseTimeout parses a TIMEOUT header value. Missing, malformed and
// infinite values yield fallback.
func ParseTimeout(v string, fallback time.Duration) time.Duration {
	v = strings.TrimSpace(v)
	if len(v) < len("Second-") || !strings.EqualFold(v[:len("Second-")], "Second-") {
		return fallback
	}
	secs, err := strconv.ParseInt(v[len("Second-"):], 10, 64)
	if err != nil || secs <= 0 {
		return fallback
	}
	return time.Duration(secs) * time.Second
}

// localHostFor returns the local IP used to reach hostport. No packets are
// sent: dialing UDP only selects a route.
func localHostFor(hostport string) (string, error) {
	if _, _, err := net.SplitHostPort(hostport); err != nil {
		hostport = net.JoinHostPort(hostport, "80")
	}
	conn, err := net.Dial("udp", hostport)
	if err != nil {
		return "", fmt.Errorf("detect callback host: %w", err)
	}
	defer conn.Close()

	host, _, err := net.SplitHostPort(conn.LocalAddr().String())
	if err != nil {
		return "", fmt.Errorf("detect callback host: %w", err)
	}
	return host, nil
}

// Compile-time interface satisfaction check.
var _ notify.Notifier = (*Notifier)(nil)
