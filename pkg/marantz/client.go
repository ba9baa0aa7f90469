package marantz

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/ssmb/ssmb-go/pkg/receiver"
)

// Default client timings.
const (
	DefaultPort           = "23"
	DefaultDialTimeout    = 3 * time.Second
	DefaultCommandTimeout = 5 * time.Second

	// DefaultCommandGap is the minimum spacing between commands the
	// receiver is documented to need.
	DefaultCommandGap = 50 * time.Millisecond

	// DefaultDrainWindow is how long a query listens for lines already on
	// their way before it is written.
	DefaultDrainWindow = 25 * time.Millisecond
)

// Client errors.
var (
	// ErrTimeout indicates no reply arrived within the command deadline.
	ErrTimeout = errors.New("receiver timeout")

	// ErrMalformedResponse indicates a reply that could not be decoded.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrClosed indicates use of a closed Client.
	ErrClosed = errors.New("client closed")
)

// ResponseError reports an undecodable reply to a command.
type ResponseError struct {
	Command string
	Reply   string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("%s: unexpected reply %q", e.Command, e.Reply)
}

// Unwrap makes ResponseError match ErrMalformedResponse.
func (e *ResponseError) Unwrap() error {
	return ErrMalformedResponse
}

// Config configures a Client.
type Config struct {
	// Address is host or host:port of the receiver. Port 23 is assumed
	// when missing.
	Address string

	// DialTimeout bounds connection setup (default: 3s).
	DialTimeout time.Duration

	// CommandTimeout bounds each command including its reply (default: 5s).
	CommandTimeout time.Duration

	// CommandGap is the minimum time between two commands (default: 50ms).
	// Negative disables the gap.
	CommandGap time.Duration

	// DrainWindow is how long stale lines are discarded before each query
	// (default: 25ms). Setter echoes and status pushes from the front panel
	// or remote arrive unrequested, so without it a query could be answered
	// by an old line. Negative disables draining.
	DrainWindow time.Duration

	// Logger is the optional operational logger. If nil, logging is disabled.
	Logger *slog.Logger
}

// Client talks to one receiver. It is safe for concurrent use; commands
// are serialised.
type Client struct {
	config Config
	logger *slog.Logger
	dialer net.Dialer

	mu       sync.Mutex
	conn     net.Conn
	reader   *LineReader
	writer   *LineWriter
	lastSent time.Time
	closed   bool
}

// NewClient creates a Client. No connection is made until the first command.
func NewClient(config Config) *Client {
	if _, _, err := net.SplitHostPort(config.Address); err != nil {
		config.Address = net.JoinHostPort(config.Address, DefaultPort)
	}
	if config.DialTimeout <= 0 {
		config.DialTimeout = DefaultDialTimeout
	}
	if config.CommandTimeout <= 0 {
		config.CommandTimeout = DefaultCommandTimeout
	}
	if config.CommandGap == 0 {
		config.CommandGap = DefaultCommandGap
	}
	if config.DrainWindow == 0 {
		config.DrainWindow = DefaultDrainWindow
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		config: config,
		logger: logger,
		dialer: net.Dialer{Timeout: config.DialTimeout},
	}
}

// Address returns the receiver address in host:port form.
func (c *Client) Address() string {
	return c.config.Address
}

// Power implements receiver.Receiver.
func (c *Client) Power(ctx context.Context) (receiver.Power, error) {
	cmd := groupPower + query
	line, err := c.query(ctx, cmd, groupPower)
	if err != nil {
		return receiver.PowerUnknown, err
	}
	p, ok := DecodePower(line)
	if !ok {
		return receiver.PowerUnknown, &ResponseError{Command: cmd, Reply: line}
	}
	return p, nil
}

// SetPower implements receiver.Receiver.
func (c *Client) SetPower(ctx context.Context, p receiver.Power) error {
	cmd, err := EncodePower(p)
	if err != nil {
		return err
	}
	return c.send(ctx, cmd)
}

// Input implements receiver.Receiver.
func (c *Client) Input(ctx context.Context) (string, error) {
	cmd := groupInput + query
	line, err := c.query(ctx, cmd, groupInput)
	if err != nil {
		return "", err
	}
	in, ok := DecodeInput(line)
	if !ok {
		return "", &ResponseError{Command: cmd, Reply: line}
	}
	return in, nil
}

// SetInput implements receiver.Receiver.
func (c *Client) SetInput(ctx context.Context, name string) error {
	cmd, err := EncodeInput(name)
	if err != nil {
		return err
	}
	return c.send(ctx, cmd)
}

// Volume implements receiver.Receiver.
func (c *Client) Volume(ctx context.Context) (float64, error) {
	cmd := groupVolume + query
	line, err := c.query(ctx, cmd, groupVolume, groupVolume+"MAX")
	if err != nil {
		return 0, err
	}
	v, ok := DecodeVolume(line)
	if !ok {
		return 0, &ResponseError{Command: cmd, Reply: line}
	}
	return v, nil
}

// SetVolume implements receiver.Receiver.
func (c *Client) SetVolume(ctx context.Context, v float64) error {
	cmd, err := EncodeVolume(v)
	if err != nil {
		return err
	}
	return c.send(ctx, cmd)
}

// Close drops the connection. Further commands return ErrClosed.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	return c.disconnectLocked()
}

// send writes a command without waiting for a reply; the receiver only
// echoes setters when the state actually changes. The echo is discarded by
// the next query's drain.
func (c *Client) send(ctx context.Context, cmd string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.roundTrip(ctx, cmd, false, func() error { return nil })
}

// query drains stale lines, writes cmd and returns the first reply starting
// with prefix and none of the skip prefixes.
func (c *Client) query(ctx context.Context, cmd, prefix string, skip ...string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var reply string
	err := c.roundTrip(ctx, cmd, true, func() error {
		for {
			line, err := c.reader.ReadLine()
			if err != nil {
				return err
			}
			if !strings.HasPrefix(line, prefix) || hasAnyPrefix(line, skip) {
				c.logger.Debug("skipping unsolicited line", "line", line, "awaiting", cmd)
				continue
			}
			reply = line
			return nil
		}
	})
	return reply, err
}

// roundTrip connects if needed, optionally drains stale lines, writes cmd
// and runs read under the command deadline. Caller holds c.mu.
func (c *Client) roundTrip(ctx context.Context, cmd string, drain bool, read func() error) error {
	if c.closed {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.CommandTimeout)
	defer cancel()

	if err := c.connectLocked(ctx); err != nil {
		return err
	}
	if err := c.waitGap(ctx); err != nil {
		return err
	}
	if drain {
		if err := c.drainLocked(ctx); err != nil {
			if ctx.Err() != nil {
				c.disconnectLocked()
				return c.classify(ctx, cmd, err)
			}
			// The receiver dropped an idle connection; dial once more.
			c.logger.Info("receiver connection lost, reconnecting", "error", err)
			c.disconnectLocked()
			if err := c.connectLocked(ctx); err != nil {
				return err
			}
		}
	}

	deadline, _ := ctx.Deadline()
	conn := c.conn
	if err := conn.SetDeadline(deadline); err != nil {
		c.disconnectLocked()
		return fmt.Errorf("%s: %w", cmd, err)
	}

	// Unblock I/O immediately when the caller gives up.
	stop := context.AfterFunc(ctx, func() { conn.SetDeadline(time.Now()) })
	defer stop()

	c.logger.Debug("send", "cmd", cmd)
	err := c.writer.WriteLine(cmd)
	c.lastSent = time.Now()
	if err == nil {
		err = read()
	}
	if err != nil {
		c.disconnectLocked()
		return c.classify(ctx, cmd, err)
	}
	return nil
}

// drainLocked discards every line arriving within the drain window, or
// until ctx's deadline if that is sooner. Caller holds c.mu.
func (c *Client) drainLocked(ctx context.Context) error {
	if c.config.DrainWindow <= 0 {
		return nil
	}

	until := time.Now().Add(c.config.DrainWindow)
	if d, ok := ctx.Deadline(); ok && d.Before(until) {
		until = d
	}
	if err := c.conn.SetReadDeadline(until); err != nil {
		return err
	}

	for {
		line, err := c.reader.ReadLine()
		if err == nil {
			c.logger.Debug("discarding stale line", "line", line)
			continue
		}
		if errors.Is(err, os.ErrDeadlineExceeded) {
			return ctx.Err()
		}
		return err
	}
}

func (c *Client) connectLocked(ctx context.Context) error {
	if c.conn != nil {
		return nil
	}

	conn, err := c.dialer.DialContext(ctx, "tcp", c.config.Address)
	if err != nil {
		if ctx.Err() != nil {
			return c.classify(ctx, "dial", err)
		}
		return fmt.Errorf("dial %s: %w", c.config.Address, err)
	}
	c.logger.Info("connected to receiver", "address", c.config.Address)

	c.conn = conn
	c.reader = NewLineReader(conn)
	c.writer = NewLineWriter(conn)
	return nil
}

func (c *Client) disconnectLocked() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	c.reader = nil
	c.writer = nil
	return err
}

func (c *Client) waitGap(ctx context.Context) error {
	if c.config.CommandGap <= 0 || c.lastSent.IsZero() {
		return nil
	}
	wait := c.config.CommandGap - time.Since(c.lastSent)
	if wait <= 0 {
		return nil
	}

	t := time.NewTimer(wait)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// classify maps I/O errors to the package errors, keeping caller
// cancellation distinguishable from a silent receiver.
func (c *Client) classify(ctx context.Context, cmd string, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return ctx.Err()
	}
	if errors.Is(err, os.ErrDeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %w", cmd, ErrTimeout, context.DeadlineExceeded)
	}
	return fmt.Errorf("%s: %w", cmd, err)
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// Compile-time interface satisfaction check.
var _ receiver.Receiver = (*Client)(nil)
