package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ssmb/ssmb-go/pkg/marantz"
)

// ErrInvalidConfig is returned for configurations that fail validation.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the complete bridge configuration.
type Config struct {
	Source       Source       `yaml:"source"`
	Receiver     Receiver     `yaml:"receiver"`
	Target       Target       `yaml:"target"`
	Subscription Subscription `yaml:"subscription"`
	Bridge       Bridge       `yaml:"bridge"`
	Journal      Journal      `yaml:"journal"`
}

// Source describes the media source emitting playback events.
type Source struct {
	// EventURL is the AVTransport event subscription URL.
	EventURL string `yaml:"event_url"`

	// CallbackAddress is the bind address of the notification listener.
	CallbackAddress string `yaml:"callback_address"`

	// AdvertiseHost is the host put into the callback URL. Empty means the
	// local address used to reach the source.
	AdvertiseHost string `yaml:"advertise_host"`

	// UID identifies the source in the journal.
	UID string `yaml:"uid"`
}

// Receiver describes the amplifier being controlled.
type Receiver struct {
	// Address is the host:port of the receiver's control port.
	Address string `yaml:"address"`

	// CommandTimeout bounds each receiver command.
	CommandTimeout Duration `yaml:"command_timeout"`
}

// Target is the desired receiver configuration while the source plays.
type Target struct {
	Input        string   `yaml:"input"`
	Volume       *float64 `yaml:"volume"`
	SoundProgram string   `yaml:"sound_program"`
}

// Subscription holds the event subscription timings.
type Subscription struct {
	TTL           Duration `yaml:"ttl"`
	RenewalMargin Duration `yaml:"renewal_margin"`
	Backoff       Duration `yaml:"backoff"`
}

// Bridge holds the daemon loop timings.
type Bridge struct {
	PollInterval    Duration `yaml:"poll_interval"`
	SettleDelay     Duration `yaml:"settle_delay"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`
}

// Journal configures the event journal.
type Journal struct {
	// Path is the journal file. Empty disables the journal.
	Path string `yaml:"path"`

	// MaxSizeMB rotates the file at this size in MiB. Zero means the journal
	// default; negative disables rotation.
	MaxSizeMB int `yaml:"max_size_mb"`
}

// Default returns the configuration used for fields a file leaves out.
// It does not validate: the receiver address, target input and event URL
// have no defaults.
func Default() Config {
	return Config{
		Source: Source{
			CallbackAddress: ":1401",
		},
		Receiver: Receiver{
			CommandTimeout: Duration{5 * time.Second},
		},
		Subscription: Subscription{
			TTL:           Duration{120 * time.Second},
			RenewalMargin: Duration{5 * time.Second},
			Backoff:       Duration{10 * time.Second},
		},
		Bridge: Bridge{
			PollInterval:    Duration{time.Second},
			SettleDelay:     Duration{2 * time.Second},
			ShutdownTimeout: Duration{5 * time.Second},
		},
	}
}

// Load reads and validates the configuration file at path.
func Load(path string) (Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Read decodes the configuration file at path over Default without
// validating, so callers can apply overrides first. An empty path returns
// Default.
func Read(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Decode(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over Default and validates the result.
func Parse(data []byte) (Config, error) {
	cfg, err := Decode(data)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Decode decodes YAML over Default without validating.
func Decode(data []byte) (Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Validate checks required fields and value ranges. All problems are
// reported together, each wrapping ErrInvalidConfig.
func (c Config) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if c.Source.EventURL == "" {
		fail("source.event_url is required")
	} else if u, err := url.Parse(c.Source.EventURL); err != nil || u.Scheme != "http" || u.Host == "" {
		fail("source.event_url %q must be an http URL", c.Source.EventURL)
	}
	if c.Source.CallbackAddress == "" {
		fail("source.callback_address is required")
	} else if _, _, err := net.SplitHostPort(c.Source.CallbackAddress); err != nil {
		fail("source.callback_address %q: %v", c.Source.CallbackAddress, err)
	}

	if c.Receiver.Address == "" {
		fail("receiver.address is required")
	} else if _, _, err := net.SplitHostPort(c.Receiver.Address); err != nil {
		fail("receiver.address %q: %v", c.Receiver.Address, err)
	}
	if c.Receiver.CommandTimeout.Duration <= 0 {
		fail("receiver.command_timeout must be positive")
	}

	if c.Target.Input == "" {
		fail("target.input is required")
	}
	if v := c.Target.Volume; v != nil && (*v < 0 || *v > marantz.MaxVolume) {
		fail("target.volume %v out of range 0-%v", *v, marantz.MaxVolume)
	}

	s := c.Subscription
	if s.TTL.Duration <= 0 {
		fail("subscription.ttl must be positive")
	}
	if s.RenewalMargin.Duration <= 0 {
		fail("subscription.renewal_margin must be positive")
	} else if s.RenewalMargin.Duration >= s.TTL.Duration {
		fail("subscription.renewal_margin %s must be shorter than ttl %s", s.RenewalMargin, s.TTL)
	}
	if s.Backoff.Duration <= 0 {
		fail("subscription.backoff must be positive")
	}

	b := c.Bridge
	if b.PollInterval.Duration <= 0 {
		fail("bridge.poll_interval must be positive")
	}
	if b.SettleDelay.Duration < 0 {
		fail("bridge.settle_delay must not be negative")
	}
	if b.ShutdownTimeout.Duration <= 0 {
		fail("bridge.shutdown_timeout must be positive")
	}

	return errors.Join(errs...)
}

// Duration is a time.Duration that decodes from YAML duration strings or
// whole seconds.
type Duration struct {
	time.Duration
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: duration must be a scalar", value.Line)
	}
	if secs, err := strconv.ParseFloat(value.Value, 64); err == nil {
		d.Duration = time.Duration(secs * float64(time.Second))
		return nil
	}
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	d.Duration = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return d.String(), nil
}
