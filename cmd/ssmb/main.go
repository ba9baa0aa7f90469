// Command ssmb bridges a media source's playback events to a network
// receiver.
//
// When the source starts playing, the receiver is powered on, switched to
// the target input and set to the target volume. When the source pauses and
// the receiver is still on the target input, the receiver is put into
// standby.
//
// Usage:
//
//	ssmb [flags]
//
// Flags:
//
//	-config string      Configuration file path
//	-event-url string   AVTransport event subscription URL
//	-callback string    Notification listener bind address (default ":1401")
//	-receiver string    Receiver control address (host[:port])
//	-input string       Target receiver input
//	-volume string      Target receiver volume (0-98)
//	-source-uid string  Source identity recorded in the journal
//	-journal string     Event journal file path
//	-log-level string   Log level: debug, info, warn, error (default "info")
//	-dump               Print notifications instead of controlling the receiver
//
// Examples:
//
//	# Run from a configuration file
//	ssmb -config /etc/ssmb/ssmb.yaml
//
//	# Run without a file
//	ssmb -event-url http://192.168.11.32:1400/MediaRenderer/AVTransport/Event \
//	    -receiver 192.168.11.4 -input CD -volume 60
//
//	# Watch the source's events
//	ssmb -config ssmb.yaml -dump -log-level debug
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/google/uuid"

	"github.com/ssmb/ssmb-go/pkg/bridge"
	"github.com/ssmb/ssmb-go/pkg/config"
	"github.com/ssmb/ssmb-go/pkg/gena"
	"github.com/ssmb/ssmb-go/pkg/journal"
	"github.com/ssmb/ssmb-go/pkg/marantz"
	"github.com/ssmb/ssmb-go/pkg/reconcile"
	"github.com/ssmb/ssmb-go/pkg/subscription"
)

// Flags holds the command line.
type Flags struct {
	ConfigFile string
	EventURL   string
	Callback   string
	Receiver   string
	Input      string
	Volume     string
	SourceUID  string
	Journal    string
	LogLevel   string
	Dump       bool
}

var flags Flags

func init() {
	flag.StringVar(&flags.ConfigFile, "config", "", "Configuration file path")
	flag.StringVar(&flags.EventURL, "event-url", "", "AVTransport event subscription URL")
	flag.StringVar(&flags.Callback, "callback", "", "Notification listener bind address (default \":1401\")")
	flag.StringVar(&flags.Receiver, "receiver", "", "Receiver control address (host[:port])")
	flag.StringVar(&flags.Input, "input", "", "Target receiver input")
	flag.StringVar(&flags.Volume, "volume", "", "Target receiver volume (0-98)")
	flag.StringVar(&flags.SourceUID, "source-uid", "", "Source identity recorded in the journal")
	flag.StringVar(&flags.Journal, "journal", "", "Event journal file path")
	flag.StringVar(&flags.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flag.BoolVar(&flags.Dump, "dump", false, "Print notifications instead of controlling the receiver")
}

func main() {
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := realMain(ctx, flags, os.Stderr)
	stop()
	os.Exit(code)
}

// realMain runs the daemon until ctx is cancelled and returns the process
// exit code. Every deferred cleanup has run by the time it returns.
func realMain(ctx context.Context, f Flags, stderr io.Writer) int {
	logger, err := newLogger(f.LogLevel, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	cfg, err := loadConfig(f)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		return 1
	}

	jrnl, closeJournal, err := openJournal(cfg, logger)
	if err != nil {
		logger.Error("open journal", "error", err)
		return 1
	}
	defer closeJournal()

	if err := run(ctx, cfg, f.Dump, logger, jrnl); err != nil {
		logger.Error("bridge failed", "error", err)
		return 1
	}
	logger.Info("shutdown complete")
	return 0
}

// run wires the components and blocks until ctx is cancelled.
func run(ctx context.Context, cfg config.Config, dump bool, logger *slog.Logger, jrnl journal.Journal) error {
	notifier, err := gena.New(gena.Config{
		EventURL:        cfg.Source.EventURL,
		CallbackAddress: cfg.Source.CallbackAddress,
		AdvertiseHost:   cfg.Source.AdvertiseHost,
		AutoRenew:       true,
		Logger:          logger.With("component", "gena"),
	})
	if err != nil {
		return err
	}

	client := marantz.NewClient(marantz.Config{
		Address:        cfg.Receiver.Address,
		CommandTimeout: cfg.Receiver.CommandTimeout.Duration,
		Logger:         logger.With("component", "marantz"),
	})
	defer client.Close()

	manager := subscription.NewManager(notifier, subscription.Config{
		TTL:           cfg.Subscription.TTL.Duration,
		RenewalMargin: cfg.Subscription.RenewalMargin.Duration,
		Backoff:       cfg.Subscription.Backoff.Duration,
		Logger:        logger.With("component", "subscription"),
		Journal:       jrnl,
	})
	manager.OnStateChange(func(oldState, newState subscription.State) {
		logger.Debug("subscription state", "from", oldState, "to", newState)
	})

	reconciler := reconcile.New(client, reconcile.Config{
		Target: reconcile.Target{
			Input:        cfg.Target.Input,
			Volume:       cfg.Target.Volume,
			SoundProgram: cfg.Target.SoundProgram,
		},
		SettleDelay:    cfg.Bridge.SettleDelay.Duration,
		CommandTimeout: cfg.Receiver.CommandTimeout.Duration,
		Logger:         logger.With("component", "reconcile"),
		Journal:        jrnl,
	})

	bcfg := bridge.Config{
		PollInterval:    cfg.Bridge.PollInterval.Duration,
		ShutdownTimeout: cfg.Bridge.ShutdownTimeout.Duration,
		Logger:          logger.With("component", "bridge"),
		Journal:         jrnl,
	}
	if dump {
		bcfg.Dump = os.Stdout
	}

	logger.Info("starting",
		"event_url", cfg.Source.EventURL,
		"callback", cfg.Source.CallbackAddress,
		"receiver", client.Address(),
		"input", cfg.Target.Input,
		"dump", dump)

	return bridge.New(manager, reconciler, client, bcfg).Run(ctx)
}

// loadConfig reads the configuration file, if any, and applies the command
// line on top of it.
func loadConfig(f Flags) (config.Config, error) {
	cfg, err := config.Read(f.ConfigFile)
	if err != nil {
		return config.Config{}, err
	}

	if f.EventURL != "" {
		cfg.Source.EventURL = f.EventURL
	}
	if f.Callback != "" {
		cfg.Source.CallbackAddress = f.Callback
	}
	if f.SourceUID != "" {
		cfg.Source.UID = f.SourceUID
	}
	if f.Receiver != "" {
		cfg.Receiver.Address = withDefaultPort(f.Receiver, marantz.DefaultPort)
	}
	if f.Input != "" {
		cfg.Target.Input = f.Input
	}
	if f.Volume != "" {
		v, err := strconv.ParseFloat(f.Volume, 64)
		if err != nil {
			return config.Config{}, fmt.Errorf("%w: -volume %q: %v", config.ErrInvalidConfig, f.Volume, err)
		}
		cfg.Target.Volume = &v
	}
	if f.Journal != "" {
		cfg.Journal.Path = f.Journal
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// openJournal builds the run's journal: operational log lines always, plus
// the journal file when a path is configured. Every event carries this
// run's session ID.
func openJournal(cfg config.Config, logger *slog.Logger) (journal.Journal, func(), error) {
	journals := []journal.Journal{journal.NewSlogAdapter(logger)}
	closeFn := func() {}

	if cfg.Journal.Path != "" {
		maxSize := int64(cfg.Journal.MaxSizeMB) << 20
		if cfg.Journal.MaxSizeMB < 0 {
			maxSize = -1
		}
		fj, err := journal.OpenFile(journal.FileConfig{Path: cfg.Journal.Path, MaxSize: maxSize})
		if err != nil {
			return nil, nil, err
		}
		journals = append(journals, fj)
		closeFn = func() {
			if err := fj.Close(); err != nil {
				logger.Warn("close journal", "error", err)
			}
		}
		logger.Info("journal enabled", "path", cfg.Journal.Path)
	}

	source := cfg.Source.UID
	if source == "" {
		source = cfg.Source.EventURL
	}
	return journal.WithSession(journal.Tee(journals...), uuid.NewString(), source), closeFn, nil
}

func newLogger(level string, w io.Writer) (*slog.Logger, error) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "info", "":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		return nil, fmt.Errorf("unknown log level %q", level)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

func withDefaultPort(addr, port string) string {
	if _, _, err := net.SplitHostPort(addr); err == nil {
		return addr
	}
	return net.JoinHostPort(addr, port)
}
