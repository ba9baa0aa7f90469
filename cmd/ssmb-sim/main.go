// Command ssmb-sim runs the bridge against a simulated source and receiver.
//
// The console publishes playback states, kills subscriptions, injects
// subscribe failures and changes the receiver out-of-band, while the real
// subscription manager, reconciler and daemon loop react to it.
//
// Usage:
//
//	ssmb-sim [flags]
//
// Flags:
//
//	-input string      Target receiver input (default "CD")
//	-volume float      Target receiver volume, negative for none (default 60)
//	-settle duration   Delay between power-on and volume change (default 2s)
//	-ttl duration      Subscription time-to-live (default 30s)
//	-backoff duration  Delay between failed subscribe attempts (default 3s)
//	-journal string    Event journal file path
//	-log-level string  Log level: debug, info, warn, error (default "info")
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ssmb/ssmb-go/cmd/ssmb-sim/interactive"
	"github.com/ssmb/ssmb-go/pkg/bridge"
	"github.com/ssmb/ssmb-go/pkg/journal"
	"github.com/ssmb/ssmb-go/pkg/notify"
	"github.com/ssmb/ssmb-go/pkg/receiver"
	"github.com/ssmb/ssmb-go/pkg/reconcile"
	"github.com/ssmb/ssmb-go/pkg/subscription"
)

var (
	input       = flag.String("input", "CD", "Target receiver input")
	volume      = flag.Float64("volume", 60, "Target receiver volume, negative for none")
	settleDelay = flag.Duration("settle", reconcile.DefaultSettleDelay, "Delay between power-on and volume change")
	ttl         = flag.Duration("ttl", 30*time.Second, "Subscription time-to-live")
	backoff     = flag.Duration("backoff", 3*time.Second, "Delay between failed subscribe attempts")
	journalPath = flag.String("journal", "", "Event journal file path")
	logLevel    = flag.String("log-level", "info", "Log level: debug, info, warn, error")
)

func main() {
	flag.Parse()

	console, err := interactive.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(console.Stdout(), &slog.HandlerOptions{Level: parseLevel(*logLevel)}))

	var jrnl journal.Journal = journal.NewSlogAdapter(logger)
	if *journalPath != "" {
		fj, err := journal.NewFileJournal(*journalPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer fj.Close()
		jrnl = journal.Tee(jrnl, fj)
	}
	jrnl = journal.WithSession(jrnl, uuid.NewString(), "simulator")

	source := notify.NewSimulated()
	rcv := receiver.NewSimulated(receiver.Snapshot{
		Power:  receiver.PowerOff,
		Input:  "TUNER",
		Volume: 40,
	})

	manager := subscription.NewManager(source, subscription.Config{
		TTL:           *ttl,
		RenewalMargin: subscription.DefaultRenewalMargin,
		Backoff:       *backoff,
		Logger:        logger.With("component", "subscription"),
		Journal:       jrnl,
	})

	target := reconcile.Target{Input: *input}
	if *volume >= 0 {
		target.Volume = volume
	}
	reconciler := reconcile.New(rcv, reconcile.Config{
		Target:      target,
		SettleDelay: *settleDelay,
		Logger:      logger.With("component", "reconcile"),
		Journal:     jrnl,
	})

	b := bridge.New(manager, reconciler, rcv, bridge.Config{
		Logger:  logger.With("component", "bridge"),
		Journal: jrnl,
	})

	console.SetEnv(interactive.Env{
		Source:   source,
		Receiver: rcv,
		Manager:  manager,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- b.Run(ctx)
	}()

	console.Run(ctx, cancel)

	if err := <-done; err != nil {
		logger.Error("bridge failed", "error", err)
	}
	st := b.Stats()
	fmt.Fprintf(os.Stdout, "Bridge stopped after %d notifications (%d stale, %d closed channels, %d panics)\n",
		st.Notifications, st.Stale, st.Closed, st.Panics)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
