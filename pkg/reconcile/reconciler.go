package reconcile

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/ssmb/ssmb-go/pkg/journal"
	"github.com/ssmb/ssmb-go/pkg/notify"
	"github.com/ssmb/ssmb-go/pkg/playback"
	"github.com/ssmb/ssmb-go/pkg/receiver"
)

// Default timings.
const (
	DefaultSettleDelay    = 2 * time.Second
	DefaultCommandTimeout = 5 * time.Second
)

// Target is the desired receiver configuration while the source plays.
type Target struct {
	// Input is the receiver input the source is connected to.
	Input string

	// Volume is the volume to set on start. Nil leaves the volume alone.
	Volume *float64

	// SoundProgram is accepted for configuration compatibility but never applied.
	SoundProgram string
}

// Config configures a Reconciler.
type Config struct {
	Target Target

	// SettleDelay is waited after a power-on before the volume is set,
	// because receivers coming out of standby drop early commands.
	SettleDelay time.Duration

	// CommandTimeout bounds every receiver call.
	CommandTimeout time.Duration

	// Logger is the optional operational logger. If nil, logging is disabled.
	Logger *slog.Logger

	// Journal receives transitions and receiver commands. If nil, nothing is recorded.
	Journal journal.Journal
}

// Action is the reaction to one notification.
type Action uint8

const (
	// ActionNone means the transition required nothing.
	ActionNone Action = iota

	// ActionDiscarded means the notification carried no transport state.
	ActionDiscarded

	// ActionRepeat means the state equalled the remembered state.
	ActionRepeat

	// ActionStart means the start sequence ran.
	ActionStart

	// ActionStop means the stop sequence ran.
	ActionStop
)

// String returns the action name.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionDiscarded:
		return "discarded"
	case ActionRepeat:
		return "repeat"
	case ActionStart:
		return "start"
	case ActionStop:
		return "stop"
	default:
		return "unknown"
	}
}

// Result describes what Handle did.
type Result struct {
	From   playback.State
	To     playback.State
	Action Action

	// Err is the receiver failure that cut the sequence short, if any.
	Err error
}

// Reconciler drives a receiver from source playback transitions.
type Reconciler struct {
	receiver receiver.Receiver
	config   Config
	logger   *slog.Logger
	journal  journal.Journal

	// last is the remembered source state; touched only by Handle.
	last playback.State
}

// New creates a Reconciler with memory initialised to playback.Unknown.
func New(r receiver.Receiver, cfg Config) *Reconciler {
	if cfg.SettleDelay < 0 {
		cfg.SettleDelay = 0
	}
	if cfg.CommandTimeout <= 0 {
		cfg.CommandTimeout = DefaultCommandTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	rc := &Reconciler{
		receiver: r,
		config:   cfg,
		logger:   logger,
		journal:  journal.OrNoop(cfg.Journal),
		last:     playback.Unknown,
	}

	if cfg.Target.SoundProgram != "" {
		logger.Info("sound program configured but not applied", "sound_program", cfg.Target.SoundProgram)
	}
	return rc
}

// Last returns the remembered source state.
func (r *Reconciler) Last() playback.State {
	return r.last
}

// Handle processes one notification.
func (r *Reconciler) Handle(ctx context.Context, n notify.Notification) Result {
	state, raw, ok := playback.FromVariables(n.Variables)
	if !ok {
		r.logger.Warn("invalid source status", "sid", n.SubscriptionID, "variables", n.Variables)
		return Result{From: r.last, To: r.last, Action: ActionDiscarded}
	}

	from := r.last
	res := Result{From: from, To: state}
	if state == from {
		res.Action = ActionRepeat
		return res
	}

	r.logger.Info("source play status", "status", raw, "previous", from)

	switch {
	case state == playback.Playing:
		res.Action = ActionStart
		res.Err = r.start(ctx)
	case from == playback.Playing && state == playback.Paused:
		res.Action = ActionStop
		res.Err = r.stop(ctx)
	default:
		res.Action = ActionNone
	}

	if res.Err != nil {
		r.logger.Error("receiver command failed", "action", res.Action, "error", res.Err)
	}

	r.journal.Log(journal.Event{
		Category: journal.CategoryTransition,
		Transition: &journal.TransitionEvent{
			From:   from.String(),
			To:     state.String(),
			Action: res.Action.String(),
		},
	})

	// Memory follows the source even when the receiver failed.
	r.last = state
	return res
}

// start powers on, selects the input and sets the volume.
func (r *Reconciler) start(ctx context.Context) error {
	target := r.config.Target

	power, err := r.getPower(ctx)
	if err != nil {
		return err
	}

	poweredOn := false
	if power != receiver.PowerOn {
		if err := r.setPower(ctx, receiver.PowerOn); err != nil {
			return err
		}
		poweredOn = true
	}

	// Asserted on every start: the receiver may sit on another input even
	// though it is already on.
	if err := r.setInput(ctx, target.Input); err != nil {
		return err
	}

	if target.Volume == nil {
		return nil
	}
	want := *target.Volume

	current, err := r.getVolume(ctx)
	if err != nil {
		return err
	}
	if current == want {
		return nil
	}

	if poweredOn && r.config.SettleDelay > 0 {
		r.logger.Debug("waiting for receiver to settle", "delay", r.config.SettleDelay)
		if err := sleep(ctx, r.config.SettleDelay); err != nil {
			return err
		}
	}
	return r.setVolume(ctx, want)
}

// stop powers off, but only while the receiver is on the target input.
func (r *Reconciler) stop(ctx context.Context) error {
	input, err := r.getInput(ctx)
	if err != nil {
		return err
	}
	if !strings.EqualFold(input, r.config.Target.Input) {
		r.logger.Info("receiver on another input, leaving it on", "input", input, "target", r.config.Target.Input)
		return nil
	}

	power, err := r.getPower(ctx)
	if err != nil {
		return err
	}
	if power != receiver.PowerOn {
		return nil
	}
	return r.setPower(ctx, receiver.PowerOff)
}

func (r *Reconciler) getPower(ctx context.Context) (receiver.Power, error) {
	var p receiver.Power
	err := r.call(ctx, receiver.OpGetPower, "", func(ctx context.Context) (string, error) {
		var err error
		p, err = r.receiver.Power(ctx)
		return p.String(), err
	})
	return p, err
}

func (r *Reconciler) setPower(ctx context.Context, p receiver.Power) error {
	op := receiver.OpPowerOn
	if p == receiver.PowerOff {
		op = receiver.OpPowerOff
	}
	return r.call(ctx, op, "", func(ctx context.Context) (string, error) {
		return "", r.receiver.SetPower(ctx, p)
	})
}

func (r *Reconciler) getInput(ctx context.Context) (string, error) {
	var in string
	err := r.call(ctx, receiver.OpGetInput, "", func(ctx context.Context) (string, error) {
		var err error
		in, err = r.receiver.Input(ctx)
		return in, err
	})
	return in, err
}

func (r *Reconciler) setInput(ctx context.Context, name string) error {
	return r.call(ctx, receiver.OpSetInput, name, func(ctx context.Context) (string, error) {
		return "", r.receiver.SetInput(ctx, name)
	})
}

func (r *Reconciler) getVolume(ctx context.Context) (float64, error) {
	var v float64
	err := r.call(ctx, receiver.OpGetVolume, "", func(ctx context.Context) (string, error) {
		var err error
		v, err = r.receiver.Volume(ctx)
		return receiver.FormatVolume(v), err
	})
	return v, err
}

func (r *Reconciler) setVolume(ctx context.Context, v float64) error {
	return r.call(ctx, receiver.OpSetVolume, receiver.FormatVolume(v), func(ctx context.Context) (string, error) {
		return "", r.receiver.SetVolume(ctx, v)
	})
}

// call runs one receiver command under the command timeout and records it.
func (r *Reconciler) call(ctx context.Context, op, arg string, fn func(context.Context) (string, error)) error {
	cctx, cancel := context.WithTimeout(ctx, r.config.CommandTimeout)
	defer cancel()

	start := time.Now()
	result, err := fn(cctx)
	took := time.Since(start)

	ev := &journal.CommandEvent{Op: op, Arg: arg, Duration: took}
	if err != nil {
		ev.Err = err.Error()
		if errors.Is(err, context.DeadlineExceeded) {
			r.logger.Warn("receiver command timed out", "op", op, "timeout", r.config.CommandTimeout)
		}
	} else {
		ev.Result = result
		r.logger.Debug("receiver command", "op", op, "arg", arg, "result", result, "took", took)
	}
	r.journal.Log(journal.Event{Category: journal.CategoryCommand, Command: ev})
	return err
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
