// Package interactive provides the interactive console of the ssmb
// simulator.
package interactive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/ssmb/ssmb-go/pkg/marantz"
	"github.com/ssmb/ssmb-go/pkg/notify"
	"github.com/ssmb/ssmb-go/pkg/playback"
	"github.com/ssmb/ssmb-go/pkg/receiver"
	"github.com/ssmb/ssmb-go/pkg/subscription"
)

// errOutage is the subscribe failure injected by "fail".
var errOutage = errors.New("simulated source outage")

// Env is what the console drives and inspects.
type Env struct {
	Source   *notify.Simulated
	Receiver *receiver.Simulated
	Manager  *subscription.Manager
}

// Console handles interactive mode for ssmb-sim.
type Console struct {
	env Env
	rl  *readline.Instance
	out io.Writer
}

// New creates a console reading from the terminal. SetEnv must be called
// before Run.
func New() (*Console, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "ssmb> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	c := newConsole(Env{}, rl.Stdout())
	c.rl = rl
	return c, nil
}

func newConsole(env Env, out io.Writer) *Console {
	return &Console{env: env, out: out}
}

// SetEnv sets what the console drives.
func (c *Console) SetEnv(env Env) {
	c.env = env
}

// Stdout returns a writer that coordinates with the readline prompt.
// Use this for log output to avoid interfering with the command line.
func (c *Console) Stdout() io.Writer {
	return c.out
}

// Run reads commands until quit, EOF or ctx is done. It calls cancel on
// the way out so the bridge shuts down with the console.
func (c *Console) Run(ctx context.Context, cancel context.CancelFunc) {
	defer c.rl.Close()
	defer cancel()

	c.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := c.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(c.out, "Exiting...")
			return
		}

		if !c.Exec(line) {
			return
		}
	}
}

// Exec runs one command line. It returns false when the console should exit.
func (c *Console) Exec(line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return true
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		c.printHelp()

	case "play":
		c.publish(playback.Playing.String())

	case "pause":
		c.publish(playback.Paused.String())

	case "stop":
		c.publish(playback.Stopped.String())

	case "state":
		c.cmdState(args)

	case "empty":
		c.cmdEmpty()

	case "kill":
		c.env.Source.Kill()
		fmt.Fprintln(c.out, "Subscription killed; the bridge resubscribes on its next poll")

	case "fail":
		c.cmdFail(args)

	case "remote":
		c.cmdRemote(args)

	case "status", "s":
		c.cmdStatus()

	case "log":
		c.cmdLog(args)

	case "quit", "exit", "q":
		fmt.Fprintln(c.out, "Exiting...")
		return false

	default:
		fmt.Fprintf(c.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return true
}

func (c *Console) printHelp() {
	fmt.Fprint(c.out, `
Commands:
  Source:
    play                   Report PLAYING
    pause                  Report PAUSED_PLAYBACK
    stop                   Report STOPPED
    state <value>          Report an arbitrary transport state
    empty                  Send a notification without a transport state
    kill                   Silently kill the current subscription
    fail <n>               Make the next n subscribe attempts fail

  Receiver:
    remote power <on|off>  Change power as the physical remote would
    remote input <name>    Change input as the physical remote would
    remote volume <n>      Change volume as the physical remote would

  Inspect:
    status, s              Show receiver and subscription state
    log [clear]            Show (or clear) the receiver command log

  Other:
    help, ?                Show this help
    quit, exit, q          Exit
`)
}

func (c *Console) publish(state string) {
	if !c.env.Source.Publish(map[string]string{playback.TransportStateKey: state}) {
		fmt.Fprintln(c.out, "Not delivered: no live subscription")
		return
	}
	fmt.Fprintf(c.out, "Published %s\n", state)
}

func (c *Console) cmdState(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(c.out, "Usage: state <value>")
		return
	}
	c.publish(strings.ToUpper(args[0]))
}

func (c *Console) cmdEmpty() {
	if !c.env.Source.Publish(map[string]string{"current_track_uri": "x-sonos-spotify:track"}) {
		fmt.Fprintln(c.out, "Not delivered: no live subscription")
		return
	}
	fmt.Fprintln(c.out, "Published notification without transport state")
}

func (c *Console) cmdFail(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(c.out, "Usage: fail <n>")
		return
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 0 {
		fmt.Fprintf(c.out, "Invalid count: %s\n", args[0])
		return
	}
	c.env.Source.FailSubscribes(n, errOutage)
	fmt.Fprintf(c.out, "Next %d subscribe attempts fail; kill the subscription to trigger them\n", n)
}

func (c *Console) cmdRemote(args []string) {
	if len(args) != 2 {
		fmt.Fprintln(c.out, "Usage: remote <power|input|volume> <value>")
		return
	}

	snap := c.env.Receiver.State()
	switch strings.ToLower(args[0]) {
	case "power":
		switch strings.ToLower(args[1]) {
		case "on":
			snap.Power = receiver.PowerOn
		case "off", "standby":
			snap.Power = receiver.PowerOff
		default:
			fmt.Fprintf(c.out, "Invalid power state: %s (use on or off)\n", args[1])
			return
		}
	case "input":
		snap.Input = strings.ToUpper(args[1])
	case "volume":
		v, err := strconv.ParseFloat(args[1], 64)
		if err != nil || v < 0 || v > marantz.MaxVolume {
			fmt.Fprintf(c.out, "Invalid volume: %s (0-%v)\n", args[1], marantz.MaxVolume)
			return
		}
		snap.Volume = v
	default:
		fmt.Fprintf(c.out, "Unknown remote setting: %s\n", args[0])
		return
	}

	c.env.Receiver.SetState(snap)
	fmt.Fprintf(c.out, "Receiver: %s\n", snap)
}

func (c *Console) cmdStatus() {
	fmt.Fprintf(c.out, "Receiver:     %s\n", c.env.Receiver.State())

	state := c.env.Manager.State()
	if sub := c.env.Manager.Current(); sub != nil {
		fmt.Fprintf(c.out, "Subscription: %s sid=%s remaining=%s\n", state, sub.ID(), sub.TimeRemaining().Round(time.Second))
	} else {
		fmt.Fprintf(c.out, "Subscription: %s\n", state)
	}

	ms := c.env.Manager.Stats()
	ss := c.env.Source.Stats()
	fmt.Fprintf(c.out, "Subscribes:   %d (%d failed, %d renewals, %d unsubscribes)\n",
		ms.Subscribes, ms.Failures, ms.Renewals, ss.Unsubscribes)
}

func (c *Console) cmdLog(args []string) {
	if len(args) == 1 && strings.ToLower(args[0]) == "clear" {
		c.env.Receiver.Reset()
		fmt.Fprintln(c.out, "Command log cleared")
		return
	}

	cmds := c.env.Receiver.Commands()
	if len(cmds) == 0 {
		fmt.Fprintln(c.out, "No receiver commands")
		return
	}
	for i, cmd := range cmds {
		fmt.Fprintf(c.out, "%3d  %s\n", i+1, cmd)
	}
}
