package receiver

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrUnsupportedInput is returned by Simulated for inputs outside its input list.
var ErrUnsupportedInput = errors.New("unsupported input")

// Command operations recorded by Simulated.
const (
	OpPowerOn   = "power-on"
	OpPowerOff  = "power-off"
	OpSetInput  = "set-input"
	OpSetVolume = "set-volume"

	OpGetPower  = "get-power"
	OpGetInput  = "get-input"
	OpGetVolume = "get-volume"
)

// Command is one recorded receiver call.
type Command struct {
	Op  string
	Arg string
}

// String returns the command as "op" or "op(arg)".
func (c Command) String() string {
	if c.Arg == "" {
		return c.Op
	}
	return fmt.Sprintf("%s(%s)", c.Op, c.Arg)
}

// Simulated is an in-memory Receiver. It is safe for concurrent use.
type Simulated struct {
	mu sync.Mutex

	state  Snapshot
	inputs map[string]bool

	commands []Command
	queries  []Command

	// failures maps an operation to the error its next call returns.
	failures map[string]error
}

// NewSimulated creates a simulated receiver in the given initial state.
// If inputs is non-empty, SetInput rejects names outside the list.
func NewSimulated(initial Snapshot, inputs ...string) *Simulated {
	s := &Simulated{
		state:    initial,
		failures: make(map[string]error),
	}
	if len(inputs) > 0 {
		s.inputs = make(map[string]bool, len(inputs))
		for _, in := range inputs {
			s.inputs[in] = true
		}
	}
	return s
}

// Power implements Receiver.
func (s *Simulated) Power(ctx context.Context) (Power, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.begin(ctx, Command{Op: OpGetPower}, false); err != nil {
		return PowerUnknown, err
	}
	return s.state.Power, nil
}

// SetPower implements Receiver.
func (s *Simulated) SetPower(ctx context.Context, p Power) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	op := OpPowerOn
	if p == PowerOff {
		op = OpPowerOff
	}
	if err := s.begin(ctx, Command{Op: op}, true); err != nil {
		return err
	}
	s.state.Power = p
	return nil
}

// Input implements Receiver.
func (s *Simulated) Input(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.begin(ctx, Command{Op: OpGetInput}, false); err != nil {
		return "", err
	}
	return s.state.Input, nil
}

// SetInput implements Receiver.
func (s *Simulated) SetInput(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.begin(ctx, Command{Op: OpSetInput, Arg: name}, true); err != nil {
		return err
	}
	if s.inputs != nil && !s.inputs[name] {
		return fmt.Errorf("%w: %s", ErrUnsupportedInput, name)
	}
	s.state.Input = name
	return nil
}

// Volume implements Receiver.
func (s *Simulated) Volume(ctx context.Context) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.begin(ctx, Command{Op: OpGetVolume}, false); err != nil {
		return 0, err
	}
	return s.state.Volume, nil
}

// SetVolume implements Receiver.
func (s *Simulated) SetVolume(ctx context.Context, v float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.begin(ctx, Command{Op: OpSetVolume, Arg: FormatVolume(v)}, true); err != nil {
		return err
	}
	s.state.Volume = v
	return nil
}

// begin records a call and returns any injected failure. Caller holds s.mu.
func (s *Simulated) begin(ctx context.Context, cmd Command, mutating bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if mutating {
		s.commands = append(s.commands, cmd)
	} else {
		s.queries = append(s.queries, cmd)
	}
	if err, ok := s.failures[cmd.Op]; ok {
		delete(s.failures, cmd.Op)
		return err
	}
	return nil
}

// FailNext makes the next call of op return err. The failed call is still recorded.
func (s *Simulated) FailNext(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = err
}

// State returns the current simulated state.
func (s *Simulated) State() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SetState changes the state out-of-band, as a physical remote would.
// Nothing is recorded.
func (s *Simulated) SetState(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = snap
}

// Commands returns the mutating commands issued since the last Reset.
func (s *Simulated) Commands() []Command {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Command(nil), s.commands...)
}

// Queries returns the read commands issued since the last Reset.
func (s *Simulated) Queries() []Command {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Command(nil), s.queries...)
}

// Reset clears the recorded commands and queries.
func (s *Simulated) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commands = nil
	s.queries = nil
}

// Compile-time interface satisfaction check.
var _ Receiver = (*Simulated)(nil)
