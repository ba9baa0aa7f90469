package receiver

import (
	"context"
	"fmt"
	"strconv"
)

// Power is the power state of a receiver.
type Power uint8

const (
	// PowerUnknown is reported when the receiver answered with an unexpected value.
	PowerUnknown Power = iota

	// PowerOn indicates the receiver is on.
	PowerOn

	// PowerOff indicates the receiver is in standby.
	PowerOff
)

// String returns the power state name.
func (p Power) String() string {
	switch p {
	case PowerOn:
		return "ON"
	case PowerOff:
		return "OFF"
	default:
		return "UNKNOWN"
	}
}

// Receiver is the control port of a remote receiver.
type Receiver interface {
	// Power returns the current power state.
	Power(ctx context.Context) (Power, error)

	// SetPower switches the receiver on or into standby.
	SetPower(ctx context.Context, p Power) error

	// Input returns the name of the selected input source.
	Input(ctx context.Context) (string, error)

	// SetInput selects an input source by name.
	SetInput(ctx context.Context, name string) error

	// Volume returns the master volume.
	Volume(ctx context.Context) (float64, error)

	// SetVolume sets the master volume.
	SetVolume(ctx context.Context, v float64) error
}

// Snapshot is the receiver state observed at one instant.
type Snapshot struct {
	Power  Power
	Input  string
	Volume float64
}

// String returns a compact representation for log output.
func (s Snapshot) String() string {
	return fmt.Sprintf("power=%s input=%s volume=%s", s.Power, s.Input, FormatVolume(s.Volume))
}

// Query reads power, input and volume in that order. It stops at the first
// error and returns the fields read so far.
func Query(ctx context.Context, r Receiver) (Snapshot, error) {
	var snap Snapshot
	var err error

	if snap.Power, err = r.Power(ctx); err != nil {
		return snap, fmt.Errorf("query power: %w", err)
	}
	if snap.Input, err = r.Input(ctx); err != nil {
		return snap, fmt.Errorf("query input: %w", err)
	}
	if snap.Volume, err = r.Volume(ctx); err != nil {
		return snap, fmt.Errorf("query volume: %w", err)
	}
	return snap, nil
}

// FormatVolume formats a volume without a trailing ".0" for whole values.
func FormatVolume(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
