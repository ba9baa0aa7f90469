package marantz

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ssmb/ssmb-go/pkg/receiver"
)

// Command groups.
const (
	groupPower  = "PW"
	groupInput  = "SI"
	groupVolume = "MV"

	powerOn      = "ON"
	powerStandby = "STANDBY"

	query = "?"

	// MaxVolume is the highest volume the protocol accepts.
	MaxVolume = 98.0
)

// Codec errors.
var (
	// ErrMalformedCommand indicates a command that cannot be encoded.
	ErrMalformedCommand = errors.New("malformed command")

	// ErrVolumeRange indicates a volume outside 0 to MaxVolume.
	ErrVolumeRange = errors.New("volume out of range")
)

// EncodePower returns the command setting power p.
func EncodePower(p receiver.Power) (string, error) {
	switch p {
	case receiver.PowerOn:
		return groupPower + powerOn, nil
	case receiver.PowerOff:
		return groupPower + powerStandby, nil
	default:
		return "", fmt.Errorf("%w: power %s", ErrMalformedCommand, p)
	}
}

// DecodePower parses a PW reply.
func DecodePower(line string) (receiver.Power, bool) {
	switch strings.TrimPrefix(line, groupPower) {
	case powerOn:
		return receiver.PowerOn, true
	case powerStandby, "OFF":
		return receiver.PowerOff, true
	default:
		return receiver.PowerUnknown, false
	}
}

// EncodeInput returns the command selecting input name.
func EncodeInput(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || name == query || strings.ContainsAny(name, "\r\n") {
		return "", fmt.Errorf("%w: input %q", ErrMalformedCommand, name)
	}
	return groupInput + strings.ToUpper(name), nil
}

// DecodeInput parses an SI reply.
func DecodeInput(line string) (string, bool) {
	if !strings.HasPrefix(line, groupInput) || len(line) == len(groupInput) {
		return "", false
	}
	return line[len(groupInput):], true
}

// EncodeVolume returns the command setting volume v, rounded to the nearest
// half step.
func EncodeVolume(v float64) (string, error) {
	if math.IsNaN(v) || v < 0 || v > MaxVolume {
		return "", fmt.Errorf("%w: %v", ErrVolumeRange, v)
	}
	halves := int(math.Round(v * 2))
	whole, half := halves/2, halves%2
	if half == 1 {
		return fmt.Sprintf("%s%02d5", groupVolume, whole), nil
	}
	return fmt.Sprintf("%s%02d", groupVolume, whole), nil
}

// DecodeVolume parses an MV reply. MVMAX lines are not volume replies.
func DecodeVolume(line string) (float64, bool) {
	digits, ok := strings.CutPrefix(line, groupVolume)
	if !ok || strings.HasPrefix(digits, "MAX") {
		return 0, false
	}
	digits = strings.TrimSpace(digits)
	if len(digits) < 2 || len(digits) > 3 {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 0 {
		return 0, false
	}
	if len(digits) == 3 {
		return float64(n) / 10, true
	}
	return float64(n), true
}
