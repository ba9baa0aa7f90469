package playback

import "strings"

// TransportStateKey is the notification variable carrying the transport state.
const TransportStateKey = "transport_state"

// State is a playback state as reported by the source.
type State uint8

const (
	// Unknown is the initial state and the state of unrecognised values.
	Unknown State = iota

	// Playing indicates the source is rendering media.
	Playing

	// Paused indicates playback was paused by the user.
	Paused

	// Stopped indicates playback was stopped.
	Stopped

	// Transitioning indicates the source is buffering or changing tracks.
	Transitioning

	// NoMediaPresent indicates nothing is queued.
	NoMediaPresent
)

// String returns the AVTransport name of the state.
func (s State) String() string {
	switch s {
	case Playing:
		return "PLAYING"
	case Paused:
		return "PAUSED_PLAYBACK"
	case Stopped:
		return "STOPPED"
	case Transitioning:
		return "TRANSITIONING"
	case NoMediaPresent:
		return "NO_MEDIA_PRESENT"
	default:
		return "UNKNOWN"
	}
}

// ParseState converts a reported transport state into a State.
// Matching is case-insensitive. PAUSED is accepted as an alias for
// PAUSED_PLAYBACK. Unrecognised values map to Unknown.
func ParseState(s string) State {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PLAYING":
		return Playing
	case "PAUSED_PLAYBACK", "PAUSED":
		return Paused
	case "STOPPED":
		return Stopped
	case "TRANSITIONING":
		return Transitioning
	case "NO_MEDIA_PRESENT":
		return NoMediaPresent
	default:
		return Unknown
	}
}

// FromVariables extracts the transport state from notification variables.
// The second return value is false when the variable is absent or empty, in
// which case the notification carries no usable state.
func FromVariables(vars map[string]string) (State, string, bool) {
	raw, ok := vars[TransportStateKey]
	if !ok || strings.TrimSpace(raw) == "" {
		return Unknown, "", false
	}
	return ParseState(raw), raw, true
}
