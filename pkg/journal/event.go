package journal

import (
	"strings"
	"time"
)

// Event is one journal entry. Exactly one of the payload fields is set.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID identifies one run of the bridge (UUID).
	SessionID string `cbor:"2,keyasint"`

	// Source identifies the media source (UID or event URL).
	Source string `cbor:"3,keyasint,omitempty"`

	// Category classifies the event.
	Category Category `cbor:"4,keyasint"`

	Subscription *SubscriptionEvent `cbor:"10,keyasint,omitempty"`
	Notification *NotificationEvent `cbor:"11,keyasint,omitempty"`
	Transition   *TransitionEvent   `cbor:"12,keyasint,omitempty"`
	Command      *CommandEvent      `cbor:"13,keyasint,omitempty"`
	Error        *ErrorEvent        `cbor:"14,keyasint,omitempty"`
}

// Category classifies the event type.
type Category uint8

const (
	// CategorySubscription is a subscription lifecycle state change.
	CategorySubscription Category = 0
	// CategoryNotification is a notification delivered by the source.
	CategoryNotification Category = 1
	// CategoryTransition is a playback state transition seen by the reconciler.
	CategoryTransition Category = 2
	// CategoryCommand is a command issued to the receiver.
	CategoryCommand Category = 3
	// CategoryError is a failure in any component.
	CategoryError Category = 4
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategorySubscription:
		return "SUBSCRIPTION"
	case CategoryNotification:
		return "NOTIFICATION"
	case CategoryTransition:
		return "TRANSITION"
	case CategoryCommand:
		return "COMMAND"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseCategory parses a category name (case-insensitive).
func ParseCategory(s string) (Category, bool) {
	for _, c := range []Category{CategorySubscription, CategoryNotification, CategoryTransition, CategoryCommand, CategoryError} {
		if strings.EqualFold(s, c.String()) {
			return c, true
		}
	}
	return 0, false
}

// SubscriptionEvent captures a lifecycle manager state change.
type SubscriptionEvent struct {
	// SID is the subscription identifier, if one is installed.
	SID string `cbor:"1,keyasint,omitempty"`

	OldState string `cbor:"2,keyasint,omitempty"`
	NewState string `cbor:"3,keyasint"`

	// Reason for the change (e.g. "expiring", "not alive", "subscribe failed").
	Reason string `cbor:"4,keyasint,omitempty"`

	// TimeRemaining on the old subscription when the change happened.
	TimeRemaining time.Duration `cbor:"5,keyasint,omitempty"`
}

// NotificationEvent captures a delivered notification.
type NotificationEvent struct {
	SID       string            `cbor:"1,keyasint"`
	Seq       uint32            `cbor:"2,keyasint"`
	Variables map[string]string `cbor:"3,keyasint,omitempty"`

	// Stale marks a notification dropped because its subscription was superseded.
	Stale bool `cbor:"4,keyasint,omitempty"`
}

// TransitionEvent captures a playback state transition.
type TransitionEvent struct {
	From string `cbor:"1,keyasint"`
	To   string `cbor:"2,keyasint"`

	// Action names the reaction taken ("start", "stop", "none").
	Action string `cbor:"3,keyasint"`
}

// CommandEvent captures one receiver call.
type CommandEvent struct {
	Op  string `cbor:"1,keyasint"`
	Arg string `cbor:"2,keyasint,omitempty"`

	// Result is the queried value for read commands.
	Result string `cbor:"3,keyasint,omitempty"`

	// Err is the error text when the call failed.
	Err string `cbor:"4,keyasint,omitempty"`

	// Duration is how long the call took.
	Duration time.Duration `cbor:"5,keyasint"`
}

// ErrorEvent captures a failure outside a receiver call.
type ErrorEvent struct {
	Component string `cbor:"1,keyasint"`
	Message   string `cbor:"2,keyasint"`
}
