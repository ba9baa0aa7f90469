package notify

import (
	"context"
	"errors"
	"time"
)

// Notification errors.
var (
	ErrSubscribeFailed    = errors.New("subscribe failed")
	ErrSubscriptionClosed = errors.New("subscription closed")
)

// DefaultEventBuffer is the capacity of a subscription's delivery channel.
const DefaultEventBuffer = 32

// Notification is one state-change event delivered on a subscription.
type Notification struct {
	// SubscriptionID identifies the subscription that delivered the event.
	SubscriptionID string

	// Seq is the event sequence number assigned by the remote device.
	Seq uint32

	// Variables holds the reported state variables with snake_case keys
	// (e.g. "transport_state").
	Variables map[string]string

	// ReceivedAt is when the listener received the event.
	ReceivedAt time.Time
}

// Subscription is an active registration for push notifications.
type Subscription interface {
	// ID returns the remote subscription identifier (SID).
	ID() string

	// Events returns the delivery channel. It is closed after Unsubscribe.
	Events() <-chan Notification

	// Alive reports whether the transport still considers the subscription
	// valid. A true value does not imply renewals are succeeding.
	Alive() bool

	// TimeRemaining returns the time left before the subscription lapses.
	TimeRemaining() time.Duration

	// Unsubscribe cancels the subscription with the remote device and closes
	// the delivery channel. The channel is closed even if the remote call fails.
	Unsubscribe(ctx context.Context) error
}

// Notifier creates subscriptions with a remote device.
type Notifier interface {
	// Subscribe registers a subscription with the requested time-to-live.
	Subscribe(ctx context.Context, ttl time.Duration) (Subscription, error)

	// StopListener shuts down the notification listener. It is safe to call
	// when the listener is not running.
	StopListener(ctx context.Context) error
}
