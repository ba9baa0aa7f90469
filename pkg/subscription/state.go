package subscription

// State is the lifecycle state of the managed subscription.
type State uint8

const (
	// StateUnsubscribed means no subscription is installed.
	StateUnsubscribed State = iota

	// StateActive means a subscription is installed and healthy.
	StateActive

	// StateExpiring means the installed subscription is about to lapse or has died.
	StateExpiring

	// StateRenewing means the old subscription was released and a new one is being requested.
	StateRenewing
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUnsubscribed:
		return "UNSUBSCRIBED"
	case StateActive:
		return "ACTIVE"
	case StateExpiring:
		return "EXPIRING"
	case StateRenewing:
		return "RENEWING"
	default:
		return "UNKNOWN"
	}
}
