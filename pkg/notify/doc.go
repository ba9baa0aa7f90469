// Package notify defines the push-notification channel of a media source.
//
// A Notifier registers time-bounded subscriptions with a remote device. Each
// Subscription delivers state-change notifications on a channel until it is
// unsubscribed or expires. Subscriptions do not renew themselves in a way the
// caller can rely on: the owner must poll Alive and TimeRemaining and replace
// the subscription before it lapses.
//
// # Listener
//
// Notifications arrive on a listener owned by the Notifier (for GENA, an HTTP
// callback server). Subscribe starts the listener on demand; StopListener
// shuts it down. The owner stops the listener when it tears a subscription
// down so the next Subscribe starts from a clean socket.
//
// Simulated is an in-process Notifier with fault injection for tests and the
// simulator binary.
package notify
