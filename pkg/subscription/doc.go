// Package subscription keeps a renewable push subscription alive.
//
// The Manager owns exactly one notify.Subscription at a time and replaces it
// before it lapses. It never trusts the transport to report renewal
// failures: on every Ensure call it polls the subscription's liveness flag
// and time remaining explicitly.
//
// # States
//
//	UNSUBSCRIBED --subscribe ok--> ACTIVE
//	ACTIVE --remaining <= margin, or not alive--> EXPIRING
//	EXPIRING --unsubscribe, stop listener--> RENEWING
//	RENEWING --subscribe ok--> ACTIVE
//	RENEWING --subscribe failed--> UNSUBSCRIBED --backoff--> RENEWING
//	any --Release--> UNSUBSCRIBED
//
// Teardown failures are logged and swallowed. Subscribe failures are retried
// at a fixed backoff (10 seconds by default) without an upper bound, because
// the remote device may be gone for an extended period. Every wait observes
// context cancellation.
//
// # Gaps
//
// The old subscription is always released before the new one is installed,
// so notifications are not delivered between the two. Consumers must not
// assume continuity across a renewal.
package subscription
