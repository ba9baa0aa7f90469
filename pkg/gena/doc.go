// Package gena implements notify.Notifier over UPnP GENA, the eventing
// protocol UPnP media renderers use to push state changes.
//
// # Subscribing
//
// Subscribe sends a SUBSCRIBE request to the service's event URL with a
// CALLBACK header pointing at a local HTTP listener. The device answers
// with a subscription ID (SID) and the granted TIMEOUT. The listener is
// started on demand and shared by all subscriptions; StopListener shuts it
// down.
//
// # Events
//
// The device delivers events as NOTIFY requests carrying a propertyset.
// AVTransport wraps its state in a LastChange property holding an escaped
// Event document; both forms are flattened into one map of variables with
// snake_case names, so TransportState arrives as "transport_state".
// NOTIFY requests for unknown SIDs are answered 412 Precondition Failed.
//
// # Renewal
//
// With AutoRenew set, each subscription renews itself at half the granted
// timeout. A failed renewal is only logged: the subscription keeps
// reporting itself alive and its time remaining runs down. Callers must
// watch TimeRemaining to notice.
package gena
