// Package reconcile turns source playback transitions into receiver commands.
//
// The Reconciler remembers only the last playback state it observed. Each
// notification is compared against that memory:
//
//   - a notification without a transport state is discarded untouched
//   - a repeat of the remembered state does nothing
//   - anything other than PLAYING becoming PLAYING powers the receiver on (if
//     needed), selects the target input (always) and sets the target volume
//     (only if it differs), waiting a settle delay after a power-on
//   - PLAYING becoming PAUSED powers the receiver off, but only while it is
//     still on the target input
//   - every other transition is a no-op
//
// Receiver failures are logged and recorded but never propagated: the memory
// still advances to the reported source state, and drift on the receiver side
// is corrected implicitly on the next transition.
//
// Handle must not be called concurrently.
package reconcile
