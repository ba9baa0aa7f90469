// Package bridge runs the daemon loop that couples a source's playback
// notifications to a receiver.
//
// Run owns a single worker loop. Every iteration it asks the subscription
// lifecycle for a healthy subscription, then waits a bounded poll interval
// for one notification. Notifications are handed to the reconciler; a
// notification whose subscription ID does not match the current
// subscription is a leftover from a replaced subscription and is dropped.
//
// Cancellation of the context passed to Run is the shutdown signal. The
// loop notices it within one poll interval, releases the subscription using
// a fresh bounded context, and returns nil.
//
// The loop never dies on a bad iteration: a panic is recovered, logged and
// journaled, and the loop carries on after one poll interval.
package bridge
