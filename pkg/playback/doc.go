// Package playback models the playback state reported by a media source.
//
// A source reports its transport state as a free-form string inside the
// variables of a state-change notification. The values follow the UPnP
// AVTransport vocabulary (PLAYING, PAUSED_PLAYBACK, STOPPED, TRANSITIONING,
// NO_MEDIA_PRESENT). A reported state is authoritative only for the instant
// it was received; no ordering guarantee is given beyond arrival order on a
// single subscription.
package playback
