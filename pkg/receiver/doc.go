// Package receiver defines the control port of an amplifier or AV receiver.
//
// The bridge depends only on the Receiver interface: query and set power,
// query and set the input source, query and set the master volume. Every call
// may block on network I/O and may fail; callers pass a context carrying a
// deadline.
//
// Receiver state can change out-of-band (a physical remote, the front panel),
// so a Snapshot is never cached beyond a single decision.
//
// Simulated is an in-memory Receiver that records every mutating command. It
// backs the simulator binary and the tests of the packages built on top.
package receiver
