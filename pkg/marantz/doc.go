// Package marantz implements receiver.Receiver over the Marantz/Denon IP
// control protocol.
//
// The protocol is a line protocol on TCP port 23. Every command and every
// reply is ASCII terminated by a carriage return. A command is a two-letter
// group followed by a parameter; a query is the group followed by "?":
//
//	PW?        -> PWON | PWSTANDBY
//	PWON       power on
//	PWSTANDBY  power off
//	SI?        -> SI<input>
//	SICD       select input CD
//	MV?        -> MV<vol> (plus MVMAX <vol>)
//	MV60       set volume 60
//	MV605      set volume 60.5
//
// Volume is two digits with an optional third digit "5" for half steps.
// The receiver also pushes unsolicited status lines whenever its state
// changes; queries skip every line that does not answer them.
//
// The Client connects lazily, serialises commands, keeps a minimum gap
// between them and drops the connection after any I/O error so the next
// command reconnects. Each command is bounded by the context deadline and
// the configured command timeout, whichever is earlier.
package marantz
