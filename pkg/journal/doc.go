// Package journal records a machine-readable trace of bridge activity.
//
// The journal is separate from operational logging (slog). Operational logs
// are for humans; the journal captures every subscription state change,
// delivered notification, observed transition and receiver command as a
// structured Event so a run can be replayed and analysed afterwards.
//
// # Basic Usage
//
//	// During development: mirror events to the console
//	j := journal.NewSlogAdapter(slog.Default())
//
//	// In production: append to a binary file
//	j, _ := journal.NewFileJournal("/var/log/ssmb/bridge.sjl")
//
//	// Stamp every event with a session ID and the source identity
//	j = journal.WithSession(j, uuid.NewString(), "RINCON_B8E937953D7201400")
//
// # File Format
//
// Journal files are a stream of CBOR-encoded events with integer keys. The
// ssmb-log tool views and summarises them.
package journal
