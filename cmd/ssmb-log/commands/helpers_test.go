package commands

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/ssmb/ssmb-go/pkg/journal"
)

var baseTime = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

// writeJournal writes a small but complete bridge session to a temp file.
func writeJournal(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ssmb.journal")
	j, err := journal.NewFileJournal(path)
	if err != nil {
		t.Fatalf("NewFileJournal: %v", err)
	}
	defer j.Close()

	at := func(s int) time.Time { return baseTime.Add(time.Duration(s) * time.Second) }
	session := "5f0c6a7e-1111-2222-3333-444455556666"

	events := []journal.Event{
		{Timestamp: at(0), Category: journal.CategorySubscription, Subscription: &journal.SubscriptionEvent{
			OldState: "UNSUBSCRIBED", NewState: "UNSUBSCRIBED", Reason: "subscribe failed: connection refused",
		}},
		{Timestamp: at(10), Category: journal.CategorySubscription, Subscription: &journal.SubscriptionEvent{
			SID: "uuid:RINCON_1", OldState: "UNSUBSCRIBED", NewState: "ACTIVE",
		}},
		{Timestamp: at(20), Category: journal.CategoryNotification, Notification: &journal.NotificationEvent{
			SID: "uuid:RINCON_1", Seq: 1, Variables: map[string]string{"transport_state": "PLAYING"},
		}},
		{Timestamp: at(20), Category: journal.CategoryCommand, Command: &journal.CommandEvent{
			Op: "power-on", Duration: 40 * time.Millisecond,
		}},
		{Timestamp: at(21), Category: journal.CategoryCommand, Command: &journal.CommandEvent{
			Op: "set-input", Arg: "CD", Err: "receiver timeout", Duration: 5 * time.Second,
		}},
		{Timestamp: at(21), Category: journal.CategoryTransition, Transition: &journal.TransitionEvent{
			From: "UNKNOWN", To: "PLAYING", Action: "start",
		}},
		{Timestamp: at(30), Category: journal.CategoryNotification, Notification: &journal.NotificationEvent{
			SID: "uuid:RINCON_0", Seq: 9, Stale: true,
		}},
		{Timestamp: at(40), Category: journal.CategoryError, Error: &journal.ErrorEvent{
			Component: "subscription", Message: "stop listener: closed",
		}},
	}
	for _, e := range events {
		e.SessionID = session
		e.Source = "RINCON_000E58A0123401400"
		j.Log(e)
	}

	other := journal.Event{
		Timestamp: at(50), SessionID: "aaaaaaaa-0000", Category: journal.CategoryTransition,
		Transition: &journal.TransitionEvent{From: "PLAYING", To: "PAUSED_PLAYBACK", Action: "stop"},
	}
	j.Log(other)
	return path
}
