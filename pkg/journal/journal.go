package journal

import "time"

// Journal receives bridge events. Implementations must be safe for
// concurrent use and must not block for long.
type Journal interface {
	Log(event Event)
}

// Noop discards all events. It is usable as a zero value.
type Noop struct{}

// Log discards the event.
func (Noop) Log(Event) {}

// OrNoop returns j, or Noop when j is nil.
func OrNoop(j Journal) Journal {
	if j == nil {
		return Noop{}
	}
	return j
}

// Tee returns a Journal forwarding every event to each of journals in
// order. Nil journals are skipped; with none left it returns Noop, and with
// one it returns that journal.
func Tee(journals ...Journal) Journal {
	var t tee
	for _, j := range journals {
		if j != nil {
			t = append(t, j)
		}
	}
	switch len(t) {
	case 0:
		return Noop{}
	case 1:
		return t[0]
	}
	return t
}

type tee []Journal

func (t tee) Log(event Event) {
	for _, j := range t {
		j.Log(event)
	}
}

// session stamps events before passing them on.
type session struct {
	next   Journal
	id     string
	source string
	now    func() time.Time
}

// WithSession returns a Journal that fills in Timestamp (when zero),
// SessionID and Source on every event before forwarding it to next.
func WithSession(next Journal, sessionID, source string) Journal {
	return &session{next: OrNoop(next), id: sessionID, source: source, now: time.Now}
}

func (s *session) Log(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	event.SessionID = s.id
	if event.Source == "" {
		event.Source = s.source
	}
	s.next.Log(event)
}

// Compile-time interface satisfaction checks.
var (
	_ Journal = Noop{}
	_ Journal = tee(nil)
	_ Journal = (*session)(nil)
)
