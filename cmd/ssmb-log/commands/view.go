// Package commands implements the ssmb-log CLI commands.
package commands

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/ssmb/ssmb-go/pkg/journal"
)

// RunView prints the events matching filter in human-readable form.
func RunView(path string, filter journal.Filter, w io.Writer) error {
	reader, err := journal.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer reader.Close()

	return eachEvent(reader, func(e journal.Event) { formatEvent(w, e) })
}

// eachEvent calls fn for every event until EOF.
func eachEvent(reader *journal.Reader, fn func(journal.Event)) error {
	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		fn(event)
	}
}

// formatEvent writes one event: a header line and indented details.
func formatEvent(w io.Writer, event journal.Event) {
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	fmt.Fprintf(w, "%s [%s] %s\n", ts, shortenID(event.SessionID), event.Category)

	switch {
	case event.Subscription != nil:
		s := event.Subscription
		if s.OldState != "" {
			fmt.Fprintf(w, "  %s -> %s\n", s.OldState, s.NewState)
		} else {
			fmt.Fprintf(w, "  -> %s\n", s.NewState)
		}
		if s.SID != "" {
			fmt.Fprintf(w, "  SID: %s\n", s.SID)
		}
		if s.Reason != "" {
			fmt.Fprintf(w, "  Reason: %s\n", s.Reason)
		}
		if s.TimeRemaining > 0 {
			fmt.Fprintf(w, "  Remaining: %s\n", formatDuration(s.TimeRemaining))
		}
	case event.Notification != nil:
		n := event.Notification
		fmt.Fprintf(w, "  SID: %s  Seq: %d", n.SID, n.Seq)
		if n.Stale {
			fmt.Fprint(w, "  (stale)")
		}
		fmt.Fprintln(w)
		for _, k := range sortedKeys(n.Variables) {
			fmt.Fprintf(w, "  %s = %s\n", k, n.Variables[k])
		}
	case event.Transition != nil:
		t := event.Transition
		fmt.Fprintf(w, "  %s -> %s  action=%s\n", t.From, t.To, t.Action)
	case event.Command != nil:
		c := event.Command
		fmt.Fprintf(w, "  %s", c.Op)
		if c.Arg != "" {
			fmt.Fprintf(w, "(%s)", c.Arg)
		}
		if c.Result != "" {
			fmt.Fprintf(w, " = %s", c.Result)
		}
		fmt.Fprintf(w, "  [%s]\n", formatDuration(c.Duration))
		if c.Err != "" {
			fmt.Fprintf(w, "  Error: %s\n", c.Err)
		}
	case event.Error != nil:
		fmt.Fprintf(w, "  Component: %s\n", event.Error.Component)
		fmt.Fprintf(w, "  Message: %s\n", event.Error.Message)
	}

	if event.Source != "" {
		fmt.Fprintf(w, "  Source: %s\n", event.Source)
	}
	fmt.Fprintln(w)
}

// shortenID returns the first 8 characters of a session ID.
func shortenID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	if id == "" {
		return "-"
	}
	return id
}

// formatDuration formats a duration for display.
func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%.3fus", float64(d.Nanoseconds())/1000)
	}
	if d < time.Second {
		return fmt.Sprintf("%.3fms", float64(d.Microseconds())/1000)
	}
	return fmt.Sprintf("%.3fs", d.Seconds())
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// CategoryNames lists the category names in flag form.
func CategoryNames() string {
	names := make([]string, 0, 5)
	for c := journal.CategorySubscription; c <= journal.CategoryError; c++ {
		names = append(names, strings.ToLower(c.String()))
	}
	return strings.Join(names, ", ")
}
