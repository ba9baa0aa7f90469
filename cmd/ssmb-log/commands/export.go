package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/ssmb/ssmb-go/pkg/journal"
	"github.com/ssmb/ssmb-go/pkg/playback"
)

// jsonEvent is the JSONL export shape of a journal event.
type jsonEvent struct {
	Timestamp    string                     `json:"timestamp"`
	SessionID    string                     `json:"session_id"`
	Source       string                     `json:"source,omitempty"`
	Category     string                     `json:"category"`
	Subscription *journal.SubscriptionEvent `json:"subscription,omitempty"`
	Notification *journal.NotificationEvent `json:"notification,omitempty"`
	Transition   *journal.TransitionEvent   `json:"transition,omitempty"`
	Command      *journal.CommandEvent      `json:"command,omitempty"`
	Error        *journal.ErrorEvent        `json:"error,omitempty"`
}

// csvHeader is the column list of the CSV export.
var csvHeader = []string{"timestamp", "session_id", "category", "summary", "detail"}

// RunExport writes the events matching filter to output (stdout if empty)
// as JSON lines or CSV.
func RunExport(path string, filter journal.Filter, format, output string) error {
	if format != "jsonl" && format != "csv" {
		return fmt.Errorf("unsupported format: %s (must be jsonl or csv)", format)
	}

	reader, err := journal.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer reader.Close()

	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
		defer f.Close()
		w = f
	}

	if format == "csv" {
		return exportCSV(reader, w)
	}
	return exportJSONL(reader, w)
}

func exportJSONL(reader *journal.Reader, w io.Writer) error {
	enc := json.NewEncoder(w)
	var encErr error
	err := eachEvent(reader, func(e journal.Event) {
		if encErr != nil {
			return
		}
		encErr = enc.Encode(jsonEvent{
			Timestamp:    e.Timestamp.UTC().Format(time.RFC3339Nano),
			SessionID:    e.SessionID,
			Source:       e.Source,
			Category:     e.Category.String(),
			Subscription: e.Subscription,
			Notification: e.Notification,
			Transition:   e.Transition,
			Command:      e.Command,
			Error:        e.Error,
		})
	})
	if err != nil {
		return err
	}
	return encErr
}

func exportCSV(reader *journal.Reader, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	var writeErr error
	err := eachEvent(reader, func(e journal.Event) {
		if writeErr != nil {
			return
		}
		summary, detail := summarize(e)
		writeErr = cw.Write([]string{
			e.Timestamp.UTC().Format(time.RFC3339Nano),
			e.SessionID,
			e.Category.String(),
			summary,
			detail,
		})
	})
	if err != nil {
		return err
	}
	if writeErr != nil {
		return writeErr
	}
	cw.Flush()
	return cw.Error()
}

// summarize returns a short one-line description and a detail column.
func summarize(e journal.Event) (string, string) {
	switch {
	case e.Subscription != nil:
		return e.Subscription.OldState + "->" + e.Subscription.NewState, e.Subscription.Reason
	case e.Notification != nil:
		return e.Notification.SID + "#" + strconv.FormatUint(uint64(e.Notification.Seq), 10),
			e.Notification.Variables[playback.TransportStateKey]
	case e.Transition != nil:
		return e.Transition.From + "->" + e.Transition.To, e.Transition.Action
	case e.Command != nil:
		s := e.Command.Op
		if e.Command.Arg != "" {
			s += "(" + e.Command.Arg + ")"
		}
		if e.Command.Err != "" {
			return s, "error: " + e.Command.Err
		}
		return s, e.Command.Result
	case e.Error != nil:
		return e.Error.Component, e.Error.Message
	default:
		return "", ""
	}
}
