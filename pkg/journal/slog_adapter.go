package journal

import (
	"context"
	"log/slog"
)

// SlogAdapter writes journal events to an slog.Logger at Debug level.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a SlogAdapter writing to logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event as a single "journal" record.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("session", shortID(event.SessionID)),
		slog.String("category", event.Category.String()),
	}

	switch {
	case event.Subscription != nil:
		attrs = append(attrs,
			slog.String("sid", event.Subscription.SID),
			slog.String("old_state", event.Subscription.OldState),
			slog.String("new_state", event.Subscription.NewState),
		)
		if event.Subscription.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.Subscription.Reason))
		}
	case event.Notification != nil:
		attrs = append(attrs,
			slog.String("sid", event.Notification.SID),
			slog.Uint64("seq", uint64(event.Notification.Seq)),
			slog.Any("variables", event.Notification.Variables),
		)
		if event.Notification.Stale {
			attrs = append(attrs, slog.Bool("stale", true))
		}
	case event.Transition != nil:
		attrs = append(attrs,
			slog.String("from", event.Transition.From),
			slog.String("to", event.Transition.To),
			slog.String("action", event.Transition.Action),
		)
	case event.Command != nil:
		attrs = append(attrs,
			slog.String("op", event.Command.Op),
			slog.Duration("took", event.Command.Duration),
		)
		if event.Command.Arg != "" {
			attrs = append(attrs, slog.String("arg", event.Command.Arg))
		}
		if event.Command.Result != "" {
			attrs = append(attrs, slog.String("result", event.Command.Result))
		}
		if event.Command.Err != "" {
			attrs = append(attrs, slog.String("err", event.Command.Err))
		}
	case event.Error != nil:
		attrs = append(attrs,
			slog.String("component", event.Error.Component),
			slog.String("error", event.Error.Message),
		)
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "journal", attrs...)
}

// shortID returns the first 8 characters of a session ID.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Compile-time interface satisfaction check.
var _ Journal = (*SlogAdapter)(nil)
