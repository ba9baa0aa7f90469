package commands

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/ssmb/ssmb-go/pkg/journal"
)

// Stats holds aggregate statistics about a journal.
type Stats struct {
	TotalEvents      int
	EventsByCategory map[journal.Category]int
	Sessions         map[string]int
	Commands         map[string]*CommandStats
	Actions          map[string]int
	Subscribes       int
	SubscribeFails   int
	StaleDropped     int
	Errors           int
	TimeRange        struct {
		Start time.Time
		End   time.Time
	}
}

// CommandStats aggregates calls of one receiver operation.
type CommandStats struct {
	Count    int
	Failures int
	Total    time.Duration
	Max      time.Duration
}

// Average returns the mean call duration.
func (c *CommandStats) Average() time.Duration {
	if c.Count == 0 {
		return 0
	}
	return c.Total / time.Duration(c.Count)
}

// CollectStats reads the journal and aggregates the events matching filter.
func CollectStats(path string, filter journal.Filter) (*Stats, error) {
	reader, err := journal.NewFilteredReader(path, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByCategory: make(map[journal.Category]int),
		Sessions:         make(map[string]int),
		Commands:         make(map[string]*CommandStats),
		Actions:          make(map[string]int),
	}

	err = eachEvent(reader, func(event journal.Event) {
		stats.TotalEvents++
		stats.EventsByCategory[event.Category]++
		stats.Sessions[event.SessionID]++

		if stats.TimeRange.Start.IsZero() || event.Timestamp.Before(stats.TimeRange.Start) {
			stats.TimeRange.Start = event.Timestamp
		}
		if event.Timestamp.After(stats.TimeRange.End) {
			stats.TimeRange.End = event.Timestamp
		}

		switch {
		case event.Subscription != nil:
			if event.Subscription.NewState == "ACTIVE" {
				stats.Subscribes++
			}
			if strings.HasPrefix(event.Subscription.Reason, "subscribe failed") {
				stats.SubscribeFails++
			}
		case event.Notification != nil:
			if event.Notification.Stale {
				stats.StaleDropped++
			}
		case event.Transition != nil:
			stats.Actions[event.Transition.Action]++
		case event.Command != nil:
			c := event.Command
			cs, ok := stats.Commands[c.Op]
			if !ok {
				cs = &CommandStats{}
				stats.Commands[c.Op] = cs
			}
			cs.Count++
			cs.Total += c.Duration
			if c.Duration > cs.Max {
				cs.Max = c.Duration
			}
			if c.Err != "" {
				cs.Failures++
			}
		case event.Error != nil:
			stats.Errors++
		}
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// RunStats analyzes the journal and prints statistics.
func RunStats(path string, filter journal.Filter, w io.Writer) error {
	stats, err := CollectStats(path, filter)
	if err != nil {
		return err
	}
	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== ssmb Journal Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration: %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintf(w, "Sessions: %d\n", len(stats.Sessions))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "By Category:")
	for c := journal.CategorySubscription; c <= journal.CategoryError; c++ {
		if n := stats.EventsByCategory[c]; n > 0 {
			fmt.Fprintf(w, "  %-13s %d\n", c.String()+":", n)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Subscription:")
	fmt.Fprintf(w, "  Subscribed:      %d\n", stats.Subscribes)
	fmt.Fprintf(w, "  Failed attempts: %d\n", stats.SubscribeFails)
	fmt.Fprintf(w, "  Stale dropped:   %d\n", stats.StaleDropped)
	fmt.Fprintln(w)

	if len(stats.Actions) > 0 {
		fmt.Fprintln(w, "Transitions:")
		for _, a := range sortedCountKeys(stats.Actions) {
			fmt.Fprintf(w, "  %-6s %d\n", a+":", stats.Actions[a])
		}
		fmt.Fprintln(w)
	}

	if len(stats.Commands) > 0 {
		fmt.Fprintln(w, "Receiver Commands:")
		ops := make([]string, 0, len(stats.Commands))
		for op := range stats.Commands {
			ops = append(ops, op)
		}
		sort.Strings(ops)
		for _, op := range ops {
			cs := stats.Commands[op]
			fmt.Fprintf(w, "  %-11s %3d calls  %d failed  avg %s  max %s\n",
				op, cs.Count, cs.Failures, formatDuration(cs.Average()), formatDuration(cs.Max))
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Errors: %d\n", stats.Errors)
}

func sortedCountKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
