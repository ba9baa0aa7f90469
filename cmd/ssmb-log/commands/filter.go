package commands

import (
	"fmt"
	"time"

	"github.com/ssmb/ssmb-go/pkg/journal"
)

// FilterOptions holds the raw filter flags shared by all commands.
type FilterOptions struct {
	Session   string
	Category  string
	TimeStart string
	TimeEnd   string
}

// BuildFilter converts flag values into a journal filter.
func BuildFilter(opts FilterOptions) (journal.Filter, error) {
	var f journal.Filter
	f.SessionID = opts.Session

	if opts.Category != "" {
		c, err := ParseCategoryFlag(opts.Category)
		if err != nil {
			return f, err
		}
		f.Category = &c
	}
	if opts.TimeStart != "" {
		t, err := time.Parse(time.RFC3339, opts.TimeStart)
		if err != nil {
			return f, fmt.Errorf("invalid time-start: %w", err)
		}
		f.TimeStart = &t
	}
	if opts.TimeEnd != "" {
		t, err := time.Parse(time.RFC3339, opts.TimeEnd)
		if err != nil {
			return f, fmt.Errorf("invalid time-end: %w", err)
		}
		f.TimeEnd = &t
	}
	if f.TimeStart != nil && f.TimeEnd != nil && !f.TimeEnd.After(*f.TimeStart) {
		return f, fmt.Errorf("time-end must be after time-start")
	}
	return f, nil
}

// ParseCategoryFlag parses a category string from command-line flag (case-insensitive).
func ParseCategoryFlag(s string) (journal.Category, error) {
	c, ok := journal.ParseCategory(s)
	if !ok {
		return 0, fmt.Errorf("invalid category: %s (must be one of %s)", s, CategoryNames())
	}
	return c, nil
}

// RunFilter copies the events matching filter into a new journal file.
func RunFilter(path string, filter journal.Filter, output string) (int, error) {
	reader, err := journal.NewFilteredReader(path, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to open journal: %w", err)
	}
	defer reader.Close()

	out, err := journal.OpenFile(journal.FileConfig{Path: output, MaxSize: -1, NoSync: true})
	if err != nil {
		return 0, fmt.Errorf("failed to create output: %w", err)
	}

	n := 0
	err = eachEvent(reader, func(e journal.Event) {
		out.Log(e)
		n++
	})
	failed := out.Stats().Failed
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err == nil && failed > 0 {
		err = fmt.Errorf("failed to write %d of %d events to %s", failed, n, output)
	}
	return n, err
}
