// Command ssmb-log is a tool for viewing and analyzing ssmb event journals.
//
// Journals are written by ssmb when started with -journal (or journal.path
// in the configuration file).
//
// Usage:
//
//	ssmb-log <command> [flags] <file.journal>
//
// Commands:
//
//	view     View journal in human-readable format
//	export   Export journal to JSON lines or CSV
//	filter   Filter journal and write to new file
//	stats    Show statistics about the journal
//
// Examples:
//
//	# View all events
//	ssmb-log view ssmb.journal
//
//	# View only receiver commands
//	ssmb-log view -category command ssmb.journal
//
//	# Export one session to JSONL
//	ssmb-log export -session 5f0c6a7e-... -format jsonl ssmb.journal
//
//	# Show statistics for the last hour of a run
//	ssmb-log stats -time-start 2026-03-01T08:00:00Z ssmb.journal
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ssmb/ssmb-go/cmd/ssmb-log/commands"
	"github.com/ssmb/ssmb-go/pkg/journal"
)

const usage = `ssmb-log - ssmb Event Journal Analyzer

Usage:
  ssmb-log <command> [flags] <file.journal>

Commands:
  view     View journal in human-readable format
  export   Export journal to JSON lines or CSV
  filter   Filter journal and write to new file
  stats    Show statistics about the journal

Use "ssmb-log <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "view":
		runView(args)
	case "export":
		runExport(args)
	case "filter":
		runFilter(args)
	case "stats":
		runStats(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

// newFlagSet creates a flag set with the shared filter flags.
func newFlagSet(name, synopsis, usageLine string) (*flag.FlagSet, *commands.FilterOptions) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "ssmb-log %s - %s\n\nUsage:\n  %s\n\nFlags:\n", name, synopsis, usageLine)
		fs.PrintDefaults()
	}

	var opts commands.FilterOptions
	fs.StringVar(&opts.Session, "session", "", "Filter by session ID")
	fs.StringVar(&opts.Category, "category", "", "Filter by category ("+commands.CategoryNames()+")")
	fs.StringVar(&opts.TimeStart, "time-start", "", "Filter by start time (RFC3339)")
	fs.StringVar(&opts.TimeEnd, "time-end", "", "Filter by end time (RFC3339)")
	return fs, &opts
}

// parse parses args and returns the journal path and filter, exiting on error.
func parse(fs *flag.FlagSet, opts *commands.FilterOptions, args []string) (string, journal.Filter) {
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: journal file path required")
		fs.Usage()
		os.Exit(1)
	}

	filter, err := commands.BuildFilter(*opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return fs.Arg(0), filter
}

func runView(args []string) {
	fs, opts := newFlagSet("view", "View journal in human-readable format", "ssmb-log view [flags] <file.journal>")
	path, filter := parse(fs, opts, args)

	if err := commands.RunView(path, filter, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runExport(args []string) {
	fs, opts := newFlagSet("export", "Export journal to JSON lines or CSV", "ssmb-log export [flags] <file.journal>")
	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.String("o", "", "Output file (default: stdout)")
	path, filter := parse(fs, opts, args)

	if err := commands.RunExport(path, filter, *format, *output); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runFilter(args []string) {
	fs, opts := newFlagSet("filter", "Filter journal and write to new file", "ssmb-log filter -o <out.journal> [flags] <file.journal>")
	output := fs.String("o", "", "Output file (required)")
	path, filter := parse(fs, opts, args)

	if *output == "" {
		fmt.Fprintln(os.Stderr, "Error: output file (-o) required")
		fs.Usage()
		os.Exit(1)
	}

	n, err := commands.RunFilter(path, filter, *output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Wrote %d events to %s\n", n, *output)
}

func runStats(args []string) {
	fs, opts := newFlagSet("stats", "Show statistics about the journal", "ssmb-log stats [flags] <file.journal>")
	path, filter := parse(fs, opts, args)

	if err := commands.RunStats(path, filter, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
