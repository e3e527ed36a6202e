// Command treewatch-log is a tool for viewing and analyzing treewatch
// observation log files.
//
// Log files are created when running treewatch with the -observation-log flag
// or the logging.observation_log config key.
//
// Usage:
//
//	treewatch-log <command> [flags] <file.cbor>
//
// Commands:
//
//	view     View log file in human-readable format
//	export   Export log file to JSON or CSV format
//	filter   Filter log file and write to new file
//	stats    Show statistics about the log file
//
// Examples:
//
//	# View all events
//	treewatch-log view treewatch.cbor
//
//	# View only aborted changes
//	treewatch-log view -decision aborted treewatch.cbor
//
//	# Keep only changes below /content/site
//	treewatch-log filter -path /content/site -o site.cbor treewatch.cbor
//
//	# Show statistics
//	treewatch-log stats treewatch.cbor
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/treewatch/treewatch-go/cmd/treewatch-log/commands"
)

const usage = `treewatch-log - treewatch Observation Log Analyzer

Usage:
  treewatch-log <command> [flags] <file.cbor>

Commands:
  view     View log file in human-readable format
  export   Export log file to JSON or CSV format
  filter   Filter log file and write to new file
  stats    Show statistics about the log file

Use "treewatch-log <command> -help" for more information about a command.
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

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// requirePath returns the single positional argument or exits.
func requirePath(fs *flag.FlagSet) string {
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}
	return fs.Arg(0)
}

func runView(args []string) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `treewatch-log view - View log file in human-readable format

Usage:
  treewatch-log view [flags] <file.cbor>

Flags:
`)
		fs.PrintDefaults()
	}

	layer := fs.String("layer", "", "Filter by layer (lifecycle, dispatch, feed)")
	category := fs.String("category", "", "Filter by category (state, change, error)")
	decision := fs.String("decision", "", "Filter by decision (dispatched, ignored, aborted, skipped, published)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := requirePath(fs)

	var filter commands.ViewFilter

	if *layer != "" {
		l, err := commands.ParseLayerFlag(*layer)
		if err != nil {
			fail(err)
		}
		filter.Layer = &l
	}

	if *category != "" {
		c, err := commands.ParseCategoryFlag(*category)
		if err != nil {
			fail(err)
		}
		filter.Category = &c
	}

	if *decision != "" {
		d, err := commands.ParseDecisionFlag(*decision)
		if err != nil {
			fail(err)
		}
		filter.Decision = &d
	}

	if err := commands.RunView(path, filter, os.Stdout); err != nil {
		fail(err)
	}
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `treewatch-log export - Export log file to JSON or CSV format

Usage:
  treewatch-log export [flags] <file.cbor>

Flags:
`)
		fs.PrintDefaults()
	}

	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.String("o", "", "Output file (default: stdout)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := requirePath(fs)

	if err := commands.RunExport(path, *format, *output); err != nil {
		fail(err)
	}
}

func runFilter(args []string) {
	fs := flag.NewFlagSet("filter", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `treewatch-log filter - Filter log file and write to new file

Usage:
  treewatch-log filter [flags] <file.cbor>

Flags:
`)
		fs.PrintDefaults()
	}

	output := fs.String("o", "", "Output file (required)")
	listenerID := fs.String("listener-id", "", "Filter by listener ID prefix")
	member := fs.String("member", "", "Filter by cluster member")
	pathPrefix := fs.String("path", "", "Filter changes by path prefix")
	timeStart := fs.String("time-start", "", "Filter by start time (RFC3339)")
	timeEnd := fs.String("time-end", "", "Filter by end time (RFC3339)")
	layer := fs.String("layer", "", "Filter by layer (lifecycle, dispatch, feed)")
	category := fs.String("category", "", "Filter by category (state, change, error)")
	kind := fs.String("kind", "", "Filter changes by kind (e.g. entity_added)")
	decision := fs.String("decision", "", "Filter changes by decision")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := requirePath(fs)

	if *output == "" {
		fmt.Fprintln(os.Stderr, "Error: output file (-o) required")
		fs.Usage()
		os.Exit(1)
	}

	opts := commands.FilterOptions{
		Output:     *output,
		ListenerID: *listenerID,
		Member:     *member,
		PathPrefix: *pathPrefix,
		TimeStart:  *timeStart,
		TimeEnd:    *timeEnd,
		Layer:      *layer,
		Category:   *category,
		Kind:       *kind,
		Decision:   *decision,
	}

	count, err := commands.RunFilter(path, opts)
	if err != nil {
		fail(err)
	}
	fmt.Printf("Filtered %d events to %s\n", count, opts.Output)
}

func runStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `treewatch-log stats - Show statistics about the log file

Usage:
  treewatch-log stats <file.cbor>

`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := requirePath(fs)

	if err := commands.RunStats(path, os.Stdout); err != nil {
		fail(err)
	}
}
