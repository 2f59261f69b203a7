// Command domrun runs scripts against an in-memory document and prints the
// resulting markup.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/chrisuehlinger/minidom/html"
	"github.com/chrisuehlinger/minidom/runner"
)

func main() {
	verbose := flag.Bool("v", false, "Enable debug logging")
	jsonLogs := flag.Bool("json-logs", false, "Write logs as JSON")
	jsonOutput := flag.Bool("json", false, "Output results as JSON instead of markup")
	tree := flag.Bool("tree", false, "Print the document as an outline instead of markup")
	timeout := flag.Duration("timeout", runner.DefaultTimeout, "How long a script's timers may run")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <script.js>...\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s build.js\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -json tests/events.js tests/tree.js\n", os.Args[0])
		os.Exit(1)
	}

	r := runner.NewRunner(runner.WithLogger(newLogger(*verbose, *jsonLogs)))
	r.Timeout = *timeout

	for _, path := range flag.Args() {
		result := r.RunFile(path)
		if !*jsonOutput {
			printResult(result)
		}
	}

	if *jsonOutput {
		jsonData, err := r.ExportJSON()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error exporting JSON: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(jsonData))
	} else {
		if *tree {
			fmt.Print(html.Outline(r.Document().AsNode()))
		} else {
			fmt.Println(r.OuterHTML())
		}
		passed, failed, errored := r.Summary()
		if passed+failed+errored > 0 {
			fmt.Fprintf(os.Stderr, "\nSummary: %d passed, %d failed, %d errored\n", passed, failed, errored)
		}
	}

	if r.Failed() {
		os.Exit(1)
	}
}

func newLogger(verbose, jsonLogs bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if verbose {
		opts.Level = slog.LevelDebug
	}
	if jsonLogs {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func printResult(result runner.ScriptResult) {
	if result.Error == "" && len(result.Tests) == 0 {
		return
	}
	fmt.Fprintf(os.Stderr, "%s (%s, %.2fs)\n", result.Script, result.Status, result.Duration.Seconds())
	if result.Error != "" {
		fmt.Fprintf(os.Stderr, "  ERROR: %s\n", result.Error)
	}
	for _, test := range result.Tests {
		fmt.Fprintf(os.Stderr, "  %s %s\n", statusSymbol(test.Status), test.Name)
		if test.Message != "" && test.Status != runner.StatusPass {
			for _, line := range strings.Split(test.Message, "\n") {
				fmt.Fprintf(os.Stderr, "      %s\n", line)
			}
		}
	}
}

func statusSymbol(status runner.TestStatus) string {
	switch status {
	case runner.StatusPass:
		return "✓"
	case runner.StatusFail:
		return "✗"
	case runner.StatusError:
		return "!"
	default:
		return "?"
	}
}
