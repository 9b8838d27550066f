package main

import (
	"fmt"
	"io"
	"os"

	"github.com/nishad/biosubmit/internal/config"
	"github.com/nishad/biosubmit/internal/history"
	"github.com/nishad/biosubmit/internal/logging"
	"github.com/nishad/biosubmit/internal/search"
)

// Color codes for terminal output
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

// Check if output is to terminal
func isTerminal() bool {
	fileInfo, _ := os.Stdout.Stat()
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

// Apply color if terminal output and color enabled
func colorize(color, text string) string {
	if !noColor && isTerminal() && os.Getenv("NO_COLOR") == "" {
		return color + text + colorReset
	}
	return text
}

// Print error message in user-friendly format
func printError(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(os.Stderr, "%s %s\n", colorize(colorRed, "✗"), msg)
}

// Print success message
func printSuccess(format string, args ...interface{}) {
	if !quiet {
		msg := fmt.Sprintf(format, args...)
		fmt.Printf("%s %s\n", colorize(colorGreen, "✓"), msg)
	}
}

// Print info message
func printInfo(format string, args ...interface{}) {
	if !quiet {
		msg := fmt.Sprintf(format, args...)
		fmt.Printf("%s\n", colorize(colorCyan, msg))
	}
}

// Print warning message
func printWarning(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(os.Stderr, "%s %s\n", colorize(colorYellow, "⚠"), msg)
}

// Print debug message
func printDebug(format string, args ...interface{}) {
	if debug {
		msg := fmt.Sprintf(format, args...)
		fmt.Fprintf(os.Stderr, "%s %s\n", colorize(colorGray, "[DEBUG]"), msg)
	}
}

// openLogger opens the debug log described by cfg for one command
func openLogger(cfg *config.Config, category string) (*logging.Logger, error) {
	level := cfg.Logging.Level
	if debug {
		level = "debug"
	}

	var console io.Writer = os.Stdout
	if quiet {
		console = io.Discard
	}

	return logging.Open(logging.Options{
		Path:     cfg.Logging.File,
		Append:   cfg.Logging.Append,
		Level:    level,
		Format:   cfg.Logging.Format,
		Category: category,
		Console:  console,
	})
}

// openHistory opens the ledger when history is enabled. A ledger that cannot
// be opened is reported and skipped.
func openHistory(cfg *config.Config) *history.Store {
	if !cfg.History.Enabled {
		return nil
	}
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		printWarning("History disabled: %v", err)
		return nil
	}
	printDebug("History: %s", cfg.History.Path)
	return store
}

// openIndex opens the sample search index when search is enabled. The index
// is only fed from recorded runs, so it is skipped without a history store.
func openIndex(cfg *config.Config, store *history.Store) *search.Index {
	if !cfg.Search.Enabled || store == nil {
		return nil
	}
	idx, err := search.Open(cfg.Search.Path)
	if err != nil {
		printWarning("Sample search disabled: %v", err)
		return nil
	}
	printDebug("Search index: %s", cfg.Search.Path)
	return idx
}
