// Package logging provides the run logger: structured records go to a debug
// log file through log/slog, and user-facing messages are echoed to the
// console with a timestamp and category.
//
// A Logger owns its file handle. Open it once per run, pass it (or its
// Slog view) to the components that log, and Close it on shutdown.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Options configures a Logger
type Options struct {
	Path     string    // Debug log file; empty disables the file sink
	Append   bool      // Append to an existing file instead of truncating it
	Level    string    // debug, info, warn, error (default: debug)
	Format   string    // text or json (default: text)
	Category string    // Label shown on console lines
	Console  io.Writer // Console sink (default: os.Stdout)
}

// Logger writes structured records to the debug log and short lines to the
// console
type Logger struct {
	file     *os.File
	owner    bool
	logger   *slog.Logger
	console  io.Writer
	category string
	now      func() time.Time
}

// Open creates the debug log file (and its directory) and returns a Logger
// that owns the handle.
func Open(opts Options) (*Logger, error) {
	var sink io.Writer = io.Discard
	var file *os.File

	if opts.Path != "" {
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}

		flags := os.O_CREATE | os.O_WRONLY
		if opts.Append {
			flags |= os.O_APPEND
		} else {
			flags |= os.O_TRUNC
		}

		f, err := os.OpenFile(opts.Path, flags, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		file = f
		sink = f
	}

	l := New(sink, opts)
	l.file = file
	l.owner = file != nil
	return l, nil
}

// New creates a Logger writing structured records to w. The returned Logger
// does not own w.
func New(w io.Writer, opts Options) *Logger {
	console := opts.Console
	if console == nil {
		console = os.Stdout
	}

	handlerOpts := &slog.HandlerOptions{Level: parseLevel(opts.Level)}
	var handler slog.Handler
	if strings.ToLower(opts.Format) == "json" {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}

	logger := slog.New(handler)
	if opts.Category != "" {
		logger = logger.With("category", opts.Category)
	}

	return &Logger{
		logger:   logger,
		console:  console,
		category: opts.Category,
		now:      time.Now,
	}
}

// Discard returns a Logger that drops everything
func Discard() *Logger {
	return New(io.Discard, Options{Console: io.Discard})
}

// With returns a Logger for another category sharing the same sinks. Only
// the original Logger closes the file.
func (l *Logger) With(category string) *Logger {
	return &Logger{
		file:     l.file,
		logger:   l.logger.With("category", category),
		console:  l.console,
		category: category,
		now:      l.now,
	}
}

// Slog returns the structured logger for injection into other components
func (l *Logger) Slog() *slog.Logger {
	return l.logger
}

// Info records msg in the debug log and echoes it to the console
func (l *Logger) Info(msg string, args ...any) {
	fmt.Fprintf(l.console, " %s\t| %s | \t%s\n", l.now().Format("15:04:05"), l.category, msg)
	l.logger.Info(msg, args...)
}

// Debug records msg in the debug log only
func (l *Logger) Debug(msg string, args ...any) {
	l.logger.Debug(msg, args...)
}

// Warn records msg in the debug log and echoes it to the console
func (l *Logger) Warn(msg string, args ...any) {
	fmt.Fprintf(l.console, " %s\t| %s | \twarning: %s\n", l.now().Format("15:04:05"), l.category, msg)
	l.logger.Warn(msg, args...)
}

// Path returns the debug log path, or "" when no file is attached
func (l *Logger) Path() string {
	if l.file == nil {
		return ""
	}
	return l.file.Name()
}

// Close releases the debug log file. It is safe to call more than once.
func (l *Logger) Close() error {
	if !l.owner || l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelDebug
	}
}
