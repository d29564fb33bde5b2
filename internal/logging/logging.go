// Package logging provides the shared debug logger.
//
// The TUI owns the terminal, so logs must not reach stdout. Set
// DIRMAP_LOG to a file path to enable logging; DIRMAP_LOG_LEVEL
// selects the level (debug, info, warn, error; default info).
package logging

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Logger is the process-wide logger. It discards everything unless
// DIRMAP_LOG is set.
var Logger = log.New(io.Discard)

// Enabled reports whether DIRMAP_LOG was set.
var Enabled bool

func init() {
	path := os.Getenv("DIRMAP_LOG")
	if path == "" {
		return
	}
	Enabled = true

	level := log.InfoLevel
	if raw := os.Getenv("DIRMAP_LOG_LEVEL"); raw != "" {
		if parsed, err := log.ParseLevel(raw); err == nil {
			level = parsed
		}
	}

	// Fall back to stderr if the file cannot be opened.
	w := io.Writer(os.Stderr)
	if f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644); err == nil {
		w = f
	}

	Logger = log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.000",
		Level:           level,
	})
}

// For returns a logger tagged with a component prefix.
func For(component string) *log.Logger {
	return Logger.WithPrefix(component)
}
