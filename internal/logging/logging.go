// Package logging builds the charmbracelet/log logger used across taskdeck.
package logging

import (
	"io"

	"github.com/charmbracelet/log"
)

// Prefix is printed before every log line.
const Prefix = "taskdeck"

// New returns a logger writing to w. Debug output is only enabled with debug.
func New(w io.Writer, debug bool) *log.Logger {
	level := log.WarnLevel
	if debug {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Formatter:       log.TextFormatter,
		ReportTimestamp: debug,
		Prefix:          Prefix,
	})
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}
