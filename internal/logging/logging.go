package logging

import (
	"os"

	"github.com/charmbracelet/log"
)

// New creates the process logger, writing to stderr with timestamps.
// Debug mode surfaces per-stage timing and unsupported-language notices.
func New(debug bool) *log.Logger {
	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Level:           level,
	})
}
