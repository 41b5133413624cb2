// Package cli implements the dbccheck command-line interface.
//
// The commands run the DBC layout precheck and its supporting tools:
//   - check: run the precheck and print the report JSON
//   - zones: list the derived copper zones, optionally as DXF
//   - topology: render the connection graph as DOT or SVG
//   - inspect: browse violations interactively
//   - serve: run the HTTP API
//   - history: list recorded runs
//   - cache: manage the report cache
//
// Report JSON and other machine output go to stdout; logs and styled status
// lines go to stderr. All commands support --verbose (-v) for debug logging.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// The duration is rounded to the nearest millisecond.
// Example output: "Built 3 zones (12ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
