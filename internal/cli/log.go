// Package cli implements the laddergrid command-line interface.
//
// The commands convert ladder programs to editor grids and back, inspect
// and draw programs, and serve the same conversions over HTTP. The CLI is
// built using cobra and logs through charmbracelet/log.
//
// # Commands
//
//   - forward: Place a program's networks on grids
//   - reverse: Rebuild a program from grids
//   - roundtrip: Check that a program survives forward and reverse
//   - stats: Summarize the shape of each network
//   - dot: Export a network tree or grid as Graphviz DOT or SVG
//   - view: Browse a program's grids interactively
//   - serve: Run the HTTP API
//   - cache: Manage the conversion cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging; the default
// level comes from the config file. Loggers are passed through
// context.Context so long-running steps can report progress.
package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger writes leveled records to w with centisecond timestamps.
// Commands attach it to their context with log.WithContext.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times one command step.
type progress struct {
	logger  *log.Logger
	started time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, started: time.Now()}
}

// done logs the formatted message with the time since newProgress, as in
// "Placed 3 networks (12ms)".
func (p *progress) done(format string, args ...any) {
	elapsed := time.Since(p.started).Round(time.Millisecond)
	p.logger.Info(fmt.Sprintf(format, args...), "elapsed", elapsed)
}
