// Package cli implements the blockgen command-line interface.
//
// The commands share one [CLI] value holding the logger and the loaded
// configuration:
//   - generate: describe a device, get diagram files
//   - export: re-encode an edited diagram JSON file
//   - edit: delete, connect, comment or move nodes of a diagram JSON file
//   - vocab: show the keyword vocabulary or classify a description
//   - interactive: type a description with a live classification preview
//   - serve: run the HTTP API
//   - cache: inspect or clear the artifact cache
//
// All commands accept --verbose (-v) for debug logging on stderr.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger with "HH:MM:SS.ms" timestamps that writes to w
// and filters messages below level.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs the elapsed time of a multi-step operation.
// Not safe for concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg at debug level with an "elapsed" field.
func (p *progress) done(msg string, keyvals ...any) {
	p.logger.Debug(msg, append(keyvals, "elapsed", time.Since(p.start).Round(time.Millisecond))...)
}
