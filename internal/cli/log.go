// Package cli implements the graphpos command-line interface.
//
// This package wires the layered layout engine and the force simulation
// engine to the terminal: one-shot layout and simulation runs that write
// positioned graphs, a live simulation view, the HTTP service, and
// management of the result cache. The CLI is built using cobra and supports
// verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - layout: Compute a layered layout for one or more graph files
//   - simulate: Relax a graph with the force simulation
//   - watch: Run a force simulation interactively in the terminal
//   - serve: Start the HTTP API
//   - cache: Manage the result cache
//   - config: Inspect the effective configuration
//
// # Logging
//
// Logs go to stderr. The [log] config section picks the level and the
// format (text, json or logfmt); --verbose (-v) forces debug level and
// also reports pipeline, cache and HTTP events through observability hooks.
//
// # Example
//
//	import "github.com/matzehuels/graphpos/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphpos/pkg/errors"
)

// Log formats accepted in the [log] config section.
const (
	logFormatText   = "text"
	logFormatJSON   = "json"
	logFormatLogfmt = "logfmt"
)

// newLogger returns a text logger on w with centisecond timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// LogConfig is the [log] config section.
type LogConfig struct {
	// Level is debug, info, warn or error. Empty keeps the command-line level.
	Level string `toml:"level,omitempty"`
	// Format is text (default), json or logfmt.
	Format string `toml:"format,omitempty"`
}

// Validate checks the level and format names.
func (lc LogConfig) Validate() error {
	if lc.Level != "" {
		if _, err := log.ParseLevel(lc.Level); err != nil {
			return errors.New(errors.ErrCodeInvalidOptions, "log.level %q: %v", lc.Level, err)
		}
	}
	if lc.Format == "" {
		return nil
	}
	return errors.ValidateOneOf(errors.ErrCodeInvalidOptions, "log.format", strings.ToLower(lc.Format),
		logFormatText, logFormatJSON, logFormatLogfmt)
}

// applyTo configures l. A logger already at debug level (--verbose) keeps it.
func (lc LogConfig) applyTo(l *log.Logger) {
	if lvl, err := log.ParseLevel(lc.Level); lc.Level != "" && err == nil && l.GetLevel() != log.DebugLevel {
		l.SetLevel(lvl)
	}
	switch strings.ToLower(lc.Format) {
	case logFormatJSON:
		l.SetFormatter(log.JSONFormatter)
	case logFormatLogfmt:
		l.SetFormatter(log.LogfmtFormatter)
	default:
		l.SetFormatter(log.TextFormatter)
	}
}

// progress logs how long an operation took.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg at info level with an elapsed field appended to keyvals.
func (p *progress) done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "elapsed", time.Since(p.start).Round(time.Millisecond))
	p.logger.Info(msg, keyvals...)
}
