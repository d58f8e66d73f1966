// Package cli implements the kgview command-line interface.
//
// The CLI loads knowledge graphs from the explorer backend or a JSON file,
// lays them out with the force simulation and either shows them in an
// interactive terminal view or exports them. It is built on cobra, with
// charmbracelet/log for logging and lipgloss and bubbletea for output.
//
// # Commands
//
//   - view: interactive terminal view with drag, zoom and loop highlighting
//   - layout: headless force layout exported as SVG, PNG, PDF or JSON
//   - image: static Graphviz node-link diagram
//   - loops: list directed cycles found by the backend
//   - stats: node, edge and relation counts
//   - cache: manage the backend response cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context so helpers can log without a CLI handle.
// The view command writes logs to --log-file, since it owns the terminal.
//
// # Configuration
//
// Settings are read from $XDG_CONFIG_HOME/kgview/config.toml (see package
// config). Flags override the file.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns a logger writing to w at level, timestamped as
// "15:04:05.00".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times one step of a command. Not safe for concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg at info level with the key/value pairs and the elapsed
// time rounded to the millisecond.
func (p *progress) done(msg string, keyvals ...any) {
	elapsed := time.Since(p.start).Round(time.Millisecond)
	p.logger.Info(msg, append(keyvals, "elapsed", elapsed)...)
}

type loggerKey struct{}

// withLogger attaches l to ctx for helpers that have no CLI handle.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the logger attached to ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
