package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/wire"

	"franchise_dao/internal/config"
)

var LoggingSet = wire.NewSet(
	NewLogger,
	NewEventLogger,
)

// NewLogger creates a new logger based on runtime configuration.
// DAO_LOG_LEVEL wins over --debug.
func NewLogger(cfg *config.RuntimeConfig) *slog.Logger {
	level := slog.LevelWarn
	if cfg.Debug {
		level = slog.LevelDebug
	}
	if lvl, ok := parseLevel(os.Getenv("DAO_LOG_LEVEL")); ok {
		level = lvl
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			if a.Key == slog.SourceKey {
				if source, ok := a.Value.Any().(*slog.Source); ok {
					source.File = filepath.Base(source.File)
				}
			}
			return a
		},
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func parseLevel(val string) (slog.Level, bool) {
	switch strings.ToLower(val) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}

// EventLogger forwards committed contract events to slog. It keeps the
// lines so a command can echo what it caused.
type EventLogger struct {
	log    *slog.Logger
	events []string
}

func NewEventLogger(log *slog.Logger) *EventLogger {
	return &EventLogger{log: log}
}

func (e *EventLogger) Log(event string) {
	e.events = append(e.events, event)
	kind, _, _ := strings.Cut(event, "|")
	e.log.Info("contract event", "kind", kind, "event", event)
}

// Drain returns and forgets the events seen so far.
func (e *EventLogger) Drain() []string {
	out := e.events
	e.events = nil
	return out
}
