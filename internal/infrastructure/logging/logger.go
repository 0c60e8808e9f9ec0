package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/roxaskeyheart/rgbnet-core/internal/infrastructure/config"
)

// ServiceName is attached to every log entry.
const ServiceName = "rgbcore"

var levels = map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

// Logger wraps slog.Logger with the service's default fields.
//
// It satisfies the small Logger interfaces declared by the device, host,
// sink and provider packages, so it can be passed to them directly. The
// level is shared by a logger and every logger derived from it with With
// or Component, and can be changed while running with SetLevel.
type Logger struct {
	*slog.Logger
	level *slog.LevelVar
}

// New creates a Logger writing to the output named in cfg (stdout or
// stderr).
func New(cfg config.LoggingConfig, version string) *Logger {
	var output io.Writer = os.Stdout
	if strings.EqualFold(cfg.Output, "stderr") {
		output = os.Stderr
	}
	return NewWithWriter(output, cfg, version)
}

// NewWithWriter is like New but writes to w, ignoring cfg.Output.
func NewWithWriter(w io.Writer, cfg config.LoggingConfig, version string) *Logger {
	level := new(slog.LevelVar)
	level.Set(parseLevel(cfg.Level))

	handler := newHandler(w, cfg.Format, &slog.HandlerOptions{Level: level}).
		WithAttrs([]slog.Attr{
			slog.String("service", ServiceName),
			slog.String("version", version),
		})

	return &Logger{Logger: slog.New(handler), level: level}
}

func newHandler(w io.Writer, format string, opts *slog.HandlerOptions) slog.Handler {
	if strings.EqualFold(format, "text") {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}

// parseLevel maps a level name to slog.Level; unknown names mean info.
func parseLevel(level string) slog.Level {
	if l, ok := levels[strings.ToLower(strings.TrimSpace(level))]; ok {
		return l
	}
	return slog.LevelInfo
}

// SetLevel changes the minimum level of this logger and all loggers
// sharing its level. Unlike the config value, an unknown name is an error.
func (l *Logger) SetLevel(name string) error {
	lvl, ok := levels[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return fmt.Errorf("logging: unknown level %q", name)
	}
	l.level.Set(lvl)
	return nil
}

// Level returns the current minimum level name in lower case.
func (l *Logger) Level() string {
	return strings.ToLower(l.level.Level().String())
}

// With returns a child logger with additional attributes.
//
//	hostLogger := logger.With("component", "host")
//	hostLogger.Info("update loop started") // includes component=host
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...), level: l.level}
}

// Component is shorthand for With("component", name).
func (l *Logger) Component(name string) *Logger {
	return l.With("component", name)
}

// Default creates a JSON info logger on stdout for use before the
// configuration is loaded.
func Default() *Logger {
	return New(config.LoggingConfig{Level: "info", Format: "json", Output: "stdout"}, "dev")
}
