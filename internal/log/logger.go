// Package log configures the process-wide slog logger. Console records are
// logfmt lines or JSON; BESTIARY_LOG_FILE adds a rotating JSON file.
package log

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	lj "gopkg.in/natefinch/lumberjack.v2"
)

// Options controls logger initialization.
type Options struct {
	Level     string `mapstructure:"level" yaml:"level" env:"BESTIARY_LOG_LEVEL" envDefault:"warn"`
	Format    string `mapstructure:"format" yaml:"format" env:"BESTIARY_LOG_FORMAT" envDefault:"console"`
	AddSource bool   `mapstructure:"source" yaml:"source" env:"BESTIARY_LOG_SOURCE" envDefault:"false"`
	File      string `mapstructure:"file" yaml:"file" env:"BESTIARY_LOG_FILE"`
	// Output receives console records. Defaults to os.Stderr.
	Output io.Writer `mapstructure:"-" yaml:"-"`
}

// FromEnv builds Options from BESTIARY_LOG_* variables. An unparsable
// BESTIARY_LOG_SOURCE leaves source off.
func FromEnv() Options {
	o := Options{Level: "warn", Format: "console"}
	if err := env.Parse(&o); err != nil {
		o.AddSource = false
	}
	return o
}

// Init replaces slog's default logger.
func Init(opts Options) {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	ho := &slog.HandlerOptions{Level: parseLevel(opts.Level), AddSource: opts.AddSource}

	var h slog.Handler
	if strings.EqualFold(strings.TrimSpace(opts.Format), "json") {
		h = slog.NewJSONHandler(out, ho)
	} else {
		console := *ho
		console.ReplaceAttr = compact
		h = slog.NewTextHandler(out, &console)
	}
	if file := strings.TrimSpace(opts.File); file != "" {
		w := &lj.Logger{Filename: file, MaxSize: 10, MaxBackups: 3, MaxAge: 28, Compress: true}
		h = tee{h, slog.NewJSONHandler(w, ho)}
	}
	slog.SetDefault(slog.New(h).With(slog.String("app", "bestiary")))
}

// WithComponent returns the default logger tagged with a component.
func WithComponent(name string) *slog.Logger {
	return slog.Default().With(slog.String("component", name))
}

// WithOperation tags l with an operation.
func WithOperation(l *slog.Logger, op string) *slog.Logger {
	return l.With(slog.String("op", op))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

var levelNames = map[slog.Level]string{
	slog.LevelDebug: "DBG",
	slog.LevelInfo:  "INF",
	slog.LevelWarn:  "WRN",
	slog.LevelError: "ERR",
}

// compact drops the timestamp from console lines and shortens levels.
func compact(groups []string, a slog.Attr) slog.Attr {
	if len(groups) > 0 {
		return a
	}
	switch a.Key {
	case slog.TimeKey:
		return slog.Attr{}
	case slog.LevelKey:
		if l, ok := a.Value.Any().(slog.Level); ok {
			if name, ok := levelNames[l]; ok {
				return slog.String(slog.LevelKey, name)
			}
		}
	}
	return a
}

// tee sends every record to both handlers.
type tee [2]slog.Handler

func (t tee) Enabled(ctx context.Context, l slog.Level) bool {
	return t[0].Enabled(ctx, l) || t[1].Enabled(ctx, l)
}

func (t tee) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range t {
		if h.Enabled(ctx, r.Level) {
			errs = append(errs, h.Handle(ctx, r.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (t tee) WithAttrs(attrs []slog.Attr) slog.Handler {
	return tee{t[0].WithAttrs(attrs), t[1].WithAttrs(attrs)}
}

func (t tee) WithGroup(name string) slog.Handler {
	return tee{t[0].WithGroup(name), t[1].WithGroup(name)}
}
