package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/ferrost/appkit/pkg/contracts"
)

type slogLogger struct {
	inner *slog.Logger
}

var _ contracts.Logger = (*slogLogger)(nil)

// New builds a contracts.Logger over log/slog. The default is a plain text
// handler on stdout at info level; see the options for JSON output, source
// locations and color.
func New(opts ...Option) contracts.Logger {
	cfg := &config{
		level:  slog.LevelInfo,
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	var handler slog.Handler
	if cfg.json {
		handler = slog.NewJSONHandler(cfg.writer, &slog.HandlerOptions{
			Level:       cfg.level,
			AddSource:   cfg.addSource,
			ReplaceAttr: jsonLevelNames(cfg.replaceAttr),
		})
	} else {
		colored := cfg.wantColor && isTerminal(cfg.writer)
		handler = newTextHandler(cfg.writer, colored, cfg.replaceAttr, cfg.level)
	}

	return &slogLogger{inner: slog.New(handler)}
}

// jsonLevelNames maps the extended levels to their names inside the stock
// JSON handler.
func jsonLevelNames(prev func(groups []string, a slog.Attr) slog.Attr) func(groups []string, a slog.Attr) slog.Attr {
	return func(groups []string, a slog.Attr) slog.Attr {
		if prev != nil {
			a = prev(groups, a)
		}
		if a.Key == slog.LevelKey {
			if level, ok := a.Value.Any().(slog.Level); ok {
				return slog.String(slog.LevelKey, levelName(level))
			}
		}
		return a
	}
}

func (l *slogLogger) Trace(msg string, args ...any) {
	l.inner.LogAttrs(context.Background(), LevelTrace, msg, convertArgs(args)...)
}

func (l *slogLogger) Debug(msg string, args ...any) {
	l.inner.LogAttrs(context.Background(), slog.LevelDebug, msg, convertArgs(args)...)
}

func (l *slogLogger) Info(msg string, args ...any) {
	l.inner.LogAttrs(context.Background(), slog.LevelInfo, msg, convertArgs(args)...)
}

func (l *slogLogger) Warn(msg string, args ...any) {
	l.inner.LogAttrs(context.Background(), slog.LevelWarn, msg, convertArgs(args)...)
}

func (l *slogLogger) Error(msg string, args ...any) {
	l.inner.LogAttrs(context.Background(), slog.LevelError, msg, convertArgs(args)...)
}

func (l *slogLogger) Critical(msg string, args ...any) {
	l.inner.LogAttrs(context.Background(), LevelCritical, msg, convertArgs(args)...)
}

func (l *slogLogger) With(args ...any) contracts.Logger {
	return &slogLogger{inner: l.inner.With(args...)}
}

func convertArgs(args []any) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(args)/2+1)
	for i := 0; i < len(args); i += 2 {
		if i+1 >= len(args) {
			attrs = append(attrs, slog.Any("DANGLING_KEY", args[i]))
			break
		}
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprintf("NON_STRING_KEY_%T", args[i])
		}
		attrs = append(attrs, slog.Any(key, args[i+1]))
	}
	return attrs
}
