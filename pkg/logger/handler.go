package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

const (
	colorReset  = "\033[0m"
	colorGray   = "\033[90m"
	colorCyan   = "\033[36m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorBold   = "\033[1;31m"
)

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

type textHandler struct {
	mu          *sync.Mutex
	writer      io.Writer
	colored     bool
	level       slog.Leveler
	replaceAttr func(groups []string, a slog.Attr) slog.Attr
	attrs       []slog.Attr
	groups      []string
}

var _ slog.Handler = (*textHandler)(nil)

func newTextHandler(w io.Writer, colored bool, replaceAttr func(groups []string, a slog.Attr) slog.Attr, level slog.Leveler) *textHandler {
	return &textHandler{
		mu:          &sync.Mutex{},
		writer:      w,
		colored:     colored,
		level:       level,
		replaceAttr: replaceAttr,
	}
}

func (h *textHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *textHandler) Handle(_ context.Context, record slog.Record) error {
	var b strings.Builder

	timestamp := record.Time.Format("2006-01-02 15:04:05.000")
	if h.colored {
		b.WriteString(colorGray + timestamp + colorReset)
	} else {
		b.WriteString(timestamp)
	}

	b.WriteString(" ")
	b.WriteString(h.formatLevel(record.Level))
	b.WriteString(" ")
	b.WriteString(record.Message)

	for _, attr := range h.attrs {
		h.appendAttr(&b, attr)
	}
	record.Attrs(func(attr slog.Attr) bool {
		h.appendAttr(&b, attr)
		return true
	})
	b.WriteString("\n")

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.writer, b.String())
	return err
}

func (h *textHandler) appendAttr(b *strings.Builder, attr slog.Attr) {
	if h.replaceAttr != nil {
		attr = h.replaceAttr(h.groups, attr)
	}
	if attr.Equal(slog.Attr{}) {
		return
	}
	key := attr.Key
	if len(h.groups) > 0 {
		key = strings.Join(h.groups, ".") + "." + key
	}
	if h.colored {
		fmt.Fprintf(b, " %s%s%s=%v", colorCyan, key, colorReset, attr.Value.Resolve())
	} else {
		fmt.Fprintf(b, " %s=%v", key, attr.Value.Resolve())
	}
}

func (h *textHandler) formatLevel(level slog.Level) string {
	name := levelName(level)
	if !h.colored {
		return name
	}
	var color string
	switch {
	case level <= LevelTrace:
		color = colorGray
	case level <= slog.LevelDebug:
		color = colorCyan
	case level <= slog.LevelInfo:
		color = colorGreen
	case level <= slog.LevelWarn:
		color = colorYellow
	case level <= slog.LevelError:
		color = colorRed
	default:
		color = colorBold
	}
	return color + name + colorReset
}

func (h *textHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := h.clone()
	clone.attrs = append(clone.attrs, attrs...)
	return clone
}

func (h *textHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := h.clone()
	clone.groups = append(clone.groups, name)
	return clone
}

// clone keeps the shared mutex so concurrent derived loggers serialize writes.
func (h *textHandler) clone() *textHandler {
	return &textHandler{
		mu:          h.mu,
		writer:      h.writer,
		colored:     h.colored,
		level:       h.level,
		replaceAttr: h.replaceAttr,
		attrs:       append([]slog.Attr(nil), h.attrs...),
		groups:      append([]string(nil), h.groups...),
	}
}
