package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strings"
	"sync"
)

const prefixKey = "component"

// consoleHandler writes one human-readable line per record:
// timestamp, level, [prefix], [file:line], message, then key=value fields.
type consoleHandler struct {
	mu       *sync.Mutex
	out      io.Writer
	colorize bool
	attrs    []slog.Attr
}

func newConsoleHandler(out io.Writer, colorize bool) *consoleHandler {
	return &consoleHandler{mu: &sync.Mutex{}, out: out, colorize: colorize}
}

func (h *consoleHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &c
}

func (h *consoleHandler) WithGroup(string) slog.Handler { return h }

func (h *consoleHandler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder
	sb.WriteString(r.Time.Format("2006-01-02 15:04:05.000"))
	sb.WriteString(" ")
	lvl := levelFromSlog(r.Level)
	if h.colorize {
		sb.WriteString(colorize(lvl))
	} else {
		sb.WriteString(fmt.Sprintf("%-5s", lvl.String()))
	}
	sb.WriteString(" ")

	var fields []slog.Attr
	fields = append(fields, h.attrs...)
	prefix := ""
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == prefixKey {
			prefix = a.Value.String()
			return true
		}
		fields = append(fields, a)
		return true
	})

	if prefix != "" {
		sb.WriteString("[")
		sb.WriteString(prefix)
		sb.WriteString("] ")
	}

	if r.PC != 0 {
		frame, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
		file := frame.File
		if idx := strings.LastIndex(file, "/"); idx >= 0 {
			file = file[idx+1:]
		}
		if file != "" {
			sb.WriteString(fmt.Sprintf("[%s:%d] ", file, frame.Line))
		}
	}

	sb.WriteString(r.Message)
	for _, a := range fields {
		sb.WriteString(" ")
		sb.WriteString(a.Key)
		sb.WriteString("=")
		sb.WriteString(fmt.Sprintf("%v", a.Value.Any()))
	}
	sb.WriteString("\n")

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, sb.String())
	return err
}

func levelFromSlog(l slog.Level) Level {
	switch {
	case l >= slog.LevelError:
		return ERROR
	case l >= slog.LevelWarn:
		return WARN
	case l >= slog.LevelInfo:
		return INFO
	default:
		return DEBUG
	}
}

func colorize(level Level) string {
	var color string
	switch level {
	case DEBUG:
		color = "\033[36m" // Cyan
	case INFO:
		color = "\033[32m" // Green
	case WARN:
		color = "\033[33m" // Yellow
	case ERROR:
		color = "\033[31m" // Red
	default:
		color = "\033[0m"
	}
	return fmt.Sprintf("%s%-5s\033[0m", color, level.String())
}
