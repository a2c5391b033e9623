package debug

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Logger writes leveled records to a single sink. Printf and Println are
// debug output and only reach the sink when debug mode is on; Info, Warn and
// Error are always written.
type Logger struct {
	enabled bool
	slog    *slog.Logger
}

// NewLogger opens path for appending and logs there. If the file cannot be
// opened the logger discards everything.
func NewLogger(enabled bool, path string) *Logger {
	var w io.Writer = io.Discard
	logFile, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err == nil {
		w = logFile
	}

	logger := New(enabled, w)
	if enabled {
		logger.Printf("=== DEBUG MODE ENABLED ===")
	}
	return logger
}

func New(enabled bool, w io.Writer) *Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	return &Logger{enabled: enabled, slog: slog.New(handler)}
}

// Nop returns a logger that drops every record.
func Nop() *Logger {
	return New(false, io.Discard)
}

func (d *Logger) Enabled() bool {
	return d != nil && d.enabled
}

func (d *Logger) Printf(format string, args ...interface{}) {
	if d.Enabled() {
		d.slog.Debug(fmt.Sprintf(format, args...))
	}
}

func (d *Logger) Println(args ...interface{}) {
	if d.Enabled() {
		d.slog.Debug(fmt.Sprint(args...))
	}
}

func (d *Logger) Info(msg string, kv ...any) {
	if d != nil {
		d.slog.Info(msg, kv...)
	}
}

func (d *Logger) Warn(msg string, kv ...any) {
	if d != nil {
		d.slog.Warn(msg, kv...)
	}
}

func (d *Logger) Error(msg string, kv ...any) {
	if d != nil {
		d.slog.Error(msg, kv...)
	}
}

// With returns a logger that adds kv to every record.
func (d *Logger) With(kv ...any) *Logger {
	if d == nil {
		return nil
	}
	return &Logger{enabled: d.enabled, slog: d.slog.With(kv...)}
}
