// Package logging builds the JSON slog logger shared by the wizard, the
// background name check and the session store.
//
// Logs go to a file under the application home so they never interleave with
// prompts on the terminal. Session payloads and passphrases are never logged.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Log levels accepted in configuration.
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

// FileName is the log file created under the home directory.
const FileName = "debug.log"

// Logger is a slog.Logger that owns its output file.
type Logger struct {
	*slog.Logger

	mu   sync.Mutex
	file *os.File
}

// New opens <dir>/debug.log for appending and returns a JSON logger writing
// to it at level. If dir is empty, logs go to stderr.
func New(dir, level string) (*Logger, error) {
	if dir == "" {
		return NewWriter(os.Stderr, level), nil
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, FileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	l := NewWriter(f, level)
	l.file = f
	return l, nil
}

// NewWriter returns a JSON logger writing to w.
func NewWriter(w io.Writer, level string) *Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)})
	return &Logger{Logger: slog.New(h)}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return &Logger{Logger: slog.New(slog.DiscardHandler)}
}

// ParseLevel converts a level name to slog.Level, defaulting to INFO.
func ParseLevel(level string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn, "WARNING":
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithSession returns a child logger tagging every entry with the session id.
func (l *Logger) WithSession(id string) *slog.Logger {
	return l.Logger.With(slog.String("session_id", id))
}

// WithComponent returns a child logger tagging every entry with component.
func (l *Logger) WithComponent(component string) *slog.Logger {
	return l.Logger.With(slog.String("component", component))
}

// Close closes the log file, if any. It is safe to call more than once.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
