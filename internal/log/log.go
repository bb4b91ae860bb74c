// ABOUTME: Leveled logging on slog: console handler on stderr, optional JSON file fanout
// ABOUTME: Global level via SetLevel; writes to stderr to avoid mixing with the chat UI

package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/phsym/console-slog"
	slogmulti "github.com/samber/slog-multi"
)

// Level constants matching slog levels.
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

var (
	level  = new(slog.LevelVar)
	logger atomic.Pointer[slog.Logger]
)

func init() {
	level.Set(LevelInfo)
	logger.Store(slog.New(consoleHandler(os.Stderr)))
}

func consoleHandler(w io.Writer) slog.Handler {
	return console.NewHandler(w, &console.HandlerOptions{Level: level})
}

// Options configures log outputs.
type Options struct {
	Console io.Writer // human-readable output; nil means os.Stderr
	File    string    // optional JSON log file, appended to
}

// Setup replaces the global logger. The returned closer releases the log file,
// if any; it is never nil.
func Setup(opts Options) (io.Closer, error) {
	w := opts.Console
	if w == nil {
		w = os.Stderr
	}
	handlers := []slog.Handler{consoleHandler(w)}

	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return closer, fmt.Errorf("opening log file: %w", err)
		}
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level}))
		closer = f
	}

	logger.Store(slog.New(slogmulti.Fanout(handlers...)))
	return closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Logger returns the global structured logger for callers that want attributes.
func Logger() *slog.Logger {
	return logger.Load()
}

// SetLevel sets the global log level.
func SetLevel(l slog.Level) {
	level.Set(l)
}

// GetLevel returns the current log level.
func GetLevel() slog.Level {
	return level.Level()
}

// Debug logs a debug message if the level allows it.
func Debug(format string, args ...any) {
	logf(LevelDebug, format, args...)
}

// Info logs an info message if the level allows it.
func Info(format string, args ...any) {
	logf(LevelInfo, format, args...)
}

// Warn logs a warning message if the level allows it.
func Warn(format string, args ...any) {
	logf(LevelWarn, format, args...)
}

// Error logs an error message.
func Error(format string, args ...any) {
	logf(LevelError, format, args...)
}

func logf(l slog.Level, format string, args ...any) {
	if level.Level() > l {
		return
	}
	logger.Load().Log(context.Background(), l, fmt.Sprintf(format, args...))
}
