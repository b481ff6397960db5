// Package logging adapts logrus to the middleware.Logger interface.
//
// Everything is written to stderr (or a caller supplied writer) because
// stdout carries the protocol stream.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/codersgyan/lms-mcp/middleware"
)

// Logger is a middleware.Logger backed by logrus.
type Logger struct {
	entry *logrus.Entry
}

var _ middleware.Logger = (*Logger)(nil)

// New returns a logger writing text lines with full timestamps to out.
func New(out io.Writer, level logrus.Level) *Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(level)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return &Logger{entry: logrus.NewEntry(l)}
}

// With returns a logger that adds fields to every entry.
func (l *Logger) With(fields ...middleware.Field) *Logger {
	return &Logger{entry: l.entry.WithFields(toFields(fields))}
}

// Info logs msg at info level with fields attached.
func (l *Logger) Info(msg string, fields ...middleware.Field) {
	l.entry.WithFields(toFields(fields)).Info(msg)
}

// Error logs msg at error level with fields attached.
func (l *Logger) Error(msg string, fields ...middleware.Field) {
	l.entry.WithFields(toFields(fields)).Error(msg)
}

// Debug logs msg at debug level with fields attached.
func (l *Logger) Debug(msg string, fields ...middleware.Field) {
	l.entry.WithFields(toFields(fields)).Debug(msg)
}

// Warn logs msg at warning level with fields attached.
func (l *Logger) Warn(msg string, fields ...middleware.Field) {
	l.entry.WithFields(toFields(fields)).Warn(msg)
}

func toFields(fields []middleware.Field) logrus.Fields {
	out := make(logrus.Fields, len(fields))
	for _, f := range fields {
		if err, ok := f.Value.(error); ok {
			out[f.Key] = err.Error()
			continue
		}
		out[f.Key] = f.Value
	}
	return out
}

// ParseLevel maps a level name to a logrus level. An empty name means
// info.
func ParseLevel(name string) (logrus.Level, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return logrus.InfoLevel, nil
	}
	level, err := logrus.ParseLevel(name)
	if err != nil {
		return logrus.InfoLevel, fmt.Errorf("invalid log level %q: %w", name, err)
	}
	return level, nil
}

// LevelFromEnv resolves the level from LOG_LEVEL, falling back to debug when
// DEBUG is "1" or "true".
func LevelFromEnv(getenv func(string) string) (logrus.Level, error) {
	name := getenv("LOG_LEVEL")
	if strings.TrimSpace(name) == "" {
		if d := getenv("DEBUG"); d == "1" || strings.EqualFold(d, "true") {
			return logrus.DebugLevel, nil
		}
	}
	return ParseLevel(name)
}

// OpenFile opens path for appending, creating its directory. A leading ~ is
// expanded to the home directory.
func OpenFile(path string) (*os.File, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("expand %s: %w", path, err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}
