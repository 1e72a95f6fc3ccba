package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

type Logger struct {
	log    *slog.Logger
	closer io.Closer
}

// ParseLevel maps DEBUG/INFO/WARN/ERROR (any case) to a slog level,
// defaulting to INFO.
func ParseLevel(level string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func sprintln(v ...any) string {
	return strings.TrimSuffix(fmt.Sprintln(v...), "\n")
}

func (l *Logger) emit(level slog.Level, msg string) {
	l.log.Log(context.Background(), level, msg)
}

func (l *Logger) Info(v ...any)                  { l.emit(slog.LevelInfo, sprintln(v...)) }
func (l *Logger) Infof(format string, v ...any)  { l.emit(slog.LevelInfo, fmt.Sprintf(format, v...)) }
func (l *Logger) Warn(v ...any)                  { l.emit(slog.LevelWarn, sprintln(v...)) }
func (l *Logger) Warnf(format string, v ...any)  { l.emit(slog.LevelWarn, fmt.Sprintf(format, v...)) }
func (l *Logger) Error(v ...any)                 { l.emit(slog.LevelError, sprintln(v...)) }
func (l *Logger) Errorf(format string, v ...any) { l.emit(slog.LevelError, fmt.Sprintf(format, v...)) }
func (l *Logger) Debug(v ...any)                 { l.emit(slog.LevelDebug, sprintln(v...)) }
func (l *Logger) Debugf(format string, v ...any) { l.emit(slog.LevelDebug, fmt.Sprintf(format, v...)) }

// With returns a child logger carrying the given key/value attributes.
// The child shares the parent's output and must not be closed separately.
func (l *Logger) With(args ...any) LoggerInterface {
	return &Logger{log: l.log.With(args...)}
}

func (l *Logger) Close() error {
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}
