package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ryan-gang/kindle-sendto/internal/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LoggerInterface defines the interface for logging
type LoggerInterface interface {
	Info(v ...any)
	Infof(format string, v ...any)
	Warn(v ...any)
	Warnf(format string, v ...any)
	Error(v ...any)
	Errorf(format string, v ...any)
	Debug(v ...any)
	Debugf(format string, v ...any)
	With(args ...any) LoggerInterface
	Close() error
}

// NewLogger creates a logger writing to stdout and, when a log path is
// configured, to a size-rotated file.
func NewLogger(cfg config.ConfigProvider) (LoggerInterface, error) {
	var w io.Writer = os.Stdout
	var closer io.Closer

	if logPath := cfg.GetLogPath(); logPath != "" {
		if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
			return nil, err
		}
		rotating := &lumberjack.Logger{
			Filename:   logPath,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
		w = io.MultiWriter(os.Stdout, rotating)
		closer = rotating
	}

	l := New(w, cfg.GetLogLevel()).(*Logger)
	l.closer = closer
	return l, nil
}

// New creates a logger on an arbitrary writer.
func New(w io.Writer, level string) LoggerInterface {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)})
	return &Logger{log: slog.New(handler)}
}

// NewNop returns a logger that discards everything.
func NewNop() LoggerInterface {
	return New(io.Discard, "error")
}
