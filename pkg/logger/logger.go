package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// Level represents logging verbosity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Logger is a leveled printf-style logger writing to a file and stdout.
type Logger struct {
	level Level
	out   *log.Logger
	file  *os.File
}

// New creates a logger writing to the given file (and stdout).
// An empty path means stdout only.
func New(filePath string, level string) (*Logger, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return nil, err
	}

	var file *os.File
	writers := []io.Writer{os.Stdout}

	if filePath != "" {
		if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
			return nil, fmt.Errorf("logger: create log directory: %w", err)
		}
		file, err = os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("logger: open log file: %w", err)
		}
		writers = append(writers, file)
	}

	return &Logger{
		level: lvl,
		out:   log.New(io.MultiWriter(writers...), "", log.LstdFlags|log.Lmicroseconds),
		file:  file,
	}, nil
}

func parseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return 0, fmt.Errorf("logger: unknown level %q", s)
	}
}

// Close closes the underlying log file, if any.
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

func (l *Logger) logf(lvl Level, prefix, format string, v ...interface{}) {
	if lvl < l.level {
		return
	}
	l.out.Printf(prefix+" "+format, v...)
}

// Debug logs at debug level.
func (l *Logger) Debug(format string, v ...interface{}) {
	l.logf(LevelDebug, "[DEBUG]", format, v...)
}

// Info logs at info level.
func (l *Logger) Info(format string, v ...interface{}) {
	l.logf(LevelInfo, "[INFO]", format, v...)
}

// Warn logs at warn level.
func (l *Logger) Warn(format string, v ...interface{}) {
	l.logf(LevelWarn, "[WARN]", format, v...)
}

// Error logs at error level.
func (l *Logger) Error(format string, v ...interface{}) {
	l.logf(LevelError, "[ERROR]", format, v...)
}

// Fatal logs at error level and terminates the process.
func (l *Logger) Fatal(format string, v ...interface{}) {
	l.logf(LevelError, "[FATAL]", format, v...)
	os.Exit(1)
}
