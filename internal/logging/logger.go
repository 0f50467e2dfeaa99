// Package logging wraps log/slog with a rotated file sink and an optional
// stderr sink. Until Init is called every call is discarded.
package logging

import (
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger wraps slog.Logger.
type Logger struct {
	logger *slog.Logger
}

// LogFormat represents the output format for logs.
type LogFormat string

const (
	FormatText LogFormat = "text"
	FormatJSON LogFormat = "json"
)

// Config holds configuration for logger initialization.
type Config struct {
	// FilePath is the path to a rotated log file (empty = no file).
	FilePath string
	// Console receives log lines in addition to the file (nil = none).
	Console io.Writer
	// Level is the minimum log level.
	Level slog.Level
	// Format is the output format (text or json).
	Format LogFormat
	// MaxSizeMB is the maximum size in MB before rotation.
	MaxSizeMB int
	// MaxBackups is the maximum number of old log files to keep.
	MaxBackups int
}

var (
	mu           sync.Mutex
	globalLogger *Logger
	rotator      *lumberjack.Logger

	noopLogger = &Logger{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
)

// Init installs the global logger. With neither a file nor a console writer
// configured, logging stays disabled.
func Init(config Config) error {
	mu.Lock()
	defer mu.Unlock()

	closeRotator()

	var writers []io.Writer
	if config.FilePath != "" {
		rotator = &lumberjack.Logger{
			Filename:   config.FilePath,
			MaxSize:    config.MaxSizeMB,
			MaxBackups: config.MaxBackups,
			Compress:   true,
		}
		writers = append(writers, rotator)
	}
	if config.Console != nil {
		writers = append(writers, config.Console)
	}

	if len(writers) == 0 {
		globalLogger = noopLogger
		return nil
	}

	globalLogger = &Logger{logger: slog.New(newHandler(io.MultiWriter(writers...), config))}
	return nil
}

func newHandler(w io.Writer, config Config) slog.Handler {
	opts := &slog.HandlerOptions{Level: config.Level}
	if config.Format == FormatJSON {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// Get returns the global logger, or a noop logger if Init was not called.
func Get() *Logger {
	mu.Lock()
	defer mu.Unlock()

	if globalLogger == nil {
		return noopLogger
	}
	return globalLogger
}

func (l *Logger) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.logger.Info(msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.logger.Warn(msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.logger.Error(msg, args...) }

// With returns a Logger that adds args to every record.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{logger: l.logger.With(args...)}
}

// Time logs the duration since the call when the returned func runs:
//
//	defer logging.Time("classify")()
func Time(name string) func() {
	l := Get()
	start := time.Now()
	return func() {
		d := time.Since(start)
		l.Debug(name, "duration", d.String(), "ms", d.Milliseconds())
	}
}

func Debug(msg string, args ...any) { Get().Debug(msg, args...) }
func Info(msg string, args ...any)  { Get().Info(msg, args...) }
func Warn(msg string, args ...any)  { Get().Warn(msg, args...) }
func Error(msg string, args ...any) { Get().Error(msg, args...) }

// ParseLevel converts a level name to slog.Level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseFormat converts a format name to LogFormat, defaulting to text.
func ParseFormat(format string) LogFormat {
	if strings.ToLower(format) == "json" {
		return FormatJSON
	}
	return FormatText
}

// Shutdown closes the log file, if any, and disables logging.
func Shutdown() error {
	mu.Lock()
	defer mu.Unlock()

	err := closeRotator()
	globalLogger = nil
	return err
}

func closeRotator() error {
	if rotator == nil {
		return nil
	}
	err := rotator.Close()
	rotator = nil
	return err
}
