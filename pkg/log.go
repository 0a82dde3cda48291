package pkg

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

// Component identifies a subsystem for log filtering.
type Component string

// Stream component identifiers.
const (
	ComponentStream    Component = "stream"
	ComponentRx        Component = "rx"
	ComponentTx        Component = "tx"
	ComponentRedirect  Component = "redirect"
	ComponentRing      Component = "ring"
	ComponentTransport Component = "transport"
	ComponentConfig    Component = "config"
	ComponentMetrics   Component = "metrics"
)

// LogFormat specifies the output format for logging.
type LogFormat int

// Log format options.
const (
	LogFormatText LogFormat = iota // Text format (default)
	LogFormatJSON                  // JSON format
)

var (
	// DefaultLogger is the logger used by all cdcstream packages.
	DefaultLogger *slog.Logger

	// logLevel controls the minimum log level.
	logLevel = new(slog.LevelVar)

	// logMutex protects logger configuration.
	logMutex sync.RWMutex
)

func init() {
	logLevel.Set(slog.LevelWarn)
	DefaultLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
}

// SetLogLevel sets the minimum log level for all stream logging.
func SetLogLevel(level slog.Level) {
	logMutex.Lock()
	defer logMutex.Unlock()
	logLevel.Set(level)
}

// GetLogLevel returns the current minimum log level.
func GetLogLevel() slog.Level {
	logMutex.RLock()
	defer logMutex.RUnlock()
	return logLevel.Level()
}

// ParseLogLevel converts a level name ("debug", "info", "warn", "error")
// into a slog.Level. Unknown names yield slog.LevelWarn and false.
func ParseLogLevel(name string) (slog.Level, bool) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelWarn, false
	}
	return level, true
}

// SetLogger replaces the default logger with a custom logger.
func SetLogger(logger *slog.Logger) {
	logMutex.Lock()
	defer logMutex.Unlock()
	DefaultLogger = logger
}

// SetLogFormat configures the default logger to use the specified format.
// The logger writes to os.Stderr and uses the current log level.
func SetLogFormat(format LogFormat) {
	logMutex.Lock()
	defer logMutex.Unlock()
	opts := &slog.HandlerOptions{Level: logLevel}
	switch format {
	case LogFormatJSON:
		DefaultLogger = slog.New(slog.NewJSONHandler(os.Stderr, opts))
	default:
		DefaultLogger = slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
}

// NewLogger creates a new text logger writing to the given writer.
func NewLogger(w io.Writer, opts *slog.HandlerOptions) *slog.Logger {
	if opts == nil {
		opts = &slog.HandlerOptions{Level: logLevel}
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// NewJSONLogger creates a new JSON logger writing to the given writer.
func NewJSONLogger(w io.Writer, opts *slog.HandlerOptions) *slog.Logger {
	if opts == nil {
		opts = &slog.HandlerOptions{Level: logLevel}
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func logger() *slog.Logger {
	logMutex.RLock()
	defer logMutex.RUnlock()
	return DefaultLogger
}

// LogDebug logs a debug message with the given component.
func LogDebug(component Component, msg string, args ...any) {
	logger().Debug(msg, append([]any{"component", string(component)}, args...)...)
}

// LogInfo logs an info message with the given component.
func LogInfo(component Component, msg string, args ...any) {
	logger().Info(msg, append([]any{"component", string(component)}, args...)...)
}

// LogWarn logs a warning message with the given component.
func LogWarn(component Component, msg string, args ...any) {
	logger().Warn(msg, append([]any{"component", string(component)}, args...)...)
}

// LogError logs an error message with the given component.
func LogError(component Component, msg string, args ...any) {
	logger().Error(msg, append([]any{"component", string(component)}, args...)...)
}
