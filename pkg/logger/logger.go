package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/killallgit/scrollback/pkg/config"
)

// LogLevel represents the logging level
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger provides a unified logging interface
type Logger struct {
	mu     sync.Mutex
	level  LogLevel
	logger *log.Logger
	file   *os.File
}

var (
	defaultMu     sync.RWMutex
	defaultLogger *Logger
)

// Init initializes the default logger from the global config
func Init() error {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultLogger != nil {
		return nil // Already initialized
	}

	settings := config.Get().Logging
	l, err := New(ParseLevel(settings.Level), settings.File, settings.Preserve)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	defaultLogger = l
	return nil
}

// New creates a new Logger writing to logFile. A relative path is resolved
// against the settings directory.
func New(level LogLevel, logFile string, preserve bool) (*Logger, error) {
	logPath := logFile
	if !filepath.IsAbs(logPath) {
		logPath = config.BuildSettingsPath(filepath.Base(logPath))
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if preserve {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}

	file, err := os.OpenFile(logPath, flags, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return &Logger{
		level:  level,
		logger: log.New(file, "", log.LstdFlags|log.Lmicroseconds),
		file:   file,
	}, nil
}

// NewWriter creates a Logger over an arbitrary writer
func NewWriter(level LogLevel, w io.Writer) *Logger {
	return &Logger{
		level:  level,
		logger: log.New(w, "", 0),
	}
}

// Close closes the log file
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// ParseLevel converts a string level to LogLevel
func ParseLevel(levelStr string) LogLevel {
	switch levelStr {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l *Logger) log(level LogLevel, prefix, format string, args ...interface{}) {
	if level < l.level {
		return
	}

	message := fmt.Sprintf(format, args...)

	l.mu.Lock()
	defer l.mu.Unlock()
	if prefix != "" {
		l.logger.Printf("[%s] [%s] %s", level, prefix, message)
		return
	}
	l.logger.Printf("[%s] %s", level, message)
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(LevelDebug, "", format, args...)
}

// Info logs an info message
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(LevelInfo, "", format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(LevelWarn, "", format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(LevelError, "", format, args...)
}

// Component is a logger that tags every line with a component name. It
// resolves the default logger on each call, so components created before
// Init start logging once Init runs.
type Component struct {
	name string
}

// WithComponent returns a logger tagged with name
func WithComponent(name string) *Component {
	return &Component{name: name}
}

func (c *Component) emit(level LogLevel, format string, args ...interface{}) {
	defaultMu.RLock()
	l := defaultLogger
	defaultMu.RUnlock()
	if l == nil {
		return
	}
	l.log(level, c.name, format, args...)
}

func (c *Component) Debug(format string, args ...interface{}) { c.emit(LevelDebug, format, args...) }
func (c *Component) Info(format string, args ...interface{})  { c.emit(LevelInfo, format, args...) }
func (c *Component) Warn(format string, args ...interface{})  { c.emit(LevelWarn, format, args...) }
func (c *Component) Error(format string, args ...interface{}) { c.emit(LevelError, format, args...) }

// Package-level convenience functions using the default logger

// Debug logs a debug message using the default logger
func Debug(format string, args ...interface{}) {
	emitDefault(LevelDebug, format, args...)
}

// Info logs an info message using the default logger
func Info(format string, args ...interface{}) {
	emitDefault(LevelInfo, format, args...)
}

// Warn logs a warning message using the default logger
func Warn(format string, args ...interface{}) {
	emitDefault(LevelWarn, format, args...)
}

// Error logs an error message using the default logger
func Error(format string, args ...interface{}) {
	emitDefault(LevelError, format, args...)
}

func emitDefault(level LogLevel, format string, args ...interface{}) {
	defaultMu.RLock()
	l := defaultLogger
	defaultMu.RUnlock()
	if l == nil {
		return
	}
	l.log(level, "", format, args...)
}

// SetDefault replaces the default logger (useful for testing)
func SetDefault(l *Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = l
}

// Close closes and clears the default logger
func Close() error {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultLogger == nil {
		return nil
	}
	err := defaultLogger.Close()
	defaultLogger = nil
	return err
}
