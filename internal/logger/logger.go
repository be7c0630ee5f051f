package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

// LogLevel represents different logging levels
type LogLevel int

const (
	// DEBUG level for request-level tracing
	DEBUG LogLevel = iota
	// INFO level for startup and access lines
	INFO
	// WARN level for upstream failures that are bubbled to the caller
	WARN
	// ERROR level for configuration and transport failures
	ERROR
	// FATAL level for errors that stop the process
	FATAL
)

var levelNames = map[LogLevel]string{
	DEBUG: "DEBUG",
	INFO:  "INFO",
	WARN:  "WARN",
	ERROR: "ERROR",
	FATAL: "FATAL",
}

// String returns the upper-case level name.
func (l LogLevel) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("LEVEL(%d)", int(l))
}

// ParseLevel maps a LOG_LEVEL value onto a LogLevel. Unknown values fall back to INFO.
func ParseLevel(s string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return DEBUG
	case "WARN", "WARNING":
		return WARN
	case "ERROR":
		return ERROR
	case "FATAL":
		return FATAL
	default:
		return INFO
	}
}

// sink is shared by every Logger derived from the same root.
type sink struct {
	mu     sync.Mutex
	level  LogLevel
	logger *log.Logger
}

// Logger writes leveled lines tagged with a component name.
type Logger struct {
	sink      *sink
	component string
	err       error
}

var (
	defaultLogger *Logger
	once          sync.Once
)

// New creates a root logger writing to w.
func New(w io.Writer, level LogLevel, component string) *Logger {
	return &Logger{
		sink: &sink{
			level:  level,
			logger: log.New(w, "", log.LstdFlags|log.Lmicroseconds),
		},
		component: component,
	}
}

// InitLogger initializes the default logger. Only the first call has effect.
func InitLogger(level LogLevel, component string) {
	once.Do(func() {
		defaultLogger = New(os.Stdout, level, component)
	})
}

// GetLogger returns the default logger instance
func GetLogger() *Logger {
	if defaultLogger == nil {
		InitLogger(INFO, "relay")
	}
	return defaultLogger
}

// WithComponent returns a logger sharing the same output and level under another component name.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{sink: l.sink, component: component, err: l.err}
}

// WithError returns a logger that appends err to every line it writes.
func (l *Logger) WithError(err error) *Logger {
	return &Logger{sink: l.sink, component: l.component, err: err}
}

// SetLevel sets the logging level for this logger and all loggers derived from it.
func (l *Logger) SetLevel(level LogLevel) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.level = level
}

// SetOutput redirects output, mostly for tests.
func (l *Logger) SetOutput(w io.Writer) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.logger.SetOutput(w)
}

// Level reports the current level.
func (l *Logger) Level() LogLevel {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	return l.sink.level
}

func (l *Logger) log(level LogLevel, format string, args ...interface{}) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()

	if level < l.sink.level {
		return
	}

	msg := fmt.Sprintf(format, args...)
	if l.err != nil {
		msg = fmt.Sprintf("%s: %v", msg, l.err)
	}
	l.sink.logger.Printf("[%s][%s] %s", level, l.component, msg)

	if level == FATAL {
		os.Exit(1)
	}
}

// Debug logs debug level messages
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(DEBUG, format, args...)
}

// Info logs info level messages
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(INFO, format, args...)
}

// Warn logs warning level messages
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(WARN, format, args...)
}

// Error logs error level messages
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(ERROR, format, args...)
}

// Fatal logs fatal level messages and exits
func (l *Logger) Fatal(format string, args ...interface{}) {
	l.log(FATAL, format, args...)
}
