package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/fadedpez/cardlab/internal/types"
)

// Level represents a logging level
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

var levelNames = map[Level]string{
	DEBUG: "DEBUG",
	INFO:  "INFO",
	WARN:  "WARN",
	ERROR: "ERROR",
}

// ParseLevel maps a LOG_LEVEL value to a Level. Unknown values fall back to INFO.
func ParseLevel(s string) (Level, bool) {
	for level, name := range levelNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return level, true
		}
	}
	return INFO, false
}

// String returns the level name
func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("LEVEL(%d)", int(l))
}

// Logger represents our custom logger
type Logger struct {
	*log.Logger
	level Level
}

// NewLogger creates a new logger instance writing to stdout
func NewLogger(level Level) *Logger {
	return NewLoggerTo(os.Stdout, level)
}

// NewLoggerTo creates a new logger instance writing to w
func NewLoggerTo(w io.Writer, level Level) *Logger {
	return &Logger{
		Logger: log.New(w, "", 0),
		level:  level,
	}
}

// Level returns the minimum level this logger emits
func (l *Logger) Level() Level {
	return l.level
}

// formatMessage formats a log message with timestamp, level, and caller info
func (l *Logger) formatMessage(level Level, msg string) string {
	_, file, line, ok := runtime.Caller(3)
	caller := "unknown"
	if ok {
		caller = fmt.Sprintf("%s:%d", filepath.Base(file), line)
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05.000")

	return fmt.Sprintf("[%s] %-5s %s: %s",
		timestamp,
		levelNames[level],
		caller,
		msg,
	)
}

func (l *Logger) logf(level Level, format string, v ...interface{}) {
	if l.level <= level {
		l.Output(3, l.formatMessage(level, fmt.Sprintf(format, v...)))
	}
}

// Debug logs a debug message
func (l *Logger) Debug(format string, v ...interface{}) {
	l.logf(DEBUG, format, v...)
}

// Info logs an info message
func (l *Logger) Info(format string, v ...interface{}) {
	l.logf(INFO, format, v...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, v ...interface{}) {
	l.logf(WARN, format, v...)
}

// Error logs an error message
func (l *Logger) Error(format string, v ...interface{}) {
	l.logf(ERROR, format, v...)
}

// LogError logs an ExperimentError with its code and cause
func (l *Logger) LogError(err error) {
	var expErr *types.ExperimentError
	if types.As(err, &expErr) {
		context := []string{
			fmt.Sprintf("Code: %s", expErr.Code),
			fmt.Sprintf("Message: %s", expErr.Message),
		}
		if expErr.Err != nil {
			context = append(context, fmt.Sprintf("Cause: %v", expErr.Err))
		}

		l.logf(ERROR, "Experiment error occurred:\n\t%s", strings.Join(context, "\n\t"))
	} else {
		l.logf(ERROR, "Unexpected error: %v", err)
	}
}

// Discard is a logger that drops everything; handy in tests.
var Discard = NewLoggerTo(io.Discard, ERROR+1)

// Default logger instance
var Default = NewLogger(INFO)
