// Package logger provides leveled, structured logging for the report
// pipeline. Request handling sticks with plain log.Printf; pipeline
// steps log through here so a stored bundle can be traced back through
// its generation with machine-readable fields.
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Level is the severity of a log message.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
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

// ParseLevel reads a level name, case-insensitively. The second return
// is false for names it does not know.
func ParseLevel(s string) (Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug, true
	case "INFO":
		return LevelInfo, true
	case "WARN", "WARNING":
		return LevelWarn, true
	case "ERROR":
		return LevelError, true
	}
	return LevelInfo, false
}

// entry is one structured log line.
type entry struct {
	Timestamp string                 `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
	Error     string                 `json:"error,omitempty"`
}

// Logger writes leveled log lines to one output.
type Logger struct {
	mu    sync.Mutex
	level Level
	json  bool
	out   io.Writer
}

// New creates a logger. A nil output writes to stdout.
func New(level Level, jsonFormat bool, out io.Writer) *Logger {
	if out == nil {
		out = os.Stdout
	}
	return &Logger{level: level, json: jsonFormat, out: out}
}

// SetLevel changes the minimum level that gets written.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

func (l *Logger) log(level Level, message string, err error, fields map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	e := entry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     level.String(),
		Message:   message,
		Fields:    fields,
	}
	if err != nil {
		e.Error = err.Error()
	}

	if l.json {
		line, _ := json.Marshal(e)
		l.out.Write(append(line, '\n'))
		return
	}
	l.out.Write([]byte(formatText(e)))
}

// formatText renders one line as text. Fields print in key order so
// output is stable.
func formatText(e entry) string {
	parts := []string{fmt.Sprintf("[%s] %s %s", e.Timestamp, e.Level, e.Message)}

	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		kv := make([]string, 0, len(keys))
		for _, k := range keys {
			kv = append(kv, fmt.Sprintf("%s=%v", k, e.Fields[k]))
		}
		parts = append(parts, strings.Join(kv, " "))
	}

	if e.Error != "" {
		parts = append(parts, "error="+e.Error)
	}

	return strings.Join(parts, " ") + "\n"
}

// Debug logs a debug message with optional fields.
func (l *Logger) Debug(message string, fields ...map[string]interface{}) {
	l.log(LevelDebug, message, nil, first(fields))
}

// Info logs an info message with optional fields.
func (l *Logger) Info(message string, fields ...map[string]interface{}) {
	l.log(LevelInfo, message, nil, first(fields))
}

// Warn logs a warning with optional fields.
func (l *Logger) Warn(message string, fields ...map[string]interface{}) {
	l.log(LevelWarn, message, nil, first(fields))
}

// Error logs an error with optional fields.
func (l *Logger) Error(message string, err error, fields ...map[string]interface{}) {
	l.log(LevelError, message, err, first(fields))
}

func first(fields []map[string]interface{}) map[string]interface{} {
	if len(fields) > 0 {
		return fields[0]
	}
	return nil
}

// The package-level functions log through a shared logger configured
// from LOG_LEVEL and LOG_FORMAT. Text output is the default so lines
// mix cleanly with the standard library log package.
var std = fromEnv()

func fromEnv() *Logger {
	level := LevelInfo
	if parsed, ok := ParseLevel(os.Getenv("LOG_LEVEL")); ok {
		level = parsed
	}
	jsonFormat := strings.EqualFold(os.Getenv("LOG_FORMAT"), "json")
	return New(level, jsonFormat, os.Stdout)
}

// SetDefault replaces the shared logger.
func SetDefault(l *Logger) {
	if l != nil {
		std = l
	}
}

// Debug logs through the shared logger.
func Debug(message string, fields ...map[string]interface{}) {
	std.Debug(message, fields...)
}

// Info logs through the shared logger.
func Info(message string, fields ...map[string]interface{}) {
	std.Info(message, fields...)
}

// Warn logs through the shared logger.
func Warn(message string, fields ...map[string]interface{}) {
	std.Warn(message, fields...)
}

// Error logs through the shared logger.
func Error(message string, err error, fields ...map[string]interface{}) {
	std.Error(message, err, fields...)
}
