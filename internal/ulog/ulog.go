// Package ulog provides the structured logger used across untangle's
// pipeline stages, in the style of the project's original logging package:
// single-line JSON or human-readable output, gated by level.
package ulog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// Level is the severity of a log entry.
type Level string

const (
	Debug Level = "debug"
	Info  Level = "info"
	Warn  Level = "warn"
	Error Level = "error"
)

var levelPriority = map[Level]int{
	Debug: 0,
	Info:  1,
	Warn:  2,
	Error: 3,
}

// Format selects the on-disk/on-terminal rendering of log entries.
type Format string

const (
	JSON  Format = "json"
	Human Format = "human"
)

// Config configures a Logger.
type Config struct {
	Format Format
	Level  Level
	Output io.Writer // defaults to stderr
}

// Logger emits structured log entries gated by level.
type Logger struct {
	config Config
	writer io.Writer
}

// New creates a Logger from Config, defaulting Output to stderr so that
// stdout stays reserved for analyze/diff/graph's machine-readable output.
func New(config Config) *Logger {
	writer := config.Output
	if writer == nil {
		writer = os.Stderr
	}
	if config.Level == "" {
		config.Level = Info
	}
	if config.Format == "" {
		config.Format = Human
	}
	return &Logger{config: config, writer: writer}
}

// Discard returns a Logger that drops everything, for contexts (library
// use, tests) where log output is unwanted.
func Discard() *Logger {
	return New(Config{Level: Error, Output: io.Discard})
}

type entry struct {
	Timestamp string         `json:"timestamp"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Fields    map[string]any `json:"fields,omitempty"`
}

func (l *Logger) shouldLog(level Level) bool {
	return levelPriority[level] >= levelPriority[l.config.Level]
}

func (l *Logger) log(level Level, message string, fields map[string]any) {
	if !l.shouldLog(level) {
		return
	}
	e := entry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     string(level),
		Message:   message,
		Fields:    fields,
	}
	if l.config.Format == JSON {
		l.logJSON(e)
		return
	}
	l.logHuman(e)
}

func (l *Logger) logJSON(e entry) {
	data, err := json.Marshal(e)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "ulog: failed to marshal entry: %v\n", err)
		return
	}
	_, _ = fmt.Fprintln(l.writer, string(data))
}

func (l *Logger) logHuman(e entry) {
	_, _ = fmt.Fprintf(l.writer, "%s [%s] %s", e.Timestamp, e.Level, e.Message)
	if len(e.Fields) > 0 {
		_, _ = fmt.Fprint(l.writer, " |")
		for k, v := range e.Fields {
			_, _ = fmt.Fprintf(l.writer, " %s=%v", k, v)
		}
	}
	_, _ = fmt.Fprintln(l.writer)
}

func (l *Logger) Debug(message string, fields map[string]any) { l.log(Debug, message, fields) }
func (l *Logger) Info(message string, fields map[string]any)  { l.log(Info, message, fields) }
func (l *Logger) Warn(message string, fields map[string]any)  { l.log(Warn, message, fields) }
func (l *Logger) Error(message string, fields map[string]any) { l.log(Error, message, fields) }
