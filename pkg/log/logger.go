// Structured logging for the earthpath toolpath engine
//
// Provides leveled logging with structured fields, text and JSON output
// formats, ANSI colors on terminals, and per-component loggers with
// prefixes. Configuration is read from the environment:
//
//	EARTHPATH_LOG_LEVEL:  DEBUG, INFO, WARN, ERROR
//	EARTHPATH_LOG_FORMAT: text, json
//	NO_COLOR:             any non-empty value disables colors
//
// Copyright (C) 2026  Earthpath Authors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package log

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

// Level represents the severity of a log message
type Level int

const (
	// DebugLevel for detailed debugging information
	DebugLevel Level = iota

	// InfoLevel for general informational messages
	InfoLevel

	// WarnLevel for warning messages
	WarnLevel

	// ErrorLevel for error messages
	ErrorLevel
)

// String returns the string representation of the level
func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel parses a string into a Level
func ParseLevel(s string) Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return DebugLevel
	case "INFO":
		return InfoLevel
	case "WARN", "WARNING":
		return WarnLevel
	case "ERROR":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// Format specifies the output format for log messages
type Format int

const (
	// FormatText outputs human-readable text
	FormatText Format = iota
	// FormatJSON outputs machine-readable JSON
	FormatJSON
)

// Fields is a map of structured logging fields
type Fields map[string]interface{}

// Logger writes leveled, optionally structured log messages.
type Logger struct {
	mu         sync.Mutex
	prefix     string
	writer     io.Writer
	level      Level
	timeFormat string
	colorize   bool
	format     Format
}

// Entry carries accumulated fields toward a single log call.
type Entry struct {
	logger *Logger
	fields Fields
}

var (
	defaultLogger *Logger
	defaultMu     sync.Mutex

	ansiColors = map[Level]string{
		DebugLevel: "\x1b[36m", // Cyan
		InfoLevel:  "\x1b[32m", // Green
		WarnLevel:  "\x1b[33m", // Yellow
		ErrorLevel: "\x1b[31m", // Red
	}
	ansiReset = "\x1b[0m"
)

// New creates a new logger with the given prefix, writing to stderr.
// Colors are enabled only when stderr is a terminal and NO_COLOR is unset.
func New(prefix string) *Logger {
	return &Logger{
		prefix:     prefix,
		writer:     os.Stderr,
		level:      InfoLevel,
		timeFormat: "2006-01-02 15:04:05.000",
		colorize:   os.Getenv("NO_COLOR") == "" && isTerminal(os.Stderr.Fd()),
		format:     FormatText,
	}
}

// SetLevel sets the minimum log level
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// SetWriter sets the output writer (e.g., for testing)
func (l *Logger) SetWriter(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.writer = w
}

// SetColorize enables or disables colorized output
func (l *Logger) SetColorize(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.colorize = enable
}

// SetFormat sets the output format (FormatText or FormatJSON)
func (l *Logger) SetFormat(format Format) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.format = format
}

// WithPrefix returns a new logger sharing settings but with another prefix.
func (l *Logger) WithPrefix(prefix string) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	return &Logger{
		prefix:     prefix,
		writer:     l.writer,
		level:      l.level,
		timeFormat: l.timeFormat,
		colorize:   l.colorize,
		format:     l.format,
	}
}

// WithField returns an Entry with the given field
func (l *Logger) WithField(key string, value interface{}) *Entry {
	return &Entry{logger: l, fields: Fields{key: value}}
}

// WithFields returns an Entry with the given fields
func (l *Logger) WithFields(fields Fields) *Entry {
	return &Entry{logger: l, fields: fields}
}

// WithError returns an Entry with the error field set
func (l *Logger) WithError(err error) *Entry {
	return l.WithField("error", err.Error())
}

func (l *Logger) formatText(level Level, msg string, fields Fields) string {
	var sb strings.Builder

	sb.WriteString(time.Now().Format(l.timeFormat))
	sb.WriteString(" [")
	sb.WriteString(fmt.Sprintf("%-5s", level.String()))
	sb.WriteString("] ")

	if l.colorize {
		sb.WriteString(ansiColors[level])
	}
	sb.WriteString(l.prefix)
	if l.colorize {
		sb.WriteString(ansiReset)
	}
	sb.WriteString(": ")
	sb.WriteString(msg)

	if len(fields) > 0 {
		sb.WriteString(" {")
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for i, k := range keys {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(k)
			sb.WriteString("=")
			sb.WriteString(fmt.Sprintf("%v", fields[k]))
		}
		sb.WriteString("}")
	}

	sb.WriteString("\n")
	return sb.String()
}

type jsonEntry struct {
	Timestamp string                 `json:"timestamp"`
	Level     string                 `json:"level"`
	Logger    string                 `json:"logger"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

func (l *Logger) formatJSON(level Level, msg string, fields Fields) string {
	entry := jsonEntry{
		Timestamp: time.Now().Format(time.RFC3339Nano),
		Level:     level.String(),
		Logger:    l.prefix,
		Message:   msg,
	}
	if len(fields) > 0 {
		entry.Fields = fields
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Sprintf(`{"error":"failed to marshal log entry: %v"}`+"\n", err)
	}
	return string(data) + "\n"
}

func (l *Logger) log(level Level, msg string, args []interface{}, fields Fields) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}

	var out string
	if l.format == FormatJSON {
		out = l.formatJSON(level, msg, fields)
	} else {
		out = l.formatText(level, msg, fields)
	}
	fmt.Fprint(l.writer, out)
}

// Debug logs a message at DEBUG level
func (l *Logger) Debug(msg string, args ...interface{}) {
	l.log(DebugLevel, msg, args, nil)
}

// Info logs a message at INFO level
func (l *Logger) Info(msg string, args ...interface{}) {
	l.log(InfoLevel, msg, args, nil)
}

// Warn logs a message at WARN level
func (l *Logger) Warn(msg string, args ...interface{}) {
	l.log(WarnLevel, msg, args, nil)
}

// Error logs a message at ERROR level
func (l *Logger) Error(msg string, args ...interface{}) {
	l.log(ErrorLevel, msg, args, nil)
}

// Entry methods

// WithField adds a field to the entry
func (e *Entry) WithField(key string, value interface{}) *Entry {
	fields := make(Fields, len(e.fields)+1)
	for k, v := range e.fields {
		fields[k] = v
	}
	fields[key] = value
	return &Entry{logger: e.logger, fields: fields}
}

// WithError adds an error field to the entry
func (e *Entry) WithError(err error) *Entry {
	return e.WithField("error", err.Error())
}

// Debug logs at DEBUG level with fields
func (e *Entry) Debug(msg string) {
	e.logger.log(DebugLevel, msg, nil, e.fields)
}

// Info logs at INFO level with fields
func (e *Entry) Info(msg string) {
	e.logger.log(InfoLevel, msg, nil, e.fields)
}

// Warn logs at WARN level with fields
func (e *Entry) Warn(msg string) {
	e.logger.log(WarnLevel, msg, nil, e.fields)
}

// Error logs at ERROR level with fields
func (e *Entry) Error(msg string) {
	e.logger.log(ErrorLevel, msg, nil, e.fields)
}

// GetLogger returns a logger derived from the process default.
func GetLogger(prefix string) *Logger {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultLogger == nil {
		defaultLogger = New("earthpath")
		configureFromEnv(defaultLogger)
	}
	return defaultLogger.WithPrefix(prefix)
}

// SetDefaultLevel sets the minimum level on the process default
// logger. Loggers derived afterwards inherit it.
func SetDefaultLevel(level Level) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultLogger == nil {
		defaultLogger = New("earthpath")
		configureFromEnv(defaultLogger)
	}
	defaultLogger.SetLevel(level)
}

// SetDefaultLogger replaces the process default logger.
func SetDefaultLogger(logger *Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = logger
}

func configureFromEnv(l *Logger) {
	if s := os.Getenv("EARTHPATH_LOG_LEVEL"); s != "" {
		l.SetLevel(ParseLevel(s))
	}
	if s := os.Getenv("EARTHPATH_LOG_FORMAT"); s != "" {
		switch strings.ToLower(s) {
		case "json":
			l.SetFormat(FormatJSON)
		case "text":
			l.SetFormat(FormatText)
		}
	}
	if os.Getenv("NO_COLOR") != "" {
		l.SetColorize(false)
	}
}
