package utils

import (
	"fmt"
	"log"
	"os"
	"time"
)

// Logger wraps standard log with level-based output and an optional job tag
// (e.g. "[MOV]", "[ITEMS]") prepended to every line.
type Logger struct {
	tag   string
	info  *log.Logger
	warn  *log.Logger
	error *log.Logger
	debug *log.Logger
}

// NewLogger creates a new leveled logger writing to stdout/stderr.
func NewLogger() *Logger {
	flags := log.Lmsgprefix
	return &Logger{
		info:  log.New(os.Stdout, "[INFO]  ", flags),
		warn:  log.New(os.Stdout, "[WARN]  ", flags),
		error: log.New(os.Stderr, "[ERROR] ", flags),
		debug: log.New(os.Stdout, "[DEBUG] ", flags),
	}
}

// WithTag returns a logger that prefixes every message with the given tag.
// The underlying writers are shared with the receiver.
func (l *Logger) WithTag(tag string) *Logger {
	out := *l
	out.tag = tag
	return &out
}

func (l *Logger) prefix() string {
	if l.tag != "" {
		return fmt.Sprintf(" %s %s ", time.Now().Format("15:04:05"), l.tag)
	}
	return fmt.Sprintf(" %s ", time.Now().Format("15:04:05"))
}

func (l *Logger) Info(msg string, args ...interface{}) {
	l.info.Printf(l.prefix()+msg, args...)
}

func (l *Logger) Warn(msg string, args ...interface{}) {
	l.warn.Printf(l.prefix()+msg, args...)
}

func (l *Logger) Error(msg string, args ...interface{}) {
	l.error.Printf(l.prefix()+msg, args...)
}

func (l *Logger) Debug(msg string, args ...interface{}) {
	l.debug.Printf(l.prefix()+msg, args...)
}
