// Package app wires configuration, the X connection, the dispatch
// core and the Lua engine into a runnable daemon.
package app

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level is a log severity. Lines below the logger's level are dropped.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}

func (l Level) String() string {
	if l < LevelDebug || l > LevelError {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// ParseLevel maps a config string to a Level. Unrecognized input
// falls back to LevelInfo so a typo in the rc file never silences
// the daemon.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger writes leveled, timestamped lines to a single writer. The
// handler interfaces elsewhere in the tree are satisfied by *Logger.
type Logger struct {
	mu        sync.Mutex
	level     Level
	out       io.Writer
	component string
}

// NewLogger returns a logger writing to out, or os.Stderr when out is
// nil.
func NewLogger(level Level, out io.Writer) *Logger {
	if out == nil {
		out = os.Stderr
	}
	return &Logger{level: level, out: out}
}

// WithComponent returns a logger that tags each line with a component
// name. The clone shares the parent's output.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{level: l.level, out: l.out, component: component}
}

// SetLevel changes the severity cutoff.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	l.level = level
	l.mu.Unlock()
}

func (l *Logger) Debug(msg string, args ...any) { l.write(LevelDebug, msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.write(LevelInfo, msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.write(LevelWarn, msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.write(LevelError, msg, args...) }

func (l *Logger) write(level Level, msg string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}

	stamp := time.Now().Format("2006-01-02T15:04:05.000")
	if l.component != "" {
		fmt.Fprintf(l.out, "%s [%s] %s: %s\n", stamp, level, l.component, msg)
		return
	}
	fmt.Fprintf(l.out, "%s [%s] %s\n", stamp, level, msg)
}
