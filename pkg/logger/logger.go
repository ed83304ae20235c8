// Package logger provides namespaced debug logging controlled by the DEBUG
// environment variable, in the style of the node debug package.
//
// Loggers are created with a namespace such as "parser:bpel" and emit to
// stderr only when the namespace matches one of the comma-separated patterns
// in DEBUG. Patterns support a trailing wildcard ("parser:*"), the bare
// wildcard "*", and exclusions prefixed with "-" ("*,-parser:positions").
package logger

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// Logger emits debug messages for a single namespace.
type Logger struct {
	namespace string
	enabled   bool
	last      time.Time
	mu        sync.Mutex
}

// New returns a logger for the given namespace. Enablement is decided
// against DEBUG at creation time.
func New(namespace string) *Logger {
	return &Logger{
		namespace: namespace,
		enabled:   matches(namespace, os.Getenv("DEBUG")),
	}
}

// Enabled reports whether this logger's namespace is selected by DEBUG.
func (l *Logger) Enabled() bool {
	return l.enabled
}

// Printf formats and writes a debug line using fmt.Printf semantics.
func (l *Logger) Printf(format string, args ...any) {
	if !l.enabled {
		return
	}
	l.write(fmt.Sprintf(format, args...))
}

// Print concatenates its arguments like fmt.Sprint and writes a debug line.
func (l *Logger) Print(args ...any) {
	if !l.enabled {
		return
	}
	l.write(fmt.Sprint(args...))
}

func (l *Logger) write(message string) {
	l.mu.Lock()
	now := time.Now()
	var delta time.Duration
	if !l.last.IsZero() {
		delta = now.Sub(l.last)
	}
	l.last = now
	l.mu.Unlock()
	fmt.Fprintf(os.Stderr, "%s %s +%s\n", l.namespace, message, delta)
}

// matches implements the DEBUG pattern language: comma-separated patterns,
// "*" wildcard suffix, and "-" prefixed exclusions. Exclusions win over
// inclusions regardless of order.
func matches(namespace, debug string) bool {
	if debug == "" {
		return false
	}
	included := false
	for _, pattern := range strings.Split(debug, ",") {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		negate := strings.HasPrefix(pattern, "-")
		if negate {
			pattern = pattern[1:]
		}
		if !matchPattern(namespace, pattern) {
			continue
		}
		if negate {
			return false
		}
		included = true
	}
	return included
}

func matchPattern(namespace, pattern string) bool {
	if pattern == "*" {
		return true
	}
	if strings.HasSuffix(pattern, "*") {
		return strings.HasPrefix(namespace, strings.TrimSuffix(pattern, "*"))
	}
	return namespace == pattern
}
