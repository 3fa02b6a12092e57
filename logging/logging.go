package logging

import (
	"fmt"
	"log"
	"os"
	"sync"
)

// Logger is the leveled logger every handler, device and module writes its
// diagnostics to. Debug lines cover per-dispatch detail and are dropped
// unless debug is on.
type Logger interface {
	DebugEnabled() bool
	SetDebug(enabled bool)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// DefaultLogger prints INFO and DEBUG to stdout and WARN and ERROR to
// stderr, tagged with the tool's prefix.
type DefaultLogger struct {
	mu     sync.Mutex
	debug  bool
	prefix string
	out    *log.Logger
	err    *log.Logger
}

func NewDefaultLogger(prefix string, debug bool) *DefaultLogger {
	flags := log.LstdFlags | log.Lmicroseconds
	return &DefaultLogger{
		debug:  debug,
		prefix: prefix,
		out:    log.New(os.Stdout, "", flags),
		err:    log.New(os.Stderr, "", flags),
	}
}

func (l *DefaultLogger) DebugEnabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.debug
}

func (l *DefaultLogger) SetDebug(enabled bool) {
	l.mu.Lock()
	l.debug = enabled
	l.mu.Unlock()
}

func (l *DefaultLogger) prefixf(level string, format string, args ...any) string {
	if l.prefix != "" {
		return fmt.Sprintf("[%s] %s: %s", l.prefix, level, fmt.Sprintf(format, args...))
	}
	return fmt.Sprintf("%s: %s", level, fmt.Sprintf(format, args...))
}

func (l *DefaultLogger) Debugf(format string, args ...any) {
	if !l.DebugEnabled() {
		return
	}
	l.out.Print(l.prefixf("DEBUG", format, args...))
}

func (l *DefaultLogger) Infof(format string, args ...any) {
	l.out.Print(l.prefixf("INFO", format, args...))
}

func (l *DefaultLogger) Warnf(format string, args ...any) {
	l.err.Print(l.prefixf("WARN", format, args...))
}

func (l *DefaultLogger) Errorf(format string, args ...any) {
	l.err.Print(l.prefixf("ERROR", format, args...))
}

type nopLogger struct{}

// NewNopLogger discards everything. Handlers built without a logger use it.
func NewNopLogger() Logger { return &nopLogger{} }
func (n *nopLogger) DebugEnabled() bool                { return false }
func (n *nopLogger) SetDebug(enabled bool)             {}
func (n *nopLogger) Debugf(format string, args ...any) {}
func (n *nopLogger) Infof(format string, args ...any)  {}
func (n *nopLogger) Warnf(format string, args ...any)  {}
func (n *nopLogger) Errorf(format string, args ...any) {}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l Logger) Logger {
	if l == nil {
		return NewNopLogger()
	}
	return l
}

// Entry is one line captured by a Recorder.
type Entry struct {
	Level   string
	Message string
}

// Recorder keeps every message in memory. Useful for asserting on
// diagnostics in tests and for tools that print a summary at exit.
type Recorder struct {
	mu      sync.Mutex
	debug   bool
	entries []Entry
}

func NewRecorder() *Recorder { return &Recorder{debug: true} }

func (r *Recorder) DebugEnabled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.debug
}

func (r *Recorder) SetDebug(enabled bool) {
	r.mu.Lock()
	r.debug = enabled
	r.mu.Unlock()
}

func (r *Recorder) add(level, format string, args ...any) {
	r.mu.Lock()
	r.entries = append(r.entries, Entry{Level: level, Message: fmt.Sprintf(format, args...)})
	r.mu.Unlock()
}

func (r *Recorder) Debugf(format string, args ...any) {
	if r.DebugEnabled() {
		r.add("DEBUG", format, args...)
	}
}
func (r *Recorder) Infof(format string, args ...any)  { r.add("INFO", format, args...) }
func (r *Recorder) Warnf(format string, args ...any)  { r.add("WARN", format, args...) }
func (r *Recorder) Errorf(format string, args ...any) { r.add("ERROR", format, args...) }

// Entries returns a copy of the recorded lines, optionally filtered by level.
func (r *Recorder) Entries(level string) []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Entry
	for _, e := range r.entries {
		if level == "" || e.Level == level {
			out = append(out, e)
		}
	}
	return out
}
