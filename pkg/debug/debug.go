// Package debug provides conditional debug logging for stv.
//
// Debug logging is enabled by setting the STV_DEBUG environment variable:
//
//	STV_DEBUG=1 stv outline.yaml 2>debug.log
//
// When disabled (the default) every function returns immediately.
package debug

import (
	"io"
	"log"
	"os"
	"sync"
	"time"
)

const prefix = "[STV_DEBUG] "

var (
	mu      sync.Mutex
	enabled bool
	logger  *log.Logger
)

func init() {
	if os.Getenv("STV_DEBUG") != "" {
		SetEnabled(true)
	}
}

// Enabled returns whether debug logging is enabled.
func Enabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}

// SetEnabled turns debug logging on or off. The first enable creates a logger
// writing to stderr.
func SetEnabled(e bool) {
	mu.Lock()
	defer mu.Unlock()
	enabled = e
	if e && logger == nil {
		logger = log.New(os.Stderr, prefix, log.Ltime|log.Lmicroseconds)
	}
}

// SetOutput redirects debug output. Mostly useful in tests and when the TUI
// owns stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger = log.New(w, prefix, log.Ltime|log.Lmicroseconds)
}

func current() *log.Logger {
	mu.Lock()
	defer mu.Unlock()
	if !enabled {
		return nil
	}
	return logger
}

// Log writes a printf-style debug message.
func Log(format string, args ...any) {
	if l := current(); l != nil {
		l.Printf(format, args...)
	}
}

// LogIf writes a debug message only if cond is true.
func LogIf(cond bool, format string, args ...any) {
	if !cond {
		return
	}
	Log(format, args...)
}

// LogTiming writes a timing message.
func LogTiming(name string, d time.Duration) {
	if l := current(); l != nil {
		l.Printf("%s took %v", name, d)
	}
}

// Trace logs entry to name and returns a func that logs the exit with timing:
//
//	defer debug.Trace("reload")()
func Trace(name string) func() {
	l := current()
	if l == nil {
		return func() {}
	}
	l.Printf("-> %s", name)
	start := time.Now()
	return func() {
		l.Printf("<- %s (%v)", name, time.Since(start))
	}
}
