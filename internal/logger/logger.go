// Package logger provides logging for the docdex CLI. Debug, Info and
// Warn messages are gated behind the --verbose flag and go to stderr
// so they never mix with command output; Error always prints.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer. Defaults to os.Stderr.
// Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	logf("[DEBUG] ", true, format, args...)
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	logf("[INFO] ", true, format, args...)
}

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) {
	logf("[WARN] ", true, format, args...)
}

// Error prints an error message regardless of verbose mode.
func Error(format string, args ...any) {
	logf("[ERROR] ", false, format, args...)
}

func logf(prefix string, gated bool, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if gated && !verbose {
		return
	}
	fmt.Fprintf(output, prefix+format+"\n", args...)
}
