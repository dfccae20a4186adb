// Package logger provides logging for the bibrarian CLI.
// When verbose mode is enabled via the --verbose flag, debug messages are
// printed to the log output. Because the TUI owns the terminal, the output
// can be redirected to a file with SetFile before the TUI starts.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
	file    *os.File
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

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// SetFile redirects log output to the file at path, appending if it exists.
// Workers log from background goroutines while the TUI holds the terminal,
// so interactive runs always log to a file.
func SetFile(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if file != nil {
		file.Close()
	}
	file = f
	output = f
	return nil
}

// Close closes the log file if one was opened with SetFile.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if file == nil {
		return nil
	}
	err := file.Close()
	file = nil
	output = os.Stderr
	return err
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "[DEBUG] %s "+format+"\n", prepend(args)...)
	}
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "[INFO]  %s "+format+"\n", prepend(args)...)
	}
}

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "[WARN]  %s "+format+"\n", prepend(args)...)
	}
}

// Error prints an error message. Errors are printed regardless of verbose
// mode: worker failures are recoverable but must never disappear silently.
func Error(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	fmt.Fprintf(output, "[ERROR] %s "+format+"\n", prepend(args)...)
}

// prepend inserts the timestamp argument in front of the caller's args.
func prepend(args []any) []any {
	out := make([]any, 0, len(args)+1)
	out = append(out, time.Now().Format("15:04:05.000"))
	return append(out, args...)
}
