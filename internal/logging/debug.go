package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu      sync.Mutex
	output  io.Writer = os.Stderr
	forceOn bool
)

// DebugEnabled returns true if debug output was switched on with Enable or
// the TODO_DEBUG environment variable is set
func DebugEnabled() bool {
	mu.Lock()
	on := forceOn
	mu.Unlock()
	return on || os.Getenv("TODO_DEBUG") != ""
}

// Enable switches debug output on regardless of TODO_DEBUG (used by --verbose)
func Enable(on bool) {
	mu.Lock()
	forceOn = on
	mu.Unlock()
}

// SetOutput redirects debug output and returns the previous writer.
// Debug lines go to stderr by default so command output stays parseable.
func SetOutput(w io.Writer) io.Writer {
	mu.Lock()
	defer mu.Unlock()
	prev := output
	output = w
	return prev
}

// Debugf prints a formatted debug message only if debug mode is enabled
func Debugf(format string, args ...interface{}) {
	if DebugEnabled() {
		mu.Lock()
		fmt.Fprintf(output, format, args...)
		mu.Unlock()
	}
}
