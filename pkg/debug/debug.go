// Package debug provides conditional debug logging for orgchart.
//
// Debug logging is enabled by setting the ORGCHART_DEBUG environment variable:
//
//	ORGCHART_DEBUG=1 orgchart tree --query park
//
// When enabled, debug messages are written to stderr with timestamps.
// When disabled (default), all debug functions are no-ops with zero overhead.
//
// Usage:
//
//	import "github.com/vanderheijden86/orgchart/pkg/debug"
//
//	func Reload(ctx context.Context) error {
//	    defer debug.LogEnterExit("server.Reload")()
//	    debug.Log("linked %d records", count)
//	}
package debug

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"
)

// EnvVar enables debug output when set to any non-empty value.
const EnvVar = "ORGCHART_DEBUG"

var (
	// enabled is true when ORGCHART_DEBUG is set
	enabled bool
	logger  *log.Logger
)

func newLogger(w io.Writer) *log.Logger {
	return log.New(w, "[orgchart] ", log.Ltime|log.Lmicroseconds)
}

// SetOutput redirects debug output, enabling it. Used by tests and by the
// TUI, which cannot share stderr with the alternate screen.
func SetOutput(w io.Writer) {
	enabled = true
	logger = newLogger(w)
}

func init() {
	if os.Getenv(EnvVar) != "" {
		enabled = true
		logger = newLogger(os.Stderr)
	}
}

// Enabled returns whether debug logging is enabled.
func Enabled() bool {
	return enabled
}

// Log writes a debug message if debug logging is enabled.
// Uses printf-style formatting.
func Log(format string, args ...any) {
	if !enabled {
		return
	}
	logger.Printf(format, args...)
}

// LogTiming writes a timing message if debug logging is enabled.
func LogTiming(name string, d time.Duration) {
	if !enabled {
		return
	}
	logger.Printf("%s took %v", name, d)
}

// LogEnterExit logs function entry and exit with timing.
//
//	defer debug.LogEnterExit("Materialize")()
func LogEnterExit(name string) func() {
	if !enabled {
		return func() {}
	}
	logger.Printf("-> %s", name)
	start := time.Now()
	return func() {
		logger.Printf("<- %s (%v)", name, time.Since(start))
	}
}

// Assert logs a message and panics if the condition is false.
// Only active when debug is enabled.
func Assert(cond bool, msg string) {
	if !enabled {
		return
	}
	if !cond {
		logger.Printf("ASSERTION FAILED: %s", msg)
		panic(fmt.Sprintf("debug assertion failed: %s", msg))
	}
}
