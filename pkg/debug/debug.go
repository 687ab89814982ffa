// Package debug provides conditional debug logging for netscope.
//
// Set NETSCOPE_DEBUG to any non-empty value to enable it:
//
//	NETSCOPE_DEBUG=1 netscope --graph network.yaml 2>debug.log
//
// Lines go to stderr with a [NETSCOPE_DEBUG] prefix and a microsecond clock.
// Stderr is hidden behind the alt screen while the explorer runs, so redirect
// it to a file. Disabled calls return before formatting anything.
//
// Packages with a lot to say take a scope so their lines are easy to grep:
//
//	var dlog = debug.Scope("watcher")
//	dlog.Log("poll %s", path)
package debug

import (
	"io"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// EnvVar enables debug output when set to any non-empty value.
const EnvVar = "NETSCOPE_DEBUG"

var (
	enabled atomic.Bool

	mu     sync.Mutex
	logger = newLogger(os.Stderr, log.Ltime|log.Lmicroseconds)
)

func init() {
	enabled.Store(os.Getenv(EnvVar) != "")
}

func newLogger(w io.Writer, flags int) *log.Logger {
	return log.New(w, "["+EnvVar+"] ", flags)
}

// Enabled returns whether debug logging is enabled.
func Enabled() bool {
	return enabled.Load()
}

// SetEnabled switches logging on or off.
func SetEnabled(e bool) {
	enabled.Store(e)
}

// SetOutput redirects debug output without timestamps, mainly for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	logger = newLogger(w, 0)
	mu.Unlock()
}

func printf(format string, args ...any) {
	mu.Lock()
	l := logger
	mu.Unlock()
	l.Printf(format, args...)
}

// Log writes a printf-style message.
func Log(format string, args ...any) {
	if Enabled() {
		printf(format, args...)
	}
}

// LogIf writes a message only when cond holds.
func LogIf(cond bool, format string, args ...any) {
	if cond && Enabled() {
		printf(format, args...)
	}
}

// LogTiming writes how long name took.
func LogTiming(name string, d time.Duration) {
	if Enabled() {
		printf("%s took %v", name, d)
	}
}

// LogEnterExit logs entry now and exit with elapsed time when the returned
// func runs:
//
//	defer debug.LogEnterExit("datasource.Load")()
func LogEnterExit(name string) func() {
	if !Enabled() {
		return func() {}
	}
	printf("-> %s", name)
	start := time.Now()
	return func() {
		printf("<- %s (%v)", name, time.Since(start))
	}
}

// Logger prefixes every line with a component name.
type Logger struct {
	scope string
}

// Scope returns a Logger for one component.
func Scope(name string) Logger {
	return Logger{scope: name + ": "}
}

// Log writes a printf-style message under the scope.
func (l Logger) Log(format string, args ...any) {
	if Enabled() {
		printf(l.scope+format, args...)
	}
}

// LogIf writes under the scope only when cond holds.
func (l Logger) LogIf(cond bool, format string, args ...any) {
	if cond && Enabled() {
		printf(l.scope+format, args...)
	}
}
