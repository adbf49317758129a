// Package log provides structured, categorized logging for the
// orchestration core. It wraps charmbracelet/log with fixed categories
// so every subsystem tags its entries the same way, and is switched on
// via --debug / DUALAGENT_DEBUG the way the rest of this family of tools
// does it.
package log

import (
	"os"
	"sync"

	charmlog "github.com/charmbracelet/log"
)

// Category groups related log messages by subsystem.
type Category string

const (
	CatCycle    Category = "cycle"    // cycle state machine transitions
	CatAgent    Category = "agent"    // builder/reviewer/moderator protocol calls
	CatGuard    Category = "guard"    // allow-list and patch validation
	CatRunner   Category = "runner"   // command execution
	CatSubproto Category = "subproto" // arbiter, diagnostics, moderator, oscillation
	CatConfig   Category = "config"   // config loading
)

var (
	mu      sync.Mutex
	logger  = charmlog.New(os.Stderr)
	enabled = false
)

func init() {
	logger.SetLevel(charmlog.InfoLevel)
	if os.Getenv("DUALAGENT_DEBUG") != "" {
		SetEnabled(true)
	}
}

// SetEnabled toggles debug-level logging on or off.
func SetEnabled(v bool) {
	mu.Lock()
	defer mu.Unlock()
	enabled = v
	if v {
		logger.SetLevel(charmlog.DebugLevel)
	} else {
		logger.SetLevel(charmlog.InfoLevel)
	}
}

// Enabled reports whether debug logging is currently on.
func Enabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}

// Debug logs at debug level, tagged with a category.
func Debug(cat Category, msg string, fields ...any) {
	logger.Debug(msg, append([]any{"cat", string(cat)}, fields...)...)
}

// Info logs at info level, tagged with a category.
func Info(cat Category, msg string, fields ...any) {
	logger.Info(msg, append([]any{"cat", string(cat)}, fields...)...)
}

// Warn logs at warn level, tagged with a category.
func Warn(cat Category, msg string, fields ...any) {
	logger.Warn(msg, append([]any{"cat", string(cat)}, fields...)...)
}

// Error logs at error level, tagged with a category.
func Error(cat Category, msg string, fields ...any) {
	logger.Error(msg, append([]any{"cat", string(cat)}, fields...)...)
}

// ErrorErr logs an error value at error level.
func ErrorErr(cat Category, msg string, err error, fields ...any) {
	fields = append(fields, "error", err)
	Error(cat, msg, fields...)
}
