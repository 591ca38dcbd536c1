//go:build debug

// Package debug provides categorized debug logging.
// Build with -tags debug to enable it; release builds compile every call away.
package debug

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
)

// Enabled indicates whether debug logging is active
const Enabled = true

// Category tags a log line with the subsystem that produced it
type Category string

const (
	APP    Category = "APP"    // Orchestration, dispatch, event loop
	PANE   Category = "PANE"   // Pane and selection transitions
	CLIP   Category = "CLIP"   // Clipboard staging
	UNDO   Category = "UNDO"   // Undo push/pop and inverse execution
	HOTKEY Category = "HOTKEY" // Chord resolution
	INDEX  Category = "INDEX"  // Indexer, projector, index cache
	CONFIG Category = "CONFIG" // Config mutations and saves
	FS     Category = "FS"     // Filesystem collaborator requests

	// Verbose, off unless asked for
	FS_ENTRY Category = "FS_ENTRY" // Per-entry listing output
	WATCH    Category = "WATCH"    // Raw fsnotify traffic
)

var (
	enabledCategories = map[Category]bool{
		APP:    true,
		PANE:   true,
		CLIP:   true,
		UNDO:   true,
		HOTKEY: true,
		INDEX:  true,
		CONFIG: true,
		FS:     true,

		FS_ENTRY: false,
		WATCH:    false,
	}
	categoryMu sync.RWMutex

	logger = log.New(os.Stderr, "", log.Ltime|log.Lmicroseconds)
)

func init() {
	// TWINPANE_DEBUG=all, none, or a comma list such as PANE,UNDO
	env := os.Getenv("TWINPANE_DEBUG")
	if env == "" {
		return
	}
	categoryMu.Lock()
	defer categoryMu.Unlock()

	env = strings.ToUpper(env)
	switch env {
	case "ALL":
		for cat := range enabledCategories {
			enabledCategories[cat] = true
		}
	case "NONE":
		for cat := range enabledCategories {
			enabledCategories[cat] = false
		}
	default:
		for cat := range enabledCategories {
			enabledCategories[cat] = false
		}
		for _, cat := range strings.Split(env, ",") {
			enabledCategories[Category(strings.TrimSpace(cat))] = true
		}
	}
}

// SetOutput redirects debug output. The terminal front-end points it at a file
// so log lines do not tear the screen.
func SetOutput(f *os.File) {
	logger.SetOutput(f)
}

// Log logs a debug message for the specified category
func Log(cat Category, format string, args ...interface{}) {
	categoryMu.RLock()
	enabled := enabledCategories[cat]
	categoryMu.RUnlock()

	if !enabled {
		return
	}
	logger.Printf("[%s] %s", cat, fmt.Sprintf(format, args...))
}

// Enable enables a debug category
func Enable(cat Category) {
	categoryMu.Lock()
	enabledCategories[cat] = true
	categoryMu.Unlock()
}

// Disable disables a debug category
func Disable(cat Category) {
	categoryMu.Lock()
	enabledCategories[cat] = false
	categoryMu.Unlock()
}

// IsEnabled returns whether a category is enabled
func IsEnabled(cat Category) bool {
	categoryMu.RLock()
	defer categoryMu.RUnlock()
	return enabledCategories[cat]
}
