//go:build !debug

// Package debug provides categorized debug logging.
// This is the no-op version for release builds.
package debug

import "os"

// Enabled indicates whether debug logging is active
const Enabled = false

// Category tags a log line with the subsystem that produced it
type Category string

const (
	APP      Category = "APP"
	PANE     Category = "PANE"
	CLIP     Category = "CLIP"
	UNDO     Category = "UNDO"
	HOTKEY   Category = "HOTKEY"
	INDEX    Category = "INDEX"
	CONFIG   Category = "CONFIG"
	FS       Category = "FS"
	FS_ENTRY Category = "FS_ENTRY"
	WATCH    Category = "WATCH"
)

// SetOutput is a no-op in release builds
func SetOutput(f *os.File) {}

// Log is a no-op in release builds
func Log(cat Category, format string, args ...interface{}) {}

// Enable is a no-op in release builds
func Enable(cat Category) {}

// Disable is a no-op in release builds
func Disable(cat Category) {}

// IsEnabled always returns false in release builds
func IsEnabled(cat Category) bool { return false }
