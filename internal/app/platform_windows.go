//go:build windows

package app

import "os/exec"

// platformOpen opens the file using the Windows 'start' command.
func platformOpen(path string) error {
	// the empty argument is the window title start expects before the path
	return exec.Command("cmd", "/c", "start", "", path).Start()
}
