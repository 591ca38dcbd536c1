//go:build linux

package app

import "os/exec"

// platformOpen hands path to the desktop's default application.
func platformOpen(path string) error {
	for _, opener := range [][]string{{"xdg-open"}, {"gio", "open"}} {
		if _, err := exec.LookPath(opener[0]); err == nil {
			return exec.Command(opener[0], append(opener[1:], path)...).Start()
		}
	}
	return exec.ErrNotFound
}
