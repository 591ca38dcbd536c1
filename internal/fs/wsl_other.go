//go:build !windows

package fs

// ListWSLDistros returns nothing outside Windows, where \\wsl$ shares do not exist.
func ListWSLDistros() []Drive { return nil }
