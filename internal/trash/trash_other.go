//go:build !linux

package trash

import (
	"fmt"
	"os"
	"path/filepath"
)

// Elsewhere entries go to a private trash under the user cache directory.

func filesDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "twinpane", "trash")
}

func moveToTrash(abs string) (string, error) {
	files := filesDir()
	if files == "" {
		return "", fmt.Errorf("trash location unavailable")
	}
	if err := os.MkdirAll(files, 0o700); err != nil {
		return "", fmt.Errorf("cannot create trash directory: %w", err)
	}
	dest := filepath.Join(files, uniqueName(files, filepath.Base(abs)))
	if err := moveFile(abs, dest); err != nil {
		return "", fmt.Errorf("cannot move to trash: %w", err)
	}
	return dest, nil
}

func forget(string) {}
