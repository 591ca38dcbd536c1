//go:build linux

package trash

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// Linux follows the freedesktop.org layout:
//   $XDG_DATA_HOME/Trash/files/  trashed entries
//   $XDG_DATA_HOME/Trash/info/   <name>.trashinfo metadata

func rootDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "Trash")
}

func filesDir() string { return filepath.Join(rootDir(), "files") }
func infoDir() string  { return filepath.Join(rootDir(), "info") }

func moveToTrash(abs string) (string, error) {
	if rootDir() == "" {
		return "", fmt.Errorf("trash location unavailable")
	}
	files, info := filesDir(), infoDir()
	if err := os.MkdirAll(files, 0o700); err != nil {
		return "", fmt.Errorf("cannot create trash files directory: %w", err)
	}
	if err := os.MkdirAll(info, 0o700); err != nil {
		return "", fmt.Errorf("cannot create trash info directory: %w", err)
	}

	name := uniqueName(files, filepath.Base(abs))
	dest := filepath.Join(files, name)
	infoPath := filepath.Join(info, name+".trashinfo")

	content := fmt.Sprintf("[Trash Info]\nPath=%s\nDeletionDate=%s\n",
		url.PathEscape(abs), time.Now().Format("2006-01-02T15:04:05"))
	if err := os.WriteFile(infoPath, []byte(content), 0o600); err != nil {
		return "", fmt.Errorf("cannot create trashinfo file: %w", err)
	}
	if err := moveFile(abs, dest); err != nil {
		os.Remove(infoPath)
		return "", fmt.Errorf("cannot move to trash: %w", err)
	}
	return dest, nil
}

// forget drops the metadata of an entry that has left the trash.
func forget(trashPath string) {
	os.Remove(filepath.Join(infoDir(), filepath.Base(trashPath)+".trashinfo"))
}
