// Package trash moves deleted entries into a recoverable location and puts
// them back when a delete is undone.
package trash

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrOccupied is returned by Restore when something already sits at the original path.
var ErrOccupied = errors.New("restore target already exists")

// MoveToTrash moves path into the trash and returns where it landed.
func MoveToTrash(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return moveToTrash(abs)
}

// Restore moves a trashed entry back to original.
func Restore(trashPath, original string) error {
	if _, err := os.Lstat(original); err == nil {
		return fmt.Errorf("%w: %s", ErrOccupied, original)
	}
	if err := os.MkdirAll(filepath.Dir(original), 0o755); err != nil {
		return err
	}
	if err := moveFile(trashPath, original); err != nil {
		return err
	}
	forget(trashPath)
	return nil
}

// Dir returns the directory trashed entries are moved into.
func Dir() string {
	return filesDir()
}

// uniqueName picks name, name.1.ext, name.2.ext ... until nothing exists in dir.
func uniqueName(dir, base string) string {
	dest := base
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	for i := 1; ; i++ {
		if _, err := os.Lstat(filepath.Join(dir, dest)); os.IsNotExist(err) {
			return dest
		}
		dest = fmt.Sprintf("%s.%d%s", stem, i, ext)
	}
}

// moveFile renames src to dst, copying across devices when rename cannot.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	info, err := os.Lstat(src)
	if err != nil {
		return err
	}
	if info.IsDir() {
		if err := copyDir(src, dst); err != nil {
			return err
		}
	} else if err := copyFile(src, dst, info.Mode()); err != nil {
		return err
	}
	return os.RemoveAll(src)
}

func copyFile(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, mode.Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func copyDir(src, dst string) error {
	return filepath.Walk(src, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(src, p)
		target := filepath.Join(dst, rel)
		if info.IsDir() {
			return os.MkdirAll(target, info.Mode().Perm())
		}
		return copyFile(p, target, info.Mode())
	})
}
