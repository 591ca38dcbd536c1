package fs

import (
	"os"
	"path/filepath"
	"strings"
)

// Entry is one directory entry as reported by the filesystem collaborator.
// Size and Modified are nil when the collaborator has nothing to report
// (directories carry no size).
type Entry struct {
	Name      string `json:"name"`
	Path      string `json:"path"`
	Extension string `json:"extension,omitempty"`
	Size      *int64 `json:"size,omitempty"`
	Modified  *int64 `json:"modified,omitempty"` // Unix seconds
	IsDir     bool   `json:"is_dir"`
	IsHidden  bool   `json:"is_hidden"`
	IsSymlink bool   `json:"is_symlink"`
}

// SizeOrZero returns the size, treating a missing value as 0.
func (e Entry) SizeOrZero() int64 {
	if e.Size == nil {
		return 0
	}
	return *e.Size
}

// ModifiedOrZero returns the modification time, treating a missing value as 0.
func (e Entry) ModifiedOrZero() int64 {
	if e.Modified == nil {
		return 0
	}
	return *e.Modified
}

// EntryFromInfo builds an Entry from stat output. info describes the link
// target for symlinks, symlink tells whether the path itself is a link.
func EntryFromInfo(path string, info os.FileInfo, symlink bool) Entry {
	name := filepath.Base(path)
	e := Entry{
		Name:      name,
		Path:      path,
		IsDir:     info.IsDir(),
		IsHidden:  strings.HasPrefix(name, "."),
		IsSymlink: symlink,
	}
	mod := info.ModTime().Unix()
	e.Modified = &mod
	if !info.IsDir() {
		size := info.Size()
		e.Size = &size
		e.Extension = strings.TrimPrefix(filepath.Ext(name), ".")
	}
	return e
}
