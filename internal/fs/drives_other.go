//go:build !linux && !darwin && !windows

package fs

import (
	"os"
	"path/filepath"
)

// ListDrives returns the root of the current volume.
func ListDrives() []Drive {
	root := string(filepath.Separator)
	if wd, err := os.Getwd(); err == nil {
		if vol := filepath.VolumeName(wd); vol != "" {
			root = vol + string(filepath.Separator)
		}
	}
	return []Drive{{Label: root, Path: root}}
}
