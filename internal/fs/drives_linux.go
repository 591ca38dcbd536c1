//go:build linux

package fs

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var virtualFSTypes = map[string]bool{
	"tmpfs":    true,
	"devtmpfs": true,
	"cgroup":   true,
	"cgroup2":  true,
	"overlay":  true,
	"squashfs": true,
}

var virtualMountRoots = []string{"/sys", "/proc", "/dev", "/run", "/snap", "/boot"}

// ListDrives returns the root filesystem followed by the real mounts in /proc/mounts.
func ListDrives() []Drive {
	f, err := os.Open("/proc/mounts")
	if err != nil {
		return []Drive{{Label: "/ (Root)", Path: "/"}}
	}
	defer f.Close()
	return parseMounts(f)
}

func parseMounts(r io.Reader) []Drive {
	drives := []Drive{{Label: "/ (Root)", Path: "/"}}
	seen := map[string]bool{"/": true}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 3 {
			continue
		}
		mount, fsType := fields[1], fields[2]
		if seen[mount] || virtualFSTypes[fsType] || underVirtualRoot(mount) {
			continue
		}
		seen[mount] = true

		label := mount
		switch {
		case strings.HasPrefix(mount, "/media/"), strings.HasPrefix(mount, "/mnt/"):
			label = filepath.Base(mount)
		case mount == "/home":
			label = "Home"
		}
		drives = append(drives, Drive{Label: label, Path: mount})
	}
	return drives
}

func underVirtualRoot(mount string) bool {
	for _, root := range virtualMountRoots {
		if mount == root || strings.HasPrefix(mount, root+"/") {
			return true
		}
	}
	return false
}
