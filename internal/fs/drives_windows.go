//go:build windows

package fs

import (
	"context"
	"os/exec"
	"syscall"
	"time"
	"unsafe"

	"github.com/justyntemme/twinpane/internal/debug"
)

var (
	kernel32         = syscall.NewLazyDLL("kernel32.dll")
	getLogicalDrives = kernel32.NewProc("GetLogicalDrives")
	getDriveTypeW    = kernel32.NewProc("GetDriveTypeW")
	getVolumeInfoW   = kernel32.NewProc("GetVolumeInformationW")
)

const (
	driveUnknown   = 0
	driveNoRootDir = 1
	driveRemovable = 2
	driveRemote    = 4
	driveCDROM     = 5
)

// wslListTimeout bounds wsl.exe, which can stall while the WSL VM boots.
const wslListTimeout = 3 * time.Second

// ListDrives returns every lettered volume from A: to Z:. Volume names are
// looked up per drive, which can be slow for disconnected network shares.
func ListDrives() []Drive {
	mask, _, _ := getLogicalDrives.Call()
	var drives []Drive
	for i := 0; i < 26; i++ {
		if mask&(1<<uint(i)) == 0 {
			continue
		}
		letter := string(rune('A' + i))
		path := letter + `:\`
		pathPtr, _ := syscall.UTF16PtrFromString(path)
		kind, _, _ := getDriveTypeW.Call(uintptr(unsafe.Pointer(pathPtr)))
		if kind == driveUnknown || kind == driveNoRootDir {
			continue
		}
		drives = append(drives, Drive{Label: driveLabel(pathPtr, letter, kind), Path: path})
	}
	return drives
}

func driveLabel(pathPtr *uint16, letter string, kind uintptr) string {
	volume := make([]uint16, 256)
	ret, _, _ := getVolumeInfoW.Call(
		uintptr(unsafe.Pointer(pathPtr)),
		uintptr(unsafe.Pointer(&volume[0])),
		uintptr(len(volume)),
		0, 0, 0, 0, 0,
	)
	if ret != 0 {
		if name := syscall.UTF16ToString(volume); name != "" {
			return name + " (" + letter + ":)"
		}
	}
	switch kind {
	case driveRemovable:
		return "Removable (" + letter + ":)"
	case driveCDROM:
		return "CD/DVD (" + letter + ":)"
	case driveRemote:
		return "Network (" + letter + ":)"
	}
	return letter + ": Drive"
}

// ListWSLDistros returns one drive per installed WSL distribution, or nothing
// when WSL is missing.
func ListWSLDistros() []Drive {
	ctx, cancel := context.WithTimeout(context.Background(), wslListTimeout)
	defer cancel()
	cmd := exec.CommandContext(ctx, "wsl.exe", "--list", "--quiet")
	cmd.SysProcAttr = &syscall.SysProcAttr{HideWindow: true}
	out, err := cmd.Output()
	if err != nil {
		debug.Log(debug.FS, "wsl --list: %v", err)
		return nil
	}
	return parseWSLList(out)
}
