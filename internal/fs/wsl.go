package fs

import (
	"bytes"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

const wslUNCPrefix = `\\wsl$\`

// NormalizeWSLPath rewrites the slash form of a WSL share (/wsl$/Ubuntu/home or
// //wsl$/Ubuntu/home) into the host UNC form (\\wsl$\Ubuntu\home). Other paths
// are returned unchanged.
func NormalizeWSLPath(path string) string {
	switch {
	case strings.HasPrefix(path, "/wsl$/"), strings.HasPrefix(path, `/wsl$\`):
		return wslUNCPrefix + strings.ReplaceAll(path[len("/wsl$/"):], "/", `\`)
	case strings.HasPrefix(path, "//wsl$/"):
		return wslUNCPrefix + strings.ReplaceAll(path[len("//wsl$/"):], "/", `\`)
	}
	return path
}

// parseWSLList reads the output of `wsl.exe --list --quiet`, which is UTF-16LE
// on most Windows builds and UTF-8 when WSL_UTF8 is set. Each distro becomes
// a drive rooted at its \\wsl$ share.
func parseWSLList(out []byte) []Drive {
	if bytes.IndexByte(out, 0) >= 0 {
		dec := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
		if utf8, err := dec.Bytes(out); err == nil {
			out = utf8
		}
	}
	var drives []Drive
	for _, line := range strings.Split(string(out), "\n") {
		name := strings.TrimSpace(strings.Trim(line, "\x00\ufeff"))
		if name == "" {
			continue
		}
		drives = append(drives, Drive{Label: "WSL: " + name, Path: wslUNCPrefix + name})
	}
	return drives
}
