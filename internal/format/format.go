// Package format turns raw entry fields into display strings.
package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

var sizeUnits = []string{"B", "KB", "MB", "GB", "TB"}

// FormatFileSize renders a byte count in base-1024 units with one decimal
// above bytes. A nil size renders as the empty string.
func FormatFileSize(size *int64) string {
	if size == nil {
		return ""
	}
	b := *size
	if b <= 0 {
		return fmt.Sprintf("%d B", b)
	}
	i := 0
	for div := int64(1024); b >= div && i < len(sizeUnits)-1; div *= 1024 {
		i++
	}
	if i == 0 {
		return fmt.Sprintf("%d B", b)
	}
	v := float64(b) / float64(int64(1)<<(10*i))
	return fmt.Sprintf("%.1f %s", v, sizeUnits[i])
}

// FormatDate renders a Unix timestamp relative to now: a clock time for today,
// month and day for this year, the full date otherwise.
func FormatDate(unixSeconds *int64, now time.Time) string {
	if unixSeconds == nil {
		return ""
	}
	t := time.Unix(*unixSeconds, 0).In(now.Location())
	y, m, d := t.Date()
	ny, nm, nd := now.Date()
	switch {
	case y == ny && m == nm && d == nd:
		return t.Format("15:04")
	case y == ny:
		return t.Format("Jan 2, 15:04")
	default:
		return t.Format("Jan 2, 2006")
	}
}

// FormatCount renders n with thousands separators.
func FormatCount(n int) string {
	return humanize.Comma(int64(n))
}

// FormatRelative renders a past time as "3 minutes ago".
func FormatRelative(t time.Time) string {
	return humanize.Time(t)
}

type iconKind struct {
	class string
	glyph string
}

var (
	folderIcon = iconKind{"folder", "📁"}
	fileIcon   = iconKind{"file", "📄"}
)

var iconsByExt = func() map[string]iconKind {
	groups := []struct {
		kind iconKind
		exts string
	}{
		{iconKind{"document", "📄"}, "pdf txt md rtf"},
		{iconKind{"document", "📝"}, "doc docx"},
		{iconKind{"spreadsheet", "📊"}, "xls xlsx csv"},
		{iconKind{"image", "🖼️"}, "jpg jpeg png gif svg webp ico"},
		{iconKind{"video", "🎬"}, "mp4 avi mkv mov webm"},
		{iconKind{"audio", "🎵"}, "mp3 wav flac ogg"},
		{iconKind{"archive", "📦"}, "zip rar 7z tar gz"},
		{iconKind{"code", "⚡"}, "js ts jsx tsx"},
		{iconKind{"code", "🐍"}, "py"},
		{iconKind{"code", "🦀"}, "rs"},
		{iconKind{"code", "🐹"}, "go"},
		{iconKind{"code", "☕"}, "java"},
		{iconKind{"code", "🌐"}, "html"},
		{iconKind{"code", "🎨"}, "css scss"},
		{iconKind{"data", "📋"}, "json xml yaml yml toml"},
		{iconKind{"executable", "⚙️"}, "exe msi sh bat cmd"},
	}
	m := make(map[string]iconKind)
	for _, g := range groups {
		for _, ext := range strings.Fields(g.exts) {
			m[ext] = g.kind
		}
	}
	return m
}()

func lookup(isDir bool, ext string) iconKind {
	if isDir {
		return folderIcon
	}
	if k, ok := iconsByExt[strings.ToLower(ext)]; ok {
		return k
	}
	return fileIcon
}

// FileIcon returns the glyph shown next to an entry.
func FileIcon(isDir bool, ext string) string { return lookup(isDir, ext).glyph }

// IconClass returns a stable class name for an entry, such as "image" or "code".
func IconClass(isDir bool, ext string) string { return lookup(isDir, ext).class }
