//go:build darwin

package fs

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/charlievieth/fastwalk"
)

const volumesDir = "/Volumes"

// ListDrives returns the volumes under /Volumes, boot volume first.
func ListDrives() []Drive {
	var (
		mu    sync.Mutex
		boot  []Drive
		other []Drive
	)

	err := fastwalk.Walk(&fastwalk.Config{Follow: false}, volumesDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || p == volumesDir {
			return nil
		}
		if filepath.Dir(p) != volumesDir {
			if d.IsDir() {
				return fastwalk.SkipDir
			}
			return nil
		}

		if target, lerr := os.Readlink(p); lerr == nil && target == "/" {
			mu.Lock()
			boot = append(boot, Drive{Label: d.Name(), Path: "/"})
			mu.Unlock()
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if _, serr := os.Stat(p); serr == nil {
			mu.Lock()
			other = append(other, Drive{Label: d.Name(), Path: p})
			mu.Unlock()
		}
		return fastwalk.SkipDir
	})
	if err != nil || len(boot)+len(other) == 0 {
		return []Drive{{Label: "Macintosh HD", Path: "/"}}
	}

	sort.Slice(other, func(i, j int) bool { return other[i].Label < other[j].Label })
	return append(boot, other...)
}
