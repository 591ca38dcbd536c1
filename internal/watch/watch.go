// Package watch reports debounced directory changes from fsnotify.
package watch

import (
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/justyntemme/twinpane/internal/debug"
)

const defaultDebounce = 200 * time.Millisecond

// Change lists the entries of one watched directory touched since the last
// notification. Paths is empty when the directory itself changed.
type Change struct {
	Dir   string
	Paths []string
}

// DirectoryWatcher watches a set of directories (not recursively) and emits
// one Change per directory once its events have been quiet for the debounce
// interval.
type DirectoryWatcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration

	mu       sync.Mutex
	watching map[string]bool

	notify chan Change
	done   chan struct{}
	once   sync.Once
}

// NewDirectoryWatcher starts a watcher. A non-positive debounce uses 200ms.
func NewDirectoryWatcher(debounce time.Duration) (*DirectoryWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	dw := &DirectoryWatcher{
		watcher:  w,
		debounce: debounce,
		watching: make(map[string]bool),
		notify:   make(chan Change, 64),
		done:     make(chan struct{}),
	}
	go dw.run()
	return dw, nil
}

type pendingDir struct {
	last  time.Time
	paths map[string]bool
}

func (dw *DirectoryWatcher) run() {
	pending := make(map[string]*pendingDir)
	tick := dw.debounce / 2
	if tick <= 0 {
		tick = dw.debounce
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-dw.done:
			return

		case event, ok := <-dw.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) &&
				!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Write) {
				continue
			}
			debug.Log(debug.WATCH, "%s %s", event.Op, event.Name)

			dir, child := filepath.Dir(event.Name), event.Name
			dw.mu.Lock()
			switch {
			case dw.watching[dir]:
			case dw.watching[event.Name]:
				dir, child = event.Name, ""
			default:
				dw.mu.Unlock()
				continue
			}
			dw.mu.Unlock()

			p := pending[dir]
			if p == nil {
				p = &pendingDir{paths: make(map[string]bool)}
				pending[dir] = p
			}
			p.last = time.Now()
			if child != "" {
				p.paths[child] = true
			}

		case err, ok := <-dw.watcher.Errors:
			if !ok {
				return
			}
			debug.Log(debug.WATCH, "fsnotify error: %v", err)

		case now := <-ticker.C:
			for dir, p := range pending {
				if now.Sub(p.last) < dw.debounce {
					continue
				}
				delete(pending, dir)
				c := Change{Dir: dir}
				for path := range p.paths {
					c.Paths = append(c.Paths, path)
				}
				sort.Strings(c.Paths)
				select {
				case dw.notify <- c:
				default:
					debug.Log(debug.WATCH, "notification for %s dropped, channel full", dir)
				}
			}
		}
	}
}

// Watch adds dir. Watching a directory twice is a no-op.
func (dw *DirectoryWatcher) Watch(dir string) error {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	if dw.watching[dir] {
		return nil
	}
	if err := dw.watcher.Add(dir); err != nil {
		return err
	}
	dw.watching[dir] = true
	return nil
}

// Unwatch removes dir. Errors from a directory that has vanished are ignored.
func (dw *DirectoryWatcher) Unwatch(dir string) {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	if !dw.watching[dir] {
		return
	}
	if err := dw.watcher.Remove(dir); err != nil {
		debug.Log(debug.WATCH, "unwatch %s: %v", dir, err)
	}
	delete(dw.watching, dir)
}

// UnwatchAll drops every watched directory.
func (dw *DirectoryWatcher) UnwatchAll() {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	for dir := range dw.watching {
		dw.watcher.Remove(dir)
	}
	dw.watching = make(map[string]bool)
}

// Watching returns the number of watched directories.
func (dw *DirectoryWatcher) Watching() int {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	return len(dw.watching)
}

// Notify delivers debounced changes.
func (dw *DirectoryWatcher) Notify() <-chan Change {
	return dw.notify
}

// Close stops the watcher. It is safe to call more than once.
func (dw *DirectoryWatcher) Close() error {
	var err error
	dw.once.Do(func() {
		close(dw.done)
		err = dw.watcher.Close()
	})
	return err
}
