// Package indexer is the reference index backend: a fastwalk scan cached in
// sqlite and kept fresh with fsnotify. The client only sees it through
// index notifications and Search.
package indexer

import (
	"context"
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charlievieth/fastwalk"
	"github.com/justyntemme/twinpane/internal/debug"
	"github.com/justyntemme/twinpane/internal/fs"
	"github.com/justyntemme/twinpane/internal/index"
	"github.com/justyntemme/twinpane/internal/search"
	"github.com/justyntemme/twinpane/internal/store"
	"github.com/justyntemme/twinpane/internal/watch"
)

const (
	// DefaultLimit caps Search results when the caller passes 0.
	DefaultLimit = 1000
	// ProgressEvery is the number of scanned entries between progress notifications.
	ProgressEvery = 5000
	// CacheMaxAge is how long a saved index skips the scan.
	CacheMaxAge = 24 * time.Hour
	// MaxWatchedDirs bounds inotify usage for large trees.
	MaxWatchedDirs = 8192
)

// ErrNotIndexed is returned by Search before any index exists.
var ErrNotIndexed = errors.New("indexer: no index")

// Manager owns the in-memory index.
type Manager struct {
	db            *store.DB
	debounce      time.Duration
	now           func() time.Time
	progressEvery int

	mu       sync.RWMutex
	entries  map[string]fs.Entry
	roots    []string
	progress index.Progress

	notify chan index.Notification

	runMu  sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New returns an idle manager. db may be nil, in which case nothing is cached.
func New(db *store.DB) *Manager {
	return &Manager{
		db:            db,
		debounce:      500 * time.Millisecond,
		now:           time.Now,
		progressEvery: ProgressEvery,
		entries:       make(map[string]fs.Entry),
		progress:      index.Progress{Status: index.StatusIdle},
		notify:        make(chan index.Notification, 64),
	}
}

// Notifications delivers status changes for index.Projector.Run.
func (m *Manager) Notifications() <-chan index.Notification {
	return m.notify
}

// Status returns the current progress.
func (m *Manager) Status() index.Progress {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.progress
}

// IndexStatus satisfies index.StatusQuerier.
func (m *Manager) IndexStatus(ctx context.Context) (index.Progress, error) {
	if err := ctx.Err(); err != nil {
		return index.Progress{}, err
	}
	return m.Status(), nil
}

// StartIndexing stops any running scan and indexes roots in the background.
func (m *Manager) StartIndexing(ctx context.Context, roots []string) error {
	if len(roots) == 0 {
		return errors.New("indexer: no roots")
	}
	clean := make([]string, len(roots))
	for i, r := range roots {
		clean[i] = filepath.Clean(r)
	}
	sort.Strings(clean)

	m.StopIndexing()

	m.runMu.Lock()
	defer m.runMu.Unlock()
	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.done = make(chan struct{})
	go func(done chan struct{}) {
		defer close(done)
		m.run(runCtx, clean)
	}(m.done)
	return nil
}

// StopIndexing cancels the scan or watch loop and waits for it. The index
// built so far stays searchable.
func (m *Manager) StopIndexing() {
	m.runMu.Lock()
	cancel, done := m.cancel, m.done
	m.cancel, m.done = nil, nil
	m.runMu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	m.setProgress(index.Progress{Status: index.StatusIdle, IndexedCount: m.count()})
}

// ClearCache stops indexing, drops the in-memory index and empties the cache.
func (m *Manager) ClearCache() error {
	m.StopIndexing()
	m.mu.Lock()
	m.entries = make(map[string]fs.Entry)
	m.roots = nil
	m.mu.Unlock()
	m.setProgress(index.Progress{Status: index.StatusIdle})
	if m.db == nil {
		return nil
	}
	return m.db.Clear()
}

// Close stops the manager. The cache database belongs to the caller.
func (m *Manager) Close() {
	m.StopIndexing()
}

// Search returns up to limit entries matching query, ordered by path.
func (m *Manager) Search(query string, limit int) ([]fs.Entry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	q := search.Parse(query, m.now())

	m.mu.RLock()
	if len(m.entries) == 0 {
		m.mu.RUnlock()
		return nil, ErrNotIndexed
	}
	var out []fs.Entry
	for _, e := range m.entries {
		if !q.IsEmpty() && q.Match(e) {
			out = append(out, e)
		}
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	if len(out) > limit {
		out = out[:limit]
	}
	debug.Log(debug.INDEX, "search %q: %d results", query, len(out))
	return out, nil
}

func (m *Manager) count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func (m *Manager) setProgress(p index.Progress) {
	m.mu.Lock()
	m.progress = p
	m.mu.Unlock()
	m.send(index.ProgressNotification{Progress: p})
}

func (m *Manager) setStatus(s index.Status) {
	m.mu.Lock()
	m.progress.Status = s
	m.mu.Unlock()
	m.send(index.StatusNotification{Status: s})
}

// send never blocks. Intermediate scan counts are dropped when the consumer
// lags; any other notification evicts the oldest queued one so the latest
// transition always arrives.
func (m *Manager) send(n index.Notification) {
	if p, ok := n.(index.ProgressNotification); ok && p.Progress.Status == index.StatusScanning && p.Progress.IndexedCount > 0 {
		select {
		case m.notify <- n:
		default:
			debug.Log(debug.INDEX, "progress %d dropped, channel full", p.Progress.IndexedCount)
		}
		return
	}
	for {
		select {
		case m.notify <- n:
			return
		default:
		}
		select {
		case <-m.notify:
			debug.Log(debug.INDEX, "channel full, dropped oldest notification")
		default:
		}
	}
}

func (m *Manager) run(ctx context.Context, roots []string) {
	if m.loadCache(roots) {
		m.watch(ctx, roots)
		return
	}

	entries, err := m.scan(ctx, roots)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		debug.Log(debug.INDEX, "scan failed: %v", err)
		m.setStatus(index.StatusError)
		return
	}

	m.mu.Lock()
	m.entries = entries
	m.roots = roots
	m.mu.Unlock()

	if m.db != nil {
		list := make([]fs.Entry, 0, len(entries))
		for _, e := range entries {
			list = append(list, e)
		}
		if err := m.db.SaveIndex(roots, list); err != nil {
			debug.Log(debug.INDEX, "cache save failed: %v", err)
		}
	}
	m.setProgress(index.Progress{Status: index.StatusWatching, IndexedCount: len(entries)})
	m.watch(ctx, roots)
}

func (m *Manager) loadCache(roots []string) bool {
	if m.db == nil {
		return false
	}
	cached, cachedRoots, fresh, err := m.db.LoadIndex(CacheMaxAge)
	if err != nil {
		debug.Log(debug.INDEX, "cache load failed: %v", err)
		return false
	}
	if !fresh || !sameRoots(roots, cachedRoots) {
		return false
	}
	entries := make(map[string]fs.Entry, len(cached))
	for _, e := range cached {
		entries[e.Path] = e
	}
	m.mu.Lock()
	m.entries = entries
	m.roots = roots
	m.mu.Unlock()
	debug.Log(debug.INDEX, "loaded %d entries from cache", len(entries))
	m.setProgress(index.Progress{Status: index.StatusWatching, IndexedCount: len(entries)})
	return true
}

func sameRoots(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	b = append([]string(nil), b...)
	sort.Strings(b)
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (m *Manager) scan(ctx context.Context, roots []string) (map[string]fs.Entry, error) {
	var (
		mu      sync.Mutex
		entries = make(map[string]fs.Entry)
	)
	m.setProgress(index.Progress{Status: index.StatusScanning})

	for _, root := range roots {
		err := fastwalk.Walk(&fastwalk.Config{Follow: false}, root, func(path string, d iofs.DirEntry, err error) error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if err != nil {
				debug.Log(debug.FS_ENTRY, "index: walk error at %q: %v", path, err)
				return nil
			}
			if path == root {
				return nil
			}
			e, ok := statEntry(path, d)
			if !ok {
				return nil
			}
			// progress is published under mu so counts go out in order
			mu.Lock()
			defer mu.Unlock()
			entries[path] = e
			if n := len(entries); n%m.progressEvery == 0 {
				m.setProgress(index.Progress{Status: index.StatusScanning, IndexedCount: n, CurrentPath: filepath.Dir(path)})
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	debug.Log(debug.INDEX, "scanned %d entries under %v", len(entries), roots)
	return entries, nil
}

func statEntry(path string, d iofs.DirEntry) (fs.Entry, bool) {
	info, err := fastwalk.StatDirEntry(path, d)
	if err != nil {
		if info, err = os.Lstat(path); err != nil {
			return fs.Entry{}, false
		}
	}
	return fs.EntryFromInfo(path, info, d.Type()&iofs.ModeSymlink != 0), true
}

// watch keeps the index current until ctx ends. Without fsnotify the index
// simply goes stale.
func (m *Manager) watch(ctx context.Context, roots []string) {
	w, err := watch.NewDirectoryWatcher(m.debounce)
	if err != nil {
		debug.Log(debug.INDEX, "watcher unavailable: %v", err)
		<-ctx.Done()
		return
	}
	defer w.Close()

	for _, dir := range m.directories(roots) {
		if w.Watching() >= MaxWatchedDirs {
			debug.Log(debug.INDEX, "watch limit %d reached", MaxWatchedDirs)
			break
		}
		if err := w.Watch(dir); err != nil {
			debug.Log(debug.WATCH, "watch %s: %v", dir, err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		case c := <-w.Notify():
			m.applyChange(w, c)
		}
	}
}

func (m *Manager) directories(roots []string) []string {
	dirs := append([]string(nil), roots...)
	m.mu.RLock()
	for _, e := range m.entries {
		if e.IsDir && !e.IsSymlink {
			dirs = append(dirs, e.Path)
		}
	}
	m.mu.RUnlock()
	// shallow directories first so the limit keeps the top of each tree
	sort.Slice(dirs, func(i, j int) bool {
		di, dj := strings.Count(dirs[i], string(filepath.Separator)), strings.Count(dirs[j], string(filepath.Separator))
		if di != dj {
			return di < dj
		}
		return dirs[i] < dirs[j]
	})
	return dirs
}

func (m *Manager) applyChange(w *watch.DirectoryWatcher, c watch.Change) {
	paths := c.Paths
	if len(paths) == 0 {
		paths = []string{c.Dir}
	}

	var upserts []fs.Entry
	var removed []string
	for _, p := range paths {
		info, err := os.Lstat(p)
		if err != nil {
			removed = append(removed, p)
			continue
		}
		symlink := info.Mode()&os.ModeSymlink != 0
		if symlink {
			if target, err := os.Stat(p); err == nil {
				info = target
			}
		}
		e := fs.EntryFromInfo(p, info, symlink)
		upserts = append(upserts, e)
		if e.IsDir && !symlink && w.Watching() < MaxWatchedDirs {
			w.Watch(p)
		}
	}

	m.mu.Lock()
	for _, p := range removed {
		prefix := p + string(filepath.Separator)
		for key := range m.entries {
			if key == p || strings.HasPrefix(key, prefix) {
				delete(m.entries, key)
			}
		}
	}
	for _, e := range upserts {
		if !m.isRoot(e.Path) {
			m.entries[e.Path] = e
		}
	}
	n := len(m.entries)
	m.progress = index.Progress{Status: index.StatusWatching, IndexedCount: n}
	m.mu.Unlock()

	for _, p := range removed {
		w.Unwatch(p)
	}
	if m.db != nil {
		for _, p := range removed {
			if err := m.db.Remove(p); err != nil {
				debug.Log(debug.INDEX, "cache remove %s: %v", p, err)
			}
		}
		if err := m.db.Upsert(upserts); err != nil {
			debug.Log(debug.INDEX, "cache upsert: %v", err)
		}
	}
	debug.Log(debug.INDEX, "change in %s: %d updated, %d removed", c.Dir, len(upserts), len(removed))
	m.send(index.ProgressNotification{Progress: index.Progress{Status: index.StatusWatching, IndexedCount: n}})
}

// isRoot must be called with mu held.
func (m *Manager) isRoot(path string) bool {
	for _, r := range m.roots {
		if r == path {
			return true
		}
	}
	return false
}
