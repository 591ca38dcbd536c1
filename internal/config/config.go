package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/justyntemme/twinpane/internal/debug"
)

// MaxRecentPaths bounds Config.RecentPaths.
const MaxRecentPaths = 10

// Config is the persisted user configuration.
type Config struct {
	Bookmarks   []Bookmark   `json:"bookmarks"`
	LeftPane    PaneConfig   `json:"left_pane"`
	RightPane   PaneConfig   `json:"right_pane"`
	Window      WindowConfig `json:"window"`
	ShowHidden  bool         `json:"show_hidden"`
	RecentPaths []string     `json:"recent_paths"`
}

// Bookmark is a named path, optionally bound to a Ctrl+1..9 shortcut.
type Bookmark struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Shortcut *int   `json:"shortcut"`
}

// PaneConfig is the remembered location and sort of one pane.
type PaneConfig struct {
	Path          string `json:"path"`
	SortColumn    string `json:"sort_column"`
	SortAscending bool   `json:"sort_ascending"`
}

// WindowConfig is the last window geometry. The terminal front-end has no
// window, so it only carries the value through load and save.
type WindowConfig struct {
	X         *int `json:"x"`
	Y         *int `json:"y"`
	Width     int  `json:"width"`
	Height    int  `json:"height"`
	Maximized bool `json:"maximized"`
}

// Default returns the configuration used when nothing is stored yet.
func Default() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = string(filepath.Separator)
	}
	one := 1
	pane := PaneConfig{Path: home, SortColumn: "name", SortAscending: true}
	return Config{
		Bookmarks:   []Bookmark{{Name: "Home", Path: home, Shortcut: &one}},
		LeftPane:    pane,
		RightPane:   pane,
		Window:      WindowConfig{Width: 1200, Height: 800},
		RecentPaths: []string{},
	}
}

// Clone returns a deep copy.
func (c Config) Clone() Config {
	out := c
	out.Bookmarks = make([]Bookmark, len(c.Bookmarks))
	for i, b := range c.Bookmarks {
		if b.Shortcut != nil {
			s := *b.Shortcut
			b.Shortcut = &s
		}
		out.Bookmarks[i] = b
	}
	out.RecentPaths = append([]string{}, c.RecentPaths...)
	if c.Window.X != nil {
		x := *c.Window.X
		out.Window.X = &x
	}
	if c.Window.Y != nil {
		y := *c.Window.Y
		out.Window.Y = &y
	}
	return out
}

var (
	ErrDuplicateBookmark = errors.New("path is already bookmarked")
	ErrInvalidShortcut   = errors.New("bookmark shortcut must be between 1 and 9")
	ErrShortcutInUse     = errors.New("bookmark shortcut already in use")
)

// Store holds the live configuration. Each successful mutation returns the
// new snapshot and then hands it to the change effect, typically a Saver.
type Store struct {
	mu       sync.RWMutex
	cfg      Config
	onChange func(Config)
}

// NewStore starts from cfg. onChange may be nil.
func NewStore(cfg Config, onChange func(Config)) *Store {
	return &Store{cfg: cfg.Clone(), onChange: onChange}
}

func (s *Store) Snapshot() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Clone()
}

// Set replaces the configuration without triggering the change effect.
// It is meant for the initial load.
func (s *Store) Set(cfg Config) {
	s.mu.Lock()
	s.cfg = cfg.Clone()
	s.mu.Unlock()
}

// mutate applies fn to a copy; a nil error commits the copy and fires the effect.
func (s *Store) mutate(what string, fn func(c *Config) error) (Config, error) {
	s.mu.Lock()
	next := s.cfg.Clone()
	if err := fn(&next); err != nil {
		s.mu.Unlock()
		return s.Snapshot(), err
	}
	s.cfg = next
	s.mu.Unlock()

	debug.Log(debug.CONFIG, "%s", what)
	snap := next.Clone()
	if s.onChange != nil {
		s.onChange(snap.Clone())
	}
	return snap, nil
}

// AddBookmark appends b. Paths are unique and shortcuts, when given, must be
// 1-9 and unused.
func (s *Store) AddBookmark(b Bookmark) (Config, error) {
	return s.mutate("add bookmark "+b.Path, func(c *Config) error {
		for _, existing := range c.Bookmarks {
			if existing.Path == b.Path {
				return fmt.Errorf("%w: %s", ErrDuplicateBookmark, b.Path)
			}
		}
		if b.Shortcut != nil {
			n := *b.Shortcut
			if n < 1 || n > 9 {
				return fmt.Errorf("%w: %d", ErrInvalidShortcut, n)
			}
			for _, existing := range c.Bookmarks {
				if existing.Shortcut != nil && *existing.Shortcut == n {
					return fmt.Errorf("%w: %d (%s)", ErrShortcutInUse, n, existing.Name)
				}
			}
			b.Shortcut = &n
		}
		c.Bookmarks = append(c.Bookmarks, b)
		return nil
	})
}

// RemoveBookmark drops the bookmark for path, if any.
func (s *Store) RemoveBookmark(path string) (Config, error) {
	return s.mutate("remove bookmark "+path, func(c *Config) error {
		kept := c.Bookmarks[:0]
		for _, b := range c.Bookmarks {
			if b.Path != path {
				kept = append(kept, b)
			}
		}
		c.Bookmarks = kept
		return nil
	})
}

// BookmarkFor returns the bookmark bound to shortcut n.
func (s *Store) BookmarkFor(n int) (Bookmark, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.cfg.Bookmarks {
		if b.Shortcut != nil && *b.Shortcut == n {
			return b, true
		}
	}
	return Bookmark{}, false
}

// FreeShortcut returns the lowest unused shortcut, or 0 when all nine are taken.
func (s *Store) FreeShortcut() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	used := map[int]bool{}
	for _, b := range s.cfg.Bookmarks {
		if b.Shortcut != nil {
			used[*b.Shortcut] = true
		}
	}
	for n := 1; n <= 9; n++ {
		if !used[n] {
			return n
		}
	}
	return 0
}

func (s *Store) ToggleHidden() (Config, error) {
	return s.mutate("toggle hidden", func(c *Config) error {
		c.ShowHidden = !c.ShowHidden
		return nil
	})
}

// AddRecentPath moves path to the front of the recent list, dropping any
// older occurrence and anything past MaxRecentPaths.
func (s *Store) AddRecentPath(path string) (Config, error) {
	return s.mutate("recent "+path, func(c *Config) error {
		recent := make([]string, 0, MaxRecentPaths)
		recent = append(recent, path)
		for _, p := range c.RecentPaths {
			if p != path && len(recent) < MaxRecentPaths {
				recent = append(recent, p)
			}
		}
		c.RecentPaths = recent
		return nil
	})
}

// SetPane stores the location and sort of the left or right pane.
func (s *Store) SetPane(left bool, pc PaneConfig) (Config, error) {
	return s.mutate("pane state", func(c *Config) error {
		if left {
			c.LeftPane = pc
		} else {
			c.RightPane = pc
		}
		return nil
	})
}

