// Package contextmenu holds the state of the popup action menu.
package contextmenu

import (
	"sync"

	"github.com/justyntemme/twinpane/internal/keymap"
	"github.com/justyntemme/twinpane/internal/observe"
)

// Item is one menu row. Picking it dispatches Action; Target carries the
// path it applies to when the action needs one (bookmarks, drives).
type Item struct {
	Label    string
	Shortcut string
	Action   keymap.Action
	Target   string
	Danger   bool
	Divider  bool
}

// State is a menu snapshot. Hidden menus keep their last position and items.
type State struct {
	Visible bool
	X, Y    int
	Items   []Item
}

type Store struct {
	mu    sync.RWMutex
	state State
	subs  observe.List[State]
}

func New() *Store { return &Store{} }

func (s *Store) Subscribe(fn func(State)) func() { return s.subs.Subscribe(fn) }

func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.state
	st.Items = append([]Item(nil), st.Items...)
	return st
}

// Show opens the menu at x, y with items.
func (s *Store) Show(x, y int, items []Item) {
	s.set(func(st *State) {
		*st = State{Visible: true, X: x, Y: y, Items: append([]Item(nil), items...)}
	})
}

// Hide closes the menu.
func (s *Store) Hide() {
	s.set(func(st *State) { st.Visible = false })
}

// Selectable returns the indices of items that can be picked.
func (st State) Selectable() []int {
	var out []int
	for i, it := range st.Items {
		if !it.Divider {
			out = append(out, i)
		}
	}
	return out
}

func (s *Store) set(fn func(st *State)) {
	s.mu.Lock()
	fn(&s.state)
	st := s.state
	st.Items = append([]Item(nil), st.Items...)
	s.mu.Unlock()
	s.subs.Publish(st)
}
