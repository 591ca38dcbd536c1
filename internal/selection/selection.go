// Package selection tracks which entries of a pane are selected and where the
// keyboard cursor sits. Indices refer to the pane's visible list, which the
// caller supplies; the store never owns it.
package selection

import (
	"sort"
	"sync"

	"github.com/justyntemme/twinpane/internal/debug"
	"github.com/justyntemme/twinpane/internal/observe"
)

// NoAnchor means no range selection is in progress.
const NoAnchor = -1

// State is a snapshot of one pane's selection. Selected may name paths that
// are no longer visible.
type State struct {
	Selected     map[string]struct{}
	FocusedIndex int
	AnchorIndex  int
}

// Has reports whether path is selected.
func (s State) Has(path string) bool {
	_, ok := s.Selected[path]
	return ok
}

// Len returns the number of selected paths.
func (s State) Len() int { return len(s.Selected) }

// Store owns a selection State.
type Store struct {
	mu    sync.RWMutex
	state State
	subs  observe.List[State]
}

func New() *Store {
	return &Store{state: State{Selected: map[string]struct{}{}, AnchorIndex: NoAnchor}}
}

func (s *Store) Subscribe(fn func(State)) func() { return s.subs.Subscribe(fn) }

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

func (st State) clone() State {
	sel := make(map[string]struct{}, len(st.Selected))
	for p := range st.Selected {
		sel[p] = struct{}{}
	}
	st.Selected = sel
	return st
}

func (s *Store) update(fn func(st *State)) {
	s.mu.Lock()
	st := s.state.clone()
	fn(&st)
	s.state = st
	snap := st.clone()
	s.mu.Unlock()

	s.subs.Publish(snap)
}

// IsSelected reports whether path is currently selected.
func (s *Store) IsSelected(path string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Has(path)
}

// Select makes path the only selected entry and drops the range anchor.
func (s *Store) Select(path string) {
	s.update(func(st *State) {
		st.Selected = map[string]struct{}{path: {}}
		st.AnchorIndex = NoAnchor
	})
}

// Toggle adds path if absent and removes it if present.
func (s *Store) Toggle(path string) {
	s.update(func(st *State) {
		if st.Has(path) {
			delete(st.Selected, path)
		} else {
			st.Selected[path] = struct{}{}
		}
	})
}

// Add selects path. Adding a selected path is a no-op.
func (s *Store) Add(path string) {
	s.update(func(st *State) { st.Selected[path] = struct{}{} })
}

// SelectRange replaces the selection with visible[min(from,to)..max(from,to)].
// Indices outside visible are clamped.
func (s *Store) SelectRange(visible []string, from, to int) {
	if from > to {
		from, to = to, from
	}
	if from < 0 {
		from = 0
	}
	if to > len(visible)-1 {
		to = len(visible) - 1
	}
	s.update(func(st *State) {
		st.Selected = make(map[string]struct{})
		for i := from; i <= to; i++ {
			st.Selected[visible[i]] = struct{}{}
		}
	})
	debug.Log(debug.PANE, "range select %d..%d", from, to)
}

// SelectAll replaces the selection with every path in visible.
func (s *Store) SelectAll(visible []string) {
	s.update(func(st *State) {
		st.Selected = make(map[string]struct{}, len(visible))
		for _, p := range visible {
			st.Selected[p] = struct{}{}
		}
	})
}

// Clear empties the selection and drops the anchor. Focus is kept.
func (s *Store) Clear() {
	s.update(func(st *State) {
		st.Selected = map[string]struct{}{}
		st.AnchorIndex = NoAnchor
	})
}

func (s *Store) SetFocusedIndex(i int) {
	s.update(func(st *State) { st.FocusedIndex = i })
}

// SetAnchorIndex sets the range anchor; pass NoAnchor to drop it.
func (s *Store) SetAnchorIndex(i int) {
	s.update(func(st *State) { st.AnchorIndex = i })
}

// ClampFocus keeps the focus and anchor inside a visible list of length n.
// An empty list parks both at their neutral values.
func (s *Store) ClampFocus(n int) {
	s.mu.RLock()
	f, a := s.state.FocusedIndex, s.state.AnchorIndex
	s.mu.RUnlock()

	nf, na := clamp(f, n), a
	if a != NoAnchor && (n == 0 || a >= n) {
		na = NoAnchor
	}
	if nf == f && na == a {
		return
	}
	s.update(func(st *State) {
		st.FocusedIndex = nf
		st.AnchorIndex = na
	})
}

func clamp(i, n int) int {
	switch {
	case n <= 0 || i < 0:
		return 0
	case i >= n:
		return n - 1
	}
	return i
}

// Ordered returns the selected paths in visible order, followed by selected
// paths that are not visible in lexical order.
func (s *Store) Ordered(visible []string) []string {
	st := s.Snapshot()
	out := make([]string, 0, len(st.Selected))
	seen := make(map[string]bool, len(st.Selected))
	for _, p := range visible {
		if st.Has(p) && !seen[p] {
			out = append(out, p)
			seen[p] = true
		}
	}
	var rest []string
	for p := range st.Selected {
		if !seen[p] {
			rest = append(rest, p)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}
