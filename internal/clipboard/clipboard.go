// Package clipboard stages paths for a later paste.
package clipboard

import (
	"sync"

	"github.com/justyntemme/twinpane/internal/debug"
	"github.com/justyntemme/twinpane/internal/observe"
)

type Operation string

const (
	OpNone Operation = "none"
	OpCopy Operation = "copy"
	OpCut  Operation = "cut"
)

// State is the staged set. Paths is empty exactly when Operation is OpNone.
type State struct {
	Paths      []string
	Operation  Operation
	SourcePath string
}

// IsEmpty reports whether nothing is staged.
func (s State) IsEmpty() bool { return s.Operation == OpNone }

// Store owns the process clipboard.
type Store struct {
	mu    sync.RWMutex
	state State
	subs  observe.List[State]
}

func New() *Store {
	return &Store{state: State{Operation: OpNone}}
}

func (s *Store) Subscribe(fn func(State)) func() { return s.subs.Subscribe(fn) }

// Snapshot returns the current state; the Paths slice is a copy.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.state
	st.Paths = append([]string(nil), st.Paths...)
	return st
}

// IsEmpty reports whether a paste currently has anything to do.
func (s *Store) IsEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.IsEmpty()
}

// Copy replaces whatever is staged with paths for copying.
func (s *Store) Copy(paths []string, source string) { s.stage(OpCopy, paths, source) }

// Cut replaces whatever is staged with paths for moving.
func (s *Store) Cut(paths []string, source string) { s.stage(OpCut, paths, source) }

// Clear drops the staged set.
func (s *Store) Clear() { s.set(State{Operation: OpNone}) }

func (s *Store) stage(op Operation, paths []string, source string) {
	if len(paths) == 0 {
		s.Clear()
		return
	}
	s.set(State{
		Paths:      append([]string(nil), paths...),
		Operation:  op,
		SourcePath: source,
	})
	debug.Log(debug.CLIP, "%s %d paths from %q", op, len(paths), source)
}

func (s *Store) set(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()

	st.Paths = append([]string(nil), st.Paths...)
	s.subs.Publish(st)
}
