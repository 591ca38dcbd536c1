// Package pane holds the listing state of one file pane and derives the
// list the user actually sees from it.
package pane

import (
	"sync"

	"github.com/justyntemme/twinpane/internal/debug"
	"github.com/justyntemme/twinpane/internal/fs"
	"github.com/justyntemme/twinpane/internal/observe"
)

// SortColumn names the field a pane is sorted by.
type SortColumn string

const (
	SortName      SortColumn = "name"
	SortSize      SortColumn = "size"
	SortModified  SortColumn = "modified"
	SortExtension SortColumn = "extension"
)

// Direction is the sort order.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseSortColumn maps a persisted column name back to a SortColumn,
// falling back to name for anything unknown.
func ParseSortColumn(s string) SortColumn {
	switch SortColumn(s) {
	case SortSize, SortModified, SortExtension:
		return SortColumn(s)
	}
	return SortName
}

// State is an immutable snapshot of a pane. Error is empty when the last
// listing succeeded.
type State struct {
	Path          string
	Entries       []fs.Entry
	Loading       bool
	Error         string
	SortColumn    SortColumn
	SortDirection Direction
	Filter        string
	ShowHidden    bool
}

// Token identifies one listing request. Only the most recent token issued by
// a Store may complete a load.
type Token uint64

// Store owns a pane's State. Every mutation publishes the new snapshot.
type Store struct {
	mu      sync.RWMutex
	state   State
	initial string
	token   Token
	subs    observe.List[State]
}

// New returns a store at path with name ascending sort, hidden entries off.
func New(path string) *Store {
	return &Store{state: initialState(path), initial: path}
}

func initialState(path string) State {
	return State{Path: path, SortColumn: SortName, SortDirection: Asc}
}

// Subscribe registers fn for every future snapshot and returns its remover.
func (s *Store) Subscribe(fn func(State)) func() { return s.subs.Subscribe(fn) }

// Snapshot returns the current state. Entries must be treated as read-only.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Store) update(fn func(st *State)) State {
	s.mu.Lock()
	st := s.state
	fn(&st)
	s.state = st
	s.mu.Unlock()

	s.subs.Publish(st)
	return st
}

// SetPath changes location and clears any text filter.
func (s *Store) SetPath(path string) {
	s.update(func(st *State) {
		st.Path = path
		st.Filter = ""
	})
	debug.Log(debug.PANE, "path -> %q", path)
}

// SetEntries replaces the listing and clears loading and error.
func (s *Store) SetEntries(entries []fs.Entry) {
	s.update(func(st *State) {
		st.Entries = entries
		st.Loading = false
		st.Error = ""
	})
}

// SetLoading toggles the in-flight flag and leaves entries alone.
func (s *Store) SetLoading(loading bool) {
	s.update(func(st *State) { st.Loading = loading })
}

// SetError records a listing failure, keeping the stale entries visible.
// An empty msg clears the error.
func (s *Store) SetError(msg string) {
	s.update(func(st *State) {
		st.Error = msg
		st.Loading = false
	})
}

// SetSort toggles direction when column is already current, otherwise
// switches to column ascending.
func (s *Store) SetSort(column SortColumn) {
	s.update(func(st *State) {
		if st.SortColumn == column {
			if st.SortDirection == Asc {
				st.SortDirection = Desc
			} else {
				st.SortDirection = Asc
			}
			return
		}
		st.SortColumn = column
		st.SortDirection = Asc
	})
}

// SetSortState restores a persisted column and direction without toggling.
func (s *Store) SetSortState(column SortColumn, dir Direction) {
	s.update(func(st *State) {
		st.SortColumn = column
		st.SortDirection = dir
	})
}

func (s *Store) SetFilter(filter string) {
	s.update(func(st *State) { st.Filter = filter })
}

func (s *Store) SetShowHidden(show bool) {
	s.update(func(st *State) { st.ShowHidden = show })
}

// Reset restores the state the store was constructed with.
func (s *Store) Reset() {
	s.update(func(st *State) { *st = initialState(s.initial) })
}

// BeginLoad issues a new listing token and marks the pane loading. Any token
// issued earlier becomes stale.
func (s *Store) BeginLoad() Token {
	var tok Token
	s.update(func(st *State) {
		s.token++
		tok = s.token
		st.Loading = true
	})
	return tok
}

// IsCurrent reports whether tok is the latest token issued.
func (s *Store) IsCurrent(tok Token) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return tok == s.token
}

// CompleteLoad applies entries if tok is still current and reports whether it did.
func (s *Store) CompleteLoad(tok Token, entries []fs.Entry) bool {
	if !s.IsCurrent(tok) {
		debug.Log(debug.PANE, "dropping stale listing (token %d)", tok)
		return false
	}
	s.SetEntries(entries)
	return true
}

// FailLoad applies a listing error if tok is still current.
func (s *Store) FailLoad(tok Token, msg string) bool {
	if !s.IsCurrent(tok) {
		debug.Log(debug.PANE, "dropping stale listing error (token %d): %s", tok, msg)
		return false
	}
	s.SetError(msg)
	return true
}

// Visible derives the displayed list from the current snapshot.
func (s *Store) Visible() []fs.Entry {
	return Visible(s.Snapshot())
}

// VisiblePaths returns the paths of Visible in display order.
func (s *Store) VisiblePaths() []string {
	return Paths(s.Visible())
}

// Paths extracts entry paths in order.
func Paths(entries []fs.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Path
	}
	return out
}
