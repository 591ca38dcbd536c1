// Package undo keeps a bounded most-recent-first stack of reversible operations.
package undo

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/justyntemme/twinpane/internal/debug"
	"github.com/justyntemme/twinpane/internal/observe"
)

// Capacity is the number of entries kept; older ones are evicted.
const Capacity = 50

type Kind string

const (
	KindCopy   Kind = "copy"
	KindMove   Kind = "move"
	KindDelete Kind = "delete"
	KindRename Kind = "rename"
	KindCreate Kind = "create"
)

// Payload carries exactly what reversing one kind of operation needs.
// The implementations in this package are the only ones.
type Payload interface {
	Kind() Kind
	payload()
}

// CopyPayload lists the paths a copy created; undo deletes them.
type CopyPayload struct{ Created []string }

// Move is one relocated path.
type Move struct{ From, To string }

// MovePayload lists the relocations; undo moves each To back to From.
type MovePayload struct{ Moves []Move }

// DeletePayload records where deleted paths were backed up.
type DeletePayload struct {
	TokenID     string
	Paths       []string
	BackupPaths []string
}

// RenamePayload undoes by renaming NewPath back to OldPath.
type RenamePayload struct{ OldPath, NewPath string }

// CreatePayload undoes by deleting Path.
type CreatePayload struct{ Path string }

func (CopyPayload) Kind() Kind   { return KindCopy }
func (MovePayload) Kind() Kind   { return KindMove }
func (DeletePayload) Kind() Kind { return KindDelete }
func (RenamePayload) Kind() Kind { return KindRename }
func (CreatePayload) Kind() Kind { return KindCreate }

func (CopyPayload) payload()   {}
func (MovePayload) payload()   {}
func (DeletePayload) payload() {}
func (RenamePayload) payload() {}
func (CreatePayload) payload() {}

// Entry is one undoable operation.
type Entry struct {
	ID          string
	Kind        Kind
	Description string
	Timestamp   time.Time
	Payload     Payload
}

// Stack is the bounded undo history.
type Stack struct {
	mu      sync.RWMutex
	entries []Entry // most recent first
	now     func() time.Time
	subs    observe.List[[]Entry]
}

// New returns an empty stack using the wall clock.
func New() *Stack {
	return NewWithClock(time.Now)
}

// NewWithClock returns an empty stack stamping entries with now.
func NewWithClock(now func() time.Time) *Stack {
	return &Stack{now: now}
}

func (s *Stack) Subscribe(fn func([]Entry)) func() { return s.subs.Subscribe(fn) }

// Push records an operation with a fresh id and timestamp and returns the entry.
func (s *Stack) Push(description string, p Payload) Entry {
	e := Entry{
		ID:          uuid.NewString(),
		Kind:        p.Kind(),
		Description: description,
		Timestamp:   s.now(),
		Payload:     p,
	}
	s.mu.Lock()
	next := make([]Entry, 0, min(len(s.entries)+1, Capacity))
	next = append(next, e)
	next = append(next, s.entries...)
	if len(next) > Capacity {
		next = next[:Capacity]
	}
	s.entries = next
	snap := s.copyLocked()
	s.mu.Unlock()

	debug.Log(debug.UNDO, "push %s %q (%d on stack)", e.Kind, description, len(snap))
	s.subs.Publish(snap)
	return e
}

// Pop removes and returns the most recent entry.
func (s *Stack) Pop() (Entry, bool) {
	s.mu.Lock()
	if len(s.entries) == 0 {
		s.mu.Unlock()
		return Entry{}, false
	}
	e := s.entries[0]
	s.entries = append([]Entry(nil), s.entries[1:]...)
	snap := s.copyLocked()
	s.mu.Unlock()

	debug.Log(debug.UNDO, "pop %s %q", e.Kind, e.Description)
	s.subs.Publish(snap)
	return e, true
}

// Last returns the most recent entry without removing it.
func (s *Stack) Last() (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.entries) == 0 {
		return Entry{}, false
	}
	return s.entries[0], true
}

func (s *Stack) Clear() {
	s.mu.Lock()
	s.entries = nil
	s.mu.Unlock()
	s.subs.Publish(nil)
}

func (s *Stack) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Entries returns the history, most recent first.
func (s *Stack) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyLocked()
}

func (s *Stack) copyLocked() []Entry {
	return append([]Entry(nil), s.entries...)
}
