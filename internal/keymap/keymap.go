// Package keymap classifies keyboard chords into logical actions. It knows
// nothing about panes or selection.
package keymap

import (
	"errors"
	"fmt"

	"gioui.org/io/key"
	"github.com/justyntemme/twinpane/internal/debug"
)

// Action is a logical command produced by a chord.
type Action string

const (
	ActionNone Action = ""

	NavigateUp          Action = "navigate_up"
	NavigateDown        Action = "navigate_down"
	NavigateLeft        Action = "navigate_left"
	NavigateRight       Action = "navigate_right"
	EnterDirectory      Action = "enter_directory"
	ParentDirectory     Action = "parent_directory"
	SwitchPane          Action = "switch_pane"
	SelectAll           Action = "select_all"
	ToggleSelection     Action = "toggle_selection"
	ExtendSelectionUp   Action = "extend_selection_up"
	ExtendSelectionDown Action = "extend_selection_down"
	FirstItem           Action = "first_item"
	LastItem            Action = "last_item"
	PageUp              Action = "page_up"
	PageDown            Action = "page_down"
	Copy                Action = "copy"
	Move                Action = "move"
	Delete              Action = "delete"
	CreateDirectory     Action = "create_directory"
	Rename              Action = "rename"
	Undo                Action = "undo"
	CommandPalette      Action = "command_palette"
	GlobalSearch        Action = "global_search"
	StartFilter         Action = "start_filter"
	ClearFilter         Action = "clear_filter"
	EditPath            Action = "edit_path"
	AddBookmark         Action = "add_bookmark"
	Bookmark1           Action = "bookmark_1"
	Bookmark2           Action = "bookmark_2"
	Bookmark3           Action = "bookmark_3"
	Bookmark4           Action = "bookmark_4"
	Bookmark5           Action = "bookmark_5"
	Bookmark6           Action = "bookmark_6"
	Bookmark7           Action = "bookmark_7"
	Bookmark8           Action = "bookmark_8"
	Bookmark9           Action = "bookmark_9"
	Help                Action = "help"

	ClipboardCopy Action = "clipboard_copy"
	ClipboardCut  Action = "clipboard_cut"
	Paste         Action = "paste"
	ToggleHidden  Action = "toggle_hidden"
	ShowDrives    Action = "show_drives"
	Refresh       Action = "refresh"
	Quit          Action = "quit"
	SortByName    Action = "sort_name"
	SortBySize    Action = "sort_size"
	SortByDate    Action = "sort_modified"
	SortByExt     Action = "sort_extension"

	// Palette only, no default chord.
	StartIndexing   Action = "start_indexing"
	StopIndexing    Action = "stop_indexing"
	ClearIndexCache Action = "clear_index_cache"
	RemoveBookmark  Action = "remove_bookmark"
)

// BookmarkSlot returns 1-9 for a bookmark_N action and 0 otherwise.
func (a Action) BookmarkSlot() int {
	if len(a) == len("bookmark_1") && a[:len("bookmark_")] == "bookmark_" {
		if c := a[len(a)-1]; c >= '1' && c <= '9' {
			return int(c - '0')
		}
	}
	return 0
}

// Chord is a key plus the three modifier flags the resolver compares.
// Command/meta is folded into Ctrl by the adapters.
type Chord struct {
	Key   key.Name
	Ctrl  bool
	Shift bool
	Alt   bool
}

// Binding pairs a chord with the action it triggers.
type Binding struct {
	Chord  Chord
	Action Action
}

// ErrDuplicateChord is returned when two bindings share an identical chord.
var ErrDuplicateChord = errors.New("duplicate chord")

// Resolver maps chords to actions. It is immutable after construction and
// safe for concurrent use.
type Resolver struct {
	bindings []Binding
}

// NewResolver builds a resolver. Bindings are tried in the given order.
func NewResolver(bindings []Binding) (*Resolver, error) {
	seen := make(map[Chord]Action, len(bindings))
	for _, b := range bindings {
		if prev, ok := seen[b.Chord]; ok {
			return nil, fmt.Errorf("%w: %s bound to both %s and %s", ErrDuplicateChord, b.Chord, prev, b.Action)
		}
		seen[b.Chord] = b.Action
	}
	return &Resolver{bindings: append([]Binding(nil), bindings...)}, nil
}

// Resolve returns the action of the first binding whose chord matches c
// exactly on key and all three modifiers.
func (r *Resolver) Resolve(c Chord) (Action, bool) {
	for _, b := range r.bindings {
		if b.Chord == c {
			debug.Log(debug.HOTKEY, "%s -> %s", c, b.Action)
			return b.Action, true
		}
	}
	return ActionNone, false
}

// Bindings returns a copy of the bindings in priority order.
func (r *Resolver) Bindings() []Binding {
	return append([]Binding(nil), r.bindings...)
}

// ChordsFor lists every chord bound to a, in priority order.
func (r *Resolver) ChordsFor(a Action) []Chord {
	var out []Chord
	for _, b := range r.bindings {
		if b.Action == a {
			out = append(out, b.Chord)
		}
	}
	return out
}
