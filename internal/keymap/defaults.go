package keymap

import "sync"

var defaultTable = []struct {
	hotkey string
	action Action
}{
	// Navigation
	{"Up", NavigateUp},
	{"Down", NavigateDown},
	{"Left", NavigateLeft},
	{"Right", NavigateRight},
	{"Enter", EnterDirectory},
	{"Backspace", ParentDirectory},
	{"Tab", SwitchPane},
	{"Home", FirstItem},
	{"End", LastItem},
	{"Ctrl+Home", FirstItem},
	{"Ctrl+End", LastItem},
	{"PageUp", PageUp},
	{"PageDown", PageDown},

	// Selection
	{"Ctrl+A", SelectAll},
	{"Space", ToggleSelection},
	{"Shift+Up", ExtendSelectionUp},
	{"Shift+Down", ExtendSelectionDown},

	// File operations
	{"F5", Copy},
	{"F6", Move},
	{"F7", CreateDirectory},
	{"F8", Delete},
	{"Delete", Delete},
	{"F2", Rename},
	{"Ctrl+Z", Undo},

	// UI
	{"Ctrl+P", CommandPalette},
	{"F3", GlobalSearch},
	{"Ctrl+Shift+F", GlobalSearch},
	{"Ctrl+L", EditPath},
	{"/", StartFilter},
	{"Escape", ClearFilter},
	{"F1", Help},

	// Bookmarks
	{"Ctrl+D", AddBookmark},
	{"Ctrl+1", Bookmark1},
	{"Ctrl+2", Bookmark2},
	{"Ctrl+3", Bookmark3},
	{"Ctrl+4", Bookmark4},
	{"Ctrl+5", Bookmark5},
	{"Ctrl+6", Bookmark6},
	{"Ctrl+7", Bookmark7},
	{"Ctrl+8", Bookmark8},
	{"Ctrl+9", Bookmark9},

	// Clipboard and view
	{"Ctrl+C", ClipboardCopy},
	{"Ctrl+X", ClipboardCut},
	{"Ctrl+V", Paste},
	{"Ctrl+H", ToggleHidden},
	{"Alt+H", ToggleHidden},
	{"Alt+D", ShowDrives},
	{"Ctrl+R", Refresh},
	{"Ctrl+Q", Quit},
	{"Alt+1", SortByName},
	{"Alt+2", SortBySize},
	{"Alt+3", SortByDate},
	{"Alt+4", SortByExt},
}

// DefaultBindings returns the built-in bindings in priority order.
func DefaultBindings() []Binding {
	out := make([]Binding, len(defaultTable))
	for i, d := range defaultTable {
		out[i] = Binding{Chord: MustParseChord(d.hotkey), Action: d.action}
	}
	return out
}

var (
	defaultOnce     sync.Once
	defaultResolver *Resolver
)

// Default returns the resolver for DefaultBindings.
func Default() *Resolver {
	defaultOnce.Do(func() {
		r, err := NewResolver(DefaultBindings())
		if err != nil {
			panic(err)
		}
		defaultResolver = r
	})
	return defaultResolver
}

// Match resolves c against the default bindings, returning ActionNone when
// nothing matches.
func Match(c Chord) Action {
	a, _ := Default().Resolve(c)
	return a
}
