// Package ui draws the two panes and their overlays on a tcell screen. It
// renders whatever State it is handed and holds no file manager state beyond
// scroll offsets.
package ui

import (
	"time"

	"github.com/justyntemme/twinpane/internal/contextmenu"
	"github.com/justyntemme/twinpane/internal/fs"
	"github.com/justyntemme/twinpane/internal/pane"
)

// PaneView is one pane ready for drawing. Entries is the visible list.
type PaneView struct {
	Title         string
	Entries       []fs.Entry
	Selected      map[string]struct{}
	Focused       int
	Loading       bool
	Error         string
	SortColumn    pane.SortColumn
	SortDirection pane.Direction
	Filter        string
	Active        bool
}

// Prompt is a single-line text input shown in the bottom row.
type Prompt struct {
	Label string
	Input string
}

// Menu is the visible context menu with its cursor.
type Menu struct {
	Title string
	Items []contextmenu.Item
	Index int
}

// HelpRow pairs a chord with the action it triggers.
type HelpRow struct {
	Keys   string
	Action string
}

// State is everything one frame shows.
type State struct {
	Panes       [2]PaneView
	Prompt      *Prompt
	Menu        *Menu
	Help        []HelpRow
	Status      string
	StatusError bool
	Index       string
	Clipboard   string
	Progress    string
	Now         time.Time
}
