// Package workspace ties the two panes together and tracks which one has
// keyboard focus.
package workspace

import (
	"sync"

	"github.com/justyntemme/twinpane/internal/debug"
	"github.com/justyntemme/twinpane/internal/observe"
	"github.com/justyntemme/twinpane/internal/pane"
	"github.com/justyntemme/twinpane/internal/selection"
)

type Side int

const (
	Left Side = iota
	Right
)

// Other returns the opposite side.
func (s Side) Other() Side {
	if s == Left {
		return Right
	}
	return Left
}

func (s Side) String() string {
	if s == Left {
		return "left"
	}
	return "right"
}

// Workspace owns both panes and their selections. The active side is the
// implicit source of commands, the inactive side the default destination.
type Workspace struct {
	mu     sync.RWMutex
	active Side
	panes  [2]*pane.Store
	sels   [2]*selection.Store
	subs   observe.List[Side]
}

// New builds a workspace with fresh panes at leftPath and rightPath.
// The left pane starts active.
func New(leftPath, rightPath string) *Workspace {
	w := &Workspace{
		panes: [2]*pane.Store{pane.New(leftPath), pane.New(rightPath)},
		sels:  [2]*selection.Store{selection.New(), selection.New()},
	}
	for _, side := range []Side{Left, Right} {
		sel := w.sels[side]
		w.panes[side].Subscribe(func(st pane.State) {
			sel.ClampFocus(len(pane.Visible(st)))
		})
	}
	return w
}

func (w *Workspace) Subscribe(fn func(Side)) func() { return w.subs.Subscribe(fn) }

func (w *Workspace) Active() Side {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.active
}

func (w *Workspace) SetActive(side Side) {
	w.mu.Lock()
	changed := w.active != side
	w.active = side
	w.mu.Unlock()
	if changed {
		debug.Log(debug.PANE, "active pane -> %s", side)
		w.subs.Publish(side)
	}
}

// Switch flips the active pane and returns the new active side.
func (w *Workspace) Switch() Side {
	side := w.Active().Other()
	w.SetActive(side)
	return side
}

// View returns the pane and selection of side.
func (w *Workspace) View(side Side) View { return View{Pane: w.panes[side], Sel: w.sels[side]} }

// ActiveView returns the view of the active side.
func (w *Workspace) ActiveView() View { return w.View(w.Active()) }

func (w *Workspace) Pane(side Side) *pane.Store           { return w.panes[side] }
func (w *Workspace) Selection(side Side) *selection.Store { return w.sels[side] }
func (w *Workspace) ActivePane() *pane.Store              { return w.panes[w.Active()] }
func (w *Workspace) InactivePane() *pane.Store            { return w.panes[w.Active().Other()] }
func (w *Workspace) ActiveSelection() *selection.Store    { return w.sels[w.Active()] }
func (w *Workspace) InactiveSelection() *selection.Store  { return w.sels[w.Active().Other()] }

// View bundles one side's pane with its selection.
type View struct {
	Pane *pane.Store
	Sel  *selection.Store
}

// Focused returns the path under the cursor, if the visible list is not empty.
func (v View) Focused() (string, bool) {
	visible := v.Pane.VisiblePaths()
	i := v.Sel.Snapshot().FocusedIndex
	if i < 0 || i >= len(visible) {
		return "", false
	}
	return visible[i], true
}

// Targets returns the selected paths in display order, or the focused entry
// when nothing is selected.
func (v View) Targets() []string {
	visible := v.Pane.VisiblePaths()
	if v.Sel.Snapshot().Len() > 0 {
		return v.Sel.Ordered(visible)
	}
	if i := v.Sel.Snapshot().FocusedIndex; i >= 0 && i < len(visible) {
		return []string{visible[i]}
	}
	return nil
}
