package app

import (
	"context"
	"path/filepath"

	"gioui.org/io/key"
	"github.com/gdamore/tcell/v2"

	"github.com/justyntemme/twinpane/internal/debug"
	"github.com/justyntemme/twinpane/internal/fs"
	"github.com/justyntemme/twinpane/internal/keymap"
	"github.com/justyntemme/twinpane/internal/pane"
	"github.com/justyntemme/twinpane/internal/selection"
	"github.com/justyntemme/twinpane/internal/workspace"
)

// HandleKeyEvent routes a terminal key. Plain runes feed an open prompt;
// everything else becomes a chord.
func (o *Orchestrator) HandleKeyEvent(ev *tcell.EventKey) {
	o.mu.Lock()
	typing := o.prompt != nil && ev.Key() == tcell.KeyRune && ev.Modifiers()&(tcell.ModCtrl|tcell.ModAlt|tcell.ModMeta) == 0
	if typing {
		o.promptInsert(ev.Rune())
		o.mu.Unlock()
		return
	}
	o.mu.Unlock()
	o.HandleChord(keymap.FromTcell(ev))
}

// HandleChord runs the action bound to c, or feeds c to whatever overlay
// currently has the keyboard.
func (o *Orchestrator) HandleChord(c keymap.Chord) {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch {
	case o.showHelp:
		o.showHelp = false
		return
	case o.prompt != nil:
		o.promptKey(c)
		return
	case o.menu.Snapshot().Visible:
		o.menuKey(c)
		return
	}

	action, ok := o.keys.Resolve(c)
	if !ok {
		debug.Log(debug.HOTKEY, "unbound chord %s", c)
		return
	}
	debug.Log(debug.HOTKEY, "%s -> %s", c, action)
	o.status, o.statusErr = "", false
	o.dispatch(action)
}

// Dispatch runs action as if its chord had been pressed.
func (o *Orchestrator) Dispatch(action keymap.Action) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.dispatch(action)
}

func (o *Orchestrator) dispatch(action keymap.Action) {
	side := o.ws.Active()
	view := o.ws.ActiveView()

	if n := action.BookmarkSlot(); n > 0 {
		o.gotoBookmark(n)
		return
	}

	switch action {
	case keymap.NavigateUp:
		o.moveFocus(view, -1)
	case keymap.NavigateDown:
		o.moveFocus(view, 1)
	case keymap.NavigateLeft:
		o.ws.SetActive(workspace.Left)
	case keymap.NavigateRight:
		o.ws.SetActive(workspace.Right)
	case keymap.SwitchPane:
		o.ws.Switch()
	case keymap.FirstItem:
		o.setFocus(view, 0)
	case keymap.LastItem:
		o.setFocus(view, len(view.Pane.Visible())-1)
	case keymap.PageUp:
		o.moveFocus(view, -o.pageSize)
	case keymap.PageDown:
		o.moveFocus(view, o.pageSize)

	case keymap.EnterDirectory:
		o.enter(side, view)
	case keymap.ParentDirectory:
		o.parent(side)

	case keymap.SelectAll:
		view.Sel.SelectAll(view.Pane.VisiblePaths())
	case keymap.ToggleSelection:
		if path, ok := view.Focused(); ok {
			view.Sel.Toggle(path)
			o.moveFocus(view, 1)
		}
	case keymap.ExtendSelectionUp:
		o.extend(view, -1)
	case keymap.ExtendSelectionDown:
		o.extend(view, 1)

	case keymap.Copy:
		o.transfer(fs.OpCopy)
	case keymap.Move:
		o.transfer(fs.OpMove)
	case keymap.Delete:
		o.confirmDelete()
	case keymap.CreateDirectory:
		o.openPrompt(promptCreateDir, "New folder:", "")
	case keymap.Rename:
		if path, ok := view.Focused(); ok {
			o.openPrompt(promptRename, "Rename to:", filepath.Base(path))
		}
	case keymap.Undo:
		o.runUndo()

	case keymap.ClipboardCopy:
		o.stageClipboard(false)
	case keymap.ClipboardCut:
		o.stageClipboard(true)
	case keymap.Paste:
		o.paste()

	case keymap.CommandPalette:
		o.showPalette()
	case keymap.ShowDrives:
		o.showDrives()
	case keymap.GlobalSearch:
		if o.indexer == nil {
			o.setError("Global search needs the index (start with -index)")
			return
		}
		o.openPrompt(promptSearch, "Search index:", o.search[side])
	case keymap.StartFilter:
		o.openPrompt(promptFilter, "Filter:", view.Pane.Snapshot().Filter)
	case keymap.ClearFilter:
		if view.Pane.Snapshot().Filter != "" {
			view.Pane.SetFilter("")
		} else {
			view.Sel.Clear()
		}
	case keymap.EditPath:
		o.openPrompt(promptEditPath, "Go to:", view.Pane.Snapshot().Path)
	case keymap.AddBookmark:
		o.addBookmark(view.Pane.Snapshot().Path)
	case keymap.RemoveBookmark:
		o.removeBookmark(view.Pane.Snapshot().Path)
	case keymap.StartIndexing:
		o.startIndexing()
	case keymap.StopIndexing:
		o.stopIndexing()
	case keymap.ClearIndexCache:
		o.clearIndexCache()
	case keymap.Help:
		o.showHelp = true

	case keymap.ToggleHidden:
		cfg, err := o.cfg.ToggleHidden()
		if err != nil {
			o.setError("%v", err)
			return
		}
		o.ws.Pane(workspace.Left).SetShowHidden(cfg.ShowHidden)
		o.ws.Pane(workspace.Right).SetShowHidden(cfg.ShowHidden)
	case keymap.Refresh:
		o.loadPane(workspace.Left)
		o.loadPane(workspace.Right)
	case keymap.Quit:
		o.quit = true

	case keymap.SortByName:
		o.sort(view, pane.SortName)
	case keymap.SortBySize:
		o.sort(view, pane.SortSize)
	case keymap.SortByDate:
		o.sort(view, pane.SortModified)
	case keymap.SortByExt:
		o.sort(view, pane.SortExtension)

	default:
		debug.Log(debug.APP, "no handler for %s", action)
	}
}

func (o *Orchestrator) setFocus(view workspace.View, i int) {
	n := len(view.Pane.Visible())
	i = min(max(i, 0), max(n-1, 0))
	view.Sel.SetFocusedIndex(i)
}

// moveFocus steps the cursor and ends any range selection.
func (o *Orchestrator) moveFocus(view workspace.View, delta int) {
	o.setFocus(view, view.Sel.Snapshot().FocusedIndex+delta)
	view.Sel.SetAnchorIndex(selection.NoAnchor)
}

func (o *Orchestrator) extend(view workspace.View, delta int) {
	visible := view.Pane.VisiblePaths()
	if len(visible) == 0 {
		return
	}
	st := view.Sel.Snapshot()
	anchor := st.AnchorIndex
	if anchor == selection.NoAnchor {
		anchor = st.FocusedIndex
	}
	focus := min(max(st.FocusedIndex+delta, 0), len(visible)-1)
	view.Sel.SetFocusedIndex(focus)
	view.Sel.SetAnchorIndex(anchor)
	view.Sel.SelectRange(visible, anchor, focus)
}

func (o *Orchestrator) enter(side workspace.Side, view workspace.View) {
	visible := view.Pane.Visible()
	i := view.Sel.Snapshot().FocusedIndex
	if i < 0 || i >= len(visible) {
		return
	}
	e := visible[i]
	if e.IsDir {
		o.navigate(side, e.Path)
		return
	}
	if err := o.opener(e.Path); err != nil {
		o.setError("Cannot open %s: %v", e.Name, err)
	}
}

func (o *Orchestrator) parent(side workspace.Side) {
	p := o.ws.Pane(side)
	if o.search[side] != "" {
		o.search[side] = ""
		o.loadPane(side)
		return
	}
	path := p.Snapshot().Path
	parent, ok := o.svc.ParentDirectory(context.Background(), path)
	if !ok {
		return
	}
	o.focusAfter[side] = filepath.Base(path)
	o.navigate(side, parent)
}

func (o *Orchestrator) sort(view workspace.View, col pane.SortColumn) {
	focused, _ := view.Focused()
	view.Pane.SetSort(col)
	o.refocus(view, focused)
	o.persistPanes()
}

// refocus puts the cursor back on path after the visible order changed.
func (o *Orchestrator) refocus(view workspace.View, path string) {
	if path == "" {
		return
	}
	for i, p := range view.Pane.VisiblePaths() {
		if p == path {
			view.Sel.SetFocusedIndex(i)
			return
		}
	}
}

func isKey(c keymap.Chord, name key.Name) bool {
	return c.Key == name && !c.Ctrl && !c.Alt
}
