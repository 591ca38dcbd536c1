package app

import (
	"context"
	"path/filepath"

	"github.com/justyntemme/twinpane/internal/config"
	"github.com/justyntemme/twinpane/internal/contextmenu"
	"github.com/justyntemme/twinpane/internal/debug"
	"github.com/justyntemme/twinpane/internal/fs"
	"github.com/justyntemme/twinpane/internal/keymap"
	"github.com/justyntemme/twinpane/internal/pane"
	"github.com/justyntemme/twinpane/internal/watch"
	"github.com/justyntemme/twinpane/internal/workspace"
)

// navigate moves side to path, records it as recent and starts the listing.
func (o *Orchestrator) navigate(side workspace.Side, path string) {
	p := o.ws.Pane(side)
	o.search[side] = ""
	p.SetPath(path)
	sel := o.ws.Selection(side)
	sel.Clear()
	sel.SetFocusedIndex(0)
	o.loadPane(side)
	o.rewatch()

	if _, err := o.cfg.AddRecentPath(path); err != nil {
		debug.Log(debug.CONFIG, "recent path: %v", err)
	}
	o.persistPanes()
}

// loadPane requests a fresh listing. The token makes any older response for
// this pane stale.
func (o *Orchestrator) loadPane(side workspace.Side) {
	if o.search[side] != "" {
		o.rerunSearch(side)
		return
	}
	p := o.ws.Pane(side)
	tok := p.BeginLoad()
	o.submit(fs.Request{Op: fs.OpList, Pane: int(side), Path: p.Snapshot().Path, Gen: int64(tok)})
}

func (o *Orchestrator) completeList(resp fs.Response) {
	side := workspace.Side(resp.Req.Pane)
	p := o.ws.Pane(side)
	tok := pane.Token(resp.Req.Gen)
	if resp.Err != nil {
		p.FailLoad(tok, fs.Describe(resp.Err))
		return
	}
	if !p.CompleteLoad(tok, resp.Entries) {
		return
	}
	if name := o.focusAfter[side]; name != "" {
		o.focusAfter[side] = ""
		o.refocus(o.ws.View(side), filepath.Join(p.Snapshot().Path, name))
	}
}

func (o *Orchestrator) rewatch() {
	if o.watcher == nil {
		return
	}
	o.watcher.UnwatchAll()
	for _, side := range []workspace.Side{workspace.Left, workspace.Right} {
		path := o.ws.Pane(side).Snapshot().Path
		if err := o.watcher.Watch(path); err != nil {
			debug.Log(debug.WATCH, "watch %s: %v", path, err)
		}
	}
}

func (o *Orchestrator) handleChange(c watch.Change) {
	o.mu.Lock()
	for _, side := range []workspace.Side{workspace.Left, workspace.Right} {
		if o.search[side] == "" && o.ws.Pane(side).Snapshot().Path == c.Dir {
			debug.Log(debug.APP, "%s pane changed on disk, reloading", side)
			o.loadPane(side)
		}
	}
	o.mu.Unlock()
	o.invalidate()
}

// persistPanes stores both locations and sort orders in the config.
func (o *Orchestrator) persistPanes() {
	for _, side := range []workspace.Side{workspace.Left, workspace.Right} {
		st := o.ws.Pane(side).Snapshot()
		pc := config.PaneConfig{
			Path:          st.Path,
			SortColumn:    string(st.SortColumn),
			SortAscending: st.SortDirection == pane.Asc,
		}
		cur := o.cfg.Snapshot()
		prev := cur.RightPane
		if side == workspace.Left {
			prev = cur.LeftPane
		}
		if prev == pc {
			continue
		}
		if _, err := o.cfg.SetPane(side == workspace.Left, pc); err != nil {
			debug.Log(debug.CONFIG, "pane state: %v", err)
		}
	}
}

func (o *Orchestrator) gotoBookmark(n int) {
	b, ok := o.cfg.BookmarkFor(n)
	if !ok {
		o.setError("No bookmark on %d", n)
		return
	}
	o.navigate(o.ws.Active(), b.Path)
}

func (o *Orchestrator) addBookmark(path string) {
	name := filepath.Base(path)
	if name == "." || name == string(filepath.Separator) || name == "" {
		name = path
	}
	b := config.Bookmark{Name: name, Path: path}
	if n := o.cfg.FreeShortcut(); n > 0 {
		b.Shortcut = &n
	}
	if _, err := o.cfg.AddBookmark(b); err != nil {
		o.setError("%v", err)
		return
	}
	if b.Shortcut != nil {
		o.setStatus("Bookmarked %s on Ctrl+%d", name, *b.Shortcut)
	} else {
		o.setStatus("Bookmarked %s", name)
	}
}

func (o *Orchestrator) removeBookmark(path string) {
	if !o.bookmarked(path) {
		o.setError("%s is not bookmarked", path)
		return
	}
	if _, err := o.cfg.RemoveBookmark(path); err != nil {
		o.setError("%v", err)
		return
	}
	o.setStatus("Removed bookmark %s", path)
}

func (o *Orchestrator) bookmarked(path string) bool {
	for _, b := range o.cfg.Snapshot().Bookmarks {
		if b.Path == path {
			return true
		}
	}
	return false
}

// showDrives lists mounted volumes, then WSL distributions, then home.
func (o *Orchestrator) showDrives() {
	var items []contextmenu.Item
	drive := func(d fs.Drive) contextmenu.Item {
		return contextmenu.Item{Label: d.Label, Shortcut: d.Path, Action: keymap.ShowDrives, Target: d.Path}
	}
	for _, d := range fs.ListDrives() {
		items = append(items, drive(d))
	}
	if distros := o.distros(); len(distros) > 0 {
		if len(items) > 0 {
			items = append(items, contextmenu.Item{Divider: true})
		}
		for _, d := range distros {
			items = append(items, drive(d))
		}
	}
	if home, ok := o.svc.HomeDirectory(context.Background()); ok {
		items = append(items, contextmenu.Item{Divider: true}, contextmenu.Item{Label: "Home", Shortcut: home, Target: home, Action: keymap.ShowDrives})
	}
	o.openMenu("Drives", items)
}
