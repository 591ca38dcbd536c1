package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gioui.org/io/key"

	"github.com/justyntemme/twinpane/internal/contextmenu"
	"github.com/justyntemme/twinpane/internal/format"
	"github.com/justyntemme/twinpane/internal/fs"
	"github.com/justyntemme/twinpane/internal/indexer"
	"github.com/justyntemme/twinpane/internal/keymap"
	"github.com/justyntemme/twinpane/internal/workspace"
)

type promptKind int

const (
	promptCreateDir promptKind = iota
	promptRename
	promptFilter
	promptEditPath
	promptSearch
	promptConfirmDelete
)

type prompt struct {
	kind    promptKind
	label   string
	input   []rune
	target  string   // rename source
	targets []string // delete confirmation
}

func (o *Orchestrator) openPrompt(kind promptKind, label, initial string) {
	o.prompt = &prompt{kind: kind, label: label, input: []rune(initial)}
	if kind == promptRename {
		o.prompt.target, _ = o.ws.ActiveView().Focused()
	}
}

// promptInsert types r into the open prompt.
func (o *Orchestrator) promptInsert(r rune) {
	p := o.prompt
	if p.kind == promptConfirmDelete {
		o.prompt = nil
		if r == 'y' || r == 'Y' {
			o.deleteTargets(p.targets)
		}
		return
	}
	p.input = append(p.input, r)
	if p.kind == promptFilter {
		o.ws.ActivePane().SetFilter(string(p.input))
	}
}

func (o *Orchestrator) promptKey(c keymap.Chord) {
	p := o.prompt
	switch {
	case isKey(c, key.NameReturn):
		o.prompt = nil
		o.submitPrompt(p)
	case isKey(c, key.NameEscape):
		o.prompt = nil
		if p.kind == promptFilter {
			o.ws.ActivePane().SetFilter("")
		}
	case isKey(c, key.NameDeleteBackward):
		if p.kind == promptConfirmDelete {
			return
		}
		if len(p.input) > 0 {
			p.input = p.input[:len(p.input)-1]
		}
		if p.kind == promptFilter {
			o.ws.ActivePane().SetFilter(string(p.input))
		}
	case c.Key == key.NameSpace && !c.Ctrl && !c.Alt:
		o.promptInsert(' ')
	case p.kind == promptConfirmDelete:
		o.prompt = nil
	}
}

func (o *Orchestrator) submitPrompt(p *prompt) {
	text := strings.TrimSpace(string(p.input))
	side := o.ws.Active()
	switch p.kind {
	case promptConfirmDelete:
		o.deleteTargets(p.targets)
	case promptCreateDir:
		if text != "" {
			o.createDirectory(text)
		}
	case promptRename:
		if text != "" && p.target != "" {
			o.rename(p.target, text)
		}
	case promptFilter:
		// already applied while typing
	case promptEditPath:
		o.editPath(side, text)
	case promptSearch:
		o.runSearch(side, text)
	}
}

func (o *Orchestrator) editPath(side workspace.Side, path string) {
	if path == "" {
		return
	}
	path = fs.NormalizeWSLPath(path)
	e, err := o.svc.FileInfo(context.Background(), path)
	if err != nil {
		o.setError("%s", fs.Describe(err))
		return
	}
	if !e.IsDir {
		o.setError("%s", fs.Describe(fs.NewError(fs.KindNotADirectory, path)))
		return
	}
	o.navigate(side, path)
}

// runSearch lists index matches for query in side. An empty query returns
// the pane to its directory.
func (o *Orchestrator) runSearch(side workspace.Side, query string) {
	if query == "" {
		o.search[side] = ""
		o.loadPane(side)
		return
	}
	o.search[side] = query
	o.ws.Selection(side).Clear()
	o.ws.Selection(side).SetFocusedIndex(0)
	if n, ok := o.rerunSearch(side); ok {
		o.setStatus("%d results for %q", n, query)
	}
}

// rerunSearch replaces side's entries with the current matches. Results
// come straight from memory, so the token is issued and completed at once.
func (o *Orchestrator) rerunSearch(side workspace.Side) (int, bool) {
	p := o.ws.Pane(side)
	tok := p.BeginLoad()
	results, err := o.indexer.Search(o.search[side], 0)
	switch {
	case errors.Is(err, indexer.ErrNotIndexed):
		p.FailLoad(tok, "Index not ready yet")
		return 0, false
	case err != nil:
		p.FailLoad(tok, err.Error())
		return 0, false
	}
	p.CompleteLoad(tok, results)
	return len(results), true
}

func (o *Orchestrator) openMenu(title string, items []contextmenu.Item) {
	if len(items) == 0 {
		return
	}
	o.menuTitle = title
	o.menu.Show(0, 0, items)
	o.menuIndex = 0
	if sel := o.menu.Snapshot().Selectable(); len(sel) > 0 {
		o.menuIndex = sel[0]
	}
}

func (o *Orchestrator) menuKey(c keymap.Chord) {
	m := o.menu.Snapshot()
	sel := m.Selectable()
	pos := 0
	for i, idx := range sel {
		if idx == o.menuIndex {
			pos = i
		}
	}
	switch {
	case isKey(c, key.NameUpArrow) && len(sel) > 0:
		o.menuIndex = sel[(pos-1+len(sel))%len(sel)]
	case isKey(c, key.NameDownArrow) && len(sel) > 0:
		o.menuIndex = sel[(pos+1)%len(sel)]
	case isKey(c, key.NameReturn):
		o.menu.Hide()
		if o.menuIndex >= 0 && o.menuIndex < len(m.Items) {
			o.pickMenu(m.Items[o.menuIndex])
		}
	case isKey(c, key.NameEscape):
		o.menu.Hide()
	}
}

// pickMenu runs a menu item. Items with a target navigate there; the rest
// dispatch their action.
func (o *Orchestrator) pickMenu(it contextmenu.Item) {
	if it.Target != "" {
		o.navigate(o.ws.Active(), it.Target)
		return
	}
	o.dispatch(it.Action)
}

func (o *Orchestrator) shortcut(a keymap.Action) string {
	if chords := o.keys.ChordsFor(a); len(chords) > 0 {
		return chords[0].String()
	}
	return ""
}

func (o *Orchestrator) showPalette() {
	item := func(label string, a keymap.Action) contextmenu.Item {
		return contextmenu.Item{Label: label, Shortcut: o.shortcut(a), Action: a}
	}
	items := []contextmenu.Item{
		item("Copy to other pane", keymap.Copy),
		item("Move to other pane", keymap.Move),
		item("New folder", keymap.CreateDirectory),
		item("Rename", keymap.Rename),
		item("Copy to clipboard", keymap.ClipboardCopy),
		item("Cut to clipboard", keymap.ClipboardCut),
	}
	if !o.clip.IsEmpty() {
		items = append(items, item(fmt.Sprintf("Paste %s", itemCount(len(o.clip.Snapshot().Paths))), keymap.Paste))
	}
	del := item("Move to trash", keymap.Delete)
	del.Danger = true
	items = append(items, del)
	if last, ok := o.undo.Last(); ok {
		items = append(items, item(fmt.Sprintf("Undo %s (%s)", last.Description, format.FormatRelative(last.Timestamp)), keymap.Undo))
	}
	items = append(items,
		contextmenu.Item{Divider: true},
		item("Filter", keymap.StartFilter),
		item("Search index", keymap.GlobalSearch),
		item("Go to path", keymap.EditPath),
		item("Toggle hidden files", keymap.ToggleHidden),
		item("Drives", keymap.ShowDrives),
	)
	if o.bookmarked(o.ws.ActivePane().Snapshot().Path) {
		items = append(items, item("Remove bookmark", keymap.RemoveBookmark))
	} else {
		items = append(items, item("Bookmark this folder", keymap.AddBookmark))
	}
	if o.indexer != nil {
		if o.indexActive() {
			items = append(items, item("Stop indexing", keymap.StopIndexing))
		} else if len(o.indexRoots) > 0 {
			items = append(items, item("Start indexing", keymap.StartIndexing))
		}
		items = append(items, item("Clear index cache", keymap.ClearIndexCache))
	}
	items = append(items, item("Refresh", keymap.Refresh), item("Keys", keymap.Help))

	cfg := o.cfg.Snapshot()
	if len(cfg.Bookmarks) > 0 {
		items = append(items, contextmenu.Item{Divider: true})
		for _, b := range cfg.Bookmarks {
			it := contextmenu.Item{Label: "★ " + b.Name, Target: b.Path}
			if b.Shortcut != nil {
				it.Shortcut = fmt.Sprintf("Ctrl+%d", *b.Shortcut)
			}
			items = append(items, it)
		}
	}
	if len(cfg.RecentPaths) > 0 {
		items = append(items, contextmenu.Item{Divider: true})
		for _, p := range cfg.RecentPaths {
			items = append(items, contextmenu.Item{Label: p, Target: p})
		}
	}
	items = append(items, contextmenu.Item{Divider: true}, item("Quit", keymap.Quit))
	o.openMenu("Actions", items)
}
