package app

import (
	"path/filepath"

	"github.com/justyntemme/twinpane/internal/clipboard"
	"github.com/justyntemme/twinpane/internal/debug"
	"github.com/justyntemme/twinpane/internal/fs"
	"github.com/justyntemme/twinpane/internal/undo"
	"github.com/justyntemme/twinpane/internal/workspace"
)

// track registers a mutating request and returns its id.
func (o *Orchestrator) track(tag opTag) int64 {
	o.nextOp++
	o.ops[o.nextOp] = tag
	return o.nextOp
}

// transfer copies or moves the active pane's targets into the inactive pane.
func (o *Orchestrator) transfer(op fs.OpType) {
	sources := o.ws.ActiveView().Targets()
	if len(sources) == 0 {
		o.setError("Nothing selected")
		return
	}
	dest := o.ws.InactivePane().Snapshot().Path
	o.ws.InactiveSelection().Clear()
	o.submitTransfer(op, sources, dest, false)
}

func (o *Orchestrator) submitTransfer(op fs.OpType, sources []string, dest string, paste bool) {
	verb, label := "Copy", "Copying…"
	if op == fs.OpMove {
		verb, label = "Move", "Moving…"
	}
	desc := verb + " " + describePaths(sources) + " to " + dest
	id := o.track(opTag{paste: paste, description: desc})
	o.progress = label
	o.submit(fs.Request{Op: op, Pane: int(o.ws.Active()), Sources: sources, Dest: dest, Gen: id})
}

func (o *Orchestrator) confirmDelete() {
	targets := o.ws.ActiveView().Targets()
	if len(targets) == 0 {
		o.setError("Nothing selected")
		return
	}
	o.openPrompt(promptConfirmDelete, "Move "+describePaths(targets)+" to trash? (y/n)", "")
	o.prompt.targets = targets
}

func (o *Orchestrator) deleteTargets(targets []string) {
	id := o.track(opTag{description: "Delete " + describePaths(targets)})
	o.submit(fs.Request{Op: fs.OpDelete, Pane: int(o.ws.Active()), Sources: targets, Gen: id})
}

func (o *Orchestrator) createDirectory(name string) {
	parent := o.ws.ActivePane().Snapshot().Path
	id := o.track(opTag{focus: name, description: "Create folder " + name})
	o.submit(fs.Request{Op: fs.OpCreateDir, Pane: int(o.ws.Active()), Path: parent, Name: name, Gen: id})
}

func (o *Orchestrator) rename(path, name string) {
	if name == filepath.Base(path) {
		return
	}
	id := o.track(opTag{focus: name, description: "Rename " + filepath.Base(path) + " to " + name})
	o.submit(fs.Request{Op: fs.OpRename, Pane: int(o.ws.Active()), Path: path, Name: name, Gen: id})
}

func (o *Orchestrator) stageClipboard(cut bool) {
	view := o.ws.ActiveView()
	targets := view.Targets()
	if len(targets) == 0 {
		o.setError("Nothing selected")
		return
	}
	source := view.Pane.Snapshot().Path
	if cut {
		o.clip.Cut(targets, source)
		o.setStatus("Cut %s", itemCount(len(targets)))
	} else {
		o.clip.Copy(targets, source)
		o.setStatus("Copied %s to clipboard", itemCount(len(targets)))
	}
	debug.Log(debug.CLIP, "staged %d paths (cut=%v) from %s", len(targets), cut, source)
}

// paste runs the staged clipboard operation into the active pane. The
// clipboard is cleared only once the operation succeeds.
func (o *Orchestrator) paste() {
	c := o.clip.Snapshot()
	if c.IsEmpty() {
		o.setError("Clipboard is empty")
		return
	}
	op := fs.OpCopy
	if c.Operation == clipboard.OpCut {
		op = fs.OpMove
	}
	o.submitTransfer(op, c.Paths, o.ws.ActivePane().Snapshot().Path, true)
}

// HandleResponse applies a filesystem response to the stores.
func (o *Orchestrator) HandleResponse(resp fs.Response) {
	o.mu.Lock()
	o.handleResponse(resp)
	o.mu.Unlock()
	o.invalidate()
}

func (o *Orchestrator) handleResponse(resp fs.Response) {
	req := resp.Req
	if req.Op == fs.OpList {
		o.completeList(resp)
		return
	}

	tag := o.ops[req.Gen]
	delete(o.ops, req.Gen)
	o.progress = ""

	if req.Undo {
		o.finishUndo(resp, tag)
		return
	}
	if resp.Err != nil {
		o.setError("%s failed: %s", tag.description, fs.Describe(resp.Err))
		o.reloadAll()
		return
	}

	side := workspace.Side(req.Pane)
	switch req.Op {
	case fs.OpCopy:
		o.undo.Push(tag.description, undo.CopyPayload{Created: resp.Created})
		o.setStatus("Copied %s", itemCount(len(resp.Created)))
	case fs.OpMove:
		var moves []undo.Move
		for _, src := range req.Sources {
			to := filepath.Join(req.Dest, filepath.Base(src))
			if to != src {
				moves = append(moves, undo.Move{From: src, To: to})
			}
		}
		if len(moves) > 0 {
			o.undo.Push(tag.description, undo.MovePayload{Moves: moves})
		}
		o.setStatus("Moved %s", itemCount(len(req.Sources)))
	case fs.OpDelete:
		o.undo.Push(tag.description, undo.DeletePayload{
			TokenID:     resp.Token.ID,
			Paths:       resp.Token.Paths,
			BackupPaths: resp.Token.BackupPaths,
		})
		o.setStatus("Moved %s to trash", itemCount(len(req.Sources)))
	case fs.OpCreateDir:
		o.undo.Push(tag.description, undo.CreatePayload{Path: resp.NewPath})
		o.setStatus("Created %s", filepath.Base(resp.NewPath))
	case fs.OpRename:
		o.undo.Push(tag.description, undo.RenamePayload{OldPath: req.Path, NewPath: resp.NewPath})
		o.setStatus("Renamed to %s", filepath.Base(resp.NewPath))
	}

	if tag.paste {
		o.clip.Clear()
	}
	o.ws.Selection(side).Clear()
	if tag.focus != "" {
		o.focusAfter[side] = tag.focus
	}
	o.reloadAll()
}

func (o *Orchestrator) reloadAll() {
	o.loadPane(workspace.Left)
	o.loadPane(workspace.Right)
}

// runUndo pops the newest entry and submits its inverse. Only one undo runs
// at a time; the entry is gone whether or not the inverse succeeds.
func (o *Orchestrator) runUndo() {
	if o.undoPending > 0 {
		o.setError("Undo already in progress")
		return
	}
	entry, ok := o.undo.Pop()
	if !ok {
		o.setStatus("Nothing to undo")
		return
	}
	reqs := inverse(entry)
	if len(reqs) == 0 {
		o.setError("Cannot undo %s", entry.Description)
		return
	}
	debug.Log(debug.UNDO, "undo %s (%s): %d requests", entry.Kind, entry.Description, len(reqs))
	for _, req := range reqs {
		req.Undo = true
		req.Pane = int(o.ws.Active())
		req.Gen = o.track(opTag{description: entry.Description, undoKind: entry.Kind})
		o.undoPending++
		o.submit(req)
	}
	o.progress = "Undoing " + entry.Description
}

// inverse builds the requests that reverse entry.
func inverse(entry undo.Entry) []fs.Request {
	switch p := entry.Payload.(type) {
	case undo.CopyPayload:
		if len(p.Created) == 0 {
			return nil
		}
		return []fs.Request{{Op: fs.OpDelete, Sources: p.Created}}
	case undo.MovePayload:
		// group by original directory so each request has one destination
		var reqs []fs.Request
		byDir := map[string]int{}
		for _, m := range p.Moves {
			dir := filepath.Dir(m.From)
			i, ok := byDir[dir]
			if !ok {
				i = len(reqs)
				byDir[dir] = i
				reqs = append(reqs, fs.Request{Op: fs.OpMove, Dest: dir})
			}
			reqs[i].Sources = append(reqs[i].Sources, m.To)
		}
		return reqs
	case undo.DeletePayload:
		return []fs.Request{{Op: fs.OpRestore, Token: fs.UndoToken{
			ID:          p.TokenID,
			Operation:   "delete",
			Paths:       p.Paths,
			BackupPaths: p.BackupPaths,
		}}}
	case undo.RenamePayload:
		return []fs.Request{{Op: fs.OpRename, Path: p.NewPath, Name: filepath.Base(p.OldPath)}}
	case undo.CreatePayload:
		return []fs.Request{{Op: fs.OpDelete, Sources: []string{p.Path}}}
	}
	return nil
}

func (o *Orchestrator) finishUndo(resp fs.Response, tag opTag) {
	o.undoPending--
	debug.Log(debug.UNDO, "inverse of %s (%s) done, %d pending", tag.undoKind, tag.description, o.undoPending)
	if resp.Err != nil {
		o.setError("Undo of %s failed: %s", tag.description, fs.Describe(resp.Err))
	} else if o.undoPending == 0 && !o.statusErr {
		o.setStatus("Undone: %s", tag.description)
	}
	o.reloadAll()
}

func describePaths(paths []string) string {
	if len(paths) == 1 {
		return filepath.Base(paths[0])
	}
	return itemCount(len(paths))
}
