package app

import (
	"context"
	"strings"

	"github.com/justyntemme/twinpane/internal/debug"
	"github.com/justyntemme/twinpane/internal/index"
	"github.com/justyntemme/twinpane/internal/workspace"
)

// indexActive reports whether the indexer is scanning or watching.
func (o *Orchestrator) indexActive() bool {
	if o.indexer == nil {
		return false
	}
	switch o.indexer.Status().Status {
	case index.StatusScanning, index.StatusWatching:
		return true
	}
	return false
}

func (o *Orchestrator) startIndexing() {
	if o.indexer == nil {
		o.setError("Indexing is off (start with -index)")
		return
	}
	if len(o.indexRoots) == 0 {
		o.setError("No folders to index")
		return
	}
	ctx := o.runCtx
	if ctx == nil {
		ctx = context.Background()
	}
	if err := o.indexer.StartIndexing(ctx, o.indexRoots); err != nil {
		o.setError("Indexing: %v", err)
		return
	}
	o.setStatus("Indexing %s", strings.Join(o.indexRoots, ", "))
}

// stopIndexing halts the scan or watch loop. The status bar drops back to
// idle rather than showing a stale count.
func (o *Orchestrator) stopIndexing() {
	if o.indexer == nil {
		return
	}
	o.indexer.StopIndexing()
	o.projector.Reset()
	o.setStatus("Indexing stopped")
	debug.Log(debug.INDEX, "stopped from the palette")
}

// clearIndexCache empties the index and the cache database. Panes showing
// search results go back to their directories.
func (o *Orchestrator) clearIndexCache() {
	if o.indexer == nil {
		return
	}
	if err := o.indexer.ClearCache(); err != nil {
		o.setError("Clear index cache: %v", err)
		return
	}
	o.projector.Reset()
	for _, side := range []workspace.Side{workspace.Left, workspace.Right} {
		if o.search[side] != "" {
			o.search[side] = ""
			o.loadPane(side)
		}
	}
	o.setStatus("Index cache cleared")
}
