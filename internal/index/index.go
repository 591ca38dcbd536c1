// Package index mirrors the state of the background indexer from the
// notifications it sends. It never changes state on its own.
package index

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/justyntemme/twinpane/internal/debug"
	"github.com/justyntemme/twinpane/internal/format"
	"github.com/justyntemme/twinpane/internal/observe"
)

type Status string

const (
	StatusIdle     Status = "idle"
	StatusScanning Status = "scanning"
	StatusWatching Status = "watching"
	StatusError    Status = "error"
)

// Progress is the indexer's full state. IndexedCount only grows within one scan.
type Progress struct {
	Status       Status `json:"status"`
	IndexedCount int    `json:"indexed_count"`
	CurrentPath  string `json:"current_path,omitempty"`
}

// Notification is an inbound message from the indexer.
type Notification interface {
	apply(Progress) Progress
}

// ProgressNotification replaces the whole state.
type ProgressNotification struct{ Progress Progress }

// StatusNotification patches only the status.
type StatusNotification struct{ Status Status }

func (n ProgressNotification) apply(Progress) Progress { return n.Progress }

func (n StatusNotification) apply(p Progress) Progress {
	p.Status = n.Status
	return p
}

// StatusQuerier answers the one-shot startup status query.
type StatusQuerier interface {
	IndexStatus(ctx context.Context) (Progress, error)
}

// Projector holds the mirrored Progress.
type Projector struct {
	mu    sync.RWMutex
	state Progress
	subs  observe.List[Progress]
}

func NewProjector() *Projector {
	return &Projector{state: Progress{Status: StatusIdle}}
}

func (p *Projector) Subscribe(fn func(Progress)) func() { return p.subs.Subscribe(fn) }

func (p *Projector) Snapshot() Progress {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Apply folds one notification into the state.
func (p *Projector) Apply(n Notification) {
	p.mu.Lock()
	prev := p.state
	next := n.apply(prev)
	p.state = next
	p.mu.Unlock()

	if !expected(prev.Status, next.Status) {
		debug.Log(debug.INDEX, "unexpected transition %s -> %s", prev.Status, next.Status)
	}
	p.subs.Publish(next)
}

// Run applies notifications from ch until it closes or ctx is done.
func (p *Projector) Run(ctx context.Context, ch <-chan Notification) {
	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-ch:
			if !ok {
				return
			}
			p.Apply(n)
		}
	}
}

// Init pulls the current status once. A failed query is logged and leaves
// the state alone.
func (p *Projector) Init(ctx context.Context, q StatusQuerier) {
	prog, err := q.IndexStatus(ctx)
	if err != nil {
		log.Printf("index: status query failed: %v", err)
		return
	}
	p.Apply(ProgressNotification{Progress: prog})
}

// Reset returns to idle, used when indexing is switched off.
func (p *Projector) Reset() {
	p.Apply(ProgressNotification{Progress: Progress{Status: StatusIdle}})
}

// Line renders the state for the status bar.
func (p *Projector) Line() string {
	return p.Snapshot().Line()
}

// Line renders a one-line summary.
func (pr Progress) Line() string {
	switch pr.Status {
	case StatusScanning:
		if pr.CurrentPath != "" {
			return fmt.Sprintf("Indexing %s entries (%s)", format.FormatCount(pr.IndexedCount), pr.CurrentPath)
		}
		return fmt.Sprintf("Indexing %s entries", format.FormatCount(pr.IndexedCount))
	case StatusWatching:
		return fmt.Sprintf("Index ready: %s entries", format.FormatCount(pr.IndexedCount))
	case StatusError:
		return "Index error"
	default:
		return "Index idle"
	}
}

func expected(from, to Status) bool {
	if from == to || to == StatusError || to == StatusIdle {
		return true
	}
	switch from {
	case StatusIdle, StatusError:
		return to == StatusScanning || to == StatusWatching
	case StatusScanning:
		return to == StatusWatching
	case StatusWatching:
		return to == StatusScanning
	}
	return false
}
