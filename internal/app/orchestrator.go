// Package app owns every store and routes key chords, filesystem responses,
// index notifications and watcher changes to them.
package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/justyntemme/twinpane/internal/clipboard"
	"github.com/justyntemme/twinpane/internal/config"
	"github.com/justyntemme/twinpane/internal/contextmenu"
	"github.com/justyntemme/twinpane/internal/debug"
	"github.com/justyntemme/twinpane/internal/format"
	"github.com/justyntemme/twinpane/internal/fs"
	"github.com/justyntemme/twinpane/internal/index"
	"github.com/justyntemme/twinpane/internal/indexer"
	"github.com/justyntemme/twinpane/internal/keymap"
	"github.com/justyntemme/twinpane/internal/pane"
	"github.com/justyntemme/twinpane/internal/ui"
	"github.com/justyntemme/twinpane/internal/undo"
	"github.com/justyntemme/twinpane/internal/watch"
	"github.com/justyntemme/twinpane/internal/workspace"
)

// PageSize is the page_up and page_down step until the screen size is known.
const PageSize = 10

// Options configures an Orchestrator. Zero values fall back to the local
// filesystem, the user config file and the platform opener.
type Options struct {
	Service    fs.Service
	Config     config.Backend
	Indexer    *indexer.Manager // nil disables global search
	IndexRoots []string
	LeftPath   string
	RightPath  string
	Opener     func(path string) error
	Watch      bool
}

// opTag remembers what a mutating request was for until its response arrives.
type opTag struct {
	paste       bool
	focus       string // entry name to focus after the reload
	description string
	undoKind    undo.Kind
}

type Orchestrator struct {
	mu sync.Mutex

	ws        *workspace.Workspace
	clip      *clipboard.Store
	undo      *undo.Stack
	menu      *contextmenu.Store
	projector *index.Projector
	cfg       *config.Store
	saver     *config.Saver
	keys      *keymap.Resolver

	svc        fs.Service
	fsys       *fs.System
	indexer    *indexer.Manager
	indexRoots []string
	watcher    *watch.DirectoryWatcher
	watchDirs  bool
	opener     func(string) error
	submit     func(fs.Request)
	distros    func() []fs.Drive

	search      [2]string
	focusAfter  [2]string
	ops         map[int64]opTag
	nextOp      int64
	undoPending int
	pageSize    int

	prompt    *prompt
	menuTitle string
	menuIndex int
	showHelp  bool

	status    string
	statusErr bool
	progress  string
	quit      bool

	invalidate func()
	runCtx     context.Context // parent for palette-started indexing
	cancel     context.CancelFunc
	wg         sync.WaitGroup
}

// NewOrchestrator loads the configuration and builds the stores. Nothing
// runs until Start.
func NewOrchestrator(opts Options) *Orchestrator {
	if opts.Service == nil {
		opts.Service = fs.NewLocal()
	}
	if opts.Config == nil {
		opts.Config = config.NewFileBackend(config.ConfigPath())
	}
	if opts.Opener == nil {
		opts.Opener = platformOpen
	}

	cfg, err := opts.Config.Load()
	if err != nil {
		log.Printf("Config: load failed, using defaults: %v", err)
		cfg = config.Default()
	}

	o := &Orchestrator{
		clip:       clipboard.New(),
		undo:       undo.New(),
		menu:       contextmenu.New(),
		projector:  index.NewProjector(),
		saver:      config.NewSaver(opts.Config),
		keys:       keymap.Default(),
		svc:        opts.Service,
		indexer:    opts.Indexer,
		indexRoots: opts.IndexRoots,
		watchDirs:  opts.Watch,
		opener:     opts.Opener,
		distros:    fs.ListWSLDistros,
		ops:        make(map[int64]opTag),
		pageSize:   PageSize,
		invalidate: func() {},
	}
	o.cfg = config.NewStore(cfg, o.saver.Enqueue)
	if fb, ok := opts.Config.(*config.FileBackend); ok && fb.ParseError() != nil {
		o.setError("Config file invalid, using defaults: %v", fb.ParseError())
	}

	left := firstNonEmpty(opts.LeftPath, cfg.LeftPane.Path, o.home())
	right := firstNonEmpty(opts.RightPath, cfg.RightPane.Path, left)
	o.ws = workspace.New(left, right)
	for side, pc := range map[workspace.Side]config.PaneConfig{workspace.Left: cfg.LeftPane, workspace.Right: cfg.RightPane} {
		p := o.ws.Pane(side)
		dir := pane.Asc
		if !pc.SortAscending && pc.SortColumn != "" {
			dir = pane.Desc
		}
		p.SetSortState(pane.ParseSortColumn(pc.SortColumn), dir)
		p.SetShowHidden(cfg.ShowHidden)
	}
	o.submit = o.sendRequest
	return o
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func (o *Orchestrator) home() string {
	if home, ok := o.svc.HomeDirectory(context.Background()); ok {
		return home
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return string(os.PathSeparator)
}

// SetInvalidate installs the redraw hook. fn must not block.
func (o *Orchestrator) SetInvalidate(fn func()) {
	o.mu.Lock()
	o.invalidate = fn
	o.mu.Unlock()
	o.projector.Subscribe(func(index.Progress) { fn() })
}

// Start launches the workers and loads both panes.
func (o *Orchestrator) Start(ctx context.Context) {
	ctx, o.cancel = context.WithCancel(ctx)
	o.mu.Lock()
	o.runCtx = ctx
	o.mu.Unlock()

	o.fsys = fs.NewSystem(o.svc)
	o.wg.Add(2)
	go func() {
		defer o.wg.Done()
		o.fsys.Start()
	}()
	go func() {
		defer o.wg.Done()
		o.saver.Run(ctx)
	}()

	if o.watchDirs {
		w, err := watch.NewDirectoryWatcher(0)
		if err != nil {
			log.Printf("Watcher unavailable: %v", err)
		} else {
			o.watcher = w
		}
	}

	if o.indexer != nil {
		o.projector.Init(ctx, o.indexer)
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			o.projector.Run(ctx, o.indexer.Notifications())
		}()
		if len(o.indexRoots) > 0 {
			if err := o.indexer.StartIndexing(ctx, o.indexRoots); err != nil {
				log.Printf("Indexer: %v", err)
			}
		}
	}

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		o.processEvents(ctx)
	}()

	o.mu.Lock()
	o.loadPane(workspace.Left)
	o.loadPane(workspace.Right)
	o.rewatch()
	o.mu.Unlock()
}

// Stop shuts the workers down and flushes the configuration.
func (o *Orchestrator) Stop() {
	if o.cancel == nil {
		return
	}
	o.mu.Lock()
	o.persistPanes()
	o.mu.Unlock()

	o.cancel()
	if o.indexer != nil {
		o.indexer.StopIndexing()
	}
	if o.watcher != nil {
		o.watcher.Close()
	}
	o.fsys.Stop()
	o.wg.Wait()
	o.saver.Flush()
}

func (o *Orchestrator) processEvents(ctx context.Context) {
	var changes <-chan watch.Change
	if o.watcher != nil {
		changes = o.watcher.Notify()
	}
	for {
		select {
		case <-ctx.Done():
			return
		case resp := <-o.fsys.ResponseChan:
			o.HandleResponse(resp)
		case p := <-o.fsys.ProgressChan:
			o.mu.Lock()
			o.progress = progressLine(p)
			o.mu.Unlock()
			o.invalidate()
		case c := <-changes:
			o.handleChange(c)
		}
	}
}

func progressLine(p fs.Progress) string {
	if p.Total <= 0 {
		return p.Label
	}
	return fmt.Sprintf("%s %d%%", p.Label, p.Current*100/p.Total)
}

// sendRequest never blocks the caller on a full request queue, since the
// worker may itself be waiting for us to drain responses.
func (o *Orchestrator) sendRequest(req fs.Request) {
	select {
	case o.fsys.RequestChan <- req:
	default:
		go func() { o.fsys.RequestChan <- req }()
	}
}

// SetPageSize sets the page_up and page_down step, normally the number of
// visible rows.
func (o *Orchestrator) SetPageSize(n int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.pageSize = max(n, 1)
}

// Quitting reports whether the quit action ran.
func (o *Orchestrator) Quitting() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.quit
}

func (o *Orchestrator) setStatus(format string, args ...any) {
	o.status = fmt.Sprintf(format, args...)
	o.statusErr = false
}

func (o *Orchestrator) setError(format string, args ...any) {
	o.status = fmt.Sprintf(format, args...)
	o.statusErr = true
	debug.Log(debug.APP, "error: %s", o.status)
}

// View builds the frame for the renderer.
func (o *Orchestrator) View() ui.State {
	o.mu.Lock()
	defer o.mu.Unlock()

	st := ui.State{
		Status:      o.status,
		StatusError: o.statusErr,
		Progress:    o.progress,
		Index:       o.indexLine(),
		Clipboard:   o.clipboardLine(),
		Now:         time.Now(),
	}
	for _, side := range []workspace.Side{workspace.Left, workspace.Right} {
		ps := o.ws.Pane(side).Snapshot()
		sel := o.ws.Selection(side).Snapshot()
		title := ps.Path
		if q := o.search[side]; q != "" {
			title = fmt.Sprintf("Search: %s", q)
		}
		st.Panes[side] = ui.PaneView{
			Title:         title,
			Entries:       pane.Visible(ps),
			Selected:      sel.Selected,
			Focused:       sel.FocusedIndex,
			Loading:       ps.Loading,
			Error:         ps.Error,
			SortColumn:    ps.SortColumn,
			SortDirection: ps.SortDirection,
			Filter:        ps.Filter,
			Active:        o.ws.Active() == side,
		}
	}
	if o.prompt != nil {
		st.Prompt = &ui.Prompt{Label: o.prompt.label, Input: string(o.prompt.input)}
	}
	if m := o.menu.Snapshot(); m.Visible {
		st.Menu = &ui.Menu{Title: o.menuTitle, Items: m.Items, Index: o.menuIndex}
	}
	if o.showHelp {
		st.Help = o.helpRows()
	}
	return st
}

func (o *Orchestrator) indexLine() string {
	if o.indexer == nil {
		return ""
	}
	return o.projector.Line()
}

func (o *Orchestrator) clipboardLine() string {
	c := o.clip.Snapshot()
	if c.IsEmpty() {
		return ""
	}
	return fmt.Sprintf("%s: %s", c.Operation, itemCount(len(c.Paths)))
}

func itemCount(n int) string {
	if n == 1 {
		return "1 item"
	}
	return format.FormatCount(n) + " items"
}

func (o *Orchestrator) helpRows() []ui.HelpRow {
	var rows []ui.HelpRow
	seen := map[keymap.Action]int{}
	for _, b := range o.keys.Bindings() {
		if i, ok := seen[b.Action]; ok {
			rows[i].Keys += ", " + b.Chord.String()
			continue
		}
		seen[b.Action] = len(rows)
		rows = append(rows, ui.HelpRow{Keys: b.Chord.String(), Action: string(b.Action)})
	}
	return rows
}
