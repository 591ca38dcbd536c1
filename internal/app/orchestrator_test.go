package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/justyntemme/twinpane/internal/config"
	"github.com/justyntemme/twinpane/internal/fs"
	"github.com/justyntemme/twinpane/internal/index"
	"github.com/justyntemme/twinpane/internal/indexer"
	"github.com/justyntemme/twinpane/internal/keymap"
	"github.com/justyntemme/twinpane/internal/pane"
	"github.com/justyntemme/twinpane/internal/undo"
	"github.com/justyntemme/twinpane/internal/workspace"
)

type memBackend struct {
	mu    sync.Mutex
	cfg   config.Config
	saves int
}

func (m *memBackend) Load() (config.Config, error) { return m.cfg, nil }

func (m *memBackend) Save(c config.Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg = c
	m.saves++
	return nil
}

// harness runs filesystem requests synchronously so every test step sees
// settled state.
type harness struct {
	t       *testing.T
	o       *Orchestrator
	backend *memBackend
	queue   []fs.Request
	opened  []string
	left    string
	right   string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	if runtime.GOOS == "linux" {
		t.Setenv("XDG_DATA_HOME", t.TempDir())
	}
	root := t.TempDir()
	h := &harness{
		t:       t,
		backend: &memBackend{cfg: config.Default()},
		left:    filepath.Join(root, "left"),
		right:   filepath.Join(root, "right"),
	}
	for _, p := range []string{"left/alpha", "left/beta", "right"} {
		if err := os.MkdirAll(filepath.Join(root, p), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	for _, p := range []string{"left/a.txt", "left/b.txt", "left/c.txt", "left/alpha/inner.txt"} {
		if err := os.WriteFile(filepath.Join(root, p), []byte(p), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	h.o = NewOrchestrator(Options{
		Service:   fs.NewLocal(),
		Config:    h.backend,
		LeftPath:  h.left,
		RightPath: h.right,
		Opener: func(p string) error {
			h.opened = append(h.opened, p)
			return nil
		},
	})
	h.o.submit = func(req fs.Request) { h.queue = append(h.queue, req) }
	h.o.Dispatch(keymap.Refresh)
	h.drain()
	return h
}

func (h *harness) drain() {
	for len(h.queue) > 0 {
		req := h.queue[0]
		h.queue = h.queue[1:]
		h.o.HandleResponse(fs.Execute(context.Background(), h.o.svc, req))
	}
}

func (h *harness) press(chords ...string) {
	for _, c := range chords {
		h.o.HandleChord(keymap.MustParseChord(c))
		h.drain()
	}
}

func (h *harness) typeText(s string) {
	h.o.mu.Lock()
	for _, r := range s {
		h.o.promptInsert(r)
	}
	h.o.mu.Unlock()
	h.drain()
}

func (h *harness) names(side workspace.Side) []string {
	var out []string
	for _, e := range h.o.ws.Pane(side).Visible() {
		out = append(out, e.Name)
	}
	return out
}

func (h *harness) focused() string {
	p, _ := h.o.ws.ActiveView().Focused()
	return filepath.Base(p)
}

func (h *harness) status() string {
	h.o.mu.Lock()
	defer h.o.mu.Unlock()
	return h.o.status
}

// paletteLabels opens the command palette, reads its labels and closes it.
func (h *harness) paletteLabels() []string {
	h.t.Helper()
	h.press("Ctrl+P")
	m := h.o.View().Menu
	if m == nil {
		h.t.Fatal("palette not shown")
	}
	h.press("Escape")
	var out []string
	for _, it := range m.Items {
		if !it.Divider {
			out = append(out, it.Label)
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func equal(a, b []string) bool {
	return strings.Join(a, ",") == strings.Join(b, ",")
}

func requireLinux(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("trash round trip only exercised on linux")
	}
}

func TestInitialListing(t *testing.T) {
	h := newHarness(t)
	if got := h.names(workspace.Left); !equal(got, []string{"alpha", "beta", "a.txt", "b.txt", "c.txt"}) {
		t.Errorf("left = %v", got)
	}
	if got := h.names(workspace.Right); len(got) != 0 {
		t.Errorf("right = %v", got)
	}
	v := h.o.View()
	if v.Panes[0].Title != h.left || !v.Panes[0].Active || v.Panes[1].Active {
		t.Errorf("unexpected view panes: %+v %+v", v.Panes[0].Title, v.Panes[1].Title)
	}
}

func TestNavigation(t *testing.T) {
	h := newHarness(t)
	h.press("Down", "Down")
	if h.focused() != "a.txt" {
		t.Errorf("focused = %s", h.focused())
	}
	h.press("Up", "Enter")
	if p := h.o.ws.ActivePane().Snapshot().Path; p != filepath.Join(h.left, "beta") {
		t.Fatalf("path after enter = %s", p)
	}
	h.press("Backspace")
	if p := h.o.ws.ActivePane().Snapshot().Path; p != h.left {
		t.Fatalf("path after parent = %s", p)
	}
	if h.focused() != "beta" {
		t.Errorf("focus after parent = %s, want beta", h.focused())
	}

	h.press("End")
	if h.focused() != "c.txt" {
		t.Errorf("End focused %s", h.focused())
	}
	h.press("PageUp")
	if h.focused() != "alpha" {
		t.Errorf("PageUp focused %s", h.focused())
	}
	h.press("Enter")
	h.press("Enter")
	if len(h.opened) != 1 || filepath.Base(h.opened[0]) != "inner.txt" {
		t.Errorf("opened = %v", h.opened)
	}

	cfg := h.o.cfg.Snapshot()
	if len(cfg.RecentPaths) == 0 || cfg.RecentPaths[0] != filepath.Join(h.left, "alpha") {
		t.Errorf("recent = %v", cfg.RecentPaths)
	}
	if cfg.LeftPane.Path != filepath.Join(h.left, "alpha") {
		t.Errorf("persisted left path = %s", cfg.LeftPane.Path)
	}
}

func TestPaneSwitching(t *testing.T) {
	h := newHarness(t)
	h.press("Tab")
	if h.o.ws.Active() != workspace.Right {
		t.Error("Tab should activate right")
	}
	h.press("Left")
	if h.o.ws.Active() != workspace.Left {
		t.Error("Left should activate left")
	}
	h.press("Right")
	if h.o.ws.Active() != workspace.Right {
		t.Error("Right should activate right")
	}
}

func TestPageStepFollowsRows(t *testing.T) {
	h := newHarness(t)
	h.o.SetPageSize(2)

	for _, tc := range []struct {
		chord string
		want  string
	}{
		{"PageDown", "a.txt"},
		{"PageDown", "c.txt"},
		{"PageDown", "c.txt"},
		{"PageUp", "a.txt"},
	} {
		h.press(tc.chord)
		if got := h.focused(); got != tc.want {
			t.Fatalf("after %s: focused %q, want %q", tc.chord, got, tc.want)
		}
	}

	h.o.SetPageSize(0)
	h.press("PageUp")
	if got := h.focused(); got != "beta" {
		t.Errorf("page size should not drop below one row, focused %q", got)
	}
}

func TestSelection(t *testing.T) {
	h := newHarness(t)
	h.press("Shift+Down", "Shift+Down")
	sel := h.o.ws.ActiveSelection().Snapshot()
	if sel.Len() != 3 || sel.AnchorIndex != 0 || sel.FocusedIndex != 2 {
		t.Errorf("extend: len=%d anchor=%d focus=%d", sel.Len(), sel.AnchorIndex, sel.FocusedIndex)
	}
	h.press("Shift+Up")
	if n := h.o.ws.ActiveSelection().Snapshot().Len(); n != 2 {
		t.Errorf("shrink: len=%d", n)
	}
	h.press("Down")
	if a := h.o.ws.ActiveSelection().Snapshot().AnchorIndex; a != -1 {
		t.Errorf("plain move should drop anchor, got %d", a)
	}

	h.press("Escape")
	if n := h.o.ws.ActiveSelection().Snapshot().Len(); n != 0 {
		t.Errorf("escape should clear selection, len=%d", n)
	}
	h.press("Home", "Space", "Space")
	sel = h.o.ws.ActiveSelection().Snapshot()
	if sel.Len() != 2 || sel.FocusedIndex != 2 {
		t.Errorf("toggle: len=%d focus=%d", sel.Len(), sel.FocusedIndex)
	}
	h.press("Ctrl+A")
	if n := h.o.ws.ActiveSelection().Snapshot().Len(); n != 5 {
		t.Errorf("select all: len=%d", n)
	}
}

func TestCopyAndUndo(t *testing.T) {
	requireLinux(t)
	h := newHarness(t)
	h.press("End", "F5")
	if got := h.names(workspace.Right); !equal(got, []string{"c.txt"}) {
		t.Fatalf("right after copy = %v", got)
	}
	if h.o.undo.Len() != 1 {
		t.Fatalf("undo len = %d", h.o.undo.Len())
	}
	h.press("Ctrl+Z")
	if got := h.names(workspace.Right); len(got) != 0 {
		t.Errorf("right after undo = %v", got)
	}
	if _, err := os.Stat(filepath.Join(h.left, "c.txt")); err != nil {
		t.Errorf("source gone after undo: %v", err)
	}
	if !strings.HasPrefix(h.status(), "Undone") {
		t.Errorf("status = %q", h.status())
	}
	h.press("Ctrl+Z")
	if h.status() != "Nothing to undo" {
		t.Errorf("status = %q", h.status())
	}
}

func TestMoveAndUndo(t *testing.T) {
	h := newHarness(t)
	h.press("Down", "Down", "Shift+Down", "F6")
	if got := h.names(workspace.Right); !equal(got, []string{"a.txt", "b.txt"}) {
		t.Fatalf("right after move = %v", got)
	}
	if got := h.names(workspace.Left); !equal(got, []string{"alpha", "beta", "c.txt"}) {
		t.Fatalf("left after move = %v", got)
	}
	if n := h.o.ws.ActiveSelection().Snapshot().Len(); n != 0 {
		t.Errorf("selection should clear after success, len=%d", n)
	}
	h.press("Ctrl+Z")
	if got := h.names(workspace.Left); !equal(got, []string{"alpha", "beta", "a.txt", "b.txt", "c.txt"}) {
		t.Errorf("left after undo = %v", got)
	}
	if got := h.names(workspace.Right); len(got) != 0 {
		t.Errorf("right after undo = %v", got)
	}
}

func TestFailedOperationKeepsState(t *testing.T) {
	h := newHarness(t)
	h.press("End", "Ctrl+X")
	if h.o.clip.IsEmpty() {
		t.Fatal("clipboard empty after cut")
	}
	os.Remove(filepath.Join(h.left, "c.txt"))
	h.press("Tab", "Ctrl+V")

	h.o.mu.Lock()
	isErr := h.o.statusErr
	h.o.mu.Unlock()
	if !isErr || !strings.Contains(h.status(), "failed") {
		t.Errorf("status = %q (error=%v)", h.status(), isErr)
	}
	if h.o.clip.IsEmpty() {
		t.Error("failed paste must keep the clipboard")
	}
	if h.o.undo.Len() != 0 {
		t.Error("failed paste must not push undo")
	}
}

func TestPasteClearsClipboard(t *testing.T) {
	h := newHarness(t)
	h.press("Down", "Down", "Ctrl+C", "Tab", "Ctrl+V")
	if got := h.names(workspace.Right); !equal(got, []string{"a.txt"}) {
		t.Fatalf("right after paste = %v", got)
	}
	if !h.o.clip.IsEmpty() {
		t.Error("clipboard should clear after a successful paste")
	}
	last, ok := h.o.undo.Last()
	if !ok || last.Kind != undo.KindCopy {
		t.Errorf("undo top = %+v", last)
	}
}

func TestCreateRenameUndo(t *testing.T) {
	requireLinux(t)
	h := newHarness(t)
	h.press("F7")
	h.typeText("gamma")
	h.press("Enter")
	if h.focused() != "gamma" {
		t.Fatalf("focus after create = %s", h.focused())
	}

	h.press("F2")
	h.press("Backspace", "Backspace")
	h.typeText("ze")
	h.press("Enter")
	if h.focused() != "gamze" {
		t.Fatalf("focus after rename = %s (%v)", h.focused(), h.names(workspace.Left))
	}

	h.press("Ctrl+Z")
	if !equal(h.names(workspace.Left), []string{"alpha", "beta", "gamma", "a.txt", "b.txt", "c.txt"}) {
		t.Errorf("after undo rename: %v", h.names(workspace.Left))
	}
	h.press("Ctrl+Z")
	if !equal(h.names(workspace.Left), []string{"alpha", "beta", "a.txt", "b.txt", "c.txt"}) {
		t.Errorf("after undo create: %v", h.names(workspace.Left))
	}
}

func TestFailedUndoIsDiscarded(t *testing.T) {
	h := newHarness(t)
	h.press("Down", "Down", "F2")
	for range len("a.txt") {
		h.press("Backspace")
	}
	h.typeText("z.txt")
	h.press("Enter")
	if h.focused() != "z.txt" {
		t.Fatalf("focus after rename = %s (%v)", h.focused(), h.names(workspace.Left))
	}

	// the inverse rename now collides with a new a.txt
	if err := os.WriteFile(filepath.Join(h.left, "a.txt"), []byte("new"), 0o644); err != nil {
		t.Fatal(err)
	}
	h.press("Ctrl+Z")
	if st := h.status(); !strings.HasPrefix(st, "Undo of Rename a.txt to z.txt") || !strings.Contains(st, "failed") {
		t.Errorf("status = %q", st)
	}
	if !h.o.View().StatusError {
		t.Error("failed undo should be reported as an error")
	}
	if h.o.undo.Len() != 0 {
		t.Errorf("failed inverse must still drop the entry, len=%d", h.o.undo.Len())
	}
	if got := h.names(workspace.Left); !equal(got, []string{"alpha", "beta", "a.txt", "b.txt", "c.txt", "z.txt"}) {
		t.Errorf("left after failed undo = %v", got)
	}

	h.press("Ctrl+Z")
	if h.status() != "Nothing to undo" {
		t.Errorf("second undo status = %q", h.status())
	}
}

func TestDeleteConfirmAndRestore(t *testing.T) {
	requireLinux(t)
	h := newHarness(t)
	h.press("End", "F8")
	if h.o.prompt == nil {
		t.Fatal("delete should ask for confirmation")
	}
	h.typeText("n")
	if len(h.names(workspace.Left)) != 5 {
		t.Fatal("declined delete removed something")
	}

	h.press("F8")
	h.typeText("y")
	if got := h.names(workspace.Left); !equal(got, []string{"alpha", "beta", "a.txt", "b.txt"}) {
		t.Fatalf("left after delete = %v", got)
	}
	h.press("Ctrl+Z")
	if got := h.names(workspace.Left); !equal(got, []string{"alpha", "beta", "a.txt", "b.txt", "c.txt"}) {
		t.Errorf("left after restore = %v", got)
	}
}

func TestUndoInFlightRejected(t *testing.T) {
	h := newHarness(t)
	h.press("Down", "Down", "F6")
	h.o.undo.Push("extra", undo.CreatePayload{Path: filepath.Join(h.left, "nope")})

	h.o.HandleChord(keymap.MustParseChord("Ctrl+Z"))
	h.o.HandleChord(keymap.MustParseChord("Ctrl+Z"))
	if h.status() != "Undo already in progress" {
		t.Errorf("status = %q", h.status())
	}
	if h.o.undo.Len() != 1 {
		t.Errorf("second undo must not pop, len=%d", h.o.undo.Len())
	}
	h.drain()
	h.o.HandleChord(keymap.MustParseChord("Ctrl+Z"))
	h.drain()
	if h.o.undo.Len() != 0 {
		t.Errorf("undo after completion should run, len=%d", h.o.undo.Len())
	}
}

func TestTransferProgressLabel(t *testing.T) {
	tests := []struct {
		chord string
		want  string
	}{
		{"F5", "Copying…"},
		{"F6", "Moving…"},
	}
	for _, tt := range tests {
		t.Run(tt.chord, func(t *testing.T) {
			h := newHarness(t)
			stale := filepath.Join(h.right, "gone.txt")
			h.o.ws.Selection(workspace.Right).Toggle(stale)

			h.press("Down", "Down")
			h.o.HandleChord(keymap.MustParseChord(tt.chord))
			if got := h.o.View().Progress; got != tt.want {
				t.Errorf("progress = %q, want %q", got, tt.want)
			}
			if n := h.o.ws.Selection(workspace.Right).Snapshot().Len(); n != 0 {
				t.Errorf("destination selection should clear, %d left", n)
			}
			h.drain()
			if got := h.o.View().Progress; got != "" {
				t.Errorf("progress after completion = %q", got)
			}
			if got := h.names(workspace.Right); !equal(got, []string{"a.txt"}) {
				t.Errorf("right = %v", got)
			}
		})
	}
}

func TestStaleListingDropped(t *testing.T) {
	h := newHarness(t)
	p := h.o.ws.Pane(workspace.Left)

	h.o.Dispatch(keymap.Refresh)
	stale := h.queue[0]
	h.queue = nil
	h.o.Dispatch(keymap.Refresh)
	current := h.queue[0]
	h.queue = nil

	h.o.HandleResponse(fs.Response{Req: current, Entries: []fs.Entry{{Name: "fresh", Path: "/fresh"}}})
	h.o.HandleResponse(fs.Response{Req: stale, Entries: []fs.Entry{{Name: "old", Path: "/old"}}})
	st := p.Snapshot()
	if len(st.Entries) != 1 || st.Entries[0].Name != "fresh" || st.Loading {
		t.Errorf("entries = %+v loading=%v", st.Entries, st.Loading)
	}
}

func TestListingErrorShownInPane(t *testing.T) {
	h := newHarness(t)
	h.press("Ctrl+L")
	h.o.mu.Lock()
	h.o.prompt.input = []rune(filepath.Join(h.left, "missing"))
	h.o.mu.Unlock()
	h.press("Enter")
	if !h.o.View().StatusError {
		t.Error("go to a missing path should report an error")
	}

	os.RemoveAll(h.right)
	h.press("Ctrl+R")
	if e := h.o.ws.Pane(workspace.Right).Snapshot().Error; !strings.HasPrefix(e, "Path not found") {
		t.Errorf("right pane error = %q", e)
	}
}

func TestFilterPrompt(t *testing.T) {
	h := newHarness(t)
	h.press("/")
	h.typeText("ta")
	if got := h.names(workspace.Left); !equal(got, []string{"beta"}) {
		t.Errorf("filtered = %v", got)
	}
	h.press("Enter")
	if f := h.o.ws.ActivePane().Snapshot().Filter; f != "ta" {
		t.Errorf("filter after enter = %q", f)
	}
	h.press("Escape")
	if f := h.o.ws.ActivePane().Snapshot().Filter; f != "" {
		t.Errorf("filter after escape = %q", f)
	}
}

func TestToggleHiddenAndSort(t *testing.T) {
	h := newHarness(t)
	os.WriteFile(filepath.Join(h.left, ".hidden"), nil, 0o644)
	h.press("Ctrl+R")
	if len(h.names(workspace.Left)) != 5 {
		t.Fatalf("hidden file visible: %v", h.names(workspace.Left))
	}
	h.press("Alt+H")
	if len(h.names(workspace.Left)) != 6 || !h.o.cfg.Snapshot().ShowHidden {
		t.Errorf("toggle hidden: %v", h.names(workspace.Left))
	}
	if !h.o.ws.Pane(workspace.Right).Snapshot().ShowHidden {
		t.Error("toggle hidden should apply to both panes")
	}

	h.press("Alt+2", "Alt+2")
	st := h.o.ws.ActivePane().Snapshot()
	if st.SortColumn != pane.SortSize || st.SortDirection != pane.Desc {
		t.Errorf("sort = %s %s", st.SortColumn, st.SortDirection)
	}
	cfg := h.o.cfg.Snapshot()
	if cfg.LeftPane.SortColumn != "size" || cfg.LeftPane.SortAscending {
		t.Errorf("persisted sort = %+v", cfg.LeftPane)
	}
}

func TestBookmarks(t *testing.T) {
	h := newHarness(t)
	h.press("Ctrl+D")
	b, ok := h.o.cfg.BookmarkFor(2)
	if !ok || b.Path != h.left {
		t.Fatalf("bookmark 2 = %+v %v", b, ok)
	}
	h.press("Ctrl+D")
	if !h.o.View().StatusError {
		t.Error("duplicate bookmark should fail")
	}

	h.press("Enter")
	h.press("Ctrl+2")
	if p := h.o.ws.ActivePane().Snapshot().Path; p != h.left {
		t.Errorf("bookmark jump landed in %s", p)
	}
	h.press("Ctrl+9")
	if !strings.Contains(h.status(), "No bookmark") {
		t.Errorf("status = %q", h.status())
	}
}

func TestCommandPalette(t *testing.T) {
	h := newHarness(t)
	h.press("Ctrl+P")
	if h.o.View().Menu == nil {
		t.Fatal("palette not shown")
	}
	h.press("Escape")
	if h.o.View().Menu != nil {
		t.Fatal("escape should close the palette")
	}

	h.press("Ctrl+P", "Down", "Down", "Enter")
	v := h.o.View()
	if v.Menu != nil || v.Prompt == nil || v.Prompt.Label != "New folder:" {
		t.Errorf("picking New folder: menu=%v prompt=%+v", v.Menu, v.Prompt)
	}
}

func TestPaletteUndoShowsAge(t *testing.T) {
	h := newHarness(t)
	h.o.undo = undo.NewWithClock(func() time.Time { return time.Now().Add(-3 * time.Minute) })
	h.press("Down", "Down", "F5")
	want := "Undo Copy a.txt to " + h.right + " (3 minutes ago)"
	if labels := h.paletteLabels(); !contains(labels, want) {
		t.Errorf("palette %v lacks %q", labels, want)
	}
}

func TestRemoveBookmark(t *testing.T) {
	h := newHarness(t)
	if labels := h.paletteLabels(); !contains(labels, "Bookmark this folder") || contains(labels, "Remove bookmark") {
		t.Fatalf("palette before bookmarking = %v", labels)
	}
	h.press("Ctrl+D")
	if labels := h.paletteLabels(); !contains(labels, "Remove bookmark") || contains(labels, "Bookmark this folder") {
		t.Fatalf("palette for a bookmarked folder = %v", labels)
	}

	h.o.Dispatch(keymap.RemoveBookmark)
	if h.status() != "Removed bookmark "+h.left {
		t.Errorf("status = %q", h.status())
	}
	for _, b := range h.o.cfg.Snapshot().Bookmarks {
		if b.Path == h.left {
			t.Errorf("bookmark for %s survived", h.left)
		}
	}
	h.o.Dispatch(keymap.RemoveBookmark)
	if !h.o.View().StatusError {
		t.Error("removing a missing bookmark should fail")
	}
}

func TestDrivesMenuListsWSL(t *testing.T) {
	h := newHarness(t)
	h.o.distros = func() []fs.Drive {
		return []fs.Drive{{Label: "WSL: Ubuntu", Path: `\\wsl$\Ubuntu`}}
	}
	h.o.Dispatch(keymap.ShowDrives)
	m := h.o.View().Menu
	if m == nil {
		t.Fatal("drives menu not shown")
	}
	var found bool
	for _, it := range m.Items {
		if it.Target == `\\wsl$\Ubuntu` && it.Label == "WSL: Ubuntu" {
			found = true
		}
	}
	if !found {
		t.Errorf("drives menu %+v lacks the WSL distro", m.Items)
	}
	if last := m.Items[len(m.Items)-1]; last.Label != "Home" {
		t.Errorf("last item = %q, want Home", last.Label)
	}
}

func waitIndex(t *testing.T, m *indexer.Manager, want index.Status) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for m.Status().Status != want {
		if time.Now().After(deadline) {
			t.Fatalf("index status %s, want %s", m.Status().Status, want)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestPaletteIndexActions(t *testing.T) {
	h := newHarness(t)
	m := indexer.New(nil)
	t.Cleanup(m.Close)
	h.o.indexer = m
	h.o.indexRoots = []string{h.left}

	if labels := h.paletteLabels(); !contains(labels, "Start indexing") || !contains(labels, "Clear index cache") {
		t.Fatalf("idle palette = %v", labels)
	}
	h.o.Dispatch(keymap.StartIndexing)
	waitIndex(t, m, index.StatusWatching)
	if labels := h.paletteLabels(); !contains(labels, "Stop indexing") || contains(labels, "Start indexing") {
		t.Fatalf("watching palette = %v", labels)
	}

	h.o.projector.Apply(index.ProgressNotification{Progress: index.Progress{Status: index.StatusWatching, IndexedCount: 6}})
	h.o.Dispatch(keymap.StopIndexing)
	if st := m.Status().Status; st != index.StatusIdle {
		t.Errorf("indexer status after stop = %s", st)
	}
	if got := h.o.projector.Snapshot(); got.Status != index.StatusIdle || got.IndexedCount != 0 {
		t.Errorf("projector after stop = %+v", got)
	}
	if h.status() != "Indexing stopped" {
		t.Errorf("status = %q", h.status())
	}
	if _, err := m.Search("a.txt", 0); err != nil {
		t.Errorf("stopped index should stay searchable: %v", err)
	}

	h.o.mu.Lock()
	h.o.runSearch(workspace.Left, "a.txt")
	h.o.mu.Unlock()
	if got := h.names(workspace.Left); !contains(got, "a.txt") {
		t.Fatalf("search results = %v", got)
	}
	h.o.Dispatch(keymap.ClearIndexCache)
	h.drain()
	if _, err := m.Search("a.txt", 0); !errors.Is(err, indexer.ErrNotIndexed) {
		t.Errorf("search after clear err = %v", err)
	}
	if h.status() != "Index cache cleared" {
		t.Errorf("status = %q", h.status())
	}
	if got := h.names(workspace.Left); !equal(got, []string{"alpha", "beta", "a.txt", "b.txt", "c.txt"}) {
		t.Errorf("left after clear = %v", got)
	}
}

func TestHelpAndGlobalSearchWithoutIndex(t *testing.T) {
	h := newHarness(t)
	h.press("F1")
	v := h.o.View()
	if len(v.Help) == 0 {
		t.Fatal("help not shown")
	}
	h.press("Down")
	if len(h.o.View().Help) != 0 {
		t.Error("any key should close help")
	}
	if h.focused() != "alpha" {
		t.Error("the key closing help must not also move the cursor")
	}

	h.press("F3")
	if !h.o.View().StatusError {
		t.Error("global search without an index should report an error")
	}
}

func TestQuit(t *testing.T) {
	h := newHarness(t)
	h.press("Ctrl+Q")
	if !h.o.Quitting() {
		t.Error("quit not recorded")
	}
}

func TestInverse(t *testing.T) {
	tests := []struct {
		name    string
		payload undo.Payload
		want    []fs.Request
	}{
		{"copy", undo.CopyPayload{Created: []string{"/d/a"}}, []fs.Request{{Op: fs.OpDelete, Sources: []string{"/d/a"}}}},
		{"empty copy", undo.CopyPayload{}, nil},
		{"move", undo.MovePayload{Moves: []undo.Move{{From: "/s/a", To: "/d/a"}, {From: "/s/b", To: "/d/b"}, {From: "/t/c", To: "/d/c"}}},
			[]fs.Request{{Op: fs.OpMove, Dest: "/s", Sources: []string{"/d/a", "/d/b"}}, {Op: fs.OpMove, Dest: "/t", Sources: []string{"/d/c"}}}},
		{"rename", undo.RenamePayload{OldPath: "/d/old", NewPath: "/d/new"}, []fs.Request{{Op: fs.OpRename, Path: "/d/new", Name: "old"}}},
		{"create", undo.CreatePayload{Path: "/d/x"}, []fs.Request{{Op: fs.OpDelete, Sources: []string{"/d/x"}}}},
	}
	for _, tt := range tests {
		got := inverse(undo.Entry{Payload: tt.payload})
		if len(got) != len(tt.want) {
			t.Fatalf("%s: %d requests, want %d", tt.name, len(got), len(tt.want))
		}
		for i := range got {
			g, w := got[i], tt.want[i]
			if g.Op != w.Op || g.Dest != w.Dest || g.Path != w.Path || g.Name != w.Name || !equal(g.Sources, w.Sources) {
				t.Errorf("%s[%d] = %+v, want %+v", tt.name, i, g, w)
			}
		}
	}

	del := inverse(undo.Entry{Payload: undo.DeletePayload{TokenID: "t1", Paths: []string{"/a"}, BackupPaths: []string{"/trash/a"}}})
	if len(del) != 1 || del[0].Op != fs.OpRestore || del[0].Token.ID != "t1" || del[0].Token.BackupPaths[0] != "/trash/a" {
		t.Errorf("delete inverse = %+v", del)
	}
}
