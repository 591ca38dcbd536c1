package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/justyntemme/twinpane/internal/contextmenu"
	"github.com/justyntemme/twinpane/internal/fs"
	"github.com/justyntemme/twinpane/internal/pane"
	"github.com/mattn/go-runewidth"
)

func i64(v int64) *int64 { return &v }

func screenText(t *testing.T, s tcell.SimulationScreen) []string {
	t.Helper()
	cells, w, h := s.GetContents()
	lines := make([]string, h)
	for y := 0; y < h; y++ {
		var b strings.Builder
		for x := 0; x < w; x++ {
			c := cells[y*w+x]
			if len(c.Runes) > 0 {
				b.WriteRune(c.Runes[0])
			}
		}
		lines[y] = b.String()
	}
	return lines
}

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	s.SetSize(w, h)
	t.Cleanup(s.Fini)
	return s
}

func TestRenderPanes(t *testing.T) {
	s := newScreen(t, 100, 12)
	r := NewRenderer(s)
	st := State{
		Panes: [2]PaneView{
			{
				Title:      "/home/user",
				Active:     true,
				SortColumn: pane.SortName,
				Entries: []fs.Entry{
					{Name: "docs", Path: "/home/user/docs", IsDir: true},
					{Name: "notes.txt", Path: "/home/user/notes.txt", Extension: "txt", Size: i64(2048)},
				},
				Selected: map[string]struct{}{"/home/user/notes.txt": {}},
			},
			{Title: "/tmp", Error: "Permission denied: /tmp"},
		},
		Status: "Copied 1 item",
		Index:  "Index idle",
		Now:    time.Now(),
	}
	r.Render(st)
	text := strings.Join(screenText(t, s), "\n")

	for _, want := range []string{"/home/user", "/tmp", "docs/", "notes.txt", "2.0 KB", "<DIR>", "Permission denied", "Copied 1 item", "Index idle", "Name ▲"} {
		if !strings.Contains(text, want) {
			t.Errorf("screen missing %q", want)
		}
	}
}

func TestRenderOverlays(t *testing.T) {
	s := newScreen(t, 80, 20)
	r := NewRenderer(s)
	r.Render(State{
		Menu: &Menu{Title: "Actions", Items: []contextmenu.Item{
			{Label: "Copy to other pane", Shortcut: "F5"},
			{Divider: true},
			{Label: "Delete", Danger: true},
		}},
		Prompt: &Prompt{Label: "New folder:", Input: "reports"},
	})
	text := strings.Join(screenText(t, s), "\n")
	for _, want := range []string{"Actions", "Copy to other pane", "F5", "Delete", "New folder: reports"} {
		if !strings.Contains(text, want) {
			t.Errorf("screen missing %q", want)
		}
	}

	r.Render(State{Help: []HelpRow{{Keys: "Ctrl+Z", Action: "undo"}}})
	text = strings.Join(screenText(t, s), "\n")
	if !strings.Contains(text, "Ctrl+Z") || !strings.Contains(text, "undo") {
		t.Error("help overlay not drawn")
	}
}

func TestScrollFollowsFocus(t *testing.T) {
	r := &Renderer{}
	tests := []struct {
		focused, want int
	}{
		{0, 0},
		{9, 0},
		{10, 1},
		{25, 16},
		{3, 3},
	}
	for _, tt := range tests {
		if got := r.scroll(0, tt.focused, 10, 30); got != tt.want {
			t.Errorf("focus %d: offset %d, want %d", tt.focused, got, tt.want)
		}
	}
}

func TestFit(t *testing.T) {
	tests := []struct {
		fn    func(string, int) string
		in    string
		width int
		want  string
	}{
		{fit, "abc", 5, "abc  "},
		{fit, "abcdef", 4, "abc…"},
		{fitRight, "12", 4, "  12"},
		{fitLeft, "/very/long/path", 8, "…ng/path"},
		{fit, "x", 0, ""},
	}
	for _, tt := range tests {
		got := tt.fn(tt.in, tt.width)
		if got != tt.want {
			t.Errorf("fit(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
		if tt.width > 0 && runewidth.StringWidth(got) != tt.width {
			t.Errorf("fit(%q, %d) has width %d", tt.in, tt.width, runewidth.StringWidth(got))
		}
	}
}

func TestEntryStyleByClass(t *testing.T) {
	th := DefaultTheme()
	tests := []struct {
		name string
		e    fs.Entry
		want tcell.Style
	}{
		{"archive", fs.Entry{Name: "a.zip", Extension: "zip"}, th.Classes["archive"]},
		{"code upper case", fs.Entry{Name: "main.GO", Extension: "GO"}, th.Classes["code"]},
		{"unstyled class", fs.Entry{Name: "notes.txt", Extension: "txt"}, th.Base},
		{"dir wins", fs.Entry{Name: "src.zip", Extension: "zip", IsDir: true}, th.Dir},
		{"hidden wins", fs.Entry{Name: ".a.zip", Extension: "zip", IsHidden: true}, th.Hidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := entryStyle(th, tt.e); got != tt.want {
				t.Errorf("entryStyle(%s) = %v, want %v", tt.e.Name, got, tt.want)
			}
		})
	}
}
