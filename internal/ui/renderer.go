package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/justyntemme/twinpane/internal/format"
	"github.com/justyntemme/twinpane/internal/fs"
	"github.com/justyntemme/twinpane/internal/pane"
)

const (
	sizeWidth = 9
	dateWidth = 13
	// panes narrower than this drop the date column
	minDateWidth = 44
)

// Renderer draws State frames. Scroll offsets persist between frames so the
// cursor moves inside a stable window.
type Renderer struct {
	screen  tcell.Screen
	theme   Theme
	offsets [2]int
}

func NewRenderer(screen tcell.Screen) *Renderer {
	return &Renderer{screen: screen, theme: DefaultTheme()}
}

// ListRows is the number of entry rows each pane shows at the current size.
func (r *Renderer) ListRows() int {
	_, h := r.screen.Size()
	return max(h-4, 1)
}

// Render draws st and shows the frame.
func (r *Renderer) Render(st State) {
	s := r.screen
	s.Clear()
	w, h := s.Size()
	if w < 10 || h < 5 {
		put(s, 0, 0, r.theme.Error, fit("terminal too small", w))
		s.Show()
		return
	}

	left := w / 2
	r.renderPane(0, 0, left, h-2, st.Panes[0], st)
	for y := 0; y < h-2; y++ {
		s.SetContent(left, y, '│', nil, r.theme.Border)
	}
	r.renderPane(1, left+1, w-left-1, h-2, st.Panes[1], st)

	r.renderStatus(0, h-2, w, st)
	r.renderBottom(0, h-1, w, st)

	if st.Menu != nil {
		r.renderMenu(w, h, st.Menu)
	}
	if len(st.Help) > 0 {
		r.renderHelp(w, h, st.Help)
	}
	s.Show()
}

func (r *Renderer) renderPane(idx, x, width, height int, p PaneView, st State) {
	s, t := r.screen, r.theme

	header := t.HeaderDim
	if p.Active {
		header = t.Header
	}
	title := p.Title
	if p.Filter != "" {
		title += "  [/" + p.Filter + "]"
	}
	if p.Loading {
		title += "  …"
	}
	put(s, x, 0, header, fitLeft(" "+title, width))

	showDate := width >= minDateWidth
	nameWidth := width - 3 - sizeWidth - 1
	if showDate {
		nameWidth -= dateWidth + 1
	}
	put(s, x, 1, t.Column, r.columns(p, nameWidth, showDate, width))

	rows := height - 2
	if p.Error != "" {
		put(s, x, 2, t.Error, fit(" "+p.Error, width))
		rows--
	}
	top := height - rows

	off := r.scroll(idx, p.Focused, rows, len(p.Entries))
	for i := 0; i < rows && off+i < len(p.Entries); i++ {
		e := p.Entries[off+i]
		y := top + i
		style := entryStyle(t, e)
		_, selected := p.Selected[e.Path]
		if selected {
			style = t.Selected
		}
		if off+i == p.Focused {
			if p.Active {
				style = t.Cursor
			} else {
				style = t.CursorDim
			}
		}
		mark := " "
		if selected {
			mark = "*"
		}
		line := mark + fit(format.FileIcon(e.IsDir, e.Extension), 2) + fit(displayName(e), nameWidth) +
			" " + fitRight(sizeText(e), sizeWidth)
		if showDate {
			line += " " + fit(format.FormatDate(e.Modified, st.Now), dateWidth)
		}
		put(s, x, y, style, fit(line, width))
	}
	if len(p.Entries) == 0 && !p.Loading && p.Error == "" {
		put(s, x, top, t.Hidden, fit("  (empty)", width))
	}
}

func (r *Renderer) columns(p PaneView, nameWidth int, showDate bool, width int) string {
	label := func(c pane.SortColumn, text string) string {
		if p.SortColumn != c {
			return text
		}
		if p.SortDirection == pane.Desc {
			return text + " ▼"
		}
		return text + " ▲"
	}
	name := label(pane.SortName, "Name")
	if p.SortColumn == pane.SortExtension {
		name = label(pane.SortExtension, "Name (ext)")
	}
	line := "   " + fit(name, nameWidth) + " " + fitRight(label(pane.SortSize, "Size"), sizeWidth)
	if showDate {
		line += " " + fit(label(pane.SortModified, "Modified"), dateWidth)
	}
	return fit(line, width)
}

// scroll keeps focused inside the window of rows lines.
func (r *Renderer) scroll(idx, focused, rows, n int) int {
	off := r.offsets[idx]
	switch {
	case focused < off:
		off = focused
	case focused >= off+rows:
		off = focused - rows + 1
	}
	off = min(off, max(n-rows, 0))
	off = max(off, 0)
	r.offsets[idx] = off
	return off
}

func entryStyle(t Theme, e fs.Entry) tcell.Style {
	switch {
	case e.IsSymlink:
		return t.Symlink
	case e.IsDir:
		return t.Dir
	case e.IsHidden:
		return t.Hidden
	}
	if style, ok := t.Classes[format.IconClass(e.IsDir, e.Extension)]; ok {
		return style
	}
	return t.Base
}

func displayName(e fs.Entry) string {
	switch {
	case e.IsSymlink:
		return e.Name + "@"
	case e.IsDir:
		return e.Name + "/"
	}
	return e.Name
}

func sizeText(e fs.Entry) string {
	if e.IsDir {
		return "<DIR>"
	}
	return format.FormatFileSize(e.Size)
}

func (r *Renderer) renderStatus(x, y, width int, st State) {
	style := r.theme.Status
	text := st.Status
	if st.StatusError {
		style = r.theme.StatusError
	}
	if text == "" {
		text = st.Progress
	}

	var right []string
	if st.Clipboard != "" {
		right = append(right, st.Clipboard)
	}
	if st.Index != "" {
		right = append(right, st.Index)
	}
	tail := strings.Join(right, " | ")
	tw := min(len([]rune(tail))+1, width/2)
	put(r.screen, x, y, style, fit(" "+text, width-tw)+fitRight(tail+" ", tw))
}

func (r *Renderer) renderBottom(x, y, width int, st State) {
	if st.Prompt != nil {
		end := put(r.screen, x, y, r.theme.Prompt, st.Prompt.Label+" ")
		put(r.screen, end, y, r.theme.Base, fitLeft(st.Prompt.Input, width-(end-x)-1))
		r.screen.ShowCursor(min(end+len([]rune(st.Prompt.Input)), width-1), y)
		return
	}
	r.screen.HideCursor()
	hints := "F1 help  F5 copy  F6 move  F7 mkdir  F8 delete  F2 rename  Ctrl+Z undo  Ctrl+P menu  Ctrl+Q quit"
	put(r.screen, x, y, r.theme.Hidden, fit(hints, width))
}

func (r *Renderer) box(w, h, bw, bh int, title string) (int, int) {
	bw, bh = min(bw, w-2), min(bh, h-2)
	x0, y0 := (w-bw)/2, (h-bh)/2
	t := r.theme
	for y := y0; y < y0+bh; y++ {
		fill(r.screen, x0, y, bw, t.Menu)
	}
	put(r.screen, x0, y0, t.Header, fit(" "+title, bw))
	return x0, y0 + 1
}

func (r *Renderer) renderMenu(w, h int, m *Menu) {
	width := len(m.Title) + 4
	for _, it := range m.Items {
		width = max(width, len([]rune(it.Label))+len(it.Shortcut)+6)
	}
	x0, y0 := r.box(w, h, width, len(m.Items)+1, m.Title)
	bw := min(width, w-2)
	for i, it := range m.Items {
		if y0+i >= h-1 {
			break
		}
		if it.Divider {
			put(r.screen, x0, y0+i, r.theme.Menu, strings.Repeat("─", bw))
			continue
		}
		style := r.theme.Menu
		if it.Danger {
			style = r.theme.Danger
		}
		if i == m.Index {
			style = r.theme.MenuCursor
		}
		sc := fitRight(it.Shortcut+" ", len(it.Shortcut)+1)
		put(r.screen, x0, y0+i, style, fit(" "+it.Label, bw-len([]rune(sc)))+sc)
	}
}

func (r *Renderer) renderHelp(w, h int, rows []HelpRow) {
	keysWidth := 0
	for _, row := range rows {
		keysWidth = max(keysWidth, len([]rune(row.Keys)))
	}
	width := keysWidth + 30
	x0, y0 := r.box(w, h, width, len(rows)+2, "Keys (any key closes)")
	bw := min(width, w-2)
	for i, row := range rows {
		if y0+i >= h-2 {
			put(r.screen, x0, y0+i, r.theme.Menu, fit(fmt.Sprintf(" … %d more", len(rows)-i), bw))
			break
		}
		put(r.screen, x0, y0+i, r.theme.Menu, fit(" "+fit(row.Keys, keysWidth)+"  "+row.Action, bw))
	}
}
