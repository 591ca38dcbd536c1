package ui

import "github.com/gdamore/tcell/v2"

// Theme holds the terminal palette.
type Theme struct {
	Base        tcell.Style
	Header      tcell.Style
	HeaderDim   tcell.Style
	Column      tcell.Style
	Dir         tcell.Style
	Symlink     tcell.Style
	Hidden      tcell.Style
	Cursor      tcell.Style
	CursorDim   tcell.Style
	Selected    tcell.Style
	Error       tcell.Style
	Status      tcell.Style
	StatusError tcell.Style
	Prompt      tcell.Style
	Menu        tcell.Style
	MenuCursor  tcell.Style
	Danger      tcell.Style
	Border      tcell.Style

	// Classes colours files by format.IconClass. Missing classes use Base.
	Classes map[string]tcell.Style
}

// DefaultTheme works on dark and light terminals alike.
func DefaultTheme() Theme {
	base := tcell.StyleDefault
	return Theme{
		Base:        base,
		Header:      base.Background(tcell.Color33).Foreground(tcell.ColorWhite).Bold(true),
		HeaderDim:   base.Background(tcell.Color238).Foreground(tcell.Color252),
		Column:      base.Foreground(tcell.ColorGray).Underline(true),
		Dir:         base.Foreground(tcell.Color33).Bold(true),
		Symlink:     base.Foreground(tcell.Color51),
		Hidden:      base.Foreground(tcell.ColorLightSlateGray),
		Cursor:      base.Background(tcell.Color33).Foreground(tcell.ColorWhite),
		CursorDim:   base.Background(tcell.Color238).Foreground(tcell.ColorWhite),
		Selected:    base.Foreground(tcell.ColorYellow).Bold(true),
		Error:       base.Foreground(tcell.ColorRed),
		Status:      base.Background(tcell.Color236).Foreground(tcell.Color252),
		StatusError: base.Background(tcell.ColorDarkRed).Foreground(tcell.ColorWhite),
		Prompt:      base.Foreground(tcell.ColorWhite).Bold(true),
		Menu:        base.Background(tcell.Color236).Foreground(tcell.Color252),
		MenuCursor:  base.Background(tcell.Color33).Foreground(tcell.ColorWhite),
		Danger:      base.Background(tcell.Color236).Foreground(tcell.ColorRed),
		Border:      base.Foreground(tcell.Color240),
		Classes: map[string]tcell.Style{
			"archive":    base.Foreground(tcell.ColorRed),
			"image":      base.Foreground(tcell.ColorFuchsia),
			"video":      base.Foreground(tcell.ColorFuchsia),
			"audio":      base.Foreground(tcell.Color141),
			"code":       base.Foreground(tcell.ColorGreen),
			"executable": base.Foreground(tcell.ColorGreen).Bold(true),
		},
	}
}
