package keymap

import (
	"unicode"

	"gioui.org/io/key"
	"github.com/gdamore/tcell/v2"
)

var tcellKeys = map[tcell.Key]key.Name{
	tcell.KeyUp:         key.NameUpArrow,
	tcell.KeyDown:       key.NameDownArrow,
	tcell.KeyLeft:       key.NameLeftArrow,
	tcell.KeyRight:      key.NameRightArrow,
	tcell.KeyHome:       key.NameHome,
	tcell.KeyEnd:        key.NameEnd,
	tcell.KeyPgUp:       key.NamePageUp,
	tcell.KeyPgDn:       key.NamePageDown,
	tcell.KeyEnter:      key.NameReturn,
	tcell.KeyTab:        key.NameTab,
	tcell.KeyBackspace2: key.NameDeleteBackward,
	tcell.KeyDelete:     key.NameDeleteForward,
	tcell.KeyEscape:     key.NameEscape,
	tcell.KeyF1:         key.NameF1,
	tcell.KeyF2:         key.NameF2,
	tcell.KeyF3:         key.NameF3,
	tcell.KeyF4:         key.NameF4,
	tcell.KeyF5:         key.NameF5,
	tcell.KeyF6:         key.NameF6,
	tcell.KeyF7:         key.NameF7,
	tcell.KeyF8:         key.NameF8,
	tcell.KeyF9:         key.NameF9,
	tcell.KeyF10:        key.NameF10,
	tcell.KeyF11:        key.NameF11,
	tcell.KeyF12:        key.NameF12,
}

// FromTcell converts a terminal key event. Terminals report Ctrl+letter as
// control codes, which share values with Tab, Enter and Backspace; those
// three keep their own meaning and 0x08 is only Ctrl+H when tcell flags Ctrl.
func FromTcell(ev *tcell.EventKey) Chord {
	mods := ev.Modifiers()
	c := Chord{
		Ctrl:  mods&(tcell.ModCtrl|tcell.ModMeta) != 0,
		Shift: mods&tcell.ModShift != 0,
		Alt:   mods&tcell.ModAlt != 0,
	}

	k := ev.Key()
	switch {
	case k == tcell.KeyRune:
		r := ev.Rune()
		if r == ' ' {
			c.Key = key.NameSpace
		} else {
			c.Key = key.Name(string(unicode.ToUpper(r)))
		}
		return c
	case k == tcell.KeyBacktab:
		c.Key, c.Shift = key.NameTab, true
		return c
	case k == tcell.KeyBackspace:
		if c.Ctrl {
			c.Key = "H"
		} else {
			c.Key = key.NameDeleteBackward
		}
		return c
	}
	if name, ok := tcellKeys[k]; ok {
		c.Key = name
		if k == tcell.KeyTab || k == tcell.KeyEnter || k == tcell.KeyEscape {
			c.Ctrl = false
		}
		return c
	}
	if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		c.Key = key.Name(string(rune('A' + (k - tcell.KeyCtrlA))))
		c.Ctrl = true
		return c
	}
	c.Key = key.Name(ev.Name())
	return c
}
