package keymap

import (
	"fmt"
	"strings"

	"gioui.org/io/key"
)

// ParseChord parses a hotkey string like "Ctrl+Shift+F". Cmd, Command and
// Meta count as Ctrl.
func ParseChord(s string) (Chord, error) {
	var c Chord
	var keyPart string
	for _, part := range strings.Split(s, "+") {
		part = strings.TrimSpace(part)
		switch strings.ToLower(part) {
		case "ctrl", "control", "cmd", "command", "meta":
			c.Ctrl = true
		case "shift":
			c.Shift = true
		case "alt", "option":
			c.Alt = true
		case "":
			// "Ctrl++" splits into empty parts around the plus key
			if strings.HasSuffix(s, "++") || s == "+" {
				keyPart = "+"
			}
		default:
			if keyPart != "" {
				return Chord{}, fmt.Errorf("hotkey %q names more than one key", s)
			}
			keyPart = part
		}
	}
	if keyPart == "" {
		return Chord{}, fmt.Errorf("hotkey %q has no key", s)
	}
	c.Key = parseKeyName(keyPart)
	return c, nil
}

// MustParseChord is ParseChord for static tables.
func MustParseChord(s string) Chord {
	c, err := ParseChord(s)
	if err != nil {
		panic(err)
	}
	return c
}

var namedKeys = map[string]key.Name{
	"up": key.NameUpArrow, "uparrow": key.NameUpArrow, "arrowup": key.NameUpArrow,
	"down": key.NameDownArrow, "downarrow": key.NameDownArrow, "arrowdown": key.NameDownArrow,
	"left": key.NameLeftArrow, "leftarrow": key.NameLeftArrow, "arrowleft": key.NameLeftArrow,
	"right": key.NameRightArrow, "rightarrow": key.NameRightArrow, "arrowright": key.NameRightArrow,
	"home": key.NameHome,
	"end":  key.NameEnd,
	"pageup": key.NamePageUp, "pgup": key.NamePageUp,
	"pagedown": key.NamePageDown, "pgdn": key.NamePageDown,
	"enter": key.NameReturn, "return": key.NameReturn,
	"tab":   key.NameTab,
	"space": key.NameSpace, "spacebar": key.NameSpace,
	"backspace": key.NameDeleteBackward,
	"delete":    key.NameDeleteForward, "del": key.NameDeleteForward,
	"escape": key.NameEscape, "esc": key.NameEscape,
	"f1": key.NameF1, "f2": key.NameF2, "f3": key.NameF3, "f4": key.NameF4,
	"f5": key.NameF5, "f6": key.NameF6, "f7": key.NameF7, "f8": key.NameF8,
	"f9": key.NameF9, "f10": key.NameF10, "f11": key.NameF11, "f12": key.NameF12,
}

// displayNames is the reverse of namedKeys for String.
var displayNames = map[key.Name]string{
	key.NameUpArrow:        "Up",
	key.NameDownArrow:      "Down",
	key.NameLeftArrow:      "Left",
	key.NameRightArrow:     "Right",
	key.NameHome:           "Home",
	key.NameEnd:            "End",
	key.NamePageUp:         "PageUp",
	key.NamePageDown:       "PageDown",
	key.NameReturn:         "Enter",
	key.NameTab:            "Tab",
	key.NameSpace:          "Space",
	key.NameDeleteBackward: "Backspace",
	key.NameDeleteForward:  "Delete",
	key.NameEscape:         "Escape",
}

// parseKeyName maps a key string onto gio's key.Name vocabulary. Single
// characters are upper-cased the way gio reports letters.
func parseKeyName(s string) key.Name {
	if s == " " {
		return key.NameSpace
	}
	if len([]rune(s)) == 1 {
		return key.Name(strings.ToUpper(s))
	}
	if n, ok := namedKeys[strings.ToLower(s)]; ok {
		return n
	}
	return key.Name(s)
}

// String renders the chord back into ParseChord syntax.
func (c Chord) String() string {
	if c.Key == "" {
		return ""
	}
	var parts []string
	if c.Ctrl {
		parts = append(parts, "Ctrl")
	}
	if c.Shift {
		parts = append(parts, "Shift")
	}
	if c.Alt {
		parts = append(parts, "Alt")
	}
	name, ok := displayNames[c.Key]
	if !ok {
		name = string(c.Key)
	}
	return strings.Join(append(parts, name), "+")
}
