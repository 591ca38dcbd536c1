package contextmenu

import (
	"testing"

	"github.com/justyntemme/twinpane/internal/keymap"
)

func TestShowHide(t *testing.T) {
	m := New()
	items := []Item{
		{Label: "Copy", Shortcut: "F5", Action: keymap.Copy},
		{Divider: true},
		{Label: "Delete", Shortcut: "F8", Action: keymap.Delete, Danger: true},
	}
	m.Show(4, 7, items)
	st := m.Snapshot()
	if !st.Visible || st.X != 4 || st.Y != 7 || len(st.Items) != 3 {
		t.Fatalf("Show: %+v", st)
	}

	m.Hide()
	st = m.Snapshot()
	if st.Visible || st.X != 4 || len(st.Items) != 3 {
		t.Errorf("Hide must keep position and items: %+v", st)
	}

	if sel := st.Selectable(); len(sel) != 2 || sel[0] != 0 || sel[1] != 2 {
		t.Errorf("Selectable = %v", sel)
	}
}
