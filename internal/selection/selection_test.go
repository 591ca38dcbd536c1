package selection

import (
	"reflect"
	"sort"
	"testing"
)

func keys(st State) []string {
	var out []string
	for p := range st.Selected {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func TestSelectRange(t *testing.T) {
	visible := []string{"a", "b", "c", "d"}
	testCases := []struct {
		name     string
		from, to int
		want     []string
	}{
		{"backwards", 3, 1, []string{"b", "c", "d"}},
		{"forwards", 1, 3, []string{"b", "c", "d"}},
		{"single", 2, 2, []string{"c"}},
		{"clamped", -4, 10, []string{"a", "b", "c", "d"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := New()
			s.Select("zzz")
			s.SelectRange(visible, tc.from, tc.to)
			if got := keys(s.Snapshot()); !reflect.DeepEqual(got, tc.want) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestEmptyVisible(t *testing.T) {
	s := New()
	s.Add("x")
	s.SelectRange(nil, 0, 3)
	if s.Snapshot().Len() != 0 {
		t.Error("range over empty list must yield empty selection")
	}
	s.Add("x")
	s.SelectAll(nil)
	if s.Snapshot().Len() != 0 {
		t.Error("SelectAll(nil) must yield empty selection")
	}
}

func TestSelectToggleAdd(t *testing.T) {
	s := New()
	s.SetAnchorIndex(2)
	s.Add("a")
	s.Add("a")
	s.Toggle("b")
	if got := keys(s.Snapshot()); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("after add/toggle: %v", got)
	}
	s.Toggle("a")
	if got := keys(s.Snapshot()); !reflect.DeepEqual(got, []string{"b"}) {
		t.Errorf("toggle off: %v", got)
	}

	s.Select("c")
	st := s.Snapshot()
	if !reflect.DeepEqual(keys(st), []string{"c"}) || st.AnchorIndex != NoAnchor {
		t.Errorf("Select must be exclusive and drop anchor: %+v", st)
	}

	// paths outside the visible list are legal
	s.Add("/not/visible")
	if !s.IsSelected("/not/visible") {
		t.Error("non-visible path not kept")
	}
}

func TestClearKeepsFocus(t *testing.T) {
	s := New()
	s.SetFocusedIndex(3)
	s.SetAnchorIndex(1)
	s.Add("a")
	s.Clear()
	st := s.Snapshot()
	if st.Len() != 0 || st.AnchorIndex != NoAnchor || st.FocusedIndex != 3 {
		t.Errorf("Clear: %+v", st)
	}
}

func TestClampFocus(t *testing.T) {
	s := New()
	s.SetFocusedIndex(7)
	s.SetAnchorIndex(6)
	s.ClampFocus(5)
	if st := s.Snapshot(); st.FocusedIndex != 4 || st.AnchorIndex != NoAnchor {
		t.Errorf("ClampFocus(5): %+v", st)
	}
	s.ClampFocus(0)
	if st := s.Snapshot(); st.FocusedIndex != 0 {
		t.Errorf("ClampFocus(0): %+v", st)
	}
}

func TestOrdered(t *testing.T) {
	s := New()
	s.Add("c")
	s.Add("a")
	s.Add("zz-hidden")
	s.Add("b-hidden")
	got := s.Ordered([]string{"a", "b", "c"})
	want := []string{"a", "c", "b-hidden", "zz-hidden"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Ordered = %v, want %v", got, want)
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	s := New()
	s.Add("a")
	st := s.Snapshot()
	st.Selected["b"] = struct{}{}
	if s.IsSelected("b") {
		t.Error("mutating a snapshot leaked into the store")
	}
}
