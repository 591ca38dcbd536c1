package clipboard

import (
	"reflect"
	"testing"
)

func TestCopyReplaces(t *testing.T) {
	c := New()
	c.Copy([]string{"/x"}, "/src")
	c.Copy([]string{"/y"}, "/src2")
	want := State{Paths: []string{"/y"}, Operation: OpCopy, SourcePath: "/src2"}
	if got := c.Snapshot(); !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestCutThenClear(t *testing.T) {
	c := New()
	if !c.IsEmpty() {
		t.Fatal("new clipboard not empty")
	}
	c.Cut([]string{"/a", "/b"}, "/dir")
	if c.IsEmpty() || c.Snapshot().Operation != OpCut {
		t.Errorf("cut not staged: %+v", c.Snapshot())
	}
	c.Clear()
	if st := c.Snapshot(); !st.IsEmpty() || len(st.Paths) != 0 || st.SourcePath != "" {
		t.Errorf("Clear: %+v", st)
	}
}

func TestEmptyStageClears(t *testing.T) {
	c := New()
	c.Copy([]string{"/a"}, "/dir")
	c.Cut(nil, "/dir")
	if st := c.Snapshot(); st.Operation != OpNone || len(st.Paths) != 0 {
		t.Errorf("staging nothing must clear: %+v", st)
	}
}

func TestCallerSliceIsCopied(t *testing.T) {
	c := New()
	paths := []string{"/a", "/b"}
	c.Copy(paths, "/dir")
	paths[0] = "/changed"
	if got := c.Snapshot().Paths; got[0] != "/a" {
		t.Errorf("store aliased caller slice: %v", got)
	}
}

func TestSubscribe(t *testing.T) {
	c := New()
	var ops []Operation
	c.Subscribe(func(st State) { ops = append(ops, st.Operation) })
	c.Copy([]string{"/a"}, "/")
	c.Clear()
	if !reflect.DeepEqual(ops, []Operation{OpCopy, OpNone}) {
		t.Errorf("notifications = %v", ops)
	}
}
