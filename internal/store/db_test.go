package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/justyntemme/twinpane/internal/fs"
)

func i64(v int64) *int64 { return &v }

func openTemp(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSaveAndLoad(t *testing.T) {
	db := openTemp(t)
	entries := []fs.Entry{
		{Name: "b.go", Path: "/r/b.go", Extension: "go", Size: i64(12), Modified: i64(99)},
		{Name: "a", Path: "/r/a", IsDir: true, IsHidden: false},
	}
	if err := db.SaveIndex([]string{"/r"}, entries); err != nil {
		t.Fatalf("SaveIndex: %v", err)
	}

	got, roots, fresh, err := db.LoadIndex(24 * time.Hour)
	if err != nil || !fresh {
		t.Fatalf("LoadIndex: fresh=%v err=%v", fresh, err)
	}
	if len(roots) != 1 || roots[0] != "/r" {
		t.Errorf("roots = %v", roots)
	}
	if len(got) != 2 || got[0].Path != "/r/a" || got[1].SizeOrZero() != 12 || got[0].Size != nil {
		t.Errorf("entries = %+v", got)
	}
}

func TestLoadStale(t *testing.T) {
	db := openTemp(t)
	db.now = func() time.Time { return time.Unix(1000, 0) }
	db.SaveIndex([]string{"/r"}, []fs.Entry{{Name: "x", Path: "/r/x"}})

	db.now = func() time.Time { return time.Unix(1000, 0).Add(25 * time.Hour) }
	_, _, fresh, err := db.LoadIndex(24 * time.Hour)
	if err != nil || fresh {
		t.Errorf("stale cache reported fresh=%v err=%v", fresh, err)
	}
}

func TestUpsertRemoveClear(t *testing.T) {
	db := openTemp(t)
	db.SaveIndex([]string{"/r"}, []fs.Entry{
		{Name: "d", Path: "/r/d", IsDir: true},
		{Name: "f", Path: "/r/d/f"},
		{Name: "dd", Path: "/r/dd"},
	})
	db.Upsert([]fs.Entry{{Name: "n", Path: "/r/n"}})
	if err := db.Remove("/r/d"); err != nil {
		t.Fatal(err)
	}
	got, _, _, _ := db.LoadIndex(time.Hour)
	var paths []string
	for _, e := range got {
		paths = append(paths, e.Path)
	}
	if len(paths) != 2 || paths[0] != "/r/dd" || paths[1] != "/r/n" {
		t.Errorf("paths = %v", paths)
	}

	db.Clear()
	if _, _, fresh, _ := db.LoadIndex(time.Hour); fresh {
		t.Error("cleared cache reported fresh")
	}
}
