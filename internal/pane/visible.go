package pane

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/justyntemme/twinpane/internal/fs"
)

// Visible applies the hidden filter, then the name filter, then a stable sort
// with directories first. It never mutates st.
func Visible(st State) []fs.Entry {
	fold := cases.Fold()
	needle := fold.String(st.Filter)

	out := make([]fs.Entry, 0, len(st.Entries))
	for _, e := range st.Entries {
		if e.IsHidden && !st.ShowHidden {
			continue
		}
		if needle != "" && !strings.Contains(fold.String(e.Name), needle) {
			continue
		}
		out = append(out, e)
	}

	cmp := comparator(st.SortColumn)
	desc := st.SortDirection == Desc
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.IsDir != b.IsDir {
			return a.IsDir
		}
		c := cmp(a, b)
		if desc {
			c = -c
		}
		return c < 0
	})
	return out
}

// comparator returns a three-way comparison for column. Collators are not
// safe for concurrent use, so each derivation builds its own.
func comparator(column SortColumn) func(a, b fs.Entry) int {
	switch column {
	case SortSize:
		return func(a, b fs.Entry) int { return compareInt(a.SizeOrZero(), b.SizeOrZero()) }
	case SortModified:
		return func(a, b fs.Entry) int { return compareInt(a.ModifiedOrZero(), b.ModifiedOrZero()) }
	case SortExtension:
		col := collate.New(language.Und)
		return func(a, b fs.Entry) int { return col.CompareString(a.Extension, b.Extension) }
	default:
		col := collate.New(language.Und, collate.IgnoreCase, collate.IgnoreDiacritics)
		return func(a, b fs.Entry) int { return col.CompareString(a.Name, b.Name) }
	}
}

func compareInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
