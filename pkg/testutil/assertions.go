package testutil

import (
	"testing"

	"github.com/vanderheijden86/stickytree/pkg/stickytree"
)

// AssertFlattenInvariants checks every structural invariant of a flat
// sequence: index equals position, parents precede children and list them,
// offsets are contiguous and subtree heights add up.
func AssertFlattenInvariants[N any](t *testing.T, records []stickytree.Record[N]) {
	t.Helper()
	if len(records) == 0 {
		t.Fatal("flat sequence is empty")
	}
	if records[0].Top != 0 || !records[0].IsRoot() {
		t.Errorf("root record = %+v, want top 0 and no parent", records[0])
	}

	for i, rec := range records {
		if rec.Index != i {
			t.Errorf("record %d has index %d", i, rec.Index)
		}
		if i > 0 {
			prev := records[i-1]
			if rec.Top != prev.Top+prev.RowHeight {
				t.Errorf("record %d top %d, want %d", i, rec.Top, prev.Top+prev.RowHeight)
			}
			if rec.ParentIndex < 0 || rec.ParentIndex >= i {
				t.Errorf("record %d parent %d does not precede it", i, rec.ParentIndex)
				continue
			}
			if !containsInt(records[rec.ParentIndex].Children, i) {
				t.Errorf("record %d missing from parent %d children", i, rec.ParentIndex)
			}
			if rec.Depth != records[rec.ParentIndex].Depth+1 {
				t.Errorf("record %d depth %d, parent depth %d", i, rec.Depth, records[rec.ParentIndex].Depth)
			}
		}

		sum := rec.RowHeight
		for k, c := range rec.Children {
			sum += records[c].Height
			if k == 0 && records[c].Top != rec.Top+rec.RowHeight {
				t.Errorf("first child %d of %d starts at %d, want %d", c, i, records[c].Top, rec.Top+rec.RowHeight)
			}
		}
		if rec.Height != sum {
			t.Errorf("record %d height %d, want own+children %d", i, rec.Height, sum)
		}

		next := stickytree.TotalHeight(records)
		for j := i + 1; j < len(records); j++ {
			if records[j].Depth <= rec.Depth {
				next = records[j].Top
				break
			}
		}
		if rec.Bottom() != next {
			t.Errorf("record %d bottom %d, next boundary %d", i, rec.Bottom(), next)
		}
	}
}

// AssertRange checks an inclusive range.
func AssertRange(t *testing.T, got stickytree.Range, start, end int) {
	t.Helper()
	if got.Start != start || got.End != end {
		t.Errorf("range = [%d,%d], want [%d,%d]", got.Start, got.End, start, end)
	}
}

// AssertInts compares two int slices.
func AssertInts(t *testing.T, got, want []int) {
	t.Helper()
	if len(got) != len(want) {
		t.Errorf("got %v, want %v", got, want)
		return
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("got %v, want %v", got, want)
			return
		}
	}
}

func containsInt(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
