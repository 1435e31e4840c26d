package stickytree_test

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/vanderheijden86/stickytree/pkg/model"
	"github.com/vanderheijden86/stickytree/pkg/stickytree"
	"github.com/vanderheijden86/stickytree/pkg/testutil"
)

// drawRecords draws a random tree, including zero-height rows below the root.
func drawRecords(t *rapid.T) []stickytree.Record[*model.Node] {
	cfg := testutil.DefaultConfig()
	cfg.Seed = rapid.Int64Range(1, 1<<40).Draw(t, "seed")
	cfg.MaxChildren = rapid.IntRange(1, 6).Draw(t, "maxChildren")
	cfg.MaxHeight = rapid.IntRange(1, 5).Draw(t, "maxHeight")
	cfg.ZeroHeight = rapid.Float64Range(0, 0.4).Draw(t, "zeroHeight")
	size := rapid.IntRange(1, 300).Draw(t, "size")

	root := testutil.New(cfg).Random(size)
	return stickytree.Flatten[*model.Node](root, testutil.ZeroHeightAccessor{})
}

func TestPropertyFlattenCorrectness(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		records := drawRecords(rt)
		if records[0].Top != 0 {
			rt.Fatalf("root top = %d", records[0].Top)
		}
		for _, rec := range records {
			sum := rec.RowHeight
			for k, c := range rec.Children {
				sum += records[c].Height
				if k == 0 && records[c].Top != rec.Top+rec.RowHeight {
					rt.Fatalf("first child of %d starts at %d", rec.Index, records[c].Top)
				}
			}
			if sum != rec.Height {
				rt.Fatalf("record %d height %d != own+children %d", rec.Index, rec.Height, sum)
			}
			if !rec.IsRoot() && rec.ParentIndex >= rec.Index {
				rt.Fatalf("record %d parent %d does not precede it", rec.Index, rec.ParentIndex)
			}
		}
	})
}

func TestPropertyDirectionalSearchEquivalence(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		records := drawRecords(rt)
		total := stickytree.TotalHeight(records)
		offsets := rapid.SliceOfN(rapid.IntRange(0, total+10), 1, 60).Draw(rt, "offsets")

		var state stickytree.ViewportState
		for _, off := range offsets {
			stickytree.Advance(&state, records, off)
			if want := stickytree.ScanIndex(records, off); state.CurrentIndex != want {
				rt.Fatalf("after scrolling to %d: incremental %d, full scan %d", off, state.CurrentIndex, want)
			}
			if state.ScrollTop != off {
				rt.Fatalf("scrollTop = %d, want %d", state.ScrollTop, off)
			}
		}
	})
}

func TestPropertyRangeCoverage(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		records := drawRecords(rt)
		total := stickytree.TotalHeight(records)
		overscan := rapid.IntRange(0, 4).Draw(rt, "overscan")
		viewport := rapid.IntRange(0, 40).Draw(rt, "viewport")
		offsets := rapid.SliceOfN(rapid.IntRange(0, total+5), 1, 20).Draw(rt, "offsets")

		var state stickytree.ViewportState
		for _, off := range offsets {
			stickytree.Advance(&state, records, off)
			rng := stickytree.RenderRange(records, state, overscan, viewport)
			set := stickytree.NewRenderSet(records, rng)
			lo, hi := state.ScrollTop, state.ScrollTop+viewport

			for _, rec := range records {
				if rec.RowHeight > 0 && rec.Top < hi && rec.RowBottom() > lo && !rng.Contains(rec.Index) {
					rt.Fatalf("row %d [%d,%d) intersects [%d,%d) but range is %+v",
						rec.Index, rec.Top, rec.RowBottom(), lo, hi, rng)
				}
				if rec.Height > 0 && rec.Top < hi && rec.Bottom() > lo && !set.Contains(rec.Index) {
					rt.Fatalf("subtree %d [%d,%d) intersects [%d,%d) but is not in the render set",
						rec.Index, rec.Top, rec.Bottom(), lo, hi)
				}
			}
			if rng.Start < state.CurrentIndex-overscan || rng.Start < 0 {
				rt.Fatalf("range start %d below overscan bound", rng.Start)
			}
		}
	})
}

func TestPropertyLocateIdempotent(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		records := drawRecords(rt)
		off := rapid.IntRange(0, stickytree.TotalHeight(records)).Draw(rt, "offset")

		var state stickytree.ViewportState
		stickytree.Advance(&state, records, off)
		first := state
		if stickytree.Advance(&state, records, off) || state != first {
			rt.Fatalf("second scroll to %d changed state %+v -> %+v", off, first, state)
		}
	})
}

func TestPropertyComposeOffsets(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		records := drawRecords(rt)
		start := rapid.IntRange(0, len(records)-1).Draw(rt, "start")
		end := rapid.IntRange(start, len(records)-1).Draw(rt, "end")

		set := stickytree.NewRenderSet(records, stickytree.Range{Start: start, End: end})
		layout := stickytree.Compose(records, set, true)
		if len(layout) != set.Len() {
			rt.Fatalf("layout placed %d of %d members", len(layout), set.Len())
		}
		for _, p := range layout {
			rec := records[p.Index]
			if rec.IsRoot() {
				continue
			}
			parent := records[rec.ParentIndex]
			if want := parent.Top + parent.RowHeight + p.Offset; want != rec.Top {
				rt.Fatalf("placement %d: parent top %d + row %d + offset %d != top %d",
					p.Index, parent.Top, parent.RowHeight, p.Offset, rec.Top)
			}
		}
	})
}
