package stickytree_test

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/vanderheijden86/stickytree/pkg/debug"
	"github.com/vanderheijden86/stickytree/pkg/metrics"
	"github.com/vanderheijden86/stickytree/pkg/model"
	"github.com/vanderheijden86/stickytree/pkg/stickytree"
	"github.com/vanderheijden86/stickytree/pkg/testutil"
)

func flattenNodes(root *model.Node) []stickytree.Record[*model.Node] {
	return stickytree.Flatten[*model.Node](root, model.Accessor{})
}

func TestFlattenExample(t *testing.T) {
	root := testutil.Example()
	records := flattenNodes(root)

	want := []struct {
		id     string
		top    int
		height int
		parent int
	}{
		{"root", 0, 35, stickytree.NoParent},
		{"a", 10, 20, 0},
		{"b", 30, 5, 0},
	}
	if len(records) != len(want) {
		t.Fatalf("got %d records, want %d", len(records), len(want))
	}
	for i, w := range want {
		rec := records[i]
		if rec.Node.ID != w.id || rec.Top != w.top || rec.Height != w.height || rec.ParentIndex != w.parent {
			t.Errorf("record %d = {%s top:%d height:%d parent:%d}, want %+v",
				i, rec.Node.ID, rec.Top, rec.Height, rec.ParentIndex, w)
		}
	}
	testutil.AssertInts(t, records[0].Children, []int{1, 2})
	if !records[1].IsLeaf() || !records[2].IsLeaf() {
		t.Error("a and b should be leaves")
	}
	if records[0].Node != root {
		t.Error("record should reference the caller's node")
	}
	if got := stickytree.TotalHeight(records); got != 35 {
		t.Errorf("TotalHeight = %d, want 35", got)
	}
}

func TestFlattenSingleRoot(t *testing.T) {
	records := flattenNodes(&model.Node{ID: "only", Height: 7})
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	rec := records[0]
	if rec.Top != 0 || rec.Height != 7 || rec.RowHeight != 7 || !rec.IsLeaf() || !rec.IsRoot() {
		t.Errorf("unexpected root record %+v", rec)
	}
}

func TestFlattenEmptyChildrenIsLeaf(t *testing.T) {
	records := flattenNodes(&model.Node{ID: "r", Children: []*model.Node{}})
	if !records[0].IsLeaf() {
		t.Error("an empty children slice should mark a leaf")
	}
}

func TestFlattenZeroHeights(t *testing.T) {
	acc := stickytree.AccessorFuncs[string]{
		HeightOf: func(n string) int {
			if n == "group" || n == "neg" {
				return -3 // clamped to 0
			}
			return 2
		},
		ChildrenOf: func(n string) []string {
			switch n {
			case "root":
				return []string{"group", "tail"}
			case "group":
				return []string{"x", "neg", "y"}
			}
			return nil
		},
	}
	records := stickytree.Flatten[string]("root", acc)
	testutil.AssertFlattenInvariants(t, records)

	byNode := map[string]stickytree.Record[string]{}
	for _, r := range records {
		byNode[r.Node] = r
	}
	if g := byNode["group"]; g.RowHeight != 0 || g.Top != 2 || g.Height != 4 {
		t.Errorf("group = %+v, want zero row at 2 with subtree 4", g)
	}
	if x := byNode["x"]; x.Top != byNode["group"].Top {
		t.Errorf("first child of a zero-height node should share its top: %d vs %d", x.Top, byNode["group"].Top)
	}
	if n := byNode["neg"]; n.RowHeight != 0 {
		t.Errorf("negative height should clamp to 0, got %d", n.RowHeight)
	}
	if tail := byNode["tail"]; tail.Top != 6 {
		t.Errorf("tail top = %d, want 6", tail.Top)
	}
}

func TestFlattenDeepChain(t *testing.T) {
	// Deep enough to be uncomfortable for a recursive walk.
	root := testutil.NewDefault().Chain(200000)
	records := flattenNodes(root)
	if len(records) != 200000 {
		t.Fatalf("got %d records", len(records))
	}
	last := records[len(records)-1]
	if last.Depth != 199999 || last.Top != 199999 {
		t.Errorf("last record depth %d top %d", last.Depth, last.Top)
	}
	if records[0].Height != 200000 {
		t.Errorf("root height = %d", records[0].Height)
	}
}

func TestFlattenInvariantsOnShapes(t *testing.T) {
	g := testutil.NewDefault()
	shapes := map[string]*model.Node{
		"random":   g.Random(500),
		"balanced": g.Balanced(4, 4, 2),
		"wide":     g.Wide(300),
	}
	for name, root := range shapes {
		t.Run(name, func(t *testing.T) {
			testutil.AssertFlattenInvariants(t, flattenNodes(root))
		})
	}
}

func TestAccessorFuncsDefaults(t *testing.T) {
	records := stickytree.Flatten[int](1, stickytree.AccessorFuncs[int]{})
	if len(records) != 1 || records[0].Height != 1 {
		t.Errorf("unset accessors should give a single unit-height leaf, got %+v", records)
	}
}

func BenchmarkFlatten(b *testing.B) {
	sizes := map[string]*model.Node{
		"10k":  testutil.QuickRandom(10000),
		"100k": testutil.QuickRandom(100000),
	}
	for name, root := range sizes {
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = flattenNodes(root)
			}
		})
	}
}

func TestFlattenRecordsTimingOnce(t *testing.T) {
	wasDebug, wasMetrics := debug.Enabled(), metrics.Enabled()
	var buf bytes.Buffer
	debug.SetOutput(&buf)
	debug.SetEnabled(true)
	metrics.SetEnabled(true)
	t.Cleanup(func() {
		debug.SetEnabled(wasDebug)
		debug.SetOutput(os.Stderr)
		metrics.SetEnabled(wasMetrics)
	})

	before := metrics.Flatten.Count()
	flattenNodes(testutil.Example())

	if got := metrics.Flatten.Count() - before; got != 1 {
		t.Errorf("flatten timings recorded = %d, want 1", got)
	}
	if strings.Contains(buf.String(), " took ") {
		t.Errorf("flatten should not log its own timing:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "flattened 3 records") {
		t.Errorf("missing rebuild log:\n%s", buf.String())
	}
}
