package testutil

import (
	"testing"

	"github.com/vanderheijden86/stickytree/pkg/model"
	"github.com/vanderheijden86/stickytree/pkg/stickytree"
)

func TestRandomSizeAndDeterminism(t *testing.T) {
	a := NewDefault().Random(200)
	b := NewDefault().Random(200)

	docA := &model.Document{Root: a}
	if got := docA.Count(); got != 200 {
		t.Fatalf("Random(200) produced %d nodes", got)
	}
	if err := docA.Validate(); err != nil {
		t.Fatalf("generated tree invalid: %v", err)
	}

	var idsA, idsB []string
	model.Walk(a, func(n *model.Node, _ int) bool { idsA = append(idsA, n.ID); return true })
	model.Walk(b, func(n *model.Node, _ int) bool { idsB = append(idsB, n.ID); return true })
	for i := range idsA {
		if idsA[i] != idsB[i] {
			t.Fatalf("same seed produced different trees at %d: %s vs %s", i, idsA[i], idsB[i])
		}
	}
}

func TestRandomRespectsMaxChildren(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxChildren = 2
	root := New(cfg).Random(100)
	model.Walk(root, func(n *model.Node, _ int) bool {
		if len(n.Children) > 2 {
			t.Errorf("node %s has %d children", n.ID, len(n.Children))
		}
		return true
	})
}

func TestShapes(t *testing.T) {
	tests := []struct {
		name string
		root *model.Node
		want int
	}{
		{"balanced 3x2", QuickBalanced(3, 2), 1 + 3 + 9},
		{"chain", NewDefault().Chain(50), 50},
		{"wide", NewDefault().Wide(10), 11},
		{"example", Example(), 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := (&model.Document{Root: tt.root}).Count(); got != tt.want {
				t.Errorf("count = %d, want %d", got, tt.want)
			}
			AssertFlattenInvariants(t, stickytree.Flatten[*model.Node](tt.root, model.Accessor{}))
		})
	}
}

func TestZeroHeightAccessor(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ZeroHeight = 0.5
	root := New(cfg).Random(100)

	zeros := 0
	records := stickytree.Flatten[*model.Node](root, ZeroHeightAccessor{})
	for _, rec := range records {
		if rec.RowHeight == 0 {
			zeros++
		}
	}
	if zeros == 0 {
		t.Error("expected some zero-height rows")
	}
	if records[0].RowHeight == 0 {
		t.Error("root must keep a positive height")
	}
	AssertFlattenInvariants(t, records)
}
