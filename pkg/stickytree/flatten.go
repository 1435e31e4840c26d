package stickytree

import (
	"github.com/vanderheijden86/stickytree/pkg/debug"
	"github.com/vanderheijden86/stickytree/pkg/metrics"
)

// frame is one pending node on the traversal stack.
type frame[N any] struct {
	index int
	kids  []N
	next  int // next child to visit
}

// flattener holds the traversal state threaded through one Flatten pass.
type flattener[N any] struct {
	acc     Accessor[N]
	records []Record[N]
	stack   []frame[N]
	offset  int // running cumulative height
}

// Flatten converts the tree under root into its pre-order flat sequence.
//
// Each record's Top is the running offset when the node is first visited; the
// node's own height is then added and its children are visited in order. A
// parent's Children list and Height are complete only once its subtree has
// been traversed, which has happened for every record by the time Flatten
// returns. The result always contains at least the root.
func Flatten[N any](root N, acc Accessor[N]) []Record[N] {
	defer metrics.Timer(metrics.Flatten)()

	f := &flattener[N]{acc: acc}
	f.visit(root, NoParent, 0)

	for len(f.stack) > 0 {
		top := &f.stack[len(f.stack)-1]
		if top.next >= len(top.kids) {
			rec := &f.records[top.index]
			rec.Height = f.offset - rec.Top
			f.stack = f.stack[:len(f.stack)-1]
			continue
		}

		child := top.kids[top.next]
		top.next++
		parent := top.index
		f.records[parent].Children = append(f.records[parent].Children, len(f.records))
		f.visit(child, parent, f.records[parent].Depth+1)
	}

	debug.Log("flattened %d records, total height %d", len(f.records), f.offset)
	return f.records
}

// visit appends the record for node and pushes it onto the work stack.
func (f *flattener[N]) visit(node N, parent, depth int) {
	h := f.acc.Height(node)
	if h < 0 {
		h = 0
	}
	kids := f.acc.Children(node)

	rec := Record[N]{
		Node:        node,
		Index:       len(f.records),
		Top:         f.offset,
		RowHeight:   h,
		Depth:       depth,
		ParentIndex: parent,
	}
	if len(kids) > 0 {
		rec.Children = make([]int, 0, len(kids))
	}
	f.records = append(f.records, rec)
	f.offset += h
	f.stack = append(f.stack, frame[N]{index: rec.Index, kids: kids})
}
