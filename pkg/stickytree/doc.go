// Package stickytree is a windowing engine for large trees rendered inside a
// scrollable viewport with sticky ancestor headers.
//
// The tree is flattened once per root identity into a pre-order sequence of
// Records carrying cumulative offsets. Every scroll event then moves an anchor
// index by a short directional scan from its previous position, expands it into
// an inclusive render range with overscan, and resolves the ancestor path of
// the range's first node so those headers can stay pinned.
//
// The engine never draws anything. It only knows node heights and the
// hierarchy, both obtained through an Accessor supplied by the caller.
//
// Usage:
//
//	t := stickytree.New[*model.Node](model.Accessor{}, stickytree.DefaultOptions())
//	t.SetSize(80, 24)
//	t.SetRoot(doc.Root)
//	t.Scroll(42)
//	for _, p := range t.Layout() {
//	    // draw t.Records()[p.Index].Node at p.Top
//	}
//
// A Tree is not safe for concurrent use.
package stickytree
