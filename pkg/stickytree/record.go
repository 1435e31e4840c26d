package stickytree

// NoParent is the ParentIndex of the root record.
const NoParent = -1

// Accessor exposes the two properties of a caller-owned node the engine needs.
// Both methods must be stable for the lifetime of one flattened sequence;
// returning different values for the same node during a pass yields undefined
// offsets.
type Accessor[N any] interface {
	// Height is the node's own height in rows. Negative values are treated as 0.
	Height(node N) int
	// Children returns the ordered children, or nil/empty for a leaf.
	Children(node N) []N
}

// AccessorFuncs adapts two plain functions to an Accessor.
type AccessorFuncs[N any] struct {
	HeightOf   func(N) int
	ChildrenOf func(N) []N
}

// Height calls HeightOf, or returns 1 when it is unset.
func (a AccessorFuncs[N]) Height(node N) int {
	if a.HeightOf == nil {
		return 1
	}
	return a.HeightOf(node)
}

// Children calls ChildrenOf, or reports a leaf when it is unset.
func (a AccessorFuncs[N]) Children(node N) []N {
	if a.ChildrenOf == nil {
		return nil
	}
	return a.ChildrenOf(node)
}

// Record is one node of the flattened tree. Records are index-addressed in
// pre-order and immutable once produced.
type Record[N any] struct {
	Node  N   // caller's node, never mutated
	Index int // position in the sequence, 0 is the root
	Top   int // cumulative height of every record before this one

	// Height is the subtree height: own row plus all descendants.
	Height int
	// RowHeight is the node's own height.
	RowHeight int

	Depth       int   // 0 for the root
	ParentIndex int   // NoParent for the root
	Children    []int // child indices, nil for a leaf
}

// IsLeaf reports whether the record has no children.
func (r Record[N]) IsLeaf() bool {
	return r.Children == nil
}

// IsRoot reports whether the record is the root.
func (r Record[N]) IsRoot() bool {
	return r.ParentIndex == NoParent
}

// Bottom returns the offset just past the record's subtree.
func (r Record[N]) Bottom() int {
	return r.Top + r.Height
}

// RowBottom returns the offset just past the record's own row.
func (r Record[N]) RowBottom() int {
	return r.Top + r.RowHeight
}

// TotalHeight returns the height of the whole flattened tree.
func TotalHeight[N any](records []Record[N]) int {
	if len(records) == 0 {
		return 0
	}
	return records[0].Height
}
