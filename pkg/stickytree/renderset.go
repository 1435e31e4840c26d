package stickytree

import "github.com/vanderheijden86/stickytree/pkg/metrics"

// RenderSet is the set of record indices that must be materialized for one
// viewport state: the render range plus the ancestor path of its first record.
type RenderSet struct {
	Range Range
	Path  []int // ancestors of Range.Start, root first, Range.Start last

	member []bool
	count  int
}

// NewRenderSet builds the render set for rng.
func NewRenderSet[N any](records []Record[N], rng Range) RenderSet {
	set := RenderSet{
		Range:  rng,
		member: make([]bool, len(records)),
	}
	if rng.Len() == 0 || len(records) == 0 {
		return set
	}

	set.Path = PathIndices(records, rng.Start)
	for _, i := range set.Path {
		set.add(i)
	}
	for i := rng.Start; i <= rng.End && i < len(records); i++ {
		set.add(i)
	}
	return set
}

func (s *RenderSet) add(i int) {
	if !s.member[i] {
		s.member[i] = true
		s.count++
	}
}

// Contains reports whether index i must be materialized.
func (s RenderSet) Contains(i int) bool {
	return i >= 0 && i < len(s.member) && s.member[i]
}

// Len returns the number of members.
func (s RenderSet) Len() int {
	return s.count
}

// Indices returns the members in ascending order.
func (s RenderSet) Indices() []int {
	out := make([]int, 0, s.count)
	for i, ok := range s.member {
		if ok {
			out = append(out, i)
		}
	}
	return out
}

// Placement positions one member of a render set.
type Placement struct {
	Index int
	Depth int

	// Offset is the position within the parent's children block: the sum of
	// the subtree heights of all preceding siblings, rendered or not.
	Offset int
	// Top is the absolute offset, equal to the record's Top.
	Top int

	// Sticky marks records on the ancestor path of the range's first record
	// that lie above it.
	Sticky bool
	// Container marks internal nodes, whose members are placed inside them.
	Container bool
	// Row is false for a root rendered as a bare container.
	Row bool
}

// Compose lays out the members of set in pre-order. Internal members are
// containers that only descend into member children; each child's Offset still
// accounts for every preceding sibling so skipped siblings keep their space.
// With renderRoot false the root contributes no row of its own.
func Compose[N any](records []Record[N], set RenderSet, renderRoot bool) []Placement {
	if len(records) == 0 || !set.Contains(0) {
		return nil
	}
	defer metrics.Timer(metrics.Compose)()

	sticky := make(map[int]bool, len(set.Path))
	for _, i := range set.Path {
		if i != set.Range.Start {
			sticky[i] = true
		}
	}

	out := make([]Placement, 0, set.Len())
	type item struct {
		index  int
		offset int
	}
	stack := []item{{index: 0}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		rec := records[it.index]
		out = append(out, Placement{
			Index:     rec.Index,
			Depth:     rec.Depth,
			Offset:    it.offset,
			Top:       rec.Top,
			Sticky:    sticky[rec.Index],
			Container: !rec.IsLeaf(),
			Row:       renderRoot || !rec.IsRoot(),
		})

		// Push members in reverse so they pop in order.
		var kids []item
		offset := 0
		for _, c := range rec.Children {
			if set.Contains(c) {
				kids = append(kids, item{index: c, offset: offset})
			}
			offset += records[c].Height
		}
		for k := len(kids) - 1; k >= 0; k-- {
			stack = append(stack, kids[k])
		}
	}
	return out
}
