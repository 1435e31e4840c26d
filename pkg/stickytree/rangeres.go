package stickytree

// Range is an inclusive span of record indices.
type Range struct {
	Start int
	End   int
}

// Len returns the number of indices in the range.
func (r Range) Len() int {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start + 1
}

// Contains reports whether i lies inside the range.
func (r Range) Contains(i int) bool {
	return i >= r.Start && i <= r.End
}

// RenderRange expands the state's current index into the span of records to
// materialize for a viewport of viewportHeight rows.
//
// The walk from CurrentIndex stops at the first record starting at or below
// the viewport's bottom edge, so its cost is bounded by what fits on screen.
// overscan extra records are added on each side and the result is clamped to
// the sequence.
func RenderRange[N any](records []Record[N], state ViewportState, overscan, viewportHeight int) Range {
	if len(records) == 0 {
		return Range{Start: 0, End: -1}
	}
	if overscan < 0 {
		overscan = 0
	}
	last := len(records) - 1
	current := clampIndex(state.CurrentIndex, len(records))
	bottom := state.ScrollTop + viewportHeight

	end := current
	for end < last && records[end+1].Top < bottom {
		end++
	}

	return Range{
		Start: max(0, current-overscan),
		End:   min(last, end+overscan),
	}
}
