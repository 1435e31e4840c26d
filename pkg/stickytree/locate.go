package stickytree

import "github.com/vanderheijden86/stickytree/pkg/metrics"

// ViewportState is the locator's memory between scroll events. The zero value
// is the initial state. It must be reset whenever the flat sequence is rebuilt.
type ViewportState struct {
	ScrollTop    int // last observed scroll offset, >= 0
	CurrentIndex int // index of the record holding ScrollTop
}

// Reset returns the state to its initial value.
func (s *ViewportState) Reset() {
	*s = ViewportState{}
}

// Locate returns the index of the record that holds newScrollTop: the last
// record whose Top is at or above the offset.
//
// The search starts at prev.CurrentIndex and walks in the direction of the
// scroll, so the cost is proportional to the number of records scrolled past
// rather than to the size of the tree. A jump to a distant offset degrades to
// a linear scan. An unchanged offset performs no search.
func Locate[N any](records []Record[N], prev ViewportState, newScrollTop int) int {
	if len(records) == 0 {
		return 0
	}
	defer metrics.Timer(metrics.Locate)()

	if newScrollTop < 0 {
		newScrollTop = 0
	}
	i := clampIndex(prev.CurrentIndex, len(records))

	switch {
	case newScrollTop > prev.ScrollTop:
		for i+1 < len(records) && records[i+1].Top <= newScrollTop {
			i++
		}
	case newScrollTop < prev.ScrollTop:
		for i > 0 && records[i].Top > newScrollTop {
			i--
		}
	}
	return i
}

// Advance applies one scroll event to state. ScrollTop is always recorded;
// CurrentIndex is only written when the located index differs from the stored
// one, in which case Advance returns true.
func Advance[N any](state *ViewportState, records []Record[N], newScrollTop int) bool {
	if newScrollTop < 0 {
		newScrollTop = 0
	}
	idx := Locate(records, *state, newScrollTop)
	state.ScrollTop = newScrollTop
	if idx == state.CurrentIndex {
		return false
	}
	state.CurrentIndex = idx
	return true
}

// ScanIndex locates scrollTop with a linear scan from the start of the
// sequence, ignoring any previous state. It agrees with Locate for every state
// produced by Advance, except the initial (0,0) state over leading zero-height
// rows, which Locate keeps at index 0 until the first scroll.
func ScanIndex[N any](records []Record[N], scrollTop int) int {
	i := 0
	for i+1 < len(records) && records[i+1].Top <= scrollTop {
		i++
	}
	return i
}

func clampIndex(i, n int) int {
	if i >= n {
		return n - 1
	}
	if i < 0 {
		return 0
	}
	return i
}
