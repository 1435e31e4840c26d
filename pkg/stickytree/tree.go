package stickytree

import "github.com/vanderheijden86/stickytree/pkg/debug"

// Options configures a Tree.
type Options struct {
	// OverscanRowCount is the number of extra records materialized on each side
	// of the visible range.
	OverscanRowCount int
	// RenderRoot controls whether the root contributes a row of its own or is
	// rendered as a bare container.
	RenderRoot bool
	// Width and Height are the viewport size. Only Height affects windowing.
	Width  int
	Height int
}

// DefaultOptions returns the default configuration: no overscan, root rendered.
func DefaultOptions() Options {
	return Options{RenderRoot: true}
}

// Tree binds a root node, its flattened sequence and the viewport state.
//
// The sequence is rebuilt only when SetRoot is given a root that differs from
// the current one (==), or when Rebuild is called. Every rebuild replaces the
// sequence wholesale and resets the viewport state.
type Tree[N comparable] struct {
	acc  Accessor[N]
	opts Options

	root    N
	hasRoot bool
	records []Record[N]
	byNode  map[N]int
	state   ViewportState
}

// New creates an empty Tree. SetRoot must be called before scrolling.
func New[N comparable](acc Accessor[N], opts Options) *Tree[N] {
	if opts.OverscanRowCount < 0 {
		opts.OverscanRowCount = 0
	}
	return &Tree[N]{acc: acc, opts: opts}
}

// SetRoot installs root. It rebuilds and returns true when root is not the
// current root; otherwise nothing changes, even if the content reachable from
// root was modified in place.
func (t *Tree[N]) SetRoot(root N) bool {
	if t.hasRoot && t.root == root {
		return false
	}
	t.root = root
	t.hasRoot = true
	t.Rebuild()
	return true
}

// Rebuild re-flattens the current root unconditionally.
func (t *Tree[N]) Rebuild() {
	if !t.hasRoot {
		return
	}
	t.records = Flatten(t.root, t.acc)
	t.byNode = nil
	t.state.Reset()
	debug.Log("stickytree: rebuilt %d records", len(t.records))
}

// Root returns the current root and whether one is set.
func (t *Tree[N]) Root() (N, bool) {
	return t.root, t.hasRoot
}

// Options returns the current configuration.
func (t *Tree[N]) Options() Options {
	return t.opts
}

// SetSize updates the viewport dimensions.
func (t *Tree[N]) SetSize(width, height int) {
	t.opts.Width = width
	t.opts.Height = height
}

// SetOverscan updates the overscan row count.
func (t *Tree[N]) SetOverscan(n int) {
	if n < 0 {
		n = 0
	}
	t.opts.OverscanRowCount = n
}

// SetRenderRoot toggles whether the root has its own row.
func (t *Tree[N]) SetRenderRoot(render bool) {
	t.opts.RenderRoot = render
}

// Records returns the flat sequence. Callers must not modify it.
func (t *Tree[N]) Records() []Record[N] {
	return t.records
}

// Len returns the number of records.
func (t *Tree[N]) Len() int {
	return len(t.records)
}

// State returns the viewport state.
func (t *Tree[N]) State() ViewportState {
	return t.state
}

// TotalHeight returns the height of the whole tree.
func (t *Tree[N]) TotalHeight() int {
	return TotalHeight(t.records)
}

// MaxScroll returns the largest offset that still fills the viewport.
func (t *Tree[N]) MaxScroll() int {
	return max(0, t.TotalHeight()-t.opts.Height)
}

// Scroll handles one scroll event at offset and reports whether the current
// index moved.
func (t *Tree[N]) Scroll(offset int) bool {
	return Advance(&t.state, t.records, offset)
}

// ScrollBy scrolls relative to the current offset, clamped to [0, MaxScroll].
func (t *Tree[N]) ScrollBy(delta int) bool {
	offset := t.state.ScrollTop + delta
	offset = min(max(offset, 0), t.MaxScroll())
	return t.Scroll(offset)
}

// ScrollToIndex scrolls so that record i is at the top of the viewport. The
// offset is clamped to [0, MaxScroll], so the record may end up lower.
func (t *Tree[N]) ScrollToIndex(i int) bool {
	if i < 0 || i >= len(t.records) {
		return false
	}
	offset := min(t.records[i].Top, t.MaxScroll())
	return t.Scroll(offset)
}

// IndexOf returns the index of node in the current sequence.
func (t *Tree[N]) IndexOf(node N) (int, bool) {
	if t.byNode == nil {
		t.byNode = make(map[N]int, len(t.records))
		for _, rec := range t.records {
			t.byNode[rec.Node] = rec.Index
		}
	}
	i, ok := t.byNode[node]
	return i, ok
}

// Range returns the render range for the current state.
func (t *Tree[N]) Range() Range {
	return RenderRange(t.records, t.state, t.opts.OverscanRowCount, t.opts.Height)
}

// StickyPath returns the ancestor chain of the first visible record.
func (t *Tree[N]) StickyPath() []Record[N] {
	return ParentPath(t.records, t.state.CurrentIndex)
}

// RenderSet returns the render set for the current state.
func (t *Tree[N]) RenderSet() RenderSet {
	return NewRenderSet(t.records, t.Range())
}

// Layout composes the current render set.
func (t *Tree[N]) Layout() []Placement {
	return Compose(t.records, t.RenderSet(), t.opts.RenderRoot)
}
