package ui

import (
	"slices"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/vanderheijden86/stickytree/pkg/metrics"
	"github.com/vanderheijden86/stickytree/pkg/stickytree"
)

// RowContext describes where a row is painted.
type RowContext struct {
	// Depth is the visual depth; top-level rows are 0.
	Depth int
	// Rails has one entry per visual ancestor, true when that ancestor has
	// siblings below it and its branch line continues.
	Rails []bool
	// Last reports whether the row is its parent's last child.
	Last      bool
	Container bool
	// Pinned is set when the row is drawn as a sticky header above its
	// natural position.
	Pinned bool
	// Current marks the first visible record.
	Current bool
	Height  int
	Width   int
}

// RowRenderer draws one record. The result may hold fewer or more lines than
// ctx.Height; the painter pads or clips it.
type RowRenderer[N any] interface {
	RenderRow(node N, ctx RowContext) string
}

// RowRendererFunc adapts a function to RowRenderer.
type RowRendererFunc[N any] func(node N, ctx RowContext) string

func (f RowRendererFunc[N]) RenderRow(node N, ctx RowContext) string {
	return f(node, ctx)
}

// Frame is one painted viewport.
type Frame struct {
	Lines []string
	// Rows holds the record index drawn on each line, -1 for blank lines.
	Rows []int
	// Pinned lists the records drawn as sticky headers, outermost first.
	Pinned []int
	Range  stickytree.Range
	// Materialized is the number of records the render set held.
	Materialized int
}

// Paint draws the tree's current viewport. Rows of the render set are laid
// out at their offsets relative to ScrollTop. Container rows on the path of
// the first visible record then stick to the top, stacked by depth, and are
// pushed up again once the bottom edge of their subtree passes them.
func Paint[N comparable](t *stickytree.Tree[N], rr RowRenderer[N]) Frame {
	defer metrics.Timer(metrics.Paint)()

	opts := t.Options()
	height, width := max(opts.Height, 0), max(opts.Width, 0)
	f := Frame{
		Lines: make([]string, height),
		Rows:  make([]int, height),
	}
	for i := range f.Rows {
		f.Rows[i] = -1
	}

	records := t.Records()
	if len(records) == 0 || height == 0 {
		return f
	}
	state := t.State()
	scrollTop := state.ScrollTop
	rootOffset := 1
	if opts.RenderRoot {
		rootOffset = 0
	}

	set := t.RenderSet()
	f.Range = set.Range
	f.Materialized = set.Len()

	draw := func(rec stickytree.Record[N], y int, pinned bool) {
		ctx := rowContext(records, rec, rootOffset, width)
		ctx.Pinned = pinned
		ctx.Current = rec.Index == state.CurrentIndex
		lines := splitLines(rr.RenderRow(rec.Node, ctx), rec.RowHeight)
		for j, line := range lines {
			if y+j < 0 || y+j >= height {
				continue
			}
			f.Lines[y+j] = line
			f.Rows[y+j] = rec.Index
		}
	}

	for _, p := range stickytree.Compose(records, set, opts.RenderRoot) {
		rec := records[p.Index]
		if !p.Row || rec.RowHeight == 0 {
			continue
		}
		y := rec.Top - scrollTop
		if y+rec.RowHeight <= 0 || y >= height {
			continue
		}
		draw(rec, y, false)
	}

	// Headers are positioned outermost first and drawn innermost first, so a
	// header pushed up by the end of its subtree slides under its ancestors.
	type pin struct {
		rec stickytree.Record[N]
		y   int
	}
	var pins []pin
	floor := 0
	for _, rec := range t.StickyPath() {
		if rec.IsLeaf() || rec.RowHeight == 0 || (rec.IsRoot() && !opts.RenderRoot) {
			continue
		}
		natural := rec.Top - scrollTop
		y := min(max(natural, floor), rec.Bottom()-scrollTop-rec.RowHeight)
		if y > natural {
			pins = append(pins, pin{rec, y})
		}
		floor = y + rec.RowHeight
		if floor >= height {
			break
		}
	}
	for i := len(pins) - 1; i >= 0; i-- {
		draw(pins[i].rec, pins[i].y, true)
	}
	for _, p := range pins {
		if slices.Contains(f.Rows, p.rec.Index) {
			f.Pinned = append(f.Pinned, p.rec.Index)
		}
	}

	for i, line := range f.Lines {
		f.Lines[i] = fitWidth(line, width)
	}
	return f
}

// rowContext derives branch rails from the parent links of the sequence.
func rowContext[N any](records []stickytree.Record[N], rec stickytree.Record[N], rootOffset, width int) RowContext {
	ctx := RowContext{
		Depth:     max(rec.Depth-rootOffset, 0),
		Last:      isLastChild(records, rec.Index),
		Container: !rec.IsLeaf(),
		Height:    rec.RowHeight,
		Width:     width,
	}
	if ctx.Depth == 0 {
		return ctx
	}
	path := stickytree.ParentPath(records, rec.Index)
	// path[0] is the root; visual ancestors start below the hidden levels
	// and exclude the row itself.
	for _, anc := range path[1+rootOffset : len(path)-1] {
		ctx.Rails = append(ctx.Rails, !isLastChild(records, anc.Index))
	}
	return ctx
}

func isLastChild[N any](records []stickytree.Record[N], i int) bool {
	p := records[i].ParentIndex
	if p == stickytree.NoParent {
		return true
	}
	kids := records[p].Children
	return kids[len(kids)-1] == i
}

// fitWidth clips or pads an ANSI-styled line to exactly width cells.
func fitWidth(line string, width int) string {
	if width <= 0 {
		return line
	}
	if ansi.StringWidth(line) > width {
		line = ansi.Truncate(line, width, "")
	}
	if w := ansi.StringWidth(line); w < width {
		line += strings.Repeat(" ", width-w)
	}
	return line
}
