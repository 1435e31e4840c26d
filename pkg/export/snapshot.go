// Package export renders layout snapshots of the windowing engine: the flat
// sequence around the viewport, the render range, the sticky path and the
// viewport window itself.
package export

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"git.sr.ht/~sbinet/gg"
	"github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"

	"github.com/vanderheijden86/stickytree/pkg/metrics"
	"github.com/vanderheijden86/stickytree/pkg/stickytree"
)

// SnapshotOptions controls layout snapshot export.
type SnapshotOptions struct {
	Path   string // Output path; format inferred from extension when Format empty
	Format string // "svg" or "png" (case-insensitive)
	Title  string
	Preset string // "compact" (default) or "roomy"
	// Context is how many rows above and below the viewport are drawn.
	// Zero means one viewport height.
	Context int
}

// ResolveFormat returns the output format and path, inferring the format
// from the extension and appending ".svg" to extension-less paths.
func ResolveFormat(path, format string) (string, string, error) {
	format = strings.ToLower(strings.TrimPrefix(format, "."))
	if format == "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".svg":
			format = "svg"
		case ".png":
			format = "png"
		case "":
			format = "svg"
			if path != "" {
				path += ".svg"
			}
		default:
			return "", "", fmt.Errorf("unsupported format %q (want svg or png)", filepath.Ext(path))
		}
	}
	if format != "svg" && format != "png" {
		return "", "", fmt.Errorf("unsupported format %q (want svg or png)", format)
	}
	if path == "" {
		return "", "", fmt.Errorf("output path is required")
	}
	return format, path, nil
}

// SaveLayoutSnapshot renders the tree's current layout to opts.Path. label
// names each node in the drawing.
func SaveLayoutSnapshot[N comparable](t *stickytree.Tree[N], label func(N) string, opts SnapshotOptions) error {
	defer metrics.Timer(metrics.Snapshot)()

	if t.Len() == 0 {
		return fmt.Errorf("nothing to export")
	}
	format, path, err := ResolveFormat(opts.Path, opts.Format)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	layout := buildLayout(t, label, opts)

	switch format {
	case "png":
		return renderPNG(path, layout)
	default:
		file, err := os.Create(path)
		if err != nil {
			return err
		}
		defer file.Close()
		return renderSVGToWriter(file, layout)
	}
}

// --- layout computation ----------------------------------------------------

type rowKind int

const (
	kindOutside rowKind = iota // flattened but not materialized
	kindRange                  // inside the render range
	kindPath                   // ancestor path of the range start
	kindCurrent                // first visible record
)

type layoutRow struct {
	Index  int
	Label  string
	Depth  int
	Kind   rowKind
	X, Y   float64
	W, H   float64
	Top    int
	Height int
}

type layoutResult struct {
	Rows    []layoutRow
	Width   int
	Height  int
	Header  float64
	RowPx   float64
	Origin  int // first row offset drawn
	ViewY   float64
	ViewH   float64
	Summary summaryInfo
}

type summaryInfo struct {
	Title        string
	Records      int
	TotalHeight  int
	ScrollTop    int
	Current      int
	Range        stickytree.Range
	Materialized int
	Overscan     int
}

// buildLayout positions the records that intersect the viewport plus
// opts.Context rows on either side.
func buildLayout[N comparable](t *stickytree.Tree[N], label func(N) string, opts SnapshotOptions) layoutResult {
	const (
		rowPxCompact  = 14.0
		rowPxRoomy    = 20.0
		indentCompact = 16.0
		indentRoomy   = 24.0
		padding       = 36.0
		headerHeight  = 120.0
		canvasWidth   = 720
	)

	rowPx, indent := rowPxCompact, indentCompact
	if strings.EqualFold(opts.Preset, "roomy") {
		rowPx, indent = rowPxRoomy, indentRoomy
	}

	tOpts := t.Options()
	state := t.State()
	set := t.RenderSet()
	records := t.Records()

	context := opts.Context
	if context <= 0 {
		context = max(tOpts.Height, 1)
	}
	from := max(state.ScrollTop-context, 0)
	to := min(state.ScrollTop+tOpts.Height+context, t.TotalHeight())

	path := make(map[int]bool, len(set.Path))
	for _, i := range set.Path {
		path[i] = true
	}

	var rows []layoutRow
	for _, rec := range records {
		// Zero-height rows at the window edges still count as inside.
		if rec.Top+rec.RowHeight < from || rec.Top > to {
			continue
		}
		kind := kindOutside
		switch {
		case rec.Index == state.CurrentIndex:
			kind = kindCurrent
		case path[rec.Index] && rec.Index != set.Range.Start:
			kind = kindPath
		case set.Contains(rec.Index):
			kind = kindRange
		}
		x := padding + float64(rec.Depth)*indent
		rows = append(rows, layoutRow{
			Index:  rec.Index,
			Label:  label(rec.Node),
			Depth:  rec.Depth,
			Kind:   kind,
			X:      x,
			Y:      headerHeight + padding + float64(rec.Top-from)*rowPx,
			W:      max(float64(canvasWidth)-padding-x, 40),
			H:      max(float64(rec.RowHeight)*rowPx-2, 2),
			Top:    rec.Top,
			Height: rec.RowHeight,
		})
	}

	title := opts.Title
	if title == "" {
		title = "Layout snapshot"
	}
	return layoutResult{
		Rows:   rows,
		Width:  canvasWidth,
		Height: int(headerHeight + 2*padding + float64(to-from)*rowPx),
		Header: headerHeight,
		RowPx:  rowPx,
		Origin: from,
		ViewY:  headerHeight + padding + float64(state.ScrollTop-from)*rowPx,
		ViewH:  float64(tOpts.Height) * rowPx,
		Summary: summaryInfo{
			Title:        title,
			Records:      len(records),
			TotalHeight:  t.TotalHeight(),
			ScrollTop:    state.ScrollTop,
			Current:      state.CurrentIndex,
			Range:        set.Range,
			Materialized: set.Len(),
			Overscan:     tOpts.OverscanRowCount,
		},
	}
}

// --- rendering -------------------------------------------------------------

var (
	colorOutside  = color.RGBA{0xcf, 0xd8, 0xdc, 0xff}
	colorRange    = color.RGBA{0xc8, 0xe6, 0xc9, 0xff}
	colorPath     = color.RGBA{0xd1, 0xc4, 0xe9, 0xff}
	colorCurrent  = color.RGBA{0xb3, 0xe5, 0xfc, 0xff}
	colorStroke   = color.RGBA{0x22, 0x22, 0x22, 0xff}
	colorViewport = color.RGBA{0xe5, 0x39, 0x35, 0xff}
	colorText     = color.RGBA{0x11, 0x11, 0x11, 0xff}
	colorSubtle   = color.RGBA{0x66, 0x66, 0x66, 0xff}
	colorBackdrop = color.RGBA{0xf9, 0xfa, 0xfb, 0xff}
	colorHeaderBG = color.RGBA{0xf3, 0xf4, 0xf6, 0xff}
	colorLegendBG = color.RGBA{0xee, 0xee, 0xee, 0xff}
)

func kindColor(k rowKind) color.RGBA {
	switch k {
	case kindRange:
		return colorRange
	case kindPath:
		return colorPath
	case kindCurrent:
		return colorCurrent
	default:
		return colorOutside
	}
}

var legend = []struct {
	kind  rowKind
	label string
}{
	{kindCurrent, "First visible"},
	{kindPath, "Sticky path"},
	{kindRange, "Render range"},
	{kindOutside, "Not rendered"},
}

func summaryLines(s summaryInfo) []string {
	return []string{
		fmt.Sprintf("records: %d  height: %d", s.Records, s.TotalHeight),
		fmt.Sprintf("scroll_top: %d  current: %d  overscan: %d", s.ScrollTop, s.Current, s.Overscan),
		fmt.Sprintf("range: [%d, %d]  materialized: %d", s.Range.Start, s.Range.End, s.Materialized),
	}
}

func renderPNG(path string, layout layoutResult) error {
	dc := gg.NewContext(layout.Width, layout.Height)
	dc.SetColor(colorBackdrop)
	dc.Clear()

	dc.SetColor(colorHeaderBG)
	dc.DrawRoundedRectangle(16, 16, float64(layout.Width)-32, layout.Header-24, 10)
	dc.Fill()

	dc.SetFontFace(basicfont.Face7x13)

	dc.SetColor(colorText)
	dc.DrawStringAnchored(layout.Summary.Title, 32, 44, 0, 0.5)
	dc.SetColor(colorSubtle)
	for i, line := range summaryLines(layout.Summary) {
		dc.DrawStringAnchored(line, 32, 64+float64(i)*20, 0, 0.5)
	}
	drawLegend(dc, layout)

	for _, r := range layout.Rows {
		dc.SetColor(kindColor(r.Kind))
		dc.DrawRoundedRectangle(r.X, r.Y, r.W, r.H, 3)
		dc.Fill()
		dc.SetColor(colorStroke)
		dc.SetLineWidth(0.6)
		dc.DrawRoundedRectangle(r.X, r.Y, r.W, r.H, 3)
		dc.Stroke()
		if r.H >= 10 {
			dc.SetColor(colorText)
			dc.DrawStringAnchored(rowText(r), r.X+6, r.Y+min(r.H/2, 8), 0, 0.5)
		}
	}

	dc.SetColor(colorViewport)
	dc.SetLineWidth(2)
	dc.DrawRectangle(20, layout.ViewY, float64(layout.Width)-40, layout.ViewH)
	dc.Stroke()

	return dc.SavePNG(path)
}

func drawLegend(dc *gg.Context, layout layoutResult) {
	boxW := 160.0
	boxH := 96.0
	x := float64(layout.Width) - boxW - 20
	y := 24.0
	dc.SetColor(colorLegendBG)
	dc.DrawRoundedRectangle(x, y, boxW, boxH, 10)
	dc.Fill()
	dc.SetColor(colorStroke)
	dc.DrawRoundedRectangle(x, y, boxW, boxH, 10)
	dc.Stroke()

	for i, l := range legend {
		ry := y + 20 + float64(i)*18
		dc.SetColor(kindColor(l.kind))
		dc.DrawRoundedRectangle(x+12, ry-7, 14, 14, 3)
		dc.Fill()
		dc.SetColor(colorSubtle)
		dc.DrawStringAnchored(l.label, x+32, ry, 0, 0.5)
	}
}

func renderSVGToWriter(w io.Writer, layout layoutResult) error {
	canvas := svg.New(w)
	canvas.Start(layout.Width, layout.Height)
	canvas.Rect(0, 0, layout.Width, layout.Height, fmt.Sprintf("fill:%s", css(colorBackdrop)))
	canvas.Roundrect(16, 16, layout.Width-32, int(layout.Header-24), 10, 10, fmt.Sprintf("fill:%s", css(colorHeaderBG)))

	canvas.Text(32, 44, layout.Summary.Title, fmt.Sprintf("fill:%s;font-size:16px;font-family:monospace;font-weight:bold", css(colorText)))
	for i, line := range summaryLines(layout.Summary) {
		canvas.Text(32, 64+i*20, line, fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace", css(colorSubtle)))
	}

	boxW, boxH := 160, 96
	lx, ly := layout.Width-boxW-20, 24
	canvas.Roundrect(lx, ly, boxW, boxH, 10, 10, fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1", css(colorLegendBG), css(colorStroke)))
	for i, l := range legend {
		ry := ly + 20 + i*18
		canvas.Roundrect(lx+12, ry-7, 14, 14, 3, 3, fmt.Sprintf("fill:%s", css(kindColor(l.kind))))
		canvas.Text(lx+32, ry+4, l.label, fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace", css(colorSubtle)))
	}

	for _, r := range layout.Rows {
		canvas.Roundrect(int(r.X), int(r.Y), int(r.W), int(r.H), 3, 3,
			fmt.Sprintf("fill:%s;stroke:%s;stroke-width:0.6", css(kindColor(r.Kind)), css(colorStroke)))
		if r.H >= 10 {
			canvas.Text(int(r.X)+6, int(r.Y+min(r.H/2, 8))+4, rowText(r),
				fmt.Sprintf("fill:%s;font-size:11px;font-family:monospace", css(colorText)))
		}
	}

	canvas.Rect(20, int(layout.ViewY), layout.Width-40, int(layout.ViewH),
		fmt.Sprintf("fill:none;stroke:%s;stroke-width:2", css(colorViewport)))

	canvas.End()
	return nil
}

// --- helpers ---------------------------------------------------------------

func rowText(r layoutRow) string {
	return truncate(fmt.Sprintf("#%d %s", r.Index, r.Label), int(r.W/7)-2)
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
