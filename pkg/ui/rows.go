package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/stickytree/pkg/model"
)

// NodeRenderer is the default row renderer for outline nodes: a title line
// with tree guides, followed by the rendered markdown body when bodies are
// shown.
type NodeRenderer struct {
	Theme      Theme
	Bodies     *BodyRenderer
	ShowBodies bool
}

// RenderRow implements RowRenderer.
func (r *NodeRenderer) RenderRow(n *model.Node, ctx RowContext) string {
	prefix, cont := guides(ctx)

	indicator := "• "
	titleStyle := r.Theme.Leaf
	if ctx.Container {
		indicator = "▾ "
		titleStyle = r.Theme.Title
	}
	if ctx.Current {
		titleStyle = titleStyle.Inherit(r.Theme.Current)
	}

	used := lipgloss.Width(prefix) + lipgloss.Width(indicator)
	title := n.Title
	if title == "" {
		title = n.ID
	}
	if ctx.Width > 0 {
		title = truncate(title, ctx.Width-used)
	}

	var sb strings.Builder
	sb.WriteString(r.Theme.Guide.Render(prefix))
	sb.WriteString(r.Theme.Guide.Render(indicator))
	sb.WriteString(titleStyle.Render(title))
	first := sb.String()
	if ctx.Pinned {
		first = r.Theme.Pinned.Render(padRight(prefix+indicator+title, max(ctx.Width, 0)))
	}

	lines := []string{first}
	if r.ShowBodies && r.Bodies != nil && ctx.Height > 1 {
		bodyPrefix := r.Theme.Guide.Render(cont)
		for _, l := range r.Bodies.Lines(n.Body) {
			lines = append(lines, bodyPrefix+l)
		}
	}
	return strings.Join(lines, "\n")
}

// guides returns the branch prefix for the title line and the continuation
// prefix for the lines below it.
func guides(ctx RowContext) (prefix, cont string) {
	var sb strings.Builder
	for _, rail := range ctx.Rails {
		if rail {
			sb.WriteString("│   ")
		} else {
			sb.WriteString("    ")
		}
	}
	rails := sb.String()
	if ctx.Depth == 0 {
		if ctx.Container {
			return "", "│ "
		}
		return "", "  "
	}
	if ctx.Last {
		prefix, cont = rails+"└── ", rails+"    "
	} else {
		prefix, cont = rails+"├── ", rails+"│   "
	}
	if ctx.Container {
		cont += "│ "
	} else {
		cont += "  "
	}
	return prefix, cont
}

// Breadcrumb joins the titles of a sticky path.
func Breadcrumb(nodes []*model.Node) string {
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		t := n.Title
		if t == "" {
			t = n.ID
		}
		parts = append(parts, t)
	}
	return strings.Join(parts, " › ")
}
