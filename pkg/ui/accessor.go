package ui

import "github.com/vanderheijden86/stickytree/pkg/model"

// nodeAccessor gives the windowing engine each node's height as painted:
// the title line plus its rendered body when bodies are shown. A root
// rendered as a bare container has no height of its own.
type nodeAccessor struct {
	root       *model.Node
	renderRoot bool
	showBodies bool
	bodies     *BodyRenderer
}

func (a *nodeAccessor) Height(n *model.Node) int {
	if n == a.root && !a.renderRoot {
		return 0
	}
	h := n.RowHeight()
	if a.showBodies && a.bodies != nil {
		h = max(h, 1+len(a.bodies.Lines(n.Body)))
	}
	return h
}

func (a *nodeAccessor) Children(n *model.Node) []*model.Node {
	return n.Children
}
