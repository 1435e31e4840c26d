// Package model defines the outline documents stv displays.
package model

import (
	"errors"
	"fmt"
	"time"
)

// Node is one entry of an outline. Nodes are shared by pointer; the windowing
// engine uses pointer identity to decide when to rebuild, so a reload always
// produces fresh nodes.
type Node struct {
	ID       string  `json:"id,omitempty" yaml:"id,omitempty"`
	Title    string  `json:"title" yaml:"title"`
	Body     string  `json:"body,omitempty" yaml:"body,omitempty"` // markdown
	Height   int     `json:"height,omitempty" yaml:"height,omitempty"`
	Children []*Node `json:"children,omitempty" yaml:"children,omitempty"`
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// RowHeight returns the explicit height, or 1 when none is set.
func (n *Node) RowHeight() int {
	if n.Height > 0 {
		return n.Height
	}
	return 1
}

// Document is a loaded outline.
type Document struct {
	Title    string
	Source   string // path the document was loaded from
	Root     *Node
	LoadedAt time.Time
}

// Validation errors.
var (
	ErrNoRoot    = errors.New("document has no root")
	ErrNilChild  = errors.New("nil child node")
	ErrCycle     = errors.New("node reachable more than once")
	ErrDuplicate = errors.New("duplicate node id")
)

// Validate checks the document is a proper tree: a root exists, no child is
// nil, no node is reachable twice and non-empty IDs are unique.
func (d *Document) Validate() error {
	if d == nil || d.Root == nil {
		return ErrNoRoot
	}
	seen := make(map[*Node]bool)
	ids := make(map[string]bool)

	var err error
	Walk(d.Root, func(n *Node, depth int) bool {
		if seen[n] {
			err = fmt.Errorf("%w: %q", ErrCycle, n.ID)
			return false
		}
		seen[n] = true
		if n.ID != "" {
			if ids[n.ID] {
				err = fmt.Errorf("%w: %q", ErrDuplicate, n.ID)
				return false
			}
			ids[n.ID] = true
		}
		for i, c := range n.Children {
			if c == nil {
				err = fmt.Errorf("%w: child %d of %q", ErrNilChild, i, n.ID)
				return false
			}
		}
		return true
	})
	return err
}

// Count returns the number of nodes in the document.
func (d *Document) Count() int {
	if d == nil || d.Root == nil {
		return 0
	}
	n := 0
	Walk(d.Root, func(*Node, int) bool {
		n++
		return true
	})
	return n
}

// Walk visits root and its descendants in pre-order. Returning false from fn
// stops the walk. Nil children are skipped.
func Walk(root *Node, fn func(n *Node, depth int) bool) {
	type entry struct {
		n     *Node
		depth int
	}
	stack := []entry{{root, 0}}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if e.n == nil {
			continue
		}
		if !fn(e.n, e.depth) {
			return
		}
		for i := len(e.n.Children) - 1; i >= 0; i-- {
			stack = append(stack, entry{e.n.Children[i], e.depth + 1})
		}
	}
}

// Accessor exposes Nodes to the windowing engine using each node's explicit
// height.
type Accessor struct{}

// Height returns the node's row height.
func (Accessor) Height(n *Node) int {
	return n.RowHeight()
}

// Children returns the node's children.
func (Accessor) Children(n *Node) []*Node {
	return n.Children
}
