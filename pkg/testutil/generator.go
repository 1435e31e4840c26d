// Package testutil provides deterministic outline generators and invariant
// assertions for tests and benchmarks.
package testutil

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/vanderheijden86/stickytree/pkg/model"
)

// GeneratorConfig controls tree generation.
type GeneratorConfig struct {
	Seed        int64   // Random seed for determinism (0 = use current time)
	IDPrefix    string  // Prefix for node IDs (default: "n")
	MaxChildren int     // Upper bound on children per node for Random (default 4)
	MaxHeight   int     // Upper bound on row height (default 3)
	ZeroHeight  float64 // Probability that a non-root node gets height 0
}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:        42,
		IDPrefix:    "n",
		MaxChildren: 4,
		MaxHeight:   3,
	}
}

// Generator builds outline trees.
type Generator struct {
	cfg     GeneratorConfig
	rng     *rand.Rand
	counter int
}

// New creates a Generator with the given config.
func New(cfg GeneratorConfig) *Generator {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if cfg.IDPrefix == "" {
		cfg.IDPrefix = "n"
	}
	if cfg.MaxChildren <= 0 {
		cfg.MaxChildren = 4
	}
	if cfg.MaxHeight <= 0 {
		cfg.MaxHeight = 3
	}
	return &Generator{cfg: cfg, rng: rand.New(rand.NewSource(seed))}
}

// NewDefault creates a Generator with the default config.
func NewDefault() *Generator {
	return New(DefaultConfig())
}

func (g *Generator) node(height int) *model.Node {
	id := fmt.Sprintf("%s%d", g.cfg.IDPrefix, g.counter)
	g.counter++
	return &model.Node{ID: id, Title: "Node " + id, Height: height}
}

func (g *Generator) height() int {
	if g.cfg.ZeroHeight > 0 && g.rng.Float64() < g.cfg.ZeroHeight {
		// model.Node treats 0 as "default"; -1 never reaches the engine
		// because ZeroHeightAccessor maps it to 0.
		return -1
	}
	return 1 + g.rng.Intn(g.cfg.MaxHeight)
}

// Random builds a tree of exactly size nodes with random fan-out and heights.
// The root always has a positive height.
func (g *Generator) Random(size int) *model.Node {
	if size < 1 {
		size = 1
	}
	root := g.node(1 + g.rng.Intn(g.cfg.MaxHeight))
	open := []*model.Node{root}
	for made := 1; made < size; made++ {
		parent := open[g.rng.Intn(len(open))]
		child := g.node(g.height())
		parent.Children = append(parent.Children, child)
		open = append(open, child)
		if len(parent.Children) >= g.cfg.MaxChildren {
			open = removeNode(open, parent)
		}
	}
	return root
}

func removeNode(nodes []*model.Node, n *model.Node) []*model.Node {
	for i, c := range nodes {
		if c == n {
			return append(nodes[:i], nodes[i+1:]...)
		}
	}
	return nodes
}

// Balanced builds a complete tree where every internal node has fanout
// children, depth levels below the root, all rows of the given height.
// Properties: 1 + fanout + fanout^2 + ... + fanout^depth nodes.
func (g *Generator) Balanced(fanout, depth, height int) *model.Node {
	root := g.node(height)
	level := []*model.Node{root}
	for d := 0; d < depth; d++ {
		var next []*model.Node
		for _, p := range level {
			for i := 0; i < fanout; i++ {
				c := g.node(height)
				p.Children = append(p.Children, c)
				next = append(next, c)
			}
		}
		level = next
	}
	return root
}

// Chain builds a single path of size nodes: each node is the only child of
// the previous one.
func (g *Generator) Chain(size int) *model.Node {
	root := g.node(1)
	cur := root
	for i := 1; i < size; i++ {
		c := g.node(1)
		cur.Children = []*model.Node{c}
		cur = c
	}
	return root
}

// Wide builds a root with size leaf children.
func (g *Generator) Wide(size int) *model.Node {
	root := g.node(1)
	root.Children = make([]*model.Node, size)
	for i := range root.Children {
		root.Children[i] = g.node(1)
	}
	return root
}

// Example returns the three-node outline used throughout the docs:
//
//	root (10)
//	├── a (20)
//	└── b (5)
func Example() *model.Node {
	return &model.Node{ID: "root", Title: "root", Height: 10, Children: []*model.Node{
		{ID: "a", Title: "a", Height: 20},
		{ID: "b", Title: "b", Height: 5},
	}}
}

// ZeroHeightAccessor is model.Accessor except that a negative Height field
// means a zero-height row, letting generators produce zero-height nodes.
type ZeroHeightAccessor struct{}

// Height returns the node's height, 0 for negative explicit heights.
func (ZeroHeightAccessor) Height(n *model.Node) int {
	if n.Height < 0 {
		return 0
	}
	return n.RowHeight()
}

// Children returns the node's children.
func (ZeroHeightAccessor) Children(n *model.Node) []*model.Node {
	return n.Children
}

// Quick helpers with the default config.

// QuickRandom returns a random tree of size nodes.
func QuickRandom(size int) *model.Node {
	return NewDefault().Random(size)
}

// QuickBalanced returns a balanced tree with unit heights.
func QuickBalanced(fanout, depth int) *model.Node {
	return NewDefault().Balanced(fanout, depth, 1)
}
