package datasource

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/vanderheijden86/stickytree/pkg/model"
)

// Forest errors.
var (
	ErrEmpty          = errors.New("nodes table is empty")
	ErrDanglingParent = errors.New("parent_id references a missing node")
	ErrCycle          = errors.New("parent_id chain forms a cycle")
	ErrDuplicateID    = errors.New("duplicate node id")
	ErrSelfParent     = errors.New("node is its own parent")
)

// BuildForest turns flat parent-linked rows into a tree. A single root row is
// returned as is; several roots are gathered under a synthesized root titled
// title. Children keep the order of their position column.
func BuildForest(rows []Row, title string) (*model.Node, error) {
	if len(rows) == 0 {
		return nil, ErrEmpty
	}

	ids := make(map[string]int64, len(rows))
	for i, row := range rows {
		if _, dup := ids[row.ID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateID, row.ID)
		}
		ids[row.ID] = int64(i)
	}

	g := simple.NewDirectedGraph()
	for i := range rows {
		g.AddNode(simple.Node(int64(i)))
	}
	for i, row := range rows {
		if row.ParentID == "" {
			continue
		}
		if row.ParentID == row.ID {
			return nil, fmt.Errorf("%w: %q", ErrSelfParent, row.ID)
		}
		p, ok := ids[row.ParentID]
		if !ok {
			return nil, fmt.Errorf("%w: %q -> %q", ErrDanglingParent, row.ID, row.ParentID)
		}
		g.SetEdge(g.NewEdge(simple.Node(p), simple.Node(int64(i))))
	}
	if _, err := topo.Sort(g); err != nil {
		var cyc topo.Unorderable
		if errors.As(err, &cyc) && len(cyc) > 0 && len(cyc[0]) > 0 {
			return nil, fmt.Errorf("%w: involves %q", ErrCycle, rows[cyc[0][0].ID()].ID)
		}
		return nil, fmt.Errorf("%w: %v", ErrCycle, err)
	}

	order := make([]int, len(rows))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ra, rb := rows[order[a]], rows[order[b]]
		if ra.Position != rb.Position {
			return ra.Position < rb.Position
		}
		return ra.ID < rb.ID
	})

	nodes := make([]*model.Node, len(rows))
	for i, row := range rows {
		nodes[i] = &model.Node{
			ID:     row.ID,
			Title:  row.Title,
			Body:   row.Body,
			Height: row.Height,
		}
	}
	var roots []*model.Node
	for _, i := range order {
		row := rows[i]
		if row.ParentID == "" {
			roots = append(roots, nodes[i])
			continue
		}
		parent := nodes[ids[row.ParentID]]
		parent.Children = append(parent.Children, nodes[i])
	}

	if len(roots) == 1 {
		return roots[0], nil
	}
	return &model.Node{Title: title, Children: roots}, nil
}
