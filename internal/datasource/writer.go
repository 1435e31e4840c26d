package datasource

import (
	"database/sql"
	"fmt"
	"strconv"

	"github.com/vanderheijden86/stickytree/pkg/model"
)

// WriteDocument stores doc's tree in a nodes table at path, replacing any
// rows already there. Nodes without an ID get one derived from their
// pre-order position.
func WriteDocument(path string, doc *model.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?_busy_timeout=5000", path))
	if err != nil {
		return fmt.Errorf("cannot open database: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec(Schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM nodes`); err != nil {
		return fmt.Errorf("clearing nodes: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO nodes (id, parent_id, title, body, height, position) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range Rows(doc.Root) {
		var parent any
		if row.ParentID != "" {
			parent = row.ParentID
		}
		if _, err := stmt.Exec(row.ID, parent, row.Title, row.Body, row.Height, row.Position); err != nil {
			return fmt.Errorf("inserting %q: %w", row.ID, err)
		}
	}
	return tx.Commit()
}

// Rows flattens a tree into parent-linked rows in pre-order.
func Rows(root *model.Node) []Row {
	type entry struct {
		n        *model.Node
		parent   string
		position int
	}
	var out []Row
	seq := 0
	stack := []entry{{n: root}}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		id := e.n.ID
		if id == "" {
			id = "auto-" + strconv.Itoa(seq)
		}
		seq++
		out = append(out, Row{
			ID:       id,
			ParentID: e.parent,
			Title:    e.n.Title,
			Body:     e.n.Body,
			Height:   e.n.Height,
			Position: e.position,
		})
		for i := len(e.n.Children) - 1; i >= 0; i-- {
			stack = append(stack, entry{n: e.n.Children[i], parent: id, position: i})
		}
	}
	return out
}
