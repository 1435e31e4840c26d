package datasource

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/stickytree/pkg/debug"
	"github.com/vanderheijden86/stickytree/pkg/model"
)

// Schema is the outline table layout read and written by this package.
// Rows with a NULL parent_id are roots; siblings are ordered by position.
const Schema = `
CREATE TABLE IF NOT EXISTS nodes (
	id        TEXT PRIMARY KEY,
	parent_id TEXT REFERENCES nodes(id),
	title     TEXT NOT NULL DEFAULT '',
	body      TEXT NOT NULL DEFAULT '',
	height    INTEGER NOT NULL DEFAULT 0,
	position  INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_nodes_parent ON nodes(parent_id, position);
`

// Row is one record of the nodes table.
type Row struct {
	ID       string
	ParentID string // empty for roots
	Title    string
	Body     string
	Height   int
	Position int
}

// SQLiteReader provides read access to an outline SQLite database
type SQLiteReader struct {
	db   *sql.DB
	path string
}

// NewSQLiteReader opens a SQLite database for reading
func NewSQLiteReader(source DataSource) (*SQLiteReader, error) {
	if source.Type != SourceTypeSQLite {
		return nil, fmt.Errorf("source is not SQLite: %s", source.Type)
	}

	dsn := fmt.Sprintf("file:%s?mode=ro&_busy_timeout=5000", source.Path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA cache_size = -64000",
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			debug.Log("datasource: %s failed: %v", pragma, err)
		}
	}

	return &SQLiteReader{
		db:   db,
		path: source.Path,
	}, nil
}

// Close closes the database connection
func (r *SQLiteReader) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// LoadRows reads every row of the nodes table ordered by parent and position.
func (r *SQLiteReader) LoadRows() ([]Row, error) {
	rows, err := r.db.Query(`
		SELECT id, COALESCE(parent_id, ''), title, body, height, position
		FROM nodes
		ORDER BY parent_id, position, id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying nodes: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var row Row
		if err := rows.Scan(&row.ID, &row.ParentID, &row.Title, &row.Body, &row.Height, &row.Position); err != nil {
			return nil, fmt.Errorf("scanning node: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading nodes: %w", err)
	}
	return out, nil
}

// LoadDocument reads the nodes table and assembles it into a document.
func (r *SQLiteReader) LoadDocument() (*model.Document, error) {
	rows, err := r.LoadRows()
	if err != nil {
		return nil, err
	}
	title := strings.TrimSuffix(filepath.Base(r.path), filepath.Ext(r.path))
	root, err := BuildForest(rows, title)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.path, err)
	}
	return &model.Document{
		Title:    title,
		Source:   r.path,
		Root:     root,
		LoadedAt: time.Now(),
	}, nil
}

// CountNodes returns the number of rows in the nodes table
func (r *SQLiteReader) CountNodes() (int, error) {
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM nodes`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting nodes: %w", err)
	}
	return n, nil
}

// GetLastModified returns the modification time of the database file.
func (r *SQLiteReader) GetLastModified() (time.Time, error) {
	src, err := Detect(r.path)
	if err != nil {
		return time.Time{}, err
	}
	return src.ModTime, nil
}
