// Package datasource detects outline sources on disk and reads outline tables
// stored in SQLite databases.
package datasource

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// SourceType identifies the type of data source
type SourceType string

const (
	// SourceTypeSQLite is a SQLite database holding a nodes table
	SourceTypeSQLite SourceType = "sqlite"
	// SourceTypeJSON is a JSON outline document
	SourceTypeJSON SourceType = "json"
	// SourceTypeYAML is a YAML outline document
	SourceTypeYAML SourceType = "yaml"
	// SourceTypeDir is a directory shown as a file tree
	SourceTypeDir SourceType = "dir"
	// SourceTypeUnknown is anything else
	SourceTypeUnknown SourceType = ""
)

// DataSource describes a path an outline can be loaded from
type DataSource struct {
	Type    SourceType `json:"type"`
	Path    string     `json:"path"`
	ModTime time.Time  `json:"mod_time"`
	Size    int64      `json:"size"`
}

// String returns a human-readable description of the source
func (s DataSource) String() string {
	return fmt.Sprintf("%s (%s, mod=%s, %d bytes)",
		s.Path, s.Type, s.ModTime.Format(time.RFC3339), s.Size)
}

// TypeForExt maps a file extension (with or without the dot) to a source type.
func TypeForExt(ext string) SourceType {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "db", "sqlite", "sqlite3":
		return SourceTypeSQLite
	case "json":
		return SourceTypeJSON
	case "yaml", "yml":
		return SourceTypeYAML
	}
	return SourceTypeUnknown
}

// Detect stats path and classifies it.
func Detect(path string) (DataSource, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return DataSource{}, fmt.Errorf("resolving %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return DataSource{}, err
	}
	src := DataSource{
		Path:    abs,
		ModTime: info.ModTime(),
		Size:    info.Size(),
	}
	if info.IsDir() {
		src.Type = SourceTypeDir
	} else {
		src.Type = TypeForExt(filepath.Ext(abs))
	}
	return src, nil
}
