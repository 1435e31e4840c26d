// Package loader reads outline documents from JSON, YAML, SQLite or a
// directory on disk.
package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/stickytree/internal/datasource"
	"github.com/vanderheijden86/stickytree/pkg/debug"
	"github.com/vanderheijden86/stickytree/pkg/metrics"
	"github.com/vanderheijden86/stickytree/pkg/model"
)

// ErrUnsupportedFormat is returned for files whose extension has no decoder.
var ErrUnsupportedFormat = errors.New("unsupported outline format")

// Options control loading.
type Options struct {
	// MaxDepth limits directory walks; 0 means unlimited.
	MaxDepth int
	// ShowHidden includes dot-files in directory walks.
	ShowHidden bool
	// Concurrency bounds parallel directory reads; 0 means DefaultConcurrency.
	Concurrency int
}

// DefaultConcurrency is the errgroup limit for directory walks.
const DefaultConcurrency = 16

// fileDocument is the on-disk shape of JSON and YAML outlines. A file may also
// hold a bare node, which is detected by the absence of "root".
type fileDocument struct {
	Title string      `json:"title" yaml:"title"`
	Root  *model.Node `json:"root" yaml:"root"`
}

// Load reads the outline at path, dispatching on its kind.
func Load(ctx context.Context, path string, opts Options) (*model.Document, error) {
	defer metrics.Timer(metrics.Load)()

	src, err := datasource.Detect(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	debug.Log("loader: %s", src)

	var doc *model.Document
	switch src.Type {
	case datasource.SourceTypeDir:
		doc, err = LoadDir(ctx, src.Path, opts)
	case datasource.SourceTypeSQLite:
		doc, err = loadSQLite(src)
	case datasource.SourceTypeJSON, datasource.SourceTypeYAML:
		doc, err = loadFile(src)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(src.Path))
	}
	if err != nil {
		return nil, err
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", src.Path, err)
	}
	return doc, nil
}

func loadFile(src datasource.DataSource) (*model.Document, error) {
	data, err := os.ReadFile(src.Path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", src.Path, err)
	}
	var doc *model.Document
	if src.Type == datasource.SourceTypeJSON {
		doc, err = ParseJSON(data)
	} else {
		doc, err = ParseYAML(data)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", src.Path, err)
	}
	doc.Source = src.Path
	if doc.Title == "" {
		doc.Title = strings.TrimSuffix(filepath.Base(src.Path), filepath.Ext(src.Path))
	}
	return doc, nil
}

func loadSQLite(src datasource.DataSource) (*model.Document, error) {
	r, err := datasource.NewSQLiteReader(src)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return r.LoadDocument()
}

// ParseJSON decodes a JSON outline: either {"title": ..., "root": {...}} or a
// bare node object.
func ParseJSON(data []byte) (*model.Document, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, model.ErrNoRoot
	}
	var fd fileDocument
	if err := json.Unmarshal(data, &fd); err != nil {
		return nil, err
	}
	if fd.Root == nil {
		var n model.Node
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, err
		}
		fd.Root = &n
	}
	return newDocument(fd), nil
}

// ParseYAML decodes a YAML outline with the same shapes as ParseJSON.
func ParseYAML(data []byte) (*model.Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, model.ErrNoRoot
	}
	var fd fileDocument
	if err := yaml.Unmarshal(data, &fd); err != nil {
		return nil, err
	}
	if fd.Root == nil {
		var n model.Node
		if err := yaml.Unmarshal(data, &n); err != nil {
			return nil, err
		}
		fd.Root = &n
	}
	return newDocument(fd), nil
}

func newDocument(fd fileDocument) *model.Document {
	title := fd.Title
	if title == "" {
		title = fd.Root.Title
	}
	return &model.Document{
		Title:    title,
		Root:     fd.Root,
		LoadedAt: time.Now(),
	}
}

// MarshalJSON encodes doc in the format ParseJSON reads.
func MarshalJSON(doc *model.Document) ([]byte, error) {
	return json.MarshalIndent(fileDocument{Title: doc.Title, Root: doc.Root}, "", "  ")
}
