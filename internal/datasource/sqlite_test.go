package datasource

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vanderheijden86/stickytree/pkg/model"
	"github.com/vanderheijden86/stickytree/pkg/testutil"
)

func TestSQLite_WriteThenRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "outline.db")
	doc := &model.Document{Root: testutil.Example()}
	if err := WriteDocument(path, doc); err != nil {
		t.Fatalf("WriteDocument: %v", err)
	}

	src, err := Detect(path)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if src.Type != SourceTypeSQLite {
		t.Fatalf("type = %q", src.Type)
	}

	r, err := NewSQLiteReader(src)
	if err != nil {
		t.Fatalf("NewSQLiteReader: %v", err)
	}
	defer r.Close()

	n, err := r.CountNodes()
	if err != nil || n != 3 {
		t.Fatalf("CountNodes = %d, %v", n, err)
	}
	got, err := r.LoadDocument()
	if err != nil {
		t.Fatalf("LoadDocument: %v", err)
	}
	if got.Title != "outline" || got.Source != src.Path {
		t.Errorf("doc = %q from %q", got.Title, got.Source)
	}
	if got.Root.Height != 10 || len(got.Root.Children) != 2 {
		t.Fatalf("root = %+v", got.Root)
	}
	if got.Root.Children[0].Height != 20 || got.Root.Children[1].Height != 5 {
		t.Errorf("child heights = %d, %d", got.Root.Children[0].Height, got.Root.Children[1].Height)
	}
	if _, err := r.GetLastModified(); err != nil {
		t.Errorf("GetLastModified: %v", err)
	}
}

func TestSQLite_Rewrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "outline.sqlite")
	first := &model.Document{Root: testutil.QuickBalanced(2, 3)}
	second := &model.Document{Root: testutil.Example()}
	if err := WriteDocument(path, first); err != nil {
		t.Fatal(err)
	}
	if err := WriteDocument(path, second); err != nil {
		t.Fatal(err)
	}
	r, err := NewSQLiteReader(DataSource{Type: SourceTypeSQLite, Path: path})
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	if n, _ := r.CountNodes(); n != 3 {
		t.Errorf("CountNodes = %d, want 3", n)
	}
}

func TestNewSQLiteReader_WrongType(t *testing.T) {
	if _, err := NewSQLiteReader(DataSource{Type: SourceTypeJSON, Path: "x.json"}); err == nil {
		t.Fatal("expected error for non-sqlite source")
	}
}

func TestDetect(t *testing.T) {
	dir := t.TempDir()
	files := map[string]SourceType{
		"a.json": SourceTypeJSON,
		"b.YAML": SourceTypeYAML,
		"c.yml":  SourceTypeYAML,
		"d.db":   SourceTypeSQLite,
		"e.txt":  SourceTypeUnknown,
	}
	for name, want := range files {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
		src, err := Detect(p)
		if err != nil {
			t.Fatalf("Detect(%s): %v", name, err)
		}
		if src.Type != want {
			t.Errorf("Detect(%s) = %q, want %q", name, src.Type, want)
		}
	}
	src, err := Detect(dir)
	if err != nil || src.Type != SourceTypeDir {
		t.Errorf("Detect(dir) = %v, %v", src.Type, err)
	}
	if _, err := Detect(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing path")
	}
}
