package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func makeTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{
		"b.txt",
		"a.txt",
		"src/main.go",
		"src/pkg/util.go",
		"src/pkg/deep/x.go",
		"docs/readme.md",
		".git/HEAD",
	} {
		writeFile(t, dir, name, "x")
	}
	return dir
}

func TestLoadDir_Ordering(t *testing.T) {
	dir := makeTree(t)
	doc, err := LoadDir(context.Background(), dir, Options{})
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	var got []string
	for _, c := range doc.Root.Children {
		got = append(got, c.Title)
	}
	want := []string{"docs/", "src/", "a.txt", "b.txt"}
	if len(got) != len(want) {
		t.Fatalf("children = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("child %d = %q, want %q", i, got[i], want[i])
		}
	}
	// root, docs, readme, src, main.go, pkg, util.go, deep, x.go, a, b
	if n := doc.Count(); n != 11 {
		t.Errorf("count = %d, want 11", n)
	}
	src := doc.Root.Children[1]
	if src.Children[0].ID != filepath.Join("src", "pkg") {
		t.Errorf("nested id = %q", src.Children[0].ID)
	}
	if err := doc.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadDir_Hidden(t *testing.T) {
	dir := makeTree(t)
	doc, err := LoadDir(context.Background(), dir, Options{ShowHidden: true})
	if err != nil {
		t.Fatal(err)
	}
	if doc.Root.Children[0].Title != ".git/" {
		t.Errorf("first child = %q, want .git/", doc.Root.Children[0].Title)
	}
}

func TestLoadDir_MaxDepth(t *testing.T) {
	dir := makeTree(t)
	tests := []struct {
		depth int
		want  int
	}{
		{1, 5},  // root + 4 entries
		{2, 8},  // + readme, main.go, pkg/
		{0, 11}, // unlimited
	}
	for _, tt := range tests {
		doc, err := LoadDir(context.Background(), dir, Options{MaxDepth: tt.depth})
		if err != nil {
			t.Fatal(err)
		}
		if got := doc.Count(); got != tt.want {
			t.Errorf("MaxDepth %d: count = %d, want %d", tt.depth, got, tt.want)
		}
	}
}

func TestLoadDir_Cancelled(t *testing.T) {
	dir := makeTree(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := LoadDir(ctx, dir, Options{Concurrency: 1}); err == nil {
		t.Error("expected context error")
	}
}

func TestLoadDir_Missing(t *testing.T) {
	if _, err := LoadDir(context.Background(), filepath.Join(os.TempDir(), "does-not-exist-stv"), Options{}); err == nil {
		t.Error("expected error")
	}
}
