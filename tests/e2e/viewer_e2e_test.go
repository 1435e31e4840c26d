package main_test

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vanderheijden86/stickytree/internal/datasource"
	"github.com/vanderheijden86/stickytree/pkg/model"
)

// fixtureDoc is the outline every format fixture encodes:
//
//	Handbook
//	  Setup
//	    Install
//	    Configure
//	  Usage
//	    Scrolling
//	    Headers
//	    Export
func fixtureDoc() *model.Document {
	return &model.Document{Title: "handbook", Root: &model.Node{ID: "root", Title: "Handbook", Children: []*model.Node{
		{ID: "setup", Title: "Setup", Children: []*model.Node{
			{ID: "install", Title: "Install"},
			{ID: "configure", Title: "Configure"},
		}},
		{ID: "usage", Title: "Usage", Children: []*model.Node{
			{ID: "scrolling", Title: "Scrolling"},
			{ID: "headers", Title: "Headers"},
			{ID: "export", Title: "Export"},
		}},
	}}}
}

const fixtureYAML = `title: handbook
root:
  id: root
  title: Handbook
  children:
    - id: setup
      title: Setup
      children:
        - {id: install, title: Install}
        - {id: configure, title: Configure}
    - id: usage
      title: Usage
      children:
        - {id: scrolling, title: Scrolling}
        - {id: headers, title: Headers}
        - {id: export, title: Export}
`

const fixtureJSON = `{"title":"handbook","root":{"id":"root","title":"Handbook","children":[
{"id":"setup","title":"Setup","children":[{"id":"install","title":"Install"},{"id":"configure","title":"Configure"}]},
{"id":"usage","title":"Usage","children":[{"id":"scrolling","title":"Scrolling"},{"id":"headers","title":"Headers"},{"id":"export","title":"Export"}]}]}}`

func writeFixture(t *testing.T, kind string) string {
	t.Helper()
	dir := t.TempDir()
	switch kind {
	case "json":
		path := filepath.Join(dir, "handbook.json")
		if err := os.WriteFile(path, []byte(fixtureJSON), 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	case "yaml":
		path := filepath.Join(dir, "handbook.yaml")
		if err := os.WriteFile(path, []byte(fixtureYAML), 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	case "sqlite":
		path := filepath.Join(dir, "handbook.db")
		if err := datasource.WriteDocument(path, fixtureDoc()); err != nil {
			t.Fatal(err)
		}
		return path
	default:
		t.Fatalf("unknown fixture kind %q", kind)
		return ""
	}
}

func runStv(t *testing.T, args ...string) (string, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	cmd := exec.CommandContext(ctx, buildStvBinary(t), args...)
	out, err := runCmdToFile(t, cmd)
	return string(out), err
}

func TestDump_AllFormats(t *testing.T) {
	for _, kind := range []string{"json", "yaml", "sqlite"} {
		t.Run(kind, func(t *testing.T) {
			path := writeFixture(t, kind)
			out, err := runStv(t, "--dump", "--width", "40", "--height", "20", path)
			if err != nil {
				t.Fatalf("stv failed: %v\n%s", err, out)
			}
			for _, want := range []string{"Handbook", "Setup", "Install", "Usage", "Export"} {
				if !strings.Contains(out, want) {
					t.Errorf("dump missing %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestDump_Directory(t *testing.T) {
	dir := t.TempDir()
	for _, p := range []string{"docs/intro.md", "docs/guide/setup.md", "main.go", ".hidden/x"} {
		full := filepath.Join(dir, p)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	out, err := runStv(t, "--dump", "--width", "40", "--height", "20", dir)
	if err != nil {
		t.Fatalf("stv failed: %v\n%s", err, out)
	}
	for _, want := range []string{"docs/", "guide/", "setup.md", "main.go"} {
		if !strings.Contains(out, want) {
			t.Errorf("dump missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, ".hidden") {
		t.Errorf("hidden entries should be skipped:\n%s", out)
	}
}

func TestDump_StickyAncestors(t *testing.T) {
	path := writeFixture(t, "yaml")
	// Scrolled to Usage, rows above it are gone but Handbook stays pinned.
	out, err := runStv(t, "--dump", "--width", "40", "--height", "7", "--overscan", "0", "--scroll", "@usage", path)
	if err != nil {
		t.Fatalf("stv failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Handbook") || !strings.Contains(out, "Usage") {
		t.Errorf("expected pinned ancestors:\n%s", out)
	}
	if strings.Contains(out, "Install") {
		t.Errorf("rows above the viewport should not be rendered:\n%s", out)
	}
}

func TestDump_NoRenderRoot(t *testing.T) {
	path := writeFixture(t, "json")
	out, err := runStv(t, "--dump", "--no-render-root", "--width", "40", "--height", "20", path)
	if err != nil {
		t.Fatalf("stv failed: %v\n%s", err, out)
	}
	if strings.Contains(out, "Handbook") {
		t.Errorf("root row should be hidden:\n%s", out)
	}
	if !strings.Contains(out, "Setup") {
		t.Errorf("children of the root should still render:\n%s", out)
	}
}

func TestExport_PNG(t *testing.T) {
	path := writeFixture(t, "sqlite")
	out := filepath.Join(t.TempDir(), "snap", "layout.png")
	stdout, err := runStv(t, "--export", out, "--yes", "--width", "40", "--height", "6", path)
	if err != nil {
		t.Fatalf("stv failed: %v\n%s", err, stdout)
	}
	info, err := os.Stat(out)
	if err != nil || info.Size() == 0 {
		t.Fatalf("png not written: %v", err)
	}
}

func TestInvalidInput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := runStv(t, "--dump", path)
	if err == nil {
		t.Fatalf("expected failure, got:\n%s", out)
	}
	if !strings.Contains(out, "Error loading") {
		t.Errorf("output = %q", out)
	}
}

func TestTUI_AutoClose(t *testing.T) {
	skipIfNoScript(t)
	path := writeFixture(t, "json")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cmd := scriptTUICommand(ctx, buildStvBinary(t), path)
	cmd.Env = append(os.Environ(),
		"TERM=xterm-256color",
		"STV_TUI_AUTOCLOSE_MS=400",
	)
	ensureCmdStdinCloses(t, ctx, cmd, 3*time.Second)

	out, err := runCmdToFile(t, cmd)
	if ctx.Err() == context.DeadlineExceeded {
		t.Fatalf("stv did not exit:\n%s", out)
	}
	if err != nil {
		t.Fatalf("stv failed: %v\n%s", err, out)
	}
	if !strings.Contains(string(out), "Handbook") {
		t.Errorf("TUI output missing root title:\n%s", out)
	}
}

func TestTUI_Watch(t *testing.T) {
	skipIfNoScript(t)
	path := writeFixture(t, "yaml")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Polling checks every 2s by default; leave room for one cycle.
	cmd := scriptTUICommand(ctx, buildStvBinary(t), "--watch", path)
	cmd.Env = append(os.Environ(),
		"TERM=xterm-256color",
		"STV_TUI_AUTOCLOSE_MS=4000",
		"STV_FORCE_POLL=1",
	)
	ensureCmdStdinCloses(t, ctx, cmd, 8*time.Second)

	go func() {
		time.Sleep(500 * time.Millisecond)
		updated := strings.Replace(fixtureYAML, "title: Handbook", "title: Revised", 1)
		_ = os.WriteFile(path, []byte(updated), 0o644)
	}()

	out, err := runCmdToFile(t, cmd)
	if err != nil {
		t.Fatalf("stv failed: %v\n%s", err, out)
	}
	if !strings.Contains(string(out), "Revised") {
		t.Errorf("expected reloaded title in output:\n%s", out)
	}
}
