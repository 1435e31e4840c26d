package main

import (
	"bytes"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vanderheijden86/stickytree/pkg/config"
)

const outlineJSON = `{
  "title": "guide",
  "root": {"id": "root", "title": "Guide", "children": [
    {"id": "intro", "title": "Intro", "children": [
      {"id": "why", "title": "Why"},
      {"id": "how", "title": "How"}
    ]},
    {"id": "usage", "title": "Usage", "children": [
      {"id": "flags", "title": "Flags"},
      {"id": "keys", "title": "Keys"},
      {"id": "config", "title": "Config"}
    ]}
  ]}
}`

func writeOutline(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "guide.json")
	if err := os.WriteFile(path, []byte(outlineJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestParseFlags(t *testing.T) {
	fs := flag.NewFlagSet("stv", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	f, err := parseFlags(fs, []string{"--overscan", "4", "--no-render-root", "--bodies", "--dump", "x.json"})
	if err != nil {
		t.Fatal(err)
	}
	if f.overscan != 4 || !f.noRenderRoot || !f.bodies || !f.dump {
		t.Errorf("flags = %+v", f)
	}
	if fs.Arg(0) != "x.json" {
		t.Errorf("arg = %q", fs.Arg(0))
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name  string
		f     flags
		check func(config.Config) bool
	}{
		{"unset overscan keeps config", flags{overscan: -1}, func(c config.Config) bool { return c.View.OverscanRowCount == 2 }},
		{"zero overscan overrides", flags{overscan: 0}, func(c config.Config) bool { return c.View.OverscanRowCount == 0 }},
		{"no render root", flags{overscan: -1, noRenderRoot: true}, func(c config.Config) bool { return !c.View.RenderRoot }},
		{"bodies", flags{overscan: -1, bodies: true}, func(c config.Config) bool { return c.View.ShowBodies }},
		{"watch", flags{overscan: -1, watch: true}, func(c config.Config) bool { return c.Watch.Enabled }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			applyFlags(&cfg, tt.f)
			if !tt.check(cfg) {
				t.Errorf("config = %+v", cfg)
			}
		})
	}
}

func TestRun_Version(t *testing.T) {
	code, out, _ := runCLI(t, "--version")
	if code != 0 || !strings.HasPrefix(out, "stv ") {
		t.Errorf("code=%d out=%q", code, out)
	}
}

func TestRun_Usage(t *testing.T) {
	code, _, errOut := runCLI(t)
	if code != 2 || !strings.Contains(errOut, "Usage: stv") {
		t.Errorf("code=%d stderr=%q", code, errOut)
	}
}

func TestRun_MissingFile(t *testing.T) {
	code, _, errOut := runCLI(t, "--dump", filepath.Join(t.TempDir(), "missing.json"))
	if code != 1 || !strings.Contains(errOut, "Error loading") {
		t.Errorf("code=%d stderr=%q", code, errOut)
	}
}

func TestRun_Dump(t *testing.T) {
	path := writeOutline(t)
	code, out, errOut := runCLI(t, "--dump", "--width", "30", "--height", "6", "--overscan", "0", path)
	if code != 0 {
		t.Fatalf("code=%d stderr=%q", code, errOut)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) == 0 || !strings.Contains(lines[0], "Guide") {
		t.Fatalf("dump = %q", out)
	}
}

func TestRun_DumpScrolledKeepsHeaders(t *testing.T) {
	path := writeOutline(t)
	code, out, errOut := runCLI(t, "--dump", "--width", "30", "--height", "7", "--scroll", "@usage", path)
	if code != 0 {
		t.Fatalf("code=%d stderr=%q", code, errOut)
	}
	for _, want := range []string{"Guide", "Usage"} {
		if !strings.Contains(out, want) {
			t.Errorf("dump missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Why") {
		t.Errorf("dump should not contain rows above the viewport:\n%s", out)
	}
}

func TestRun_BadScroll(t *testing.T) {
	path := writeOutline(t)
	code, _, errOut := runCLI(t, "--dump", "--width", "30", "--height", "6", "--scroll", "@nope", path)
	if code != 1 || !strings.Contains(errOut, "--scroll") {
		t.Errorf("code=%d stderr=%q", code, errOut)
	}
}

func TestRun_Export(t *testing.T) {
	path := writeOutline(t)
	out := filepath.Join(t.TempDir(), "layout.svg")
	code, stdout, errOut := runCLI(t, "--export", out, "--yes", "--width", "40", "--height", "10", path)
	if code != 0 {
		t.Fatalf("code=%d stderr=%q", code, errOut)
	}
	if !strings.Contains(stdout, "Wrote") {
		t.Errorf("stdout = %q", stdout)
	}
	if info, err := os.Stat(out); err != nil || info.Size() == 0 {
		t.Errorf("snapshot not written: %v", err)
	}
}

func TestTerminalSize_Flags(t *testing.T) {
	w, h := terminalSize(33, 11)
	if w != 33 || h != 11 {
		t.Errorf("terminalSize = %d,%d", w, h)
	}
	w, h = terminalSize(0, 0)
	if w <= 0 || h <= 0 {
		t.Errorf("fallback size = %d,%d", w, h)
	}
}
