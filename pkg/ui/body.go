package ui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/x/ansi"

	"github.com/vanderheijden86/stickytree/pkg/debug"
)

// BodyRenderer renders markdown bodies to terminal lines. Results are cached
// by source text, so a body's line count, and therefore its row height, is
// stable for the life of the renderer.
type BodyRenderer struct {
	tr   *glamour.TermRenderer
	wrap int

	mu    sync.Mutex
	cache map[string][]string
}

// NewBodyRenderer creates a renderer wrapping at wrap columns. Without
// options it picks a style matching the terminal background.
func NewBodyRenderer(wrap int, opts ...glamour.TermRendererOption) (*BodyRenderer, error) {
	if wrap <= 0 {
		wrap = 72
	}
	if len(opts) == 0 {
		opts = []glamour.TermRendererOption{glamour.WithAutoStyle()}
	}
	opts = append(opts, glamour.WithWordWrap(wrap))
	tr, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, err
	}
	return &BodyRenderer{tr: tr, wrap: wrap, cache: make(map[string][]string)}, nil
}

// Wrap returns the word-wrap width.
func (b *BodyRenderer) Wrap() int {
	return b.wrap
}

// Lines returns the rendered lines of md, without leading or trailing blank
// lines. An empty body has no lines.
func (b *BodyRenderer) Lines(md string) []string {
	if strings.TrimSpace(md) == "" {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if lines, ok := b.cache[md]; ok {
		return lines
	}

	out, err := b.tr.Render(md)
	if err != nil {
		debug.Log("ui: markdown render failed: %v", err)
		out = md
	}
	lines := strings.Split(out, "\n")
	for len(lines) > 0 && strings.TrimSpace(ansi.Strip(lines[0])) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(ansi.Strip(lines[len(lines)-1])) == "" {
		lines = lines[:len(lines)-1]
	}
	b.cache[md] = lines
	return lines
}
