package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/stickytree/pkg/debug"
	"github.com/vanderheijden86/stickytree/pkg/model"
)

// LoadDir builds an outline of the directory tree under root. Directories
// come before files and each group is sorted by name. Top-level
// subdirectories are read concurrently.
func LoadDir(ctx context.Context, root string, opts Options) (*model.Document, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", root, err)
	}
	top, err := readDir(abs, opts)
	if err != nil {
		return nil, err
	}

	name := filepath.Base(abs)
	rootNode := &model.Node{ID: ".", Title: name + "/", Children: make([]*model.Node, len(top))}

	limit := opts.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, e := range top {
		rootNode.Children[i] = entryNode(e)
		if !e.IsDir() || (opts.MaxDepth > 0 && opts.MaxDepth < 2) {
			continue
		}
		child := rootNode.Children[i]
		g.Go(func() error {
			return walkDir(gctx, abs, child, 2, opts)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &model.Document{
		Title:    name,
		Source:   abs,
		Root:     rootNode,
		LoadedAt: time.Now(),
	}, nil
}

// walkDir fills in parent's subtree. depth is the depth of parent's children.
func walkDir(ctx context.Context, base string, parent *model.Node, depth int, opts Options) error {
	type pending struct {
		n     *model.Node
		depth int
	}
	stack := []pending{{parent, depth}}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := readDir(filepath.Join(base, p.n.ID), opts)
		if err != nil {
			// Unreadable subdirectories stay collapsed.
			debug.Log("loader: skipping %s: %v", p.n.ID, err)
			continue
		}
		p.n.Children = make([]*model.Node, len(entries))
		for i, e := range entries {
			c := entryNode(e)
			c.ID = filepath.Join(p.n.ID, e.Name())
			p.n.Children[i] = c
			if e.IsDir() && (opts.MaxDepth == 0 || p.depth < opts.MaxDepth) {
				stack = append(stack, pending{c, p.depth + 1})
			}
		}
	}
	return nil
}

func entryNode(e os.DirEntry) *model.Node {
	n := &model.Node{ID: e.Name(), Title: e.Name()}
	if e.IsDir() {
		n.Title += "/"
	}
	return n
}

func readDir(path string, opts Options) ([]os.DirEntry, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", path, err)
	}
	out := entries[:0]
	for _, e := range entries {
		if !opts.ShowHidden && strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if e.Type()&os.ModeSymlink != 0 {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsDir() != out[j].IsDir() {
			return out[i].IsDir()
		}
		return out[i].Name() < out[j].Name()
	})
	return out, nil
}
