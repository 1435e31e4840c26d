//go:build ignore

// generate_testdata.go creates standard outline datasets for benchmarking.
// Usage: go run scripts/generate_testdata.go
//
// Creates:
//   testdata/benchmark/small.json    (1000 nodes)
//   testdata/benchmark/medium.json   (10000 nodes)
//   testdata/benchmark/large.db      (100000 nodes, SQLite)
//   testdata/benchmark/huge.db       (1000000 nodes, SQLite)
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vanderheijden86/stickytree/internal/datasource"
	"github.com/vanderheijden86/stickytree/pkg/loader"
	"github.com/vanderheijden86/stickytree/pkg/model"
	"github.com/vanderheijden86/stickytree/pkg/testutil"
)

type datasetSpec struct {
	name string
	size int
	ext  string
	desc string
}

var datasets = []datasetSpec{
	{"small", 1000, ".json", "1000 nodes - shallow random outline"},
	{"medium", 10000, ".json", "10000 nodes - random outline"},
	{"large", 100000, ".db", "100000 nodes - random outline with bodies"},
	{"huge", 1000000, ".db", "1000000 nodes - random outline with bodies"},
}

func main() {
	outputDir := "testdata/benchmark"
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	for _, ds := range datasets {
		fmt.Printf("Generating %s dataset (%d nodes)...\n", ds.name, ds.size)

		gen := testutil.New(testutil.GeneratorConfig{
			Seed:        int64(ds.size), // Reproducible per-size
			IDPrefix:    "bench-",
			MaxChildren: fanout(ds.size),
			MaxHeight:   3,
		})
		root := gen.Random(ds.size)
		addRealisticContent(root, ds.desc)
		doc := &model.Document{Title: ds.name, Root: root}

		outputPath := filepath.Join(outputDir, ds.name+ds.ext)
		if err := write(outputPath, doc); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", outputPath, err)
			os.Exit(1)
		}

		info, _ := os.Stat(outputPath)
		var size int64
		if info != nil {
			size = info.Size()
		}
		fmt.Printf("  Written %s (%d bytes, %d nodes)\n", outputPath, size, doc.Count())
	}

	fmt.Println("\nDone! Test datasets created in", outputDir)
}

func write(path string, doc *model.Document) error {
	if filepath.Ext(path) == ".db" {
		os.Remove(path)
		return datasource.WriteDocument(path, doc)
	}
	data, err := loader.MarshalJSON(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// fanout widens the tree as it grows so depth stays reasonable.
func fanout(size int) int {
	switch {
	case size <= 1000:
		return 6
	case size <= 10000:
		return 10
	default:
		return 16
	}
}

func addRealisticContent(root *model.Node, datasetDesc string) {
	titles := []string{
		"Getting started",
		"Configuration",
		"Architecture overview",
		"Storage layer",
		"Scrolling and windowing",
		"Sticky headers",
		"Keyboard reference",
		"Troubleshooting",
		"Release notes",
		"Appendix",
	}

	bodies := []string{
		"Short paragraph describing this section.",
		"## Details\n- Step 1: Research\n- Step 2: Implement\n- Step 3: Test",
		"",
	}

	i := 0
	model.Walk(root, func(n *model.Node, _ int) bool {
		n.Title = fmt.Sprintf("[%s] %s #%d", datasetDesc[:6], titles[i%len(titles)], i)
		n.Body = bodies[i%len(bodies)]
		i++
		return true
	})
}
