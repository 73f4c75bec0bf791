//go:build ignore

// generate_testdata.go creates seed tables for benchmarking the builder and
// the snapshot renderer.
// Usage: go run scripts/generate_testdata.go
//
// Creates:
//
//	testdata/benchmark/small.csv   (100 people)
//	testdata/benchmark/medium.csv  (1000 people)
//	testdata/benchmark/large.csv   (10000 people)
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vanderheijden86/orgchart/pkg/loader"
	"github.com/vanderheijden86/orgchart/pkg/testutil"
)

type dataset struct {
	name   string
	size   int
	attach float64
}

var datasets = []dataset{
	{"small", 100, 0.95},
	{"medium", 1000, 0.98},
	{"large", 10000, 0.995},
}

func main() {
	outputDir := filepath.Join("testdata", "benchmark")
	for _, ds := range datasets {
		gen := testutil.New(testutil.GeneratorConfig{Seed: int64(ds.size), IDPrefix: "E"})
		fixture := gen.Random(ds.size, ds.attach)
		records := gen.ToRecords(fixture)

		path := filepath.Join(outputDir, ds.name+".csv")
		if err := loader.WriteCSVFile(path, records, loader.DefaultColumns()); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", path, err)
			os.Exit(1)
		}
		fmt.Printf("Written %s (%d people, %d roots)\n", path, len(records), fixture.Properties.Roots)
	}
}
