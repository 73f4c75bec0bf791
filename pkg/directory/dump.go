package directory

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/vanderheijden86/orgchart/pkg/loader"
	"github.com/vanderheijden86/orgchart/pkg/model"
)

// DumpOptions configures Dump.
type DumpOptions struct {
	// Previous is the table to merge with. A missing file is fine.
	Previous string
	Output   string
	Key      MergeKey
	Columns  loader.Columns
}

// DumpResult summarizes a dump.
type DumpResult struct {
	Users   int
	Matched int
	Path    string
}

// Dump fetches users, merges them with the previous table and writes the
// result as CSV with a BOM.
func Dump(ctx context.Context, f UserFetcher, opts DumpOptions) (DumpResult, error) {
	if opts.Output == "" {
		return DumpResult{}, fmt.Errorf("output path is required")
	}
	if opts.Columns == (loader.Columns{}) {
		opts.Columns = loader.DefaultColumns()
	}

	var previous []model.PersonRecord
	if opts.Previous != "" {
		recs, err := loader.LoadFile(opts.Previous, loader.ParseOptions{Columns: opts.Columns})
		switch {
		case err == nil:
			previous = recs
		case errors.Is(err, os.ErrNotExist):
		default:
			return DumpResult{}, fmt.Errorf("reading previous table: %w", err)
		}
	}

	users, err := f.FetchUsers(ctx)
	if err != nil {
		return DumpResult{}, err
	}

	merged := Merge(previous, users, opts.Key)
	matched := 0
	for _, r := range merged {
		if r.ID != "" {
			matched++
		}
	}
	if err := loader.WriteCSVFile(opts.Output, merged, opts.Columns); err != nil {
		return DumpResult{}, fmt.Errorf("writing %s: %w", opts.Output, err)
	}
	return DumpResult{Users: len(merged), Matched: matched, Path: opts.Output}, nil
}
