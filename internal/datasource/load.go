package datasource

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log"

	"golang.org/x/sync/singleflight"

	"github.com/vanderheijden86/orgchart/pkg/debug"
	"github.com/vanderheijden86/orgchart/pkg/loader"
	"github.com/vanderheijden86/orgchart/pkg/model"
)

// ErrNoData means neither persisted records nor a seed table exist.
var ErrNoData = errors.New("no org data available")

//go:embed seed/users.csv
var bundledCSV []byte

// SeedFunc produces records when nothing has been persisted yet. It returns
// ErrNoData when it has nothing to offer.
type SeedFunc func(ctx context.Context) ([]model.PersonRecord, error)

// BundledSeed parses the sample table compiled into the binary.
func BundledSeed(opts loader.ParseOptions) SeedFunc {
	return func(context.Context) ([]model.PersonRecord, error) {
		if len(bundledCSV) == 0 {
			return nil, ErrNoData
		}
		return loader.ParseCSV(bytes.NewReader(bundledCSV), opts)
	}
}

// FileSeed reads a CSV or XLSX table from disk.
func FileSeed(path string, opts loader.ParseOptions) SeedFunc {
	return func(context.Context) ([]model.PersonRecord, error) {
		return loader.LoadFile(path, opts)
	}
}

// Source loads the canonical records: persisted first, then the seed, which
// is persisted on first use. Overlapping Load calls share one read.
type Source struct {
	store *RecordStore
	seed  SeedFunc
	group singleflight.Group
}

// NewSource combines a record store with a seed. seed may be nil.
func NewSource(store *RecordStore, seed SeedFunc) *Source {
	return &Source{store: store, seed: seed}
}

// Load returns the current records or ErrNoData. The shared read ignores
// the cancellation of whichever caller started it; each caller stops
// waiting when its own ctx ends.
func (s *Source) Load(ctx context.Context) ([]model.PersonRecord, error) {
	ch := s.group.DoChan("load", func() (any, error) {
		return s.load(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		debug.Log("datasource: load shared=%v", res.Shared)
		records := res.Val.([]model.PersonRecord)
		return append([]model.PersonRecord(nil), records...), nil
	}
}

func (s *Source) load(ctx context.Context) ([]model.PersonRecord, error) {
	records, err := s.store.Load(ctx)
	if err == nil {
		debug.Log("datasource: %d persisted records", len(records))
		if len(records) == 0 {
			return nil, ErrNoData
		}
		return records, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	if s.seed == nil {
		return nil, ErrNoData
	}
	records, err = s.seed(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading seed table: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrNoData
	}
	if err := s.store.Save(ctx, records); err != nil {
		log.Printf("warning: could not persist seed records: %v", err)
	}
	return records, nil
}

// Replace persists a new record list, as done by an admin upload.
func (s *Source) Replace(ctx context.Context, records []model.PersonRecord) error {
	if err := s.store.Save(ctx, records); err != nil {
		return fmt.Errorf("saving records: %w", err)
	}
	s.group.Forget("load")
	return nil
}

// Reset drops the persisted records and reloads from the seed.
func (s *Source) Reset(ctx context.Context) ([]model.PersonRecord, error) {
	if err := s.store.Clear(ctx); err != nil {
		return nil, fmt.Errorf("clearing records: %w", err)
	}
	s.group.Forget("load")
	return s.Load(ctx)
}
