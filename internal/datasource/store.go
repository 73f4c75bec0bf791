// Package datasource persists the canonical record list and decides where
// the records come from on startup: the persisted blob when present,
// otherwise a seed table.
package datasource

import (
	"context"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/orgchart/pkg/model"
)

// RecordsKey is the fixed key the record list is stored under.
const RecordsKey = "tree"

// ErrNotFound is returned by BlobStore.Get for a missing key.
var ErrNotFound = errors.New("blob not found")

// BlobStore is a minimal key/value store holding whole blobs.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	// Put replaces the value stored under key.
	Put(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// RecordStore encodes the record list as JSON under RecordsKey.
type RecordStore struct {
	blobs BlobStore
}

// NewRecordStore wraps a blob store.
func NewRecordStore(blobs BlobStore) *RecordStore {
	return &RecordStore{blobs: blobs}
}

// Load returns the persisted records or ErrNotFound.
func (s *RecordStore) Load(ctx context.Context) ([]model.PersonRecord, error) {
	data, err := s.blobs.Get(ctx, RecordsKey)
	if err != nil {
		return nil, err
	}
	var records []model.PersonRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decoding persisted records: %w", err)
	}
	return records, nil
}

// Save replaces the persisted records.
func (s *RecordStore) Save(ctx context.Context, records []model.PersonRecord) error {
	if records == nil {
		records = []model.PersonRecord{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encoding records: %w", err)
	}
	return s.blobs.Put(ctx, RecordsKey, data)
}

// Clear deletes the persisted records.
func (s *RecordStore) Clear(ctx context.Context) error {
	return s.blobs.Delete(ctx, RecordsKey)
}
