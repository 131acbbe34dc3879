// Package store persists the whole collection of permits under a single
// key-value entry. Every mutation rewrites the full collection.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/r381893/hot-work-form/internal/model"
)

// DefaultKey is the entry the collection lives under.
const DefaultKey = "hotwork_forms_v2"

// Backend is a minimal key-value store holding opaque blobs.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
}

// Store maps record ids to records on top of a Backend.
type Store struct {
	backend Backend
	key     string
	log     *zap.Logger
}

func New(backend Backend, key string, log *zap.Logger) *Store {
	if key == "" {
		key = DefaultKey
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{backend: backend, key: key, log: log}
}

// LoadAll returns every stored record. A missing, unreadable or corrupt entry
// yields an empty collection.
func (s *Store) LoadAll(ctx context.Context) map[string]model.FormRecord {
	records := make(map[string]model.FormRecord)

	data, ok, err := s.backend.Get(ctx, s.key)
	if err != nil {
		s.log.Warn("reading form store failed", zap.String("key", s.key), zap.Error(err))
		return records
	}
	if !ok || len(data) == 0 {
		return records
	}

	if err := json.Unmarshal(data, &records); err != nil {
		s.log.Warn("form store is corrupt, starting empty", zap.String("key", s.key), zap.Error(err))
		return make(map[string]model.FormRecord)
	}

	for id, rec := range records {
		if rec.ID == "" {
			rec.ID = id
			records[id] = rec
		}
	}
	return records
}

// SaveAll replaces the stored collection with records in a single write.
func (s *Store) SaveAll(ctx context.Context, records map[string]model.FormRecord) error {
	if records == nil {
		records = map[string]model.FormRecord{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encoding forms: %w", err)
	}
	if err := s.backend.Put(ctx, s.key, data); err != nil {
		return fmt.Errorf("writing forms: %w", err)
	}
	s.log.Debug("form store written", zap.Int("records", len(records)), zap.Int("bytes", len(data)))
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (model.FormRecord, bool) {
	rec, ok := s.LoadAll(ctx)[id]
	return rec, ok
}

// Put stores rec under its id, replacing any previous version.
func (s *Store) Put(ctx context.Context, rec model.FormRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("record has no id")
	}
	records := s.LoadAll(ctx)
	records[rec.ID] = rec
	return s.SaveAll(ctx, records)
}

// Delete removes id. Deleting an unknown id is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	records := s.LoadAll(ctx)
	if _, ok := records[id]; !ok {
		return nil
	}
	delete(records, id)
	return s.SaveAll(ctx, records)
}
