package gallery

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/katalvlaran/matinspect/document"
)

type record struct {
	entry   Entry
	payload []byte
}

// MemoryStore is a Store held in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]record
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]record)}
}

// Save implements Store.
func (s *MemoryStore) Save(ctx context.Context, name string, d *document.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e, payload, err := encode(name, d)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[e.Name] = record{entry: e, payload: payload}

	return nil
}

// Load implements Store.
func (s *MemoryStore) Load(ctx context.Context, name string) (*document.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	r, ok := s.records[strings.TrimSpace(name)]
	s.mu.RUnlock()
	if !ok {
		return nil, notFound(name)
	}

	return document.DecodeJSON(r.payload)
}

// List implements Store.
func (s *MemoryStore) List(ctx context.Context) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r.entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out, nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[name]; !ok {
		return notFound(name)
	}
	delete(s.records, name)

	return nil
}
