package docstore

import (
	"context"
	"slices"
	"sync"

	poserrors "github.com/abgdnv/butcherpos/internal/errors"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore is a map-backed Store with fault injection, used by tests and the memory driver.
type MemoryStore struct {
	mu       sync.Mutex
	docs     map[Document][]byte
	saveErrs map[Document]error
	saves    map[Document]int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs:     make(map[Document][]byte),
		saveErrs: make(map[Document]error),
		saves:    make(map[Document]int),
	}
}

func (s *MemoryStore) Load(_ context.Context, doc Document) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.docs[doc]
	if !ok {
		return nil, poserrors.ErrDocumentNotFound
	}
	return slices.Clone(data), nil
}

func (s *MemoryStore) Save(_ context.Context, doc Document, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.saveErrs[doc]; err != nil {
		return ioError("write", doc, err)
	}
	s.docs[doc] = slices.Clone(data)
	s.saves[doc]++
	return nil
}

func (s *MemoryStore) Close() error { return nil }

// FailSaves makes every following Save of doc fail with err. A nil err clears the fault.
func (s *MemoryStore) FailSaves(doc Document, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveErrs[doc] = err
}

// Put stores raw content for doc without counting it as a save.
func (s *MemoryStore) Put(doc Document, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc] = slices.Clone(data)
}

// Saves returns how many successful saves doc has received.
func (s *MemoryStore) Saves(doc Document) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves[doc]
}
