package store

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrNotFound is returned when an operation references an unknown document id.
var ErrNotFound = errors.New("document not found")

// Document is a single id/content pair.
type Document struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// Store is a fixed-key, mutable-content document map.
type Store struct {
	mu   sync.RWMutex
	docs map[string]string
}

// New creates a Store from seed. The seed map is copied.
func New(seed map[string]string) *Store {
	docs := make(map[string]string, len(seed))
	for id, content := range seed {
		docs[id] = content
	}
	return &Store{docs: docs}
}

// Get returns the current content of id.
func (s *Store) Get(id string) (string, error) {
	s.mu.RLock()
	content, ok := s.docs[id]
	s.mu.RUnlock()

	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return content, nil
}

// Set overwrites the content of an existing document.
// It never creates a document; unknown ids return ErrNotFound.
func (s *Store) Set(id, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.docs[id] = content
	return nil
}

// Has reports whether id is a known document.
func (s *Store) Has(id string) bool {
	s.mu.RLock()
	_, ok := s.docs[id]
	s.mu.RUnlock()
	return ok
}

// IDs returns every document id in ascending order.
func (s *Store) IDs() []string {
	s.mu.RLock()
	ids := make([]string, 0, len(s.docs))
	for id := range s.docs {
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	sort.Strings(ids)
	return ids
}

// Snapshot returns a copy of every document, sorted by id.
func (s *Store) Snapshot() []Document {
	s.mu.RLock()
	out := make([]Document, 0, len(s.docs))
	for id, content := range s.docs {
		out = append(out, Document{ID: id, Content: content})
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len returns the number of documents.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}
