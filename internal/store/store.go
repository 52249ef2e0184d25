// Package store provides the in-memory record store that backs each
// resource type.
package store

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/alfagnish/exchange-api/internal/apperr"
)

// Store is a thread-safe, insertion-ordered map from id to record. Every
// read-modify-write sequence runs under the store's lock, so a create
// cannot race past another create's existence check. Records are held by
// value; callers never share memory with the store.
type Store[T any] struct {
	name string

	mu      sync.RWMutex
	records map[uuid.UUID]T
	order   []uuid.UUID
}

// New creates an empty store. name is used in error messages.
func New[T any](name string) *Store[T] {
	return &Store[T]{
		name:    name,
		records: make(map[uuid.UUID]T),
	}
}

// Name returns the resource name the store was created with.
func (s *Store[T]) Name() string {
	return s.name
}

// Create inserts rec under id. It fails with apperr.ErrAlreadyExists if id
// is taken.
func (s *Store[T]) Create(id uuid.UUID, rec T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; ok {
		return fmt.Errorf("%s %s: %w", s.name, id, apperr.ErrAlreadyExists)
	}
	s.records[id] = rec
	s.order = append(s.order, id)
	return nil
}

// Get returns the record stored under id.
func (s *Store[T]) Get(id uuid.UUID) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%s %s: %w", s.name, id, apperr.ErrNotFound)
	}
	return rec, nil
}

// List returns the records accepted by match in insertion order. A nil
// match returns every record.
func (s *Store[T]) List(match func(T) bool) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]T, 0, len(s.order))
	for _, id := range s.order {
		rec := s.records[id]
		if match == nil || match(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// Update replaces the record under id with the result of fn. If fn returns
// an error the store is left untouched and the error is returned as is.
func (s *Store[T]) Update(id uuid.UUID, fn func(T) (T, error)) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	cur, ok := s.records[id]
	if !ok {
		return zero, fmt.Errorf("%s %s: %w", s.name, id, apperr.ErrNotFound)
	}
	next, err := fn(cur)
	if err != nil {
		return zero, err
	}
	s.records[id] = next
	return next, nil
}

// Delete removes the record under id.
func (s *Store[T]) Delete(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return fmt.Errorf("%s %s: %w", s.name, id, apperr.ErrNotFound)
	}
	delete(s.records, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Len returns the number of stored records.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
