// Copyright (C) 2026 Zyntalic Project (dev@zyntalic.org)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding attribution requirements.

package corpus

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/zyntalic/zyntalic/services/language/anchors"
)

// ErrStoreClosed is returned for operations on a closed store.
var ErrStoreClosed = errors.New("corpus: store is closed")

// Store persists embedded chunks.
//
// Implementations: MemoryStore (tests, single-node CLI use) and
// WeaviateStore (production vector search).
type Store interface {
	// EnsureSchema prepares the backing storage. Idempotent.
	EnsureSchema(ctx context.Context) error

	// PutChunks stores chunks, returning how many were accepted.
	PutChunks(ctx context.Context, chunks []Chunk) (int, error)

	// Search returns the chunks nearest to the query vector, best
	// first.
	Search(ctx context.Context, vector []float32, limit int) ([]Chunk, error)

	// Documents lists the distinct ingested document names, sorted.
	Documents(ctx context.Context) ([]string, error)

	Close() error
}

// MemoryStore is an in-process Store with linear cosine search.
//
// # Thread Safety
//
// Safe for concurrent use.
type MemoryStore struct {
	mu     sync.RWMutex
	chunks map[string]Chunk
	closed bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{chunks: make(map[string]Chunk)}
}

// EnsureSchema is a no-op for the in-memory store.
func (s *MemoryStore) EnsureSchema(ctx context.Context) error {
	return s.check()
}

// PutChunks stores chunks keyed by ID; re-ingested chunks overwrite.
func (s *MemoryStore) PutChunks(ctx context.Context, chunks []Chunk) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrStoreClosed
	}
	for _, c := range chunks {
		s.chunks[string(c.ID)] = c
	}
	return len(chunks), nil
}

// Search ranks all chunks by cosine similarity to the query vector.
func (s *MemoryStore) Search(ctx context.Context, vector []float32, limit int) ([]Chunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrStoreClosed
	}

	type scored struct {
		chunk Chunk
		sim   float64
	}
	all := make([]scored, 0, len(s.chunks))
	for _, c := range s.chunks {
		all = append(all, scored{chunk: c, sim: anchors.CosineSimilarity(vector, c.Vector)})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].sim != all[j].sim {
			return all[i].sim > all[j].sim
		}
		return all[i].chunk.ID < all[j].chunk.ID
	})

	if limit <= 0 || limit > len(all) {
		limit = len(all)
	}
	out := make([]Chunk, 0, limit)
	for _, s := range all[:limit] {
		out = append(out, s.chunk)
	}
	return out, nil
}

// Documents lists distinct document names.
func (s *MemoryStore) Documents(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrStoreClosed
	}

	seen := make(map[string]struct{})
	for _, c := range s.chunks {
		seen[c.Document] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Len reports how many chunks are stored.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}

// Close marks the store closed; later operations fail.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *MemoryStore) check() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}
	return nil
}
