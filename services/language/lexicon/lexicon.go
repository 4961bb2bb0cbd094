// Copyright (C) 2026 Zyntalic Project (dev@zyntalic.org)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding attribution requirements.

// Package lexicon loads and serves per-anchor word lists.
//
// Each anchor may ship a JSON lexicon file (<Anchor_Name>.json) with
// nouns, verbs, and adjectives drawn from the work. Lexicons bias word
// synthesis toward an anchor's vocabulary. The store hands out immutable
// snapshots so one translation call always sees one consistent state
// even while the watcher hot-reloads files underneath.
package lexicon

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Lexicon is one anchor's categorized word list. Slices are never
// mutated after load.
type Lexicon struct {
	Nouns      []string `json:"nouns"`
	Verbs      []string `json:"verbs"`
	Adjectives []string `json:"adjectives"`
}

// Empty reports whether the lexicon has no words in any category.
func (l Lexicon) Empty() bool {
	return len(l.Nouns) == 0 && len(l.Verbs) == 0 && len(l.Adjectives) == 0
}

// Snapshot is an immutable view of all loaded lexicons, keyed by anchor
// name. Safe to share across goroutines; never written after creation.
type Snapshot map[string]Lexicon

// Get returns an anchor's lexicon and whether it exists.
func (s Snapshot) Get(anchor string) (Lexicon, bool) {
	l, ok := s[anchor]
	return l, ok
}

// Anchors returns the snapshot's anchor names in sorted order.
func (s Snapshot) Anchors() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Store owns the mutable lexicon state behind snapshot semantics.
//
// # Thread Safety
//
// Safe for concurrent use. Readers take snapshots; the watcher and
// LoadDir replace state under the write lock.
type Store struct {
	mu      sync.RWMutex
	dir     string
	current Snapshot
}

// NewStore creates an empty store rooted at dir. The directory may not
// exist yet; LoadDir tolerates that.
func NewStore(dir string) *Store {
	return &Store{dir: dir, current: Snapshot{}}
}

// Dir returns the directory the store loads from.
func (s *Store) Dir() string { return s.dir }

// Snapshot returns the current immutable view.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// LoadDir reads every *.json lexicon file in the store's directory and
// atomically replaces the current snapshot. A missing directory yields
// an empty snapshot, not an error; individual malformed files are
// skipped and reported in the returned error list.
func (s *Store) LoadDir() error {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		s.replace(Snapshot{})
		return nil
	}
	if err != nil {
		return fmt.Errorf("read lexicon dir: %w", err)
	}

	next := Snapshot{}
	var loadErrs []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ".json")
		lex, err := loadFile(filepath.Join(s.dir, e.Name()))
		if err != nil {
			loadErrs = append(loadErrs, fmt.Sprintf("%s: %v", e.Name(), err))
			continue
		}
		next[name] = lex
	}

	s.replace(next)
	if len(loadErrs) > 0 {
		return fmt.Errorf("skipped %d lexicon file(s): %s", len(loadErrs), strings.Join(loadErrs, "; "))
	}
	return nil
}

// Reload re-reads a single anchor's file into a fresh snapshot. Used by
// the watcher on change events; a deleted file removes the entry.
func (s *Store) Reload(anchor string) error {
	path := filepath.Join(s.dir, anchor+".json")
	lex, err := loadFile(path)

	s.mu.Lock()
	defer s.mu.Unlock()
	next := make(Snapshot, len(s.current)+1)
	for k, v := range s.current {
		next[k] = v
	}
	switch {
	case os.IsNotExist(err):
		delete(next, anchor)
	case err != nil:
		return fmt.Errorf("reload %s: %w", anchor, err)
	default:
		next[anchor] = lex
	}
	s.current = next
	return nil
}

func (s *Store) replace(next Snapshot) {
	s.mu.Lock()
	s.current = next
	s.mu.Unlock()
}

func loadFile(path string) (Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Lexicon{}, err
	}
	var lex Lexicon
	if err := json.Unmarshal(data, &lex); err != nil {
		return Lexicon{}, fmt.Errorf("parse: %w", err)
	}
	return lex, nil
}
