// Copyright (C) 2026 Zyntalic Project (dev@zyntalic.org)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package lexicon

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLexicon(t *testing.T, dir, anchor, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, anchor+".json"), []byte(content), 0o644))
}

// TestLoadDir verifies lexicon files load keyed by anchor name.
func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeLexicon(t, dir, "Homer_Iliad", `{"nouns":["wrath","ship"],"verbs":["sing"],"adjectives":["swift"]}`)
	writeLexicon(t, dir, "Plato_Republic", `{"nouns":["justice"]}`)

	store := NewStore(dir)
	require.NoError(t, store.LoadDir())

	snap := store.Snapshot()
	assert.Equal(t, []string{"Homer_Iliad", "Plato_Republic"}, snap.Anchors())

	lex, ok := snap.Get("Homer_Iliad")
	require.True(t, ok)
	assert.Equal(t, []string{"wrath", "ship"}, lex.Nouns)
	assert.Equal(t, []string{"sing"}, lex.Verbs)
	assert.False(t, lex.Empty())

	lex, ok = snap.Get("Plato_Republic")
	require.True(t, ok)
	assert.Empty(t, lex.Verbs)
}

// TestLoadDir_MissingDir verifies a missing directory yields an empty
// snapshot without error.
func TestLoadDir_MissingDir(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, store.LoadDir())
	assert.Empty(t, store.Snapshot())
}

// TestLoadDir_SkipsMalformed verifies bad files are skipped and reported
// while good ones still load.
func TestLoadDir_SkipsMalformed(t *testing.T) {
	dir := t.TempDir()
	writeLexicon(t, dir, "Good_Anchor", `{"nouns":["word"]}`)
	writeLexicon(t, dir, "Bad_Anchor", `{not json`)

	store := NewStore(dir)
	err := store.LoadDir()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Bad_Anchor")

	snap := store.Snapshot()
	_, ok := snap.Get("Good_Anchor")
	assert.True(t, ok)
	_, ok = snap.Get("Bad_Anchor")
	assert.False(t, ok)
}

// TestReload verifies single-file reload and delete semantics.
func TestReload(t *testing.T) {
	dir := t.TempDir()
	writeLexicon(t, dir, "Goethe_Faust", `{"nouns":["soul"]}`)

	store := NewStore(dir)
	require.NoError(t, store.LoadDir())

	writeLexicon(t, dir, "Goethe_Faust", `{"nouns":["soul","pact"]}`)
	require.NoError(t, store.Reload("Goethe_Faust"))
	lex, _ := store.Snapshot().Get("Goethe_Faust")
	assert.Equal(t, []string{"soul", "pact"}, lex.Nouns)

	require.NoError(t, os.Remove(filepath.Join(dir, "Goethe_Faust.json")))
	require.NoError(t, store.Reload("Goethe_Faust"))
	_, ok := store.Snapshot().Get("Goethe_Faust")
	assert.False(t, ok)
}

// TestSnapshot_Isolation verifies a snapshot taken before a reload keeps
// the old state.
func TestSnapshot_Isolation(t *testing.T) {
	dir := t.TempDir()
	writeLexicon(t, dir, "Spinoza_Ethics", `{"verbs":["strive"]}`)

	store := NewStore(dir)
	require.NoError(t, store.LoadDir())
	before := store.Snapshot()

	writeLexicon(t, dir, "Spinoza_Ethics", `{"verbs":["persist"]}`)
	require.NoError(t, store.Reload("Spinoza_Ethics"))

	old, _ := before.Get("Spinoza_Ethics")
	assert.Equal(t, []string{"strive"}, old.Verbs)
	fresh, _ := store.Snapshot().Get("Spinoza_Ethics")
	assert.Equal(t, []string{"persist"}, fresh.Verbs)
}
