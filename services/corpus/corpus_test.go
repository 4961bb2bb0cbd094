// Copyright (C) 2026 Zyntalic Project (dev@zyntalic.org)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package corpus

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zyntalic/zyntalic/services/language/anchors"
)

// TestCleanText covers the extraction artifacts the cleaner removes.
func TestCleanText(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"hyphen line break", "sing, god-\ndess, the wrath", "sing, goddess, the wrath"},
		{"page number line", "end of page\n42\nnext page", "end of page\n\nnext page"},
		{"space runs", "too    many   spaces", "too many spaces"},
		{"crlf", "one\r\ntwo", "one\ntwo"},
		{"control chars", "be\x00fore af\x07ter", "before after"},
		{"surrounding space", "  trimmed  ", "trimmed"},
		{
			"pdf metadata",
			"%PDF-1.4\n1 0 obj<</Author(Someone)/Title(Sample)/Producer(calibre)>>\nendobj\nxref\ntrailer\nstartxref\n%%EOF\nSing, goddess, the wrath.",
			"Sing, goddess, the wrath.",
		},
		{
			"pdf stream block",
			"before the payload\nstream\nx9c binary payload\nendstream\nafter the payload",
			"before the payload\n\nafter the payload",
		},
		{"replacement chars", "caf��e null\x00 byte", "cafe null byte"},
		{"punctuation-only line", "kept line\n- 7 -\nnext kept line", "kept line\n\nnext kept line"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CleanText(tc.in))
		})
	}
}

// TestSplitter verifies chunk geometry and the empty-input case.
func TestSplitter(t *testing.T) {
	s := NewSplitter(100, 10)

	chunks, err := s.Split(strings.Repeat("the wrath of achilles sang ", 40))
	require.NoError(t, err)
	assert.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), 100)
	}

	chunks, err = s.Split("   ")
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

// TestChunkID verifies content addressing.
func TestChunkID(t *testing.T) {
	assert.Equal(t, ChunkID("same text"), ChunkID("same text"))
	assert.NotEqual(t, ChunkID("one"), ChunkID("two"))
}

// TestMemoryStore covers put, idempotent re-put, search ordering, and
// document listing.
func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.EnsureSchema(ctx))

	chunks := []Chunk{
		{ID: ChunkID("alpha"), Document: "Iliad", Anchor: "Homer_Iliad", Text: "alpha", Vector: []float32{1, 0}},
		{ID: ChunkID("beta"), Document: "Iliad", Anchor: "Homer_Iliad", Text: "beta", Vector: []float32{0, 1}},
		{ID: ChunkID("gamma"), Document: "Odyssey", Anchor: "Homer_Odyssey", Text: "gamma", Vector: []float32{0.9, 0.1}},
	}
	n, err := s.PutChunks(ctx, chunks)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	// Re-put overwrites, not duplicates.
	_, err = s.PutChunks(ctx, chunks[:1])
	require.NoError(t, err)
	assert.Equal(t, 3, s.Len())

	got, err := s.Search(ctx, []float32{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "alpha", got[0].Text)
	assert.Equal(t, "gamma", got[1].Text)

	docs, err := s.Documents(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Iliad", "Odyssey"}, docs)

	require.NoError(t, s.Close())
	_, err = s.Search(ctx, []float32{1, 0}, 1)
	assert.ErrorIs(t, err, ErrStoreClosed)
}

// TestIngestor verifies the full clean-split-embed-store pipeline with
// the hash encoder.
func TestIngestor(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	ing, err := NewIngestor(anchors.NewHashEncoder(32), store, nil)
	require.NoError(t, err)

	text := strings.Repeat("Sing, goddess, the wrath of Achilles. ", 60)
	res, err := ing.Ingest(ctx, "Iliad", "Homer_Iliad", text)
	require.NoError(t, err)
	assert.Equal(t, "Iliad", res.Document)
	assert.Greater(t, res.Chunks, 1)
	assert.Equal(t, res.Chunks, res.Stored)
	assert.Equal(t, res.Stored, store.Len())

	// Re-ingesting the same text is idempotent.
	res2, err := ing.Ingest(ctx, "Iliad", "Homer_Iliad", text)
	require.NoError(t, err)
	assert.Equal(t, res.Stored, res2.Stored)
	assert.Equal(t, res.Stored, store.Len())
}

// TestIngestor_EmptyContent verifies empty input is not an error.
func TestIngestor_EmptyContent(t *testing.T) {
	ing, err := NewIngestor(anchors.NewHashEncoder(32), NewMemoryStore(), nil)
	require.NoError(t, err)

	res, err := ing.Ingest(context.Background(), "Empty", "none", "   \n  ")
	require.NoError(t, err)
	assert.Zero(t, res.Chunks)

	_, err = ing.Ingest(context.Background(), "", "none", "text")
	require.Error(t, err)
}
