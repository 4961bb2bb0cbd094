// Copyright (C) 2026 Zyntalic Project (dev@zyntalic.org)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package translator

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zyntalic/zyntalic/services/language/anchors"
	"github.com/zyntalic/zyntalic/services/language/lexicon"
	"github.com/zyntalic/zyntalic/services/language/syntax"
)

func newTestTranslator(t *testing.T) *Translator {
	t.Helper()
	w, err := anchors.New(context.Background(), anchors.NewHashEncoder(64), nil)
	require.NoError(t, err)
	tr, err := New(w, nil, nil)
	require.NoError(t, err)
	return tr
}

// stubLearnedEncoder stands in for a real embedding backend so the
// transformer engine's learned-encoder gate opens in tests.
type stubLearnedEncoder struct{}

func (stubLearnedEncoder) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, 8)
	for i, b := range []byte(text) {
		vec[i%8] += float32(b) / 256
	}
	return vec, nil
}

func (stubLearnedEncoder) Dim() int     { return 8 }
func (stubLearnedEncoder) Name() string { return "stub-learned" }

// TestTranslateText_Deterministic verifies the headline guarantee: the
// same text, mirror rate, and engine produce byte-identical records.
func TestTranslateText_Deterministic(t *testing.T) {
	tr := newTestTranslator(t)
	ctx := context.Background()

	first, err := tr.TranslateText(ctx, "Hello world.", 0.8, EngineCore)
	require.NoError(t, err)
	second, err := tr.TranslateText(ctx, "Hello world.", 0.8, EngineCore)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	require.Len(t, first, 1)
	assert.Equal(t, "Hello world.", first[0].Source)
	assert.Equal(t, "hello", first[0].Lemma)
	assert.Equal(t, EngineCore, first[0].Engine)
}

// TestTranslateText_RecordShape verifies anchors and the context tail on
// a rendered record.
func TestTranslateText_RecordShape(t *testing.T) {
	tr := newTestTranslator(t)

	recs, err := tr.TranslateText(context.Background(), "I see the river at night", 0.2, EngineCore)
	require.NoError(t, err)
	require.Len(t, recs, 1)

	rec := recs[0]
	assert.True(t, syntax.HasTail(rec.Target), "target %q", rec.Target)

	require.Len(t, rec.Anchors, 3)
	var sum float64
	for i, a := range rec.Anchors {
		assert.NotEmpty(t, a.Name)
		sum += a.Weight
		if i > 0 {
			assert.GreaterOrEqual(t, rec.Anchors[i-1].Weight, a.Weight)
		}
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

// TestTranslateText_MirrorExtremes verifies mirror rate 1 retains every
// source word and mirror rate 0 retains none.
func TestTranslateText_MirrorExtremes(t *testing.T) {
	tr := newTestTranslator(t)
	ctx := context.Background()

	recs, err := tr.TranslateText(ctx, "wolves chased deer", 1.0, EngineCore)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	for _, w := range []string{"wolves", "deer"} {
		assert.Contains(t, recs[0].Target, w)
	}

	recs, err = tr.TranslateText(ctx, "wolves chased deer", 0.0, EngineCore)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	body := strings.Split(recs[0].Target, syntax.TailOpen)[0]
	for _, w := range []string{"wolves", "chased", "deer"} {
		assert.NotContains(t, body, w)
	}
}

// TestTranslateText_SentenceSplit verifies one record per sentence with
// punctuation kept.
func TestTranslateText_SentenceSplit(t *testing.T) {
	tr := newTestTranslator(t)

	recs, err := tr.TranslateText(context.Background(), "One bird sang. Two cats slept! Did rain fall?", 0.5, EngineCore)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "One bird sang.", recs[0].Source)
	assert.Equal(t, "Two cats slept!", recs[1].Source)
	assert.Equal(t, "Did rain fall?", recs[2].Source)
}

// TestTranslateText_Empty verifies blank input yields zero records, not
// an error.
func TestTranslateText_Empty(t *testing.T) {
	tr := newTestTranslator(t)
	recs, err := tr.TranslateText(context.Background(), "   ", 0.5, EngineCore)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

// TestValidation verifies typed usage errors fire before any work.
func TestValidation(t *testing.T) {
	tr := newTestTranslator(t)
	ctx := context.Background()

	_, err := tr.TranslateText(ctx, "hi there", -0.1, EngineCore)
	assert.ErrorIs(t, err, ErrMirrorRateRange)

	_, err = tr.TranslateText(ctx, "hi there", 1.5, EngineCore)
	assert.ErrorIs(t, err, ErrMirrorRateRange)

	_, err = tr.TranslateText(ctx, "hi there", 0.5, "quantum")
	assert.ErrorIs(t, err, ErrUnknownEngine)

	_, err = tr.TranslateSentence(ctx, "  ", 0.5, EngineCore)
	assert.ErrorIs(t, err, ErrEmptyText)
}

// TestChiasmus_MirrorsPhrases verifies the A B V ... B A echo.
func TestChiasmus_MirrorsPhrases(t *testing.T) {
	tr := newTestTranslator(t)

	rec, err := tr.TranslateSentence(context.Background(), "I see the river", 0.0, EngineChiasmus)
	require.NoError(t, err)
	assert.Equal(t, EngineChiasmus, rec.Engine)

	// Both phrase surfaces appear twice in the echo form.
	core, err := tr.TranslateSentence(context.Background(), "I see the river", 0.0, EngineCore)
	require.NoError(t, err)
	assert.NotEqual(t, core.Target, rec.Target)

	body := strings.Split(rec.Target, syntax.TailOpen)[0]
	words := strings.Fields(body)
	seen := map[string]int{}
	for _, w := range words {
		seen[w]++
	}
	var doubled int
	for _, n := range seen {
		if n >= 2 {
			doubled++
		}
	}
	assert.GreaterOrEqual(t, doubled, 1, "echo should repeat phrase words: %q", body)
}

// TestChiasmus_FallsBackWithoutObject verifies the engine declines
// object-less sentences and the record reports the engine that actually
// rendered.
func TestChiasmus_FallsBackWithoutObject(t *testing.T) {
	tr := newTestTranslator(t)

	rec, err := tr.TranslateSentence(context.Background(), "wolves howled", 0.3, EngineChiasmus)
	require.NoError(t, err)
	assert.Equal(t, EngineCore, rec.Engine)
}

// TestTransformer_RequiresLearnedEncoder verifies the hash fallback
// cannot drive the transformer engine.
func TestTransformer_RequiresLearnedEncoder(t *testing.T) {
	tr := newTestTranslator(t)

	rec, err := tr.TranslateSentence(context.Background(), "I see the river", 0.3, EngineTransformer)
	require.NoError(t, err)
	assert.Equal(t, EngineCore, rec.Engine)
}

// TestTransformer_NarrowedAnchors verifies the fixed two-anchor split
// with a learned encoder present.
func TestTransformer_NarrowedAnchors(t *testing.T) {
	w, err := anchors.New(context.Background(), stubLearnedEncoder{}, nil)
	require.NoError(t, err)
	tr, err := New(w, nil, nil)
	require.NoError(t, err)

	rec, err := tr.TranslateSentence(context.Background(), "I see the river", 0.3, EngineTransformer)
	require.NoError(t, err)
	assert.Equal(t, EngineTransformer, rec.Engine)
	require.Len(t, rec.Anchors, 2)
	assert.Equal(t, 0.7, rec.Anchors[0].Weight)
	assert.Equal(t, 0.3, rec.Anchors[1].Weight)
}

// TestTranslate_WithLexicons verifies anchor lexicons feed word
// synthesis without breaking determinism.
func TestTranslate_WithLexicons(t *testing.T) {
	dir := t.TempDir()
	content := `{"nouns":["szelet","viz"],"verbs":["mara"],"adjectives":["kis"]}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Homer_Iliad.json"), []byte(content), 0o644))

	store := lexicon.NewStore(dir)
	require.NoError(t, store.LoadDir())

	w, err := anchors.New(context.Background(), anchors.NewHashEncoder(64), store.Snapshot())
	require.NoError(t, err)
	tr, err := New(w, store, nil)
	require.NoError(t, err)

	first, err := tr.TranslateSentence(context.Background(), "the sea carried ships home", 0.1, EngineCore)
	require.NoError(t, err)
	second, err := tr.TranslateSentence(context.Background(), "the sea carried ships home", 0.1, EngineCore)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.True(t, syntax.HasTail(first.Target))
}

// TestSplitSentences covers terminal punctuation handling.
func TestSplitSentences(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"One. Two! Three?", []string{"One.", "Two!", "Three?"}},
		{"no terminal", []string{"no terminal"}},
		{"trailing dot.", []string{"trailing dot."}},
		{"", nil},
		{"a.b stays together. next", []string{"a.b stays together.", "next"}},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, SplitSentences(tc.in), "in %q", tc.in)
	}
}

// TestLemma verifies first-word normalization.
func TestLemma(t *testing.T) {
	assert.Equal(t, "hello", Lemma("Hello, world!"))
	assert.Equal(t, "don't", Lemma("Don't stop"))
	assert.Equal(t, "", Lemma("?!"))
}
