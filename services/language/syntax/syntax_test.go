// Copyright (C) 2026 Zyntalic Project (dev@zyntalic.org)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTokenize verifies boundary handling and apostrophe/hyphen
// preservation.
func TestTokenize(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"Hello world.", []string{"Hello", "world"}},
		{"don't stop", []string{"don't", "stop"}},
		{"well-known fact", []string{"well-known", "fact"}},
		{"  spaced   out  ", []string{"spaced", "out"}},
		{"", nil},
		{"...", nil},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Tokenize(tc.in), "in %q", tc.in)
	}
}

// TestFindVerb covers the three location heuristics in priority order.
func TestFindVerb(t *testing.T) {
	// "will" + next token wins.
	assert.Equal(t, 2, FindVerb([]string{"she", "will", "travel", "far"}))
	// Closed verb list.
	assert.Equal(t, 1, FindVerb([]string{"I", "see", "the", "river"}))
	// -ed morphology.
	assert.Equal(t, 2, FindVerb([]string{"the", "bird", "vanished", "quickly"}))
	// 3sg -s of a known verb.
	assert.Equal(t, 2, FindVerb([]string{"the", "cat", "sees", "mice"}))
	// Fallback: token midpoint.
	assert.Equal(t, 2, FindVerb([]string{"colorless", "green", "ideas", "furiously"}))
}

// TestGuessTense covers future, past, and the present default.
func TestGuessTense(t *testing.T) {
	assert.Equal(t, Future, GuessTense([]string{"she", "will", "go"}, 2))
	assert.Equal(t, Past, GuessTense([]string{"they", "walked", "home"}, 1))
	assert.Equal(t, Past, GuessTense([]string{"it", "was", "cold"}, 1))
	assert.Equal(t, Present, GuessTense([]string{"I", "see", "it"}, 1))
}

// TestGuessPlural verifies the trailing-s heuristic and its exceptions.
func TestGuessPlural(t *testing.T) {
	assert.True(t, GuessPlural("the rivers"))
	assert.False(t, GuessPlural("the glass"))
	assert.False(t, GuessPlural("the cactus"))
	assert.False(t, GuessPlural("the thesis"))
	assert.False(t, GuessPlural(""))
}

// TestParse_SOVGroups verifies subject/object/context splitting around
// the verb.
func TestParse_SOVGroups(t *testing.T) {
	ps := Parse("I see the river at night")
	assert.Equal(t, "I", ps.Subject)
	assert.Equal(t, "see", ps.Verb)
	assert.Equal(t, "the river", ps.Object)
	require.Len(t, ps.Contexts, 1)
	assert.Equal(t, "at", ps.Contexts[0].Marker)
	assert.Equal(t, Spatial, ps.Contexts[0].Type)
	assert.Equal(t, "night", ps.Contexts[0].Content)
	assert.Equal(t, Present, ps.Tense)
}

// TestParse_MultipleContexts verifies each marker opens its own clause.
func TestParse_MultipleContexts(t *testing.T) {
	ps := Parse("she walked home because the rain stopped before sunset")
	assert.Equal(t, "walked", ps.Verb)
	require.Len(t, ps.Contexts, 2)
	assert.Equal(t, "because", ps.Contexts[0].Marker)
	assert.Equal(t, Causal, ps.Contexts[0].Type)
	assert.Equal(t, "the rain stopped", ps.Contexts[0].Content)
	assert.Equal(t, "before", ps.Contexts[1].Marker)
	assert.Equal(t, Temporal, ps.Contexts[1].Type)
	assert.Equal(t, "sunset", ps.Contexts[1].Content)
}

// TestParse_MarkerBeforeVerb verifies pre-verb markers are excluded
// from the subject phrase.
func TestParse_MarkerBeforeVerb(t *testing.T) {
	ps := Parse("in winter the wolves howled")
	assert.Equal(t, "winter the wolves", ps.Subject)
	assert.Equal(t, "howled", ps.Verb)
	assert.True(t, ps.SubjPlural)
}

// TestParse_NoVerbFallback verifies midpoint fallback instead of an
// error.
func TestParse_NoVerbFallback(t *testing.T) {
	ps := Parse("colorless green ideas furiously")
	assert.Equal(t, "ideas", ps.Verb)
	assert.Equal(t, "colorless green", ps.Subject)
}

// TestParse_Empty verifies empty input parses to the zero sentence.
func TestParse_Empty(t *testing.T) {
	ps := Parse("   ")
	assert.Empty(t, ps.Subject)
	assert.Empty(t, ps.Verb)
	assert.Empty(t, ps.Contexts)
}

// TestPluralize verifies harmony suffix selection.
func TestPluralize(t *testing.T) {
	assert.Equal(t, "hajó-ok", Pluralize("hajó"))
	assert.Equal(t, "keret-ek", Pluralize("keret"))
	assert.Equal(t, "krk-ek", Pluralize("krk")) // no vowel defaults front
	assert.Equal(t, "azur", Pluralize("azur"))  // already beyond many
	assert.Equal(t, "", Pluralize("  "))
}

// TestMarkTense verifies tense marking.
func TestMarkTense(t *testing.T) {
	assert.Equal(t, "mara", MarkTense("mara", Present))
	assert.Equal(t, "maraé", MarkTense("mara", Past))
	assert.Equal(t, "va-mara", MarkTense("mara", Future))
	assert.Equal(t, "", MarkTense(" ", Past))
}

// TestClassifyMarker_Exhaustive walks the whole closed marker table.
func TestClassifyMarker_Exhaustive(t *testing.T) {
	for marker, want := range contextMarkers {
		assert.Equal(t, want, ClassifyMarker(marker), "marker %q", marker)
		assert.True(t, IsContextMarker(marker))
	}
	assert.Equal(t, Modal, ClassifyMarker("unheard-of"))
	assert.False(t, IsContextMarker("table"))
}

// TestMarkerTarget verifies table hits and misses.
func TestMarkerTarget(t *testing.T) {
	tgt, ok := MarkerTarget("when")
	assert.True(t, ok)
	assert.Equal(t, "뛀쨮", tgt)

	_, ok = MarkerTarget("despite")
	assert.False(t, ok)
}

// TestRenderTail verifies the tail grammar and the HasTail check.
func TestRenderTail(t *testing.T) {
	tail := RenderTail("뚧홧", "see", 2, "main")
	assert.Equal(t, "⟦ctx:han=뚧홧; verb=see; args=2; type=main⟧", tail)
	assert.True(t, HasTail("word word "+tail))
	assert.False(t, HasTail("no tail here"))
	assert.False(t, HasTail(tail+" "+tail))
}
