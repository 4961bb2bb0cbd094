// Copyright (C) 2026 Zyntalic Project (dev@zyntalic.org)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package phonology

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zyntalic/zyntalic/services/language/seed"
)

// TestGenerateWord_Deterministic verifies identical seeds produce
// identical words.
func TestGenerateWord_Deterministic(t *testing.T) {
	seeds := []string{"water", "fire", "river", "night", "love", "zażółć"}
	for _, s := range seeds {
		t.Run(s, func(t *testing.T) {
			a := GenerateWord(s, Options{POS: POSNoun})
			b := GenerateWord(s, Options{POS: POSNoun})
			require.Equal(t, a, b)
			require.NotEmpty(t, a)
		})
	}
}

// TestGenerateWord_DistinctSeeds verifies different seeds diverge.
func TestGenerateWord_DistinctSeeds(t *testing.T) {
	a := GenerateWord("water", Options{})
	b := GenerateWord("fire", Options{})
	assert.NotEqual(t, a, b)
}

// TestSyllableCountFor verifies the length-to-syllable mapping.
func TestSyllableCountFor(t *testing.T) {
	cases := []struct {
		word string
		want int
	}{
		{"a", 2},
		{"cat", 2},
		{"wolf", 3},
		{"garden", 3},
		{"mountain", 4},
		{"understand", 4},
		{"extraordinary", 5},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, SyllableCountFor(tc.word), "word %q", tc.word)
	}
}

// TestBuildSyllable_AlwaysValid verifies every drawn syllable has a
// nucleus and permitted clusters.
func TestBuildSyllable_AlwaysValid(t *testing.T) {
	for i := 0; i < 500; i++ {
		g := seed.New(fmt.Sprintf("syllable-%d", i))
		s := BuildSyllable(g, ScriptLatin)
		require.NotEmpty(t, s.Nucleus, "iteration %d", i)
		require.True(t, s.Valid(), "iteration %d: %+v", i, s)
		require.LessOrEqual(t, len(s.Onset), 2)
		require.LessOrEqual(t, len(s.Coda), 1)
	}
}

// TestSyllableType covers the structural classification.
func TestSyllableType(t *testing.T) {
	cases := []struct {
		s    Syllable
		want SyllableType
	}{
		{Syllable{Nucleus: "a"}, TypeV},
		{Syllable{Nucleus: "a", Coda: []string{"n"}}, TypeVC},
		{Syllable{Onset: []string{"p"}, Nucleus: "a"}, TypeCV},
		{Syllable{Onset: []string{"p"}, Nucleus: "a", Coda: []string{"n"}}, TypeCVC},
		{Syllable{Onset: []string{"p", "r"}, Nucleus: "a"}, TypeCCV},
		{Syllable{Onset: []string{"p", "r"}, Nucleus: "a", Coda: []string{"n"}}, TypeCCVC},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.s.Type())
	}
}

// TestValid_RejectsEmptyNucleus verifies the nucleus invariant.
func TestValid_RejectsEmptyNucleus(t *testing.T) {
	assert.False(t, Syllable{Onset: []string{"p"}}.Valid())
	assert.False(t, Syllable{}.Valid())
}

// TestValid_ClusterTables verifies onset/coda cluster membership checks.
func TestValid_ClusterTables(t *testing.T) {
	assert.True(t, Syllable{Onset: []string{"p", "r"}, Nucleus: "a"}.Valid())
	assert.False(t, Syllable{Onset: []string{"r", "p"}, Nucleus: "a"}.Valid())
	assert.True(t, Syllable{Nucleus: "a", Coda: []string{"n", "t"}}.Valid())
	assert.False(t, Syllable{Nucleus: "a", Coda: []string{"t", "n"}}.Valid())
	assert.False(t, Syllable{Onset: []string{"p", "r", "s"}, Nucleus: "a"}.Valid())
}

func TestApplySoundChanges(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"voicing assimilation", "abta", "apta"},
		{"nasal before labial", "anpa", "ampa"},
		{"nasal before velar", "anga", "aŋga"},
		{"sibilant harmony", "sota-sz", "szota-sz"},
		{"hiatus collapse", "batab", "batab"},
		{"identical frame collapse", "tat", "tt"},
		{"cluster simplification", "apskal", "apkal"},
		{"no change", "moli", "moli"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ApplySoundChanges(tc.in))
		})
	}
}

// TestApplySoundChanges_Idempotent verifies a second pass is a no-op for
// words whose rule preconditions were consumed by the first.
func TestApplySoundChanges_Idempotent(t *testing.T) {
	for i := 0; i < 100; i++ {
		w := GenerateWord(fmt.Sprintf("idem-%d", i), Options{POS: POSVerb})
		assert.Equal(t, w, ApplySoundChanges(w), "word %q", w)
	}
}

// TestComposeHangulBlock verifies round-trip composition.
func TestComposeHangulBlock(t *testing.T) {
	require.Equal(t, '가', ComposeHangulBlock(0, 0, 0))
	for cho := 0; cho < 19; cho += 5 {
		for jung := 0; jung < 21; jung += 7 {
			for jong := 0; jong < 28; jong += 9 {
				r := ComposeHangulBlock(cho, jung, jong)
				c, j, f, ok := DecomposeHangulBlock(r)
				require.True(t, ok)
				assert.Equal(t, cho, c)
				assert.Equal(t, jung, j)
				assert.Equal(t, jong, f)
			}
		}
	}
	_, _, _, ok := DecomposeHangulBlock('a')
	assert.False(t, ok)
}

// TestRomanize verifies substitution and passthrough behavior.
func TestRomanize(t *testing.T) {
	// 가 = ᄀ + ᅡ → "k" + "a"
	assert.Equal(t, "ka", Romanize("가"))
	// 간 adds coda ᆫ → n
	assert.Equal(t, "kan", Romanize("간"))
	// Latin text passes through unchanged.
	assert.Equal(t, "moli", Romanize("moli"))
	// Unmapped punctuation passes through.
	assert.Equal(t, "ka!", Romanize("가!"))
	// Bare jamo map through the inventory tables.
	assert.Equal(t, "ka", Romanize("가"))
}

// TestRomanize_Deterministic verifies romanization of synthesized words
// is stable and never empty.
func TestRomanize_Deterministic(t *testing.T) {
	for _, s := range []string{"river", "night", "wisdom"} {
		w := GenerateWord(s, Options{POS: POSNoun})
		require.NotEmpty(t, Romanize(w))
		assert.Equal(t, Romanize(w), Romanize(w))
	}
}
