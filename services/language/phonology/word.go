// Copyright (C) 2026 Zyntalic Project (dev@zyntalic.org)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding attribution requirements.

package phonology

import (
	"strings"

	"github.com/zyntalic/zyntalic/services/language/seed"
)

// PartOfSpeech steers the script mix of a synthesized word.
type PartOfSpeech string

const (
	POSNoun PartOfSpeech = "noun"
	POSVerb PartOfSpeech = "verb"
	POSAny  PartOfSpeech = ""
)

// Options parameterizes word synthesis.
type Options struct {
	// Syllables is the target syllable count. Zero means "derive from
	// the seed word length" via SyllableCountFor.
	Syllables int

	// POS skews the script mix: nouns run 85% Hangul, verbs 85% Latin.
	// The zero value uses the neutral 70% Hangul default.
	POS PartOfSpeech
}

// Polish flavor markers occasionally appended to an interior syllable.
var polishMarkers = []string{"ć", "ść", "rz", "ż", "sz", "cz"}

// SyllableCountFor maps a source word's length to a target syllable
// count: up to 3 chars → 2 syllables, up to 6 → 3, up to 10 → 4, else 5.
func SyllableCountFor(sourceWord string) int {
	switch n := len([]rune(sourceWord)); {
	case n <= 3:
		return 2
	case n <= 6:
		return 3
	case n <= 10:
		return 4
	default:
		return 5
	}
}

// hangulBiasFor returns the probability a syllable uses the Hangul
// inventory.
func hangulBiasFor(pos PartOfSpeech) float64 {
	switch pos {
	case POSNoun:
		return 0.85
	case POSVerb:
		return 0.15
	default:
		return 0.70
	}
}

// GenerateWord synthesizes one Zyntalic word keyed by semanticSeed.
//
// # Description
//
// Allocates a fresh generator from the seed, draws each syllable (script
// choice, onset, nucleus, coda) under the phonotactic tables, optionally
// appends one Polish marker to an interior syllable, and finishes with
// the ordered sound-change pass. Same seed + same options ⇒ same word.
func GenerateWord(semanticSeed string, opts Options) string {
	g := seed.New("phon:" + semanticSeed)
	return SynthesizeWord(g, semanticSeed, opts)
}

// SynthesizeWord is GenerateWord with a caller-supplied generator, for
// callers that thread one generator through a larger composition.
func SynthesizeWord(g *seed.Generator, semanticSeed string, opts Options) string {
	count := opts.Syllables
	if count <= 0 {
		count = SyllableCountFor(semanticSeed)
	}
	bias := hangulBiasFor(opts.POS)

	syllables := make([]string, 0, count)
	for i := 0; i < count; i++ {
		if g.Chance(bias) {
			syllables = append(syllables, CreateHangulSyllable(g))
		} else {
			syllables = append(syllables, createLatinSyllable(g))
		}
	}

	// One Polish marker, 20% of the time, on an interior syllable.
	if len(syllables) > 1 && g.Chance(0.2) {
		marker := seed.Pick(g, polishMarkers)
		pos := 1 + g.Intn(len(syllables)-1)
		syllables[pos] += marker
	}

	return ApplySoundChanges(strings.Join(syllables, ""))
}

// BuildSyllable draws one structural Latin-script syllable from the
// generator, retrying cluster extensions that the phonotactic tables
// reject rather than emitting them.
func BuildSyllable(g *seed.Generator, script Script) Syllable {
	inv := InventoryFor(script)
	cons := inv.Consonants()
	vowels := inv.Vowels()

	var s Syllable
	if g.Chance(0.8) {
		s.Onset = append(s.Onset, seed.Pick(g, cons).Symbol)
		// Second onset consonant only when the pair is a valid cluster.
		if g.Chance(0.2) {
			second := seed.Pick(g, cons).Symbol
			if ValidOnset([]string{s.Onset[0], second}) {
				s.Onset = append(s.Onset, second)
			}
		}
	}

	s.Nucleus = seed.Pick(g, vowels).Symbol

	if g.Chance(0.4) {
		coda := seed.Pick(g, inv.Codas())
		if ValidCoda([]string{coda}) {
			s.Coda = append(s.Coda, coda)
		}
	}
	return s
}

// createLatinSyllable draws one Latin-script syllable as a string.
func createLatinSyllable(g *seed.Generator) string {
	return BuildSyllable(g, ScriptLatin).String()
}
