// Copyright (C) 2026 Zyntalic Project (dev@zyntalic.org)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding attribution requirements.

package morphology

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyRoot is returned when a caller asks to inflect an empty
	// root. This is a usage error, never silently substituted.
	ErrEmptyRoot = errors.New("morphology: empty root")

	// ErrUnknownDerivation is returned for derivation types outside the
	// closed enumeration.
	ErrUnknownDerivation = errors.New("morphology: unknown derivation type")

	// ErrUnknownFeature is returned for enum values outside their closed
	// sets.
	ErrUnknownFeature = errors.New("morphology: unknown feature value")
)

// InflectedWord is a fully inflected word: the root, the features that
// were applied, the surface form, and a reconstructible gloss listing
// the root followed by each applied feature's short code in application
// order. Immutable once returned.
type InflectedWord struct {
	Root    string
	Bundle  MorphemeBundle
	Surface string
	Gloss   string
	POS     string
}

// InflectNoun inflects a noun root with number and case, in that suffix
// order. Zero-marked features (singular, nominative) add nothing to the
// surface or the gloss.
func InflectNoun(root string, c Case, n Number) (InflectedWord, error) {
	if root == "" {
		return InflectedWord{}, ErrEmptyRoot
	}
	caseSuffix, ok := caseSuffixes[c]
	if !ok {
		return InflectedWord{}, fmt.Errorf("%w: case %q", ErrUnknownFeature, c)
	}
	numberSuffix, ok := numberSuffixes[n]
	if !ok {
		return InflectedWord{}, fmt.Errorf("%w: number %q", ErrUnknownFeature, n)
	}

	h := HarmonyOf(root)
	surface := root
	gloss := []string{root}

	if n != Singular {
		surface += numberSuffix.forHarmony(h)
		gloss = append(gloss, string(n))
	}
	if c != Nominative {
		surface += caseSuffix.forHarmony(h)
		gloss = append(gloss, string(c))
	}

	return InflectedWord{
		Root:    root,
		Bundle:  MorphemeBundle{Case: c, Number: n},
		Surface: surface,
		Gloss:   strings.Join(gloss, "-"),
		POS:     "noun",
	}, nil
}

// InflectVerb inflects a verb root with aspect, tense, and optional
// evidentiality, in that suffix order. Evidentiality is skipped when
// empty.
func InflectVerb(root string, t Tense, a Aspect, e Evidentiality) (InflectedWord, error) {
	if root == "" {
		return InflectedWord{}, ErrEmptyRoot
	}
	tenseSuffix, ok := tenseSuffixes[t]
	if !ok {
		return InflectedWord{}, fmt.Errorf("%w: tense %q", ErrUnknownFeature, t)
	}
	aspectSuffix, ok := aspectSuffixes[a]
	if !ok {
		return InflectedWord{}, fmt.Errorf("%w: aspect %q", ErrUnknownFeature, a)
	}

	h := HarmonyOf(root)
	surface := root + aspectSuffix.forHarmony(h) + tenseSuffix.forHarmony(h)
	gloss := []string{root, string(a), string(t)}

	if e != "" {
		evidSuffix, ok := evidentialitySuffixes[e]
		if !ok {
			return InflectedWord{}, fmt.Errorf("%w: evidentiality %q", ErrUnknownFeature, e)
		}
		surface += evidSuffix.forHarmony(h)
		gloss = append(gloss, string(e))
	}

	return InflectedWord{
		Root:    root,
		Bundle:  MorphemeBundle{Tense: t, Aspect: a, Evidentiality: e},
		Surface: surface,
		Gloss:   strings.Join(gloss, "-"),
		POS:     "verb",
	}, nil
}

// Derive applies a derivational suffix to form a new word. Agent,
// instrument, abstract, and verbal-noun derivations produce nouns;
// the rest keep the caller's part of speech.
func Derive(root string, d Derivation, pos string) (InflectedWord, error) {
	if root == "" {
		return InflectedWord{}, ErrEmptyRoot
	}
	pair, ok := derivationSuffixes[d]
	if !ok {
		return InflectedWord{}, fmt.Errorf("%w: %q", ErrUnknownDerivation, d)
	}

	newPOS := pos
	switch d {
	case Agent, Instrument, Abstract, VerbalNoun:
		newPOS = "noun"
	}

	h := HarmonyOf(root)
	return InflectedWord{
		Root:    root,
		Bundle:  MorphemeBundle{Derivations: []Derivation{d}},
		Surface: root + pair.forHarmony(h),
		Gloss:   root + "-" + string(d),
		POS:     newPOS,
	}, nil
}

// AssimilateBoundary applies morpheme-boundary adjustments to a joined
// surface form: cluster simplification at suffix seams, hiatus
// resolution, and Polish-style palatalization.
func AssimilateBoundary(word string) string {
	// sz+ć, ś+ć, s+ć collapse the affricate.
	for _, sib := range []string{"sz", "ś", "s"} {
		word = strings.ReplaceAll(word, sib+"ć", sib)
	}
	// l/n absorb a following ł.
	word = strings.ReplaceAll(word, "lł", "l")
	word = strings.ReplaceAll(word, "nł", "n")
	// Doubled vowels collapse.
	for _, v := range []string{"aa", "ee", "ii", "oo", "uu"} {
		word = strings.ReplaceAll(word, v, v[:1])
	}
	// t/d palatalize before front vowels.
	word = replacePalatal(word, 't', "ć")
	word = replacePalatal(word, 'd', "dź")
	return word
}

func replacePalatal(word string, c rune, repl string) string {
	var b strings.Builder
	runes := []rune(word)
	for i := 0; i < len(runes); i++ {
		if runes[i] == c && i+1 < len(runes) && (runes[i+1] == 'e' || runes[i+1] == 'i') {
			b.WriteString(repl)
			continue
		}
		b.WriteRune(runes[i])
	}
	return b.String()
}
