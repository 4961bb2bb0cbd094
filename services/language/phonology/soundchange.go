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
	"regexp"
	"strings"
)

// Ordered sound-change rules. ApplySoundChanges runs them in exactly this
// order; reordering would change every synthesized surface form.

var (
	devoiceBeforeVoiceless = regexp.MustCompile(`[bdg]([ptk])`)
	voiceBeforeVoiced      = regexp.MustCompile(`[ptk]([bdg])`)
	nasalBeforeLabial      = regexp.MustCompile(`n([pk])`)
	nasalBeforeVelar       = regexp.MustCompile(`n([kg])`)
	tripleClusterMiddle    = regexp.MustCompile(`([ptk])[sz]([ptk])`)
	epentheticContext      = regexp.MustCompile(`([sz])([ptk])([^aeiouąę])`)
)

// ApplySoundChanges applies the ordered rule list to an assembled word:
// voicing assimilation, nasal place assimilation, sibilant harmony,
// vowel-hiatus collapse, cluster simplification, then epenthesis.
//
// The rules are deterministic string rewrites. Re-applying the function
// to its own output is a no-op once no rule's precondition holds.
func ApplySoundChanges(word string) string {
	word = voiceAssimilation(word)
	word = nasalAssimilation(word)
	word = sibilantHarmony(word)
	word = vowelHiatusCollapse(word)
	word = clusterSimplification(word)
	word = epenthesis(word)
	return word
}

// voiceAssimilation devoices obstruents before voiceless stops and
// voices them before voiced stops.
func voiceAssimilation(word string) string {
	word = devoiceBeforeVoiceless.ReplaceAllString(word, "p$1")
	word = voiceBeforeVoiced.ReplaceAllString(word, "b$1")
	return word
}

// nasalAssimilation assimilates n to the place of a following consonant.
func nasalAssimilation(word string) string {
	word = nasalBeforeLabial.ReplaceAllString(word, "m$1")
	word = nasalBeforeVelar.ReplaceAllString(word, "ŋ$1")
	return word
}

// sibilantHarmony propagates retroflex sibilants through the word: once
// sz or ż appears, plain s and z harmonize to match.
func sibilantHarmony(word string) string {
	if !strings.Contains(word, "sz") && !strings.Contains(word, "ż") {
		return word
	}
	// Replace bare s (not already part of sz) and z (not part of sz/dz).
	var b strings.Builder
	runes := []rune(word)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch r {
		case 's':
			if i+1 < len(runes) && runes[i+1] == 'z' {
				b.WriteString("sz")
				i++
				continue
			}
			b.WriteString("sz")
		case 'z':
			if i > 0 && (runes[i-1] == 's' || runes[i-1] == 'd') {
				b.WriteRune(r)
				continue
			}
			b.WriteRune('ż')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// vowelHiatusCollapse drops a vowel wedged between two identical Latin
// consonants, collapsing C-V-C echoes into a geminate.
func vowelHiatusCollapse(word string) string {
	runes := []rune(word)
	var out []rune
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if i+2 < len(runes) && isLatinConsonantRune(r) && isLatinVowelRune(runes[i+1]) && runes[i+2] == r {
			out = append(out, r, r)
			i += 2
			continue
		}
		out = append(out, r)
	}
	return string(out)
}

// clusterSimplification removes the sibilant from stop-sibilant-stop
// clusters.
func clusterSimplification(word string) string {
	return tripleClusterMiddle.ReplaceAllString(word, "$1$2")
}

// epenthesis inserts e between a sibilant and a stop when another
// consonant follows, breaking up an illegal three-consonant run.
func epenthesis(word string) string {
	return epentheticContext.ReplaceAllString(word, "${1}e${2}${3}")
}

func isLatinVowelRune(r rune) bool {
	return strings.ContainsRune("aeiouąęóy", r)
}

func isLatinConsonantRune(r rune) bool {
	return strings.ContainsRune("bcdfghjklmnpqrstvwxz", r)
}
