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

import "strings"

// Harmony is a root's vowel-harmony class.
type Harmony string

const (
	Front Harmony = "front"
	Back  Harmony = "back"
)

// The two vowel classes are fixed disjoint sets over both scripts.
var (
	frontVowels = runeSet("ᅡᅢᅣᅤᅦᅧᅨ" + "eéiíöőüű")
	backVowels  = runeSet("ᅥᅩᅪᅫᅬᅭᅮᅯᅰᅱᅲᅳᅴᅵ" + "aáoóuú")
)

func runeSet(s string) map[rune]struct{} {
	set := make(map[rune]struct{}, len(s))
	for _, r := range s {
		set[r] = struct{}{}
	}
	return set
}

// HarmonyOf classifies a root by majority vote over its vowels. Ties and
// vowel-less roots default to back. Precomposed Hangul blocks count via
// their medial vowel jamo.
func HarmonyOf(root string) Harmony {
	var front, back int
	for _, r := range strings.ToLower(root) {
		r = medialVowel(r)
		if _, ok := frontVowels[r]; ok {
			front++
		} else if _, ok := backVowels[r]; ok {
			back++
		}
	}
	if front > back {
		return Front
	}
	return Back
}

// medialVowel maps a precomposed Hangul block to its vowel jamo;
// other runes pass through.
func medialVowel(r rune) rune {
	if r < 0xAC00 || r > 0xD7A3 {
		return r
	}
	jung := (int(r-0xAC00) / 28) % 21
	return rune(0x1161 + jung)
}
