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

import "github.com/zyntalic/zyntalic/services/language/seed"

// Jamo tables for precomposed Hangul block composition. Index order
// matches the Unicode syllable composition formula.
var (
	choseong = []rune{
		'ᄀ', 'ᄁ', 'ᄂ', 'ᄃ', 'ᄄ', 'ᄅ', 'ᄆ', 'ᄇ', 'ᄈ', 'ᄉ',
		'ᄊ', 'ᄋ', 'ᄌ', 'ᄍ', 'ᄎ', 'ᄏ', 'ᄐ', 'ᄑ', 'ᄒ',
	}
	jungseong = []rune{
		'ᅡ', 'ᅢ', 'ᅣ', 'ᅤ', 'ᅥ', 'ᅦ', 'ᅧ', 'ᅨ', 'ᅩ', 'ᅪ',
		'ᅫ', 'ᅬ', 'ᅭ', 'ᅮ', 'ᅯ', 'ᅰ', 'ᅱ', 'ᅲ', 'ᅳ', 'ᅴ', 'ᅵ',
	}
	// Index 0 is "no final consonant".
	jongseong = []rune{
		0, 'ᆨ', 'ᆩ', 'ᆪ', 'ᆫ', 'ᆬ', 'ᆭ', 'ᆮ', 'ᆯ', 'ᆰ',
		'ᆱ', 'ᆲ', 'ᆳ', 'ᆴ', 'ᆵ', 'ᆶ', 'ᆷ', 'ᆸ', 'ᆹ', 'ᆺ',
		'ᆻ', 'ᆼ', 'ᆽ', 'ᆾ', 'ᆿ', 'ᇀ', 'ᇁ', 'ᇂ',
	}
)

const hangulBase = 0xAC00

// ComposeHangulBlock combines jamo indices into a single precomposed
// Hangul syllable rune: base + (cho*21 + jung)*28 + jong.
func ComposeHangulBlock(cho, jung, jong int) rune {
	return rune(hangulBase + (cho*21+jung)*28 + jong)
}

// DecomposeHangulBlock splits a precomposed syllable back into jamo
// indices. The second return is false for runes outside the Hangul
// syllable range.
func DecomposeHangulBlock(r rune) (cho, jung, jong int, ok bool) {
	if r < hangulBase || r > 0xD7A3 {
		return 0, 0, 0, false
	}
	n := int(r - hangulBase)
	return n / (21 * 28), (n / 28) % 21, n % 28, true
}

// CreateHangulSyllable draws one precomposed Hangul block from the
// generator. Codas appear with 40% probability.
func CreateHangulSyllable(g *seed.Generator) string {
	cho := g.Intn(len(choseong))
	jung := g.Intn(len(jungseong))
	jong := 0
	if g.Chance(0.4) {
		jong = 1 + g.Intn(len(jongseong)-1)
	}
	return string(ComposeHangulBlock(cho, jung, jong))
}
