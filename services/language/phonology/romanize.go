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

import "strings"

// Romanize transliterates Zyntalic text to a Latin rendering.
//
// Pure character-by-character substitution: Hangul jamo map through the
// inventory tables, precomposed Hangul blocks are decomposed first, and
// unmapped runes pass through unchanged.
func Romanize(text string) string {
	var b strings.Builder
	for _, r := range text {
		if cho, jung, jong, ok := DecomposeHangulBlock(r); ok {
			b.WriteString(hangulConsonantIPA[string(choseong[cho])])
			b.WriteString(hangulVowelIPA[string(jungseong[jung])])
			if jong > 0 {
				b.WriteString(hangulCodaIPA[string(jongseong[jong])])
			}
			continue
		}
		s := string(r)
		switch {
		case hangulConsonantIPA[s] != "":
			b.WriteString(hangulConsonantIPA[s])
		case hangulVowelIPA[s] != "":
			b.WriteString(hangulVowelIPA[s])
		case hangulCodaIPA[s] != "":
			b.WriteString(hangulCodaIPA[s])
		default:
			b.WriteString(s)
		}
	}
	return b.String()
}
