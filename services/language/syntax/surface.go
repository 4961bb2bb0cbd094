// Copyright (C) 2026 Zyntalic Project (dev@zyntalic.org)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding attribution requirements.

package syntax

import (
	"fmt"
	"strings"
)

// Vowel-harmony proxy for the target plural suffix.
const (
	backVowels  = "aáoóuú"
	frontVowels = "eéiíöőüű"
)

// Pluralize appends the harmony-selected target plural suffix (-ok back,
// -ek front) to a noun. Already-marked and empty nouns pass through.
func Pluralize(noun string) string {
	noun = strings.TrimSpace(noun)
	if noun == "" {
		return noun
	}
	if strings.HasSuffix(noun, "ur") { // already "beyond many"
		return noun
	}
	return noun + "-" + pluralSuffix(noun)
}

func pluralSuffix(word string) string {
	w := strings.ToLower(word)
	runes := []rune(w)
	for i := len(runes) - 1; i >= 0; i-- {
		r := runes[i]
		if strings.ContainsRune(backVowels, r) {
			return "ok"
		}
		if strings.ContainsRune(frontVowels, r) {
			return "ek"
		}
	}
	return "ek"
}

// MarkTense marks a verb surface for tense: past appends é, future
// prefixes va-, present is unmarked.
func MarkTense(verb string, tense Tense) string {
	verb = strings.TrimSpace(verb)
	if verb == "" {
		return verb
	}
	switch tense {
	case Past:
		return verb + "é"
	case Future:
		return "va-" + verb
	default:
		return verb
	}
}

// Tail delimiters for the structured context block.
const (
	TailOpen  = "⟦"
	TailClose = "⟧"
)

// RenderTail builds the delimiter-bounded context tail appended to
// every rendered sentence: semicolon-separated key=value pairs carrying
// the synthesized tail token, the verb lemma, the argument count, and
// the clause class.
func RenderTail(hanTail, verb string, args int, clauseType string) string {
	return fmt.Sprintf("%sctx:han=%s; verb=%s; args=%d; type=%s%s",
		TailOpen, hanTail, verb, args, clauseType, TailClose)
}

// HasTail reports whether a rendered sentence contains exactly one
// well-formed context tail.
func HasTail(rendered string) bool {
	return strings.Count(rendered, TailOpen) == 1 &&
		strings.Count(rendered, TailClose) == 1 &&
		strings.Index(rendered, TailOpen) < strings.Index(rendered, TailClose) &&
		strings.Contains(rendered, TailOpen+"ctx:")
}
