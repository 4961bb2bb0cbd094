// Copyright (C) 2026 Zyntalic Project (dev@zyntalic.org)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding attribution requirements.

// Package syntax parses source-language sentences into
// subject/object/verb/context groups and linearizes them into the
// mandatory Zyntalic S-O-V-C order.
//
// This is not a full parser. It is a stable heuristic over closed word
// lists: a state machine walks the token array once, the marker and
// verb sets are data, and every input deterministically yields some
// parse — sentences with no recognizable verb fall back to the token
// midpoint rather than failing.
package syntax

import (
	"strings"
	"unicode"
)

// Tense is the inferred time reference of a sentence.
type Tense string

const (
	Past    Tense = "past"
	Present Tense = "present"
	Future  Tense = "future"
)

// ContextClause is one context phrase keyed by its introducing marker.
type ContextClause struct {
	Marker  string
	Type    ContextType
	Content string
}

// ParsedSentence is the structural analysis of one source sentence.
// Produced once per sentence, consumed to build the S-O-V-C surface
// form, never persisted between sentences.
type ParsedSentence struct {
	Subject    string
	Verb       string
	Object     string
	Contexts   []ContextClause
	Tense      Tense
	SubjPlural bool
	ObjPlural  bool
}

// parseState names the positions of the token walk.
type parseState int

const (
	stateInSubject parseState = iota
	stateInObject
	stateInContext
)

// Tokenize splits text on word boundaries, preserving apostrophes and
// hyphens inside words.
func Tokenize(text string) []string {
	var out []string
	var buf strings.Builder
	for _, r := range strings.TrimSpace(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' || r == '’' || r == '-' {
			buf.WriteRune(r)
			continue
		}
		if buf.Len() > 0 {
			out = append(out, buf.String())
			buf.Reset()
		}
	}
	if buf.Len() > 0 {
		out = append(out, buf.String())
	}
	return out
}

// FindVerb locates the main verb index: an auxiliary "will" followed by
// another token wins; else the first token in the closed verb list or
// carrying verbal morphology (-ed, -ing, 3sg -s); else the token
// midpoint. Never fails.
func FindVerb(tokens []string) int {
	low := lowered(tokens)

	for i, t := range low {
		if t == "will" && i+1 < len(low) {
			return i + 1
		}
	}

	for i, t := range low {
		if _, ok := commonVerbs[t]; ok {
			return i
		}
		if len(t) > 3 && (strings.HasSuffix(t, "ed") || strings.HasSuffix(t, "ing")) {
			return i
		}
		if len(t) > 3 && strings.HasSuffix(t, "s") {
			if _, ok := commonVerbs[t[:len(t)-1]]; ok {
				return i
			}
		}
	}

	mid := len(tokens) / 2
	if mid >= len(tokens) {
		mid = len(tokens) - 1
	}
	if mid < 0 {
		mid = 0
	}
	return mid
}

// GuessTense infers tense: a "will" before or at the verb means future;
// past morphology or a past auxiliary means past; else present.
func GuessTense(tokens []string, verbIdx int) Tense {
	low := lowered(tokens)
	for i := 0; i <= verbIdx && i < len(low); i++ {
		if low[i] == "will" {
			return Future
		}
	}
	if verbIdx >= 0 && verbIdx < len(low) {
		v := low[verbIdx]
		if strings.HasSuffix(v, "ed") || v == "was" || v == "were" || v == "had" || v == "did" {
			return Past
		}
	}
	return Present
}

// GuessPlural reports whether a phrase's head noun looks plural: a
// trailing s that is not ss, us, or is.
func GuessPlural(phrase string) bool {
	fields := strings.Fields(strings.TrimSpace(phrase))
	if len(fields) == 0 {
		return false
	}
	last := strings.ToLower(fields[len(fields)-1])
	if !strings.HasSuffix(last, "s") {
		return false
	}
	for _, suf := range []string{"ss", "us", "is"} {
		if strings.HasSuffix(last, suf) {
			return false
		}
	}
	return true
}

// Parse analyzes one sentence into S/V/O/context groups.
//
// # Description
//
// Locates the main verb, then walks the token array through three
// states: InSubject before the verb (context markers there are simply
// skipped), InObject after the verb until the first context marker, and
// InContext from that marker on, opening a new clause at each further
// marker. Empty input parses to the zero ParsedSentence; callers filter
// empty sentences upstream.
func Parse(text string) ParsedSentence {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return ParsedSentence{Tense: Present}
	}

	verbIdx := FindVerb(tokens)
	tense := GuessTense(tokens, verbIdx)

	var subject, object []string
	var contexts []ContextClause
	state := stateInSubject

	for i, tok := range tokens {
		low := strings.ToLower(tok)

		if i == verbIdx {
			state = stateInObject
			continue
		}

		switch state {
		case stateInSubject:
			// Context markers before the verb are excluded from the
			// subject phrase.
			if !IsContextMarker(low) {
				subject = append(subject, tok)
			}
		case stateInObject:
			if IsContextMarker(low) {
				state = stateInContext
				contexts = append(contexts, ContextClause{Marker: low, Type: ClassifyMarker(low)})
				continue
			}
			object = append(object, tok)
		case stateInContext:
			if IsContextMarker(low) {
				contexts = append(contexts, ContextClause{Marker: low, Type: ClassifyMarker(low)})
				continue
			}
			last := &contexts[len(contexts)-1]
			if last.Content == "" {
				last.Content = tok
			} else {
				last.Content += " " + tok
			}
		}
	}

	subj := strings.Join(subject, " ")
	obj := strings.Join(object, " ")
	return ParsedSentence{
		Subject:    subj,
		Verb:       tokens[verbIdx],
		Object:     obj,
		Contexts:   contexts,
		Tense:      tense,
		SubjPlural: GuessPlural(subj),
		ObjPlural:  GuessPlural(obj),
	}
}

func lowered(tokens []string) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = strings.ToLower(t)
	}
	return out
}
