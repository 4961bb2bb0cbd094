// Copyright (C) 2026 Zyntalic Project (dev@zyntalic.org)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding attribution requirements.

// Package morphology inflects Zyntalic roots with an agglutinative
// suffix system under Hungarian-style vowel harmony.
//
// Every suffix has exactly one front-harmony and one back-harmony
// allomorph, selected by the root's vowel class. Suffixes concatenate in
// a fixed order: stem → derivation → number → case for nouns, stem →
// aspect → tense → evidentiality for verbs. All category enumerations
// are closed; unknown values are usage errors.
package morphology

// Case marks a noun's grammatical role. The nominative is zero-marked.
type Case string

const (
	Nominative   Case = "nom"
	Accusative   Case = "acc"
	Genitive     Case = "gen"
	Dative       Case = "dat"
	Locative     Case = "loc"
	Instrumental Case = "ins"
)

// Number marks grammatical number. The singular is zero-marked.
type Number string

const (
	Singular   Number = "sg"
	Plural     Number = "pl"
	Collective Number = "col" // group treated as a unit
)

// Tense marks a verb's time reference.
type Tense string

const (
	Past    Tense = "pst"
	Present Tense = "prs"
	Future  Tense = "fut"
	Gnomic  Tense = "gnom" // timeless truths
)

// Aspect marks a verb's internal temporal structure.
type Aspect string

const (
	Perfective   Aspect = "pfv"
	Imperfective Aspect = "ipfv"
	Iterative    Aspect = "iter"
)

// Evidentiality marks the speaker's source of information.
type Evidentiality string

const (
	Direct      Evidentiality = "dir"
	Hearsay     Evidentiality = "hear"
	Inferential Evidentiality = "inf"
	Assumptive  Evidentiality = "assm"
)

// Derivation names a word-formation process.
type Derivation string

const (
	Agent        Derivation = "agent"
	Instrument   Derivation = "instrument"
	Abstract     Derivation = "abstract"
	Diminutive   Derivation = "diminutive"
	Augmentative Derivation = "augmentative"
	VerbalNoun   Derivation = "verbal_noun"
)

// MorphemeBundle is the feature set applied to a root. Unset fields mean
// the feature is absent or zero-marked.
type MorphemeBundle struct {
	Case          Case
	Number        Number
	Tense         Tense
	Aspect        Aspect
	Evidentiality Evidentiality
	Derivations   []Derivation
}

// suffixPair holds the two harmony allomorphs of one suffix.
type suffixPair struct {
	front string
	back  string
}

func (p suffixPair) forHarmony(h Harmony) string {
	if h == Front {
		return p.front
	}
	return p.back
}

var caseSuffixes = map[Case]suffixPair{
	Nominative:   {"", ""}, // zero marking
	Accusative:   {"-eł", "-oł"},
	Genitive:     {"-nek", "-nok"},
	Dative:       {"-re", "-ra"},
	Locative:     {"-ben", "-ban"},
	Instrumental: {"-vel", "-val"},
}

var numberSuffixes = map[Number]suffixPair{
	Singular:   {"", ""},
	Plural:     {"-ek", "-ok"},
	Collective: {"-ség", "-ság"},
}

var aspectSuffixes = map[Aspect]suffixPair{
	Perfective:   {"-meł", "-moł"},
	Imperfective: {"-ísz", "-ász"},
	Iterative:    {"-géł", "-gáł"},
}

var evidentialitySuffixes = map[Evidentiality]suffixPair{
	Direct:      {"-déł", "-dáł"},
	Hearsay:     {"-kéł", "-káł"},
	Inferential: {"-téł", "-táł"},
	Assumptive:  {"-véł", "-váł"},
}

var tenseSuffixes = map[Tense]suffixPair{
	Past:    {"-eć", "-ać"},
	Present: {"-esz", "-asz"},
	Future:  {"-ész", "-ász"},
	Gnomic:  {"-ím", "-ám"},
}

var derivationSuffixes = map[Derivation]suffixPair{
	Agent:        {"-ész", "-ász"},
	Instrument:   {"-ény", "-ány"},
	Abstract:     {"-ség", "-ság"},
	Diminutive:   {"-ka", "-ko"},
	Augmentative: {"-úł", "-úł"},
	VerbalNoun:   {"-ésí", "-ásí"},
}
