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

// SyllableType classifies a syllable's shape.
type SyllableType string

const (
	TypeV    SyllableType = "V"
	TypeVC   SyllableType = "VC"
	TypeCV   SyllableType = "CV"
	TypeCVC  SyllableType = "CVC"
	TypeCCV  SyllableType = "CCV"
	TypeCCVC SyllableType = "CCVC"
)

// Syllable is one phonological syllable: 0-2 onset consonants, exactly
// one nucleus vowel, and 0-1 coda consonants. The nucleus is never empty
// in a valid syllable.
type Syllable struct {
	Onset   []string
	Nucleus string
	Coda    []string
}

// Type returns the syllable's structural classification.
func (s Syllable) Type() SyllableType {
	hasOnset := len(s.Onset) > 0
	hasCoda := len(s.Coda) > 0
	complexOnset := len(s.Onset) > 1
	switch {
	case !hasOnset && !hasCoda:
		return TypeV
	case !hasOnset:
		return TypeVC
	case !hasCoda && complexOnset:
		return TypeCCV
	case !hasCoda:
		return TypeCV
	case complexOnset:
		return TypeCCVC
	default:
		return TypeCVC
	}
}

// String renders the syllable's surface string.
func (s Syllable) String() string {
	return strings.Join(s.Onset, "") + s.Nucleus + strings.Join(s.Coda, "")
}

// validOnsets is the closed set of permitted two-consonant onsets.
// Single-consonant onsets are always permitted.
var validOnsets = map[[2]string]struct{}{
	// Polish-style clusters
	{"s", "p"}: {}, {"s", "t"}: {}, {"s", "k"}: {}, {"ś", "p"}: {}, {"ś", "t"}: {},
	{"sz", "p"}: {}, {"sz", "t"}: {}, {"sz", "k"}: {}, {"sz", "ć"}: {},
	{"p", "r"}: {}, {"b", "r"}: {}, {"t", "r"}: {}, {"d", "r"}: {}, {"k", "r"}: {}, {"g", "r"}: {},
	{"p", "ł"}: {}, {"b", "ł"}: {}, {"k", "ł"}: {}, {"g", "ł"}: {},
	{"f", "r"}: {}, {"ch", "r"}: {},
	// Hangul-style (simplified)
	{"ᄀ", "ᄅ"}: {}, {"ᄇ", "ᄅ"}: {}, {"ᄃ", "ᄅ"}: {},
}

// validCodaClusters is the closed set of permitted two-consonant codas.
// Single-consonant codas from the script inventories are always permitted.
var validCodaClusters = map[[2]string]struct{}{
	{"n", "t"}: {}, {"m", "p"}: {}, {"ŋ", "k"}: {}, {"l", "t"}: {},
}

// singleCodas is the set of permitted single-consonant codas across both
// scripts.
var singleCodas = func() map[string]struct{} {
	set := make(map[string]struct{})
	for _, c := range latinCodaOrder {
		set[c] = struct{}{}
	}
	set["ŋ"] = struct{}{}
	for _, c := range hangulCodaOrder {
		set[c] = struct{}{}
	}
	return set
}()

// ValidOnset reports whether an onset cluster is permitted.
func ValidOnset(onset []string) bool {
	switch len(onset) {
	case 0, 1:
		return true
	case 2:
		_, ok := validOnsets[[2]string{onset[0], onset[1]}]
		return ok
	default:
		return false
	}
}

// ValidCoda reports whether a coda cluster is permitted.
func ValidCoda(coda []string) bool {
	switch len(coda) {
	case 0:
		return true
	case 1:
		_, ok := singleCodas[coda[0]]
		return ok
	case 2:
		_, ok := validCodaClusters[[2]string{coda[0], coda[1]}]
		return ok
	default:
		return false
	}
}

// Valid reports whether the syllable satisfies the phonotactic
// constraints: non-empty nucleus, permitted onset and coda clusters.
func (s Syllable) Valid() bool {
	if s.Nucleus == "" {
		return false
	}
	return ValidOnset(s.Onset) && ValidCoda(s.Coda)
}
