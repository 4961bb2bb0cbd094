// Copyright (C) 2026 Zyntalic Project (dev@zyntalic.org)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding attribution requirements.

// Package phonology synthesizes phonotactically valid Zyntalic words from
// two parallel phoneme inventories, a Hangul-style one and a Polish-style
// Latin one.
//
// The inventories, the valid-cluster tables, and the ordered sound-change
// rules are fixed data loaded once at process start. All randomness comes
// from an explicit seed.Generator threaded through the synthesis calls, so
// the same seed and parameters always produce the same word.
package phonology

// Script tags the writing system a phoneme belongs to.
type Script string

const (
	ScriptHangul Script = "hangul"
	ScriptLatin  Script = "latin"
)

// Phoneme is a symbol with its IPA value and articulatory features.
// Phonemes are immutable members of the two static inventories.
type Phoneme struct {
	Symbol string
	IPA    string
	Script Script
	Manner string // stop, fricative, nasal, liquid, affricate, vowel
	Place  string // bilabial, labiodental, alveolar, postalveolar, velar
	Voiced bool
}

// The inventories are declared as ordered symbol lists plus symbol→IPA
// maps. The lists fix the draw order for word synthesis; Go map iteration
// order would not be reproducible.

var hangulConsonantOrder = []string{
	"ᄀ", "ᄁ", "ᄃ", "ᄄ", "ᄇ", "ᄈ",
	"ᄉ", "ᄊ", "ᄒ",
	"ᄂ", "ᄆ", "ᄋ",
	"ᄅ",
	"ᄌ", "ᄍ", "ᄎ",
	"ᄏ", "ᄐ", "ᄑ",
}

var hangulConsonantIPA = map[string]string{
	"ᄀ": "k", "ᄁ": "kʰ", "ᄃ": "t", "ᄄ": "tʰ", "ᄇ": "p", "ᄈ": "pʰ",
	"ᄉ": "s", "ᄊ": "sʰ", "ᄒ": "h",
	"ᄂ": "n", "ᄆ": "m", "ᄋ": "ŋ",
	"ᄅ": "l",
	"ᄌ": "ʧ", "ᄍ": "ʧʰ", "ᄎ": "ʧʰ",
	"ᄏ": "kʰ", "ᄐ": "tʰ", "ᄑ": "pʰ",
}

var latinConsonantOrder = []string{
	"p", "b", "t", "d", "k", "g",
	"f", "v", "s", "z", "ś", "ź", "sz", "ż", "h", "ch",
	"m", "n", "ń",
	"l", "ł", "r",
	"c", "dz", "ć", "dź", "cz", "dż",
}

var latinConsonantIPA = map[string]string{
	"p": "p", "b": "b", "t": "t", "d": "d", "k": "k", "g": "g",
	"f": "f", "v": "v", "s": "s", "z": "z", "ś": "ɕ", "ź": "ʑ",
	"sz": "ʃ", "ż": "ʒ", "h": "x", "ch": "x",
	"m": "m", "n": "n", "ń": "ɲ",
	"l": "l", "ł": "w", "r": "r",
	"c": "ʦ", "dz": "ʣ", "ć": "ʧ", "dź": "ʤ", "cz": "ʧ", "dż": "ʤ",
}

var hangulVowelOrder = []string{
	"ᅡ", "ᅢ", "ᅣ", "ᅤ", "ᅥ", "ᅦ", "ᅧ", "ᅨ",
	"ᅩ", "ᅪ", "ᅫ", "ᅬ", "ᅭ", "ᅮ", "ᅯ", "ᅰ",
	"ᅱ", "ᅲ", "ᅳ", "ᅴ", "ᅵ",
}

var hangulVowelIPA = map[string]string{
	"ᅡ": "a", "ᅢ": "ɛ", "ᅣ": "ja", "ᅤ": "jɛ",
	"ᅥ": "ʌ", "ᅦ": "e", "ᅧ": "jʌ", "ᅨ": "je",
	"ᅩ": "o", "ᅪ": "wa", "ᅫ": "wɛ", "ᅬ": "we",
	"ᅭ": "jo", "ᅮ": "u", "ᅯ": "wʌ", "ᅰ": "we",
	"ᅱ": "wi", "ᅲ": "ju", "ᅳ": "ɯ", "ᅴ": "ɯi",
	"ᅵ": "i",
}

var latinVowelOrder = []string{"a", "ą", "e", "ę", "i", "o", "ó", "u", "y"}

var latinVowelIPA = map[string]string{
	"a": "a", "ą": "ã", "e": "e", "ę": "ẽ",
	"i": "i", "o": "o", "ó": "u", "u": "u",
	"y": "ɨ",
}

// Final (coda) jamo with their romanized values.
var hangulCodaOrder = []string{"ᆨ", "ᆫ", "ᆮ", "ᆯ", "ᆷ", "ᆸ", "ᆺ", "ᆼ"}

var hangulCodaIPA = map[string]string{
	"ᆨ": "k", "ᆩ": "k", "ᆪ": "k", "ᆫ": "n",
	"ᆬ": "n", "ᆭ": "n", "ᆮ": "t", "ᆯ": "l",
	"ᆰ": "l", "ᆱ": "l", "ᆲ": "l", "ᆳ": "l",
	"ᆴ": "l", "ᆵ": "l", "ᆶ": "l", "ᆷ": "m",
	"ᆸ": "p", "ᆹ": "p", "ᆺ": "t", "ᆻ": "t",
	"ᆼ": "ŋ", "ᆽ": "t", "ᆾ": "t", "ᆿ": "k",
	"ᇀ": "k", "ᇁ": "ŋ", "ᇂ": "t",
}

var latinCodaOrder = []string{"n", "m", "l", "r", "t", "k", "p"}

// mannerOf classifies a consonant by its IPA value.
func mannerOf(ipa string) string {
	switch {
	case oneOf(ipa, "p", "t", "k", "b", "d", "g"):
		return "stop"
	case oneOf(ipa, "f", "v", "s", "z", "ʃ", "ʒ", "ɕ", "ʑ", "x", "h", "sʰ"):
		return "fricative"
	case oneOf(ipa, "m", "n", "ɲ", "ŋ"):
		return "nasal"
	case oneOf(ipa, "l", "r", "w"):
		return "liquid"
	case oneOf(ipa, "ʧ", "ʤ", "ʦ", "ʣ"):
		return "affricate"
	}
	return "other"
}

// placeOf classifies a consonant by its IPA value.
func placeOf(ipa string) string {
	switch {
	case oneOf(ipa, "p", "b", "m"):
		return "bilabial"
	case oneOf(ipa, "f", "v"):
		return "labiodental"
	case oneOf(ipa, "t", "d", "s", "z", "n", "l", "r", "ʦ", "ʣ"):
		return "alveolar"
	case oneOf(ipa, "ʃ", "ʒ", "ʧ", "ʤ", "ɕ", "ʑ"):
		return "postalveolar"
	case oneOf(ipa, "k", "g", "x", "ɲ", "ŋ"):
		return "velar"
	}
	return "other"
}

func isVoiced(ipa string) bool {
	return oneOf(ipa, "b", "d", "g", "v", "z", "ʒ", "ʑ", "m", "n", "ɲ", "ŋ", "l", "r", "w", "ʤ", "ʣ")
}

func oneOf(s string, set ...string) bool {
	for _, v := range set {
		if s == v {
			return true
		}
	}
	return false
}

// Inventory gives read-only access to one script's phonemes in a fixed,
// reproducible order.
type Inventory struct {
	script     Script
	consonants []Phoneme
	vowels     []Phoneme
	codas      []string
}

var (
	hangulInventory = buildInventory(ScriptHangul)
	latinInventory  = buildInventory(ScriptLatin)
)

func buildInventory(script Script) *Inventory {
	inv := &Inventory{script: script}
	var consOrder, vowelOrder []string
	var consIPA, vowelIPA map[string]string
	if script == ScriptHangul {
		consOrder, consIPA = hangulConsonantOrder, hangulConsonantIPA
		vowelOrder, vowelIPA = hangulVowelOrder, hangulVowelIPA
		inv.codas = hangulCodaOrder
	} else {
		consOrder, consIPA = latinConsonantOrder, latinConsonantIPA
		vowelOrder, vowelIPA = latinVowelOrder, latinVowelIPA
		inv.codas = latinCodaOrder
	}
	for _, sym := range consOrder {
		ipa := consIPA[sym]
		inv.consonants = append(inv.consonants, Phoneme{
			Symbol: sym, IPA: ipa, Script: script,
			Manner: mannerOf(ipa), Place: placeOf(ipa), Voiced: isVoiced(ipa),
		})
	}
	for _, sym := range vowelOrder {
		inv.vowels = append(inv.vowels, Phoneme{
			Symbol: sym, IPA: vowelIPA[sym], Script: script,
			Manner: "vowel", Voiced: true,
		})
	}
	return inv
}

// InventoryFor returns the process-wide inventory for a script.
func InventoryFor(script Script) *Inventory {
	if script == ScriptHangul {
		return hangulInventory
	}
	return latinInventory
}

// Consonants returns the script's consonant phonemes in draw order.
func (inv *Inventory) Consonants() []Phoneme { return inv.consonants }

// Vowels returns the script's vowel phonemes in draw order.
func (inv *Inventory) Vowels() []Phoneme { return inv.vowels }

// Codas returns the script's permitted coda symbols in draw order.
func (inv *Inventory) Codas() []string { return inv.codas }
