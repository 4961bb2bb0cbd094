// Copyright (C) 2026 Zyntalic Project (dev@zyntalic.org)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding attribution requirements.

// Package translator orchestrates the Zyntalic synthesis pipeline:
// sentence splitting, anchor weighting, syntactic linearization, and
// per-slot word synthesis with morphological inflection.
//
// The pipeline is purely synchronous and allocates all per-call state
// (seeded generators, parses, lexicon snapshot) inside the call, so
// concurrent translations need no locking. Same input, mirror rate, and
// engine always produce byte-identical records.
package translator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/zyntalic/zyntalic/services/language/anchors"
	"github.com/zyntalic/zyntalic/services/language/lexicon"
)

// Engine names the rendering strategies.
const (
	EngineCore        = "core"
	EngineChiasmus    = "chiasmus"
	EngineTransformer = "transformer"
)

var (
	// ErrMirrorRateRange is returned for mirror rates outside [0, 1].
	ErrMirrorRateRange = errors.New("translator: mirror rate must be in [0, 1]")

	// ErrUnknownEngine is returned for engine names outside the closed
	// set.
	ErrUnknownEngine = errors.New("translator: unknown engine")

	// ErrEmptyText is returned when the single-sentence entry point is
	// handed blank input.
	ErrEmptyText = errors.New("translator: empty text")
)

// Record is the externally visible unit of work: one translated
// sentence. Immutable once returned.
//
// Engine names the strategy that actually produced Target. When an
// alternate engine fails and the baseline takes over for a sentence,
// Engine reports "core", making the fallback visible to callers.
type Record struct {
	Source  string                 `json:"source"`
	Target  string                 `json:"target"`
	Lemma   string                 `json:"lemma"`
	Anchors []anchors.AnchorWeight `json:"anchors"`
	Engine  string                 `json:"engine"`
}

// Translator drives the synthesis pipeline.
//
// # Thread Safety
//
// Safe for concurrent use. The weigher and lexicon store are read-only
// or snapshot-based; everything else is allocated per call.
type Translator struct {
	weigher  *anchors.Weigher
	lexicons *lexicon.Store
	logger   *slog.Logger
}

// New creates a Translator. The lexicon store may be nil when no anchor
// lexicons are available; logger nil selects slog.Default.
func New(weigher *anchors.Weigher, lexicons *lexicon.Store, logger *slog.Logger) (*Translator, error) {
	if weigher == nil {
		return nil, fmt.Errorf("%w: weigher is nil", anchors.ErrInvalidInput)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Translator{weigher: weigher, lexicons: lexicons, logger: logger}, nil
}

// Weigher exposes the anchor weigher for collaborators (HTTP handlers,
// CLI inspection).
func (t *Translator) Weigher() *anchors.Weigher { return t.weigher }

// ValidEngine reports whether name is in the closed engine set.
func ValidEngine(name string) bool {
	switch name {
	case EngineCore, EngineChiasmus, EngineTransformer:
		return true
	}
	return false
}

// TranslateText translates multi-sentence text into one record per
// non-empty sentence.
//
// # Description
//
// Validates parameters up front (typed usage errors before any
// synthesis work), splits on terminal punctuation, filters empty
// sentences, and renders each with the requested engine. Alternate
// engine failures fall back to the baseline for that one sentence.
func (t *Translator) TranslateText(ctx context.Context, text string, mirrorRate float64, engine string) ([]Record, error) {
	if err := validateParams(mirrorRate, engine); err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return []Record{}, nil
	}

	var records []Record
	for _, sentence := range SplitSentences(text) {
		if strings.TrimSpace(sentence) == "" {
			continue
		}
		rec := t.renderSentence(ctx, sentence, mirrorRate, engine)
		records = append(records, rec)
	}
	return records, nil
}

// TranslateSentence translates a single sentence. Blank input is a
// usage error here; multi-sentence callers filter upstream instead.
func (t *Translator) TranslateSentence(ctx context.Context, text string, mirrorRate float64, engine string) (Record, error) {
	if err := validateParams(mirrorRate, engine); err != nil {
		return Record{}, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Record{}, ErrEmptyText
	}
	return t.renderSentence(ctx, text, mirrorRate, engine), nil
}

// renderSentence runs the requested engine, falling back to the
// baseline when an alternate engine fails. The returned record's Engine
// field names the engine that actually rendered.
func (t *Translator) renderSentence(ctx context.Context, sentence string, mirrorRate float64, engine string) Record {
	src := strings.TrimSpace(sentence)
	lemma := Lemma(src)
	snap := t.snapshot()

	if engine != EngineCore {
		rec, err := t.renderAlternate(ctx, src, lemma, mirrorRate, engine, snap)
		if err == nil {
			return rec
		}
		t.logger.Warn("engine failed, falling back to core",
			"engine", engine, "error", err)
	}

	return t.renderCore(ctx, src, lemma, mirrorRate, snap)
}

func (t *Translator) renderAlternate(ctx context.Context, src, lemma string, mirrorRate float64, engine string, snap lexicon.Snapshot) (Record, error) {
	switch engine {
	case EngineChiasmus:
		return t.renderChiasmus(ctx, src, lemma, mirrorRate, snap)
	case EngineTransformer:
		return t.renderTransformer(ctx, src, lemma, mirrorRate, snap)
	default:
		return Record{}, fmt.Errorf("%w: %q", ErrUnknownEngine, engine)
	}
}

func (t *Translator) snapshot() lexicon.Snapshot {
	if t.lexicons == nil {
		return lexicon.Snapshot{}
	}
	return t.lexicons.Snapshot()
}

func validateParams(mirrorRate float64, engine string) error {
	if mirrorRate < 0 || mirrorRate > 1 {
		return fmt.Errorf("%w: got %v", ErrMirrorRateRange, mirrorRate)
	}
	if !ValidEngine(engine) {
		return fmt.Errorf("%w: %q", ErrUnknownEngine, engine)
	}
	return nil
}

// SplitSentences splits text after terminal punctuation (., !, ?)
// followed by whitespace. The punctuation stays with its sentence.
func SplitSentences(text string) []string {
	var out []string
	var buf strings.Builder
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		buf.WriteRune(runes[i])
		if isTerminal(runes[i]) && (i+1 >= len(runes) || unicode.IsSpace(runes[i+1])) {
			out = append(out, strings.TrimSpace(buf.String()))
			buf.Reset()
		}
	}
	if rest := strings.TrimSpace(buf.String()); rest != "" {
		out = append(out, rest)
	}
	return out
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// Lemma extracts the first normalized content word: lowercase with
// everything but letters, digits, apostrophes, and hyphens stripped.
func Lemma(text string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' || r == '-' {
			b.WriteRune(r)
			continue
		}
		b.WriteRune(' ')
	}
	fields := strings.Fields(b.String())
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
