// Copyright (C) 2026 Zyntalic Project (dev@zyntalic.org)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding attribution requirements.

package anchors

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/zyntalic/zyntalic/services/language/lexicon"
)

// DefaultAnchorNames is the fixed anchor set: literary works whose
// embeddings bias lexical choice toward the semantically closest
// cultural reference.
var DefaultAnchorNames = []string{
	"Homer_Iliad",
	"Homer_Odyssey",
	"Plato_Republic",
	"Shakespeare_Sonnets",
	"Austen_PridePrejudice",
	"Darwin_OriginOfSpecies",
	"Dante_DivineComedy",
	"Descartes_Meditations",
	"Spinoza_Ethics",
	"Goethe_Faust",
}

// DefaultTopK is how many ranked anchors a Weigh call returns.
const DefaultTopK = 3

// rankDecay scales each rank's share before renormalization, so the
// first anchor keeps majority weight and each subsequent one strictly
// less.
var rankDecay = []float64{1.0, 0.6, 0.36}

// Anchor is one reference work with its precomputed embedding.
// Immutable after the weigher is built.
type Anchor struct {
	Name   string
	Vector []float32
}

// AnchorWeight is one ranked anchor with its normalized weight.
type AnchorWeight struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// Weigher ranks the anchor set against input text.
//
// # Description
//
// Anchor vectors are computed once at construction over representative
// vocabulary: five adjectives, five nouns, and five verbs from the
// anchor's lexicon when one exists, else the anchor's name. Weigh embeds
// the input with the same encoder and ranks anchors by cosine
// similarity.
//
// # Thread Safety
//
// Safe for concurrent use after New returns; all state is read-only.
type Weigher struct {
	encoder Encoder
	anchors []Anchor
	topK    int
}

// New builds a weigher over the default anchor set.
//
// The encoder is fixed for the weigher's lifetime; lexicons supply the
// representative vocabulary for anchor vectors.
func New(ctx context.Context, encoder Encoder, lexicons lexicon.Snapshot) (*Weigher, error) {
	return NewWithAnchors(ctx, encoder, lexicons, DefaultAnchorNames)
}

// NewWithAnchors builds a weigher over a caller-chosen anchor set.
func NewWithAnchors(ctx context.Context, encoder Encoder, lexicons lexicon.Snapshot, names []string) (*Weigher, error) {
	if encoder == nil {
		return nil, fmt.Errorf("%w: encoder is nil", ErrInvalidInput)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: anchor set is empty", ErrInvalidInput)
	}

	w := &Weigher{encoder: encoder, topK: DefaultTopK}
	for _, name := range names {
		text := representativeText(name, lexicons)
		vec, err := encoder.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embed anchor %s: %w", name, err)
		}
		w.anchors = append(w.anchors, Anchor{Name: name, Vector: vec})
	}
	return w, nil
}

// representativeText samples up to five words per category from the
// anchor's lexicon, falling back to the anchor's name with underscores
// spaced out.
func representativeText(name string, lexicons lexicon.Snapshot) string {
	lex, ok := lexicons.Get(name)
	if !ok || lex.Empty() {
		return strings.ReplaceAll(name, "_", " ")
	}
	var words []string
	words = append(words, headOf(lex.Adjectives, 5)...)
	words = append(words, headOf(lex.Nouns, 5)...)
	words = append(words, headOf(lex.Verbs, 5)...)
	return strings.Join(words, " ")
}

func headOf(words []string, n int) []string {
	if len(words) < n {
		n = len(words)
	}
	return words[:n]
}

// Encoder returns the weigher's fixed backend.
func (w *Weigher) Encoder() Encoder { return w.encoder }

// Anchors returns the anchor inventory in construction order.
func (w *Weigher) Anchors() []Anchor { return w.anchors }

// Weigh embeds text and returns its vector plus the top-k anchors with
// normalized decaying weights.
//
// Ranking ties break by anchor name so identical text always yields an
// identical list. Weights are non-increasing by rank and sum to 1 (up
// to float rounding), never more.
func (w *Weigher) Weigh(ctx context.Context, text string) ([]float32, []AnchorWeight, error) {
	return w.WeighTopK(ctx, text, w.topK)
}

// WeighTopK is Weigh with a caller-chosen k.
func (w *Weigher) WeighTopK(ctx context.Context, text string, k int) ([]float32, []AnchorWeight, error) {
	if ctx == nil {
		return nil, nil, ErrInvalidInput
	}
	if strings.TrimSpace(text) == "" {
		return nil, nil, fmt.Errorf("%w: text is empty", ErrInvalidInput)
	}
	if k <= 0 || k > len(w.anchors) {
		k = len(w.anchors)
	}

	vec, err := w.encoder.Embed(ctx, text)
	if err != nil {
		return nil, nil, fmt.Errorf("embed text: %w", err)
	}

	type scored struct {
		name string
		sim  float64
	}
	scores := make([]scored, 0, len(w.anchors))
	for _, a := range w.anchors {
		scores = append(scores, scored{name: a.Name, sim: CosineSimilarity(vec, a.Vector)})
	}
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].sim != scores[j].sim {
			return scores[i].sim > scores[j].sim
		}
		return scores[i].name < scores[j].name
	})

	top := scores[:k]
	weights := make([]AnchorWeight, 0, k)
	var total float64
	for i, s := range top {
		decay := rankDecay[min(i, len(rankDecay)-1)]
		share := math.Max(s.sim, 0) * decay
		// Degenerate similarities still need a strictly decreasing
		// weight sequence.
		if share <= 0 {
			share = decay * 1e-9
		}
		weights = append(weights, AnchorWeight{Name: s.name, Weight: share})
		total += share
	}
	for i := range weights {
		weights[i].Weight /= total
	}
	return vec, weights, nil
}

// CosineSimilarity computes the cosine of the angle between two vectors.
// Mismatched lengths or zero vectors score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0.0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0.0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// NewEncoder selects the backend at process start: the HTTP service if
// serviceURL is set and healthy, else the OpenAI-compatible API if a key
// is configured, else the deterministic hash fallback. The choice is
// logged and then fixed for the run; encoder absence is never an error.
func NewEncoder(ctx context.Context, serviceURL, apiKey, apiBaseURL string, logger *slog.Logger) Encoder {
	if logger == nil {
		logger = slog.Default()
	}
	if serviceURL != "" {
		enc, err := NewHTTPEncoder(ctx, serviceURL)
		if err == nil {
			logger.Info("using HTTP encoder", "url", serviceURL, "dim", enc.Dim())
			return enc
		}
		logger.Warn("embedding service unavailable, trying next backend", "url", serviceURL, "error", err)
	}
	if apiKey != "" {
		enc, err := NewOpenAIEncoder(ctx, apiKey, apiBaseURL)
		if err == nil {
			logger.Info("using OpenAI-compatible encoder", "dim", enc.Dim())
			return enc
		}
		logger.Warn("OpenAI-compatible encoder unavailable, using hash fallback", "error", err)
	}
	logger.Info("using deterministic hash encoder", "dim", FallbackDim)
	return NewHashEncoder(FallbackDim)
}
