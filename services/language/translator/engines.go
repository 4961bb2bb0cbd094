// Copyright (C) 2026 Zyntalic Project (dev@zyntalic.org)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding attribution requirements.

package translator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/zyntalic/zyntalic/services/language/anchors"
	"github.com/zyntalic/zyntalic/services/language/lexicon"
	"github.com/zyntalic/zyntalic/services/language/morphology"
	"github.com/zyntalic/zyntalic/services/language/phonology"
	"github.com/zyntalic/zyntalic/services/language/seed"
	"github.com/zyntalic/zyntalic/services/language/syntax"
)

// ErrEngineUnavailable is returned by an alternate engine that cannot
// render the given sentence; the caller falls back to the baseline.
var ErrEngineUnavailable = errors.New("translator: engine unavailable")

// transformerTopK is the anchor count for the transformer engine, with
// its fixed weight split.
const transformerTopK = 2

var transformerWeights = []float64{0.7, 0.3}

// slots holds the rendered surface forms of one sentence before
// linearization. Engines share slot construction and differ only in how
// they compose the final word order.
type slots struct {
	subject  string
	object   string
	verb     string
	contexts []string
	tail     string
	args     int
	clause   string
}

// renderCore is the baseline engine: S-O-V order, context clauses, and
// the structured tail.
func (t *Translator) renderCore(ctx context.Context, src, lemma string, mirrorRate float64, snap lexicon.Snapshot) Record {
	weights := t.weigh(ctx, src)
	ps := syntax.Parse(src)
	g := seed.New("sent:" + EngineCore + ":" + src)
	sl := t.buildSlots(g, lemma, mirrorRate, weights, ps, snap)

	parts := appendNonEmpty(nil, sl.subject, sl.object, sl.verb)
	parts = append(parts, sl.contexts...)
	parts = append(parts, sl.tail)

	return Record{
		Source:  src,
		Target:  strings.Join(parts, " "),
		Lemma:   lemma,
		Anchors: weights,
		Engine:  EngineCore,
	}
}

// renderChiasmus mirrors the subject and object phrases around the
// clause (A B V ... B A), a stylized echo of the baseline order. It
// needs both phrases present; sentences without an object cannot be
// mirrored and report ErrEngineUnavailable.
func (t *Translator) renderChiasmus(ctx context.Context, src, lemma string, mirrorRate float64, snap lexicon.Snapshot) (Record, error) {
	ps := syntax.Parse(src)
	if strings.TrimSpace(ps.Subject) == "" || strings.TrimSpace(ps.Object) == "" {
		return Record{}, fmt.Errorf("%w: chiasmus needs both subject and object", ErrEngineUnavailable)
	}

	weights := t.weigh(ctx, src)
	g := seed.New("sent:" + EngineChiasmus + ":" + src)
	sl := t.buildSlots(g, lemma, mirrorRate, weights, ps, snap)

	parts := appendNonEmpty(nil, sl.subject, sl.object, sl.verb)
	parts = append(parts, sl.contexts...)
	parts = append(parts, sl.object, sl.subject, sl.tail)

	return Record{
		Source:  src,
		Target:  strings.Join(parts, " "),
		Lemma:   lemma,
		Anchors: weights,
		Engine:  EngineChiasmus,
	}, nil
}

// renderTransformer renders with a narrowed anchor field: the top two
// anchors at a fixed 0.7/0.3 split. It requires a learned encoder; with
// only the hash fallback available the narrowed ranking is noise, so
// the engine declines and the baseline takes over.
func (t *Translator) renderTransformer(ctx context.Context, src, lemma string, mirrorRate float64, snap lexicon.Snapshot) (Record, error) {
	if !anchors.Learned(t.weigher.Encoder()) {
		return Record{}, fmt.Errorf("%w: transformer needs a learned encoder, have %s",
			ErrEngineUnavailable, t.weigher.Encoder().Name())
	}

	_, weights, err := t.weigher.WeighTopK(ctx, src, transformerTopK)
	if err != nil {
		return Record{}, fmt.Errorf("%w: weigh: %v", ErrEngineUnavailable, err)
	}
	for i := range weights {
		if i < len(transformerWeights) {
			weights[i].Weight = transformerWeights[i]
		}
	}

	ps := syntax.Parse(src)
	g := seed.New("sent:" + EngineTransformer + ":" + src)
	sl := t.buildSlots(g, lemma, mirrorRate, weights, ps, snap)

	parts := appendNonEmpty(nil, sl.subject, sl.object, sl.verb)
	parts = append(parts, sl.contexts...)
	parts = append(parts, sl.tail)

	return Record{
		Source:  src,
		Target:  strings.Join(parts, " "),
		Lemma:   lemma,
		Anchors: weights,
		Engine:  EngineTransformer,
	}, nil
}

// weigh runs the anchor weigher, degrading to an empty anchor list when
// the embedding backend fails. Synthesis still proceeds; the seed
// stream simply loses its anchor bias.
func (t *Translator) weigh(ctx context.Context, src string) []anchors.AnchorWeight {
	_, weights, err := t.weigher.Weigh(ctx, src)
	if err != nil {
		t.logger.Warn("anchor weighting failed, continuing without anchors", "error", err)
		return []anchors.AnchorWeight{}
	}
	return weights
}

// buildSlots renders every slot of the parse: noun phrases inflected
// for case and number, the verb inflected for tense, context clauses
// with their marker equivalents, and the structured tail.
func (t *Translator) buildSlots(g *seed.Generator, lemma string, mirrorRate float64, weights []anchors.AnchorWeight, ps syntax.ParsedSentence, snap lexicon.Snapshot) slots {
	sl := slots{
		subject: t.renderNounPhrase(g, ps.Subject, ps.SubjPlural, morphology.Nominative, mirrorRate, weights, snap),
		object:  t.renderNounPhrase(g, ps.Object, ps.ObjPlural, morphology.Accusative, mirrorRate, weights, snap),
		verb:    t.renderVerb(g, ps.Verb, ps.Tense, mirrorRate, weights, snap),
		clause:  "main",
	}
	for _, c := range ps.Contexts {
		sl.contexts = append(sl.contexts, t.renderContext(g, c, mirrorRate, weights, snap))
	}
	if len(sl.contexts) > 0 {
		sl.clause = "complex"
	}

	sl.args = len(appendNonEmpty(nil, sl.subject, sl.object))

	tg := seed.New("tail:" + lemma)
	hanTail := phonology.CreateHangulSyllable(tg) + phonology.CreateHangulSyllable(tg)
	sl.tail = syntax.RenderTail(hanTail, Lemma(ps.Verb), sl.args, sl.clause)
	return sl
}

// renderNounPhrase renders each token of a noun phrase and inflects the
// head (final) word. Synthesized heads take the full case/number
// morphology; retained source heads only get the plural suffix, staying
// recognizable as scaffolding.
func (t *Translator) renderNounPhrase(g *seed.Generator, phrase string, plural bool, c morphology.Case, mirrorRate float64, weights []anchors.AnchorWeight, snap lexicon.Snapshot) string {
	tokens := syntax.Tokenize(phrase)
	if len(tokens) == 0 {
		return ""
	}

	words := make([]string, len(tokens))
	synthesized := make([]bool, len(tokens))
	for i, tok := range tokens {
		words[i], synthesized[i] = t.renderToken(g, tok, phonology.POSNoun, mirrorRate, weights, snap)
	}

	head := len(words) - 1
	number := morphology.Singular
	if plural {
		number = morphology.Plural
	}
	if synthesized[head] {
		if infl, err := morphology.InflectNoun(words[head], c, number); err == nil {
			words[head] = morphology.AssimilateBoundary(infl.Surface)
		}
	} else if plural {
		words[head] = syntax.Pluralize(words[head])
	}
	return strings.Join(words, " ")
}

// renderVerb renders the verb slot. Synthesized verbs take the full
// tense/aspect morphology; retained source verbs get the light surface
// tense marks.
func (t *Translator) renderVerb(g *seed.Generator, verb string, tense syntax.Tense, mirrorRate float64, weights []anchors.AnchorWeight, snap lexicon.Snapshot) string {
	verb = strings.TrimSpace(verb)
	if verb == "" {
		return ""
	}

	word, synth := t.renderToken(g, verb, phonology.POSVerb, mirrorRate, weights, snap)
	if !synth {
		return syntax.MarkTense(word, tense)
	}
	infl, err := morphology.InflectVerb(word, morphTense(tense), morphology.Imperfective, "")
	if err != nil {
		return word
	}
	return morphology.AssimilateBoundary(infl.Surface)
}

// renderContext renders one context clause: the marker's fixed target
// equivalent (or a synthesized stand-in for markers outside the table)
// followed by the rendered clause content.
func (t *Translator) renderContext(g *seed.Generator, c syntax.ContextClause, mirrorRate float64, weights []anchors.AnchorWeight, snap lexicon.Snapshot) string {
	marker, ok := syntax.MarkerTarget(c.Marker)
	if !ok {
		marker = phonology.GenerateWord("ctx:"+c.Marker, phonology.Options{Syllables: 2})
	}

	tokens := syntax.Tokenize(c.Content)
	words := make([]string, 0, len(tokens)+1)
	words = append(words, marker)
	for _, tok := range tokens {
		w, _ := t.renderToken(g, tok, phonology.POSNoun, mirrorRate, weights, snap)
		words = append(words, w)
	}
	return strings.Join(words, " ")
}

// renderToken renders one source token: with probability mirrorRate the
// source word is retained as scaffolding, otherwise a Zyntalic word is
// synthesized. The synthesis seed combines the anchor draw (weighted by
// the sentence's anchor field, optionally blended with a lexicon entry)
// and the source token, so the same word under the same anchors always
// renders identically.
func (t *Translator) renderToken(g *seed.Generator, token string, pos phonology.PartOfSpeech, mirrorRate float64, weights []anchors.AnchorWeight, snap lexicon.Snapshot) (string, bool) {
	if g.Chance(mirrorRate) {
		return token, false
	}

	low := strings.ToLower(token)
	key := t.anchorKey(g, pos, weights, snap) + "|" + low
	word := phonology.GenerateWord(key, phonology.Options{
		Syllables: phonology.SyllableCountFor(low),
		POS:       pos,
	})
	return word, true
}

// anchorKey draws one anchor from the weighted field and returns the
// seed prefix for word synthesis. When the drawn anchor carries a
// lexicon, half the time a vocabulary word joins the key, pulling the
// synthesized form toward that anchor's register.
func (t *Translator) anchorKey(g *seed.Generator, pos phonology.PartOfSpeech, weights []anchors.AnchorWeight, snap lexicon.Snapshot) string {
	if len(weights) == 0 {
		return "none"
	}

	draw := g.Float64()
	name := weights[len(weights)-1].Name
	var cum float64
	for _, w := range weights {
		cum += w.Weight
		if draw < cum {
			name = w.Name
			break
		}
	}

	lex, ok := snap.Get(name)
	if !ok {
		return name
	}
	var vocab []string
	switch pos {
	case phonology.POSVerb:
		vocab = lex.Verbs
	default:
		vocab = lex.Nouns
	}
	if len(vocab) == 0 || !g.Chance(0.5) {
		return name
	}
	return name + ":" + vocab[g.Intn(len(vocab))]
}

func morphTense(t syntax.Tense) morphology.Tense {
	switch t {
	case syntax.Past:
		return morphology.Past
	case syntax.Future:
		return morphology.Future
	default:
		return morphology.Present
	}
}

func appendNonEmpty(parts []string, more ...string) []string {
	for _, p := range more {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, p)
		}
	}
	return parts
}
