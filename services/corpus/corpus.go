// Copyright (C) 2026 Zyntalic Project (dev@zyntalic.org)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding attribution requirements.

// Package corpus ingests anchor source texts: cleaning extracted text,
// chunking it, embedding the chunks, and persisting them to a vector
// store. The stored corpus backs anchor weighting with real literary
// vocabulary instead of bare anchor names.
package corpus

import (
	"crypto/sha256"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/tmc/langchaingo/textsplitter"
)

// Default chunking geometry. Overlap is 10% of the chunk size, matching
// what retrieval quality needs for prose.
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 100
)

// Chunk is one embedded slice of an anchor text.
type Chunk struct {
	ID       strfmt.UUID `json:"id"`
	Document string      `json:"document"`
	Anchor   string      `json:"anchor"`
	Index    int         `json:"index"`
	Text     string      `json:"text"`
	Vector   []float32   `json:"-"`
}

// ChunkID derives a deterministic UUID from chunk content, so
// re-ingesting the same text overwrites rather than duplicates.
func ChunkID(text string) strfmt.UUID {
	hash := sha256.Sum256([]byte(text))
	id, _ := uuid.FromBytes(hash[:16])
	return strfmt.UUID(id.String())
}

var (
	hyphenBreak = regexp.MustCompile(`(\p{L})-\n(\p{L})`)
	spaceRuns   = regexp.MustCompile(`[ \t]+`)
	newlineRuns = regexp.MustCompile(`\n{3,}`)
	trailingWS  = regexp.MustCompile(`(?m)[ \t]+$`)

	// Structural PDF leftovers that survive naive text extraction:
	// the version header, info-dictionary entries, object framing,
	// dictionaries, embedded calibre-style URLs, and the xref
	// trailer. startxref must precede xref in the alternation so the
	// whole token is consumed.
	pdfMetadata = regexp.MustCompile(`(?i)%PDF-[\d.]+` +
		`|/(?:Author|Creator|Producer|Title|Subject|Keywords|CreationDate|ModDate)\([^)]*\)` +
		`|\d+ \d+ obj|\bendobj\b|<<[^>]*>>|\[http://[^\]]*\]` +
		`|\bstartxref\b|\bxref\b|\btrailer\b|%%EOF`)
	pdfStream = regexp.MustCompile(`(?is)\bstream\b\s*.*?\s*\bendstream\b`)

	// Lines with no letters at all: page numbers and the punctuation
	// residue metadata stripping leaves behind.
	junkLine = regexp.MustCompile(`(?m)^[^\p{L}\n]+$`)
)

// CleanText normalizes text extracted from scanned or PDF sources:
// strips PDF metadata and stream blocks, rejoins words hyphenated
// across line breaks, drops page-number and punctuation-only lines,
// removes control and replacement characters, and collapses whitespace
// runs.
func CleanText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = pdfStream.ReplaceAllString(text, "")
	text = pdfMetadata.ReplaceAllString(text, "")
	text = hyphenBreak.ReplaceAllString(text, "$1$2")

	var b strings.Builder
	for _, r := range text {
		if r == '�' {
			continue
		}
		if r == '\n' || r == '\t' || !unicode.IsControl(r) {
			b.WriteRune(r)
		}
	}
	text = b.String()

	text = junkLine.ReplaceAllString(text, "")
	text = spaceRuns.ReplaceAllString(text, " ")
	text = trailingWS.ReplaceAllString(text, "")
	text = newlineRuns.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// Splitter chunks cleaned text for embedding.
type Splitter struct {
	inner textsplitter.TextSplitter
}

// NewSplitter creates a recursive-character splitter. Non-positive
// arguments select the defaults.
func NewSplitter(chunkSize, chunkOverlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if chunkOverlap <= 0 {
		chunkOverlap = DefaultChunkOverlap
	}
	return &Splitter{
		inner: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(chunkSize),
			textsplitter.WithChunkOverlap(chunkOverlap),
			textsplitter.WithSeparators([]string{"\n\n", "\n", " ", ""}),
		),
	}
}

// Split chunks text. Empty input yields no chunks.
func (s *Splitter) Split(text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	return s.inner.SplitText(text)
}
