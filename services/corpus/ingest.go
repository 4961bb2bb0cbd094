// Copyright (C) 2026 Zyntalic Project (dev@zyntalic.org)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding attribution requirements.

package corpus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/zyntalic/zyntalic/services/language/anchors"
)

// DefaultEmbedConcurrency bounds parallel embedding calls against the
// encoder backend.
const DefaultEmbedConcurrency = 4

// IngestResult summarizes one ingestion run.
type IngestResult struct {
	Document string `json:"document"`
	Anchor   string `json:"anchor"`
	Chunks   int    `json:"chunks"`
	Stored   int    `json:"stored"`
}

// Ingestor runs the clean-split-embed-store pipeline.
//
// # Thread Safety
//
// Safe for concurrent use; per-run state lives on the stack.
type Ingestor struct {
	encoder     anchors.Encoder
	store       Store
	splitter    *Splitter
	logger      *slog.Logger
	concurrency int
}

// NewIngestor builds an ingestor with default chunking geometry.
func NewIngestor(encoder anchors.Encoder, store Store, logger *slog.Logger) (*Ingestor, error) {
	if encoder == nil {
		return nil, errors.New("corpus: encoder must not be nil")
	}
	if store == nil {
		return nil, errors.New("corpus: store must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Ingestor{
		encoder:     encoder,
		store:       store,
		splitter:    NewSplitter(DefaultChunkSize, DefaultChunkOverlap),
		logger:      logger,
		concurrency: DefaultEmbedConcurrency,
	}, nil
}

// WithSplitter replaces the default chunking geometry. Call before the
// first Ingest.
func (in *Ingestor) WithSplitter(s *Splitter) *Ingestor {
	if s != nil {
		in.splitter = s
	}
	return in
}

// Ingest cleans and chunks content, embeds every chunk, and stores the
// result under the given document name and anchor.
//
// Embedding runs with bounded parallelism; the first failure cancels
// the remaining work. Content that cleans down to nothing returns an
// empty result, not an error.
func (in *Ingestor) Ingest(ctx context.Context, document, anchor, content string) (IngestResult, error) {
	result := IngestResult{Document: document, Anchor: anchor}
	if document == "" {
		return result, errors.New("corpus: document name must not be empty")
	}

	cleaned := CleanText(content)
	texts, err := in.splitter.Split(cleaned)
	if err != nil {
		return result, fmt.Errorf("split %s: %w", document, err)
	}
	if len(texts) == 0 {
		in.logger.Warn("no chunks produced", "document", document)
		return result, nil
	}
	result.Chunks = len(texts)

	chunks := make([]Chunk, len(texts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(in.concurrency)
	for i, text := range texts {
		g.Go(func() error {
			vec, err := in.encoder.Embed(gctx, text)
			if err != nil {
				return fmt.Errorf("embed chunk %d: %w", i, err)
			}
			chunks[i] = Chunk{
				ID:       ChunkID(text),
				Document: document,
				Anchor:   anchor,
				Index:    i,
				Text:     text,
				Vector:   vec,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return result, fmt.Errorf("ingest %s: %w", document, err)
	}

	stored, err := in.store.PutChunks(ctx, chunks)
	if err != nil {
		return result, fmt.Errorf("store %s: %w", document, err)
	}
	result.Stored = stored

	in.logger.Info("ingested document",
		"document", document, "anchor", anchor,
		"chunks", result.Chunks, "stored", result.Stored)
	return result, nil
}
